package kapsule

import (
	"fmt"
	"reflect"
	"runtime"
	"strings"
)

// Key is the canonical, comparable identity used by the binding table and
// the instance cache. Any identifiable resolves to exactly one Key.
type Key string

// ResolveKey converts an identifiable into its canonical Key. It is pure
// and deterministic. Precedence, first match wins:
//
//  1. string — the string itself.
//  2. Key — already canonical.
//  3. Token — the process-wide atom for the token's description (or the
//     wrapped injectable's derived name when no description was given).
//  4. reflect.Type — the declared type name, pointers unwrapped.
//  5. func — the declared function name, package path and receiver
//     stripped.
//  6. fmt.Stringer — the string conversion.
//  7. anything else — the runtime type name, pointers unwrapped.
//
// Two identifiables that derive the same name collide on the same key.
// This is intentional (it allows duck-typed re-binding) and a documented
// hazard for same-named types from different packages; use Token when
// names are ambiguous.
func ResolveKey(identifiable any) (Key, error) {
	switch id := identifiable.(type) {
	case nil:
		return "", KeyResolutionError{Identifiable: nil, Reason: "injectable is nil"}
	case string:
		if id == "" {
			return "", KeyResolutionError{Identifiable: id, Reason: "injectable is an empty string"}
		}
		return Key(id), nil
	case Key:
		if id == "" {
			return "", KeyResolutionError{Identifiable: id, Reason: "injectable is an empty key"}
		}
		return id, nil
	case Token:
		return id.resolveKey()
	case reflect.Type:
		return keyFromName(identifiable, typeName(id))
	}

	v := reflect.ValueOf(identifiable)
	if v.Kind() == reflect.Func {
		if v.IsNil() {
			return "", KeyResolutionError{Identifiable: identifiable, Reason: "injectable is a nil function"}
		}
		return keyFromName(identifiable, funcName(v))
	}

	if s, ok := identifiable.(fmt.Stringer); ok {
		return keyFromName(identifiable, s.String())
	}

	return keyFromName(identifiable, typeName(v.Type()))
}

// keyFromName wraps a derived name into a Key, rejecting empty names.
func keyFromName(identifiable any, name string) (Key, error) {
	if name == "" {
		return "", KeyResolutionError{Identifiable: identifiable, Reason: "injectable has no derivable name"}
	}
	return Key(name), nil
}

// typeName returns the declared name of t, unwrapping pointer types.
// Unnamed types fall back to their type expression.
func typeName(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if name := t.Name(); name != "" {
		return name
	}
	return t.String()
}

// funcName returns the bare declared name of a function value:
// "github.com/acme/pkg.NewThing" becomes "NewThing", method values lose
// their receiver and the "-fm" suffix.
func funcName(v reflect.Value) string {
	fn := runtime.FuncForPC(v.Pointer())
	if fn == nil {
		return ""
	}

	name := fn.Name()
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	name = strings.TrimSuffix(name, "-fm")
	return name
}
