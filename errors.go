package kapsule

import (
	"errors"
	"fmt"
	"reflect"
)

// ========================================
// Core Error Values (Sentinel Errors)
// ========================================
// These are base errors that typed errors wrap. Match on them with
// errors.Is; the typed errors carry the per-call context.

var (
	// ErrNilInjectable indicates an identifiable that cannot yield a key.
	ErrNilInjectable = errors.New("injectable cannot be nil or empty")

	// ErrBindingNotFound indicates no binding exists for a key, locally or
	// in any sub-module.
	ErrBindingNotFound = errors.New("binding not found")

	// ErrInvalidBinding indicates a malformed Bind call.
	ErrInvalidBinding = errors.New("invalid binding")
)

var (
	_ error = KeyResolutionError{}
	_ error = InvalidBindingError{}
	_ error = UnresolvedBindingError{}
	_ error = TypeMismatchError{}
)

// msgNotConstructable is the observable contract string for array-of-deps
// binds whose target cannot be invoked. Tests assert on it verbatim.
const msgNotConstructable = "Array of dependencies requires a constructable injectable"

// KeyResolutionError indicates an identifiable could not be converted into
// a lookup key. Raised for nil identifiables and empty names.
type KeyResolutionError struct {
	Identifiable any
	Reason       string
}

func (e KeyResolutionError) Error() string {
	return fmt.Sprintf("cannot resolve key for injectable %T: %s", e.Identifiable, e.Reason)
}

func (e KeyResolutionError) Unwrap() error {
	return ErrNilInjectable
}

// InvalidBindingError indicates Bind was called with a spec it cannot
// accept. The failing Bind leaves the binding table untouched.
type InvalidBindingError struct {
	Reason string
}

func (e InvalidBindingError) Error() string {
	return e.Reason
}

func (e InvalidBindingError) Unwrap() error {
	return ErrInvalidBinding
}

// UnresolvedBindingError indicates Get found no binding for a key, locally
// or in any sub-module, and no fallback was supplied.
type UnresolvedBindingError struct {
	Key Key
}

func (e UnresolvedBindingError) Error() string {
	return fmt.Sprintf("No binding for injectable %q", string(e.Key))
}

func (e UnresolvedBindingError) Unwrap() error {
	return ErrBindingNotFound
}

// TypeMismatchError indicates a resolved value did not have the type the
// generic Resolve helpers expected.
type TypeMismatchError struct {
	Key      Key
	Expected reflect.Type
	Actual   reflect.Type
}

func (e TypeMismatchError) Error() string {
	return fmt.Sprintf("injectable %q resolved to %s, expected %s",
		string(e.Key), typeString(e.Actual), typeString(e.Expected))
}

func typeString(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
