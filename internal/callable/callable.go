// Package callable invokes user-supplied constructor and factory
// functions through reflection, normalizing their shapes: constructors
// take the resolved dependencies positionally, factories take zero
// arguments or the requesting container, and either may declare a
// trailing error return.
package callable

import (
	"fmt"
	"reflect"
)

var errType = reflect.TypeOf((*error)(nil)).Elem()

// IsConstructable reports whether v can be invoked as a constructor.
func IsConstructable(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Func && !rv.IsNil()
}

// Invoke calls the constructor fn with args. A trailing error return is
// unwrapped; the first remaining return value is the produced instance.
func Invoke(fn any, args []any) (any, error) {
	fv := reflect.ValueOf(fn)
	ft := fv.Type()

	in, err := buildArgs(ft, args)
	if err != nil {
		return nil, err
	}

	return call(fv, in)
}

// InvokeFactory calls a factory fn, passing container when fn declares a
// single parameter. A trailing error return is unwrapped.
func InvokeFactory(fn any, container any) (any, error) {
	if !IsConstructable(fn) {
		return nil, fmt.Errorf("factory must be a function, got %T", fn)
	}

	fv := reflect.ValueOf(fn)
	ft := fv.Type()

	var in []reflect.Value
	switch ft.NumIn() {
	case 0:
	case 1:
		cv := reflect.ValueOf(container)
		if !cv.Type().AssignableTo(ft.In(0)) {
			return nil, fmt.Errorf("factory parameter must accept %s, got %s", cv.Type(), ft.In(0))
		}
		in = []reflect.Value{cv}
	default:
		return nil, fmt.Errorf("factory must take zero arguments or the container, got %d parameters", ft.NumIn())
	}

	return call(fv, in)
}

// buildArgs converts args into reflect values matching ft's parameters.
func buildArgs(ft reflect.Type, args []any) ([]reflect.Value, error) {
	want := ft.NumIn()
	if ft.IsVariadic() {
		if len(args) < want-1 {
			return nil, fmt.Errorf("constructor expects at least %d arguments, got %d", want-1, len(args))
		}
	} else if len(args) != want {
		return nil, fmt.Errorf("constructor expects %d arguments, got %d", want, len(args))
	}

	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		pt := paramType(ft, i)
		if arg == nil {
			in[i] = reflect.Zero(pt)
			continue
		}

		av := reflect.ValueOf(arg)
		if !av.Type().AssignableTo(pt) {
			return nil, fmt.Errorf("argument %d: %s is not assignable to %s", i, av.Type(), pt)
		}
		in[i] = av
	}
	return in, nil
}

// paramType returns the type of parameter i, flattening the variadic tail.
func paramType(ft reflect.Type, i int) reflect.Type {
	if ft.IsVariadic() && i >= ft.NumIn()-1 {
		return ft.In(ft.NumIn() - 1).Elem()
	}
	return ft.In(i)
}

// call invokes fv and splits the instance from a trailing error return.
func call(fv reflect.Value, in []reflect.Value) (any, error) {
	out := fv.Call(in)

	n := len(out)
	if n > 0 && out[n-1].Type().Implements(errType) {
		if !out[n-1].IsNil() {
			return nil, out[n-1].Interface().(error)
		}
		out = out[:n-1]
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("constructor %s returns no value", fv.Type())
	}
	return out[0].Interface(), nil
}
