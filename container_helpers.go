package kapsule

import "reflect"

// Resolve resolves identifiable from the container and asserts the result
// to T. It fails with TypeMismatchError when the bound value has a
// different type.
//
//	logger, err := kapsule.Resolve[*Logger](c, "logger")
func Resolve[T any](c *Container, identifiable any) (T, error) {
	var zero T

	value, err := c.Get(identifiable)
	if err != nil {
		return zero, err
	}

	typed, ok := value.(T)
	if !ok {
		key, _ := ResolveKey(identifiable)
		return zero, TypeMismatchError{
			Key:      key,
			Expected: reflect.TypeOf((*T)(nil)).Elem(),
			Actual:   reflect.TypeOf(value),
		}
	}
	return typed, nil
}

// MustResolve is like Resolve but panics on error.
func MustResolve[T any](c *Container, identifiable any) T {
	value, err := Resolve[T](c, identifiable)
	if err != nil {
		panic(err)
	}
	return value
}

// ResolveOr is like Resolve but returns fallback when identifiable is not
// bound anywhere. Errors from a found binding still propagate.
func ResolveOr[T any](c *Container, identifiable any, fallback T) (T, error) {
	if !c.Has(identifiable) {
		return fallback, nil
	}
	return Resolve[T](c, identifiable)
}
