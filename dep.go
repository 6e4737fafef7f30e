package kapsule

// depKind tags the two dependency-array entries that are not resolved as
// injectables.
type depKind int

const (
	depLiteral depKind = iota
	depFactory
)

// Dep is a tagged dependency-array entry. Entries that are not a Dep are
// treated as injectables and resolved through Get; a Dep is either passed
// through unresolved (Literal) or computed on demand (Factory).
type Dep struct {
	kind  depKind
	value any
}

// Literal marks value to be passed to the constructor as-is, without
// resolution.
//
//	c.Bind(NewServer, []any{Literal(8080), NewLogger})
func Literal(value any) Dep {
	return Dep{kind: depLiteral, value: value}
}

// Factory marks fn to be invoked at every resolution of the enclosing
// binding, with its result passed to the constructor unresolved. fn takes
// zero arguments or the requesting *Container, and may return a trailing
// error.
//
//	c.Bind(NewServer, []any{Factory(func(c *Container) any { return time.Now() })})
func Factory(fn any) Dep {
	return Dep{kind: depFactory, value: fn}
}
