package kapsule

// Resolver is a resolution handle bound to one identifiable and one
// container. It defers resolution without forcing eager construction,
// which makes it the second cycle-breaking mechanism next to LateResolve:
// a constructor can accept a Resolver and call Get only after the
// surrounding object graph is fully built.
type Resolver struct {
	container    *Container
	identifiable any
}

// GetResolver returns a Resolver for identifiable bound to this
// container. No lookup happens until the handle's Get is called.
func (c *Container) GetResolver(identifiable any) *Resolver {
	return &Resolver{container: c, identifiable: identifiable}
}

// Get resolves the handle's identifiable with semantics identical to
// Container.Get, including the optional top-level fallback.
func (r *Resolver) Get(fallback ...any) (any, error) {
	return r.container.Get(r.identifiable, fallback...)
}

// MustGet is like Get but panics on error.
func (r *Resolver) MustGet() any {
	value, err := r.container.Get(r.identifiable)
	if err != nil {
		panic(err)
	}
	return value
}
