package kapsule

import "sync"

// Container is a process-local registry mapping keys to construction
// recipes and resolving object graphs on demand. It owns one binding
// table, one singleton instance cache, and an ordered list of sub-module
// references consulted on local lookup miss.
//
// A Container is safe for concurrent use. The lock is never held across a
// construction function, since construction functions re-enter the
// container to resolve their own dependencies.
type Container struct {
	mu        sync.RWMutex
	bindings  map[Key]*binding
	instances map[Key]any
	subs      []*Container
}

// New creates an empty container.
func New() *Container {
	return &Container{
		bindings:  make(map[Key]*binding),
		instances: make(map[Key]any),
	}
}

// Bind registers a construction recipe for identifiable. spec is either a
// construction function taking the owning container, or a dependency
// array; a dependency array requires identifiable to be a constructable
// function and fails with InvalidBindingError otherwise.
//
// Bindings default to singleton lifetime; pass Transient or LateResolve
// to change that. Re-binding an existing key replaces the record and
// evicts any cached singleton, so stale instances never outlive a
// re-bind. A failing Bind leaves the binding table untouched.
func (c *Container) Bind(identifiable any, spec any, opts ...BindOption) error {
	key, err := ResolveKey(identifiable)
	if err != nil {
		return err
	}

	options := defaultBindOptions()
	for _, opt := range opts {
		if opt != nil {
			opt.applyBindOption(options)
		}
	}

	b, err := newBinding(identifiable, spec, options)
	if err != nil {
		return err
	}

	c.mu.Lock()
	delete(c.instances, key)
	c.bindings[key] = b
	c.mu.Unlock()
	return nil
}

// MustBind is like Bind but panics on error and returns the container for
// chaining:
//
//	c := kapsule.New().
//	    MustBind("config", loadConfig).
//	    MustBind(NewServer, []any{"config"})
func (c *Container) MustBind(identifiable any, spec any, opts ...BindOption) *Container {
	if err := c.Bind(identifiable, spec, opts...); err != nil {
		panic(err)
	}
	return c
}

// Get resolves identifiable to an instance. Singleton bindings construct
// on first use and return the cached instance afterwards; transient
// bindings construct fresh on every call; LateResolve singletons resolve
// to a *Ref that defers construction until first use. On local miss the
// sub-modules are consulted in registration order, each resolving
// entirely within its own binding and cache scope.
//
// An optional fallback is returned instead of an UnresolvedBindingError
// when no binding exists anywhere; an explicit nil fallback is valid and
// distinct from omitting it. The fallback suppresses only the top-level
// not-found case: errors raised while resolving nested dependencies of a
// found binding always propagate.
func (c *Container) Get(identifiable any, fallback ...any) (any, error) {
	key, err := ResolveKey(identifiable)
	if err != nil {
		return nil, err
	}

	value, found, err := c.resolve(key)
	if err != nil {
		return nil, err
	}
	if found {
		return value, nil
	}
	if len(fallback) > 0 {
		return fallback[0], nil
	}
	return nil, UnresolvedBindingError{Key: key}
}

// resolve looks key up locally and then through the sub-module chain.
// found reports whether a binding was located, independent of whether its
// construction succeeded.
func (c *Container) resolve(key Key) (value any, found bool, err error) {
	c.mu.RLock()
	b, ok := c.bindings[key]
	if ok && b.singleton {
		if cached, hit := c.instances[key]; hit {
			c.mu.RUnlock()
			return cached, true, nil
		}
	}
	var subs []*Container
	if !ok {
		subs = append(subs, c.subs...)
	}
	c.mu.RUnlock()

	if ok {
		return c.construct(key, b)
	}

	for _, sub := range subs {
		value, found, err = sub.resolve(key)
		if found || err != nil {
			return value, found, err
		}
	}
	return nil, false, nil
}

// construct runs a local binding, applying its lifetime policy.
func (c *Container) construct(key Key, b *binding) (any, bool, error) {
	if !b.singleton {
		value, err := b.construct(c)
		return value, true, err
	}

	if b.lateResolve {
		c.mu.Lock()
		if cached, hit := c.instances[key]; hit {
			c.mu.Unlock()
			return cached, true, nil
		}
		ref := newRef(func() (any, error) { return b.construct(c) })
		c.instances[key] = ref
		c.mu.Unlock()
		return ref, true, nil
	}

	value, err := b.construct(c)
	if err != nil {
		// No cache entry: a later Get retries construction.
		return nil, true, err
	}

	c.mu.Lock()
	c.instances[key] = value
	c.mu.Unlock()
	return value, true, nil
}

// GetAll resolves every identifiable in order and returns the results
// positionally. There is no fallback; the first unresolved entry fails
// the whole call.
func (c *Container) GetAll(identifiables ...any) ([]any, error) {
	values := make([]any, len(identifiables))
	for i, identifiable := range identifiables {
		value, err := c.Get(identifiable)
		if err != nil {
			return nil, err
		}
		values[i] = value
	}
	return values, nil
}

// GetBinding returns the lifetime policy and construction function bound
// to identifiable, consulting sub-modules in registration order on local
// miss. The second return is false when no binding exists anywhere; this
// is introspection, not an error.
func (c *Container) GetBinding(identifiable any) (Binding, bool) {
	key, err := ResolveKey(identifiable)
	if err != nil {
		return Binding{}, false
	}
	return c.lookupBinding(key)
}

func (c *Container) lookupBinding(key Key) (Binding, bool) {
	c.mu.RLock()
	if b, ok := c.bindings[key]; ok {
		c.mu.RUnlock()
		return Binding{
			IsSingleton: b.singleton,
			LateResolve: b.lateResolve,
			Resolve:     b.construct,
		}, true
	}
	subs := append([]*Container(nil), c.subs...)
	c.mu.RUnlock()

	for _, sub := range subs {
		if found, ok := sub.lookupBinding(key); ok {
			return found, true
		}
	}
	return Binding{}, false
}

// Has reports whether identifiable is bound locally or in any sub-module.
func (c *Container) Has(identifiable any) bool {
	_, ok := c.GetBinding(identifiable)
	return ok
}

// SubModule appends child containers to the lookup chain and returns the
// container for chaining. The container holds references only; the
// sub-modules keep their own independent state. Lookup is strictly
// downward, so a sub-module never sees its parent's or siblings'
// bindings. No cycle detection is performed on the chain.
func (c *Container) SubModule(subs ...*Container) *Container {
	c.mu.Lock()
	c.subs = append(c.subs, subs...)
	c.mu.Unlock()
	return c
}

// Clear resets the container: all bindings and cached instances are
// dropped, and every currently attached sub-module is cleared
// recursively. The sub-module links themselves stay attached.
func (c *Container) Clear() {
	c.mu.Lock()
	c.bindings = make(map[Key]*binding)
	c.instances = make(map[Key]any)
	subs := append([]*Container(nil), c.subs...)
	c.mu.Unlock()

	for _, sub := range subs {
		sub.Clear()
	}
}
