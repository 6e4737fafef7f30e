package kapsule

import (
	"fmt"

	"github.com/kapsule-di/kapsule/internal/callable"
)

// ConstructFunc builds an instance using the owning container to resolve
// whatever it needs.
type ConstructFunc func(c *Container) (any, error)

// Binding is the introspection view of a registered recipe, as returned
// by GetBinding.
type Binding struct {
	IsSingleton bool
	LateResolve bool
	Resolve     ConstructFunc
}

// binding is the binding-table record. Records are replaced on re-bind,
// never mutated.
type binding struct {
	construct   ConstructFunc
	singleton   bool
	lateResolve bool
}

// A BindOption modifies the default lifetime of a binding.
type BindOption interface {
	applyBindOption(*bindOptions)
}

type bindOptions struct {
	singleton   bool
	lateResolve bool
}

func defaultBindOptions() *bindOptions {
	return &bindOptions{singleton: true}
}

// Transient makes a binding construct a fresh instance on every Get
// instead of caching a singleton.
func Transient() BindOption {
	return transientOption{}
}

type transientOption struct{}

func (transientOption) String() string { return "Transient()" }

func (transientOption) applyBindOption(o *bindOptions) {
	o.singleton = false
}

// LateResolve makes a singleton binding resolve to a lazy Ref instead of
// running its construction function eagerly, breaking circular
// construction chains. Ignored for bindings with an empty dependency
// array, which cannot participate in a cycle.
func LateResolve() BindOption {
	return lateResolveOption{}
}

type lateResolveOption struct{}

func (lateResolveOption) String() string { return "LateResolve()" }

func (lateResolveOption) applyBindOption(o *bindOptions) {
	o.lateResolve = true
}

// newBinding normalizes a Bind spec into a binding record. It performs no
// resolution and touches no container state.
func newBinding(identifiable any, spec any, opts *bindOptions) (*binding, error) {
	b := &binding{
		singleton:   opts.singleton,
		lateResolve: opts.lateResolve,
	}

	switch s := spec.(type) {
	case ConstructFunc:
		b.construct = s
	case func(*Container) (any, error):
		b.construct = s
	case func(*Container) any:
		b.construct = func(c *Container) (any, error) { return s(c), nil }
	case []any:
		if !callable.IsConstructable(identifiable) {
			return nil, InvalidBindingError{Reason: msgNotConstructable}
		}
		b.construct = depsConstruct(identifiable, s)
		if len(s) == 0 {
			// No dependencies means no possible cycle.
			b.lateResolve = false
		}
	case nil:
		return nil, InvalidBindingError{Reason: "binding spec cannot be nil"}
	default:
		return nil, InvalidBindingError{
			Reason: fmt.Sprintf("binding spec must be a construction function or a dependency array, got %T", spec),
		}
	}

	return b, nil
}

// depsConstruct translates a dependency array into a construction
// function: each element resolves through the requesting container unless
// it is a Literal (passed through) or a Factory (invoked per resolution),
// then the constructable target is invoked with the results.
func depsConstruct(target any, deps []any) ConstructFunc {
	return func(c *Container) (any, error) {
		args := make([]any, len(deps))
		for i, d := range deps {
			wrapper, ok := d.(Dep)
			if !ok {
				resolved, err := c.Get(d)
				if err != nil {
					return nil, err
				}
				args[i] = resolved
				continue
			}

			switch wrapper.kind {
			case depLiteral:
				args[i] = wrapper.value
			case depFactory:
				produced, err := callable.InvokeFactory(wrapper.value, c)
				if err != nil {
					return nil, err
				}
				args[i] = produced
			}
		}

		return callable.Invoke(target, args)
	}
}
