// Package kapsule provides a minimalistic, key-based dependency-injection
// container: a process-local registry that maps identifiers to
// construction recipes and resolves object graphs on demand.
//
// # Overview
//
// kapsule keeps the container surface small:
//   - Singleton and transient lifetimes per binding
//   - Dependency arrays translated into constructor calls
//   - Lazy references (LateResolve, GetResolver) to break circular
//     construction chains
//   - Hierarchical lookup through sub-module containers
//   - Collision-safe identity tokens
//
// # Basic Usage
//
// Create a container, bind recipes, resolve:
//
//	c := kapsule.New()
//	c.MustBind("config", func(c *kapsule.Container) any {
//	    return &Config{Port: 8080}
//	}).MustBind(NewServer, []any{"config"})
//
//	server, err := kapsule.Resolve[*Server](c, NewServer)
//
// # Keys
//
// Any identifiable resolves to a canonical Key: strings are used as-is,
// functions and types key by their declared name, and everything else
// keys by its runtime type name. Two identifiables with the same derived
// name share one key on purpose: rebinding "Logger" swaps the
// implementation for every consumer. When two unrelated types share a
// name, disambiguate with a Token:
//
//	dbToken := kapsule.NewToken(NewPostgres, "primary-db")
//	c.MustBind(dbToken, func(c *kapsule.Container) any {
//	    return NewPostgres()
//	}, kapsule.Transient())
//
// # Lifetimes
//
// Bindings are singletons by default: constructed on first Get, cached,
// and returned by reference afterwards until the key is re-bound or the
// container is cleared. Transient bindings construct a fresh instance on
// every Get and are never cached.
//
// # Circular Dependencies
//
// A binding registered with LateResolve resolves to a *Ref whose
// construction is deferred until the first Value call, so two mutually
// dependent singletons can each obtain a working handle to the other at
// construction time. Only post-construction access is supported:
// dereferencing the Ref inside the constructor chain that produced it is
// a caller error. An unbroken constructor cycle (no LateResolve, no
// GetResolver) recurses until the stack is exhausted; the container
// performs no cycle detection.
//
// # Sub-modules
//
// SubModule attaches child containers that are consulted, in
// registration order, when a key misses locally. Lookup is strictly
// downward: a sub-module never sees its parent's or siblings' bindings,
// and resolves entirely within its own cache. Clear propagates to every
// attached sub-module without detaching the links.
//
// # Error Handling
//
// All failures are ordinary errors:
//   - KeyResolutionError: the identifiable cannot yield a key
//   - InvalidBindingError: malformed Bind call
//   - UnresolvedBindingError: no binding found and no fallback given
//
// Get accepts an optional fallback returned instead of
// UnresolvedBindingError; it applies only to the top-level lookup, never
// to failures inside a found binding's dependency chain.
package kapsule
