package kapsule

import "sync"

// Ref is a deferred-evaluation handle to a singleton instance, used to
// break circular construction chains. A binding registered with
// LateResolve stores a Ref in the instance cache before its construction
// function ever runs, so a constructor that (transitively) asks for its
// own key receives the Ref instead of recursing.
//
// A Ref starts unforced. The first Value call forces it: the stored
// construction function runs exactly once and its result is memoized; all
// later calls return the memoized instance. A failed forcing is not
// memoized, so the next Value call attempts construction again.
//
// Only post-construction access is supported: forcing a Ref from inside
// its own construction chain is a caller error, exactly like an unbroken
// dependency cycle.
type Ref struct {
	mu     sync.Mutex
	forced bool
	thunk  func() (any, error)
	value  any
}

// newRef wraps thunk in an unforced Ref.
func newRef(thunk func() (any, error)) *Ref {
	return &Ref{thunk: thunk}
}

// Value forces the Ref if needed and returns the underlying instance.
func (r *Ref) Value() (any, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.forced {
		return r.value, nil
	}

	value, err := r.thunk()
	if err != nil {
		return nil, err
	}

	r.value = value
	r.forced = true
	r.thunk = nil
	return value, nil
}

// MustValue is like Value but panics when forcing fails.
func (r *Ref) MustValue() any {
	value, err := r.Value()
	if err != nil {
		panic(err)
	}
	return value
}

// Forced reports whether the underlying instance has been constructed.
func (r *Ref) Forced() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.forced
}
