// Package atom maintains the process-wide registry of unique token atoms.
//
// An atom is a collision-safe identity string derived deterministically
// from a description: the first request for a description mints a new
// atom, every later request for the same description returns the same
// atom. Atoms from different descriptions never collide, and an atom
// never collides with a plain string key because of its random suffix.
package atom

import (
	"sync"

	"github.com/google/uuid"
)

var (
	mu    sync.Mutex
	atoms = make(map[string]string)
)

// For returns the process-wide atom for description, minting it on first
// use. The description is kept as a readable prefix.
func For(description string) string {
	mu.Lock()
	defer mu.Unlock()

	if a, ok := atoms[description]; ok {
		return a
	}

	a := description + "#" + uuid.NewString()
	atoms[description] = a
	return a
}
