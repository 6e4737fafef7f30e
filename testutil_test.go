package kapsule

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

// ============================================================================
// Shared Test Types
// ============================================================================

// TValue is a basic service carrying a number.
type TValue struct {
	Value int
}

// TDouble carries a doubled number.
type TDouble struct {
	Value int
}

// TSum aggregates a TValue and a TDouble.
type TSum struct {
	A *TValue
	B *TDouble
}

// TWidget is a bare service for key-derivation tests.
type TWidget struct {
	Name string
}

// TStringerID keys by its string conversion.
type TStringerID string

func (s TStringerID) String() string { return string(s) }

// ============================================================================
// Circular Dependency Test Types
// ============================================================================

// TCycleA holds the real other half of the cycle.
type TCycleA struct {
	B *TCycleB
}

// TCycleB holds a lazy handle to the other half of the cycle.
type TCycleB struct {
	A *Ref
}

// ============================================================================
// Shared Constructors
// ============================================================================

var constructCounter atomic.Int64

func NewTValue() *TValue {
	constructCounter.Add(1)
	return &TValue{Value: 5}
}

func NewTDouble(v int) *TDouble {
	return &TDouble{Value: v * 2}
}

func NewTSum(a *TValue, b *TDouble) *TSum {
	return &TSum{A: a, B: b}
}

func NewTWidget() *TWidget {
	return &TWidget{Name: "widget"}
}

// X exists so its derived key is the bare name "X".
func X() *TWidget {
	return &TWidget{Name: "x"}
}

// ============================================================================
// Test Helpers
// ============================================================================

// constant wraps a fixed value in a construction function.
func constant(v any) ConstructFunc {
	return func(*Container) (any, error) { return v, nil }
}

// RequireGet resolves identifiable or fails the test.
func RequireGet(t *testing.T, c *Container, identifiable any) any {
	t.Helper()
	v, err := c.Get(identifiable)
	require.NoError(t, err)
	return v
}

// RequireKey resolves a key or fails the test.
func RequireKey(t *testing.T, identifiable any) Key {
	t.Helper()
	k, err := ResolveKey(identifiable)
	require.NoError(t, err)
	return k
}
