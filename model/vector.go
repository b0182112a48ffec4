package model

import "github.com/linnyr/engine/xnum"

// Vector is a finite time series indexed 0..=N+L, where N is the
// simulation length and L the look-ahead of the active run; index 0 holds
// the initial value. Per spec.md §3, entries may be any xnum.Value,
// including the special codes.
type Vector struct {
	vals []xnum.Value
}

// NewVector allocates a Vector of the given length, filled with fill.
func NewVector(length int, fill xnum.Value) *Vector {
	v := &Vector{vals: make([]xnum.Value, length)}
	for i := range v.vals {
		v.vals[i] = fill
	}
	return v
}

// Len returns the number of indices currently backing v.
func (v *Vector) Len() int { return len(v.vals) }

// At returns the value at index t, or xnum.Err(xnum.ErrArrayIndex) if t is
// out of range — the tableau builder and expression VM are both expected
// to clamp t via anchor.Clamp before calling At, so this is a defensive
// fallback, not the primary bounds-handling path.
func (v *Vector) At(t int) xnum.Value {
	if t < 0 || t >= len(v.vals) {
		return xnum.Err(xnum.ErrArrayIndex)
	}
	return v.vals[t]
}

// Set assigns val at index t, growing the backing slice with
// NotComputed fill if necessary (the look-ahead window can extend a
// vector beyond its original allocation when block_length/look_ahead
// change between runs).
func (v *Vector) Set(t int, val xnum.Value) {
	if t < 0 {
		return
	}
	if t >= len(v.vals) {
		grown := make([]xnum.Value, t+1)
		copy(grown, v.vals)
		for i := len(v.vals); i < len(grown); i++ {
			grown[i] = xnum.Value{Kind: xnum.NotComputed}
		}
		v.vals = grown
	}
	v.vals[t] = val
}

// Reset refills every index with NotComputed, per spec.md §3's expression
// lifecycle ("reset when the model is re-run").
func (v *Vector) Reset() {
	for i := range v.vals {
		v.vals[i] = xnum.Value{Kind: xnum.NotComputed}
	}
}

// ResetFrom refills every index >= t with NotComputed, used by the expr
// package's look-ahead recompute rule: when a block's window slides
// forward, cached values inside the new look-ahead span must be forgotten
// so they recompute against the new block's decisions.
func (v *Vector) ResetFrom(t int) {
	if t < 0 {
		t = 0
	}
	for i := t; i < len(v.vals); i++ {
		v.vals[i] = xnum.Value{Kind: xnum.NotComputed}
	}
}
