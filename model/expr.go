package model

import "github.com/linnyr/engine/xnum"

// Expr is the surface the model package needs from a compiled expression.
// The concrete implementation (bytecode compiler + stack VM) lives in
// package expr, which imports model for Ref/Model lookups; Expr is
// declared here, not there, so that dependency runs one way only (expr
// depends on model, never the reverse).
type Expr interface {
	// Result returns the expression's value at local step t for wildcard
	// instance w (w is ignored by non-wildcard expressions).
	Result(t, w int) xnum.Value

	// IsStatic reports whether the expression was classified static at
	// compile time (spec.md §4.1 item 2): no dynamic symbols, no non-zero
	// offset other than t+0, no reference to a non-static expression.
	IsStatic() bool

	// IsLevelBased reports whether the expression was classified
	// level-based at compile time (spec.md §4.1 item 3).
	IsLevelBased() bool

	// Text returns the original source text, for diagnostics.
	Text() string
}
