// Package lpmps serializes a built tableau.Tableau into the LP or MPS
// text an external solver adapter consumes (spec.md §4.5, §6), and
// parses the CPLEX-style LP dialect back, closing the round-trip the
// orchestrator and its tests rely on.
package lpmps

import "fmt"

// Dialect selects the output text format of spec.md §6.
type Dialect uint8

const (
	// CPLEX is the section-keyword LP dialect: `Maximize`, `Subject To`,
	// `Bounds`, `Binary`, `General`, `Semi-continuous`, `SOS`, `End`. The
	// only dialect this package also parses, since its section headers
	// disambiguate constraint rows from bound lines unambiguously. It is
	// the zero value of Dialect, so a zero-valued block.Config (no
	// dialect chosen explicitly) serializes in the one dialect
	// solver.Fake can parse back.
	CPLEX Dialect = iota
	// LPSolve is the column-based LP_solve dialect: `max:`, `;`-terminated
	// rows, `int`/`sec`/`sos2` sections, named constraints optional.
	LPSolve
	// MPS is standard fixed-field MPS with N/L/G/E row markers and a
	// BOUNDS section keyed by LO/UP/FX/FR/BV/LI/UI/SC/SI.
	MPS
)

func (d Dialect) String() string {
	switch d {
	case LPSolve:
		return "lp_solve"
	case CPLEX:
		return "cplex"
	case MPS:
		return "mps"
	default:
		return "unknown"
	}
}

// Options configures Serialize, following the teacher's matrix.Option /
// NewMatrixOptions functional-option pattern.
type Options struct {
	Dialect Dialect
}

// Option configures Options before serialization.
type Option func(*Options)

// WithDialect selects the output dialect (default CPLEX).
func WithDialect(d Dialect) Option {
	return func(o *Options) { o.Dialect = d }
}

// NewOptions resolves opts into an Options value.
func NewOptions(opts ...Option) Options {
	o := Options{Dialect: CPLEX}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// columnName caps a column index to the base-10 zero-padded identifier
// of spec.md §4.5(b).
func columnName(col int) string {
	return fmt.Sprintf("X%05d", col)
}
