package lpmps

import (
	"errors"
	"fmt"
	"sort"

	"github.com/linnyr/engine/tableau"
)

// ErrNumericEnvelope is returned when the tableau fails
// tableau.Tableau.CheckNumericEnvelope; serialization never runs against
// an out-of-envelope tableau (spec.md §4.5/§7).
var ErrNumericEnvelope = errors.New("lpmps: tableau outside solver numeric envelope")

// Serialize writes t in the dialect selected by opts (default CPLEX),
// returning the model text an external solver adapter can consume.
// Aborts with ErrNumericEnvelope before emitting a single line if t's
// numeric envelope check fails.
func Serialize(t *tableau.Tableau, opts ...Option) (string, error) {
	if err := t.CheckNumericEnvelope(); err != nil {
		return "", fmt.Errorf("%w: %s", ErrNumericEnvelope, t.NumericIssue)
	}
	o := NewOptions(opts...)
	switch o.Dialect {
	case LPSolve:
		return writeLPSolve(t), nil
	case CPLEX:
		return writeCPLEX(t), nil
	case MPS:
		return writeMPS(t), nil
	default:
		return "", fmt.Errorf("lpmps: unknown dialect %d", o.Dialect)
	}
}

// sortedRowCols returns a row's column indices in ascending order, so
// every dialect writer emits terms deterministically (spec.md §8's
// bound-line idempotence invariant extends naturally to serialized text:
// the same tableau always serializes to the same bytes).
func sortedRowCols(row map[int]float64) []int {
	cols := make([]int, 0, len(row))
	for c := range row {
		cols = append(cols, c)
	}
	sort.Ints(cols)
	return cols
}

func sortedObjCols(obj map[int]float64) []int {
	return sortedRowCols(obj)
}

// rowLabel produces the synthetic, collision-free row name spec.md §4.5
// calls "named constraints optional" for: the original semantic label
// (which may itself contain ':' or other punctuation, e.g.
// "BALANCE:q1") is kept only as a trailing comment, never parsed back.
func rowLabel(i int) string { return fmt.Sprintf("R%d", i) }

// relop renders a RowType as the relational operator every dialect
// writer needs; RowActorCash is EQ (tableau.RowType.String already folds
// this), spelled out here once for direct use in arithmetic comparisons.
func relop(rt tableau.RowType) string {
	switch rt {
	case tableau.RowLE:
		return "<="
	case tableau.RowGE:
		return ">="
	default:
		return "="
	}
}
