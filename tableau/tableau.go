package tableau

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// RowType is the inequality/equality sense of a constraint row.
type RowType uint8

const (
	RowLE RowType = iota
	RowGE
	RowEQ
	RowActorCash // alias of EQ that also records the row for cash scaling
)

func (r RowType) String() string {
	switch r {
	case RowLE:
		return "LE"
	case RowGE:
		return "GE"
	case RowEQ, RowActorCash:
		return "EQ"
	default:
		return "?"
	}
}

// VarKind marks a column's declared integrality.
type VarKind uint8

const (
	VarContinuous VarKind = iota
	VarBinary
	VarSemiContinuous
)

// SolverInfinity is the magnitude every ±Inf bound is clamped to before
// serialization, and the numeric envelope the serializer checks every
// coefficient/RHS/bound against (spec.md §4.5, §7).
const SolverInfinity = 1e30

// Tableau is the sparse matrix/vector state accumulated by one chunk's
// VM run (spec.md §3: "Tableau VM state... created at the start of a
// block, zeroed after serialization, and freed before solver
// submission"). Rows are stored as sparse maps per spec.md §9's Design
// Note ("Vec<(col,val)> sorted at the serialization boundary suffices"
// for Go); here each row is a map, flattened to sorted pairs by lpmps.
type Tableau struct {
	StepCols     int // columns per time step ("cols" in spec.md §4.4)
	ChunkLen     int // time steps in the chunk
	NumChunkVars int // trailing chunk-level (non-per-step) columns

	Rows     []map[int]float64
	RowType  []RowType
	RHS      []float64
	RowLabel []string

	LB, UB []float64
	Kind   []VarKind
	Name   []string

	SOS2 [][]int // each group is an ordered list of column indices

	Obj map[int]float64 // objective row, maximize

	CashRows   []int // row indices emitted via RowActorCash, for scaling
	CashScalar float64
	ObjScalar  float64

	NumericIssue string // non-empty halts the block (spec.md §7)
}

// NewTableau allocates a Tableau sized for layout over a chunk of chunkLen
// steps, with every column defaulted to [0, +Inf) continuous.
func NewTableau(layout *Layout, chunkLen int) *Tableau {
	stepCols := layout.StepCols()
	nChunk := layout.NumChunkVars()
	n := stepCols*chunkLen + nChunk

	t := &Tableau{
		StepCols:     stepCols,
		ChunkLen:     chunkLen,
		NumChunkVars: nChunk,
		LB:           make([]float64, n),
		UB:           make([]float64, n),
		Kind:         make([]VarKind, n),
		Name:         make([]string, n),
		Obj:          make(map[int]float64),
		CashScalar:   1,
		ObjScalar:    1,
	}
	for i := range t.UB {
		t.UB[i] = SolverInfinity
	}
	return t
}

// NumCols returns the total column count.
func (t *Tableau) NumCols() int { return len(t.LB) }

// ColumnOf resolves the absolute column of a per-step variable key at
// local chunk step tLocal (0-based).
func (t *Tableau) ColumnOf(layout *Layout, key string, tLocal int) int {
	return tLocal*t.StepCols + layout.StepSlot(key)
}

// ChunkColumnOf resolves the absolute column of a chunk-level variable.
func (t *Tableau) ChunkColumnOf(layout *Layout, key string) int {
	return t.StepCols*t.ChunkLen + layout.chunkVars[key]
}

// SetBounds applies lb/ub to col, clamping infinities to SolverInfinity.
func (t *Tableau) SetBounds(col int, lb, ub float64) {
	if math.IsInf(lb, -1) {
		lb = -SolverInfinity
	}
	if math.IsInf(ub, 1) {
		ub = SolverInfinity
	}
	t.LB[col], t.UB[col] = lb, ub
}

// MarkKind records col's integrality/semi-continuity.
func (t *Tableau) MarkKind(col int, k VarKind) { t.Kind[col] = k }

// NameColumn records a debug name for col. Neither the solver nor any
// lpmps writer reads Name.
func (t *Tableau) NameColumn(col int, name string) { t.Name[col] = name }

// AddRow commits coeffs/rhs as a new row of the given type, appending its
// index to CashRows when rt is RowActorCash. Returns the new row's index.
func (t *Tableau) AddRow(rt RowType, coeffs map[int]float64, rhs float64, label string) int {
	row := make(map[int]float64, len(coeffs))
	for c, v := range coeffs {
		if !nearZero(v) {
			row[c] = v
		}
	}
	idx := len(t.Rows)
	t.Rows = append(t.Rows, row)
	t.RowType = append(t.RowType, rt)
	t.RHS = append(t.RHS, rhs)
	t.RowLabel = append(t.RowLabel, label)
	if rt == RowActorCash {
		t.CashRows = append(t.CashRows, idx)
	}
	return idx
}

// AddSOS2Group records an ordered list of columns as one SOS2 set
// (spec.md §4.4's bound-line vertex weights).
func (t *Tableau) AddSOS2Group(cols []int) {
	g := append([]int(nil), cols...)
	t.SOS2 = append(t.SOS2, g)
}

// CheckNumericEnvelope scans every coefficient, RHS, and finite bound
// against [-SolverInfinity, SolverInfinity] (spec.md §4.5/§7). On the
// first violation it records NumericIssue and returns it as an error.
func (t *Tableau) CheckNumericEnvelope() error {
	for i, row := range t.Rows {
		for col, v := range row {
			if math.Abs(v) > SolverInfinity {
				t.NumericIssue = fmt.Sprintf("coefficient overflow for X%d (row %d, %s)", col, i, t.RowLabel[i])
				return fmt.Errorf("tableau: %s", t.NumericIssue)
			}
		}
		if math.Abs(t.RHS[i]) > SolverInfinity {
			t.NumericIssue = fmt.Sprintf("rhs overflow for row %d (%s)", i, t.RowLabel[i])
			return fmt.Errorf("tableau: %s", t.NumericIssue)
		}
	}
	for col := range t.LB {
		if math.Abs(t.LB[col]) > SolverInfinity || math.Abs(t.UB[col]) > SolverInfinity {
			t.NumericIssue = fmt.Sprintf("bound overflow for X%d", col)
			return fmt.Errorf("tableau: %s", t.NumericIssue)
		}
	}
	return nil
}

func nearZero(f float64) bool { return floats.EqualWithinAbs(f, 0, 1e-10) }
