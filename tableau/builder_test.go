package tableau

import (
	"testing"

	"github.com/linnyr/engine/model"
	"github.com/linnyr/engine/xnum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// constExpr is a fixed-value model.Expr stand-in, avoiding a dependency
// on package expr's compiler for tests that only need a static number
// (spec.md §4.1 item 2's "static" classification fits exactly).
type constExpr struct{ v xnum.Value }

func constNum(f float64) model.Expr { return constExpr{xnum.Of(f)} }

func (c constExpr) Result(t, w int) xnum.Value { return c.v }
func (c constExpr) IsStatic() bool             { return true }
func (c constExpr) IsLevelBased() bool         { return false }
func (c constExpr) Text() string               { return "" }

// trivialScenario builds spec.md §8 Scenario 1: one process (LB=0,
// UB=10), one product, one level-rate-1 link feeding the product, and
// one actor, over a 3-step horizon with block_length=3 and no look-ahead.
func trivialScenario(t *testing.T) *model.Model {
	t.Helper()
	run, err := model.NewRunConfig(model.WithHorizon(1, 3), model.WithBlockLength(3), model.WithRounds(1))
	require.NoError(t, err)
	m := model.New(run)

	p := model.NewProcess("p1", "Plant")
	p.SetExpr("LB", constNum(0))
	p.SetExpr("UB", constNum(10))
	require.NoError(t, m.AddProcess(p))

	q := model.NewProduct("q1", "Output")
	q.SetExpr("LB", constNum(0))
	q.SetExpr("UB", constNum(1e6))
	require.NoError(t, m.AddProduct(q))

	link := model.NewLink("l1", "p1->q1", p.Ref, q.Ref, constNum(1))
	require.NoError(t, m.AddLink(link))

	a := model.NewActor("a1", "Owner")
	a.Weight = constNum(1)
	require.NoError(t, m.AddActor(a))

	return m
}

func buildChunk(t *testing.T, m *model.Model) (*BuildCtx, []Instr) {
	t.Helper()
	c := NewBuildCtx(m, ModelResolver{Model: m}, SolverCaps{SOS2: true, SemiContinuous: true}, 0, m.Run.ChunkLength(), 1)
	c.BlockLen = m.Run.BlockLength
	c.Prepare()
	prog := c.Build()
	return c, prog
}

func TestPrepareAllocatesExpectedColumns(t *testing.T) {
	m := trivialScenario(t)
	c, _ := buildChunk(t, m)

	// process L, product L, actor CashIn/CashOut: 4 per-step slots.
	assert.Equal(t, 4, c.Layout.StepCols())
	assert.Equal(t, 3, c.Tableau.ChunkLen)
	assert.Equal(t, 12, c.Tableau.NumCols())
}

func TestRunProducesBalanceRowPerStep(t *testing.T) {
	m := trivialScenario(t)
	c, prog := buildChunk(t, m)
	require.NoError(t, c.Run(prog))

	balanceRows := 0
	for i, label := range c.Tableau.RowLabel {
		if label == "BALANCE:q1" {
			balanceRows++
			assert.Equal(t, RowEQ, c.Tableau.RowType[i])
		}
	}
	assert.Equal(t, 3, balanceRows)
}

func TestRunSetsProcessBoundsEachStep(t *testing.T) {
	m := trivialScenario(t)
	c, prog := buildChunk(t, m)
	require.NoError(t, c.Run(prog))

	pRef := model.Ref{Kind: model.KindProcess, ID: "p1"}
	for tRel := 0; tRel < 3; tRel++ {
		col := c.Tableau.ColumnOf(c.Layout, Key(pRef, "L"), tRel)
		assert.Equal(t, 0.0, c.Tableau.LB[col])
		assert.Equal(t, 10.0, c.Tableau.UB[col])
	}
}

func TestRunEmitsCashRowsPerActorPerStep(t *testing.T) {
	m := trivialScenario(t)
	c, prog := buildChunk(t, m)
	require.NoError(t, c.Run(prog))

	// Two cash rows (IN, OUT) per step over 3 steps.
	assert.Len(t, c.Tableau.CashRows, 6)
}

func TestRunHaltsOnHaltFlag(t *testing.T) {
	m := trivialScenario(t)
	c, prog := buildChunk(t, m)
	calls := 0
	c.Halt = func() bool {
		calls++
		return true
	}
	// Force the batch boundary to trip immediately.
	for i := 0; i < haltBatchSize; i++ {
		prog = append(prog, Instr{Op: OpClearCoefficients})
	}
	err := c.Run(prog)
	assert.ErrorIs(t, err, ErrHalted)
}
