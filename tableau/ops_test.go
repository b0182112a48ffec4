package tableau

import (
	"testing"

	"github.com/linnyr/engine/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCtx(t *testing.T, m *model.Model, caps SolverCaps) *BuildCtx {
	t.Helper()
	c := NewBuildCtx(m, ModelResolver{Model: m}, caps, 0, m.Run.ChunkLength(), 1)
	c.BlockLen = m.Run.BlockLength
	c.Prepare()
	return c
}

func TestAddNZPBinaryConstraintsEmitsSixRows(t *testing.T) {
	run, err := model.NewRunConfig(model.WithHorizon(1, 1), model.WithBlockLength(1), model.WithRounds(1))
	require.NoError(t, err)
	m := model.New(run)
	p := model.NewProcess("p1", "Plant")
	p.NeedsNZPPartition = true
	p.SemiContinuous = false
	require.NoError(t, m.AddProcess(p))

	c := newTestCtx(t, m, SolverCaps{})
	before := len(c.Tableau.Rows)
	c.addNZPBinaryConstraints(p.Ref, 0)
	assert.Equal(t, before+6, len(c.Tableau.Rows))

	pos := c.Tableau.ColumnOf(c.Layout, Key(p.Ref, "POS"), 0)
	neg := c.Tableau.ColumnOf(c.Layout, Key(p.Ref, "NEG"), 0)
	off := c.Tableau.ColumnOf(c.Layout, Key(p.Ref, "OFF"), 0)
	assert.Equal(t, VarBinary, c.Tableau.Kind[pos])
	assert.Equal(t, VarBinary, c.Tableau.Kind[neg])
	assert.Equal(t, VarBinary, c.Tableau.Kind[off])

	// The totalizer row POS+NEG+OFF=1 must be present among the six.
	found := false
	for i, label := range c.Tableau.RowLabel {
		if label == "NZP_TOTAL[p1]@0" {
			found = true
			assert.Equal(t, RowEQ, c.Tableau.RowType[i])
			assert.Equal(t, 1.0, c.Tableau.RHS[i])
		}
	}
	assert.True(t, found)
}

func TestAddBoundLineConstraintSOS2(t *testing.T) {
	run, err := model.NewRunConfig(model.WithHorizon(1, 1), model.WithBlockLength(1), model.WithRounds(1))
	require.NoError(t, err)
	m := model.New(run)
	px := model.NewProcess("px", "X")
	px.SetExpr("LB", constNum(0))
	px.SetExpr("UB", constNum(10))
	py := model.NewProcess("py", "Y")
	py.SetExpr("LB", constNum(0))
	py.SetExpr("UB", constNum(20))
	require.NoError(t, m.AddProcess(px))
	require.NoError(t, m.AddProcess(py))

	line := model.BoundLine{Type: model.BoundLE, PX: []float64{0, 50, 100}, PY: []float64{0, 100, 0}}
	cons := model.NewConstraint("c1", "Envelope", px.Ref, py.Ref, line)
	require.NoError(t, m.AddConstraint(cons))

	c := newTestCtx(t, m, SolverCaps{SOS2: true})
	before := len(c.Tableau.Rows)
	c.addBoundLineConstraint(cons, 0, 0)
	assert.Equal(t, before+3, len(c.Tableau.Rows)) // W, X, Y rows; no binary pairing with SOS2
	assert.Len(t, c.Tableau.SOS2, 1)
	assert.Len(t, c.Tableau.SOS2[0], 3)
}

func TestAddBoundLineConstraintBinaryEmulation(t *testing.T) {
	run, err := model.NewRunConfig(model.WithHorizon(1, 1), model.WithBlockLength(1), model.WithRounds(1))
	require.NoError(t, err)
	m := model.New(run)
	px := model.NewProcess("px", "X")
	px.SetExpr("LB", constNum(0))
	px.SetExpr("UB", constNum(10))
	py := model.NewProcess("py", "Y")
	py.SetExpr("LB", constNum(0))
	py.SetExpr("UB", constNum(20))
	require.NoError(t, m.AddProcess(px))
	require.NoError(t, m.AddProcess(py))

	line := model.BoundLine{Type: model.BoundLE, PX: []float64{0, 50, 100}, PY: []float64{0, 100, 0}}
	cons := model.NewConstraint("c1", "Envelope", px.Ref, py.Ref, line)
	require.NoError(t, m.AddConstraint(cons))

	c := newTestCtx(t, m, SolverCaps{SOS2: false})
	c.addBoundLineConstraint(cons, 0, 0)
	assert.Empty(t, c.Tableau.SOS2)

	sum2Found := false
	for i, label := range c.Tableau.RowLabel {
		if label == "BL_SUM2[c1.0]@0" {
			sum2Found = true
			assert.Equal(t, 2.0, c.Tableau.RHS[i])
		}
	}
	assert.True(t, sum2Found)
}
