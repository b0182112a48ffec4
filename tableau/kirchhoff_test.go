package tableau

import (
	"testing"

	"github.com/linnyr/engine/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// triangleGrid builds three products (A, B, C) joined by three grid
// processes (A-B, B-C, C-A) forming one cycle, per spec.md §4.4's
// AddKirchhoffConstraints.
func triangleGrid(t *testing.T) (*model.Model, *model.PowerGrid) {
	t.Helper()
	run, err := model.NewRunConfig(model.WithHorizon(1, 1), model.WithBlockLength(1), model.WithRounds(1))
	require.NoError(t, err)
	m := model.New(run)

	a := model.NewProduct("A", "A")
	b := model.NewProduct("B", "B")
	cc := model.NewProduct("C", "C")
	require.NoError(t, m.AddProduct(a))
	require.NoError(t, m.AddProduct(b))
	require.NoError(t, m.AddProduct(cc))

	mkSeg := func(id string, from, to model.Ref, length float64) *model.Process {
		p := model.NewProcess(id, id)
		p.SetExpr("UB", constNum(100))
		p.Grid = &model.GridProcess{LengthKm: length, NumSlopes: 0}
		require.NoError(t, m.AddProcess(p))
		require.NoError(t, m.AddLink(model.NewLink(id+"-in", id+"-in", from, p.Ref, constNum(1))))
		require.NoError(t, m.AddLink(model.NewLink(id+"-out", id+"-out", p.Ref, to, constNum(1))))
		return p
	}

	segAB := mkSeg("seg-ab", a.Ref, b.Ref, 1)
	segBC := mkSeg("seg-bc", b.Ref, cc.Ref, 1)
	segCA := mkSeg("seg-ca", cc.Ref, a.Ref, 1)

	grid := model.NewPowerGrid("grid1", "Grid", "MW", 2, 0, segAB.Ref, segBC.Ref, segCA.Ref)
	require.NoError(t, m.AddGrid(grid))
	return m, grid
}

func TestAddKirchhoffConstraintsFindsOneCycle(t *testing.T) {
	m, grid := triangleGrid(t)
	c := NewBuildCtx(m, ModelResolver{Model: m}, SolverCaps{}, 0, m.Run.ChunkLength(), 1)
	c.BlockLen = m.Run.BlockLength
	c.Prepare()

	before := len(c.Tableau.Rows)
	c.addKirchhoffConstraints(grid, 0)
	assert.Equal(t, before+1, len(c.Tableau.Rows))

	row := c.Tableau.Rows[len(c.Tableau.Rows)-1]
	assert.Len(t, row, 3)
	for _, w := range row {
		assert.InDelta(t, 2.0, w, 1e-9) // |length*reactance| = 1*2
	}
}

func TestGridEdgesDropsZeroUpperBoundProcess(t *testing.T) {
	m, grid := triangleGrid(t)
	// Force seg-bc's UB to 0: its cycle-closing edge should be dropped.
	m.Processes["seg-bc"].SetExpr("UB", constNum(0))

	c := NewBuildCtx(m, ModelResolver{Model: m}, SolverCaps{}, 0, m.Run.ChunkLength(), 1)
	c.BlockLen = m.Run.BlockLength
	c.Prepare()

	edges := c.gridEdges(grid, 0)
	assert.Len(t, edges, 2)
}
