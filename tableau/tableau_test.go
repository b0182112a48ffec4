package tableau

import (
	"math"
	"testing"

	"github.com/linnyr/engine/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTableauDefaultsUnboundedPositive(t *testing.T) {
	l := NewLayout()
	ref := model.Ref{Kind: model.KindProcess, ID: "p1"}
	l.AllocStep(Key(ref, "L"))
	tab := NewTableau(l, 3)

	require.Equal(t, 3, tab.NumCols())
	for i := 0; i < tab.NumCols(); i++ {
		assert.Equal(t, 0.0, tab.LB[i])
		assert.Equal(t, SolverInfinity, tab.UB[i])
	}
}

func TestColumnOfAddressing(t *testing.T) {
	l := NewLayout()
	ref := model.Ref{Kind: model.KindProcess, ID: "p1"}
	l.AllocStep(Key(ref, "L"))
	l.AllocStep(Key(ref, "POS"))
	bpi := l.AllocChunk(Key(ref, "BPI"))
	tab := NewTableau(l, 3)

	assert.Equal(t, 0, tab.ColumnOf(l, Key(ref, "L"), 0))
	assert.Equal(t, 2, tab.ColumnOf(l, Key(ref, "L"), 1))
	assert.Equal(t, 3, tab.ColumnOf(l, Key(ref, "POS"), 1))
	assert.Equal(t, tab.StepCols*tab.ChunkLen+bpi, tab.ChunkColumnOf(l, Key(ref, "BPI")))
}

func TestSetBoundsClampsInfinities(t *testing.T) {
	l := NewLayout()
	ref := model.Ref{Kind: model.KindProcess, ID: "p1"}
	l.AllocStep(Key(ref, "L"))
	tab := NewTableau(l, 1)

	tab.SetBounds(0, math.Inf(-1), math.Inf(1))
	assert.Equal(t, -SolverInfinity, tab.LB[0])
	assert.Equal(t, SolverInfinity, tab.UB[0])
}

func TestAddRowDropsNearZeroAndTracksCashRows(t *testing.T) {
	l := NewLayout()
	ref := model.Ref{Kind: model.KindProcess, ID: "p1"}
	l.AllocStep(Key(ref, "L"))
	tab := NewTableau(l, 1)

	idx := tab.AddRow(RowActorCash, map[int]float64{0: 1, 1: 1e-12}, 5, "CASH")
	require.Len(t, tab.Rows, 1)
	assert.Contains(t, tab.Rows[idx], 0)
	assert.NotContains(t, tab.Rows[idx], 1)
	assert.Equal(t, []int{idx}, tab.CashRows)
	assert.Equal(t, "EQ", tab.RowType[idx].String())
}

func TestCheckNumericEnvelopeDetectsOverflow(t *testing.T) {
	l := NewLayout()
	ref := model.Ref{Kind: model.KindProcess, ID: "p1"}
	l.AllocStep(Key(ref, "L"))
	tab := NewTableau(l, 1)

	tab.AddRow(RowLE, map[int]float64{0: SolverInfinity * 10}, 0, "BAD")
	err := tab.CheckNumericEnvelope()
	require.Error(t, err)
	assert.NotEmpty(t, tab.NumericIssue)
}
