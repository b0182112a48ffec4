package lpmps

import (
	"strings"
	"testing"

	"github.com/linnyr/engine/model"
	"github.com/linnyr/engine/tableau"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallTableau() *tableau.Tableau {
	l := tableau.NewLayout()
	ref := model.Ref{Kind: model.KindProcess, ID: "p1"}
	l.AllocStep(tableau.Key(ref, "L"))
	t := tableau.NewTableau(l, 2)
	t.SetBounds(0, 0, 10)
	t.SetBounds(1, 0, 10)
	t.Obj[0] = 1
	t.Obj[1] = 1
	t.AddRow(tableau.RowLE, map[int]float64{0: 1, 1: 1}, 15, "CAP:p1")
	return t
}

func TestSerializeLPSolveRoundTripsColumns(t *testing.T) {
	tab := smallTableau()
	text, err := Serialize(tab, WithDialect(LPSolve))
	require.NoError(t, err)
	assert.Contains(t, text, "X00000")
	assert.Contains(t, text, "X00001")
	assert.Contains(t, text, "<=")
}

func TestSerializeCPLEXThenParseCPLEXRecoversShape(t *testing.T) {
	tab := smallTableau()
	text, err := Serialize(tab, WithDialect(CPLEX))
	require.NoError(t, err)

	p, err := ParseCPLEX(text)
	require.NoError(t, err)
	require.Equal(t, tab.NumCols(), p.NumCols)
	assert.Equal(t, 1.0, p.Obj[0])
	assert.Equal(t, 1.0, p.Obj[1])
	require.Len(t, p.Rows, 1)
	assert.Equal(t, "<=", p.Rows[0].Sense)
	assert.Equal(t, 15.0, p.Rows[0].RHS)
	assert.Equal(t, 0.0, p.LB[0])
	assert.Equal(t, 10.0, p.UB[0])
}

func TestSerializeMPSEmitsSections(t *testing.T) {
	tab := smallTableau()
	text, err := Serialize(tab, WithDialect(MPS))
	require.NoError(t, err)
	for _, section := range []string{"ROWS", "COLUMNS", "RHS", "BOUNDS", "ENDATA"} {
		assert.True(t, strings.Contains(text, section), "missing section %s", section)
	}
}

func TestSerializeRejectsOutOfEnvelopeTableau(t *testing.T) {
	tab := smallTableau()
	tab.RHS[0] = tableau.SolverInfinity * 10
	_, err := Serialize(tab, WithDialect(CPLEX))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNumericEnvelope)
}

func TestNewOptionsDefaultsToCPLEX(t *testing.T) {
	o := NewOptions()
	assert.Equal(t, CPLEX, o.Dialect)
}
