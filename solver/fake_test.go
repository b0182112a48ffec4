package solver

import (
	"context"
	"testing"

	"github.com/linnyr/engine/lpmps"
	"github.com/linnyr/engine/model"
	"github.com/linnyr/engine/tableau"
	"github.com/stretchr/testify/require"
)

// scenarioTableau builds the spec.md §8 scenario 1 tableau by hand: one
// process level bounded [0,10], one actor's CashIn/CashOut pinned to the
// process level via an equality row, matching the shape BuildCtx would
// produce for that scenario.
func scenarioTableau() *tableau.Tableau {
	l := tableau.NewLayout()
	proc := model.Ref{Kind: model.KindProcess, ID: "p1"}
	actor := model.Ref{Kind: model.KindActor, ID: "a1"}
	l.AllocStep(tableau.Key(proc, "L"))
	l.AllocStep(tableau.Key(actor, "CashIn"))
	l.AllocStep(tableau.Key(actor, "CashOut"))

	tab := tableau.NewTableau(l, 1)
	lCol := tab.ColumnOf(l, tableau.Key(proc, "L"), 0)
	inCol := tab.ColumnOf(l, tableau.Key(actor, "CashIn"), 0)
	outCol := tab.ColumnOf(l, tableau.Key(actor, "CashOut"), 0)

	tab.SetBounds(lCol, 0, 10)
	tab.SetBounds(outCol, 0, 0)
	tab.Obj[inCol] = 1
	tab.Obj[outCol] = -1

	tab.AddRow(tableau.RowActorCash, map[int]float64{inCol: 1, lCol: -1}, 0, "CASH_IN:a1")
	return tab
}

func TestFakeSolvePinsBoundedColumnsAndResolvesFreeCashIn(t *testing.T) {
	tab := scenarioTableau()
	text, err := lpmps.Serialize(tab, lpmps.WithDialect(lpmps.CPLEX))
	require.NoError(t, err)

	f := &Fake{}
	resp, err := f.Solve(context.Background(), Request{ModelText: text})
	require.NoError(t, err)
	require.True(t, resp.SolutionAvailable)
	require.Equal(t, int32(0), resp.Status)

	p, err := lpmps.ParseCPLEX(text)
	require.NoError(t, err)
	require.Len(t, resp.X, p.NumCols)

	// scenarioTableau allocates L, CashIn, CashOut in that order, giving
	// columns 0, 1, 2 for a single-step chunk.
	require.Equal(t, 10.0, resp.X[0]) // L
	require.Equal(t, 0.0, resp.X[2])  // CashOut
	require.Equal(t, 10.0, resp.X[1]) // CashIn
}

func TestFakeSolveReturnsErrorStatusOnUnparsableText(t *testing.T) {
	f := &Fake{}
	resp, err := f.Solve(context.Background(), Request{ModelText: "not a cplex file"})
	require.NoError(t, err)
	require.NotZero(t, resp.Status)
	require.False(t, resp.SolutionAvailable)
}

func TestFakeSolveHonorsCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	f := &Fake{}
	_, err := f.Solve(ctx, Request{ModelText: ""})
	require.Error(t, err)
}
