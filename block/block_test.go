package block

import (
	"context"
	"testing"

	"github.com/linnyr/engine/scenario"
	"github.com/linnyr/engine/solver"
	"github.com/linnyr/engine/tableau"
	"github.com/stretchr/testify/require"
)

func TestOrchestratorRunSolvesTrivialScenario(t *testing.T) {
	m, _ := scenario.Trivial()
	resolver := &tableau.ModelResolver{Model: m}
	orch := New(m, resolver, Config{Solver: &solver.Fake{}})

	result, err := orch.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Rounds, 1)

	rr := result.Rounds[0]
	require.Equal(t, int32(0), rr.Status)

	proc := m.Processes["p1"]
	levels := proc.Results["L"]
	require.NotNil(t, levels)
	for tstep := m.Run.StartPeriod; tstep <= m.Run.EndPeriod; tstep++ {
		require.Equal(t, 10.0, levels.At(tstep).Num)
	}

	actor := m.Actors["a1"]
	require.NotNil(t, actor.CashIn)
	for tstep := m.Run.StartPeriod; tstep <= m.Run.EndPeriod; tstep++ {
		require.Equal(t, 10.0, actor.CashIn.At(tstep).Num)
		require.Equal(t, 0.0, actor.CashOut.At(tstep).Num)
	}
}

func TestOrchestratorRunHonorsHalt(t *testing.T) {
	m, _ := scenario.Trivial()
	resolver := &tableau.ModelResolver{Model: m}
	halted := false
	orch := New(m, resolver, Config{
		Solver: &solver.Fake{},
		Halt:   func() bool { halted = true; return true },
	})

	result, err := orch.Run(context.Background())
	require.NoError(t, err)
	require.True(t, halted)
	require.Empty(t, result.Rounds)
}

func TestSnapZerosNearZeroValues(t *testing.T) {
	cfg := Config{}.withDefaults()
	require.Equal(t, 0.0, snap(1e-9, cfg))
	require.Equal(t, 5.0, snap(5.0, cfg))
}

func TestSlackPenaltyClampsToCeiling(t *testing.T) {
	cfg := Config{SlackBase: 1, SlackCeiling: 10}.withDefaults()
	got := slackPenalty(cfg, 100, 9, 5)
	require.Equal(t, 10.0, got)
}
