package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunConfigValidation(t *testing.T) {
	_, err := NewRunConfig(WithRounds(0))
	assert.ErrorIs(t, err, ErrBadRoundCount)

	_, err = NewRunConfig(WithRounds(32))
	assert.ErrorIs(t, err, ErrBadRoundCount)

	_, err = NewRunConfig(WithRounds(3), WithRoundSequence("xy"))
	assert.ErrorIs(t, err, ErrBadRoundSeq)

	_, err = NewRunConfig(WithBlockLength(0))
	assert.ErrorIs(t, err, ErrBadBlockLength)

	c, err := NewRunConfig(WithHorizon(1, 10), WithBlockLength(3), WithLookAhead(2), WithRounds(2))
	require.NoError(t, err)
	assert.Equal(t, "ab", c.RoundSeq)
	assert.Equal(t, 5, c.ChunkLength())
	assert.Equal(t, 10, c.SimLength())
}

func TestNumBlocks(t *testing.T) {
	c, err := NewRunConfig(WithHorizon(1, 9), WithBlockLength(3), WithRounds(1))
	require.NoError(t, err)
	assert.Equal(t, 3, c.NumBlocks())
}

func TestModelAddDuplicateID(t *testing.T) {
	run, _ := NewRunConfig()
	m := New(run)
	require.NoError(t, m.AddProcess(NewProcess("p1", "Process 1")))
	err := m.AddProcess(NewProcess("p1", "Process 1 dup"))
	assert.ErrorIs(t, err, ErrDuplicateID)
}

func TestWildcardMatch(t *testing.T) {
	assert.True(t, WildcardMatch("Plant*", "Plant A"))
	assert.True(t, WildcardMatch("Plant?", "Plant1"))
	assert.False(t, WildcardMatch("Plant?", "Plant12"))
	assert.True(t, WildcardMatch("Unit#", "Unit42"))
	assert.False(t, WildcardMatch("Unit#", "UnitX"))
}

func TestNamesMatching(t *testing.T) {
	run, _ := NewRunConfig()
	m := New(run)
	require.NoError(t, m.AddProcess(NewProcess("pA", "Plant A")))
	require.NoError(t, m.AddProcess(NewProcess("pB", "Plant B")))
	require.NoError(t, m.AddProcess(NewProcess("other", "Boiler")))
	refs := m.NamesMatching(KindProcess, "Plant*")
	assert.Len(t, refs, 2)
}
