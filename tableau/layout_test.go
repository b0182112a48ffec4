package tableau

import (
	"testing"

	"github.com/linnyr/engine/model"
	"github.com/stretchr/testify/assert"
)

func TestKeyFormat(t *testing.T) {
	ref := model.Ref{Kind: model.KindProcess, ID: "p1"}
	assert.Equal(t, "Process:p1:L", Key(ref, "L"))
}

func TestLayoutAllocStepIdempotent(t *testing.T) {
	l := NewLayout()
	ref := model.Ref{Kind: model.KindProcess, ID: "p1"}
	a := l.AllocStep(Key(ref, "L"))
	b := l.AllocStep(Key(ref, "L"))
	assert.Equal(t, a, b)
	assert.Equal(t, 1, l.StepCols())

	other := l.AllocStep(Key(ref, "POS"))
	assert.NotEqual(t, a, other)
	assert.Equal(t, 2, l.StepCols())
}

func TestLayoutStepSlotUnallocated(t *testing.T) {
	l := NewLayout()
	assert.Equal(t, -1, l.StepSlot("nope"))
}

func TestLayoutAllocChunkSeparateFromStep(t *testing.T) {
	l := NewLayout()
	ref := model.Ref{Kind: model.KindProcess, ID: "p1"}
	l.AllocStep(Key(ref, "L"))
	bpi := l.AllocChunk(Key(ref, "BPI"))
	cpi := l.AllocChunk(Key(ref, "CPI"))
	assert.Equal(t, 0, bpi)
	assert.Equal(t, 1, cpi)
	assert.Equal(t, 2, l.NumChunkVars())
	assert.Equal(t, 1, l.StepCols())
}
