package tableau

import (
	"fmt"

	"github.com/linnyr/engine/model"
)

// Layout assigns tableau columns to variable roles. Per-step variables
// (allocated by AllocStep) get one local slot in [0, stepCols) that is
// repeated at every t_rel, resolved as `t_rel*stepCols + slot` (spec.md
// §4.4's "running column offset = cols · t_rel"). Chunk variables
// (allocated by AllocChunk — the peak-increase BPI/CPI pair) are single
// columns for the whole chunk, placed after all per-step columns.
type Layout struct {
	perStep     map[string]int
	nextStep    int
	chunkVars   map[string]int
	nextChunk   int
}

// NewLayout constructs an empty Layout.
func NewLayout() *Layout {
	return &Layout{perStep: make(map[string]int), chunkVars: make(map[string]int)}
}

// Key builds the variable-role key an Instr's Key/Key2 field carries:
// "<Kind>:<ID>:<role>", e.g. "Process:p1:L".
func Key(ref model.Ref, role string) string {
	return fmt.Sprintf("%s:%s:%s", ref.Kind, ref.ID, role)
}

// AllocStep reserves (or returns the existing) per-step local slot for key.
func (l *Layout) AllocStep(key string) int {
	if i, ok := l.perStep[key]; ok {
		return i
	}
	i := l.nextStep
	l.perStep[key] = i
	l.nextStep++
	return i
}

// StepSlot returns the local slot for key, or -1 if never allocated.
func (l *Layout) StepSlot(key string) int {
	if i, ok := l.perStep[key]; ok {
		return i
	}
	return -1
}

// AllocChunk reserves (or returns the existing) chunk-level column index
// for key (spec.md §4.4 pre-pass item 5: peak-increase chunk variables).
func (l *Layout) AllocChunk(key string) int {
	if i, ok := l.chunkVars[key]; ok {
		return i
	}
	i := l.nextChunk
	l.chunkVars[key] = i
	l.nextChunk++
	return i
}

// StepCols returns the number of per-step variable slots ("cols" in
// spec.md §4.4).
func (l *Layout) StepCols() int { return l.nextStep }

// NumChunkVars returns the count of chunk-level (non-per-step) columns.
func (l *Layout) NumChunkVars() int { return l.nextChunk }
