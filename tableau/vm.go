package tableau

import (
	"errors"
	"fmt"
)

// haltBatchSize is the opcode-batch granularity at which Run polls
// c.Halt (spec.md §5: "a halt flag is polled at each opcode-batch
// boundary of the tableau builder (every N instructions)").
const haltBatchSize = 256

// ErrHalted is returned by Run when c.Halt reported true before the
// chunk finished executing; the caller discards the partial Tableau
// (spec.md §5: "on halt, the current block's tableau is discarded").
var ErrHalted = errors.New("tableau: halted")

// Run executes prog once per time step of the chunk (spec.md §4.4's
// "Emission" step runs the generator once; each opcode then executes
// once per t_rel), accumulating rows into c.Tableau. Call Prepare and
// Build before Run.
func (c *BuildCtx) Run(prog []Instr) error {
	executed := 0
	for tRel := 0; tRel < c.ChunkLen; tRel++ {
		for _, in := range prog {
			Exec(c, in, tRel)
			executed++
			if executed%haltBatchSize == 0 && c.Halt != nil && c.Halt() {
				return ErrHalted
			}
		}
	}
	return nil
}

// Issues returns the non-fatal diagnostics accumulated while building
// (e.g. unresolved resolver lookups), for the block orchestrator's
// per-block message log (spec.md §4.6 "Failure handling").
func (c *BuildCtx) Issues() []string { return c.issues }

// logIssue appends a diagnostic to the build's issue log.
func (c *BuildCtx) logIssue(format string, args ...any) {
	c.issues = append(c.issues, fmt.Sprintf(format, args...))
}
