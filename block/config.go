// Package block implements the orchestrator of spec.md §4.6: it slices
// the simulation horizon into blocks, runs each block's round sequence
// through the tableau builder/VM, scales the objective and cash rows,
// serializes and submits each chunk, decodes the returned primal vector
// back into entity result vectors, and computes the post-solve
// dependent variables (link actual flow, actor cash, cluster roll-ups).
package block

import (
	"math"

	"github.com/linnyr/engine/lpmps"
	"github.com/linnyr/engine/model"
	"github.com/linnyr/engine/solver"
	"github.com/linnyr/engine/tableau"
)

// Config bundles the orchestrator's tunables (spec.md §4.5/§4.6): the
// solver adapter and dialect to submit through, the solver's optional
// constructs, and the slack-penalty/near-zero constants of the scaling
// step.
type Config struct {
	Solver  solver.Adapter
	Dialect lpmps.Dialect
	Caps    tableau.SolverCaps

	// SlackBase is BASE in hsp = BASE * chunk_length * max(1, sqrt(#processes)*highest_link_rate+1).
	SlackBase float64
	// SlackCeiling clamps the computed slack penalty.
	SlackCeiling float64
	// OnOffThreshold is the magnitude below which a decoded level is
	// snapped to exactly 0 (spec.md §4.6 item 5).
	OnOffThreshold float64
	// ReportInfinity is the magnitude reported infinities are rounded to
	// (spec.md §4.6 item 5); defaults to tableau.SolverInfinity.
	ReportInfinity float64

	// Halt, if non-nil, is polled before each block (spec.md §5) and
	// forwarded to every BuildCtx.Run as the opcode-batch-boundary poll.
	Halt func() bool
}

// withDefaults fills zero-valued tunables with the documented defaults.
func (c Config) withDefaults() Config {
	if c.SlackBase <= 0 {
		c.SlackBase = 1
	}
	if c.SlackCeiling <= 0 {
		c.SlackCeiling = 1e6
	}
	if c.OnOffThreshold <= 0 {
		c.OnOffThreshold = 1e-6
	}
	if c.ReportInfinity <= 0 {
		c.ReportInfinity = tableau.SolverInfinity
	}
	return c
}

// slackPenalty computes hsp of spec.md §4.6 item 3.
func slackPenalty(cfg Config, chunkLen, numProcesses int, highestLinkRate float64) float64 {
	factor := math.Sqrt(float64(numProcesses))*highestLinkRate + 1
	if factor < 1 {
		factor = 1
	}
	hsp := cfg.SlackBase * float64(chunkLen) * factor
	if hsp > cfg.SlackCeiling {
		hsp = cfg.SlackCeiling
	}
	return hsp
}

// highestLinkRate scans every link's rate at absolute step t, returning
// the largest magnitude seen (0 if the model has no links or none
// evaluate to a normal value) — the "highest_link_rate" term of the hsp
// formula.
func highestLinkRate(m *model.Model, t int) float64 {
	best := 0.0
	for _, l := range m.Links {
		v := l.Rate.Result(t, 0)
		if !v.IsNormal() {
			continue
		}
		if a := math.Abs(v.Num); a > best {
			best = a
		}
	}
	return best
}
