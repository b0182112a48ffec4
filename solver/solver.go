// Package solver defines the MILP solver adapter contract of spec.md
// §6 and ships Fake, a deterministic in-memory stand-in used by tests
// and the cmd/linnyr-solve example. No real MILP solver is implemented
// here (out of scope per spec.md §1 Non-goals); Fake exists only to
// exercise the rest of the pipeline (serialize -> submit -> decode)
// end-to-end.
package solver

import "context"

// Request carries everything the solver adapter contract of spec.md §6
// says the core hands an external solver: the serialized model text,
// which dialect it is written in, and the block/round labels for
// logging.
type Request struct {
	ModelText  string
	DialectID  string
	BlockLabel string
	RoundLabel string
}

// Response is the solver adapter contract's output of spec.md §6,
// field-for-field: a status code, the primal vector consumed strictly
// by index, free-form messages, wall-clock seconds, and whether a
// usable solution was returned at all.
type Response struct {
	Status            int32
	X                  []float64
	Messages           []string
	Seconds            float64
	SolutionAvailable bool
}

// Adapter is the callback boundary of spec.md §5 ("the only cooperative
// yield is the boundary at which the serialized tableau is handed to
// the solver adapter"). Implementations may call out to an external
// process or service; ctx carries the orchestrator's halt/cancellation
// signal.
type Adapter interface {
	Solve(ctx context.Context, req Request) (Response, error)
}
