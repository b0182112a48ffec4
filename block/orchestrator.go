package block

import (
	"context"
	"fmt"

	"github.com/linnyr/engine/lpmps"
	"github.com/linnyr/engine/model"
	"github.com/linnyr/engine/solver"
	"github.com/linnyr/engine/tableau"
)

// Orchestrator drives one model through its full run: every block, every
// round in round_sequence, per spec.md §4.6.
type Orchestrator struct {
	Model    *model.Model
	Resolver tableau.Resolver
	Cfg      Config
}

// New constructs an Orchestrator over m, resolved via r, configured by cfg.
func New(m *model.Model, r tableau.Resolver, cfg Config) *Orchestrator {
	return &Orchestrator{Model: m, Resolver: r, Cfg: cfg.withDefaults()}
}

// RoundResult is one block/round pass's outcome.
type RoundResult struct {
	Block      int // 0-based
	Round      byte
	Status     int32
	Issues     []Issue
	ObjScalar  float64
	CashScalar float64
	SlackHSP   float64
}

// Result is the full run's outcome: one RoundResult per block/round pass
// actually executed, in execution order.
type Result struct {
	Rounds []RoundResult
}

// Run executes every block's round sequence in order (spec.md §4.6 item
// 2, §5's "blocks are processed sequentially"), returning as soon as a
// halt is observed or ctx is canceled.
func (o *Orchestrator) Run(ctx context.Context) (*Result, error) {
	res := &Result{}
	rc := o.Model.Run
	numBlocks := rc.NumBlocks()

	for b := 0; b < numBlocks; b++ {
		if o.Cfg.Halt != nil && o.Cfg.Halt() {
			return res, nil
		}
		if err := ctx.Err(); err != nil {
			return res, err
		}

		chunkStart := rc.StartPeriod + b*rc.BlockLength
		blockLen := rc.BlockLength
		if remaining := rc.EndPeriod - chunkStart + 1; remaining < blockLen {
			blockLen = remaining
		}
		chunkLen := blockLen + rc.LookAhead

		for _, round := range []byte(rc.RoundSeq) {
			rr, err := o.runRound(ctx, b, round, chunkStart, chunkLen, blockLen)
			if err != nil {
				return res, err
			}
			res.Rounds = append(res.Rounds, *rr)
		}
	}
	return res, nil
}

func (o *Orchestrator) runRound(ctx context.Context, block int, round byte, chunkStart, chunkLen, blockLen int) (*RoundResult, error) {
	bc := tableau.NewBuildCtx(o.Model, o.Resolver, o.Cfg.Caps, chunkStart, chunkLen, block+1)
	bc.BlockLen = blockLen
	bc.Diagnose = o.Model.Run.Diagnose
	bc.Halt = o.Cfg.Halt
	bc.Prepare()
	prog := bc.Build()

	rr := &RoundResult{Block: block, Round: round}

	if err := bc.Run(prog); err != nil {
		if err == tableau.ErrHalted {
			rr.Status = -1
			rr.Issues = []Issue{{Severity: SevFatal, Message: "halted mid-block"}}
			return rr, nil
		}
		return nil, err
	}

	rr.ObjScalar = scaleObjective(bc.Tableau)
	rr.CashScalar = scaleCash(bc.Tableau)
	rr.SlackHSP = slackPenalty(o.Cfg, chunkLen, len(o.Model.Processes), highestLinkRate(o.Model, chunkStart))

	var issues []Issue
	for _, msg := range bc.Issues() {
		issues = append(issues, Issue{Severity: SevWarning, Message: msg})
	}

	if err := bc.Tableau.CheckNumericEnvelope(); err != nil {
		issues = append(issues, Issue{Severity: SevFatal, Message: err.Error()})
		rr.Status = -1
		rr.Issues = sortIssues(issues)
		return rr, nil
	}

	text, err := lpmps.Serialize(bc.Tableau, lpmps.WithDialect(o.Cfg.Dialect))
	if err != nil {
		issues = append(issues, Issue{Severity: SevFatal, Message: err.Error()})
		rr.Status = -1
		rr.Issues = sortIssues(issues)
		return rr, nil
	}

	resp, err := o.Cfg.Solver.Solve(ctx, solver.Request{
		ModelText:  text,
		DialectID:  o.Cfg.Dialect.String(),
		BlockLabel: fmt.Sprintf("%d", block+1),
		RoundLabel: string(round),
	})
	if err != nil {
		return nil, err
	}
	rr.Status = resp.Status
	for _, msg := range resp.Messages {
		issues = append(issues, Issue{Severity: SevError, Message: msg})
	}

	if resp.Status != 0 || !resp.SolutionAvailable {
		// Failure handling (spec.md §7): record the issue, retain any
		// prior look-ahead values rather than overwrite with garbage —
		// which falls out naturally here, since decode is simply skipped.
		issues = append(issues, Issue{Severity: SevError, Message: fmt.Sprintf("solver status=%d, no usable solution", resp.Status)})
		rr.Issues = sortIssues(issues)
		return rr, nil
	}

	decode(bc, o.Cfg, resp.X, chunkLen)
	rr.Issues = sortIssues(issues)
	return rr, nil
}
