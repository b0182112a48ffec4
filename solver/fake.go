package solver

import (
	"context"

	"github.com/linnyr/engine/lpmps"
	"github.com/linnyr/engine/tableau"
)

// Fake is a deterministic, non-optimizing Adapter. It parses the CPLEX-
// dialect LP text (the only dialect lpmps.ParseCPLEX understands), pins
// each column to whichever bound its objective coefficient favors when
// that bound is finite, then repeatedly resolves equality rows that have
// exactly one still-unpinned column until no further row can be
// resolved. It is not a branch-and-bound or simplex solver — inequality
// rows are never consulted, so nothing here guarantees feasibility
// against them — and exists only so the orchestrator's decode path is
// exercisable end-to-end without a real MILP backend (spec.md §1
// Non-goals: "no solver implementation").
type Fake struct {
	// MaxPasses bounds the equality-propagation fixpoint loop; 0 means 8.
	MaxPasses int
}

// Solve implements Adapter.
func (f *Fake) Solve(ctx context.Context, req Request) (Response, error) {
	if err := ctx.Err(); err != nil {
		return Response{}, err
	}

	p, err := lpmps.ParseCPLEX(req.ModelText)
	if err != nil {
		return Response{Status: 1, Messages: []string{err.Error()}}, nil
	}

	x := make([]float64, p.NumCols)
	free := make([]bool, p.NumCols)
	for col := 0; col < p.NumCols; col++ {
		lb, ub, c := p.LB[col], p.UB[col], p.Obj[col]
		switch {
		case c >= 0 && ub < tableau.SolverInfinity:
			x[col] = ub
		case c < 0 && lb > -tableau.SolverInfinity:
			x[col] = lb
		default:
			free[col] = true
		}
	}

	passes := f.MaxPasses
	if passes <= 0 {
		passes = 8
	}
	for pass := 0; pass < passes; pass++ {
		changed := false
		for _, row := range p.Rows {
			if row.Sense != "=" {
				continue
			}
			freeCol, freeCoeff, nFree := -1, 0.0, 0
			sum := row.RHS
			for col, coeff := range row.Coeffs {
				if free[col] {
					nFree++
					freeCol, freeCoeff = col, coeff
					continue
				}
				sum -= coeff * x[col]
			}
			if nFree == 1 && freeCoeff != 0 {
				x[freeCol] = sum / freeCoeff
				free[freeCol] = false
				changed = true
			}
		}
		if !changed {
			break
		}
	}

	return Response{
		Status:            0,
		X:                 x,
		SolutionAvailable: true,
	}, nil
}
