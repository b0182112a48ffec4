// Command linnyr-solve wires the tableau builder, lp/mps serializer, fake
// solver adapter and block orchestrator into a single runnable pipeline,
// proving the engine end to end against spec.md §8 scenario 1.
//
// There is no model file format in scope (spec.md §1 Non-goals), so the
// model is constructed in code via package scenario.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/linnyr/engine/block"
	"github.com/linnyr/engine/lpmps"
	"github.com/linnyr/engine/scenario"
	"github.com/linnyr/engine/solver"
	"github.com/linnyr/engine/tableau"
)

func main() {
	dialect := flag.String("dialect", "cplex", "lp dialect to serialize through: lp_solve, cplex, mps")
	flag.Parse()

	var d lpmps.Dialect
	switch *dialect {
	case "lp_solve":
		d = lpmps.LPSolve
	case "mps":
		d = lpmps.MPS
	default:
		d = lpmps.CPLEX
	}

	m, _ := scenario.Trivial()
	resolver := &tableau.ModelResolver{Model: m}

	cfg := block.Config{
		Solver:  &solver.Fake{},
		Dialect: d,
	}
	orch := block.New(m, resolver, cfg)

	result, err := orch.Run(context.Background())
	if err != nil {
		fmt.Fprintln(os.Stderr, "linnyr-solve:", err)
		os.Exit(1)
	}

	for _, rr := range result.Rounds {
		fmt.Printf("block %d round %c: status=%d obj_scalar=%g cash_scalar=%g slack_hsp=%g\n",
			rr.Block+1, rr.Round, rr.Status, rr.ObjScalar, rr.CashScalar, rr.SlackHSP)
		for _, iss := range rr.Issues {
			fmt.Printf("  [%s] %s\n", iss.Severity, iss.Message)
		}
	}

	proc := m.Processes["p1"]
	levels := proc.Results["L"]
	if levels != nil {
		fmt.Print("p1.L = [")
		for t := m.Run.StartPeriod; t <= m.Run.EndPeriod; t++ {
			if t > m.Run.StartPeriod {
				fmt.Print(" ")
			}
			fmt.Print(levels.At(t).Num)
		}
		fmt.Println("]")
	}

	actor := m.Actors["a1"]
	if actor.CashIn != nil {
		fmt.Print("a1.CashIn = [")
		for t := m.Run.StartPeriod; t <= m.Run.EndPeriod; t++ {
			if t > m.Run.StartPeriod {
				fmt.Print(" ")
			}
			fmt.Print(actor.CashIn.At(t).Num)
		}
		fmt.Println("]")
	}
}
