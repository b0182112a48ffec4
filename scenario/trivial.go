// Package scenario builds small, fully in-code models for the CLI and
// the block tests: since no file/XML loader is in scope (spec.md §1
// Non-goals: "no persistence format"), a runnable end-to-end proof of
// the pipeline has to construct its model directly against package
// model and package expr.
package scenario

import (
	"github.com/linnyr/engine/expr"
	"github.com/linnyr/engine/model"
)

// Trivial builds spec.md §8 scenario 1: one process (LB=0, UB=10), one
// product, one LEVEL-rate link between them, one actor (weight 1), over
// a 3-step horizon with no look-ahead, a single block, and a single
// round. Solved, it expects L=[10,10,10], CashIn=[10,10,10], and an
// (unscaled) objective of 30.
func Trivial() (*model.Model, *expr.Evaluator) {
	run, err := model.NewRunConfig(
		model.WithHorizon(1, 3),
		model.WithBlockLength(3),
		model.WithLookAhead(0),
		model.WithRounds(1),
	)
	if err != nil {
		panic(err) // constant, known-valid config; a failure here is a programming error
	}
	m := model.New(run)

	proc := model.NewProcess("p1", "Generator")
	prod := model.NewProduct("q1", "Output")
	actor := model.NewActor("a1", "Owner")
	link := model.NewLink("l1", "p1->q1", proc.Ref, prod.Ref, nil)

	ev := expr.NewEvaluator(m)
	mustCompile := func(owner model.Ref, attr model.Attribute, text string) model.Expr {
		e, err := ev.Compile(owner, attr, text)
		if err != nil {
			panic(err)
		}
		return e
	}

	proc.SetExpr("LB", mustCompile(proc.Ref, "LB", "0"))
	proc.SetExpr("UB", mustCompile(proc.Ref, "UB", "10"))
	prod.SetExpr("UB", mustCompile(prod.Ref, "UB", "1e6"))
	actor.Weight = mustCompile(actor.Ref, "W", "1")
	link.Rate = mustCompile(link.Ref, "R", "1")

	must := func(err error) {
		if err != nil {
			panic(err)
		}
	}
	must(m.AddProcess(proc))
	must(m.AddProduct(prod))
	must(m.AddActor(actor))
	must(m.AddLink(link))

	return m, ev
}
