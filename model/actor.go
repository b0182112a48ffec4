package model

import "github.com/linnyr/engine/xnum"

// Actor owns processes and carries a decision weight, plus the cash
// registers the tableau builder emits per spec.md §4.4's
// AddCashConstraints. Allowed attributes per spec.md §6: W CI CO CF.
type Actor struct {
	Entity

	Weight Expr // W: the actor's decision weight, usually static

	// CashIn/CashOut/CashFlow are populated post-solve by package block
	// (spec.md §4.6 item 6: "actor cash in/out/flow").
	CashIn  *Vector
	CashOut *Vector
	CashFlow *Vector

	// CashInVar/CashOutVar are the tableau column indices allocated for
	// this actor's unbounded cash-in/cash-out variables (spec.md §4.4
	// pre-pass item 2); -1 until allocated.
	CashInVar  int
	CashOutVar int
}

// NewActor constructs an Actor with unallocated cash variable indices.
func NewActor(id, name string) *Actor {
	return &Actor{
		Entity:     Entity{Ref: Ref{Kind: KindActor, ID: id}, Name: name},
		CashInVar:  -1,
		CashOutVar: -1,
	}
}

// AttrW evaluates the actor's weight expression at (t, w), or returns
// Undefined if no weight was assigned.
func (a *Actor) AttrW(t, w int) xnum.Value {
	if a.Weight == nil {
		return xnum.Value{Kind: xnum.Undefined}
	}
	return a.Weight.Result(t, w)
}
