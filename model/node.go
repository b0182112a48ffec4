package model

import "github.com/linnyr/engine/xnum"

// NodeBase holds the attribute storage shared by Process and Product:
// formula-backed attributes (LB, UB, IL, ...) plus solver-decoded result
// vectors (L, CP, CI, CO, CF, ...). Pre-solve attributes are read through
// Exprs; level-based attributes are populated post-solve by package block
// and read through Results.
type NodeBase struct {
	Entity

	Exprs   map[Attribute]Expr
	Results map[Attribute]*Vector

	// Flags controlling which optional tableau columns the builder
	// allocates for this node (spec.md §4.4 pre-pass).
	EqualBounds      bool // LB==UB forces a single EQ row instead of LE/GE
	RoundFixated     bool // force lb=ub=prior level for the active round
	NeedsNZPPartition bool // allocate POS/NEG/IZ/PEP/NEP/PSC/NSC
	SemiContinuous   bool // solver lacks native SC support; emulate with binaries
	SpinningReserve  bool // allocate spinning-reserve helper columns
	PeakIncreaseSrc  bool // allocate b-peak / la-peak chunk variables
	StartupShutdown  bool // allocate startup/shutdown/first-commit binaries
}

// NewNodeBase constructs an empty attribute store for ref/name.
func NewNodeBase(ref Ref, name string) NodeBase {
	return NodeBase{
		Entity:  Entity{Ref: ref, Name: name},
		Exprs:   make(map[Attribute]Expr),
		Results: make(map[Attribute]*Vector),
	}
}

// Attr dispatches a (possibly level-based) attribute read at step t: if
// attr is level-based, the solver-decoded Results vector is consulted;
// otherwise the compiled Expr is evaluated. Returns ErrBadRef if neither
// is present.
func (n *NodeBase) Attr(attr Attribute, t, w int) xnum.Value {
	if IsLevelBased(attr) {
		if v, ok := n.Results[attr]; ok {
			return v.At(t)
		}
		return xnum.Value{Kind: xnum.NotComputed}
	}
	if e, ok := n.Exprs[attr]; ok {
		return e.Result(t, w)
	}
	return xnum.Err(xnum.ErrBadRef)
}

// SetExpr attaches a compiled expression to attr.
func (n *NodeBase) SetExpr(attr Attribute, e Expr) { n.Exprs[attr] = e }

// ResultVector returns (creating if absent) the decoded result vector for
// a level-based attribute, sized length with NotComputed fill.
func (n *NodeBase) ResultVector(attr Attribute, length int) *Vector {
	if v, ok := n.Results[attr]; ok {
		return v
	}
	v := NewVector(length, xnum.Value{Kind: xnum.NotComputed})
	n.Results[attr] = v
	return v
}
