package model

// BoundLineType is the inequality/equality sense of a bound line's Y
// relative to its piecewise-linear X-Y curve (spec.md §3).
type BoundLineType uint8

const (
	BoundLE BoundLineType = iota
	BoundGE
	BoundEQ
)

// BoundLine is a polyline confining the feasible (X,Y) region between two
// nodes, realized via SOS2 vertex weights (spec.md §3, §4.4,
// AddBoundLineConstraint). PX/PY are percentages in [0,100] of the X and
// Y node's bound range respectively; the tableau builder
// materializes them into absolute (x,y) coordinates per time step.
type BoundLine struct {
	Type BoundLineType

	PX []float64 // ordered vertex X percentages, each in [0,100]
	PY []float64 // ordered vertex Y percentages

	NeedsNoSOS bool // convexity flag: line is convex, SOS2 not strictly required
	NoSlack    bool // suppress the LE/GE slack variable for this line
}

// NumVertices returns the vertex count of the line.
func (b *BoundLine) NumVertices() int { return len(b.PX) }

// Materialize converts the line's percentage vertices into absolute (x,y)
// coordinates given the X/Y node bound ranges at a given time step, per
// spec.md §4.4's AddBoundLineConstraint materialization step.
func (b *BoundLine) Materialize(lbx, ubx, lby, uby float64) (xs, ys []float64) {
	xs = make([]float64, len(b.PX))
	ys = make([]float64, len(b.PY))
	for i := range b.PX {
		xs[i] = lbx + (ubx-lbx)*b.PX[i]/100.0
		ys[i] = lby + (uby-lby)*b.PY[i]/100.0
	}
	return xs, ys
}

// Constraint confines the (X,Y) relationship between two nodes through
// one or more BoundLines (spec.md §3).
type Constraint struct {
	Entity

	From Ref
	To   Ref

	Lines []BoundLine

	// SOC/A are the allowed attributes of spec.md §6, populated post-solve.
	SOC *Vector
	A   *Vector
}

// NewConstraint constructs an empty Constraint between from and to.
func NewConstraint(id, name string, from, to Ref, lines ...BoundLine) *Constraint {
	return &Constraint{
		Entity: Entity{Ref: Ref{Kind: KindConstraint, ID: id}, Name: name},
		From:   from,
		To:     to,
		Lines:  lines,
	}
}
