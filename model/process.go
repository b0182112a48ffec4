package model

// Process is a level-bearing activity node. Allowed attributes per
// spec.md §6: LB UB IL LCF L CI CO CF MCF CP.
type Process struct {
	NodeBase

	// Grid is non-nil when this process represents a power-grid segment
	// (spec.md §3 PowerGrid/GridProcess); it carries length and loss
	// slopes consumed by AddGridProcessConstraints / AddPowerFlowToCoefficients.
	Grid *GridProcess
}

// NewProcess constructs an empty Process.
func NewProcess(id, name string) *Process {
	return &Process{NodeBase: NewNodeBase(Ref{Kind: KindProcess, ID: id}, name)}
}

// GridProcess carries the power-grid-specific geometry of spec.md §3: a
// segment length and up to three piecewise loss slopes (Up_i/Down_i pairs
// allocated by the tableau builder's pre-pass, spec.md §4.4 item 3).
type GridProcess struct {
	LengthKm       float64
	LossSlopeUB    [3]float64 // upper bound of each slope's activation range
	LossSlopeLB    [3]float64 // lower bound of each slope's activation range
	NumSlopes      int        // 0..3 slopes actually configured
}
