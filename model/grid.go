package model

// PowerGrid groups GridProcess segments sharing a power unit and loss
// approximation policy (spec.md §3).
type PowerGrid struct {
	Entity

	Unit           string  // power unit label, e.g. "MW"
	ReactancePerKm float64 // Ω/km, used by AddKirchhoffConstraints row weights
	LossLevel      int     // 0..3, selects how many loss slopes are modeled

	// Members lists the grid-process segments (process refs with a
	// non-nil GridProcess) belonging to this grid, in the order the edges
	// were wired; AddKirchhoffConstraints walks them to build the
	// process-as-edge/product-as-vertex graph for cycle-basis detection.
	Members []Ref
}

// NewPowerGrid constructs a PowerGrid over the given grid-process members.
func NewPowerGrid(id, name, unit string, reactancePerKm float64, lossLevel int, members ...Ref) *PowerGrid {
	return &PowerGrid{
		Entity:         Entity{Ref: Ref{Kind: KindCluster, ID: id}, Name: name},
		Unit:           unit,
		ReactancePerKm: reactancePerKm,
		LossLevel:      lossLevel,
		Members:        members,
	}
}
