package model

import (
	"errors"
	"fmt"
)

// ErrDuplicateID indicates an Add* call reused an existing ID within its kind.
var ErrDuplicateID = errors.New("model: duplicate entity id")

// ErrNotFound indicates a lookup by Ref found nothing.
var ErrNotFound = errors.New("model: entity not found")

// Model is the entity graph the expr and tableau packages operate over:
// a set of registries keyed by ID, one per Kind, plus the active
// RunConfig. Model owns no storage/serialization; it is populated
// entirely by the (out of scope) caller before a run starts.
type Model struct {
	Actors      map[string]*Actor
	Processes   map[string]*Process
	Products    map[string]*Product
	Clusters    map[string]*Cluster
	Links       map[string]*Link
	Constraints map[string]*Constraint
	Datasets    map[string]*Dataset
	Equations   map[string]*Equation
	Grids       map[string]*PowerGrid

	Run RunConfig
}

// New constructs an empty Model governed by run.
func New(run RunConfig) *Model {
	return &Model{
		Actors:      make(map[string]*Actor),
		Processes:   make(map[string]*Process),
		Products:    make(map[string]*Product),
		Clusters:    make(map[string]*Cluster),
		Links:       make(map[string]*Link),
		Constraints: make(map[string]*Constraint),
		Datasets:    make(map[string]*Dataset),
		Equations:   make(map[string]*Equation),
		Grids:       make(map[string]*PowerGrid),
		Run:         run,
	}
}

// AddProcess registers p, or returns ErrDuplicateID.
func (m *Model) AddProcess(p *Process) error {
	if _, exists := m.Processes[p.Ref.ID]; exists {
		return fmt.Errorf("Model.AddProcess(%s): %w", p.Ref.ID, ErrDuplicateID)
	}
	m.Processes[p.Ref.ID] = p
	return nil
}

// AddProduct registers p, or returns ErrDuplicateID.
func (m *Model) AddProduct(p *Product) error {
	if _, exists := m.Products[p.Ref.ID]; exists {
		return fmt.Errorf("Model.AddProduct(%s): %w", p.Ref.ID, ErrDuplicateID)
	}
	m.Products[p.Ref.ID] = p
	return nil
}

// AddActor registers a, or returns ErrDuplicateID.
func (m *Model) AddActor(a *Actor) error {
	if _, exists := m.Actors[a.Ref.ID]; exists {
		return fmt.Errorf("Model.AddActor(%s): %w", a.Ref.ID, ErrDuplicateID)
	}
	m.Actors[a.Ref.ID] = a
	return nil
}

// AddLink registers l, or returns ErrDuplicateID.
func (m *Model) AddLink(l *Link) error {
	if _, exists := m.Links[l.Ref.ID]; exists {
		return fmt.Errorf("Model.AddLink(%s): %w", l.Ref.ID, ErrDuplicateID)
	}
	m.Links[l.Ref.ID] = l
	return nil
}

// AddConstraint registers c, or returns ErrDuplicateID.
func (m *Model) AddConstraint(c *Constraint) error {
	if _, exists := m.Constraints[c.Ref.ID]; exists {
		return fmt.Errorf("Model.AddConstraint(%s): %w", c.Ref.ID, ErrDuplicateID)
	}
	m.Constraints[c.Ref.ID] = c
	return nil
}

// AddCluster registers c, or returns ErrDuplicateID.
func (m *Model) AddCluster(c *Cluster) error {
	if _, exists := m.Clusters[c.Ref.ID]; exists {
		return fmt.Errorf("Model.AddCluster(%s): %w", c.Ref.ID, ErrDuplicateID)
	}
	m.Clusters[c.Ref.ID] = c
	return nil
}

// AddDataset registers d, or returns ErrDuplicateID.
func (m *Model) AddDataset(d *Dataset) error {
	if _, exists := m.Datasets[d.Ref.ID]; exists {
		return fmt.Errorf("Model.AddDataset(%s): %w", d.Ref.ID, ErrDuplicateID)
	}
	m.Datasets[d.Ref.ID] = d
	return nil
}

// AddEquation registers e, or returns ErrDuplicateID.
func (m *Model) AddEquation(e *Equation) error {
	if _, exists := m.Equations[e.Ref.ID]; exists {
		return fmt.Errorf("Model.AddEquation(%s): %w", e.Ref.ID, ErrDuplicateID)
	}
	m.Equations[e.Ref.ID] = e
	return nil
}

// AddGrid registers g, or returns ErrDuplicateID.
func (m *Model) AddGrid(g *PowerGrid) error {
	if _, exists := m.Grids[g.Ref.ID]; exists {
		return fmt.Errorf("Model.AddGrid(%s): %w", g.Ref.ID, ErrDuplicateID)
	}
	m.Grids[g.Ref.ID] = g
	return nil
}

// Node returns the NodeBase for a Process or Product ref, or ok=false.
func (m *Model) Node(ref Ref) (*NodeBase, bool) {
	switch ref.Kind {
	case KindProcess:
		if p, ok := m.Processes[ref.ID]; ok {
			return &p.NodeBase, true
		}
	case KindProduct:
		if p, ok := m.Products[ref.ID]; ok {
			return &p.NodeBase, true
		}
	}
	return nil, false
}

// NamesMatching returns the IDs of every Process/Product/Cluster/Actor/
// Dataset entity whose name matches the wildcard pattern (spec.md §4.1's
// `?`, `*`, `#` pattern grammar over the matched entity's name), used by
// the expr package's wildcard-statistics reductions.
func (m *Model) NamesMatching(kind Kind, pattern string) []Ref {
	match := func(name string) bool { return WildcardMatch(pattern, name) }
	var out []Ref
	switch kind {
	case KindProcess:
		for _, p := range m.Processes {
			if match(p.Name) {
				out = append(out, p.Ref)
			}
		}
	case KindProduct:
		for _, p := range m.Products {
			if match(p.Name) {
				out = append(out, p.Ref)
			}
		}
	case KindActor:
		for _, a := range m.Actors {
			if match(a.Name) {
				out = append(out, a.Ref)
			}
		}
	case KindCluster:
		for _, c := range m.Clusters {
			if match(c.Name) {
				out = append(out, c.Ref)
			}
		}
	case KindDataset:
		for _, d := range m.Datasets {
			if match(d.Name) {
				out = append(out, d.Ref)
			}
		}
	}
	return out
}
