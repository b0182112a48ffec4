// Package model defines the entity graph the expression and tableau
// subsystems operate on: actors, processes, products, clusters, links,
// constraints, datasets, equations and notes, plus the run configuration
// that governs how the horizon is sliced into blocks.
//
// The package owns no persistence or I/O; callers (out of scope per
// spec.md §1) construct a Model and hand it to the expr and tableau
// packages.
package model

import "fmt"

// Kind tags an entity's role in the network, per spec.md §3's tag set.
type Kind uint8

const (
	KindActor Kind = iota
	KindProcess
	KindProduct
	KindCluster
	KindLink
	KindConstraint
	KindDataset
	KindEquation
	KindNote
)

func (k Kind) String() string {
	switch k {
	case KindActor:
		return "Actor"
	case KindProcess:
		return "Process"
	case KindProduct:
		return "Product"
	case KindCluster:
		return "Cluster"
	case KindLink:
		return "Link"
	case KindConstraint:
		return "Constraint"
	case KindDataset:
		return "Dataset"
	case KindEquation:
		return "Equation"
	case KindNote:
		return "Note"
	default:
		return "Unknown"
	}
}

// Attribute is one of the per-kind letters of spec.md §6's attribute
// table (e.g. "L", "CP", "UB").
type Attribute string

// Level-based attributes of spec.md §4.1 item 3: cannot be computed
// pre-solve, because they depend on the tableau's decoded primal vector.
var levelBased = map[Attribute]bool{
	"L": true, "CP": true, "HCP": true, "CF": true, "MCF": true,
	"CI": true, "CO": true, "F": true, "A": true,
}

// IsLevelBased reports whether attr is in the level-based set of spec.md §6.
func IsLevelBased(attr Attribute) bool { return levelBased[attr] }

// attributesByKind is the allowed attribute-letter table from spec.md §6.
var attributesByKind = map[Kind][]Attribute{
	KindActor:      {"W", "CI", "CO", "CF"},
	KindConstraint: {"SOC", "A"},
	KindCluster:    {"CI", "CO", "CF"},
	KindLink:       {"R", "D", "SOC", "F"},
	KindProcess:    {"LB", "UB", "IL", "LCF", "L", "CI", "CO", "CF", "MCF", "CP"},
	KindProduct:    {"LB", "UB", "IL", "P", "L", "CP", "HCP"},
}

// SupportsAttribute reports whether an entity of Kind k exposes attr.
func SupportsAttribute(k Kind, attr Attribute) bool {
	for _, a := range attributesByKind[k] {
		if a == attr {
			return true
		}
	}
	return false
}

// Ref stably identifies one entity within a Model.
type Ref struct {
	Kind Kind
	ID   string
}

func (r Ref) String() string { return fmt.Sprintf("%s(%s)", r.Kind, r.ID) }

// Entity is the common surface every network object exposes: a stable
// identity and display name. Kind-specific data lives on the concrete
// types below (Process, Product, Actor, ...); Entity is what the expr and
// tableau packages look things up by.
type Entity struct {
	Ref  Ref
	Name string
}
