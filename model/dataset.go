package model

// Dataset carries a raw time series plus zero or more named modifier
// expressions (spec.md §4.1's `pattern|attribute` modifier grammar, where
// attribute names a Dataset modifier rather than a Process/Product
// attribute letter).
type Dataset struct {
	Entity

	Data      *Vector
	Modifiers map[string]Expr
}

// NewDataset constructs a Dataset backed by data, with no modifiers.
func NewDataset(id, name string, data *Vector) *Dataset {
	return &Dataset{
		Entity:    Entity{Ref: Ref{Kind: KindDataset, ID: id}, Name: name},
		Data:      data,
		Modifiers: make(map[string]Expr),
	}
}

// Equation is a named formula (the GLOSSARY's "Method" when its selector
// begins with ':') not owned by any process/product/actor.
type Equation struct {
	Entity

	Formula Expr
}

// NewEquation constructs an Equation wrapping formula.
func NewEquation(id, name string, formula Expr) *Equation {
	return &Equation{Entity: Entity{Ref: Ref{Kind: KindEquation, ID: id}, Name: name}, Formula: formula}
}
