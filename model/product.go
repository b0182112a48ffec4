package model

// Product is a stock-bearing commodity node. Allowed attributes per
// spec.md §6: LB UB IL P L CP HCP.
type Product struct {
	NodeBase
}

// NewProduct constructs an empty Product.
func NewProduct(id, name string) *Product {
	return &Product{NodeBase: NewNodeBase(Ref{Kind: KindProduct, ID: id}, name)}
}
