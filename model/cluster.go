package model

// Cluster groups processes/products for roll-up reporting. Allowed
// attributes per spec.md §6: CI CO CF — all populated post-solve by
// package block's roll-up step (spec.md §4.6 item 6).
type Cluster struct {
	Entity

	Members []Ref

	CI *Vector
	CO *Vector
	CF *Vector
}

// NewCluster constructs an empty Cluster.
func NewCluster(id, name string, members ...Ref) *Cluster {
	return &Cluster{Entity: Entity{Ref: Ref{Kind: KindCluster, ID: id}, Name: name}, Members: members}
}
