package tableau

import (
	"fmt"
	"sort"

	"github.com/linnyr/engine/model"
)

// gridEdge views one grid-process segment as an edge between the two
// product vertices it connects (spec.md §4.4's Kirchhoff cycle rows),
// adapted from lvlath's DFS cycle detector by swapping vertex/edge roles:
// there a graph vertex is a plain ID and an edge a core.Edge; here a
// vertex is a product Ref and an edge is a grid process carrying a
// length*reactance weight.
type gridEdge struct {
	Process  model.Ref
	From, To model.Ref
	Weight   float64
}

// gridEdges resolves grid's member processes into oriented edges between
// their upstream/downstream product, dropping any process "broken" by a
// zero upper bound at this step (spec.md §4.4: "not broken by a
// zero-upper-bound process").
func (c *BuildCtx) gridEdges(grid *model.PowerGrid, tRel int) []gridEdge {
	absT := c.ChunkStart + tRel
	var edges []gridEdge
	for _, ref := range grid.Members {
		p, ok := c.Model.Processes[ref.ID]
		if !ok || p.Grid == nil {
			continue
		}
		if ub := c.Resolver.Attr(ref, "UB", absT, 0); ub.Defined && ub.Value == 0 {
			continue
		}
		from, to, ok := c.gridEndpoints(ref)
		if !ok {
			continue
		}
		edges = append(edges, gridEdge{
			Process: ref,
			From:    from,
			To:      to,
			Weight:  p.Grid.LengthKm * grid.ReactancePerKm,
		})
	}
	return edges
}

// gridEndpoints finds the product feeding a grid process (an inbound
// link) and the product it feeds (an outbound link).
func (c *BuildCtx) gridEndpoints(process model.Ref) (from, to model.Ref, ok bool) {
	var haveFrom, haveTo bool
	for _, id := range sortedKeys(c.Model.Links) {
		l := c.Model.Links[id]
		if l.To == process && !haveFrom {
			from, haveFrom = l.From, true
		}
		if l.From == process && !haveTo {
			to, haveTo = l.To, true
		}
	}
	return from, to, haveFrom && haveTo
}

// addKirchhoffConstraints emits one voltage-law row per fundamental
// cycle of the grid's process/product graph: Σ ±(length·reactance)·L = 0
// (spec.md §4.4). The cycle basis is the set of cotree edges of a
// spanning forest over the grid graph; each cotree edge closes exactly
// one fundamental cycle with the tree path between its endpoints.
func (c *BuildCtx) addKirchhoffConstraints(grid *model.PowerGrid, tRel int) {
	if grid == nil {
		return
	}
	edges := c.gridEdges(grid, tRel)
	if len(edges) == 0 {
		return
	}

	adj := map[model.Ref][]int{}
	for i, e := range edges {
		adj[e.From] = append(adj[e.From], i)
		adj[e.To] = append(adj[e.To], i)
	}

	vertices := make([]model.Ref, 0, len(adj))
	for v := range adj {
		vertices = append(vertices, v)
	}
	sort.Slice(vertices, func(i, j int) bool { return vertices[i].String() < vertices[j].String() })

	visited := make(map[model.Ref]bool, len(vertices))
	parentEdge := make(map[model.Ref]int, len(vertices))
	parentVert := make(map[model.Ref]model.Ref, len(vertices))
	depth := make(map[model.Ref]int, len(vertices))
	inTree := make([]bool, len(edges))

	for _, root := range vertices {
		if visited[root] {
			continue
		}
		visited[root] = true
		depth[root] = 0
		stack := []model.Ref{root}
		for len(stack) > 0 {
			v := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, ei := range adj[v] {
				e := edges[ei]
				nbr := e.To
				if nbr == v {
					nbr = e.From
				}
				if visited[nbr] {
					continue
				}
				visited[nbr] = true
				parentEdge[nbr] = ei
				parentVert[nbr] = v
				depth[nbr] = depth[v] + 1
				inTree[ei] = true
				stack = append(stack, nbr)
			}
		}
	}

	for ei, e := range edges {
		if inTree[ei] {
			continue
		}
		cycle := fundamentalCycle(e, edges, parentEdge, parentVert, depth)
		if len(cycle) == 0 {
			continue
		}
		c.clearCoefficients()
		for _, term := range cycle {
			col := c.Tableau.ColumnOf(c.Layout, Key(term.edge.Process, "L"), tRel)
			c.coeff[col] += term.sign * term.edge.Weight
		}
		c.addConstraint(RowEQ, fmt.Sprintf("KIRCHHOFF[%s.%d]@%d", grid.Ref.ID, ei, tRel))
	}
}

// cycleTerm is one edge's signed contribution to a fundamental cycle
// equation: sign is +1 when the cycle traverses the edge in its stored
// From->To orientation, -1 when traversed To->From.
type cycleTerm struct {
	edge gridEdge
	sign float64
}

func signedTerm(edge gridEdge, traversedFrom, traversedTo model.Ref) cycleTerm {
	if edge.From == traversedFrom && edge.To == traversedTo {
		return cycleTerm{edge: edge, sign: 1}
	}
	return cycleTerm{edge: edge, sign: -1}
}

// fundamentalCycle closes cotree edge e with the spanning-tree path
// between its endpoints: climb both endpoints to their lowest common
// ancestor, then assemble e followed by the v-side climb and the
// reversed, sign-flipped u-side climb (spec.md §4.4's "emit Σ ±(length ·
// reactance) · L = 0").
func fundamentalCycle(e gridEdge, edges []gridEdge, parentEdge map[model.Ref]int, parentVert map[model.Ref]model.Ref, depth map[model.Ref]int) []cycleTerm {
	climb := func(v model.Ref, targetDepth int) []cycleTerm {
		var terms []cycleTerm
		for depth[v] > targetDepth {
			pe := parentEdge[v]
			pv := parentVert[v]
			terms = append(terms, signedTerm(edges[pe], v, pv))
			v = pv
		}
		return terms
	}

	u, v := e.From, e.To
	lu, lv := u, v
	for depth[lu] > depth[lv] {
		lu = parentVert[lu]
	}
	for depth[lv] > depth[lu] {
		lv = parentVert[lv]
	}
	for lu != lv {
		lu = parentVert[lu]
		lv = parentVert[lv]
	}
	lcaDepth := depth[lu]

	uClimb := climb(u, lcaDepth)
	vClimb := climb(v, lcaDepth)

	cycle := make([]cycleTerm, 0, len(uClimb)+len(vClimb)+1)
	cycle = append(cycle, cycleTerm{edge: e, sign: 1})
	cycle = append(cycle, vClimb...)
	for i := len(uClimb) - 1; i >= 0; i-- {
		t := uClimb[i]
		cycle = append(cycle, cycleTerm{edge: t.edge, sign: -t.sign})
	}
	return cycle
}
