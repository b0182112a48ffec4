package tableau

import (
	"sort"
	"strconv"

	"github.com/linnyr/engine/model"
)

// SolverCaps flags optional constructs the target solver understands
// natively; when false the builder emulates with binaries (spec.md
// §4.4's repeated "when the solver lacks X support" clause).
type SolverCaps struct {
	SOS2           bool
	SemiContinuous bool
}

// BuildCtx is the explicit, non-singleton build context of spec.md §9's
// "Global mutable state" design note: it borrows the Model and a result
// resolver for dynamic bound/rate expressions (the Resolver interface, so
// this package does not import expr and stays testable without compiling
// a full expression), and owns the
// Layout/Tableau mutably for exactly one chunk.
type BuildCtx struct {
	Model    *model.Model
	Resolver Resolver
	Caps     SolverCaps

	ChunkStart int // absolute step at which t_rel == 0
	ChunkLen   int // block_length + look_ahead
	BlockLen   int // steps of ChunkLen that belong to the kept block (rest is look-ahead)
	Round      int // 1-based index into round_sequence
	Diagnose   bool

	Layout  *Layout
	Tableau *Tableau

	Halt func() bool // polled at opcode-batch boundaries, spec.md §5

	coeff map[int]float64
	rhs   float64

	// pendingCashIn/Out accumulate link contributions per actor between
	// UpdateCashCoefficient opcodes and the matching AddCashConstraints
	// opcode, kept separate from coeff/rhs because cash-row assembly is
	// link-topology-driven rather than a single coefficient register pass.
	pendingCashIn  map[model.Ref]map[int]float64
	pendingCashOut map[model.Ref]map[int]float64

	issues []string
}

// Resolver is what the builder needs to evaluate an entity's attribute
// expression at an absolute step. Declared here (not imported from expr)
// so tableau depends on model only; cmd/linnyr-solve and the block tests
// pass a ModelResolver (resolver.go).
type Resolver interface {
	Attr(ref model.Ref, attr model.Attribute, t, w int) float64Result
}

// float64Result mirrors the subset of xnum.Value the builder consumes:
// a finite number, or "not available" (treated as 0 with a logged issue).
type float64Result struct {
	Value   float64
	Defined bool
}

// Ok wraps a finite value as a defined float64Result.
func Ok(v float64) float64Result { return float64Result{Value: v, Defined: true} }

// Undefined is the zero float64Result.
var Undefined = float64Result{}

// NewBuildCtx constructs a BuildCtx over an empty Layout/Tableau, to be
// filled by Prepare then Build/Run.
func NewBuildCtx(m *model.Model, r Resolver, caps SolverCaps, chunkStart, chunkLen, round int) *BuildCtx {
	return &BuildCtx{
		Model:      m,
		Resolver:   r,
		Caps:       caps,
		ChunkStart: chunkStart,
		ChunkLen:   chunkLen,
		Round:      round,
		Layout:         NewLayout(),
		coeff:          make(map[int]float64),
		pendingCashIn:  make(map[model.Ref]map[int]float64),
		pendingCashOut: make(map[model.Ref]map[int]float64),
	}
}

// Prepare runs the pre-pass of spec.md §4.4: allocates per-step column
// slots (and, for peak-increase sources, chunk-level slots) for every
// actor, process, and product, then constructs the Tableau sized to the
// resulting layout. Must run before Build.
func (c *BuildCtx) Prepare() {
	// Item 2: actor cash-in/cash-out, unbounded, per-step columns.
	for _, id := range sortedKeys(c.Model.Actors) {
		a := c.Model.Actors[id]
		c.Layout.AllocStep(Key(a.Ref, "CashIn"))
		c.Layout.AllocStep(Key(a.Ref, "CashOut"))
	}

	// Item 3: process/product level variable, plus optional partitions.
	for _, id := range sortedKeys(c.Model.Processes) {
		p := c.Model.Processes[id]
		c.prepareNode(&p.NodeBase, p.Ref)
		if p.Grid != nil {
			for i := 0; i < p.Grid.NumSlopes; i++ {
				base := gridSlopeRole(i)
				c.Layout.AllocStep(Key(p.Ref, base+"Up"))
				c.Layout.AllocStep(Key(p.Ref, base+"UpOn"))
				c.Layout.AllocStep(Key(p.Ref, base+"Down"))
				c.Layout.AllocStep(Key(p.Ref, base+"DownOn"))
			}
		}
	}
	for _, id := range sortedKeys(c.Model.Products) {
		p := c.Model.Products[id]
		c.prepareNode(&p.NodeBase, p.Ref)
	}

	// Item 4: bound-line SOS2 weight + slack (+ binary emulation) columns.
	for _, id := range sortedKeys(c.Model.Constraints) {
		cons := c.Model.Constraints[id]
		for li, line := range cons.Lines {
			for vi := 0; vi < line.NumVertices(); vi++ {
				c.Layout.AllocStep(Key(cons.Ref, vertexWeightRole(li, vi)))
				if !c.Caps.SOS2 {
					c.Layout.AllocStep(Key(cons.Ref, vertexBinaryRole(li, vi)))
				}
			}
			if !line.NoSlack {
				c.Layout.AllocStep(Key(cons.Ref, slackRole(li)))
			}
		}
	}

	c.Tableau = NewTableau(c.Layout, c.ChunkLen)
}

func (c *BuildCtx) prepareNode(n *model.NodeBase, ref model.Ref) {
	c.Layout.AllocStep(Key(ref, "L"))
	if n.NeedsNZPPartition {
		for _, role := range []string{"POSL", "NEGL", "PEP", "NEP", "POS", "NEG", "OFF"} {
			c.Layout.AllocStep(Key(ref, role))
		}
		if n.SemiContinuous {
			c.Layout.AllocStep(Key(ref, "POSLB"))
			c.Layout.AllocStep(Key(ref, "NEGLB"))
		}
	}
	if n.StartupShutdown {
		for _, role := range []string{"SU", "SD", "FC", "NSU"} {
			c.Layout.AllocStep(Key(ref, role))
		}
	}
	if n.SpinningReserve {
		c.Layout.AllocStep(Key(ref, "SR"))
	}
	if n.PeakIncreaseSrc {
		c.Layout.AllocChunk(Key(ref, "BPI"))
		c.Layout.AllocChunk(Key(ref, "CPI"))
	}
}

func gridSlopeRole(i int) string         { return "Slope" + strconv.Itoa(i) }
func vertexWeightRole(li, vi int) string { return "BL" + strconv.Itoa(li) + "W" + strconv.Itoa(vi) }
func vertexBinaryRole(li, vi int) string { return "BL" + strconv.Itoa(li) + "B" + strconv.Itoa(vi) }
func slackRole(li int) string            { return "BL" + strconv.Itoa(li) + "Slack" }

// Build emits the chunk's opcode program once (spec.md §4.4's "Emission"
// step); vm.go's Run executes the returned program once per time step.
func (c *BuildCtx) Build() []Instr {
	var prog []Instr

	for _, id := range sortedKeys(c.Model.Processes) {
		p := c.Model.Processes[id]
		prog = append(prog, c.buildNode(&p.NodeBase, p.Ref)...)
		if p.Grid != nil {
			prog = append(prog, Instr{Op: OpAddGridProcessConstraints, Ref: p.Ref})
		}
	}
	for _, id := range sortedKeys(c.Model.Products) {
		p := c.Model.Products[id]
		prog = append(prog, c.buildProductBalance(p)...)
		prog = append(prog, c.buildNode(&p.NodeBase, p.Ref)...)
	}

	for _, id := range sortedKeys(c.Model.Links) {
		prog = append(prog, Instr{Op: OpUpdateCashCoefficient, Link: c.Model.Links[id]})
	}
	for _, id := range sortedKeys(c.Model.Actors) {
		prog = append(prog, Instr{Op: OpAddCashConstraints, Ref: c.Model.Actors[id].Ref})
	}

	for _, id := range sortedKeys(c.Model.Constraints) {
		cons := c.Model.Constraints[id]
		for li := range cons.Lines {
			prog = append(prog, Instr{Op: OpAddBoundLineConstraint, Constraint: cons, Coeff: float64(li)})
		}
	}

	for _, id := range sortedKeys(c.Model.Grids) {
		prog = append(prog, Instr{Op: OpAddKirchhoffConstraints, Grid: c.Model.Grids[id]})
	}

	return prog
}

// buildNode emits the bound/partition/lifecycle opcodes common to every
// process and product (spec.md §4.4 pre-pass items 3/5).
func (c *BuildCtx) buildNode(n *model.NodeBase, ref model.Ref) []Instr {
	prog := []Instr{
		{Op: OpClearCoefficients},
		{Op: OpSetBounds, Ref: ref, Key: "L"},
	}
	if n.NeedsNZPPartition {
		prog = append(prog, Instr{Op: OpAddNZPBinaryConstraints, Ref: ref})
	}
	if n.StartupShutdown {
		prog = append(prog,
			Instr{Op: OpAddStartupConstraints, Ref: ref},
			Instr{Op: OpAddShutdownConstraints, Ref: ref},
			Instr{Op: OpAddFirstCommitConstraints, Ref: ref},
		)
	}
	if n.SemiContinuous && !c.Caps.SemiContinuous {
		prog = append(prog, Instr{Op: OpAddSemicontinuousConstraints, Ref: ref})
	}
	if n.PeakIncreaseSrc {
		prog = append(prog, Instr{Op: OpAddPeakIncreaseConstraints, Ref: ref})
	}
	return prog
}

// buildProductBalance emits the stock-conservation row of a product:
// L[product] - Σ rate_l · L[from_l] = 0 over every inbound link, the
// concrete row construction spec.md §4.4 leaves to AddVar/AddSumCoefficients
// fan-out rather than naming its own opcode.
func (c *BuildCtx) buildProductBalance(p *model.Product) []Instr {
	prog := []Instr{{Op: OpClearCoefficients}}
	prog = append(prog, Instr{Op: OpSubVar, Ref: p.Ref, Key: "L", Coeff: 1})
	for _, id := range sortedKeys(c.Model.Links) {
		l := c.Model.Links[id]
		if l.To != p.Ref {
			continue
		}
		prog = append(prog, Instr{Op: OpAddVar, Ref: l.From, Key: "L", Link: l})
	}
	prog = append(prog, Instr{Op: OpAddConstraint, RowType: RowEQ, Key: "BALANCE:" + p.Ref.ID})
	return prog
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
