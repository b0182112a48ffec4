package tableau

import (
	"fmt"

	"github.com/linnyr/engine/model"
)

// Exec dispatches one Instr against c at relative chunk step tRel, per
// spec.md §4.4's "each opcode is executed once per time step of the
// chunk". This is the single big switch Design Note §9 calls for.
func Exec(c *BuildCtx, in Instr, tRel int) {
	switch in.Op {
	case OpClearCoefficients:
		c.clearCoefficients()
	case OpSetBounds:
		c.setBounds(in.Ref, in.Key, tRel)
	case OpAddConst:
		c.addConst(in.Coeff, +1)
	case OpSubConst:
		c.addConst(in.Coeff, -1)
	case OpAddVar:
		if coeff, ok := linkCoeff(c, in, tRel); ok {
			c.addVar(in.Ref, in.Key, coeff, in.Delay, tRel, +1, in.PlusOne, in.Weight)
		}
	case OpSubVar:
		if coeff, ok := linkCoeff(c, in, tRel); ok {
			c.addVar(in.Ref, in.Key, coeff, in.Delay, tRel, -1, in.PlusOne, in.Weight)
		}
	case OpAddSumCoefficients:
		c.addFannedCoefficients(in.Ref, in.Key, in.Coeff, 1, in.Delay, tRel, in.PlusOne)
	case OpAddWeightedSumCoefficients:
		c.addFannedCoefficients(in.Ref, in.Key, in.Coeff, in.Weight, in.Delay, tRel, in.PlusOne)
	case OpUpdateCashCoefficient:
		c.updateCashCoefficient(in.Link, tRel)
	case OpAddCashConstraints:
		c.addCashConstraints(in.Ref, tRel)
	case OpAddNZPBinaryConstraints:
		c.addNZPBinaryConstraints(in.Ref, tRel)
	case OpAddStartupConstraints:
		c.addStartupConstraints(in.Ref, tRel)
	case OpAddShutdownConstraints:
		c.addShutdownConstraints(in.Ref, tRel)
	case OpAddFirstCommitConstraints:
		c.addFirstCommitConstraints(in.Ref, tRel)
	case OpAddSemicontinuousConstraints:
		c.addSemicontinuousConstraints(in.Ref, tRel)
	case OpAddGridProcessConstraints:
		c.addGridProcessConstraints(in.Ref, tRel)
	case OpAddKirchhoffConstraints:
		c.addKirchhoffConstraints(in.Grid, tRel)
	case OpAddPowerFlowToCoefficients:
		c.addPowerFlowToCoefficients(in.Ref, in.Dir, tRel)
	case OpAddPeakIncreaseConstraints:
		c.addPeakIncreaseConstraints(in.Ref, tRel)
	case OpAddBoundLineConstraint:
		c.addBoundLineConstraint(in.Constraint, int(in.Coeff), tRel)
	case OpAddConstraint:
		c.addConstraint(in.RowType, in.Key)
	}
}

// linkCoeff resolves an AddVar/SubVar instruction's coefficient: either
// the literal Instr.Coeff, or — when the instruction carries a Link
// (the product-balance fan-out of builder.go's buildProductBalance) —
// the link's rate expression evaluated at this step. Returns ok=false
// when a link's rate is not presently a finite number, in which case the
// term is dropped rather than poisoning the row with a sentinel value.
func linkCoeff(c *BuildCtx, in Instr, tRel int) (float64, bool) {
	if in.Link == nil {
		return in.Coeff, true
	}
	v := in.Link.Rate.Result(c.ChunkStart+tRel, 0)
	if !v.IsNormal() {
		c.logIssue("link %s rate not normal at t=%d (kind=%v), term dropped", in.Link.Ref.ID, c.ChunkStart+tRel, v.Kind)
		return 0, false
	}
	return v.Num, true
}

func (c *BuildCtx) clearCoefficients() {
	for k := range c.coeff {
		delete(c.coeff, k)
	}
	c.rhs = 0
}

// roleAttribute maps the handful of variable roles that have a
// corresponding pre-solve/post-solve model.Attribute, used when a delay
// pushes a term before the current chunk and a prior-block value must be
// folded into RHS instead of a column. Roles with no model.Attribute
// counterpart (the NZP/startup/grid helper columns) have no prior-value
// history to consult; such terms are simply dropped when they land
// before the chunk, which is the documented simplification in DESIGN.md.
func roleAttribute(role string) model.Attribute {
	switch role {
	case "L":
		return "L"
	case "CashIn":
		return "CI"
	case "CashOut":
		return "CO"
	}
	return ""
}

// resolveColumn returns the absolute column for (ref,role) at tRel-delay,
// or ok=false when the term falls outside the chunk. known is populated
// (Defined=true) when the term fell *before* the chunk and the caller
// should fold `sign*coeff*known.Value` into RHS instead.
func (c *BuildCtx) resolveColumn(ref model.Ref, role string, tRel, delay int) (col int, ok bool, known float64Result) {
	tLocal := tRel - delay
	if tLocal < 0 {
		attr := roleAttribute(role)
		if attr == "" {
			return 0, false, Undefined
		}
		return 0, false, c.Resolver.Attr(ref, attr, c.ChunkStart+tLocal, 0)
	}
	if tLocal >= c.ChunkLen {
		return 0, false, Undefined
	}
	return c.Tableau.ColumnOf(c.Layout, Key(ref, role), tLocal), true, Undefined
}

func (c *BuildCtx) addConst(v, sign float64) { c.rhs -= sign * v }

func (c *BuildCtx) addVar(ref model.Ref, role string, coeff float64, delay, tRel int, sign float64, plusOne bool, weight float64) {
	col, ok, known := c.resolveColumn(ref, role, tRel, delay)
	w := coeff
	if plusOne {
		w *= weight
	}
	if !ok {
		if known.Defined {
			c.rhs -= sign * w * known.Value
		}
		return
	}
	c.coeff[col] += sign * w
}

// addFannedCoefficients implements AddSumCoefficients / AddWeightedSumCoefficients
// (spec.md §4.4): the same coefficient (optionally weighted, optionally
// divided by delay+1 for MEAN semantics) is fanned across every step from
// 0 to delay.
func (c *BuildCtx) addFannedCoefficients(ref model.Ref, role string, coeff, weight float64, delay, tRel int, divide bool) {
	w := coeff * weight
	if divide && delay >= 0 {
		w /= float64(delay + 1)
	}
	for d := 0; d <= delay; d++ {
		c.addVar(ref, role, w, d, tRel, +1, false, 0)
	}
}

// setBounds evaluates the node's LB/UB expressions at the absolute step
// and writes them onto the per-step column, applying round fixation when
// the node is flagged RoundFixated (spec.md §4.4 item "SetBounds").
func (c *BuildCtx) setBounds(ref model.Ref, role string, tRel int) {
	col := c.Tableau.ColumnOf(c.Layout, Key(ref, role), tRel)
	absT := c.ChunkStart + tRel

	n, ok := c.Model.Node(ref)
	if !ok {
		return
	}
	if n.RoundFixated {
		prior := c.Resolver.Attr(ref, "L", absT-1, 0)
		if prior.Defined {
			c.Tableau.SetBounds(col, prior.Value, prior.Value)
			return
		}
	}
	lb := c.Resolver.Attr(ref, "LB", absT, 0)
	ub := c.Resolver.Attr(ref, "UB", absT, 0)
	lv, uv := 0.0, SolverInfinity
	if lb.Defined {
		lv = lb.Value
	}
	if ub.Defined {
		uv = ub.Value
	}
	c.Tableau.SetBounds(col, lv, uv)
}

// addConstraint commits the coefficient register + RHS as a new row of
// rt, clearing the register afterwards (spec.md §4.4's "AddConstraint").
func (c *BuildCtx) addConstraint(rt RowType, label string) int {
	idx := c.Tableau.AddRow(rt, c.coeff, c.rhs, label)
	c.clearCoefficients()
	return idx
}

// updateCashCoefficient dispatches one link's contribution into the
// owning actor's CashIn/CashOut columns per its multiplier semantics
// (spec.md §4.4). Only the actor-facing half is modeled here; the
// corresponding node-balance row is built directly in builder.go's
// per-node emission, since that fan-out is link-topology-driven rather
// than a single opcode's concern.
func (c *BuildCtx) updateCashCoefficient(l *model.Link, tRel int) {
	if l == nil {
		return
	}
	owner, ok := c.ownerActor(l)
	if !ok {
		return
	}
	absT := c.ChunkStart + tRel
	rate := l.Rate.Result(absT, 0)
	if !rate.IsNormal() {
		return
	}
	delay := l.DelayAt(absT, 0)

	in := c.pendingCashIn[owner]
	if in == nil {
		in = make(map[int]float64)
		c.pendingCashIn[owner] = in
	}
	out := c.pendingCashOut[owner]
	if out == nil {
		out = make(map[int]float64)
		c.pendingCashOut[owner] = out
	}

	switch l.Multiplier {
	case model.MulLevel, model.MulSum, model.MulMean, model.MulThroughput, model.MulPositive:
		c.accumulatePending(in, l.From, "L", rate.Num, delay, tRel)
	case model.MulIncrease, model.MulMaxIncrease, model.MulMaxDecrease, model.MulSpinningReserve,
		model.MulStartup, model.MulShutdown, model.MulFirstCommit, model.MulNegative:
		c.accumulatePending(out, l.From, "L", rate.Num, delay, tRel)
	case model.MulZero, model.MulPeakInc, model.MulCostPrice:
		// ZERO contributes to neither cash side; PEAK_INC cash is realized
		// through the chunk-level BPI/CPI columns (AddPeakIncreaseConstraints);
		// COSTPRICE propagation is a post-solve dependent-variable computation
		// (spec.md §4.6 item 6), not a tableau row.
	}
}

// accumulatePending folds one link's contribution into a pending cash
// map, resolving the delay the same way addVar does but without touching
// the shared coefficient register (cash-row assembly spans multiple
// UpdateCashCoefficient calls before the matching AddCashConstraints
// commits the row). Terms landing before or after the chunk are dropped;
// unlike addVar there is no historical-value folding into RHS here,
// since a cash column (unlike L) has no single well-known prior value to
// fall back on — documented simplification.
func (c *BuildCtx) accumulatePending(dst map[int]float64, ref model.Ref, role string, coeff float64, delay, tRel int) {
	tLocal := tRel - delay
	if tLocal < 0 || tLocal >= c.ChunkLen {
		return
	}
	dst[c.Tableau.ColumnOf(c.Layout, Key(ref, role), tLocal)] += coeff
}

// ownerActor resolves the actor that owns a link's cash contribution.
// package model models no explicit process/actor ownership edge beyond
// Process.NodeBase, so this picks the first actor in ID order as the
// run's sole cost center — a deliberate simplification for a single-actor
// scenario, recorded in DESIGN.md.
func (c *BuildCtx) ownerActor(l *model.Link) (model.Ref, bool) {
	ids := sortedKeys(c.Model.Actors)
	if len(ids) == 0 {
		return model.Ref{}, false
	}
	return c.Model.Actors[ids[0]].Ref, true
}

// addCashConstraints emits the two EQ rows of spec.md §4.4:
// CashIn - Σ ai·xi = 0 and CashOut - Σ bi·xi = 0, tagged RowActorCash so
// they are later rescaled (spec.md §4.6 item 4). It also folds this
// actor's weighted net cash flow into the chunk's objective row (spec.md
// §2's "accumulating ... an objective row"; §8 scenario 1 expects
// `objective = 30/scale` out of a pure cash-maximization model, and no
// other opcode in this package ever touches c.Tableau.Obj).
func (c *BuildCtx) addCashConstraints(actor model.Ref, tRel int) {
	inCol := c.Tableau.ColumnOf(c.Layout, Key(actor, "CashIn"), tRel)
	c.clearCoefficients()
	c.coeff[inCol] = 1
	for col, v := range c.pendingCashIn[actor] {
		c.coeff[col] -= v
	}
	c.addConstraint(RowActorCash, fmt.Sprintf("CASH_IN[%s]@%d", actor.ID, tRel))
	delete(c.pendingCashIn, actor)

	outCol := c.Tableau.ColumnOf(c.Layout, Key(actor, "CashOut"), tRel)
	c.clearCoefficients()
	c.coeff[outCol] = 1
	for col, v := range c.pendingCashOut[actor] {
		c.coeff[col] -= v
	}
	c.addConstraint(RowActorCash, fmt.Sprintf("CASH_OUT[%s]@%d", actor.ID, tRel))
	delete(c.pendingCashOut, actor)

	w := 1.0
	if weight := c.Resolver.Attr(actor, "W", c.ChunkStart+tRel, 0); weight.Defined {
		w = weight.Value
	}
	c.Tableau.Obj[inCol] += w
	c.Tableau.Obj[outCol] -= w
}

// addNZPBinaryConstraints emits the six-row partitioning of spec.md
// §4.4-a: L = POSL + PEP - NEP - NEGL, and the big-M activation rows
// tying POS/NEG/OFF to the partition variables, plus the totalizer
// POS + NEG + OFF = 1.
func (c *BuildCtx) addNZPBinaryConstraints(ref model.Ref, tRel int) {
	L := c.Tableau.ColumnOf(c.Layout, Key(ref, "L"), tRel)
	posl := c.Tableau.ColumnOf(c.Layout, Key(ref, "POSL"), tRel)
	negl := c.Tableau.ColumnOf(c.Layout, Key(ref, "NEGL"), tRel)
	pep := c.Tableau.ColumnOf(c.Layout, Key(ref, "PEP"), tRel)
	nep := c.Tableau.ColumnOf(c.Layout, Key(ref, "NEP"), tRel)
	pos := c.Tableau.ColumnOf(c.Layout, Key(ref, "POS"), tRel)
	neg := c.Tableau.ColumnOf(c.Layout, Key(ref, "NEG"), tRel)
	off := c.Tableau.ColumnOf(c.Layout, Key(ref, "OFF"), tRel)

	c.Tableau.MarkKind(pos, VarBinary)
	c.Tableau.MarkKind(neg, VarBinary)
	c.Tableau.MarkKind(off, VarBinary)
	c.Tableau.MarkKind(posl, VarSemiContinuous)
	c.Tableau.MarkKind(negl, VarSemiContinuous)

	const bigM = 1e7

	// 1. L - POSL - PEP + NEP + NEGL = 0
	c.clearCoefficients()
	c.coeff[L] = 1
	c.coeff[posl] = -1
	c.coeff[pep] = -1
	c.coeff[nep] = 1
	c.coeff[negl] = 1
	c.addConstraint(RowEQ, fmt.Sprintf("NZP_SPLIT[%s]@%d", ref.ID, tRel))

	// 2. POSL - M·POS <= 0  (POS=1 whenever POSL can be nonzero)
	c.clearCoefficients()
	c.coeff[posl] = 1
	c.coeff[pos] = -bigM
	c.addConstraint(RowLE, fmt.Sprintf("NZP_POS_ACT[%s]@%d", ref.ID, tRel))

	// 3. NEGL - M·NEG <= 0
	c.clearCoefficients()
	c.coeff[negl] = 1
	c.coeff[neg] = -bigM
	c.addConstraint(RowLE, fmt.Sprintf("NZP_NEG_ACT[%s]@%d", ref.ID, tRel))

	// 4. PEP + NEP - M·OFF <= 0
	c.clearCoefficients()
	c.coeff[pep] = 1
	c.coeff[nep] = 1
	c.coeff[off] = -bigM
	c.addConstraint(RowLE, fmt.Sprintf("NZP_OFF_ACT[%s]@%d", ref.ID, tRel))

	// 5. POS + NEG + OFF = 1
	c.clearCoefficients()
	c.coeff[pos] = 1
	c.coeff[neg] = 1
	c.coeff[off] = 1
	c.rhs = 1
	c.addConstraint(RowEQ, fmt.Sprintf("NZP_TOTAL[%s]@%d", ref.ID, tRel))

	// POS + NEG <= 1
	c.clearCoefficients()
	c.coeff[pos] = 1
	c.coeff[neg] = 1
	c.rhs = 1
	c.addConstraint(RowLE, fmt.Sprintf("NZP_EXCL[%s]@%d", ref.ID, tRel))
}

// addStartupConstraints links the SU binary to the OFF->ON transition
// across t-1 -> t, using a prior-block actual level when t-1 precedes
// the chunk (spec.md §4.4).
func (c *BuildCtx) addStartupConstraints(ref model.Ref, tRel int) {
	c.addTransitionConstraint(ref, "SU", tRel, +1, "STARTUP")
}

// addShutdownConstraints mirrors addStartupConstraints for the ON->OFF
// transition.
func (c *BuildCtx) addShutdownConstraints(ref model.Ref, tRel int) {
	c.addTransitionConstraint(ref, "SD", tRel, -1, "SHUTDOWN")
}

// addFirstCommitConstraints emits the same per-step OFF->ON transition
// row as addStartupConstraints; it does not by itself enforce the
// "at most once across the whole run" part of FC's semantics, which
// requires a chunk-spanning counter outside any single opcode's scope.
// Left as a documented simplification (DESIGN.md) until the orchestrator
// carries a cross-block FC total.
func (c *BuildCtx) addFirstCommitConstraints(ref model.Ref, tRel int) {
	c.addTransitionConstraint(ref, "FC", tRel, +1, "FIRST_COMMIT")
}

func (c *BuildCtx) addTransitionConstraint(ref model.Ref, role string, tRel int, sign float64, label string) {
	c.Tableau.MarkKind(c.Tableau.ColumnOf(c.Layout, Key(ref, role), tRel), VarBinary)

	onCol := c.Tableau.ColumnOf(c.Layout, Key(ref, "POS"), tRel)
	c.clearCoefficients()
	c.coeff[c.Tableau.ColumnOf(c.Layout, Key(ref, role), tRel)] = -1
	if tRel == 0 {
		prior := c.Resolver.Attr(ref, "L", c.ChunkStart-1, 0)
		known := 0.0
		if prior.Defined && prior.Value > 0 {
			known = 1
		}
		c.rhs = sign * known
		c.coeff[onCol] = sign
	} else {
		prevCol := c.Tableau.ColumnOf(c.Layout, Key(ref, "POS"), tRel-1)
		c.coeff[onCol] = sign
		c.coeff[prevCol] = -sign
	}
	c.addConstraint(RowLE, fmt.Sprintf("%s[%s]@%d", label, ref.ID, tRel))
}

// addSemicontinuousConstraints emulates semi-continuity with the binary
// pairing `lb·b - L <= 0`, `L - ub·b <= 0` when the solver lacks native
// SC support (spec.md §4.4, Open Question (b): LB is forced to 0 in this
// emitted row only when the run is diagnosing).
func (c *BuildCtx) addSemicontinuousConstraints(ref model.Ref, tRel int) {
	L := c.Tableau.ColumnOf(c.Layout, Key(ref, "L"), tRel)
	b := c.Tableau.ColumnOf(c.Layout, Key(ref, "POSLB"), tRel)
	c.Tableau.MarkKind(b, VarBinary)

	absT := c.ChunkStart + tRel
	lb := c.Resolver.Attr(ref, "LB", absT, 0)
	ub := c.Resolver.Attr(ref, "UB", absT, 0)
	lv, uv := 0.0, SolverInfinity
	if lb.Defined {
		lv = lb.Value
	}
	if ub.Defined {
		uv = ub.Value
	}
	if c.Diagnose {
		lv = 0
	}

	c.clearCoefficients()
	c.coeff[b] = lv
	c.coeff[L] = -1
	c.addConstraint(RowLE, fmt.Sprintf("SC_LB[%s]@%d", ref.ID, tRel))

	c.clearCoefficients()
	c.coeff[L] = 1
	c.coeff[b] = -uv
	c.addConstraint(RowLE, fmt.Sprintf("SC_UB[%s]@%d", ref.ID, tRel))
}

// addGridProcessConstraints emits the per-slope activation rows and the
// slope-sum/mutual-exclusion rows of spec.md §4.4.
func (c *BuildCtx) addGridProcessConstraints(ref model.Ref, tRel int) {
	p, ok := c.Model.Processes[ref.ID]
	if !ok || p.Grid == nil {
		return
	}
	posl := c.Tableau.ColumnOf(c.Layout, Key(ref, "POSL"), tRel)
	negl := c.Tableau.ColumnOf(c.Layout, Key(ref, "NEGL"), tRel)

	var onCols []int
	for i := 0; i < p.Grid.NumSlopes; i++ {
		role := gridSlopeRole(i)
		up := c.Tableau.ColumnOf(c.Layout, Key(ref, role+"Up"), tRel)
		upOn := c.Tableau.ColumnOf(c.Layout, Key(ref, role+"UpOn"), tRel)
		down := c.Tableau.ColumnOf(c.Layout, Key(ref, role+"Down"), tRel)
		downOn := c.Tableau.ColumnOf(c.Layout, Key(ref, role+"DownOn"), tRel)
		c.Tableau.MarkKind(upOn, VarBinary)
		c.Tableau.MarkKind(downOn, VarBinary)
		onCols = append(onCols, upOn, downOn)

		ub, lb := p.Grid.LossSlopeUB[i], p.Grid.LossSlopeLB[i]

		c.clearCoefficients()
		c.coeff[up] = 1
		c.coeff[upOn] = -ub
		c.addConstraint(RowLE, fmt.Sprintf("GRID_UP_UB[%s]@%d.%d", ref.ID, tRel, i))

		c.clearCoefficients()
		c.coeff[up] = 1
		c.coeff[upOn] = -lb
		c.addConstraint(RowGE, fmt.Sprintf("GRID_UP_LB[%s]@%d.%d", ref.ID, tRel, i))

		c.clearCoefficients()
		c.coeff[down] = 1
		c.coeff[downOn] = -ub
		c.addConstraint(RowLE, fmt.Sprintf("GRID_DOWN_UB[%s]@%d.%d", ref.ID, tRel, i))

		c.clearCoefficients()
		c.coeff[down] = 1
		c.coeff[downOn] = -lb
		c.addConstraint(RowGE, fmt.Sprintf("GRID_DOWN_LB[%s]@%d.%d", ref.ID, tRel, i))
	}

	c.clearCoefficients()
	for i := 0; i < p.Grid.NumSlopes; i++ {
		role := gridSlopeRole(i)
		c.coeff[c.Tableau.ColumnOf(c.Layout, Key(ref, role+"Up"), tRel)] = 1
	}
	c.coeff[posl] = -1
	c.addConstraint(RowEQ, fmt.Sprintf("GRID_UP_SUM[%s]@%d", ref.ID, tRel))

	c.clearCoefficients()
	for i := 0; i < p.Grid.NumSlopes; i++ {
		role := gridSlopeRole(i)
		c.coeff[c.Tableau.ColumnOf(c.Layout, Key(ref, role+"Down"), tRel)] = 1
	}
	c.coeff[negl] = -1
	c.addConstraint(RowEQ, fmt.Sprintf("GRID_DOWN_SUM[%s]@%d", ref.ID, tRel))

	c.clearCoefficients()
	for _, col := range onCols {
		c.coeff[col] = 1
	}
	c.rhs = 1
	c.addConstraint(RowLE, fmt.Sprintf("GRID_ON_EXCL[%s]@%d", ref.ID, tRel))
}

// addPowerFlowToCoefficients adds the grid process's signed flow,
// dir·(POSL − NEGL), to the coefficient register (dir=+1 P->Q, dir=-1
// Q->P). It adds no slope loss terms, and Build does not emit this opcode.
func (c *BuildCtx) addPowerFlowToCoefficients(ref model.Ref, dir int, tRel int) {
	p, ok := c.Model.Processes[ref.ID]
	if !ok || p.Grid == nil {
		return
	}
	posl := c.Tableau.ColumnOf(c.Layout, Key(ref, "POSL"), tRel)
	negl := c.Tableau.ColumnOf(c.Layout, Key(ref, "NEGL"), tRel)
	sign := float64(dir)
	c.coeff[posl] += sign
	c.coeff[negl] -= sign
}

// addPeakIncreaseConstraints emits the block/look-ahead split rows of
// spec.md §4.4: within the block, L - BPI <= prior peak; within the
// look-ahead, L - BPI - CPI <= prior peak.
func (c *BuildCtx) addPeakIncreaseConstraints(ref model.Ref, tRel int) {
	L := c.Tableau.ColumnOf(c.Layout, Key(ref, "L"), tRel)
	bpi := c.Tableau.ChunkColumnOf(c.Layout, Key(ref, "BPI"))
	cpi := c.Tableau.ChunkColumnOf(c.Layout, Key(ref, "CPI"))

	priorPeak := 0.0
	if v := c.Resolver.Attr(ref, "LCF", c.ChunkStart-1, 0); v.Defined {
		priorPeak = v.Value
	}

	c.clearCoefficients()
	c.coeff[L] = 1
	c.coeff[bpi] = -1
	if tRel >= c.BlockLength() {
		c.coeff[cpi] = -1
	}
	c.rhs = priorPeak
	c.addConstraint(RowLE, fmt.Sprintf("PEAK[%s]@%d", ref.ID, tRel))
}

// BlockLength reports how many of ChunkLen steps belong to the kept
// block (the rest are look-ahead).
func (c *BuildCtx) BlockLength() int {
	if c.BlockLen > 0 {
		return c.BlockLen
	}
	return c.ChunkLen
}

// addBoundLineConstraint materializes line li's vertices for tRel and
// emits the SOS2 weighting rows of spec.md §4.4: Σwi = 1, X = Σxi·wi,
// Y = Σyi·wi ± slack, plus (when SOS2 is unavailable) the per-vertex
// binary pairing inequalities.
func (c *BuildCtx) addBoundLineConstraint(cons *model.Constraint, li, tRel int) {
	line := &cons.Lines[li]
	absT := c.ChunkStart + tRel

	lbx := valueOr(c.Resolver.Attr(cons.From, "LB", absT, 0), 0)
	ubx := valueOr(c.Resolver.Attr(cons.From, "UB", absT, 0), 1)
	lby := valueOr(c.Resolver.Attr(cons.To, "LB", absT, 0), 0)
	uby := valueOr(c.Resolver.Attr(cons.To, "UB", absT, 0), 1)
	xs, ys := line.Materialize(lbx, ubx, lby, uby)

	n := line.NumVertices()
	wCols := make([]int, n)
	for vi := 0; vi < n; vi++ {
		wCols[vi] = c.Tableau.ColumnOf(c.Layout, Key(cons.Ref, vertexWeightRole(li, vi)), tRel)
	}
	if c.Caps.SOS2 {
		c.Tableau.AddSOS2Group(wCols)
	}

	xCol := c.Tableau.ColumnOf(c.Layout, Key(cons.From, "L"), tRel)
	yCol := c.Tableau.ColumnOf(c.Layout, Key(cons.To, "L"), tRel)

	// Sigma wi = 1
	c.clearCoefficients()
	for _, w := range wCols {
		c.coeff[w] = 1
	}
	c.rhs = 1
	c.addConstraint(RowEQ, fmt.Sprintf("BL_W[%s.%d]@%d", cons.Ref.ID, li, tRel))

	// X = Sigma xi*wi
	c.clearCoefficients()
	c.coeff[xCol] = 1
	for vi, w := range wCols {
		c.coeff[w] -= xs[vi]
	}
	c.addConstraint(RowEQ, fmt.Sprintf("BL_X[%s.%d]@%d", cons.Ref.ID, li, tRel))

	// Y = Sigma yi*wi [+- slack]
	c.clearCoefficients()
	c.coeff[yCol] = 1
	for vi, w := range wCols {
		c.coeff[w] -= ys[vi]
	}
	if !line.NoSlack {
		slack := c.Tableau.ColumnOf(c.Layout, Key(cons.Ref, slackRole(li)), tRel)
		switch line.Type {
		case model.BoundGE:
			c.coeff[slack] = -1
		default:
			c.coeff[slack] = 1
		}
	}
	rt := RowEQ
	switch line.Type {
	case model.BoundLE:
		rt = RowLE
	case model.BoundGE:
		rt = RowGE
	}
	c.addConstraint(rt, fmt.Sprintf("BL_Y[%s.%d]@%d", cons.Ref.ID, li, tRel))

	if !c.Caps.SOS2 {
		bCols := make([]int, n)
		for vi := 0; vi < n; vi++ {
			bCols[vi] = c.Tableau.ColumnOf(c.Layout, Key(cons.Ref, vertexBinaryRole(li, vi)), tRel)
			c.Tableau.MarkKind(bCols[vi], VarBinary)
		}
		for vi := 0; vi < n; vi++ {
			// wi <= b[i-1] + b[i] (pairing inequality; edge vertices only
			// neighbor one binary)
			c.clearCoefficients()
			c.coeff[wCols[vi]] = 1
			if vi > 0 {
				c.coeff[bCols[vi-1]] -= 1
			}
			c.coeff[bCols[vi]] -= 1
			c.addConstraint(RowLE, fmt.Sprintf("BL_PAIR[%s.%d.%d]@%d", cons.Ref.ID, li, vi, tRel))
		}
		c.clearCoefficients()
		for _, b := range bCols {
			c.coeff[b] = 1
		}
		c.rhs = 2
		c.addConstraint(RowLE, fmt.Sprintf("BL_SUM2[%s.%d]@%d", cons.Ref.ID, li, tRel))
	}
}

func valueOr(r float64Result, def float64) float64 {
	if r.Defined {
		return r.Value
	}
	return def
}
