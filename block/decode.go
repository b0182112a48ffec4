package block

import (
	"math"

	"github.com/linnyr/engine/model"
	"github.com/linnyr/engine/tableau"
	"github.com/linnyr/engine/xnum"
)

// snap implements spec.md §4.6 item 5: values within OnOffThreshold of 0
// are reported as exactly 0, and magnitudes beyond the solver's infinity
// convention are rounded down to the configured report infinity.
func snap(v float64, cfg Config) float64 {
	if math.Abs(v) < cfg.OnOffThreshold {
		return 0
	}
	if v > cfg.ReportInfinity {
		return cfg.ReportInfinity
	}
	if v < -cfg.ReportInfinity {
		return -cfg.ReportInfinity
	}
	return v
}

// ensureVector lazily allocates a result vector in place, mirroring
// model.NodeBase.ResultVector for the Actor/Link/Cluster fields that
// have no such helper of their own.
func ensureVector(v **model.Vector, length int) *model.Vector {
	if *v == nil {
		*v = model.NewVector(length, xnum.Value{Kind: xnum.NotComputed})
	}
	return *v
}

// decode unpacks x (the solver's primal vector) into every entity's
// result vectors over tLocal in [0, chunkLen), per spec.md §4.6 item 5:
// "unpack the primal vector into entity vectors using each variable's
// allocated index". Called only when the block's solve succeeded; on
// failure the caller skips this entirely, which is what leaves
// previously-decoded look-ahead values in place (item 5's retention
// rule, spec.md §8 scenario 5).
func decode(bc *tableau.BuildCtx, cfg Config, x []float64, chunkLen int) {
	for _, id := range sortedIDs(bc.Model.Processes) {
		p := bc.Model.Processes[id]
		decodeLevel(bc, cfg, x, chunkLen, &p.NodeBase, p.Ref)
	}
	for _, id := range sortedIDs(bc.Model.Products) {
		p := bc.Model.Products[id]
		decodeLevel(bc, cfg, x, chunkLen, &p.NodeBase, p.Ref)
	}
	for _, id := range sortedIDs(bc.Model.Actors) {
		decodeActorCash(bc, cfg, x, chunkLen, bc.Model.Actors[id])
	}

	computeLinkFlows(bc.Model, bc.ChunkStart, chunkLen)
	computeClusterRollups(bc.Model, bc.ChunkStart, chunkLen)
}

func decodeLevel(bc *tableau.BuildCtx, cfg Config, x []float64, chunkLen int, n *model.NodeBase, ref model.Ref) {
	key := tableau.Key(ref, "L")
	vec := n.ResultVector("L", 0)
	for tLocal := 0; tLocal < chunkLen; tLocal++ {
		col := bc.Tableau.ColumnOf(bc.Layout, key, tLocal)
		if col < 0 || col >= len(x) {
			continue
		}
		vec.Set(bc.ChunkStart+tLocal, xnum.Of(snap(x[col], cfg)))
	}
}

func decodeActorCash(bc *tableau.BuildCtx, cfg Config, x []float64, chunkLen int, a *model.Actor) {
	inKey := tableau.Key(a.Ref, "CashIn")
	outKey := tableau.Key(a.Ref, "CashOut")
	in := ensureVector(&a.CashIn, 0)
	out := ensureVector(&a.CashOut, 0)
	flow := ensureVector(&a.CashFlow, 0)

	for tLocal := 0; tLocal < chunkLen; tLocal++ {
		inCol := bc.Tableau.ColumnOf(bc.Layout, inKey, tLocal)
		outCol := bc.Tableau.ColumnOf(bc.Layout, outKey, tLocal)
		if inCol < 0 || inCol >= len(x) || outCol < 0 || outCol >= len(x) {
			continue
		}
		absT := bc.ChunkStart + tLocal
		inVal := snap(x[inCol], cfg) * bc.Tableau.CashScalar
		outVal := snap(x[outCol], cfg) * bc.Tableau.CashScalar
		in.Set(absT, xnum.Of(inVal))
		out.Set(absT, xnum.Of(outVal))
		flow.Set(absT, xnum.Of(inVal-outVal))
	}
}

// computeLinkFlows fills Link.ActualFlow from the now-decoded source
// node level (spec.md §4.6 item 6: "link actual_flow[t] per multiplier
// semantics, respecting delay"). Every multiplier kind is realized here
// as rate(t)*level(from, t-delay); the multiplier-specific accounting
// differences (MEAN's averaging fan-out, INCREASE's delta) live only in
// the tableau's coefficient emission (updateCashCoefficient), not in
// this reporting pass — a documented simplification.
func computeLinkFlows(m *model.Model, chunkStart, chunkLen int) {
	for _, id := range sortedIDs(m.Links) {
		l := m.Links[id]
		vec := ensureVector(&l.ActualFlow, 0)
		from, ok := m.Node(l.From)
		if !ok {
			continue
		}
		for tLocal := 0; tLocal < chunkLen; tLocal++ {
			absT := chunkStart + tLocal
			delay := l.DelayAt(absT, 0)
			level := from.Attr("L", absT-delay, 0)
			if !level.IsNormal() {
				continue
			}
			rate := l.Rate.Result(absT, 0)
			if !rate.IsNormal() {
				continue
			}
			vec.Set(absT, xnum.Of(rate.Num*level.Num))
		}
	}
}

// computeClusterRollups sums each cluster's actor members' decoded cash
// vectors (spec.md §4.6 item 6: "cluster roll-ups"). Non-actor members
// (processes/products) have no per-node cash attribution in this
// pipeline — see DESIGN.md — so they are skipped rather than guessed at.
func computeClusterRollups(m *model.Model, chunkStart, chunkLen int) {
	for _, id := range sortedIDs(m.Clusters) {
		cl := m.Clusters[id]
		ci := ensureVector(&cl.CI, 0)
		co := ensureVector(&cl.CO, 0)
		cf := ensureVector(&cl.CF, 0)
		for tLocal := 0; tLocal < chunkLen; tLocal++ {
			absT := chunkStart + tLocal
			var sumIn, sumOut float64
			seen := false
			for _, ref := range cl.Members {
				if ref.Kind != model.KindActor {
					continue
				}
				a, ok := m.Actors[ref.ID]
				if !ok || a.CashIn == nil || a.CashOut == nil {
					continue
				}
				if v := a.CashIn.At(absT); v.IsNormal() {
					sumIn += v.Num
					seen = true
				}
				if v := a.CashOut.At(absT); v.IsNormal() {
					sumOut += v.Num
					seen = true
				}
			}
			if !seen {
				continue
			}
			ci.Set(absT, xnum.Of(sumIn))
			co.Set(absT, xnum.Of(sumOut))
			cf.Set(absT, xnum.Of(sumIn-sumOut))
		}
	}
}
