package model

import "github.com/linnyr/engine/xnum"

// ResolveName finds every entity whose name matches pattern. A pattern with
// no wildcard glyph is still run through WildcardMatch (which degenerates
// to an exact compare), so callers never need to special-case the
// non-wildcard path. Kinds are searched in a fixed priority order; within a
// run no two entities share a name, so the ordering only matters for the
// pathological case of a name collision across kinds.
func (m *Model) ResolveName(pattern string) []Ref {
	var out []Ref
	for _, k := range []Kind{KindProcess, KindProduct, KindActor, KindCluster, KindDataset} {
		out = append(out, m.NamesMatching(k, pattern)...)
	}
	for _, e := range m.Equations {
		if WildcardMatch(pattern, e.Name) {
			out = append(out, e.Ref)
		}
	}
	for _, c := range m.Constraints {
		if WildcardMatch(pattern, c.Name) {
			out = append(out, c.Ref)
		}
	}
	for _, l := range m.Links {
		if WildcardMatch(pattern, l.Name) {
			out = append(out, l.Ref)
		}
	}
	return out
}

// AttrByRef dispatches an attribute read to whichever entity ref names,
// regardless of kind — the one lookup surface the expr package's variable
// references need, so it never has to know about NodeBase/Actor/Cluster
// internals directly.
func (m *Model) AttrByRef(ref Ref, attr Attribute, t, w int) xnum.Value {
	switch ref.Kind {
	case KindProcess:
		if p, ok := m.Processes[ref.ID]; ok {
			return p.Attr(attr, t, w)
		}
	case KindProduct:
		if p, ok := m.Products[ref.ID]; ok {
			return p.Attr(attr, t, w)
		}
	case KindActor:
		if a, ok := m.Actors[ref.ID]; ok {
			return a.attrByName(attr, t, w)
		}
	case KindCluster:
		if c, ok := m.Clusters[ref.ID]; ok {
			return vectorAttr(map[Attribute]*Vector{"CI": c.CI, "CO": c.CO, "CF": c.CF}, attr, t)
		}
	case KindConstraint:
		if c, ok := m.Constraints[ref.ID]; ok {
			return vectorAttr(map[Attribute]*Vector{"SOC": c.SOC, "A": c.A}, attr, t)
		}
	case KindLink:
		if l, ok := m.Links[ref.ID]; ok {
			if attr == "F" {
				return vectorAttr(map[Attribute]*Vector{"F": l.ActualFlow}, attr, t)
			}
			return xnum.Err(xnum.ErrBadRef)
		}
	case KindDataset:
		if d, ok := m.Datasets[ref.ID]; ok {
			if attr == "" {
				return d.Data.At(t)
			}
			if mod, ok := d.Modifiers[string(attr)]; ok {
				return mod.Result(t, w)
			}
			return xnum.Err(xnum.ErrBadRef)
		}
	case KindEquation:
		if e, ok := m.Equations[ref.ID]; ok {
			return e.Formula.Result(t, w)
		}
	}
	return xnum.Err(xnum.ErrBadRef)
}

func (a *Actor) attrByName(attr Attribute, t, w int) xnum.Value {
	switch attr {
	case "W":
		return a.AttrW(t, w)
	default:
		return vectorAttr(map[Attribute]*Vector{"CI": a.CashIn, "CO": a.CashOut, "CF": a.CashFlow}, attr, t)
	}
}

func vectorAttr(vs map[Attribute]*Vector, attr Attribute, t int) xnum.Value {
	v, ok := vs[attr]
	if !ok || v == nil {
		return xnum.Value{Kind: xnum.NotComputed}
	}
	return v.At(t)
}
