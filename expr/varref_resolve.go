package expr

import (
	"github.com/linnyr/engine/anchor"
	"github.com/linnyr/engine/model"
	"github.com/linnyr/engine/xnum"
)

// defaultAttribute picks the attribute a bare (no '|attribute') reference
// means for each entity kind, per the GLOSSARY's notion that a variable
// reference without an explicit attribute names the entity's level.
func defaultAttribute(k model.Kind) model.Attribute {
	switch k {
	case model.KindProcess, model.KindProduct:
		return "L"
	case model.KindActor:
		return "W"
	default:
		return ""
	}
}

// resolveVarRef evaluates one compiled VarRef at (t, w): it resolves the
// anchor offset(s) to an absolute step, looks up the named entity/pattern,
// and either reads a single attribute or reduces over every wildcard
// match, per spec.md §4.1.
func (ev *Evaluator) resolveVarRef(owner *Expression, ref *VarRef, t, w int) xnum.Value {
	if ref.ExpSpec != "" {
		// Cross-experiment run lookups: no Experiment/run store is in
		// scope for this engine (see DESIGN.md), so an exp-spec prefix
		// always reports "not computable" rather than guessing at a
		// fabricated result store.
		return xnum.Err(xnum.ErrInvalid)
	}

	step := t
	if ref.HasAnchor {
		fr := ev.blockFrame(t)
		fr.ContextNum = w
		step = anchor.Resolve(ref.Anchor1, ref.Offset1, fr)
		if ref.HasSecond {
			step2 := anchor.Resolve(ref.Anchor2, ref.Offset2, fr)
			step = anchor.Midpoint(step, step2)
		}
	}

	isSelf := ref.Pattern == "" && !ref.IsMethod
	attr := model.Attribute(ref.Attribute)

	if isSelf {
		if attr == "" || attr == owner.Attribute {
			return owner.selfResult(step, w)
		}
		return ev.Model.AttrByRef(owner.Owner, attr, step, w)
	}

	targets := ev.Model.ResolveName(ref.Pattern)
	if len(targets) == 0 {
		return xnum.Err(xnum.ErrBadRef)
	}

	wildcard := ref.IsWildcard() || ref.Stat != ""
	if !wildcard && len(targets) == 1 {
		target := targets[0]
		a := attr
		if a == "" {
			a = defaultAttribute(target.Kind)
		}
		return ev.Model.AttrByRef(target, a, step, w)
	}

	a := attr
	values := make([]xnum.Value, 0, len(targets))
	for i, target := range targets {
		ta := a
		if ta == "" {
			ta = defaultAttribute(target.Kind)
		}
		values = append(values, ev.Model.AttrByRef(target, ta, step, i))
	}

	kind := ref.Stat
	if kind == "" {
		kind = "SUM"
	}
	return reduceStat(kind, ref.NZOnly, values)
}
