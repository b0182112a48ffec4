package tableau

import (
	"github.com/linnyr/engine/model"
	"github.com/linnyr/engine/xnum"
)

// ModelResolver implements Resolver directly against a compiled Model:
// every lookup forwards to the entity's own Attr method
// (model.NodeBase.Attr for processes/products, model.Actor.AttrW for the
// actor weight), which already dispatches level-based reads to the
// solver-decoded Results vector and everything else to the compiled
// Expr. Once package expr has compiled and attached every formula
// (NodeBase.SetExpr), a ModelResolver is all BuildCtx needs — there is
// no dependency on *expr.Evaluator itself, only on what it left behind.
type ModelResolver struct {
	Model *model.Model
}

// Attr implements Resolver.
func (r ModelResolver) Attr(ref model.Ref, attr model.Attribute, t, w int) float64Result {
	if ref.Kind == model.KindActor {
		a, ok := r.Model.Actors[ref.ID]
		if !ok || attr != "W" {
			return Undefined
		}
		return fromXnum(a.AttrW(t, w))
	}
	n, ok := r.Model.Node(ref)
	if !ok {
		return Undefined
	}
	return fromXnum(n.Attr(attr, t, w))
}

func fromXnum(v xnum.Value) float64Result {
	if !v.IsNormal() {
		return Undefined
	}
	return Ok(v.Num)
}
