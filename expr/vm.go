package expr

import (
	"github.com/linnyr/engine/xnum"
)

// computeAt is the memoized, cycle-guarded core of Result: it consults
// e's vector at the (already-resolved) index t, returning the cached value
// if one exists, detecting reentrancy via the Computing sentinel, and
// otherwise running the bytecode and caching the result.
func (e *Expression) computeAt(t, w int) xnum.Value {
	vec := e.vectorFor(w)
	cur := vec.At(t)
	if cur.Kind == xnum.ErrArrayIndex {
		return cur
	}
	switch cur.Kind {
	case xnum.Computing:
		return xnum.Err(xnum.ErrCyclic)
	case xnum.NotComputed:
		// fall through to compute below
	default:
		return cur
	}

	vec.Set(t, xnum.Value{Kind: xnum.Computing})
	e.ev.pushFrame(e, t, w)
	result := e.run(t, w)
	e.ev.popFrame()
	vec.Set(t, result)
	return result
}

// run interprets e.code as a stack machine, threading (t, w) through every
// OpPushConst/OpVarRef/OpCall that needs them.
func (e *Expression) run(t, w int) xnum.Value {
	stack := e.operandStack[:0]
	pop := func() xnum.Value {
		n := len(stack) - 1
		v := stack[n]
		stack = stack[:n]
		return v
	}
	pop2 := func() (xnum.Value, xnum.Value) {
		b := pop()
		a := pop()
		return a, b
	}

	pc := 0
	for pc < len(e.code) {
		ins := e.code[pc]
		switch ins.Op {
		case OpPushNum:
			stack = append(stack, xnum.Of(ins.Num))
		case OpPushConst:
			stack = append(stack, e.ev.constant(ins.Str, t, w))
		case OpPushString:
			if factor, ok := scaleUnits[ins.Str]; ok {
				stack = append(stack, xnum.Of(factor))
			} else {
				stack = append(stack, xnum.Err(xnum.ErrInvalid))
			}

		case OpAdd:
			a, b := pop2()
			stack = append(stack, xnum.Add(a, b))
		case OpSub:
			a, b := pop2()
			stack = append(stack, xnum.Sub(a, b))
		case OpMul:
			a, b := pop2()
			stack = append(stack, xnum.Mul(a, b))
		case OpDiv:
			a, b := pop2()
			stack = append(stack, xnum.Div(a, b))
		case OpSafeDiv:
			a, b := pop2()
			stack = append(stack, xnum.SafeDiv(a, b))
		case OpMod:
			a, b := pop2()
			stack = append(stack, xnum.Mod(a, b))
		case OpPow:
			a, b := pop2()
			stack = append(stack, xnum.Pow(a, b))

		case OpNeg:
			stack = append(stack, xnum.Neg(pop()))
		case OpNot:
			stack = append(stack, logicalNot(pop()))

		case OpEQ, OpNE, OpGT, OpLT, OpGE, OpLE:
			a, b := pop2()
			stack = append(stack, xnum.Cmp(ins.Str, a, b))

		case OpAnd:
			a, b := pop2()
			stack = append(stack, logicalAnd(a, b))
		case OpOr:
			a, b := pop2()
			stack = append(stack, logicalOr(a, b))

		case OpReplaceUndef:
			a, b := pop2()
			stack = append(stack, xnum.ReplaceUndefined(a, b))

		case OpIndex:
			// Binary '@' outside a bracket variable reference has no
			// defined semantics in spec.md §6 beyond its priority slot;
			// '@' offsets are consumed entirely within VarRef parsing
			// (see parseVarRef), so a bare OpIndex only appears from
			// pathological source text. Report it rather than guess.
			pop2()
			stack = append(stack, xnum.Err(xnum.ErrInvalid))

		case OpConcat:
			_, b := pop2()
			stack = append(stack, b)

		case OpCall:
			args := make([]xnum.Value, ins.Int)
			for i := ins.Int - 1; i >= 0; i-- {
				args[i] = pop()
			}
			stack = append(stack, e.ev.callFunction(ins.Str, args))

		case OpVarRef:
			stack = append(stack, e.ev.resolveVarRef(e, e.refs[ins.Int], t, w))

		case OpJumpIfFalse:
			if !truthy(pop()) {
				pc = ins.Int
				continue
			}
		case OpJump:
			pc = ins.Int
			continue

		case OpHalt:
			goto done
		}
		pc++
	}
done:
	var result xnum.Value
	if len(stack) == 0 {
		result = xnum.Err(xnum.ErrInvalid)
	} else {
		result = stack[len(stack)-1]
	}
	e.operandStack = stack[:0]
	return result
}

func truthy(v xnum.Value) bool { return v.IsNormal() && v.Num != 0 }

func logicalNot(a xnum.Value) xnum.Value {
	if xnum.IsError(a.Kind) {
		return a
	}
	if truthy(a) {
		return xnum.Of(0)
	}
	return xnum.Of(1)
}

func logicalAnd(a, b xnum.Value) xnum.Value {
	if v, ok := xnum.CombineLax(a, b); ok {
		return v
	}
	if truthy(a) && truthy(b) {
		return xnum.Of(1)
	}
	return xnum.Of(0)
}

func logicalOr(a, b xnum.Value) xnum.Value {
	if v, ok := xnum.CombineLax(a, b); ok {
		return v
	}
	if truthy(a) || truthy(b) {
		return xnum.Of(1)
	}
	return xnum.Of(0)
}
