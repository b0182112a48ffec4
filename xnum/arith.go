package xnum

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// nearZero reports whether f is within Epsilon of 0, using gonum's
// tolerance-compare helper rather than a hand-rolled math.Abs(f) < eps —
// the one place a finite-precision compare is worth pulling in the
// dependency already wired for the VM's statistics reductions.
func nearZero(f float64) bool {
	return floats.EqualWithinAbs(f, 0, Epsilon)
}

// Add implements dyadic '+' with CombineLax promotion (Undefined is
// additive identity-like and transparent; arithmetic proceeds over
// Undefined as 0 once no error/both-sentinel case applies).
func Add(a, b Value) Value {
	if v, ok := CombineLax(a, b); ok {
		if a.Kind == PlusInfinity && b.Kind == MinusInfinity ||
			a.Kind == MinusInfinity && b.Kind == PlusInfinity {
			return Of(0)
		}
		return v
	}
	return Of(a.Num + b.Num)
}

// Sub implements dyadic '-'.
func Sub(a, b Value) Value {
	if v, ok := CombineLax(a, b); ok {
		if a.Kind == PlusInfinity && b.Kind == PlusInfinity ||
			a.Kind == MinusInfinity && b.Kind == MinusInfinity {
			return Of(0)
		}
		return v
	}
	return Of(a.Num - b.Num)
}

// Mul implements dyadic '*'.
func Mul(a, b Value) Value {
	if v, ok := CombineLax(a, b); ok {
		return v
	}
	return Of(a.Num * b.Num)
}

// Div implements dyadic '/': division by (near-)zero yields ErrDivZero.
func Div(a, b Value) Value {
	if v, ok := CombineLax(a, b); ok {
		return v
	}
	if nearZero(b.Num) {
		return Err(ErrDivZero)
	}
	return Of(a.Num / b.Num)
}

// SafeDiv implements the '//' operator: returns the LHS verbatim when the
// RHS is (near-)zero instead of propagating ErrDivZero.
func SafeDiv(a, b Value) Value {
	if v, ok := CombineLax(a, b); ok {
		return v
	}
	if nearZero(b.Num) {
		return a
	}
	return Of(a.Num / b.Num)
}

// Mod implements the '%' operator.
func Mod(a, b Value) Value {
	if v, ok := CombineLax(a, b); ok {
		return v
	}
	if nearZero(b.Num) {
		return Err(ErrDivZero)
	}
	return Of(math.Mod(a.Num, b.Num))
}

// Pow implements the '^' operator.
func Pow(a, b Value) Value {
	if v, ok := CombineLax(a, b); ok {
		return v
	}
	r := math.Pow(a.Num, b.Num)
	if math.IsNaN(r) {
		return Err(ErrBadCalc)
	}
	if math.IsInf(r, 1) {
		return Value{Kind: PlusInfinity}
	}
	if math.IsInf(r, -1) {
		return Value{Kind: MinusInfinity}
	}
	return Of(r)
}

// Neg implements monadic '-'/'~'.
func Neg(a Value) Value {
	switch a.Kind {
	case Normal:
		return Of(-a.Num)
	case PlusInfinity:
		return Value{Kind: MinusInfinity}
	case MinusInfinity:
		return Value{Kind: PlusInfinity}
	default:
		return a
	}
}

// Cmp implements the six comparison operators, returning a 0/1 Normal
// Value (Linny-R represents booleans as 0/1 floats). op is one of
// "=", "<>", "!=", ">", "<", ">=", "<=".
func Cmp(op string, a, b Value) Value {
	if v, ok := CombineLax(a, b); ok {
		return v
	}
	var r bool
	switch op {
	case "=":
		r = a.Num == b.Num
	case "<>", "!=":
		r = a.Num != b.Num
	case ">":
		r = a.Num > b.Num
	case "<":
		r = a.Num < b.Num
	case ">=":
		r = a.Num >= b.Num
	case "<=":
		r = a.Num <= b.Num
	default:
		return Err(ErrInvalid)
	}
	if r {
		return Of(1)
	}
	return Of(0)
}

// ReplaceUndefined implements the '|' operator: returns a unless it is
// Undefined or NotComputed, in which case it returns b.
func ReplaceUndefined(a, b Value) Value {
	if a.Kind == Undefined || a.Kind == NotComputed {
		return b
	}
	return a
}
