package expr

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/linnyr/engine/xnum"
)

// callFunction dispatches the monadic/variadic function names of spec.md
// §6's priority-9 row. Any special (error/lifecycle) argument propagates
// as the most severe one, mirroring the binary-opcode invariant, before a
// function's own math runs.
func (ev *Evaluator) callFunction(name string, args []xnum.Value) xnum.Value {
	if v, ok := severestOf(args); ok {
		return v
	}

	switch name {
	case "abs":
		return xnum.Of(math.Abs(args[0].Num))
	case "sin":
		return xnum.Of(math.Sin(args[0].Num))
	case "cos":
		return xnum.Of(math.Cos(args[0].Num))
	case "atan":
		return xnum.Of(math.Atan(args[0].Num))
	case "ln":
		if args[0].Num <= 0 {
			return xnum.Err(xnum.ErrBadCalc)
		}
		return xnum.Of(math.Log(args[0].Num))
	case "exp":
		return xnum.Of(math.Exp(args[0].Num))
	case "sqrt":
		if args[0].Num < 0 {
			return xnum.Err(xnum.ErrBadCalc)
		}
		return xnum.Of(math.Sqrt(args[0].Num))
	case "round":
		return xnum.Of(math.Round(args[0].Num))
	case "int":
		return xnum.Of(math.Trunc(args[0].Num))
	case "fract":
		return xnum.Of(args[0].Num - math.Trunc(args[0].Num))

	case "min":
		return reduceNormal(args, math.Min)
	case "max":
		return reduceNormal(args, math.Max)

	case "binomial":
		d := distuv.Binomial{N: args[0].Num, P: args[1].Num, Src: ev.rng}
		return xnum.Of(d.Rand())
	case "exponential":
		d := distuv.Exponential{Rate: args[0].Num, Src: ev.rng}
		return xnum.Of(d.Rand())
	case "normal":
		d := distuv.Normal{Mu: args[0].Num, Sigma: args[1].Num, Src: ev.rng}
		return xnum.Of(d.Rand())
	case "poisson":
		d := distuv.Poisson{Lambda: args[0].Num, Src: ev.rng}
		return xnum.Of(d.Rand())
	case "triangular":
		return xnum.Of(sampleTriangular(ev, args[0].Num, args[1].Num, args[2].Num))
	case "weibull":
		d := distuv.Weibull{K: args[1].Num, Lambda: args[0].Num, Src: ev.rng}
		return xnum.Of(d.Rand())

	case "npv":
		return xnum.Of(netPresentValue(args[0].Num, args[1:]))

	case "correl", "slope", "mpp", "npu", "hccd":
		// These name well-known statistical/finance concepts in spec.md
		// §6's function row, but each needs a per-step sample series as
		// its argument, not the scalar operands this VM's call convention
		// passes; there is no vector-valued argument form defined for
		// them anywhere else in the spec, so reporting ErrInvalid is
		// honest rather than fabricating a scalar substitute.
		return xnum.Err(xnum.ErrInvalid)

	default:
		return xnum.Err(xnum.ErrInvalid)
	}
}

func severestOf(args []xnum.Value) (xnum.Value, bool) {
	var worst xnum.Value
	found := false
	for _, a := range args {
		if !a.IsSpecial() {
			continue
		}
		if !found || a.Severity() < worst.Severity() {
			worst = a
			found = true
		}
	}
	return worst, found
}

func reduceNormal(args []xnum.Value, pick func(a, b float64) float64) xnum.Value {
	r := args[0].Num
	for _, a := range args[1:] {
		r = pick(r, a.Num)
	}
	return xnum.Of(r)
}

func sampleTriangular(ev *Evaluator, low, mode, high float64) float64 {
	u := ev.rng.Float64()
	f := (mode - low) / (high - low)
	if u < f {
		return low + math.Sqrt(u*(high-low)*(mode-low))
	}
	return high - math.Sqrt((1-u)*(high-low)*(high-mode))
}

func netPresentValue(rate float64, cashflows []xnum.Value) float64 {
	var total float64
	for i, cf := range cashflows {
		total += cf.Num / math.Pow(1+rate, float64(i))
	}
	return total
}
