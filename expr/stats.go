package expr

import (
	"gonum.org/v1/gonum/stat"

	"github.com/linnyr/engine/xnum"
)

// reduceStat implements the wildcard-reduction keywords of spec.md §4.1
// ("MAX MEAN MIN N SD SUM VAR", each with an optional NZ suffix meaning
// "non-zeros only"). Any non-normal (error/sentinel) input propagates as
// the severest such value, per spec.md's error-propagation invariant,
// except for N, which never propagates them: it counts the normal values
// (only the non-zero ones under NZ) and skips special ones.
func reduceStat(kind string, nzOnly bool, values []xnum.Value) xnum.Value {
	var nums []float64
	var worst xnum.Value
	haveWorst := false

	for _, v := range values {
		if v.IsSpecial() {
			if !haveWorst || v.Severity() < worst.Severity() {
				worst = v
				haveWorst = true
			}
			continue
		}
		if nzOnly && v.Num == 0 {
			continue
		}
		nums = append(nums, v.Num)
	}

	if kind == "N" {
		return xnum.Of(float64(len(nums)))
	}
	if haveWorst && kind != "N" {
		return worst
	}
	if len(nums) == 0 {
		return xnum.Value{Kind: xnum.Undefined}
	}

	switch kind {
	case "SUM":
		return xnum.Of(floatSum(nums))
	case "MEAN":
		return xnum.Of(stat.Mean(nums, nil))
	case "MAX":
		return xnum.Of(floatMax(nums))
	case "MIN":
		return xnum.Of(floatMin(nums))
	case "SD":
		if len(nums) < 2 {
			return xnum.Of(0)
		}
		return xnum.Of(stat.StdDev(nums, nil))
	case "VAR":
		if len(nums) < 2 {
			return xnum.Of(0)
		}
		return xnum.Of(stat.Variance(nums, nil))
	default:
		return xnum.Err(xnum.ErrInvalid)
	}
}

func floatSum(xs []float64) float64 {
	var s float64
	for _, x := range xs {
		s += x
	}
	return s
}

func floatMax(xs []float64) float64 {
	m := xs[0]
	for _, x := range xs[1:] {
		if x > m {
			m = x
		}
	}
	return m
}

func floatMin(xs []float64) float64 {
	m := xs[0]
	for _, x := range xs[1:] {
		if x < m {
			m = x
		}
	}
	return m
}
