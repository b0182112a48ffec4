package block

import (
	"math"

	"github.com/linnyr/engine/tableau"
)

// scaleObjective implements spec.md §4.6 item 3's objective-scaling
// rule: find M = max|cj|; if M > 2 and finite, divide every objective
// coefficient by M/2 and record the scalar onto the tableau.
func scaleObjective(t *tableau.Tableau) float64 {
	m := 0.0
	for _, c := range t.Obj {
		if a := math.Abs(c); a > m {
			m = a
		}
	}
	scalar := 1.0
	if m > 2 && !math.IsInf(m, 0) {
		scalar = m / 2
		for col := range t.Obj {
			t.Obj[col] /= scalar
		}
	}
	t.ObjScalar = scalar
	return scalar
}

// scaleCash implements spec.md §4.6 item 4: track the maximum absolute
// cash coefficient seen, divide every entry in the recorded cash rows by
// it, and record the scalar (used later to post-multiply decoded
// CashIn/CashOut/CashFlow values back to natural units).
func scaleCash(t *tableau.Tableau) float64 {
	m := 0.0
	for _, row := range t.CashRows {
		for _, c := range t.Rows[row] {
			if a := math.Abs(c); a > m {
				m = a
			}
		}
	}
	scalar := 1.0
	if m > 0 {
		scalar = m
		for _, row := range t.CashRows {
			coeffs := t.Rows[row]
			for col := range coeffs {
				coeffs[col] /= scalar
			}
		}
	}
	t.CashScalar = scalar
	return scalar
}
