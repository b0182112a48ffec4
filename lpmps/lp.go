package lpmps

import (
	"fmt"
	"strings"

	"github.com/linnyr/engine/tableau"
)

// term renders one signed coefficient/column pair, e.g. "+1 X00003".
func term(coeff float64, col int) string {
	return fmt.Sprintf("%+g %s", coeff, columnName(col))
}

func writeObjTerms(obj map[int]float64) string {
	if len(obj) == 0 {
		return "0"
	}
	var b strings.Builder
	for i, col := range sortedObjCols(obj) {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(term(obj[col], col))
	}
	return b.String()
}

func writeRowTerms(row map[int]float64) string {
	if len(row) == 0 {
		return "0"
	}
	var b strings.Builder
	for i, col := range sortedRowCols(row) {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(term(row[col], col))
	}
	return b.String()
}

// writeLPSolve renders t as a column-based LP_solve file (spec.md §6
// dialect 1): `max:` objective, `;`-terminated constraint rows, bare
// bound lines, then `int`/`sec`/`sos2` sections. Binary columns are
// listed in `int` (lp_solve has no separate `bin` section) together
// with an explicit `<= 1` bound.
func writeLPSolve(t *tableau.Tableau) string {
	var b strings.Builder

	fmt.Fprintf(&b, "/* objective */\nmax: %s;\n\n", writeObjTerms(t.Obj))

	b.WriteString("/* constraints */\n")
	for i, row := range t.Rows {
		fmt.Fprintf(&b, "%s: %s %s %g; /* %s */\n", rowLabel(i), writeRowTerms(row), relop(t.RowType[i]), t.RHS[i], t.RowLabel[i])
	}

	b.WriteString("\n/* bounds */\n")
	var ints, secs []int
	var sos [][]int
	for col := 0; col < t.NumCols(); col++ {
		lb, ub := t.LB[col], t.UB[col]
		if lb != 0 {
			fmt.Fprintf(&b, "%s >= %g;\n", columnName(col), lb)
		}
		if ub != tableau.SolverInfinity {
			fmt.Fprintf(&b, "%s <= %g;\n", columnName(col), ub)
		}
		switch t.Kind[col] {
		case tableau.VarBinary:
			ints = append(ints, col)
		case tableau.VarSemiContinuous:
			secs = append(secs, col)
		}
	}
	sos = t.SOS2

	if len(ints) > 0 {
		fmt.Fprintf(&b, "\nint %s;\n", joinColumns(ints))
	}
	if len(secs) > 0 {
		fmt.Fprintf(&b, "sec %s;\n", joinColumns(secs))
	}
	for i, g := range sos {
		fmt.Fprintf(&b, "sos2\nSOS%d: %s;\n", i, joinWeighted(g))
	}

	return b.String()
}

// writeCPLEX renders t as a CPLEX-style LP file (spec.md §6 dialect 2),
// the only dialect this package also parses back (ParseCPLEX).
func writeCPLEX(t *tableau.Tableau) string {
	var b strings.Builder

	b.WriteString("\\ linnyr tableau export\n")
	fmt.Fprintf(&b, "Maximize\n obj: %s\n", writeObjTerms(t.Obj))

	b.WriteString("Subject To\n")
	for i, row := range t.Rows {
		fmt.Fprintf(&b, " %s: %s %s %g \\ %s\n", rowLabel(i), writeRowTerms(row), relop(t.RowType[i]), t.RHS[i], t.RowLabel[i])
	}

	b.WriteString("Bounds\n")
	var binaries, semis []int
	for col := 0; col < t.NumCols(); col++ {
		fmt.Fprintf(&b, " %s >= %g\n", columnName(col), t.LB[col])
		fmt.Fprintf(&b, " %s <= %g\n", columnName(col), t.UB[col])
		switch t.Kind[col] {
		case tableau.VarBinary:
			binaries = append(binaries, col)
		case tableau.VarSemiContinuous:
			semis = append(semis, col)
		}
	}

	if len(binaries) > 0 {
		b.WriteString("Binary\n")
		for _, c := range binaries {
			fmt.Fprintf(&b, " %s\n", columnName(c))
		}
	}
	if len(semis) > 0 {
		b.WriteString("Semi-continuous\n")
		for _, c := range semis {
			fmt.Fprintf(&b, " %s\n", columnName(c))
		}
	}
	if len(t.SOS2) > 0 {
		b.WriteString("SOS\n")
		for i, g := range t.SOS2 {
			fmt.Fprintf(&b, " S2: SOS%d: %s\n", i, joinWeighted(g))
		}
	}
	b.WriteString("End\n")

	return b.String()
}

func joinColumns(cols []int) string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = columnName(c)
	}
	return strings.Join(names, ",")
}

// joinWeighted renders an SOS2 group as "name:weight" pairs (1-based
// weight, the column's position in the group), space-separated to match
// the CPLEX convention and comma-tolerant for lp_solve's reader.
func joinWeighted(cols []int) string {
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = fmt.Sprintf("%s:%d", columnName(c), i+1)
	}
	return strings.Join(parts, " ")
}
