package lpmps

import (
	"fmt"
	"strings"

	"github.com/linnyr/engine/tableau"
)

// writeMPS renders t as fixed-field MPS (spec.md §6): N/L/G/E row
// markers with OBJ as the free row, a COLUMNS section listing each
// column's nonzero entries (objective first), an RHS section, and a
// BOUNDS section using LO/UP/FX/FR/BV/SC per column. Fields are
// space-padded rather than byte-aligned to a fixed column grid — modern
// MPS readers accept this "free MPS" relaxation, and the section/marker
// vocabulary spec.md §6 names is unaffected by the padding width.
func writeMPS(t *tableau.Tableau) string {
	var b strings.Builder

	b.WriteString("NAME          LINNYR\n")

	b.WriteString("ROWS\n")
	b.WriteString(" N  OBJ\n")
	for i, rt := range t.RowType {
		marker := "E"
		switch rt {
		case tableau.RowLE:
			marker = "L"
		case tableau.RowGE:
			marker = "G"
		}
		fmt.Fprintf(&b, " %s  %s\n", marker, rowLabel(i))
	}

	// COLUMNS: one block per nonzero column, objective entry first.
	byCol := make(map[int][]string)
	for col, c := range t.Obj {
		if c != 0 {
			byCol[col] = append(byCol[col], fmt.Sprintf("    %-10s  OBJ            %g", columnName(col), c))
		}
	}
	for i, row := range t.Rows {
		for _, col := range sortedRowCols(row) {
			byCol[col] = append(byCol[col], fmt.Sprintf("    %-10s  %-10s     %g", columnName(col), rowLabel(i), row[col]))
		}
	}
	b.WriteString("COLUMNS\n")
	for col := 0; col < t.NumCols(); col++ {
		for _, line := range byCol[col] {
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}

	b.WriteString("RHS\n")
	for i, rhs := range t.RHS {
		if rhs != 0 {
			fmt.Fprintf(&b, "    RHS         %-10s     %g\n", rowLabel(i), rhs)
		}
	}

	b.WriteString("BOUNDS\n")
	for col := 0; col < t.NumCols(); col++ {
		name := columnName(col)
		switch t.Kind[col] {
		case tableau.VarBinary:
			fmt.Fprintf(&b, " BV BND         %s\n", name)
			continue
		case tableau.VarSemiContinuous:
			fmt.Fprintf(&b, " SC BND         %-10s     %g\n", name, t.UB[col])
			continue
		}
		lb, ub := t.LB[col], t.UB[col]
		switch {
		case lb == ub:
			fmt.Fprintf(&b, " FX BND         %-10s     %g\n", name, lb)
		case lb == -tableau.SolverInfinity && ub == tableau.SolverInfinity:
			fmt.Fprintf(&b, " FR BND         %s\n", name)
		default:
			if lb != 0 {
				fmt.Fprintf(&b, " LO BND         %-10s     %g\n", name, lb)
			}
			if ub != tableau.SolverInfinity {
				fmt.Fprintf(&b, " UP BND         %-10s     %g\n", name, ub)
			}
		}
	}

	if len(t.SOS2) > 0 {
		b.WriteString("SOS\n")
		for i, g := range t.SOS2 {
			fmt.Fprintf(&b, " S2 SOS         SOS%-10d1\n", i)
			for rank, c := range g {
				fmt.Fprintf(&b, "    %-10s  %d\n", columnName(c), rank+1)
			}
		}
	}

	b.WriteString("ENDATA\n")
	return b.String()
}
