package lpmps

import (
	"fmt"
	"strconv"
	"strings"
)

// ParsedRow is one constraint row recovered by ParseCPLEX.
type ParsedRow struct {
	Label  string
	Coeffs map[int]float64
	Sense  string // "<=", ">=", or "="
	RHS    float64
}

// Parsed is the structural content ParseCPLEX recovers from a CPLEX-style
// LP file: enough to drive solver.Fake's deterministic echo and to
// satisfy spec.md §8's round-trip testable property ("every variable
// allocated as binary appears exactly once in Binaries; every SOS group
// is type S2").
type Parsed struct {
	NumCols int
	Obj     map[int]float64
	Rows    []ParsedRow
	LB, UB  map[int]float64
	Binary  map[int]bool
	Semi    map[int]bool
	SOS     [][]int
}

// ParseCPLEX parses the dialect writeCPLEX emits. It is the only dialect
// this package parses back: CPLEX's section keywords (Subject To /
// Bounds / Binary / ...) unambiguously separate constraint rows from
// bound lines, where lp_solve's bare-line convention would require
// guessing.
func ParseCPLEX(text string) (*Parsed, error) {
	p := &Parsed{
		Obj:    make(map[int]float64),
		LB:     make(map[int]float64),
		UB:     make(map[int]float64),
		Binary: make(map[int]bool),
		Semi:   make(map[int]bool),
	}

	section := ""
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(stripComment(raw))
		if line == "" {
			continue
		}
		switch {
		case strings.EqualFold(line, "Maximize"):
			section = "obj"
			continue
		case strings.EqualFold(line, "Subject To"):
			section = "rows"
			continue
		case strings.EqualFold(line, "Bounds"):
			section = "bounds"
			continue
		case strings.EqualFold(line, "Binary"):
			section = "binary"
			continue
		case strings.EqualFold(line, "General"):
			section = "general"
			continue
		case strings.EqualFold(line, "Semi-continuous"):
			section = "semi"
			continue
		case strings.EqualFold(line, "SOS"):
			section = "sos"
			continue
		case strings.EqualFold(line, "End"):
			section = ""
			continue
		}

		switch section {
		case "obj":
			_, terms := splitLabel(line)
			for col, coeff := range parseTerms(terms) {
				p.Obj[col] = coeff
				p.track(col)
			}
		case "rows":
			label, body := splitLabel(line)
			row, err := parseRow(label, body)
			if err != nil {
				return nil, err
			}
			for col := range row.Coeffs {
				p.track(col)
			}
			p.Rows = append(p.Rows, row)
		case "bounds":
			if err := p.parseBound(line); err != nil {
				return nil, err
			}
		case "binary":
			col, err := columnIndex(strings.TrimSpace(line))
			if err != nil {
				return nil, err
			}
			p.Binary[col] = true
			p.track(col)
		case "semi":
			col, err := columnIndex(strings.TrimSpace(line))
			if err != nil {
				return nil, err
			}
			p.Semi[col] = true
			p.track(col)
		case "sos":
			group, err := parseSOSLine(line)
			if err != nil {
				return nil, err
			}
			p.SOS = append(p.SOS, group)
			for _, c := range group {
				p.track(c)
			}
		}
	}
	return p, nil
}

func (p *Parsed) track(col int) {
	if col+1 > p.NumCols {
		p.NumCols = col + 1
	}
}

// stripComment removes a trailing "\ ..." comment (row-label echo) from
// a line, matching how writeCPLEX appends the original semantic label.
func stripComment(line string) string {
	if i := strings.Index(line, "\\"); i >= 0 {
		return line[:i]
	}
	return line
}

// splitLabel peels a leading "label:" token off a line, returning the
// label (without the colon) and the remainder.
func splitLabel(line string) (label, rest string) {
	i := strings.Index(line, ":")
	if i < 0 {
		return "", line
	}
	return strings.TrimSpace(line[:i]), strings.TrimSpace(line[i+1:])
}

func parseTerms(body string) map[int]float64 {
	toks := strings.Fields(body)
	out := make(map[int]float64)
	for i := 0; i+1 < len(toks); i += 2 {
		coeff, err := strconv.ParseFloat(toks[i], 64)
		if err != nil {
			continue
		}
		col, err := columnIndex(toks[i+1])
		if err != nil {
			continue
		}
		out[col] = coeff
	}
	return out
}

func parseRow(label, body string) (ParsedRow, error) {
	toks := strings.Fields(body)
	senseAt := -1
	for i, t := range toks {
		if t == "<=" || t == ">=" || t == "=" {
			senseAt = i
			break
		}
	}
	if senseAt < 0 || senseAt+1 >= len(toks) {
		return ParsedRow{}, fmt.Errorf("lpmps: malformed constraint row %q", label)
	}
	rhs, err := strconv.ParseFloat(toks[senseAt+1], 64)
	if err != nil {
		return ParsedRow{}, fmt.Errorf("lpmps: bad rhs in row %q: %w", label, err)
	}
	return ParsedRow{
		Label:  label,
		Coeffs: parseTerms(strings.Join(toks[:senseAt], " ")),
		Sense:  toks[senseAt],
		RHS:    rhs,
	}, nil
}

func (p *Parsed) parseBound(line string) error {
	toks := strings.Fields(line)
	if len(toks) != 3 {
		return fmt.Errorf("lpmps: malformed bound line %q", line)
	}
	col, err := columnIndex(toks[0])
	if err != nil {
		return err
	}
	v, err := strconv.ParseFloat(toks[2], 64)
	if err != nil {
		return fmt.Errorf("lpmps: bad bound value in %q: %w", line, err)
	}
	switch toks[1] {
	case ">=":
		p.LB[col] = v
	case "<=":
		p.UB[col] = v
	default:
		return fmt.Errorf("lpmps: unknown bound relation %q", toks[1])
	}
	p.track(col)
	return nil
}

// parseSOSLine parses " S2: SOS0: X00008:1 X00009:2" into an ordered
// column list (the rank suffix is positional metadata only; column order
// in the group is taken from left to right as written).
func parseSOSLine(line string) ([]int, error) {
	rest := line
	for i := 0; i < 2; i++ {
		_, tail := splitLabel(rest)
		rest = tail
	}
	var group []int
	for _, tok := range strings.Fields(rest) {
		name := tok
		if i := strings.Index(tok, ":"); i >= 0 {
			name = tok[:i]
		}
		col, err := columnIndex(name)
		if err != nil {
			return nil, err
		}
		group = append(group, col)
	}
	return group, nil
}

// columnIndex inverts columnName: "X00003" -> 3.
func columnIndex(name string) (int, error) {
	name = strings.TrimSpace(name)
	if !strings.HasPrefix(name, "X") {
		return 0, fmt.Errorf("lpmps: not a column name: %q", name)
	}
	return strconv.Atoi(name[1:])
}
