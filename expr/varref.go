package expr

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/linnyr/engine/anchor"
)

// statKinds are the reduction keywords of spec.md §4.1's variable
// reference grammar; each may carry a "NZ" suffix meaning "non-zeros
// only".
var statKinds = map[string]bool{
	"MAX": true, "MEAN": true, "MIN": true, "N": true,
	"SD": true, "SUM": true, "VAR": true,
}

// VarRef is the parsed form of a bracketed variable reference:
//
//	[ {exp-spec}? stat$ pattern ( | attribute )? ( @ offset ( : offset )? )? ]
type VarRef struct {
	ExpSpec string // raw "{method$title|runspec}" prefix, parsed but not resolved (no Experiment store in scope — see DESIGN.md)

	Stat   string // "" (no reduction) or one of statKinds
	NZOnly bool   // stat carried a "NZ" suffix

	Pattern   string // entity name or wildcard pattern; "" means self-reference
	Attribute string // attribute letter or dataset modifier name; "" means owner's own attribute

	IsMethod     bool   // pattern contained ':' (GLOSSARY "Method")
	MethodObject string // "" means bind to the owner entity

	HasAnchor bool
	Anchor1   anchor.Kind
	Offset1   int
	HasSecond bool
	Anchor2   anchor.Kind
	Offset2   int
}

// IsWildcard reports whether Pattern contains a wildcard glyph.
func (v *VarRef) IsWildcard() bool {
	return strings.ContainsAny(v.Pattern, "?*#")
}

// parseVarRef parses the raw content of a lexer.Bracket token into a VarRef.
func parseVarRef(content string) (*VarRef, error) {
	v := &VarRef{}
	s := content

	if strings.HasPrefix(s, "{") {
		end := strings.IndexByte(s, '}')
		if end < 0 {
			return nil, fmt.Errorf("expr: unterminated exp-spec in %q", content)
		}
		v.ExpSpec = s[1:end]
		s = s[end+1:]
	}

	for stat := range statKinds {
		for _, suffix := range []string{"NZ", ""} {
			prefix := stat + suffix + "$"
			if strings.HasPrefix(s, prefix) {
				v.Stat = stat
				v.NZOnly = suffix == "NZ"
				s = s[len(prefix):]
			}
		}
	}

	atIdx := strings.IndexByte(s, '@')
	pipeIdx := strings.IndexByte(s, '|')
	body := s
	var tail string
	cut := -1
	if pipeIdx >= 0 && (atIdx < 0 || pipeIdx < atIdx) {
		cut = pipeIdx
	} else if atIdx >= 0 {
		cut = atIdx
	}
	if cut >= 0 {
		body = s[:cut]
		tail = s[cut:]
	}

	if ci := strings.IndexByte(body, ':'); ci >= 0 {
		v.IsMethod = true
		v.MethodObject = body[:ci]
		v.Pattern = body[ci+1:]
	} else {
		v.Pattern = body
	}

	if strings.HasPrefix(tail, "|") {
		tail = tail[1:]
		atIdx = strings.IndexByte(tail, '@')
		if atIdx >= 0 {
			v.Attribute = tail[:atIdx]
			tail = tail[atIdx:]
		} else {
			v.Attribute = tail
			tail = ""
		}
	}

	if strings.HasPrefix(tail, "@") {
		tail = tail[1:]
		parts := strings.SplitN(tail, ":", 2)
		a1, o1, err := parseAnchorOffset(parts[0])
		if err != nil {
			return nil, err
		}
		v.HasAnchor = true
		v.Anchor1, v.Offset1 = a1, o1
		if len(parts) == 2 {
			a2, o2, err := parseAnchorOffset(parts[1])
			if err != nil {
				return nil, err
			}
			v.HasSecond = true
			v.Anchor2, v.Offset2 = a2, o2
		}
	}

	return v, nil
}

var anchorChars = "t#^ijkrfclpns"

// parseAnchorOffset parses one "[anchor][±integer]" segment.
func parseAnchorOffset(s string) (anchor.Kind, int, error) {
	if s == "" {
		return anchor.Current, 0, nil
	}
	a := anchor.Current
	rest := s
	if strings.ContainsRune(anchorChars, rune(s[0])) && (len(s) == 1 || s[1] == '+' || s[1] == '-') {
		a = anchor.Kind(s[0])
		rest = s[1:]
	}
	if rest == "" {
		return a, 0, nil
	}
	n, err := strconv.Atoi(rest)
	if err != nil {
		return a, 0, fmt.Errorf("expr: bad anchor offset %q: %w", s, err)
	}
	return a, n, nil
}
