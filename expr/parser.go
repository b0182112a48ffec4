package expr

import (
	"fmt"

	"github.com/linnyr/engine/lexer"
	"github.com/linnyr/engine/model"
)

// dynamicSymbols marks the constant names of spec.md §4.1 item 2b whose
// presence in an expression forces is_static=false.
var dynamicSymbols = map[string]bool{
	"t": true, "rt": true, "bt": true, "ct": true, "b": true,
	"r": true, "random": true, "i": true, "j": true, "k": true,
}

// scaleUnits converts the scale-unit string literals of spec.md §4.1 to
// their base-hour equivalent, per the constant row "yr wk d h m s" of §6.
var scaleUnits = map[string]float64{
	"yr": 8760, "year": 8760,
	"wk": 168, "week": 168,
	"d": 24, "day": 24,
	"h": 1, "hour": 1,
	"m": 1.0 / 60, "minute": 1.0 / 60,
	"s": 1.0 / 3600, "second": 1.0 / 3600,
}

// precedence implements the binary-operator priority table of spec.md §6.
// Ternary '?:' (2) and concatenation ';' (1) are handled by dedicated
// productions in parseExpr/parseTernary rather than through this table.
func precedence(op string) (int, bool) {
	switch op {
	case "or":
		return 3, true
	case "and":
		return 4, true
	case "=", "<>", "!=", ">", "<", ">=", "<=":
		return 5, true
	case "@":
		return 6, true
	case "+", "-":
		return 7, true
	case "*", "/", "//":
		return 8, true
	case "%", "^":
		return 9, true
	}
	return 0, false
}

var binOp = map[string]Op{
	"+": OpAdd, "-": OpSub, "*": OpMul, "/": OpDiv, "//": OpSafeDiv,
	"%": OpMod, "^": OpPow,
	"=": OpEQ, "<>": OpNE, "!=": OpNE, ">": OpGT, "<": OpLT, ">=": OpGE, "<=": OpLE,
	"and": OpAnd, "or": OpOr, "@": OpIndex,
}

// funcArity gives the fixed argument count of the spec.md §6 monadic
// function set; functions absent here are treated as variadic (min 1 arg).
var funcArity = map[string]int{
	"abs": 1, "sin": 1, "cos": 1, "atan": 1, "ln": 1, "exp": 1, "sqrt": 1,
	"round": 1, "int": 1, "fract": 1,
	"binomial": 2, "exponential": 1, "normal": 2, "poisson": 1,
	"triangular": 3, "weibull": 2,
	"correl": 2, "slope": 2,
}

// parser is a recursive-descent/precedence-climbing compiler over a token
// stream already produced by package lexer; it emits a flat Instr program
// and classifies staticness as it goes, per spec.md §4.1 items 1-3.
type parser struct {
	toks []lexer.Token
	pos  int

	owner model.Ref
	m     *model.Model

	code []Instr
	refs []*VarRef

	isStatic      bool
	isLevelBased  bool
	methodObjects []model.Ref

	err error
}

func newParser(toks []lexer.Token, owner model.Ref, m *model.Model) *parser {
	return &parser{toks: toks, owner: owner, m: m, isStatic: true}
}

func (p *parser) peek() lexer.Token  { return p.toks[p.pos] }
func (p *parser) atEnd() bool        { return p.peek().Kind == lexer.EOF }
func (p *parser) advance() lexer.Token {
	t := p.toks[p.pos]
	if t.Kind != lexer.EOF {
		p.pos++
	}
	return t
}

func (p *parser) fail(format string, args ...any) {
	if p.err == nil {
		p.err = fmt.Errorf(format, args...)
	}
}

func (p *parser) emit(ins Instr) int {
	p.code = append(p.code, ins)
	return len(p.code) - 1
}

// parseProgram parses a full expression, including top-level ';' sequences
// (priority 1: OpConcat keeps only the rightmost operand), and appends
// OpHalt.
func (p *parser) parseProgram() {
	p.parseTernary()
	for p.err == nil && p.peek().Kind == lexer.Op && p.peek().Text == ";" {
		p.advance()
		p.parseTernary()
		if p.err != nil {
			return
		}
		p.emit(Instr{Op: OpConcat})
	}
	if p.err != nil {
		return
	}
	if !p.atEnd() {
		p.fail("expr: unexpected trailing token %q at %d", p.peek().Text, p.peek().Pos)
		return
	}
	p.emit(Instr{Op: OpHalt})
}

// parseTernary implements priority 2: `cond ? then : else`.
func (p *parser) parseTernary() {
	p.parseBinary(3)
	if p.err != nil {
		return
	}
	if p.peek().Kind != lexer.Op || p.peek().Text != "?" {
		return
	}
	p.advance()
	jumpIfFalse := p.emit(Instr{Op: OpJumpIfFalse})
	p.parseTernary()
	if p.err != nil {
		return
	}
	jumpOverElse := p.emit(Instr{Op: OpJump})
	p.code[jumpIfFalse].Int = len(p.code)
	if p.peek().Kind != lexer.Op || p.peek().Text != ":" {
		p.fail("expr: expected ':' in ternary at %d", p.peek().Pos)
		return
	}
	p.advance()
	p.parseTernary()
	p.code[jumpOverElse].Int = len(p.code)
}

// parseBinary implements precedence-climbing over the table in precedence().
func (p *parser) parseBinary(minPrec int) {
	p.parseUnary()
	for p.err == nil {
		tok := p.peek()
		opText := tok.Text
		if tok.Kind == lexer.Ident && (opText == "and" || opText == "or") {
			// fallthrough: treated as operator text below
		} else if tok.Kind != lexer.Op {
			return
		}
		prec, ok := precedence(opText)
		if !ok || prec < minPrec {
			return
		}
		p.advance()
		p.parseBinary(prec + 1)
		if p.err != nil {
			return
		}
		code, ok := binOp[opText]
		if !ok {
			p.fail("expr: unknown operator %q", opText)
			return
		}
		p.emit(Instr{Op: code, Str: opText})
	}
}

// parseUnary implements priority 9 monadic prefix operators (right
// associative per spec.md §6) and primary expressions.
func (p *parser) parseUnary() {
	tok := p.peek()
	if tok.Kind == lexer.Op && (tok.Text == "-" || tok.Text == "~") {
		p.advance()
		p.parseUnary()
		if tok.Text == "~" {
			p.emit(Instr{Op: OpNot})
		} else {
			p.emit(Instr{Op: OpNeg})
		}
		return
	}
	if tok.Kind == lexer.Ident && tok.Text == "not" {
		p.advance()
		p.parseUnary()
		p.emit(Instr{Op: OpNot})
		return
	}
	p.parsePostfix()
}

// parsePostfix implements priority 10's '|' ("replace undefined") operator,
// which the lexer tokenizes like any other Op character.
func (p *parser) parsePostfix() {
	p.parsePrimary()
	for p.err == nil && p.peek().Kind == lexer.Op && p.peek().Text == "|" {
		p.advance()
		p.parsePrimary()
		p.emit(Instr{Op: OpReplaceUndef})
	}
}

func (p *parser) parsePrimary() {
	tok := p.peek()
	switch tok.Kind {
	case lexer.Number:
		p.advance()
		p.emit(Instr{Op: OpPushNum, Num: tok.Num})
	case lexer.String:
		p.advance()
		p.emit(Instr{Op: OpPushString, Str: tok.Text})
	case lexer.LParen:
		p.advance()
		p.parseTernary()
		if p.err != nil {
			return
		}
		if p.peek().Kind != lexer.RParen {
			p.fail("expr: expected ')' at %d", p.peek().Pos)
			return
		}
		p.advance()
	case lexer.Bracket:
		p.advance()
		p.parseVarRefToken(tok.Text)
	case lexer.Ident:
		p.parseIdentOrCall()
	default:
		p.fail("expr: unexpected token %q at %d", tok.Text, tok.Pos)
	}
}

func (p *parser) parseIdentOrCall() {
	tok := p.advance()
	name := tok.Text

	if p.peek().Kind == lexer.LParen {
		p.advance()
		argc := 0
		if p.peek().Kind != lexer.RParen {
			for {
				p.parseTernary()
				if p.err != nil {
					return
				}
				argc++
				if p.peek().Kind == lexer.Op && p.peek().Text == ";" {
					p.advance()
					continue
				}
				break
			}
		}
		if p.peek().Kind != lexer.RParen {
			p.fail("expr: expected ')' closing call to %q at %d", name, p.peek().Pos)
			return
		}
		p.advance()
		if want, ok := funcArity[name]; ok {
			if want != argc {
				p.fail("expr: %s expects %d argument(s), got %d", name, want, argc)
				return
			}
		} else if argc == 0 {
			p.fail("expr: %s expects at least 1 argument", name)
			return
		}
		p.isStatic = p.isStatic && name != "random"
		p.emit(Instr{Op: OpCall, Str: name, Int: argc})
		return
	}

	switch name {
	case "true":
		p.emit(Instr{Op: OpPushConst, Str: "true"})
	case "false":
		p.emit(Instr{Op: OpPushConst, Str: "false"})
	default:
		if factor, ok := scaleUnits[name]; ok {
			p.emit(Instr{Op: OpPushNum, Num: factor})
			return
		}
		if dynamicSymbols[name] {
			p.isStatic = false
		}
		p.emit(Instr{Op: OpPushConst, Str: name})
	}
}

// parseVarRefToken parses one bracket's content into a VarRef, classifies
// staticness per spec.md §4.1 item 2, and emits OpVarRef.
func (p *parser) parseVarRefToken(content string) {
	ref, err := parseVarRef(content)
	if err != nil {
		p.fail("expr: %w", err)
		return
	}

	if ref.HasAnchor && !(ref.Anchor1 == 't' && ref.Offset1 == 0 && !ref.HasSecond) {
		p.isStatic = false
	}
	if ref.IsWildcard() || ref.Stat != "" {
		p.isStatic = false
	}
	isSelf := ref.Pattern == "" && !ref.IsMethod
	if !isSelf {
		targets := p.resolveStaticTargets(ref)
		for _, target := range targets {
			if target != nil && !target.IsStatic() {
				p.isStatic = false
			}
		}
	}
	if ref.Attribute != "" && model.IsLevelBased(model.Attribute(ref.Attribute)) {
		p.isLevelBased = true
	}
	if ref.IsMethod && p.m != nil {
		for _, mref := range p.m.ResolveName(ref.MethodObject) {
			p.methodObjects = append(p.methodObjects, mref)
		}
	}

	idx := len(p.refs)
	p.refs = append(p.refs, ref)
	p.emit(Instr{Op: OpVarRef, Int: idx})
}

// resolveStaticTargets best-effort resolves a non-wildcard, non-self
// reference to the Expr(s) it names, purely to inherit their staticness;
// a miss (unresolved name, forward reference) is not an error here — the
// VM's own resolution at Result() time reports ErrBadRef if it still
// can't find the target.
func (p *parser) resolveStaticTargets(ref *VarRef) []model.Expr {
	if p.m == nil || ref.IsWildcard() {
		return nil
	}
	var out []model.Expr
	for _, target := range p.m.ResolveName(ref.Pattern) {
		if node, ok := p.m.Node(target); ok {
			attr := model.Attribute(ref.Attribute)
			if attr == "" {
				continue
			}
			if e, ok := node.Exprs[attr]; ok {
				out = append(out, e)
			}
		}
	}
	return out
}
