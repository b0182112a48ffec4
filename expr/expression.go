package expr

import (
	"strings"

	"github.com/linnyr/engine/anchor"
	"github.com/linnyr/engine/model"
	"github.com/linnyr/engine/xnum"
)

// Expression is the compiled form of a Linny-R formula: the owning
// entity/attribute, its source text, the bytecode produced by the parser,
// the classification flags of spec.md §4.1 items 2-3, and the memoized
// result vector(s). It satisfies model.Expr.
type Expression struct {
	Owner     model.Ref
	Attribute model.Attribute

	text string
	code []Instr
	refs []*VarRef

	isStatic     bool
	isLevelBased bool

	vector          *model.Vector
	wildcardVectors map[int]*model.Vector

	methodObjectList []model.Ref

	// operandStack is reused across calls to compute() rather than
	// reallocated per evaluation (spec.md §3's Expression.operand_stack).
	operandStack []xnum.Value

	compileIssue string

	ev *Evaluator
}

var _ model.Expr = (*Expression)(nil)

// Result returns the expression's memoized value at local step t for
// wildcard/template instance w, computing it on first use if needed.
func (e *Expression) Result(t, w int) xnum.Value {
	if e.compileIssue != "" {
		return xnum.Err(xnum.ErrInvalid)
	}
	vec := e.vectorFor(w)
	ct := 0
	if !e.isStatic {
		ct = anchor.Clamp(t, vec.Len()-1)
	}
	return e.computeAt(ct, w)
}

// IsStatic reports the spec.md §4.1 item 2 classification.
func (e *Expression) IsStatic() bool { return e.isStatic }

// IsLevelBased reports the spec.md §4.1 item 3 classification.
func (e *Expression) IsLevelBased() bool { return e.isLevelBased }

// Text returns the original source text.
func (e *Expression) Text() string { return e.text }

// CompileIssue returns the compiler's diagnostic string, or "" if e
// compiled cleanly — spec.md §4.1's "Errors... Returned as a
// compile_issue string (never raised)".
func (e *Expression) CompileIssue() string { return e.compileIssue }

// IsWildcardOwner reports whether e is a shared template formula
// instantiated per matched context (owner ID itself carries a wildcard
// glyph), in which case Result's w selects among wildcardVectors.
func (e *Expression) IsWildcardOwner() bool {
	return strings.ContainsAny(e.Owner.ID, "?*#")
}

func (e *Expression) vectorFor(w int) *model.Vector {
	if e.wildcardVectors == nil {
		return e.vector
	}
	v, ok := e.wildcardVectors[w]
	if !ok {
		n := 1
		if !e.isStatic {
			n = e.ev.chunkLength()
		}
		v = newVectorOfLen(n)
		e.wildcardVectors[w] = v
	}
	return v
}

// selfResult evaluates e at a raw, unclamped t — used only when resolving
// a VarRef that is a true self-reference, per spec.md §4.2 item 1's clamp
// bypass.
func (e *Expression) selfResult(t, w int) xnum.Value {
	return e.computeAt(t, w)
}
