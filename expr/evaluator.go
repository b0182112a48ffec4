package expr

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/linnyr/engine/anchor"
	"github.com/linnyr/engine/lexer"
	"github.com/linnyr/engine/model"
	"github.com/linnyr/engine/xnum"
)

// Evaluator is the explicit evaluation context every compiled Expression
// evaluates through: it borrows the Model, owns the PRNG behind the
// `random` constant, tracks the current experiment iterators, and carries
// the call stack used for cycle detection. Per Design Note §9 there is no
// package-level singleton — callers construct one Evaluator per run and
// thread it through every Compile call.
type Evaluator struct {
	Model *model.Model

	rng *rand.Rand

	// IterI/J/K back the `i j k` experiment-iterator constants; the
	// (out of scope) experiment runner sets these between iterations.
	IterI, IterJ, IterK int

	// CurrentRound backs the `rt` constant (1-based).
	CurrentRound int

	// DTM backs anchor 'r'/'s' and the `dt` constant.
	DTM float64

	exprs []*Expression
	stack []frame
}

type frame struct {
	e    *Expression
	t, w int
}

// NewEvaluator constructs an Evaluator over m, seeded for reproducible
// `random` draws within one process (spec.md never mandates a specific
// seeding scheme; a fixed seed keeps diagnose runs reproducible, which is
// more useful than wall-clock entropy for a solver CLI).
func NewEvaluator(m *model.Model) *Evaluator {
	return &Evaluator{Model: m, rng: rand.New(rand.NewSource(1)), CurrentRound: 1, DTM: 1}
}

// WithSeed reseeds the Evaluator's PRNG.
func (ev *Evaluator) WithSeed(seed int64) { ev.rng = rand.New(rand.NewSource(seed)) }

// chunkLength returns the full N+L+1 index range a dynamic expression's
// vector must cover.
func (ev *Evaluator) chunkLength() int {
	return ev.Model.Run.SimLength() + ev.Model.Run.LookAhead + 1
}

func newVectorOfLen(n int) *model.Vector {
	return model.NewVector(n, xnum.Value{Kind: xnum.NotComputed})
}

// Compile lexes and parses text into an Expression bound to (owner,
// attribute). On a parse error the returned Expression is non-nil with its
// CompileIssue set (so it can still be attached to the model and evaluate
// to ErrInvalid rather than leaving a nil Expr), alongside a non-nil error
// for callers that want to abort eagerly.
func (ev *Evaluator) Compile(owner model.Ref, attribute model.Attribute, text string) (*Expression, error) {
	e := &Expression{Owner: owner, Attribute: attribute, text: text, ev: ev}

	toks, err := lexer.Lex(text)
	if err != nil {
		e.compileIssue = err.Error()
		return e, fmt.Errorf("expr.Compile(%s.%s): %w", owner, attribute, err)
	}

	p := newParser(toks, owner, ev.Model)
	p.parseProgram()
	if p.err != nil {
		e.compileIssue = p.err.Error()
		return e, fmt.Errorf("expr.Compile(%s.%s): %w", owner, attribute, p.err)
	}

	e.code = p.code
	e.refs = p.refs
	e.isStatic = p.isStatic
	e.isLevelBased = p.isLevelBased || model.IsLevelBased(attribute)
	e.methodObjectList = p.methodObjects

	if strings.ContainsAny(owner.ID, "?*#") {
		e.wildcardVectors = make(map[int]*model.Vector)
	} else {
		// Invariant (c): a statically-classified expression's vector
		// never needs more than one slot — every t maps to the same value.
		n := 1
		if !e.isStatic {
			n = ev.chunkLength()
		}
		e.vector = newVectorOfLen(n)
	}

	ev.exprs = append(ev.exprs, e)
	return e, nil
}

// InvalidateFrom implements the look-ahead recompute rule of spec.md §4.2:
// when a new block's window slides forward to start, every tracked
// Expression's cache from t onward is forgotten so the next Result() call
// recomputes it against the new block's decisions.
func (ev *Evaluator) InvalidateFrom(t int) {
	for _, e := range ev.exprs {
		if e.vector != nil {
			e.vector.ResetFrom(t)
		}
		for _, v := range e.wildcardVectors {
			v.ResetFrom(t)
		}
	}
}

// pushFrame/popFrame maintain the cycle-detection call stack; cyclic
// self-reference is ultimately caught by the Computing sentinel written
// into the Expression's own vector, but the stack lets error messages name
// the chain instead of just "#CYCLIC".
func (ev *Evaluator) pushFrame(e *Expression, t, w int) {
	ev.stack = append(ev.stack, frame{e, t, w})
}

func (ev *Evaluator) popFrame() {
	ev.stack = ev.stack[:len(ev.stack)-1]
}

// blockFrame builds the anchor.Frame for the block containing t, used by
// the `bt`/`ct`/`x`/`nx`/`lr`/`nr` constants and by VarRef anchor
// resolution.
func (ev *Evaluator) blockFrame(t int) anchor.Frame {
	return anchor.Frame{
		T:           t,
		N:           ev.Model.Run.SimLength(),
		BlockLength: ev.Model.Run.BlockLength,
		ContextNum:  0,
		IterI:       ev.IterI,
		IterJ:       ev.IterJ,
		IterK:       ev.IterK,
		DTM:         ev.DTM,
	}
}

// constant resolves one of the bare identifiers of spec.md §6's constant
// row. Time-unit literals (yr/wk/d/h/m/s) are folded at compile time by
// the parser (scaleUnits) and never reach here as OpPushConst.
func (ev *Evaluator) constant(name string, t, w int) xnum.Value {
	run := ev.Model.Run
	switch name {
	case "true":
		return xnum.Of(1)
	case "false":
		return xnum.Of(0)
	case "pi":
		return xnum.Of(3.14159265358979323846)
	case "infinity":
		return xnum.Value{Kind: xnum.PlusInfinity}
	case "epsilon":
		return xnum.Of(xnum.Epsilon)
	case "random":
		return xnum.Of(ev.rng.Float64())
	case "dt":
		return xnum.Of(ev.DTM)
	case "t":
		return xnum.Of(float64(t))
	case "rt":
		return xnum.Of(float64(ev.CurrentRound))
	case "N":
		return xnum.Of(float64(run.SimLength()))
	case "n":
		return xnum.Of(float64(run.LookAhead))
	case "b":
		return xnum.Of(float64(run.BlockLength))
	case "l":
		return xnum.Of(float64(run.ChunkLength()))
	case "r":
		return xnum.Of(float64(run.Rounds))
	case "i":
		return xnum.Of(float64(ev.IterI))
	case "j":
		return xnum.Of(float64(ev.IterJ))
	case "k":
		return xnum.Of(float64(ev.IterK))
	case "x":
		return xnum.Of(float64(anchor.Resolve(anchor.BlockCurrent, 0, ev.blockFrame(t))))
	case "nx":
		return xnum.Of(float64(anchor.Resolve(anchor.BlockNext, 0, ev.blockFrame(t))))
	case "bt", "ct":
		start := anchor.Resolve(anchor.BlockCurrent, 0, ev.blockFrame(t))
		return xnum.Of(float64(t - start + 1))
	case "lr":
		return xnum.Of(float64(run.SimLength() - t + 1))
	case "nr":
		start := anchor.Resolve(anchor.BlockCurrent, 0, ev.blockFrame(t))
		end := start + run.ChunkLength() - 1
		remaining := end - t
		if remaining < 0 {
			remaining = 0
		}
		return xnum.Of(float64(remaining))
	default:
		return xnum.Err(xnum.ErrInvalid)
	}
}
