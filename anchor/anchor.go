// Package anchor resolves spec.md §4.3's ten time-anchor kinds into
// absolute simulation time steps. Anchors are pure functions of the
// expression's current local step and the run's block geometry — no
// package-level state, per Design Note §9's "remove all module-level
// singletons" guidance.
package anchor

import "math"

// Kind enumerates the ten anchor characters of spec.md §4.3.
type Kind byte

const (
	Current      Kind = 't' // t
	Context      Kind = '#' // #
	Parent       Kind = '^' // ^
	IterI        Kind = 'i'
	IterJ        Kind = 'j'
	IterK        Kind = 'k'
	Scaled       Kind = 'r' // r
	First        Kind = 'f' // f
	Last         Kind = 'l' // l
	BlockCurrent Kind = 'c' // c
	BlockPrev    Kind = 'p' // p
	BlockNext    Kind = 'n' // n
	ScaledZero   Kind = 's' // s
)

// Frame bundles the block/run geometry an anchor resolves against. All
// fields are 1-based step indices except BlockLength, which is a count.
type Frame struct {
	T           int     // the expression's current local step
	N           int     // simulation length (last regular step)
	BlockLength int     // block_length from RunConfig
	ContextNum  int     // the '#' context number at the current wildcard site
	IterI       int     // experiment iterator i
	IterJ       int     // experiment iterator j
	IterK       int     // experiment iterator k
	ParentStep  int     // the '^' inherited parent anchor step (array datasets)
	DTM         float64 // delta-time multiplier, relevant only to 'r'/'s'
}

// Resolve computes the absolute time step for (anchor, offset) within fr,
// per the table in spec.md §4.3. Anchor 't' with offset causing t<0 is
// NOT clamped here — clamping to 0 (and to N+L+1 on the far end) is the
// Expression VM's responsibility in compute(), since it depends on
// self-reference, which anchor.Resolve has no visibility into.
func Resolve(kind Kind, offset int, fr Frame) int {
	switch kind {
	case Current:
		return fr.T + offset
	case Context:
		return fr.ContextNum + offset
	case Parent:
		return fr.ParentStep + offset
	case IterI:
		return fr.IterI + offset
	case IterJ:
		return fr.IterJ + offset
	case IterK:
		return fr.IterK + offset
	case Scaled:
		return floorMul(fr.T+offset, fr.DTM)
	case First:
		return 1 + offset
	case Last:
		return fr.N + offset
	case BlockCurrent:
		return blockStart(fr.T, fr.BlockLength) + offset
	case BlockPrev:
		return blockStart(fr.T, fr.BlockLength) - fr.BlockLength + offset
	case BlockNext:
		return blockStart(fr.T, fr.BlockLength) + fr.BlockLength + offset
	case ScaledZero:
		return floorMul(offset, fr.DTM)
	default:
		return fr.T + offset
	}
}

// blockStart computes the 1-based first step of the block containing t,
// per spec.md's 'c' row: floor((t-1)/block_length)*block_length + 1.
func blockStart(t, blockLength int) int {
	if blockLength <= 0 {
		blockLength = 1
	}
	return ((t-1)/blockLength)*blockLength + 1
}

func floorMul(x int, dtm float64) int {
	return int(math.Floor(float64(x) * dtm))
}

// Midpoint implements spec.md §4.3's rule for a two-offset reference
// `(a1,o1):(a2,o2)`: the integer floor of the midpoint of the two
// resolved steps, not a range aggregate.
func Midpoint(step1, step2 int) int {
	return int(math.Floor(float64(step1+step2) / 2.0))
}

// Clamp applies the Expression VM's boundary rule from spec.md §4.2:
// t<=0 clamps to 0; t beyond lastIndex clamps to lastIndex, unless the
// expression self-references (bypass, handled by the caller before
// calling Clamp).
func Clamp(t, lastIndex int) int {
	if t <= 0 {
		return 0
	}
	if t > lastIndex {
		return lastIndex
	}
	return t
}
