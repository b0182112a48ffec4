package model

import (
	"errors"
	"fmt"
)

// Sentinel errors for RunConfig validation, following the teacher's
// package-level sentinel-error convention (lvlath/matrix's
// ErrDimensionMismatch et al.).
var (
	ErrBadRoundCount   = errors.New("model: rounds must be in [1,31]")
	ErrBadRoundSeq     = errors.New("model: round_sequence must have exactly `rounds` letters starting at 'a'")
	ErrBadBlockLength  = errors.New("model: block_length must be >= 1")
	ErrBadHorizon      = errors.New("model: end_period must be >= start_period")
	ErrBadLookAhead    = errors.New("model: look_ahead must be >= 0")
)

// RunConfig bundles the run geometry of spec.md §3: simulation horizon,
// block/look-ahead lengths, the round sequence, and the diagnose flag.
type RunConfig struct {
	StartPeriod int
	EndPeriod   int
	BlockLength int
	LookAhead   int
	Rounds      int
	RoundSeq    string
	Diagnose    bool
}

// RunConfigOption configures a RunConfig before validation, mirroring
// lvlath/matrix's Option/NewMatrixOptions functional-option pattern.
type RunConfigOption func(*RunConfig)

// WithHorizon sets the simulation's first and last period.
func WithHorizon(start, end int) RunConfigOption {
	return func(c *RunConfig) { c.StartPeriod, c.EndPeriod = start, end }
}

// WithBlockLength sets block_length.
func WithBlockLength(n int) RunConfigOption {
	return func(c *RunConfig) { c.BlockLength = n }
}

// WithLookAhead sets look_ahead.
func WithLookAhead(n int) RunConfigOption {
	return func(c *RunConfig) { c.LookAhead = n }
}

// WithRounds sets the round count and derives the canonical round_sequence
// "abc..." of that length; pass WithRoundSequence afterwards to override.
func WithRounds(n int) RunConfigOption {
	return func(c *RunConfig) {
		c.Rounds = n
		c.RoundSeq = canonicalRoundSeq(n)
	}
}

// WithRoundSequence overrides the round_sequence string explicitly.
func WithRoundSequence(seq string) RunConfigOption {
	return func(c *RunConfig) { c.RoundSeq = seq }
}

// WithDiagnose enables the diagnose run mode of spec.md §4.6/§7.
func WithDiagnose(on bool) RunConfigOption {
	return func(c *RunConfig) { c.Diagnose = on }
}

func canonicalRoundSeq(n int) string {
	if n < 1 {
		return ""
	}
	b := make([]byte, n)
	for i := 0; i < n; i++ {
		b[i] = byte('a' + i)
	}
	return string(b)
}

// NewRunConfig resolves opts into a RunConfig and validates the
// invariants of spec.md §3: 1<=rounds<=31; round_sequence letters are
// 'a'..the rounds-th letter; block_length>=1.
func NewRunConfig(opts ...RunConfigOption) (RunConfig, error) {
	c := RunConfig{
		StartPeriod: 1,
		EndPeriod:   1,
		BlockLength: 1,
		LookAhead:   0,
		Rounds:      1,
		RoundSeq:    "a",
	}
	for _, opt := range opts {
		opt(&c)
	}
	if err := c.Validate(); err != nil {
		return RunConfig{}, err
	}
	return c, nil
}

// Validate checks the invariants of spec.md §3 and returns the first
// violated sentinel, wrapped with context.
func (c RunConfig) Validate() error {
	if c.Rounds < 1 || c.Rounds > 31 {
		return fmt.Errorf("RunConfig.Validate: rounds=%d: %w", c.Rounds, ErrBadRoundCount)
	}
	if c.RoundSeq != canonicalRoundSeq(c.Rounds) {
		return fmt.Errorf("RunConfig.Validate: round_sequence=%q rounds=%d: %w", c.RoundSeq, c.Rounds, ErrBadRoundSeq)
	}
	if c.BlockLength < 1 {
		return fmt.Errorf("RunConfig.Validate: block_length=%d: %w", c.BlockLength, ErrBadBlockLength)
	}
	if c.LookAhead < 0 {
		return fmt.Errorf("RunConfig.Validate: look_ahead=%d: %w", c.LookAhead, ErrBadLookAhead)
	}
	if c.EndPeriod < c.StartPeriod {
		return fmt.Errorf("RunConfig.Validate: start=%d end=%d: %w", c.StartPeriod, c.EndPeriod, ErrBadHorizon)
	}
	return nil
}

// ChunkLength returns block_length + look_ahead, the length of one
// tableau chunk (GLOSSARY: Chunk).
func (c RunConfig) ChunkLength() int { return c.BlockLength + c.LookAhead }

// SimLength returns N, the simulation length in steps.
func (c RunConfig) SimLength() int { return c.EndPeriod - c.StartPeriod + 1 }

// NumBlocks returns B = ceil((end-start+1-look_ahead)/block_length), >= 1,
// per spec.md §4.6 item 1.
func (c RunConfig) NumBlocks() int {
	n := c.SimLength() - c.LookAhead
	if n <= 0 {
		return 1
	}
	b := (n + c.BlockLength - 1) / c.BlockLength
	if b < 1 {
		b = 1
	}
	return b
}
