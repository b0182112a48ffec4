package xnum

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOfRoundsNearZero(t *testing.T) {
	v := Of(1e-12)
	require.True(t, v.IsNormal())
	assert.Equal(t, 0.0, v.Num)
}

func TestSeverestWins(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want Kind
	}{
		{"divzero beats cyclic", Err(ErrCyclic), Err(ErrDivZero), ErrDivZero},
		{"error beats undefined (strict)", Err(ErrBadRef), Value{Kind: Undefined}, ErrBadRef},
		{"undefined transparent (lax)", Value{Kind: Undefined}, Of(3), Normal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Value
			var ok bool
			if tt.name == "undefined transparent (lax)" {
				got, ok = CombineLax(tt.a, tt.b)
			} else {
				got, ok = CombineStrict(tt.a, tt.b)
			}
			require.True(t, ok)
			assert.Equal(t, tt.want, got.Kind)
		})
	}
}

func TestCombineInfinitiesCancel(t *testing.T) {
	sum := Add(Value{Kind: PlusInfinity}, Value{Kind: MinusInfinity})
	assert.Equal(t, Normal, sum.Kind)
	assert.Equal(t, 0.0, sum.Num)
}

func TestDivByZero(t *testing.T) {
	got := Div(Of(4), Of(0))
	assert.Equal(t, ErrDivZero, got.Kind)
}

func TestSafeDivReturnsLHS(t *testing.T) {
	got := SafeDiv(Of(4), Of(0))
	assert.Equal(t, Of(4), got)
}

func TestErrorPropagationAcrossAllBinaryOpcodes(t *testing.T) {
	errs := []Kind{ErrCyclic, ErrDivZero, ErrBadCalc, ErrArrayIndex, ErrBadRef,
		ErrUnderflow, ErrOverflow, ErrInvalid, ErrParams, ErrUnknown}
	for _, k := range errs {
		a := Err(k)
		b := Of(5)
		for _, got := range []Value{Add(a, b), Sub(a, b), Mul(a, b), Div(a, b), Mod(a, b), Pow(a, b)} {
			assert.Equal(t, k, got.Kind, "opcode should propagate %v", k)
		}
	}
}

func TestReplaceUndefined(t *testing.T) {
	assert.Equal(t, Of(7), ReplaceUndefined(Value{Kind: Undefined}, Of(7)))
	assert.Equal(t, Of(3), ReplaceUndefined(Of(3), Of(7)))
}
