package lexer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLexBasicArithmetic(t *testing.T) {
	toks, err := Lex("1 + 2 * (3 - 4)")
	require.NoError(t, err)
	var kinds []Kind
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
	}
	require.Equal(t, []Kind{Number, Op, Number, Op, LParen, Number, Op, Number, RParen, EOF}, kinds)
}

func TestLexCompoundOperators(t *testing.T) {
	toks, err := Lex("a <= b and c >= d or e <> f")
	require.NoError(t, err)
	var ops []string
	for _, tok := range toks {
		if tok.Kind == Op {
			ops = append(ops, tok.Text)
		}
	}
	require.Equal(t, []string{"<=", ">=", "<>"}, ops)
}

func TestLexBracketVariableReference(t *testing.T) {
	toks, err := Lex("[p|L@t-1] + 3")
	require.NoError(t, err)
	require.Equal(t, Bracket, toks[0].Kind)
	require.Equal(t, "p|L@t-1", toks[0].Text)
}

func TestLexBracketWithExpSpecPrefix(t *testing.T) {
	toks, err := Lex("[{MAX$title|run}SUM$Pro*|L@t-1]")
	require.NoError(t, err)
	require.Equal(t, Bracket, toks[0].Kind)
}

func TestLexScaleUnitString(t *testing.T) {
	toks, err := Lex("'MW' + 1")
	require.NoError(t, err)
	require.Equal(t, String, toks[0].Kind)
	require.Equal(t, "MW", toks[0].Text)
}

func TestLexUnterminatedBracketErrors(t *testing.T) {
	_, err := Lex("[p|L")
	require.Error(t, err)
}
