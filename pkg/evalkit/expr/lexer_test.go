package expr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/evalkit/pkg/evalkit/numeric"
)

func tokenize(t *testing.T, source string) []Token[numeric.Int64, numeric.Float64] {
	t.Helper()
	tokens, err := Tokenize[numeric.Int64, numeric.Float64](source)
	require.NoError(t, err)
	return tokens
}

func kinds(tokens []Token[numeric.Int64, numeric.Float64]) []TokenKind {
	out := make([]TokenKind, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Kind
	}
	return out
}

func TestTokenize_Operators(t *testing.T) {
	tokens := tokenize(t, "+ - * / % ^ == != > < >= <= && || ! = += -= *= /= %= ^= &&= ||= ( ) , ;")

	assert.Equal(t, []TokenKind{
		TokenPlus, TokenMinus, TokenStar, TokenSlash, TokenPercent, TokenHat,
		TokenEq, TokenNeq, TokenGt, TokenLt, TokenGeq, TokenLeq,
		TokenAnd, TokenOr, TokenNot, TokenAssign,
		TokenPlusAssign, TokenMinusAssign, TokenStarAssign, TokenSlashAssign,
		TokenPercentAssign, TokenHatAssign, TokenAndAssign, TokenOrAssign,
		TokenLParen, TokenRParen, TokenComma, TokenSemicolon,
	}, kinds(tokens))
}

func TestTokenize_MergesWithoutWhitespace(t *testing.T) {
	tests := []struct {
		source string
		want   []TokenKind
	}{
		{"a>=b", []TokenKind{TokenIdentifier, TokenGeq, TokenIdentifier}},
		{"a>-b", []TokenKind{TokenIdentifier, TokenGt, TokenMinus, TokenIdentifier}},
		{"a&&=b", []TokenKind{TokenIdentifier, TokenAndAssign, TokenIdentifier}},
		{"a||!b", []TokenKind{TokenIdentifier, TokenOr, TokenNot, TokenIdentifier}},
		{"a==b", []TokenKind{TokenIdentifier, TokenEq, TokenIdentifier}},
		{"!=", []TokenKind{TokenNeq}},
		{"1-2", []TokenKind{TokenInt, TokenMinus, TokenInt}},
		{"f(x,y)", []TokenKind{TokenIdentifier, TokenLParen, TokenIdentifier, TokenComma, TokenIdentifier, TokenRParen}},
		{`"a"+"b"`, []TokenKind{TokenString, TokenPlus, TokenString}},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			assert.Equal(t, tt.want, kinds(tokenize(t, tt.source)))
		})
	}
}

func TestTokenize_Literals(t *testing.T) {
	tokens := tokenize(t, `42 1.5 1e3 2.5E-2 "hi\n\"there\"" true false math::sin _x1`)
	require.Len(t, tokens, 9)

	assert.Equal(t, Int(42), tokens[0].Literal)
	assert.Equal(t, Float(1.5), tokens[1].Literal)
	assert.Equal(t, TokenFloat, tokens[2].Kind)
	assert.Equal(t, Float(1000), tokens[2].Literal)
	assert.Equal(t, Float(0.025), tokens[3].Literal)
	assert.Equal(t, String("hi\n\"there\""), tokens[4].Literal)
	assert.Equal(t, Bool(true), tokens[5].Literal)
	assert.Equal(t, Bool(false), tokens[6].Literal)
	assert.Equal(t, TokenIdentifier, tokens[7].Kind)
	assert.Equal(t, "math::sin", tokens[7].Identifier)
	assert.Equal(t, "_x1", tokens[8].Identifier)
}

func TestTokenize_IdentifiersAreCaseSensitive(t *testing.T) {
	tokens := tokenize(t, "True Abc abc")

	assert.Equal(t, TokenIdentifier, tokens[0].Kind)
	assert.Equal(t, "Abc", tokens[1].Identifier)
	assert.Equal(t, "abc", tokens[2].Identifier)
}

func TestTokenize_Positions(t *testing.T) {
	tokens := tokenize(t, `ab + "c d" >= 10`)

	positions := make([]int, len(tokens))
	for i, tok := range tokens {
		positions[i] = tok.Pos
	}
	assert.Equal(t, []int{0, 3, 5, 11, 14}, positions)
}

func TestTokenize_Empty(t *testing.T) {
	assert.Empty(t, tokenize(t, ""))
	assert.Empty(t, tokenize(t, " \t\n "))
}

func TestTokenize_Errors(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		wantErr error
		wantPos int
	}{
		{"unterminated string", `1 + "abc`, ErrUnterminatedString, 4},
		{"illegal escape", `"a\qb"`, ErrIllegalEscape, 2},
		{"lone ampersand", "1 & 2", ErrIncompleteOperator, 2},
		{"lone bar at end", "a |", ErrIncompleteOperator, 2},
		{"ampersand bar", "a &| b", ErrIncompleteOperator, 2},
		{"letters in number", "12abc", ErrMalformedLiteral, 0},
		{"two radix points", "1.2.3", ErrMalformedLiteral, 0},
		{"int overflow", "99999999999999999999", ErrMalformedLiteral, 0},
		{"float overflow", "1e400", ErrMalformedLiteral, 0},
		{"hex float", "0x1.8p1", ErrMalformedLiteral, 0},
		{"hex int", "1 + 0x10", ErrMalformedLiteral, 4},
		{"binary int", "0b101", ErrMalformedLiteral, 0},
		{"digit separator", "1_000.5", ErrMalformedLiteral, 0},
		{"empty exponent", "1e", ErrMalformedLiteral, 0},
		{"signed empty exponent", "2.5e+", ErrMalformedLiteral, 0},
		{"float infinity spelling", "1inf", ErrMalformedLiteral, 0},
		{"unexpected character", "1 # 2", ErrUnexpectedCharacter, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Tokenize[numeric.Int64, numeric.Float64](tt.source)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, KindLexical, KindOf(err))

			var lexErr *LexError
			require.True(t, errors.As(err, &lexErr))
			assert.Equal(t, tt.wantPos, lexErr.Pos)
		})
	}
}

func TestTokenize_DecimalLiteralForms(t *testing.T) {
	tokens := tokenize(t, `7 7. 0.5 3e2 3E+2 3.0e-1 007`)
	require.Len(t, tokens, 7)

	assert.Equal(t, Int(7), tokens[0].Literal)
	assert.Equal(t, Float(7), tokens[1].Literal)
	assert.Equal(t, Float(0.5), tokens[2].Literal)
	assert.Equal(t, Float(300), tokens[3].Literal)
	assert.Equal(t, Float(300), tokens[4].Literal)
	assert.Equal(t, Float(0.3), tokens[5].Literal)
	assert.Equal(t, Int(7), tokens[6].Literal)
}

func TestTokenize_MalformedLiteralKeepsCause(t *testing.T) {
	_, err := Tokenize[numeric.Int64, numeric.Float64]("99999999999999999999")

	var parseErr *numeric.ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, "99999999999999999999", parseErr.Text)
}

func TestTokenize_BigIntAcceptsLargeLiterals(t *testing.T) {
	tokens, err := Tokenize[numeric.BigInt, numeric.Float64]("99999999999999999999")
	require.NoError(t, err)
	require.Len(t, tokens, 1)
	assert.Equal(t, "99999999999999999999", tokens[0].Literal.String())
}

func TestToken_String(t *testing.T) {
	tokens := tokenize(t, `x &&= "q" 1.0`)

	assert.Equal(t, "x", tokens[0].String())
	assert.Equal(t, "&&=", tokens[1].String())
	assert.Equal(t, `"q"`, tokens[2].String())
	assert.Equal(t, "1.0", tokens[3].String())
}
