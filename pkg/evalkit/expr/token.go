package expr

import (
	"github.com/randalmurphal/evalkit/pkg/evalkit/numeric"
)

// TokenKind identifies a lexical unit.
type TokenKind int

const (
	TokenPlus TokenKind = iota
	TokenMinus
	TokenStar
	TokenSlash
	TokenPercent
	TokenHat

	TokenEq
	TokenNeq
	TokenGt
	TokenLt
	TokenGeq
	TokenLeq
	TokenAnd
	TokenOr
	TokenNot

	TokenLParen
	TokenRParen

	TokenAssign
	TokenPlusAssign
	TokenMinusAssign
	TokenStarAssign
	TokenSlashAssign
	TokenPercentAssign
	TokenHatAssign
	TokenAndAssign
	TokenOrAssign

	TokenComma
	TokenSemicolon

	TokenIdentifier
	TokenInt
	TokenFloat
	TokenBoolean
	TokenString
)

var tokenSymbols = map[TokenKind]string{
	TokenPlus:          "+",
	TokenMinus:         "-",
	TokenStar:          "*",
	TokenSlash:         "/",
	TokenPercent:       "%",
	TokenHat:           "^",
	TokenEq:            "==",
	TokenNeq:           "!=",
	TokenGt:            ">",
	TokenLt:            "<",
	TokenGeq:           ">=",
	TokenLeq:           "<=",
	TokenAnd:           "&&",
	TokenOr:            "||",
	TokenNot:           "!",
	TokenLParen:        "(",
	TokenRParen:        ")",
	TokenAssign:        "=",
	TokenPlusAssign:    "+=",
	TokenMinusAssign:   "-=",
	TokenStarAssign:    "*=",
	TokenSlashAssign:   "/=",
	TokenPercentAssign: "%=",
	TokenHatAssign:     "^=",
	TokenAndAssign:     "&&=",
	TokenOrAssign:      "||=",
	TokenComma:         ",",
	TokenSemicolon:     ";",
}

// Token is a resolved lexical unit.
type Token[I numeric.Integer[I, F], F numeric.Float[F]] struct {
	Kind TokenKind
	// Pos is the byte offset of the token in the source.
	Pos int
	// Identifier holds the name of a TokenIdentifier.
	Identifier string
	// Literal holds the value of a TokenInt, TokenFloat, TokenBoolean or TokenString.
	Literal Value[I, F]
}

// String renders the token as it would appear in source.
func (t Token[I, F]) String() string {
	switch t.Kind {
	case TokenIdentifier:
		return t.Identifier
	case TokenInt, TokenFloat, TokenBoolean, TokenString:
		return t.Literal.String()
	default:
		return tokenSymbols[t.Kind]
	}
}

// isLiteral reports whether the token is a value literal.
func (t Token[I, F]) isLiteral() bool {
	switch t.Kind {
	case TokenInt, TokenFloat, TokenBoolean, TokenString:
		return true
	}
	return false
}
