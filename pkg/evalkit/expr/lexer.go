package expr

import (
	"strings"
	"unicode"

	"github.com/randalmurphal/evalkit/pkg/evalkit/numeric"
)

var punctuation = map[rune]TokenKind{
	'(': TokenLParen,
	')': TokenRParen,
	',': TokenComma,
	';': TokenSemicolon,
}

// Tokenize converts source text into tokens in order of appearance.
//
// The lexer keeps a single pending partial token. Each character either
// extends it, completes it and starts the next one, or (whitespace) only
// completes it.
func Tokenize[I numeric.Integer[I, F], F numeric.Float[F]](source string) ([]Token[I, F], error) {
	var (
		tokens []Token[I, F]
		p      partial
	)

	flush := func() error {
		if p.kind == partialNone {
			return nil
		}
		tok, err := resolve[I, F](&p)
		if err != nil {
			return err
		}
		tokens = append(tokens, tok)
		p.reset()
		return nil
	}

	for pos, r := range source {
		if p.kind != partialNone {
			consumed, err := p.accept(r, pos)
			if err != nil {
				return nil, err
			}
			if consumed {
				continue
			}
			if err := flush(); err != nil {
				return nil, err
			}
		}

		if unicode.IsSpace(r) {
			continue
		}
		if kind, ok := punctuation[r]; ok {
			tokens = append(tokens, Token[I, F]{Kind: kind, Pos: pos})
			continue
		}
		if !p.start(r, pos) {
			return nil, &LexError{Pos: pos, Fragment: string(r), Err: ErrUnexpectedCharacter}
		}
	}

	if err := flush(); err != nil {
		return nil, err
	}
	return tokens, nil
}

// decimalLiteral reports whether raw is digits, an optional radix point
// with optional digits, then an optional exponent with at least one digit.
func decimalLiteral(raw string) bool {
	i := skipDigits(raw, 0)
	if i == 0 {
		return false
	}
	if i < len(raw) && raw[i] == '.' {
		i = skipDigits(raw, i+1)
	}
	if i < len(raw) && (raw[i] == 'e' || raw[i] == 'E') {
		i++
		if i < len(raw) && (raw[i] == '+' || raw[i] == '-') {
			i++
		}
		exp := skipDigits(raw, i)
		if exp == i {
			return false
		}
		i = exp
	}
	return i == len(raw)
}

func skipDigits(s string, i int) int {
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return i
}

// resolve turns a complete partial token into a Token.
func resolve[I numeric.Integer[I, F], F numeric.Float[F]](p *partial) (Token[I, F], error) {
	tok := Token[I, F]{Pos: p.pos}
	raw := p.raw.String()

	switch p.kind {
	case partialString:
		return tok, &LexError{Pos: p.pos, Fragment: raw, Err: ErrUnterminatedString}

	case partialDone:
		tok.Kind = p.done
		if p.done == TokenString {
			tok.Literal = StringValue[I, F](p.str.String())
		}
		return tok, nil

	case partialNumber:
		if !decimalLiteral(raw) {
			return tok, &LexError{Pos: p.pos, Fragment: raw, Err: ErrMalformedLiteral}
		}
		if strings.ContainsAny(raw, ".eE") {
			var zero F
			f, err := zero.Parse(raw)
			if err != nil {
				return tok, &LexError{Pos: p.pos, Fragment: raw, Err: ErrMalformedLiteral, Cause: err}
			}
			tok.Kind = TokenFloat
			tok.Literal = FloatValue[I, F](f)
			return tok, nil
		}
		var zero I
		i, err := zero.Parse(raw)
		if err != nil {
			return tok, &LexError{Pos: p.pos, Fragment: raw, Err: ErrMalformedLiteral, Cause: err}
		}
		tok.Kind = TokenInt
		tok.Literal = IntValue[I, F](i)
		return tok, nil

	case partialIdentifier:
		switch raw {
		case "true", "false":
			tok.Kind = TokenBoolean
			tok.Literal = BoolValue[I, F](raw == "true")
		default:
			tok.Kind = TokenIdentifier
			tok.Identifier = raw
		}
		return tok, nil
	}

	kind, ok := alone[p.kind]
	if !ok {
		return tok, &LexError{Pos: p.pos, Fragment: raw, Err: ErrIncompleteOperator}
	}
	tok.Kind = kind
	return tok, nil
}
