package expr

import (
	"strings"
	"unicode"
)

// partialKind is the state of the lexer's single pending partial token.
type partialKind int

const (
	partialNone partialKind = iota

	partialPlus
	partialMinus
	partialStar
	partialSlash
	partialPercent
	partialHat
	partialEq
	partialBang
	partialGt
	partialLt
	partialAmp
	partialAmpAmp
	partialBar
	partialBarBar

	partialNumber
	partialIdentifier
	partialString

	// partialDone holds a token that can no longer be extended, such as
	// "&&=" or a closed string literal.
	partialDone
)

// operatorStarts maps the first character of an operator to its state.
var operatorStarts = map[rune]partialKind{
	'+': partialPlus,
	'-': partialMinus,
	'*': partialStar,
	'/': partialSlash,
	'%': partialPercent,
	'^': partialHat,
	'=': partialEq,
	'!': partialBang,
	'>': partialGt,
	'<': partialLt,
	'&': partialAmp,
	'|': partialBar,
}

// withEquals is the token an operator state becomes when followed by '='.
var withEquals = map[partialKind]TokenKind{
	partialPlus:    TokenPlusAssign,
	partialMinus:   TokenMinusAssign,
	partialStar:    TokenStarAssign,
	partialSlash:   TokenSlashAssign,
	partialPercent: TokenPercentAssign,
	partialHat:     TokenHatAssign,
	partialEq:      TokenEq,
	partialBang:    TokenNeq,
	partialGt:      TokenGeq,
	partialLt:      TokenLeq,
	partialAmpAmp:  TokenAndAssign,
	partialBarBar:  TokenOrAssign,
}

// alone is the token an operator state resolves to when not extended.
// partialAmp and partialBar are absent: a lone '&' or '|' is an error.
var alone = map[partialKind]TokenKind{
	partialPlus:    TokenPlus,
	partialMinus:   TokenMinus,
	partialStar:    TokenStar,
	partialSlash:   TokenSlash,
	partialPercent: TokenPercent,
	partialHat:     TokenHat,
	partialEq:      TokenAssign,
	partialBang:    TokenNot,
	partialGt:      TokenGt,
	partialLt:      TokenLt,
	partialAmpAmp:  TokenAnd,
	partialBarBar:  TokenOr,
}

var stringEscapes = map[rune]rune{
	'"':  '"',
	'\\': '\\',
	'n':  '\n',
	't':  '\t',
	'r':  '\r',
}

// partial is a not yet disambiguated token: its kind plus the source text
// consumed so far.
type partial struct {
	kind partialKind
	pos  int
	raw  strings.Builder

	// done is the resolved kind when kind is partialDone.
	done TokenKind
	// str accumulates the decoded contents of a string literal.
	str     strings.Builder
	escaped bool
	// afterExp is set while the last rune of a number was 'e' or 'E'.
	afterExp bool
}

// start begins a new partial token with r. It reports false if r cannot
// begin any token.
func (p *partial) start(r rune, pos int) bool {
	p.reset()
	p.pos = pos
	switch {
	case r == '"':
		p.kind = partialString
	case r >= '0' && r <= '9':
		p.kind = partialNumber
	case isIdentStart(r):
		p.kind = partialIdentifier
	default:
		kind, ok := operatorStarts[r]
		if !ok {
			return false
		}
		p.kind = kind
	}
	p.raw.WriteRune(r)
	return true
}

// accept offers the next character. It reports whether r extended the
// partial token; a false result means the token is complete and r starts
// whatever follows.
func (p *partial) accept(r rune, pos int) (bool, error) {
	switch p.kind {
	case partialString:
		return true, p.acceptString(r, pos)

	case partialNumber:
		switch {
		case (r == '+' || r == '-') && p.afterExp:
		case r == '.' || (isIdentContinue(r) && r != ':'):
		default:
			return false, nil
		}
		p.afterExp = r == 'e' || r == 'E'

	case partialIdentifier:
		if !isIdentContinue(r) {
			return false, nil
		}

	case partialAmp, partialBar:
		if string(r) != p.raw.String() {
			return false, nil
		}
		if p.kind == partialAmp {
			p.kind = partialAmpAmp
		} else {
			p.kind = partialBarBar
		}

	case partialDone, partialNone:
		return false, nil

	default:
		tok, ok := withEquals[p.kind]
		if r != '=' || !ok {
			return false, nil
		}
		p.kind = partialDone
		p.done = tok
	}

	p.raw.WriteRune(r)
	return true, nil
}

func (p *partial) acceptString(r rune, pos int) error {
	p.raw.WriteRune(r)
	switch {
	case p.escaped:
		p.escaped = false
		decoded, ok := stringEscapes[r]
		if !ok {
			return &LexError{Pos: pos - 1, Fragment: `\` + string(r), Err: ErrIllegalEscape}
		}
		p.str.WriteRune(decoded)
	case r == '\\':
		p.escaped = true
	case r == '"':
		p.kind = partialDone
		p.done = TokenString
	default:
		p.str.WriteRune(r)
	}
	return nil
}

func (p *partial) reset() {
	p.kind = partialNone
	p.pos = 0
	p.raw.Reset()
	p.str.Reset()
	p.escaped = false
	p.afterExp = false
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentContinue(r rune) bool {
	return r == '_' || r == ':' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
