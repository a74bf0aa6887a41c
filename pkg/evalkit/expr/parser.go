package expr

import (
	"github.com/randalmurphal/evalkit/pkg/evalkit/numeric"
)

// DefaultMaxDepth bounds the tree height and parenthesis nesting that
// BuildTree accepts.
const DefaultMaxDepth = 4096

// BuildTree lexes and parses source into an operator tree no deeper than
// DefaultMaxDepth.
func BuildTree[I numeric.Integer[I, F], F numeric.Float[F]](source string) (*Node[I, F], error) {
	return BuildTreeWithMaxDepth[I, F](source, DefaultMaxDepth)
}

// BuildTreeWithMaxDepth is BuildTree with an explicit limit on tree height
// and nesting. Input past the limit is rejected with a *SyntaxError
// wrapping ErrTreeTooDeep while parsing, before recursion can exhaust the
// stack. A limit <= 0 means DefaultMaxDepth.
func BuildTreeWithMaxDepth[I numeric.Integer[I, F], F numeric.Float[F]](source string, maxDepth int) (*Node[I, F], error) {
	tokens, err := Tokenize[I, F](source)
	if err != nil {
		return nil, err
	}
	return buildTree(tokens, maxDepth)
}

// BuildTreeFromTokens parses a token sequence by precedence climbing.
// From lowest to highest precedence:
//
//	;                                   sequence
//	= += -= *= /= %= ^= &&= ||=         assignment, right-associative
//	,                                   tuple
//	||
//	&&
//	== != < > <= >=                     non-associative
//	+ -
//	* / %
//	- !                                 unary
//	^                                   right-associative, binds tighter than unary
//	literals, identifiers, calls, ( )
//
// Empty input yields an Empty literal. The DefaultMaxDepth limit applies.
func BuildTreeFromTokens[I numeric.Integer[I, F], F numeric.Float[F]](tokens []Token[I, F]) (*Node[I, F], error) {
	return buildTree(tokens, DefaultMaxDepth)
}

func buildTree[I numeric.Integer[I, F], F numeric.Float[F]](tokens []Token[I, F], maxDepth int) (*Node[I, F], error) {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	p := &parser[I, F]{tokens: tokens, maxDepth: maxDepth}
	root, err := p.parseSequence()
	if err != nil {
		return nil, err
	}
	if tok, ok := p.peek(); ok {
		if tok.Kind == TokenRParen {
			return nil, p.errorAt(tok, ErrUnmatchedRParen)
		}
		return nil, p.errorAt(tok, ErrUnexpectedToken)
	}
	return root, nil
}

type parser[I numeric.Integer[I, F], F numeric.Float[F]] struct {
	tokens []Token[I, F]
	pos    int

	// nesting counts the recursive descents in progress: groups, calls,
	// prefix operators, exponents and assignment right-hand sides.
	nesting  int
	maxDepth int
}

// enter records one level of recursion started at tok.
func (p *parser[I, F]) enter(tok Token[I, F]) error {
	p.nesting++
	if p.nesting > p.maxDepth {
		return p.errorAt(tok, ErrTreeTooDeep)
	}
	return nil
}

func (p *parser[I, F]) leave() { p.nesting-- }

// node finishes an interior node built at tok, rejecting it if the tree
// becomes too high.
func (p *parser[I, F]) node(tok Token[I, F], n *Node[I, F]) (*Node[I, F], error) {
	n.height = 1
	for _, child := range n.children {
		n.height = max(n.height, child.Depth()+1)
	}
	if n.height > p.maxDepth {
		return nil, p.errorAt(tok, ErrTreeTooDeep)
	}
	return n, nil
}

func (p *parser[I, F]) peek() (Token[I, F], bool) {
	if p.pos >= len(p.tokens) {
		return Token[I, F]{}, false
	}
	return p.tokens[p.pos], true
}

func (p *parser[I, F]) next() (Token[I, F], bool) {
	tok, ok := p.peek()
	if ok {
		p.pos++
	}
	return tok, ok
}

// match consumes the next token if it has one of the given kinds.
func (p *parser[I, F]) match(kinds ...TokenKind) (Token[I, F], bool) {
	tok, ok := p.peek()
	if !ok {
		return tok, false
	}
	for _, kind := range kinds {
		if tok.Kind == kind {
			p.pos++
			return tok, true
		}
	}
	return tok, false
}

// last returns the most recently consumed token.
func (p *parser[I, F]) last() Token[I, F] {
	if p.pos == 0 || p.pos > len(p.tokens) {
		return Token[I, F]{}
	}
	return p.tokens[p.pos-1]
}

func (p *parser[I, F]) errorAt(tok Token[I, F], err error) *SyntaxError {
	return &SyntaxError{Pos: tok.Pos, Token: tok.String(), Err: err}
}

const endOfInputToken = "end of input"

func endOfInput(err error) *SyntaxError {
	return &SyntaxError{Pos: -1, Token: endOfInputToken, Err: err}
}

// atStatementEnd reports whether the next statement is empty.
func (p *parser[I, F]) atStatementEnd() bool {
	tok, ok := p.peek()
	return !ok || tok.Kind == TokenSemicolon || tok.Kind == TokenRParen
}

func (p *parser[I, F]) parseSequence() (*Node[I, F], error) {
	var statements []*Node[I, F]
	for {
		if p.atStatementEnd() {
			statements = append(statements, constNode(EmptyValue[I, F]()))
		} else {
			stmt, err := p.parseAssignment()
			if err != nil {
				return nil, err
			}
			statements = append(statements, stmt)
		}
		if _, ok := p.match(TokenSemicolon); !ok {
			break
		}
	}
	if len(statements) == 1 {
		return statements[0], nil
	}
	return p.node(p.last(), &Node[I, F]{op: OpChain, children: statements})
}

func (p *parser[I, F]) parseAssignment() (*Node[I, F], error) {
	left, err := p.parseTuple()
	if err != nil {
		return nil, err
	}

	tok, ok := p.match(TokenAssign, TokenPlusAssign, TokenMinusAssign, TokenStarAssign,
		TokenSlashAssign, TokenPercentAssign, TokenHatAssign, TokenAndAssign, TokenOrAssign)
	if !ok {
		return left, nil
	}
	if left.op != OpVariableRead {
		return nil, p.errorAt(tok, ErrInvalidAssignTarget)
	}

	if err := p.enter(tok); err != nil {
		return nil, err
	}
	right, err := p.parseAssignment()
	p.leave()
	if err != nil {
		return nil, err
	}
	target := &Node[I, F]{op: OpVariableWrite, name: left.name, height: 1}
	return p.node(tok, &Node[I, F]{op: binaryTokens[tok.Kind], children: []*Node[I, F]{target, right}})
}

func (p *parser[I, F]) parseTuple() (*Node[I, F], error) {
	first, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if _, ok := p.match(TokenComma); !ok {
		return first, nil
	}

	items := []*Node[I, F]{first}
	for {
		item, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		if _, ok := p.match(TokenComma); !ok {
			break
		}
	}
	return p.node(p.last(), &Node[I, F]{op: OpTuple, children: items})
}

// parseLeftAssoc parses operand (op operand)* into a left-leaning tree.
func (p *parser[I, F]) parseLeftAssoc(operand func() (*Node[I, F], error), kinds ...TokenKind) (*Node[I, F], error) {
	left, err := operand()
	if err != nil {
		return nil, err
	}
	for {
		tok, ok := p.match(kinds...)
		if !ok {
			return left, nil
		}
		right, err := operand()
		if err != nil {
			return nil, err
		}
		left, err = p.node(tok, &Node[I, F]{op: binaryTokens[tok.Kind], children: []*Node[I, F]{left, right}})
		if err != nil {
			return nil, err
		}
	}
}

func (p *parser[I, F]) parseOr() (*Node[I, F], error) {
	return p.parseLeftAssoc(p.parseAnd, TokenOr)
}

func (p *parser[I, F]) parseAnd() (*Node[I, F], error) {
	return p.parseLeftAssoc(p.parseComparison, TokenAnd)
}

var comparisonTokens = []TokenKind{TokenEq, TokenNeq, TokenLt, TokenGt, TokenLeq, TokenGeq}

func (p *parser[I, F]) parseComparison() (*Node[I, F], error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	tok, ok := p.match(comparisonTokens...)
	if !ok {
		return left, nil
	}
	right, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	if chained, ok := p.match(comparisonTokens...); ok {
		return nil, p.errorAt(chained, ErrChainedComparison)
	}
	return p.node(tok, &Node[I, F]{op: binaryTokens[tok.Kind], children: []*Node[I, F]{left, right}})
}

func (p *parser[I, F]) parseAdditive() (*Node[I, F], error) {
	return p.parseLeftAssoc(p.parseMultiplicative, TokenPlus, TokenMinus)
}

func (p *parser[I, F]) parseMultiplicative() (*Node[I, F], error) {
	return p.parseLeftAssoc(p.parseUnary, TokenStar, TokenSlash, TokenPercent)
}

func (p *parser[I, F]) parseUnary() (*Node[I, F], error) {
	tok, ok := p.match(TokenMinus, TokenNot)
	if !ok {
		return p.parsePower()
	}
	if err := p.enter(tok); err != nil {
		return nil, err
	}
	operand, err := p.parseUnary()
	p.leave()
	if err != nil {
		return nil, err
	}
	op := OpNeg
	if tok.Kind == TokenNot {
		op = OpNot
	}
	return p.node(tok, &Node[I, F]{op: op, children: []*Node[I, F]{operand}})
}

func (p *parser[I, F]) parsePower() (*Node[I, F], error) {
	base, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	hat, ok := p.match(TokenHat)
	if !ok {
		return base, nil
	}
	if err := p.enter(hat); err != nil {
		return nil, err
	}
	exponent, err := p.parseUnary()
	p.leave()
	if err != nil {
		return nil, err
	}
	return p.node(hat, &Node[I, F]{op: OpExp, children: []*Node[I, F]{base, exponent}})
}

func (p *parser[I, F]) parsePrimary() (*Node[I, F], error) {
	tok, ok := p.next()
	if !ok {
		return nil, endOfInput(ErrMissingOperand)
	}

	switch {
	case tok.isLiteral():
		return constNode(tok.Literal), nil

	case tok.Kind == TokenIdentifier:
		open, ok := p.match(TokenLParen)
		if !ok {
			return &Node[I, F]{op: OpVariableRead, name: tok.Identifier, height: 1}, nil
		}
		arg, err := p.parseGroup(open)
		if err != nil {
			return nil, err
		}
		return p.node(tok, &Node[I, F]{op: OpFunction, name: tok.Identifier, children: []*Node[I, F]{arg}})

	case tok.Kind == TokenLParen:
		return p.parseGroup(tok)

	default:
		return nil, p.errorAt(tok, ErrUnexpectedToken)
	}
}

// parseGroup parses the inside of parentheses whose '(' was just consumed.
// opener is the token that started the group, for error reporting.
func (p *parser[I, F]) parseGroup(opener Token[I, F]) (*Node[I, F], error) {
	if err := p.enter(opener); err != nil {
		return nil, err
	}
	inner, err := p.parseSequence()
	p.leave()
	if err != nil {
		return nil, err
	}
	closer, ok := p.next()
	if !ok {
		return nil, p.errorAt(opener, ErrUnmatchedLParen)
	}
	if closer.Kind != TokenRParen {
		return nil, p.errorAt(closer, ErrUnexpectedToken)
	}
	return inner, nil
}
