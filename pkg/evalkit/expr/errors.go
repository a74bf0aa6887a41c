package expr

import (
	"errors"
	"fmt"
	"strings"
)

// Valued is satisfied by every instantiation of Value. Errors carry the
// offending value through it so that they need no type parameters; callers
// that know the instantiation can type-assert it back.
type Valued interface {
	fmt.Stringer
	Type() ValueType
}

// Sentinel errors for lexing.
var (
	// ErrUnterminatedString indicates a string literal without closing quote.
	ErrUnterminatedString = errors.New("unterminated string literal")

	// ErrIllegalEscape indicates an unknown escape sequence in a string literal.
	ErrIllegalEscape = errors.New("illegal escape sequence")

	// ErrMalformedLiteral indicates a numeric literal the numeric type cannot represent.
	ErrMalformedLiteral = errors.New("malformed numeric literal")

	// ErrIncompleteOperator indicates a lone '&' or '|'.
	ErrIncompleteOperator = errors.New("incomplete operator")

	// ErrUnexpectedCharacter indicates a character outside the token alphabet.
	ErrUnexpectedCharacter = errors.New("unexpected character")
)

// Sentinel errors for parsing.
var (
	// ErrUnexpectedToken indicates a token that cannot appear where it was found.
	ErrUnexpectedToken = errors.New("unexpected token")

	// ErrMissingOperand indicates input ended where an operand was required.
	ErrMissingOperand = errors.New("missing operand")

	// ErrUnmatchedLParen indicates a '(' without matching ')'.
	ErrUnmatchedLParen = errors.New("unmatched opening parenthesis")

	// ErrUnmatchedRParen indicates a ')' without matching '('.
	ErrUnmatchedRParen = errors.New("unmatched closing parenthesis")

	// ErrChainedComparison indicates comparisons chained without parentheses.
	ErrChainedComparison = errors.New("comparison operators cannot be chained")

	// ErrInvalidAssignTarget indicates an assignment whose left side is not an identifier.
	ErrInvalidAssignTarget = errors.New("assignment target must be an identifier")

	// ErrTreeTooDeep indicates nesting or tree height past the parse limit.
	ErrTreeTooDeep = errors.New("expression tree too deep")

	// ErrMalformedTree indicates a node in a position the parser never
	// produces, such as an assignment target read as a value.
	ErrMalformedTree = errors.New("malformed operator tree")
)

// Sentinel errors for evaluation.
var (
	// ErrOverflow indicates a checked integer operation overflowed.
	ErrOverflow = errors.New("integer overflow")

	// ErrDivisionByZero indicates integer division or remainder by zero.
	ErrDivisionByZero = errors.New("division by zero")

	// ErrVariableNotFound indicates an unbound variable identifier.
	ErrVariableNotFound = errors.New("variable not found")

	// ErrFunctionNotFound indicates an unbound function identifier.
	ErrFunctionNotFound = errors.New("function not found")

	// ErrNoMinValue indicates that no minimum exists: the numeric type is
	// unbounded below, or there was nothing to take the minimum of.
	ErrNoMinValue = errors.New("no minimum value")

	// ErrNoMaxValue indicates that no maximum exists.
	ErrNoMaxValue = errors.New("no maximum value")

	// ErrContextNotMutable indicates an assignment against a read-only context.
	ErrContextNotMutable = errors.New("context is not mutable")
)

// LexError reports a failure to tokenize source text.
type LexError struct {
	// Pos is the byte offset where the offending fragment starts.
	Pos int
	// Fragment is the offending source text.
	Fragment string
	// Err is one of the lexing sentinels.
	Err error
	// Cause is the numeric parse failure behind ErrMalformedLiteral, if any.
	Cause error
}

// Error implements the error interface.
func (e *LexError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("lex error at %d: %v %q: %v", e.Pos, e.Err, e.Fragment, e.Cause)
	}
	return fmt.Sprintf("lex error at %d: %v %q", e.Pos, e.Err, e.Fragment)
}

// Unwrap returns the sentinel and the cause.
func (e *LexError) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Err, e.Cause}
	}
	return []error{e.Err}
}

// SyntaxError reports a token sequence that does not satisfy the grammar.
type SyntaxError struct {
	// Pos is the byte offset of the offending token, or -1 at end of input
	// or when the error comes from a tree node without a position.
	Pos int
	// Token is the offending token as text.
	Token string
	// Err is one of the parsing sentinels.
	Err error
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	if e.Pos < 0 {
		if e.Token != "" && e.Token != endOfInputToken {
			return fmt.Sprintf("syntax error near %s: %v", e.Token, e.Err)
		}
		return fmt.Sprintf("syntax error at end of input: %v", e.Err)
	}
	return fmt.Sprintf("syntax error at %d near %s: %v", e.Pos, e.Token, e.Err)
}

// Unwrap returns the sentinel.
func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// ArityError reports a tuple argument of the wrong length.
type ArityError struct {
	Expected int
	Actual   int
	// Value is the offending tuple.
	Value Valued
}

// Error implements the error interface.
func (e *ArityError) Error() string {
	return fmt.Sprintf("expected a tuple of length %d, got %d: %s", e.Expected, e.Actual, e.Value)
}

// TypeError reports a value of an unexpected kind.
type TypeError struct {
	// Actual is the offending value.
	Actual Valued
	// Expected lists the acceptable kinds.
	Expected []ValueType
}

// Error implements the error interface.
func (e *TypeError) Error() string {
	names := make([]string, len(e.Expected))
	for i, t := range e.Expected {
		names[i] = t.String()
	}
	return fmt.Sprintf("expected %s, got %s %s", strings.Join(names, " or "), e.Actual.Type(), e.Actual)
}

func expected(actual Valued, types ...ValueType) *TypeError {
	return &TypeError{Actual: actual, Expected: types}
}

// ArithmeticError reports a failed checked integer operation.
type ArithmeticError struct {
	// Op is the operator symbol, such as "+" or "%".
	Op string
	// Left and Right are the operands; Right is nil for negation.
	Left  Valued
	Right Valued
	// Err is ErrOverflow or ErrDivisionByZero.
	Err error
}

// Error implements the error interface.
func (e *ArithmeticError) Error() string {
	if e.Right == nil {
		return fmt.Sprintf("%v: %s%s", e.Err, e.Op, e.Left)
	}
	return fmt.Sprintf("%v: %s %s %s", e.Err, e.Left, e.Op, e.Right)
}

// Unwrap returns the sentinel.
func (e *ArithmeticError) Unwrap() error {
	return e.Err
}

// LookupError reports an unbound identifier.
type LookupError struct {
	Name string
	// Err is ErrVariableNotFound or ErrFunctionNotFound.
	Err error
}

// Error implements the error interface.
func (e *LookupError) Error() string {
	return fmt.Sprintf("%v: %s", e.Err, e.Name)
}

// Unwrap returns the sentinel.
func (e *LookupError) Unwrap() error {
	return e.Err
}

// ExternalError wraps a failure reported by a function, such as an invalid
// regular expression passed to a regex built-in.
type ExternalError struct {
	// Function is the called identifier, if known.
	Function string
	Err      error
}

// Error implements the error interface.
func (e *ExternalError) Error() string {
	if e.Function != "" {
		return fmt.Sprintf("%s: %v", e.Function, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ExternalError) Unwrap() error {
	return e.Err
}

// CustomError returns an error for user-defined functions to report a
// failure with a plain message.
func CustomError(format string, args ...any) error {
	return &ExternalError{Err: fmt.Errorf(format, args...)}
}

// ErrorKind is the closed set of failure classes.
type ErrorKind int

const (
	// KindUnknown is returned for errors produced outside this package.
	KindUnknown ErrorKind = iota
	KindLexical
	KindSyntax
	KindType
	KindArithmetic
	KindLookup
	KindBound
	KindExternal
	KindContext
)

// String returns the kind name.
func (k ErrorKind) String() string {
	switch k {
	case KindLexical:
		return "lexical"
	case KindSyntax:
		return "syntax"
	case KindType:
		return "type"
	case KindArithmetic:
		return "arithmetic"
	case KindLookup:
		return "lookup"
	case KindBound:
		return "bound"
	case KindExternal:
		return "external"
	case KindContext:
		return "context"
	default:
		return "unknown"
	}
}

// KindOf classifies err.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindUnknown
	}

	var lexErr *LexError
	if errors.As(err, &lexErr) {
		return KindLexical
	}

	var synErr *SyntaxError
	if errors.As(err, &synErr) {
		return KindSyntax
	}

	var arityErr *ArityError
	if errors.As(err, &arityErr) {
		return KindSyntax
	}

	var typeErr *TypeError
	if errors.As(err, &typeErr) {
		return KindType
	}

	var arithErr *ArithmeticError
	if errors.As(err, &arithErr) {
		return KindArithmetic
	}

	var lookupErr *LookupError
	if errors.As(err, &lookupErr) {
		return KindLookup
	}

	if errors.Is(err, ErrNoMinValue) || errors.Is(err, ErrNoMaxValue) {
		return KindBound
	}

	var extErr *ExternalError
	if errors.As(err, &extErr) {
		return KindExternal
	}

	if errors.Is(err, ErrContextNotMutable) {
		return KindContext
	}

	return KindUnknown
}
