// Package numeric defines the integer and float capabilities the expression
// language is generic over, together with the stock implementations.
//
// Static operations such as parsing and bounds are methods on the zero value,
// so generic code can call them without an instance:
//
//	var zero numeric.Int64
//	n, err := zero.Parse("42")
//	max, ok := zero.MaxValue()
package numeric

import "fmt"

// Number contains the operations shared by integers and floats.
type Number[T any] interface {
	fmt.Stringer

	// Parse converts decimal text into a number. The receiver is ignored.
	Parse(s string) (T, error)

	// Equal reports whether the receiver equals other.
	Equal(other T) bool

	// Less reports whether the receiver is strictly less than other.
	Less(other T) bool

	// MinValue returns the smallest value of the type.
	// ok is false if the type is unbounded below.
	MinValue() (min T, ok bool)

	// MaxValue returns the largest value of the type.
	// ok is false if the type is unbounded above.
	MaxValue() (max T, ok bool)
}

// Integer is an integer type usable by the evaluator. F is the float type
// integers are coerced to in mixed arithmetic.
type Integer[I any, F any] interface {
	Number[I]

	// AsFloat converts the integer into the paired float type.
	AsFloat() F

	// FromInt converts n into the integer type, ignoring any loss.
	// The receiver is ignored.
	FromInt(n int) I

	// IsZero reports whether the integer is zero.
	IsZero() bool

	BitAnd(other I) I
	BitOr(other I) I
	BitXor(other I) I
	BitNot() I

	// CheckedShl shifts left by other bits. ok is false if other is
	// negative or too large for the type.
	CheckedShl(other I) (I, bool)
	// CheckedShr shifts right (arithmetic) by other bits. ok is false if
	// other is negative or too large for the type.
	CheckedShr(other I) (I, bool)

	// The checked operations report ok == false on overflow or, for
	// division and remainder, on a zero divisor.
	CheckedAdd(other I) (I, bool)
	CheckedSub(other I) (I, bool)
	CheckedMul(other I) (I, bool)
	CheckedDiv(other I) (I, bool)
	CheckedRem(other I) (I, bool)
	CheckedNeg() (I, bool)
}

// Float is a floating point type usable by the evaluator.
type Float[F any] interface {
	Number[F]

	// FromFloat64 converts f into the float type. The receiver is ignored.
	FromFloat64(f float64) F

	Add(other F) F
	Sub(other F) F
	Mul(other F) F
	Div(other F) F
	Rem(other F) F
	Neg() F
	Pow(exponent F) F

	Ln() F
	Log(base F) F
	Log2() F
	Log10() F
	Exp() F
	Exp2() F

	Cos() F
	Acos() F
	Cosh() F
	Acosh() F
	Sin() F
	Asin() F
	Sinh() F
	Asinh() F
	Tan() F
	Atan() F
	Tanh() F
	Atanh() F
	Atan2(other F) F

	Sqrt() F
	Cbrt() F
	Hypot(other F) F

	Floor() F
	// Round rounds half away from zero.
	Round() F
	Ceil() F

	IsNaN() bool
	IsFinite() bool
	IsInfinite() bool
	// IsNormal reports whether the number is neither zero, infinite,
	// NaN nor subnormal.
	IsNormal() bool
}

// ParseError reports text that a numeric type cannot represent.
type ParseError struct {
	// Type is the name of the numeric type.
	Type string
	// Text is the rejected input.
	Text string
	// Err is the underlying conversion error, if any.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cannot parse %q as %s: %v", e.Text, e.Type, e.Err)
	}
	return fmt.Sprintf("cannot parse %q as %s", e.Text, e.Type)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}
