package numeric

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// Float64 is the default float type.
type Float64 float64

var _ Float[Float64] = Float64(0)

// errFloatRange is returned for literals beyond the finite float range.
var errFloatRange = errors.New("value out of range")

// Parse implements Number. Literals that overflow to infinity are rejected.
func (Float64) Parse(s string) (Float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &ParseError{Type: "float64", Text: s, Err: unwrapNumError(err)}
	}
	if math.IsInf(f, 0) {
		return 0, &ParseError{Type: "float64", Text: s, Err: errFloatRange}
	}
	return Float64(f), nil
}

// String formats the float so that it reads back as a float: the output
// always has a radix point or an exponent unless it is NaN or infinite.
func (f Float64) String() string {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	abs := math.Abs(v)
	var s string
	if abs == 0 || (abs >= 1e-4 && abs < 1e21) {
		s = strconv.FormatFloat(v, 'f', -1, 64)
	} else {
		s = strconv.FormatFloat(v, 'g', -1, 64)
	}
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

// Equal implements Number. NaN is not equal to anything.
func (f Float64) Equal(other Float64) bool { return f == other }

// Less implements Number.
func (f Float64) Less(other Float64) bool { return f < other }

// MinValue implements Number. The bound is negative infinity.
func (Float64) MinValue() (Float64, bool) { return Float64(math.Inf(-1)), true }

// MaxValue implements Number. The bound is positive infinity.
func (Float64) MaxValue() (Float64, bool) { return Float64(math.Inf(1)), true }

// FromFloat64 implements Float.
func (Float64) FromFloat64(f float64) Float64 { return Float64(f) }

func (f Float64) Add(other Float64) Float64 { return f + other }
func (f Float64) Sub(other Float64) Float64 { return f - other }
func (f Float64) Mul(other Float64) Float64 { return f * other }
func (f Float64) Div(other Float64) Float64 { return f / other }

// Rem returns the floating point remainder; its sign follows f.
func (f Float64) Rem(other Float64) Float64 {
	return Float64(math.Mod(float64(f), float64(other)))
}

func (f Float64) Neg() Float64 { return -f }

func (f Float64) Pow(exponent Float64) Float64 {
	return Float64(math.Pow(float64(f), float64(exponent)))
}

func (f Float64) Ln() Float64 { return Float64(math.Log(float64(f))) }

// Log returns the logarithm of f to the given base.
func (f Float64) Log(base Float64) Float64 {
	return Float64(math.Log(float64(f)) / math.Log(float64(base)))
}

func (f Float64) Log2() Float64  { return Float64(math.Log2(float64(f))) }
func (f Float64) Log10() Float64 { return Float64(math.Log10(float64(f))) }
func (f Float64) Exp() Float64   { return Float64(math.Exp(float64(f))) }
func (f Float64) Exp2() Float64  { return Float64(math.Exp2(float64(f))) }

func (f Float64) Cos() Float64   { return Float64(math.Cos(float64(f))) }
func (f Float64) Acos() Float64  { return Float64(math.Acos(float64(f))) }
func (f Float64) Cosh() Float64  { return Float64(math.Cosh(float64(f))) }
func (f Float64) Acosh() Float64 { return Float64(math.Acosh(float64(f))) }
func (f Float64) Sin() Float64   { return Float64(math.Sin(float64(f))) }
func (f Float64) Asin() Float64  { return Float64(math.Asin(float64(f))) }
func (f Float64) Sinh() Float64  { return Float64(math.Sinh(float64(f))) }
func (f Float64) Asinh() Float64 { return Float64(math.Asinh(float64(f))) }
func (f Float64) Tan() Float64   { return Float64(math.Tan(float64(f))) }
func (f Float64) Atan() Float64  { return Float64(math.Atan(float64(f))) }
func (f Float64) Tanh() Float64  { return Float64(math.Tanh(float64(f))) }
func (f Float64) Atanh() Float64 { return Float64(math.Atanh(float64(f))) }

func (f Float64) Atan2(other Float64) Float64 {
	return Float64(math.Atan2(float64(f), float64(other)))
}

func (f Float64) Sqrt() Float64 { return Float64(math.Sqrt(float64(f))) }
func (f Float64) Cbrt() Float64 { return Float64(math.Cbrt(float64(f))) }

func (f Float64) Hypot(other Float64) Float64 {
	return Float64(math.Hypot(float64(f), float64(other)))
}

func (f Float64) Floor() Float64 { return Float64(math.Floor(float64(f))) }
func (f Float64) Round() Float64 { return Float64(math.Round(float64(f))) }
func (f Float64) Ceil() Float64  { return Float64(math.Ceil(float64(f))) }

func (f Float64) IsNaN() bool      { return math.IsNaN(float64(f)) }
func (f Float64) IsInfinite() bool { return math.IsInf(float64(f), 0) }

func (f Float64) IsFinite() bool {
	return !math.IsNaN(float64(f)) && !math.IsInf(float64(f), 0)
}

// smallestNormal is the smallest positive normal float64.
const smallestNormal = 0x1p-1022

// IsNormal implements Float.
func (f Float64) IsNormal() bool {
	return f.IsFinite() && math.Abs(float64(f)) >= smallestNormal
}
