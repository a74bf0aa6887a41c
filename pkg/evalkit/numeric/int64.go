package numeric

import (
	"math"
	"strconv"
)

// Int64 is the default integer type.
type Int64 int64

var _ Integer[Int64, Float64] = Int64(0)

// Parse implements Number.
func (Int64) Parse(s string) (Int64, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, &ParseError{Type: "int64", Text: s, Err: unwrapNumError(err)}
	}
	return Int64(n), nil
}

func (i Int64) String() string {
	return strconv.FormatInt(int64(i), 10)
}

// Equal implements Number.
func (i Int64) Equal(other Int64) bool { return i == other }

// Less implements Number.
func (i Int64) Less(other Int64) bool { return i < other }

// MinValue implements Number.
func (Int64) MinValue() (Int64, bool) { return math.MinInt64, true }

// MaxValue implements Number.
func (Int64) MaxValue() (Int64, bool) { return math.MaxInt64, true }

// AsFloat implements Integer.
func (i Int64) AsFloat() Float64 { return Float64(i) }

// FromInt implements Integer.
func (Int64) FromInt(n int) Int64 { return Int64(n) }

// IsZero implements Integer.
func (i Int64) IsZero() bool { return i == 0 }

func (i Int64) BitAnd(other Int64) Int64 { return i & other }
func (i Int64) BitOr(other Int64) Int64  { return i | other }
func (i Int64) BitXor(other Int64) Int64 { return i ^ other }
func (i Int64) BitNot() Int64            { return ^i }

// CheckedShl implements Integer.
func (i Int64) CheckedShl(other Int64) (Int64, bool) {
	if other < 0 || other >= 64 {
		return 0, false
	}
	return i << uint(other), true
}

// CheckedShr implements Integer.
func (i Int64) CheckedShr(other Int64) (Int64, bool) {
	if other < 0 || other >= 64 {
		return 0, false
	}
	return i >> uint(other), true
}

// CheckedAdd implements Integer.
func (i Int64) CheckedAdd(other Int64) (Int64, bool) {
	sum := i + other
	if (i > 0 && other > 0 && sum < 0) || (i < 0 && other < 0 && sum >= 0) {
		return 0, false
	}
	return sum, true
}

// CheckedSub implements Integer.
func (i Int64) CheckedSub(other Int64) (Int64, bool) {
	diff := i - other
	if (other > 0 && diff > i) || (other < 0 && diff < i) {
		return 0, false
	}
	return diff, true
}

// CheckedMul implements Integer.
func (i Int64) CheckedMul(other Int64) (Int64, bool) {
	if i == 0 || other == 0 {
		return 0, true
	}
	if (i == -1 && other == math.MinInt64) || (other == -1 && i == math.MinInt64) {
		return 0, false
	}
	product := i * other
	if product/other != i {
		return 0, false
	}
	return product, true
}

// CheckedDiv implements Integer.
func (i Int64) CheckedDiv(other Int64) (Int64, bool) {
	if other == 0 || (i == math.MinInt64 && other == -1) {
		return 0, false
	}
	return i / other, true
}

// CheckedRem implements Integer.
func (i Int64) CheckedRem(other Int64) (Int64, bool) {
	if other == 0 || (i == math.MinInt64 && other == -1) {
		return 0, false
	}
	return i % other, true
}

// CheckedNeg implements Integer.
func (i Int64) CheckedNeg() (Int64, bool) {
	if i == math.MinInt64 {
		return 0, false
	}
	return -i, true
}

// unwrapNumError strips the strconv.NumError wrapper, which repeats the input.
func unwrapNumError(err error) error {
	if numErr, ok := err.(*strconv.NumError); ok {
		return numErr.Err
	}
	return err
}
