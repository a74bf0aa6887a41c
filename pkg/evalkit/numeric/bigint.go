package numeric

import (
	"errors"
	"math/big"
)

// maxBigShift caps shift amounts so a single expression cannot allocate
// an arbitrarily large integer.
const maxBigShift = 1 << 20

// errBigSyntax is returned for text math/big cannot read as an integer.
var errBigSyntax = errors.New("invalid syntax")

// BigInt is an arbitrary precision integer. It has no bounds, so built-ins
// that need a minimum or maximum report that none exists.
//
// BigInt values are immutable; every operation allocates a result. The zero
// value is 0.
type BigInt struct {
	v *big.Int
}

var _ Integer[BigInt, Float64] = BigInt{}

// NewBigInt returns a BigInt holding a copy of v.
func NewBigInt(v *big.Int) BigInt {
	return BigInt{v: new(big.Int).Set(v)}
}

// BigIntFrom returns a BigInt holding n.
func BigIntFrom(n int64) BigInt {
	return BigInt{v: big.NewInt(n)}
}

// Big returns a copy of the underlying integer.
func (b BigInt) Big() *big.Int {
	return new(big.Int).Set(b.val())
}

func (b BigInt) val() *big.Int {
	if b.v == nil {
		return new(big.Int)
	}
	return b.v
}

// Parse implements Number.
func (BigInt) Parse(s string) (BigInt, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return BigInt{}, &ParseError{Type: "bigint", Text: s, Err: errBigSyntax}
	}
	return BigInt{v: v}, nil
}

func (b BigInt) String() string {
	return b.val().String()
}

// Equal implements Number.
func (b BigInt) Equal(other BigInt) bool { return b.val().Cmp(other.val()) == 0 }

// Less implements Number.
func (b BigInt) Less(other BigInt) bool { return b.val().Cmp(other.val()) < 0 }

// MinValue implements Number. BigInt is unbounded.
func (BigInt) MinValue() (BigInt, bool) { return BigInt{}, false }

// MaxValue implements Number. BigInt is unbounded.
func (BigInt) MaxValue() (BigInt, bool) { return BigInt{}, false }

// AsFloat implements Integer. Magnitudes beyond the float range become infinite.
func (b BigInt) AsFloat() Float64 {
	f, _ := new(big.Float).SetInt(b.val()).Float64()
	return Float64(f)
}

// FromInt implements Integer.
func (BigInt) FromInt(n int) BigInt { return BigIntFrom(int64(n)) }

// IsZero implements Integer.
func (b BigInt) IsZero() bool { return b.val().Sign() == 0 }

func (b BigInt) BitAnd(other BigInt) BigInt {
	return BigInt{v: new(big.Int).And(b.val(), other.val())}
}

func (b BigInt) BitOr(other BigInt) BigInt {
	return BigInt{v: new(big.Int).Or(b.val(), other.val())}
}

func (b BigInt) BitXor(other BigInt) BigInt {
	return BigInt{v: new(big.Int).Xor(b.val(), other.val())}
}

func (b BigInt) BitNot() BigInt {
	return BigInt{v: new(big.Int).Not(b.val())}
}

// shiftAmount validates a shift operand.
func shiftAmount(other BigInt) (uint, bool) {
	n := other.val()
	if n.Sign() < 0 || !n.IsInt64() || n.Int64() > maxBigShift {
		return 0, false
	}
	return uint(n.Int64()), true
}

// CheckedShl implements Integer.
func (b BigInt) CheckedShl(other BigInt) (BigInt, bool) {
	n, ok := shiftAmount(other)
	if !ok {
		return BigInt{}, false
	}
	return BigInt{v: new(big.Int).Lsh(b.val(), n)}, true
}

// CheckedShr implements Integer.
func (b BigInt) CheckedShr(other BigInt) (BigInt, bool) {
	n, ok := shiftAmount(other)
	if !ok {
		return BigInt{}, false
	}
	return BigInt{v: new(big.Int).Rsh(b.val(), n)}, true
}

// CheckedAdd implements Integer. It never overflows.
func (b BigInt) CheckedAdd(other BigInt) (BigInt, bool) {
	return BigInt{v: new(big.Int).Add(b.val(), other.val())}, true
}

// CheckedSub implements Integer. It never overflows.
func (b BigInt) CheckedSub(other BigInt) (BigInt, bool) {
	return BigInt{v: new(big.Int).Sub(b.val(), other.val())}, true
}

// CheckedMul implements Integer. It never overflows.
func (b BigInt) CheckedMul(other BigInt) (BigInt, bool) {
	return BigInt{v: new(big.Int).Mul(b.val(), other.val())}, true
}

// CheckedDiv implements Integer. Division truncates toward zero.
func (b BigInt) CheckedDiv(other BigInt) (BigInt, bool) {
	if other.IsZero() {
		return BigInt{}, false
	}
	return BigInt{v: new(big.Int).Quo(b.val(), other.val())}, true
}

// CheckedRem implements Integer. The sign of the result follows b.
func (b BigInt) CheckedRem(other BigInt) (BigInt, bool) {
	if other.IsZero() {
		return BigInt{}, false
	}
	return BigInt{v: new(big.Int).Rem(b.val(), other.val())}, true
}

// CheckedNeg implements Integer. It never overflows.
func (b BigInt) CheckedNeg() (BigInt, bool) {
	return BigInt{v: new(big.Int).Neg(b.val())}, true
}
