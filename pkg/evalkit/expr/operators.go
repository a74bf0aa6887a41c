package expr

import (
	"github.com/randalmurphal/evalkit/pkg/evalkit/numeric"
)

// applyBinary applies a non-short-circuiting binary operator to two
// evaluated operands. && and || are handled by Node.logical.
func applyBinary[I numeric.Integer[I, F], F numeric.Float[F]](op Operator, l, r Value[I, F]) (Value[I, F], error) {
	switch op {
	case OpAdd:
		if l.IsString() {
			if !r.IsString() {
				return Value[I, F]{}, expected(r, TypeString)
			}
			return StringValue[I, F](l.str + r.str), nil
		}
		return arithmetic(op, l, r,
			func(a, b I) (I, bool) { return a.CheckedAdd(b) },
			func(a, b F) F { return a.Add(b) })
	case OpSub:
		return arithmetic(op, l, r,
			func(a, b I) (I, bool) { return a.CheckedSub(b) },
			func(a, b F) F { return a.Sub(b) })
	case OpMul:
		return arithmetic(op, l, r,
			func(a, b I) (I, bool) { return a.CheckedMul(b) },
			func(a, b F) F { return a.Mul(b) })
	case OpDiv:
		return arithmetic(op, l, r,
			func(a, b I) (I, bool) { return a.CheckedDiv(b) },
			func(a, b F) F { return a.Div(b) })
	case OpMod:
		return arithmetic(op, l, r,
			func(a, b I) (I, bool) { return a.CheckedRem(b) },
			func(a, b F) F { return a.Rem(b) })
	case OpExp:
		lf, err := l.AsNumber()
		if err != nil {
			return Value[I, F]{}, err
		}
		rf, err := r.AsNumber()
		if err != nil {
			return Value[I, F]{}, err
		}
		return FloatValue[I, F](lf.Pow(rf)), nil
	case OpEq:
		return BoolValue[I, F](l.Equal(r)), nil
	case OpNeq:
		return BoolValue[I, F](!l.Equal(r)), nil
	case OpLt, OpGt, OpLeq, OpGeq:
		return compare(op, l, r)
	default:
		return Value[I, F]{}, &SyntaxError{Pos: -1, Token: op.String(), Err: ErrMalformedTree}
	}
}

// arithmetic applies intOp when both operands are Ints and floatOp after
// coercing both to Float otherwise.
func arithmetic[I numeric.Integer[I, F], F numeric.Float[F]](
	op Operator,
	l, r Value[I, F],
	intOp func(I, I) (I, bool),
	floatOp func(F, F) F,
) (Value[I, F], error) {
	if l.IsInt() && r.IsInt() {
		result, ok := intOp(l.i, r.i)
		if !ok {
			cause := ErrOverflow
			if (op == OpDiv || op == OpMod) && r.i.IsZero() {
				cause = ErrDivisionByZero
			}
			return Value[I, F]{}, &ArithmeticError{Op: op.String(), Left: l, Right: r, Err: cause}
		}
		return IntValue[I, F](result), nil
	}

	lf, err := l.AsNumber()
	if err != nil {
		return Value[I, F]{}, err
	}
	rf, err := r.AsNumber()
	if err != nil {
		return Value[I, F]{}, err
	}
	return FloatValue[I, F](floatOp(lf, rf)), nil
}

// compare orders two Strings lexicographically, two Ints exactly, and any
// other pair of numbers as Floats. NaN compares false with everything.
func compare[I numeric.Integer[I, F], F numeric.Float[F]](op Operator, l, r Value[I, F]) (Value[I, F], error) {
	var less, greater, equal bool

	switch {
	case l.IsString():
		if !r.IsString() {
			return Value[I, F]{}, expected(r, TypeString)
		}
		less, greater, equal = l.str < r.str, l.str > r.str, l.str == r.str
	case l.IsInt() && r.IsInt():
		less, greater, equal = l.i.Less(r.i), r.i.Less(l.i), l.i.Equal(r.i)
	default:
		if !l.IsNumber() {
			return Value[I, F]{}, expected(l, TypeString, TypeInt, TypeFloat)
		}
		lf, _ := l.AsNumber()
		rf, err := r.AsNumber()
		if err != nil {
			return Value[I, F]{}, err
		}
		less, greater, equal = lf.Less(rf), rf.Less(lf), lf.Equal(rf)
	}

	switch op {
	case OpLt:
		return BoolValue[I, F](less), nil
	case OpGt:
		return BoolValue[I, F](greater), nil
	case OpLeq:
		return BoolValue[I, F](less || equal), nil
	default:
		return BoolValue[I, F](greater || equal), nil
	}
}

func applyUnary[I numeric.Integer[I, F], F numeric.Float[F]](op Operator, v Value[I, F]) (Value[I, F], error) {
	if op == OpNot {
		b, err := v.AsBoolean()
		if err != nil {
			return Value[I, F]{}, err
		}
		return BoolValue[I, F](!b), nil
	}

	switch v.typ {
	case TypeInt:
		neg, ok := v.i.CheckedNeg()
		if !ok {
			return Value[I, F]{}, &ArithmeticError{Op: op.String(), Left: v, Err: ErrOverflow}
		}
		return IntValue[I, F](neg), nil
	case TypeFloat:
		return FloatValue[I, F](v.f.Neg()), nil
	default:
		return Value[I, F]{}, expected(v, TypeInt, TypeFloat)
	}
}
