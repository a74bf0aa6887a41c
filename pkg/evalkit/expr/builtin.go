package expr

import (
	"math/rand/v2"
	"regexp"
	"strings"

	"github.com/randalmurphal/evalkit/pkg/evalkit/numeric"
)

type builtinFunc[I numeric.Integer[I, F], F numeric.Float[F]] func(Value[I, F]) (Value[I, F], error)

// BuiltinNames lists the built-in function catalog.
var BuiltinNames = []string{
	"math::ln", "math::log", "math::log2", "math::log10",
	"math::exp", "math::exp2", "math::pow",
	"math::cos", "math::acos", "math::cosh", "math::acosh",
	"math::sin", "math::asin", "math::sinh", "math::asinh",
	"math::tan", "math::atan", "math::tanh", "math::atanh", "math::atan2",
	"math::sqrt", "math::cbrt", "math::hypot",
	"math::is_nan", "math::is_finite", "math::is_infinite", "math::is_normal",
	"floor", "round", "ceil",
	"typeof", "min", "max", "if", "len",
	"str::regex_matches", "str::regex_replace",
	"str::to_lowercase", "str::to_uppercase", "str::trim", "str::from",
	"random",
	"bitand", "bitor", "bitxor", "bitnot", "shl", "shr",
	"int::min_value", "int::max_value", "float::min_value", "float::max_value",
}

// builtin resolves name in the built-in catalog.
func builtin[I numeric.Integer[I, F], F numeric.Float[F]](name string) (builtinFunc[I, F], bool) {
	switch name {
	case "math::ln":
		return floatFn[I](func(x F) F { return x.Ln() }), true
	case "math::log":
		return floatFn2[I](func(x, base F) F { return x.Log(base) }), true
	case "math::log2":
		return floatFn[I](func(x F) F { return x.Log2() }), true
	case "math::log10":
		return floatFn[I](func(x F) F { return x.Log10() }), true
	case "math::exp":
		return floatFn[I](func(x F) F { return x.Exp() }), true
	case "math::exp2":
		return floatFn[I](func(x F) F { return x.Exp2() }), true
	case "math::pow":
		return floatFn2[I](func(x, y F) F { return x.Pow(y) }), true
	case "math::cos":
		return floatFn[I](func(x F) F { return x.Cos() }), true
	case "math::acos":
		return floatFn[I](func(x F) F { return x.Acos() }), true
	case "math::cosh":
		return floatFn[I](func(x F) F { return x.Cosh() }), true
	case "math::acosh":
		return floatFn[I](func(x F) F { return x.Acosh() }), true
	case "math::sin":
		return floatFn[I](func(x F) F { return x.Sin() }), true
	case "math::asin":
		return floatFn[I](func(x F) F { return x.Asin() }), true
	case "math::sinh":
		return floatFn[I](func(x F) F { return x.Sinh() }), true
	case "math::asinh":
		return floatFn[I](func(x F) F { return x.Asinh() }), true
	case "math::tan":
		return floatFn[I](func(x F) F { return x.Tan() }), true
	case "math::atan":
		return floatFn[I](func(x F) F { return x.Atan() }), true
	case "math::tanh":
		return floatFn[I](func(x F) F { return x.Tanh() }), true
	case "math::atanh":
		return floatFn[I](func(x F) F { return x.Atanh() }), true
	case "math::atan2":
		return floatFn2[I](func(y, x F) F { return y.Atan2(x) }), true
	case "math::sqrt":
		return floatFn[I](func(x F) F { return x.Sqrt() }), true
	case "math::cbrt":
		return floatFn[I](func(x F) F { return x.Cbrt() }), true
	case "math::hypot":
		return floatFn2[I](func(x, y F) F { return x.Hypot(y) }), true
	case "math::is_nan":
		return floatIs[I](func(x F) bool { return x.IsNaN() }), true
	case "math::is_finite":
		return floatIs[I](func(x F) bool { return x.IsFinite() }), true
	case "math::is_infinite":
		return floatIs[I](func(x F) bool { return x.IsInfinite() }), true
	case "math::is_normal":
		return floatIs[I](func(x F) bool { return x.IsNormal() }), true
	case "floor":
		return floatFn[I](func(x F) F { return x.Floor() }), true
	case "round":
		return floatFn[I](func(x F) F { return x.Round() }), true
	case "ceil":
		return floatFn[I](func(x F) F { return x.Ceil() }), true

	case "typeof":
		return func(arg Value[I, F]) (Value[I, F], error) {
			return StringValue[I, F](arg.Type().String()), nil
		}, true
	case "min":
		return extremum[I, F](false), true
	case "max":
		return extremum[I, F](true), true
	case "if":
		return builtinIf[I, F], true
	case "len":
		return builtinLen[I, F], true

	case "str::regex_matches":
		return regexMatches[I, F], true
	case "str::regex_replace":
		return regexReplace[I, F], true
	case "str::to_lowercase":
		return stringFn[I, F](strings.ToLower), true
	case "str::to_uppercase":
		return stringFn[I, F](strings.ToUpper), true
	case "str::trim":
		return stringFn[I, F](strings.TrimSpace), true
	case "str::from":
		return func(arg Value[I, F]) (Value[I, F], error) {
			if arg.IsString() {
				return arg, nil
			}
			return StringValue[I, F](arg.String()), nil
		}, true

	case "random":
		return builtinRandom[I, F], true

	case "bitand":
		return intFn2[F]("bitand", func(a, b I) (I, bool) { return a.BitAnd(b), true }), true
	case "bitor":
		return intFn2[F]("bitor", func(a, b I) (I, bool) { return a.BitOr(b), true }), true
	case "bitxor":
		return intFn2[F]("bitxor", func(a, b I) (I, bool) { return a.BitXor(b), true }), true
	case "bitnot":
		return func(arg Value[I, F]) (Value[I, F], error) {
			i, err := arg.AsInt()
			if err != nil {
				return Value[I, F]{}, err
			}
			return IntValue[I, F](i.BitNot()), nil
		}, true
	case "shl":
		return intFn2[F]("shl", func(a, b I) (I, bool) { return a.CheckedShl(b) }), true
	case "shr":
		return intFn2[F]("shr", func(a, b I) (I, bool) { return a.CheckedShr(b) }), true

	case "int::min_value":
		return bound[I, F](func() (Value[I, F], bool) {
			var zero I
			v, ok := zero.MinValue()
			return IntValue[I, F](v), ok
		}, ErrNoMinValue), true
	case "int::max_value":
		return bound[I, F](func() (Value[I, F], bool) {
			var zero I
			v, ok := zero.MaxValue()
			return IntValue[I, F](v), ok
		}, ErrNoMaxValue), true
	case "float::min_value":
		return bound[I, F](func() (Value[I, F], bool) {
			var zero F
			v, ok := zero.MinValue()
			return FloatValue[I, F](v), ok
		}, ErrNoMinValue), true
	case "float::max_value":
		return bound[I, F](func() (Value[I, F], bool) {
			var zero F
			v, ok := zero.MaxValue()
			return FloatValue[I, F](v), ok
		}, ErrNoMaxValue), true
	}
	return nil, false
}

func floatFn[I numeric.Integer[I, F], F numeric.Float[F]](fn func(F) F) builtinFunc[I, F] {
	return func(arg Value[I, F]) (Value[I, F], error) {
		x, err := arg.AsNumber()
		if err != nil {
			return Value[I, F]{}, err
		}
		return FloatValue[I, F](fn(x)), nil
	}
}

func floatFn2[I numeric.Integer[I, F], F numeric.Float[F]](fn func(F, F) F) builtinFunc[I, F] {
	return func(arg Value[I, F]) (Value[I, F], error) {
		args, err := arg.AsFixedLenTuple(2)
		if err != nil {
			return Value[I, F]{}, err
		}
		a, err := args[0].AsNumber()
		if err != nil {
			return Value[I, F]{}, err
		}
		b, err := args[1].AsNumber()
		if err != nil {
			return Value[I, F]{}, err
		}
		return FloatValue[I, F](fn(a, b)), nil
	}
}

func floatIs[I numeric.Integer[I, F], F numeric.Float[F]](fn func(F) bool) builtinFunc[I, F] {
	return func(arg Value[I, F]) (Value[I, F], error) {
		x, err := arg.AsNumber()
		if err != nil {
			return Value[I, F]{}, err
		}
		return BoolValue[I, F](fn(x)), nil
	}
}

// intFn2 applies fn to a pair of Ints. A false ok is reported as overflow.
func intFn2[F numeric.Float[F], I numeric.Integer[I, F]](name string, fn func(I, I) (I, bool)) builtinFunc[I, F] {
	return func(arg Value[I, F]) (Value[I, F], error) {
		args, err := arg.AsFixedLenTuple(2)
		if err != nil {
			return Value[I, F]{}, err
		}
		a, err := args[0].AsInt()
		if err != nil {
			return Value[I, F]{}, err
		}
		b, err := args[1].AsInt()
		if err != nil {
			return Value[I, F]{}, err
		}
		result, ok := fn(a, b)
		if !ok {
			return Value[I, F]{}, &ArithmeticError{Op: name, Left: args[0], Right: args[1], Err: ErrOverflow}
		}
		return IntValue[I, F](result), nil
	}
}

func stringFn[I numeric.Integer[I, F], F numeric.Float[F]](fn func(string) string) builtinFunc[I, F] {
	return func(arg Value[I, F]) (Value[I, F], error) {
		s, err := arg.AsString()
		if err != nil {
			return Value[I, F]{}, err
		}
		return StringValue[I, F](fn(s)), nil
	}
}

func bound[I numeric.Integer[I, F], F numeric.Float[F]](get func() (Value[I, F], bool), missing error) builtinFunc[I, F] {
	return func(arg Value[I, F]) (Value[I, F], error) {
		if err := arg.AsEmpty(); err != nil {
			return Value[I, F]{}, err
		}
		v, ok := get()
		if !ok {
			return Value[I, F]{}, missing
		}
		return v, nil
	}
}

// extremum builds min (wantMax false) or max over a tuple of numbers. The
// result is an Int when the best Int is at least as good as the best Float.
// A single non-tuple number is its own extremum.
func extremum[I numeric.Integer[I, F], F numeric.Float[F]](wantMax bool) builtinFunc[I, F] {
	return func(arg Value[I, F]) (Value[I, F], error) {
		args := []Value[I, F]{arg}
		if arg.IsTuple() || arg.IsEmpty() {
			args = arg.tuple
		}

		var (
			bestInt, bestFloat Value[I, F]
			better             = func(a, b F) bool { return a.Less(b) }
		)
		if wantMax {
			better = func(a, b F) bool { return b.Less(a) }
		}

		for _, v := range args {
			switch v.typ {
			case TypeInt:
				if bestInt.IsEmpty() || (!wantMax && v.i.Less(bestInt.i)) || (wantMax && bestInt.i.Less(v.i)) {
					bestInt = v
				}
			case TypeFloat:
				if bestFloat.IsEmpty() || better(v.f, bestFloat.f) {
					bestFloat = v
				}
			default:
				return Value[I, F]{}, expected(v, TypeInt, TypeFloat)
			}
		}

		switch {
		case bestInt.IsEmpty() && bestFloat.IsEmpty():
			if wantMax {
				return Value[I, F]{}, ErrNoMaxValue
			}
			return Value[I, F]{}, ErrNoMinValue
		case bestFloat.IsEmpty():
			return bestInt, nil
		case bestInt.IsEmpty():
			return bestFloat, nil
		case better(bestFloat.f, bestInt.i.AsFloat()):
			return bestFloat, nil
		default:
			return bestInt, nil
		}
	}
}

// builtinIf selects between two already evaluated branches.
func builtinIf[I numeric.Integer[I, F], F numeric.Float[F]](arg Value[I, F]) (Value[I, F], error) {
	args, err := arg.AsFixedLenTuple(3)
	if err != nil {
		return Value[I, F]{}, err
	}
	cond, err := args[0].AsBoolean()
	if err != nil {
		return Value[I, F]{}, err
	}
	if cond {
		return args[1], nil
	}
	return args[2], nil
}

// builtinLen returns the byte length of a String or the arity of a Tuple.
func builtinLen[I numeric.Integer[I, F], F numeric.Float[F]](arg Value[I, F]) (Value[I, F], error) {
	var zero I
	switch arg.typ {
	case TypeString:
		return IntValue[I, F](zero.FromInt(len(arg.str))), nil
	case TypeTuple:
		return IntValue[I, F](zero.FromInt(len(arg.tuple))), nil
	default:
		return Value[I, F]{}, expected(arg, TypeString, TypeTuple)
	}
}

func compileRegex(name, pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, &ExternalError{Function: name, Err: err}
	}
	return re, nil
}

func regexMatches[I numeric.Integer[I, F], F numeric.Float[F]](arg Value[I, F]) (Value[I, F], error) {
	args, err := arg.AsFixedLenTuple(2)
	if err != nil {
		return Value[I, F]{}, err
	}
	subject, err := args[0].AsString()
	if err != nil {
		return Value[I, F]{}, err
	}
	pattern, err := args[1].AsString()
	if err != nil {
		return Value[I, F]{}, err
	}
	re, err := compileRegex("str::regex_matches", pattern)
	if err != nil {
		return Value[I, F]{}, err
	}
	return BoolValue[I, F](re.MatchString(subject)), nil
}

func regexReplace[I numeric.Integer[I, F], F numeric.Float[F]](arg Value[I, F]) (Value[I, F], error) {
	args, err := arg.AsFixedLenTuple(3)
	if err != nil {
		return Value[I, F]{}, err
	}
	subject, err := args[0].AsString()
	if err != nil {
		return Value[I, F]{}, err
	}
	pattern, err := args[1].AsString()
	if err != nil {
		return Value[I, F]{}, err
	}
	replacement, err := args[2].AsString()
	if err != nil {
		return Value[I, F]{}, err
	}
	re, err := compileRegex("str::regex_replace", pattern)
	if err != nil {
		return Value[I, F]{}, err
	}
	return StringValue[I, F](re.ReplaceAllString(subject, replacement)), nil
}

// builtinRandom returns a uniform sample from [0, 1).
func builtinRandom[I numeric.Integer[I, F], F numeric.Float[F]](arg Value[I, F]) (Value[I, F], error) {
	var zero F
	_, hasMin := zero.MinValue()
	_, hasMax := zero.MaxValue()
	return sampleFloat[I, F](arg, hasMin, hasMax)
}

// sampleFloat draws from [0, 1). The float type must report both bounds.
func sampleFloat[I numeric.Integer[I, F], F numeric.Float[F]](arg Value[I, F], hasMin, hasMax bool) (Value[I, F], error) {
	if err := arg.AsEmpty(); err != nil {
		return Value[I, F]{}, err
	}
	if !hasMin {
		return Value[I, F]{}, ErrNoMinValue
	}
	if !hasMax {
		return Value[I, F]{}, ErrNoMaxValue
	}
	var zero F
	return FloatValue[I, F](zero.FromFloat64(rand.Float64())), nil
}
