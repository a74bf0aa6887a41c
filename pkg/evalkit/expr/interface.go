package expr

import (
	"github.com/randalmurphal/evalkit/pkg/evalkit/numeric"
)

// Eval evaluates source with the default numeric types against a fresh
// context. Assignments succeed but are discarded with the context.
func Eval(source string) (DefaultValue, error) {
	return EvalWithContext[numeric.Int64, numeric.Float64](source, NewDefaultContext())
}

// EvalWithContext parses source and evaluates it against c. Assignments
// persist in c after the call returns, including those made before an
// error.
func EvalWithContext[I numeric.Integer[I, F], F numeric.Float[F]](source string, c Context[I, F]) (Value[I, F], error) {
	tree, err := BuildTree[I, F](source)
	if err != nil {
		return Value[I, F]{}, err
	}
	return tree.EvalWithContext(c)
}

// EvalString is Eval requiring a String result.
func EvalString(source string) (string, error) {
	v, err := Eval(source)
	if err != nil {
		return "", err
	}
	return v.AsString()
}

// EvalInt is Eval requiring an Int result.
func EvalInt(source string) (int64, error) {
	v, err := Eval(source)
	if err != nil {
		return 0, err
	}
	i, err := v.AsInt()
	return int64(i), err
}

// EvalFloat is Eval requiring a Float result.
func EvalFloat(source string) (float64, error) {
	v, err := Eval(source)
	if err != nil {
		return 0, err
	}
	f, err := v.AsFloat()
	return float64(f), err
}

// EvalNumber is Eval converting an Int or Float result to float64.
func EvalNumber(source string) (float64, error) {
	v, err := Eval(source)
	if err != nil {
		return 0, err
	}
	f, err := v.AsNumber()
	return float64(f), err
}

// EvalBoolean is Eval requiring a Boolean result.
func EvalBoolean(source string) (bool, error) {
	v, err := Eval(source)
	if err != nil {
		return false, err
	}
	return v.AsBoolean()
}

// EvalTuple is Eval requiring a Tuple result.
func EvalTuple(source string) ([]DefaultValue, error) {
	v, err := Eval(source)
	if err != nil {
		return nil, err
	}
	return v.AsTuple()
}

// EvalEmpty is Eval requiring an Empty result.
func EvalEmpty(source string) error {
	v, err := Eval(source)
	if err != nil {
		return err
	}
	return v.AsEmpty()
}
