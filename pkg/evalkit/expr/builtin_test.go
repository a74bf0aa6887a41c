package expr

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/evalkit/pkg/evalkit/numeric"
)

func TestBuiltin_Math(t *testing.T) {
	tests := []struct {
		source string
		want   float64
	}{
		{"math::ln(1)", 0},
		{"math::log(8, 2)", 3},
		{"math::log2(8)", 3},
		{"math::log10(1000)", 3},
		{"math::exp(0)", 1},
		{"math::exp2(10)", 1024},
		{"math::pow(2, 10)", 1024},
		{"math::cos(0)", 1},
		{"math::acos(1)", 0},
		{"math::cosh(0)", 1},
		{"math::acosh(1)", 0},
		{"math::sin(0)", 0},
		{"math::asin(0)", 0},
		{"math::sinh(0)", 0},
		{"math::asinh(0)", 0},
		{"math::tan(0)", 0},
		{"math::atan(0)", 0},
		{"math::tanh(0)", 0},
		{"math::atanh(0)", 0},
		{"math::atan2(0, 1)", 0},
		{"math::sqrt(16)", 4},
		{"math::cbrt(27)", 3},
		{"math::hypot(3, 4)", 5},
		{"floor(2.7)", 2},
		{"floor(-2.5)", -3},
		{"round(2.5)", 3},
		{"round(-2.5)", -3},
		{"ceil(2.1)", 3},
		{"floor(3)", 3},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			got, err := EvalFloat(tt.source)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestBuiltin_FloatClassification(t *testing.T) {
	c := NewDefaultContext().
		MustSetVariable("nan", Float(math.NaN())).
		MustSetVariable("inf", Float(math.Inf(1)))

	tests := []struct {
		source string
		want   bool
	}{
		{"math::is_nan(nan)", true},
		{"math::is_nan(1)", false},
		{"math::is_finite(1.5)", true},
		{"math::is_finite(inf)", false},
		{"math::is_infinite(inf)", true},
		{"math::is_infinite(nan)", false},
		{"math::is_normal(1.0)", true},
		{"math::is_normal(0.0)", false},
		{"math::is_normal(1e-310)", false},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			got, err := evalIn(tt.source, c)
			require.NoError(t, err)
			assert.Equal(t, Bool(tt.want), got)
		})
	}
}

func TestBuiltin_MathArgumentErrors(t *testing.T) {
	_, err := Eval(`math::sqrt("x")`)
	assert.Equal(t, KindType, KindOf(err))

	_, err = Eval("math::pow(2)")
	assert.Equal(t, KindType, KindOf(err))

	_, err = Eval("math::pow(1, 2, 3)")
	var arityErr *ArityError
	require.True(t, errors.As(err, &arityErr))
	assert.Equal(t, 2, arityErr.Expected)
	assert.Equal(t, 3, arityErr.Actual)
}

func TestBuiltin_Typeof(t *testing.T) {
	tests := map[string]string{
		`typeof("a")`:  "string",
		"typeof(1.0)":  "float",
		"typeof(1)":    "int",
		"typeof(true)": "boolean",
		"typeof(1, 2)": "tuple",
		"typeof()":     "empty",
	}

	for source, want := range tests {
		got, err := EvalString(source)
		require.NoError(t, err, source)
		assert.Equal(t, want, got, source)
	}
}

func TestBuiltin_MinMax(t *testing.T) {
	tests := []struct {
		source string
		want   DefaultValue
	}{
		{"min(1, 2.5, 2)", Int(1)},
		{"min(3, 2.5, 4)", Float(2.5)},
		{"min(2, 2.0)", Int(2)},
		{"min(5)", Int(5)},
		{"min(1.5, 0.5)", Float(0.5)},
		{"max(1, 2.5, 2)", Float(2.5)},
		{"max(3, 2.5, 1)", Int(3)},
		{"max(2, 2.0)", Int(2)},
		{"max(-1, -2)", Int(-1)},
		{"max(9223372036854775807, 1.0)", Int(math.MaxInt64)},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			got, err := Eval(tt.source)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuiltin_MinMaxErrors(t *testing.T) {
	_, err := Eval("min()")
	assert.ErrorIs(t, err, ErrNoMinValue)
	assert.Equal(t, KindBound, KindOf(err))

	_, err = Eval("max()")
	assert.ErrorIs(t, err, ErrNoMaxValue)

	_, err = Eval(`min(1, "a")`)
	assert.Equal(t, KindType, KindOf(err))
}

// if is an ordinary function, so both branches are evaluated before it
// selects one.
func TestBuiltin_IfEvaluatesBothBranches(t *testing.T) {
	c := NewDefaultContext()

	got, err := evalIn("if(true, (a = 1), (b = 2))", c)
	require.NoError(t, err)
	assert.Equal(t, Int(1), got)

	a, ok := c.GetVariable("a")
	require.True(t, ok)
	assert.Equal(t, Int(1), a)
	b, ok := c.GetVariable("b")
	require.True(t, ok)
	assert.Equal(t, Int(2), b)

	_, err = Eval("if(true, 1, 1 / 0)")
	assert.ErrorIs(t, err, ErrDivisionByZero)
}

func TestBuiltin_IfErrors(t *testing.T) {
	got, err := Eval(`if(1 > 2, "yes", "no")`)
	require.NoError(t, err)
	assert.Equal(t, String("no"), got)

	_, err = Eval("if(true, 1)")
	var arityErr *ArityError
	assert.True(t, errors.As(err, &arityErr))

	_, err = Eval("if(1, 2, 3)")
	assert.Equal(t, KindType, KindOf(err))
}

func TestBuiltin_Len(t *testing.T) {
	tests := []struct {
		source string
		want   int64
	}{
		{`len("abc")`, 3},
		{`len("")`, 0},
		{`len("héllo")`, 6},
		{"len((1, 2, 3))", 3},
		{"len(1, 2)", 2},
	}

	for _, tt := range tests {
		got, err := EvalInt(tt.source)
		require.NoError(t, err, tt.source)
		assert.Equal(t, tt.want, got, tt.source)
	}

	_, err := Eval("len(1)")
	var typeErr *TypeError
	require.True(t, errors.As(err, &typeErr))
	assert.Equal(t, []ValueType{TypeString, TypeTuple}, typeErr.Expected)
}

func TestBuiltin_Strings(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{`str::to_lowercase("HeLLo")`, "hello"},
		{`str::to_uppercase("HeLLo")`, "HELLO"},
		{`str::trim("  x y \n")`, "x y"},
		{`str::from("raw")`, "raw"},
		{"str::from(1.5)", "1.5"},
		{"str::from(3)", "3"},
		{`str::from(1, "a")`, `(1, "a")`},
		{"str::from()", "()"},
		{`str::regex_replace("a1b22c", "[0-9]+", "#")`, "a#b#c"},
		{`str::regex_replace("john smith", "(\\w+) (\\w+)", "$2 $1")`, "smith john"},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			got, err := EvalString(tt.source)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuiltin_RegexMatches(t *testing.T) {
	got, err := EvalBoolean(`str::regex_matches("foobar", "^foo")`)
	require.NoError(t, err)
	assert.True(t, got)

	got, err = EvalBoolean(`str::regex_matches("foobar", "^bar")`)
	require.NoError(t, err)
	assert.False(t, got)
}

func TestBuiltin_InvalidRegexIsExternal(t *testing.T) {
	_, err := Eval(`str::regex_matches("x", "(")`)
	require.Error(t, err)
	assert.Equal(t, KindExternal, KindOf(err))

	var extErr *ExternalError
	require.True(t, errors.As(err, &extErr))
	assert.Equal(t, "str::regex_matches", extErr.Function)

	_, err = Eval(`str::regex_replace("x", "[", "y")`)
	assert.Equal(t, KindExternal, KindOf(err))
}

func TestBuiltin_Random(t *testing.T) {
	for range 100 {
		f, err := EvalFloat("random()")
		require.NoError(t, err)
		assert.GreaterOrEqual(t, f, 0.0)
		assert.Less(t, f, 1.0)
	}

	_, err := Eval("random(9)")
	assert.Equal(t, KindType, KindOf(err))
}

func TestBuiltin_Random_RequiresBounds(t *testing.T) {
	tests := []struct {
		name           string
		hasMin, hasMax bool
		wantErr        error
	}{
		{"both bounds", true, true, nil},
		{"no lower bound", false, true, ErrNoMinValue},
		{"no upper bound", true, false, ErrNoMaxValue},
		{"unbounded", false, false, ErrNoMinValue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := sampleFloat[numeric.Int64, numeric.Float64](Empty(), tt.hasMin, tt.hasMax)
			if tt.wantErr == nil {
				require.NoError(t, err)
				assert.True(t, v.IsFloat())
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, KindBound, KindOf(err))
		})
	}
}

func TestBuiltin_Bitwise(t *testing.T) {
	tests := []struct {
		source string
		want   int64
	}{
		{"bitand(12, 10)", 8},
		{"bitor(12, 10)", 14},
		{"bitxor(12, 10)", 6},
		{"bitnot(0)", -1},
		{"shl(1, 10)", 1024},
		{"shr(1024, 3)", 128},
		{"shr(-8, 1)", -4},
	}

	for _, tt := range tests {
		got, err := EvalInt(tt.source)
		require.NoError(t, err, tt.source)
		assert.Equal(t, tt.want, got, tt.source)
	}
}

func TestBuiltin_BitwiseErrors(t *testing.T) {
	_, err := Eval("shl(1, 64)")
	assert.ErrorIs(t, err, ErrOverflow)

	_, err = Eval("shr(1, -1)")
	assert.ErrorIs(t, err, ErrOverflow)

	_, err = Eval("bitand(1.0, 2)")
	assert.Equal(t, KindType, KindOf(err))

	_, err = Eval("bitnot(1, 2)")
	assert.Equal(t, KindType, KindOf(err))
}

func TestBuiltin_Bounds(t *testing.T) {
	got, err := Eval("int::max_value()")
	require.NoError(t, err)
	assert.Equal(t, Int(math.MaxInt64), got)

	got, err = Eval("int::min_value()")
	require.NoError(t, err)
	assert.Equal(t, Int(math.MinInt64), got)

	f, err := EvalFloat("float::max_value()")
	require.NoError(t, err)
	assert.True(t, math.IsInf(f, 1))

	f, err = EvalFloat("float::min_value()")
	require.NoError(t, err)
	assert.True(t, math.IsInf(f, -1))
}

func TestBuiltin_BoundsOfUnboundedInteger(t *testing.T) {
	c := NewMapContext[numeric.BigInt, numeric.Float64]()

	_, err := EvalWithContext[numeric.BigInt, numeric.Float64]("int::max_value()", c)
	assert.ErrorIs(t, err, ErrNoMaxValue)
	assert.Equal(t, KindBound, KindOf(err))

	_, err = EvalWithContext[numeric.BigInt, numeric.Float64]("int::min_value()", c)
	assert.ErrorIs(t, err, ErrNoMinValue)
}

func TestBuiltin_DisabledBuiltins(t *testing.T) {
	c := NewDefaultContext()
	c.SetBuiltinsDisabled(true)

	_, err := evalIn("math::sqrt(4)", c)
	assert.ErrorIs(t, err, ErrFunctionNotFound)

	c.SetBuiltinsDisabled(false)
	_, err = evalIn("math::sqrt(4)", c)
	assert.NoError(t, err)
}

func TestBuiltin_NamesResolve(t *testing.T) {
	for _, name := range BuiltinNames {
		_, ok := builtin[numeric.Int64, numeric.Float64](name)
		assert.True(t, ok, name)
	}

	_, ok := builtin[numeric.Int64, numeric.Float64]("math::nope")
	assert.False(t, ok)
}
