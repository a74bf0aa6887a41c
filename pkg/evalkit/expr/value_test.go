package expr

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/evalkit/pkg/evalkit/numeric"
)

func TestValue_ZeroIsEmpty(t *testing.T) {
	var v DefaultValue

	assert.True(t, v.IsEmpty())
	assert.Equal(t, TypeEmpty, v.Type())
	assert.Equal(t, Empty(), v)
	assert.NoError(t, v.AsEmpty())
}

func TestValue_Accessors(t *testing.T) {
	s, err := String("x").AsString()
	require.NoError(t, err)
	assert.Equal(t, "x", s)

	i, err := Int(3).AsInt()
	require.NoError(t, err)
	assert.Equal(t, numeric.Int64(3), i)

	f, err := Float(1.5).AsFloat()
	require.NoError(t, err)
	assert.Equal(t, numeric.Float64(1.5), f)

	n, err := Int(3).AsNumber()
	require.NoError(t, err)
	assert.Equal(t, numeric.Float64(3), n)

	b, err := Bool(true).AsBoolean()
	require.NoError(t, err)
	assert.True(t, b)
}

func TestValue_AccessorTypeErrors(t *testing.T) {
	tests := []struct {
		name     string
		call     func() error
		expected []ValueType
	}{
		{"string", func() error { _, err := Int(1).AsString(); return err }, []ValueType{TypeString}},
		{"int", func() error { _, err := Float(1).AsInt(); return err }, []ValueType{TypeInt}},
		{"float", func() error { _, err := Int(1).AsFloat(); return err }, []ValueType{TypeFloat}},
		{"number", func() error { _, err := String("1").AsNumber(); return err }, []ValueType{TypeInt, TypeFloat}},
		{"boolean", func() error { _, err := Int(0).AsBoolean(); return err }, []ValueType{TypeBoolean}},
		{"tuple", func() error { _, err := Int(0).AsTuple(); return err }, []ValueType{TypeTuple}},
		{"empty", func() error { return Int(0).AsEmpty() }, []ValueType{TypeEmpty}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			var typeErr *TypeError
			require.True(t, errors.As(err, &typeErr))
			assert.Equal(t, tt.expected, typeErr.Expected)
			assert.Equal(t, KindType, KindOf(err))
		})
	}
}

func TestValue_FixedLenTuple(t *testing.T) {
	v := Tuple(Int(1), Int(2))

	items, err := v.AsFixedLenTuple(2)
	require.NoError(t, err)
	assert.Len(t, items, 2)

	_, err = v.AsFixedLenTuple(3)
	var arityErr *ArityError
	require.True(t, errors.As(err, &arityErr))
	assert.Equal(t, 3, arityErr.Expected)
	assert.Equal(t, 2, arityErr.Actual)
	assert.Contains(t, arityErr.Error(), "(1, 2)")

	_, err = Int(1).AsFixedLenTuple(1)
	assert.Equal(t, KindType, KindOf(err))
}

func TestValue_TuplesAreImmutable(t *testing.T) {
	items := []DefaultValue{Int(1), Int(2)}
	v := Tuple(items...)
	items[0] = Int(99)

	got, err := v.AsTuple()
	require.NoError(t, err)
	assert.Equal(t, Int(1), got[0])

	got[1] = Int(99)
	again, _ := v.AsTuple()
	assert.Equal(t, Int(2), again[1])
}

func TestValue_Equal(t *testing.T) {
	tests := []struct {
		name string
		a, b DefaultValue
		want bool
	}{
		{"same int", Int(1), Int(1), true},
		{"int vs float", Int(1), Float(1), false},
		{"nan", Float(math.NaN()), Float(math.NaN()), false},
		{"strings", String("a"), String("a"), true},
		{"nested tuples", Tuple(Int(1), Tuple(String("x"))), Tuple(Int(1), Tuple(String("x"))), true},
		{"tuple lengths", Tuple(Int(1)), Tuple(Int(1), Int(2)), false},
		{"empties", Empty(), Empty(), true},
		{"empty vs empty tuple", Empty(), Tuple(), false},
		{"booleans", Bool(true), Bool(false), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Equal(tt.b))
		})
	}
}

func TestValue_String(t *testing.T) {
	tests := []struct {
		v    DefaultValue
		want string
	}{
		{Int(-3), "-3"},
		{Float(2), "2.0"},
		{Float(0.5), "0.5"},
		{Float(1e300), "1e+300"},
		{Float(math.Inf(1)), "+Inf"},
		{String("a\"b\\c\nd"), `"a\"b\\c\nd"`},
		{Bool(false), "false"},
		{Tuple(Int(1), String("x"), Empty()), `(1, "x", ())`},
		{Empty(), "()"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.v.String())
	}
}

func TestValue_LiteralRoundTrip(t *testing.T) {
	values := []DefaultValue{
		Int(0),
		Int(math.MaxInt64),
		Float(0),
		Float(1.5),
		Float(0.1),
		Float(123456789.125),
		Float(1e-9),
		Float(6.02214076e23),
		Float(math.SmallestNonzeroFloat64),
		Float(math.MaxFloat64),
		Bool(true),
		Bool(false),
		String(""),
		String("tab\there \"quoted\" back\\slash\r\n"),
		String("ünïcödé"),
	}

	for _, v := range values {
		t.Run(v.String(), func(t *testing.T) {
			got, err := Eval(v.String())
			require.NoError(t, err)
			assert.True(t, v.Equal(got), "%s reparsed as %s", v, got)
		})
	}
}

func TestValue_JSON(t *testing.T) {
	values := []DefaultValue{
		Int(math.MinInt64),
		Float(2.5),
		Float(math.Inf(-1)),
		String("hi \"there\""),
		Bool(true),
		Tuple(Int(1), Tuple(Float(0.5), Empty()), String("x")),
		Tuple(),
		Empty(),
	}

	for _, v := range values {
		t.Run(v.String(), func(t *testing.T) {
			data, err := json.Marshal(v)
			require.NoError(t, err)

			var decoded DefaultValue
			require.NoError(t, json.Unmarshal(data, &decoded))
			assert.True(t, v.Equal(decoded), "%s decoded as %s", v, decoded)
		})
	}
}

func TestValue_JSONWireFormat(t *testing.T) {
	data, err := json.Marshal(Int(5))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"int","value":"5"}`, string(data))

	data, err = json.Marshal(Tuple(Bool(true), Empty()))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"tuple","value":[{"type":"boolean","value":true},{"type":"empty"}]}`, string(data))
}

func TestValue_JSONNaN(t *testing.T) {
	data, err := json.Marshal(Float(math.NaN()))
	require.NoError(t, err)

	var decoded DefaultValue
	require.NoError(t, json.Unmarshal(data, &decoded))
	f, err := decoded.AsFloat()
	require.NoError(t, err)
	assert.True(t, f.IsNaN())
}

func TestValue_JSONErrors(t *testing.T) {
	var v DefaultValue

	assert.Error(t, json.Unmarshal([]byte(`{"type":"complex"}`), &v))
	assert.Error(t, json.Unmarshal([]byte(`{"type":"int","value":"nope"}`), &v))
	assert.Error(t, json.Unmarshal([]byte(`{"type":"int","value":5}`), &v))
	assert.Error(t, json.Unmarshal([]byte(`[]`), &v))
}

func TestValue_BigIntJSON(t *testing.T) {
	big, err := numeric.BigInt{}.Parse("123456789012345678901234567890")
	require.NoError(t, err)
	v := IntValue[numeric.BigInt, numeric.Float64](big)

	data, err := json.Marshal(v)
	require.NoError(t, err)

	var decoded Value[numeric.BigInt, numeric.Float64]
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, v.Equal(decoded))
}
