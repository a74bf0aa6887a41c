package expr

import (
	"strings"

	"github.com/randalmurphal/evalkit/pkg/evalkit/numeric"
)

// ValueType identifies the kind of a Value.
type ValueType int

const (
	// TypeEmpty is the type of the empty value. It is the zero ValueType.
	TypeEmpty ValueType = iota
	TypeString
	TypeFloat
	TypeInt
	TypeBoolean
	TypeTuple
)

// String returns the name used by the typeof built-in.
func (t ValueType) String() string {
	switch t {
	case TypeEmpty:
		return "empty"
	case TypeString:
		return "string"
	case TypeFloat:
		return "float"
	case TypeInt:
		return "int"
	case TypeBoolean:
		return "boolean"
	case TypeTuple:
		return "tuple"
	default:
		return "unknown"
	}
}

// Value is the result of evaluating an expression. The zero Value is Empty.
//
// Values are immutable: tuples are copied on construction and on access, so
// a Value read from a context can never alias the stored one.
type Value[I numeric.Integer[I, F], F numeric.Float[F]] struct {
	typ   ValueType
	str   string
	i     I
	f     F
	b     bool
	tuple []Value[I, F]
}

// DefaultValue is a Value over 64-bit integers and floats.
type DefaultValue = Value[numeric.Int64, numeric.Float64]

// StringValue returns a String value.
func StringValue[I numeric.Integer[I, F], F numeric.Float[F]](s string) Value[I, F] {
	return Value[I, F]{typ: TypeString, str: s}
}

// IntValue returns an Int value.
func IntValue[I numeric.Integer[I, F], F numeric.Float[F]](i I) Value[I, F] {
	return Value[I, F]{typ: TypeInt, i: i}
}

// FloatValue returns a Float value.
func FloatValue[I numeric.Integer[I, F], F numeric.Float[F]](f F) Value[I, F] {
	return Value[I, F]{typ: TypeFloat, f: f}
}

// BoolValue returns a Boolean value.
func BoolValue[I numeric.Integer[I, F], F numeric.Float[F]](b bool) Value[I, F] {
	return Value[I, F]{typ: TypeBoolean, b: b}
}

// TupleValue returns a Tuple holding a copy of values.
func TupleValue[I numeric.Integer[I, F], F numeric.Float[F]](values ...Value[I, F]) Value[I, F] {
	tuple := make([]Value[I, F], len(values))
	copy(tuple, values)
	return Value[I, F]{typ: TypeTuple, tuple: tuple}
}

// EmptyValue returns the Empty value.
func EmptyValue[I numeric.Integer[I, F], F numeric.Float[F]]() Value[I, F] {
	return Value[I, F]{}
}

// Shorthands for the default numeric types.

// Int returns a DefaultValue holding n.
func Int(n int64) DefaultValue { return IntValue[numeric.Int64, numeric.Float64](numeric.Int64(n)) }

// Float returns a DefaultValue holding f.
func Float(f float64) DefaultValue {
	return FloatValue[numeric.Int64, numeric.Float64](numeric.Float64(f))
}

// String returns a DefaultValue holding s.
func String(s string) DefaultValue { return StringValue[numeric.Int64, numeric.Float64](s) }

// Bool returns a DefaultValue holding b.
func Bool(b bool) DefaultValue { return BoolValue[numeric.Int64, numeric.Float64](b) }

// Tuple returns a DefaultValue tuple of values.
func Tuple(values ...DefaultValue) DefaultValue { return TupleValue(values...) }

// Empty returns the empty DefaultValue.
func Empty() DefaultValue { return DefaultValue{} }

// Type returns the kind of v.
func (v Value[I, F]) Type() ValueType { return v.typ }

func (v Value[I, F]) IsString() bool  { return v.typ == TypeString }
func (v Value[I, F]) IsInt() bool     { return v.typ == TypeInt }
func (v Value[I, F]) IsFloat() bool   { return v.typ == TypeFloat }
func (v Value[I, F]) IsNumber() bool  { return v.typ == TypeInt || v.typ == TypeFloat }
func (v Value[I, F]) IsBoolean() bool { return v.typ == TypeBoolean }
func (v Value[I, F]) IsTuple() bool   { return v.typ == TypeTuple }
func (v Value[I, F]) IsEmpty() bool   { return v.typ == TypeEmpty }

// AsString returns the string held by v, or a *TypeError.
func (v Value[I, F]) AsString() (string, error) {
	if v.typ != TypeString {
		return "", expected(v, TypeString)
	}
	return v.str, nil
}

// AsInt returns the integer held by v, or a *TypeError.
func (v Value[I, F]) AsInt() (I, error) {
	if v.typ != TypeInt {
		var zero I
		return zero, expected(v, TypeInt)
	}
	return v.i, nil
}

// AsFloat returns the float held by v, or a *TypeError. Ints are not converted.
func (v Value[I, F]) AsFloat() (F, error) {
	if v.typ != TypeFloat {
		var zero F
		return zero, expected(v, TypeFloat)
	}
	return v.f, nil
}

// AsNumber returns v as a float, converting Ints.
func (v Value[I, F]) AsNumber() (F, error) {
	switch v.typ {
	case TypeFloat:
		return v.f, nil
	case TypeInt:
		return v.i.AsFloat(), nil
	default:
		var zero F
		return zero, expected(v, TypeInt, TypeFloat)
	}
}

// AsBoolean returns the boolean held by v, or a *TypeError.
func (v Value[I, F]) AsBoolean() (bool, error) {
	if v.typ != TypeBoolean {
		return false, expected(v, TypeBoolean)
	}
	return v.b, nil
}

// AsTuple returns a copy of the tuple held by v, or a *TypeError.
func (v Value[I, F]) AsTuple() ([]Value[I, F], error) {
	if v.typ != TypeTuple {
		return nil, expected(v, TypeTuple)
	}
	tuple := make([]Value[I, F], len(v.tuple))
	copy(tuple, v.tuple)
	return tuple, nil
}

// AsFixedLenTuple is AsTuple with an arity check; a tuple of the wrong
// length yields an *ArityError.
func (v Value[I, F]) AsFixedLenTuple(n int) ([]Value[I, F], error) {
	tuple, err := v.AsTuple()
	if err != nil {
		return nil, err
	}
	if len(tuple) != n {
		return nil, &ArityError{Expected: n, Actual: len(tuple), Value: v}
	}
	return tuple, nil
}

// AsEmpty returns nil if v is Empty, or a *TypeError.
func (v Value[I, F]) AsEmpty() error {
	if v.typ != TypeEmpty {
		return expected(v, TypeEmpty)
	}
	return nil
}

// Equal reports structural equality. An Int never equals a Float, and NaN
// never equals anything.
func (v Value[I, F]) Equal(other Value[I, F]) bool {
	if v.typ != other.typ {
		return false
	}
	switch v.typ {
	case TypeString:
		return v.str == other.str
	case TypeInt:
		return v.i.Equal(other.i)
	case TypeFloat:
		return v.f.Equal(other.f)
	case TypeBoolean:
		return v.b == other.b
	case TypeTuple:
		if len(v.tuple) != len(other.tuple) {
			return false
		}
		for i := range v.tuple {
			if !v.tuple[i].Equal(other.tuple[i]) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// String renders v as expression source: strings are quoted and escaped,
// tuples are parenthesized and Empty is "()".
func (v Value[I, F]) String() string {
	var sb strings.Builder
	v.writeTo(&sb)
	return sb.String()
}

func (v Value[I, F]) writeTo(sb *strings.Builder) {
	switch v.typ {
	case TypeString:
		writeQuoted(sb, v.str)
	case TypeInt:
		sb.WriteString(v.i.String())
	case TypeFloat:
		sb.WriteString(v.f.String())
	case TypeBoolean:
		if v.b {
			sb.WriteString("true")
		} else {
			sb.WriteString("false")
		}
	case TypeTuple:
		sb.WriteByte('(')
		for i, item := range v.tuple {
			if i > 0 {
				sb.WriteString(", ")
			}
			item.writeTo(sb)
		}
		sb.WriteByte(')')
	default:
		sb.WriteString("()")
	}
}

// writeQuoted writes s as a string literal the lexer reads back verbatim.
func writeQuoted(sb *strings.Builder, s string) {
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		case '\r':
			sb.WriteString(`\r`)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
}
