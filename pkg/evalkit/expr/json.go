package expr

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/randalmurphal/evalkit/pkg/evalkit/numeric"
)

// jsonValue is the wire form of a Value. Numbers travel as strings so that
// integer types wider than float64 survive the trip.
type jsonValue struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value,omitempty"`
}

// MarshalJSON implements json.Marshaler, producing {"type":"int","value":"5"}.
func (v Value[I, F]) MarshalJSON() ([]byte, error) {
	out := jsonValue{Type: v.typ.String()}

	var (
		payload any
		err     error
	)
	switch v.typ {
	case TypeString:
		payload = v.str
	case TypeInt:
		payload = v.i.String()
	case TypeFloat:
		payload = v.f.String()
	case TypeBoolean:
		payload = v.b
	case TypeTuple:
		items := v.tuple
		if items == nil {
			items = []Value[I, F]{}
		}
		payload = items
	}
	if payload != nil {
		if out.Value, err = json.Marshal(payload); err != nil {
			return nil, err
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value[I, F]) UnmarshalJSON(data []byte) error {
	var in jsonValue
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	switch in.Type {
	case TypeString.String():
		var s string
		if err := json.Unmarshal(in.Value, &s); err != nil {
			return fmt.Errorf("decode string value: %w", err)
		}
		*v = StringValue[I, F](s)

	case TypeInt.String():
		var s string
		if err := json.Unmarshal(in.Value, &s); err != nil {
			return fmt.Errorf("decode int value: %w", err)
		}
		var zero I
		i, err := zero.Parse(s)
		if err != nil {
			return err
		}
		*v = IntValue[I, F](i)

	case TypeFloat.String():
		var s string
		if err := json.Unmarshal(in.Value, &s); err != nil {
			return fmt.Errorf("decode float value: %w", err)
		}
		f, err := parseFloatValue[F](s)
		if err != nil {
			return err
		}
		*v = FloatValue[I, F](f)

	case TypeBoolean.String():
		var b bool
		if err := json.Unmarshal(in.Value, &b); err != nil {
			return fmt.Errorf("decode boolean value: %w", err)
		}
		*v = BoolValue[I, F](b)

	case TypeTuple.String():
		var items []Value[I, F]
		if err := json.Unmarshal(in.Value, &items); err != nil {
			return fmt.Errorf("decode tuple value: %w", err)
		}
		*v = Value[I, F]{typ: TypeTuple, tuple: items}

	case TypeEmpty.String():
		*v = EmptyValue[I, F]()

	default:
		return fmt.Errorf("unknown value type %q", in.Type)
	}
	return nil
}

// parseFloatValue accepts the non-finite spellings that Parse rejects as
// literals.
func parseFloatValue[F numeric.Float[F]](s string) (F, error) {
	var zero F
	switch s {
	case "NaN":
		return zero.FromFloat64(math.NaN()), nil
	case "+Inf", "Inf":
		return zero.FromFloat64(math.Inf(1)), nil
	case "-Inf":
		return zero.FromFloat64(math.Inf(-1)), nil
	}
	return zero.Parse(s)
}
