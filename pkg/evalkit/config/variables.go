package config

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/randalmurphal/evalkit/pkg/evalkit/expr"
	"github.com/randalmurphal/evalkit/pkg/evalkit/numeric"
)

// Variables converts the "variables" map of c into expression values.
// A missing key yields an empty map.
func Variables[I numeric.Integer[I, F], F numeric.Float[F]](c Config) (map[string]expr.Value[I, F], error) {
	raw, ok := c.data[KeyVariables]
	if !ok || raw == nil {
		return map[string]expr.Value[I, F]{}, nil
	}
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s: expected a map, got %T", KeyVariables, raw)
	}

	out := make(map[string]expr.Value[I, F], len(m))
	for _, name := range slices.Sorted(maps.Keys(m)) {
		v, err := ValueOf[I, F](m[name])
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", KeyVariables, name, err)
		}
		out[name] = v
	}
	return out, nil
}

// SeedContext binds every configured variable in c.
func SeedContext[I numeric.Integer[I, F], F numeric.Float[F]](cfg Config, c expr.Context[I, F]) error {
	vars, err := Variables[I, F](cfg)
	if err != nil {
		return err
	}
	for _, name := range slices.Sorted(maps.Keys(vars)) {
		if err := c.SetVariable(name, vars[name]); err != nil {
			return err
		}
	}
	return nil
}

// ValueOf converts a decoded YAML or JSON value into an expression value.
// Sequences become tuples and null becomes the empty value.
func ValueOf[I numeric.Integer[I, F], F numeric.Float[F]](raw any) (expr.Value[I, F], error) {
	var zeroF F

	switch val := raw.(type) {
	case nil:
		return expr.EmptyValue[I, F](), nil
	case string:
		return expr.StringValue[I, F](val), nil
	case bool:
		return expr.BoolValue[I, F](val), nil
	case int:
		return parseInt[I, F](strconv.Itoa(val))
	case int64:
		return parseInt[I, F](strconv.FormatInt(val, 10))
	case uint64:
		return parseInt[I, F](strconv.FormatUint(val, 10))
	case float64:
		return expr.FloatValue[I, F](zeroF.FromFloat64(val)), nil
	case json.Number:
		s := val.String()
		if strings.ContainsAny(s, ".eE") {
			f, err := zeroF.Parse(s)
			if err != nil {
				return expr.Value[I, F]{}, fmt.Errorf("invalid float %s: %w", s, err)
			}
			return expr.FloatValue[I, F](f), nil
		}
		return parseInt[I, F](s)
	case []any:
		items := make([]expr.Value[I, F], 0, len(val))
		for i, item := range val {
			v, err := ValueOf[I, F](item)
			if err != nil {
				return expr.Value[I, F]{}, fmt.Errorf("[%d]: %w", i, err)
			}
			items = append(items, v)
		}
		return expr.TupleValue(items...), nil
	default:
		return expr.Value[I, F]{}, fmt.Errorf("unsupported value type %T", raw)
	}
}

func parseInt[I numeric.Integer[I, F], F numeric.Float[F]](s string) (expr.Value[I, F], error) {
	var zero I
	n, err := zero.Parse(s)
	if err != nil {
		return expr.Value[I, F]{}, fmt.Errorf("invalid integer %s: %w", s, err)
	}
	return expr.IntValue[I, F](n), nil
}
