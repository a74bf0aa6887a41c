package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/evalkit/pkg/evalkit/config"
	"github.com/randalmurphal/evalkit/pkg/evalkit/expr"
	"github.com/randalmurphal/evalkit/pkg/evalkit/numeric"
)

func defaultVariables(t *testing.T, cfg config.Config) map[string]expr.DefaultValue {
	t.Helper()
	vars, err := config.Variables[numeric.Int64, numeric.Float64](cfg)
	require.NoError(t, err)
	return vars
}

func TestVariables_YAML(t *testing.T) {
	cfg, err := config.FromYAML([]byte(`
variables:
  limit: 10
  ratio: 0.5
  name: evalkit
  enabled: true
  pair: [1, "two", [3.5]]
  nothing: null
`))
	require.NoError(t, err)

	vars := defaultVariables(t, cfg)
	want := map[string]string{
		"limit":   "10",
		"ratio":   "0.5",
		"name":    `"evalkit"`,
		"enabled": "true",
		"pair":    `(1, "two", (3.5))`,
		"nothing": "()",
	}
	require.Len(t, vars, len(want))
	for name, display := range want {
		assert.Equal(t, display, vars[name].String(), name)
	}
	assert.True(t, vars["limit"].IsInt())
	assert.True(t, vars["ratio"].IsFloat())
}

func TestVariables_JSONKeepsIntegerKinds(t *testing.T) {
	cfg, err := config.FromJSON([]byte(`{"variables": {"a": 1, "b": 1.0, "c": 2e3}}`))
	require.NoError(t, err)

	vars := defaultVariables(t, cfg)
	assert.True(t, vars["a"].IsInt())
	assert.True(t, vars["b"].IsFloat())
	assert.True(t, vars["c"].IsFloat())
}

func TestVariables_Missing(t *testing.T) {
	vars := defaultVariables(t, config.New(nil))
	assert.Empty(t, vars)
}

func TestVariables_Errors(t *testing.T) {
	tests := []struct {
		name    string
		data    map[string]any
		wantErr string
	}{
		{"not a map", map[string]any{"variables": []any{1}}, "expected a map"},
		{"nested map", map[string]any{"variables": map[string]any{"x": map[string]any{}}}, "variables.x: unsupported value type"},
		{"int overflow", map[string]any{"variables": map[string]any{"x": uint64(1 << 63)}}, "variables.x: invalid integer"},
		{"bad tuple item", map[string]any{"variables": map[string]any{"x": []any{1, struct{}{}}}}, "variables.x: [1]: unsupported value type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Variables[numeric.Int64, numeric.Float64](config.New(tt.data))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestVariables_BigInt(t *testing.T) {
	cfg := config.New(map[string]any{"variables": map[string]any{"huge": uint64(1 << 63)}})

	vars, err := config.Variables[numeric.BigInt, numeric.Float64](cfg)
	require.NoError(t, err)
	assert.Equal(t, "9223372036854775808", vars["huge"].String())
}

func TestSeedContext(t *testing.T) {
	cfg := config.New(map[string]any{"variables": map[string]any{"x": 2, "y": 3}})

	c := expr.NewDefaultContext()
	require.NoError(t, config.SeedContext[numeric.Int64, numeric.Float64](cfg, c))

	v, err := expr.EvalWithContext[numeric.Int64, numeric.Float64]("x * y", c)
	require.NoError(t, err)
	assert.True(t, v.Equal(expr.Int(6)))
}

func TestSeedContext_ReadOnly(t *testing.T) {
	cfg := config.New(map[string]any{"variables": map[string]any{"x": 2}})

	err := config.SeedContext[numeric.Int64, numeric.Float64](cfg, expr.EmptyContext[numeric.Int64, numeric.Float64]{})
	assert.ErrorIs(t, err, expr.ErrContextNotMutable)
}
