package library

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/evalkit/pkg/evalkit/expr"
	"github.com/randalmurphal/evalkit/pkg/evalkit/numeric"
)

func constant(v expr.DefaultValue) expr.DefaultFunction {
	return expr.NewFunction(func(expr.DefaultValue) (expr.DefaultValue, error) { return v, nil })
}

func TestNew(t *testing.T) {
	l := NewDefault()
	assert.NotNil(t, l)
	assert.Equal(t, 0, l.Len())
	assert.Empty(t, l.Names())
}

func TestRegisterAndGet(t *testing.T) {
	l := NewDefault()
	require.NoError(t, l.Register("one", constant(expr.Int(1))))
	require.NoError(t, l.Register("str::pad", constant(expr.String("x"))))

	fn, ok := l.Get("one")
	require.True(t, ok)
	v, err := fn.Call(expr.Empty())
	require.NoError(t, err)
	assert.Equal(t, expr.Int(1), v)

	assert.True(t, l.Has("str::pad"))
	_, ok = l.Get("two")
	assert.False(t, ok)
	assert.Equal(t, 2, l.Len())
}

func TestRegisterOverwrite(t *testing.T) {
	l := NewDefault()
	l.MustRegister("f", constant(expr.Int(1))).
		MustRegister("f", constant(expr.Int(2)))

	fn, ok := l.Get("f")
	require.True(t, ok)
	v, _ := fn.Call(expr.Empty())
	assert.Equal(t, expr.Int(2), v)
	assert.Equal(t, 1, l.Len())
}

func TestRegister_InvalidName(t *testing.T) {
	tests := []struct {
		name string
		fn   string
	}{
		{"empty", ""},
		{"space", "a b"},
		{"operator", "a+b"},
		{"boolean literal", "true"},
		{"number", "42"},
		{"padded", " f "},
		{"string", `"f"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewDefault()
			err := l.Register(tt.fn, constant(expr.Empty()))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidName))
			assert.Equal(t, 0, l.Len())
		})
	}
}

func TestMustRegister_Panics(t *testing.T) {
	assert.Panics(t, func() {
		NewDefault().MustRegister("not valid", constant(expr.Empty()))
	})
}

func TestRegisterFunc(t *testing.T) {
	l := NewDefault()
	require.NoError(t, l.RegisterFunc("double", func(v expr.DefaultValue) (expr.DefaultValue, error) {
		n, err := v.AsInt()
		if err != nil {
			return expr.DefaultValue{}, err
		}
		return expr.Int(int64(n) * 2), nil
	}))

	c := expr.NewDefaultContext()
	require.NoError(t, l.Install(c))
	v, err := expr.EvalWithContext[numeric.Int64, numeric.Float64]("double(21)", c)
	require.NoError(t, err)
	assert.Equal(t, expr.Int(42), v)
}

func TestDelete(t *testing.T) {
	l := NewDefault()
	l.MustRegister("f", constant(expr.Empty()))
	l.Delete("f")
	l.Delete("missing")
	assert.False(t, l.Has("f"))
	assert.Equal(t, 0, l.Len())
}

func TestNamesSorted(t *testing.T) {
	l := NewDefault()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		l.MustRegister(name, constant(expr.Empty()))
	}
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, l.Names())

	var seen []string
	for name := range l.All() {
		seen = append(seen, name)
	}
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, seen)
}

func TestAll_EarlyStop(t *testing.T) {
	l := NewDefault()
	for _, name := range []string{"a", "b", "c"} {
		l.MustRegister(name, constant(expr.Empty()))
	}
	count := 0
	for range l.All() {
		count++
		if count == 2 {
			break
		}
	}
	assert.Equal(t, 2, count)
}

func TestAll_ModifyDuringIteration(t *testing.T) {
	l := NewDefault()
	l.MustRegister("a", constant(expr.Empty())).MustRegister("b", constant(expr.Empty()))

	count := 0
	for name := range l.All() {
		l.Delete(name)
		l.MustRegister(name+"_new", constant(expr.Empty()))
		count++
	}
	assert.Equal(t, 2, count)
	assert.Equal(t, []string{"a_new", "b_new"}, l.Names())
}

func TestMerge(t *testing.T) {
	base := NewDefault()
	base.MustRegister("f", constant(expr.Int(1))).MustRegister("g", constant(expr.Int(1)))
	extra := NewDefault()
	extra.MustRegister("g", constant(expr.Int(2))).MustRegister("h", constant(expr.Int(2)))

	base.Merge(extra)
	base.Merge(nil)
	base.Merge(base)

	assert.Equal(t, []string{"f", "g", "h"}, base.Names())
	fn, _ := base.Get("g")
	v, _ := fn.Call(expr.Empty())
	assert.Equal(t, expr.Int(2), v)
	assert.Equal(t, 2, extra.Len())
}

func TestInstall(t *testing.T) {
	l := NewDefault()
	l.MustRegister("answer", constant(expr.Int(42)))

	c := expr.NewDefaultContext()
	c.MustSetFunction("answer", constant(expr.Int(0))).
		MustSetFunction("other", constant(expr.Int(7)))
	require.NoError(t, l.Install(c))

	v, err := expr.EvalWithContext[numeric.Int64, numeric.Float64]("answer() + other()", c)
	require.NoError(t, err)
	assert.Equal(t, expr.Int(49), v)
}

func TestInstall_ReadOnlyContext(t *testing.T) {
	l := NewDefault()
	l.MustRegister("f", constant(expr.Empty()))

	err := l.Install(expr.EmptyContext[numeric.Int64, numeric.Float64]{})
	require.Error(t, err)
	assert.ErrorIs(t, err, expr.ErrContextNotMutable)
	assert.Contains(t, err.Error(), "install f")
}

func TestInstall_Empty(t *testing.T) {
	assert.NoError(t, NewDefault().Install(expr.EmptyContext[numeric.Int64, numeric.Float64]{}))
}

func TestConcurrentAccess(t *testing.T) {
	l := NewDefault()
	var wg sync.WaitGroup

	for i := range 50 {
		wg.Add(3)
		go func() {
			defer wg.Done()
			name := "f" + string(rune('a'+i%26))
			_ = l.Register(name, constant(expr.Int(int64(i))))
		}()
		go func() {
			defer wg.Done()
			_ = l.Install(expr.NewDefaultContext())
		}()
		go func() {
			defer wg.Done()
			_ = l.Names()
			_, _ = l.Get("fa")
		}()
	}
	wg.Wait()
	assert.Equal(t, 26, l.Len())
}
