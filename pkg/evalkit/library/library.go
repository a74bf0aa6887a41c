package library

import (
	"errors"
	"fmt"
	"iter"
	"maps"
	"slices"
	"sync"

	"github.com/randalmurphal/evalkit/pkg/evalkit/expr"
	"github.com/randalmurphal/evalkit/pkg/evalkit/numeric"
)

// ErrInvalidName is returned when a function name is not a single
// identifier token.
var ErrInvalidName = errors.New("invalid function name")

// Library is a thread-safe set of named host functions.
// It is read-heavy: functions are registered at startup and installed into
// many short-lived contexts.
type Library[I numeric.Integer[I, F], F numeric.Float[F]] struct {
	mu    sync.RWMutex
	funcs map[string]expr.Function[I, F]
}

// DefaultLibrary holds functions over the default numeric types.
type DefaultLibrary = Library[numeric.Int64, numeric.Float64]

// New creates an empty library.
func New[I numeric.Integer[I, F], F numeric.Float[F]]() *Library[I, F] {
	return &Library[I, F]{funcs: make(map[string]expr.Function[I, F])}
}

// NewDefault creates an empty library over the default numeric types.
func NewDefault() *DefaultLibrary {
	return New[numeric.Int64, numeric.Float64]()
}

// Register adds or replaces fn under name.
// Names must lex as one identifier, so "str::pad" is accepted and "a b" is not.
func (l *Library[I, F]) Register(name string, fn expr.Function[I, F]) error {
	if err := validateName[I, F](name); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.funcs[name] = fn
	return nil
}

// RegisterFunc is Register for a plain Go function.
func (l *Library[I, F]) RegisterFunc(name string, fn func(expr.Value[I, F]) (expr.Value[I, F], error)) error {
	return l.Register(name, expr.NewFunction(fn))
}

// MustRegister is like Register but panics on an invalid name.
// It returns l for chaining.
func (l *Library[I, F]) MustRegister(name string, fn expr.Function[I, F]) *Library[I, F] {
	if err := l.Register(name, fn); err != nil {
		panic(err)
	}
	return l
}

// Get returns the function registered under name.
func (l *Library[I, F]) Get(name string) (expr.Function[I, F], bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	fn, ok := l.funcs[name]
	return fn, ok
}

// Has reports whether name is registered.
func (l *Library[I, F]) Has(name string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.funcs[name]
	return ok
}

// Delete removes name. Deleting a missing name is a no-op.
func (l *Library[I, F]) Delete(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.funcs, name)
}

// Len returns the number of registered functions.
func (l *Library[I, F]) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.funcs)
}

// Names returns the registered names in sorted order.
func (l *Library[I, F]) Names() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Sorted(maps.Keys(l.funcs))
}

// All iterates a copy of the library in name order, so the library may be
// modified during iteration.
func (l *Library[I, F]) All() iter.Seq2[string, expr.Function[I, F]] {
	l.mu.RLock()
	snapshot := maps.Clone(l.funcs)
	l.mu.RUnlock()

	return func(yield func(string, expr.Function[I, F]) bool) {
		for _, name := range slices.Sorted(maps.Keys(snapshot)) {
			if !yield(name, snapshot[name]) {
				return
			}
		}
	}
}

// Merge copies every function of other into l, replacing same-named entries.
func (l *Library[I, F]) Merge(other *Library[I, F]) {
	if other == nil || other == l {
		return
	}
	for name, fn := range other.All() {
		l.mu.Lock()
		l.funcs[name] = fn
		l.mu.Unlock()
	}
}

// Install binds every function into c, in name order. Functions already
// bound in c under the same name are replaced.
func (l *Library[I, F]) Install(c expr.Context[I, F]) error {
	for name, fn := range l.All() {
		if err := c.SetFunction(name, fn.Clone()); err != nil {
			return fmt.Errorf("install %s: %w", name, err)
		}
	}
	return nil
}

func validateName[I numeric.Integer[I, F], F numeric.Float[F]](name string) error {
	tokens, err := expr.Tokenize[I, F](name)
	if err != nil || len(tokens) != 1 || tokens[0].Kind != expr.TokenIdentifier || tokens[0].Identifier != name {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}
