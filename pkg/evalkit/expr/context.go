package expr

import (
	"fmt"
	"iter"
	"maps"
	"slices"

	"github.com/randalmurphal/evalkit/pkg/evalkit/numeric"
)

// Context is the environment an expression is evaluated against.
//
// Implementations are not required to be safe for concurrent use. An
// evaluation holds the context for its whole duration; callers that share
// a context between goroutines must serialize evaluations themselves.
type Context[I numeric.Integer[I, F], F numeric.Float[F]] interface {
	// GetVariable returns the value bound to name.
	GetVariable(name string) (Value[I, F], bool)
	// SetVariable binds name to v, overwriting any previous binding.
	SetVariable(name string, v Value[I, F]) error
	// GetFunction returns the function bound to name.
	GetFunction(name string) (Function[I, F], bool)
	// SetFunction binds name to fn, overwriting any previous binding.
	SetFunction(name string, fn Function[I, F]) error
}

// builtinSwitch is implemented by contexts that can turn off the built-in
// function catalog.
type builtinSwitch interface {
	BuiltinsDisabled() bool
}

func builtinsEnabled[I numeric.Integer[I, F], F numeric.Float[F]](c Context[I, F]) bool {
	if s, ok := c.(builtinSwitch); ok {
		return !s.BuiltinsDisabled()
	}
	return true
}

// MapContext is a mutable Context backed by two maps. The zero value is an
// empty context ready to use.
type MapContext[I numeric.Integer[I, F], F numeric.Float[F]] struct {
	variables        map[string]Value[I, F]
	functions        map[string]Function[I, F]
	builtinsDisabled bool
}

// DefaultContext is a MapContext over the default numeric types.
type DefaultContext = MapContext[numeric.Int64, numeric.Float64]

// NewMapContext returns an empty MapContext.
func NewMapContext[I numeric.Integer[I, F], F numeric.Float[F]]() *MapContext[I, F] {
	return &MapContext[I, F]{
		variables: make(map[string]Value[I, F]),
		functions: make(map[string]Function[I, F]),
	}
}

// NewDefaultContext returns an empty DefaultContext.
func NewDefaultContext() *DefaultContext {
	return NewMapContext[numeric.Int64, numeric.Float64]()
}

// GetVariable implements Context.
func (c *MapContext[I, F]) GetVariable(name string) (Value[I, F], bool) {
	v, ok := c.variables[name]
	return v, ok
}

// SetVariable implements Context. It never fails.
func (c *MapContext[I, F]) SetVariable(name string, v Value[I, F]) error {
	if c.variables == nil {
		c.variables = make(map[string]Value[I, F])
	}
	c.variables[name] = v
	return nil
}

// GetFunction implements Context.
func (c *MapContext[I, F]) GetFunction(name string) (Function[I, F], bool) {
	fn, ok := c.functions[name]
	return fn, ok
}

// SetFunction implements Context. It never fails.
func (c *MapContext[I, F]) SetFunction(name string, fn Function[I, F]) error {
	if c.functions == nil {
		c.functions = make(map[string]Function[I, F])
	}
	c.functions[name] = fn
	return nil
}

// MustSetVariable is SetVariable without the error, for building contexts
// in a single expression.
func (c *MapContext[I, F]) MustSetVariable(name string, v Value[I, F]) *MapContext[I, F] {
	_ = c.SetVariable(name, v)
	return c
}

// MustSetFunction is SetFunction without the error.
func (c *MapContext[I, F]) MustSetFunction(name string, fn Function[I, F]) *MapContext[I, F] {
	_ = c.SetFunction(name, fn)
	return c
}

// SetBuiltinsDisabled turns the built-in function catalog off or on.
func (c *MapContext[I, F]) SetBuiltinsDisabled(disabled bool) {
	c.builtinsDisabled = disabled
}

// BuiltinsDisabled reports whether built-in functions are hidden.
func (c *MapContext[I, F]) BuiltinsDisabled() bool {
	return c.builtinsDisabled
}

// Variables yields the variable bindings in name order.
func (c *MapContext[I, F]) Variables() iter.Seq2[string, Value[I, F]] {
	return func(yield func(string, Value[I, F]) bool) {
		for _, name := range slices.Sorted(maps.Keys(c.variables)) {
			if !yield(name, c.variables[name]) {
				return
			}
		}
	}
}

// FunctionNames yields the names of bound functions in order.
func (c *MapContext[I, F]) FunctionNames() iter.Seq[string] {
	return slices.Values(slices.Sorted(maps.Keys(c.functions)))
}

// Len returns the number of variable bindings.
func (c *MapContext[I, F]) Len() int {
	return len(c.variables)
}

// ClearVariables removes every variable binding.
func (c *MapContext[I, F]) ClearVariables() {
	clear(c.variables)
}

// ClearFunctions removes every function binding.
func (c *MapContext[I, F]) ClearFunctions() {
	clear(c.functions)
}

// Clone returns a context with copies of both maps. Values are immutable
// and function handles are cloned, so the copy is independent.
func (c *MapContext[I, F]) Clone() *MapContext[I, F] {
	clone := &MapContext[I, F]{
		variables:        maps.Clone(c.variables),
		functions:        make(map[string]Function[I, F], len(c.functions)),
		builtinsDisabled: c.builtinsDisabled,
	}
	for name, fn := range c.functions {
		clone.functions[name] = fn.Clone()
	}
	return clone
}

// EmptyContext is a read-only Context with no bindings. Any assignment
// fails with ErrContextNotMutable. Built-in functions stay available
// unless NoBuiltins is set.
type EmptyContext[I numeric.Integer[I, F], F numeric.Float[F]] struct {
	NoBuiltins bool
}

// GetVariable implements Context.
func (EmptyContext[I, F]) GetVariable(string) (Value[I, F], bool) {
	return Value[I, F]{}, false
}

// SetVariable implements Context.
func (EmptyContext[I, F]) SetVariable(name string, _ Value[I, F]) error {
	return fmt.Errorf("%w: cannot assign variable %s", ErrContextNotMutable, name)
}

// GetFunction implements Context.
func (EmptyContext[I, F]) GetFunction(string) (Function[I, F], bool) {
	return Function[I, F]{}, false
}

// SetFunction implements Context.
func (EmptyContext[I, F]) SetFunction(name string, _ Function[I, F]) error {
	return fmt.Errorf("%w: cannot bind function %s", ErrContextNotMutable, name)
}

// BuiltinsDisabled reports whether built-in functions are hidden.
func (c EmptyContext[I, F]) BuiltinsDisabled() bool {
	return c.NoBuiltins
}

var (
	_ Context[numeric.Int64, numeric.Float64] = (*DefaultContext)(nil)
	_ Context[numeric.Int64, numeric.Float64] = EmptyContext[numeric.Int64, numeric.Float64]{}
)
