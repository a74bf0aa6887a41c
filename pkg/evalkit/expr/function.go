package expr

import (
	"github.com/randalmurphal/evalkit/pkg/evalkit/numeric"
)

// Function is a callable bound in a Context. The argument is the evaluated
// call argument: Empty for f(), the value itself for f(x), and a Tuple for
// f(x, y, ...).
//
// Functions are invoked concurrently when a context is shared between
// goroutines, so the wrapped closure must not mutate shared state.
type Function[I numeric.Integer[I, F], F numeric.Float[F]] struct {
	fn func(Value[I, F]) (Value[I, F], error)
}

// DefaultFunction is a Function over the default numeric types.
type DefaultFunction = Function[numeric.Int64, numeric.Float64]

// NewFunction wraps fn.
func NewFunction[I numeric.Integer[I, F], F numeric.Float[F]](fn func(Value[I, F]) (Value[I, F], error)) Function[I, F] {
	return Function[I, F]{fn: fn}
}

// Call invokes the function. Calling the zero Function returns Empty.
func (f Function[I, F]) Call(arg Value[I, F]) (Value[I, F], error) {
	if f.fn == nil {
		return EmptyValue[I, F](), nil
	}
	return f.fn(arg)
}

// Clone returns an independent handle to the same closure. Captured state
// is shared, not copied.
func (f Function[I, F]) Clone() Function[I, F] {
	return Function[I, F]{fn: f.fn}
}
