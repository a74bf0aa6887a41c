package evalkit

import (
	"errors"
	"fmt"

	"github.com/randalmurphal/evalkit/pkg/evalkit/expr"
)

// Sentinel errors for engine operations.
var (
	// ErrNilContext indicates a nil context.Context was passed.
	ErrNilContext = errors.New("context cannot be nil")

	// ErrTreeTooDeep indicates an expression nested or chained past the
	// depth limit. It is the parser's sentinel, so both errors.Is checks
	// match.
	ErrTreeTooDeep = expr.ErrTreeTooDeep

	// ErrNoSnapshotStore indicates a snapshot operation on an engine
	// configured without a store.
	ErrNoSnapshotStore = errors.New("no snapshot store configured")
)

// DepthError reports an expression deeper than WithMaxDepth allows. The
// parser stops at the first level past the limit, so Depth is Max+1.
type DepthError struct {
	// Depth is the depth at which parsing stopped.
	Depth int
	// Max is the effective limit.
	Max int
	// Err is the parser's *expr.SyntaxError locating the offending token.
	Err error
}

// Error implements the error interface.
func (e *DepthError) Error() string {
	return fmt.Sprintf("%v: depth %d exceeds %d", ErrTreeTooDeep, e.Depth, e.Max)
}

// Unwrap returns the parser error, or ErrTreeTooDeep when there is none.
func (e *DepthError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrTreeTooDeep
}

// SnapshotError wraps errors from snapshot operations.
type SnapshotError struct {
	// Name is the snapshot name.
	Name string
	// Op is the operation that failed ("capture", "save", "load", "restore").
	Op string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *SnapshotError) Error() string {
	return fmt.Sprintf("snapshot %s %s: %v", e.Op, e.Name, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *SnapshotError) Unwrap() error {
	return e.Err
}
