package template

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/randalmurphal/evalkit/pkg/evalkit/expr"
	"github.com/randalmurphal/evalkit/pkg/evalkit/numeric"
)

// dollarPattern matches $name at the start of the remaining input.
var dollarPattern = regexp.MustCompile(`^\$([a-zA-Z_][a-zA-Z0-9_]*)`)

// CompileFunc builds an operator tree for an expression. Hosts pass a
// caching compiler so repeated placeholders are parsed once.
type CompileFunc[I numeric.Integer[I, F], F numeric.Float[F]] func(source string) (*expr.Node[I, F], error)

// Expander replaces placeholders in strings with evaluated expressions.
//
// Create with NewExpander() and configure with Option functions.
// Expander is safe for concurrent use after construction as long as the
// compile function is; the contexts passed to Expand are not shared by it.
type Expander[I numeric.Integer[I, F], F numeric.Float[F]] struct {
	compile CompileFunc[I, F]
	opts    options
}

// DefaultExpander uses the default numeric types.
type DefaultExpander = Expander[numeric.Int64, numeric.Float64]

// NewExpander creates a new Expander. A nil compile uses expr.BuildTree.
//
// Default configuration:
//   - ErrorAction: ErrorKeep (keep failing placeholders as-is)
//   - BraceStyle: enabled (${expression})
//   - DollarStyle: disabled ($name)
func NewExpander[I numeric.Integer[I, F], F numeric.Float[F]](compile CompileFunc[I, F], opts ...Option) *Expander[I, F] {
	if compile == nil {
		compile = expr.BuildTree[I, F]
	}
	e := &Expander[I, F]{
		compile: compile,
		opts: options{
			onError:    ErrorKeep,
			braceStyle: true,
		},
	}
	for _, opt := range opts {
		opt(&e.opts)
	}
	return e
}

// NewDefaultExpander creates an Expander over the default numeric types.
func NewDefaultExpander(opts ...Option) *DefaultExpander {
	return NewExpander[numeric.Int64, numeric.Float64](nil, opts...)
}

// Expand replaces every placeholder in s with its value in c.
//
// Placeholders are evaluated left to right against the same context, so
// an assignment in one is visible to the next. Strings are inserted raw,
// the empty value inserts nothing, and other values use their display
// form. "$${" produces a literal "${". An unterminated "${" is copied
// verbatim.
//
// An error is only returned with ErrorFail; the expanded string is
// returned alongside it.
func (e *Expander[I, F]) Expand(s string, c expr.Context[I, F]) (string, error) {
	if !strings.Contains(s, "$") {
		return s, nil
	}

	var sb strings.Builder
	sb.Grow(len(s))
	var failures []Failure

	for i := 0; i < len(s); {
		j := strings.IndexByte(s[i:], '$')
		if j < 0 {
			sb.WriteString(s[i:])
			break
		}
		sb.WriteString(s[i : i+j])
		i += j
		rest := s[i:]

		switch {
		case e.opts.braceStyle && strings.HasPrefix(rest, "$${"):
			sb.WriteString("${")
			i += 3

		case e.opts.braceStyle && strings.HasPrefix(rest, "${"):
			end := closingBrace(rest)
			if end < 0 {
				sb.WriteString(rest)
				i = len(s)
				continue
			}
			placeholder := rest[:end+1]
			source := strings.TrimSpace(rest[2:end])
			sb.WriteString(e.substitute(placeholder, source, func() (expr.Value[I, F], error) {
				tree, err := e.compile(source)
				if err != nil {
					return expr.Value[I, F]{}, err
				}
				return tree.EvalWithContext(c)
			}, &failures))
			i += end + 1

		case e.opts.dollarStyle && dollarPattern.MatchString(rest):
			m := dollarPattern.FindStringSubmatch(rest)
			name := m[1]
			sb.WriteString(e.substitute(m[0], name, func() (expr.Value[I, F], error) {
				v, ok := c.GetVariable(name)
				if !ok {
					return expr.Value[I, F]{}, &expr.LookupError{Name: name, Err: expr.ErrVariableNotFound}
				}
				return v, nil
			}, &failures))
			i += len(m[0])

		default:
			sb.WriteByte('$')
			i++
		}
	}

	if e.opts.onError == ErrorFail && len(failures) > 0 {
		return sb.String(), &EvalError{Failures: failures}
	}
	return sb.String(), nil
}

// substitute evaluates one placeholder and returns its replacement text.
func (e *Expander[I, F]) substitute(placeholder, source string, eval func() (expr.Value[I, F], error), failures *[]Failure) string {
	v, err := eval()
	if err == nil {
		return render(v)
	}
	*failures = append(*failures, Failure{Placeholder: placeholder, Expression: source, Err: err})
	if e.opts.onError == ErrorEmpty {
		return ""
	}
	return placeholder
}

// MustExpand expands s and panics on error.
//
// Use this with ErrorKeep or ErrorEmpty, which never return errors, or
// when every placeholder is known to succeed.
func (e *Expander[I, F]) MustExpand(s string, c expr.Context[I, F]) string {
	result, err := e.Expand(s, c)
	if err != nil {
		panic(fmt.Sprintf("template: %v", err))
	}
	return result
}

// ExpandAll expands every string in ss against c.
//
// On error (with ErrorFail), returns nil and the first error.
func (e *Expander[I, F]) ExpandAll(ss []string, c expr.Context[I, F]) ([]string, error) {
	if ss == nil {
		return nil, nil
	}

	results := make([]string, len(ss))
	for i, s := range ss {
		expanded, err := e.Expand(s, c)
		if err != nil {
			return nil, err
		}
		results[i] = expanded
	}
	return results, nil
}

// ExpandMap expands all string values of m recursively.
//
// Non-string values are copied as-is. Nested maps and []any are expanded.
// On error (with ErrorFail), returns nil and the first error.
func (e *Expander[I, F]) ExpandMap(m map[string]any, c expr.Context[I, F]) (map[string]any, error) {
	if m == nil {
		return nil, nil
	}

	result := make(map[string]any, len(m))
	for k, v := range m {
		expanded, err := e.expandValue(v, c)
		if err != nil {
			return nil, err
		}
		result[k] = expanded
	}
	return result, nil
}

func (e *Expander[I, F]) expandValue(v any, c expr.Context[I, F]) (any, error) {
	switch val := v.(type) {
	case string:
		return e.Expand(val, c)
	case map[string]any:
		return e.ExpandMap(val, c)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			expanded, err := e.expandValue(item, c)
			if err != nil {
				return nil, err
			}
			out[i] = expanded
		}
		return out, nil
	default:
		return v, nil
	}
}

func render[I numeric.Integer[I, F], F numeric.Float[F]](v expr.Value[I, F]) string {
	switch {
	case v.IsString():
		s, _ := v.AsString()
		return s
	case v.IsEmpty():
		return ""
	default:
		return v.String()
	}
}

// closingBrace returns the index of the '}' closing the placeholder that
// starts at s[0:2], skipping braces inside string literals, or -1.
func closingBrace(s string) int {
	inString := false
	for i := 2; i < len(s); i++ {
		switch ch := s[i]; {
		case inString && ch == '\\':
			i++
		case ch == '"':
			inString = !inString
		case !inString && ch == '}':
			return i
		}
	}
	return -1
}

// Failure describes one placeholder that could not be expanded.
type Failure struct {
	// Placeholder is the text as it appeared in the input.
	Placeholder string
	// Expression is the expression or variable name inside it.
	Expression string
	Err        error
}

// EvalError is returned with ErrorFail when placeholders fail.
type EvalError struct {
	Failures []Failure
}

// Error implements the error interface.
func (e *EvalError) Error() string {
	parts := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		parts[i] = fmt.Sprintf("%s: %v", f.Placeholder, f.Err)
	}
	return "template: " + strings.Join(parts, "; ")
}

// Unwrap returns the errors of every failure.
func (e *EvalError) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		errs[i] = f.Err
	}
	return errs
}

// defaultExpander is the package-level expander with default settings.
var defaultExpander = NewDefaultExpander()

// Expand expands s against c using the default expander.
// Failing placeholders are kept as-is.
//
// Example:
//
//	c := expr.NewDefaultContext()
//	c.MustSetVariable("name", expr.String("World"))
//	result := template.Expand("Hello ${name}, ${1 + 1}!", c)
//	// result: "Hello World, 2!"
func Expand(s string, c expr.Context[numeric.Int64, numeric.Float64]) string {
	result, _ := defaultExpander.Expand(s, c)
	return result
}
