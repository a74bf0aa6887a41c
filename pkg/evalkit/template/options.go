package template

// ErrorAction specifies how to handle a placeholder whose expression fails.
type ErrorAction int

const (
	// ErrorKeep keeps the placeholder as-is.
	// This is the default behavior.
	ErrorKeep ErrorAction = iota

	// ErrorEmpty replaces the placeholder with an empty string.
	ErrorEmpty

	// ErrorFail keeps the placeholder and makes Expand return an *EvalError
	// listing every failed placeholder.
	ErrorFail
)

type options struct {
	onError     ErrorAction
	braceStyle  bool
	dollarStyle bool
}

// Option configures an Expander.
type Option func(*options)

// WithErrorAction sets how failing placeholders are handled.
//
// Default: ErrorKeep
//
// Example:
//
//	exp := template.NewDefaultExpander(template.WithErrorAction(template.ErrorFail))
//	_, err := exp.Expand("${missing}", ctx)
//	// err: "template: ${missing}: variable not found: missing"
func WithErrorAction(action ErrorAction) Option {
	return func(o *options) {
		o.onError = action
	}
}

// WithBraceStyle enables or disables ${expression} placeholders.
//
// Default: true (enabled)
func WithBraceStyle(enabled bool) Option {
	return func(o *options) {
		o.braceStyle = enabled
	}
}

// WithDollarStyle enables or disables $name placeholders, which read a
// single variable.
//
// Default: false (disabled), so prices such as "$5" are left alone.
//
// Example:
//
//	exp := template.NewDefaultExpander(template.WithDollarStyle(true))
//	result, _ := exp.Expand("port $port", ctx)
func WithDollarStyle(enabled bool) Option {
	return func(o *options) {
		o.dollarStyle = enabled
	}
}
