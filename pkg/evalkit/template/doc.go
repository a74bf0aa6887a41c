/*
Package template interpolates evaluated expressions into strings.

# Overview

template replaces ${expression} placeholders with the value of the
expression evaluated against an expr.Context. It is meant for messages,
URLs and configuration values whose parts are computed by the host's
expressions.

# Basic Usage

	c := expr.NewDefaultContext()
	c.MustSetVariable("user", expr.String("ada")).
	    MustSetVariable("n", expr.Int(3))

	result := template.Expand("${user} has ${n * 2} items", c)
	// result: "ada has 6 items"

# Placeholders

  - ${expression} - any expression, including sequences and assignments
  - $name - a single variable, when enabled with WithDollarStyle(true)
  - $${ - a literal "${"

Braces inside string literals do not close a placeholder:

	template.Expand(`${str::to_uppercase("}")}`, c) // "}"

# Error Handling

Configure with WithErrorAction:

  - ErrorKeep: keep the failing placeholder (default)
  - ErrorEmpty: replace it with an empty string
  - ErrorFail: keep it and return an *EvalError listing every failure

Failures wrap the evaluation errors:

	exp := template.NewDefaultExpander(template.WithErrorAction(template.ErrorFail))
	_, err := exp.Expand("${1 / 0}", c)
	var evalErr *template.EvalError
	errors.As(err, &evalErr) // true; errors.Is(err, expr.ErrDivisionByZero) too

# Thread Safety

An Expander is safe for concurrent use. Placeholders may assign
variables, so a context shared between goroutines needs the same care as
any other evaluation.
*/
package template
