/*
Package evalkit embeds a small expression language into Go hosts.

# Overview

The expr subpackage holds the language itself: lexer, parser, evaluator,
values, contexts and built-in functions. This package wraps it in an
Engine for hosts that evaluate many expressions:

  - compiled operator trees are cached by source text
  - trees deeper than a configured limit are rejected
  - evaluations are logged with slog and measured with OpenTelemetry
  - context variables can be saved to and restored from a snapshot store
  - ${expression} templates are expanded through the same cache

# Basic Usage

	engine := evalkit.NewDefault(
	    evalkit.WithLogger(slog.Default()),
	    evalkit.WithMaxDepth(64),
	)

	c := engine.NewContext()
	c.MustSetVariable("price", expr.Int(120))

	ok, err := engine.EvaluateBoolean(ctx, "price > 100 && price < 200", c)

Evaluation errors are returned as produced by expr, so they can be
classified directly:

	_, err := engine.Evaluate(ctx, "1 / 0", c)
	expr.KindOf(err)                         // expr.KindArithmetic
	errors.Is(err, expr.ErrDivisionByZero)  // true

# Configuration

Engines are configured with functional options or from a YAML/JSON file:

	cfg, err := config.FromFile("evalkit.yaml")
	engine, err := evalkit.NewFromConfig[numeric.Int64, numeric.Float64](cfg)
	defer engine.Close()

See package config for the recognized keys.

# Snapshots

	engine := evalkit.NewDefault(evalkit.WithSnapshotStore(snapshot.NewMemoryStore()))
	_, err := engine.SaveContext(ctx, "session", c)
	...
	restored := engine.NewContext()
	_, err = engine.LoadContext(ctx, "session", restored)

Only variables are persisted; functions are closures and must be bound
again by the host.

# Host Functions

Functions registered in the engine's library are bound in every context
NewContext returns, including the one Evaluate creates for a nil context:

	engine.Library().MustRegister("discount", expr.NewFunction(discount))
	v, err := engine.Evaluate(ctx, "discount(120)", nil)

# Observability

Metrics and tracing are disabled by default. Enable them with WithMetrics
and WithTracing, which use the global OpenTelemetry providers, or pass
explicit recorders with WithMetricsRecorder and WithSpanManager.

# Thread Safety

An Engine is safe for concurrent use. Contexts are not: give each
goroutine its own context or synchronize access to a shared one.
*/
package evalkit
