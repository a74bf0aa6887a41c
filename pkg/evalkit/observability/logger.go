// Package observability provides structured logging, metrics, and tracing
// helpers for evalkit engines.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"log/slog"
	"time"

	"github.com/randalmurphal/evalkit/pkg/evalkit/expr"
)

// maxSourceLen bounds the expression text attached to log records.
const maxSourceLen = 120

// EnrichLogger adds evaluation context to a logger.
// Returns a new logger with eval_id and source fields.
//
// Example:
//
//	enriched := EnrichLogger(logger, "0b6f...", "a + 1")
//	enriched.Info("doing work") // includes eval_id, source
func EnrichLogger(logger *slog.Logger, evalID, source string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("eval_id", evalID),
		slog.String("source", TruncateSource(source)),
	)
}

// LogEvalStart logs the start of an evaluation.
func LogEvalStart(logger *slog.Logger, evalID string) {
	if logger == nil {
		return
	}
	logger.Debug("evaluation starting",
		slog.String("eval_id", evalID),
	)
}

// LogEvalComplete logs a successful evaluation.
func LogEvalComplete(logger *slog.Logger, evalID string, durationMs float64, resultType expr.ValueType) {
	if logger == nil {
		return
	}
	logger.Debug("evaluation completed",
		slog.String("eval_id", evalID),
		slog.Float64("duration_ms", durationMs),
		slog.String("result_type", resultType.String()),
	)
}

// LogEvalError logs a failed evaluation. The error kind is attached so
// that log pipelines can group failures without parsing messages.
func LogEvalError(logger *slog.Logger, evalID string, err error, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Warn("evaluation failed",
		slog.String("eval_id", evalID),
		slog.String("error", err.Error()),
		slog.String("error_kind", expr.KindOf(err).String()),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogCompile logs a freshly built operator tree.
func LogCompile(logger *slog.Logger, source string, durationMs float64, depth int) {
	if logger == nil {
		return
	}
	logger.Debug("expression compiled",
		slog.String("source", TruncateSource(source)),
		slog.Float64("duration_ms", durationMs),
		slog.Int("depth", depth),
	)
}

// LogCacheHit logs a compile served from the tree cache.
func LogCacheHit(logger *slog.Logger, source string) {
	if logger == nil {
		return
	}
	logger.Debug("compile cache hit",
		slog.String("source", TruncateSource(source)),
	)
}

// LogSnapshot logs a saved or restored context snapshot.
func LogSnapshot(logger *slog.Logger, op, name string, variables, sizeBytes int) {
	if logger == nil {
		return
	}
	logger.Info("context snapshot "+op,
		slog.String("snapshot", name),
		slog.Int("variables", variables),
		slog.Int("size_bytes", sizeBytes),
	)
}

// LogSnapshotError logs a snapshot failure.
func LogSnapshotError(logger *slog.Logger, op, name string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("context snapshot failed",
		slog.String("snapshot", name),
		slog.String("operation", op),
		slog.String("error", err.Error()),
	)
}

// TruncateSource shortens long expression text for log fields and span
// attributes.
func TruncateSource(source string) string {
	if len(source) <= maxSourceLen {
		return source
	}
	return source[:maxSourceLen] + "..."
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time in milliseconds.
//
// Example:
//
//	done := TimedOperation()
//	// ... do work ...
//	durationMs := done()
func TimedOperation() func() float64 {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start).Microseconds()) / 1000
	}
}
