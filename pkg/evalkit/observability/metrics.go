package observability

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/randalmurphal/evalkit/pkg/evalkit/expr"
)

// ScopeName is the instrumentation scope used for meters and tracers.
const ScopeName = "github.com/randalmurphal/evalkit"

// MetricsRecorder records evalkit metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordEvaluation records an evaluation with its duration and error status.
	RecordEvaluation(ctx context.Context, duration time.Duration, err error)

	// RecordCompile records a compile request. cached is true when the
	// tree came from the cache.
	RecordCompile(ctx context.Context, duration time.Duration, cached bool, err error)

	// RecordSnapshot records a snapshot save or load.
	RecordSnapshot(ctx context.Context, op string, sizeBytes int64)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	evaluations    metric.Int64Counter
	evalLatency    metric.Float64Histogram
	evalErrors     metric.Int64Counter
	compiles       metric.Int64Counter
	compileLatency metric.Float64Histogram
	snapshotSize   metric.Int64Histogram
}

// newOtelMetrics creates the instruments on the given provider.
func newOtelMetrics(provider metric.MeterProvider) (*otelMetrics, error) {
	meter := provider.Meter(ScopeName)

	evaluations, err := meter.Int64Counter("evalkit.evaluations",
		metric.WithDescription("Number of evaluations"),
	)
	if err != nil {
		return nil, err
	}

	evalLatency, err := meter.Float64Histogram("evalkit.evaluation.latency_ms",
		metric.WithDescription("Evaluation latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	evalErrors, err := meter.Int64Counter("evalkit.evaluation.errors",
		metric.WithDescription("Number of failed evaluations by error kind"),
	)
	if err != nil {
		return nil, err
	}

	compiles, err := meter.Int64Counter("evalkit.compiles",
		metric.WithDescription("Number of compile requests"),
	)
	if err != nil {
		return nil, err
	}

	compileLatency, err := meter.Float64Histogram("evalkit.compile.latency_ms",
		metric.WithDescription("Compile latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	snapshotSize, err := meter.Int64Histogram("evalkit.snapshot.size_bytes",
		metric.WithDescription("Encoded size of snapshot variables in bytes"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		evaluations:    evaluations,
		evalLatency:    evalLatency,
		evalErrors:     evalErrors,
		compiles:       compiles,
		compileLatency: compileLatency,
		snapshotSize:   snapshotSize,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// A nil provider selects the global one. If instrument creation fails, a
// no-op recorder is returned.
func NewMetricsRecorder(provider metric.MeterProvider) MetricsRecorder {
	if provider == nil {
		provider = otel.GetMeterProvider()
	}
	m, err := newOtelMetrics(provider)
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordEvaluation records an evaluation.
func (m *otelMetrics) RecordEvaluation(ctx context.Context, duration time.Duration, err error) {
	attrs := metric.WithAttributes(attribute.Bool("success", err == nil))
	m.evaluations.Add(ctx, 1, attrs)
	m.evalLatency.Record(ctx, durationMs(duration), attrs)

	if err != nil {
		m.evalErrors.Add(ctx, 1, metric.WithAttributes(
			attribute.String("error_kind", expr.KindOf(err).String()),
		))
	}
}

// RecordCompile records a compile request.
func (m *otelMetrics) RecordCompile(ctx context.Context, duration time.Duration, cached bool, err error) {
	attrs := metric.WithAttributes(
		attribute.Bool("cached", cached),
		attribute.Bool("success", err == nil),
	)
	m.compiles.Add(ctx, 1, attrs)
	if !cached {
		m.compileLatency.Record(ctx, durationMs(duration), attrs)
	}
}

// RecordSnapshot records a snapshot save or load.
func (m *otelMetrics) RecordSnapshot(ctx context.Context, op string, sizeBytes int64) {
	m.snapshotSize.Record(ctx, sizeBytes, metric.WithAttributes(
		attribute.String("operation", op),
	))
}

func durationMs(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}
