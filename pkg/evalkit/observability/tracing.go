package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/randalmurphal/evalkit/pkg/evalkit/expr"
)

// SpanManager handles trace span lifecycle.
// Use NewSpanManager() for OTel tracing or NoopSpanManager{} when disabled.
type SpanManager interface {
	// StartEvalSpan starts a span for one evaluation.
	StartEvalSpan(ctx context.Context, evalID, source string) (context.Context, trace.Span)

	// StartCompileSpan starts a span for building an operator tree.
	// It is a child of the evaluation span when ctx carries one.
	StartCompileSpan(ctx context.Context, source string) (context.Context, trace.Span)

	// EndSpanWithError completes a span, optionally recording an error.
	EndSpanWithError(span trace.Span, err error)

	// AddSpanEvent adds an event to the current span in context.
	AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue)
}

// otelSpanManager implements SpanManager using OpenTelemetry.
type otelSpanManager struct {
	tracer trace.Tracer
}

// NewSpanManager returns a SpanManager that uses OpenTelemetry.
// A nil provider selects the global one.
func NewSpanManager(provider trace.TracerProvider) SpanManager {
	if provider == nil {
		provider = otel.GetTracerProvider()
	}
	return &otelSpanManager{tracer: provider.Tracer(ScopeName)}
}

// StartEvalSpan starts a span for one evaluation.
func (m *otelSpanManager) StartEvalSpan(ctx context.Context, evalID, source string) (context.Context, trace.Span) {
	return m.tracer.Start(ctx, "evalkit.evaluate",
		trace.WithAttributes(
			attribute.String("eval.id", evalID),
			attribute.String("eval.source", TruncateSource(source)),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// StartCompileSpan starts a span for building an operator tree.
func (m *otelSpanManager) StartCompileSpan(ctx context.Context, source string) (context.Context, trace.Span) {
	return m.tracer.Start(ctx, "evalkit.compile",
		trace.WithAttributes(
			attribute.String("eval.source", TruncateSource(source)),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// EndSpanWithError completes a span, optionally recording an error.
func (m *otelSpanManager) EndSpanWithError(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err, trace.WithAttributes(
			attribute.String("error.kind", expr.KindOf(err).String()),
		))
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// AddSpanEvent adds an event to the current span.
func (m *otelSpanManager) AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.AddEvent(name, trace.WithAttributes(attrs...))
}
