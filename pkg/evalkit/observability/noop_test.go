package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/attribute"
)

func TestNoopMetrics(t *testing.T) {
	m := NoopMetrics{}
	ctx := context.Background()

	assert.NotPanics(t, func() {
		m.RecordEvaluation(ctx, time.Millisecond, nil)
		m.RecordEvaluation(ctx, time.Millisecond, errors.New("x"))
		m.RecordCompile(ctx, 0, true, nil)
		m.RecordSnapshot(ctx, "save", 10)
	})
}

func TestNoopSpanManager(t *testing.T) {
	m := NoopSpanManager{}
	ctx := context.Background()

	evalCtx, span := m.StartEvalSpan(ctx, "eval-1", "x")
	assert.Equal(t, ctx, evalCtx)
	assert.False(t, span.IsRecording())

	compileCtx, span := m.StartCompileSpan(ctx, "x")
	assert.Equal(t, ctx, compileCtx)

	assert.NotPanics(t, func() {
		m.AddSpanEvent(ctx, "event", attribute.String("k", "v"))
		m.EndSpanWithError(span, errors.New("x"))
	})
}
