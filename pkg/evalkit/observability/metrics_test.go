package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/randalmurphal/evalkit/pkg/evalkit/expr"
)

// setupMetricsTest creates a recorder backed by a manual reader.
func setupMetricsTest(t *testing.T) (MetricsRecorder, *sdkmetric.ManualReader) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			t.Logf("Error shutting down meter provider: %v", err)
		}
	})

	recorder := NewMetricsRecorder(provider)
	_, isNoop := recorder.(NoopMetrics)
	require.False(t, isNoop, "Expected real metrics recorder, got noop")
	return recorder, reader
}

// collectMetrics collects all metrics from the reader.
func collectMetrics(t *testing.T, reader *sdkmetric.ManualReader) *metricdata.ResourceMetrics {
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	return &rm
}

// findMetric finds a metric by name in the collected data.
func findMetric(rm *metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

// sumBy returns the counter value of the datapoint carrying key=value.
func sumBy(t *testing.T, rm *metricdata.ResourceMetrics, name, key string, value any) int64 {
	t.Helper()
	m := findMetric(rm, name)
	require.NotNil(t, m, name)

	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "Expected Sum type")

	var total int64
	for _, dp := range sum.DataPoints {
		for _, attr := range dp.Attributes.ToSlice() {
			if string(attr.Key) == key && attr.Value.AsInterface() == value {
				total += dp.Value
			}
		}
	}
	return total
}

func TestRecordEvaluation(t *testing.T) {
	m, reader := setupMetricsTest(t)
	ctx := context.Background()

	_, lookupErr := expr.Eval("missing")
	require.Error(t, lookupErr)

	m.RecordEvaluation(ctx, 2*time.Millisecond, nil)
	m.RecordEvaluation(ctx, time.Millisecond, nil)
	m.RecordEvaluation(ctx, time.Millisecond, lookupErr)

	rm := collectMetrics(t, reader)

	assert.Equal(t, int64(2), sumBy(t, rm, "evalkit.evaluations", "success", true))
	assert.Equal(t, int64(1), sumBy(t, rm, "evalkit.evaluations", "success", false))
	assert.Equal(t, int64(1), sumBy(t, rm, "evalkit.evaluation.errors", "error_kind", "lookup"))

	latency := findMetric(rm, "evalkit.evaluation.latency_ms")
	require.NotNil(t, latency)
	hist, ok := latency.Data.(metricdata.Histogram[float64])
	require.True(t, ok, "Expected Histogram type")
	require.NotEmpty(t, hist.DataPoints)
}

func TestRecordCompile(t *testing.T) {
	m, reader := setupMetricsTest(t)
	ctx := context.Background()

	m.RecordCompile(ctx, time.Millisecond, false, nil)
	m.RecordCompile(ctx, 0, true, nil)
	m.RecordCompile(ctx, 0, true, nil)
	m.RecordCompile(ctx, time.Millisecond, false, errors.New("syntax"))

	rm := collectMetrics(t, reader)

	assert.Equal(t, int64(2), sumBy(t, rm, "evalkit.compiles", "cached", true))
	assert.Equal(t, int64(2), sumBy(t, rm, "evalkit.compiles", "cached", false))
	assert.Equal(t, int64(1), sumBy(t, rm, "evalkit.compiles", "success", false))

	latency := findMetric(rm, "evalkit.compile.latency_ms")
	require.NotNil(t, latency)
	hist, ok := latency.Data.(metricdata.Histogram[float64])
	require.True(t, ok)

	var count uint64
	for _, dp := range hist.DataPoints {
		count += dp.Count
	}
	assert.Equal(t, uint64(2), count, "cached compiles are not timed")
}

func TestRecordSnapshot(t *testing.T) {
	m, reader := setupMetricsTest(t)

	m.RecordSnapshot(context.Background(), "save", 512)

	rm := collectMetrics(t, reader)
	size := findMetric(rm, "evalkit.snapshot.size_bytes")
	require.NotNil(t, size)

	hist, ok := size.Data.(metricdata.Histogram[int64])
	require.True(t, ok, "Expected Histogram type")
	require.Len(t, hist.DataPoints, 1)
	assert.Equal(t, int64(512), hist.DataPoints[0].Sum)
}

func TestNewMetricsRecorder_GlobalProvider(t *testing.T) {
	recorder := NewMetricsRecorder(nil)
	require.NotNil(t, recorder)
	assert.NotPanics(t, func() {
		recorder.RecordEvaluation(context.Background(), time.Millisecond, nil)
	})
}
