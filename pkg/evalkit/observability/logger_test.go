package observability

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/evalkit/pkg/evalkit/expr"
)

// captureLogger returns a debug-level JSON logger and a function that
// decodes every record written so far.
func captureLogger() (*slog.Logger, func() []map[string]any) {
	buf := &bytes.Buffer{}
	logger := slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	records := func() []map[string]any {
		var out []map[string]any
		for _, line := range bytes.Split(buf.Bytes(), []byte("\n")) {
			if len(line) == 0 {
				continue
			}
			var m map[string]any
			if err := json.Unmarshal(line, &m); err == nil {
				out = append(out, m)
			}
		}
		return out
	}
	return logger, records
}

func lastRecord(t *testing.T, records func() []map[string]any) map[string]any {
	t.Helper()
	all := records()
	require.NotEmpty(t, all)
	return all[len(all)-1]
}

func TestEnrichLogger(t *testing.T) {
	t.Run("adds eval_id and source", func(t *testing.T) {
		logger, records := captureLogger()

		EnrichLogger(logger, "eval-1", "a + 1").Info("test message")

		record := lastRecord(t, records)
		assert.Equal(t, "eval-1", record["eval_id"])
		assert.Equal(t, "a + 1", record["source"])
		assert.Equal(t, "test message", record["msg"])
	})

	t.Run("nil logger returns nil", func(t *testing.T) {
		assert.Nil(t, EnrichLogger(nil, "eval-1", "a"))
	})

	t.Run("long source is truncated", func(t *testing.T) {
		logger, records := captureLogger()
		source := strings.Repeat("x + ", 100)

		EnrichLogger(logger, "eval-1", source).Info("test")

		got := lastRecord(t, records)["source"].(string)
		assert.Len(t, got, maxSourceLen+3)
		assert.True(t, strings.HasSuffix(got, "..."))
	})
}

func TestLogHelpers(t *testing.T) {
	_, divErr := expr.Eval("1 / 0")
	require.Error(t, divErr)

	tests := []struct {
		name      string
		log       func(*slog.Logger)
		wantLevel string
		wantMsg   string
		wantAttrs map[string]any
	}{
		{
			name:      "eval start",
			log:       func(l *slog.Logger) { LogEvalStart(l, "e1") },
			wantLevel: "DEBUG",
			wantMsg:   "evaluation starting",
			wantAttrs: map[string]any{"eval_id": "e1"},
		},
		{
			name:      "eval complete",
			log:       func(l *slog.Logger) { LogEvalComplete(l, "e1", 1.5, expr.TypeInt) },
			wantLevel: "DEBUG",
			wantMsg:   "evaluation completed",
			wantAttrs: map[string]any{"eval_id": "e1", "duration_ms": 1.5, "result_type": "int"},
		},
		{
			name:      "eval error",
			log:       func(l *slog.Logger) { LogEvalError(l, "e1", divErr, 0.25) },
			wantLevel: "WARN",
			wantMsg:   "evaluation failed",
			wantAttrs: map[string]any{"eval_id": "e1", "error": "division by zero: 1 / 0", "error_kind": "arithmetic"},
		},
		{
			name:      "compile",
			log:       func(l *slog.Logger) { LogCompile(l, "1 + 2", 0.1, 2) },
			wantLevel: "DEBUG",
			wantMsg:   "expression compiled",
			wantAttrs: map[string]any{"source": "1 + 2", "depth": float64(2)},
		},
		{
			name:      "cache hit",
			log:       func(l *slog.Logger) { LogCacheHit(l, "1 + 2") },
			wantLevel: "DEBUG",
			wantMsg:   "compile cache hit",
			wantAttrs: map[string]any{"source": "1 + 2"},
		},
		{
			name:      "snapshot",
			log:       func(l *slog.Logger) { LogSnapshot(l, "saved", "session", 3, 120) },
			wantLevel: "INFO",
			wantMsg:   "context snapshot saved",
			wantAttrs: map[string]any{"snapshot": "session", "variables": float64(3), "size_bytes": float64(120)},
		},
		{
			name:      "snapshot error",
			log:       func(l *slog.Logger) { LogSnapshotError(l, "load", "session", errors.New("disk gone")) },
			wantLevel: "WARN",
			wantMsg:   "context snapshot failed",
			wantAttrs: map[string]any{"snapshot": "session", "operation": "load", "error": "disk gone"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, records := captureLogger()
			tt.log(logger)

			record := lastRecord(t, records)
			assert.Equal(t, tt.wantLevel, record["level"])
			assert.Equal(t, tt.wantMsg, record["msg"])
			for k, v := range tt.wantAttrs {
				assert.Equal(t, v, record[k], k)
			}
		})

		t.Run(tt.name+" with nil logger", func(t *testing.T) {
			assert.NotPanics(t, func() { tt.log(nil) })
		})
	}
}

func TestTimedOperation(t *testing.T) {
	done := TimedOperation()
	time.Sleep(5 * time.Millisecond)
	elapsed := done()

	assert.GreaterOrEqual(t, elapsed, 5.0)
	assert.Less(t, elapsed, 1000.0, fmt.Sprintf("elapsed %v", elapsed))
}
