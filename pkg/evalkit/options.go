package evalkit

import (
	"log/slog"
	"time"

	"github.com/randalmurphal/evalkit/pkg/evalkit/config"
	"github.com/randalmurphal/evalkit/pkg/evalkit/observability"
	"github.com/randalmurphal/evalkit/pkg/evalkit/snapshot"
)

// engineConfig holds engine configuration.
type engineConfig struct {
	logger          *slog.Logger
	cacheSize       int
	cacheMaxAge     time.Duration
	maxDepth        int
	disableBuiltins bool
	metrics         observability.MetricsRecorder
	spans           observability.SpanManager
	store           snapshot.Store
}

// defaultEngineConfig returns the default engine configuration.
func defaultEngineConfig() engineConfig {
	return engineConfig{
		cacheSize: config.DefaultCacheSize,
		metrics:   observability.NoopMetrics{},
		spans:     observability.NoopSpanManager{},
	}
}

// Option configures an Engine.
type Option func(*engineConfig)

// WithLogger sets the logger for evaluation, compile and snapshot events.
// Default: nil (no logging)
func WithLogger(logger *slog.Logger) Option {
	return func(c *engineConfig) {
		c.logger = logger
	}
}

// WithCacheSize sets how many compiled trees are kept, keyed by source.
// Default: 256. Zero disables the cache.
func WithCacheSize(n int) Option {
	return func(c *engineConfig) {
		if n >= 0 {
			c.cacheSize = n
		}
	}
}

// WithCacheMaxAge sets how long a compiled tree stays cached.
// Default: 0 (no limit)
func WithCacheMaxAge(d time.Duration) Option {
	return func(c *engineConfig) {
		if d >= 0 {
			c.cacheMaxAge = d
		}
	}
}

// WithMaxDepth rejects expressions whose operator tree is higher than n,
// or whose parentheses and prefix operators nest deeper than n, with a
// *DepthError. Default: 0, meaning expr.DefaultMaxDepth. Values above
// expr.DefaultMaxDepth are capped to it.
//
// The limit is enforced while parsing, so input of any size is rejected
// before recursion can exhaust the stack.
func WithMaxDepth(n int) Option {
	return func(c *engineConfig) {
		if n >= 0 {
			c.maxDepth = n
		}
	}
}

// WithBuiltinsDisabled hides the built-in function catalog from contexts
// created by Engine.NewContext.
func WithBuiltinsDisabled(disabled bool) Option {
	return func(c *engineConfig) {
		c.disableBuiltins = disabled
	}
}

// WithMetrics enables OpenTelemetry metrics using the global meter provider.
// Default: disabled
func WithMetrics(enabled bool) Option {
	return func(c *engineConfig) {
		if enabled {
			c.metrics = observability.NewMetricsRecorder(nil)
		} else {
			c.metrics = observability.NoopMetrics{}
		}
	}
}

// WithMetricsRecorder sets a specific metrics recorder.
func WithMetricsRecorder(m observability.MetricsRecorder) Option {
	return func(c *engineConfig) {
		if m != nil {
			c.metrics = m
		}
	}
}

// WithTracing enables OpenTelemetry spans using the global tracer provider.
// Default: disabled
func WithTracing(enabled bool) Option {
	return func(c *engineConfig) {
		if enabled {
			c.spans = observability.NewSpanManager(nil)
		} else {
			c.spans = observability.NoopSpanManager{}
		}
	}
}

// WithSpanManager sets a specific span manager.
func WithSpanManager(m observability.SpanManager) Option {
	return func(c *engineConfig) {
		if m != nil {
			c.spans = m
		}
	}
}

// WithSnapshotStore sets the store used by SaveContext and LoadContext.
// The engine does not close a store passed this way.
func WithSnapshotStore(store snapshot.Store) Option {
	return func(c *engineConfig) {
		c.store = store
	}
}
