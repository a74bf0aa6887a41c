package config

import (
	"encoding/json"
	"math"
	"time"
)

// Keys understood by Settings.
const (
	KeyCacheSize       = "cache_size"
	KeyCacheMaxAge     = "cache_max_age"
	KeyMaxDepth        = "max_depth"
	KeyMetrics         = "metrics"
	KeyTracing         = "tracing"
	KeySnapshotPath    = "snapshot_path"
	KeyDisableBuiltins = "disable_builtins"
	KeyVariables       = "variables"
)

// DefaultCacheSize is the compiled-tree cache size used when cache_size is unset.
const DefaultCacheSize = 256

// Config wraps a map[string]any for type-safe value extraction.
// All accessor methods return default values if the key is missing
// or the value cannot be converted to the requested type.
type Config struct {
	data map[string]any
}

// New creates a Config from the given map.
// If data is nil, an empty Config is returned.
func New(data map[string]any) Config {
	if data == nil {
		data = make(map[string]any)
	}
	return Config{data: data}
}

// Settings is the typed view of the engine keys.
type Settings struct {
	CacheSize       int
	CacheMaxAge     time.Duration
	MaxDepth        int
	Metrics         bool
	Tracing         bool
	SnapshotPath    string
	DisableBuiltins bool
}

// Settings extracts the engine keys, applying defaults for missing ones.
// A negative cache_size or max_depth is treated as zero.
func (c Config) Settings() Settings {
	return Settings{
		CacheSize:       max(c.Int(KeyCacheSize, DefaultCacheSize), 0),
		CacheMaxAge:     c.Duration(KeyCacheMaxAge, 0),
		MaxDepth:        max(c.Int(KeyMaxDepth, 0), 0),
		Metrics:         c.Bool(KeyMetrics, false),
		Tracing:         c.Bool(KeyTracing, false),
		SnapshotPath:    c.String(KeySnapshotPath, ""),
		DisableBuiltins: c.Bool(KeyDisableBuiltins, false),
	}
}

// String returns the string value for key, or defaultVal if missing or not a string.
func (c Config) String(key, defaultVal string) string {
	if s, ok := c.data[key].(string); ok {
		return s
	}
	return defaultVal
}

// Bool returns the boolean value for key, or defaultVal if missing or not a bool.
func (c Config) Bool(key string, defaultVal bool) bool {
	if b, ok := c.data[key].(bool); ok {
		return b
	}
	return defaultVal
}

// Int returns the integer value for key, or defaultVal if missing or not convertible.
//
// Accepts:
//   - int, int64: used directly
//   - float64: only if there is no fractional part
//   - json.Number: only if it is an integer literal
func (c Config) Int(key string, defaultVal int) int {
	if n, ok := toInt(c.data[key]); ok {
		return n
	}
	return defaultVal
}

// Duration returns the duration value for key, or defaultVal if missing or invalid.
//
// Accepts:
//   - string: parsed with time.ParseDuration
//   - any number: interpreted as seconds
//   - time.Duration: used directly
func (c Config) Duration(key string, defaultVal time.Duration) time.Duration {
	switch val := c.data[key].(type) {
	case string:
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	case time.Duration:
		return val
	case json.Number:
		if f, err := val.Float64(); err == nil {
			return time.Duration(f * float64(time.Second))
		}
	case float64:
		return time.Duration(val * float64(time.Second))
	case int:
		return time.Duration(val) * time.Second
	case int64:
		return time.Duration(val) * time.Second
	}
	return defaultVal
}

// Map returns the nested map for key, or nil if missing or not a map.
func (c Config) Map(key string) map[string]any {
	m, _ := c.data[key].(map[string]any)
	return m
}

// Has returns true if the key exists in the config.
func (c Config) Has(key string) bool {
	_, ok := c.data[key]
	return ok
}

// Raw returns the underlying map.
// The returned map should not be modified.
func (c Config) Raw() map[string]any {
	return c.data
}

func toInt(v any) (int, bool) {
	switch val := v.(type) {
	case int:
		return val, true
	case int64:
		return int(val), true
	case float64:
		if val == math.Trunc(val) && !math.IsInf(val, 0) {
			return int(val), true
		}
	case json.Number:
		if n, err := val.Int64(); err == nil {
			return int(n), true
		}
	}
	return 0, false
}
