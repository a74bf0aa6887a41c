/*
Package cache provides a bounded, concurrency-safe cache for compiled
expression trees.

# Overview

Parsing an expression is far more expensive than evaluating the resulting
tree, so hosts that evaluate the same sources repeatedly keep the trees
around. Cache maps source text to any value type and bounds memory two ways:

  - a maximum number of entries; inserting beyond it evicts the oldest
  - a maximum age; entries older than it are purged on the next access

Either limit may be zero to disable it.

# Usage

	trees := cache.New[*expr.DefaultNode](512, 10*time.Minute)

	tree, hit, err := trees.GetOrCreate(source, func() (*expr.DefaultNode, error) {
	    return expr.BuildTree[numeric.Int64, numeric.Float64](source)
	})

GetOrCreate calls the factory at most once per key at a time, even under
concurrent access. Factory errors are returned and nothing is stored.

# Statistics

Stats reports hit and miss counters for metrics and logging.
*/
package cache
