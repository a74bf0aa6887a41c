package cache

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/krotik/common/datautil"
)

// Cache is a bounded cache keyed by string.
type Cache[V any] struct {
	entries *datautil.MapCache

	// mu guards inflight.
	mu       sync.Mutex
	inflight map[string]*call[V]

	hits   atomic.Int64
	misses atomic.Int64
}

// call is one factory invocation in progress. val and err are set before
// done is closed.
type call[V any] struct {
	done chan struct{}
	val  V
	err  error
}

var errCreateAborted = errors.New("cache: factory did not return")

// Stats is a snapshot of cache counters.
type Stats struct {
	Hits   int64
	Misses int64
}

// HitRatio returns hits / (hits + misses), or 0 before any lookup.
func (s Stats) HitRatio() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// New creates a cache holding at most maxSize entries, each for at most
// maxAge. Zero disables the corresponding limit. Ages are tracked with one
// second resolution.
func New[V any](maxSize int, maxAge time.Duration) *Cache[V] {
	if maxSize < 0 {
		maxSize = 0
	}
	seconds := int64(maxAge / time.Second)
	if maxAge > 0 && seconds == 0 {
		seconds = 1
	}
	return &Cache[V]{
		entries:  datautil.NewMapCache(uint64(maxSize), seconds),
		inflight: make(map[string]*call[V]),
	}
}

// Get returns the value for key and whether it was present.
func (c *Cache[V]) Get(key string) (V, bool) {
	v, ok := c.lookup(key)
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return v, ok
}

// Put stores value under key, evicting the oldest entry if the cache is full.
func (c *Cache[V]) Put(key string, value V) {
	c.entries.Put(key, value)
}

// Remove deletes key and reports whether it was present.
func (c *Cache[V]) Remove(key string) bool {
	return c.entries.Remove(key)
}

// Len returns the number of cached entries.
func (c *Cache[V]) Len() int {
	return int(c.entries.Size())
}

// Clear removes every entry. Counters are kept.
func (c *Cache[V]) Clear() {
	c.entries.Clear()
}

// GetOrCreate returns the cached value for key, or calls create and caches
// its result. hit reports whether the value came from the cache or from a
// concurrent caller's factory. The factory runs at most once per key at a
// time, and misses on different keys run in parallel. An error is returned
// as is and nothing is stored; callers waiting on a failed factory retry.
func (c *Cache[V]) GetOrCreate(key string, create func() (V, error)) (value V, hit bool, err error) {
	for {
		// Fast path
		if v, ok := c.lookup(key); ok {
			c.hits.Add(1)
			return v, true, nil
		}

		c.mu.Lock()
		// Another caller may have created it while we waited
		if v, ok := c.lookup(key); ok {
			c.mu.Unlock()
			c.hits.Add(1)
			return v, true, nil
		}
		if cl, ok := c.inflight[key]; ok {
			c.mu.Unlock()
			<-cl.done
			if cl.err == nil {
				c.hits.Add(1)
				return cl.val, true, nil
			}
			continue
		}
		cl := &call[V]{done: make(chan struct{}), err: errCreateAborted}
		c.inflight[key] = cl
		c.mu.Unlock()

		c.misses.Add(1)
		c.run(key, cl, create)
		if cl.err != nil {
			var zero V
			return zero, false, cl.err
		}
		return cl.val, false, nil
	}
}

// run calls create for cl and releases its waiters, even if create panics.
func (c *Cache[V]) run(key string, cl *call[V], create func() (V, error)) {
	defer func() {
		c.mu.Lock()
		if cl.err == nil {
			c.entries.Put(key, cl.val)
		}
		delete(c.inflight, key)
		c.mu.Unlock()
		close(cl.done)
	}()
	cl.val, cl.err = create()
}

// Stats returns the current counters.
func (c *Cache[V]) Stats() Stats {
	return Stats{Hits: c.hits.Load(), Misses: c.misses.Load()}
}

func (c *Cache[V]) lookup(key string) (V, bool) {
	raw, ok := c.entries.Get(key)
	if !ok {
		var zero V
		return zero, false
	}
	v, ok := raw.(V)
	return v, ok
}
