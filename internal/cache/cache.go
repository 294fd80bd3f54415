// file: internal/cache/cache.go
// version: 2.1.0
// guid: a1b2c3d4-e5f6-7a8b-9c0d-1e2f3a4b5c6d

package cache

import (
	"sync"
)

type entry[T any] struct {
	ready chan struct{}
	value T
}

// Cache memoizes one value per key for the lifetime of a run. Values are
// computed at most once; concurrent callers for the same key wait for the
// first computation. Nothing is ever evicted.
type Cache[T any] struct {
	mu     sync.Mutex
	items  map[string]*entry[T]
	hits   int
	misses int
}

// New creates an empty cache.
func New[T any]() *Cache[T] {
	return &Cache[T]{
		items: make(map[string]*entry[T]),
	}
}

// GetOrCompute returns the value for key, calling compute exactly once per
// key. The second return value is true when the value came from the cache.
func (c *Cache[T]) GetOrCompute(key string, compute func() T) (T, bool) {
	c.mu.Lock()
	if e, ok := c.items[key]; ok {
		c.hits++
		c.mu.Unlock()
		<-e.ready
		return e.value, true
	}
	e := &entry[T]{ready: make(chan struct{})}
	c.items[key] = e
	c.misses++
	c.mu.Unlock()

	defer close(e.ready)
	e.value = compute()
	return e.value, false
}

// Stats returns hit and miss counts.
func (c *Cache[T]) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
