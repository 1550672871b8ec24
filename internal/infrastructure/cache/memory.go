package cache

import (
	"sync"
	"time"
)

// Entry is a cached value with the time it was fetched
type Entry[V any] struct {
	Value    V
	StoredAt time.Time
}

// MemoryCache is a thread-safe in-memory cache with a single TTL.
//
// Expired entries are hidden from Get but never evicted: GetStale still
// returns them so callers can serve old data when the origin is down.
// Entries only go away through Clear.
type MemoryCache[K comparable, V any] struct {
	data  map[K]Entry[V]
	ttl   time.Duration
	now   func() time.Time
	mutex sync.RWMutex
}

// NewMemoryCache creates a cache whose entries are fresh for ttl.
// A nil clock uses time.Now.
func NewMemoryCache[K comparable, V any](ttl time.Duration, now func() time.Time) *MemoryCache[K, V] {
	if now == nil {
		now = time.Now
	}
	return &MemoryCache[K, V]{
		data: make(map[K]Entry[V]),
		ttl:  ttl,
		now:  now,
	}
}

// Get returns the value for key if it is present and fresh
func (c *MemoryCache[K, V]) Get(key K) (V, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	item, exists := c.data[key]
	if !exists || !c.isFresh(item) {
		var zero V
		return zero, false
	}
	return item.Value, true
}

// GetStale returns the value for key regardless of its age
func (c *MemoryCache[K, V]) GetStale(key K) (V, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	item, exists := c.data[key]
	if !exists {
		var zero V
		return zero, false
	}
	return item.Value, true
}

// Peek returns the raw entry for key, fresh or not
func (c *MemoryCache[K, V]) Peek(key K) (Entry[V], bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	item, exists := c.data[key]
	return item, exists
}

// Set stores value under key, replacing any older entry
func (c *MemoryCache[K, V]) Set(key K, value V) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.data[key] = Entry[V]{
		Value:    value,
		StoredAt: c.now(),
	}
}

// Size returns the number of stored entries, stale ones included
func (c *MemoryCache[K, V]) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.data)
}

// TTL returns the freshness window of the cache
func (c *MemoryCache[K, V]) TTL() time.Duration {
	return c.ttl
}

// Clear removes all items from the cache
func (c *MemoryCache[K, V]) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.data = make(map[K]Entry[V])
}

// isFresh must be called with the mutex held
func (c *MemoryCache[K, V]) isFresh(item Entry[V]) bool {
	return c.now().Sub(item.StoredAt) < c.ttl
}
