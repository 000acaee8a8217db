package cache

import (
	"math"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
)

// unlimited is the backing size used when no capacity is set.
const unlimited = math.MaxInt32

// Cache is a thread-safe LRU cache of compiled artifacts keyed by K.
// When an insertion exceeds the capacity, the least recently used entry is
// evicted.
type Cache[K comparable, V any] struct {
	entries  *lru.Cache[K, V]
	capacity int

	evictions atomic.Uint64
}

// New creates a cache holding at most capacity entries.
// A capacity of 0 or less means unlimited.
func New[K comparable, V any](capacity int) *Cache[K, V] {
	size := capacity
	if size <= 0 {
		capacity, size = 0, unlimited
	}
	entries, err := lru.New[K, V](size)
	if err != nil {
		// lru.New only fails for a non-positive size.
		panic(err)
	}
	return &Cache[K, V]{entries: entries, capacity: capacity}
}

// Get returns the value for key and marks it most recently used.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	return c.entries.Get(key)
}

// Set stores a value, replacing any existing entry for key.
func (c *Cache[K, V]) Set(key K, value V) {
	if c.entries.Add(key, value) {
		c.evictions.Add(1)
	}
}

// Delete removes key and reports whether it was present.
func (c *Cache[K, V]) Delete(key K) bool {
	return c.entries.Remove(key)
}

// DeleteFunc removes every entry for which del returns true and reports how
// many were removed. Entries added while DeleteFunc runs may be missed.
func (c *Cache[K, V]) DeleteFunc(del func(K, V) bool) int {
	n := 0
	for _, key := range c.entries.Keys() {
		v, ok := c.entries.Peek(key)
		if ok && del(key, v) && c.entries.Remove(key) {
			n++
		}
	}
	return n
}

// Clear removes all entries.
func (c *Cache[K, V]) Clear() {
	c.entries.Purge()
}

// Len returns the number of entries.
func (c *Cache[K, V]) Len() int {
	return c.entries.Len()
}

// Capacity returns the capacity, 0 for unlimited.
func (c *Cache[K, V]) Capacity() int {
	return c.capacity
}

// Stats returns cache statistics.
func (c *Cache[K, V]) Stats() Stats {
	return Stats{
		Len:       c.entries.Len(),
		Capacity:  c.capacity,
		Evictions: c.evictions.Load(),
	}
}

// Stats contains cache statistics.
type Stats struct {
	// Len is the current number of entries.
	Len int
	// Capacity is the maximum number of entries, 0 for unlimited.
	Capacity int
	// Evictions counts entries dropped for capacity. Delete and Clear do
	// not count.
	Evictions uint64
}
