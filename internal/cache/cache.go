package cache

import "sync"

// Cache is an LRU cache. When the total cost exceeds the limit, the least
// recently used entries are evicted until it fits again.
type Cache[K comparable, V any] struct {
	mu      sync.Mutex
	entries map[K]*node[K, V]
	lru     lruList[K, V]
	limit   int64
	cost    int64

	hits      uint64
	misses    uint64
	evictions uint64
}

// New creates a cache holding entries up to a total cost of limit.
// A limit of 0 means unlimited.
func New[K comparable, V any](limit int64) *Cache[K, V] {
	return &Cache[K, V]{
		entries: make(map[K]*node[K, V]),
		limit:   max(limit, 0),
	}
}

// Get returns the value for key and marks it recently used.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, ok := c.entries[key]
	if !ok {
		c.misses++
		var zero V
		return zero, false
	}
	c.hits++
	c.lru.moveToFront(n)
	return n.value, true
}

// Set stores value under key with the given cost, replacing any previous
// value. A value costing more than the whole limit is not stored, and
// reports false.
func (c *Cache[K, V]) Set(key K, value V, cost int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if old, ok := c.entries[key]; ok {
		c.remove(old)
	}
	if c.limit > 0 && cost > c.limit {
		return false
	}

	n := &node[K, V]{key: key, value: value, cost: cost}
	c.entries[key] = n
	c.lru.pushFront(n)
	c.cost += cost

	for c.limit > 0 && c.cost > c.limit {
		c.remove(c.lru.oldest())
		c.evictions++
	}
	return true
}

// Delete removes key and reports whether it was present.
func (c *Cache[K, V]) Delete(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, ok := c.entries[key]
	if ok {
		c.remove(n)
	}
	return ok
}

// Clear removes every entry. Statistics are kept.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[K]*node[K, V])
	c.lru = lruList[K, V]{}
	c.cost = 0
}

// Len returns the number of entries.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns a snapshot of the cache counters.
func (c *Cache[K, V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Stats{
		Len:       len(c.entries),
		Cost:      c.cost,
		Limit:     c.limit,
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
	}
}

// remove drops n. Caller must hold c.mu.
func (c *Cache[K, V]) remove(n *node[K, V]) {
	c.lru.unlink(n)
	delete(c.entries, n.key)
	c.cost -= n.cost
}

// Stats contains cache statistics.
type Stats struct {
	Len       int
	Cost      int64
	Limit     int64
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// HitRate returns hits / (hits + misses), or 0 before any lookup.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}
