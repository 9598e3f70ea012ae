package cache

// Cache is a generic LRU cache with a soft limit.
type Cache[K comparable, V any] struct {
	entries map[K]*node[K, V]
	order   list[K, V]
	limit   int
	onEvict func(K, V)

	hits, misses, evictions uint64
}

// Option configures a Cache.
type Option[K comparable, V any] func(*Cache[K, V])

// OnEvict registers a callback run for every entry dropped by the soft
// limit. It is not called by Delete or Clear.
func OnEvict[K comparable, V any](fn func(K, V)) Option[K, V] {
	return func(c *Cache[K, V]) { c.onEvict = fn }
}

// New creates a cache holding about softLimit entries. A softLimit of 0
// means unlimited.
func New[K comparable, V any](softLimit int, opts ...Option[K, V]) *Cache[K, V] {
	c := &Cache[K, V]{
		entries: make(map[K]*node[K, V]),
		limit:   softLimit,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached value and marks it recently used.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	nd, ok := c.entries[key]
	if !ok {
		c.misses++
		var zero V
		return zero, false
	}
	c.hits++
	c.order.touch(nd)
	return nd.value, true
}

// Peek returns the cached value without changing its recency.
func (c *Cache[K, V]) Peek(key K) (V, bool) {
	if nd, ok := c.entries[key]; ok {
		return nd.value, true
	}
	var zero V
	return zero, false
}

// Set stores value under key, replacing any previous value.
func (c *Cache[K, V]) Set(key K, value V) {
	if nd, ok := c.entries[key]; ok {
		nd.value = value
		c.order.touch(nd)
		return
	}
	nd := &node[K, V]{key: key, value: value}
	c.entries[key] = nd
	c.order.pushFront(nd)
	c.trim()
}

// GetOrCreate returns the cached value for key, calling create on a miss.
// A create error is returned as is and nothing is stored.
func (c *Cache[K, V]) GetOrCreate(key K, create func() (V, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}
	v, err := create()
	if err != nil {
		return v, err
	}
	c.Set(key, v)
	return v, nil
}

// Delete removes key. It reports whether the key was present.
func (c *Cache[K, V]) Delete(key K) bool {
	nd, ok := c.entries[key]
	if !ok {
		return false
	}
	c.order.remove(nd)
	delete(c.entries, key)
	return true
}

// Clear removes every entry. Statistics are kept.
func (c *Cache[K, V]) Clear() {
	c.entries = make(map[K]*node[K, V])
	c.order = list[K, V]{}
}

// Len returns the number of entries.
func (c *Cache[K, V]) Len() int { return len(c.entries) }

// Stats returns hit, miss and eviction counters.
func (c *Cache[K, V]) Stats() Stats {
	return Stats{Len: len(c.entries), Limit: c.limit, Hits: c.hits, Misses: c.misses, Evictions: c.evictions}
}

// trim evicts least recently used entries down to three quarters of the
// limit once the limit is exceeded.
func (c *Cache[K, V]) trim() {
	if c.limit <= 0 || len(c.entries) <= c.limit {
		return
	}
	target := c.limit * 3 / 4
	if target < 1 {
		target = 1
	}
	for len(c.entries) > target && c.order.back != nil {
		nd := c.order.back
		c.order.remove(nd)
		delete(c.entries, nd.key)
		c.evictions++
		if c.onEvict != nil {
			c.onEvict(nd.key, nd.value)
		}
	}
}

// Stats contains cache statistics.
type Stats struct {
	Len       int
	Limit     int
	Hits      uint64
	Misses    uint64
	Evictions uint64
}
