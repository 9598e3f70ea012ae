// Package cache provides the soft-limited LRU cache used for shaped text
// lines and rasterized glyph masks.
//
//	c := cache.New[string, int](64)
//	c.Set("12:00:00", 42)
//	v, ok := c.Get("12:00:00")
//
// When an insertion takes the cache past its soft limit, the least recently
// used quarter is evicted in one batch. An optional callback observes each
// eviction.
//
// The cache is not safe for concurrent use. The overlay touches it from the
// render loop only.
package cache
