package cache

import (
	"sync"
	"time"

	"media-indexer/internal/metrics"
)

type entry struct {
	modTime time.Time
	data    []byte
}

// Cache maps (path, modTime) identities to previously read file content.
// Safe for concurrent use by overlapping load cycles.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	bytes   int64

	hits   int64
	misses int64
}

// Stats is a point-in-time view of cache contents and traffic.
type Stats struct {
	Entries int   `json:"entries"`
	Bytes   int64 `json:"bytes"`
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
}

// New creates an empty Cache.
func New() *Cache {
	return &Cache{
		entries: make(map[string]entry),
	}
}

// Get returns the cached content for path if the stored modification time
// matches modTime exactly. A stale or missing entry is a miss.
func (c *Cache) Get(path string, modTime time.Time) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[path]
	if !ok || !e.modTime.Equal(modTime) {
		c.misses++
		metrics.CacheMisses.Inc()
		return nil, false
	}

	c.hits++
	metrics.CacheHits.Inc()
	return e.data, true
}

// Put stores content for path under modTime, superseding any older entry for
// the same path. A Put older than the stored entry is ignored so a slow cycle
// can never regress a newer read.
func (c *Cache) Put(path string, modTime time.Time, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if prev, ok := c.entries[path]; ok {
		if prev.modTime.After(modTime) {
			return
		}
		c.bytes -= int64(len(prev.data))
	}

	c.entries[path] = entry{modTime: modTime, data: data}
	c.bytes += int64(len(data))

	metrics.CacheEntries.Set(float64(len(c.entries)))
	metrics.CacheBytes.Set(float64(c.bytes))
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stats returns a snapshot of cache contents and hit/miss counters.
func (c *Cache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Stats{
		Entries: len(c.entries),
		Bytes:   c.bytes,
		Hits:    c.hits,
		Misses:  c.misses,
	}
}

// Purge releases all cached content.
func (c *Cache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]entry)
	c.bytes = 0

	metrics.CacheEntries.Set(0)
	metrics.CacheBytes.Set(0)
}
