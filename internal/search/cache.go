// Package search implements the scored material-discovery pipeline:
// source adapters for the external search backends, a TTL cache in front of
// them, a bounded parallel fetcher, an educational-relevance scorer, and a
// diversified selector that picks a small, capped set of learning materials.
package search

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"github.com/minsoolab/learnletter/pkg/models"
)

// DefaultCacheTTL is how long a cached backend response stays valid.
// Search backends are paid/rate-limited, so one day of reuse is intentional.
const DefaultCacheTTL = 24 * time.Hour

type cacheEntry struct {
	result   *models.SearchResult
	storedAt time.Time
}

// Cache is a thread-safe in-memory cache of raw adapter responses, keyed by
// (query, source). Entries expire lazily on read; there is no sweeper and no
// persistence — losing the cache on restart only costs a cold start.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewCache creates a cache with the given TTL. A non-positive TTL falls back
// to DefaultCacheTTL.
func NewCache(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// cacheKey derives a stable digest of the normalized query and source
// identifier, so identical lookups hit the same line regardless of call
// order. The key is independent of topic: the same query reused across
// topics shares one cache line on purpose.
func cacheKey(query string, source models.SourceType) string {
	sum := sha256.Sum256([]byte(query + "\x00" + string(source)))
	return hex.EncodeToString(sum[:16])
}

// Get returns the cached result for (query, source), or ok=false when the
// entry is absent or its age has reached the TTL. Stale data is never
// returned silently.
func (c *Cache) Get(query string, source models.SourceType) (*models.SearchResult, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.RLock()
	entry, ok := c.entries[cacheKey(query, source)]
	c.mu.RUnlock()
	if !ok || c.now().Sub(entry.storedAt) >= c.ttl {
		return nil, false
	}
	return entry.result, true
}

// Put stores a backend response, overwriting any previous entry for the same
// key. Concurrent writers racing on the same miss both store equivalent
// data, so last-write-wins is fine.
func (c *Cache) Put(query string, source models.SourceType, result *models.SearchResult) {
	if c == nil || result == nil {
		return
	}
	c.mu.Lock()
	c.entries[cacheKey(query, source)] = cacheEntry{result: result, storedAt: c.now()}
	c.mu.Unlock()
}

// Len reports the number of entries currently stored, expired or not.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
