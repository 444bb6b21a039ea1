// Package analysis generates AI match analyses, memoizes them, and feeds the
// resulting predictions to the ledger.
package analysis

import (
	"log"
	"sync"
	"time"

	"github.com/dkorenev/betmate/pkg/storage"
)

// DefaultTTL is how long a cached analysis stays servable. Past it the entry
// is dead and the next request regenerates.
const DefaultTTL = 2 * time.Hour

// CacheStorageKey is the persistence key for the cache snapshot.
const CacheStorageKey = "betmate:analysis_cache"

// Report is one generated analysis for a match. Text is the AI response,
// stored verbatim.
type Report struct {
	MatchID   string    `json:"match_id"`
	Text      string    `json:"text"`
	Advice    string    `json:"advice,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type cacheEntry struct {
	Report   *Report   `json:"report"`
	StoredAt time.Time `json:"stored_at"`
}

// Cache is a time-boxed memo of analyses keyed by match id. Eviction is
// lazy: a stale hit is treated as a miss and deleted during the lookup, and
// each write sweeps whatever else has gone stale. There is no background
// sweeper.
type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	store   storage.Store
	entries map[string]cacheEntry
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithTTL overrides the entry lifetime.
func WithTTL(ttl time.Duration) CacheOption {
	return func(c *Cache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithCacheClock injects the time source used for staleness checks.
func WithCacheClock(now func() time.Time) CacheOption {
	return func(c *Cache) {
		c.now = now
	}
}

// WithCacheStore backs the cache with durable storage. Entries survive a
// restart; absent or corrupt snapshots start the cache empty.
func WithCacheStore(store storage.Store) CacheOption {
	return func(c *Cache) {
		c.store = store
	}
}

// NewCache creates an analysis cache, loading any persisted snapshot.
func NewCache(opts ...CacheOption) *Cache {
	c := &Cache{
		ttl:     DefaultTTL,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.store != nil {
		var loaded map[string]cacheEntry
		ok, err := c.store.Load(CacheStorageKey, &loaded)
		if err != nil {
			log.Printf("[analysis] cache load failed, starting empty: %v", err)
		} else if ok {
			c.entries = loaded
		}
	}
	return c
}

// Get returns the cached report for a match, or nil when absent or stale.
// A stale entry is deleted as a side effect of the lookup.
func (c *Cache) Get(matchID string) *Report {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[matchID]
	if !ok {
		return nil
	}
	if c.now().Sub(entry.StoredAt) > c.ttl {
		delete(c.entries, matchID)
		c.persistLocked()
		return nil
	}
	return entry.Report
}

// Put stores a report unconditionally and sweeps any other entries that have
// gone stale in the meantime.
func (c *Cache) Put(matchID string, report *Report) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for id, entry := range c.entries {
		if id != matchID && now.Sub(entry.StoredAt) > c.ttl {
			delete(c.entries, id)
		}
	}

	c.entries[matchID] = cacheEntry{Report: report, StoredAt: now}
	c.persistLocked()
}

// persistLocked writes the snapshot best-effort; failures are logged and the
// in-memory state stays authoritative. Callers hold mu.
func (c *Cache) persistLocked() {
	if c.store == nil {
		return
	}
	if err := c.store.Save(CacheStorageKey, c.entries); err != nil {
		log.Printf("[analysis] cache persist failed: %v", err)
	}
}

// Len reports the number of live and stale entries currently held.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
