package suggest

import (
	"sync"
	"time"
)

// Cache is a bounded, time-expiring store of suggestion entries keyed by
// normalized transcript text. An entry is valid iff less than the TTL has
// elapsed since its CreatedAt; expired entries are treated as absent and
// purged lazily on access.
type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	maxSize int
	entries map[Key]Entry
}

// NewCache creates a cache. Non-positive ttl or maxSize fall back to the
// package defaults.
func NewCache(ttl time.Duration, maxSize int) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	return &Cache{
		ttl:     ttl,
		maxSize: maxSize,
		entries: make(map[Key]Entry, maxSize),
	}
}

// Get returns the entry for key if present and not expired. Expired entries
// are removed on the way out.
func (c *Cache) Get(key Key) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return Entry{}, false
	}
	if time.Since(e.CreatedAt) >= c.ttl {
		delete(c.entries, key)
		return Entry{}, false
	}
	return e, true
}

// Put inserts or overwrites the entry under its own key, then purges expired
// entries and evicts oldest-by-CreatedAt until the size bound holds.
func (c *Cache) Put(e Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[e.Key] = e
	c.cleanupLocked()
}

// Clear empties the store.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[Key]Entry, c.maxSize)
}

// Len returns the number of stored entries, including any not yet purged.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache) cleanupLocked() {
	cutoff := time.Now().Add(-c.ttl)
	for key, e := range c.entries {
		if !e.CreatedAt.After(cutoff) {
			delete(c.entries, key)
		}
	}

	for len(c.entries) > c.maxSize {
		var oldest Key
		var oldestAt time.Time
		for key, e := range c.entries {
			if oldestAt.IsZero() || e.CreatedAt.Before(oldestAt) {
				oldest = key
				oldestAt = e.CreatedAt
			}
		}
		delete(c.entries, oldest)
	}
}
