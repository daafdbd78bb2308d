package cache

import (
	"sync"
	"time"
)

// entry is one cached translation and the time it was stored.
type entry struct {
	value    string
	storedAt time.Time
}

// InMemoryCache is a thread-safe in-process cache. Translation entries
// never expire in normal use (pass 0); the TTL exists for callers that
// embed the cache in longer-lived services.
type InMemoryCache struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
}

// NewInMemoryCache creates an in-memory cache. A ttlSeconds of 0 or less
// means entries never expire.
func NewInMemoryCache(ttlSeconds int) *InMemoryCache {
	var ttl time.Duration
	if ttlSeconds > 0 {
		ttl = time.Duration(ttlSeconds) * time.Second
	}
	return &InMemoryCache{
		entries: make(map[string]entry),
		ttl:     ttl,
	}
}

func (c *InMemoryCache) expired(e entry) bool {
	return c.ttl > 0 && time.Since(e.storedAt) > c.ttl
}

// Get retrieves a value. Expired entries read as misses and are dropped.
func (c *InMemoryCache) Get(key string) (string, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return "", false
	}
	if c.expired(e) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return "", false
	}
	return e.value, true
}

// Set stores a value. Overwriting a key resets its TTL.
func (c *InMemoryCache) Set(key string, value string) error {
	c.mu.Lock()
	c.entries[key] = entry{value: value, storedAt: time.Now()}
	c.mu.Unlock()
	return nil
}

// Len returns the number of entries, including any not yet swept expired ones.
func (c *InMemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Clear removes all entries.
func (c *InMemoryCache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]entry)
	c.mu.Unlock()
}

// Entries returns the live (non-expired) entries as key-value pairs.
// Snapshots are built from this view.
func (c *InMemoryCache) Entries() map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]string, len(c.entries))
	for key, e := range c.entries {
		if c.expired(e) {
			continue
		}
		out[key] = e.value
	}
	return out
}

// Verify InMemoryCache implements Cache
var _ Cache = (*InMemoryCache)(nil)
