package storage

import (
	"context"
	"sync"
	"time"
)

// MemoryCache is an in-process port.Cache. Entries carry an absolute
// expiry and are purged lazily on read; nothing else evicts them.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry

	// now is swapped out by TTL tests.
	now func() time.Time
}

type memoryEntry struct {
	value   []byte
	expires time.Time
}

// NewMemoryCache creates an empty in-memory cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Get returns the value stored under key, deleting and missing entries
// whose expiry has passed.
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().After(e.expires) {
		delete(c.entries, key)
		return nil, false
	}
	return append([]byte(nil), e.value...), true
}

// Set stores value under key, overwriting any prior entry.
func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = memoryEntry{
		value:   append([]byte(nil), value...),
		expires: c.now().Add(ttl),
	}
	return nil
}

// Remove unconditionally deletes key.
func (c *MemoryCache) Remove(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
	return nil
}
