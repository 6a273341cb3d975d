package port

import (
	"context"
	"time"
)

// Cache is a key/value store with per-entry TTL. Values are opaque
// serialized blobs; each manager owns the (de)serialization of its own
// entries.
//
// Implementations never surface storage corruption: an entry that is
// absent, expired, or unreadable behaves as a miss, and expired or
// unreadable entries are purged on read. There is no eviction beyond
// TTL and no size bound.
type Cache interface {
	// Get returns the value stored under key, or ok=false on a miss.
	Get(ctx context.Context, key string) (value []byte, ok bool)

	// Set stores value under key with an absolute expiry of now+ttl,
	// overwriting any prior entry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Remove unconditionally deletes key.
	Remove(ctx context.Context, key string) error
}
