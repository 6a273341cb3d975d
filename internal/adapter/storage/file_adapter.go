package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileCache persists each entry as a JSON envelope file under one
// directory, so cached state (notably the cart) survives across process
// runs. It is the localStorage analog for CLI and daemon hosts.
//
// A file that cannot be read or parsed is treated as a miss and
// deleted, never surfaced as an error.
type FileCache struct {
	dir string
	now func() time.Time
}

// fileEnvelope is the on-disk layout: the value plus its absolute
// expiry in epoch milliseconds.
type fileEnvelope struct {
	Value   json.RawMessage `json:"value"`
	Expires int64           `json:"expires"`
}

// NewFileCache creates the cache directory if needed and returns a
// cache rooted there.
func NewFileCache(dir string) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &FileCache{dir: dir, now: time.Now}, nil
}

// Get returns the value stored under key. Expired and corrupt files are
// removed and reported as misses.
func (c *FileCache) Get(_ context.Context, key string) ([]byte, bool) {
	path := c.path(key)

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}

	var env fileEnvelope
	if err := json.Unmarshal(raw, &env); err != nil || len(env.Value) == 0 {
		os.Remove(path)
		return nil, false
	}
	if c.now().UnixMilli() > env.Expires {
		os.Remove(path)
		return nil, false
	}
	return env.Value, true
}

// Set stores value under key with an absolute expiry of now+ttl. The
// value must be valid JSON, since it is embedded in the envelope as-is.
func (c *FileCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if !json.Valid(value) {
		return fmt.Errorf("cache value for %q is not valid JSON", key)
	}

	env := fileEnvelope{
		Value:   json.RawMessage(value),
		Expires: c.now().Add(ttl).UnixMilli(),
	}
	raw, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}
	if err := os.WriteFile(c.path(key), raw, 0o644); err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}
	return nil
}

// Remove unconditionally deletes key.
func (c *FileCache) Remove(_ context.Context, key string) error {
	if err := os.Remove(c.path(key)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (c *FileCache) path(key string) string {
	return filepath.Join(c.dir, sanitizeKey(key)+".json")
}

func sanitizeKey(key string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_' || r == '.':
			return r
		default:
			return '_'
		}
	}, key)
}
