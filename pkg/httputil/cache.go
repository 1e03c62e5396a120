package httputil

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/tilewright/tilewright/pkg/observability"
)

// ErrExpired is returned by [Cache.Get] when an entry exists but has
// exceeded its TTL. The stale data stays on disk; callers should fetch
// fresh data and call [Cache.Set], which resets the entry's age.
var ErrExpired = errors.New("cache entry expired")

// Cache is file-based caching of JSON-marshalable values.
//
// Entries live as JSON files in the cache directory, named by a SHA-256
// hash of the key, so any string works as a key. Expiration is based on
// file modification time; a TTL of 0 means entries never expire.
//
// A Cache is not goroutine-safe, but separate instances (even across
// processes) can share a directory.
type Cache struct {
	dir    string
	ttl    time.Duration
	prefix string
}

// NewCache creates a Cache storing entries in dir with the given TTL.
// An empty dir selects the default ~/.cache/tilewright/. The directory is
// created if missing.
func NewCache(dir string, ttl time.Duration) (*Cache, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(home, ".cache", "tilewright")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir, ttl: ttl}, nil
}

// Dir returns the cache directory path.
func (c *Cache) Dir() string { return c.dir }

// TTL returns the entry time-to-live. Zero means no expiration.
func (c *Cache) TTL() time.Duration { return c.ttl }

// Get retrieves the value cached under key and unmarshals it into v.
//
//   - (true, nil): hit, v populated.
//   - (false, nil): miss, v unchanged.
//   - (false, ErrExpired): entry exists but exceeded its TTL.
//   - (false, other): I/O or unmarshal failure.
func (c *Cache) Get(key string, v any) (bool, error) {
	path := c.keyPath(c.prefix + key)
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		observability.Cache().OnMiss(key)
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if c.ttl > 0 && time.Since(info.ModTime()) > c.ttl {
		observability.Cache().OnMiss(key)
		return false, ErrExpired
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return true, err
	}
	observability.Cache().OnHit(key)
	return true, nil
}

// Set stores v under key, overwriting any existing entry and refreshing
// its TTL.
func (c *Cache) Set(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if err := os.WriteFile(c.keyPath(c.prefix+key), data, 0o644); err != nil {
		return err
	}
	observability.Cache().OnSet(key, len(data))
	return nil
}

// Delete removes the entry for key. Deleting a missing entry is not an
// error.
func (c *Cache) Delete(key string) error {
	err := os.Remove(c.keyPath(c.prefix + key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Namespace returns a view of the cache that prefixes every key, keeping
// different data sources from colliding. The view shares the directory and
// TTL of its parent; calls can be chained.
func (c *Cache) Namespace(prefix string) *Cache {
	return &Cache{
		dir:    c.dir,
		ttl:    c.ttl,
		prefix: c.prefix + prefix,
	}
}

func (c *Cache) keyPath(key string) string {
	h := sha256.Sum256([]byte(key))
	return filepath.Join(c.dir, hex.EncodeToString(h[:]))
}
