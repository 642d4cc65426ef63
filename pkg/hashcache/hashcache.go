// Package hashcache records content hashes of artwork the asset pipeline
// has processed. Hashes are xxh3-128 in lowercase hex. The in-memory set is
// append-only for one invocation; an optional SQLite store persists the
// same records for downstream tools.
package hashcache

import (
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/zeebo/xxh3"
	"golang.org/x/exp/mmap"

	"github.com/zen-browser/surfer/pkg/filesystem"
	"github.com/zen-browser/surfer/pkg/logging"
	"github.com/zen-browser/surfer/pkg/types"
)

// Cache maps content hash to a processed marker
type Cache struct {
	mu    sync.Mutex
	seen  map[string]string
	store *SQLiteStore
}

// New creates a cache. store may be nil for a purely in-memory cache.
func New(store *SQLiteStore) *Cache {
	return &Cache{
		seen:  make(map[string]string),
		store: store,
	}
}

// HashBytes returns the hex xxh3-128 digest of data
func HashBytes(data []byte) string {
	return fmt.Sprintf("%x", xxh3.Hash128(data).Bytes())
}

// HashFile hashes the file at path. Files on the real filesystem are read
// through a memory map; other backends are read whole.
func HashFile(fsys types.FS, path string) (string, error) {
	if filesystem.IsOS(fsys) {
		return hashMapped(path)
	}
	data, err := fsys.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return HashBytes(data), nil
}

func hashMapped(path string) (string, error) {
	r, err := mmap.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = r.Close() }()

	h := xxh3.New()
	if _, err := io.Copy(h, io.NewSectionReader(r, 0, int64(r.Len()))); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return fmt.Sprintf("%x", h.Sum128().Bytes()), nil
}

// Add hashes the file at path and records it. It returns the hash and
// whether it was new to this cache.
func (c *Cache) Add(fsys types.FS, path string) (string, bool, error) {
	hash, err := HashFile(fsys, path)
	if err != nil {
		return "", false, err
	}
	added, err := c.Record(hash, path)
	return hash, added, err
}

// Record marks hash as processed. Recording an already known hash is a no-op
// and keeps the first source.
func (c *Cache) Record(hash, source string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.seen[hash]; ok {
		return false, nil
	}
	c.seen[hash] = source

	if c.store != nil {
		if err := c.store.Put(hash, source); err != nil {
			return true, err
		}
	}

	logger := logging.GetLogger("hashcache")
	logger.Debug().Str("hash", hash).Str("source", source).Msg("Recorded content hash")
	return true, nil
}

// Contains reports whether hash was recorded in this invocation
func (c *Cache) Contains(hash string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.seen[hash]
	return ok
}

// Len returns the number of distinct hashes recorded
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.seen)
}

// Hashes returns the recorded hashes in sorted order
func (c *Cache) Hashes() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.seen))
	for h := range c.seen {
		out = append(out, h)
	}
	sort.Strings(out)
	return out
}
