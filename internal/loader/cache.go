package loader

import (
	"crypto/sha256"
	"os"
	"sync"

	"github.com/pkg/errors"
)

// CacheStats counts cache outcomes.
type CacheStats struct {
	Hits         int64
	Misses       int64
	Evictions    int64
	BytesSkipped int64
}

type cacheEntry struct {
	hash [32]byte
	file *File
}

// Cache keeps the last parse of each file, keyed by path and checked
// against a hash of the contents. Watch mode uses it to skip files an
// editor touched without changing. It is safe for concurrent use.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry

	statsMu sync.Mutex
	stats   CacheStats
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]cacheEntry)}
}

// Parse returns the parse of src for path, reusing the cached one when the
// contents are unchanged. changed is false for a cache hit.
func (c *Cache) Parse(path string, src []byte) (f *File, changed bool) {
	hash := sha256.Sum256(src)

	c.mu.RLock()
	entry, ok := c.entries[path]
	c.mu.RUnlock()

	if ok && entry.hash == hash {
		c.statsMu.Lock()
		c.stats.Hits++
		c.stats.BytesSkipped += int64(len(src))
		c.statsMu.Unlock()
		return entry.file, false
	}

	c.statsMu.Lock()
	c.stats.Misses++
	c.statsMu.Unlock()

	f = Parse(path, src)
	c.mu.Lock()
	c.entries[path] = cacheEntry{hash: hash, file: f}
	c.mu.Unlock()
	return f, true
}

// ReadFile reads path and parses it through the cache. A file that can no
// longer be read is evicted.
func (c *Cache) ReadFile(path string) (f *File, changed bool, err error) {
	src, err := os.ReadFile(path)
	if err != nil {
		c.Remove(path)
		return nil, false, errors.Wrapf(err, "read %s", path)
	}
	f, changed = c.Parse(path, src)
	return f, changed, nil
}

// Add records an already parsed file.
func (c *Cache) Add(f *File) {
	c.mu.Lock()
	c.entries[f.Path] = cacheEntry{hash: sha256.Sum256(f.Source), file: f}
	c.mu.Unlock()
}

// Remove drops path from the cache.
func (c *Cache) Remove(path string) {
	c.mu.Lock()
	_, ok := c.entries[path]
	delete(c.entries, path)
	c.mu.Unlock()

	if ok {
		c.statsMu.Lock()
		c.stats.Evictions++
		c.statsMu.Unlock()
	}
}

// Len returns the number of cached files.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stats returns a snapshot of the cache statistics.
func (c *Cache) Stats() CacheStats {
	c.statsMu.Lock()
	defer c.statsMu.Unlock()
	return c.stats
}
