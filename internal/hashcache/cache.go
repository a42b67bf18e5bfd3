// Package hashcache persists file content hashes between deploys so that
// unchanged files can be skipped. The cache is a hint: a hit is only
// trusted when the caller's observed modification time matches.
package hashcache

import (
	"github.com/puzpuzpuz/xsync/v4"
)

// Entry is the cached state of one file.
type Entry struct {
	// ModTime is the file modification time in Unix milliseconds.
	ModTime int64
	// Hash is the hex-encoded content hash.
	Hash string
}

// Cache maps relative file paths to entries. It is safe for concurrent use.
type Cache struct {
	// key: relative path
	entries *xsync.Map[string, Entry]
}

// New returns an empty cache.
func New() *Cache {
	return &Cache{entries: xsync.NewMap[string, Entry]()}
}

// Get returns the entry stored for path.
func (c *Cache) Get(path string) (Entry, bool) {
	return c.entries.Load(path)
}

// Set stores e for path, replacing any previous entry.
func (c *Cache) Set(path string, e Entry) {
	c.entries.Store(path, e)
}

// Delete removes path from the cache.
func (c *Cache) Delete(path string) {
	c.entries.Delete(path)
}

// Len returns the number of entries.
func (c *Cache) Len() int {
	return c.entries.Size()
}

// Range calls fn for each (path, entry) pair until fn returns false.
// Iteration order is unspecified.
func (c *Cache) Range(fn func(path string, e Entry) bool) {
	c.entries.Range(fn)
}

// Lookup returns the cached hash for path only if the stored modification
// time equals modTime.
func (c *Cache) Lookup(path string, modTime int64) (string, bool) {
	e, ok := c.entries.Load(path)
	if !ok || e.ModTime != modTime {
		return "", false
	}
	return e.Hash, true
}
