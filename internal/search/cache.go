package search

import "sync"

// ContentCache holds extracted file content for the duration of one search,
// so previews never re-read or re-extract what content matching already
// loaded. Only content at or under the admission limit is stored; larger
// content is simply not cached, never an error. Entries are write-once:
// the first Put for a path wins.
type ContentCache struct {
	mu    sync.RWMutex
	limit int64
	items map[string]string
}

// NewContentCache returns a cache admitting content of at most limit bytes.
func NewContentCache(limit int64) *ContentCache {
	return &ContentCache{
		limit: limit,
		items: make(map[string]string),
	}
}

// Get returns the cached content for path.
func (c *ContentCache) Get(path string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	content, ok := c.items[path]
	return content, ok
}

// Put stores content for path if it fits the admission limit and no entry
// exists yet.
func (c *ContentCache) Put(path, content string) {
	if int64(len(content)) > c.limit {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.items[path]; ok {
		return
	}
	c.items[path] = content
}

// Len returns the number of cached entries.
func (c *ContentCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
