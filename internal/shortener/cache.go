package shortener

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// Cache is a bounded LRU of code to original URL, shared by all request
// workers. Entries carry no TTL: a link's target never changes once
// created, so only capacity pressure evicts. The underlying LRU locks per
// operation and no lock is ever held across a store round-trip.
type Cache struct {
	entries *lru.Cache[string, string]
}

// NewCache creates a Cache holding at most capacity entries.
func NewCache(capacity int) (*Cache, error) {
	entries, err := lru.New[string, string](capacity)
	if err != nil {
		return nil, err
	}
	return &Cache{entries: entries}, nil
}

// Get returns the cached URL for code and marks the entry recently used.
func (c *Cache) Get(code string) (string, bool) {
	return c.entries.Get(code)
}

// Put stores a code-to-URL entry, evicting the least recently used entry
// when the cache is full.
func (c *Cache) Put(code, url string) {
	c.entries.Add(code, url)
}

// Len reports the current number of cached entries.
func (c *Cache) Len() int {
	return c.entries.Len()
}
