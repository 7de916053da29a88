package cache

import (
	"context"
	"sync"
)

// MemoryCache is an in-memory Cache for tests.
type MemoryCache struct {
	mu     sync.Mutex
	byHash map[string]string
	byURL  map[string]string
}

// NewMemoryCache creates a new in-memory URL cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		byHash: make(map[string]string),
		byURL:  make(map[string]string),
	}
}

func (c *MemoryCache) Get(_ context.Context, hash string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	url, ok := c.byHash[hash]

	return url, ok
}

func (c *MemoryCache) GetHashByURL(_ context.Context, url string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	hash, ok := c.byURL[url]

	return hash, ok
}

func (c *MemoryCache) Put(_ context.Context, hash, url string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.byHash[hash] = url
	c.byURL[url] = hash
}

func (c *MemoryCache) Evict(_ context.Context, hash, url string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.byHash, hash)
	delete(c.byURL, url)
}

var _ Cache = (*MemoryCache)(nil)
