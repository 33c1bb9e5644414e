package ogengine

import (
	"context"
	"sync"
	"time"
)

type cachedCollection struct {
	posts   []Post
	fetched time.Time
}

// CollectionCache is an in-memory TTL cache in front of a ContentStore.
// A zero TTL caches until Invalidate is called.
type CollectionCache struct {
	mu          sync.RWMutex
	collections map[string]cachedCollection
	ttl         time.Duration
	store       ContentStore
}

// NewCollectionCache creates a CollectionCache backed by the given store.
func NewCollectionCache(s ContentStore, ttl time.Duration) *CollectionCache {
	return &CollectionCache{
		store:       s,
		ttl:         ttl,
		collections: make(map[string]cachedCollection),
	}
}

func (c *CollectionCache) lookup(name string) ([]Post, bool) {
	cc, ok := c.collections[name]
	if !ok {
		return nil, false
	}
	if c.ttl > 0 && time.Since(cc.fetched) >= c.ttl {
		return nil, false
	}
	return cc.posts, true
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *CollectionCache) Invalidate() {
	c.mu.Lock()
	c.collections = make(map[string]cachedCollection)
	c.mu.Unlock()
}

// GetCollection returns the cached collection, loading it from the store
// when missing or stale. It tries a read lock first and only takes the write
// lock if a reload is needed. Failed loads are not cached.
func (c *CollectionCache) GetCollection(ctx context.Context, name string) ([]Post, error) {
	c.mu.RLock()
	posts, ok := c.lookup(name)
	c.mu.RUnlock()
	if ok {
		return posts, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if posts, ok := c.lookup(name); ok {
		return posts, nil
	}
	posts, err := c.store.GetCollection(ctx, name)
	if err != nil {
		return nil, err
	}
	c.collections[name] = cachedCollection{posts: posts, fetched: time.Now()}
	return posts, nil
}
