package git

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// CachedService wraps a Service with a TTL cache for reads. The list
// requests the same log page more than once when end-reached and a
// watcher refresh race; within one TTL each page hits git only once.
//
// The cache is bounded by maxCacheEntries.
type CachedService struct {
	inner Service
	ttl   time.Duration

	mu    sync.Mutex
	cache map[string]cacheEntry
}

// maxCacheEntries caps the number of entries. When exceeded after evicting
// expired entries, the whole cache is flushed.
const maxCacheEntries = 64

type cacheEntry struct {
	val    any
	err    error
	expiry time.Time
}

// Compile-time check.
var _ Service = (*CachedService)(nil)

// NewCachedService wraps an existing Service with a TTL cache.
func NewCachedService(inner Service, ttl time.Duration) *CachedService {
	return &CachedService{
		inner: inner,
		ttl:   ttl,
		cache: make(map[string]cacheEntry, 16),
	}
}

// Invalidate clears all cached entries. Called when the repository changed
// on disk.
func (c *CachedService) Invalidate() {
	c.mu.Lock()
	c.cache = make(map[string]cacheEntry, 16)
	c.mu.Unlock()
}

func (c *CachedService) get(key string) (val any, ok bool, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, found := c.cache[key]
	if !found || time.Now().After(e.expiry) {
		return nil, false, nil
	}
	return e.val, true, e.err
}

func (c *CachedService) set(key string, val any, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.cache) >= maxCacheEntries {
		now := time.Now()
		for k, e := range c.cache {
			if now.After(e.expiry) {
				delete(c.cache, k)
			}
		}
		if len(c.cache) >= maxCacheEntries {
			c.cache = make(map[string]cacheEntry, 16)
		}
	}
	c.cache[key] = cacheEntry{val: val, err: err, expiry: time.Now().Add(c.ttl)}
}

// RepoRoot delegates to the inner service.
func (c *CachedService) RepoRoot() string { return c.inner.RepoRoot() }

// GitDir delegates to the inner service.
func (c *CachedService) GitDir() string { return c.inner.GitDir() }

// Head returns the current HEAD ref (cached).
func (c *CachedService) Head() (string, error) {
	if v, ok, err := c.get("head"); ok {
		return v.(string), err
	}
	v, err := c.inner.Head()
	c.set("head", v, err)
	return v, err
}

// Log returns a page of the commit log (cached per page). Cancelled
// requests are not cached.
func (c *CachedService) Log(ctx context.Context, skip, limit int) ([]Commit, error) {
	key := fmt.Sprintf("log:%d:%d", skip, limit)
	if v, ok, err := c.get(key); ok {
		return v.([]Commit), err
	}
	v, err := c.inner.Log(ctx, skip, limit)
	if ctx.Err() == nil {
		c.set(key, v, err)
	}
	return v, err
}
