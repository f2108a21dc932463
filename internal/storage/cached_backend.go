package storage

import (
	"context"
	"kickoff/internal/providers"
	"kickoff/internal/storage/interfaces"
	"sync"
)

// CachedBackend serves repeated reads from memory. Writes go through to the
// backend first; a failed write evicts the key so the cache never runs ahead.
// Backend access and the matching cache update happen under one lock, so a
// concurrent Remove cannot be overtaken by the cache fill of an older Set.
type CachedBackend struct {
	mu    sync.Mutex
	inner interfaces.BackendInterface
	cache providers.CacheProviderInterface
}

func NewCachedBackend(inner interfaces.BackendInterface, cache providers.CacheProviderInterface) *CachedBackend {
	return &CachedBackend{inner: inner, cache: cache}
}

func (c *CachedBackend) cacheKey(key string) string {
	return c.inner.Name() + ":" + key
}

func (c *CachedBackend) Name() string {
	return c.inner.Name()
}

func (c *CachedBackend) Get(ctx context.Context, key string) ([]byte, error) {
	if val, ok := c.cache.Get(c.cacheKey(key)); ok {
		return val, nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	val, err := c.inner.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	c.cache.Set(c.cacheKey(key), val)
	return val, nil
}

func (c *CachedBackend) Set(ctx context.Context, key string, value []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.inner.Set(ctx, key, value); err != nil {
		c.cache.Del(c.cacheKey(key))
		return err
	}
	c.cache.Set(c.cacheKey(key), value)
	return nil
}

func (c *CachedBackend) Remove(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache.Del(c.cacheKey(key))
	return c.inner.Remove(ctx, key)
}

func (c *CachedBackend) Close() error {
	return c.inner.Close()
}
