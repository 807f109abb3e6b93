package storage

import (
	"context"
	"time"

	"github.com/zjrosen/replshell/internal/cachemanager"
	"github.com/zjrosen/replshell/internal/log"
)

type cachedValue struct {
	value string
	found bool
}

// Cached is a read-through decorator that keeps recently read values in memory.
// Writes go to the inner store first and then refresh the cache.
type Cached struct {
	inner Store
	ttl   time.Duration
	cache *cachemanager.InMemoryCacheManager[string, cachedValue]
	rt    *cachemanager.ReadThroughCache[string, cachedValue, string]
}

var _ Store = (*Cached)(nil)

// NewCached wraps inner with a cache whose entries live for ttl.
func NewCached(inner Store, ttl time.Duration) *Cached {
	if ttl == 0 {
		ttl = cachemanager.DefaultExpiration
	}
	c := &Cached{
		inner: inner,
		ttl:   ttl,
		cache: cachemanager.NewInMemoryCacheManager[string, cachedValue]("store", ttl, cachemanager.DefaultCleanupInterval),
	}
	c.rt = cachemanager.NewReadThroughCache[string, cachedValue, string](c.cache, c.load, false)
	return c
}

func (c *Cached) load(ctx context.Context, key string) (cachedValue, error) {
	value, found, err := c.inner.GetItem(ctx, key)
	if err != nil {
		return cachedValue{}, err
	}
	return cachedValue{value: value, found: found}, nil
}

// GetItem implements Store.
func (c *Cached) GetItem(ctx context.Context, key string) (string, bool, error) {
	if err := CheckKey(key); err != nil {
		return "", false, err
	}
	v, err := c.rt.Get(ctx, key, key, c.ttl)
	if err != nil {
		return "", false, err
	}
	return v.value, v.found, nil
}

// SetItem implements Store.
func (c *Cached) SetItem(ctx context.Context, key, value string) error {
	if err := c.inner.SetItem(ctx, key, value); err != nil {
		_ = c.rt.Invalidate(ctx, key)
		return err
	}
	c.rt.Prime(ctx, key, cachedValue{value: value, found: true}, c.ttl)
	return nil
}

// RemoveItem implements Store.
func (c *Cached) RemoveItem(ctx context.Context, key string) error {
	err := c.inner.RemoveItem(ctx, key)
	_ = c.rt.Invalidate(ctx, key)
	return err
}

// Keys implements Store. Keys are never cached.
func (c *Cached) Keys(ctx context.Context) ([]string, error) {
	return c.inner.Keys(ctx)
}

// Invalidate forgets every cached value, forcing the next reads to hit the
// inner store. Used when another process rewrote the store.
func (c *Cached) Invalidate(ctx context.Context) {
	_ = c.cache.Flush(ctx)
	log.Debug(log.CatStorage, "store cache invalidated")
}

// Close implements Store.
func (c *Cached) Close() error {
	_ = c.cache.Flush(context.Background())
	return c.inner.Close()
}
