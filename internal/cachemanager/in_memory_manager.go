package cachemanager

import (
	"context"
	"sort"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/zjrosen/replshell/internal/log"
)

const DefaultExpiration = 10 * time.Minute
const DefaultCleanupInterval = 30 * time.Minute

// NewInMemoryCacheManager creates a go-cache backed manager. useCase names the
// cache in log output.
func NewInMemoryCacheManager[K ~string, V any](useCase string, defaultExpiration, cleanupInterval time.Duration) *InMemoryCacheManager[K, V] {
	return &InMemoryCacheManager[K, V]{
		useCase: useCase,
		cache:   gocache.New(defaultExpiration, cleanupInterval),
	}
}

// InMemoryCacheManager implements CacheManager on top of go-cache.
type InMemoryCacheManager[K ~string, V any] struct {
	useCase string
	cache   *gocache.Cache
}

var _ CacheManager[string, string] = (*InMemoryCacheManager[string, string])(nil)

// Get retrieves an item from the cache by its key.
func (c *InMemoryCacheManager[K, V]) Get(ctx context.Context, key K) (V, bool) {
	var zeroValue V
	value, found := c.cache.Get(string(key))
	if !found {
		return zeroValue, false
	}
	v, ok := value.(V)
	if !ok {
		log.Error(log.CatCache, "wrong type assertion when getting value", "cache", c.useCase, "key", key)
		return zeroValue, false
	}
	log.Debug(log.CatCache, "cache hit", "cache", c.useCase, "key", key)
	return v, true
}

// GetMultiple returns every present key. The bool is false only when none were found.
func (c *InMemoryCacheManager[K, V]) GetMultiple(ctx context.Context, keys []K) (map[K]V, bool) {
	if len(keys) == 0 {
		return nil, false
	}

	values := make(map[K]V, len(keys))
	var missing []K
	for _, key := range keys {
		v, ok := c.Get(ctx, key)
		if !ok {
			missing = append(missing, key)
			continue
		}
		values[key] = v
	}

	if len(values) == 0 {
		return nil, false
	}
	if len(missing) > 0 {
		log.Debug(log.CatCache, "partial cache miss", "cache", c.useCase, "missing", missing)
	}
	return values, true
}

// GetWithRefresh retrieves an item and, when found, extends its ttl.
func (c *InMemoryCacheManager[K, V]) GetWithRefresh(ctx context.Context, key K, ttl time.Duration) (V, bool) {
	value, found := c.Get(ctx, key)
	if !found {
		return value, found
	}
	c.Set(ctx, key, value, ttl)
	return value, found
}

// Set stores value under key for ttl. Use NoExpiration to keep it forever.
func (c *InMemoryCacheManager[K, V]) Set(ctx context.Context, key K, value V, ttl time.Duration) {
	c.cache.Set(string(key), value, ttl)
}

// Delete removes the given keys. Missing keys are ignored.
func (c *InMemoryCacheManager[K, V]) Delete(ctx context.Context, keys ...K) error {
	for _, key := range keys {
		c.cache.Delete(string(key))
	}
	return nil
}

// Flush removes every entry.
func (c *InMemoryCacheManager[K, V]) Flush(ctx context.Context) error {
	c.cache.Flush()
	log.Debug(log.CatCache, "cache flushed", "cache", c.useCase)
	return nil
}

// Keys returns the unexpired keys in sorted order.
func (c *InMemoryCacheManager[K, V]) Keys(ctx context.Context) []K {
	items := c.cache.Items()
	keys := make([]K, 0, len(items))
	for k := range items {
		keys = append(keys, K(k))
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
