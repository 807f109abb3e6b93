package cachemanager

import (
	"context"
	"time"
)

// ReadThroughCache serves reads from cache and falls back to fn on a miss,
// storing the loaded value.
type ReadThroughCache[K ~string, V any, I any] struct {
	cache           CacheManager[K, V]
	fn              func(ctx context.Context, input I) (V, error)
	shouldSkipCache bool
}

func NewReadThroughCache[K ~string, V any, I any](
	cache CacheManager[K, V],
	fn func(ctx context.Context, input I) (V, error),
	shouldSkipCache bool,
) *ReadThroughCache[K, V, I] {
	return &ReadThroughCache[K, V, I]{
		cache:           cache,
		fn:              fn,
		shouldSkipCache: shouldSkipCache,
	}
}

func (r *ReadThroughCache[K, V, I]) Get(ctx context.Context, key K, input I, ttl time.Duration) (V, error) {
	if r.shouldSkipCache {
		return r.fn(ctx, input)
	}

	if value, ok := r.cache.Get(ctx, key); ok {
		return value, nil
	}

	value, err := r.fn(ctx, input)
	if err != nil {
		return value, err
	}

	r.cache.Set(ctx, key, value, ttl)
	return value, nil
}

// Invalidate drops key so the next Get reloads it.
func (r *ReadThroughCache[K, V, I]) Invalidate(ctx context.Context, keys ...K) error {
	return r.cache.Delete(ctx, keys...)
}

// Prime stores value without consulting fn, used after a write-through.
func (r *ReadThroughCache[K, V, I]) Prime(ctx context.Context, key K, value V, ttl time.Duration) {
	if r.shouldSkipCache {
		return
	}
	r.cache.Set(ctx, key, value, ttl)
}
