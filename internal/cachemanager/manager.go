// Package cachemanager provides a small generic caching layer used to keep
// hot key/value store reads in memory.
package cachemanager

import (
	"context"
	"time"
)

// NoExpiration keeps an entry until it is deleted or flushed.
const NoExpiration time.Duration = -1

// CacheManager is a typed key/value cache with per-entry TTLs.
type CacheManager[K ~string, V any] interface {
	Get(ctx context.Context, key K) (V, bool)
	GetMultiple(ctx context.Context, keys []K) (map[K]V, bool)
	GetWithRefresh(ctx context.Context, key K, ttl time.Duration) (V, bool)
	Set(ctx context.Context, key K, value V, ttl time.Duration)
	Delete(ctx context.Context, keys ...K) error
	Flush(ctx context.Context) error
	Keys(ctx context.Context) []K
}
