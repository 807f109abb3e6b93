// Package memstore implements storage.Store in process memory. Nothing
// survives a restart; it backs the shell when persistence is disabled and in
// tests.
package memstore

import (
	"context"
	"sync/atomic"

	"github.com/zjrosen/replshell/internal/cachemanager"
	"github.com/zjrosen/replshell/internal/storage"
)

// Store is an in-memory key/value store.
type Store struct {
	items  *cachemanager.InMemoryCacheManager[string, string]
	closed atomic.Bool
}

var _ storage.Store = (*Store)(nil)

// New returns an empty store.
func New() *Store {
	return &Store{
		items: cachemanager.NewInMemoryCacheManager[string, string]("memstore", cachemanager.NoExpiration, 0),
	}
}

// GetItem implements storage.Store.
func (s *Store) GetItem(ctx context.Context, key string) (string, bool, error) {
	if err := s.check(key); err != nil {
		return "", false, err
	}
	v, ok := s.items.Get(ctx, key)
	return v, ok, nil
}

// SetItem implements storage.Store.
func (s *Store) SetItem(ctx context.Context, key, value string) error {
	if err := s.check(key); err != nil {
		return err
	}
	s.items.Set(ctx, key, value, cachemanager.NoExpiration)
	return nil
}

// RemoveItem implements storage.Store.
func (s *Store) RemoveItem(ctx context.Context, key string) error {
	if err := s.check(key); err != nil {
		return err
	}
	return s.items.Delete(ctx, key)
}

// Keys implements storage.Store.
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	if s.closed.Load() {
		return nil, storage.ErrClosed
	}
	return s.items.Keys(ctx), nil
}

// Close implements storage.Store.
func (s *Store) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	return s.items.Flush(context.Background())
}

func (s *Store) check(key string) error {
	if s.closed.Load() {
		return storage.ErrClosed
	}
	return storage.CheckKey(key)
}
