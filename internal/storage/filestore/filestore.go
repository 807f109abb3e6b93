// Package filestore implements storage.Store as a single JSON object file.
// Every write replaces the file atomically (temp file + rename), so another
// process watching the file never observes a partial document.
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/zjrosen/replshell/internal/log"
	"github.com/zjrosen/replshell/internal/storage"
)

// Store is a JSON file backed key/value store.
type Store struct {
	mu     sync.Mutex
	path   string
	closed bool
}

var _ storage.Store = (*Store)(nil)

// Open returns a store persisting to path. The file is created lazily on the
// first write; parent directories are created immediately.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("filestore: path is required")
	}
	clean := filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(clean), 0o750); err != nil {
		return nil, fmt.Errorf("filestore: creating directory: %w", err)
	}
	return &Store{path: clean}, nil
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) read() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("filestore: reading %s: %w", s.path, err)
	}
	if len(data) == 0 {
		return map[string]string{}, nil
	}
	items := map[string]string{}
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("filestore: decoding %s: %w", s.path, err)
	}
	return items, nil
}

func (s *Store) write(items map[string]string) error {
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("filestore: encoding: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("filestore: creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("filestore: writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("filestore: closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("filestore: replacing %s: %w", s.path, err)
	}
	return nil
}

// GetItem implements storage.Store.
func (s *Store) GetItem(ctx context.Context, key string) (string, bool, error) {
	if err := storage.CheckKey(key); err != nil {
		return "", false, err
	}
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", false, storage.ErrClosed
	}

	items, err := s.read()
	if err != nil {
		return "", false, err
	}
	v, ok := items[key]
	return v, ok, nil
}

// SetItem implements storage.Store. A corrupt existing file is replaced.
func (s *Store) SetItem(ctx context.Context, key, value string) error {
	if err := storage.CheckKey(key); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return storage.ErrClosed
	}

	items, err := s.read()
	if err != nil {
		log.Warn(log.CatStorage, "replacing unreadable store file", "path", s.path, "error", err)
		items = map[string]string{}
	}
	items[key] = value
	return s.write(items)
}

// RemoveItem implements storage.Store.
func (s *Store) RemoveItem(ctx context.Context, key string) error {
	if err := storage.CheckKey(key); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return storage.ErrClosed
	}

	items, err := s.read()
	if err != nil {
		return err
	}
	if _, ok := items[key]; !ok {
		return nil
	}
	delete(items, key)
	return s.write(items)
}

// Keys implements storage.Store.
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, storage.ErrClosed
	}

	items, err := s.read()
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(items))
	for k := range items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Close implements storage.Store.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
