// Package storage defines the key/value store the shell persists its history
// into, modeled on browser local storage: string keys, string values.
package storage

import (
	"context"
	"errors"
)

// ErrClosed is returned by operations on a store after Close.
var ErrClosed = errors.New("storage: store is closed")

// ErrEmptyKey is returned when an operation is given an empty key.
var ErrEmptyKey = errors.New("storage: key is empty")

// Store is a string key/value store.
type Store interface {
	// GetItem returns the value for key. The bool is false when the key is absent.
	GetItem(ctx context.Context, key string) (string, bool, error)
	// SetItem stores value under key, replacing any previous value.
	SetItem(ctx context.Context, key, value string) error
	// RemoveItem deletes key. Removing an absent key is not an error.
	RemoveItem(ctx context.Context, key string) error
	// Keys lists stored keys in sorted order.
	Keys(ctx context.Context) ([]string, error)
	// Close releases the store's resources.
	Close() error
}

// Backend names accepted by configuration.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// ValidBackend reports whether name is a known backend.
func ValidBackend(name string) bool {
	switch name {
	case BackendFile, BackendSQLite, BackendMemory:
		return true
	}
	return false
}

// CheckKey returns ErrEmptyKey for an empty key.
func CheckKey(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	return nil
}
