package testutil

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/replshell/internal/storage"
)

// DefaultHistoryKey mirrors the key the shell uses when none is configured.
const DefaultHistoryKey = "shell.history"

// HistoryBuilder seeds a store with a stored history value.
type HistoryBuilder struct {
	t       *testing.T
	store   storage.Store
	key     string
	entries []string
	raw     *string
}

// NewHistoryBuilder creates a builder writing into store.
func NewHistoryBuilder(t *testing.T, store storage.Store) *HistoryBuilder {
	t.Helper()
	return &HistoryBuilder{t: t, store: store, key: DefaultHistoryKey}
}

// WithKey overrides the storage key.
func (b *HistoryBuilder) WithKey(key string) *HistoryBuilder {
	b.key = key
	return b
}

// WithEntries appends commands, oldest first.
func (b *HistoryBuilder) WithEntries(entries ...string) *HistoryBuilder {
	b.entries = append(b.entries, entries...)
	return b
}

// WithRaw stores value verbatim instead of a JSON array, for malformed data.
func (b *HistoryBuilder) WithRaw(value string) *HistoryBuilder {
	b.raw = &value
	return b
}

// Build writes the value.
func (b *HistoryBuilder) Build() {
	b.t.Helper()
	value := ""
	if b.raw != nil {
		value = *b.raw
	} else {
		entries := b.entries
		if entries == nil {
			entries = []string{}
		}
		data, err := json.Marshal(entries)
		require.NoError(b.t, err)
		value = string(data)
	}
	require.NoError(b.t, b.store.SetItem(context.Background(), b.key, value))
}

// StoredHistory decodes the history stored under key.
func StoredHistory(t *testing.T, store storage.Store, key string) []string {
	t.Helper()
	v, ok, err := store.GetItem(context.Background(), key)
	require.NoError(t, err)
	if !ok {
		return nil
	}
	var entries []string
	require.NoError(t, json.Unmarshal([]byte(v), &entries))
	return entries
}
