package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/replshell/internal/storage"
	"github.com/zjrosen/replshell/internal/testutil"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_Contract(t *testing.T) {
	testutil.RunStoreSuite(t, func(t *testing.T) storage.Store {
		return openTemp(t)
	})
}

func TestOpen_RunsMigrations(t *testing.T) {
	s := openTemp(t)

	var name string
	err := s.conn.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name='kv'`).Scan(&name)
	require.NoError(t, err)
	require.Equal(t, "kv", name)
}

func TestOpen_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.SetItem(context.Background(), "shell.history", `["1+1"]`))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	v, ok, err := s.GetItem(context.Background(), "shell.history")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, `["1+1"]`, v)
}

func TestOpen_WALMode(t *testing.T) {
	s := openTemp(t)

	var mode string
	require.NoError(t, s.conn.QueryRow(`PRAGMA journal_mode`).Scan(&mode))
	require.Equal(t, "wal", mode)
}

func TestSetItem_RecordsUpdatedAt(t *testing.T) {
	s := openTemp(t)
	fixed := time.UnixMilli(1_700_000_000_000)
	s.now = func() time.Time { return fixed }

	require.NoError(t, s.SetItem(context.Background(), "k", "v"))

	at, ok, err := s.UpdatedAt(context.Background(), "k")
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, fixed.Equal(at))

	_, ok, err = s.UpdatedAt(context.Background(), "missing")
	require.NoError(t, err)
	require.False(t, ok)
}
