package filestore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/replshell/internal/storage"
	"github.com/zjrosen/replshell/internal/testutil"
)

func TestStore_Contract(t *testing.T) {
	testutil.RunStoreSuite(t, func(t *testing.T) storage.Store {
		s, err := Open(filepath.Join(t.TempDir(), "store.json"))
		require.NoError(t, err)
		return s
	})
}

func TestOpen_RequiresPath(t *testing.T) {
	_, err := Open("")
	require.Error(t, err)
}

func TestOpen_CreatesParentDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "history.json")
	_, err := Open(path)
	require.NoError(t, err)

	info, err := os.Stat(filepath.Dir(path))
	require.NoError(t, err)
	require.True(t, info.IsDir())
}

func TestSetItem_WritesJSONObject(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	s, err := Open(path)
	require.NoError(t, err)

	require.NoError(t, s.SetItem(context.Background(), "shell.history", `["ls"]`))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.JSONEq(t, `{"shell.history":"[\"ls\"]"}`, string(data))
}

func TestSetItem_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(filepath.Join(dir, "history.json"))
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		require.NoError(t, s.SetItem(context.Background(), "k", "v"))
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestGetItem_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
	s, err := Open(path)
	require.NoError(t, err)

	_, _, err = s.GetItem(context.Background(), "k")
	require.Error(t, err)

	require.NoError(t, s.SetItem(context.Background(), "k", "v"), "a write replaces the corrupt file")
	v, ok, err := s.GetItem(context.Background(), "k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "v", v)
}

func TestStore_SharedFileBetweenInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	a, err := Open(path)
	require.NoError(t, err)
	b, err := Open(path)
	require.NoError(t, err)

	require.NoError(t, a.SetItem(context.Background(), "shell.history", `["x"]`))

	v, ok, err := b.GetItem(context.Background(), "shell.history")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, `["x"]`, v)
}

func TestGetItem_CanceledContext(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "history.json"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err = s.GetItem(ctx, "k")
	require.ErrorIs(t, err, context.Canceled)
}
