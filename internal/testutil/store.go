// Package testutil provides shared fixtures for store and history tests.
package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/replshell/internal/storage"
)

// OpenFunc opens a fresh, empty store for one subtest.
type OpenFunc func(t *testing.T) storage.Store

// RunStoreSuite exercises the storage.Store contract against a backend.
func RunStoreSuite(t *testing.T, open OpenFunc) {
	t.Helper()
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		s := open(t)
		v, ok, err := s.GetItem(ctx, "shell.history")
		require.NoError(t, err)
		require.False(t, ok)
		require.Empty(t, v)
	})

	t.Run("set then get", func(t *testing.T) {
		s := open(t)
		require.NoError(t, s.SetItem(ctx, "shell.history", `["a","b"]`))

		v, ok, err := s.GetItem(ctx, "shell.history")
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, `["a","b"]`, v)
	})

	t.Run("overwrite", func(t *testing.T) {
		s := open(t)
		require.NoError(t, s.SetItem(ctx, "k", "1"))
		require.NoError(t, s.SetItem(ctx, "k", "2"))

		v, _, err := s.GetItem(ctx, "k")
		require.NoError(t, err)
		require.Equal(t, "2", v)
	})

	t.Run("remove", func(t *testing.T) {
		s := open(t)
		require.NoError(t, s.SetItem(ctx, "k", "1"))
		require.NoError(t, s.RemoveItem(ctx, "k"))
		require.NoError(t, s.RemoveItem(ctx, "never-set"))

		_, ok, err := s.GetItem(ctx, "k")
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("keys sorted", func(t *testing.T) {
		s := open(t)
		require.NoError(t, s.SetItem(ctx, "zeta", "1"))
		require.NoError(t, s.SetItem(ctx, "alpha", "2"))

		keys, err := s.Keys(ctx)
		require.NoError(t, err)
		require.Equal(t, []string{"alpha", "zeta"}, keys)
	})

	t.Run("empty key", func(t *testing.T) {
		s := open(t)
		_, _, err := s.GetItem(ctx, "")
		require.ErrorIs(t, err, storage.ErrEmptyKey)
		require.ErrorIs(t, s.SetItem(ctx, "", "v"), storage.ErrEmptyKey)
	})

	t.Run("closed", func(t *testing.T) {
		s := open(t)
		require.NoError(t, s.Close())
		require.NoError(t, s.Close())

		_, _, err := s.GetItem(ctx, "k")
		require.ErrorIs(t, err, storage.ErrClosed)
		require.ErrorIs(t, s.SetItem(ctx, "k", "v"), storage.ErrClosed)
	})
}
