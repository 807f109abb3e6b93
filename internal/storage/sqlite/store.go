// Package sqlite implements storage.Store on an embedded SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/zjrosen/replshell/internal/log"
	"github.com/zjrosen/replshell/internal/storage"
	"github.com/zjrosen/replshell/internal/storage/sqlite/migrations"
)

// Store is a SQLite backed key/value store.
type Store struct {
	conn   *sql.DB
	path   string
	closed atomic.Bool
	now    func() time.Time
}

var _ storage.Store = (*Store)(nil)

// Open opens (creating if needed) the database at path and applies pending
// migrations.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite: path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("sqlite: creating directory: %w", err)
	}

	dsn := "file:" + path + "?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)"
	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening %s: %w", path, err)
	}
	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("sqlite: connecting to %s: %w", path, err)
	}

	if err := migrateUp(conn); err != nil {
		_ = conn.Close()
		return nil, err
	}

	log.Debug(log.CatStorage, "sqlite store opened", "path", path)
	return &Store{conn: conn, path: path, now: time.Now}, nil
}

func migrateUp(conn *sql.DB) error {
	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("sqlite: loading migrations: %w", err)
	}
	driver, err := migratesqlite.WithInstance(conn, &migratesqlite.Config{})
	if err != nil {
		_ = src.Close()
		return fmt.Errorf("sqlite: migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		_ = src.Close()
		return fmt.Errorf("sqlite: migrator: %w", err)
	}
	// m.Close would also close conn; only the source is released here.
	defer func() { _ = src.Close() }()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("sqlite: applying migrations: %w", err)
	}
	return nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// GetItem implements storage.Store.
func (s *Store) GetItem(ctx context.Context, key string) (string, bool, error) {
	if err := s.check(key); err != nil {
		return "", false, err
	}
	var value string
	err := s.conn.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("sqlite: get %q: %w", key, err)
	}
	return value, true, nil
}

// SetItem implements storage.Store.
func (s *Store) SetItem(ctx context.Context, key, value string) error {
	if err := s.check(key); err != nil {
		return err
	}
	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, s.now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("sqlite: set %q: %w", key, err)
	}
	return nil
}

// RemoveItem implements storage.Store.
func (s *Store) RemoveItem(ctx context.Context, key string) error {
	if err := s.check(key); err != nil {
		return err
	}
	if _, err := s.conn.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("sqlite: remove %q: %w", key, err)
	}
	return nil
}

// Keys implements storage.Store.
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	if s.closed.Load() {
		return nil, storage.ErrClosed
	}
	rows, err := s.conn.QueryContext(ctx, `SELECT key FROM kv ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing keys: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("sqlite: scanning key: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// UpdatedAt returns when key was last written.
func (s *Store) UpdatedAt(ctx context.Context, key string) (time.Time, bool, error) {
	if err := s.check(key); err != nil {
		return time.Time{}, false, err
	}
	var ms int64
	err := s.conn.QueryRowContext(ctx, `SELECT updated_at FROM kv WHERE key = ?`, key).Scan(&ms)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("sqlite: updated_at %q: %w", key, err)
	}
	return time.UnixMilli(ms), true, nil
}

// Close implements storage.Store.
func (s *Store) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	return s.conn.Close()
}

func (s *Store) check(key string) error {
	if s.closed.Load() {
		return storage.ErrClosed
	}
	return storage.CheckKey(key)
}
