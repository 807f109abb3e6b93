// Package backend opens the storage.Store selected by configuration.
package backend

import (
	"fmt"
	"time"

	"github.com/zjrosen/replshell/internal/log"
	"github.com/zjrosen/replshell/internal/storage"
	"github.com/zjrosen/replshell/internal/storage/filestore"
	"github.com/zjrosen/replshell/internal/storage/memstore"
	"github.com/zjrosen/replshell/internal/storage/sqlite"
)

// Options selects and configures a backend.
type Options struct {
	// Backend is one of storage.BackendFile, storage.BackendSQLite or
	// storage.BackendMemory. Empty means file.
	Backend string
	// Path is the file or database path. Ignored by the memory backend.
	Path string
	// CacheTTL wraps persistent backends in a read-through cache when positive.
	CacheTTL time.Duration
}

// Open returns the configured store. The returned path is the file to watch
// for external changes; it is empty for the memory backend.
func Open(opts Options) (storage.Store, string, error) {
	name := opts.Backend
	if name == "" {
		name = storage.BackendFile
	}

	var (
		store storage.Store
		err   error
		watch string
	)
	switch name {
	case storage.BackendMemory:
		store = memstore.New()
	case storage.BackendFile:
		var fs *filestore.Store
		fs, err = filestore.Open(opts.Path)
		if err == nil {
			store, watch = fs, fs.Path()
		}
	case storage.BackendSQLite:
		var db *sqlite.Store
		db, err = sqlite.Open(opts.Path)
		if err == nil {
			store, watch = db, db.Path()
		}
	default:
		return nil, "", fmt.Errorf("unknown history backend %q", opts.Backend)
	}
	if err != nil {
		return nil, "", err
	}

	if opts.CacheTTL > 0 && name != storage.BackendMemory {
		store = storage.NewCached(store, opts.CacheTTL)
	}
	log.Info(log.CatStorage, "store opened", "backend", name, "path", watch, "cacheTTL", opts.CacheTTL)
	return store, watch, nil
}
