// Package watcher watches the history store file for changes made by other
// shell instances and publishes them on a pubsub broker, debounced.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/zjrosen/replshell/internal/log"
	"github.com/zjrosen/replshell/internal/pubsub"
)

// Watcher monitors one store file. Events carry the file path.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	path      string
	names     map[string]bool
	debounce  time.Duration
	broker    *pubsub.Broker[string]
	done      chan struct{}
}

// Config holds watcher configuration options.
type Config struct {
	// Path is the store file. Sidecar files (path-wal, path-journal) count as
	// changes to it.
	Path        string
	DebounceDur time.Duration
}

// DefaultConfig returns sensible defaults for the watcher.
func DefaultConfig(path string) Config {
	return Config{
		Path:        path,
		DebounceDur: 300 * time.Millisecond,
	}
}

// New creates a watcher for cfg.Path.
func New(cfg Config) (*Watcher, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("watcher: path is required")
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	path := filepath.Clean(cfg.Path)
	base := filepath.Base(path)
	return &Watcher{
		fsWatcher: fsw,
		path:      path,
		names: map[string]bool{
			base:              true,
			base + "-wal":     true,
			base + "-journal": true,
		},
		debounce: cfg.DebounceDur,
		broker:   pubsub.NewBroker[string](),
		done:     make(chan struct{}),
	}, nil
}

// Subscribe returns a listener for StoreChanged and StoreRemoved events.
func (w *Watcher) Subscribe(ctx context.Context) *pubsub.ContinuousListener[string] {
	return pubsub.NewContinuousListener(ctx, w.broker, pubsub.StoreChanged, pubsub.StoreRemoved)
}

// Start begins watching the directory containing the store file. The
// directory is watched rather than the file because atomic replaces swap
// the inode.
func (w *Watcher) Start() error {
	dir := filepath.Dir(w.path)
	if err := w.fsWatcher.Add(dir); err != nil {
		return fmt.Errorf("watching directory %s: %w", dir, err)
	}
	log.Debug(log.CatWatcher, "watching", "path", w.path)

	go w.loop()
	return nil
}

// Stop terminates the watcher and releases resources.
func (w *Watcher) Stop() error {
	close(w.done)
	w.broker.Close()
	return w.fsWatcher.Close()
}

// loop processes file system events with debouncing.
func (w *Watcher) loop() {
	var (
		timer   *time.Timer
		pending pubsub.EventType
	)

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}

			kind, relevant := w.classify(event)
			if !relevant {
				continue
			}
			// A removal followed by a create (rename over) is a change.
			if pending != pubsub.StoreChanged {
				pending = kind
			}

			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}

		case <-func() <-chan time.Time {
			if timer != nil {
				return timer.C
			}
			return nil
		}():
			if pending != "" {
				log.Debug(log.CatWatcher, "store file event", "type", pending, "path", w.path)
				w.broker.Publish(pending, w.path)
				pending = ""
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.ErrorErr(log.CatWatcher, "watch error", err, "path", w.path)

		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

// classify maps an event on the store file to the event type to publish.
func (w *Watcher) classify(event fsnotify.Event) (pubsub.EventType, bool) {
	if !w.names[filepath.Base(event.Name)] {
		return "", false
	}
	switch {
	case event.Op&(fsnotify.Write|fsnotify.Create) != 0:
		return pubsub.StoreChanged, true
	case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 && filepath.Clean(event.Name) == w.path:
		return pubsub.StoreRemoved, true
	}
	return "", false
}
