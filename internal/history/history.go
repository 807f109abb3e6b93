// Package history keeps the shell's command history: the persisted list of
// executed commands plus a browsing copy whose entries can be edited while
// the user walks through them with up/down. Edits to the browsing copy are
// discarded when the next command starts.
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/zjrosen/replshell/internal/log"
	"github.com/zjrosen/replshell/internal/storage"
	"github.com/zjrosen/replshell/internal/tracing"
)

const (
	// DefaultMaxEntries bounds the persisted list when no maximum is configured.
	DefaultMaxEntries = 2500
	// DefaultKey is the store key the list is saved under.
	DefaultKey = "shell.history"
)

var tracer = otel.Tracer("github.com/zjrosen/replshell/internal/history")

// Options configures a History.
type Options struct {
	// Store persists the list. Nil keeps history in memory only.
	Store storage.Store
	// Key is the store key. Empty means DefaultKey.
	Key string
	// MaxEntries bounds the list. Zero or negative means DefaultMaxEntries.
	MaxEntries int
}

// History is safe for concurrent use; saves run off the UI goroutine.
type History struct {
	mu     sync.Mutex
	saveMu sync.Mutex // held across a whole Save
	store  storage.Store
	key    string
	max    int

	actual   []string // executed commands, oldest first
	commands []string // browsing copy of actual
	pointer  int      // 0 is the live line, n the n-th most recent entry
	current  string   // live line saved when leaving pointer 0

	// gen counts changes to actual; savedGen is the gen of stored, the list
	// last known to be in the store.
	gen      uint64
	savedGen uint64
	stored   []string
}

// New returns an empty history. Call Restore to load the stored list.
func New(opts Options) *History {
	key := opts.Key
	if key == "" {
		key = DefaultKey
	}
	maxEntries := opts.MaxEntries
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &History{
		store: opts.Store,
		key:   key,
		max:   maxEntries,
	}
}

// Key returns the store key.
func (h *History) Key() string {
	return h.key
}

// Max returns the maximum number of entries kept.
func (h *History) Max() int {
	return h.max
}

// Push appends line to the executed list. Blank lines are ignored; the
// return value reports whether the list changed and needs saving.
func (h *History) Push(line string) bool {
	if strings.TrimSpace(line) == "" {
		return false
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.actual = h.truncate(append(h.actual, line))
	h.gen++
	return true
}

// ResetPointer returns to the live line and drops all edits made while
// browsing.
func (h *History) ResetPointer() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.resetLocked()
}

func (h *History) resetLocked() {
	h.pointer = 0
	h.current = ""
	h.commands = append(h.commands[:0:0], h.actual...)
}

// Navigate moves one entry back (up) or forward (down). line is the text
// currently after the prompt; it is kept so that coming back to this slot
// restores it. moved is false at either end, in which case text is empty
// and the caller leaves the line alone.
func (h *History) Navigate(up bool, line string) (text string, moved bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	n := len(h.commands)
	if up {
		if h.pointer >= n {
			return "", false
		}
	} else if h.pointer == 0 {
		return "", false
	}

	if h.pointer == 0 {
		h.current = line
	} else {
		h.commands[n-h.pointer] = line
	}

	if up {
		h.pointer++
	} else {
		h.pointer--
	}

	if h.pointer == 0 {
		return h.current, true
	}
	return h.commands[n-h.pointer], true
}

// Entries returns a copy of the executed list, oldest first.
func (h *History) Entries() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.actual...)
}

// Len returns the number of executed entries.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.actual)
}

// Pointer returns the browsing position, 0 at the live line.
func (h *History) Pointer() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.pointer
}

// Replace swaps in a new executed list, typically one written to the store by
// another shell instance. Browsing state is reset.
func (h *History) Replace(entries []string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.actual = h.truncate(append([]string(nil), entries...))
	h.resetLocked()
	h.markStoredLocked()
}

// Pending reports whether the list has changes Save has not written yet.
func (h *History) Pending() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.gen != h.savedGen
}

// InSync reports whether entries match the store contents this history last
// wrote or loaded, and no newer changes are waiting to be saved. A watcher
// event for which InSync holds is an echo of our own write.
func (h *History) InSync(entries []string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.gen == h.savedGen && slices.Equal(entries, h.stored)
}

// markStoredLocked records actual as matching the store.
func (h *History) markStoredLocked() {
	h.gen++
	h.savedGen = h.gen
	h.stored = append([]string(nil), h.actual...)
}

// truncate keeps the newest max entries.
func (h *History) truncate(entries []string) []string {
	if len(entries) <= h.max {
		return entries
	}
	return append([]string(nil), entries[len(entries)-h.max:]...)
}

// Save writes the executed list to the store as a JSON array.
func (h *History) Save(ctx context.Context) error {
	if h.store == nil {
		return nil
	}
	h.saveMu.Lock()
	defer h.saveMu.Unlock()

	ctx, span := tracer.Start(ctx, tracing.SpanHistorySave)
	defer span.End()

	h.mu.Lock()
	entries := append([]string{}, h.actual...)
	gen := h.gen
	h.mu.Unlock()
	span.SetAttributes(attribute.String(tracing.AttrHistoryKey, h.key), attribute.Int(tracing.AttrHistorySize, len(entries)))

	data, err := json.Marshal(entries)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "encode failed")
		return fmt.Errorf("encoding history: %w", err)
	}
	if err := h.store.SetItem(ctx, h.key, string(data)); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "store failed")
		return fmt.Errorf("saving history: %w", err)
	}
	h.mu.Lock()
	// A Replace or Clear after the snapshot already moved savedGen past gen.
	if gen > h.savedGen {
		h.savedGen = gen
		h.stored = entries
	}
	h.mu.Unlock()
	log.Debug(log.CatHistory, "history saved", "key", h.key, "entries", len(entries))
	return nil
}

// Restore loads the stored list. A missing or malformed value leaves the
// history empty and is only logged; store failures are returned.
func (h *History) Restore(ctx context.Context) error {
	if h.store == nil {
		return nil
	}
	entries, err := Load(ctx, h.store, h.key)
	if err != nil {
		return err
	}
	h.Replace(entries)
	log.Debug(log.CatHistory, "history restored", "key", h.key, "entries", len(entries))
	return nil
}

// Clear empties the list and removes it from the store.
func (h *History) Clear(ctx context.Context) error {
	h.mu.Lock()
	h.actual = nil
	h.resetLocked()
	h.gen++
	h.mu.Unlock()

	if h.store == nil {
		return nil
	}
	if err := h.store.RemoveItem(ctx, h.key); err != nil {
		return fmt.Errorf("clearing history: %w", err)
	}
	h.mu.Lock()
	if len(h.actual) == 0 {
		h.markStoredLocked()
	}
	h.mu.Unlock()
	return nil
}

// Load decodes the list stored under key. Absent and malformed values yield
// an empty list.
func Load(ctx context.Context, store storage.Store, key string) ([]string, error) {
	raw, ok, err := store.GetItem(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}
	if !ok || raw == "" {
		return nil, nil
	}
	var entries []string
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		log.Warn(log.CatHistory, "ignoring malformed stored history", "key", key, "error", err)
		return nil, nil
	}
	return entries, nil
}
