// Package history keeps the list of past search terms, most recent first.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/JINMI714/JMsTube/internal/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// MaxEntries caps the number of remembered searches.
	MaxEntries = 50
	// StorageKey is the key the list is persisted under.
	StorageKey = "jms_history"
	// DefaultTimeLayout formats Entry.Timestamp.
	DefaultTimeLayout = "2006-01-02 15:04:05"
)

// Entry is one remembered search.
type Entry struct {
	ID        string `json:"id"`
	Term      string `json:"term"`
	Timestamp string `json:"date"`
}

// Cache is the search history. Every mutation is written through to the store.
type Cache struct {
	mu      sync.Mutex
	store   store.KeyValueStore
	entries []Entry

	now    func() time.Time
	newID  func() (string, error)
	layout string
	logger *zap.Logger
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// WithTimeLayout sets the layout used for entry timestamps.
func WithTimeLayout(layout string) Option {
	return func(c *Cache) {
		if layout != "" {
			c.layout = layout
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Cache) { c.logger = logger }
}

// New loads the history from kv. A missing or unreadable list starts empty.
func New(ctx context.Context, kv store.KeyValueStore, opts ...Option) (*Cache, error) {
	c := &Cache{
		store:  kv,
		now:    time.Now,
		newID:  newID,
		layout: DefaultTimeLayout,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	raw, err := kv.Get(ctx, StorageKey)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return c, nil
	case err != nil:
		return nil, fmt.Errorf("load history: %w", err)
	}

	var entries []Entry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		c.logger.Warn("discarding unreadable history", zap.Error(err))
		return c, nil
	}
	c.entries = normalize(entries)
	return c, nil
}

// newID returns a time-ordered UUID so ids sort in creation order.
func newID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// normalize drops later duplicates of a term and caps the list.
func normalize(entries []Entry) []Entry {
	seen := make(map[string]bool, len(entries))
	out := make([]Entry, 0, min(len(entries), MaxEntries))
	for _, e := range entries {
		if seen[e.Term] {
			continue
		}
		seen[e.Term] = true
		out = append(out, e)
		if len(out) == MaxEntries {
			break
		}
	}
	return out
}

// Entries returns a copy of the history, most recent first.
func (c *Cache) Entries() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.entries)
}

// Record puts term at the front of the history, removing an earlier entry with
// the same term. Terms are compared exactly.
func (c *Cache) Record(ctx context.Context, term string) (Entry, error) {
	id, err := c.newID()
	if err != nil {
		return Entry{}, fmt.Errorf("generate history id: %w", err)
	}
	entry := Entry{
		ID:        id,
		Term:      term,
		Timestamp: c.now().Format(c.layout),
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	next := make([]Entry, 0, len(c.entries)+1)
	next = append(next, entry)
	for _, e := range c.entries {
		if e.Term != term {
			next = append(next, e)
		}
	}
	if len(next) > MaxEntries {
		next = next[:MaxEntries]
	}
	c.entries = next

	return entry, c.persist(ctx)
}

// Delete removes the entry with the given id. Unknown ids are ignored.
func (c *Cache) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := slices.IndexFunc(c.entries, func(e Entry) bool { return e.ID == id })
	if i < 0 {
		return nil
	}
	c.entries = slices.Delete(slices.Clone(c.entries), i, i+1)
	return c.persist(ctx)
}

// Clear removes every entry.
func (c *Cache) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = nil
	return c.persist(ctx)
}

// persist writes the list; callers hold c.mu. The in-memory list stays
// authoritative when the write fails.
func (c *Cache) persist(ctx context.Context) error {
	entries := c.entries
	if entries == nil {
		entries = []Entry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	if err := c.store.Set(ctx, StorageKey, string(data)); err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	return nil
}
