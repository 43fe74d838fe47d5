package history

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/JINMI714/JMsTube/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T, kv store.KeyValueStore) *Cache {
	t.Helper()
	clock := time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)
	c, err := New(context.Background(), kv, WithClock(func() time.Time { return clock }))
	require.NoError(t, err)
	return c
}

func terms(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Term
	}
	return out
}

func TestRecordPrependsAndDedupes(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t, store.NewMemory())

	_, err := c.Record(ctx, "go")
	require.NoError(t, err)
	_, err = c.Record(ctx, "rust")
	require.NoError(t, err)
	latest, err := c.Record(ctx, "go")
	require.NoError(t, err)

	entries := c.Entries()
	assert.Equal(t, []string{"go", "rust"}, terms(entries))
	assert.Equal(t, latest.ID, entries[0].ID)
	assert.Equal(t, "2025-03-01 09:30:00", entries[0].Timestamp)
}

func TestRecordSameTermTwice(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t, store.NewMemory())

	_, err := c.Record(ctx, "lofi")
	require.NoError(t, err)
	_, err = c.Record(ctx, "lofi")
	require.NoError(t, err)

	assert.Equal(t, []string{"lofi"}, terms(c.Entries()))
}

func TestRecordIsCaseSensitive(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t, store.NewMemory())

	_, _ = c.Record(ctx, "Go")
	_, _ = c.Record(ctx, "go")
	assert.Equal(t, []string{"go", "Go"}, terms(c.Entries()))
}

func TestRecordCapsAtMaxEntries(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t, store.NewMemory())

	for i := 0; i <= MaxEntries; i++ {
		_, err := c.Record(ctx, fmt.Sprintf("term-%d", i))
		require.NoError(t, err)
	}

	entries := c.Entries()
	require.Len(t, entries, MaxEntries)
	assert.Equal(t, fmt.Sprintf("term-%d", MaxEntries), entries[0].Term)
	assert.Equal(t, "term-1", entries[MaxEntries-1].Term)
}

func TestIDsAreUniqueAndOrdered(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t, store.NewMemory())

	a, err := c.Record(ctx, "a")
	require.NoError(t, err)
	b, err := c.Record(ctx, "b")
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
	assert.Less(t, a.ID, b.ID)
}

func TestDeleteAndClear(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t, store.NewMemory())

	a, _ := c.Record(ctx, "a")
	_, _ = c.Record(ctx, "b")
	_, _ = c.Record(ctx, "c")

	require.NoError(t, c.Delete(ctx, a.ID))
	assert.Equal(t, []string{"c", "b"}, terms(c.Entries()))

	require.NoError(t, c.Delete(ctx, "does-not-exist"))
	assert.Len(t, c.Entries(), 2)

	require.NoError(t, c.Clear(ctx))
	assert.Empty(t, c.Entries())
}

func TestHistoryIsPersisted(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	c := newTestCache(t, kv)

	_, _ = c.Record(ctx, "first")
	second, _ := c.Record(ctx, "second")

	reloaded := newTestCache(t, kv)
	assert.Equal(t, c.Entries(), reloaded.Entries())
	assert.Equal(t, second.ID, reloaded.Entries()[0].ID)

	require.NoError(t, reloaded.Clear(ctx))
	raw, err := kv.Get(ctx, StorageKey)
	require.NoError(t, err)
	assert.Equal(t, "[]", raw)
}

func TestLoadNormalizesStoredList(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	require.NoError(t, kv.Set(ctx, StorageKey, `[{"id":"2","term":"x","date":"d"},{"id":"1","term":"x","date":"d"},{"id":"0","term":"y","date":"d"}]`))

	c := newTestCache(t, kv)
	assert.Equal(t, []string{"x", "y"}, terms(c.Entries()))
	assert.Equal(t, "2", c.Entries()[0].ID)
}

func TestLoadDiscardsCorruptList(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	require.NoError(t, kv.Set(ctx, StorageKey, "{not json"))

	c := newTestCache(t, kv)
	assert.Empty(t, c.Entries())
}

type failingStore struct{ store.KeyValueStore }

func (failingStore) Set(context.Context, string, string) error { return errors.New("disk full") }

func TestRecordReportsPersistFailure(t *testing.T) {
	c := newTestCache(t, failingStore{store.NewMemory()})

	_, err := c.Record(context.Background(), "kept")
	assert.ErrorContains(t, err, "disk full")
	assert.Equal(t, []string{"kept"}, terms(c.Entries()))
}

func TestConcurrentRecordsKeepInvariants(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t, store.NewMemory())

	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = c.Record(ctx, fmt.Sprintf("t%d", i%70))
		}(i)
	}
	wg.Wait()

	entries := c.Entries()
	assert.LessOrEqual(t, len(entries), MaxEntries)
	seen := map[string]bool{}
	for _, e := range entries {
		assert.False(t, seen[e.Term], "duplicate term %s", e.Term)
		seen[e.Term] = true
	}
}
