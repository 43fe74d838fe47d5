package discovery

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/JINMI714/JMsTube/internal/history"
	"github.com/JINMI714/JMsTube/internal/rank"
	"github.com/JINMI714/JMsTube/internal/store"
	"github.com/JINMI714/JMsTube/internal/yt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type searchFunc func(ctx context.Context, q yt.Phase1Query) (*yt.SearchResponse, error)

func (f searchFunc) Search(ctx context.Context, q yt.Phase1Query) (*yt.SearchResponse, error) {
	return f(ctx, q)
}

var fixedNow = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

func twoCandidatesOneDetail(q yt.Phase1Query) *yt.SearchResponse {
	return &yt.SearchResponse{
		Query: q.Term,
		Candidates: []yt.CandidateRecord{
			{VideoID: "v1", Title: "First", ChannelTitle: "A"},
			{VideoID: "v2", Title: "Second", ChannelTitle: "B"},
		},
		Details: []yt.DetailRecord{
			{VideoID: "v1", ViewCount: 1000, LikeCount: 80, CommentCount: 5, Duration: "PT3M2S"},
		},
	}
}

func newTestSession(t *testing.T, searcher Searcher, opts ...SessionOption) (*Session, *history.Cache) {
	t.Helper()
	h, err := history.New(context.Background(), store.NewMemory())
	require.NoError(t, err)
	opts = append([]SessionOption{WithHistory(h), WithSessionClock(func() time.Time { return fixedNow })}, opts...)
	return NewSession(searcher, opts...), h
}

func TestSearchEndToEnd(t *testing.T) {
	var got yt.Phase1Query
	s, h := newTestSession(t, searchFunc(func(_ context.Context, q yt.Phase1Query) (*yt.SearchResponse, error) {
		got = q
		return twoCandidatesOneDetail(q), nil
	}), WithFilters(FilterConfig{ResultLimit: 50, PeriodDays: 7, RegionCode: "KR", Tiers: rank.AllTiers}))

	out, err := s.Search(context.Background(), "  test ")
	require.NoError(t, err)
	assert.Equal(t, StatusDone, out.Status)
	assert.Equal(t, 2, out.Records)

	assert.Equal(t, "test", got.Term)
	assert.Equal(t, int64(50), got.MaxResults)
	assert.Equal(t, "KR", got.RegionCode)
	assert.Empty(t, got.RelevanceLanguage)
	assert.Equal(t, "2025-06-03T12:00:00Z", got.PublishedAfter)

	records := s.Records()
	require.Len(t, records, 2)
	assert.True(t, records[0].HasDetail())
	assert.Equal(t, uint64(1000), records[0].ViewCount())
	assert.False(t, records[1].HasDetail())
	assert.Zero(t, records[1].ViewCount())

	great := rank.NewTierSet(rank.TierGreat)
	require.NoError(t, s.SetFilters(context.Background(), FilterPatch{Tiers: &great}))
	records = s.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "v1", records[0].VideoID)

	entries := h.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "test", entries[0].Term)

	snap := s.Snapshot()
	assert.Equal(t, StatusDone, snap.Status)
	assert.Equal(t, "test", snap.Term)
	assert.Equal(t, 2, snap.Total)
}

func TestSearchRejectsEmptyTerm(t *testing.T) {
	called := false
	s, _ := newTestSession(t, searchFunc(func(context.Context, yt.Phase1Query) (*yt.SearchResponse, error) {
		called = true
		return nil, nil
	}))

	_, err := s.Search(context.Background(), "   ")
	assert.ErrorIs(t, err, yt.ErrEmptyTerm)
	assert.False(t, called)
	assert.Equal(t, StatusReady, s.Snapshot().Status)
}

func TestSearchNoResults(t *testing.T) {
	s, h := newTestSession(t, searchFunc(func(_ context.Context, q yt.Phase1Query) (*yt.SearchResponse, error) {
		return &yt.SearchResponse{Query: q.Term}, nil
	}))

	out, err := s.Search(context.Background(), "nothing")
	require.NoError(t, err)
	assert.Equal(t, StatusNoResults, out.Status)
	assert.Empty(t, s.Records())
	assert.Empty(t, h.Entries(), "empty searches are not remembered")
	assert.Equal(t, "No results found", s.Snapshot().Message)
}

func TestSearchFailureClearsRecords(t *testing.T) {
	fail := false
	s, _ := newTestSession(t, searchFunc(func(_ context.Context, q yt.Phase1Query) (*yt.SearchResponse, error) {
		if fail {
			return nil, &yt.AuthOrQuotaError{Code: 403, Message: "quotaExceeded"}
		}
		return twoCandidatesOneDetail(q), nil
	}))

	_, err := s.Search(context.Background(), "ok")
	require.NoError(t, err)
	require.Len(t, s.Records(), 2)

	fail = true
	out, err := s.Search(context.Background(), "boom")
	var apiErr *yt.AuthOrQuotaError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, StatusFailed, out.Status)
	assert.Empty(t, s.Records())

	snap := s.Snapshot()
	assert.Equal(t, StatusFailed, snap.Status)
	assert.Contains(t, snap.Message, "quotaExceeded")
	assert.ErrorAs(t, snap.Err, &apiErr)
}

func TestConnectivityFailureMessage(t *testing.T) {
	s, _ := newTestSession(t, searchFunc(func(context.Context, yt.Phase1Query) (*yt.SearchResponse, error) {
		return nil, &yt.ConnectivityError{Phase: yt.PhaseDetails, Err: errors.New("connection reset")}
	}))

	_, err := s.Search(context.Background(), "x")
	var connErr *yt.ConnectivityError
	require.ErrorAs(t, err, &connErr)
	assert.NotContains(t, s.Snapshot().Message, "connection reset")
}

func TestSearchResetsSort(t *testing.T) {
	s, _ := newTestSession(t, searchFunc(func(_ context.Context, q yt.Phase1Query) (*yt.SearchResponse, error) {
		return twoCandidatesOneDetail(q), nil
	}))

	s.Sort(rank.KeyViews)
	_, err := s.Search(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, rank.SortState{}, s.SortState())
}

func TestSessionSortToggle(t *testing.T) {
	s, _ := newTestSession(t, searchFunc(func(_ context.Context, q yt.Phase1Query) (*yt.SearchResponse, error) {
		return twoCandidatesOneDetail(q), nil
	}))
	_, err := s.Search(context.Background(), "x")
	require.NoError(t, err)

	assert.Equal(t, rank.SortState{Key: rank.KeyViews, Direction: rank.Descending}, s.Sort(rank.KeyViews))
	assert.Equal(t, []string{"v1", "v2"}, videoIDs(s.Records()))

	assert.Equal(t, rank.SortState{Key: rank.KeyViews, Direction: rank.Ascending}, s.Sort(rank.KeyViews))
	assert.Equal(t, []string{"v2", "v1"}, videoIDs(s.Records()))
}

func videoIDs(records []rank.RankedRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.VideoID
	}
	return out
}

func TestSupersededSearchIsDiscarded(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})

	s, h := newTestSession(t, searchFunc(func(_ context.Context, q yt.Phase1Query) (*yt.SearchResponse, error) {
		if q.Term == "slow" {
			close(started)
			<-release
			return &yt.SearchResponse{Candidates: []yt.CandidateRecord{{VideoID: "stale"}}}, nil
		}
		return &yt.SearchResponse{Candidates: []yt.CandidateRecord{{VideoID: "fresh"}}}, nil
	}))

	var wg sync.WaitGroup
	var slowErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, slowErr = s.Search(context.Background(), "slow")
	}()

	<-started
	_, err := s.Search(context.Background(), "fast")
	require.NoError(t, err)
	close(release)
	wg.Wait()

	assert.ErrorIs(t, slowErr, ErrSuperseded)
	assert.Equal(t, []string{"fresh"}, videoIDs(s.Records()))
	assert.Equal(t, "fast", s.Snapshot().Term)

	entries := h.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "fast", entries[0].Term)
}

func TestResetFiltersAndClearResults(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	prefs := NewPreferences(kv)
	s, _ := newTestSession(t, searchFunc(func(_ context.Context, q yt.Phase1Query) (*yt.SearchResponse, error) {
		return twoCandidatesOneDetail(q), nil
	}), WithPreferences(prefs))

	_, err := s.Search(ctx, "x")
	require.NoError(t, err)
	s.ClearResults()
	assert.Empty(t, s.Records())
	assert.Equal(t, "Results cleared", s.Snapshot().Message)

	long := rank.LongOnly
	limit := 10
	require.NoError(t, s.SetFilters(ctx, FilterPatch{VideoType: &long, ResultLimit: &limit}))
	saved, err := prefs.Load(ctx, DefaultFilterConfig())
	require.NoError(t, err)
	assert.Equal(t, rank.LongOnly, saved.VideoType)
	assert.Equal(t, 10, saved.ResultLimit)

	_, err = s.Search(ctx, "y")
	require.NoError(t, err)
	s.Sort(rank.KeyTitle)

	require.NoError(t, s.ResetFilters(ctx))
	assert.Equal(t, DefaultFilterConfig(), s.Filters())
	assert.Equal(t, rank.SortState{}, s.SortState())
	assert.Empty(t, s.Records())

	saved, err = prefs.Load(ctx, FilterConfig{})
	require.NoError(t, err)
	assert.Equal(t, DefaultFilterConfig(), saved)
}

func TestFilterPatchLeavesUnsetFields(t *testing.T) {
	base := DefaultFilterConfig()
	region := "JP"
	strict := true
	got := FilterPatch{RegionCode: &region, StrictRegion: &strict}.Apply(base)

	assert.Equal(t, "JP", got.RegionCode)
	assert.True(t, got.StrictRegion)
	assert.Equal(t, base.ResultLimit, got.ResultLimit)
	assert.Equal(t, base.Tiers, got.Tiers)
}

func TestPreferencesKeepDefaultsForMissingFields(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	require.NoError(t, kv.Set(ctx, PreferencesKey, `{"region_code":"US"}`))

	f, err := NewPreferences(kv).Load(ctx, DefaultFilterConfig())
	require.NoError(t, err)
	assert.Equal(t, "US", f.RegionCode)
	assert.Equal(t, 7, f.PeriodDays)
	assert.Equal(t, rank.AllTiers, f.Tiers)

	require.NoError(t, kv.Set(ctx, PreferencesKey, "not json"))
	f, err = NewPreferences(kv).Load(ctx, DefaultFilterConfig())
	assert.Error(t, err)
	assert.Equal(t, DefaultFilterConfig(), f)
}

// blockingStore holds every Set until release is closed.
type blockingStore struct {
	store.KeyValueStore
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (b *blockingStore) Set(ctx context.Context, key, value string) error {
	b.once.Do(func() { close(b.entered) })
	<-b.release
	return b.KeyValueStore.Set(ctx, key, value)
}

func TestSlowHistoryWriteDoesNotBlockReaders(t *testing.T) {
	ctx := context.Background()
	kv := &blockingStore{
		KeyValueStore: store.NewMemory(),
		entered:       make(chan struct{}),
		release:       make(chan struct{}),
	}
	h, err := history.New(ctx, kv)
	require.NoError(t, err)

	s := NewSession(searchFunc(func(_ context.Context, q yt.Phase1Query) (*yt.SearchResponse, error) {
		return twoCandidatesOneDetail(q), nil
	}), WithHistory(h))

	done := make(chan error, 1)
	go func() {
		_, err := s.Search(ctx, "slow store")
		done <- err
	}()
	<-kv.entered

	read := make(chan int, 1)
	go func() {
		_ = s.Snapshot()
		read <- len(s.Records())
	}()

	select {
	case n := <-read:
		assert.Equal(t, 2, n)
	case <-time.After(2 * time.Second):
		t.Fatal("session readers blocked behind the history write")
	}

	close(kv.release)
	require.NoError(t, <-done)
	require.Len(t, h.Entries(), 1)
}
