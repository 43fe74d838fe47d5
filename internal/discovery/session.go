// Package discovery coordinates a search session: it runs searches, owns the
// merged results and the filter and sort settings, and records history.
package discovery

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/JINMI714/JMsTube/internal/history"
	"github.com/JINMI714/JMsTube/internal/rank"
	"github.com/JINMI714/JMsTube/internal/yt"
	"go.uber.org/zap"
)

// ErrSuperseded is returned by Search when a newer search was started before
// this one finished. Its results are discarded.
var ErrSuperseded = errors.New("search superseded by a newer search")

// Searcher runs the two-phase remote search.
type Searcher interface {
	Search(ctx context.Context, q yt.Phase1Query) (*yt.SearchResponse, error)
}

// Status is the observable state of the session.
type Status int

const (
	StatusReady Status = iota
	StatusSearching
	StatusDone
	StatusNoResults
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusSearching:
		return "searching"
	case StatusDone:
		return "done"
	case StatusNoResults:
		return "no results"
	case StatusFailed:
		return "failed"
	default:
		return "ready"
	}
}

// Snapshot is a consistent view of the session status.
type Snapshot struct {
	Status     Status
	Message    string
	Err        error
	Term       string
	Generation uint64
	Total      int
}

// Outcome describes a finished search.
type Outcome struct {
	Generation uint64
	Status     Status
	Records    int
}

// Session is the single owner of the result list, the filter configuration and
// the sort state. It is safe for concurrent use.
type Session struct {
	mu sync.Mutex

	searcher Searcher
	history  *history.Cache
	prefs    *Preferences
	defaults FilterConfig
	logger   *zap.Logger
	now      func() time.Time

	filters    FilterConfig
	filtersSet bool
	sort       rank.SortState
	records    []rank.MergedRecord
	status     Status
	message    string
	err        error
	generation uint64
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithHistory records successful searches in h.
func WithHistory(h *history.Cache) SessionOption {
	return func(s *Session) { s.history = h }
}

// WithPreferences saves the filter configuration whenever it changes.
func WithPreferences(p *Preferences) SessionOption {
	return func(s *Session) { s.prefs = p }
}

// WithDefaults sets the configuration restored by ResetFilters.
func WithDefaults(f FilterConfig) SessionOption {
	return func(s *Session) { s.defaults = f }
}

// WithFilters sets the starting configuration; defaults are used otherwise.
func WithFilters(f FilterConfig) SessionOption {
	return func(s *Session) {
		s.filters = f
		s.filtersSet = true
	}
}

// WithSessionLogger sets the logger.
func WithSessionLogger(logger *zap.Logger) SessionOption {
	return func(s *Session) { s.logger = logger }
}

// WithSessionClock overrides the time source used for the published-after bound.
func WithSessionClock(now func() time.Time) SessionOption {
	return func(s *Session) { s.now = now }
}

// NewSession creates a session backed by searcher.
func NewSession(searcher Searcher, opts ...SessionOption) *Session {
	s := &Session{
		searcher: searcher,
		defaults: DefaultFilterConfig(),
		logger:   zap.NewNop(),
		now:      time.Now,
		message:  statusMessage(StatusReady, nil),
	}
	for _, opt := range opts {
		opt(s)
	}
	if !s.filtersSet {
		s.filters = s.defaults
	}
	return s
}

// Search runs a search for term with the current configuration and replaces the
// result list. The sort is reset. On failure the result list is cleared and the
// error is returned; zero hits is StatusNoResults, not an error. If another search
// starts before this one completes, this one returns ErrSuperseded and changes nothing.
func (s *Session) Search(ctx context.Context, term string) (Outcome, error) {
	term = strings.TrimSpace(term)

	s.mu.Lock()
	q, err := yt.BuildPhase1(term, s.filters.SearchConfig(), s.now())
	if err != nil {
		s.mu.Unlock()
		return Outcome{}, err
	}
	s.generation++
	gen := s.generation
	s.filters.Term = term
	s.sort = rank.SortState{}
	s.setStatus(StatusSearching, nil)
	s.mu.Unlock()

	logger := s.logger.With(zap.String("term", term), zap.Uint64("generation", gen))
	logger.Info("search started")

	res, err := s.searcher.Search(ctx, q)

	s.mu.Lock()
	if gen != s.generation {
		latest := s.generation
		s.mu.Unlock()
		logger.Info("discarding superseded search", zap.Uint64("latest", latest))
		return Outcome{Generation: gen}, ErrSuperseded
	}

	if err != nil {
		s.records = nil
		s.setStatus(StatusFailed, err)
		s.mu.Unlock()
		logger.Error("search failed", zap.Error(err))
		return Outcome{Generation: gen, Status: StatusFailed}, err
	}

	if len(res.Candidates) == 0 {
		s.records = nil
		s.setStatus(StatusNoResults, nil)
		s.mu.Unlock()
		logger.Info("search returned no results")
		return Outcome{Generation: gen, Status: StatusNoResults}, nil
	}

	s.records = rank.Merge(res.Candidates, res.Details)
	s.setStatus(StatusDone, nil)
	total := len(s.records)
	s.mu.Unlock()

	logger.Info("search finished",
		zap.Int("candidates", len(res.Candidates)),
		zap.Int("details", len(res.Details)))

	// The store may be remote; readers of the session must not wait on it.
	if s.history != nil {
		if _, err := s.history.Record(ctx, term); err != nil {
			logger.Warn("failed to record history", zap.Error(err))
		}
	}

	return Outcome{Generation: gen, Status: StatusDone, Records: total}, nil
}

// setStatus updates the status and message; callers hold s.mu.
func (s *Session) setStatus(status Status, err error) {
	s.status = status
	s.err = err
	s.message = statusMessage(status, err)
}

func statusMessage(status Status, err error) string {
	switch status {
	case StatusSearching:
		return "Searching YouTube..."
	case StatusDone:
		return "Search complete"
	case StatusNoResults:
		return "No results found"
	case StatusFailed:
		var apiErr *yt.AuthOrQuotaError
		if errors.As(err, &apiErr) {
			return "API key error: " + apiErr.Message
		}
		return "Could not reach YouTube, check your connection"
	default:
		return "Ready"
	}
}

// Records ranks, filters and sorts the current results.
func (s *Session) Records() []rank.RankedRecord {
	s.mu.Lock()
	records := s.records
	filters := s.filters.ResultFilters()
	state := s.sort
	s.mu.Unlock()

	return rank.Sort(rank.Apply(rank.RankAll(records), filters), state)
}

// Merged returns the unfiltered, unsorted results.
func (s *Session) Merged() []rank.MergedRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.records)
}

// Sort selects key: a new key sorts descending, the active key flips direction.
func (s *Session) Sort(key rank.SortKey) rank.SortState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sort = s.sort.Toggle(key)
	return s.sort
}

// SetSort replaces the sort state outright.
func (s *Session) SetSort(state rank.SortState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sort = state
}

// SortState returns the active sort.
func (s *Session) SortState() rank.SortState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sort
}

// Filters returns the current configuration.
func (s *Session) Filters() FilterConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filters
}

// SetFilters applies a partial update. Result-side changes take effect on the
// next Records call; query-side changes on the next Search.
func (s *Session) SetFilters(ctx context.Context, patch FilterPatch) error {
	s.mu.Lock()
	s.filters = patch.Apply(s.filters)
	f := s.filters
	s.mu.Unlock()

	return s.savePreferences(ctx, f)
}

// ResetFilters restores the default configuration and clears results and sort.
func (s *Session) ResetFilters(ctx context.Context) error {
	s.mu.Lock()
	s.generation++
	s.filters = s.defaults
	s.sort = rank.SortState{}
	s.records = nil
	s.setStatus(StatusReady, nil)
	s.message = "Filters reset"
	f := s.filters
	s.mu.Unlock()

	return s.savePreferences(ctx, f)
}

// ClearResults empties the result list. A search in flight is discarded.
func (s *Session) ClearResults() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.records = nil
	s.setStatus(StatusReady, nil)
	s.message = "Results cleared"
}

func (s *Session) savePreferences(ctx context.Context, f FilterConfig) error {
	if s.prefs == nil {
		return nil
	}
	if err := s.prefs.Save(ctx, f); err != nil {
		return fmt.Errorf("persist filters: %w", err)
	}
	return nil
}

// Snapshot returns the current status.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Status:     s.status,
		Message:    s.message,
		Err:        s.err,
		Term:       s.filters.Term,
		Generation: s.generation,
		Total:      len(s.records),
	}
}

// History returns the history cache, nil when none is attached.
func (s *Session) History() *history.Cache {
	return s.history
}
