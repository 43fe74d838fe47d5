package tui

import (
	"context"

	"github.com/JINMI714/JMsTube/internal/discovery"
	"github.com/JINMI714/JMsTube/internal/rank"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"go.uber.org/zap"
)

// AppState represents the current state of the application
type AppState int

const (
	StateNormal AppState = iota
	StateSearchInput
	StateLoading
	StateFilters
	StateHistory
)

// AppModel represents the app state
type AppModel struct {
	ctx     context.Context
	session *discovery.Session
	logger  *zap.Logger

	state         AppState
	searchInput   textinput.Model
	filterForm    filterForm
	results       viewport.Model
	records       []rank.RankedRecord
	selected      int
	historyCursor int
	width, height int
	err           error
}

// Custom messages for async operations
type searchDoneMsg struct {
	outcome discovery.Outcome
	err     error
}

// filterField indexes the inputs of the filter form.
type filterField int

const (
	fieldLimit filterField = iota
	fieldPeriod
	fieldRegion
	fieldMinViews
	fieldMaxViews
	fieldMinSubs
	fieldMaxSubs
	fieldCount
)

var filterLabels = [fieldCount]string{
	fieldLimit:    "Results (1-50, empty = max)",
	fieldPeriod:   "Period in days (empty = any)",
	fieldRegion:   "Region (KR, US, JP, UK, FR)",
	fieldMinViews: "Min views",
	fieldMaxViews: "Max views",
	fieldMinSubs:  "Min subscribers",
	fieldMaxSubs:  "Max subscribers",
}

// filterForm edits the numeric and region parts of the filter configuration.
type filterForm struct {
	inputs [fieldCount]textinput.Model
	focus  filterField
}
