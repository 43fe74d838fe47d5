package tui

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/JINMI714/JMsTube/internal/discovery"
	"github.com/JINMI714/JMsTube/internal/rank"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

const (
	searchCharLimit = 100
	searchWidth     = 50
	linesPerItem    = 2
)

// UI color constants
const (
	colorPrimary   = "#00D9FF"
	colorSecondary = "#BD93F9"
	colorText      = "#F8F8F2"
	colorMuted     = "#6272A4"
	colorBorder    = "#3C3C3C"
	colorError     = "#FF5555"
	colorWarning   = "#FFB86C"
	colorSuccess   = "#50FA7B"
	colorHelp      = "#626262"
)

// Styles for the UI with modern transparent design
var (
	leftPanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(colorBorder)).
			Padding(0, 1)

	rightPanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(colorBorder)).
			Padding(0, 1)

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(colorPrimary)).
			Padding(1, 3).
			Margin(1, 0)

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorPrimary)).
			Bold(true).
			MarginBottom(1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorHelp))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorPrimary)).
			Bold(true).
			MarginBottom(1).
			PaddingLeft(1)

	emptyStateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorHelp)).
			Italic(true).
			Align(lipgloss.Center).
			MarginTop(2)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorError)).
			Bold(true)

	loadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorWarning)).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorMuted))
)

var tierColors = map[rank.Tier]string{
	rank.TierGreat: colorSuccess,
	rank.TierGood:  colorWarning,
	rank.TierBad:   colorMuted,
}

// NewApp creates a new TUI application instance
func NewApp(ctx context.Context, session *discovery.Session, logger *zap.Logger) *AppModel {
	// Initialize text input
	searchInput := textinput.New()
	searchInput.Placeholder = "Enter search term..."
	searchInput.CharLimit = searchCharLimit
	searchInput.Width = searchWidth
	searchInput.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(colorPrimary))
	searchInput.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(colorText))

	// Initialize viewport
	resultsViewport := viewport.New(0, 0)
	resultsViewport.MouseWheelEnabled = true

	if logger == nil {
		logger = zap.NewNop()
	}

	app := &AppModel{
		ctx:         ctx,
		session:     session,
		logger:      logger,
		state:       StateNormal,
		searchInput: searchInput,
		filterForm:  newFilterForm(),
		results:     resultsViewport,
	}
	app.refresh()
	return app
}

func (m *AppModel) Init() tea.Cmd {
	return nil
}

func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		leftWidth := int(float64(msg.Width)*0.6) - 6
		panelHeight := msg.Height - 6

		m.results = viewport.New(leftWidth-4, panelHeight-2)
		m.results.MouseWheelEnabled = true
		m.updateResultsViewport()

	case tea.KeyMsg:
		switch m.state {
		case StateNormal:
			return m.handleNormalKeys(msg)
		case StateSearchInput:
			return m.handleSearchInputKeys(msg)
		case StateLoading:
			return m.handleLoadingKeys(msg)
		case StateFilters:
			return m.handleFilterKeys(msg)
		case StateHistory:
			return m.handleHistoryKeys(msg)
		}

	case searchDoneMsg:
		// A superseded search must not end the loading state of the newer one.
		if errors.Is(msg.err, discovery.ErrSuperseded) {
			return m, nil
		}
		m.state = StateNormal
		m.err = msg.err
		m.selected = 0
		m.results.SetYOffset(0)
		m.refresh()

	default:
		var cmd tea.Cmd
		m.results, cmd = m.results.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *AppModel) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "/", "s":
		m.state = StateSearchInput
		m.searchInput.SetValue("")
		return m, m.searchInput.Focus()
	case "f":
		m.state = StateFilters
		return m, m.filterForm.load(m.session.Filters())
	case "h":
		m.state = StateHistory
		m.historyCursor = 0
	case "up", "k":
		if m.selected > 0 {
			m.selected--
			m.updateResultsViewport()
		}
	case "down", "j":
		if m.selected < len(m.records)-1 {
			m.selected++
			m.updateResultsViewport()
		}
	case "o":
		m.session.SetSort(nextSort(m.session.SortState()))
		m.refresh()
	case "O":
		if state := m.session.SortState(); state.Key != rank.KeyNone {
			m.session.Sort(state.Key)
			m.refresh()
		}
	case "t":
		next := m.session.Filters().VideoType.Next()
		m.applyPatch(discovery.FilterPatch{VideoType: &next})
	case "1", "2", "3":
		tier := map[string]rank.Tier{"1": rank.TierGreat, "2": rank.TierGood, "3": rank.TierBad}[msg.String()]
		tiers := m.session.Filters().Tiers.Toggle(tier)
		m.applyPatch(discovery.FilterPatch{Tiers: &tiers})
	case "x":
		strict := !m.session.Filters().StrictRegion
		m.applyPatch(discovery.FilterPatch{StrictRegion: &strict})
	case "c":
		m.session.ClearResults()
		m.refresh()
	case "R":
		if err := m.session.ResetFilters(m.ctx); err != nil {
			m.err = err
		}
		m.refresh()
	}
	return m, nil
}

// nextSort cycles through the sort keys, then back to unsorted. Every key
// starts descending.
func nextSort(state rank.SortState) rank.SortState {
	i := slices.Index(rank.SortKeys, state.Key)
	if i == len(rank.SortKeys)-1 {
		return rank.SortState{}
	}
	return rank.SortState{Key: rank.SortKeys[i+1], Direction: rank.Descending}
}

func (m *AppModel) applyPatch(patch discovery.FilterPatch) {
	if err := m.session.SetFilters(m.ctx, patch); err != nil {
		m.logger.Warn("failed to save filters", zap.Error(err))
		m.err = err
	}
	m.refresh()
}

func (m *AppModel) handleSearchInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.state = StateNormal
		m.searchInput.Blur()
		return m, nil
	case "enter":
		term := m.searchInput.Value()
		m.searchInput.Blur()
		if strings.TrimSpace(term) == "" {
			m.state = StateNormal
			return m, nil
		}
		return m, m.startSearch(term)
	default:
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		return m, cmd
	}
}

func (m *AppModel) handleLoadingKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	return m, nil
}

func (m *AppModel) handleFilterKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.state = StateNormal
		return m, nil
	case "tab", "down":
		return m, m.filterForm.next(1)
	case "shift+tab", "up":
		return m, m.filterForm.next(-1)
	case "enter":
		patch, err := m.filterForm.patch()
		if err != nil {
			m.err = err
			return m, nil
		}
		m.state = StateNormal
		m.applyPatch(patch)
		return m, nil
	default:
		return m, m.filterForm.update(msg)
	}
}

func (m *AppModel) handleHistoryKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	h := m.session.History()
	if h == nil {
		m.state = StateNormal
		return m, nil
	}
	entries := h.Entries()

	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc", "h", "q":
		m.state = StateNormal
	case "up", "k":
		if m.historyCursor > 0 {
			m.historyCursor--
		}
	case "down", "j":
		if m.historyCursor < len(entries)-1 {
			m.historyCursor++
		}
	case "enter":
		if m.historyCursor < len(entries) {
			return m, m.startSearch(entries[m.historyCursor].Term)
		}
	case "d":
		if m.historyCursor < len(entries) {
			if err := h.Delete(m.ctx, entries[m.historyCursor].ID); err != nil {
				m.err = err
			}
			if m.historyCursor >= len(entries)-1 && m.historyCursor > 0 {
				m.historyCursor--
			}
		}
	case "D":
		if err := h.Clear(m.ctx); err != nil {
			m.err = err
		}
		m.historyCursor = 0
	}
	return m, nil
}

// startSearch enters the loading state, which ignores further input until the
// search completes.
func (m *AppModel) startSearch(term string) tea.Cmd {
	m.state = StateLoading
	m.err = nil
	session := m.session
	ctx := m.ctx
	return func() tea.Msg {
		outcome, err := session.Search(ctx, term)
		return searchDoneMsg{outcome: outcome, err: err}
	}
}

// refresh re-ranks the session results with the current filters and sort.
func (m *AppModel) refresh() {
	m.records = m.session.Records()
	if m.selected >= len(m.records) {
		m.selected = max(len(m.records)-1, 0)
	}
	m.updateResultsViewport()
}

func (m *AppModel) updateResultsViewport() {
	width := max(m.results.Width-2, 20)

	var b strings.Builder
	for i, r := range m.records {
		tier := lipgloss.NewStyle().Foreground(lipgloss.Color(tierColors[r.Tier])).
			Render(fmt.Sprintf("%-5s %7s", r.Tier, rank.FormatLikeRatio(r)))
		stats := fmt.Sprintf("%s · %s views · %s · %s",
			r.DisplayChannel, rank.FormatCount(r.ViewCount()), r.DurationDisplay, r.ContentType.Label())

		if i == m.selected {
			indicator := lipgloss.NewStyle().Foreground(lipgloss.Color(colorPrimary)).Render("▶ ")
			title := lipgloss.NewStyle().Foreground(lipgloss.Color(colorPrimary)).Bold(true).
				Render(truncate(r.DisplayTitle, width-16))
			channel := lipgloss.NewStyle().Foreground(lipgloss.Color(colorSecondary)).Italic(true).
				Render(truncate(stats, width-2))
			fmt.Fprintf(&b, "%s%s  %s\n  %s\n", indicator, title, tier, channel)
		} else {
			title := lipgloss.NewStyle().Foreground(lipgloss.Color(colorText)).
				Render(truncate(r.DisplayTitle, width-16))
			channel := lipgloss.NewStyle().Foreground(lipgloss.Color(colorMuted)).
				Render(truncate(stats, width-2))
			fmt.Fprintf(&b, "  %s  %s\n  %s\n", title, tier, channel)
		}
	}
	m.results.SetContent(b.String())

	// keep selected visible
	start := m.selected * linesPerItem
	end := start + linesPerItem - 1
	visible := m.results.VisibleLineCount()

	if start < m.results.YOffset {
		m.results.SetYOffset(start)
	} else if visible > 0 && end >= m.results.YOffset+visible {
		m.results.SetYOffset(end - visible + 1)
	}
}

func (m *AppModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	switch m.state {
	case StateSearchInput:
		return m.modal("Search YouTube",
			m.searchInput.View(),
			"↵ Enter to search  •  ESC to cancel")
	case StateFilters:
		return m.modal("Filters",
			m.filterForm.view()+m.errorLine(),
			"tab next field  •  ↵ apply  •  ESC to cancel")
	case StateHistory:
		return m.modal("Search history",
			m.historyView(),
			"↵ search again  •  d delete  •  D clear all  •  ESC back")
	}

	leftWidth := int(float64(m.width)*0.6) - 1
	rightWidth := m.width - leftWidth - 4
	panelHeight := m.height - 5

	leftContent := ""
	if len(m.records) == 0 {
		emptyMsg := `
    Press '/' or 's' to search
    Press 'f' for filters, 'h' for history
    Press 'q' to quit`
		if snap := m.session.Snapshot(); snap.Total > 0 {
			emptyMsg = fmt.Sprintf("\n    No results match the filters (%d hidden)", snap.Total)
		}
		leftContent = emptyStateStyle.
			Width(leftWidth - 4).
			Height(panelHeight - 4).
			Render(emptyMsg)
	} else {
		title := titleStyle.Render(fmt.Sprintf("Results (%d of %d)", len(m.records), m.session.Snapshot().Total))
		leftContent = title + "\n" + m.results.View()
	}
	leftPanel := leftPanelStyle.
		Width(leftWidth).
		Height(panelHeight).
		Render(leftContent)

	rightPanel := rightPanelStyle.
		Width(rightWidth).
		Height(panelHeight).
		Render(titleStyle.Render("Details") + "\n" + m.detailView(rightWidth-4))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, leftPanel, rightPanel)

	return mainView + "\n" + m.filterSummary() + "\n" + m.statusLine()
}

func (m *AppModel) modal(title, body, hint string) string {
	helperText := lipgloss.NewStyle().
		Foreground(lipgloss.Color(colorHelp)).
		Italic(true).
		Render(hint)

	modalContent := fmt.Sprintf("%s\n\n%s\n\n%s", modalTitleStyle.Render(title), body, helperText)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modalStyle.Render(modalContent),
		lipgloss.WithWhitespaceBackground(lipgloss.NoColor{}))
}

func (m *AppModel) errorLine() string {
	if m.err == nil {
		return ""
	}
	return "\n" + errorStyle.Render(fmt.Sprintf("Error: %v", m.err))
}

func (m *AppModel) detailView(width int) string {
	if len(m.records) == 0 || m.selected >= len(m.records) {
		return emptyStateStyle.Render("No video selected")
	}
	r := m.records[m.selected]

	row := func(label, value string) string {
		return labelStyle.Render(fmt.Sprintf("%-12s", label)) + " " + value
	}
	tier := lipgloss.NewStyle().Foreground(lipgloss.Color(tierColors[r.Tier])).Bold(true).
		Render(fmt.Sprintf("%s (%s)", rank.FormatLikeRatio(r), r.Tier))

	lines := []string{
		lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(colorPrimary)).Width(width).Render(r.DisplayTitle),
		lipgloss.NewStyle().Foreground(lipgloss.Color(colorSecondary)).Italic(true).Render(r.DisplayChannel),
		"",
		row("Published", rank.FormatDate(r.PublishedAt)),
		row("Length", fmt.Sprintf("%s (%s)", r.DurationDisplay, r.ContentType.Label())),
		row("Views", rank.FormatCount(r.ViewCount())),
		row("Likes", rank.FormatCount(r.LikeCount())),
		row("Comments", rank.FormatCount(r.CommentCount())),
		row("Like ratio", tier),
		row("Subscribers", rank.FormatSubscribers(r)),
		row("Views/sub", rank.FormatSubscriberRatio(r)),
		"",
		row("URL", r.URL()),
		row("Thumbnail", truncate(r.Thumbnails.Best(), max(width-13, 10))),
	}
	if !r.HasDetail() {
		lines = append(lines, "", loadingStyle.Render("Statistics unavailable for this video"))
	}
	return strings.Join(lines, "\n")
}

func (m *AppModel) historyView() string {
	h := m.session.History()
	if h == nil {
		return emptyStateStyle.Render("History is disabled")
	}
	entries := h.Entries()
	if len(entries) == 0 {
		return emptyStateStyle.Render("No searches yet")
	}

	limit := max(m.height-12, 5)
	offset := 0
	if m.historyCursor >= limit {
		offset = m.historyCursor - limit + 1
	}

	var b strings.Builder
	for i := offset; i < len(entries) && i < offset+limit; i++ {
		e := entries[i]
		date := labelStyle.Render(e.Timestamp)
		if i == m.historyCursor {
			term := lipgloss.NewStyle().Foreground(lipgloss.Color(colorPrimary)).Bold(true).Render("▶ " + truncate(e.Term, 40))
			fmt.Fprintf(&b, "%-44s %s\n", term, date)
		} else {
			fmt.Fprintf(&b, "  %-42s %s\n", truncate(e.Term, 40), date)
		}
	}
	return strings.TrimRight(b.String(), "\n") + m.errorLine()
}

func (m *AppModel) filterSummary() string {
	f := m.session.Filters()
	state := m.session.SortState()

	sortText := "none"
	if state.Key != rank.KeyNone {
		sortText = fmt.Sprintf("%s %s", state.Key, state.Direction)
	}
	region := f.RegionCode
	if region == "" {
		region = "any"
	}
	if f.StrictRegion {
		region += " (strict)"
	}
	period := "any time"
	if f.PeriodDays >= 0 {
		period = fmt.Sprintf("%dd", f.PeriodDays)
	}

	return helpStyle.Render(fmt.Sprintf("type %s  •  tiers %s  •  sort %s  •  region %s  •  %s",
		f.VideoType, f.Tiers, sortText, region, period))
}

func (m *AppModel) statusLine() string {
	if m.state == StateLoading {
		return loadingStyle.Render("Searching YouTube...")
	}
	if m.err != nil {
		snap := m.session.Snapshot()
		if snap.Status == discovery.StatusFailed {
			return errorStyle.Render(snap.Message)
		}
		return errorStyle.Render(fmt.Sprintf("Error: %v", m.err))
	}

	help := "'/' search  •  ↑↓ navigate  •  o sort  •  O reverse  •  t type  •  1/2/3 tiers  •  x strict  •  f filters  •  h history  •  c clear  •  R reset  •  q quit"
	if msg := m.session.Snapshot().Message; msg != "" {
		return helpStyle.Render(msg + "  │  " + help)
	}
	return helpStyle.Render(help)
}

func truncate(s string, width int) string {
	runes := []rune(s)
	if width <= 3 || len(runes) <= width {
		return s
	}
	return string(runes[:width-3]) + "..."
}
