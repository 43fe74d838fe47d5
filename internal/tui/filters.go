package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/JINMI714/JMsTube/internal/discovery"
	"github.com/JINMI714/JMsTube/internal/rank"
	"github.com/JINMI714/JMsTube/internal/yt"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func newFilterForm() filterForm {
	var f filterForm
	for i := range f.inputs {
		in := textinput.New()
		in.CharLimit = 16
		in.Width = 16
		in.Prompt = "> "
		in.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(colorPrimary))
		in.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(colorText))
		f.inputs[i] = in
	}
	f.inputs[fieldRegion].CharLimit = 2
	return f
}

// load fills the inputs from cfg and focuses the first one.
func (f *filterForm) load(cfg discovery.FilterConfig) tea.Cmd {
	f.inputs[fieldLimit].SetValue(intValue(cfg.ResultLimit))
	f.inputs[fieldPeriod].SetValue(intValue(cfg.PeriodDays))
	f.inputs[fieldRegion].SetValue(cfg.RegionCode)
	f.inputs[fieldMinViews].SetValue(boundValue(cfg.Views.Min))
	f.inputs[fieldMaxViews].SetValue(boundValue(cfg.Views.Max))
	f.inputs[fieldMinSubs].SetValue(boundValue(cfg.Subscribers.Min))
	f.inputs[fieldMaxSubs].SetValue(boundValue(cfg.Subscribers.Max))
	f.focus = fieldLimit
	return f.focusCurrent()
}

func (f *filterForm) focusCurrent() tea.Cmd {
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
	return f.inputs[f.focus].Focus()
}

func (f *filterForm) next(delta int) tea.Cmd {
	f.focus = filterField((int(f.focus) + delta + int(fieldCount)) % int(fieldCount))
	return f.focusCurrent()
}

func (f *filterForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

// patch parses the inputs. Empty numeric fields mean unbounded.
func (f *filterForm) patch() (discovery.FilterPatch, error) {
	limit, err := parseInt(f.inputs[fieldLimit].Value())
	if err != nil {
		return discovery.FilterPatch{}, fmt.Errorf("results: %w", err)
	}
	period, err := parseInt(f.inputs[fieldPeriod].Value())
	if err != nil {
		return discovery.FilterPatch{}, fmt.Errorf("period: %w", err)
	}
	region := strings.ToUpper(strings.TrimSpace(f.inputs[fieldRegion].Value()))

	views, err := parseRange(f.inputs[fieldMinViews].Value(), f.inputs[fieldMaxViews].Value())
	if err != nil {
		return discovery.FilterPatch{}, fmt.Errorf("views: %w", err)
	}
	subs, err := parseRange(f.inputs[fieldMinSubs].Value(), f.inputs[fieldMaxSubs].Value())
	if err != nil {
		return discovery.FilterPatch{}, fmt.Errorf("subscribers: %w", err)
	}

	return discovery.FilterPatch{
		ResultLimit: &limit,
		PeriodDays:  &period,
		RegionCode:  &region,
		Views:       &views,
		Subscribers: &subs,
	}, nil
}

func (f *filterForm) view() string {
	var b strings.Builder
	for i, in := range f.inputs {
		label := lipgloss.NewStyle().Foreground(lipgloss.Color(colorMuted)).Width(30).Render(filterLabels[i])
		if filterField(i) == f.focus {
			label = lipgloss.NewStyle().Foreground(lipgloss.Color(colorPrimary)).Bold(true).Width(30).Render(filterLabels[i])
		}
		fmt.Fprintf(&b, "%s %s\n", label, in.View())
	}
	return b.String()
}

func intValue(n int) string {
	if n == yt.Unbounded {
		return ""
	}
	return strconv.Itoa(n)
}

func boundValue(v *uint64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatUint(*v, 10)
}

func parseInt(s string) (int, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return yt.Unbounded, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%q is not a non-negative number", s)
	}
	return n, nil
}

func parseBound(s string) (*uint64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return nil, nil
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%q is not a non-negative number", s)
	}
	return &n, nil
}

func parseRange(minText, maxText string) (rank.Range, error) {
	lo, err := parseBound(minText)
	if err != nil {
		return rank.Range{}, err
	}
	hi, err := parseBound(maxText)
	if err != nil {
		return rank.Range{}, err
	}
	return rank.Range{Min: lo, Max: hi}, nil
}
