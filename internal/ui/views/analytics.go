package views

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dori/focusboard/internal/analytics"
	"github.com/dori/focusboard/internal/board"
	"github.com/dori/focusboard/internal/focus"
	"github.com/dori/focusboard/internal/model"
	"github.com/dori/focusboard/internal/ui/theme"
	"github.com/muesli/reflow/truncate"
	"github.com/rs/zerolog"
)

// AnalyticsSource is the storage the analytics view reads from.
type AnalyticsSource interface {
	board.KV
	TotalFocusSeconds(since time.Time) (map[string]int, error)
	ListSessions(since time.Time, limit int) ([]model.FocusSession, error)
}

// TimePeriod bounds the focus-session figures
type TimePeriod int

const (
	PeriodWeek TimePeriod = iota
	PeriodMonth
	PeriodYear
	PeriodAll
)

func (p TimePeriod) String() string {
	return [...]string{"Week", "Month", "Year", "All time"}[p]
}

// Since returns the start of the period relative to now.
func (p TimePeriod) Since(now time.Time) time.Time {
	switch p {
	case PeriodWeek:
		return now.AddDate(0, 0, -7)
	case PeriodMonth:
		return now.AddDate(0, -1, 0)
	case PeriodYear:
		return now.AddDate(-1, 0, 0)
	}
	return time.Time{}
}

const recentSessionLimit = 8

type analyticsLoadedMsg struct {
	report   analytics.Report
	sessions []model.FocusSession
	titles   map[string]string // task id -> title
	names    map[string]string // board id -> project title
}

type analyticsErrorMsg struct{ err error }

// AnalyticsView shows time share and efficiency per project
type AnalyticsView struct {
	source   AnalyticsSource
	projects *board.Projects
	log      zerolog.Logger
	now      func() time.Time
	width    int
	height   int

	period   TimePeriod
	loaded   bool
	report   analytics.Report
	sessions []model.FocusSession
	titles   map[string]string
	names    map[string]string

	statusMsg string
}

// NewAnalyticsView creates a new analytics view
func NewAnalyticsView(source AnalyticsSource, projects *board.Projects, log zerolog.Logger) AnalyticsView {
	return AnalyticsView{
		source:   source,
		projects: projects,
		log:      log,
		now:      time.Now,
		period:   PeriodWeek,
	}
}

// Init loads the report
func (v AnalyticsView) Init() tea.Cmd {
	return v.load()
}

// SetSize sets the view dimensions
func (v AnalyticsView) SetSize(width, height int) AnalyticsView {
	v.width = width
	v.height = height
	return v
}

func (v AnalyticsView) load() tea.Cmd {
	projects := v.projects.List()
	source := v.source
	log := v.log
	since := v.period.Since(v.now())

	return func() tea.Msg {
		boards := analytics.Load(source, projects, log)
		report := analytics.Aggregate(boards)

		totals, err := source.TotalFocusSeconds(since)
		if err != nil {
			return analyticsErrorMsg{err: err}
		}
		report.ApplyFocusTotals(totals)

		sessions, err := source.ListSessions(since, recentSessionLimit)
		if err != nil {
			return analyticsErrorMsg{err: err}
		}

		titles := make(map[string]string)
		names := make(map[string]string)
		for _, b := range boards {
			names[b.Project.ID] = b.Project.Title
			for _, t := range b.Snapshot.Tasks {
				titles[t.ID] = t.Title
			}
		}
		return analyticsLoadedMsg{report: report, sessions: sessions, titles: titles, names: names}
	}
}

// Update handles messages
func (v AnalyticsView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case analyticsLoadedMsg:
		v.loaded = true
		v.report = msg.report
		v.sessions = msg.sessions
		v.titles = msg.titles
		v.names = msg.names
		v.statusMsg = ""
		return v, nil

	case analyticsErrorMsg:
		v.statusMsg = fmt.Sprintf("Error: %v", msg.err)
		return v, nil

	case BoardChangedMsg:
		return v, v.load()

	case tea.KeyMsg:
		switch msg.String() {
		case "w":
			v.period = PeriodWeek
		case "m":
			v.period = PeriodMonth
		case "y":
			v.period = PeriodYear
		case "a":
			v.period = PeriodAll
		case "r":
		default:
			return v, nil
		}
		return v, v.load()
	}

	return v, nil
}

// View renders the analytics view
func (v AnalyticsView) View() string {
	if v.width == 0 || v.height == 0 {
		return "Loading..."
	}

	t := theme.Current.Theme
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(t.Primary)

	var sections []string
	sections = append(sections, titleStyle.Render(fmt.Sprintf("Analytics ─ %s", v.period)), "")

	if v.statusMsg != "" {
		sections = append(sections, lipgloss.NewStyle().Foreground(t.Error).Render(v.statusMsg))
	}
	if !v.loaded {
		return strings.Join(append(sections, "Loading..."), "\n")
	}

	sections = append(sections, v.renderSummary(), "")
	sections = append(sections, v.renderShare(), "")
	sections = append(sections, v.renderEfficiency(), "")
	sections = append(sections, v.renderSessions(), "")

	sections = append(sections, lipgloss.NewStyle().Foreground(t.Subtle).Render(
		"w: week • m: month • y: year • a: all • r: refresh",
	))
	return strings.Join(sections, "\n")
}

func (v AnalyticsView) renderSummary() string {
	t := theme.Current.Theme
	cardStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(0, 2).
		Width(20)
	valueStyle := lipgloss.NewStyle().Bold(true).Foreground(t.Primary)
	labelStyle := lipgloss.NewStyle().Foreground(t.Subtle)

	card := func(value, label string) string {
		return cardStyle.Render(valueStyle.Render(value) + "\n" + labelStyle.Render(label))
	}

	var completed, focusSecs int
	for _, p := range v.report.Projects {
		completed += p.CompletedTasks
		focusSecs += p.FocusSeconds
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		card(model.FormatClock(v.report.TotalActualMinutes), "Time tracked"),
		card(fmt.Sprintf("%d", completed), "Completed"),
		card(focus.FormatDuration(time.Duration(focusSecs)*time.Second), "Focused ("+strings.ToLower(v.period.String())+")"),
		card(fmt.Sprintf("%d", len(v.report.Projects)), "Projects"),
	)
}

// renderShare renders each project's share of tracked time as a bar
func (v AnalyticsView) renderShare() string {
	t := theme.Current.Theme
	header := lipgloss.NewStyle().Bold(true).Foreground(t.Secondary).Render("Time by Project")

	rows := v.report.ByShare()
	if len(rows) == 0 {
		return header + "\n" + lipgloss.NewStyle().Foreground(t.Subtle).Italic(true).Render("No time tracked yet")
	}

	lines := []string{header}
	barMaxWidth := max(10, min(40, v.width-40))
	for _, p := range rows {
		barWidth := max(1, int(p.Share/100*float64(barMaxWidth)))
		color := t.Info
		if p.Project.Color != "" {
			color = lipgloss.Color(p.Project.Color)
		}
		bar := lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", barWidth))
		lines = append(lines, fmt.Sprintf("%-18s %s %5.1f%% %s",
			truncateName(p.Project.Title, 18), bar, p.Share, model.FormatClock(p.ActualMinutes)))
	}
	return strings.Join(lines, "\n")
}

// renderEfficiency renders completed-actual over estimated per project
func (v AnalyticsView) renderEfficiency() string {
	t := theme.Current.Theme
	header := lipgloss.NewStyle().Bold(true).Foreground(t.Secondary).Render("Estimate Efficiency")

	rows := v.report.WithEfficiency()
	if len(rows) == 0 {
		return header + "\n" + lipgloss.NewStyle().Foreground(t.Subtle).Italic(true).Render("Needs completed tasks with estimates")
	}

	lines := []string{header}
	for _, p := range rows {
		color := t.Error
		switch p.Rating {
		case analytics.RatingExcellent:
			color = t.Success
		case analytics.RatingGood:
			color = t.Warning
		}
		rating := lipgloss.NewStyle().Foreground(color).Render(string(p.Rating))
		lines = append(lines, fmt.Sprintf("%-18s %6.1f%%  %s / %s  %s",
			truncateName(p.Project.Title, 18), p.Efficiency,
			model.FormatClock(p.CompletedActualMinutes), model.FormatClock(p.EstimatedMinutes), rating))
	}
	return strings.Join(lines, "\n")
}

// renderSessions lists the latest recorded focus sessions
func (v AnalyticsView) renderSessions() string {
	t := theme.Current.Theme
	header := lipgloss.NewStyle().Bold(true).Foreground(t.Secondary).Render("Recent Sessions")
	if len(v.sessions) == 0 {
		return header + "\n" + lipgloss.NewStyle().Foreground(t.Subtle).Italic(true).Render("No sessions in this period")
	}

	lines := []string{header}
	for _, s := range v.sessions {
		task := v.titles[s.TaskID]
		if task == "" {
			task = "(removed task)"
		}
		lines = append(lines, fmt.Sprintf("%s  %-14s %s  +%dm  %s",
			s.StartedAt.Local().Format("Jan 02 15:04"),
			truncateName(v.names[s.BoardID], 14),
			focus.FormatDuration(time.Duration(s.ActiveSeconds)*time.Second),
			s.CreditedMinutes,
			task))
	}
	return strings.Join(lines, "\n")
}

func truncateName(s string, n int) string {
	return truncate.StringWithTail(s, uint(n), "…")
}

// IsInputMode returns whether the view is in input mode
func (v AnalyticsView) IsInputMode() bool {
	return false
}
