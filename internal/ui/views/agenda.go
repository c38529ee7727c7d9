package views

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dori/focusboard/internal/board"
	"github.com/dori/focusboard/internal/calendar"
	"github.com/dori/focusboard/internal/model"
	"github.com/dori/focusboard/internal/ui/theme"
)

// SyncCalendarMsg asks the root model to refresh the calendar cache.
type SyncCalendarMsg struct{}

// CalendarSyncedMsg reports the end of a calendar sync.
type CalendarSyncedMsg struct {
	Events int
	Err    error
}

const agendaDays = 7

// agendaEntry is one line of a day: a scheduled task or a calendar event.
type agendaEntry struct {
	start   string
	end     string
	title   string
	source  string
	event   bool
	allDay  bool
	project string
}

type agendaLoadedMsg struct {
	days     map[string][]agendaEntry
	syncedAt time.Time
}

type agendaErrorMsg struct{ err error }

// AgendaView lists scheduled tasks of every project next to cached calendar
// events, one week at a time.
type AgendaView struct {
	kv       board.KV
	projects *board.Projects
	now      func() time.Time
	width    int
	height   int

	// first day shown
	start time.Time

	days     map[string][]agendaEntry
	syncedAt time.Time

	statusMsg string
}

// NewAgendaView creates a new agenda view
func NewAgendaView(kv board.KV, projects *board.Projects) AgendaView {
	v := AgendaView{
		kv:       kv,
		projects: projects,
		now:      time.Now,
		days:     make(map[string][]agendaEntry),
	}
	v.start = startOfDay(v.now())
	return v
}

// Init loads the week
func (v AgendaView) Init() tea.Cmd {
	return v.load()
}

// SetSize sets the view dimensions
func (v AgendaView) SetSize(width, height int) AgendaView {
	v.width = width
	v.height = height
	return v
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func (v AgendaView) load() tea.Cmd {
	projects := v.projects.List()
	kv := v.kv
	from := v.start
	to := from.AddDate(0, 0, agendaDays-1)

	return func() tea.Msg {
		var items []board.AgendaItem
		names := make(map[string]string)
		for _, p := range projects {
			snap, _, err := board.LoadSnapshot(kv, p.ID)
			if err != nil {
				return agendaErrorMsg{err: err}
			}
			names[p.ID] = p.Title
			items = append(items, board.ScheduledBetween(p.ID, snap, from, to)...)
		}
		board.SortAgenda(items)

		days := make(map[string][]agendaEntry)
		for _, it := range items {
			key := it.Date.Format(model.DateLayout)
			days[key] = append(days[key], agendaEntry{
				start:   it.StartTime,
				end:     it.EndTime,
				title:   it.Task.Title,
				project: names[it.BoardID],
			})
		}

		cache, err := calendar.LoadCache(kv)
		if err != nil {
			return agendaErrorMsg{err: err}
		}
		for _, e := range cache.Between(from, to.AddDate(0, 0, 1)) {
			start := e.Start.Local()
			entry := agendaEntry{title: e.Summary, source: e.Location, event: true, allDay: e.AllDay}
			if !e.AllDay {
				entry.start = start.Format("15:04")
				entry.end = e.End.Local().Format("15:04")
			}
			key := start.Format(model.DateLayout)
			days[key] = insertByStart(days[key], entry)
		}
		return agendaLoadedMsg{days: days, syncedAt: cache.SyncedAt}
	}
}

// insertByStart keeps a day ordered by start time, untimed entries first.
func insertByStart(entries []agendaEntry, e agendaEntry) []agendaEntry {
	i := len(entries)
	for j, cur := range entries {
		if e.start < cur.start {
			i = j
			break
		}
	}
	entries = append(entries, agendaEntry{})
	copy(entries[i+1:], entries[i:])
	entries[i] = e
	return entries
}

// Update handles messages
func (v AgendaView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case agendaLoadedMsg:
		v.days = msg.days
		v.syncedAt = msg.syncedAt
		return v, nil

	case agendaErrorMsg:
		v.statusMsg = fmt.Sprintf("Error: %v", msg.err)
		return v, nil

	case CalendarSyncedMsg:
		if msg.Err != nil {
			v.statusMsg = fmt.Sprintf("Sync failed: %v", msg.Err)
			return v, nil
		}
		v.statusMsg = fmt.Sprintf("Synced %d events", msg.Events)
		return v, v.load()

	case BoardChangedMsg:
		return v, v.load()

	case tea.KeyMsg:
		switch msg.String() {
		case "h", "left":
			v.start = v.start.AddDate(0, 0, -agendaDays)
		case "l", "right":
			v.start = v.start.AddDate(0, 0, agendaDays)
		case "t":
			v.start = startOfDay(v.now())
		case "S":
			v.statusMsg = "Syncing calendar..."
			return v, func() tea.Msg { return SyncCalendarMsg{} }
		case "r":
		default:
			return v, nil
		}
		return v, v.load()
	}
	return v, nil
}

// View renders the agenda
func (v AgendaView) View() string {
	if v.width == 0 || v.height == 0 {
		return "Loading..."
	}

	t := theme.Current.Theme
	st := theme.Current.Styles

	end := v.start.AddDate(0, 0, agendaDays-1)
	var sections []string
	sections = append(sections, lipgloss.NewStyle().Bold(true).Foreground(t.Primary).Render(
		fmt.Sprintf("Agenda ─ %s – %s", v.start.Format("Mon Jan 2"), end.Format("Mon Jan 2"))))

	synced := "calendar never synced"
	if !v.syncedAt.IsZero() {
		synced = "calendar synced " + v.syncedAt.Local().Format("Jan 2 15:04")
	}
	sections = append(sections, st.Label.Render(synced), "")

	today := startOfDay(v.now()).Format(model.DateLayout)
	dayStyle := lipgloss.NewStyle().Bold(true).Foreground(t.Secondary)
	taskStyle := lipgloss.NewStyle().Foreground(t.Foreground)
	eventStyle := lipgloss.NewStyle().Foreground(t.Scheduled)

	for i := range agendaDays {
		day := v.start.AddDate(0, 0, i)
		key := day.Format(model.DateLayout)
		ds := dayStyle
		label := day.Format("Mon Jan 2")
		if key == today {
			ds = ds.Foreground(t.Primary)
			label += " (today)"
		}
		sections = append(sections, ds.Render(label))

		entries := v.days[key]
		if len(entries) == 0 {
			sections = append(sections, st.Label.Italic(true).Render("  nothing scheduled"))
			continue
		}
		for _, e := range entries {
			when := "all day    "
			if e.start != "" {
				when = fmt.Sprintf("%-5s", e.start)
				if e.end != "" {
					when += "-" + e.end
				} else {
					when += "      "
				}
			} else if !e.event {
				when = "           "
			}
			var line string
			if e.event {
				line = eventStyle.Render("◆ " + e.title)
				if e.source != "" {
					line += st.Label.Render(" @ " + e.source)
				}
			} else {
				line = taskStyle.Render("● " + e.title)
				if e.project != "" {
					line += st.Label.Render(" [" + e.project + "]")
				}
			}
			sections = append(sections, "  "+st.Label.Render(when)+" "+line)
		}
	}

	if v.statusMsg != "" {
		sections = append(sections, "", lipgloss.NewStyle().Foreground(t.Info).Render(v.statusMsg))
	}
	sections = append(sections, "", st.Label.Render("h/l: week • t: today • S: sync calendar • r: refresh"))
	return strings.Join(sections, "\n")
}

// IsInputMode returns whether the view is in input mode
func (v AgendaView) IsInputMode() bool {
	return false
}
