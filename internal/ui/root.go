package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dori/focusboard/internal/app"
	"github.com/dori/focusboard/internal/board"
	"github.com/dori/focusboard/internal/calendar"
	"github.com/dori/focusboard/internal/focus"
	"github.com/dori/focusboard/internal/model"
	"github.com/dori/focusboard/internal/ui/theme"
	"github.com/dori/focusboard/internal/ui/views"
)

const (
	headerHeight = 1
	sidebarWidth = 26
	syncDays     = 7
)

// Options selects the initial state of the TUI
type Options struct {
	StartView View
	Project   model.Project
}

// RootModel is the main application model that manages views
type RootModel struct {
	app    *app.App
	ctx    context.Context
	keys   KeyMap
	help   help.Model
	width  int
	height int

	project model.Project
	store   *board.Store
	timer   *focus.Timer
	ticking bool

	currentView   View
	boardView     views.BoardView
	focusView     views.FocusView
	analyticsView views.AnalyticsView
	agendaView    views.AgendaView
	projectsView  views.ProjectsView
	helpVisible   bool

	windowFocused bool

	// Status message
	statusMsg string
	errorMsg  string
}

type warningExpiredMsg struct{}

// NewRootModel creates a new root model
func NewRootModel(ctx context.Context, application *app.App, opts Options) RootModel {
	h := help.New()
	h.ShowAll = false

	store := application.Board(opts.Project.ID)
	timer := application.Timer(store)

	return RootModel{
		app:           application,
		ctx:           ctx,
		keys:          DefaultKeyMap(),
		help:          h,
		project:       opts.Project,
		store:         store,
		timer:         timer,
		currentView:   opts.StartView,
		boardView:     views.NewBoardView(store, opts.Project),
		focusView:     views.NewFocusView(timer).SetTimer(timer, opts.Project.Title),
		analyticsView: views.NewAnalyticsView(application.DB, application.Projects, application.Log),
		agendaView:    views.NewAgendaView(application.DB, application.Projects),
		projectsView:  views.NewProjectsView(application.Projects).SetCurrent(opts.Project.ID),
		windowFocused: true,
	}
}

// Init initializes the model
func (m RootModel) Init() tea.Cmd {
	return m.initView(m.currentView)
}

func (m RootModel) initView(v View) tea.Cmd {
	switch v {
	case ViewAnalytics:
		return m.analyticsView.Init()
	case ViewAgenda:
		return m.agendaView.Init()
	}
	return nil
}

// Update handles messages
func (m RootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	m.app.Log.Trace().Str("msg", fmt.Sprintf("%T", msg)).Msg("update")

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.resize()

	case tea.FocusMsg:
		m.windowFocused = true
		m.boardView = m.boardView.SetWindowFocused(true)
		return m, nil

	case tea.BlurMsg:
		m.windowFocused = false
		// a drag cannot survive the pointer leaving the window
		m.boardView = m.boardView.SetWindowFocused(false).CancelDrag()
		return m, nil

	case tea.MouseMsg:
		if m.helpVisible || m.currentView != ViewBoard {
			return m, nil
		}
		msg.Y -= headerHeight
		newBoard, cmd := m.boardView.Update(msg)
		m.boardView = newBoard.(views.BoardView)
		return m, cmd

	case tea.KeyMsg:
		// Clear status/error on any keypress
		m.statusMsg = ""
		m.errorMsg = ""

		isInputMode := m.isInputMode()

		switch {
		case key.Matches(msg, m.keys.Quit):
			// ctrl+c always quits; 'q' closes the detail pane instead
			inDetail := m.currentView == ViewBoard && m.boardView.InDetail()
			if msg.String() == "ctrl+c" || (!isInputMode && !inDetail) {
				if cmd := m.stopFocus(); cmd != nil {
					return m, tea.Sequence(cmd, tea.Quit)
				}
				return m, tea.Quit
			}

		case key.Matches(msg, m.keys.ThemeCycle):
			m.cycleTheme()
			return m, nil
		}

		if isInputMode {
			break
		}

		if m.helpVisible && key.Matches(msg, m.keys.Back) {
			m.helpVisible = false
			return m, nil
		}

		switch {
		case key.Matches(msg, m.keys.Help):
			m.helpVisible = !m.helpVisible
			m.help.ShowAll = m.helpVisible
			return m, nil
		case key.Matches(msg, m.keys.BoardView):
			return m.switchView(ViewBoard)
		case key.Matches(msg, m.keys.FocusView):
			return m.switchView(ViewFocus)
		case key.Matches(msg, m.keys.AnalyticsView):
			return m.switchView(ViewAnalytics)
		case key.Matches(msg, m.keys.AgendaView):
			return m.switchView(ViewAgenda)
		case key.Matches(msg, m.keys.ProjectsView):
			return m.switchView(ViewProjects)
		}

	case focusTickMsg:
		if !m.timer.Active() {
			m.ticking = false
			return m, nil
		}
		res := m.timer.Tick()
		if res.BreakEnded {
			m.statusMsg = "Break over, back to work"
			cmds = append(cmds, m.notify(func() error { return m.app.Notifier.SendBreakComplete() }))
		}
		if res.Credited > 0 {
			m.app.Log.Debug().Int("minutes", res.Credited).Msg("credited focus time")
		}
		cmds = append(cmds, focusTick())
		return m, tea.Batch(cmds...)

	case warningExpiredMsg:
		// redraw only
		return m, nil

	case views.StartFocusMsg:
		return m.startFocus()

	case views.StopFocusMsg:
		return m, m.stopFocus()

	case views.OpenProjectMsg:
		if m.timer.Active() {
			m.errorMsg = "Stop the focus session before switching projects"
			return m, nil
		}
		m.openProject(msg.Project)
		return m.switchView(ViewBoard)

	case views.ProjectDeletedMsg:
		m.statusMsg = "Project deleted"
		return m, nil

	case views.SyncCalendarMsg:
		return m, m.syncCalendar()

	case views.CalendarSyncedMsg:
		newAgenda, cmd := m.agendaView.Update(msg)
		m.agendaView = newAgenda.(views.AgendaView)
		return m, cmd

	case views.ErrorMsg:
		m.errorMsg = msg.Err.Error()
		return m, nil

	case views.StatusMsg:
		m.statusMsg = msg.Message
		return m, nil

	case ThemeChangedMsg:
		m.statusMsg = fmt.Sprintf("Theme: %s", msg.ThemeName)
		return m, nil
	}

	if m.helpVisible {
		return m, tea.Batch(cmds...)
	}

	// Delegate to current view
	switch m.currentView {
	case ViewBoard:
		newBoard, cmd := m.boardView.Update(msg)
		m.boardView = newBoard.(views.BoardView)
		cmds = append(cmds, cmd)
	case ViewFocus:
		newFocus, cmd := m.focusView.Update(msg)
		m.focusView = newFocus.(views.FocusView)
		cmds = append(cmds, cmd)
	case ViewAnalytics:
		newAnalytics, cmd := m.analyticsView.Update(msg)
		m.analyticsView = newAnalytics.(views.AnalyticsView)
		cmds = append(cmds, cmd)
	case ViewAgenda:
		newAgenda, cmd := m.agendaView.Update(msg)
		m.agendaView = newAgenda.(views.AgendaView)
		cmds = append(cmds, cmd)
	case ViewProjects:
		newProjects, cmd := m.projectsView.Update(msg)
		m.projectsView = newProjects.(views.ProjectsView)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m RootModel) isInputMode() bool {
	switch m.currentView {
	case ViewBoard:
		return m.boardView.IsInputMode()
	case ViewFocus:
		return m.focusView.IsInputMode()
	case ViewAnalytics:
		return m.analyticsView.IsInputMode()
	case ViewAgenda:
		return m.agendaView.IsInputMode()
	case ViewProjects:
		return m.projectsView.IsInputMode()
	}
	return false
}

// switchView changes the active view. Any drag in progress is abandoned.
func (m RootModel) switchView(v View) (tea.Model, tea.Cmd) {
	m.boardView = m.boardView.CancelDrag()
	m.helpVisible = false
	m.currentView = v
	if v == ViewProjects {
		m.projectsView = m.projectsView.SetCurrent(m.project.ID)
	}
	m.resize()
	return m, m.initView(v)
}

func (m *RootModel) openProject(p model.Project) {
	m.project = p
	m.store = m.app.Board(p.ID)
	m.timer.SetBoard(m.store)
	m.boardView = m.boardView.SetBoard(m.store, p)
	m.focusView = m.focusView.SetTimer(m.timer, p.Title)
	m.projectsView = m.projectsView.SetCurrent(p.ID)
	m.app.Log.Info().Str("project", p.ID).Msg("opened project")
	m.resize()
}

func (m RootModel) startFocus() (tea.Model, tea.Cmd) {
	if m.timer.Active() {
		return m, nil
	}
	err := m.timer.Start(m.ctx)
	if errors.Is(err, focus.ErrNoActiveTasks) {
		title := "active-work"
		if col, ok := m.store.ActiveWorkColumn(); ok {
			title = col.Title
		}
		m.errorMsg = fmt.Sprintf("Add a task to %q before starting a focus session", title)
		return m, tea.Batch(
			m.notify(func() error { return m.app.Notifier.SendNoActiveTasks(title) }),
			tea.Tick(focus.WarningDuration, func(time.Time) tea.Msg { return warningExpiredMsg{} }),
		)
	}
	if err != nil {
		m.errorMsg = err.Error()
		return m, nil
	}

	if task, ok := m.timer.CurrentTask(); ok {
		m.statusMsg = "Focusing on " + task.Title
	}
	m.resize()
	if m.ticking {
		return m, nil
	}
	m.ticking = true
	return m, focusTick()
}

// stopFocus ends the session, records it and restores the window.
// stopFocus ends the session and returns the summary notification.
func (m *RootModel) stopFocus() tea.Cmd {
	if !m.timer.Active() {
		return nil
	}
	task, _ := m.timer.CurrentTask()
	session, err := m.timer.Stop(m.ctx)
	m.resize()
	if err != nil {
		m.errorMsg = err.Error()
		m.app.Log.Error().Err(err).Msg("stop focus session")
		return nil
	}
	m.statusMsg = fmt.Sprintf("Session saved: %d min credited", session.CreditedMinutes)
	notifier := m.app.Notifier
	return m.notify(func() error {
		return notifier.SendSessionSummary(task.Title, session.CreditedMinutes)
	})
}

func (m RootModel) notify(send func() error) tea.Cmd {
	log := m.app.Log
	return func() tea.Msg {
		if err := send(); err != nil {
			log.Debug().Err(err).Msg("notify")
		}
		return nil
	}
}

func (m RootModel) syncCalendar() tea.Cmd {
	cal := m.app.Calendar
	if cal == nil || !cal.IsConfigured() {
		return func() tea.Msg { return views.CalendarSyncedMsg{Err: calendar.ErrNotConfigured} }
	}
	ctx := m.ctx
	kv := m.app.DB
	calendarID := m.app.Config.Calendar.CalendarID
	return func() tea.Msg {
		events, err := cal.Sync(ctx, kv, calendarID, syncDays)
		return views.CalendarSyncedMsg{Events: len(events), Err: err}
	}
}

func focusTick() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return focusTickMsg{}
	})
}

// showSidebar reports whether the compact focus sidebar takes screen space.
func (m RootModel) showSidebar() bool {
	return m.timer.Active() && m.currentView != ViewFocus && m.width >= sidebarWidth*3
}

// resize recomputes the content area for every view
func (m *RootModel) resize() {
	if m.width == 0 || m.height == 0 {
		return
	}
	// Reserve space for header (1 line) and footer (3 lines)
	contentHeight := m.height - 4
	contentWidth := m.width
	if m.showSidebar() {
		contentWidth -= sidebarWidth
	}
	m.boardView = m.boardView.SetSize(contentWidth, contentHeight)
	m.focusView = m.focusView.SetSize(contentWidth, contentHeight)
	m.analyticsView = m.analyticsView.SetSize(contentWidth, contentHeight)
	m.agendaView = m.agendaView.SetSize(contentWidth, contentHeight)
	m.projectsView = m.projectsView.SetSize(contentWidth, contentHeight)
}

// View renders the UI
func (m RootModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var sections []string
	sections = append(sections, m.renderHeader())

	contentHeight := m.height - 4
	if m.errorMsg != "" || m.statusMsg != "" {
		contentHeight--
	}

	var content string
	if m.helpVisible {
		content = m.renderHelp()
	} else {
		switch m.currentView {
		case ViewBoard:
			content = m.boardView.View()
		case ViewFocus:
			content = m.focusView.View()
		case ViewAnalytics:
			content = m.analyticsView.View()
		case ViewAgenda:
			content = m.agendaView.View()
		case ViewProjects:
			content = m.projectsView.View()
		default:
			content = theme.Current.Styles.Panel.Render("View not implemented")
		}
	}

	// Ensure content fills available space
	contentLines := strings.Count(content, "\n") + 1
	if contentLines < contentHeight {
		content += strings.Repeat("\n", contentHeight-contentLines)
	}
	if m.showSidebar() {
		content = lipgloss.JoinHorizontal(lipgloss.Top,
			lipgloss.NewStyle().Width(m.width-sidebarWidth).Render(content),
			m.focusView.RenderCompact(sidebarWidth, contentHeight))
	}
	sections = append(sections, content)

	sections = append(sections, m.renderFooter())
	return strings.Join(sections, "\n")
}

// renderHeader renders the header bar
func (m RootModel) renderHeader() string {
	styles := theme.Current.Styles
	t := theme.Current.Theme

	title := styles.Header.Render("focusboard")

	viewStyle := lipgloss.NewStyle().
		Foreground(t.Subtle).
		Padding(0, 1)
	viewIndicator := viewStyle.Render(fmt.Sprintf("[%s]", m.currentView.String()))

	projectStyle := viewStyle.Foreground(t.Secondary)
	if m.project.Color != "" {
		projectStyle = projectStyle.Foreground(lipgloss.Color(m.project.Color))
	}
	projectIndicator := projectStyle.Render(m.project.Title)

	right := []string{}
	if m.timer.Active() && !m.showSidebar() {
		right = append(right, lipgloss.NewStyle().Foreground(t.Error).Bold(true).Padding(0, 1).
			Render(fmt.Sprintf("%s %s", m.timer.State(), focus.FormatDuration(m.timer.Elapsed()))))
	}
	right = append(right, viewStyle.Render(fmt.Sprintf("theme: %s", t.Name)))

	leftSide := lipgloss.JoinHorizontal(lipgloss.Center, title, viewIndicator, projectIndicator)
	rightSide := lipgloss.JoinHorizontal(lipgloss.Center, right...)

	gap := max(0, m.width-lipgloss.Width(leftSide)-lipgloss.Width(rightSide))
	return leftSide + strings.Repeat(" ", gap) + rightSide
}

// renderFooter renders the footer/status bar
func (m RootModel) renderFooter() string {
	styles := theme.Current.Styles
	t := theme.Current.Theme

	key := func(k, desc string) string {
		return styles.HelpKey.Render(k) + styles.HelpDesc.Render(" "+desc)
	}
	sep := styles.HelpSeparator.Render(" │ ")

	var statusLine string
	if m.errorMsg != "" {
		statusLine = lipgloss.NewStyle().Foreground(t.Error).Render(m.errorMsg)
	} else if m.statusMsg != "" {
		statusLine = lipgloss.NewStyle().Foreground(t.Info).Render(m.statusMsg)
	}

	var line1, line2 string
	switch {
	case m.helpVisible:
		line1 = key("?/esc", "close help")

	case m.isInputMode():
		line1 = key("enter", "confirm") + sep + key("esc", "cancel")

	case m.currentView == ViewBoard && m.boardView.InDetail():
		line1 = key("a", "item") + sep +
			key("space", "toggle") + sep +
			key("n", "note") + sep +
			key("t", "estimate") + sep +
			key("s", "schedule") + sep +
			key("esc", "close")

	case m.currentView == ViewBoard:
		line1 = key("h/l", "columns") + sep +
			key("j/k", "tasks") + sep +
			key("H/L", "move") + sep +
			key("a", "add") + sep +
			key("enter", "details") + sep +
			key("c", "complete") + sep +
			key("d", "del") + sep +
			key("p", "priority") + sep +
			key("f", "focus")
		line2 = key("A/R/X", "column add/rename/del") + sep +
			key("</>", "shift column") + sep +
			key("mouse", "drag cards and headers") + sep +
			key("1-5", "views") + sep +
			key("?", "help")

	case m.currentView == ViewFocus:
		line1 = key("space", "pause/resume") + sep +
			key("b", "break") + sep +
			key("c", "complete") + sep +
			key("S", "stop")
		line2 = key("1-5", "views") + sep +
			key("ctrl+t", "theme") + sep +
			key("?", "help")

	default:
		line1 = key("1-5", "views") + sep +
			key("ctrl+t", "theme") + sep +
			key("?", "help") + sep +
			key("q", "quit")
	}

	var lines []string
	if statusLine != "" {
		lines = append(lines, statusLine)
	}
	if line1 != "" {
		lines = append(lines, line1)
	}
	if line2 != "" {
		lines = append(lines, line2)
	}
	return strings.Join(lines, "\n")
}

// renderHelp renders the help overlay from the key map
func (m RootModel) renderHelp() string {
	t := theme.Current.Theme

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Primary).
		MarginBottom(1)
	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Secondary).
		MarginTop(1)
	keyStyle := lipgloss.NewStyle().
		Foreground(t.Foreground).
		Bold(true).
		Width(12)
	descStyle := lipgloss.NewStyle().
		Foreground(t.Subtle)

	var b strings.Builder
	b.WriteString(titleStyle.Render("focusboard Help"))
	b.WriteString("\n")

	for i, group := range m.keys.FullHelp() {
		b.WriteString(sectionStyle.Render(helpSections[i]))
		b.WriteString("\n")
		for _, binding := range group {
			h := binding.Help()
			b.WriteString(keyStyle.Render(h.Key))
			b.WriteString(descStyle.Render(h.Desc))
			b.WriteString("\n")
		}
	}

	b.WriteString(sectionStyle.Render("Mouse"))
	b.WriteString("\n")
	b.WriteString(keyStyle.Render("drag card"))
	b.WriteString(descStyle.Render("Move a task to another column"))
	b.WriteString("\n")
	b.WriteString(keyStyle.Render("drag header"))
	b.WriteString(descStyle.Render("Reorder columns"))
	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.keys))

	return b.String()
}

// cycleTheme cycles through available themes
func (m *RootModel) cycleTheme() {
	themes := theme.Available()
	current := theme.Current.Theme.Name

	for i, t := range themes {
		if t.Name == current {
			next := themes[(i+1)%len(themes)]
			theme.SetTheme(next)
			m.statusMsg = fmt.Sprintf("Theme: %s", next.Name)
			return
		}
	}
}
