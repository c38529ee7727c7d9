package views

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dori/focusboard/internal/focus"
	"github.com/dori/focusboard/internal/model"
	"github.com/dori/focusboard/internal/ui/theme"
	"github.com/muesli/reflow/truncate"
)

// StopFocusMsg requests the end of the running focus session.
type StopFocusMsg struct{}

// FocusView renders the focus timer and forwards pause, break and complete
// actions to it. Starting and stopping go through the root model, which owns
// the session's side effects.
type FocusView struct {
	timer  *focus.Timer
	width  int
	height int

	// the board the timer currently reads from
	boardTitle string

	statusMsg string
}

// NewFocusView creates a new focus view
func NewFocusView(timer *focus.Timer) FocusView {
	return FocusView{timer: timer}
}

// SetTimer replaces the timer, used when the board changes
func (v FocusView) SetTimer(timer *focus.Timer, boardTitle string) FocusView {
	v.timer = timer
	v.boardTitle = boardTitle
	return v
}

// SetSize sets the view dimensions
func (v FocusView) SetSize(width, height int) FocusView {
	v.width = width
	v.height = height
	return v
}

// Init initializes the focus view
func (v FocusView) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (v FocusView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || v.timer == nil {
		return v, nil
	}
	v.statusMsg = ""

	switch keyMsg.String() {
	case "s", "enter":
		if !v.timer.Active() {
			return v, func() tea.Msg { return StartFocusMsg{} }
		}

	case " ":
		switch v.timer.State() {
		case focus.Running:
			v.timer.Pause()
			v.statusMsg = "Paused"
		case focus.Paused:
			v.timer.Resume()
			v.statusMsg = "Resumed"
		case focus.Stopped:
			return v, func() tea.Msg { return StartFocusMsg{} }
		}

	case "b":
		switch v.timer.State() {
		case focus.Running, focus.Paused:
			v.timer.StartBreak()
			v.statusMsg = "Break started"
		case focus.OnBreak:
			v.timer.EndBreak()
			v.statusMsg = "Back to work"
		}

	case "c":
		task, hasTask := v.timer.CurrentTask()
		if v.timer.CompleteActiveTask() && hasTask {
			return v, tea.Batch(boardChanged, statusCmd("Completed: "+task.Title))
		}

	case "S", "x":
		if v.timer.Active() {
			return v, func() tea.Msg { return StopFocusMsg{} }
		}
	}

	return v, nil
}

// stateColor picks the accent for the timer state
func stateColor(s focus.State) lipgloss.Color {
	t := theme.Current.Theme
	switch s {
	case focus.Running:
		return t.Error
	case focus.OnBreak:
		return t.Success
	case focus.Paused:
		return t.Warning
	}
	return t.Foreground
}

func stateLabel(s focus.State) string {
	switch s {
	case focus.Running:
		return "FOCUS"
	case focus.Paused:
		return "PAUSED"
	case focus.OnBreak:
		return "BREAK"
	}
	return "READY"
}

// View renders the focus view
func (v FocusView) View() string {
	if v.width == 0 || v.height == 0 {
		return "Loading..."
	}
	if v.timer == nil {
		return "No board selected"
	}

	t := theme.Current.Theme
	st := theme.Current.Styles
	state := v.timer.State()
	color := stateColor(state)

	var sections []string

	title := "Focus"
	if v.boardTitle != "" {
		title += " · " + v.boardTitle
	}
	sections = append(sections, st.Title.Render(title))

	if v.timer.WarningVisible() {
		sections = append(sections, st.Warning.Render("No tasks in the active-work column"), "")
	}

	sections = append(sections, v.renderTimer(color))

	if task, ok := v.timer.CurrentTask(); ok && state != focus.Stopped {
		sections = append(sections, "", v.renderTask(task))
	}

	// Secondary clocks
	var clocks []string
	if state == focus.Paused {
		clocks = append(clocks, "paused "+focus.FormatDuration(v.timer.PausedFor()))
	}
	if state == focus.OnBreak {
		clocks = append(clocks, "break "+focus.FormatDuration(v.timer.BreakFor()))
	}
	if len(clocks) > 0 {
		sections = append(sections, lipgloss.NewStyle().Foreground(t.Subtle).MarginTop(1).Render(strings.Join(clocks, " • ")))
	}

	if v.statusMsg != "" {
		sections = append(sections, lipgloss.NewStyle().Foreground(t.Info).MarginTop(1).Render(v.statusMsg))
	}

	sections = append(sections, lipgloss.NewStyle().Foreground(t.Subtle).MarginTop(2).Render(v.controls()))

	return lipgloss.NewStyle().
		Width(v.width).
		Align(lipgloss.Center).
		Render(strings.Join(sections, "\n"))
}

// renderTimer renders the big clock and, on a break, the countdown bar
func (v FocusView) renderTimer(color lipgloss.Color) string {
	state := v.timer.State()
	display := focus.FormatDuration(v.timer.Elapsed())
	if state == focus.OnBreak {
		display = focus.FormatDuration(v.timer.BreakRemaining())
	}

	label := lipgloss.NewStyle().Bold(true).Foreground(color).Render(stateLabel(state))
	big := lipgloss.NewStyle().
		Bold(true).
		Foreground(color).
		Padding(1, 4).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Render(display)

	if state != focus.OnBreak {
		return lipgloss.JoinVertical(lipgloss.Center, label, big)
	}

	progress := 1 - v.timer.BreakRemaining().Seconds()/focus.BreakDuration.Seconds()
	barWidth := 30
	filled := min(barWidth, max(0, int(progress*float64(barWidth))))
	bar := lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled))
	return lipgloss.JoinVertical(lipgloss.Center, label, big, bar)
}

func (v FocusView) renderTask(task model.Task) string {
	t := theme.Current.Theme
	lines := []string{
		lipgloss.NewStyle().Bold(true).Foreground(t.Primary).Render(task.Title),
	}
	var meta []string
	if task.Priority != model.PriorityNone {
		meta = append(meta, lipgloss.NewStyle().Foreground(t.PriorityColor(task.Priority)).Render(string(task.Priority)))
	}
	actual := model.FormatClock(task.ActualMinutes())
	if task.EstimatedTime != nil {
		actual += " / " + *task.EstimatedTime
	}
	meta = append(meta, actual)
	if done, total := task.ChecklistProgress(); total > 0 {
		meta = append(meta, fmt.Sprintf("checklist %d/%d", done, total))
	}
	lines = append(lines, lipgloss.NewStyle().Foreground(t.Subtle).Render(strings.Join(meta, " • ")))
	return strings.Join(lines, "\n")
}

func (v FocusView) controls() string {
	switch v.timer.State() {
	case focus.Running:
		return "space pause • b break • c complete task • S stop"
	case focus.Paused:
		return "space resume • b break • c complete task • S stop"
	case focus.OnBreak:
		return "b end break • S stop"
	}
	return "s/space start a session on the top active task"
}

// RenderCompact renders the narrow sidebar shown next to other views while
// a session is active.
func (v FocusView) RenderCompact(width, height int) string {
	if v.timer == nil || !v.timer.Active() {
		return ""
	}
	t := theme.Current.Theme
	st := theme.Current.Styles
	state := v.timer.State()
	color := stateColor(state)
	inner := max(4, width-4)

	display := focus.FormatDuration(v.timer.Elapsed())
	if state == focus.OnBreak {
		display = focus.FormatDuration(v.timer.BreakRemaining())
	}

	lines := []string{
		lipgloss.NewStyle().Bold(true).Foreground(color).Render(stateLabel(state)),
		lipgloss.NewStyle().Bold(true).Foreground(color).Render(display),
	}
	if task, ok := v.timer.CurrentTask(); ok {
		lines = append(lines, "", lipgloss.NewStyle().Foreground(t.Foreground).Render(truncate.StringWithTail(task.Title, uint(inner), "…")))
		lines = append(lines, st.Label.Render(model.FormatClock(task.ActualMinutes())))
	}
	if v.timer.WarningVisible() {
		lines = append(lines, "", st.Warning.Render("no active tasks"))
	}

	return lipgloss.NewStyle().
		Width(width-2).
		Height(max(1, height-2)).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))
}

// IsInputMode returns whether the view is in input mode
func (v FocusView) IsInputMode() bool {
	return false
}
