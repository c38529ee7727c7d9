package views

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/dori/focusboard/internal/board"
	"github.com/dori/focusboard/internal/model"
	"github.com/dori/focusboard/internal/ui/theme"
	"github.com/muesli/reflow/wordwrap"
)

// DetailMode represents the input mode of the task detail pane
type DetailMode int

const (
	DetailModeNormal DetailMode = iota
	DetailModeAddItem
	DetailModeNote
	DetailModeEstimate
	DetailModeSchedule
)

// DetailView shows and edits one task: note, checklist, schedule, estimate.
type DetailView struct {
	store  *board.Store
	taskID string
	width  int
	height int

	cursor int
	mode   DetailMode
	input  textinput.Model
	note   textarea.Model
	now    func() time.Time

	statusMsg string
}

// NewDetailView creates a detail pane for a task
func NewDetailView(store *board.Store, taskID string) DetailView {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 256

	ta := textarea.New()
	ta.Placeholder = "Notes (markdown)…"
	ta.CharLimit = 0
	ta.ShowLineNumbers = false

	return DetailView{
		store:  store,
		taskID: taskID,
		input:  ti,
		note:   ta,
		now:    time.Now,
	}
}

// SetSize sets the pane dimensions
func (v DetailView) SetSize(width, height int) DetailView {
	v.width = width
	v.height = height
	v.note.SetWidth(max(10, width-6))
	v.note.SetHeight(max(3, height/3))
	return v
}

// IsInputMode returns whether a text field has focus
func (v DetailView) IsInputMode() bool {
	return v.mode != DetailModeNormal
}

// Update handles messages
func (v DetailView) Update(msg tea.Msg) (DetailView, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return v.updateInputs(msg)
	}

	switch v.mode {
	case DetailModeNote:
		switch keyMsg.String() {
		case "ctrl+s":
			v.mode = DetailModeNormal
			v.note.Blur()
			if v.store.SetTaskNote(v.taskID, v.note.Value()) {
				return v, boardChanged
			}
			return v, nil
		case "esc":
			v.mode = DetailModeNormal
			v.note.Blur()
			return v, nil
		}
		return v.updateInputs(msg)

	case DetailModeAddItem, DetailModeEstimate, DetailModeSchedule:
		switch keyMsg.String() {
		case "enter":
			cmd := v.commitInput()
			return v, cmd
		case "esc":
			v.mode = DetailModeNormal
			v.input.Blur()
			return v, nil
		}
		return v.updateInputs(msg)
	}

	return v.handleNormalMode(keyMsg)
}

func (v DetailView) updateInputs(msg tea.Msg) (DetailView, tea.Cmd) {
	var cmd tea.Cmd
	switch v.mode {
	case DetailModeNote:
		v.note, cmd = v.note.Update(msg)
	case DetailModeAddItem, DetailModeEstimate, DetailModeSchedule:
		v.input, cmd = v.input.Update(msg)
	}
	return v, cmd
}

func (v DetailView) handleNormalMode(msg tea.KeyMsg) (DetailView, tea.Cmd) {
	task, ok := v.store.Task(v.taskID)
	if !ok {
		return v, func() tea.Msg { return closeDetailMsg{} }
	}
	v.statusMsg = ""

	switch msg.String() {
	case "esc", "q":
		return v, func() tea.Msg { return closeDetailMsg{} }

	case "j", "down":
		if v.cursor < len(task.Checklist)-1 {
			v.cursor++
		}
	case "k", "up":
		if v.cursor > 0 {
			v.cursor--
		}

	case " ", "x":
		if v.cursor < len(task.Checklist) && v.store.ToggleChecklistItem(task.ID, task.Checklist[v.cursor].ID) {
			return v, boardChanged
		}

	case "X":
		if v.cursor < len(task.Checklist) && v.store.RemoveChecklistItem(task.ID, task.Checklist[v.cursor].ID) {
			if v.cursor >= len(task.Checklist)-1 {
				v.cursor = max(0, v.cursor-1)
			}
			return v, boardChanged
		}

	case "a":
		return v.startInput(DetailModeAddItem, "Checklist item…", ""), nil

	case "n":
		v.mode = DetailModeNote
		v.note.SetValue(derefOr(task.Note, ""))
		v.note.Focus()
		return v, textarea.Blink

	case "t":
		return v.startInput(DetailModeEstimate, "HH:MM", derefOr(task.EstimatedTime, "")), nil

	case "s":
		current := ""
		if sched := task.Schedule(); sched != nil {
			current = sched.String()
		}
		return v.startInput(DetailModeSchedule, "tomorrow 09:00-10:00", current), nil

	case "p":
		if v.store.SetTaskPriority(task.ID, task.Priority.Next()) {
			return v, boardChanged
		}
	}
	return v, nil
}

func (v DetailView) startInput(mode DetailMode, placeholder, value string) DetailView {
	v.mode = mode
	v.input.Placeholder = placeholder
	v.input.SetValue(value)
	v.input.Focus()
	v.input.CursorEnd()
	return v
}

func (v *DetailView) commitInput() tea.Cmd {
	value := strings.TrimSpace(v.input.Value())
	mode := v.mode
	v.mode = DetailModeNormal
	v.input.Blur()

	var changed bool
	switch mode {
	case DetailModeAddItem:
		if value == "" {
			return nil
		}
		_, changed = v.store.AddChecklistItem(v.taskID, value)
		if task, ok := v.store.Task(v.taskID); ok && changed {
			v.cursor = len(task.Checklist) - 1
		}

	case DetailModeEstimate:
		changed = v.store.SetTaskEstimate(v.taskID, value)
		if !changed && value != "" {
			if _, err := model.ParseClock(value); err != nil {
				v.statusMsg = "Estimate must be HH:MM"
			}
		}

	case DetailModeSchedule:
		sched, ok := model.ParseSchedule(value, v.now())
		if !ok {
			v.statusMsg = "Schedule must be <date> [HH:MM-HH:MM]"
			return nil
		}
		changed = v.store.SetTaskSchedule(v.taskID, sched)
	}

	if changed {
		return boardChanged
	}
	return nil
}

// View renders the detail pane
func (v DetailView) View() string {
	t := theme.Current.Theme
	st := theme.Current.Styles

	task, ok := v.store.Task(v.taskID)
	if !ok {
		return ""
	}
	inner := max(10, v.width-6)

	var b strings.Builder
	b.WriteString(st.Title.Render(wordwrap.String(task.Title, inner)))
	b.WriteString("\n")

	// Metadata
	meta := func(label, value string) {
		b.WriteString(st.Label.Render(fmt.Sprintf("%-10s", label)))
		b.WriteString(value)
		b.WriteString("\n")
	}
	if col, ok := v.store.Column(task.ColumnID); ok {
		meta("Column", col.Title)
	}
	prio := "none"
	if task.Priority != model.PriorityNone {
		prio = lipgloss.NewStyle().Foreground(t.PriorityColor(task.Priority)).Render(string(task.Priority))
	}
	meta("Priority", prio)
	meta("Estimate", derefOr(task.EstimatedTime, "-"))
	meta("Actual", derefOr(task.ActualTime, "00:00"))
	if sched := task.Schedule(); sched != nil {
		meta("Scheduled", st.Schedule.Render(sched.String()))
	} else {
		meta("Scheduled", "-")
	}

	// Checklist
	b.WriteString("\n")
	done, total := task.ChecklistProgress()
	b.WriteString(st.Subtitle.Render(fmt.Sprintf("Checklist %d/%d", done, total)))
	b.WriteString("\n")
	for i, item := range task.Checklist {
		box := "[ ]"
		style := st.TaskNormal
		if item.Completed {
			box = "[x]"
			style = st.TaskDone
		}
		if i == v.cursor && v.mode == DetailModeNormal {
			style = st.TaskSelected
		}
		b.WriteString(style.Render(box + " " + item.Text))
		b.WriteString("\n")
	}

	// Note
	b.WriteString("\n")
	b.WriteString(st.Subtitle.Render("Note"))
	b.WriteString("\n")
	if v.mode == DetailModeNote {
		b.WriteString(v.note.View())
		b.WriteString("\n")
		b.WriteString(st.Label.Render("ctrl+s save • esc cancel"))
	} else if task.Note != nil {
		b.WriteString(RenderMarkdown(*task.Note, inner))
	} else {
		b.WriteString(st.Label.Italic(true).Render("(no note)"))
	}
	b.WriteString("\n")

	// Input / hints
	switch v.mode {
	case DetailModeAddItem:
		b.WriteString("\n" + st.InputFocused.Render("Item: "+v.input.View()))
	case DetailModeEstimate:
		b.WriteString("\n" + st.InputFocused.Render("Estimate: "+v.input.View()))
	case DetailModeSchedule:
		b.WriteString("\n" + st.InputFocused.Render("Schedule: "+v.input.View()))
	case DetailModeNormal:
		b.WriteString("\n" + st.Label.Render("a item • space toggle • X remove • n note • t estimate • s schedule • esc close"))
	}
	if v.statusMsg != "" {
		b.WriteString("\n" + lipgloss.NewStyle().Foreground(t.Error).Render(v.statusMsg))
	}

	return st.Panel.
		BorderForeground(t.Primary).
		Width(v.width - 2).
		Height(max(1, v.height-4)).
		Render(b.String())
}

var (
	rendererMu sync.Mutex
	renderers  = map[int]*glamour.TermRenderer{}
)

// RenderMarkdown formats a task note for the terminal. It falls back to the
// raw text when rendering fails.
func RenderMarkdown(md string, width int) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	r := markdownRenderer(max(1, width))
	if r == nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.Trim(out, "\n")
}

func markdownRenderer(width int) *glamour.TermRenderer {
	rendererMu.Lock()
	defer rendererMu.Unlock()
	if cached, ok := renderers[width]; ok {
		return cached
	}
	style := styles.DarkStyleConfig
	style.Document.Margin = nil
	created, err := glamour.NewTermRenderer(
		glamour.WithStyles(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil
	}
	renderers[width] = created
	return created
}

func derefOr(p *string, fallback string) string {
	if p == nil {
		return fallback
	}
	return *p
}
