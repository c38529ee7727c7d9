package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dori/focusboard/internal/board"
	"github.com/dori/focusboard/internal/model"
	"github.com/dori/focusboard/internal/ui/theme"
)

// ProjectsMode represents the current input mode
type ProjectsMode int

const (
	ProjectsModeNormal ProjectsMode = iota
	ProjectsModeAdd
	ProjectsModeRename
	ProjectsModeColor
	ProjectsModeConfirmDelete
)

// ProjectsView lists projects; each project owns one board.
type ProjectsView struct {
	projects *board.Projects
	width    int
	height   int

	cursor    int
	currentID string

	mode      ProjectsMode
	textInput textinput.Model

	statusMsg string
}

// NewProjectsView creates a new projects view
func NewProjectsView(projects *board.Projects) ProjectsView {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 128
	return ProjectsView{projects: projects, textInput: ti}
}

// Init initializes the projects view
func (v ProjectsView) Init() tea.Cmd {
	return nil
}

// SetSize sets the view dimensions
func (v ProjectsView) SetSize(width, height int) ProjectsView {
	v.width = width
	v.height = height
	return v
}

// SetCurrent marks the project whose board is open
func (v ProjectsView) SetCurrent(id string) ProjectsView {
	v.currentID = id
	for i, p := range v.projects.List() {
		if p.ID == id {
			v.cursor = i
		}
	}
	return v
}

func (v ProjectsView) selected() (model.Project, bool) {
	list := v.projects.List()
	if v.cursor < 0 || v.cursor >= len(list) {
		return model.Project{}, false
	}
	return list[v.cursor], true
}

// Update handles messages
func (v ProjectsView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if v.IsInputMode() {
			var cmd tea.Cmd
			v.textInput, cmd = v.textInput.Update(msg)
			return v, cmd
		}
		return v, nil
	}

	switch v.mode {
	case ProjectsModeAdd, ProjectsModeRename, ProjectsModeColor:
		return v.handleInputMode(keyMsg)
	case ProjectsModeConfirmDelete:
		return v.handleConfirmDelete(keyMsg)
	}

	v.statusMsg = ""
	switch keyMsg.String() {
	case "j", "down":
		if v.cursor < len(v.projects.List())-1 {
			v.cursor++
		}
	case "k", "up":
		if v.cursor > 0 {
			v.cursor--
		}
	case "enter":
		if p, ok := v.selected(); ok {
			v.currentID = p.ID
			return v, func() tea.Msg { return OpenProjectMsg{Project: p} }
		}
	case "a":
		return v.startInput(ProjectsModeAdd, "Project title...", ""), nil
	case "r":
		if p, ok := v.selected(); ok {
			return v.startInput(ProjectsModeRename, "", p.Title), nil
		}
	case "c":
		if p, ok := v.selected(); ok {
			return v.startInput(ProjectsModeColor, "#88C0D0", p.Color), nil
		}
	case "d":
		if p, ok := v.selected(); ok {
			if p.ID == v.currentID {
				v.statusMsg = "Open another project before deleting this one"
				return v, nil
			}
			v.mode = ProjectsModeConfirmDelete
		}
	}
	return v, nil
}

func (v ProjectsView) startInput(mode ProjectsMode, placeholder, value string) ProjectsView {
	v.mode = mode
	v.textInput.Placeholder = placeholder
	v.textInput.SetValue(value)
	v.textInput.Focus()
	v.textInput.CursorEnd()
	return v
}

func (v ProjectsView) handleInputMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		v.mode = ProjectsModeNormal
		v.textInput.Blur()
		return v, nil
	case "enter":
		value := strings.TrimSpace(v.textInput.Value())
		mode := v.mode
		v.mode = ProjectsModeNormal
		v.textInput.Blur()

		p, hasSelection := v.selected()
		switch mode {
		case ProjectsModeAdd:
			if added, ok := v.projects.Add(value, ""); ok {
				v.cursor = len(v.projects.List()) - 1
				v.statusMsg = "Created " + added.Title
			}
		case ProjectsModeRename:
			if hasSelection && v.projects.Rename(p.ID, value) {
				return v, boardChanged
			}
		case ProjectsModeColor:
			if hasSelection && v.projects.SetColor(p.ID, value) {
				return v, boardChanged
			}
		}
		return v, nil
	}

	var cmd tea.Cmd
	v.textInput, cmd = v.textInput.Update(msg)
	return v, cmd
}

func (v ProjectsView) handleConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		v.mode = ProjectsModeNormal
		p, ok := v.selected()
		if !ok || !v.projects.Delete(p.ID) {
			return v, nil
		}
		if n := len(v.projects.List()); v.cursor >= n {
			v.cursor = max(0, n-1)
		}
		return v, func() tea.Msg { return ProjectDeletedMsg{ProjectID: p.ID} }
	case "n", "N", "esc":
		v.mode = ProjectsModeNormal
	}
	return v, nil
}

// View renders the project list
func (v ProjectsView) View() string {
	if v.width == 0 || v.height == 0 {
		return "Loading..."
	}

	t := theme.Current.Theme
	st := theme.Current.Styles

	var lines []string
	lines = append(lines, lipgloss.NewStyle().Bold(true).Foreground(t.Primary).Render("Projects"), "")

	list := v.projects.List()
	if len(list) == 0 {
		lines = append(lines, st.Label.Italic(true).Render("No projects yet. Press 'a' to add one."))
	}
	for i, p := range list {
		swatch := "■"
		color := t.Subtle
		if p.Color != "" {
			color = lipgloss.Color(p.Color)
		}
		cursor := "  "
		style := st.TaskNormal
		if i == v.cursor {
			cursor = "> "
			style = st.TaskSelected
		}
		name := p.Title
		if p.ID == v.currentID {
			name += " (open)"
		}
		lines = append(lines, cursor+lipgloss.NewStyle().Foreground(color).Render(swatch)+style.Render(name))
	}

	lines = append(lines, "")
	inputStyle := st.InputFocused.Width(max(10, min(60, v.width-4)))
	switch v.mode {
	case ProjectsModeAdd:
		lines = append(lines, inputStyle.Render("New project: "+v.textInput.View()))
	case ProjectsModeRename:
		lines = append(lines, inputStyle.Render("Rename: "+v.textInput.View()))
	case ProjectsModeColor:
		lines = append(lines, inputStyle.Render("Color: "+v.textInput.View()))
	case ProjectsModeConfirmDelete:
		title := ""
		if p, ok := v.selected(); ok {
			title = p.Title
		}
		lines = append(lines, lipgloss.NewStyle().Foreground(t.Error).Bold(true).Render(
			fmt.Sprintf("Delete '%s' and its board? (y/n)", title)))
	default:
		lines = append(lines, st.Label.Render("enter: open • a: add • r: rename • c: color • d: delete"))
	}
	if v.statusMsg != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(t.Info).Render(v.statusMsg))
	}
	return strings.Join(lines, "\n")
}

// IsInputMode returns whether the view is in input mode
func (v ProjectsView) IsInputMode() bool {
	return v.mode != ProjectsModeNormal
}
