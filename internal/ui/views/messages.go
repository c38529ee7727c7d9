package views

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dori/focusboard/internal/model"
)

// StatusMsg carries a one-line status for the footer.
type StatusMsg struct {
	Message string
}

// ErrorMsg carries an error for the footer.
type ErrorMsg struct {
	Err error
}

// BoardChangedMsg is sent after the current board was mutated so other views
// can refresh derived data.
type BoardChangedMsg struct{}

// StartFocusMsg requests a focus session on the current board.
type StartFocusMsg struct{}

// OpenProjectMsg asks the root model to switch the board to a project.
type OpenProjectMsg struct {
	Project model.Project
}

// ProjectDeletedMsg reports a project removed from the projects view.
type ProjectDeletedMsg struct {
	ProjectID string
}

type closeDetailMsg struct{}

func statusCmd(message string) tea.Cmd {
	return func() tea.Msg { return StatusMsg{Message: message} }
}
