package ui

import "strings"

// View represents the current active view
type View int

const (
	ViewBoard View = iota
	ViewFocus
	ViewAnalytics
	ViewAgenda
	ViewProjects
	ViewHelp
)

// String returns the display name for a view
func (v View) String() string {
	switch v {
	case ViewBoard:
		return "Board"
	case ViewFocus:
		return "Focus"
	case ViewAnalytics:
		return "Analytics"
	case ViewAgenda:
		return "Agenda"
	case ViewProjects:
		return "Projects"
	case ViewHelp:
		return "Help"
	default:
		return "Unknown"
	}
}

// ParseView resolves a view by name, as used by --view and ui.start_view.
func ParseView(name string) (View, bool) {
	for v := ViewBoard; v < ViewHelp; v++ {
		if strings.EqualFold(name, v.String()) {
			return v, true
		}
	}
	return ViewBoard, false
}

// Messages for inter-component communication

// focusTickMsg is sent every second while a focus session is active.
type focusTickMsg struct{}

// ThemeChangedMsg indicates the theme was changed
type ThemeChangedMsg struct {
	ThemeName string
}
