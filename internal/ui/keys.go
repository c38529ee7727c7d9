package ui

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the application
type KeyMap struct {
	// Navigation
	Up     key.Binding
	Down   key.Binding
	Left   key.Binding
	Right  key.Binding
	Top    key.Binding
	Bottom key.Binding

	// Task Actions
	Add      key.Binding
	Edit     key.Binding
	Detail   key.Binding
	Delete   key.Binding
	Complete key.Binding
	Move     key.Binding
	Priority key.Binding

	// Column Actions
	AddColumn    key.Binding
	RenameColumn key.Binding
	DeleteColumn key.Binding
	ShiftColumn  key.Binding
	ActiveWork   key.Binding
	Completed    key.Binding

	// Focus
	FocusStart key.Binding
	FocusPause key.Binding
	FocusBreak key.Binding
	FocusStop  key.Binding

	// Views
	BoardView     key.Binding
	FocusView     key.Binding
	AnalyticsView key.Binding
	AgendaView    key.Binding
	ProjectsView  key.Binding

	// General
	Help       key.Binding
	ThemeCycle key.Binding
	Quit       key.Binding
	Back       key.Binding
}

// DefaultKeyMap returns the default keybindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		// Navigation
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "previous column"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next column"),
		),
		Top: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G"),
			key.WithHelp("G", "bottom"),
		),

		// Task Actions
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add task"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit title"),
		),
		Detail: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "details, note, checklist"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete task"),
		),
		Complete: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "complete task"),
		),
		Move: key.NewBinding(
			key.WithKeys("H", "L"),
			key.WithHelp("H/L", "move task left/right"),
		),
		Priority: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "cycle priority"),
		),

		// Column Actions
		AddColumn: key.NewBinding(
			key.WithKeys("A"),
			key.WithHelp("A", "add column"),
		),
		RenameColumn: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "rename column"),
		),
		DeleteColumn: key.NewBinding(
			key.WithKeys("X"),
			key.WithHelp("X", "delete column"),
		),
		ShiftColumn: key.NewBinding(
			key.WithKeys("<", ">"),
			key.WithHelp("</>", "shift column"),
		),
		ActiveWork: key.NewBinding(
			key.WithKeys("W"),
			key.WithHelp("W", "mark active-work column"),
		),
		Completed: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "mark completed column"),
		),

		// Focus
		FocusStart: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "start focus"),
		),
		FocusPause: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "pause/resume"),
		),
		FocusBreak: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "break"),
		),
		FocusStop: key.NewBinding(
			key.WithKeys("S"),
			key.WithHelp("S", "stop session"),
		),

		// Views
		BoardView: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "board"),
		),
		FocusView: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "focus"),
		),
		AnalyticsView: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "analytics"),
		),
		AgendaView: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "agenda"),
		),
		ProjectsView: key.NewBinding(
			key.WithKeys("5"),
			key.WithHelp("5", "projects"),
		),

		// General
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		ThemeCycle: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("C-t", "theme"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
	}
}

// ShortHelp returns short help bindings (for status bar)
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns full help bindings (for help view)
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.Top, k.Bottom},
		{k.Add, k.Edit, k.Detail, k.Delete, k.Complete, k.Move, k.Priority},
		{k.AddColumn, k.RenameColumn, k.DeleteColumn, k.ShiftColumn, k.ActiveWork, k.Completed},
		{k.FocusStart, k.FocusPause, k.FocusBreak, k.FocusStop},
		{k.BoardView, k.FocusView, k.AnalyticsView, k.AgendaView, k.ProjectsView},
		{k.Help, k.ThemeCycle, k.Back, k.Quit},
	}
}

// helpSections names the FullHelp groups in order.
var helpSections = []string{"Navigation", "Tasks", "Columns", "Focus", "Views", "System"}
