package model

import "strings"

// ColumnRole marks the columns the focus timer and analytics care about.
type ColumnRole string

const (
	RoleNone       ColumnRole = ""
	RoleActiveWork ColumnRole = "activeWork"
	RoleCompleted  ColumnRole = "completed"
)

// Reserved ids used by the default board layout and by legacy snapshots
const (
	ActiveWorkColumnID = "doing"
	CompletedColumnID  = "done"
)

// Column is an ordered lane on a board
type Column struct {
	ID    string     `json:"id"`
	Title string     `json:"title"`
	Role  ColumnRole `json:"role,omitempty"`
}

// IsActiveWork reports whether the column holds in-progress work.
func (c *Column) IsActiveWork() bool {
	return c.Role == RoleActiveWork
}

// IsCompleted reports whether the column holds finished work.
func (c *Column) IsCompleted() bool {
	return c.Role == RoleCompleted
}

// InferRole guesses a role from legacy id/title conventions ("doing", "done").
// It is only consulted when loading snapshots written before roles existed.
func (c *Column) InferRole() ColumnRole {
	switch {
	case c.ID == ActiveWorkColumnID || strings.EqualFold(strings.TrimSpace(c.Title), "doing"):
		return RoleActiveWork
	case c.ID == CompletedColumnID || strings.EqualFold(strings.TrimSpace(c.Title), "done"):
		return RoleCompleted
	}
	return RoleNone
}

// DefaultColumns returns the layout of a freshly created board.
func DefaultColumns() []Column {
	return []Column{
		{ID: "for-later", Title: "For Later"},
		{ID: "todo", Title: "To Do"},
		{ID: ActiveWorkColumnID, Title: "Doing", Role: RoleActiveWork},
		{ID: CompletedColumnID, Title: "Done", Role: RoleCompleted},
	}
}
