package model

import "time"

// Snapshot is the unit of persistence for one board
type Snapshot struct {
	Tasks       []Task    `json:"tasks"`
	Columns     []Column  `json:"columns"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// BoardKey returns the persistence key of a board snapshot.
func BoardKey(boardID string) string {
	return "board-" + boardID
}

// ProjectsKey is the persistence key of the project list.
const ProjectsKey = "projects"

// CalendarEventsKey is where the last synced calendar events are cached.
const CalendarEventsKey = "calendar-events"

// Column returns the column with the given id, or nil.
func (s *Snapshot) Column(id string) *Column {
	for i := range s.Columns {
		if s.Columns[i].ID == id {
			return &s.Columns[i]
		}
	}
	return nil
}

// ColumnByRole returns the first column carrying role, or nil.
func (s *Snapshot) ColumnByRole(role ColumnRole) *Column {
	if role == RoleNone {
		return nil
	}
	for i := range s.Columns {
		if s.Columns[i].Role == role {
			return &s.Columns[i]
		}
	}
	return nil
}

// Task returns the task with the given id, or nil.
func (s *Snapshot) Task(id string) *Task {
	for i := range s.Tasks {
		if s.Tasks[i].ID == id {
			return &s.Tasks[i]
		}
	}
	return nil
}

// NormalizeRoles assigns roles to legacy snapshots that predate the role field
// and drops duplicate roles so that each role is held by at most one column.
func (s *Snapshot) NormalizeRoles() {
	seen := map[ColumnRole]bool{}
	for i := range s.Columns {
		role := s.Columns[i].Role
		if role == RoleNone {
			continue
		}
		if seen[role] {
			s.Columns[i].Role = RoleNone
			continue
		}
		seen[role] = true
	}
	for i := range s.Columns {
		if s.Columns[i].Role != RoleNone {
			continue
		}
		role := s.Columns[i].InferRole()
		if role == RoleNone || seen[role] {
			continue
		}
		s.Columns[i].Role = role
		seen[role] = true
	}
}
