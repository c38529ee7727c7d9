package model

import (
	"time"
)

// FocusSession records one run of the focus timer
type FocusSession struct {
	ID              string    `json:"id"`
	BoardID         string    `json:"board_id"`
	TaskID          string    `json:"task_id,omitempty"`
	StartedAt       time.Time `json:"started_at"`
	EndedAt         time.Time `json:"ended_at"`
	ActiveSeconds   int       `json:"active_seconds"`
	PausedSeconds   int       `json:"paused_seconds"`
	BreakSeconds    int       `json:"break_seconds"`
	CreditedMinutes int       `json:"credited_minutes"`
}

// WallDuration is the wall-clock length of the session
func (s *FocusSession) WallDuration() time.Duration {
	return s.EndedAt.Sub(s.StartedAt)
}
