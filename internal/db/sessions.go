package db

import (
	"time"

	"github.com/dori/focusboard/internal/model"
	"github.com/google/uuid"
)

// RecordSession stores a finished focus session. An empty ID is filled in.
func (db *DB) RecordSession(s *model.FocusSession) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}

	var taskID interface{}
	if s.TaskID != "" {
		taskID = s.TaskID
	}

	_, err := db.Exec(`
		INSERT INTO focus_sessions (id, board_id, task_id, started_at, ended_at,
		                            active_seconds, paused_seconds, break_seconds, credited_minutes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, s.ID, s.BoardID, taskID, s.StartedAt.UTC(), s.EndedAt.UTC(),
		s.ActiveSeconds, s.PausedSeconds, s.BreakSeconds, s.CreditedMinutes)
	return err
}

// ListSessions returns sessions started at or after since, newest first
func (db *DB) ListSessions(since time.Time, limit int) ([]model.FocusSession, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.Query(`
		SELECT id, board_id, task_id, started_at, ended_at,
		       active_seconds, paused_seconds, break_seconds, credited_minutes
		FROM focus_sessions
		WHERE started_at >= ?
		ORDER BY started_at DESC
		LIMIT ?
	`, since.UTC(), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []model.FocusSession
	for rows.Next() {
		var s model.FocusSession
		var taskID *string
		if err := rows.Scan(&s.ID, &s.BoardID, &taskID, &s.StartedAt, &s.EndedAt,
			&s.ActiveSeconds, &s.PausedSeconds, &s.BreakSeconds, &s.CreditedMinutes); err != nil {
			return nil, err
		}
		if taskID != nil {
			s.TaskID = *taskID
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// TotalFocusSeconds sums active seconds per board for sessions since the given time
func (db *DB) TotalFocusSeconds(since time.Time) (map[string]int, error) {
	rows, err := db.Query(`
		SELECT board_id, COALESCE(SUM(active_seconds), 0)
		FROM focus_sessions
		WHERE started_at >= ?
		GROUP BY board_id
	`, since.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	totals := make(map[string]int)
	for rows.Next() {
		var boardID string
		var secs int
		if err := rows.Scan(&boardID, &secs); err != nil {
			return nil, err
		}
		totals[boardID] = secs
	}
	return totals, rows.Err()
}
