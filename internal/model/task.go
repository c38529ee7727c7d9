package model

// Priority ranks tasks inside the active-work column.
type Priority string

const (
	PriorityNone     Priority = ""
	PriorityUrgent   Priority = "urgent"
	PriorityUpcoming Priority = "upcoming"
	PriorityLongTerm Priority = "long-term"
)

// Rank returns the display-order key: urgent=0, upcoming=1, long-term=2, unset=3.
func (p Priority) Rank() int {
	switch p {
	case PriorityUrgent:
		return 0
	case PriorityUpcoming:
		return 1
	case PriorityLongTerm:
		return 2
	default:
		return 3
	}
}

// Valid reports whether p is one of the known priorities (including none).
func (p Priority) Valid() bool {
	switch p {
	case PriorityNone, PriorityUrgent, PriorityUpcoming, PriorityLongTerm:
		return true
	}
	return false
}

// ParsePriority accepts the canonical names plus a few short forms.
func ParsePriority(s string) (Priority, bool) {
	switch s {
	case "urgent", "u":
		return PriorityUrgent, true
	case "upcoming", "up":
		return PriorityUpcoming, true
	case "long-term", "longterm", "long", "lt":
		return PriorityLongTerm, true
	case "none", "":
		return PriorityNone, true
	}
	return PriorityNone, false
}

// Next cycles urgent -> upcoming -> long-term -> none -> urgent.
func (p Priority) Next() Priority {
	switch p {
	case PriorityUrgent:
		return PriorityUpcoming
	case PriorityUpcoming:
		return PriorityLongTerm
	case PriorityLongTerm:
		return PriorityNone
	default:
		return PriorityUrgent
	}
}

// ChecklistItem is one entry of a task's checklist
type ChecklistItem struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// Task is a card on a board. Every optional field is a pointer or a nil slice
// so that "unset" and "empty" stay distinguishable through a save/load cycle.
type Task struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	ColumnID string `json:"columnId"`

	Note      *string         `json:"note,omitempty"`
	Checklist []ChecklistItem `json:"checklist,omitempty"`

	ScheduledDate      *string `json:"scheduledDate,omitempty"`      // YYYY-MM-DD
	ScheduledStartTime *string `json:"scheduledStartTime,omitempty"` // HH:MM
	ScheduledEndTime   *string `json:"scheduledEndTime,omitempty"`   // HH:MM
	ScheduledColor     *string `json:"scheduledColor,omitempty"`

	EstimatedTime *string  `json:"estimatedTime,omitempty"` // HH:MM
	ActualTime    *string  `json:"actualTime,omitempty"`    // HH:MM
	Priority      Priority `json:"priority,omitempty"`
}

// Schedule groups the calendar placement of a task
type Schedule struct {
	Date      string
	StartTime string
	EndTime   string
	Color     string
}

// Schedule returns the task's calendar placement, or nil if it has no date.
func (t *Task) Schedule() *Schedule {
	if t.ScheduledDate == nil {
		return nil
	}
	return &Schedule{
		Date:      *t.ScheduledDate,
		StartTime: deref(t.ScheduledStartTime),
		EndTime:   deref(t.ScheduledEndTime),
		Color:     deref(t.ScheduledColor),
	}
}

// ActualMinutes returns tracked time in minutes; unparsable values count as zero.
func (t *Task) ActualMinutes() int {
	m, _ := ParseClock(deref(t.ActualTime))
	return m
}

// EstimatedMinutes returns the estimate in minutes; unparsable values count as zero.
func (t *Task) EstimatedMinutes() int {
	m, _ := ParseClock(deref(t.EstimatedTime))
	return m
}

// ChecklistProgress returns (done, total).
func (t *Task) ChecklistProgress() (int, int) {
	done := 0
	for _, item := range t.Checklist {
		if item.Completed {
			done++
		}
	}
	return done, len(t.Checklist)
}

// StringPtr returns a pointer to s, or nil when s is empty.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
