package main

import (
	"testing"
	"time"

	"github.com/dori/focusboard/internal/model"
)

func TestParseQuickAdd(t *testing.T) {
	// Wednesday
	now := time.Date(2025, 3, 5, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		text string
		want quickAdd
	}{
		{
			name: "plain title",
			text: "Buy groceries",
			want: quickAdd{Title: "Buy groceries"},
		},
		{
			name: "priority",
			text: "Ship release !urgent",
			want: quickAdd{Title: "Ship release", Priority: model.PriorityUrgent},
		},
		{
			name: "long-term priority",
			text: "!long-term Learn piano",
			want: quickAdd{Title: "Learn piano", Priority: model.PriorityLongTerm},
		},
		{
			name: "unknown priority stays in title",
			text: "Say hi !loud",
			want: quickAdd{Title: "Say hi !loud"},
		},
		{
			name: "estimate is normalised",
			text: "Write report est:1:30",
			want: quickAdd{Title: "Write report", Estimate: "01:30"},
		},
		{
			name: "bad estimate stays in title",
			text: "Write report est:soon",
			want: quickAdd{Title: "Write report est:soon"},
		},
		{
			name: "natural date",
			text: "Dentist on:fri",
			want: quickAdd{Title: "Dentist", Date: "2025-03-07"},
		},
		{
			name: "date and time span",
			text: "Standup on:2025-03-10 at:09:00-09:15",
			want: quickAdd{Title: "Standup", Date: "2025-03-10", StartTime: "09:00", EndTime: "09:15"},
		},
		{
			name: "time without date means today",
			text: "Call mum at:18:00",
			want: quickAdd{Title: "Call mum", Date: "2025-03-05", StartTime: "18:00"},
		},
		{
			name: "everything",
			text: "Plan sprint !upcoming est:02:00 on:tomorrow at:14:00-16:00",
			want: quickAdd{
				Title:     "Plan sprint",
				Priority:  model.PriorityUpcoming,
				Estimate:  "02:00",
				Date:      "2025-03-06",
				StartTime: "14:00",
				EndTime:   "16:00",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseQuickAdd(tt.text, now)
			if got != tt.want {
				t.Errorf("parseQuickAdd(%q) = %+v, want %+v", tt.text, got, tt.want)
			}
		})
	}
}

func TestQuickAddSchedule(t *testing.T) {
	if (quickAdd{Title: "x"}).Schedule() != nil {
		t.Error("expected no schedule without a date")
	}
	s := quickAdd{Date: "2025-03-10", StartTime: "09:00"}.Schedule()
	if s == nil || s.String() != "2025-03-10 09:00" {
		t.Errorf("Schedule() = %v", s)
	}
}

func TestFormatTaskLine(t *testing.T) {
	task := model.Task{
		Title:         "Write report",
		Priority:      model.PriorityUrgent,
		EstimatedTime: model.StringPtr("02:00"),
		ScheduledDate: model.StringPtr("2030-01-15"),
		Checklist: []model.ChecklistItem{
			{ID: "a", Text: "outline", Completed: true},
			{ID: "b", Text: "draft"},
		},
	}
	want := "Write report  !urgent  [1/2]  00:00/02:00  @ 2030-01-15"
	if got := formatTaskLine(task); got != want {
		t.Errorf("formatTaskLine() = %q, want %q", got, want)
	}
}
