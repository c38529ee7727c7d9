package model

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"
)

func TestClockArithmetic(t *testing.T) {
	tests := []struct {
		in   string
		add  int
		want string
	}{
		{"", 1, "00:01"},
		{"00:59", 1, "01:00"},
		{"09:05", 1, "09:06"},
		{"23:59", 1, "24:00"},
		{"99:59", 1, "100:00"},
		{"garbage", 2, "00:02"},
	}
	for _, tt := range tests {
		if got := AddClock(tt.in, tt.add); got != tt.want {
			t.Errorf("AddClock(%q, %d) = %q, want %q", tt.in, tt.add, got, tt.want)
		}
	}
}

func TestParseClockRejectsBadInput(t *testing.T) {
	for _, in := range []string{"1", "aa:10", "01:60", "-1:00", "01:-5", "+1:+5", "+01:05", "01:+5", "01:005", "1:", ":30", "01:05:00"} {
		if _, err := ParseClock(in); err == nil {
			t.Errorf("ParseClock(%q) succeeded, want error", in)
		}
	}
	if m, err := ParseClock("02:30"); err != nil || m != 150 {
		t.Errorf("ParseClock(02:30) = %d, %v; want 150", m, err)
	}
	if m, err := ParseClock("1:30"); err != nil || m != 90 {
		t.Errorf("ParseClock(1:30) = %d, %v; want 90", m, err)
	}
}

func TestValidTimeOfDay(t *testing.T) {
	if !ValidTimeOfDay("09:30") || !ValidTimeOfDay("23:59") {
		t.Error("expected valid times of day")
	}
	if ValidTimeOfDay("24:00") || ValidTimeOfDay("9:30") || ValidTimeOfDay("") {
		t.Error("expected invalid times of day")
	}
}

func TestPriorityRank(t *testing.T) {
	order := []Priority{PriorityUrgent, PriorityUpcoming, PriorityLongTerm, PriorityNone}
	for i, p := range order {
		if p.Rank() != i {
			t.Errorf("%q.Rank() = %d, want %d", p, p.Rank(), i)
		}
	}
	if Priority("bogus").Rank() != 3 {
		t.Error("unknown priority should rank as unset")
	}
}

func TestNormalizeRolesInfersLegacyColumns(t *testing.T) {
	s := Snapshot{Columns: []Column{
		{ID: "a", Title: "Backlog"},
		{ID: "x1", Title: "DOING"},
		{ID: "x2", Title: " doing "},
		{ID: "done", Title: "Finished"},
	}}
	s.NormalizeRoles()

	if s.Columns[1].Role != RoleActiveWork {
		t.Errorf("first 'doing' title should be active work, got %q", s.Columns[1].Role)
	}
	if s.Columns[2].Role != RoleNone {
		t.Errorf("second 'doing' column should stay unroled, got %q", s.Columns[2].Role)
	}
	if s.Columns[3].Role != RoleCompleted {
		t.Errorf("id done should be completed, got %q", s.Columns[3].Role)
	}
}

func TestNormalizeRolesDropsDuplicates(t *testing.T) {
	s := Snapshot{Columns: []Column{
		{ID: "a", Title: "A", Role: RoleActiveWork},
		{ID: "b", Title: "B", Role: RoleActiveWork},
		{ID: "doing", Title: "Doing"},
	}}
	s.NormalizeRoles()
	if s.Columns[0].Role != RoleActiveWork || s.Columns[1].Role != RoleNone || s.Columns[2].Role != RoleNone {
		t.Fatalf("roles = %q %q %q", s.Columns[0].Role, s.Columns[1].Role, s.Columns[2].Role)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	note := "remember the **milk**"
	in := Snapshot{
		Columns: DefaultColumns(),
		Tasks: []Task{
			{
				ID: "t1", Title: "Write report", ColumnID: "doing",
				Note:               &note,
				Checklist:          []ChecklistItem{{ID: "c1", Text: "outline", Completed: true}, {ID: "c2", Text: "draft"}},
				ScheduledDate:      StringPtr("2026-10-20"),
				ScheduledStartTime: StringPtr("09:00"),
				ScheduledEndTime:   StringPtr("10:30"),
				ScheduledColor:     StringPtr("#ff0000"),
				EstimatedTime:      StringPtr("01:30"),
				ActualTime:         StringPtr("00:45"),
				Priority:           PriorityUrgent,
			},
			{ID: "t2", Title: "Bare", ColumnID: "todo"},
		},
		LastUpdated: time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC),
	}

	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out Snapshot
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(in.Columns, out.Columns) {
		t.Errorf("columns differ:\n in=%+v\nout=%+v", in.Columns, out.Columns)
	}
	if !reflect.DeepEqual(in.Tasks, out.Tasks) {
		t.Errorf("tasks differ:\n in=%+v\nout=%+v", in.Tasks, out.Tasks)
	}
}

func TestSnapshotDecodeIgnoresFieldOrder(t *testing.T) {
	raw := `{"lastUpdated":"2026-10-19T12:00:00Z","columns":[{"title":"Doing","id":"doing"}],
		"tasks":[{"priority":"upcoming","columnId":"doing","title":"T","id":"1","actualTime":"00:03"}]}`
	var s Snapshot
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if s.Tasks[0].Priority != PriorityUpcoming || s.Tasks[0].ActualMinutes() != 3 {
		t.Errorf("unexpected task %+v", s.Tasks[0])
	}
}
