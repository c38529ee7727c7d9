package analytics

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/dori/focusboard/internal/model"
	"github.com/rs/zerolog"
)

func task(col, est, actual string) model.Task {
	return model.Task{
		ID:            col + est + actual,
		Title:         "t",
		ColumnID:      col,
		EstimatedTime: model.StringPtr(est),
		ActualTime:    model.StringPtr(actual),
	}
}

func snapshot(tasks ...model.Task) model.Snapshot {
	return model.Snapshot{Columns: model.DefaultColumns(), Tasks: tasks}
}

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestEfficiencyBands(t *testing.T) {
	tests := []struct {
		name   string
		snap   model.Snapshot
		want   float64
		rating Rating
	}{
		{
			name:   "needs work",
			snap:   snapshot(task("done", "01:00", "01:30"), task("doing", "01:00", "")),
			want:   75,
			rating: RatingNeedsWork,
		},
		{
			name:   "excellent",
			snap:   snapshot(task("done", "01:40", "01:35")),
			want:   95,
			rating: RatingExcellent,
		},
		{
			name:   "good",
			snap:   snapshot(task("done", "01:00", "01:15")),
			want:   125,
			rating: RatingGood,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Aggregate([]ProjectBoard{{Project: model.Project{ID: "p"}, Snapshot: tt.snap}})
			st := r.Projects[0]
			if !st.HasEfficiency {
				t.Fatal("efficiency not reported")
			}
			if !near(st.Efficiency, tt.want) {
				t.Errorf("efficiency = %v, want %v", st.Efficiency, tt.want)
			}
			if st.Rating != tt.rating {
				t.Errorf("rating = %q, want %q", st.Rating, tt.rating)
			}
		})
	}
}

func TestEfficiencyIgnoresIncompleteActual(t *testing.T) {
	snap := snapshot(
		task("done", "00:30", "00:30"),
		task("doing", "00:30", "05:00"),
	)
	st := Aggregate([]ProjectBoard{{Snapshot: snap}}).Projects[0]
	if !near(st.Efficiency, 50) {
		t.Errorf("efficiency = %v, want 50", st.Efficiency)
	}
	if st.ActualMinutes != 330 {
		t.Errorf("actual = %d, want 330", st.ActualMinutes)
	}
}

func TestEfficiencyOmittedWhenZero(t *testing.T) {
	boards := []ProjectBoard{
		{Project: model.Project{ID: "no-estimate"}, Snapshot: snapshot(task("done", "", "00:10"))},
		{Project: model.Project{ID: "nothing-done"}, Snapshot: snapshot(task("doing", "00:10", "00:10"))},
	}
	r := Aggregate(boards)
	for _, st := range r.Projects {
		if st.HasEfficiency || st.Rating != RatingNone {
			t.Errorf("%s: efficiency reported", st.Project.ID)
		}
	}
	if len(r.WithEfficiency()) != 0 {
		t.Error("WithEfficiency not empty")
	}
}

func TestShares(t *testing.T) {
	boards := []ProjectBoard{
		{Project: model.Project{ID: "a"}, Snapshot: snapshot(task("todo", "", "00:30"))},
		{Project: model.Project{ID: "b"}, Snapshot: snapshot(task("done", "", "01:30"))},
		{Project: model.Project{ID: "c"}, Snapshot: snapshot()},
	}
	r := Aggregate(boards)
	if r.TotalActualMinutes != 120 {
		t.Fatalf("total = %d", r.TotalActualMinutes)
	}
	if !near(r.Projects[0].Share, 25) || !near(r.Projects[1].Share, 75) {
		t.Errorf("shares = %v, %v", r.Projects[0].Share, r.Projects[1].Share)
	}
	byShare := r.ByShare()
	if len(byShare) != 2 || byShare[0].Project.ID != "b" {
		t.Errorf("ByShare = %+v", byShare)
	}
}

func TestCompletedFollowsRole(t *testing.T) {
	snap := model.Snapshot{
		Columns: []model.Column{
			{ID: "doing", Title: "Doing", Role: model.RoleActiveWork},
			{ID: "shipped", Title: "Shipped", Role: model.RoleCompleted},
			{ID: "done", Title: "Done"},
		},
		Tasks: []model.Task{task("shipped", "01:00", "01:00"), task("done", "01:00", "01:00")},
	}
	st := Aggregate([]ProjectBoard{{Snapshot: snap}}).Projects[0]
	if st.CompletedTasks != 1 || !near(st.Efficiency, 50) {
		t.Errorf("completed = %d, efficiency = %v", st.CompletedTasks, st.Efficiency)
	}
}

type memKV map[string]string

func (m memKV) Get(key string) (string, bool, error) {
	v, ok := m[key]
	return v, ok, nil
}

func (m memKV) Set(key, value string) error {
	m[key] = value
	return nil
}

func TestLoad(t *testing.T) {
	kv := memKV{}
	data, _ := json.Marshal(snapshot(task("done", "00:10", "00:10")))
	kv[model.BoardKey("a")] = string(data)
	kv[model.BoardKey("bad")] = "{"

	boards := Load(kv, []model.Project{{ID: "a"}, {ID: "missing"}}, zerolog.Nop())
	if len(boards) != 2 || len(boards[0].Snapshot.Tasks) != 1 || len(boards[1].Snapshot.Tasks) != 0 {
		t.Errorf("boards = %+v", boards)
	}
}

func TestLoadSkipsUnreadableBoard(t *testing.T) {
	kv := memKV{}
	data, _ := json.Marshal(snapshot(task("done", "00:10", "00:10")))
	kv[model.BoardKey("a")] = string(data)
	kv[model.BoardKey("b")] = "{not json"

	var buf bytes.Buffer
	boards := Load(kv, []model.Project{{ID: "a"}, {ID: "b"}}, zerolog.New(&buf))
	if len(boards) != 2 {
		t.Fatalf("boards = %d, want 2", len(boards))
	}
	if len(boards[0].Snapshot.Tasks) != 1 {
		t.Errorf("good board lost its tasks: %+v", boards[0].Snapshot)
	}
	if len(boards[1].Snapshot.Tasks) != 0 {
		t.Errorf("corrupt board = %+v, want empty", boards[1].Snapshot)
	}
	if !strings.Contains(buf.String(), `"board":"b"`) {
		t.Errorf("log = %q, want the bad board logged", buf.String())
	}

	r := Aggregate(boards)
	if len(r.Projects) != 2 || r.Projects[0].ActualMinutes != 10 {
		t.Errorf("report = %+v", r.Projects)
	}
}

func TestApplyFocusTotals(t *testing.T) {
	r := Aggregate([]ProjectBoard{{Project: model.Project{ID: "a"}}, {Project: model.Project{ID: "b"}}})
	r.ApplyFocusTotals(map[string]int{"a": 90})
	if r.Projects[0].FocusSeconds != 90 || r.Projects[1].FocusSeconds != 0 {
		t.Errorf("focus = %d, %d", r.Projects[0].FocusSeconds, r.Projects[1].FocusSeconds)
	}
}
