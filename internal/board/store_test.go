package board

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/dori/focusboard/internal/model"
)

type memKV struct {
	data    map[string]string
	sets    int
	failSet error
}

func newMemKV() *memKV {
	return &memKV{data: map[string]string{}}
}

func (m *memKV) Get(key string) (string, bool, error) {
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memKV) Set(key, value string) error {
	if m.failSet != nil {
		return m.failSet
	}
	m.sets++
	m.data[key] = value
	return nil
}

func (m *memKV) Delete(key string) error {
	delete(m.data, key)
	return nil
}

func seqIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id%d", n)
	}
}

func testStore(t *testing.T, kv *memKV) *Store {
	t.Helper()
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	return Open(kv, "main", Options{
		Now:   func() time.Time { return now },
		NewID: seqIDs(),
	})
}

func persisted(t *testing.T, kv *memKV, boardID string) model.Snapshot {
	t.Helper()
	raw, ok := kv.data[model.BoardKey(boardID)]
	if !ok {
		t.Fatalf("no snapshot persisted for %q", boardID)
	}
	var snap model.Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		t.Fatalf("decode persisted snapshot: %v", err)
	}
	return snap
}

func TestOpenDefaults(t *testing.T) {
	kv := newMemKV()
	s := testStore(t, kv)

	cols := s.Columns()
	want := []string{"for-later", "todo", "doing", "done"}
	if len(cols) != len(want) {
		t.Fatalf("got %d columns, want %d", len(cols), len(want))
	}
	for i, id := range want {
		if cols[i].ID != id {
			t.Errorf("column %d = %q, want %q", i, cols[i].ID, id)
		}
	}
	if kv.sets != 0 {
		t.Errorf("opening a fresh board wrote %d times, want 0", kv.sets)
	}
	if col, ok := s.ActiveWorkColumn(); !ok || col.ID != "doing" {
		t.Errorf("ActiveWorkColumn = %+v, %v", col, ok)
	}
}

func TestOpenLegacySnapshotInfersRoles(t *testing.T) {
	kv := newMemKV()
	kv.data[model.BoardKey("main")] = `{"tasks":[{"id":"t1","title":"x","columnId":"c2"}],"columns":[{"id":"c1","title":"Backlog"},{"id":"c2","title":"doing"},{"id":"c3","title":"Done"}],"lastUpdated":"2024-01-01T00:00:00Z"}`

	s := testStore(t, kv)
	col, ok := s.ActiveWorkColumn()
	if !ok || col.ID != "c2" {
		t.Fatalf("ActiveWorkColumn = %+v, %v; want c2", col, ok)
	}
	col, ok = s.CompletedColumn()
	if !ok || col.ID != "c3" {
		t.Fatalf("CompletedColumn = %+v, %v; want c3", col, ok)
	}
	if s.ActiveTaskCount() != 1 {
		t.Errorf("ActiveTaskCount = %d, want 1", s.ActiveTaskCount())
	}
}

func TestOpenCorruptSnapshotFallsBack(t *testing.T) {
	kv := newMemKV()
	kv.data[model.BoardKey("main")] = "{not json"
	s := testStore(t, kv)
	if len(s.Columns()) != 4 {
		t.Errorf("got %d columns, want default 4", len(s.Columns()))
	}
}

func TestAddTaskPersists(t *testing.T) {
	kv := newMemKV()
	s := testStore(t, kv)

	task, ok := s.AddTask("todo", "  Write report  ")
	if !ok {
		t.Fatal("AddTask returned false")
	}
	if task.Title != "Write report" {
		t.Errorf("title = %q, want trimmed", task.Title)
	}

	snap := persisted(t, kv, "main")
	if len(snap.Tasks) != 1 || snap.Tasks[0].ID != task.ID {
		t.Fatalf("persisted tasks = %+v", snap.Tasks)
	}
	if !snap.LastUpdated.Equal(time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)) {
		t.Errorf("lastUpdated = %v", snap.LastUpdated)
	}
}

func TestAddTaskRejects(t *testing.T) {
	kv := newMemKV()
	s := testStore(t, kv)

	if _, ok := s.AddTask("todo", "   "); ok {
		t.Error("blank title accepted")
	}
	if _, ok := s.AddTask("nope", "x"); ok {
		t.Error("unknown column accepted")
	}
	if kv.sets != 0 {
		t.Errorf("rejected adds wrote %d times", kv.sets)
	}
}

func TestActiveColumnPriorityOrder(t *testing.T) {
	s := testStore(t, newMemKV())

	a, _ := s.AddTask("doing", "a")
	b, _ := s.AddTask("doing", "b")
	c, _ := s.AddTask("doing", "c")
	d, _ := s.AddTask("doing", "d")
	s.SetTaskPriority(a.ID, model.PriorityLongTerm)
	s.SetTaskPriority(b.ID, model.PriorityUrgent)
	s.SetTaskPriority(d.ID, model.PriorityUrgent)

	var got []string
	for _, task := range s.TasksForColumn("doing") {
		got = append(got, task.Title)
	}
	want := "b d a c"
	if strings.Join(got, " ") != want {
		t.Errorf("order = %v, want %s", got, want)
	}

	top, ok := s.TopActiveTask()
	if !ok || top.ID != b.ID {
		t.Errorf("TopActiveTask = %q, want %q", top.Title, b.Title)
	}
	_ = c
}

func TestOtherColumnsKeepInsertionOrder(t *testing.T) {
	s := testStore(t, newMemKV())
	a, _ := s.AddTask("todo", "a")
	b, _ := s.AddTask("todo", "b")
	s.SetTaskPriority(b.ID, model.PriorityUrgent)

	tasks := s.TasksForColumn("todo")
	if tasks[0].ID != a.ID || tasks[1].ID != b.ID {
		t.Errorf("todo order = %s, %s; want insertion order", tasks[0].Title, tasks[1].Title)
	}
}

func TestDeleteActiveColumnIsNoop(t *testing.T) {
	kv := newMemKV()
	s := testStore(t, kv)
	s.AddTask("doing", "keep me")
	before := kv.sets

	if s.DeleteColumn("doing") {
		t.Fatal("DeleteColumn(doing) returned true")
	}
	if len(s.Columns()) != 4 || s.ActiveTaskCount() != 1 {
		t.Error("state changed after deleting active column")
	}
	if kv.sets != before {
		t.Error("no-op delete wrote a snapshot")
	}
}

func TestDeleteColumnCascades(t *testing.T) {
	kv := newMemKV()
	s := testStore(t, kv)
	s.AddTask("todo", "gone")
	keep, _ := s.AddTask("done", "kept")

	if !s.DeleteColumn("todo") {
		t.Fatal("DeleteColumn(todo) returned false")
	}
	snap := persisted(t, kv, "main")
	if len(snap.Tasks) != 1 || snap.Tasks[0].ID != keep.ID {
		t.Errorf("tasks after cascade = %+v", snap.Tasks)
	}
	if snap.Column("todo") != nil {
		t.Error("column still present")
	}
}

func TestSetColumnRoleUnique(t *testing.T) {
	s := testStore(t, newMemKV())
	col, _ := s.AddColumn("Shipped")

	if !s.SetColumnRole(col.ID, model.RoleCompleted) {
		t.Fatal("SetColumnRole returned false")
	}
	done, _ := s.Column("done")
	if done.Role != model.RoleNone {
		t.Errorf("old completed column kept role %q", done.Role)
	}
	if c, _ := s.CompletedColumn(); c.ID != col.ID {
		t.Errorf("CompletedColumn = %q, want %q", c.ID, col.ID)
	}

	if s.SetColumnRole("doing", model.RoleNone) {
		t.Error("cleared the active-work role without a replacement")
	}
	if !s.SetColumnRole(col.ID, model.RoleActiveWork) {
		t.Fatal("moving active work role failed")
	}
	if old, _ := s.Column("doing"); old.Role != model.RoleNone {
		t.Errorf("doing kept role %q", old.Role)
	}
	if !s.DeleteColumn("doing") {
		t.Error("former active column should be deletable")
	}
}

func TestRenameColumn(t *testing.T) {
	s := testStore(t, newMemKV())
	if !s.RenameColumn("todo", "Next") {
		t.Fatal("rename failed")
	}
	if c, _ := s.Column("todo"); c.Title != "Next" {
		t.Errorf("title = %q", c.Title)
	}
	if s.RenameColumn("todo", "  ") {
		t.Error("blank rename accepted")
	}
}

func TestApplyColumnOrder(t *testing.T) {
	kv := newMemKV()
	s := testStore(t, kv)
	cols := s.Columns()
	cols[0], cols[3] = cols[3], cols[0]

	if !s.ApplyColumnOrder(cols) {
		t.Fatal("ApplyColumnOrder returned false")
	}
	if got := persisted(t, kv, "main").Columns[0].ID; got != "done" {
		t.Errorf("first column = %q, want done", got)
	}

	if s.ApplyColumnOrder(cols[:2]) {
		t.Error("partial order accepted")
	}
	dup := []model.Column{cols[0], cols[0], cols[1], cols[2]}
	if s.ApplyColumnOrder(dup) {
		t.Error("duplicate order accepted")
	}
}

func TestShiftColumn(t *testing.T) {
	s := testStore(t, newMemKV())
	if !s.ShiftColumn("for-later", 2) {
		t.Fatal("ShiftColumn returned false")
	}
	var ids []string
	for _, c := range s.Columns() {
		ids = append(ids, c.ID)
	}
	if got := strings.Join(ids, ","); got != "todo,doing,for-later,done" {
		t.Errorf("order = %s", got)
	}
	if s.ShiftColumn("done", 1) {
		t.Error("shift past the end accepted")
	}
}

func TestMoveTask(t *testing.T) {
	kv := newMemKV()
	s := testStore(t, kv)
	task, _ := s.AddTask("todo", "x")

	if !s.MoveTask(task.ID, "doing") {
		t.Fatal("MoveTask returned false")
	}
	snap := persisted(t, kv, "main")
	if got := snap.Task(task.ID).ColumnID; got != "doing" {
		t.Errorf("column = %q", got)
	}
	if s.MoveTask(task.ID, "doing") {
		t.Error("same-column move reported a change")
	}
	if s.MoveTask(task.ID, "missing") {
		t.Error("move to missing column accepted")
	}
	if !s.CompleteTask(task.ID) {
		t.Fatal("CompleteTask returned false")
	}
	if got, _ := s.Task(task.ID); got.ColumnID != "done" {
		t.Errorf("completed task in %q", got.ColumnID)
	}
}

func TestEditAndDeleteTask(t *testing.T) {
	s := testStore(t, newMemKV())
	task, _ := s.AddTask("todo", "old")

	if s.EditTaskTitle(task.ID, "") {
		t.Error("blank edit accepted")
	}
	if !s.EditTaskTitle(task.ID, "new") {
		t.Fatal("edit failed")
	}
	if got, _ := s.Task(task.ID); got.Title != "new" {
		t.Errorf("title = %q", got.Title)
	}
	if !s.DeleteTask(task.ID) || s.DeleteTask(task.ID) {
		t.Error("delete should succeed once")
	}
}

func TestNoteAndChecklist(t *testing.T) {
	s := testStore(t, newMemKV())
	task, _ := s.AddTask("todo", "x")

	s.SetTaskNote(task.ID, "## heading\n")
	got, _ := s.Task(task.ID)
	if got.Note == nil || *got.Note != "## heading" {
		t.Errorf("note = %v", got.Note)
	}
	s.SetTaskNote(task.ID, "")
	if got, _ := s.Task(task.ID); got.Note != nil {
		t.Error("empty note not cleared")
	}

	item, ok := s.AddChecklistItem(task.ID, "step one")
	if !ok {
		t.Fatal("AddChecklistItem failed")
	}
	s.AddChecklistItem(task.ID, "step two")
	s.ToggleChecklistItem(task.ID, item.ID)
	got, _ = s.Task(task.ID)
	if done, total := got.ChecklistProgress(); done != 1 || total != 2 {
		t.Errorf("progress = %d/%d, want 1/2", done, total)
	}
	if !s.RemoveChecklistItem(task.ID, item.ID) {
		t.Fatal("RemoveChecklistItem failed")
	}

	s.SetTaskChecklist(task.ID, []model.ChecklistItem{{ID: "a", Text: "1"}, {ID: "a", Text: "2"}, {Text: "3"}})
	got, _ = s.Task(task.ID)
	seen := map[string]bool{}
	for _, c := range got.Checklist {
		if c.ID == "" || seen[c.ID] {
			t.Errorf("checklist id %q not unique", c.ID)
		}
		seen[c.ID] = true
	}
}

func TestSchedule(t *testing.T) {
	s := testStore(t, newMemKV())
	task, _ := s.AddTask("todo", "x")

	bad := []model.Schedule{
		{Date: "2025-13-01"},
		{Date: "2025-03-01", StartTime: "25:00"},
		{Date: "2025-03-01", StartTime: "10:00", EndTime: "09:00"},
	}
	for _, sched := range bad {
		if s.SetTaskSchedule(task.ID, &sched) {
			t.Errorf("accepted %+v", sched)
		}
	}

	ok := s.SetTaskSchedule(task.ID, &model.Schedule{Date: "2025-03-01", StartTime: "09:00", EndTime: "10:30", Color: "#88c0d0"})
	if !ok {
		t.Fatal("valid schedule rejected")
	}
	got, _ := s.Task(task.ID)
	if sched := got.Schedule(); sched == nil || sched.EndTime != "10:30" {
		t.Errorf("schedule = %+v", sched)
	}
	if !s.SetTaskSchedule(task.ID, nil) {
		t.Fatal("clear failed")
	}
	if got, _ := s.Task(task.ID); got.Schedule() != nil {
		t.Error("schedule not cleared")
	}
}

func TestEstimateAndCredit(t *testing.T) {
	s := testStore(t, newMemKV())
	task, _ := s.AddTask("doing", "x")

	if s.SetTaskEstimate(task.ID, "abc") {
		t.Error("invalid estimate accepted")
	}
	if !s.SetTaskEstimate(task.ID, "1:5") {
		t.Fatal("estimate rejected")
	}
	got, _ := s.Task(task.ID)
	if *got.EstimatedTime != "01:05" {
		t.Errorf("estimate = %q, want 01:05", *got.EstimatedTime)
	}

	s.CreditMinutes(task.ID, 59)
	s.CreditMinutes(task.ID, 2)
	got, _ = s.Task(task.ID)
	if *got.ActualTime != "01:01" {
		t.Errorf("actual = %q, want 01:01", *got.ActualTime)
	}
	if s.CreditMinutes(task.ID, 0) {
		t.Error("zero credit reported a change")
	}
}

func TestPriorityRejectsUnknown(t *testing.T) {
	s := testStore(t, newMemKV())
	task, _ := s.AddTask("doing", "x")
	if s.SetTaskPriority(task.ID, "whenever") {
		t.Error("unknown priority accepted")
	}
}

func TestSaveFailureKeepsMemoryState(t *testing.T) {
	kv := newMemKV()
	kv.failSet = errors.New("disk full")
	s := testStore(t, kv)

	task, ok := s.AddTask("todo", "x")
	if !ok {
		t.Fatal("AddTask returned false")
	}
	if _, found := s.Task(task.ID); !found {
		t.Error("task missing from memory after failed save")
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	s := testStore(t, newMemKV())
	task, _ := s.AddTask("todo", "x")
	s.AddChecklistItem(task.ID, "a")

	snap := s.Snapshot()
	snap.Tasks[0].Title = "mutated"
	snap.Tasks[0].Checklist[0].Text = "mutated"

	got, _ := s.Task(task.ID)
	if got.Title != "x" || got.Checklist[0].Text != "a" {
		t.Error("Snapshot shares memory with the store")
	}
}

func TestReopenRoundTrip(t *testing.T) {
	kv := newMemKV()
	s := testStore(t, kv)
	task, _ := s.AddTask("doing", "x")
	s.SetTaskEstimate(task.ID, "00:30")
	s.CreditMinutes(task.ID, 5)

	again := testStore(t, kv)
	got, ok := again.Task(task.ID)
	if !ok {
		t.Fatal("task missing after reopen")
	}
	if got.ActualMinutes() != 5 || got.EstimatedMinutes() != 30 {
		t.Errorf("reloaded times = %d/%d", got.ActualMinutes(), got.EstimatedMinutes())
	}
}
