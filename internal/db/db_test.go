package db

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/dori/focusboard/internal/model"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestKVGetMissing(t *testing.T) {
	db := openTestDB(t)

	v, ok, err := db.Get("board-nope")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if ok || v != "" {
		t.Fatalf("Get on missing key = %q, %v; want empty, false", v, ok)
	}
}

func TestKVSetOverwrites(t *testing.T) {
	db := openTestDB(t)

	if err := db.Set("projects", `[]`); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := db.Set("projects", `[{"id":"1","title":"A"}]`); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	v, ok, err := db.Get("projects")
	if err != nil || !ok {
		t.Fatalf("Get failed: %v (ok=%v)", err, ok)
	}
	if v != `[{"id":"1","title":"A"}]` {
		t.Errorf("Get = %q, want latest value", v)
	}
}

func TestKVDelete(t *testing.T) {
	db := openTestDB(t)

	for _, k := range []string{"board-a", "board-b"} {
		if err := db.Set(k, "{}"); err != nil {
			t.Fatalf("Set %s failed: %v", k, err)
		}
	}

	if err := db.Delete("board-a"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := db.Delete("board-a"); err != nil {
		t.Fatalf("second Delete failed: %v", err)
	}
	if _, ok, _ := db.Get("board-a"); ok {
		t.Error("board-a still present after Delete")
	}
	if _, ok, _ := db.Get("board-b"); !ok {
		t.Error("board-b removed by Delete of board-a")
	}
}

// TestNestedQueriesNoDeadlock guards against issuing queries while a rows
// cursor still holds the single SQLite connection (SetMaxOpenConns(1)).
func TestNestedQueriesNoDeadlock(t *testing.T) {
	db := openTestDB(t)

	start := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	for _, id := range []string{"1", "2", "3"} {
		if err := db.Set(model.BoardKey(id), `{"tasks":[],"columns":[]}`); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
		s := &model.FocusSession{BoardID: id, StartedAt: start, EndedAt: start.Add(time.Minute)}
		if err := db.RecordSession(s); err != nil {
			t.Fatalf("RecordSession failed: %v", err)
		}
	}

	done := make(chan bool, 1)
	go func() {
		sessions, err := db.ListSessions(start, 10)
		if err != nil {
			t.Errorf("ListSessions failed: %v", err)
			done <- false
			return
		}
		for _, s := range sessions {
			if _, _, err := db.Get(model.BoardKey(s.BoardID)); err != nil {
				t.Errorf("Get failed: %v", err)
				done <- false
				return
			}
		}
		done <- true
	}()

	select {
	case success := <-done:
		if !success {
			t.Fatal("Test failed during execution")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Test timed out - possible deadlock detected")
	}
}

func TestRecordAndListSessions(t *testing.T) {
	db := openTestDB(t)

	base := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	first := model.FocusSession{
		BoardID: "p1", TaskID: "t1",
		StartedAt: base, EndedAt: base.Add(30 * time.Minute),
		ActiveSeconds: 1500, PausedSeconds: 300, CreditedMinutes: 25,
	}
	second := model.FocusSession{
		BoardID:   "p2",
		StartedAt: base.Add(time.Hour), EndedAt: base.Add(90 * time.Minute),
		ActiveSeconds: 1200, BreakSeconds: 300, CreditedMinutes: 20,
	}
	for _, s := range []*model.FocusSession{&first, &second} {
		if err := db.RecordSession(s); err != nil {
			t.Fatalf("RecordSession failed: %v", err)
		}
		if s.ID == "" {
			t.Fatal("RecordSession did not assign an id")
		}
	}

	sessions, err := db.ListSessions(base, 10)
	if err != nil {
		t.Fatalf("ListSessions failed: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("got %d sessions, want 2", len(sessions))
	}
	if sessions[0].BoardID != "p2" || sessions[0].TaskID != "" {
		t.Errorf("newest session = %+v", sessions[0])
	}
	if sessions[1].TaskID != "t1" || sessions[1].CreditedMinutes != 25 {
		t.Errorf("oldest session = %+v", sessions[1])
	}

	later, err := db.ListSessions(base.Add(time.Minute), 10)
	if err != nil {
		t.Fatalf("ListSessions failed: %v", err)
	}
	if len(later) != 1 {
		t.Errorf("got %d sessions after cutoff, want 1", len(later))
	}

	totals, err := db.TotalFocusSeconds(base)
	if err != nil {
		t.Fatalf("TotalFocusSeconds failed: %v", err)
	}
	if totals["p1"] != 1500 || totals["p2"] != 1200 {
		t.Errorf("totals = %v", totals)
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := db.Set("projects", "[]"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	db.Close()

	db, err = Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer db.Close()

	version, err := db.Migrate(context.Background())
	if err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}
	if version != 2 {
		t.Errorf("schema version = %d, want 2", version)
	}
	if db.Path() != path {
		t.Errorf("Path() = %q, want %q", db.Path(), path)
	}
	if _, ok, _ := db.Get("projects"); !ok {
		t.Error("data lost across reopen")
	}
}
