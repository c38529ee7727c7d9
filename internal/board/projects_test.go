package board

import (
	"errors"
	"testing"
	"time"

	"github.com/dori/focusboard/internal/model"
)

func TestProjectsCRUD(t *testing.T) {
	kv := newMemKV()
	p := OpenProjects(kv, Options{NewID: seqIDs()})

	if _, ok := p.Add(" ", ""); ok {
		t.Error("blank project accepted")
	}
	work, ok := p.Add("Work", "#bf616a")
	if !ok {
		t.Fatal("Add failed")
	}
	home, _ := p.Add("Home", "")

	if !p.Rename(home.ID, "House") {
		t.Error("Rename failed")
	}
	found, err := p.Find("house")
	if err != nil || found.ID != home.ID {
		t.Errorf("Find(house) = %+v, %v", found, err)
	}
	if _, err := p.Find("garden"); !errors.Is(err, ErrProjectNotFound) {
		t.Errorf("Find(garden) err = %v", err)
	}

	reopened := OpenProjects(kv, Options{})
	if got := reopened.List(); len(got) != 2 || got[0].ID != work.ID || got[1].Title != "House" {
		t.Errorf("reopened list = %+v", got)
	}
}

func TestProjectDeleteDropsBoard(t *testing.T) {
	kv := newMemKV()
	p := OpenProjects(kv, Options{NewID: seqIDs()})
	pr, _ := p.Add("Side", "")

	s := Open(kv, pr.ID, Options{})
	s.AddTask("todo", "x")
	if _, ok := kv.data[model.BoardKey(pr.ID)]; !ok {
		t.Fatal("board snapshot not written")
	}

	if !p.Delete(pr.ID) {
		t.Fatal("Delete failed")
	}
	if _, ok := kv.data[model.BoardKey(pr.ID)]; ok {
		t.Error("board snapshot left behind")
	}
	if len(p.List()) != 0 {
		t.Error("project still listed")
	}
}

func TestScheduledBetween(t *testing.T) {
	s := testStore(t, newMemKV())
	a, _ := s.AddTask("todo", "late")
	b, _ := s.AddTask("todo", "early")
	c, _ := s.AddTask("todo", "outside")
	s.AddTask("todo", "unscheduled")
	s.SetTaskSchedule(a.ID, &model.Schedule{Date: "2025-03-02", StartTime: "14:00"})
	s.SetTaskSchedule(b.ID, &model.Schedule{Date: "2025-03-02", StartTime: "08:00"})
	s.SetTaskSchedule(c.ID, &model.Schedule{Date: "2025-03-09"})

	from := time.Date(2025, 3, 1, 15, 0, 0, 0, time.UTC)
	items := ScheduledBetween("main", s.Snapshot(), from, from.AddDate(0, 0, 6))
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	if items[0].Task.ID != b.ID || items[1].Task.ID != a.ID {
		t.Errorf("order = %s, %s", items[0].Task.Title, items[1].Task.Title)
	}
}
