package app

import (
	"errors"
	"testing"
	"time"

	"github.com/dori/focusboard/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Data.Dir = t.TempDir()
	cfg.Notify.Enabled = false
	return cfg
}

func TestNewAndClose(t *testing.T) {
	a, err := New(testConfig(t), Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if a.Window != nil {
		t.Error("window controller set without commands")
	}
	if a.Calendar == nil || a.Calendar.IsConfigured() {
		t.Error("calendar service should exist but be unconfigured")
	}
	if err := a.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestExclusiveLock(t *testing.T) {
	cfg := testConfig(t)
	first, err := New(cfg, Options{Exclusive: true})
	if err != nil {
		t.Fatalf("first New: %v", err)
	}
	defer first.Close()

	if _, err := New(cfg, Options{Exclusive: true}); !errors.Is(err, ErrLocked) {
		t.Fatalf("second New err = %v, want ErrLocked", err)
	}

	reader, err := New(cfg, Options{})
	if err != nil {
		t.Fatalf("non-exclusive New: %v", err)
	}
	reader.Close()
}

func TestDefaultProjectAndBoard(t *testing.T) {
	a, err := New(testConfig(t), Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()

	p := a.DefaultProject()
	if p.Title != DefaultProjectTitle {
		t.Errorf("default project = %+v", p)
	}
	if again := a.DefaultProject(); again.ID != p.ID {
		t.Error("DefaultProject created a second project")
	}

	b := a.Board(p.ID)
	task, ok := b.AddTask("doing", "persist me")
	if !ok {
		t.Fatal("AddTask failed")
	}
	reopened := a.Board(p.ID)
	if _, ok := reopened.Task(task.ID); !ok {
		t.Error("task not persisted through the database")
	}

	if found, err := a.ResolveProject("personal"); err != nil || found.ID != p.ID {
		t.Errorf("ResolveProject = %+v, %v", found, err)
	}
}

func TestTimerRecordsSessions(t *testing.T) {
	cfg := testConfig(t)
	cfg.Window.CompactCommand = "true"
	a, err := New(cfg, Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()
	if a.Window == nil {
		t.Fatal("window controller not built from config")
	}

	p := a.DefaultProject()
	b := a.Board(p.ID)
	b.AddTask("doing", "x")
	timer := a.Timer(b)
	ctx := t.Context()
	if err := timer.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, err := timer.Stop(ctx); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	sessions, err := a.DB.ListSessions(time.Time{}, 10)
	if err != nil {
		t.Fatalf("ListSessions: %v", err)
	}
	if len(sessions) != 1 || sessions[0].BoardID != p.ID {
		t.Errorf("sessions = %+v", sessions)
	}
}
