package notify

import (
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestArgs(t *testing.T) {
	n := NewNotifier(true)
	args := n.Args(Notification{
		Title:   "Break Over",
		Body:    "back to work",
		Urgency: UrgencyCritical,
		Timeout: 2 * time.Second,
		Icon:    "alarm",
	})
	want := "-u critical -t 2000 -i alarm -a focusboard Break Over|back to work"
	got := strings.Join(args[:len(args)-1], " ") + "|" + args[len(args)-1]
	if got != want {
		t.Errorf("args = %q, want %q", got, want)
	}
}

func TestArgsWithoutBody(t *testing.T) {
	args := NewNotifier(true).Args(Notification{Title: "Hi"})
	if args[len(args)-1] != "Hi" || args[1] != "normal" {
		t.Errorf("args = %v", args)
	}
}

func TestDisabledDoesNotRun(t *testing.T) {
	n := NewNotifier(false)
	n.command = filepath.Join(t.TempDir(), "missing")
	if err := n.SendBreakComplete(); err != nil {
		t.Errorf("disabled notifier returned %v", err)
	}

	var nilNotifier *Notifier
	if err := nilNotifier.SendSessionSummary("x", 1); err != nil {
		t.Errorf("nil notifier returned %v", err)
	}
}

func TestEnabledRunsCommand(t *testing.T) {
	n := NewNotifier(true)
	n.command = filepath.Join(t.TempDir(), "missing")
	if err := n.SendNoActiveTasks("Doing"); err == nil {
		t.Error("expected error from missing command")
	}
}
