package focus

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dori/focusboard/internal/board"
	"github.com/dori/focusboard/internal/model"
)

type memKV map[string]string

func (m memKV) Get(key string) (string, bool, error) {
	v, ok := m[key]
	return v, ok, nil
}

func (m memKV) Set(key, value string) error {
	m[key] = value
	return nil
}

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

type fakeWindow struct {
	calls []bool
}

func (w *fakeWindow) SetCompactMode(_ context.Context, enabled bool) error {
	w.calls = append(w.calls, enabled)
	return nil
}

type fakeRecorder struct {
	sessions []model.FocusSession
}

func (r *fakeRecorder) RecordSession(s *model.FocusSession) error {
	r.sessions = append(r.sessions, *s)
	return nil
}

type fixture struct {
	clock *fakeClock
	store *board.Store
	win   *fakeWindow
	rec   *fakeRecorder
	timer *Timer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clock := &fakeClock{t: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
	store := board.Open(memKV{}, "main", board.Options{Now: clock.Now})
	f := &fixture{clock: clock, store: store, win: &fakeWindow{}, rec: &fakeRecorder{}}
	f.timer = New(store, Options{Window: f.win, Recorder: f.rec, Now: clock.Now})
	return f
}

// run advances the clock one second at a time, ticking after each step.
func (f *fixture) run(seconds int) {
	for range seconds {
		f.clock.Advance(time.Second)
		f.timer.Tick()
	}
}

func (f *fixture) actual(t *testing.T, id string) string {
	t.Helper()
	task, ok := f.store.Task(id)
	if !ok {
		t.Fatalf("task %s missing", id)
	}
	if task.ActualTime == nil {
		return ""
	}
	return *task.ActualTime
}

func TestStartWithoutActiveTasksWarns(t *testing.T) {
	f := newFixture(t)
	f.store.AddTask("todo", "not active")

	err := f.timer.Start(context.Background())
	if !errors.Is(err, ErrNoActiveTasks) {
		t.Fatalf("Start err = %v, want ErrNoActiveTasks", err)
	}
	if f.timer.State() != Stopped {
		t.Errorf("state = %v, want stopped", f.timer.State())
	}
	if !f.timer.WarningVisible() {
		t.Error("warning not visible right after refused start")
	}
	if len(f.win.calls) != 0 {
		t.Error("window controller called on refused start")
	}

	f.clock.Advance(2999 * time.Millisecond)
	if !f.timer.WarningVisible() {
		t.Error("warning hidden before 3s")
	}
	f.clock.Advance(time.Millisecond)
	if f.timer.WarningVisible() {
		t.Error("warning still visible after 3s")
	}
	if f.timer.Elapsed() != 0 {
		t.Error("timer advanced without a session")
	}
}

func TestMinuteAttribution(t *testing.T) {
	f := newFixture(t)
	task, _ := f.store.AddTask("doing", "write")

	if err := f.timer.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	f.run(125)

	if got := f.actual(t, task.ID); got != "00:02" {
		t.Fatalf("actual after 125s = %q, want 00:02", got)
	}

	sess, err := f.timer.Stop(context.Background())
	if err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if got := f.actual(t, task.ID); got != "00:02" {
		t.Errorf("actual after stop = %q, want 00:02", got)
	}
	if sess.ActiveSeconds != 125 || sess.CreditedMinutes != 2 || sess.TaskID != task.ID {
		t.Errorf("session = %+v", sess)
	}
	if len(f.rec.sessions) != 1 {
		t.Errorf("recorded %d sessions, want 1", len(f.rec.sessions))
	}
	if want := []bool{true, false}; len(f.win.calls) != 2 || f.win.calls[0] != want[0] || f.win.calls[1] != want[1] {
		t.Errorf("window calls = %v, want %v", f.win.calls, want)
	}
}

func TestDelayedTickCreditsEachMinuteOnce(t *testing.T) {
	f := newFixture(t)
	task, _ := f.store.AddTask("doing", "write")
	f.timer.Start(context.Background())

	f.clock.Advance(3*time.Minute + 10*time.Second)
	if res := f.timer.Tick(); res.Credited != 3 {
		t.Errorf("credited %d, want 3", res.Credited)
	}
	if res := f.timer.Tick(); res.Credited != 0 {
		t.Errorf("second tick credited %d", res.Credited)
	}
	if got := f.actual(t, task.ID); got != "00:03" {
		t.Errorf("actual = %q, want 00:03", got)
	}
}

func TestCreditsTopTaskByPriority(t *testing.T) {
	f := newFixture(t)
	low, _ := f.store.AddTask("doing", "low")
	high, _ := f.store.AddTask("doing", "high")
	f.store.SetTaskPriority(high.ID, model.PriorityUrgent)

	f.timer.Start(context.Background())
	f.run(60)

	if got := f.actual(t, high.ID); got != "00:01" {
		t.Errorf("urgent task actual = %q", got)
	}
	if got := f.actual(t, low.ID); got != "" {
		t.Errorf("unset task actual = %q, want none", got)
	}
}

func TestPauseResume(t *testing.T) {
	f := newFixture(t)
	f.store.AddTask("doing", "x")
	f.timer.Start(context.Background())
	f.run(40)

	if !f.timer.Pause() {
		t.Fatal("Pause refused")
	}
	before := f.timer.ElapsedSeconds()
	f.run(30)
	if got := f.timer.ElapsedSeconds(); got != before {
		t.Errorf("elapsed moved while paused: %d -> %d", before, got)
	}
	if !f.timer.Resume() {
		t.Fatal("Resume refused")
	}
	if got := f.timer.ElapsedSeconds(); got != 40 {
		t.Errorf("elapsed after resume = %d, want 40", got)
	}
	f.run(5)
	if got := f.timer.ElapsedSeconds(); got != 45 {
		t.Errorf("elapsed = %d, want 45", got)
	}
	if f.timer.PausedFor() != 30*time.Second {
		t.Errorf("paused for %v", f.timer.PausedFor())
	}
}

func TestBreakAutoEnds(t *testing.T) {
	f := newFixture(t)
	f.store.AddTask("doing", "x")
	f.timer.Start(context.Background())
	f.run(10)

	if !f.timer.StartBreak() {
		t.Fatal("StartBreak refused")
	}
	f.clock.Advance(2 * time.Minute)
	if got := f.timer.BreakRemaining(); got != 3*time.Minute {
		t.Errorf("remaining = %v, want 3m", got)
	}

	var ended bool
	for range 180 {
		f.clock.Advance(time.Second)
		if f.timer.Tick().BreakEnded {
			ended = true
		}
	}
	if !ended || f.timer.State() != Running {
		t.Fatalf("break did not auto-end; state = %v", f.timer.State())
	}
	if got := f.timer.ElapsedSeconds(); got != 10 {
		t.Errorf("elapsed after break = %d, want 10", got)
	}
	if f.timer.BreakFor() != BreakDuration {
		t.Errorf("break time = %v, want %v", f.timer.BreakFor(), BreakDuration)
	}
}

func TestLateTickEndsBreakAtCountdown(t *testing.T) {
	f := newFixture(t)
	task, _ := f.store.AddTask("doing", "x")
	f.timer.Start(context.Background())
	f.run(60)
	f.timer.StartBreak()

	// one tick arrives ten minutes later, five past the countdown
	f.clock.Advance(10 * time.Minute)
	res := f.timer.Tick()
	if !res.BreakEnded {
		t.Fatal("break should have ended")
	}
	if got := f.timer.BreakFor(); got != BreakDuration {
		t.Errorf("break time = %v, want %v", got, BreakDuration)
	}
	if got := f.timer.ElapsedSeconds(); got != 360 {
		t.Errorf("elapsed = %d, want 360", got)
	}
	if res.Credited != 5 {
		t.Errorf("credited = %d, want 5", res.Credited)
	}
	if got := f.actual(t, task.ID); got != "00:06" {
		t.Errorf("actual = %q, want 00:06", got)
	}
}

func TestStopAfterBreakOverrun(t *testing.T) {
	f := newFixture(t)
	task, _ := f.store.AddTask("doing", "x")
	f.timer.Start(context.Background())
	f.run(60)
	f.timer.StartBreak()
	f.clock.Advance(7 * time.Minute)

	sess, err := f.timer.Stop(context.Background())
	if err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if sess.BreakSeconds != 300 || sess.ActiveSeconds != 180 {
		t.Errorf("session = active %d, break %d; want 180/300", sess.ActiveSeconds, sess.BreakSeconds)
	}
	if got := f.actual(t, task.ID); got != "00:03" {
		t.Errorf("actual = %q, want 00:03", got)
	}
}

func TestPauseAndBreakAccumulateSeparately(t *testing.T) {
	f := newFixture(t)
	f.store.AddTask("doing", "x")
	f.timer.Start(context.Background())
	f.run(20)
	f.timer.Pause()
	f.run(30)
	f.timer.StartBreak()
	f.run(60)
	f.timer.EndBreak()
	f.run(5)

	sess, _ := f.timer.Stop(context.Background())
	if sess.ActiveSeconds != 25 || sess.PausedSeconds != 30 || sess.BreakSeconds != 60 {
		t.Errorf("session = active %d, paused %d, break %d; want 25/30/60",
			sess.ActiveSeconds, sess.PausedSeconds, sess.BreakSeconds)
	}
	if got := sess.WallDuration(); got != 115*time.Second {
		t.Errorf("wall duration = %v", got)
	}
}

func TestStopFromBreak(t *testing.T) {
	f := newFixture(t)
	task, _ := f.store.AddTask("doing", "x")
	f.timer.Start(context.Background())
	f.run(61)
	f.timer.StartBreak()
	f.run(100)

	if _, err := f.timer.Stop(context.Background()); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if got := f.actual(t, task.ID); got != "00:01" {
		t.Errorf("actual = %q, want 00:01", got)
	}
	if _, err := f.timer.Stop(context.Background()); !errors.Is(err, ErrNotRunning) {
		t.Errorf("second Stop err = %v", err)
	}
}

func TestCompleteActiveTaskKeepsRunning(t *testing.T) {
	f := newFixture(t)
	first, _ := f.store.AddTask("doing", "first")
	second, _ := f.store.AddTask("doing", "second")
	f.timer.Start(context.Background())
	f.run(60)

	if !f.timer.CompleteActiveTask() {
		t.Fatal("CompleteActiveTask failed")
	}
	if f.timer.State() != Running {
		t.Errorf("state = %v, want running", f.timer.State())
	}
	if got, _ := f.store.Task(first.ID); got.ColumnID != "done" {
		t.Errorf("first task in %q", got.ColumnID)
	}
	f.run(60)
	if got := f.actual(t, second.ID); got != "00:01" {
		t.Errorf("second task actual = %q, want 00:01", got)
	}
}

func TestSetBoardRefusedMidSession(t *testing.T) {
	f := newFixture(t)
	f.store.AddTask("doing", "x")
	f.timer.Start(context.Background())
	other := board.Open(memKV{}, "other", board.Options{})
	if f.timer.SetBoard(other) {
		t.Error("board swapped during a session")
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00"},
		{59 * time.Second, "00:59"},
		{125 * time.Second, "02:05"},
		{time.Hour + 2*time.Minute + 3*time.Second, "1:02:03"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.d); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
