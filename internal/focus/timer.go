// Package focus implements the focus-session timer. Elapsed time is always
// recomputed from wall-clock timestamps, so late or skipped ticks never drift.
package focus

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dori/focusboard/internal/model"
	"github.com/dori/focusboard/internal/window"
	"github.com/rs/zerolog"
)

// State is the timer's mode
type State int

const (
	Stopped State = iota
	Running
	Paused
	OnBreak
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Paused:
		return "paused"
	case OnBreak:
		return "break"
	}
	return "stopped"
}

const (
	// BreakDuration is the length of one break countdown.
	BreakDuration = 5 * time.Minute
	// WarningDuration is how long a refused start stays visible.
	WarningDuration = 3 * time.Second
)

var (
	ErrNoActiveTasks = errors.New("no tasks in the active-work column")
	ErrNotRunning    = errors.New("focus session is not running")
)

// Board is the part of the board store the timer drives.
type Board interface {
	BoardID() string
	TopActiveTask() (model.Task, bool)
	ActiveTaskCount() int
	CreditMinutes(taskID string, n int) bool
	CompleteTask(taskID string) bool
}

// Recorder stores finished sessions.
type Recorder interface {
	RecordSession(s *model.FocusSession) error
}

// Options configures a Timer. Window and Recorder may be nil.
type Options struct {
	Window   window.Controller
	Recorder Recorder
	Logger   *zerolog.Logger
	Now      func() time.Time
}

// TickResult reports what a tick changed.
type TickResult struct {
	Credited   int
	BreakEnded bool
}

// Timer runs one focus session at a time against a board.
type Timer struct {
	board Board
	win   window.Controller
	rec   Recorder
	log   zerolog.Logger
	now   func() time.Time

	state      State
	start      time.Time
	pausedAt   time.Time
	pausedAcc  time.Duration
	breakStart time.Time
	breakAcc   time.Duration
	// watermark is the number of whole minutes already credited.
	watermark    int
	startTaskID  string
	warningUntil time.Time
}

// New returns a stopped timer for board
func New(board Board, opts Options) *Timer {
	t := &Timer{
		board: board,
		win:   opts.Window,
		rec:   opts.Recorder,
		now:   opts.Now,
	}
	if opts.Logger != nil {
		t.log = *opts.Logger
	} else {
		t.log = zerolog.Nop()
	}
	if t.now == nil {
		t.now = time.Now
	}
	return t
}

// SetBoard points the timer at another board. It is refused mid-session.
func (t *Timer) SetBoard(b Board) bool {
	if t.state != Stopped {
		return false
	}
	t.board = b
	return true
}

// State returns the current mode
func (t *Timer) State() State { return t.state }

// Active reports whether a session is in progress
func (t *Timer) Active() bool { return t.state != Stopped }

// WarningVisible reports whether the refused-start warning is still showing.
func (t *Timer) WarningVisible() bool {
	return !t.warningUntil.IsZero() && t.now().Before(t.warningUntil)
}

// Start begins a session. With an empty active-work column it raises the
// transient warning and returns ErrNoActiveTasks.
func (t *Timer) Start(ctx context.Context) error {
	if t.state != Stopped {
		return nil
	}
	if t.board.ActiveTaskCount() == 0 {
		t.warningUntil = t.now().Add(WarningDuration)
		return ErrNoActiveTasks
	}

	t.start = t.now()
	t.pausedAt = time.Time{}
	t.pausedAcc = 0
	t.breakStart = time.Time{}
	t.breakAcc = 0
	t.watermark = 0
	t.warningUntil = time.Time{}
	if task, ok := t.board.TopActiveTask(); ok {
		t.startTaskID = task.ID
	}
	t.state = Running

	t.log.Info().Str("board", t.board.BoardID()).Str("task", t.startTaskID).Msg("focus session started")
	t.setCompact(ctx, true)
	return nil
}

// Elapsed returns the worked time: wall-clock time since start minus
// paused and break time. It is frozen while paused or on break.
func (t *Timer) Elapsed() time.Duration {
	if t.state == Stopped {
		return 0
	}
	ref := t.now()
	switch t.state {
	case Paused:
		ref = t.pausedAt
	case OnBreak:
		ref = t.breakStart
	}
	d := ref.Sub(t.start) - t.pausedAcc - t.breakAcc
	if d < 0 {
		return 0
	}
	return d
}

// ElapsedSeconds is Elapsed in whole seconds
func (t *Timer) ElapsedSeconds() int {
	return int(t.Elapsed() / time.Second)
}

// PausedFor returns the accumulated pause time, including a pause in progress.
func (t *Timer) PausedFor() time.Duration {
	d := t.pausedAcc
	if t.state == Paused {
		d += t.now().Sub(t.pausedAt)
	}
	return d
}

// BreakFor returns the accumulated break time, including a break in progress.
func (t *Timer) BreakFor() time.Duration {
	d := t.breakAcc
	if t.state == OnBreak {
		d += t.breakTaken()
	}
	return d
}

// breakTaken is the time spent on the current break. A break never books
// more than BreakDuration; time past the countdown counts as worked.
func (t *Timer) breakTaken() time.Duration {
	d := t.now().Sub(t.breakStart)
	if d > BreakDuration {
		return BreakDuration
	}
	return d
}

// BreakRemaining returns the countdown left on the current break.
func (t *Timer) BreakRemaining() time.Duration {
	if t.state != OnBreak {
		return 0
	}
	left := BreakDuration - t.now().Sub(t.breakStart)
	if left < 0 {
		return 0
	}
	return left
}

// Tick advances the session. While running it credits each newly completed
// minute to the top active task; on break it ends the break once the
// countdown reaches zero.
func (t *Timer) Tick() TickResult {
	var res TickResult
	switch t.state {
	case Running:
		res.Credited = t.credit()
	case OnBreak:
		if t.BreakRemaining() == 0 {
			t.EndBreak()
			res.BreakEnded = true
			res.Credited = t.credit()
		}
	}
	return res
}

// credit attributes whole minutes past the watermark. Minutes that pass with
// an empty active-work column are not credited later.
func (t *Timer) credit() int {
	minutes := t.ElapsedSeconds() / 60
	if minutes <= t.watermark {
		return 0
	}
	n := minutes - t.watermark
	t.watermark = minutes

	task, ok := t.board.TopActiveTask()
	if !ok {
		t.log.Debug().Int("minutes", n).Msg("no active task to credit")
		return 0
	}
	t.board.CreditMinutes(task.ID, n)
	t.log.Debug().Str("task", task.ID).Int("minutes", n).Msg("credited focus time")
	return n
}

// Pause freezes the elapsed time
func (t *Timer) Pause() bool {
	if t.state != Running {
		return false
	}
	t.credit()
	t.pausedAt = t.now()
	t.state = Paused
	return true
}

// Resume continues a paused session from where it left off.
func (t *Timer) Resume() bool {
	if t.state != Paused {
		return false
	}
	t.pausedAcc += t.now().Sub(t.pausedAt)
	t.pausedAt = time.Time{}
	t.state = Running
	return true
}

// StartBreak suspends the session for BreakDuration. A pause in progress is
// closed first so pause and break time are kept apart.
func (t *Timer) StartBreak() bool {
	switch t.state {
	case Running:
		t.credit()
	case Paused:
		t.Resume()
	default:
		return false
	}
	t.breakStart = t.now()
	t.state = OnBreak
	return true
}

// EndBreak returns to running and books the break time, at most
// BreakDuration.
func (t *Timer) EndBreak() bool {
	if t.state != OnBreak {
		return false
	}
	t.breakAcc += t.breakTaken()
	t.breakStart = time.Time{}
	t.state = Running
	return true
}

// CurrentTask returns the task minutes are currently credited to.
func (t *Timer) CurrentTask() (model.Task, bool) {
	return t.board.TopActiveTask()
}

// CompleteActiveTask moves the top active task to the completed column.
// The session keeps running.
func (t *Timer) CompleteActiveTask() bool {
	if t.state == Stopped {
		return false
	}
	task, ok := t.board.TopActiveTask()
	if !ok {
		return false
	}
	if !t.board.CompleteTask(task.ID) {
		return false
	}
	t.log.Info().Str("task", task.ID).Msg("completed task during focus session")
	return true
}

// Stop ends the session. Whole minutes not yet credited are credited;
// a trailing partial minute is dropped. The finished session is returned and
// handed to the recorder.
func (t *Timer) Stop(ctx context.Context) (model.FocusSession, error) {
	if t.state == Stopped {
		return model.FocusSession{}, ErrNotRunning
	}

	end := t.now()
	switch t.state {
	case Paused:
		t.Resume()
	case OnBreak:
		t.EndBreak()
	}
	t.credit()

	sess := model.FocusSession{
		BoardID:         t.board.BoardID(),
		TaskID:          t.startTaskID,
		StartedAt:       t.start,
		EndedAt:         end,
		ActiveSeconds:   t.ElapsedSeconds(),
		PausedSeconds:   int(t.pausedAcc / time.Second),
		BreakSeconds:    int(t.breakAcc / time.Second),
		CreditedMinutes: t.watermark,
	}

	t.state = Stopped
	t.start = time.Time{}
	t.pausedAcc = 0
	t.breakAcc = 0
	t.watermark = 0
	t.startTaskID = ""

	if t.rec != nil {
		if err := t.rec.RecordSession(&sess); err != nil {
			t.log.Error().Err(err).Msg("record focus session")
		}
	}
	t.log.Info().Int("active_seconds", sess.ActiveSeconds).Int("minutes", sess.CreditedMinutes).Msg("focus session stopped")
	t.setCompact(ctx, false)
	return sess, nil
}

func (t *Timer) setCompact(ctx context.Context, enabled bool) {
	if err := window.SetCompactMode(ctx, t.win, enabled); err != nil {
		t.log.Warn().Err(err).Bool("compact", enabled).Msg("window compact mode")
	}
}

// FormatDuration renders d as MM:SS, or H:MM:SS past an hour.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(d / time.Second)
	h, m, s := secs/3600, secs/60%60, secs%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
