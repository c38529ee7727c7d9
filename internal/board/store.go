// Package board holds the in-memory state of one kanban board and writes a
// full snapshot to the key-value adapter after every mutation.
//
// A Store is owned by a single event loop and is not safe for concurrent use.
package board

import (
	"encoding/json"
	"slices"
	"strings"
	"time"

	"github.com/dori/focusboard/internal/model"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// KV is the persistence adapter: an opaque string store keyed by name.
type KV interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
}

// Options configures a Store or Projects list. Zero values pick defaults.
type Options struct {
	Logger *zerolog.Logger
	Now    func() time.Time
	NewID  func() string
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		nop := zerolog.Nop()
		o.Logger = &nop
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.NewID == nil {
		o.NewID = func() string { return uuid.New().String() }
	}
	return o
}

// Store is the canonical in-memory representation of one board
type Store struct {
	boardID string
	kv      KV
	opts    Options
	snap    model.Snapshot
}

// Open loads the board snapshot for boardID. A missing or unreadable snapshot
// yields the default column layout; read errors are logged, not returned.
func Open(kv KV, boardID string, opts Options) *Store {
	s := &Store{
		boardID: boardID,
		kv:      kv,
		opts:    opts.withDefaults(),
	}

	snap, ok, err := LoadSnapshot(kv, boardID)
	if err != nil {
		s.opts.Logger.Error().Err(err).Str("board", boardID).Msg("load board snapshot")
	}
	if !ok || err != nil {
		snap = model.Snapshot{Columns: model.DefaultColumns()}
	}
	snap.NormalizeRoles()
	s.snap = snap
	return s
}

// LoadSnapshot reads and decodes the snapshot stored for boardID.
func LoadSnapshot(kv KV, boardID string) (model.Snapshot, bool, error) {
	raw, ok, err := kv.Get(model.BoardKey(boardID))
	if err != nil || !ok {
		return model.Snapshot{}, false, err
	}
	var snap model.Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return model.Snapshot{}, false, err
	}
	snap.NormalizeRoles()
	return snap, true, nil
}

// BoardID returns the identifier the store persists under
func (s *Store) BoardID() string {
	return s.boardID
}

// Snapshot returns a deep copy of the current state
func (s *Store) Snapshot() model.Snapshot {
	out := model.Snapshot{
		Columns:     slices.Clone(s.snap.Columns),
		Tasks:       make([]model.Task, len(s.snap.Tasks)),
		LastUpdated: s.snap.LastUpdated,
	}
	for i, t := range s.snap.Tasks {
		out.Tasks[i] = cloneTask(t)
	}
	return out
}

// Columns returns the columns in display order
func (s *Store) Columns() []model.Column {
	return slices.Clone(s.snap.Columns)
}

// Tasks returns every task in insertion order
func (s *Store) Tasks() []model.Task {
	out := make([]model.Task, len(s.snap.Tasks))
	for i, t := range s.snap.Tasks {
		out[i] = cloneTask(t)
	}
	return out
}

// Task returns a copy of the task with the given id
func (s *Store) Task(id string) (model.Task, bool) {
	t := s.snap.Task(id)
	if t == nil {
		return model.Task{}, false
	}
	return cloneTask(*t), true
}

// Column returns a copy of the column with the given id
func (s *Store) Column(id string) (model.Column, bool) {
	c := s.snap.Column(id)
	if c == nil {
		return model.Column{}, false
	}
	return *c, true
}

// ActiveWorkColumn returns the column tagged as active work, if any
func (s *Store) ActiveWorkColumn() (model.Column, bool) {
	c := s.snap.ColumnByRole(model.RoleActiveWork)
	if c == nil {
		return model.Column{}, false
	}
	return *c, true
}

// CompletedColumn returns the column tagged as completed, if any
func (s *Store) CompletedColumn() (model.Column, bool) {
	c := s.snap.ColumnByRole(model.RoleCompleted)
	if c == nil {
		return model.Column{}, false
	}
	return *c, true
}

// TasksForColumn returns the tasks of one column. The active-work column is
// ordered by priority rank (stable on ties); other columns keep insertion order.
func (s *Store) TasksForColumn(columnID string) []model.Task {
	var out []model.Task
	for _, t := range s.snap.Tasks {
		if t.ColumnID == columnID {
			out = append(out, cloneTask(t))
		}
	}
	if c := s.snap.Column(columnID); c != nil && c.IsActiveWork() {
		slices.SortStableFunc(out, func(a, b model.Task) int {
			return a.Priority.Rank() - b.Priority.Rank()
		})
	}
	return out
}

// TopActiveTask returns the first task of the active-work column by priority rank.
func (s *Store) TopActiveTask() (model.Task, bool) {
	col, ok := s.ActiveWorkColumn()
	if !ok {
		return model.Task{}, false
	}
	tasks := s.TasksForColumn(col.ID)
	if len(tasks) == 0 {
		return model.Task{}, false
	}
	return tasks[0], true
}

// ActiveTaskCount returns the number of tasks in the active-work column
func (s *Store) ActiveTaskCount() int {
	col, ok := s.ActiveWorkColumn()
	if !ok {
		return 0
	}
	n := 0
	for _, t := range s.snap.Tasks {
		if t.ColumnID == col.ID {
			n++
		}
	}
	return n
}

// AddColumn appends a column with a fresh id. Blank titles are ignored.
func (s *Store) AddColumn(title string) (model.Column, bool) {
	title = strings.TrimSpace(title)
	if title == "" {
		return model.Column{}, false
	}
	col := model.Column{ID: s.freshColumnID(), Title: title}
	s.snap.Columns = append(s.snap.Columns, col)
	s.save()
	return col, true
}

// RenameColumn retitles a column. Blank titles are ignored.
func (s *Store) RenameColumn(columnID, title string) bool {
	title = strings.TrimSpace(title)
	c := s.snap.Column(columnID)
	if c == nil || title == "" || c.Title == title {
		return false
	}
	c.Title = title
	s.save()
	return true
}

// DeleteColumn removes a column and all of its tasks. The active-work column
// cannot be deleted.
func (s *Store) DeleteColumn(columnID string) bool {
	idx := slices.IndexFunc(s.snap.Columns, func(c model.Column) bool { return c.ID == columnID })
	if idx < 0 || s.snap.Columns[idx].IsActiveWork() {
		return false
	}
	s.snap.Columns = slices.Delete(s.snap.Columns, idx, idx+1)
	s.snap.Tasks = slices.DeleteFunc(s.snap.Tasks, func(t model.Task) bool {
		return t.ColumnID == columnID
	})
	s.save()
	return true
}

// SetColumnRole tags a column with role, clearing that role from any other
// column so each role is held at most once.
func (s *Store) SetColumnRole(columnID string, role model.ColumnRole) bool {
	c := s.snap.Column(columnID)
	if c == nil || c.Role == role {
		return false
	}
	if c.Role == model.RoleActiveWork && role != model.RoleActiveWork {
		// Moving the active-work tag off a column must go through another column.
		return false
	}
	if role != model.RoleNone {
		for i := range s.snap.Columns {
			if s.snap.Columns[i].Role == role {
				s.snap.Columns[i].Role = model.RoleNone
			}
		}
	}
	c.Role = role
	s.save()
	return true
}

// ApplyColumnOrder replaces the column order. The new order must be a
// permutation of the current columns.
func (s *Store) ApplyColumnOrder(columns []model.Column) bool {
	if len(columns) != len(s.snap.Columns) {
		return false
	}
	seen := make(map[string]bool, len(columns))
	changed := false
	for i, c := range columns {
		if s.snap.Column(c.ID) == nil || seen[c.ID] {
			return false
		}
		seen[c.ID] = true
		if s.snap.Columns[i].ID != c.ID {
			changed = true
		}
	}
	if !changed {
		return false
	}
	reordered := make([]model.Column, len(columns))
	for i, c := range columns {
		reordered[i] = *s.snap.Column(c.ID)
	}
	s.snap.Columns = reordered
	s.save()
	return true
}

// ShiftColumn moves a column delta slots left (negative) or right (positive).
func (s *Store) ShiftColumn(columnID string, delta int) bool {
	idx := slices.IndexFunc(s.snap.Columns, func(c model.Column) bool { return c.ID == columnID })
	target := idx + delta
	if idx < 0 || delta == 0 || target < 0 || target >= len(s.snap.Columns) {
		return false
	}
	cols := slices.Clone(s.snap.Columns)
	col := cols[idx]
	cols = slices.Delete(cols, idx, idx+1)
	cols = slices.Insert(cols, target, col)
	return s.ApplyColumnOrder(cols)
}

// AddTask appends a task to a column. Blank titles and unknown columns are ignored.
func (s *Store) AddTask(columnID, title string) (model.Task, bool) {
	title = strings.TrimSpace(title)
	if title == "" || s.snap.Column(columnID) == nil {
		return model.Task{}, false
	}
	t := model.Task{ID: s.freshTaskID(), Title: title, ColumnID: columnID}
	s.snap.Tasks = append(s.snap.Tasks, t)
	s.save()
	return t, true
}

// EditTaskTitle retitles a task. A blank title keeps the existing one.
func (s *Store) EditTaskTitle(taskID, title string) bool {
	title = strings.TrimSpace(title)
	return s.mutateTask(taskID, func(t *model.Task) bool {
		if title == "" || t.Title == title {
			return false
		}
		t.Title = title
		return true
	})
}

// MoveTask reassigns a task to another column. Order inside the destination
// follows the column's rule (priority rank for active work, insertion order
// elsewhere), so no target index is taken.
func (s *Store) MoveTask(taskID, columnID string) bool {
	if s.snap.Column(columnID) == nil {
		return false
	}
	return s.mutateTask(taskID, func(t *model.Task) bool {
		if t.ColumnID == columnID {
			return false
		}
		t.ColumnID = columnID
		return true
	})
}

// CompleteTask moves a task into the completed column.
func (s *Store) CompleteTask(taskID string) bool {
	col, ok := s.CompletedColumn()
	if !ok {
		return false
	}
	return s.MoveTask(taskID, col.ID)
}

// DeleteTask removes a task
func (s *Store) DeleteTask(taskID string) bool {
	before := len(s.snap.Tasks)
	s.snap.Tasks = slices.DeleteFunc(s.snap.Tasks, func(t model.Task) bool { return t.ID == taskID })
	if len(s.snap.Tasks) == before {
		return false
	}
	s.save()
	return true
}

// SetTaskNote sets or (with an empty note) clears a task's note
func (s *Store) SetTaskNote(taskID, note string) bool {
	return s.mutateTask(taskID, func(t *model.Task) bool {
		next := model.StringPtr(strings.TrimRight(note, " \t\n"))
		if equalPtr(t.Note, next) {
			return false
		}
		t.Note = next
		return true
	})
}

// SetTaskChecklist replaces a task's checklist. Items with empty or repeated
// ids are given fresh ones so ids stay unique within the checklist.
func (s *Store) SetTaskChecklist(taskID string, items []model.ChecklistItem) bool {
	return s.mutateTask(taskID, func(t *model.Task) bool {
		if len(items) == 0 {
			if t.Checklist == nil {
				return false
			}
			t.Checklist = nil
			return true
		}
		seen := make(map[string]bool, len(items))
		list := make([]model.ChecklistItem, len(items))
		for i, item := range items {
			if item.ID == "" || seen[item.ID] {
				item.ID = s.opts.NewID()
			}
			seen[item.ID] = true
			list[i] = item
		}
		t.Checklist = list
		return true
	})
}

// AddChecklistItem appends an item to a task's checklist. Blank text is ignored.
func (s *Store) AddChecklistItem(taskID, text string) (model.ChecklistItem, bool) {
	text = strings.TrimSpace(text)
	var added model.ChecklistItem
	ok := s.mutateTask(taskID, func(t *model.Task) bool {
		if text == "" {
			return false
		}
		added = model.ChecklistItem{ID: s.freshChecklistID(t), Text: text}
		t.Checklist = append(t.Checklist, added)
		return true
	})
	return added, ok
}

// ToggleChecklistItem flips the completed flag of one checklist item
func (s *Store) ToggleChecklistItem(taskID, itemID string) bool {
	return s.mutateTask(taskID, func(t *model.Task) bool {
		for i := range t.Checklist {
			if t.Checklist[i].ID == itemID {
				t.Checklist[i].Completed = !t.Checklist[i].Completed
				return true
			}
		}
		return false
	})
}

// RemoveChecklistItem deletes one checklist item
func (s *Store) RemoveChecklistItem(taskID, itemID string) bool {
	return s.mutateTask(taskID, func(t *model.Task) bool {
		before := len(t.Checklist)
		t.Checklist = slices.DeleteFunc(t.Checklist, func(c model.ChecklistItem) bool { return c.ID == itemID })
		if len(t.Checklist) == 0 {
			t.Checklist = nil
		}
		return len(t.Checklist) != before
	})
}

// SetTaskSchedule places a task on the calendar; nil clears the placement.
// Dates are YYYY-MM-DD and times HH:MM; invalid values are rejected.
func (s *Store) SetTaskSchedule(taskID string, sched *model.Schedule) bool {
	if sched != nil && !validSchedule(*sched) {
		return false
	}
	return s.mutateTask(taskID, func(t *model.Task) bool {
		if sched == nil {
			if t.ScheduledDate == nil && t.ScheduledStartTime == nil && t.ScheduledEndTime == nil && t.ScheduledColor == nil {
				return false
			}
			t.ScheduledDate, t.ScheduledStartTime, t.ScheduledEndTime, t.ScheduledColor = nil, nil, nil, nil
			return true
		}
		t.ScheduledDate = model.StringPtr(sched.Date)
		t.ScheduledStartTime = model.StringPtr(sched.StartTime)
		t.ScheduledEndTime = model.StringPtr(sched.EndTime)
		t.ScheduledColor = model.StringPtr(sched.Color)
		return true
	})
}

// SetTaskPriority sets a task's priority; unknown priorities are rejected.
func (s *Store) SetTaskPriority(taskID string, p model.Priority) bool {
	if !p.Valid() {
		return false
	}
	return s.mutateTask(taskID, func(t *model.Task) bool {
		if t.Priority == p {
			return false
		}
		t.Priority = p
		return true
	})
}

// SetTaskEstimate sets the estimated time as "HH:MM"; empty clears it.
func (s *Store) SetTaskEstimate(taskID, estimate string) bool {
	estimate = strings.TrimSpace(estimate)
	if estimate != "" {
		m, err := model.ParseClock(estimate)
		if err != nil {
			return false
		}
		estimate = model.FormatClock(m)
	}
	return s.mutateTask(taskID, func(t *model.Task) bool {
		next := model.StringPtr(estimate)
		if equalPtr(t.EstimatedTime, next) {
			return false
		}
		t.EstimatedTime = next
		return true
	})
}

// CreditMinutes adds n minutes to a task's actual time.
func (s *Store) CreditMinutes(taskID string, n int) bool {
	if n <= 0 {
		return false
	}
	return s.mutateTask(taskID, func(t *model.Task) bool {
		v := model.AddClock(derefString(t.ActualTime), n)
		t.ActualTime = &v
		return true
	})
}

func (s *Store) mutateTask(taskID string, fn func(*model.Task) bool) bool {
	t := s.snap.Task(taskID)
	if t == nil {
		return false
	}
	if !fn(t) {
		return false
	}
	s.save()
	return true
}

// save writes the full snapshot. Failures are logged; the in-memory state stays authoritative.
func (s *Store) save() {
	s.snap.LastUpdated = s.opts.Now().UTC()
	data, err := json.Marshal(s.snap)
	if err != nil {
		s.opts.Logger.Error().Err(err).Str("board", s.boardID).Msg("encode board snapshot")
		return
	}
	if err := s.kv.Set(model.BoardKey(s.boardID), string(data)); err != nil {
		s.opts.Logger.Error().Err(err).Str("key", model.BoardKey(s.boardID)).Msg("persist board snapshot")
		return
	}
	s.opts.Logger.Debug().Str("board", s.boardID).Int("tasks", len(s.snap.Tasks)).Msg("board saved")
}

func (s *Store) freshColumnID() string {
	for {
		id := s.opts.NewID()
		if s.snap.Column(id) == nil {
			return id
		}
	}
}

func (s *Store) freshTaskID() string {
	for {
		id := s.opts.NewID()
		if s.snap.Task(id) == nil {
			return id
		}
	}
}

func (s *Store) freshChecklistID(t *model.Task) string {
	for {
		id := s.opts.NewID()
		if !slices.ContainsFunc(t.Checklist, func(c model.ChecklistItem) bool { return c.ID == id }) {
			return id
		}
	}
}

func validSchedule(sched model.Schedule) bool {
	if _, err := time.Parse("2006-01-02", sched.Date); err != nil {
		return false
	}
	for _, v := range []string{sched.StartTime, sched.EndTime} {
		if v != "" && !model.ValidTimeOfDay(v) {
			return false
		}
	}
	if sched.StartTime != "" && sched.EndTime != "" && sched.EndTime < sched.StartTime {
		return false
	}
	return true
}

func cloneTask(t model.Task) model.Task {
	t.Checklist = slices.Clone(t.Checklist)
	t.Note = clonePtr(t.Note)
	t.ScheduledDate = clonePtr(t.ScheduledDate)
	t.ScheduledStartTime = clonePtr(t.ScheduledStartTime)
	t.ScheduledEndTime = clonePtr(t.ScheduledEndTime)
	t.ScheduledColor = clonePtr(t.ScheduledColor)
	t.EstimatedTime = clonePtr(t.EstimatedTime)
	t.ActualTime = clonePtr(t.ActualTime)
	return t
}

func clonePtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func equalPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func derefString(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
