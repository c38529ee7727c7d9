// Package drag turns pointer gestures into reorder decisions for board
// columns and tasks. It holds only transient gesture state; applying a
// decision is left to the board store.
package drag

import (
	"slices"

	"github.com/dori/focusboard/internal/model"
)

// Gesture identifies which drag, if any, is in progress.
type Gesture int

const (
	GestureNone Gesture = iota
	GestureColumn
	GestureTask
)

func (g Gesture) String() string {
	switch g {
	case GestureColumn:
		return "column"
	case GestureTask:
		return "task"
	}
	return "none"
}

// Rect is the vertical extent of one rendered task card.
type Rect struct {
	Top    int
	Height int
}

// Move is the outcome of a task drop that changes the task's column.
type Move struct {
	TaskID       string
	FromColumnID string
	ToColumnID   string
	// Index is the insertion slot shown while hovering. Destination
	// ordering rules may override it.
	Index int
}

// Engine tracks one pointer stroke. Column and task gestures are mutually
// exclusive: starting one while the other is active is refused.
type Engine struct {
	gesture       Gesture
	draggedColumn string
	draggedTask   string
	sourceColumn  string
	overColumn    string
	dropPosition  int
}

// Gesture returns the active gesture
func (e *Engine) Gesture() Gesture { return e.gesture }

// DraggedColumn returns the column being dragged, or "".
func (e *Engine) DraggedColumn() string { return e.draggedColumn }

// DraggedTask returns the task being dragged, or "".
func (e *Engine) DraggedTask() string { return e.draggedTask }

// OverColumn returns the column currently highlighted as a drop target.
func (e *Engine) OverColumn() string { return e.overColumn }

// DropPosition returns the hovered insertion index during a task drag.
func (e *Engine) DropPosition() (int, bool) {
	if e.gesture != GestureTask || e.overColumn == "" {
		return 0, false
	}
	return e.dropPosition, true
}

// StartColumn begins a column drag
func (e *Engine) StartColumn(columnID string) bool {
	if e.gesture != GestureNone || columnID == "" {
		return false
	}
	e.gesture = GestureColumn
	e.draggedColumn = columnID
	return true
}

// StartTask begins a task drag from sourceColumnID
func (e *Engine) StartTask(taskID, sourceColumnID string) bool {
	if e.gesture != GestureNone || taskID == "" {
		return false
	}
	e.gesture = GestureTask
	e.draggedTask = taskID
	e.sourceColumn = sourceColumnID
	return true
}

// HoverColumn marks the column under the pointer during a column drag.
// Hovering the dragged column itself clears the highlight.
func (e *Engine) HoverColumn(columnID string) {
	if e.gesture != GestureColumn {
		return
	}
	if columnID == e.draggedColumn {
		e.overColumn = ""
		return
	}
	e.overColumn = columnID
}

// HoverTask marks the column under the pointer during a task drag and
// computes the insertion index from the rendered cards of that column.
func (e *Engine) HoverTask(columnID string, cards []Rect, pointerY int) {
	if e.gesture != GestureTask {
		return
	}
	e.overColumn = columnID
	e.dropPosition = InsertionIndex(cards, pointerY)
}

// DropColumn finishes a column drag over targetID and returns the new
// order. The gesture ends whether or not anything moved.
func (e *Engine) DropColumn(columns []model.Column, targetID string) ([]model.Column, bool) {
	defer e.End()
	if e.gesture != GestureColumn {
		return nil, false
	}
	return Relocate(columns, e.draggedColumn, targetID)
}

// DropTask finishes a task drag over targetColumnID. It reports a Move only
// when the column changes.
func (e *Engine) DropTask(targetColumnID string) (Move, bool) {
	defer e.End()
	if e.gesture != GestureTask || targetColumnID == "" || targetColumnID == e.sourceColumn {
		return Move{}, false
	}
	idx := -1
	if e.overColumn == targetColumnID {
		idx = e.dropPosition
	}
	return Move{
		TaskID:       e.draggedTask,
		FromColumnID: e.sourceColumn,
		ToColumnID:   targetColumnID,
		Index:        idx,
	}, true
}

// End clears all gesture state. It is safe to call at any time.
func (e *Engine) End() {
	*e = Engine{}
}

// Relocate removes the dragged column and reinserts it at the target's
// pre-drop index. Other columns keep their relative order. Dropping a column
// on itself, or naming an unknown column, returns false.
func Relocate(columns []model.Column, draggedID, targetID string) ([]model.Column, bool) {
	if draggedID == targetID {
		return nil, false
	}
	from := slices.IndexFunc(columns, func(c model.Column) bool { return c.ID == draggedID })
	to := slices.IndexFunc(columns, func(c model.Column) bool { return c.ID == targetID })
	if from < 0 || to < 0 {
		return nil, false
	}
	out := slices.Clone(columns)
	col := out[from]
	out = slices.Delete(out, from, from+1)
	out = slices.Insert(out, to, col)
	return out, true
}

// InsertionIndex returns the first card whose vertical midpoint lies below
// pointerY, or len(cards) to append.
func InsertionIndex(cards []Rect, pointerY int) int {
	for i, r := range cards {
		// compare doubled values to keep half-row midpoints exact
		if 2*r.Top+r.Height > 2*pointerY {
			return i
		}
	}
	return len(cards)
}
