package views

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dori/focusboard/internal/board"
	"github.com/dori/focusboard/internal/drag"
	"github.com/dori/focusboard/internal/model"
	"github.com/dori/focusboard/internal/ui/theme"
	"github.com/muesli/reflow/truncate"
)

// BoardMode represents the current input mode
type BoardMode int

const (
	BoardModeNormal BoardMode = iota
	BoardModeAddTask
	BoardModeEditTask
	BoardModeAddColumn
	BoardModeRenameColumn
	BoardModeConfirmDelete
	BoardModeConfirmDeleteColumn
	BoardModeDetail
)

const (
	// first card row: below the header line and the column's top border
	boardCardsStart = 2
	minColumnWidth  = 26
)

// BoardView renders one project's kanban board and drives the drag engine
// from mouse input.
type BoardView struct {
	store   *board.Store
	project model.Project
	width   int
	height  int

	// Navigation state
	currentColumn int
	cursorRow     int
	colOffset     int

	// Per-column scroll offset, keyed by column id
	columnScroll map[string]int

	mode      BoardMode
	textInput textinput.Model

	editTaskID     string
	deleteTaskID   string
	deleteColumnID string

	drag   drag.Engine
	detail DetailView

	// false while the terminal window has lost focus
	windowFocused bool
}

// boardHit is what lies under a pointer position.
type boardHit struct {
	column int
	task   int // -1 when not on a card
	header bool
}

// NewBoardView creates a board view for a project
func NewBoardView(store *board.Store, project model.Project) BoardView {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 256

	v := BoardView{
		textInput:     ti,
		columnScroll:  make(map[string]int),
		windowFocused: true,
	}
	return v.SetBoard(store, project)
}

// SetBoard switches to another project's board and resets navigation.
func (v BoardView) SetBoard(store *board.Store, project model.Project) BoardView {
	v.store = store
	v.project = project
	v.currentColumn = 0
	v.cursorRow = 0
	v.colOffset = 0
	v.columnScroll = make(map[string]int)
	v.mode = BoardModeNormal
	v.drag.End()
	if store != nil {
		if col, ok := store.ActiveWorkColumn(); ok {
			v.currentColumn = max(0, slices.IndexFunc(store.Columns(), func(c model.Column) bool { return c.ID == col.ID }))
		}
	}
	return v
}

// Store returns the board being shown
func (v BoardView) Store() *board.Store {
	return v.store
}

// Project returns the project the board belongs to
func (v BoardView) Project() model.Project {
	return v.project
}

// SetSize sets the view dimensions
func (v BoardView) SetSize(width, height int) BoardView {
	v.width = width
	v.height = height
	v.detail = v.detail.SetSize(v.detailWidth(), height)
	v.ensureColumnVisible()
	return v
}

// SetWindowFocused dims the board while the terminal is in the background.
func (v BoardView) SetWindowFocused(focused bool) BoardView {
	v.windowFocused = focused
	return v
}

// CancelDrag drops any gesture in progress without applying it.
func (v BoardView) CancelDrag() BoardView {
	v.drag.End()
	return v
}

// Dragging reports whether a pointer gesture is in progress.
func (v BoardView) Dragging() bool {
	return v.drag.Gesture() != drag.GestureNone
}

// Init initializes the board view
func (v BoardView) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (v BoardView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if v.store == nil {
		return v, nil
	}

	switch msg := msg.(type) {
	case closeDetailMsg:
		v.mode = BoardModeNormal
		v.clampCursor()
		return v, nil

	case tea.MouseMsg:
		if v.mode != BoardModeNormal {
			return v, nil
		}
		return v.handleMouse(msg)

	case tea.KeyMsg:
		switch v.mode {
		case BoardModeAddTask, BoardModeEditTask, BoardModeAddColumn, BoardModeRenameColumn:
			return v.handleInputMode(msg)
		case BoardModeConfirmDelete, BoardModeConfirmDeleteColumn:
			return v.handleConfirmMode(msg)
		case BoardModeDetail:
			var cmd tea.Cmd
			v.detail, cmd = v.detail.Update(msg)
			return v, cmd
		default:
			return v.handleNormalMode(msg)
		}
	}

	if v.mode == BoardModeDetail {
		var cmd tea.Cmd
		v.detail, cmd = v.detail.Update(msg)
		return v, cmd
	}
	if v.IsInputMode() {
		var cmd tea.Cmd
		v.textInput, cmd = v.textInput.Update(msg)
		return v, cmd
	}
	return v, nil
}

// handleNormalMode handles keys in normal mode
func (v BoardView) handleNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cols := v.store.Columns()

	switch msg.String() {
	// Column navigation
	case "h", "left":
		if v.currentColumn > 0 {
			v.currentColumn--
			v.clampCursor()
			v.ensureColumnVisible()
		}
		return v, nil

	case "l", "right":
		if v.currentColumn < len(cols)-1 {
			v.currentColumn++
			v.clampCursor()
			v.ensureColumnVisible()
		}
		return v, nil

	// Row navigation
	case "j", "down":
		if v.cursorRow < len(v.currentTasks())-1 {
			v.cursorRow++
			v.ensureCursorVisible()
		}
		return v, nil

	case "k", "up":
		if v.cursorRow > 0 {
			v.cursorRow--
			v.ensureCursorVisible()
		}
		return v, nil

	case "g":
		v.cursorRow = 0
		v.ensureCursorVisible()
		return v, nil

	case "G":
		if n := len(v.currentTasks()); n > 0 {
			v.cursorRow = n - 1
			v.ensureCursorVisible()
		}
		return v, nil

	// Move task between columns
	case "H":
		cmd := v.moveTask(-1)
		return v, cmd

	case "L":
		cmd := v.moveTask(1)
		return v, cmd

	// Reorder columns
	case "<":
		cmd := v.shiftColumn(-1)
		return v, cmd

	case ">":
		cmd := v.shiftColumn(1)
		return v, cmd

	case "a":
		return v.startInput(BoardModeAddTask, "New task...", ""), nil

	case "e":
		if task, ok := v.selectedTask(); ok {
			v.editTaskID = task.ID
			return v.startInput(BoardModeEditTask, "", task.Title), nil
		}
		return v, nil

	case "enter":
		if task, ok := v.selectedTask(); ok {
			v.detail = NewDetailView(v.store, task.ID).SetSize(v.detailWidth(), v.height)
			v.mode = BoardModeDetail
		}
		return v, nil

	case "d":
		if task, ok := v.selectedTask(); ok {
			v.deleteTaskID = task.ID
			v.mode = BoardModeConfirmDelete
		}
		return v, nil

	case "p":
		if task, ok := v.selectedTask(); ok {
			if v.store.SetTaskPriority(task.ID, task.Priority.Next()) {
				v.followTask(task.ID)
				return v, boardChanged
			}
		}
		return v, nil

	case "c":
		if task, ok := v.selectedTask(); ok && v.store.CompleteTask(task.ID) {
			v.clampCursor()
			return v, tea.Batch(boardChanged, statusCmd("Completed: "+task.Title))
		}
		return v, nil

	case "f":
		return v, func() tea.Msg { return StartFocusMsg{} }

	// Column management
	case "A":
		return v.startInput(BoardModeAddColumn, "New column...", ""), nil

	case "R":
		if col, ok := v.currentColumnInfo(); ok {
			return v.startInput(BoardModeRenameColumn, "", col.Title), nil
		}
		return v, nil

	case "X":
		if col, ok := v.currentColumnInfo(); ok {
			if col.IsActiveWork() {
				return v, statusCmd("The active-work column cannot be deleted")
			}
			v.deleteColumnID = col.ID
			v.mode = BoardModeConfirmDeleteColumn
		}
		return v, nil

	case "W":
		cmd := v.setRole(model.RoleActiveWork)
		return v, cmd

	case "D":
		cmd := v.setRole(model.RoleCompleted)
		return v, cmd

	case "esc":
		v.drag.End()
		return v, nil
	}

	return v, nil
}

func (v BoardView) startInput(mode BoardMode, placeholder, value string) BoardView {
	v.mode = mode
	v.textInput.SetValue(value)
	v.textInput.Placeholder = placeholder
	v.textInput.Focus()
	v.textInput.CursorEnd()
	return v
}

// handleInputMode handles keys while a text input is open
func (v BoardView) handleInputMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		value := strings.TrimSpace(v.textInput.Value())
		mode := v.mode
		v.mode = BoardModeNormal
		v.textInput.Blur()
		if value == "" {
			return v, nil
		}
		cmd := v.commitInput(mode, value)
		return v, cmd
	case "esc":
		v.mode = BoardModeNormal
		v.textInput.Blur()
		v.editTaskID = ""
		return v, nil
	}

	var cmd tea.Cmd
	v.textInput, cmd = v.textInput.Update(msg)
	return v, cmd
}

func (v *BoardView) commitInput(mode BoardMode, value string) tea.Cmd {
	col, hasCol := v.currentColumnInfo()

	switch mode {
	case BoardModeAddTask:
		if !hasCol {
			return nil
		}
		task, ok := v.store.AddTask(col.ID, value)
		if !ok {
			return nil
		}
		v.followTask(task.ID)
		return boardChanged

	case BoardModeEditTask:
		taskID := v.editTaskID
		v.editTaskID = ""
		if v.store.EditTaskTitle(taskID, value) {
			return boardChanged
		}

	case BoardModeAddColumn:
		added, ok := v.store.AddColumn(value)
		if !ok {
			return nil
		}
		v.currentColumn = v.columnIndex(added.ID)
		v.cursorRow = 0
		v.ensureColumnVisible()
		return boardChanged

	case BoardModeRenameColumn:
		if hasCol && v.store.RenameColumn(col.ID, value) {
			return boardChanged
		}
	}
	return nil
}

// handleConfirmMode handles keys in the delete confirmations
func (v BoardView) handleConfirmMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		mode := v.mode
		v.mode = BoardModeNormal
		var ok bool
		if mode == BoardModeConfirmDelete {
			ok = v.store.DeleteTask(v.deleteTaskID)
		} else {
			ok = v.store.DeleteColumn(v.deleteColumnID)
		}
		v.deleteTaskID, v.deleteColumnID = "", ""
		v.clampColumn()
		v.clampCursor()
		if ok {
			return v, boardChanged
		}
		return v, nil
	case "n", "N", "esc":
		v.mode = BoardModeNormal
		v.deleteTaskID, v.deleteColumnID = "", ""
		return v, nil
	}
	return v, nil
}

// handleMouse maps pointer press/motion/release onto the drag engine.
// Coordinates are relative to the top-left of the view.
func (v BoardView) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	cols := v.store.Columns()
	hit, onBoard := v.hitTest(msg.X, msg.Y)

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			if onBoard {
				v.scrollColumn(cols[hit.column].ID, -1)
			}
			return v, nil
		case tea.MouseButtonWheelDown:
			if onBoard {
				v.scrollColumn(cols[hit.column].ID, 1)
			}
			return v, nil
		case tea.MouseButtonLeft:
		default:
			return v, nil
		}
		if !onBoard {
			return v, nil
		}
		col := cols[hit.column]
		v.currentColumn = hit.column
		switch {
		case hit.header:
			v.drag.StartColumn(col.ID)
		case hit.task >= 0:
			tasks := v.store.TasksForColumn(col.ID)
			v.cursorRow = hit.task
			v.drag.StartTask(tasks[hit.task].ID, col.ID)
		default:
			v.clampCursor()
		}
		return v, nil

	case tea.MouseActionMotion:
		if !onBoard {
			return v, nil
		}
		col := cols[hit.column]
		switch v.drag.Gesture() {
		case drag.GestureColumn:
			v.drag.HoverColumn(col.ID)
		case drag.GestureTask:
			v.drag.HoverTask(col.ID, v.cardRects(col.ID), msg.Y)
		}
		return v, nil

	case tea.MouseActionRelease:
		if !onBoard {
			v.drag.End()
			return v, nil
		}
		col := cols[hit.column]
		switch v.drag.Gesture() {
		case drag.GestureColumn:
			dragged := v.drag.DraggedColumn()
			order, ok := v.drag.DropColumn(cols, col.ID)
			if ok && v.store.ApplyColumnOrder(order) {
				v.currentColumn = v.columnIndex(dragged)
				v.ensureColumnVisible()
				return v, boardChanged
			}
		case drag.GestureTask:
			mv, ok := v.drag.DropTask(col.ID)
			if ok && v.store.MoveTask(mv.TaskID, mv.ToColumnID) {
				v.followTask(mv.TaskID)
				return v, boardChanged
			}
		}
		return v, nil
	}

	return v, nil
}

// hitTest resolves a pointer position to a column, and a card or the
// column header within it.
func (v BoardView) hitTest(x, y int) (boardHit, bool) {
	cols := v.store.Columns()
	outer, visible := v.columnGeometry()
	if x < 0 || y < 0 || outer <= 0 {
		return boardHit{}, false
	}
	idx := v.colOffset + x/outer
	if x/outer >= visible || idx >= len(cols) {
		return boardHit{}, false
	}

	hit := boardHit{column: idx, task: -1}
	if y < boardCardsStart {
		hit.header = true
		return hit, true
	}

	id := cols[idx].ID
	for j, r := range v.cardRects(id) {
		if r.Top == y && j < v.columnScroll[id]+v.visibleItemCount() && j >= v.columnScroll[id] {
			hit.task = j
			break
		}
	}
	return hit, true
}

// cardRects returns the row of every card in a column, including the ones
// scrolled out of view, so insertion indices stay absolute.
func (v BoardView) cardRects(columnID string) []drag.Rect {
	n := len(v.store.TasksForColumn(columnID))
	scroll := v.columnScroll[columnID]
	top := boardCardsStart - scroll
	if scroll > 0 {
		top++
	}
	rects := make([]drag.Rect, n)
	for i := range rects {
		rects[i] = drag.Rect{Top: top + i, Height: 1}
	}
	return rects
}

// columnGeometry returns the outer width of one column and how many fit.
func (v BoardView) columnGeometry() (outer, visible int) {
	n := len(v.store.Columns())
	if n == 0 || v.width <= 0 {
		return 0, 0
	}
	visible = min(n, max(1, v.width/minColumnWidth))
	return v.boardWidth() / visible, visible
}

// boardWidth is the width left for columns when the detail pane is open.
func (v BoardView) boardWidth() int {
	if v.mode == BoardModeDetail {
		return v.width - v.detailWidth()
	}
	return v.width
}

func (v BoardView) detailWidth() int {
	return min(60, max(30, v.width*2/5))
}

func (v *BoardView) ensureColumnVisible() {
	if v.store == nil {
		return
	}
	_, visible := v.columnGeometry()
	if visible <= 0 {
		return
	}
	if v.currentColumn < v.colOffset {
		v.colOffset = v.currentColumn
	}
	if v.currentColumn >= v.colOffset+visible {
		v.colOffset = v.currentColumn - visible + 1
	}
	v.colOffset = max(0, min(v.colOffset, len(v.store.Columns())-visible))
}

func (v *BoardView) clampColumn() {
	n := len(v.store.Columns())
	if v.currentColumn >= n {
		v.currentColumn = max(0, n-1)
	}
	v.ensureColumnVisible()
}

// clampCursor keeps the cursor within the current column
func (v *BoardView) clampCursor() {
	tasks := v.currentTasks()
	if v.cursorRow >= len(tasks) {
		v.cursorRow = max(0, len(tasks)-1)
	}
	v.ensureCursorVisible()
}

// ensureCursorVisible adjusts scroll to keep cursor in view
func (v *BoardView) ensureCursorVisible() {
	col, ok := v.currentColumnInfo()
	if !ok {
		return
	}
	visible := v.visibleItemCount()
	scroll := v.columnScroll[col.ID]
	if v.cursorRow >= scroll+visible {
		scroll = v.cursorRow - visible + 1
	}
	if v.cursorRow < scroll {
		scroll = v.cursorRow
	}
	v.columnScroll[col.ID] = max(0, scroll)
}

func (v *BoardView) scrollColumn(columnID string, delta int) {
	n := len(v.store.TasksForColumn(columnID))
	limit := max(0, n-v.visibleItemCount())
	v.columnScroll[columnID] = max(0, min(limit, v.columnScroll[columnID]+delta))
}

// visibleItemCount returns how many cards fit in a column
func (v BoardView) visibleItemCount() int {
	// header row, two border rows, footer row, two scroll indicators
	return max(1, v.height-6)
}

func (v BoardView) currentColumnInfo() (model.Column, bool) {
	cols := v.store.Columns()
	if v.currentColumn < 0 || v.currentColumn >= len(cols) {
		return model.Column{}, false
	}
	return cols[v.currentColumn], true
}

func (v BoardView) currentTasks() []model.Task {
	col, ok := v.currentColumnInfo()
	if !ok {
		return nil
	}
	return v.store.TasksForColumn(col.ID)
}

// selectedTask returns the task under the cursor
func (v BoardView) selectedTask() (model.Task, bool) {
	tasks := v.currentTasks()
	if v.cursorRow < 0 || v.cursorRow >= len(tasks) {
		return model.Task{}, false
	}
	return tasks[v.cursorRow], true
}

func (v BoardView) columnIndex(columnID string) int {
	return max(0, slices.IndexFunc(v.store.Columns(), func(c model.Column) bool { return c.ID == columnID }))
}

// followTask moves the cursor to wherever a task now sits.
func (v *BoardView) followTask(taskID string) {
	task, ok := v.store.Task(taskID)
	if !ok {
		v.clampCursor()
		return
	}
	v.currentColumn = v.columnIndex(task.ColumnID)
	v.cursorRow = max(0, slices.IndexFunc(v.store.TasksForColumn(task.ColumnID), func(t model.Task) bool { return t.ID == taskID }))
	v.ensureColumnVisible()
	v.ensureCursorVisible()
}

// moveTask moves the current task to an adjacent column
func (v *BoardView) moveTask(direction int) tea.Cmd {
	task, ok := v.selectedTask()
	if !ok {
		return nil
	}
	cols := v.store.Columns()
	target := v.currentColumn + direction
	if target < 0 || target >= len(cols) {
		return nil
	}
	if !v.store.MoveTask(task.ID, cols[target].ID) {
		return nil
	}
	v.followTask(task.ID)
	return boardChanged
}

func (v *BoardView) shiftColumn(delta int) tea.Cmd {
	col, ok := v.currentColumnInfo()
	if !ok || !v.store.ShiftColumn(col.ID, delta) {
		return nil
	}
	v.currentColumn = v.columnIndex(col.ID)
	v.ensureColumnVisible()
	return boardChanged
}

func (v *BoardView) setRole(role model.ColumnRole) tea.Cmd {
	col, ok := v.currentColumnInfo()
	if !ok || !v.store.SetColumnRole(col.ID, role) {
		return nil
	}
	return tea.Batch(boardChanged, statusCmd(fmt.Sprintf("%s is now the %s column", col.Title, roleLabel(role))))
}

func roleLabel(role model.ColumnRole) string {
	switch role {
	case model.RoleActiveWork:
		return "active-work"
	case model.RoleCompleted:
		return "completed"
	}
	return "plain"
}

func boardChanged() tea.Msg {
	return BoardChangedMsg{}
}

// View renders the board
func (v BoardView) View() string {
	if v.width == 0 || v.height == 0 {
		return "Loading..."
	}
	if v.store == nil {
		return "No project selected"
	}

	t := theme.Current.Theme
	styles := theme.Current.Styles
	cols := v.store.Columns()
	outer, visible := v.columnGeometry()
	inner := outer - 2
	boxHeight := max(3, v.height-4)

	overColumn := v.drag.OverColumn()
	dropAt, dropping := v.drag.DropPosition()

	var headers, boxes []string
	for i := v.colOffset; i < v.colOffset+visible && i < len(cols); i++ {
		col := cols[i]
		tasks := v.store.TasksForColumn(col.ID)
		isCurrent := i == v.currentColumn

		// Header
		headerColor := t.Secondary
		marker := ""
		switch {
		case col.IsActiveWork():
			headerColor, marker = t.ColumnActive, "● "
		case col.IsCompleted():
			headerColor, marker = t.ColumnDone, "✓ "
		}
		hs := lipgloss.NewStyle().Bold(true).Foreground(headerColor).Width(outer).Align(lipgloss.Center)
		if isCurrent {
			hs = hs.Background(t.Highlight)
		}
		if v.drag.DraggedColumn() == col.ID {
			hs = hs.Foreground(t.Dragging).Italic(true)
		}
		title := truncate.StringWithTail(fmt.Sprintf("%s%s (%d)", marker, col.Title, len(tasks)), uint(max(1, outer-2)), "…")
		headers = append(headers, hs.Render(title))

		// Cards
		scroll := v.columnScroll[col.ID]
		end := min(len(tasks), scroll+v.visibleItemCount())
		var items []string
		if scroll > 0 {
			items = append(items, styles.Label.Width(inner-2).Align(lipgloss.Center).Render(fmt.Sprintf("↑ %d more", scroll)))
		}
		for j := scroll; j < end; j++ {
			task := tasks[j]
			dropHere := dropping && overColumn == col.ID && dropAt == j
			items = append(items, v.renderCard(task, inner-2, isCurrent && j == v.cursorRow, dropHere))
		}
		if dropping && overColumn == col.ID && dropAt >= len(tasks) {
			items = append(items, styles.DropMarker.Render("▸ drop here"))
		}
		if end < len(tasks) {
			items = append(items, styles.Label.Width(inner-2).Align(lipgloss.Center).Render(fmt.Sprintf("↓ %d more", len(tasks)-end)))
		}

		content := strings.Join(items, "\n")
		if len(tasks) == 0 && !(dropping && overColumn == col.ID) {
			content = styles.Label.Italic(true).Render("(empty)")
		}

		cs := styles.Column
		switch {
		case overColumn == col.ID:
			cs = styles.ColumnDrop
		case isCurrent:
			cs = styles.ColumnFocused
		}
		if !v.windowFocused {
			cs = cs.BorderForeground(t.Unfocused)
		}
		boxes = append(boxes, cs.Width(inner).Height(boxHeight).Render(content))
	}

	boardView := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, headers...),
		lipgloss.JoinHorizontal(lipgloss.Top, boxes...),
		v.renderFooter(),
	)

	if v.mode == BoardModeDetail {
		return lipgloss.JoinHorizontal(lipgloss.Top, boardView, v.detail.View())
	}
	return boardView
}

// renderCard renders one task as a single line
func (v BoardView) renderCard(task model.Task, width int, selected, dropHere bool) string {
	t := theme.Current.Theme
	styles := theme.Current.Styles

	cs := styles.Card
	switch {
	case v.drag.DraggedTask() == task.ID:
		cs = styles.CardDragging
	case selected:
		cs = styles.CardFocused
	}

	glyph := lipgloss.NewStyle().Foreground(t.PriorityColor(task.Priority)).Render("●")
	if task.Priority == model.PriorityNone {
		glyph = " "
	}
	if dropHere {
		glyph = styles.DropMarker.Render("▸")
	}

	var badges []string
	if done, total := task.ChecklistProgress(); total > 0 {
		badges = append(badges, fmt.Sprintf("%d/%d", done, total))
	}
	if task.ActualTime != nil || task.EstimatedTime != nil {
		badge := model.FormatClock(task.ActualMinutes())
		if task.EstimatedTime != nil {
			badge += "/" + *task.EstimatedTime
		}
		badges = append(badges, badge)
	}
	if sched := task.Schedule(); sched != nil {
		badges = append(badges, styles.Schedule.Render("◷"))
	}
	suffix := ""
	if len(badges) > 0 {
		suffix = " " + styles.Label.Render(strings.Join(badges, " "))
	}

	avail := width - 2 - 2 - lipgloss.Width(suffix)
	title := truncate.StringWithTail(task.Title, uint(max(1, avail)), "…")

	return cs.Width(width).Render(glyph + " " + title + suffix)
}

func (v BoardView) renderFooter() string {
	t := theme.Current.Theme
	styles := theme.Current.Styles
	inputStyle := styles.InputFocused.Width(max(10, v.boardWidth()-4))

	switch v.mode {
	case BoardModeAddTask:
		return inputStyle.Render("Add task: " + v.textInput.View())
	case BoardModeEditTask:
		return inputStyle.Render("Edit: " + v.textInput.View())
	case BoardModeAddColumn:
		return inputStyle.Render("Add column: " + v.textInput.View())
	case BoardModeRenameColumn:
		return inputStyle.Render("Rename column: " + v.textInput.View())
	case BoardModeConfirmDelete:
		title := ""
		if task, ok := v.store.Task(v.deleteTaskID); ok {
			title = task.Title
		}
		return lipgloss.NewStyle().Foreground(t.Error).Bold(true).Render(fmt.Sprintf("Delete '%s'? (y/n)", title))
	case BoardModeConfirmDeleteColumn:
		title := ""
		n := 0
		if col, ok := v.store.Column(v.deleteColumnID); ok {
			title = col.Title
			n = len(v.store.TasksForColumn(col.ID))
		}
		return lipgloss.NewStyle().Foreground(t.Error).Bold(true).Render(fmt.Sprintf("Delete column '%s' and its %d task(s)? (y/n)", title, n))
	}

	switch v.drag.Gesture() {
	case drag.GestureColumn:
		return styles.DropMarker.Render("Dragging column: release over another column to move it")
	case drag.GestureTask:
		return styles.DropMarker.Render("Dragging task: release over a column to move it")
	}

	cols := v.store.Columns()
	_, visible := v.columnGeometry()
	indicator := ""
	if visible < len(cols) {
		indicator = lipgloss.NewStyle().Foreground(t.Info).Render(fmt.Sprintf("[%d-%d/%d] ", v.colOffset+1, v.colOffset+visible, len(cols)))
	}
	return indicator + styles.Label.Render(v.project.Title)
}

// IsInputMode returns whether the view is capturing keystrokes
func (v BoardView) IsInputMode() bool {
	switch v.mode {
	case BoardModeNormal:
		return false
	case BoardModeDetail:
		return v.detail.IsInputMode()
	}
	return true
}

// InDetail reports whether the task detail pane is open.
func (v BoardView) InDetail() bool {
	return v.mode == BoardModeDetail
}
