package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/dori/focusboard/internal/board"
	"github.com/dori/focusboard/internal/model"
	"github.com/spf13/cobra"
)

var addFlags struct {
	project string
	column  string
}

var addCmd = &cobra.Command{
	Use:   "add <task...>",
	Short: "Quick add a task",
	Long: `Quick add a task to a board.

Inline syntax:
  Priority:  !urgent !upcoming !long-term
  Estimate:  est:01:30
  Date:      on:today on:tomorrow on:fri on:2025-03-14
  Time:      at:09:00-10:30 (implies on:today when no date is given)

Example:
  focusboard add "Write report !urgent est:02:00 on:fri at:09:00-11:00"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringVarP(&addFlags.project, "project", "p", "", "project id or title")
	addCmd.Flags().StringVarP(&addFlags.column, "column", "c", "", "column id or title (default: first backlog column)")
	rootCmd.AddCommand(addCmd)
}

// quickAdd is the parsed form of a quick-add line.
type quickAdd struct {
	Title     string
	Priority  model.Priority
	Estimate  string
	Date      string
	StartTime string
	EndTime   string
}

// Schedule returns the calendar placement, or nil when no date was given.
func (q quickAdd) Schedule() *model.Schedule {
	if q.Date == "" {
		return nil
	}
	return &model.Schedule{Date: q.Date, StartTime: q.StartTime, EndTime: q.EndTime}
}

// parseQuickAdd pulls inline attributes out of text. Words that look like
// attributes but do not parse stay in the title.
func parseQuickAdd(text string, now time.Time) quickAdd {
	var q quickAdd
	var titleParts []string

	for _, word := range strings.Fields(text) {
		lower := strings.ToLower(word)
		switch {
		case strings.HasPrefix(word, "!"):
			if p, ok := model.ParsePriority(strings.TrimPrefix(lower, "!")); ok && p != model.PriorityNone {
				q.Priority = p
				continue
			}

		case strings.HasPrefix(lower, "est:"):
			if m, err := model.ParseClock(word[len("est:"):]); err == nil {
				q.Estimate = model.FormatClock(m)
				continue
			}

		case strings.HasPrefix(lower, "on:"):
			if d, ok := model.ParseDate(word[len("on:"):], now); ok {
				q.Date = d
				continue
			}

		case strings.HasPrefix(lower, "at:"):
			if start, end, ok := model.ParseTimeSpan(word[len("at:"):]); ok {
				q.StartTime, q.EndTime = start, end
				continue
			}
		}
		titleParts = append(titleParts, word)
	}

	q.Title = strings.Join(titleParts, " ")
	if q.StartTime != "" && q.Date == "" {
		q.Date = now.Format(model.DateLayout)
	}
	return q
}

func runAdd(cmd *cobra.Command, args []string) error {
	q := parseQuickAdd(strings.Join(args, " "), time.Now())
	if q.Title == "" {
		return fmt.Errorf("task title must not be blank")
	}

	application, err := openApp(true)
	if err != nil {
		return err
	}
	defer application.Close()

	project, err := resolveProject(application, addFlags.project, true)
	if err != nil {
		return err
	}
	store := application.Board(project.ID)

	var col model.Column
	if addFlags.column != "" {
		c, ok := findColumn(store, addFlags.column)
		if !ok {
			return fmt.Errorf("column not found: %s", addFlags.column)
		}
		col = c
	} else {
		col = backlogColumn(store)
	}

	task, ok := store.AddTask(col.ID, q.Title)
	if !ok {
		return fmt.Errorf("cannot add task to %s", col.Title)
	}
	if q.Priority != model.PriorityNone {
		store.SetTaskPriority(task.ID, q.Priority)
	}
	if q.Estimate != "" {
		store.SetTaskEstimate(task.ID, q.Estimate)
	}
	if sched := q.Schedule(); sched != nil && !store.SetTaskSchedule(task.ID, sched) {
		return fmt.Errorf("invalid schedule %s", sched)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created: %s\n", task.Title)
	fmt.Fprintf(out, "Board: %s / %s\n", project.Title, col.Title)
	if q.Priority != model.PriorityNone {
		fmt.Fprintf(out, "Priority: %s\n", q.Priority)
	}
	if q.Estimate != "" {
		fmt.Fprintf(out, "Estimate: %s\n", q.Estimate)
	}
	if sched := q.Schedule(); sched != nil {
		fmt.Fprintf(out, "Scheduled: %s\n", sched)
	}
	return nil
}

// backlogColumn is the first column without a role, else the first column.
func backlogColumn(store *board.Store) model.Column {
	cols := store.Columns()
	for _, c := range cols {
		if c.Role == model.RoleNone {
			return c
		}
	}
	return cols[0]
}
