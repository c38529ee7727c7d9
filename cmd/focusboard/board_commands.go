package main

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/dori/focusboard/internal/board"
	"github.com/dori/focusboard/internal/model"
	"github.com/spf13/cobra"
)

var boardProject string

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Inspect and edit a project's board",
}

var boardShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print columns and tasks",
	Args:  cobra.NoArgs,
	RunE:  runBoardShow,
}

var boardColumnCmd = &cobra.Command{
	Use:     "column",
	Aliases: []string{"col"},
	Short:   "Manage board columns",
}

var boardColumnAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Append a column",
	Args:  cobra.ExactArgs(1),
	RunE:  runColumnAdd,
}

var boardColumnRemoveCmd = &cobra.Command{
	Use:   "rm <column>",
	Short: "Delete a column and its tasks",
	Args:  cobra.ExactArgs(1),
	RunE:  runColumnRemove,
}

var boardColumnRenameCmd = &cobra.Command{
	Use:   "rename <column> <title>",
	Short: "Rename a column",
	Args:  cobra.ExactArgs(2),
	RunE:  runColumnRename,
}

var boardColumnMoveCmd = &cobra.Command{
	Use:   "move <column> <position>",
	Short: "Move a column to a 1-based position",
	Args:  cobra.ExactArgs(2),
	RunE:  runColumnMove,
}

func init() {
	boardCmd.PersistentFlags().StringVarP(&boardProject, "project", "p", "", "project id or title")
	rootCmd.AddCommand(boardCmd)
	boardCmd.AddCommand(boardShowCmd, boardColumnCmd)
	boardColumnCmd.AddCommand(boardColumnAddCmd, boardColumnRemoveCmd, boardColumnRenameCmd, boardColumnMoveCmd)
}

// findColumn resolves a column by id, then by case-insensitive title.
func findColumn(store *board.Store, ref string) (model.Column, bool) {
	if c, ok := store.Column(ref); ok {
		return c, true
	}
	for _, c := range store.Columns() {
		if strings.EqualFold(c.Title, strings.TrimSpace(ref)) {
			return c, true
		}
	}
	return model.Column{}, false
}

// withBoard opens the selected project's board and runs fn on it.
func withBoard(exclusive bool, fn func(project model.Project, store *board.Store) error) error {
	application, err := openApp(exclusive)
	if err != nil {
		return err
	}
	defer application.Close()

	project, err := resolveProject(application, boardProject, exclusive)
	if err != nil {
		return err
	}
	return fn(project, application.Board(project.ID))
}

func runBoardShow(cmd *cobra.Command, args []string) error {
	return withBoard(false, func(project model.Project, store *board.Store) error {
		printBoard(cmd.OutOrStdout(), project, store)
		return nil
	})
}

func printBoard(w io.Writer, project model.Project, store *board.Store) {
	fmt.Fprintln(w, project.Title)
	for _, col := range store.Columns() {
		tasks := store.TasksForColumn(col.ID)
		label := col.Title
		switch col.Role {
		case model.RoleActiveWork:
			label += " [active]"
		case model.RoleCompleted:
			label += " [done]"
		}
		fmt.Fprintf(w, "== %s (%d)\n", label, len(tasks))
		for _, t := range tasks {
			fmt.Fprintf(w, "  - %s\n", formatTaskLine(t))
		}
	}
}

func formatTaskLine(t model.Task) string {
	parts := []string{t.Title}
	if t.Priority != model.PriorityNone {
		parts = append(parts, "!"+string(t.Priority))
	}
	if done, total := t.ChecklistProgress(); total > 0 {
		parts = append(parts, fmt.Sprintf("[%d/%d]", done, total))
	}
	if t.EstimatedTime != nil || t.ActualTime != nil {
		actual, est := "00:00", "--:--"
		if t.ActualTime != nil {
			actual = *t.ActualTime
		}
		if t.EstimatedTime != nil {
			est = *t.EstimatedTime
		}
		parts = append(parts, actual+"/"+est)
	}
	if s := t.Schedule(); s != nil {
		parts = append(parts, "@ "+s.String())
	}
	return strings.Join(parts, "  ")
}

func runColumnAdd(cmd *cobra.Command, args []string) error {
	return withBoard(true, func(project model.Project, store *board.Store) error {
		col, ok := store.AddColumn(args[0])
		if !ok {
			return fmt.Errorf("column title must not be blank")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added column %s to %s\n", col.Title, project.Title)
		return nil
	})
}

func runColumnRemove(cmd *cobra.Command, args []string) error {
	return withBoard(true, func(project model.Project, store *board.Store) error {
		col, ok := findColumn(store, args[0])
		if !ok {
			return fmt.Errorf("column not found: %s", args[0])
		}
		if col.IsActiveWork() {
			return fmt.Errorf("cannot delete %s: it is the active-work column", col.Title)
		}
		n := len(store.TasksForColumn(col.ID))
		if !store.DeleteColumn(col.ID) {
			return fmt.Errorf("cannot delete %s", col.Title)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted column %s (%d tasks)\n", col.Title, n)
		return nil
	})
}

func runColumnRename(cmd *cobra.Command, args []string) error {
	return withBoard(true, func(project model.Project, store *board.Store) error {
		col, ok := findColumn(store, args[0])
		if !ok {
			return fmt.Errorf("column not found: %s", args[0])
		}
		if !store.RenameColumn(col.ID, args[1]) {
			return fmt.Errorf("cannot rename %s to %q", col.Title, args[1])
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Renamed column %s to %s\n", col.Title, strings.TrimSpace(args[1]))
		return nil
	})
}

func runColumnMove(cmd *cobra.Command, args []string) error {
	pos, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid position %q", args[1])
	}
	return withBoard(true, func(project model.Project, store *board.Store) error {
		col, ok := findColumn(store, args[0])
		if !ok {
			return fmt.Errorf("column not found: %s", args[0])
		}
		cols := store.Columns()
		if pos < 1 || pos > len(cols) {
			return fmt.Errorf("position must be between 1 and %d", len(cols))
		}
		idx := slices.IndexFunc(cols, func(c model.Column) bool { return c.ID == col.ID })
		if idx != pos-1 && !store.ShiftColumn(col.ID, pos-1-idx) {
			return fmt.Errorf("cannot move %s", col.Title)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Moved column %s to position %d\n", col.Title, pos)
		return nil
	})
}
