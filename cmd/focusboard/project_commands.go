package main

import (
	"errors"
	"fmt"

	"github.com/dori/focusboard/internal/app"
	"github.com/dori/focusboard/internal/model"
	"github.com/spf13/cobra"
)

var projectCmd = &cobra.Command{
	Use:     "project",
	Aliases: []string{"projects"},
	Short:   "Manage projects; each project owns one board",
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects",
	Args:  cobra.NoArgs,
	RunE:  runProjectList,
}

var projectAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Create a project",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectAdd,
}

var projectRenameCmd = &cobra.Command{
	Use:   "rename <project> <title>",
	Short: "Rename a project",
	Args:  cobra.ExactArgs(2),
	RunE:  runProjectRename,
}

var projectRemoveCmd = &cobra.Command{
	Use:     "rm <project>",
	Aliases: []string{"delete"},
	Short:   "Delete a project and its board",
	Args:    cobra.ExactArgs(1),
	RunE:    runProjectRemove,
}

var projectColor string

func init() {
	projectAddCmd.Flags().StringVar(&projectColor, "color", "", "accent color, e.g. #88C0D0")
	rootCmd.AddCommand(projectCmd)
	projectCmd.AddCommand(projectListCmd, projectAddCmd, projectRenameCmd, projectRemoveCmd)
}

func runProjectList(cmd *cobra.Command, args []string) error {
	application, err := openApp(false)
	if err != nil {
		return err
	}
	defer application.Close()

	list := application.Projects.List()
	if len(list) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no projects")
		return nil
	}
	for _, p := range list {
		store := application.Board(p.ID)
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%d tasks\n", p.ID, p.Title, len(store.Tasks()))
	}
	return nil
}

func runProjectAdd(cmd *cobra.Command, args []string) error {
	application, err := openApp(true)
	if err != nil {
		return err
	}
	defer application.Close()

	p, ok := application.Projects.Add(args[0], projectColor)
	if !ok {
		return fmt.Errorf("project title must not be blank")
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created project %s (%s)\n", p.Title, p.ID)
	return nil
}

func runProjectRename(cmd *cobra.Command, args []string) error {
	application, err := openApp(true)
	if err != nil {
		return err
	}
	defer application.Close()

	p, err := application.Projects.Find(args[0])
	if err != nil {
		return fmt.Errorf("%w: %s", err, args[0])
	}
	if !application.Projects.Rename(p.ID, args[1]) {
		return fmt.Errorf("cannot rename %s to %q", p.Title, args[1])
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Renamed %s to %s\n", p.Title, args[1])
	return nil
}

func runProjectRemove(cmd *cobra.Command, args []string) error {
	application, err := openApp(true)
	if err != nil {
		return err
	}
	defer application.Close()

	p, err := application.Projects.Find(args[0])
	if err != nil {
		return fmt.Errorf("%w: %s", err, args[0])
	}
	if !application.Projects.Delete(p.ID) {
		return fmt.Errorf("cannot delete %s", p.Title)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted project %s\n", p.Title)
	return nil
}

// resolveProject finds the project named by ref. An empty ref means the
// first project; create allows making the default one on an empty list.
func resolveProject(application *app.App, ref string, create bool) (model.Project, error) {
	if ref == "" && !create && len(application.Projects.List()) == 0 {
		return model.Project{}, errors.New("no projects yet; create one with 'focusboard project add <title>'")
	}
	p, err := application.ResolveProject(ref)
	if err != nil {
		return model.Project{}, fmt.Errorf("%w: %s", err, ref)
	}
	return p, nil
}
