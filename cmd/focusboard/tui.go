package main

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dori/focusboard/internal/ui"
	"github.com/dori/focusboard/internal/ui/theme"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var errNoTerminal = errors.New("the TUI needs an interactive terminal; see 'focusboard --help' for commands")

var tuiFlags struct {
	view    string
	theme   string
	project string
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Run the interactive board (default command)",
	Args:  cobra.NoArgs,
	RunE:  runTUI,
}

func init() {
	addTUIFlags(tuiCmd)
	rootCmd.AddCommand(tuiCmd)
}

func addTUIFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&tuiFlags.view, "view", "", "starting view (board, focus, analytics, agenda, projects)")
	cmd.Flags().StringVar(&tuiFlags.theme, "theme", "", "theme (nord, dracula, gruvbox, catppuccin)")
	cmd.Flags().StringVarP(&tuiFlags.project, "project", "p", "", "project id or title to open")
}

func runTUI(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unknown command %q for %q", args[0], cmd.CommandPath())
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return errNoTerminal
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	themeName := cfg.UI.Theme
	if tuiFlags.theme != "" {
		themeName = tuiFlags.theme
	}
	if themeName != "" {
		t, ok := theme.ByName(themeName)
		if !ok {
			return fmt.Errorf("unknown theme %q", themeName)
		}
		theme.SetTheme(t)
	}

	viewName := cfg.UI.StartView
	if tuiFlags.view != "" {
		viewName = tuiFlags.view
	}
	startView := ui.ViewBoard
	if viewName != "" {
		v, ok := ui.ParseView(viewName)
		if !ok {
			return fmt.Errorf("unknown view %q", viewName)
		}
		startView = v
	}

	application, err := openAppWith(cfg, true)
	if err != nil {
		return err
	}
	defer application.Close()

	project, err := application.ResolveProject(tuiFlags.project)
	if err != nil {
		return err
	}

	root := ui.NewRootModel(cmd.Context(), application, ui.Options{
		StartView: startView,
		Project:   project,
	})

	p := tea.NewProgram(
		root,
		tea.WithContext(cmd.Context()),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithReportFocus(),
	)

	_, err = p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && cmd.Context().Err() != nil {
		return nil
	}
	return err
}
