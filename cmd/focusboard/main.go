// Package main implements the focusboard CLI and TUI.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/dori/focusboard/internal/app"
	"github.com/dori/focusboard/internal/config"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "focusboard",
	Short:         "focusboard - kanban board, focus timer and time analytics",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runTUI,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/focusboard/config.toml)")
	addTUIFlags(rootCmd)
}

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		var exitErr interface{ ExitCode() int }
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode()
		}
		return 1
	}
	return 0
}

func loadConfig() (*config.Config, error) {
	return config.Load(configPath)
}

// openApp loads the config and opens the data directory. Commands that
// change boards pass exclusive so they never race a running TUI.
func openApp(exclusive bool) (*app.App, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return openAppWith(cfg, exclusive)
}

func openAppWith(cfg *config.Config, exclusive bool) (*app.App, error) {
	return app.New(cfg, app.Options{Exclusive: exclusive})
}
