package main

import (
	"fmt"
	"io"
	"time"

	"github.com/dori/focusboard/internal/analytics"
	"github.com/dori/focusboard/internal/model"
	"github.com/spf13/cobra"
)

var analyticsCmd = &cobra.Command{
	Use:   "analytics",
	Short: "Show time share and estimate efficiency per project",
	Args:  cobra.NoArgs,
	RunE:  runAnalytics,
}

func init() {
	rootCmd.AddCommand(analyticsCmd)
}

func runAnalytics(cmd *cobra.Command, args []string) error {
	application, err := openApp(false)
	if err != nil {
		return err
	}
	defer application.Close()

	boards := analytics.Load(application.DB, application.Projects.List(), application.Log)
	report := analytics.Aggregate(boards)
	totals, err := application.DB.TotalFocusSeconds(time.Time{})
	if err != nil {
		return fmt.Errorf("load focus totals: %w", err)
	}
	report.ApplyFocusTotals(totals)

	printReport(cmd.OutOrStdout(), report)
	return nil
}

func printReport(w io.Writer, r analytics.Report) {
	if len(r.Projects) == 0 {
		fmt.Fprintln(w, "no projects")
		return
	}

	fmt.Fprintf(w, "Total tracked: %s\n\n", model.FormatClock(r.TotalActualMinutes))

	fmt.Fprintln(w, "Time share")
	share := r.ByShare()
	if len(share) == 0 {
		fmt.Fprintln(w, "  no time tracked yet")
	}
	for _, p := range share {
		fmt.Fprintf(w, "  %-20s %6s %5.1f%%  focus %s\n",
			p.Project.Title, model.FormatClock(p.ActualMinutes), p.Share, model.FormatClock(p.FocusSeconds/60))
	}

	fmt.Fprintln(w, "\nEfficiency")
	eff := r.WithEfficiency()
	if len(eff) == 0 {
		fmt.Fprintln(w, "  needs completed tasks with estimates")
	}
	for _, p := range eff {
		fmt.Fprintf(w, "  %-20s %6s / %6s %6.1f%%  %s\n",
			p.Project.Title,
			model.FormatClock(p.CompletedActualMinutes),
			model.FormatClock(p.EstimatedMinutes),
			p.Efficiency, p.Rating)
	}
}
