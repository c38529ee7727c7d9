package main

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"runtime"
	"time"

	"github.com/dori/focusboard/internal/app"
	"github.com/dori/focusboard/internal/calendar"
	"github.com/spf13/cobra"
)

const connectTimeout = 5 * time.Minute

var calendarFlags struct {
	days      int
	noBrowser bool
	watch     bool
	cached    bool
}

var calendarCmd = &cobra.Command{
	Use:     "calendar",
	Aliases: []string{"cal"},
	Short:   "Connect and sync Google Calendar",
}

var calendarConnectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Link a Google account through the browser",
	Args:  cobra.NoArgs,
	RunE:  runCalendarConnect,
}

var calendarStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the connection state",
	Args:  cobra.NoArgs,
	RunE:  runCalendarStatus,
}

var calendarDisconnectCmd = &cobra.Command{
	Use:   "disconnect",
	Short: "Revoke and forget the stored connection",
	Args:  cobra.NoArgs,
	RunE:  runCalendarDisconnect,
}

var calendarEventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List upcoming events",
	Args:  cobra.NoArgs,
	RunE:  runCalendarEvents,
}

var calendarSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Refresh the cached events shown in the agenda",
	Args:  cobra.NoArgs,
	RunE:  runCalendarSync,
}

func init() {
	calendarConnectCmd.Flags().BoolVar(&calendarFlags.noBrowser, "no-browser", false, "print the consent URL instead of opening it")
	calendarEventsCmd.Flags().IntVar(&calendarFlags.days, "days", 7, "how many days ahead to list")
	calendarEventsCmd.Flags().BoolVar(&calendarFlags.cached, "cached", false, "list the last synced events without contacting Google")
	calendarSyncCmd.Flags().IntVar(&calendarFlags.days, "days", 7, "how many days ahead to cache")
	calendarSyncCmd.Flags().BoolVar(&calendarFlags.watch, "watch", false, "keep syncing on calendar.sync_schedule until interrupted")

	rootCmd.AddCommand(calendarCmd)
	calendarCmd.AddCommand(calendarConnectCmd, calendarStatusCmd, calendarDisconnectCmd, calendarEventsCmd, calendarSyncCmd)
}

// calendarService returns the configured service or ErrNotConfigured.
func calendarService(application *app.App) (*calendar.Service, error) {
	if application.Calendar == nil || !application.Calendar.IsConfigured() {
		return nil, calendar.ErrNotConfigured
	}
	return application.Calendar, nil
}

func runCalendarConnect(cmd *cobra.Command, args []string) error {
	application, err := openApp(false)
	if err != nil {
		return err
	}
	defer application.Close()

	svc, err := calendarService(application)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	ctx, cancel := context.WithTimeout(cmd.Context(), connectTimeout)
	defer cancel()

	conn, err := svc.Connect(ctx, func(authURL string) error {
		fmt.Fprintf(out, "Open this URL to authorize focusboard:\n\n  %s\n\n", authURL)
		if !calendarFlags.noBrowser {
			if err := openBrowser(authURL); err != nil {
				application.Log.Debug().Err(err).Msg("open browser")
			}
		}
		fmt.Fprintf(out, "Waiting for the redirect to %s ...\n", svc.RedirectURL())
		return nil
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Connected as %s\n", conn.Email)
	return nil
}

func runCalendarStatus(cmd *cobra.Command, args []string) error {
	application, err := openApp(false)
	if err != nil {
		return err
	}
	defer application.Close()

	out := cmd.OutOrStdout()
	svc, err := calendarService(application)
	if err != nil {
		fmt.Fprintln(out, "not configured")
		return nil
	}
	if !svc.IsConnected(cmd.Context()) {
		fmt.Fprintln(out, "not connected")
		return nil
	}
	email, _ := svc.ConnectionEmail(cmd.Context())
	fmt.Fprintf(out, "connected as %s\n", email)

	cache, err := calendar.LoadCache(application.DB)
	if err == nil && !cache.SyncedAt.IsZero() {
		fmt.Fprintf(out, "last sync %s (%d events)\n", cache.SyncedAt.Local().Format("2006-01-02 15:04"), len(cache.Events))
	}
	return nil
}

func runCalendarDisconnect(cmd *cobra.Command, args []string) error {
	application, err := openApp(false)
	if err != nil {
		return err
	}
	defer application.Close()

	if application.Calendar == nil {
		return calendar.ErrNotConfigured
	}
	if err := application.Calendar.Disconnect(cmd.Context()); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Disconnected")
	return nil
}

func runCalendarEvents(cmd *cobra.Command, args []string) error {
	application, err := openApp(false)
	if err != nil {
		return err
	}
	defer application.Close()

	now := time.Now()
	until := now.AddDate(0, 0, calendarFlags.days)

	var events []calendar.Event
	if calendarFlags.cached {
		cache, err := calendar.LoadCache(application.DB)
		if err != nil {
			return fmt.Errorf("load cached events: %w", err)
		}
		events = cache.Between(now, until)
	} else {
		svc, err := calendarService(application)
		if err != nil {
			return err
		}
		events, err = svc.Events(cmd.Context(), application.Config.Calendar.CalendarID, now, until)
		if err != nil {
			return err
		}
	}
	printEvents(cmd.OutOrStdout(), events)
	return nil
}

func printEvents(w io.Writer, events []calendar.Event) {
	if len(events) == 0 {
		fmt.Fprintln(w, "no events")
		return
	}
	for _, e := range events {
		when := e.Start.Local().Format("Mon Jan 2 15:04")
		if e.AllDay {
			when = e.Start.Format("Mon Jan 2") + " all day"
		}
		line := fmt.Sprintf("%-22s %s", when, e.Summary)
		if e.Location != "" {
			line += " @ " + e.Location
		}
		fmt.Fprintln(w, line)
	}
}

func runCalendarSync(cmd *cobra.Command, args []string) error {
	application, err := openApp(false)
	if err != nil {
		return err
	}
	defer application.Close()

	svc, err := calendarService(application)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	calendarID := application.Config.Calendar.CalendarID
	syncOnce := func(ctx context.Context) error {
		events, err := svc.Sync(ctx, application.DB, calendarID, calendarFlags.days)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s synced %d events\n", time.Now().Format("15:04:05"), len(events))
		return nil
	}

	if err := syncOnce(cmd.Context()); err != nil {
		return err
	}
	if !calendarFlags.watch {
		return nil
	}

	schedule := application.Config.Calendar.SyncSchedule
	fmt.Fprintf(out, "watching on %q, interrupt to stop\n", schedule)
	return calendar.Watch(cmd.Context(), schedule, func(ctx context.Context) {
		if err := syncOnce(ctx); err != nil {
			application.Log.Error().Err(err).Msg("scheduled calendar sync")
			fmt.Fprintf(cmd.ErrOrStderr(), "sync failed: %v\n", err)
		}
	})
}

func openBrowser(u string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", u)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", u)
	default:
		cmd = exec.Command("xdg-open", u)
	}
	if err := cmd.Start(); err != nil {
		return err
	}
	go cmd.Wait()
	return nil
}
