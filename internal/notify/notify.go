package notify

import (
	"fmt"
	"os/exec"
	"strconv"
	"time"
)

// Urgency levels for notifications
type Urgency int

const (
	UrgencyLow Urgency = iota
	UrgencyNormal
	UrgencyCritical
)

// Notification represents a desktop notification
type Notification struct {
	Title   string
	Body    string
	Urgency Urgency
	Timeout time.Duration
	Icon    string // Optional icon name
}

// Notifier sends desktop notifications through notify-send
type Notifier struct {
	enabled bool
	command string
}

// NewNotifier creates a new notifier
func NewNotifier(enabled bool) *Notifier {
	return &Notifier{
		enabled: enabled,
		command: "notify-send",
	}
}

// SetEnabled enables or disables notifications
func (n *Notifier) SetEnabled(enabled bool) {
	n.enabled = enabled
}

// IsEnabled returns whether notifications are enabled
func (n *Notifier) IsEnabled() bool {
	return n != nil && n.enabled
}

// Args returns the notify-send arguments for notification
func (n *Notifier) Args(notification Notification) []string {
	args := []string{}

	switch notification.Urgency {
	case UrgencyLow:
		args = append(args, "-u", "low")
	case UrgencyCritical:
		args = append(args, "-u", "critical")
	default:
		args = append(args, "-u", "normal")
	}

	// milliseconds
	if notification.Timeout > 0 {
		args = append(args, "-t", strconv.Itoa(int(notification.Timeout.Milliseconds())))
	}

	if notification.Icon != "" {
		args = append(args, "-i", notification.Icon)
	}

	args = append(args, "-a", "focusboard")

	args = append(args, notification.Title)
	if notification.Body != "" {
		args = append(args, notification.Body)
	}
	return args
}

// Send sends a desktop notification. A nil or disabled notifier does nothing.
func (n *Notifier) Send(notification Notification) error {
	if !n.IsEnabled() {
		return nil
	}
	cmd := exec.Command(n.command, n.Args(notification)...)
	return cmd.Run()
}

// SendBreakComplete announces the end of a focus break
func (n *Notifier) SendBreakComplete() error {
	return n.Send(Notification{
		Title:   "Break Over",
		Body:    "Time to get back to work!",
		Urgency: UrgencyNormal,
		Timeout: 10 * time.Second,
		Icon:    "appointment-soon-symbolic",
	})
}

// SendNoActiveTasks explains why a focus session could not start
func (n *Notifier) SendNoActiveTasks(columnTitle string) error {
	return n.Send(Notification{
		Title:   "Nothing to focus on",
		Body:    fmt.Sprintf("Move a task into %q first.", columnTitle),
		Urgency: UrgencyLow,
		Timeout: 3 * time.Second,
		Icon:    "dialog-information-symbolic",
	})
}

// SendSessionSummary reports a finished focus session
func (n *Notifier) SendSessionSummary(taskTitle string, minutes int) error {
	body := fmt.Sprintf("%d min credited", minutes)
	if taskTitle != "" {
		body = fmt.Sprintf("%s: %s", taskTitle, body)
	}
	return n.Send(Notification{
		Title:   "Focus session finished",
		Body:    body,
		Urgency: UrgencyNormal,
		Timeout: 5 * time.Second,
		Icon:    "alarm-symbolic",
	})
}
