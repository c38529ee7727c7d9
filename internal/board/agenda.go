package board

import (
	"slices"
	"strings"
	"time"

	"github.com/dori/focusboard/internal/model"
)

// AgendaItem is a scheduled task placed on a day
type AgendaItem struct {
	BoardID   string
	Task      model.Task
	Date      time.Time
	StartTime string
	EndTime   string
}

// ScheduledBetween returns the tasks of snap scheduled on a day in [from, to],
// ordered by date then start time. Tasks without a start time sort first.
func ScheduledBetween(boardID string, snap model.Snapshot, from, to time.Time) []AgendaItem {
	from = truncateDay(from)
	to = truncateDay(to)
	var out []AgendaItem
	for _, t := range snap.Tasks {
		sched := t.Schedule()
		if sched == nil {
			continue
		}
		day, err := time.ParseInLocation("2006-01-02", sched.Date, from.Location())
		if err != nil || day.Before(from) || day.After(to) {
			continue
		}
		out = append(out, AgendaItem{
			BoardID:   boardID,
			Task:      cloneTask(t),
			Date:      day,
			StartTime: sched.StartTime,
			EndTime:   sched.EndTime,
		})
	}
	SortAgenda(out)
	return out
}

// SortAgenda orders items by date, then start time
func SortAgenda(items []AgendaItem) {
	slices.SortStableFunc(items, func(a, b AgendaItem) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		return strings.Compare(a.StartTime, b.StartTime)
	})
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
