package model

import (
	"strings"
	"time"
)

// DateLayout is the wire format of scheduled dates.
const DateLayout = "2006-01-02"

var weekdays = map[string]time.Weekday{
	"sunday": time.Sunday, "sun": time.Sunday,
	"monday": time.Monday, "mon": time.Monday,
	"tuesday": time.Tuesday, "tue": time.Tuesday,
	"wednesday": time.Wednesday, "wed": time.Wednesday,
	"thursday": time.Thursday, "thu": time.Thursday,
	"friday": time.Friday, "fri": time.Friday,
	"saturday": time.Saturday, "sat": time.Saturday,
}

// ParseDate resolves a natural date ("today", "tomorrow", "fri", "nextweek")
// or an explicit date relative to now and returns it as YYYY-MM-DD.
func ParseDate(s string, now time.Time) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch s {
	case "":
		return "", false
	case "today":
		return today.Format(DateLayout), true
	case "tomorrow", "tom":
		return today.AddDate(0, 0, 1).Format(DateLayout), true
	case "nextweek":
		return today.AddDate(0, 0, 7).Format(DateLayout), true
	}

	if day, ok := weekdays[s]; ok {
		n := int(day - today.Weekday())
		if n <= 0 {
			n += 7
		}
		return today.AddDate(0, 0, n).Format(DateLayout), true
	}

	for _, layout := range []string{DateLayout, "01/02/2006", "Jan 2, 2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(DateLayout), true
		}
	}
	// month and day only: the current year
	if t, err := time.Parse("Jan 2", s); err == nil {
		return time.Date(now.Year(), t.Month(), t.Day(), 0, 0, 0, 0, now.Location()).Format(DateLayout), true
	}
	return "", false
}

// ParseTimeSpan splits "HH:MM-HH:MM" (or a lone "HH:MM") into start and end.
func ParseTimeSpan(s string) (start, end string, ok bool) {
	start, end, _ = strings.Cut(strings.TrimSpace(s), "-")
	if !ValidTimeOfDay(start) {
		return "", "", false
	}
	if end != "" && (!ValidTimeOfDay(end) || end < start) {
		return "", "", false
	}
	return start, end, true
}

// ParseSchedule reads "<date> [HH:MM-HH:MM]". Blank input means no schedule
// and returns (nil, true).
func ParseSchedule(input string, now time.Time) (*Schedule, bool) {
	fields := strings.Fields(input)
	switch len(fields) {
	case 0:
		return nil, true
	case 1, 2:
	default:
		return nil, false
	}
	date, ok := ParseDate(fields[0], now)
	if !ok {
		return nil, false
	}
	sched := &Schedule{Date: date}
	if len(fields) == 2 {
		if sched.StartTime, sched.EndTime, ok = ParseTimeSpan(fields[1]); !ok {
			return nil, false
		}
	}
	return sched, true
}

// String formats a schedule the way ParseSchedule reads it.
func (s Schedule) String() string {
	out := s.Date
	if s.StartTime != "" {
		out += " " + s.StartTime
		if s.EndTime != "" {
			out += "-" + s.EndTime
		}
	}
	return out
}
