package model

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseClock parses an "HH:MM" duration into minutes. Empty input is zero.
func ParseClock(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	h, m, ok := strings.Cut(s, ":")
	if !ok {
		return 0, fmt.Errorf("invalid clock value %q: want HH:MM", s)
	}
	if !digits(h) {
		return 0, fmt.Errorf("invalid hours in %q", s)
	}
	if !digits(m) || len(m) > 2 {
		return 0, fmt.Errorf("invalid minutes in %q", s)
	}
	hours, err := strconv.Atoi(h)
	if err != nil {
		return 0, fmt.Errorf("invalid hours in %q", s)
	}
	minutes, _ := strconv.Atoi(m)
	if minutes > 59 {
		return 0, fmt.Errorf("invalid minutes in %q", s)
	}
	return hours*60 + minutes, nil
}

func digits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// FormatClock renders minutes as zero-padded "HH:MM".
func FormatClock(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// AddClock adds n minutes to an "HH:MM" value, carrying into hours.
// An unset or unparsable value is treated as "00:00".
func AddClock(s string, n int) string {
	base, err := ParseClock(s)
	if err != nil {
		base = 0
	}
	return FormatClock(base + n)
}

// ValidTimeOfDay reports whether s is a wall-clock time "HH:MM" in 00:00..23:59.
func ValidTimeOfDay(s string) bool {
	m, err := ParseClock(s)
	if err != nil || len(s) != 5 {
		return false
	}
	return m < 24*60
}
