package model

import (
	"strconv"
	"strings"
	"time"
)

// Closed marks a weekday without an opening interval.
const Closed = "closed"

// WeeklySchedule maps a weekday index (0=Sunday .. 6=Saturday) to either
// Closed or a single "HH:MM-HH:MM" interval.
//
// A nil schedule means the partner never configured opening hours and is
// treated as always open. This is a deliberate permissive default for
// partners onboarded without hours; do not tighten it silently.
type WeeklySchedule map[int]string

// IsOpenAt reports whether the schedule is open at the given instant.
// Both interval boundaries are inclusive: a partner with "09:00-18:00"
// is open at exactly 09:00 and at exactly 18:00.
func (s WeeklySchedule) IsOpenAt(now time.Time) bool {
	if s == nil {
		return true
	}
	entry, ok := s[int(now.Weekday())]
	if !ok || entry == Closed {
		return false
	}
	open, close, err := parseInterval(entry)
	if err != nil {
		// malformed entry counts as closed
		return false
	}
	minutes := now.Hour()*60 + now.Minute()
	return minutes >= open && minutes <= close
}

// parseInterval parses "HH:MM-HH:MM" into minute-of-day offsets.
func parseInterval(s string) (open, close int, err error) {
	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 {
		return 0, 0, errInvalidInterval(s)
	}
	open, err = parseMinutes(parts[0])
	if err != nil {
		return 0, 0, err
	}
	close, err = parseMinutes(parts[1])
	if err != nil {
		return 0, 0, err
	}
	return open, close, nil
}

func parseMinutes(s string) (int, error) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return 0, errInvalidInterval(s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, err
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, err
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, errInvalidInterval(s)
	}
	return h*60 + m, nil
}

type errInvalidInterval string

func (e errInvalidInterval) Error() string { return "invalid opening interval: " + string(e) }
