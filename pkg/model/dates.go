package model

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-date wire format used by alerts and the CLI.
const DateLayout = "2006-01-02"

// Midnight truncates t to the start of its day in UTC. Alert evaluation
// compares calendar dates only, never times of day.
func Midnight(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

// DaysUntil returns the whole number of days from today until target. Both
// arguments must be midnight-normalized; the result is negative when target
// is in the past.
func DaysUntil(today, target time.Time) int {
	return int(target.Sub(today).Hours() / 24)
}

// NextOccurrence advances a payment date by one recurrence interval: seven
// days for weekly, one calendar month for monthly. One-off reminders do not
// advance.
func NextOccurrence(d time.Time, r Recurrence) time.Time {
	switch r {
	case RecurrenceWeekly:
		return d.AddDate(0, 0, 7)
	case RecurrenceMonthly:
		return d.AddDate(0, 1, 0)
	default:
		return d
	}
}
