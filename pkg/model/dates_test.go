package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMidnight(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)

	in := time.Date(2025, 3, 10, 23, 45, 12, 500, loc)
	got := Midnight(in)

	// 23:45 at UTC-3 is already the next day in UTC.
	assert.Equal(t, time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC), got)
	assert.Equal(t, time.UTC, got.Location())
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-06-15")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseDate("15/06/2025")
	assert.Error(t, err)
}

func TestDaysUntil(t *testing.T) {
	today := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 0, DaysUntil(today, today))
	assert.Equal(t, 2, DaysUntil(today, today.AddDate(0, 0, 2)))
	assert.Equal(t, -3, DaysUntil(today, today.AddDate(0, 0, -3)))
}

func TestNextOccurrence(t *testing.T) {
	d := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, d.AddDate(0, 0, 7), NextOccurrence(d, RecurrenceWeekly))
	// AddDate normalizes Jan 31 + 1 month to Mar 3 (or Mar 2 on leap years).
	assert.Equal(t, d.AddDate(0, 1, 0), NextOccurrence(d, RecurrenceMonthly))
	assert.Equal(t, d, NextOccurrence(d, RecurrenceOnce))
}
