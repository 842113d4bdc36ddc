package utils

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePhone(t *testing.T) {
	assert.True(t, ValidatePhone("+1 (555) 123-4567"))
	assert.True(t, ValidatePhone("555.123.4567"))
	assert.False(t, ValidatePhone("call me"))
	assert.False(t, ValidatePhone("+0123"))
}

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "+15551234567", NormalizePhone("(555) 123-4567"))
	assert.Equal(t, "+447911123456", NormalizePhone("+44 7911 123456"))
	assert.Equal(t, "+447911123456", NormalizePhone("447911123456"))
}

func TestAtClock(t *testing.T) {
	day := time.Date(2026, 5, 4, 15, 30, 0, 0, time.UTC)
	got, err := AtClock(day, "09:15")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 5, 4, 9, 15, 0, 0, time.UTC), got)

	_, err = AtClock(day, "9am")
	assert.Error(t, err)
}

func TestRelativeDay(t *testing.T) {
	now := time.Date(2026, 5, 4, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, "Today", RelativeDay(now, now.Add(-22*time.Hour)))
	assert.Equal(t, "Tomorrow", RelativeDay(now, now.Add(2*time.Hour)))
	assert.Equal(t, "Yesterday", RelativeDay(now, now.Add(-24*time.Hour)))
	assert.Equal(t, "in 3 days", RelativeDay(now, now.AddDate(0, 0, 3)))
	assert.Equal(t, "2 days ago", RelativeDay(now, now.AddDate(0, 0, -2)))
}

func TestRelativeDay_AcrossDSTChange(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// 2025-03-09 is only 23 hours long in New York.
	now := time.Date(2025, 3, 9, 9, 0, 0, 0, ny)
	appt := time.Date(2025, 3, 10, 10, 0, 0, 0, ny)
	assert.Equal(t, 1, DaysBetween(now, appt))
	assert.Equal(t, "Tomorrow", RelativeDay(now, appt))

	// 2025-11-02 is 25 hours long.
	now = time.Date(2025, 11, 1, 23, 30, 0, 0, ny)
	assert.Equal(t, "in 2 days", RelativeDay(now, time.Date(2025, 11, 3, 0, 15, 0, 0, ny)))
	assert.Equal(t, -1, DaysBetween(time.Date(2025, 3, 10, 0, 0, 0, 0, ny), time.Date(2025, 3, 9, 23, 0, 0, 0, ny)))
}

func TestParseDay(t *testing.T) {
	d, err := ParseDay("2026-01-31", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, 31, d.Day())

	_, err = ParseDay("31/01/2026", time.UTC)
	assert.Error(t, err)
}
