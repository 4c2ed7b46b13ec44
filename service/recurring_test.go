package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextDueDate(t *testing.T) {
	assert.Equal(t, "2026-09-12", NextDueDate("2026-09-05", "weekly"))
	assert.Equal(t, "2026-10-05", NextDueDate("2026-09-05", "monthly"))
	assert.Equal(t, "2027-09-05", NextDueDate("2026-09-05", "yearly"))

	// month-end normalization follows time.AddDate
	assert.Equal(t, "2026-03-03", NextDueDate("2026-01-31", "monthly"))

	// leap day yearly step
	assert.Equal(t, "2029-03-01", NextDueDate("2028-02-29", "yearly"))
}

func TestNextDueDate_Invalid(t *testing.T) {
	assert.Equal(t, "", NextDueDate("", "monthly"))
	assert.Equal(t, "", NextDueDate("not-a-date", "monthly"))
	assert.Equal(t, "", NextDueDate("2026/09/05", "monthly"))
	assert.Equal(t, "", NextDueDate("2026-09-05", "daily"))
	assert.Equal(t, "", NextDueDate("2026-09-05", ""))
}

func TestNextDueDate_AlwaysParseable(t *testing.T) {
	// every non-empty result parses back and lands strictly later
	starts := []string{"2026-01-01", "2026-01-31", "2026-02-28", "2026-12-31"}
	for _, start := range starts {
		for _, freq := range []string{"weekly", "monthly", "yearly"} {
			next := NextDueDate(start, freq)
			require.NotEmpty(t, next)
			startT, _ := time.ParseInLocation(DateLayout, start, time.Local)
			nextT, err := time.ParseInLocation(DateLayout, next, time.Local)
			require.NoError(t, err)
			assert.True(t, nextT.After(startT), "%s + %s = %s", start, freq, next)
		}
	}
}

func TestStartOfDay(t *testing.T) {
	ts := time.Date(2026, 8, 15, 17, 42, 13, 999, time.Local)
	got := StartOfDay(ts)
	assert.Equal(t, 2026, got.Year())
	assert.Equal(t, time.August, got.Month())
	assert.Equal(t, 15, got.Day())
	assert.Equal(t, 0, got.Hour())
	assert.Equal(t, 0, got.Minute())
	assert.Equal(t, 0, got.Second())
	assert.Equal(t, 0, got.Nanosecond())
}
