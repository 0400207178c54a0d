package rrule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWeekNumber_MatchesISOWithMondayStart(t *testing.T) {
	day := time.Date(1999, time.December, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2031, time.February, 1, 0, 0, 0, 0, time.UTC)

	for ; day.Before(end); day = day.AddDate(0, 0, 1) {
		_, isoWeek := day.ISOWeek()
		week, total := weekNumber(day, time.Monday)
		if !assert.Equal(t, isoWeek, week, day.Format(time.DateOnly)) {
			return
		}
		assert.Contains(t, []int{52, 53}, total, day.Format(time.DateOnly))
	}
}

func TestWeekNumber_SundayStart(t *testing.T) {
	// 2025-01-01 is a Wednesday, so with Sunday weeks, week 1 starts
	// 2024-12-29 and 2025-01-05 opens week 2.
	week, _ := weekNumber(time.Date(2024, time.December, 29, 0, 0, 0, 0, time.UTC), time.Sunday)
	assert.Equal(t, 1, week)

	week, _ = weekNumber(time.Date(2025, time.January, 5, 0, 0, 0, 0, time.UTC), time.Sunday)
	assert.Equal(t, 2, week)
}

func TestOrdinalIn(t *testing.T) {
	// day 31 of a 31-day month is the 5th and last of its weekday
	idx, total := ordinalIn(31, 31)
	assert.Equal(t, 5, idx)
	assert.Equal(t, 5, total)

	idx, total = ordinalIn(3, 28)
	assert.Equal(t, 1, idx)
	assert.Equal(t, 4, total)
}

func TestCalendarHelpers(t *testing.T) {
	assert.Equal(t, 29, daysInMonth(2024, time.February))
	assert.Equal(t, 28, daysInMonth(2100, time.February))
	assert.Equal(t, 31, daysInMonth(2025, time.December))
	assert.Equal(t, 366, daysInYear(2000))
	assert.Equal(t, 365, daysInYear(2025))
}
