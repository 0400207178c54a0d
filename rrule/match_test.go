package rrule_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/warp/recurrence/core"
	"github.com/warp/recurrence/rrule"
)

func at(year int, month time.Month, day, hour int) time.Time {
	return time.Date(year, month, day, hour, 0, 0, 0, time.UTC)
}

func TestMatches_LastFridayOfMonth(t *testing.T) {
	rule := rrule.MustValidate(rrule.New(rrule.Monthly, jan1).WithByWeekday(rrule.Nth(-1, time.Friday)))

	assert.True(t, rrule.Matches(rule, at(2025, time.January, 31, 9)))
	assert.True(t, rrule.Matches(rule, at(2025, time.February, 28, 9)))
	assert.False(t, rrule.Matches(rule, at(2025, time.January, 24, 9)), "not the last Friday")
	assert.False(t, rrule.Matches(rule, at(2025, time.January, 30, 9)), "not a Friday")
	assert.False(t, rrule.Matches(rule, at(2025, time.January, 31, 10)), "clock defaults to dtstart")
}

func TestMatches_FirstMonday(t *testing.T) {
	rule := rrule.MustValidate(rrule.New(rrule.Monthly, jan1).WithByWeekday(rrule.Nth(1, time.Monday)))

	assert.True(t, rrule.Matches(rule, at(2025, time.February, 3, 9)))
	assert.False(t, rrule.Matches(rule, at(2025, time.February, 10, 9)))
}

func TestMatches_NegativeMonthDay(t *testing.T) {
	rule := rrule.MustValidate(rrule.New(rrule.Monthly, jan1).WithByMonthDay(core.NewValue(-1)))

	assert.True(t, rrule.Matches(rule, at(2025, time.February, 28, 9)))
	assert.True(t, rrule.Matches(rule, at(2028, time.February, 29, 9)))
	assert.False(t, rrule.Matches(rule, at(2028, time.February, 28, 9)))
	assert.True(t, rrule.Matches(rule, at(2025, time.April, 30, 9)))
}

func TestMatches_MonthDayRange(t *testing.T) {
	rule := rrule.MustValidate(rrule.New(rrule.Monthly, jan1).WithByMonthDay(core.MustParseInt[int]("10-15")))

	for day := 1; day <= 31; day++ {
		want := day >= 10 && day <= 15
		assert.Equal(t, want, rrule.Matches(rule, at(2025, time.March, day, 9)), "day %d", day)
	}
}

func TestMatches_WeeklyDefaultsToStartWeekday(t *testing.T) {
	// jan1 is a Wednesday
	rule := rrule.MustValidate(rrule.New(rrule.Weekly, jan1))

	assert.True(t, rrule.Matches(rule, at(2025, time.January, 8, 9)))
	assert.False(t, rrule.Matches(rule, at(2025, time.January, 9, 9)))
}

func TestMatches_YearlyDefaults(t *testing.T) {
	rule := rrule.MustValidate(rrule.New(rrule.Yearly, jan1))
	assert.True(t, rrule.Matches(rule, at(2026, time.January, 1, 9)))
	assert.False(t, rrule.Matches(rule, at(2026, time.February, 1, 9)))

	march := rrule.MustValidate(rrule.New(rrule.Yearly, jan1).WithByMonth(core.NewValue(3)))
	assert.True(t, rrule.Matches(march, at(2025, time.March, 1, 9)))
	assert.False(t, rrule.Matches(march, at(2025, time.March, 2, 9)))
}

func TestMatches_YearDayAndWeekNo(t *testing.T) {
	lastDay := rrule.MustValidate(rrule.New(rrule.Yearly, jan1).WithByYearDay(core.NewValue(-1)))
	assert.True(t, rrule.Matches(lastDay, at(2025, time.December, 31, 9)))
	assert.False(t, rrule.Matches(lastDay, at(2025, time.December, 30, 9)))

	// Week 1 of 2026 starts on Monday 2025-12-29.
	week1Monday := rrule.MustValidate(rrule.New(rrule.Yearly, jan1).
		WithByWeekNo(core.NewValue(1)).
		WithByWeekday(rrule.Every(time.Monday)))
	assert.True(t, rrule.Matches(week1Monday, at(2025, time.December, 29, 9)))
	assert.True(t, rrule.Matches(week1Monday, at(2027, time.January, 4, 9)))
	assert.False(t, rrule.Matches(week1Monday, at(2026, time.January, 5, 9)))
}

func TestMatches_YearlyNthWeekdayInMonth(t *testing.T) {
	// Thanksgiving: fourth Thursday of November.
	rule := rrule.MustValidate(rrule.New(rrule.Yearly, jan1).
		WithByMonth(core.NewValue(11)).
		WithByWeekday(rrule.Nth(4, time.Thursday)))

	assert.True(t, rrule.Matches(rule, at(2025, time.November, 27, 9)))
	assert.False(t, rrule.Matches(rule, at(2025, time.November, 20, 9)))
}

func TestMatches_YearlyNthWeekdayInYear(t *testing.T) {
	// 20th Monday of the year.
	rule := rrule.MustValidate(rrule.New(rrule.Yearly, jan1).WithByWeekday(rrule.Nth(20, time.Monday)))

	assert.True(t, rrule.Matches(rule, at(2025, time.May, 19, 9)))
	assert.False(t, rrule.Matches(rule, at(2025, time.May, 12, 9)))
}

func TestMatches_TimeOfDayRanges(t *testing.T) {
	rule := rrule.MustValidate(rrule.New(rrule.Daily, jan1).WithByHour(core.MustParseInt[int]("9-17")))

	assert.True(t, rrule.Matches(rule, at(2025, time.January, 2, 12)))
	assert.True(t, rrule.Matches(rule, at(2025, time.January, 2, 17)))
	assert.False(t, rrule.Matches(rule, at(2025, time.January, 2, 18)))
	assert.False(t, rrule.Matches(rule, at(2025, time.January, 2, 12).Add(30*time.Minute)), "minute defaults to dtstart")
}

func TestMatches_Bounds(t *testing.T) {
	rule := rrule.MustValidate(rrule.New(rrule.Daily, jan1).WithUntil(jan1.AddDate(0, 0, 10)))

	assert.False(t, rrule.Matches(rule, jan1.AddDate(0, 0, -1)), "before dtstart")
	assert.True(t, rrule.Matches(rule, jan1))
	assert.True(t, rrule.Matches(rule, jan1.AddDate(0, 0, 10)), "until is inclusive")
	assert.False(t, rrule.Matches(rule, jan1.AddDate(0, 0, 11)))
}

func TestMatches_UsesStartLocation(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	start := time.Date(2025, time.January, 1, 8, 0, 0, 0, tokyo)
	rule := rrule.MustValidate(rrule.New(rrule.Daily, start))

	// 23:00 UTC on Jan 1 is 08:00 on Jan 2 in Tokyo.
	assert.True(t, rrule.Matches(rule, time.Date(2025, time.January, 1, 23, 0, 0, 0, time.UTC)))
	assert.False(t, rrule.Matches(rule, time.Date(2025, time.January, 2, 8, 0, 0, 0, time.UTC)))
}

func TestMatchesAll(t *testing.T) {
	rule := rrule.MustValidate(rrule.New(rrule.Weekly, jan1).WithByWeekday(rrule.Every(time.Saturday), rrule.Every(time.Sunday)))

	var days []time.Time
	for d := 0; d < 14; d++ {
		days = append(days, jan1.AddDate(0, 0, d))
	}

	got := rrule.MatchesAll(rule, days)
	assert.Equal(t, []time.Time{
		at(2025, time.January, 4, 9),
		at(2025, time.January, 5, 9),
		at(2025, time.January, 11, 9),
		at(2025, time.January, 12, 9),
	}, got)
}

func TestMatches_ZeroRuleMatchesNothing(t *testing.T) {
	var zero rrule.RRule[core.Validated]
	assert.True(t, zero.IsZero())
	assert.False(t, rrule.Matches(zero, time.Time{}))
	assert.False(t, rrule.Matches(zero, jan1))
}
