package rrule

import (
	"time"

	"github.com/warp/recurrence/core"
)

// =============================================================================
// MATCHING - Does a date satisfy a validated rule's filters?
// =============================================================================
//
// Matches evaluates the BY* filters against a single instant. Filters that
// only make sense over the generated occurrence stream (by_set_pos, count,
// interval) are not evaluated here.
//
// Unset filters fall back to dtstart the way RFC 5545 expands them:
//   YEARLY  with no day filter  -> month and day of dtstart
//   MONTHLY with no day filter  -> day of dtstart
//   WEEKLY  with no by_weekday  -> weekday of dtstart
//   by_hour/by_minute/by_second -> dtstart's clock when coarser than the unit

// Matches reports whether t satisfies r. t is compared in dtstart's location.
// The zero rule matches nothing.
func Matches(r RRule[core.Validated], t time.Time) bool {
	if r.IsZero() {
		return false
	}
	f := r.f
	t = t.In(f.dtStart.Location())

	if t.Before(f.dtStart) {
		return false
	}
	if f.until != nil && t.After(*f.until) {
		return false
	}

	f = withDefaults(f)

	if len(f.byMonth) > 0 && !core.ContainsAny(f.byMonth, int(t.Month())) {
		return false
	}
	if len(f.byMonthDay) > 0 && !matchesMonthDay(f.byMonthDay, t) {
		return false
	}
	if len(f.byYearDay) > 0 && !matchesYearDay(f.byYearDay, t) {
		return false
	}
	if len(f.byWeekNo) > 0 && !matchesWeekNo(f.byWeekNo, t, f.weekStart) {
		return false
	}
	if len(f.byWeekday) > 0 && !matchesWeekday(f, t) {
		return false
	}
	if len(f.byHour) > 0 && !core.ContainsAny(f.byHour, t.Hour()) {
		return false
	}
	if len(f.byMinute) > 0 && !core.ContainsAny(f.byMinute, t.Minute()) {
		return false
	}
	if len(f.bySecond) > 0 && !core.ContainsAny(f.bySecond, t.Second()) {
		return false
	}
	return true
}

// MatchesAll filters times down to those matching r, preserving order.
func MatchesAll(r RRule[core.Validated], times []time.Time) []time.Time {
	var out []time.Time
	for _, t := range times {
		if Matches(r, t) {
			out = append(out, t)
		}
	}
	return out
}

func withDefaults(f fields) fields {
	start := f.dtStart
	noDayFilter := len(f.byWeekNo) == 0 && len(f.byYearDay) == 0 &&
		len(f.byMonthDay) == 0 && len(f.byWeekday) == 0

	switch f.freq {
	case Yearly:
		if noDayFilter {
			if len(f.byMonth) == 0 {
				f.byMonth = Field{core.NewValue(int(start.Month()))}
			}
			f.byMonthDay = Field{core.NewValue(start.Day())}
		}
	case Monthly:
		if noDayFilter {
			f.byMonthDay = Field{core.NewValue(start.Day())}
		}
	case Weekly:
		if len(f.byWeekday) == 0 {
			f.byWeekday = []NWeekday{Every(start.Weekday())}
		}
	}

	if f.freq < Hourly && len(f.byHour) == 0 {
		f.byHour = Field{core.NewValue(start.Hour())}
	}
	if f.freq < Minutely && len(f.byMinute) == 0 {
		f.byMinute = Field{core.NewValue(start.Minute())}
	}
	if f.freq < Secondly && len(f.bySecond) == 0 {
		f.bySecond = Field{core.NewValue(start.Second())}
	}
	return f
}

func matchesMonthDay(list Field, t time.Time) bool {
	day := t.Day()
	return core.ContainsAny(list, day) ||
		core.ContainsAny(list, day-daysInMonth(t.Year(), t.Month())-1)
}

func matchesYearDay(list Field, t time.Time) bool {
	yd := t.YearDay()
	return core.ContainsAny(list, yd) ||
		core.ContainsAny(list, yd-daysInYear(t.Year())-1)
}

func matchesWeekNo(list Field, t time.Time, wkst time.Weekday) bool {
	week, total := weekNumber(t, wkst)
	return core.ContainsAny(list, week) || core.ContainsAny(list, week-total-1)
}

func matchesWeekday(f fields, t time.Time) bool {
	for _, wd := range f.byWeekday {
		if wd.Weekday != t.Weekday() {
			continue
		}
		if wd.N == 0 {
			return true
		}

		var idx, total int
		if f.freq == Monthly || len(f.byMonth) > 0 {
			idx, total = ordinalIn(t.Day(), daysInMonth(t.Year(), t.Month()))
		} else {
			idx, total = ordinalIn(t.YearDay(), daysInYear(t.Year()))
		}
		if wd.N == idx || wd.N == idx-total-1 {
			return true
		}
	}
	return false
}

// ordinalIn returns which occurrence of its weekday day is within a period of
// length days, and how many such weekdays the period has.
func ordinalIn(day, length int) (idx, total int) {
	idx = (day-1)/7 + 1
	total = idx + (length-day)/7
	return idx, total
}

// =============================================================================
// CALENDAR HELPERS
// =============================================================================

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func daysInYear(year int) int {
	return time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC).YearDay()
}

// weekNumber returns the RFC 5545 week of t and the number of weeks in that
// week-numbering year. Week 1 is the first week with at least four days in
// the calendar year, weeks starting on wkst.
func weekNumber(t time.Time, wkst time.Weekday) (week, total int) {
	year := t.Year()
	yd0 := t.YearDay() - 1
	first, next := weekLayout(year, wkst)

	switch {
	case yd0 < first:
		pFirst, pNext := weekLayout(year-1, wkst)
		return (yd0+daysInYear(year-1)-pFirst)/7 + 1, (pNext - pFirst) / 7
	case yd0 >= next:
		nFirst, nNext := weekLayout(year+1, wkst)
		return (yd0-daysInYear(year)-nFirst)/7 + 1, (nNext - nFirst) / 7
	}
	return (yd0-first)/7 + 1, (next - first) / 7
}

// weekLayout returns the zero-based year-day on which week 1 of year starts
// and the one on which week 1 of the following year starts, both relative to
// January 1 of year.
func weekLayout(year int, wkst time.Weekday) (first, next int) {
	jan1 := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC).Weekday()
	n := daysInYear(year)
	first = week1Offset(jan1, wkst)
	next = n + week1Offset(time.Weekday((int(jan1)+n)%7), wkst)
	return first, next
}

func week1Offset(jan1, wkst time.Weekday) int {
	off := (int(jan1) - int(wkst) + 7) % 7
	if off <= 3 {
		return -off
	}
	return 7 - off
}
