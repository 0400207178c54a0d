package rrule

import (
	"errors"
	"fmt"
	"time"

	"github.com/warp/recurrence/core"
)

// =============================================================================
// VALIDATE - The only way to obtain RRule[core.Validated]
// =============================================================================

// Validate checks every consistency rule and, if all pass, returns the same
// rule tagged as validated. All violations are reported together; use
// ValidationErrors to list them.
func Validate(r RRule[core.Unvalidated]) (RRule[core.Validated], error) {
	var v validator
	v.check(r.f)
	if err := errors.Join(v.errs...); err != nil {
		return RRule[core.Validated]{}, err
	}
	return RRule[core.Validated]{f: r.f.clone()}, nil
}

// MustValidate is Validate for rules known to be valid, such as presets in
// tests. It panics on error.
func MustValidate(r RRule[core.Unvalidated]) RRule[core.Validated] {
	v, err := Validate(r)
	if err != nil {
		panic(err)
	}
	return v
}

// =============================================================================
// FIELD BOUNDS
// =============================================================================

// bounds describes the legal scalars of a BY* field. Signed fields accept
// [-max, -1] and [1, max]; unsigned ones accept [min, max].
type bounds struct {
	name   string
	min    int
	max    int
	signed bool
}

var (
	monthBounds    = bounds{name: "by_month", min: 1, max: 12}
	monthDayBounds = bounds{name: "by_month_day", max: 31, signed: true}
	yearDayBounds  = bounds{name: "by_year_day", max: 366, signed: true}
	weekNoBounds   = bounds{name: "by_week_no", max: 53, signed: true}
	hourBounds     = bounds{name: "by_hour", min: 0, max: 23}
	minuteBounds   = bounds{name: "by_minute", min: 0, max: 59}
	secondBounds   = bounds{name: "by_second", min: 0, max: 60}
	setPosBounds   = bounds{name: "by_set_pos", max: 366, signed: true}
)

func (b bounds) allows(n int) bool {
	if b.signed {
		return n != 0 && -b.max <= n && n <= b.max
	}
	return b.min <= n && n <= b.max
}

func (b bounds) String() string {
	if b.signed {
		return fmt.Sprintf("-%d..-1 or 1..%d", b.max, b.max)
	}
	return fmt.Sprintf("%d..%d", b.min, b.max)
}

// =============================================================================
// VALIDATOR
// =============================================================================

type validator struct {
	errs []error
}

func (v *validator) fail(field, code, format string, args ...any) {
	v.errs = append(v.errs, &ValidationError{
		Field:   field,
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	})
}

func (v *validator) check(f fields) {
	if f.freq < Yearly || f.freq > Secondly {
		v.fail("freq", CodeOutOfRange, "unknown frequency %d", int(f.freq))
	}
	if f.dtStart.IsZero() {
		v.fail("dtstart", CodeRequired, "start date is required")
	}
	if f.interval < 1 {
		v.fail("interval", CodeOutOfRange, "interval must be at least 1, got %d", f.interval)
	}
	if !validWeekday(f.weekStart) {
		v.fail("wkst", CodeOutOfRange, "unknown weekday %d", int(f.weekStart))
	}

	if f.count != nil && *f.count == 0 {
		v.fail("count", CodeOutOfRange, "count must be at least 1")
	}
	if f.count != nil && f.until != nil {
		v.fail("until", CodeConflict, "count and until cannot both be set")
	}
	if f.until != nil && !f.dtStart.IsZero() && f.until.Before(f.dtStart) {
		v.fail("until", CodeOutOfRange, "until %s is before dtstart %s",
			f.until.Format(time.RFC3339), f.dtStart.Format(time.RFC3339))
	}

	v.checkField(monthBounds, f.byMonth)
	v.checkField(monthDayBounds, f.byMonthDay)
	v.checkField(yearDayBounds, f.byYearDay)
	v.checkField(weekNoBounds, f.byWeekNo)
	v.checkField(hourBounds, f.byHour)
	v.checkField(minuteBounds, f.byMinute)
	v.checkField(secondBounds, f.bySecond)
	v.checkField(setPosBounds, f.bySetPos)

	v.checkFrequency(f)
	v.checkWeekdays(f)

	if len(f.bySetPos) > 0 && !hasDateOrTimeFilter(f) {
		v.fail("by_set_pos", CodeIncompatible, "by_set_pos requires another by_* field")
	}
}

func (v *validator) checkField(b bounds, list Field) {
	for i, rv := range list {
		if rv == nil {
			v.fail(b.name, CodeRequired, "item %d is empty", i)
			continue
		}
		lo, hi := core.Bounds(rv)
		if !b.allows(lo) || !b.allows(hi) {
			v.fail(b.name, CodeOutOfRange, "item %d (%s) must be within %s", i, rv, b)
			continue
		}
		if rv.IsRange() && lo >= hi {
			v.fail(b.name, CodeOutOfRange, "item %d (%s): range start must be less than end", i, rv)
			continue
		}
		if b.signed && lo < 0 && hi > 0 {
			v.fail(b.name, CodeStraddlesZero, "item %d (%s) mixes negative and positive positions", i, rv)
		}
	}
}

func (v *validator) checkFrequency(f fields) {
	if len(f.byWeekNo) > 0 && f.freq != Yearly {
		v.fail("by_week_no", CodeIncompatible, "by_week_no is only allowed with YEARLY, not %s", f.freq)
	}
	if len(f.byYearDay) > 0 && (f.freq == Daily || f.freq == Weekly || f.freq == Monthly) {
		v.fail("by_year_day", CodeIncompatible, "by_year_day is not allowed with %s", f.freq)
	}
	if len(f.byMonthDay) > 0 && f.freq == Weekly {
		v.fail("by_month_day", CodeIncompatible, "by_month_day is not allowed with WEEKLY")
	}
}

func (v *validator) checkWeekdays(f fields) {
	for i, wd := range f.byWeekday {
		if !validWeekday(wd.Weekday) {
			v.fail("by_weekday", CodeOutOfRange, "item %d: unknown weekday %d", i, int(wd.Weekday))
			continue
		}
		if wd.N == 0 {
			continue
		}

		switch f.freq {
		case Monthly:
			if wd.N < -5 || wd.N > 5 {
				v.fail("by_weekday", CodeOutOfRange, "item %d (%s): ordinal must be within -5..5 for MONTHLY", i, wd)
			}
		case Yearly:
			if len(f.byWeekNo) > 0 {
				v.fail("by_weekday", CodeIncompatible, "item %d (%s): ordinal weekdays cannot be combined with by_week_no", i, wd)
			} else if wd.N < -53 || wd.N > 53 {
				v.fail("by_weekday", CodeOutOfRange, "item %d (%s): ordinal must be within -53..53 for YEARLY", i, wd)
			}
		default:
			v.fail("by_weekday", CodeIncompatible, "item %d (%s): ordinal weekdays need MONTHLY or YEARLY, not %s", i, wd, f.freq)
		}
	}
}

func hasDateOrTimeFilter(f fields) bool {
	return len(f.byMonth) > 0 || len(f.byMonthDay) > 0 || len(f.byYearDay) > 0 ||
		len(f.byWeekNo) > 0 || len(f.byWeekday) > 0 || len(f.byHour) > 0 ||
		len(f.byMinute) > 0 || len(f.bySecond) > 0
}

func validWeekday(wd time.Weekday) bool {
	return wd >= time.Sunday && wd <= time.Saturday
}
