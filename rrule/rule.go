/*
Package rrule provides the recurrence rule model built on core's primitives.

PURPOSE:
  An RRule describes "repeat every N units, on these days/positions". Rules
  are assembled from user input, checked for consistency once, and only then
  handed to anything that evaluates them.

VALIDATION STAGES:
  RRule is parameterized by core.Unvalidated or core.Validated.

    New(...)            -> RRule[core.Unvalidated]
    r.WithCount(...)    -> RRule[core.Unvalidated]   (any edit, any stage)
    Validate(r)         -> RRule[core.Validated], error
    Matches(v, t)       accepts RRule[core.Validated] only

  Fields are unexported, so a populated RRule[core.Validated] can only come
  out of Validate. The stage field also makes the two instantiations
  structurally different, which rules out converting one into the other.

USAGE:
  rule := rrule.New(rrule.Monthly, dtStart).
      WithByWeekday(rrule.Nth(-1, time.Friday))

  validated, err := rrule.Validate(rule)
  if err != nil {
      return err
  }
  rrule.Matches(validated, someDay)

SEE ALSO:
  - validate.go: Consistency rules
  - match.go: Date filtering for validated rules
  - presets.go: Named rules
  - store.go: Persistence interface
*/
package rrule

import (
	"slices"
	"time"

	"github.com/warp/recurrence/core"
)

// =============================================================================
// RRULE - Rule holder tagged with its validation stage
// =============================================================================

// Field is the list type used by every numeric BY* field.
type Field = []core.RangeOrValue[int]

// RRule holds a recurrence rule. The zero value is not useful; build rules
// with New.
type RRule[S core.Stage] struct {
	f     fields
	stage S
}

type fields struct {
	freq      Frequency
	interval  int
	count     *uint32
	until     *time.Time
	dtStart   time.Time
	weekStart time.Weekday

	byMonth    Field
	byMonthDay Field
	byYearDay  Field
	byWeekNo   Field
	byWeekday  []NWeekday
	byHour     Field
	byMinute   Field
	bySecond   Field
	bySetPos   Field
}

func (f fields) clone() fields {
	out := f
	if f.count != nil {
		c := *f.count
		out.count = &c
	}
	if f.until != nil {
		u := *f.until
		out.until = &u
	}
	out.byMonth = slices.Clone(f.byMonth)
	out.byMonthDay = slices.Clone(f.byMonthDay)
	out.byYearDay = slices.Clone(f.byYearDay)
	out.byWeekNo = slices.Clone(f.byWeekNo)
	out.byWeekday = slices.Clone(f.byWeekday)
	out.byHour = slices.Clone(f.byHour)
	out.byMinute = slices.Clone(f.byMinute)
	out.bySecond = slices.Clone(f.bySecond)
	out.bySetPos = slices.Clone(f.bySetPos)
	return out
}

// New starts an unvalidated rule with interval 1 and weeks starting Monday.
func New(freq Frequency, dtStart time.Time) RRule[core.Unvalidated] {
	return RRule[core.Unvalidated]{f: fields{
		freq:      freq,
		interval:  1,
		dtStart:   dtStart,
		weekStart: time.Monday,
	}}
}

// edit copies r into a new unvalidated rule. Every builder goes through here,
// so editing a validated rule never changes it and always yields a rule that
// must be validated again.
func (r RRule[S]) edit(apply func(*fields)) RRule[core.Unvalidated] {
	f := r.f.clone()
	apply(&f)
	return RRule[core.Unvalidated]{f: f}
}

// =============================================================================
// BUILDERS - Always return RRule[core.Unvalidated]
// =============================================================================

func (r RRule[S]) WithFreq(freq Frequency) RRule[core.Unvalidated] {
	return r.edit(func(f *fields) { f.freq = freq })
}

func (r RRule[S]) WithInterval(n int) RRule[core.Unvalidated] {
	return r.edit(func(f *fields) { f.interval = n })
}

func (r RRule[S]) WithCount(n uint32) RRule[core.Unvalidated] {
	return r.edit(func(f *fields) { f.count = &n })
}

func (r RRule[S]) WithoutCount() RRule[core.Unvalidated] {
	return r.edit(func(f *fields) { f.count = nil })
}

func (r RRule[S]) WithUntil(t time.Time) RRule[core.Unvalidated] {
	return r.edit(func(f *fields) { f.until = &t })
}

func (r RRule[S]) WithoutUntil() RRule[core.Unvalidated] {
	return r.edit(func(f *fields) { f.until = nil })
}

func (r RRule[S]) WithDtStart(t time.Time) RRule[core.Unvalidated] {
	return r.edit(func(f *fields) { f.dtStart = t })
}

func (r RRule[S]) WithWeekStart(wd time.Weekday) RRule[core.Unvalidated] {
	return r.edit(func(f *fields) { f.weekStart = wd })
}

func (r RRule[S]) WithByMonth(v ...core.RangeOrValue[int]) RRule[core.Unvalidated] {
	return r.edit(func(f *fields) { f.byMonth = slices.Clone(v) })
}

func (r RRule[S]) WithByMonthDay(v ...core.RangeOrValue[int]) RRule[core.Unvalidated] {
	return r.edit(func(f *fields) { f.byMonthDay = slices.Clone(v) })
}

func (r RRule[S]) WithByYearDay(v ...core.RangeOrValue[int]) RRule[core.Unvalidated] {
	return r.edit(func(f *fields) { f.byYearDay = slices.Clone(v) })
}

func (r RRule[S]) WithByWeekNo(v ...core.RangeOrValue[int]) RRule[core.Unvalidated] {
	return r.edit(func(f *fields) { f.byWeekNo = slices.Clone(v) })
}

func (r RRule[S]) WithByWeekday(v ...NWeekday) RRule[core.Unvalidated] {
	return r.edit(func(f *fields) { f.byWeekday = slices.Clone(v) })
}

func (r RRule[S]) WithByHour(v ...core.RangeOrValue[int]) RRule[core.Unvalidated] {
	return r.edit(func(f *fields) { f.byHour = slices.Clone(v) })
}

func (r RRule[S]) WithByMinute(v ...core.RangeOrValue[int]) RRule[core.Unvalidated] {
	return r.edit(func(f *fields) { f.byMinute = slices.Clone(v) })
}

func (r RRule[S]) WithBySecond(v ...core.RangeOrValue[int]) RRule[core.Unvalidated] {
	return r.edit(func(f *fields) { f.bySecond = slices.Clone(v) })
}

func (r RRule[S]) WithBySetPos(v ...core.RangeOrValue[int]) RRule[core.Unvalidated] {
	return r.edit(func(f *fields) { f.bySetPos = slices.Clone(v) })
}

// =============================================================================
// ACCESSORS - Slices are copies
// =============================================================================

func (r RRule[S]) Freq() Frequency            { return r.f.freq }
func (r RRule[S]) Interval() int              { return r.f.interval }
func (r RRule[S]) DtStart() time.Time         { return r.f.dtStart }
func (r RRule[S]) WeekStart() time.Weekday    { return r.f.weekStart }
func (r RRule[S]) ByMonth() Field             { return slices.Clone(r.f.byMonth) }
func (r RRule[S]) ByMonthDay() Field          { return slices.Clone(r.f.byMonthDay) }
func (r RRule[S]) ByYearDay() Field           { return slices.Clone(r.f.byYearDay) }
func (r RRule[S]) ByWeekNo() Field            { return slices.Clone(r.f.byWeekNo) }
func (r RRule[S]) ByWeekday() []NWeekday      { return slices.Clone(r.f.byWeekday) }
func (r RRule[S]) ByHour() Field              { return slices.Clone(r.f.byHour) }
func (r RRule[S]) ByMinute() Field            { return slices.Clone(r.f.byMinute) }
func (r RRule[S]) BySecond() Field            { return slices.Clone(r.f.bySecond) }
func (r RRule[S]) BySetPos() Field            { return slices.Clone(r.f.bySetPos) }

// Count returns the occurrence limit, if any.
func (r RRule[S]) Count() (uint32, bool) {
	if r.f.count == nil {
		return 0, false
	}
	return *r.f.count, true
}

// Until returns the inclusive end bound, if any.
func (r RRule[S]) Until() (time.Time, bool) {
	if r.f.until == nil {
		return time.Time{}, false
	}
	return *r.f.until, true
}

// Stage returns "unvalidated" or "validated".
func (r RRule[S]) Stage() string {
	return core.StageName[S]()
}

// IsZero reports whether r is the zero value rather than a built rule.
func (r RRule[S]) IsZero() bool {
	return r.f.interval == 0 && r.f.dtStart.IsZero()
}

// Equal compares the rule content, ignoring the stage.
func (r RRule[S]) Equal(other RRule[S]) bool {
	a, b := r.f, other.f
	ac, aok := r.Count()
	bc, bok := other.Count()
	au, uok := r.Until()
	bu, vok := other.Until()
	return a.freq == b.freq &&
		a.interval == b.interval &&
		a.dtStart.Equal(b.dtStart) &&
		a.weekStart == b.weekStart &&
		aok == bok && ac == bc &&
		uok == vok && au.Equal(bu) &&
		core.EqualLists(a.byMonth, b.byMonth) &&
		core.EqualLists(a.byMonthDay, b.byMonthDay) &&
		core.EqualLists(a.byYearDay, b.byYearDay) &&
		core.EqualLists(a.byWeekNo, b.byWeekNo) &&
		slices.Equal(a.byWeekday, b.byWeekday) &&
		core.EqualLists(a.byHour, b.byHour) &&
		core.EqualLists(a.byMinute, b.byMinute) &&
		core.EqualLists(a.bySecond, b.bySecond) &&
		core.EqualLists(a.bySetPos, b.bySetPos)
}
