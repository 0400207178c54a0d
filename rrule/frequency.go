package rrule

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// =============================================================================
// FREQUENCY
// =============================================================================

type Frequency int

const (
	Yearly Frequency = iota
	Monthly
	Weekly
	Daily
	Hourly
	Minutely
	Secondly
)

var frequencyNames = [...]string{
	Yearly:   "YEARLY",
	Monthly:  "MONTHLY",
	Weekly:   "WEEKLY",
	Daily:    "DAILY",
	Hourly:   "HOURLY",
	Minutely: "MINUTELY",
	Secondly: "SECONDLY",
}

func (f Frequency) String() string {
	if f < Yearly || f > Secondly {
		return fmt.Sprintf("Frequency(%d)", int(f))
	}
	return frequencyNames[f]
}

// ParseFrequency accepts the RFC 5545 names, case-insensitively.
func ParseFrequency(s string) (Frequency, error) {
	upper := strings.ToUpper(strings.TrimSpace(s))
	for i, name := range frequencyNames {
		if name == upper {
			return Frequency(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown frequency %q", ErrInvalidRule, s)
}

// =============================================================================
// WEEKDAYS - "MO", "+2TU", "-1FR"
// =============================================================================

var weekdayCodes = map[time.Weekday]string{
	time.Sunday:    "SU",
	time.Monday:    "MO",
	time.Tuesday:   "TU",
	time.Wednesday: "WE",
	time.Thursday:  "TH",
	time.Friday:    "FR",
	time.Saturday:  "SA",
}

// NWeekday is a BYDAY entry. N == 0 means every such weekday in the period;
// otherwise it is the Nth (negative counts from the end).
type NWeekday struct {
	N       int
	Weekday time.Weekday
}

// Every returns the entry matching all occurrences of wd.
func Every(wd time.Weekday) NWeekday { return NWeekday{Weekday: wd} }

// Nth returns the entry matching the nth occurrence of wd.
func Nth(n int, wd time.Weekday) NWeekday { return NWeekday{N: n, Weekday: wd} }

func (w NWeekday) String() string {
	if w.N == 0 {
		return WeekdayCode(w.Weekday)
	}
	return strconv.Itoa(w.N) + WeekdayCode(w.Weekday)
}

// WeekdayCode returns the two letter code for wd.
func WeekdayCode(wd time.Weekday) string {
	return weekdayCodes[wd]
}

// ParseWeekday parses a two letter code ("MO").
func ParseWeekday(s string) (time.Weekday, error) {
	upper := strings.ToUpper(strings.TrimSpace(s))
	for wd, code := range weekdayCodes {
		if code == upper {
			return wd, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown weekday %q", ErrInvalidRule, s)
}

// ParseNWeekday parses "MO", "2TU", "+2TU" or "-1FR".
func ParseNWeekday(s string) (NWeekday, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return NWeekday{}, fmt.Errorf("%w: invalid weekday %q", ErrInvalidRule, s)
	}

	wd, err := ParseWeekday(s[len(s)-2:])
	if err != nil {
		return NWeekday{}, err
	}

	prefix := s[:len(s)-2]
	if prefix == "" {
		return Every(wd), nil
	}
	n, err := strconv.Atoi(prefix)
	if err != nil || n == 0 {
		return NWeekday{}, fmt.Errorf("%w: invalid weekday ordinal %q", ErrInvalidRule, s)
	}
	return Nth(n, wd), nil
}
