/*
presets.go - Named rule registration and lookup

PURPOSE:
  Common schedules ("every weekday", "last Friday of the month") are
  registered by name so the API and callers can start from them instead of
  spelling every field.

HOW IT WORKS:
  1. A preset is a function from dtstart to an unvalidated rule
  2. Built-ins are registered in init(); callers may add their own
  3. Lookup returns the unvalidated rule; the caller still validates it

USAGE:
  rule, err := rrule.LookupPreset("last-friday", dtStart)
  if err != nil {
      return err
  }
  validated, err := rrule.Validate(rule)

SEE ALSO:
  - rule.go: Builders used by the presets
*/
package rrule

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/warp/recurrence/core"
)

// Preset builds a rule anchored at dtStart.
type Preset func(dtStart time.Time) RRule[core.Unvalidated]

// =============================================================================
// PRESET REGISTRY
// =============================================================================

var (
	presetRegistry = make(map[string]Preset)
	presetMu       sync.RWMutex
)

// RegisterPreset adds or replaces a named preset.
func RegisterPreset(name string, p Preset) {
	presetMu.Lock()
	defer presetMu.Unlock()
	presetRegistry[name] = p
}

// LookupPreset builds the named preset. Returns ErrPresetNotFound for
// unknown names.
func LookupPreset(name string, dtStart time.Time) (RRule[core.Unvalidated], error) {
	presetMu.RLock()
	p, ok := presetRegistry[name]
	presetMu.RUnlock()

	if !ok {
		return RRule[core.Unvalidated]{}, fmt.Errorf("%w: %s", ErrPresetNotFound, name)
	}
	return p(dtStart), nil
}

// Presets returns all registered names, sorted.
func Presets() []string {
	presetMu.RLock()
	defer presetMu.RUnlock()

	names := make([]string, 0, len(presetRegistry))
	for name := range presetRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// =============================================================================
// BUILT-IN PRESETS
// =============================================================================

func init() {
	RegisterPreset("weekdays", func(start time.Time) RRule[core.Unvalidated] {
		return New(Weekly, start).WithByWeekday(
			Every(time.Monday), Every(time.Tuesday), Every(time.Wednesday),
			Every(time.Thursday), Every(time.Friday),
		)
	})
	RegisterPreset("weekends", func(start time.Time) RRule[core.Unvalidated] {
		return New(Weekly, start).WithByWeekday(Every(time.Saturday), Every(time.Sunday))
	})
	RegisterPreset("first-monday", func(start time.Time) RRule[core.Unvalidated] {
		return New(Monthly, start).WithByWeekday(Nth(1, time.Monday))
	})
	RegisterPreset("last-friday", func(start time.Time) RRule[core.Unvalidated] {
		return New(Monthly, start).WithByWeekday(Nth(-1, time.Friday))
	})
	RegisterPreset("month-end", func(start time.Time) RRule[core.Unvalidated] {
		return New(Monthly, start).WithByMonthDay(core.NewValue(-1))
	})
	RegisterPreset("quarter-start", func(start time.Time) RRule[core.Unvalidated] {
		return New(Yearly, start).
			WithByMonth(core.NewValue(1), core.NewValue(4), core.NewValue(7), core.NewValue(10)).
			WithByMonthDay(core.NewValue(1))
	})
	RegisterPreset("payday-15-and-last", func(start time.Time) RRule[core.Unvalidated] {
		return New(Monthly, start).WithByMonthDay(core.NewValue(15), core.NewValue(-1))
	})
}
