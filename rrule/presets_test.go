package rrule_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/recurrence/core"
	"github.com/warp/recurrence/rrule"
)

func TestPresets_BuiltInsAreListed(t *testing.T) {
	names := rrule.Presets()

	for _, want := range []string{
		"first-monday", "last-friday", "month-end", "payday-15-and-last",
		"quarter-start", "weekdays", "weekends",
	} {
		assert.Contains(t, names, want)
	}
	assert.IsNonDecreasing(t, names)
}

func TestPresets_EveryBuiltInValidates(t *testing.T) {
	for _, name := range rrule.Presets() {
		t.Run(name, func(t *testing.T) {
			rule, err := rrule.LookupPreset(name, jan1)
			require.NoError(t, err)

			_, err = rrule.Validate(rule)
			assert.NoError(t, err)
		})
	}
}

func TestPresets_Lookup(t *testing.T) {
	rule, err := rrule.LookupPreset("payday-15-and-last", jan1)
	require.NoError(t, err)
	assert.Equal(t, "unvalidated", rule.Stage())

	validated := rrule.MustValidate(rule)
	assert.True(t, rrule.Matches(validated, at(2025, time.January, 15, 9)))
	assert.True(t, rrule.Matches(validated, at(2025, time.January, 31, 9)))
	assert.False(t, rrule.Matches(validated, at(2025, time.January, 16, 9)))
}

func TestPresets_Weekdays(t *testing.T) {
	rule, err := rrule.LookupPreset("weekdays", jan1)
	require.NoError(t, err)
	validated := rrule.MustValidate(rule)

	// 2025-01-06 is a Monday.
	for d := 0; d < 7; d++ {
		day := at(2025, time.January, 6+d, 9)
		want := day.Weekday() != time.Saturday && day.Weekday() != time.Sunday
		assert.Equal(t, want, rrule.Matches(validated, day), day.Weekday().String())
	}
}

func TestPresets_NotFound(t *testing.T) {
	rule, err := rrule.LookupPreset("every-blue-moon", jan1)
	require.Error(t, err)
	assert.ErrorIs(t, err, rrule.ErrPresetNotFound)
	assert.True(t, rrule.IsNotFound(err))
	assert.True(t, rule.IsZero())
}

func TestPresets_Register(t *testing.T) {
	rrule.RegisterPreset("test-midmonth", func(start time.Time) rrule.RRule[core.Unvalidated] {
		return rrule.New(rrule.Monthly, start).WithByMonthDay(core.NewValue(14), core.NewValue(15), core.NewValue(16))
	})

	rule, err := rrule.LookupPreset("test-midmonth", jan1)
	require.NoError(t, err)
	assert.Len(t, rule.ByMonthDay(), 3)
	assert.Contains(t, rrule.Presets(), "test-midmonth")
}
