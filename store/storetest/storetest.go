// Package storetest runs the rrule.Store contract against an implementation.
package storetest

import (
	"context"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/recurrence/core"
	"github.com/warp/recurrence/rrule"
)

var start = time.Date(2025, time.January, 1, 9, 0, 0, 0, time.UTC)

// Rule returns a validated rule for fixtures.
func Rule(t *testing.T) rrule.RRule[core.Validated] {
	t.Helper()
	rule, err := rrule.Validate(rrule.New(rrule.Monthly, start).
		WithByMonthDay(core.NewValue(15), core.NewRange(-3, -1)).
		WithByHour(core.NewRange(9, 17)))
	require.NoError(t, err)
	return rule
}

// ZonedRule returns a daily 09:00 rule in America/New_York starting in
// winter, so matching in summer depends on the zone rather than the offset.
func ZonedRule(t *testing.T) rrule.RRule[core.Validated] {
	t.Helper()
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	rule, err := rrule.Validate(rrule.New(rrule.Daily, time.Date(2025, time.January, 6, 9, 0, 0, 0, ny)))
	require.NoError(t, err)
	return rule
}

// SubsecondRule returns a secondly rule whose bounds carry fractional seconds.
func SubsecondRule(t *testing.T) rrule.RRule[core.Validated] {
	t.Helper()
	rule, err := rrule.Validate(rrule.New(rrule.Secondly, time.Date(2025, time.January, 6, 9, 0, 0, 500_000_000, time.UTC)).
		WithUntil(time.Date(2025, time.January, 6, 9, 0, 10, 250_000_000, time.UTC)))
	require.NoError(t, err)
	return rule
}

// Run exercises every Store method. newStore must return an empty store.
func Run(t *testing.T, newStore func(t *testing.T) rrule.Store) {
	t.Run("save and get", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		rule := Rule(t)

		require.NoError(t, s.Save(ctx, rrule.Definition{ID: "r1", Name: "Payroll", Rule: rule}))

		got, err := s.Get(ctx, "r1")
		require.NoError(t, err)
		assert.Equal(t, "r1", got.ID)
		assert.Equal(t, "Payroll", got.Name)
		assert.Equal(t, 1, got.Version)
		assert.False(t, got.CreatedAt.IsZero())
		assert.Equal(t, "validated", got.Rule.Stage())

		// stored rule matches the same dates
		for day := 1; day <= 31; day++ {
			at := time.Date(2025, time.March, day, 10, 0, 0, 0, time.UTC)
			assert.Equal(t, rrule.Matches(rule, at), rrule.Matches(got.Rule, at), "day %d", day)
		}
	})

	t.Run("save again bumps version", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		require.NoError(t, s.Save(ctx, rrule.Definition{ID: "r1", Name: "Old", Rule: Rule(t)}))
		first, err := s.Get(ctx, "r1")
		require.NoError(t, err)

		require.NoError(t, s.Save(ctx, rrule.Definition{ID: "r1", Name: "New", Rule: Rule(t)}))
		got, err := s.Get(ctx, "r1")
		require.NoError(t, err)

		assert.Equal(t, "New", got.Name)
		assert.Equal(t, 2, got.Version)
		assert.True(t, got.CreatedAt.Equal(first.CreatedAt))
	})

	t.Run("get missing", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Get(context.Background(), "nope")
		assert.ErrorIs(t, err, rrule.ErrRuleNotFound)
		assert.True(t, rrule.IsNotFound(err))
	})

	t.Run("list ordered by name", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		for id, name := range map[string]string{"a": "Zulu", "b": "Alpha", "c": "Mike"} {
			require.NoError(t, s.Save(ctx, rrule.Definition{ID: id, Name: name, Rule: Rule(t)}))
		}

		defs, err := s.List(ctx)
		require.NoError(t, err)
		require.Len(t, defs, 3)
		assert.Equal(t, []string{"Alpha", "Mike", "Zulu"}, []string{defs[0].Name, defs[1].Name, defs[2].Name})
	})

	t.Run("list empty", func(t *testing.T) {
		defs, err := newStore(t).List(context.Background())
		require.NoError(t, err)
		assert.Empty(t, defs)
	})

	t.Run("delete", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		require.NoError(t, s.Save(ctx, rrule.Definition{ID: "r1", Name: "Payroll", Rule: Rule(t)}))
		require.NoError(t, s.Delete(ctx, "r1"))

		_, err := s.Get(ctx, "r1")
		assert.ErrorIs(t, err, rrule.ErrRuleNotFound)
		assert.ErrorIs(t, s.Delete(ctx, "r1"), rrule.ErrRuleNotFound)
	})

	t.Run("stored rule matches the same instants", func(t *testing.T) {
		ny, err := time.LoadLocation("America/New_York")
		require.NoError(t, err)

		tests := []struct {
			name  string
			rule  rrule.RRule[core.Validated]
			times []time.Time
		}{
			{
				name: "named zone across DST",
				rule: ZonedRule(t),
				times: []time.Time{
					time.Date(2025, time.January, 7, 9, 0, 0, 0, ny),
					time.Date(2025, time.March, 10, 9, 0, 0, 0, ny),
					time.Date(2025, time.July, 7, 9, 0, 0, 0, ny),
					time.Date(2025, time.July, 7, 8, 0, 0, 0, ny),
					time.Date(2025, time.November, 3, 9, 0, 0, 0, ny),
				},
			},
			{
				name: "fractional seconds",
				rule: SubsecondRule(t),
				times: []time.Time{
					time.Date(2025, time.January, 6, 9, 0, 0, 100_000_000, time.UTC),
					time.Date(2025, time.January, 6, 9, 0, 0, 500_000_000, time.UTC),
					time.Date(2025, time.January, 6, 9, 0, 5, 0, time.UTC),
					time.Date(2025, time.January, 6, 9, 0, 10, 200_000_000, time.UTC),
					time.Date(2025, time.January, 6, 9, 0, 10, 300_000_000, time.UTC),
				},
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				s := newStore(t)
				ctx := context.Background()

				// GIVEN: A rule whose meaning depends on its zone or sub-second bounds
				// WHEN: It is saved and read back
				// THEN: It matches exactly the instants the original matches
				require.NoError(t, s.Save(ctx, rrule.Definition{ID: "r1", Name: tt.name, Rule: tt.rule}))
				got, err := s.Get(ctx, "r1")
				require.NoError(t, err)

				assert.True(t, got.Rule.Equal(tt.rule))
				assert.Equal(t, tt.rule.DtStart().Location().String(), got.Rule.DtStart().Location().String())
				for _, at := range tt.times {
					assert.Equal(t, rrule.Matches(tt.rule, at), rrule.Matches(got.Rule, at), "at %s", at.Format(time.RFC3339Nano))
				}
			})
		}

		// the fixtures only prove something if the instants disagree
		assert.True(t, rrule.Matches(ZonedRule(t), time.Date(2025, time.July, 7, 9, 0, 0, 0, ny)))
		assert.False(t, rrule.Matches(ZonedRule(t), time.Date(2025, time.July, 7, 8, 0, 0, 0, ny)))
		assert.False(t, rrule.Matches(SubsecondRule(t), time.Date(2025, time.January, 6, 9, 0, 0, 100_000_000, time.UTC)))
		assert.False(t, rrule.Matches(SubsecondRule(t), time.Date(2025, time.January, 6, 9, 0, 10, 300_000_000, time.UTC)))
	})
}
