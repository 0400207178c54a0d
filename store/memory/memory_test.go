package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/recurrence/rrule"
	"github.com/warp/recurrence/store/memory"
	"github.com/warp/recurrence/store/storetest"
)

func TestMemory_Contract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) rrule.Store {
		return memory.New()
	})
}

func TestMemory_RejectsMissingID(t *testing.T) {
	err := memory.New().Save(context.Background(), rrule.Definition{Rule: storetest.Rule(t)})
	assert.ErrorIs(t, err, rrule.ErrInvalidRule)
}

func TestMemory_Reset(t *testing.T) {
	s := memory.New()
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, rrule.Definition{ID: "r1", Rule: storetest.Rule(t)}))

	s.Reset()

	defs, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, defs)
}

func TestMemory_RejectsZeroRule(t *testing.T) {
	err := memory.New().Save(context.Background(), rrule.Definition{ID: "r1"})
	assert.ErrorIs(t, err, rrule.ErrInvalidRule)
}
