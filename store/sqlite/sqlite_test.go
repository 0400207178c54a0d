package sqlite_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/recurrence/rrule"
	"github.com/warp/recurrence/store/sqlite"
	"github.com/warp/recurrence/store/storetest"
)

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLite_Contract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) rrule.Store {
		return newStore(t)
	})
}

func TestSQLite_PersistsAcrossReopen(t *testing.T) {
	path := t.TempDir() + "/rules.db"
	ctx := context.Background()

	store, err := sqlite.New(path)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, rrule.Definition{ID: "r1", Name: "Payroll", Rule: storetest.Rule(t)}))
	require.NoError(t, store.Close())

	store, err = sqlite.New(path)
	require.NoError(t, err)
	defer store.Close()

	def, err := store.Get(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "Payroll", def.Name)
	assert.Equal(t, storetest.Rule(t).ByHour(), def.Rule.ByHour())
}

func TestSQLite_Reset(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, rrule.Definition{ID: "r1", Rule: storetest.Rule(t)}))

	require.NoError(t, store.Reset(ctx))

	defs, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, defs)
}

func TestSQLite_RejectsMissingID(t *testing.T) {
	err := newStore(t).Save(context.Background(), rrule.Definition{Rule: storetest.Rule(t)})
	assert.ErrorIs(t, err, rrule.ErrInvalidRule)
}

func TestSQLite_CorruptTimestampIsAnError(t *testing.T) {
	path := t.TempDir() + "/rules.db"
	ctx := context.Background()

	store, err := sqlite.New(path)
	require.NoError(t, err)
	defer store.Close()
	require.NoError(t, store.Save(ctx, rrule.Definition{ID: "r1", Name: "Payroll", Rule: storetest.Rule(t)}))

	// GIVEN: A row whose created_at was edited outside the store
	raw, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer raw.Close()
	_, err = raw.ExecContext(ctx, "UPDATE rules SET created_at = 'last tuesday' WHERE id = 'r1'")
	require.NoError(t, err)

	// WHEN: Reading it back
	_, err = store.Get(ctx, "r1")

	// THEN: The row is reported instead of loading with a zero time
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stored rule r1")
	assert.Contains(t, err.Error(), "created_at")

	_, err = store.List(ctx)
	assert.Error(t, err)
}
