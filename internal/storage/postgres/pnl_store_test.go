package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tail-risk-lab/internal/domain"
	"tail-risk-lab/internal/storage"
)

func day(n int) domain.Date {
	return domain.NewDate(2024, time.March, 1).AddDays(n)
}

func TestPnLStore_InsertAndGetByScenario(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewPnLStore(pool)

	points := []*domain.PnLPoint{
		{ScenarioID: "before", Date: day(1), AssetID: "rates", PnL: -1250.5},
		{ScenarioID: "before", Date: day(0), AssetID: "rates", PnL: 310.25},
		{ScenarioID: "before", Date: day(0), AssetID: "equity", PnL: 0},
		{ScenarioID: "after", Date: day(0), AssetID: "hedge", PnL: 42},
	}

	err := store.InsertBulk(ctx, points)
	require.NoError(t, err)

	got, err := store.GetByScenario(ctx, "before")
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, day(0), got[0].Date)
	assert.Equal(t, "equity", got[0].AssetID)
	assert.Equal(t, 0.0, got[0].PnL)
	assert.Equal(t, "rates", got[1].AssetID)
	assert.InDelta(t, 310.25, got[1].PnL, 1e-9)
	assert.Equal(t, day(1), got[2].Date)
	assert.InDelta(t, -1250.5, got[2].PnL, 1e-9)
	assert.Equal(t, "before", got[2].ScenarioID)
}

func TestPnLStore_GetByScenario_NotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewPnLStore(pool)

	_, err := store.GetByScenario(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestPnLStore_InsertBulkDuplicate(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewPnLStore(pool)

	err := store.InsertBulk(ctx, []*domain.PnLPoint{
		{ScenarioID: "s", Date: day(0), AssetID: "a", PnL: 1},
	})
	require.NoError(t, err)

	// Second batch carries one new and one existing key
	err = store.InsertBulk(ctx, []*domain.PnLPoint{
		{ScenarioID: "s", Date: day(1), AssetID: "a", PnL: 2},
		{ScenarioID: "s", Date: day(0), AssetID: "a", PnL: 3},
	})
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)

	got, err := store.GetByScenario(ctx, "s")
	require.NoError(t, err)
	assert.Len(t, got, 1, "failed batch must roll back")
}

func TestPnLStore_InsertBulkInvalid(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewPnLStore(pool)

	err := store.InsertBulk(context.Background(), []*domain.PnLPoint{
		{ScenarioID: "", Date: day(0), AssetID: "a", PnL: 1},
	})
	assert.ErrorIs(t, err, storage.ErrInvalidInput)
}

func TestPnLStore_GetByDateRange(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewPnLStore(pool)

	var points []*domain.PnLPoint
	for i := 0; i < 5; i++ {
		points = append(points, &domain.PnLPoint{ScenarioID: "s", Date: day(i), AssetID: "a", PnL: float64(i)})
	}
	require.NoError(t, store.InsertBulk(ctx, points))

	got, err := store.GetByDateRange(ctx, "s", day(1), day(3))
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, day(1), got[0].Date)
	assert.Equal(t, day(3), got[2].Date)

	got, err = store.GetByDateRange(ctx, "s", day(10), day(20))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestPnLStore_ListScenarios(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewPnLStore(pool)

	require.NoError(t, store.InsertBulk(ctx, []*domain.PnLPoint{
		{ScenarioID: "zeta", Date: day(0), AssetID: "a"},
		{ScenarioID: "alpha", Date: day(0), AssetID: "a"},
		{ScenarioID: "alpha", Date: day(1), AssetID: "a"},
	}))

	ids, err := store.ListScenarios(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "zeta"}, ids)
}
