package storage

import (
	"context"

	"tail-risk-lab/internal/domain"
)

// PnLStore provides access to pnl_points storage.
type PnLStore interface {
	// InsertBulk adds multiple points atomically. Fails entire batch on duplicate
	// (scenario_id, date, asset_id) or invalid point.
	InsertBulk(ctx context.Context, points []*domain.PnLPoint) error

	// GetByScenario retrieves all points of a scenario, ordered by date then asset.
	// Returns ErrNotFound if the scenario has no points.
	GetByScenario(ctx context.Context, scenarioID string) ([]*domain.PnLPoint, error)

	// GetByDateRange retrieves points of a scenario within [start, end] (inclusive).
	GetByDateRange(ctx context.Context, scenarioID string, start, end domain.Date) ([]*domain.PnLPoint, error)

	// ListScenarios returns the distinct scenario ids, ascending.
	ListScenarios(ctx context.Context) ([]string, error)
}
