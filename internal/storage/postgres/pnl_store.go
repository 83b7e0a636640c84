package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"tail-risk-lab/internal/domain"
	"tail-risk-lab/internal/storage"
)

// PnLStore implements storage.PnLStore using PostgreSQL.
type PnLStore struct {
	pool *Pool
}

// NewPnLStore creates a new PnLStore.
func NewPnLStore(pool *Pool) *PnLStore {
	return &PnLStore{pool: pool}
}

// Compile-time interface check.
var _ storage.PnLStore = (*PnLStore)(nil)

// InsertBulk adds multiple points atomically. Fails entire batch on any duplicate.
func (s *PnLStore) InsertBulk(ctx context.Context, points []*domain.PnLPoint) error {
	if len(points) == 0 {
		return nil
	}
	if err := storage.ValidateBatch(points); err != nil {
		return err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO pnl_points (scenario_id, trade_date, asset_id, pnl)
		VALUES ($1, $2, $3, $4)
	`

	for _, p := range points {
		_, err := tx.Exec(ctx, query, p.ScenarioID, p.Date.Time(), p.AssetID, p.PnL)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert pnl point in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// GetByScenario retrieves all points of a scenario, ordered by date then asset.
func (s *PnLStore) GetByScenario(ctx context.Context, scenarioID string) ([]*domain.PnLPoint, error) {
	query := `
		SELECT scenario_id, trade_date, asset_id, pnl
		FROM pnl_points
		WHERE scenario_id = $1
		ORDER BY trade_date ASC, asset_id ASC
	`

	rows, err := s.pool.Query(ctx, query, scenarioID)
	if err != nil {
		return nil, fmt.Errorf("get pnl points by scenario: %w", err)
	}
	defer rows.Close()

	points, err := scanPnLPoints(rows)
	if err != nil {
		return nil, err
	}
	if len(points) == 0 {
		return nil, storage.ErrNotFound
	}
	return points, nil
}

// GetByDateRange retrieves points of a scenario within [start, end] (inclusive).
func (s *PnLStore) GetByDateRange(ctx context.Context, scenarioID string, start, end domain.Date) ([]*domain.PnLPoint, error) {
	query := `
		SELECT scenario_id, trade_date, asset_id, pnl
		FROM pnl_points
		WHERE scenario_id = $1 AND trade_date >= $2 AND trade_date <= $3
		ORDER BY trade_date ASC, asset_id ASC
	`

	rows, err := s.pool.Query(ctx, query, scenarioID, start.Time(), end.Time())
	if err != nil {
		return nil, fmt.Errorf("get pnl points by date range: %w", err)
	}
	defer rows.Close()

	return scanPnLPoints(rows)
}

// ListScenarios returns the distinct scenario ids, ascending.
func (s *PnLStore) ListScenarios(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT DISTINCT scenario_id FROM pnl_points ORDER BY scenario_id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list scenarios: %w", err)
	}
	defer rows.Close()

	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan scenario ids: %w", err)
	}
	return ids, nil
}

// scanPnLPoints scans multiple rows into a slice of PnLPoint.
func scanPnLPoints(rows pgx.Rows) ([]*domain.PnLPoint, error) {
	var points []*domain.PnLPoint

	for rows.Next() {
		var p domain.PnLPoint
		var tradeDate time.Time

		if err := rows.Scan(&p.ScenarioID, &tradeDate, &p.AssetID, &p.PnL); err != nil {
			return nil, fmt.Errorf("scan pnl point: %w", err)
		}
		p.Date = domain.DateOf(tradeDate)
		points = append(points, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pnl points: %w", err)
	}

	return points, nil
}
