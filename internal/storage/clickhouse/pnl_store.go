package clickhouse

import (
	"context"
	"fmt"
	"time"

	"tail-risk-lab/internal/domain"
	"tail-risk-lab/internal/storage"
)

// PnLStore implements storage.PnLStore using ClickHouse.
type PnLStore struct {
	conn *Conn
}

// NewPnLStore creates a new PnLStore.
func NewPnLStore(conn *Conn) *PnLStore {
	return &PnLStore{conn: conn}
}

// Compile-time interface check.
var _ storage.PnLStore = (*PnLStore)(nil)

// InsertBulk adds multiple points. Fails entire batch on duplicate (scenario_id, trade_date, asset_id).
func (s *PnLStore) InsertBulk(ctx context.Context, points []*domain.PnLPoint) error {
	if len(points) == 0 {
		return nil
	}
	if err := storage.ValidateBatch(points); err != nil {
		return err
	}

	// Check for duplicates against existing DB rows, one lookup per scenario
	byScenario := make(map[string][]*domain.PnLPoint)
	for _, p := range points {
		byScenario[p.ScenarioID] = append(byScenario[p.ScenarioID], p)
	}
	for scenarioID, batch := range byScenario {
		existing, err := s.existingKeys(ctx, scenarioID)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		for _, p := range batch {
			if _, ok := existing[storage.KeyOf(p)]; ok {
				return storage.ErrDuplicateKey
			}
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO pnl_points (scenario_id, trade_date, asset_id, pnl)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, p := range points {
		if err := batch.Append(p.ScenarioID, p.Date.Time(), p.AssetID, p.PnL); err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByScenario retrieves all points of a scenario, ordered by date then asset.
func (s *PnLStore) GetByScenario(ctx context.Context, scenarioID string) ([]*domain.PnLPoint, error) {
	query := `
		SELECT scenario_id, trade_date, asset_id, pnl
		FROM pnl_points
		WHERE scenario_id = ?
		ORDER BY trade_date ASC, asset_id ASC
	`

	rows, err := s.conn.Query(ctx, query, scenarioID)
	if err != nil {
		return nil, fmt.Errorf("query by scenario: %w", err)
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
		WHERE scenario_id = ? AND trade_date >= ? AND trade_date <= ?
		ORDER BY trade_date ASC, asset_id ASC
	`

	rows, err := s.conn.Query(ctx, query, scenarioID, start.Time(), end.Time())
	if err != nil {
		return nil, fmt.Errorf("query by date range: %w", err)
	}
	defer rows.Close()

	return scanPnLPoints(rows)
}

// ListScenarios returns the distinct scenario ids, ascending.
func (s *PnLStore) ListScenarios(ctx context.Context) ([]string, error) {
	rows, err := s.conn.Query(ctx, `SELECT DISTINCT scenario_id FROM pnl_points ORDER BY scenario_id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list scenarios: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan scenario id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scenario ids: %w", err)
	}
	return ids, nil
}

// existingKeys loads the stored keys of one scenario.
func (s *PnLStore) existingKeys(ctx context.Context, scenarioID string) (map[storage.PointKey]struct{}, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT trade_date, asset_id FROM pnl_points
		WHERE scenario_id = ?
	`, scenarioID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	keys := make(map[storage.PointKey]struct{})
	for rows.Next() {
		var tradeDate time.Time
		var assetID string
		if err := rows.Scan(&tradeDate, &assetID); err != nil {
			return nil, err
		}
		keys[storage.PointKey{ScenarioID: scenarioID, Date: domain.DateOf(tradeDate), AssetID: assetID}] = struct{}{}
	}
	return keys, rows.Err()
}

// scanPnLPoints scans multiple rows.
func scanPnLPoints(rows chRows) ([]*domain.PnLPoint, error) {
	var points []*domain.PnLPoint

	for rows.Next() {
		var p domain.PnLPoint
		var tradeDate time.Time

		if err := rows.Scan(&p.ScenarioID, &tradeDate, &p.AssetID, &p.PnL); err != nil {
			return nil, fmt.Errorf("scan pnl point row: %w", err)
		}

		p.Date = domain.DateOf(tradeDate)
		points = append(points, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pnl point rows: %w", err)
	}

	return points, nil
}
