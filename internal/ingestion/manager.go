package ingestion

import (
	"context"
	"fmt"

	"tail-risk-lab/internal/storage"
)

// Manager moves scenarios from a source into storage.
// It enforces deterministic ordering and uses the storage layer for duplicate rejection.
type Manager struct {
	source PnLSource
	store  storage.PnLStore
}

// ManagerOptions contains configuration for creating a Manager.
type ManagerOptions struct {
	Source PnLSource
	Store  storage.PnLStore
}

// NewManager creates a new ingestion manager with the provided source and store.
func NewManager(opts ManagerOptions) *Manager {
	return &Manager{
		source: opts.Source,
		store:  opts.Store,
	}
}

// IngestScenario fetches one scenario from the source and stores it in a single
// bulk insert, ordered by (date, asset_id). Returns the number of stored points.
// A scenario that is already stored fails with storage.ErrDuplicateKey and writes nothing.
func (m *Manager) IngestScenario(ctx context.Context, scenarioID string) (int, error) {
	if m.source == nil || m.store == nil {
		return 0, nil
	}

	points, err := m.source.Fetch(ctx, scenarioID)
	if err != nil {
		return 0, err
	}
	if len(points) == 0 {
		return 0, nil
	}

	storage.SortPoints(points)

	if err := m.store.InsertBulk(ctx, points); err != nil {
		return 0, fmt.Errorf("store scenario %s: %w", scenarioID, err)
	}
	return len(points), nil
}

// IngestAll ingests each scenario in order and returns per-scenario counts.
// It stops at the first failure; earlier scenarios stay stored.
func (m *Manager) IngestAll(ctx context.Context, scenarioIDs []string) (map[string]int, error) {
	counts := make(map[string]int, len(scenarioIDs))
	for _, id := range scenarioIDs {
		n, err := m.IngestScenario(ctx, id)
		if err != nil {
			return counts, err
		}
		counts[id] = n
	}
	return counts, nil
}
