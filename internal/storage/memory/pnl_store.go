package memory

import (
	"context"
	"sort"
	"sync"

	"tail-risk-lab/internal/domain"
	"tail-risk-lab/internal/storage"
)

// PnLStore is an in-memory implementation of storage.PnLStore.
type PnLStore struct {
	mu   sync.RWMutex
	data map[storage.PointKey]*domain.PnLPoint
}

// NewPnLStore creates a new in-memory P&L store.
func NewPnLStore() *PnLStore {
	return &PnLStore{
		data: make(map[storage.PointKey]*domain.PnLPoint),
	}
}

// Compile-time interface check.
var _ storage.PnLStore = (*PnLStore)(nil)

// InsertBulk adds multiple points. Fails entire batch on duplicate or invalid point.
func (s *PnLStore) InsertBulk(_ context.Context, points []*domain.PnLPoint) error {
	if len(points) == 0 {
		return nil
	}
	if err := storage.ValidateBatch(points); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range points {
		if _, exists := s.data[storage.KeyOf(p)]; exists {
			return storage.ErrDuplicateKey
		}
	}

	for _, p := range points {
		pointCopy := *p
		s.data[storage.KeyOf(p)] = &pointCopy
	}

	return nil
}

// GetByScenario retrieves all points of a scenario, ordered by date then asset.
func (s *PnLStore) GetByScenario(_ context.Context, scenarioID string) ([]*domain.PnLPoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := s.collect(func(p *domain.PnLPoint) bool {
		return p.ScenarioID == scenarioID
	})
	if len(result) == 0 {
		return nil, storage.ErrNotFound
	}
	return result, nil
}

// GetByDateRange retrieves points of a scenario within [start, end] (inclusive).
func (s *PnLStore) GetByDateRange(_ context.Context, scenarioID string, start, end domain.Date) ([]*domain.PnLPoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.collect(func(p *domain.PnLPoint) bool {
		return p.ScenarioID == scenarioID && !p.Date.Before(start) && !p.Date.After(end)
	}), nil
}

// ListScenarios returns the distinct scenario ids, ascending.
func (s *PnLStore) ListScenarios(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	var ids []string
	for k := range s.data {
		if _, ok := seen[k.ScenarioID]; ok {
			continue
		}
		seen[k.ScenarioID] = struct{}{}
		ids = append(ids, k.ScenarioID)
	}
	sort.Strings(ids)
	return ids, nil
}

// collect copies the matching points in date, asset order. Caller holds the lock.
func (s *PnLStore) collect(match func(*domain.PnLPoint) bool) []*domain.PnLPoint {
	var result []*domain.PnLPoint
	for _, p := range s.data {
		if match(p) {
			pointCopy := *p
			result = append(result, &pointCopy)
		}
	}
	storage.SortPoints(result)
	return result
}
