package stub

import (
	"context"

	"tail-risk-lab/internal/domain"
)

// StubPnLSource returns fixed in-memory points for testing.
// Points can be intentionally unordered to test sorting.
// Implements ingestion.PnLSource interface.
type StubPnLSource struct {
	points []*domain.PnLPoint
	err    error
}

// NewStubPnLSource creates a new stub source with the given points.
func NewStubPnLSource(points []*domain.PnLPoint) *StubPnLSource {
	return &StubPnLSource{points: points}
}

// NewFailingPnLSource creates a stub source whose Fetch always returns err.
func NewFailingPnLSource(err error) *StubPnLSource {
	return &StubPnLSource{err: err}
}

// Fetch returns points matching the scenario ID.
// Returns copies to prevent mutation.
func (s *StubPnLSource) Fetch(_ context.Context, scenarioID string) ([]*domain.PnLPoint, error) {
	if s.err != nil {
		return nil, s.err
	}
	var result []*domain.PnLPoint
	for _, p := range s.points {
		if p.ScenarioID == scenarioID {
			copy := *p
			result = append(result, &copy)
		}
	}
	return result, nil
}
