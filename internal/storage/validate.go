package storage

import (
	"fmt"
	"math"
	"sort"

	"tail-risk-lab/internal/domain"
)

// PointKey identifies one cell of a scenario's P&L matrix.
type PointKey struct {
	ScenarioID string
	Date       domain.Date
	AssetID    string
}

// KeyOf returns the key of p.
func KeyOf(p *domain.PnLPoint) PointKey {
	return PointKey{ScenarioID: p.ScenarioID, Date: p.Date, AssetID: p.AssetID}
}

// ValidateBatch checks every point of a bulk insert and rejects intra-batch duplicates.
// Stores call it before touching their backend so a bad batch writes nothing.
func ValidateBatch(points []*domain.PnLPoint) error {
	seen := make(map[PointKey]struct{}, len(points))
	for i, p := range points {
		if p == nil {
			return fmt.Errorf("%w: point %d is nil", ErrInvalidInput, i)
		}
		if p.ScenarioID == "" || p.AssetID == "" {
			return fmt.Errorf("%w: point %d has empty scenario or asset id", ErrInvalidInput, i)
		}
		if math.IsNaN(p.PnL) || math.IsInf(p.PnL, 0) {
			return fmt.Errorf("%w: point %d (%s/%s/%s) has non-finite pnl", ErrInvalidInput, i, p.ScenarioID, p.Date, p.AssetID)
		}
		k := KeyOf(p)
		if _, exists := seen[k]; exists {
			return ErrDuplicateKey
		}
		seen[k] = struct{}{}
	}
	return nil
}

// SortPoints orders points by date, then asset id.
func SortPoints(points []*domain.PnLPoint) {
	sort.Slice(points, func(i, j int) bool {
		if c := points[i].Date.Compare(points[j].Date); c != 0 {
			return c < 0
		}
		return points[i].AssetID < points[j].AssetID
	})
}
