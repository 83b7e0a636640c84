package pnl

import (
	"fmt"
	"math"
	"sort"

	"tail-risk-lab/internal/domain"
)

type cellKey struct {
	date  domain.Date
	asset string
}

// Builder accumulates known cells and produces a Matrix with dates in ascending
// order and assets in first-seen order.
type Builder struct {
	cells  map[cellKey]float64
	dates  map[domain.Date]struct{}
	assets []string
	seen   map[string]struct{}
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{
		cells: make(map[cellKey]float64),
		dates: make(map[domain.Date]struct{}),
		seen:  make(map[string]struct{}),
	}
}

// Set records the P&L of asset on date. Setting the same cell twice returns
// ErrDuplicateCell; NaN and infinite values return ErrInvalidValue.
func (b *Builder) Set(date domain.Date, asset string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s/%s = %v", ErrInvalidValue, date, asset, v)
	}
	k := cellKey{date: date, asset: asset}
	if _, exists := b.cells[k]; exists {
		return fmt.Errorf("%w: %s/%s", ErrDuplicateCell, date, asset)
	}
	b.cells[k] = v
	b.AddDate(date)
	b.AddAsset(asset)
	return nil
}

// AddDate declares a row even if it has no known cell.
func (b *Builder) AddDate(date domain.Date) {
	b.dates[date] = struct{}{}
}

// AddAsset declares a column even if it has no known cell.
func (b *Builder) AddAsset(asset string) {
	if _, ok := b.seen[asset]; ok {
		return
	}
	b.seen[asset] = struct{}{}
	b.assets = append(b.assets, asset)
}

// Build returns the matrix. The builder may keep being used afterwards.
func (b *Builder) Build() *Matrix {
	dates := make([]domain.Date, 0, len(b.dates))
	for d := range b.dates {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	m := newMatrix(dates, append([]string(nil), b.assets...))
	for k, v := range b.cells {
		m.set(m.dateIdx[k.date], m.assetIdx[k.asset], v)
	}
	return m
}

// FromPoints builds a matrix from stored P&L points of a single scenario.
func FromPoints(points []*domain.PnLPoint) (*Matrix, error) {
	b := NewBuilder()
	for _, p := range points {
		if p == nil || p.AssetID == "" {
			return nil, fmt.Errorf("%w: point without asset id", ErrInvalidValue)
		}
		if err := b.Set(p.Date, p.AssetID, p.PnL); err != nil {
			return nil, err
		}
	}
	return b.Build(), nil
}
