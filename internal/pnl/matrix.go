// Package pnl holds the labeled date × asset P&L matrix and its aggregation rules.
//
// Missing-data policy: a cell is either a known real value or missing. Missing is not
// zero. Sums skip missing cells; means divide by the number of known cells only. An
// aggregate with no known inputs is itself missing. Alignment (Reindex, ReindexAssets)
// never fails on non-overlapping labels: labels that are not in the source become
// fully-missing rows or columns.
package pnl

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"tail-risk-lab/internal/domain"
)

// Matrix is an immutable labeled matrix of daily P&L: rows are unique dates,
// columns are unique asset identifiers.
type Matrix struct {
	dates    []domain.Date
	assets   []string
	dateIdx  map[domain.Date]int
	assetIdx map[string]int

	values *mat.Dense // nil when the matrix has no rows or no columns
	known  []bool     // row-major, len(dates)*len(assets)
}

// newMatrix allocates an all-missing matrix for the given (already unique) labels.
func newMatrix(dates []domain.Date, assets []string) *Matrix {
	m := &Matrix{
		dates:    dates,
		assets:   assets,
		dateIdx:  make(map[domain.Date]int, len(dates)),
		assetIdx: make(map[string]int, len(assets)),
		known:    make([]bool, len(dates)*len(assets)),
	}
	for i, d := range dates {
		m.dateIdx[d] = i
	}
	for j, a := range assets {
		m.assetIdx[a] = j
	}
	if len(dates) > 0 && len(assets) > 0 {
		m.values = mat.NewDense(len(dates), len(assets), nil)
	}
	return m
}

// FromRows builds a matrix from row-major data. rows[i][j] is the P&L of assets[j] on
// dates[i]; NaN marks a missing cell. Labels must be unique.
func FromRows(dates []domain.Date, assets []string, rows [][]float64) (*Matrix, error) {
	if len(dedupe(dates)) != len(dates) {
		return nil, ErrDuplicateDate
	}
	if len(dedupe(assets)) != len(assets) {
		return nil, ErrDuplicateAsset
	}
	if len(rows) != len(dates) {
		return nil, fmt.Errorf("%w: %d rows for %d dates", ErrShapeMismatch, len(rows), len(dates))
	}

	m := newMatrix(append([]domain.Date(nil), dates...), append([]string(nil), assets...))
	for i, row := range rows {
		if len(row) != len(assets) {
			return nil, fmt.Errorf("%w: row %s has %d values for %d assets", ErrShapeMismatch, dates[i], len(row), len(assets))
		}
		for j, v := range row {
			if math.IsNaN(v) {
				continue
			}
			if math.IsInf(v, 0) {
				return nil, fmt.Errorf("%w: %s/%s is infinite", ErrInvalidValue, dates[i], assets[j])
			}
			m.set(i, j, v)
		}
	}
	return m, nil
}

func (m *Matrix) set(i, j int, v float64) {
	m.values.Set(i, j, v)
	m.known[i*len(m.assets)+j] = true
}

func (m *Matrix) at(i, j int) (float64, bool) {
	if !m.known[i*len(m.assets)+j] {
		return 0, false
	}
	return m.values.At(i, j), true
}

// Len returns the number of dates (rows).
func (m *Matrix) Len() int { return len(m.dates) }

// Width returns the number of assets (columns).
func (m *Matrix) Width() int { return len(m.assets) }

// Empty reports whether the matrix has no rows or no columns.
func (m *Matrix) Empty() bool { return len(m.dates) == 0 || len(m.assets) == 0 }

// Dates returns a copy of the row labels in order.
func (m *Matrix) Dates() []domain.Date {
	return append([]domain.Date(nil), m.dates...)
}

// Assets returns a copy of the column labels in order.
func (m *Matrix) Assets() []string {
	return append([]string(nil), m.assets...)
}

// HasDate reports whether d is a row label.
func (m *Matrix) HasDate(d domain.Date) bool {
	_, ok := m.dateIdx[d]
	return ok
}

// HasAsset reports whether a is a column label.
func (m *Matrix) HasAsset(a string) bool {
	_, ok := m.assetIdx[a]
	return ok
}

// Value returns the cell for (d, a). ok is false when the labels are absent or the cell is missing.
func (m *Matrix) Value(d domain.Date, a string) (v float64, ok bool) {
	i, okd := m.dateIdx[d]
	j, oka := m.assetIdx[a]
	if !okd || !oka {
		return 0, false
	}
	return m.at(i, j)
}

// Known returns the number of known cells.
func (m *Matrix) Known() int {
	n := 0
	for _, k := range m.known {
		if k {
			n++
		}
	}
	return n
}

// Row returns the cells of date d keyed by asset. ok is false when d is not a row label.
func (m *Matrix) Row(d domain.Date) (AssetSeries, bool) {
	i, ok := m.dateIdx[d]
	if !ok {
		return AssetSeries{}, false
	}
	s := newSeries(m.Assets())
	for j := range m.assets {
		s.values[j], s.known[j] = m.at(i, j)
	}
	return s, true
}

// Column returns the cells of asset a keyed by date. ok is false when a is not a column label.
func (m *Matrix) Column(a string) (DaySeries, bool) {
	j, ok := m.assetIdx[a]
	if !ok {
		return DaySeries{}, false
	}
	s := newSeries(m.Dates())
	for i := range m.dates {
		s.values[i], s.known[i] = m.at(i, j)
	}
	return s, true
}

// SumAssets sums known cells across assets for each date. A date with no known
// cell gets a missing total, not zero.
func (m *Matrix) SumAssets() DaySeries {
	s := newSeries(m.Dates())
	for i := range m.dates {
		for j := range m.assets {
			if v, ok := m.at(i, j); ok {
				s.values[i] += v
				s.known[i] = true
			}
		}
	}
	return s
}

// TotalPerDay is the per-day aggregate P&L: the skip-missing sum across all assets.
func (m *Matrix) TotalPerDay() DaySeries {
	return m.SumAssets()
}

// MeanDays averages each asset over dates, dividing by the number of known cells of
// that asset. An asset with no known cell gets a missing mean.
func (m *Matrix) MeanDays() AssetSeries {
	s := newSeries(m.Assets())
	for j := range m.assets {
		n := 0
		sum := 0.0
		for i := range m.dates {
			if v, ok := m.at(i, j); ok {
				sum += v
				n++
			}
		}
		if n > 0 {
			s.values[j] = sum / float64(n)
			s.known[j] = true
		}
	}
	return s
}

// SelectAssets restricts the columns to subset, in subset order. Every requested
// identifier must be a column; otherwise ErrUnknownAsset is returned.
func (m *Matrix) SelectAssets(subset []string) (*Matrix, error) {
	subset = dedupe(subset)
	for _, a := range subset {
		if !m.HasAsset(a) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownAsset, a)
		}
	}
	return m.ReindexAssets(subset), nil
}

// Reindex aligns the matrix to exactly dates (duplicates dropped, order kept).
// Dates absent from m become fully-missing rows; rows of m not in dates are dropped.
func (m *Matrix) Reindex(dates []domain.Date) *Matrix {
	out := newMatrix(dedupe(dates), m.Assets())
	for i, d := range out.dates {
		src, ok := m.dateIdx[d]
		if !ok {
			continue
		}
		for j := range out.assets {
			if v, known := m.at(src, j); known {
				out.set(i, j, v)
			}
		}
	}
	return out
}

// ReindexAssets aligns the columns to exactly assets. Assets absent from m become
// fully-missing columns. Use SelectAssets when absence must be an error.
func (m *Matrix) ReindexAssets(assets []string) *Matrix {
	out := newMatrix(m.Dates(), dedupe(assets))
	for j, a := range out.assets {
		src, ok := m.assetIdx[a]
		if !ok {
			continue
		}
		for i := range out.dates {
			if v, known := m.at(i, src); known {
				out.set(i, j, v)
			}
		}
	}
	return out
}
