// Package risk computes historical VaR and CVaR over a P&L matrix and identifies
// the tail days behind them.
//
// VaR(q) is the q-quantile of the per-day aggregate P&L under the Dayset's
// interpolation policy. Tail days are the days whose aggregate is strictly less
// than VaR(q); a day exactly at VaR is not a tail day. CVaR(q) is the mean aggregate
// P&L over the tail days.
package risk

import (
	"fmt"
	"sort"

	"tail-risk-lab/internal/domain"
	"tail-risk-lab/internal/pnl"
	"tail-risk-lab/internal/quantile"
	"tail-risk-lab/internal/tailset"
)

// Dayset binds one P&L matrix to one interpolation policy.
// It holds no other state; every query is a pure function of the matrix, the
// policy and its arguments, so a Dayset may be shared between goroutines.
type Dayset struct {
	matrix        *pnl.Matrix
	interpolation quantile.Interpolation

	totals pnl.DaySeries
	sorted []float64 // known totals, ascending
}

// NewDayset creates a Dayset. It returns pnl.ErrEmptyInput when the matrix has no
// rows, no columns, or no day with a known total.
func NewDayset(m *pnl.Matrix, interpolation quantile.Interpolation) (*Dayset, error) {
	if m == nil || m.Empty() {
		return nil, pnl.ErrEmptyInput
	}
	if !interpolation.Valid() {
		return nil, fmt.Errorf("%w: %d", quantile.ErrUnknownInterpolation, int(interpolation))
	}

	totals := m.TotalPerDay()
	_, known := totals.Known()
	if len(known) == 0 {
		return nil, fmt.Errorf("%w: no day has a known P&L", pnl.ErrEmptyInput)
	}
	sorted := make([]float64, len(known))
	copy(sorted, known)
	sort.Float64s(sorted)

	return &Dayset{
		matrix:        m,
		interpolation: interpolation,
		totals:        totals,
		sorted:        sorted,
	}, nil
}

// Matrix returns the bound matrix.
func (d *Dayset) Matrix() *pnl.Matrix { return d.matrix }

// Interpolation returns the bound interpolation policy.
func (d *Dayset) Interpolation() quantile.Interpolation { return d.interpolation }

// Totals returns the per-day aggregate P&L.
func (d *Dayset) Totals() pnl.DaySeries { return d.totals }

// Days returns the number of days that take part in the distribution.
func (d *Dayset) Days() int { return len(d.sorted) }

func validateQuantile(q float64) error {
	if !(q > 0 && q < 1) {
		return fmt.Errorf("%w: got %v", ErrInvalidQuantile, q)
	}
	return nil
}

// Quantile returns the q-quantile of the per-day aggregate P&L without checking
// that any day lies below it.
func (d *Dayset) Quantile(q float64) (float64, error) {
	if err := validateQuantile(q); err != nil {
		return 0, err
	}
	return quantile.Of(d.sorted, q, d.interpolation)
}

// VaR returns the q-quantile of the per-day aggregate P&L. It fails with
// ErrEmptyTailSet when no day is strictly below that value, since such a VaR
// bounds no tail.
func (d *Dayset) VaR(q float64) (float64, error) {
	v, err := d.Quantile(q)
	if err != nil {
		return 0, err
	}
	if d.sorted[0] >= v {
		return 0, fmt.Errorf("%w: q=%v, VaR=%v", ErrEmptyTailSet, q, v)
	}
	return v, nil
}

// TailDays returns, in date order, the days whose aggregate P&L is strictly less
// than VaR(q).
func (d *Dayset) TailDays(q float64) (tailset.DateSet, error) {
	v, err := d.VaR(q)
	if err != nil {
		return tailset.DateSet{}, err
	}

	var tail []domain.Date
	for i := 0; i < d.totals.Len(); i++ {
		total, ok := d.totals.At(i)
		if ok && total < v {
			tail = append(tail, d.totals.Key(i))
		}
	}
	return tailset.New(tail...), nil
}

// tailMatrix restricts the matrix to tail days and, if given, to assets.
func (d *Dayset) tailMatrix(q float64, assets []string) (*pnl.Matrix, error) {
	tail, err := d.TailDays(q)
	if err != nil {
		return nil, err
	}
	m := d.matrix
	if len(assets) > 0 {
		m, err = m.SelectAssets(assets)
		if err != nil {
			return nil, err
		}
	}
	return m.Reindex(tail.Dates()), nil
}

// TailMatrix returns the raw P&L sub-matrix over tail days (no aggregation).
// Tail days are always chosen on the full portfolio; assets only restricts columns.
func (d *Dayset) TailMatrix(q float64, assets ...string) (*pnl.Matrix, error) {
	return d.tailMatrix(q, assets)
}

// TailLosses returns the per-day aggregate P&L of each tail day, summed over
// assets (skip-missing). The entries are in date order.
func (d *Dayset) TailLosses(q float64, assets ...string) (pnl.DaySeries, error) {
	m, err := d.tailMatrix(q, assets)
	if err != nil {
		return pnl.DaySeries{}, err
	}
	return m.SumAssets(), nil
}

// AssetContributions returns each asset's mean P&L over tail days (skip-missing).
// Over all assets, the entries sum to CVaR(q) when no cell is missing.
func (d *Dayset) AssetContributions(q float64, assets ...string) (pnl.AssetSeries, error) {
	m, err := d.tailMatrix(q, assets)
	if err != nil {
		return pnl.AssetSeries{}, err
	}
	return m.MeanDays(), nil
}

// CVaR returns the mean aggregate P&L over tail days. With assets it is the
// mean contribution of those assets over the portfolio's tail days.
func (d *Dayset) CVaR(q float64, assets ...string) (float64, error) {
	losses, err := d.TailLosses(q, assets...)
	if err != nil {
		return 0, err
	}
	mean, ok := losses.Mean()
	if !ok {
		return 0, ErrNoObservations
	}
	return mean, nil
}
