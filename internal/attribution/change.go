package attribution

import (
	"tail-risk-lab/internal/risk"
)

// Change pairs both projections of a before/after comparison.
type Change struct {
	Quantile float64
	Assets   []string

	// SameDays projects the new positions onto the old tail days.
	SameDays *Projection
	// NewDays projects the old positions onto the new tail days.
	NewDays *Projection
}

// Compare builds both projections between base (old positions) and compare
// (new positions).
func Compare(base, compare *risk.Dayset, q float64, assets ...string) (*Change, error) {
	same, err := ProjectOtherOntoSelfTailDays(base, compare, q, assets...)
	if err != nil {
		return nil, err
	}
	newDays, err := ProjectSelfOntoOtherTailDays(base, compare, q, assets...)
	if err != nil {
		return nil, err
	}
	return &Change{
		Quantile: q,
		Assets:   same.Assets,
		SameDays: same,
		NewDays:  newDays,
	}, nil
}

// Summary describes one scenario's tail at one quantile level.
type Summary struct {
	Quantile float64
	Assets   []string // empty means the whole portfolio
	VaR      float64
	CVaR     float64 // CVaR of the portfolio, or the contribution of Assets to it

	// Stats describes the whole portfolio's tail.
	Stats risk.TailStats
	// TailDays holds the per-day aggregate over Assets on each tail day, sorted ascending.
	TailDays []Row
}

// Summarize computes the single-scenario tail summary. Assets, when given, must be
// columns of the scenario.
func Summarize(d *risk.Dayset, q float64, assets ...string) (*Summary, error) {
	stats, err := d.Stats(q)
	if err != nil {
		return nil, err
	}
	losses, err := d.TailLosses(q, assets...)
	if err != nil {
		return nil, err
	}
	mean, ok := losses.Mean()
	if !ok {
		return nil, risk.ErrNoObservations
	}

	order := sortedByValue(losses)
	sorted := losses.Reindex(order)
	rows := make([]Row, sorted.Len())
	for i := range rows {
		rows[i].Date = sorted.Key(i)
		rows[i].Reference, rows[i].ReferenceKnown = sorted.At(i)
	}

	return &Summary{
		Quantile: q,
		Assets:   append([]string(nil), assets...),
		VaR:      stats.VaR,
		CVaR:     mean,
		Stats:    *stats,
		TailDays: rows,
	}, nil
}
