package risk

import (
	"tail-risk-lab/internal/domain"
)

// TailStats summarizes the tail of one Dayset at one quantile level.
type TailStats struct {
	Quantile      float64
	VaR           float64
	CVaR          float64
	TailDays      int
	TotalDays     int
	WorstDay      domain.Date
	WorstDayValue float64
}

// Stats computes VaR, CVaR and the worst tail day for q.
func (d *Dayset) Stats(q float64) (*TailStats, error) {
	v, err := d.VaR(q)
	if err != nil {
		return nil, err
	}
	losses, err := d.TailLosses(q)
	if err != nil {
		return nil, err
	}
	cvar, ok := losses.Mean()
	if !ok {
		return nil, ErrNoObservations
	}

	stats := &TailStats{
		Quantile:  q,
		VaR:       v,
		CVaR:      cvar,
		TailDays:  losses.Len(),
		TotalDays: d.Days(),
	}
	for i := 0; i < losses.Len(); i++ {
		total, _ := losses.At(i)
		if i == 0 || total < stats.WorstDayValue {
			stats.WorstDay = losses.Key(i)
			stats.WorstDayValue = total
		}
	}
	return stats, nil
}
