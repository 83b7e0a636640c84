package risk

import (
	"tail-risk-lab/internal/pnl"
)

// Query selects one of the four CVaR shapes.
//
//	AggregateAssets AggregateDays  result
//	true            true           Scalar       (CVaR)
//	false           true           PerAsset     (mean contribution per asset)
//	true            false          PerDay       (aggregate loss per tail day)
//	false           false          Tail         (raw tail sub-matrix)
type Query struct {
	AggregateDays   bool
	AggregateAssets bool
	Assets          []string // optional column restriction; must exist in the matrix
}

// DefaultQuery aggregates over both days and assets.
func DefaultQuery() Query {
	return Query{AggregateDays: true, AggregateAssets: true}
}

// Result carries the shape requested by a Query. Exactly one field is set.
type Result struct {
	Scalar   *float64
	PerAsset *pnl.AssetSeries
	PerDay   *pnl.DaySeries
	Tail     *pnl.Matrix
}

// Evaluate runs q against the Dayset and returns the shape the query selects.
func (d *Dayset) Evaluate(q float64, query Query) (Result, error) {
	switch {
	case query.AggregateAssets && query.AggregateDays:
		v, err := d.CVaR(q, query.Assets...)
		if err != nil {
			return Result{}, err
		}
		return Result{Scalar: &v}, nil
	case query.AggregateDays:
		s, err := d.AssetContributions(q, query.Assets...)
		if err != nil {
			return Result{}, err
		}
		return Result{PerAsset: &s}, nil
	case query.AggregateAssets:
		s, err := d.TailLosses(q, query.Assets...)
		if err != nil {
			return Result{}, err
		}
		return Result{PerDay: &s}, nil
	default:
		m, err := d.TailMatrix(q, query.Assets...)
		if err != nil {
			return Result{}, err
		}
		return Result{Tail: m}, nil
	}
}
