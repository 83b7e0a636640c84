// Package attribution compares the tail days of two portfolio scenarios.
//
// A projection takes the tail days of a reference scenario and asks what a target
// scenario's positions made or lost on exactly those days. Each reference tail day
// is classified as Distinct (not a tail day of the target) or Shared (a tail day of
// both). Rows are ordered by the reference scenario's own per-day aggregate,
// ascending, so consumers can draw them worst-first.
package attribution

import (
	"fmt"
	"sort"

	"tail-risk-lab/internal/domain"
	"tail-risk-lab/internal/pnl"
	"tail-risk-lab/internal/risk"
	"tail-risk-lab/internal/tailset"
)

// Projection is the result of projecting a target scenario onto a reference
// scenario's tail days.
type Projection struct {
	Quantile float64
	Assets   []string

	// Reference and Projected share keys and order: the reference tail days sorted
	// by Reference ascending (ties by date, missing values last).
	Reference pnl.DaySeries
	Projected pnl.DaySeries

	OnlyInReference tailset.DateSet
	InBoth          tailset.DateSet
}

// Row is one reference tail day of a Projection.
type Row struct {
	Date           domain.Date
	Reference      float64
	ReferenceKnown bool
	Projected      float64
	ProjectedKnown bool
	Class          tailset.Class
}

// Len returns the number of reference tail days.
func (p *Projection) Len() int { return p.Reference.Len() }

// Rows returns the projection rows in presentation order.
func (p *Projection) Rows() []Row {
	rows := make([]Row, p.Reference.Len())
	for i := range rows {
		d := p.Reference.Key(i)
		rows[i].Date = d
		rows[i].Reference, rows[i].ReferenceKnown = p.Reference.At(i)
		rows[i].Projected, rows[i].ProjectedKnown = p.Projected.At(i)
		rows[i].Class = tailset.Classify(d, p.OnlyInReference, p.InBoth)
	}
	return rows
}

// ReferenceCVaR is the skip-missing mean of the reference values: the reference
// scenario's CVaR, or the selected assets' contribution to it.
func (p *Projection) ReferenceCVaR() (float64, bool) { return p.Reference.Mean() }

// ProjectedCVaR is the skip-missing mean of the projected values: what the target
// positions averaged on the reference tail days.
func (p *Projection) ProjectedCVaR() (float64, bool) { return p.Projected.Mean() }

// ProjectOtherOntoSelfTailDays answers "what would other's positions have lost on
// self's bad days". Reference tail days are self's; days are classified by
// Partition(self tail, other tail).
func ProjectOtherOntoSelfTailDays(self, other *risk.Dayset, q float64, assets ...string) (*Projection, error) {
	resolved, err := resolveAssets(self.Matrix(), other.Matrix(), assets)
	if err != nil {
		return nil, err
	}
	return project(self, other, q, resolved)
}

// ProjectSelfOntoOtherTailDays is the mirror query: reference tail days are
// other's, self's matrix is aligned onto them, and days are classified by
// Partition(other tail, self tail).
func ProjectSelfOntoOtherTailDays(self, other *risk.Dayset, q float64, assets ...string) (*Projection, error) {
	resolved, err := resolveAssets(self.Matrix(), other.Matrix(), assets)
	if err != nil {
		return nil, err
	}
	return project(other, self, q, resolved)
}

func project(reference, target *risk.Dayset, q float64, assets []string) (*Projection, error) {
	refTail, err := reference.TailDays(q)
	if err != nil {
		return nil, fmt.Errorf("reference tail days: %w", err)
	}
	targetTail, err := target.TailDays(q)
	if err != nil {
		return nil, fmt.Errorf("target tail days: %w", err)
	}

	dates := refTail.Dates()
	refDaily := reference.Matrix().Reindex(dates).ReindexAssets(assets).SumAssets()
	targetDaily := target.Matrix().Reindex(dates).ReindexAssets(assets).SumAssets()

	order := sortedByValue(refDaily)
	only, both := tailset.Partition(refTail, targetTail)

	return &Projection{
		Quantile:        q,
		Assets:          append([]string(nil), assets...),
		Reference:       refDaily.Reindex(order),
		Projected:       targetDaily.Reindex(order),
		OnlyInReference: only,
		InBoth:          both,
	}, nil
}

// resolveAssets returns the asset selection for a two-scenario query. With no
// assets it is the union of both scenarios' columns, self's first. Otherwise
// every asset must be a column of at least one scenario.
func resolveAssets(self, other *pnl.Matrix, assets []string) ([]string, error) {
	if len(assets) == 0 {
		union := self.Assets()
		for _, a := range other.Assets() {
			if !self.HasAsset(a) {
				union = append(union, a)
			}
		}
		return union, nil
	}

	seen := make(map[string]struct{}, len(assets))
	out := make([]string, 0, len(assets))
	for _, a := range assets {
		if !self.HasAsset(a) && !other.HasAsset(a) {
			return nil, fmt.Errorf("%w: %q", pnl.ErrUnknownAsset, a)
		}
		if _, dup := seen[a]; dup {
			continue
		}
		seen[a] = struct{}{}
		out = append(out, a)
	}
	return out, nil
}

// sortedByValue orders the keys of s by value ascending; ties by date, missing last.
func sortedByValue(s pnl.DaySeries) []domain.Date {
	idx := make([]int, s.Len())
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		va, ka := s.At(idx[a])
		vb, kb := s.At(idx[b])
		if ka != kb {
			return ka
		}
		if ka && va != vb {
			return va < vb
		}
		return s.Key(idx[a]).Before(s.Key(idx[b]))
	})

	keys := make([]domain.Date, len(idx))
	for i, j := range idx {
		keys[i] = s.Key(j)
	}
	return keys
}
