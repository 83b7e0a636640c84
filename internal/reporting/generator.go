package reporting

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"tail-risk-lab/internal/attribution"
	"tail-risk-lab/internal/quantile"
	"tail-risk-lab/internal/tailset"
)

// Generator turns attribution results into reports.
type Generator struct {
	now func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a new report generator.
func NewGenerator() *Generator {
	return &Generator{
		now: func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Summary builds the report of a single-scenario summary.
func (g *Generator) Summary(scenario string, interp quantile.Interpolation, s *attribution.Summary) *SummaryReport {
	rows := make([]TailDayRow, len(s.TailDays))
	for i, r := range s.TailDays {
		rows[i] = TailDayRow{
			Date:           r.Date,
			Reference:      r.Reference,
			ReferenceKnown: r.ReferenceKnown,
		}
	}

	return &SummaryReport{
		GeneratedAt:   g.now(),
		Scenario:      scenario,
		Interpolation: interp.String(),
		Quantile:      s.Quantile,
		Assets:        append([]string(nil), s.Assets...),
		VaR:           s.VaR,
		CVaR:          s.CVaR,
		TailDays:      s.Stats.TailDays,
		TotalDays:     s.Stats.TotalDays,
		WorstDay:      s.Stats.WorstDay,
		WorstDayValue: s.Stats.WorstDayValue,
		Rows:          rows,
	}
}

// Attribution builds the report of a before/after comparison.
func (g *Generator) Attribution(base, compare string, interp quantile.Interpolation, c *attribution.Change) *AttributionReport {
	level := QuantileLabel(c.Quantile)
	return &AttributionReport{
		GeneratedAt:   g.now(),
		Base:          base,
		Compare:       compare,
		Interpolation: interp.String(),
		Quantile:      c.Quantile,
		Assets:        append([]string(nil), c.Assets...),
		SameDays: section(c.SameDays,
			fmt.Sprintf("Old CVaR(%s)", level),
			fmt.Sprintf("New Positions on Old CVaR(%s) Days", level)),
		NewDays: section(c.NewDays,
			fmt.Sprintf("New CVaR(%s)", level),
			fmt.Sprintf("Old Positions on New CVaR(%s) Days", level)),
	}
}

func section(p *attribution.Projection, referenceCaption, projectedCaption string) ProjectionSection {
	s := ProjectionSection{
		ReferenceCaption: referenceCaption,
		ProjectedCaption: projectedCaption,
		Rows:             make([]TailDayRow, 0, p.Len()),
	}
	s.ReferenceCVaR, s.ReferenceKnown = p.ReferenceCVaR()
	s.ProjectedCVaR, s.ProjectedKnown = p.ProjectedCVaR()

	for _, r := range p.Rows() {
		switch r.Class {
		case tailset.Shared:
			s.SharedDays++
		case tailset.Distinct:
			s.DistinctDays++
		}
		s.Rows = append(s.Rows, TailDayRow{
			Date:           r.Date,
			Reference:      r.Reference,
			ReferenceKnown: r.ReferenceKnown,
			Projected:      r.Projected,
			ProjectedKnown: r.ProjectedKnown,
			Class:          r.Class.Label(),
		})
	}
	return s
}

// QuantileLabel formats a quantile level as a percentage, e.g. 0.025 as "2.5%".
func QuantileLabel(q float64) string {
	return decimal.NewFromFloat(q).Shift(2).String() + "%"
}
