package reporting

import (
	"time"

	"tail-risk-lab/internal/domain"
)

// SummaryReport describes one scenario's tail at one quantile level.
type SummaryReport struct {
	// Metadata
	GeneratedAt   time.Time
	Scenario      string
	Interpolation string
	Quantile      float64
	Assets        []string // empty means the whole portfolio

	// Tail statistics of the whole portfolio
	VaR           float64
	CVaR          float64 // CVaR, or the contribution of Assets to it
	TailDays      int
	TotalDays     int
	WorstDay      domain.Date
	WorstDayValue float64

	// Tail days sorted by value ascending
	Rows []TailDayRow
}

// AttributionReport compares the tails of a base (old positions) and a compare
// (new positions) scenario.
type AttributionReport struct {
	// Metadata
	GeneratedAt   time.Time
	Base          string
	Compare       string
	Interpolation string
	Quantile      float64
	Assets        []string

	// SameDays: new positions on the old tail days.
	SameDays ProjectionSection
	// NewDays: old positions on the new tail days.
	NewDays ProjectionSection
}

// ProjectionSection is one projection of an AttributionReport.
type ProjectionSection struct {
	ReferenceCaption string // e.g. "Old CVaR(2.5%)"
	ProjectedCaption string // e.g. "New Positions on Old CVaR(2.5%) Days"

	ReferenceCVaR  float64
	ReferenceKnown bool
	ProjectedCVaR  float64
	ProjectedKnown bool

	SharedDays   int // tail days of both scenarios ("Remain")
	DistinctDays int // tail days of the reference scenario only ("Change")

	Rows []TailDayRow
}

// TailDayRow is one tail day. Projected fields are unset in summary reports.
type TailDayRow struct {
	Date           domain.Date
	Reference      float64
	ReferenceKnown bool
	Projected      float64
	ProjectedKnown bool
	Class          string // "Change", "Remain" or empty
}
