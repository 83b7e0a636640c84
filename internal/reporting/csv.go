package reporting

import (
	"encoding/csv"
	"strings"
)

var csvHeader = []string{"query", "date", "reference", "projected", "class"}

// Query names used in the first CSV column.
const (
	QuerySummary  = "summary"
	QuerySameDays = "same_days"
	QueryNewDays  = "new_days"
)

// RenderSummaryCSV renders the tail days of a summary report as CSV string.
func RenderSummaryCSV(r *SummaryReport) (string, error) {
	return renderRows(csvBlock{QuerySummary, r.Rows})
}

// RenderAttributionCSV renders both projections of an attribution report as CSV string.
func RenderAttributionCSV(r *AttributionReport) (string, error) {
	return renderRows(
		csvBlock{QuerySameDays, r.SameDays.Rows},
		csvBlock{QueryNewDays, r.NewDays.Rows},
	)
}

type csvBlock struct {
	query string
	rows  []TailDayRow
}

func renderRows(blocks ...csvBlock) (string, error) {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	if err := w.Write(csvHeader); err != nil {
		return "", err
	}
	for _, b := range blocks {
		for _, row := range b.rows {
			record := []string{
				b.query,
				row.Date.String(),
				csvAmount(row.Reference, row.ReferenceKnown),
				csvAmount(row.Projected, row.ProjectedKnown),
				row.Class,
			}
			if err := w.Write(record); err != nil {
				return "", err
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return sb.String(), nil
}
