package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderSummaryMarkdown renders a summary report as Markdown string.
func RenderSummaryMarkdown(r *SummaryReport) string {
	var sb strings.Builder
	level := QuantileLabel(r.Quantile)

	// Header
	sb.WriteString(fmt.Sprintf("# Tail Risk Summary: %s\n\n", r.Scenario))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Quantile: %s | Interpolation: %s | Assets: %s\n\n",
		level, r.Interpolation, assetsLabel(r.Assets)))

	// Statistics
	sb.WriteString("## Statistics\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| VaR(%s) | %s |\n", level, formatAmount(r.VaR, true)))
	sb.WriteString(fmt.Sprintf("| CVaR(%s) | %s |\n", level, formatAmount(r.CVaR, true)))
	sb.WriteString(fmt.Sprintf("| Tail Days | %d of %d |\n", r.TailDays, r.TotalDays))
	sb.WriteString(fmt.Sprintf("| Worst Day | %s (%s) |\n", r.WorstDay, formatAmount(r.WorstDayValue, true)))
	sb.WriteString("\n")

	// Tail days
	sb.WriteString(fmt.Sprintf("## CVaR(%s) Days\n\n", level))
	if len(r.Rows) > 0 {
		sb.WriteString("| Date | P&L |\n")
		sb.WriteString("|------|-----|\n")
		for _, row := range r.Rows {
			sb.WriteString(fmt.Sprintf("| %s | %s |\n", row.Date, formatAmount(row.Reference, row.ReferenceKnown)))
		}
	} else {
		sb.WriteString("No tail days.\n")
	}
	sb.WriteString("\n")

	return sb.String()
}

// RenderAttributionMarkdown renders an attribution report as Markdown string.
func RenderAttributionMarkdown(r *AttributionReport) string {
	var sb strings.Builder

	// Header
	sb.WriteString(fmt.Sprintf("# Tail Risk Attribution: %s vs %s\n\n", r.Base, r.Compare))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Quantile: %s | Interpolation: %s | Assets: %s\n\n",
		QuantileLabel(r.Quantile), r.Interpolation, assetsLabel(r.Assets)))

	// Overview
	sb.WriteString("## Overview\n\n")
	sb.WriteString("| Measure | Value | Remain | Change |\n")
	sb.WriteString("|---------|-------|--------|--------|\n")
	for _, s := range []ProjectionSection{r.SameDays, r.NewDays} {
		sb.WriteString(fmt.Sprintf("| %s | %s | %d | %d |\n",
			s.ReferenceCaption, formatAmount(s.ReferenceCVaR, s.ReferenceKnown), s.SharedDays, s.DistinctDays))
		sb.WriteString(fmt.Sprintf("| %s | %s | | |\n",
			s.ProjectedCaption, formatAmount(s.ProjectedCVaR, s.ProjectedKnown)))
	}
	sb.WriteString("\n")

	writeSection(&sb, r.SameDays)
	writeSection(&sb, r.NewDays)

	return sb.String()
}

func writeSection(sb *strings.Builder, s ProjectionSection) {
	sb.WriteString(fmt.Sprintf("## %s\n\n", s.ProjectedCaption))
	if len(s.Rows) == 0 {
		sb.WriteString("No tail days.\n\n")
		return
	}
	sb.WriteString(fmt.Sprintf("| Date | %s | %s | Class |\n", s.ReferenceCaption, s.ProjectedCaption))
	sb.WriteString("|------|------|------|-------|\n")
	for _, row := range s.Rows {
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n",
			row.Date,
			formatAmount(row.Reference, row.ReferenceKnown),
			formatAmount(row.Projected, row.ProjectedKnown),
			row.Class))
	}
	sb.WriteString("\n")
}

func assetsLabel(assets []string) string {
	if len(assets) == 0 {
		return "all"
	}
	return strings.Join(assets, ", ")
}
