package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// attributeCmd implements 'cvar attribute'
var attributeCmd = &cobra.Command{
	Use:   "attribute <base> <compare>",
	Short: "Attribute the change in CVaR between two scenarios",
	Long: `Compare the tails of a base scenario (old positions) and a compare scenario
(new positions). Two projections are reported: the new positions on the old
tail days, and the old positions on the new tail days. Each tail day is marked
Remain when it is a tail day of both scenarios and Change otherwise.

Writes <output-dir>/attribution_<base>_vs_<compare>.md and .csv.`,
	Args: cobra.ExactArgs(2),
	RunE: runAttribute,
}

func init() {
	rootCmd.AddCommand(attributeCmd)
}

func runAttribute(cmd *cobra.Command, args []string) error {
	rt, err := setup(cmd)
	if err != nil {
		return err
	}
	defer rt.close()

	ctx := cmd.Context()
	base, compare := args[0], args[1]
	if base == compare {
		return fmt.Errorf("base and compare must differ, both are %q", base)
	}
	if err := rt.preload(ctx, base, compare); err != nil {
		return err
	}

	report, err := rt.orch.Attribute(ctx, base, compare, rt.cfg.Quantile, rt.cfg.Assets)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, s := range []struct {
		caption string
		value   float64
		known   bool
	}{
		{report.SameDays.ReferenceCaption, report.SameDays.ReferenceCVaR, report.SameDays.ReferenceKnown},
		{report.SameDays.ProjectedCaption, report.SameDays.ProjectedCVaR, report.SameDays.ProjectedKnown},
		{report.NewDays.ReferenceCaption, report.NewDays.ReferenceCVaR, report.NewDays.ReferenceKnown},
		{report.NewDays.ProjectedCaption, report.NewDays.ProjectedCVaR, report.NewDays.ProjectedKnown},
	} {
		if s.known {
			fmt.Fprintf(out, "%-45s %12.2f\n", s.caption, s.value)
		} else {
			fmt.Fprintf(out, "%-45s %12s\n", s.caption, "n/a")
		}
	}

	return rt.finish(fmt.Sprintf("attribution_%s_vs_%s", base, compare), report)
}
