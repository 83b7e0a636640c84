package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tail-risk-lab/internal/reporting"
)

// summaryCmd implements 'cvar summary'
var summaryCmd = &cobra.Command{
	Use:   "summary <scenario>",
	Short: "Report VaR, CVaR and tail days of one scenario",
	Long: `Compute VaR and CVaR of one scenario at the configured quantile and list its
tail days, worst first. With --assets, CVaR is the contribution of those assets
to the portfolio's tail.

Writes <output-dir>/summary_<scenario>.md and .csv.`,
	Args: cobra.ExactArgs(1),
	RunE: runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, args []string) error {
	rt, err := setup(cmd)
	if err != nil {
		return err
	}
	defer rt.close()

	ctx := cmd.Context()
	scenario := args[0]
	if err := rt.preload(ctx, scenario); err != nil {
		return err
	}

	report, err := rt.orch.Summarize(ctx, scenario, rt.cfg.Quantile, rt.cfg.Assets)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s: VaR(%s) = %.2f, CVaR(%s) = %.2f over %d of %d days\n",
		scenario,
		reporting.QuantileLabel(report.Quantile), report.VaR,
		reporting.QuantileLabel(report.Quantile), report.CVaR,
		report.TailDays, report.TotalDays)

	return rt.finish("summary_"+scenario, report)
}
