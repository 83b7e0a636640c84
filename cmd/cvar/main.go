// Command cvar computes historical VaR/CVaR of P&L scenarios and attributes the
// change in tail risk between two scenarios.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Persistent flags; a flag overrides the config file only when set.
var (
	configPath string
	flagValues = &flagSet{}
)

// rootCmd is the base command for the cvar CLI
var rootCmd = &cobra.Command{
	Use:   "cvar",
	Short: "Historical VaR/CVaR and tail-day attribution",
	Long: `cvar reads daily P&L per asset for named scenarios and reports historical
VaR and CVaR at a quantile level, the tail days behind them, and how the tail
changes between an old and a new set of positions.

Scenarios come from a directory of wide CSV files (<scenario>.csv with columns
date,asset0,asset1,...), PostgreSQL or ClickHouse.

Example usage:
  cvar summary before_hedge --quantile 0.025
  cvar attribute before_hedge after_hedge --assets hedge
  cvar ingest before_hedge after_hedge --source postgres
  cvar migrate --source clickhouse`,
	SilenceUsage: true,
}

func init() {
	fs := rootCmd.PersistentFlags()
	fs.StringVar(&configPath, "config", "", "Path to YAML configuration file")
	registerFlags(fs, flagValues)
}

func main() {
	ctx, stop := signalContext(context.Background())
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
