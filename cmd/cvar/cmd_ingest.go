package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"tail-risk-lab/internal/ingestion"
)

var ingestFromDir string

// ingestCmd implements 'cvar ingest'
var ingestCmd = &cobra.Command{
	Use:   "ingest [scenario...]",
	Short: "Load scenario CSV files into the configured store",
	Long: `Read <scenario>.csv files from --from-dir (default: the csv_dir of the
configuration) and store their known cells in the configured database. Without
arguments every CSV file in the directory is ingested.

With a csv source the files are only parsed and validated.`,
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
	ingestCmd.Flags().StringVar(&ingestFromDir, "from-dir", "", "Directory of <scenario>.csv files to ingest")
}

func runIngest(cmd *cobra.Command, args []string) error {
	rt, err := setup(cmd)
	if err != nil {
		return err
	}
	defer rt.close()

	dir := ingestFromDir
	if dir == "" {
		dir = rt.cfg.Source.CSVDir
	}
	source := ingestion.NewCSVSource(dir)

	scenarios := args
	if len(scenarios) == 0 {
		if scenarios, err = source.Scenarios(); err != nil {
			return err
		}
		if len(scenarios) == 0 {
			return fmt.Errorf("no scenario files in %s", dir)
		}
	}

	counts, err := rt.orch.Ingest(cmd.Context(), source, scenarios)
	if err != nil {
		return err
	}

	ids := make([]string, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d points\n", id, counts[id])
	}

	return rt.writeMetrics()
}
