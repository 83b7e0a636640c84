package main

import (
	"github.com/spf13/cobra"

	"tail-risk-lab/internal/config"
	"tail-risk-lab/internal/storage/migrations"
	pgstore "tail-risk-lab/internal/storage/postgres"
)

// migrateCmd implements 'cvar migrate'
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply schema migrations to the configured database",
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd.Flags())
	if err != nil {
		return err
	}
	logger := newLogger(cfg.Log)
	ctx := cmd.Context()

	switch cfg.Source.Kind {
	case config.SourcePostgres:
		pool, err := pgstore.NewPool(ctx, cfg.Source.PostgresDSN)
		if err != nil {
			return err
		}
		defer pool.Close()
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			return err
		}
	case config.SourceClickHouse:
		conn, err := migrations.RunClickhouseMigrations(ctx, cfg.Source.ClickHouseDSN)
		if err != nil {
			return err
		}
		defer conn.Close()
	default:
		return errNeedsDatabase
	}

	logger.Info().Str("source", cfg.Source.Kind).Msg("migrations applied")
	return nil
}
