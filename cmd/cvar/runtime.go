package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"tail-risk-lab/internal/config"
	"tail-risk-lab/internal/ingestion"
	"tail-risk-lab/internal/observability"
	"tail-risk-lab/internal/orchestrator"
	"tail-risk-lab/internal/reporting"
	"tail-risk-lab/internal/storage"
	chstore "tail-risk-lab/internal/storage/clickhouse"
	"tail-risk-lab/internal/storage/memory"
	pgstore "tail-risk-lab/internal/storage/postgres"
)

// errNeedsDatabase is returned by commands that cannot run against a CSV source.
var errNeedsDatabase = errors.New("command needs a postgres or clickhouse source")

// app is everything one command invocation needs.
type app struct {
	cfg     *config.Config
	log     zerolog.Logger
	metrics *observability.Metrics
	orch    *orchestrator.Orchestrator
	close   func()
}

// setup loads the configuration, opens the configured store and builds the
// orchestrator. For a CSV source the store is in memory and scenarios must be
// loaded with preload.
func setup(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig(cmd.Flags())
	if err != nil {
		return nil, err
	}
	logger := newLogger(cfg.Log)

	store, closeStore, err := openStore(cmd.Context(), cfg.Source)
	if err != nil {
		return nil, err
	}

	var window *orchestrator.Window
	if from, to, set, _ := cfg.Window.Range(); set {
		window = &orchestrator.Window{From: from, To: to}
	}

	metrics := observability.NewMetrics("", prometheus.NewRegistry())
	orch := orchestrator.New(orchestrator.Options{
		Store:         store,
		Interpolation: cfg.Interpolation,
		Window:        window,
		Metrics:       metrics,
		Logger:        &logger,
	})

	logger.Debug().
		Str("source", cfg.Source.Kind).
		Float64("quantile", cfg.Quantile).
		Str("interpolation", cfg.Interpolation.String()).
		Msg("configuration loaded")

	return &app{
		cfg:     cfg,
		log:     logger,
		metrics: metrics,
		orch:    orch,
		close:   closeStore,
	}, nil
}

// openStore connects to the store selected by src.
func openStore(ctx context.Context, src config.Source) (storage.PnLStore, func(), error) {
	switch src.Kind {
	case config.SourcePostgres:
		pool, err := pgstore.NewPool(ctx, src.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		return pgstore.NewPnLStore(pool), pool.Close, nil
	case config.SourceClickHouse:
		conn, err := chstore.NewConn(ctx, src.ClickHouseDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("connect clickhouse: %w", err)
		}
		return chstore.NewPnLStore(conn), func() { _ = conn.Close() }, nil
	default:
		return memory.NewPnLStore(), func() {}, nil
	}
}

// preload copies the named scenarios from the CSV directory into the in-memory
// store. It does nothing for database sources.
func (a *app) preload(ctx context.Context, scenarios ...string) error {
	if a.cfg.Source.Kind != config.SourceCSV {
		return nil
	}
	_, err := a.orch.Ingest(ctx, ingestion.NewCSVSource(a.cfg.Source.CSVDir), scenarios)
	return err
}

// finish writes a report, then the metrics textfile if one is configured.
func (a *app) finish(name string, doc reporting.Document) error {
	paths, err := reporting.WriteFiles(a.cfg.Output.Dir, name, doc)
	if err != nil {
		return err
	}
	for _, p := range paths {
		a.log.Info().Str("path", p).Msg("report written")
	}
	return a.writeMetrics()
}

func (a *app) writeMetrics() error {
	if a.cfg.Output.MetricsTextfile == "" {
		return nil
	}
	if err := a.metrics.WriteTextfile(a.cfg.Output.MetricsTextfile); err != nil {
		return err
	}
	a.log.Debug().Str("path", a.cfg.Output.MetricsTextfile).Msg("metrics written")
	return nil
}

// signalContext cancels on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}
