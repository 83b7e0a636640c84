// Package orchestrator runs tail-risk queries end to end.
// It coordinates: storage → P&L matrix → risk → attribution → reporting
package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"tail-risk-lab/internal/attribution"
	"tail-risk-lab/internal/domain"
	"tail-risk-lab/internal/ingestion"
	"tail-risk-lab/internal/observability"
	"tail-risk-lab/internal/pnl"
	"tail-risk-lab/internal/quantile"
	"tail-risk-lab/internal/reporting"
	"tail-risk-lab/internal/risk"
	"tail-risk-lab/internal/storage"
)

// Query names used in logs and metrics.
const (
	QuerySummary   = "summary"
	QueryAttribute = "attribute"
	QueryIngest    = "ingest"
)

// Window restricts loaded P&L to [From, To], both inclusive.
type Window struct {
	From domain.Date
	To   domain.Date
}

// Orchestrator loads scenarios from a store and runs risk queries over them.
type Orchestrator struct {
	store         storage.PnLStore
	interpolation quantile.Interpolation
	window        *Window
	metrics       *observability.Metrics
	generator     *reporting.Generator
	log           zerolog.Logger
	now           func() time.Time
}

// Options for creating Orchestrator.
type Options struct {
	// Required store
	Store storage.PnLStore

	// Interpolation policy bound to every loaded scenario
	Interpolation quantile.Interpolation

	// Optional date window; nil loads every stored day
	Window *Window

	// Optional collaborators; nil values get a private registry, a no-op
	// logger and the UTC wall clock
	Metrics *observability.Metrics
	Logger  *zerolog.Logger
	Clock   func() time.Time
}

// New creates a new Orchestrator.
func New(opts Options) *Orchestrator {
	metrics := opts.Metrics
	if metrics == nil {
		metrics = observability.NewMetrics("", nil)
	}
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	now := opts.Clock
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}

	return &Orchestrator{
		store:         opts.Store,
		interpolation: opts.Interpolation,
		window:        opts.Window,
		metrics:       metrics,
		generator:     reporting.NewGenerator().WithClock(now),
		log:           logger.With().Str("component", "orchestrator").Logger(),
		now:           now,
	}
}

// Metrics returns the metrics the orchestrator records into.
func (o *Orchestrator) Metrics() *observability.Metrics {
	return o.metrics
}

// Scenarios lists the stored scenario ids.
func (o *Orchestrator) Scenarios(ctx context.Context) ([]string, error) {
	return o.store.ListScenarios(ctx)
}

// LoadDayset loads one scenario into a Dayset bound to the configured
// interpolation policy, restricted to the window when one is set.
func (o *Orchestrator) LoadDayset(ctx context.Context, scenario string) (*risk.Dayset, error) {
	start := time.Now()

	var (
		points []*domain.PnLPoint
		err    error
	)
	if o.window != nil {
		points, err = o.store.GetByDateRange(ctx, scenario, o.window.From, o.window.To)
		if err == nil && len(points) == 0 {
			err = fmt.Errorf("%w: no points in [%s, %s]", storage.ErrNotFound, o.window.From, o.window.To)
		}
	} else {
		points, err = o.store.GetByScenario(ctx, scenario)
	}
	if err != nil {
		return nil, fmt.Errorf("load scenario %s: %w", scenario, err)
	}

	m, err := pnl.FromPoints(points)
	if err != nil {
		return nil, fmt.Errorf("build matrix for %s: %w", scenario, err)
	}
	d, err := risk.NewDayset(m, o.interpolation)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario, err)
	}

	elapsed := time.Since(start)
	o.metrics.RecordLoad(scenario, len(points), elapsed)
	o.log.Debug().
		Str("scenario", scenario).
		Int("points", len(points)).
		Int("dates", m.Len()).
		Int("assets", m.Width()).
		Int("days", d.Days()).
		Dur("elapsed", elapsed).
		Msg("scenario loaded")

	return d, nil
}

// Summarize computes the tail summary of one scenario.
func (o *Orchestrator) Summarize(ctx context.Context, scenario string, q float64, assets []string) (report *reporting.SummaryReport, err error) {
	start := time.Now()
	defer func() { o.observe(QuerySummary, start, err) }()

	d, err := o.LoadDayset(ctx, scenario)
	if err != nil {
		return nil, err
	}

	summary, err := attribution.Summarize(d, q, assets...)
	if err != nil {
		return nil, fmt.Errorf("summarize %s: %w", scenario, err)
	}
	o.metrics.RecordTail(scenario, q, summary.VaR, summary.Stats.CVaR, summary.Stats.TailDays)

	o.log.Info().
		Str("scenario", scenario).
		Float64("q", q).
		Strs("assets", assets).
		Float64("var", summary.VaR).
		Float64("cvar", summary.CVaR).
		Int("tail_days", summary.Stats.TailDays).
		Int("total_days", summary.Stats.TotalDays).
		Msg("summary computed")

	return o.generator.Summary(scenario, o.interpolation, summary), nil
}

// Attribute compares the tails of base (old positions) and compare (new
// positions). Both scenarios are loaded concurrently.
func (o *Orchestrator) Attribute(ctx context.Context, base, compare string, q float64, assets []string) (report *reporting.AttributionReport, err error) {
	start := time.Now()
	defer func() { o.observe(QueryAttribute, start, err) }()

	var baseSet, compareSet *risk.Dayset
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		d, err := o.LoadDayset(gctx, base)
		baseSet = d
		return err
	})
	g.Go(func() error {
		d, err := o.LoadDayset(gctx, compare)
		compareSet = d
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	change, err := attribution.Compare(baseSet, compareSet, q, assets...)
	if err != nil {
		return nil, fmt.Errorf("compare %s with %s: %w", base, compare, err)
	}

	for _, s := range []struct {
		name string
		d    *risk.Dayset
	}{{base, baseSet}, {compare, compareSet}} {
		stats, err := s.d.Stats(q)
		if err != nil {
			return nil, fmt.Errorf("stats of %s: %w", s.name, err)
		}
		o.metrics.RecordTail(s.name, q, stats.VaR, stats.CVaR, stats.TailDays)
	}

	sameRef, _ := change.SameDays.ReferenceCVaR()
	sameProj, _ := change.SameDays.ProjectedCVaR()
	newRef, _ := change.NewDays.ReferenceCVaR()
	newProj, _ := change.NewDays.ProjectedCVaR()
	o.log.Info().
		Str("base", base).
		Str("compare", compare).
		Float64("q", q).
		Strs("assets", change.Assets).
		Float64("old_cvar", sameRef).
		Float64("new_on_old_days", sameProj).
		Float64("new_cvar", newRef).
		Float64("old_on_new_days", newProj).
		Int("shared_days", change.SameDays.InBoth.Len()).
		Msg("attribution computed")

	return o.generator.Attribution(base, compare, o.interpolation, change), nil
}

// Ingest copies scenarios from source into the store. Returns per-scenario
// point counts; scenarios stored before a failure stay stored.
func (o *Orchestrator) Ingest(ctx context.Context, source ingestion.PnLSource, scenarios []string) (counts map[string]int, err error) {
	start := time.Now()
	defer func() { o.observe(QueryIngest, start, err) }()

	mgr := ingestion.NewManager(ingestion.ManagerOptions{
		Source: source,
		Store:  o.store,
	})

	counts = make(map[string]int, len(scenarios))
	for _, id := range scenarios {
		n, err := mgr.IngestScenario(ctx, id)
		if err != nil {
			return counts, err
		}
		counts[id] = n
		o.metrics.RecordIngest(id, n)
		o.log.Info().Str("scenario", id).Int("points", n).Msg("scenario ingested")
	}
	return counts, nil
}

// observe records the outcome of one query.
func (o *Orchestrator) observe(query string, start time.Time, err error) {
	elapsed := time.Since(start)
	if err != nil {
		kind := ErrorKind(err)
		o.metrics.RecordQuery(query, elapsed, err, kind)
		o.log.Error().Err(err).Str("query", query).Str("kind", kind).Dur("elapsed", elapsed).Msg("query failed")
		return
	}
	o.metrics.RecordQuery(query, elapsed, nil, "")
	o.metrics.MarkSuccess(o.now())
}
