package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tail-risk-lab/internal/domain"
	"tail-risk-lab/internal/ingestion"
	"tail-risk-lab/internal/ingestion/stub"
	"tail-risk-lab/internal/observability"
	"tail-risk-lab/internal/pnl"
	"tail-risk-lab/internal/quantile"
	"tail-risk-lab/internal/risk"
	"tail-risk-lab/internal/storage"
	"tail-risk-lab/internal/storage/memory"
)

var fixedNow = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

func day(n int) domain.Date {
	return domain.NewDate(2020, time.January, 1).AddDays(n)
}

// points converts rows (one per day starting at d0) into stored points; NaN cells are skipped.
func points(scenario string, assets []string, rows [][]float64) []*domain.PnLPoint {
	var out []*domain.PnLPoint
	for i, row := range rows {
		for j, v := range row {
			if math.IsNaN(v) {
				continue
			}
			out = append(out, &domain.PnLPoint{ScenarioID: scenario, Date: day(i), AssetID: assets[j], PnL: v})
		}
	}
	return out
}

// Base totals: -48 d0, 10 d1, -40 d2, -30 d3, 30 d4, -10 d5, -25 d6, 3 d7, -35 d8, 16 d9.
var baseRows = [][]float64{
	{2, -50},
	{5, 5},
	{-40, 0},
	{0, -30},
	{20, 10},
	{-5, -5},
	{15, -40},
	{1, 2},
	{-20, -15},
	{8, 8},
}

// Hedged totals: 2 d0, 5 d1, -40 d2, 0 d3, 20 d4, -5 d5, 15 d6, 1 d7, -35 d8, 8 d9.
var hedgedRows = [][]float64{
	{2, -50, 50},
	{5, 5, -5},
	{-40, 0, 0},
	{0, -30, 30},
	{20, 10, -10},
	{-5, -5, 5},
	{15, -40, 40},
	{1, 2, -2},
	{-20, -15, math.NaN()},
	{8, 8, -8},
}

func newTestOrchestrator(t *testing.T, window *Window) (*Orchestrator, *observability.Metrics) {
	t.Helper()
	store := memory.NewPnLStore()
	ctx := context.Background()
	require.NoError(t, store.InsertBulk(ctx, points("base", []string{"a0", "a1"}, baseRows)))
	require.NoError(t, store.InsertBulk(ctx, points("hedged", []string{"a0", "a1", "hedge"}, hedgedRows)))

	metrics := observability.NewMetrics("test", nil)
	orch := New(Options{
		Store:         store,
		Interpolation: quantile.Lower,
		Window:        window,
		Metrics:       metrics,
		Clock:         func() time.Time { return fixedNow },
	})
	return orch, metrics
}

func TestLoadDayset(t *testing.T) {
	orch, metrics := newTestOrchestrator(t, nil)

	d, err := orch.LoadDayset(context.Background(), "hedged")
	require.NoError(t, err)
	assert.Equal(t, 10, d.Days())
	assert.Equal(t, []string{"a0", "a1", "hedge"}, d.Matrix().Assets())
	assert.Equal(t, quantile.Lower, d.Interpolation())

	_, known := d.Matrix().Value(day(8), "hedge")
	assert.False(t, known, "unstored cell must load as missing")

	assert.Equal(t, 29.0, testutil.ToFloat64(metrics.PointsLoaded.WithLabelValues("hedged")))
}

func TestSummarize(t *testing.T) {
	orch, metrics := newTestOrchestrator(t, nil)

	report, err := orch.Summarize(context.Background(), "base", 0.4, nil)
	require.NoError(t, err)

	assert.Equal(t, "base", report.Scenario)
	assert.Equal(t, fixedNow, report.GeneratedAt)
	assert.Equal(t, -30.0, report.VaR)
	assert.InDelta(t, -41.0, report.CVaR, 1e-9)
	assert.Equal(t, 3, report.TailDays)
	assert.Equal(t, 10, report.TotalDays)
	assert.Equal(t, day(0), report.WorstDay)
	assert.Equal(t, -48.0, report.WorstDayValue)

	require.Len(t, report.Rows, 3)
	assert.Equal(t, []domain.Date{day(0), day(2), day(8)},
		[]domain.Date{report.Rows[0].Date, report.Rows[1].Date, report.Rows[2].Date})

	level := observability.QuantileLabel(0.4)
	assert.Equal(t, -30.0, testutil.ToFloat64(metrics.VaR.WithLabelValues("base", level)))
	assert.InDelta(t, -41.0, testutil.ToFloat64(metrics.CVaR.WithLabelValues("base", level)), 1e-9)
	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.TailDays.WithLabelValues("base", level)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.QueriesTotal.WithLabelValues(QuerySummary, observability.StatusOK)))
	assert.Equal(t, float64(fixedNow.Unix()), testutil.ToFloat64(metrics.LastSuccessfulRun))
}

func TestSummarize_AssetSubset(t *testing.T) {
	orch, _ := newTestOrchestrator(t, nil)

	report, err := orch.Summarize(context.Background(), "base", 0.4, []string{"a1"})
	require.NoError(t, err)

	// a1 on {d0, d2, d8}: -50, 0, -15
	assert.InDelta(t, -65.0/3, report.CVaR, 1e-9)
	assert.Equal(t, []string{"a1"}, report.Assets)
	assert.Equal(t, -30.0, report.VaR, "VaR stays the portfolio VaR")
}

func TestSummarize_Errors(t *testing.T) {
	tests := []struct {
		name     string
		scenario string
		q        float64
		assets   []string
		want     error
		kind     string
	}{
		{"unknown scenario", "missing", 0.4, nil, storage.ErrNotFound, KindNotFound},
		{"q out of range", "base", 1.5, nil, risk.ErrInvalidQuantile, KindInvalidQuantile},
		{"empty tail", "base", 0.01, nil, risk.ErrEmptyTailSet, KindEmptyTailSet},
		{"unknown asset", "base", 0.4, []string{"hedge"}, pnl.ErrUnknownAsset, KindUnknownAsset},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orch, metrics := newTestOrchestrator(t, nil)

			_, err := orch.Summarize(context.Background(), tt.scenario, tt.q, tt.assets)
			require.ErrorIs(t, err, tt.want)
			assert.Equal(t, 1.0, testutil.ToFloat64(metrics.QueryErrors.WithLabelValues(QuerySummary, tt.kind)))
			assert.Equal(t, 0.0, testutil.ToFloat64(metrics.LastSuccessfulRun))
		})
	}
}

func TestAttribute(t *testing.T) {
	orch, metrics := newTestOrchestrator(t, nil)

	report, err := orch.Attribute(context.Background(), "base", "hedged", 0.4, nil)
	require.NoError(t, err)

	assert.Equal(t, "base", report.Base)
	assert.Equal(t, "hedged", report.Compare)

	// Old tail {d0, d2, d8}; hedged totals there: 2, -40, -35.
	same := report.SameDays
	assert.InDelta(t, -41.0, same.ReferenceCVaR, 1e-9)
	assert.InDelta(t, -73.0/3, same.ProjectedCVaR, 1e-9)
	assert.Equal(t, 2, same.SharedDays)
	assert.Equal(t, 1, same.DistinctDays)

	// New tail {d2, d5, d8}; base totals there: -40, -10, -35.
	newDays := report.NewDays
	assert.InDelta(t, -80.0/3, newDays.ReferenceCVaR, 1e-9)
	assert.InDelta(t, -85.0/3, newDays.ProjectedCVaR, 1e-9)
	assert.Equal(t, 2, newDays.SharedDays)
	assert.Equal(t, 1, newDays.DistinctDays)

	level := observability.QuantileLabel(0.4)
	assert.Equal(t, -30.0, testutil.ToFloat64(metrics.VaR.WithLabelValues("base", level)))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.VaR.WithLabelValues("hedged", level)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.QueriesTotal.WithLabelValues(QueryAttribute, observability.StatusOK)))
}

func TestAttribute_MissingScenario(t *testing.T) {
	orch, metrics := newTestOrchestrator(t, nil)

	_, err := orch.Attribute(context.Background(), "base", "missing", 0.4, nil)
	require.ErrorIs(t, err, storage.ErrNotFound)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.QueryErrors.WithLabelValues(QueryAttribute, KindNotFound)))
}

func TestWindow(t *testing.T) {
	orch, _ := newTestOrchestrator(t, &Window{From: day(0), To: day(4)})

	// Totals in window sorted: -48, -40, -30, 10, 30; lower rank 2 → -30.
	report, err := orch.Summarize(context.Background(), "base", 0.5, nil)
	require.NoError(t, err)
	assert.Equal(t, -30.0, report.VaR)
	assert.InDelta(t, -44.0, report.CVaR, 1e-9)
	assert.Equal(t, 5, report.TotalDays)
}

func TestWindow_NoPoints(t *testing.T) {
	orch, _ := newTestOrchestrator(t, &Window{From: day(100), To: day(200)})

	_, err := orch.LoadDayset(context.Background(), "base")
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestIngest(t *testing.T) {
	store := memory.NewPnLStore()
	metrics := observability.NewMetrics("test", nil)
	orch := New(Options{Store: store, Metrics: metrics})

	source := stub.NewStubPnLSource(points("s1", []string{"a", "b"}, [][]float64{{1, 2}, {3, math.NaN()}}))
	counts, err := orch.Ingest(context.Background(), source, []string{"s1"})
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"s1": 3}, counts)
	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.PointsIngested.WithLabelValues("s1")))

	scenarios, err := orch.Scenarios(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"s1"}, scenarios)

	// A second ingest of the same scenario collides on every key.
	_, err = orch.Ingest(context.Background(), source, []string{"s1"})
	require.ErrorIs(t, err, storage.ErrDuplicateKey)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.QueryErrors.WithLabelValues(QueryIngest, KindDuplicate)))
}

func TestIngest_SourceError(t *testing.T) {
	orch := New(Options{Store: memory.NewPnLStore()})

	_, err := orch.Ingest(context.Background(), stub.NewFailingPnLSource(ingestion.ErrMalformedCSV), []string{"s"})
	require.ErrorIs(t, err, ingestion.ErrMalformedCSV)
}

func TestErrorKind(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{fmt.Errorf("load: %w", storage.ErrNotFound), KindNotFound},
		{fmt.Errorf("q: %w", risk.ErrInvalidQuantile), KindInvalidQuantile},
		{quantile.ErrUnknownInterpolation, KindInvalidQuantile},
		{pnl.ErrEmptyInput, KindEmptyInput},
		{fmt.Errorf("x: %w", context.DeadlineExceeded), KindCanceled},
		{errors.New("boom"), KindOther},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ErrorKind(tt.err), tt.err.Error())
	}
}
