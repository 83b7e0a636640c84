// Package observability provides Prometheus metrics for risk queries.
package observability

import (
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DefaultNamespace prefixes every metric name when NewMetrics gets an empty namespace.
const DefaultNamespace = "tail_risk_lab"

// Query outcome labels.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	registry *prometheus.Registry

	// Query metrics
	QueriesTotal  *prometheus.CounterVec
	QueryErrors   *prometheus.CounterVec
	QueryDuration *prometheus.HistogramVec

	// Load and ingestion metrics
	PointsLoaded   *prometheus.CounterVec
	PointsIngested *prometheus.CounterVec
	LoadDuration   *prometheus.HistogramVec

	// Risk metrics, last computed value per scenario and quantile level
	VaR      *prometheus.GaugeVec
	CVaR     *prometheus.GaugeVec
	TailDays *prometheus.GaugeVec

	// Health metrics
	LastSuccessfulRun prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered on reg.
// A nil reg gets a fresh registry, so instances never share state.
func NewMetrics(namespace string, reg *prometheus.Registry) *Metrics {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		// Query metrics
		QueriesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "query",
			Name:      "runs_total",
			Help:      "Total number of risk queries by query and status",
		}, []string{"query", "status"}),
		QueryErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "query",
			Name:      "errors_total",
			Help:      "Total number of failed risk queries by error kind",
		}, []string{"query", "kind"}),
		QueryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "query",
			Name:      "duration_seconds",
			Help:      "Risk query duration in seconds, loading included",
			Buckets:   prometheus.DefBuckets,
		}, []string{"query"}),

		// Load and ingestion metrics
		PointsLoaded: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "points_loaded_total",
			Help:      "Total number of P&L points loaded by scenario",
		}, []string{"scenario"}),
		PointsIngested: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "points_stored_total",
			Help:      "Total number of P&L points stored by scenario",
		}, []string{"scenario"}),
		LoadDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "load_duration_seconds",
			Help:      "Scenario load duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"scenario"}),

		// Risk metrics
		VaR: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "risk",
			Name:      "var",
			Help:      "Value-at-Risk of the per-day aggregate P&L",
		}, []string{"scenario", "quantile"}),
		CVaR: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "risk",
			Name:      "cvar",
			Help:      "Conditional Value-at-Risk: mean P&L over tail days",
		}, []string{"scenario", "quantile"}),
		TailDays: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "risk",
			Name:      "tail_days",
			Help:      "Number of days strictly below VaR",
		}, []string{"scenario", "quantile"}),

		// Health metrics
		LastSuccessfulRun: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_run_timestamp",
			Help:      "Unix timestamp of last successful query",
		}),
	}
}

// Registry returns the registry the metrics are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordQuery records one risk query. kind is the error kind and is ignored when
// err is nil.
func (m *Metrics) RecordQuery(query string, duration time.Duration, err error, kind string) {
	m.QueryDuration.WithLabelValues(query).Observe(duration.Seconds())
	if err != nil {
		m.QueriesTotal.WithLabelValues(query, StatusError).Inc()
		m.QueryErrors.WithLabelValues(query, kind).Inc()
		return
	}
	m.QueriesTotal.WithLabelValues(query, StatusOK).Inc()
}

// RecordLoad records a scenario load of n points.
func (m *Metrics) RecordLoad(scenario string, n int, duration time.Duration) {
	m.PointsLoaded.WithLabelValues(scenario).Add(float64(n))
	m.LoadDuration.WithLabelValues(scenario).Observe(duration.Seconds())
}

// RecordIngest records n points stored for scenario.
func (m *Metrics) RecordIngest(scenario string, n int) {
	m.PointsIngested.WithLabelValues(scenario).Add(float64(n))
}

// RecordTail sets the risk gauges of scenario at level q.
func (m *Metrics) RecordTail(scenario string, q, valueAtRisk, cvar float64, tailDays int) {
	level := QuantileLabel(q)
	m.VaR.WithLabelValues(scenario, level).Set(valueAtRisk)
	m.CVaR.WithLabelValues(scenario, level).Set(cvar)
	m.TailDays.WithLabelValues(scenario, level).Set(float64(tailDays))
}

// MarkSuccess sets the last successful run timestamp.
func (m *Metrics) MarkSuccess(now time.Time) {
	m.LastSuccessfulRun.Set(float64(now.Unix()))
}

// WriteTextfile writes all metrics in the text exposition format to path, for
// pickup by a node_exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}

// QuantileLabel formats q for the quantile label, e.g. "0.025".
func QuantileLabel(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}
