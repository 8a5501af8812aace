// Package telemetry provides Prometheus metrics for refresh and report
// operations.
package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metric names as constants for consistency.
const (
	MetricRefreshTotal    = "snapshot_refresh_total"
	MetricRefreshDuration = "snapshot_refresh_duration_seconds"
	MetricRowsFetched     = "snapshot_rows_fetched_total"
	MetricReportsTotal    = "reports_computed_total"
)

// Status constants for operation outcomes.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Metrics contains Prometheus collectors for the service's two operations.
// All methods are safe on a nil receiver so wiring stays optional in tests.
type Metrics struct {
	refreshTotal    *prometheus.CounterVec
	refreshDuration prometheus.Histogram
	rowsFetched     *prometheus.CounterVec
	reportsTotal    *prometheus.CounterVec
}

// NewMetrics creates all collectors. They are not registered; call Register
// to attach them to a registry.
func NewMetrics() *Metrics {
	return &Metrics{
		refreshTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricRefreshTotal,
				Help: "Total number of snapshot refresh runs by status",
			},
			[]string{"status"},
		),
		refreshDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    MetricRefreshDuration,
				Help:    "Histogram of snapshot refresh duration in seconds",
				Buckets: []float64{0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0, 60.0},
			},
		),
		rowsFetched: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricRowsFetched,
				Help: "Total raw rows fetched from the table store by table",
			},
			[]string{"table"},
		),
		reportsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricReportsTotal,
				Help: "Total reports computed by granularity and status",
			},
			[]string{"granularity", "status"},
		),
	}
}

// Register attaches all collectors to the given registry.
func (m *Metrics) Register(r prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{
		m.refreshTotal, m.refreshDuration, m.rowsFetched, m.reportsTotal,
	} {
		if err := r.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// ObserveRefresh records one refresh run.
func (m *Metrics) ObserveRefresh(status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.refreshTotal.WithLabelValues(status).Inc()
	m.refreshDuration.Observe(elapsed.Seconds())
}

// AddRowsFetched records rows fetched for one table.
func (m *Metrics) AddRowsFetched(table string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.rowsFetched.WithLabelValues(table).Add(float64(n))
}

// ObserveReport records one report computation.
func (m *Metrics) ObserveReport(granularity, status string) {
	if m == nil {
		return
	}
	m.reportsTotal.WithLabelValues(granularity, status).Inc()
}
