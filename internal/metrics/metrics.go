// Package metrics provides Prometheus metrics for outline extraction runs.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the collectors for one process. A nil *Metrics is valid and records nothing.
type Metrics struct {
	OracleCallsTotal   *prometheus.CounterVec
	OracleCallDuration prometheus.Histogram
	DocumentsTotal     *prometheus.CounterVec
	ChunksTotal        *prometheus.CounterVec
	RowsTotal          *prometheus.CounterVec
	RunsInFlight       prometheus.Gauge
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		OracleCallsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docoutline_oracle_calls_total",
				Help: "Total number of oracle invocations by outcome",
			},
			[]string{"outcome"},
		),
		OracleCallDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "docoutline_oracle_call_duration_seconds",
				Help:    "Duration of oracle invocations in seconds",
				Buckets: []float64{1, 5, 15, 30, 60, 120, 180, 300},
			},
		),
		DocumentsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docoutline_documents_total",
				Help: "Total number of documents processed by final status",
			},
			[]string{"status"},
		),
		ChunksTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docoutline_chunks_total",
				Help: "Total number of chunks by result",
			},
			[]string{"result"},
		),
		RowsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docoutline_rows_total",
				Help: "Total number of outline rows emitted per subject",
			},
			[]string{"subject"},
		),
		RunsInFlight: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "docoutline_runs_in_flight",
				Help: "Number of subject runs currently executing",
			},
		),
	}
}

// ObserveOracle records one oracle invocation.
func (m *Metrics) ObserveOracle(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.OracleCallsTotal.WithLabelValues(outcome).Inc()
	m.OracleCallDuration.Observe(d.Seconds())
}

// ObserveChunk records whether a chunk got an oracle answer ("answered" or "absent").
func (m *Metrics) ObserveChunk(result string) {
	if m == nil {
		return
	}
	m.ChunksTotal.WithLabelValues(result).Inc()
}

// ObserveDocument records a finished document.
func (m *Metrics) ObserveDocument(status string) {
	if m == nil {
		return
	}
	m.DocumentsTotal.WithLabelValues(status).Inc()
}

// ObserveRows adds emitted rows for a subject.
func (m *Metrics) ObserveRows(subject string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.RowsTotal.WithLabelValues(subject).Add(float64(n))
}

// RunStarted marks a subject run as in flight; call the returned func when it ends.
func (m *Metrics) RunStarted() func() {
	if m == nil {
		return func() {}
	}
	m.RunsInFlight.Inc()
	return m.RunsInFlight.Dec
}
