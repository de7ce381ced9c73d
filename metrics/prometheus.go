// Package metrics provides Prometheus metrics for the settlement
// job orchestrator and report aggregator.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all settlement-processing metrics.
type Metrics struct {
	// Counters
	JobsSubmitted     *prometheus.CounterVec
	RecordsProcessed  *prometheus.CounterVec
	BatchesWritten    *prometheus.CounterVec
	OrphanRecoveries  *prometheus.CounterVec
	RetryAttempts     prometheus.Counter
	ErrorsTotal       *prometheus.CounterVec

	// Gauges
	ActiveJobs     prometheus.Gauge
	PendingBatches prometheus.Gauge

	// Histograms
	BatchDuration     prometheus.Histogram
	JobDuration       prometheus.Histogram
	ReportBuildLatency *prometheus.HistogramVec

	// Summary
	RecordsPerSecond prometheus.Summary

	registry *prometheus.Registry
	enabled  bool
}

// Config holds metrics configuration.
type Config struct {
	Enabled bool   `yaml:"enabled"`
	Address string `yaml:"address"`
}

// ApplyDefaults sets default values for metrics config.
func (c *Config) ApplyDefaults() {
	if c.Address == "" {
		c.Address = ":9090"
	}
}

// New creates a new metrics instance. When cfg.Enabled is false the
// returned Metrics is a safe no-op -- every Record/Set method checks
// enabled before touching a nil collector.
func New(cfg Config) *Metrics {
	cfg.ApplyDefaults()

	m := &Metrics{
		enabled:  cfg.Enabled,
		registry: prometheus.NewRegistry(),
	}
	if !cfg.Enabled {
		return m
	}

	m.JobsSubmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "vss", Name: "jobs_submitted_total", Help: "Total settlement jobs submitted"},
		[]string{"client_id"},
	)
	m.RecordsProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "vss", Name: "records_processed_total", Help: "Total records processed by record kind"},
		[]string{"kind"},
	)
	m.BatchesWritten = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "vss", Name: "batches_written_total", Help: "Total batches written by outcome"},
		[]string{"status"}, // "success", "failed"
	)
	m.OrphanRecoveries = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "vss", Name: "orphan_tcr1_recoveries_total", Help: "Total orphan TCR1 parent recoveries by resolved report id"},
		[]string{"report_id_number"},
	)
	m.RetryAttempts = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "vss", Name: "retry_attempts_total", Help: "Total batch-write retry attempts"},
	)
	m.ErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "vss", Name: "errors_total", Help: "Total errors by type"},
		[]string{"type"}, // "parse", "invariant", "store"
	)

	m.ActiveJobs = prometheus.NewGauge(
		prometheus.GaugeOpts{Namespace: "vss", Name: "jobs_active", Help: "Number of jobs currently PROCESSING"},
	)
	m.PendingBatches = prometheus.NewGauge(
		prometheus.GaugeOpts{Namespace: "vss", Name: "pending_batches", Help: "Number of lines in the batch not yet written"},
	)

	m.BatchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "vss", Name: "batch_duration_seconds", Help: "Time to write one batch",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
		},
	)
	m.JobDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "vss", Name: "job_duration_seconds", Help: "Time from PROCESSING to terminal status",
			Buckets: []float64{1, 5, 10, 30, 60, 300, 600, 1800, 3600},
		},
	)
	m.ReportBuildLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "vss", Name: "report_build_duration_seconds", Help: "Time to build a report by format",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		},
		[]string{"format"},
	)

	m.RecordsPerSecond = prometheus.NewSummary(
		prometheus.SummaryOpts{
			Namespace: "vss", Name: "records_per_second", Help: "Record processing rate",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
	)

	m.registry.MustRegister(
		m.JobsSubmitted, m.RecordsProcessed, m.BatchesWritten, m.OrphanRecoveries,
		m.RetryAttempts, m.ErrorsTotal, m.ActiveJobs, m.PendingBatches,
		m.BatchDuration, m.JobDuration, m.ReportBuildLatency, m.RecordsPerSecond,
	)
	m.registry.MustRegister(prometheus.NewGoCollector())
	m.registry.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))

	return m
}

// Handler returns an HTTP handler for metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// StartServer starts a metrics HTTP server. No-op when metrics are disabled.
func (m *Metrics) StartServer(addr string) error {
	if !m.enabled {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	return http.ListenAndServe(addr, mux)
}

func (m *Metrics) IsEnabled() bool { return m.enabled }

func (m *Metrics) RecordJobSubmitted(clientID string) {
	if m.enabled && m.JobsSubmitted != nil {
		m.JobsSubmitted.WithLabelValues(clientID).Inc()
	}
}

func (m *Metrics) RecordRecordProcessed(kind string) {
	if m.enabled && m.RecordsProcessed != nil {
		m.RecordsProcessed.WithLabelValues(kind).Inc()
	}
}

func (m *Metrics) RecordBatchWritten(status string) {
	if m.enabled && m.BatchesWritten != nil {
		m.BatchesWritten.WithLabelValues(status).Inc()
	}
}

func (m *Metrics) RecordOrphanRecovery(reportIDNumber string) {
	if m.enabled && m.OrphanRecoveries != nil {
		m.OrphanRecoveries.WithLabelValues(reportIDNumber).Inc()
	}
}

func (m *Metrics) RecordRetryAttempt() {
	if m.enabled && m.RetryAttempts != nil {
		m.RetryAttempts.Inc()
	}
}

func (m *Metrics) RecordErrorType(errType string) {
	if m.enabled && m.ErrorsTotal != nil {
		m.ErrorsTotal.WithLabelValues(errType).Inc()
	}
}

func (m *Metrics) SetActiveJobs(count int) {
	if m.enabled && m.ActiveJobs != nil {
		m.ActiveJobs.Set(float64(count))
	}
}

func (m *Metrics) SetPendingBatches(count int) {
	if m.enabled && m.PendingBatches != nil {
		m.PendingBatches.Set(float64(count))
	}
}

func (m *Metrics) RecordBatchDuration(d time.Duration) {
	if m.enabled && m.BatchDuration != nil {
		m.BatchDuration.Observe(d.Seconds())
	}
}

func (m *Metrics) RecordJobDuration(d time.Duration) {
	if m.enabled && m.JobDuration != nil {
		m.JobDuration.Observe(d.Seconds())
	}
}

func (m *Metrics) RecordReportBuildDuration(format string, d time.Duration) {
	if m.enabled && m.ReportBuildLatency != nil {
		m.ReportBuildLatency.WithLabelValues(format).Observe(d.Seconds())
	}
}

func (m *Metrics) RecordRecordsPerSecond(rate float64) {
	if m.enabled && m.RecordsPerSecond != nil {
		m.RecordsPerSecond.Observe(rate)
	}
}
