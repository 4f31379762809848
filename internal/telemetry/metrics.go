package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ludo-technologies/dddscan/domain"
)

const metricsNamespace = "dddscan"

// Metrics are the counters of one analysis process
type Metrics struct {
	registry *prometheus.Registry

	FilesAnalyzed prometheus.Counter
	FilesSkipped  prometheus.Counter
	CacheHits     prometheus.Counter
	CacheMisses   prometheus.Counter
	Violations    *prometheus.CounterVec
	Runs          *prometheus.CounterVec
	RunDuration   prometheus.Histogram
}

// NewMetrics registers the analysis metrics on a fresh registry
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		FilesAnalyzed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "extract",
			Name:      "files_analyzed_total",
			Help:      "Total PHP files turned into source items",
		}),
		FilesSkipped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "extract",
			Name:      "files_skipped_total",
			Help:      "Total PHP files without a class-like declaration",
		}),
		CacheHits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "cache",
			Name:      "hits_total",
			Help:      "Total extractions served from the item cache",
		}),
		CacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "cache",
			Name:      "misses_total",
			Help:      "Total extractions that had to parse the file",
		}),
		Violations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "check",
			Name:      "violations_total",
			Help:      "Total violations found by kind",
		}, []string{"kind"}),
		Runs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "check",
			Name:      "runs_total",
			Help:      "Total analysis runs by outcome",
		}, []string{"status"}),
		RunDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "check",
			Name:      "run_duration_seconds",
			Help:      "Duration of analysis runs",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
	}
}

// Registry exposes the registry the metrics live on
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordViolations counts violations by kind
func (m *Metrics) RecordViolations(violations []domain.Violation) {
	for _, v := range violations {
		m.Violations.WithLabelValues(string(v.Kind)).Inc()
	}
}

// RecordRun counts one finished run. status is "passed", "failed" or "error".
func (m *Metrics) RecordRun(status string, seconds float64) {
	m.Runs.WithLabelValues(status).Inc()
	m.RunDuration.Observe(seconds)
}

// WriteTextfile dumps the metrics in the node-exporter textfile format
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return domain.NewOutputError("failed to write metrics file", err)
	}
	return nil
}
