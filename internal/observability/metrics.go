package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// report pipeline.
type Metrics struct {
	ReportsServed    *prometheus.CounterVec // labels: source={cache,upstream}
	PipelineFailures *prometheus.CounterVec // labels: reason={upstream_unavailable,malformed_feed,missing_timestamp,other}
	PipelineDuration prometheus.Histogram

	// Fetch metrics.
	FetchAttempts *prometheus.CounterVec // labels: candidate, outcome={success,error}
	FetchDuration prometheus.Histogram

	// Data quality and side-channel metrics.
	RangeWarnings    *prometheus.CounterVec // labels: field
	PublishErrors    prometheus.Counter
	PublisherEnabled prometheus.Gauge
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		ReportsServed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "buoy_report",
			Name:      "reports_served_total",
			Help:      "Reports served, by source (cache hit or upstream fetch).",
		}, []string{"source"}),
		PipelineFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "buoy_report",
			Name:      "pipeline_failures_total",
			Help:      "Failed pipeline runs, by failure reason.",
		}, []string{"reason"}),
		PipelineDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "buoy_report",
			Name:      "pipeline_duration_seconds",
			Help:      "Duration of a complete fetch-parse-normalize-store run.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 20},
		}),
		FetchAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "buoy_report",
			Name:      "fetch_attempts_total",
			Help:      "Fetch attempts by candidate source and outcome.",
		}, []string{"candidate", "outcome"}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "buoy_report",
			Name:      "fetch_duration_seconds",
			Help:      "Duration of the winning fetch attempt.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		RangeWarnings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "buoy_report",
			Name:      "range_warnings_total",
			Help:      "Advisory out-of-range warnings, by field.",
		}, []string{"field"}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "buoy_report",
			Name:      "publish_errors_total",
			Help:      "Failed observation publishes to the sink topic.",
		}),
		PublisherEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "buoy_report",
			Name:      "publisher_enabled",
			Help:      "1 when the Kafka observation publisher is enabled, 0 otherwise.",
		}),
	}

	prometheus.MustRegister(
		m.ReportsServed,
		m.PipelineFailures,
		m.PipelineDuration,
		m.FetchAttempts,
		m.FetchDuration,
		m.RangeWarnings,
		m.PublishErrors,
		m.PublisherEnabled,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		ReportsServed:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "buoy_report", Name: "reports_served_total"}, []string{"source"}),
		PipelineFailures: prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "buoy_report", Name: "pipeline_failures_total"}, []string{"reason"}),
		PipelineDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "buoy_report", Name: "pipeline_duration_seconds"}),
		FetchAttempts:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "buoy_report", Name: "fetch_attempts_total"}, []string{"candidate", "outcome"}),
		FetchDuration:    prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "buoy_report", Name: "fetch_duration_seconds"}),
		RangeWarnings:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "buoy_report", Name: "range_warnings_total"}, []string{"field"}),
		PublishErrors:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "buoy_report", Name: "publish_errors_total"}),
		PublisherEnabled: prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "buoy_report", Name: "publisher_enabled"}),
	}
}
