// Package metrics provides Prometheus metrics for the companion daemon.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CompanionMetrics collects and exposes companion-related Prometheus metrics.
type CompanionMetrics struct {
	registry *prometheus.Registry

	// Ledger metrics
	PredictionsTotal   *prometheus.CounterVec
	PendingPredictions prometheus.Gauge
	AccuracyPercent    prometheus.Gauge

	// Verification metrics
	VerificationsTotal *prometheus.CounterVec
	VerifyRuns         prometheus.Counter
	VerifyDuration     prometheus.Histogram

	// Analysis metrics
	CacheHits   prometheus.Counter
	CacheMisses prometheus.Counter

	// LLM metrics
	LLMRequests *prometheus.CounterVec
	LLMDuration prometheus.Histogram
}

// New creates a companion metrics collector with its own registry.
func New() *CompanionMetrics {
	registry := prometheus.NewRegistry()

	m := &CompanionMetrics{
		registry: registry,

		PredictionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "betmate_predictions_total",
				Help: "Total number of predictions recorded",
			},
			[]string{"outcome"},
		),
		PendingPredictions: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "betmate_pending_predictions",
				Help: "Current number of unverified predictions",
			},
		),
		AccuracyPercent: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "betmate_accuracy_percent",
				Help: "Accuracy over verified predictions",
			},
		),

		VerificationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "betmate_verifications_total",
				Help: "Predictions settled, by result",
			},
			[]string{"result"},
		),
		VerifyRuns: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "betmate_verify_runs_total",
				Help: "Verification passes executed",
			},
		),
		VerifyDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "betmate_verify_duration_seconds",
				Help:    "Duration of a verification pass",
				Buckets: prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~40s
			},
		),

		CacheHits: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "betmate_analysis_cache_hits_total",
				Help: "Analysis cache hits",
			},
		),
		CacheMisses: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "betmate_analysis_cache_misses_total",
				Help: "Analysis cache misses (including expired entries)",
			},
		),

		LLMRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "betmate_llm_requests_total",
				Help: "LLM generation calls, by status",
			},
			[]string{"status"},
		),
		LLMDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "betmate_llm_request_seconds",
				Help:    "LLM generation call latency",
				Buckets: prometheus.ExponentialBuckets(0.1, 2, 10), // 100ms to ~51s
			},
		),
	}

	registry.MustRegister(
		m.PredictionsTotal,
		m.PendingPredictions,
		m.AccuracyPercent,
		m.VerificationsTotal,
		m.VerifyRuns,
		m.VerifyDuration,
		m.CacheHits,
		m.CacheMisses,
		m.LLMRequests,
		m.LLMDuration,
	)

	return m
}

// Registry returns the underlying registry for the /metrics handler.
func (m *CompanionMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveVerifyRun records one verification pass.
func (m *CompanionMetrics) ObserveVerifyRun(d time.Duration) {
	m.VerifyRuns.Inc()
	m.VerifyDuration.Observe(d.Seconds())
}

// RecordStats pushes the current ledger aggregates to the gauges.
func (m *CompanionMetrics) RecordStats(pending, accuracy int) {
	m.PendingPredictions.Set(float64(pending))
	m.AccuracyPercent.Set(float64(accuracy))
}
