// Package metrics provides Prometheus metrics collection for the feature
// importance engine. It defines counters, gauges, and histograms for
// importance runs, per-feature trials, the parallel/sequential fallback,
// and remote model scoring, exposed via the /metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the importance engine.
type Metrics struct {
	ImportanceRuns        prometheus.Counter   // Completed importance runs
	ImportanceRunFailures prometheus.Counter   // Importance runs that ended in error
	PoolFallbacks         prometheus.Counter   // Parallel runs that fell back to sequential execution
	FeatureTaskDurations  prometheus.Histogram // Per-feature trial duration in seconds
	PredictionLatency     prometheus.Histogram // Remote model scoring latency in seconds
	BaselineRows          prometheus.Gauge     // Rows in the most recent baseline sample
}

// New creates and registers all metrics using the default registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates metrics with a custom registry (useful for
// testing, where the global registry would collide across cases).
func NewWithRegistry(registerer prometheus.Registerer) *Metrics {
	factory := promauto.With(registerer)
	return &Metrics{
		ImportanceRuns: factory.NewCounter(prometheus.CounterOpts{
			Name: "importance_runs_total",
			Help: "Total number of completed feature importance runs",
		}),
		ImportanceRunFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "importance_run_failures_total",
			Help: "Total number of feature importance runs that ended in error",
		}),
		PoolFallbacks: factory.NewCounter(prometheus.CounterOpts{
			Name: "importance_pool_fallbacks_total",
			Help: "Total number of parallel runs degraded to sequential execution",
		}),
		FeatureTaskDurations: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "importance_feature_task_duration_seconds",
			Help:    "Duration of single-feature importance trials in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 15),
		}),
		PredictionLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "model_prediction_latency_seconds",
			Help:    "Latency of model prediction calls in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}),
		BaselineRows: factory.NewGauge(prometheus.GaugeOpts{
			Name: "importance_baseline_rows",
			Help: "Number of rows in the most recent baseline sample",
		}),
	}
}

// The methods below satisfy the engine's MetricsSink interface.

// ImportanceRunsInc records one completed run.
func (m *Metrics) ImportanceRunsInc() { m.ImportanceRuns.Inc() }

// ImportanceRunFailuresInc records one failed run.
func (m *Metrics) ImportanceRunFailuresInc() { m.ImportanceRunFailures.Inc() }

// PoolFallbacksInc records one parallel-to-sequential fallback.
func (m *Metrics) PoolFallbacksInc() { m.PoolFallbacks.Inc() }

// FeatureTaskDuration records one per-feature trial duration.
func (m *Metrics) FeatureTaskDuration(seconds float64) { m.FeatureTaskDurations.Observe(seconds) }

// PredictionLatencyObserve records one model scoring latency.
func (m *Metrics) PredictionLatencyObserve(seconds float64) { m.PredictionLatency.Observe(seconds) }

// BaselineRowsSet records the baseline sample size of the current run.
func (m *Metrics) BaselineRowsSet(rows int) { m.BaselineRows.Set(float64(rows)) }
