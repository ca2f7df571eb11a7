// Package stats provides a unified interface for collecting metrics.
package stats

// Metric names used throughout the library.
const (
	// Pool metrics.
	MetricAnalyses        = "kibitz_analyses_total"
	MetricTimeouts        = "kibitz_timeouts_total"
	MetricEngineFailures  = "kibitz_engine_failures_total"
	MetricStaleResults    = "kibitz_stale_results_total"
	MetricQueueDepth      = "kibitz_queue_depth"
	MetricAnalysisSeconds = "kibitz_analysis_seconds"

	// Report cache metrics.
	MetricCacheHits   = "kibitz_cache_hits_total"
	MetricCacheMisses = "kibitz_cache_misses_total"
	MetricCacheSize   = "kibitz_cache_size"
)

// Collector defines the interface for collecting metrics.
type Collector interface {
	// IncCounter increments a counter metric by delta.
	IncCounter(name string, delta int64)

	// SetGauge sets a gauge metric to value.
	SetGauge(name string, value int64)

	// ObserveHistogram records a value in a histogram metric.
	ObserveHistogram(name string, value float64)
}
