// # internal/shared/observability/metrics.go
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	ParsingDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "doq_parsing_seconds",
		Help:    "Time spent parsing a Python source file.",
		Buckets: prometheus.DefBuckets,
	})

	FilesProcessedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "doq_files_processed_total",
		Help: "Files processed, by outcome (changed, unchanged, failed).",
	}, []string{"result"})

	PlacementsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "doq_docstrings_generated_total",
		Help: "Docstrings generated, by template.",
	}, []string{"template"})

	ParsersLeased = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "doq_parsers_leased",
		Help: "Tree-sitter parsers currently checked out of the pool.",
	})

	RunDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "doq_run_seconds",
		Help:    "Wall time of a whole run over all targets.",
		Buckets: prometheus.DefBuckets,
	})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "doq_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})

	RewritesThrottledTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "doq_watcher_rewrites_throttled_total",
		Help: "Watch-mode rewrites delayed by the rewrite rate limit.",
	})
)

// File outcomes for FilesProcessedTotal.
const (
	ResultChanged   = "changed"
	ResultUnchanged = "unchanged"
	ResultFailed    = "failed"
)
