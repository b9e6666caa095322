package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_indexer_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "media_indexer_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "media_indexer_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Scanner metrics
var (
	ScanRunsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "media_indexer_scan_runs_total",
			Help: "Total number of scan runs",
		},
	)

	ScanDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "media_indexer_scan_duration_seconds",
			Help:    "Duration of a full scan in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60, 300},
		},
	)

	ScanFilesSeen = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "media_indexer_scan_files_seen_total",
			Help: "Total number of files visited by the scanner",
		},
	)

	ScanFilesIncluded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "media_indexer_scan_files_included_total",
			Help: "Total number of files classified into a category",
		},
	)

	ScanFilesSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_indexer_scan_files_skipped_total",
			Help: "Total number of files skipped during scans",
		},
		[]string{"reason"}, // "excluded", "stat_error", "read_error"
	)

	ScanErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "media_indexer_scan_errors_total",
			Help: "Total number of fatal scan errors",
		},
	)
)

// Cache metrics
var (
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "media_indexer_cache_hits_total",
			Help: "Total number of content cache hits",
		},
	)

	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "media_indexer_cache_misses_total",
			Help: "Total number of content cache misses",
		},
	)

	CacheEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "media_indexer_cache_entries",
			Help: "Number of entries in the content cache",
		},
	)

	CacheBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "media_indexer_cache_bytes",
			Help: "Total bytes held by the content cache",
		},
	)
)

// Watcher metrics
var (
	WatcherSignalsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "media_indexer_watcher_signals_total",
			Help: "Total number of filesystem change signals emitted",
		},
	)

	WatcherErrorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "media_indexer_watcher_errors_total",
			Help: "Total number of watcher errors",
		},
	)

	WatcherDirectories = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "media_indexer_watcher_directories",
			Help: "Number of directories currently registered with the watcher",
		},
	)
)

// Indexer metrics
var (
	IndexerPublishesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "media_indexer_publishes_total",
			Help: "Total number of snapshots published",
		},
	)

	IndexerStaleDropsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "media_indexer_stale_drops_total",
			Help: "Total number of load cycle results dropped as stale",
		},
	)

	IndexerGeneration = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "media_indexer_generation",
			Help: "Generation of the currently published snapshot",
		},
	)

	IndexerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "media_indexer_state",
			Help: "Indexer state (0=idle, 1=loading, 2=ready)",
		},
	)

	IndexerCycleDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "media_indexer_cycle_duration_seconds",
			Help:    "Duration of a load cycle in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60, 300},
		},
	)
)
