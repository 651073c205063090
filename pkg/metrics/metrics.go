package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	ResolutionsTotal    *prometheus.CounterVec
	CacheLookupsTotal   *prometheus.CounterVec
	CacheMergesTotal    *prometheus.CounterVec
	ExtractionDuration  *prometheus.HistogramVec
	ParserDocumentsLive prometheus.Gauge
	HTMLArchiveTotal    *prometheus.CounterVec

	initOnce sync.Once
)

// Init registers every collector with the default registry. Safe to call more than once.
func Init() {
	initOnce.Do(register)
}

func register() {
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	ResolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "article_resolutions_total",
			Help: "Total number of article resolutions by outcome.",
		},
		[]string{"source", "status", "error_type"}, // status: success, failure
	)

	CacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "article_cache_lookups_total",
			Help: "Article cache lookups by result.",
		},
		[]string{"source", "result"}, // hit, miss, soft_miss, error
	)

	CacheMergesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "article_cache_merges_total",
			Help: "Article cache merges by outcome.",
		},
		[]string{"source", "outcome"},
	)

	ExtractionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "article_extraction_duration_seconds",
			Help:    "Duration of extractor calls.",
			Buckets: []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 30, 45, 60},
		},
		[]string{"source"},
	)

	ParserDocumentsLive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "article_parser_documents_live",
			Help: "Parsed documents currently held by in-flight extractions.",
		},
	)

	HTMLArchiveTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "article_html_archive_total",
			Help: "Fire-and-forget page HTML archival attempts.",
		},
		[]string{"status"},
	)
}
