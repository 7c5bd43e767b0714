// Package metrics defines Prometheus metrics for the recommender.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommender_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommender_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	ErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommender_errors_total",
			Help: "Total errors by type",
		},
		[]string{"type"},
	)

	ArtifactLoadDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommender_artifact_load_duration_seconds",
			Help:    "Time spent loading artifact snapshots, by phase",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"phase"},
	)

	ArtifactDegradedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommender_artifact_degraded_total",
			Help: "Snapshot files that were missing or failed to load",
		},
		[]string{"source"},
	)

	CatalogProducts = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommender_catalog_products",
			Help: "Products in the loaded catalog",
		},
	)

	RecommendationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommender_recommendations_total",
			Help: "Recommendation requests by serving path",
		},
		[]string{"path"},
	)

	RecommendCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommender_similarity_cache_total",
			Help: "Similarity result cache lookups by result",
		},
		[]string{"result"},
	)

	MatchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommender_fuzzy_matches_total",
			Help: "Free-text match lookups by result",
		},
		[]string{"result"},
	)

	ScrapesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommender_live_price_scrapes_total",
			Help: "Live price lookups by outcome",
		},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(
		RequestDuration, RequestsTotal, ErrorsTotal,
		ArtifactLoadDuration, ArtifactDegradedTotal, CatalogProducts,
		RecommendationsTotal, RecommendCacheTotal, MatchesTotal, ScrapesTotal,
	)
}
