package recommend

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RecommendRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_pipeline_requests_total",
			Help: "Count of recommendation pipeline invocations by outcome (hit, miss, empty, error).",
		},
		[]string{"outcome"},
	)

	ScorerDegradedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_scorer_degraded_total",
			Help: "Count of scorer invocations that fell back to a zero vector.",
		},
		[]string{"scorer"},
	)

	ExtractorFallbackTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "recommend_extractor_fallback_total",
			Help: "Count of requirement extractions served by the lexical fallback.",
		},
	)

	CacheErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "recommend_cache_errors_total",
			Help: "Count of result cache operations that failed and degraded to a miss.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		RecommendRequestsTotal,
		ScorerDegradedTotal,
		ExtractorFallbackTotal,
		CacheErrorsTotal,
	)
}
