// internal/common/metrics/metrics.go
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	RecommendationsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendations_generated_total",
			Help: "Total number of course recommendations returned",
		},
		[]string{"strategy"},
	)

	RecommendationRelevance = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommendation_relevance_score",
			Help:    "Relevance score of returned recommendations",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
		[]string{"strategy"},
	)

	CatalogCacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "course_catalog_cache_requests_total",
			Help: "Course catalog cache lookups by result (hit, miss, error)",
		},
		[]string{"result"},
	)

	CatalogSearchFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "course_catalog_search_fallbacks_total",
			Help: "Catalog loads that fell back from search to postgres",
		},
	)
)

// ObserveJob records the outcome of one job. errorCode is empty on success.
func ObserveJob(taskType string, started time.Time, errorCode string) {
	WorkerJobDuration.WithLabelValues(taskType).Observe(time.Since(started).Seconds())
	if errorCode == "" {
		WorkerJobsCompleted.WithLabelValues(taskType).Inc()
		return
	}
	WorkerJobsFailed.WithLabelValues(taskType, errorCode).Inc()
}

// ObserveRecommendations records the relevance scores returned for one learner.
func ObserveRecommendations(strategy string, scores []int) {
	RecommendationsGenerated.WithLabelValues(strategy).Add(float64(len(scores)))
	for _, s := range scores {
		RecommendationRelevance.WithLabelValues(strategy).Observe(float64(s))
	}
}
