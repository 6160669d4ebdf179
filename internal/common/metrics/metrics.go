// internal/common/metrics/metrics.go
package metrics

import (
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

	CandidatesScored = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scoring_candidates_scored_total",
			Help: "Candidates scored, by grade",
		},
		[]string{"grade"},
	)

	CandidateScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "scoring_candidate_total_score",
			Help:    "Distribution of candidate total scores",
			Buckets: []float64{40, 50, 60, 70, 80, 90, 100},
		},
	)

	ConfigValidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scoring_config_validations_total",
			Help: "Weight configuration validations, by result code",
		},
		[]string{"result"},
	)

	ConfigCacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scoring_config_cache_requests_total",
			Help: "Scoring configuration cache lookups, by result",
		},
		[]string{"result"},
	)

	BackendRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "scoring_backend_request_duration_seconds",
			Help: "Duration of backend calls",
		},
		[]string{"operation", "status"},
	)
)

// Cache lookup results.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)
