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

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	CandidatesRetrieved = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "matching_candidates_retrieved",
			Help:    "Number of candidate residences returned per query",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 500},
		},
	)

	MatchScores = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "matching_match_score",
			Help:    "Distribution of composite match scores",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)

	CandidateCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matching_candidate_cache_total",
			Help: "Candidate cache lookups partitioned by outcome",
		},
		[]string{"outcome"},
	)
)
