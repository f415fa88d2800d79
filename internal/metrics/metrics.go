package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Pipeline-level Prometheus metrics. Stage metrics carry a "stage" label
// (scripting, voicing, rendering, packaging) so dashboards can break the
// pipeline down per phase.
var (
	// EpisodesQueuedTotal counts episodes added to the production queue.
	EpisodesQueuedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "showrunner_episodes_queued_total",
			Help: "Total number of episodes added to the production queue.",
		},
	)

	// StageRunsTotal counts stage executions per stage and outcome.
	StageRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "showrunner_stage_runs_total",
			Help: "Total number of stage executions.",
		},
		[]string{"stage", "outcome"},
	)

	// StageDurationSeconds observes wall-clock time spent per stage run.
	StageDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "showrunner_stage_duration_seconds",
			Help:    "Wall-clock duration of stage executions.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		},
		[]string{"stage"},
	)

	// EpisodesCompletedTotal counts episodes that reached the completed status.
	EpisodesCompletedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "showrunner_episodes_completed_total",
			Help: "Total number of episodes produced end to end.",
		},
	)

	// EpisodesReviewTotal counts episodes parked for manual review.
	EpisodesReviewTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "showrunner_episodes_review_total",
			Help: "Total number of episodes flagged for manual review.",
		},
	)

	// APIRequestsTotal counts outbound requests to generation services.
	APIRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "showrunner_api_requests_total",
			Help: "Total number of requests to external generation APIs.",
		},
		[]string{"service", "status"},
	)
)

func init() {
	prometheus.MustRegister(
		EpisodesQueuedTotal,
		StageRunsTotal,
		StageDurationSeconds,
		EpisodesCompletedTotal,
		EpisodesReviewTotal,
		APIRequestsTotal,
	)
}

// ObserveStage records one stage execution with its outcome and duration.
func ObserveStage(stage, outcome string, seconds float64) {
	StageRunsTotal.WithLabelValues(stage, outcome).Inc()
	StageDurationSeconds.WithLabelValues(stage).Observe(seconds)
}
