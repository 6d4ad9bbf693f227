// Package metrics exposes Prometheus collectors for the API and the bot.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	apiRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests labeled by method, path and status code",
		},
		[]string{"method", "path", "status"},
	)
	apiRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
	botUpdatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_updates_total",
			Help: "Total number of bot updates handled labeled by action and status",
		},
		[]string{"action", "status"},
	)
	botUpdateDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bot_update_duration_seconds",
			Help:    "Duration of bot update handling in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"action"},
	)
	sessionTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "session_transitions_total",
			Help: "Total number of bot session state transitions",
		},
		[]string{"from", "to"},
	)
	trainingStageChangesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "training_stage_changes_total",
			Help: "Total number of onboarding stage updates labeled by resulting stage",
		},
		[]string{"stage"},
	)
)

// RecordAPIRequest reports one handled API request.
func RecordAPIRequest(method, path, status string, duration time.Duration) {
	apiRequestsTotal.WithLabelValues(method, path, status).Inc()
	apiRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordBotUpdate reports one handled bot update.
func RecordBotUpdate(action, status string, duration time.Duration) {
	botUpdatesTotal.WithLabelValues(action, status).Inc()
	botUpdateDuration.WithLabelValues(action).Observe(duration.Seconds())
}

// RecordSessionTransition reports one session FSM transition.
func RecordSessionTransition(from, to string) {
	sessionTransitionsTotal.WithLabelValues(from, to).Inc()
}

// RecordTrainingStage reports a persisted onboarding stage change.
func RecordTrainingStage(stage string) {
	trainingStageChangesTotal.WithLabelValues(stage).Inc()
}
