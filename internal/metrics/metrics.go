// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Training run results used as the "result" label.
const (
	ResultConverged    = "converged"
	ResultNotConverged = "not_converged"
	ResultCanceled     = "canceled"
	ResultFailed       = "failed"
)

var (
	// Training Metrics
	TrainingRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "svdrec_training_runs_total",
			Help: "Total number of training runs by result",
		},
		[]string{"result"},
	)

	TrainingEpochsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "svdrec_training_epochs_total",
			Help: "Total number of completed SGD epochs",
		},
	)

	TrainingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "svdrec_training_duration_seconds",
			Help:    "Wall time of training runs in seconds",
			Buckets: []float64{0.01, 0.1, 0.5, 1, 5, 10, 30, 60, 300, 900},
		},
	)

	TrainingObjective = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "svdrec_training_objective",
			Help: "Regularized squared error after the most recent epoch",
		},
	)

	ObjectiveEvalDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "svdrec_objective_eval_duration_seconds",
			Help:    "Duration of the parallel objective evaluation in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
	)

	// Model Metrics
	ModelEntities = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "svdrec_model_entities",
			Help: "Size of the trained model (users, items, observed ratings)",
		},
		[]string{"kind"},
	)

	PredictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "svdrec_predictions_total",
			Help: "Total number of predictions by cold-start class",
		},
		[]string{"cold_start"},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)
)

// RecordTrainingRun records the outcome of a training run
func RecordTrainingRun(result string, duration time.Duration) {
	TrainingRunsTotal.WithLabelValues(result).Inc()
	TrainingDuration.Observe(duration.Seconds())
}

// RecordTrainingEpoch records one completed epoch
func RecordTrainingEpoch(objective float64, evalDuration time.Duration) {
	TrainingEpochsTotal.Inc()
	TrainingObjective.Set(objective)
	ObjectiveEvalDuration.Observe(evalDuration.Seconds())
}

// RecordModelSize records the dimensions of the trained model
func RecordModelSize(users, items, observed int) {
	ModelEntities.WithLabelValues("users").Set(float64(users))
	ModelEntities.WithLabelValues("items").Set(float64(items))
	ModelEntities.WithLabelValues("ratings").Set(float64(observed))
}

// RecordPrediction records a served prediction
func RecordPrediction(coldStart string) {
	PredictionsTotal.WithLabelValues(coldStart).Inc()
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}
