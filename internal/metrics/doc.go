// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

/*
Package metrics provides Prometheus instrumentation for training, prediction
and the HTTP API.

All collectors are registered on the default registry at package init via
promauto and are exposed by the serve command at /metrics:

	curl http://localhost:8080/metrics

# Available Metrics

Training Metrics:
  - svdrec_training_runs_total: Training runs (counter)
    Labels: result (converged, not_converged, canceled, failed)
  - svdrec_training_epochs_total: Completed SGD epochs (counter)
  - svdrec_training_duration_seconds: Run wall time (histogram)
  - svdrec_training_objective: Objective after the latest epoch (gauge)
  - svdrec_objective_eval_duration_seconds: Objective evaluation time (histogram)

Model Metrics:
  - svdrec_model_entities: Model size (gauge)
    Labels: kind (users, items, ratings)
  - svdrec_predictions_total: Predictions served (counter)
    Labels: cold_start (none, user, item, both)

API Metrics:
  - api_requests_total: Requests (counter)
    Labels: method, endpoint, status_code
  - api_request_duration_seconds: Latency (histogram)
    Labels: method, endpoint
  - api_active_requests: In-flight requests (gauge)

# Usage

	metrics.RecordTrainingEpoch(objective, evalDuration)
	metrics.RecordTrainingRun(metrics.ResultConverged, time.Since(start))

	metrics.APIActiveRequests.Inc()
	defer metrics.APIActiveRequests.Dec()
*/
package metrics
