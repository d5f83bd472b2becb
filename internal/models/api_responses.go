// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package models

import (
	"time"
)

// APIResponse represents the standardized wrapper used by all HTTP endpoints.
//
// Status field values:
//   - "success": request completed, see Data
//   - "error": request failed, see Error
//   - "ready" / "not_ready": readiness probe outcome
//
// Example successful response:
//
//	{
//	  "status": "success",
//	  "data": {"user": 1, "item": 10, "rating": 4, "score": 4.25, "cold_start": "none"},
//	  "metadata": {"timestamp": "2026-01-02T12:00:00Z", "request_id": "…"}
//	}
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "error": {"code": "MODEL_NOT_READY", "message": "No trained model is available"},
//	  "metadata": {"timestamp": "2026-01-02T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata.
type Metadata struct {
	Timestamp time.Time `json:"timestamp"`

	// RequestID echoes the X-Request-ID of the request.
	RequestID string `json:"request_id,omitempty"`

	// QueryTimeMS is the time spent producing Data.
	QueryTimeMS int64 `json:"query_time_ms,omitempty"`

	// ModelVersion identifies the model that produced a prediction.
	ModelVersion int `json:"model_version,omitempty"`
}

// APIError represents an error response with structured error details.
//
// Common error codes:
//   - VALIDATION_ERROR: invalid request body or parameters
//   - INVALID_PARAMETER: a query parameter could not be parsed
//   - MODEL_NOT_READY: no model has been trained yet
//   - BATCH_TOO_LARGE: more queries than the configured limit
//   - PREDICTION_ERROR: unexpected failure while scoring
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// HealthStatus is returned by GET /api/v1/health.
type HealthStatus struct {
	// Status is "healthy" once a model is served, "training" while the first
	// model is being fitted and "degraded" otherwise.
	Status       string  `json:"status"`
	Version      string  `json:"version"`
	ModelTrained bool    `json:"model_trained"`
	Training     bool    `json:"training"`
	Uptime       float64 `json:"uptime_seconds"`
}

// PredictBatchRequest is the body of POST /api/v1/predict.
type PredictBatchRequest struct {
	Queries []PredictQuery `json:"queries" validate:"required,min=1,dive"`
}

// PredictQuery is one (user, item) pair of a batch request.
type PredictQuery struct {
	UserID *int64 `json:"user" validate:"required"`
	ItemID *int64 `json:"item" validate:"required"`
}
