// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

/*
Package models defines the HTTP request and response structures of svdrec.

  - APIResponse: standard envelope (status, data, metadata, error)
  - APIError: machine-readable code plus message and optional details
  - HealthStatus: payload of the health endpoint
  - PredictBatchRequest: validated body of the batch prediction endpoint

Domain types (predictions, model status) live in internal/recommend and are
embedded in APIResponse.Data as-is.
*/
package models
