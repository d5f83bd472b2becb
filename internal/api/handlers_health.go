// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/svdrec/internal/models"
)

// Health handles GET /api/v1/health.
//
// Status is "healthy" once a model is served, "training" while the first
// model is being fitted and "degraded" when no model exists and nothing is
// training (for example after a failed fit).
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	st := h.engine.Status()

	status := "healthy"
	switch {
	case st.Trained:
	case st.Training:
		status = "training"
	default:
		status = "degraded"
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: models.HealthStatus{
			Status:       status,
			Version:      h.version,
			ModelTrained: st.Trained,
			Training:     st.Training,
			Uptime:       time.Since(h.startTime).Seconds(),
		},
		Metadata: metadata(r),
	})
}

// HealthLive handles liveness probe requests (Kubernetes-style).
// Returns 200 OK if the process is alive, regardless of model state.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"alive":  true,
			"uptime": time.Since(h.startTime).Seconds(),
		},
		Metadata: metadata(r),
	})
}

// HealthReady handles readiness probe requests (Kubernetes-style).
// Returns 200 OK only once a trained model is being served.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if !h.engine.IsTrained() {
		respondJSON(w, http.StatusServiceUnavailable, &models.APIResponse{
			Status: "not_ready",
			Data: map[string]interface{}{
				"model_trained": false,
				"training":      h.engine.Status().Training,
			},
			Metadata: metadata(r),
			Error: &models.APIError{
				Code:    "MODEL_NOT_READY",
				Message: "No trained model is available",
			},
		})
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "ready",
		Data: map[string]interface{}{
			"model_trained": true,
		},
		Metadata: metadata(r),
	})
}
