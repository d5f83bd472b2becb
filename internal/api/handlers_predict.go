// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/svdrec/internal/models"
	"github.com/tomtom215/svdrec/internal/recommend"
)

// Predict handles GET /api/v1/predict?user={id}&item={id}.
// Unknown ids are not an error; the prediction reports its cold start side.
// X-Cache reports whether the answer came from the prediction cache.
func (h *Handler) Predict(w http.ResponseWriter, r *http.Request) {
	userID, err := parseInt64Param(r, "user")
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "INVALID_PARAMETER", err.Error(), nil)
		return
	}
	itemID, err := parseInt64Param(r, "item")
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "INVALID_PARAMETER", err.Error(), nil)
		return
	}

	start := time.Now()
	version := h.engine.Status().Version

	pred, hit, err := h.predict(version, userID, itemID)
	if err != nil {
		respondPredictionError(w, r, err)
		return
	}
	if h.cache != nil {
		if hit {
			w.Header().Set("X-Cache", "HIT")
		} else {
			w.Header().Set("X-Cache", "MISS")
		}
	}

	meta := metadata(r)
	meta.QueryTimeMS = time.Since(start).Milliseconds()
	meta.ModelVersion = version

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status:   "success",
		Data:     pred,
		Metadata: meta,
	})
}

// PredictBatch handles POST /api/v1/predict.
//
// Body:
//
//	{"queries": [{"user": 1, "item": 10}, {"user": 2, "item": 11}]}
//
// Predictions are returned in query order.
func (h *Handler) PredictBatch(w http.ResponseWriter, r *http.Request) {
	var req models.PredictBatchRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, r, http.StatusBadRequest, apiErr, nil)
		return
	}

	queries := make([]recommend.Query, len(req.Queries))
	for i, q := range req.Queries {
		queries[i] = recommend.Query{UserID: *q.UserID, ItemID: *q.ItemID}
	}

	start := time.Now()
	version := h.engine.Status().Version

	preds, err := h.engine.PredictBatch(r.Context(), queries)
	if err != nil {
		respondPredictionError(w, r, err)
		return
	}

	meta := metadata(r)
	meta.QueryTimeMS = time.Since(start).Milliseconds()
	meta.ModelVersion = version

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"predictions": preds,
			"count":       len(preds),
		},
		Metadata: meta,
	})
}

// ModelStatus handles GET /api/v1/model.
func (h *Handler) ModelStatus(w http.ResponseWriter, r *http.Request) {
	st := h.engine.Status()

	meta := metadata(r)
	meta.ModelVersion = st.Version

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status:   "success",
		Data:     st,
		Metadata: meta,
	})
}

// respondPredictionError maps engine errors onto API error codes.
func respondPredictionError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, recommend.ErrNotTrained):
		respondError(w, r, http.StatusServiceUnavailable, "MODEL_NOT_READY", "No trained model is available", nil)
	case errors.Is(err, recommend.ErrBatchTooLarge):
		respondError(w, r, http.StatusBadRequest, "BATCH_TOO_LARGE", err.Error(), nil)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		respondError(w, r, http.StatusServiceUnavailable, "REQUEST_CANCELED", "Request was canceled", err)
	default:
		respondError(w, r, http.StatusInternalServerError, "PREDICTION_ERROR", "Failed to compute prediction", err)
	}
}
