// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package api

import (
	"context"
	"time"

	"github.com/tomtom215/svdrec/internal/cache"
	"github.com/tomtom215/svdrec/internal/recommend"
)

// Predictor is the subset of *recommend.Engine used by the HTTP handlers.
type Predictor interface {
	Predict(userID, itemID int64) (recommend.Prediction, error)
	PredictBatch(ctx context.Context, queries []recommend.Query) ([]recommend.Prediction, error)
	Status() recommend.Status
	IsTrained() bool
}

// predictionKey identifies a memoized prediction. The model version makes
// entries from a previous model unreachable after retraining.
type predictionKey struct {
	version int
	userID  int64
	itemID  int64
}

// Handler serves the prediction API.
type Handler struct {
	engine    Predictor
	cache     *cache.LRU[predictionKey, recommend.Prediction]
	startTime time.Time
	version   string
}

// NewHandler creates a Handler backed by engine. version is reported by the
// health endpoint. cacheSize bounds the single prediction cache; 0 disables it.
func NewHandler(engine Predictor, version string, cacheSize int) *Handler {
	if version == "" {
		version = "dev"
	}
	h := &Handler{
		engine:    engine,
		startTime: time.Now(),
		version:   version,
	}
	if cacheSize > 0 {
		h.cache = cache.NewLRU[predictionKey, recommend.Prediction](cacheSize)
	}
	return h
}

// predict returns the prediction for one pair, consulting the cache first.
func (h *Handler) predict(version int, userID, itemID int64) (recommend.Prediction, bool, error) {
	if h.cache == nil {
		pred, err := h.engine.Predict(userID, itemID)
		return pred, false, err
	}

	key := predictionKey{version: version, userID: userID, itemID: itemID}
	if pred, ok := h.cache.Get(key); ok {
		return pred, true, nil
	}

	pred, err := h.engine.Predict(userID, itemID)
	if err != nil {
		return pred, false, err
	}
	h.cache.Add(key, pred)
	return pred, false, nil
}
