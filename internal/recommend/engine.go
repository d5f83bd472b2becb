// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/svdrec/internal/ids"
	"github.com/tomtom215/svdrec/internal/metrics"
	"github.com/tomtom215/svdrec/internal/ratings"
	"github.com/tomtom215/svdrec/internal/recommend/algorithms"
)

// Engine maps external ids onto a trained SVD model and serves predictions.
// It is safe for concurrent use; Fit calls are serialized.
type Engine struct {
	config *Config
	logger zerolog.Logger

	// trainMu serializes Fit
	trainMu  sync.Mutex
	training atomic.Bool

	// mu guards the served snapshot and status
	mu      sync.RWMutex
	current *snapshot
	status  Status
}

// snapshot is an immutable trained model together with its id mappings.
type snapshot struct {
	svd   *algorithms.SVD
	users *ids.Compactor
	items *ids.Compactor
	store ratings.Store
	kind  ratings.Kind
}

// NewEngine creates a new prediction engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Engine{
		config: cfg.Clone(),
		logger: logger.With().Str("component", "recommend").Logger(),
	}, nil
}

// GetConfig returns a copy of the current configuration.
func (e *Engine) GetConfig() *Config {
	return e.config.Clone()
}

// Fit compacts the triples, builds the rating store and trains a new model.
//
// On success, and when training stops at MaxEpochs, the new model replaces
// the served one. In the latter case the returned error wraps
// ErrNotConverged. Any other failure leaves the served model unchanged.
func (e *Engine) Fit(ctx context.Context, triples []Rating) (TrainResult, error) {
	if !e.trainMu.TryLock() {
		return TrainResult{}, ErrTrainingInProgress
	}
	defer e.trainMu.Unlock()

	e.training.Store(true)
	defer e.training.Store(false)

	start := time.Now()
	runID := uuid.New().String()
	logger := e.logger.With().Str("run_id", runID).Logger()

	kind, err := ratings.ParseKind(e.config.Training.Store)
	if err != nil {
		return TrainResult{}, e.failTraining(logger, metrics.ResultFailed, start, err)
	}

	users := ids.New(len(triples))
	items := ids.New(len(triples))
	store, err := ratings.Build(kind, triples, users, items)
	if err != nil {
		return TrainResult{}, e.failTraining(logger, metrics.ResultFailed, start, fmt.Errorf("build store: %w", err))
	}

	logger.Info().
		Int("ratings", len(triples)).
		Int("users", store.Users()).
		Int("items", store.Items()).
		Int("observed", store.Observed()).
		Str("store", kind.String()).
		Msg("starting model training")

	trainCtx, cancel := context.WithTimeout(ctx, e.config.Training.Timeout)
	defer cancel()

	svd := algorithms.NewSVD(e.config.svdConfig(), algorithms.WithEpochObserver(func(es algorithms.EpochStats) {
		metrics.RecordTrainingEpoch(es.Objective, es.EvalDuration)
		logger.Debug().
			Int("epoch", es.Epoch).
			Float64("objective", es.Objective).
			Float64("delta", es.Delta).
			Dur("duration", es.Duration).
			Msg("epoch complete")
	}))

	algResult, err := svd.Train(trainCtx, store)
	if err != nil && !errors.Is(err, algorithms.ErrNotConverged) {
		result := metrics.ResultFailed
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			result = metrics.ResultCanceled
		}
		return TrainResult{}, e.failTraining(logger, result, start, fmt.Errorf("train: %w", err))
	}

	res := TrainResult{
		RunID:       runID,
		Users:       store.Users(),
		Items:       store.Items(),
		Observed:    store.Observed(),
		TrainResult: algResult,
	}
	e.publish(&snapshot{svd: svd, users: users, items: items, store: store, kind: kind}, res, err)

	metrics.RecordModelSize(res.Users, res.Items, res.Observed)
	if err != nil {
		metrics.RecordTrainingRun(metrics.ResultNotConverged, time.Since(start))
		logger.Warn().
			Err(err).
			Int("epochs", res.Epochs).
			Float64("objective", res.Objective).
			Float64("delta", res.Delta).
			Msg("model training stopped before convergence")
		return res, fmt.Errorf("train: %w", err)
	}

	metrics.RecordTrainingRun(metrics.ResultConverged, time.Since(start))
	logger.Info().
		Int("epochs", res.Epochs).
		Float64("objective", res.Objective).
		Float64("average", res.Average).
		Dur("duration", res.Duration).
		Msg("model training complete")

	return res, nil
}

// failTraining records a failed run without touching the served model.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func (e *Engine) failTraining(logger zerolog.Logger, result string, start time.Time, err error) error {
	metrics.RecordTrainingRun(result, time.Since(start))
	logger.Error().Err(err).Str("result", result).Msg("model training failed")

	e.mu.Lock()
	e.status.LastError = err.Error()
	e.mu.Unlock()
	return err
}

// publish swaps in a trained snapshot.
//
//nolint:gocritic // hugeParam: res passed by value for immutability
func (e *Engine) publish(snap *snapshot, res TrainResult, trainErr error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.current = snap
	e.status = Status{
		Trained:                true,
		RunID:                  res.RunID,
		StoreKind:              snap.kind.String(),
		Users:                  res.Users,
		Items:                  res.Items,
		Observed:               res.Observed,
		Average:                res.Average,
		Epochs:                 res.Epochs,
		Objective:              res.Objective,
		Converged:              res.Converged,
		LastTrainedAt:          snap.svd.LastTrainedAt(),
		LastTrainingDurationMS: res.Duration.Milliseconds(),
		Version:                e.status.Version + 1,
	}
	if trainErr != nil {
		e.status.LastError = trainErr.Error()
	}
}

// served returns the served model or ErrNotTrained.
func (e *Engine) served() (*snapshot, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.current == nil {
		return nil, ErrNotTrained
	}
	return e.current, nil
}

// IsTrained reports whether a model is being served.
func (e *Engine) IsTrained() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.current != nil
}

// Status returns a description of the served model.
func (e *Engine) Status() Status {
	e.mu.RLock()
	s := e.status
	e.mu.RUnlock()

	s.Training = e.training.Load()
	return s
}

// Predict returns the predicted rating for external user and item ids.
// Ids unseen during training are not an error; see ColdStart.
func (e *Engine) Predict(userID, itemID int64) (Prediction, error) {
	snap, err := e.served()
	if err != nil {
		return Prediction{}, err
	}
	return snap.predict(userID, itemID)
}

// PredictBatch predicts every query in order.
func (e *Engine) PredictBatch(ctx context.Context, queries []Query) ([]Prediction, error) {
	if len(queries) > e.config.Limits.MaxBatchSize {
		return nil, fmt.Errorf("%w: %d > %d", ErrBatchTooLarge, len(queries), e.config.Limits.MaxBatchSize)
	}

	snap, err := e.served()
	if err != nil {
		return nil, err
	}

	out := make([]Prediction, 0, len(queries))
	for _, q := range queries {
		if algorithms.ContextCancelled(ctx) {
			return nil, ctx.Err()
		}
		p, err := snap.predict(q.UserID, q.ItemID)
		if err != nil {
			return nil, fmt.Errorf("predict user %d item %d: %w", q.UserID, q.ItemID, err)
		}
		out = append(out, p)
	}
	return out, nil
}

// ExternalUser returns the external id of internal user index idx.
func (e *Engine) ExternalUser(idx int) (int64, bool) {
	snap, err := e.served()
	if err != nil {
		return 0, false
	}
	return snap.users.External(idx)
}

// ExternalItem returns the external id of internal item index idx.
func (e *Engine) ExternalItem(idx int) (int64, bool) {
	snap, err := e.served()
	if err != nil {
		return 0, false
	}
	return snap.items.External(idx)
}

func (s *snapshot) predict(userID, itemID int64) (Prediction, error) {
	u := s.users.Lookup(userID)
	i := s.items.Lookup(itemID)

	score, err := s.svd.Score(u, i)
	if err != nil {
		return Prediction{}, err
	}

	cold := coldStartOf(u != ids.NotFound, i != ids.NotFound)
	metrics.RecordPrediction(cold.String())

	return Prediction{
		UserID:    userID,
		ItemID:    itemID,
		Rating:    algorithms.RoundRating(score),
		Score:     score,
		ColdStart: cold,
	}, nil
}
