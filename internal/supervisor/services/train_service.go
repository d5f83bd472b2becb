// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/svdrec/internal/recommend"
)

// Trainer fits a model from rating triples. Satisfied by *recommend.Engine.
type Trainer interface {
	Fit(ctx context.Context, triples []recommend.Rating) (recommend.TrainResult, error)
}

// LoadFunc returns the training triples. It is called before every run so
// retraining picks up changed files.
type LoadFunc func(ctx context.Context) ([]recommend.Rating, error)

// TrainServiceConfig holds configuration for the training service.
type TrainServiceConfig struct {
	// RetrainInterval is how often to reload and retrain.
	// Zero trains once and then removes the service from the supervisor.
	RetrainInterval time.Duration
}

// TrainService fits the engine under suture supervision.
//
// A failed initial run is returned to the supervisor, which restarts the
// service with backoff. Failures of later scheduled runs are logged and the
// previously published model stays in service.
type TrainService struct {
	engine Trainer
	load   LoadFunc
	config TrainServiceConfig
	logger zerolog.Logger
	name   string
}

// NewTrainService creates a new training service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewTrainService(engine Trainer, load LoadFunc, cfg TrainServiceConfig, logger zerolog.Logger) *TrainService {
	return &TrainService{
		engine: engine,
		load:   load,
		config: cfg,
		logger: logger.With().Str("service", "train").Logger(),
		name:   "train-service",
	}
}

// Serve implements the suture.Service interface.
func (s *TrainService) Serve(ctx context.Context) error {
	s.logger.Info().
		Dur("retrain_interval", s.config.RetrainInterval).
		Msg("training service starting")

	if err := s.train(ctx); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("initial training: %w", err)
	}

	if s.config.RetrainInterval <= 0 {
		s.logger.Info().Msg("training complete, no retraining scheduled")
		return suture.ErrDoNotRestart
	}

	ticker := time.NewTicker(s.config.RetrainInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("training service shutting down")
			return ctx.Err()

		case <-ticker.C:
			s.logger.Debug().Msg("scheduled training triggered")
			if err := s.train(ctx); err != nil {
				s.logger.Warn().Err(err).Msg("scheduled training failed, keeping current model")
			}
		}
	}
}

// train loads the triples and runs one Fit. A run that hit the epoch cap
// still published its model and is not an error here.
func (s *TrainService) train(ctx context.Context) error {
	triples, err := s.load(ctx)
	if err != nil {
		return fmt.Errorf("load ratings: %w", err)
	}

	start := time.Now()
	res, err := s.engine.Fit(ctx, triples)
	switch {
	case err == nil:
	case errors.Is(err, recommend.ErrNotConverged):
		s.logger.Warn().Int("epochs", res.Epochs).Msg("training stopped at epoch limit without converging")
	case errors.Is(err, recommend.ErrTrainingInProgress):
		s.logger.Debug().Msg("training already in progress, skipping run")
		return nil
	default:
		return err
	}

	s.logger.Info().
		Str("run_id", res.RunID).
		Int("ratings", len(triples)).
		Int("epochs", res.Epochs).
		Dur("duration", time.Since(start)).
		Msg("model training complete")
	return nil
}

// String returns the service name for logging.
func (s *TrainService) String() string {
	return s.name
}
