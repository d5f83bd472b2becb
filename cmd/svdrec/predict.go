// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/tomtom215/svdrec/internal/config"
	"github.com/tomtom215/svdrec/internal/dataset"
	"github.com/tomtom215/svdrec/internal/logging"
	"github.com/tomtom215/svdrec/internal/recommend"
)

// runPredict trains on the training files and writes one predicted rating per
// test row.
func runPredict(ctx context.Context, cfg *config.Config, args []string, _ io.Writer) error {
	if len(args) < 3 {
		return fmt.Errorf("%w: too few arguments", errUsage)
	}
	testFile, resultFile, trainFiles := args[0], args[1], args[2:]

	queries, err := dataset.ReadQueryFile(testFile)
	if err != nil {
		return fmt.Errorf("read test file: %w", err)
	}

	engine, err := trainEngine(ctx, cfg, trainFiles)
	if err != nil {
		return err
	}

	results := make([]dataset.Result, 0, len(queries))
	for _, q := range queries {
		pred, err := engine.Predict(q.UserID, q.ItemID)
		if err != nil {
			return fmt.Errorf("predict %s: %w", q.ID, err)
		}
		results = append(results, dataset.Result{ID: q.ID, Rating: pred.Rating})
	}

	if err := dataset.WriteResultFile(resultFile, results); err != nil {
		return err
	}

	logging.Info().
		Int("predictions", len(results)).
		Str("result_file", resultFile).
		Msg("Predictions written")
	return nil
}

// trainEngine reads the training files and fits a new engine. Hitting the
// epoch cap is logged and the capped model is returned.
func trainEngine(ctx context.Context, cfg *config.Config, trainFiles []string) (*recommend.Engine, error) {
	triples, err := dataset.ReadRatingFiles(trainFiles...)
	if err != nil {
		return nil, fmt.Errorf("read training files: %w", err)
	}

	engine, err := recommend.NewEngine(cfg.RecommendConfig(), logging.Logger())
	if err != nil {
		return nil, err
	}

	start := time.Now()
	res, err := engine.Fit(ctx, triples)
	switch {
	case err == nil:
	case errors.Is(err, recommend.ErrNotConverged):
		logging.Warn().
			Int("epochs", res.Epochs).
			Float64("delta", res.Delta).
			Msg("Training stopped at the epoch limit without converging")
	default:
		return nil, fmt.Errorf("train: %w", err)
	}

	logging.Info().
		Int("files", len(trainFiles)).
		Int("ratings", len(triples)).
		Int("users", res.Users).
		Int("items", res.Items).
		Int("epochs", res.Epochs).
		Dur("duration", time.Since(start)).
		Msg("Model trained")
	return engine, nil
}
