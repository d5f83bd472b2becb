// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package main

import (
	"context"
	"fmt"
	"io"

	"github.com/goccy/go-json"

	"github.com/tomtom215/svdrec/internal/config"
	"github.com/tomtom215/svdrec/internal/dataset"
	"github.com/tomtom215/svdrec/internal/recommend"
)

// evaluateReport is printed by the evaluate command.
type evaluateReport struct {
	Evaluation recommend.Evaluation `json:"evaluation"`
	Model      recommend.Status     `json:"model"`
}

// runEvaluate trains on the training files and prints RMSE and MAE over a
// labeled file in the training format.
func runEvaluate(ctx context.Context, cfg *config.Config, args []string, stdout io.Writer) error {
	if len(args) < 2 {
		return fmt.Errorf("%w: too few arguments", errUsage)
	}
	labeledFile, trainFiles := args[0], args[1:]

	labeled, err := dataset.ReadRatingFiles(labeledFile)
	if err != nil {
		return fmt.Errorf("read labeled file: %w", err)
	}

	engine, err := trainEngine(ctx, cfg, trainFiles)
	if err != nil {
		return err
	}

	eval, err := engine.Evaluate(ctx, labeled)
	if err != nil {
		return fmt.Errorf("evaluate: %w", err)
	}

	out, err := json.MarshalIndent(evaluateReport{Evaluation: eval, Model: engine.Status()}, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(stdout, string(out))
	return err
}
