// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package recommend

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/tomtom215/svdrec/internal/recommend/algorithms"
)

// Evaluate predicts every labeled pair and reports the error of the rounded
// predictions against the labels.
func (e *Engine) Evaluate(ctx context.Context, labeled []Rating) (Evaluation, error) {
	snap, err := e.served()
	if err != nil {
		return Evaluation{}, err
	}

	squared := make([]float64, 0, len(labeled))
	absolute := make([]float64, 0, len(labeled))
	var eval Evaluation

	for _, r := range labeled {
		if algorithms.ContextCancelled(ctx) {
			return Evaluation{}, ctx.Err()
		}
		p, err := snap.predict(r.UserID, r.ItemID)
		if err != nil {
			return Evaluation{}, fmt.Errorf("evaluate user %d item %d: %w", r.UserID, r.ItemID, err)
		}
		if p.ColdStart != ColdStartNone {
			eval.ColdStarts++
		}
		diff := float64(p.Rating) - float64(r.Rating)
		squared = append(squared, diff*diff)
		absolute = append(absolute, math.Abs(diff))
	}

	eval.Count = len(labeled)
	if eval.Count == 0 {
		return eval, nil
	}
	eval.RMSE = math.Sqrt(stat.Mean(squared, nil))
	eval.MAE = stat.Mean(absolute, nil)

	e.logger.Info().
		Int("count", eval.Count).
		Float64("rmse", eval.RMSE).
		Float64("mae", eval.MAE).
		Int("cold_starts", eval.ColdStarts).
		Msg("evaluation complete")

	return eval, nil
}

// TrainingObjective recomputes the regularized squared error of the served
// model over its own training data.
func (e *Engine) TrainingObjective() (float64, error) {
	snap, err := e.served()
	if err != nil {
		return 0, err
	}
	return snap.svd.Objective(snap.store)
}
