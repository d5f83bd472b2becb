// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

// Package recommend predicts explicit ratings with a biased matrix
// factorization model.
//
// # Architecture
//
// The Engine glues three pieces together:
//
//   - ids.Compactor: maps arbitrary int64 user and item ids to dense indices
//   - ratings.Store: the users x items rating matrix (dense or sparse)
//   - algorithms.SVD: the factor model and its SGD trainer
//
// Fit builds fresh compactors and a store from the input triples, trains a
// new SVD and atomically replaces the served model. Predict and PredictBatch
// translate external ids through the served compactors; ids never seen in
// training fall back to the baseline and are reported via ColdStart.
//
// # Usage
//
//	engine, err := recommend.NewEngine(recommend.DefaultConfig(), logger)
//	if err != nil {
//	    return err
//	}
//
//	if _, err := engine.Fit(ctx, triples); err != nil && !errors.Is(err, recommend.ErrNotConverged) {
//	    return err
//	}
//
//	p, err := engine.Predict(userID, itemID)
//
// # Thread Safety
//
// The engine is safe for concurrent use. Fit calls are serialized and a
// second concurrent Fit fails fast with ErrTrainingInProgress. Predictions
// read an immutable snapshot and never block on a running Fit.
package recommend
