// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

// Package algorithms implements the biased matrix-factorization model.
//
// SVD learns, from a ratings.Store of explicit 1-255 ratings:
//
//   - average: the mean of per-item mean ratings
//   - b_u, b_i: per-user and per-item bias scalars
//   - p_u, q_i: per-user and per-item latent factor vectors of length k
//
// and predicts r̂_ui = average + b_u + b_i + p_u·q_i.
//
// # Training
//
// Train runs stochastic gradient descent over every observed (u, i), users in
// index order and items in index order within a user:
//
//	e     = r_ui - r̂_ui
//	b_u  += γ(e - λ·b_u)
//	b_i  += γ(e - λ·b_i)
//	p_ud += γ(e·q_id - λ·p_ud)   // both updates read the pre-update
//	q_id += γ(e·p_ud - λ·q_id)   // p_ud and q_id
//
// After each epoch the regularized squared error
//
//	Σ_observed e² + λ(Σb_u² + Σb_i² + Σ‖p_u‖² + Σ‖q_i‖²)
//
// is computed and training stops once it changes by less than Threshold
// from the previous epoch. The first epoch compares against zero. MaxEpochs
// bounds the loop; running out returns ErrNotConverged with a usable model.
//
// # Objective Evaluation
//
// The squared-error sum is split into contiguous user ranges. Every range but
// the last runs on its own goroutine, the last on the caller, and the caller
// waits for all of them before adding the partial sums in range order. With
// Workers = 2 this is exactly the halves [0, n/2) and [n/2, n).
//
// # Prediction
//
// Unknown users or items (ids.NotFound) contribute zero bias and zero
// dot product. Ratings are rounded half-to-even and a result of exactly 0 is
// reported as 1. No upper clamp is applied.
//
// # Thread Safety
//
// Train holds the exclusive lock for its whole run; Predict and Score take
// the shared lock, so concurrent predictions against a trained model are
// safe.
package algorithms
