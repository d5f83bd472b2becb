// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package algorithms

import (
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"

	"github.com/tomtom215/svdrec/internal/ratings"
)

// Objective returns the regularized squared error of the trained model over
// store. The store must have the shape the model was trained on.
func (s *SVD) Objective(store ratings.Store) (float64, error) {
	s.acquirePredictLock()
	defer s.releasePredictLock()

	if !s.trained || s.model == nil {
		return 0, ErrNotTrained
	}
	if store.Users() != len(s.model.userBias) || store.Items() != len(s.model.itemBias) {
		return 0, ErrShapeMismatch
	}
	return s.model.objective(store, s.config.Regularization, chunkBounds(store.Users(), s.config.Workers)), nil
}

// objective computes Σ e² over observed entries plus the L2 penalty.
// The squared-error term is summed per chunk of bounds.
func (m *model) objective(store ratings.Store, reg float64, bounds []int) float64 {
	partials := m.splitSquaredError(store, bounds, func() float64 {
		return m.regularization(reg)
	})
	var total float64
	for _, p := range partials {
		total += p
	}
	return total
}

// splitSquaredError evaluates squaredErrorRange for every chunk in bounds.
// All chunks but the last run on worker goroutines, the last and onCaller run
// on the calling goroutine. The returned slice holds onCaller's value first
// and then the chunk partials in chunk order, all read after every worker has
// finished.
func (m *model) splitSquaredError(store ratings.Store, bounds []int, onCaller func() float64) []float64 {
	chunks := len(bounds) - 1
	partials := make([]float64, chunks+1)

	var g errgroup.Group
	for c := 0; c < chunks-1; c++ {
		lo, hi := bounds[c], bounds[c+1]
		slot := c + 1
		g.Go(func() error {
			partials[slot] = m.squaredErrorRange(store, lo, hi)
			return nil
		})
	}

	if chunks > 0 {
		partials[chunks] = m.squaredErrorRange(store, bounds[chunks-1], bounds[chunks])
	}
	if onCaller != nil {
		partials[0] = onCaller()
	}

	// Workers never fail; Wait is the barrier.
	_ = g.Wait()
	return partials
}

// squaredErrorRange sums e² over observed entries of users [lo, hi).
func (m *model) squaredErrorRange(store ratings.Store, lo, hi int) float64 {
	var sum float64
	for u := lo; u < hi; u++ {
		store.ForEachInRow(u, func(i int, r uint8) {
			e := m.predictionError(u, i, r)
			sum += e * e
		})
	}
	return sum
}

// regularization returns λ(Σb_u² + Σb_i² + Σ‖p_u‖² + Σ‖q_i‖²).
func (m *model) regularization(reg float64) float64 {
	sum := floats.Dot(m.userBias, m.userBias) + floats.Dot(m.itemBias, m.itemBias)
	for _, p := range m.userFactors {
		sum += floats.Dot(p, p)
	}
	for _, q := range m.itemFactors {
		sum += floats.Dot(q, q)
	}
	return reg * sum
}

// chunkBounds splits [0, n) into parts contiguous ranges. Chunk c covers
// [bounds[c], bounds[c+1]) with bounds[c] = c*n/parts; parts = 2 yields the
// halves [0, n/2) and [n/2, n). parts is clamped to [1, max(n, 1)].
func chunkBounds(n, parts int) []int {
	if parts < 1 {
		parts = 1
	}
	if n > 0 && parts > n {
		parts = n
	}
	if n <= 0 {
		return []int{0, 0}
	}
	bounds := make([]int, parts+1)
	for c := 0; c <= parts; c++ {
		bounds[c] = c * n / parts
	}
	return bounds
}
