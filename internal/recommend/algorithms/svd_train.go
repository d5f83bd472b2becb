// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package algorithms

import (
	"context"
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/tomtom215/svdrec/internal/ratings"
)

// Train fits the model to store by stochastic gradient descent.
//
// The loop stops once the objective changes by less than Threshold between
// epochs. If MaxEpochs is reached first, the model is kept and marked trained
// and ErrNotConverged is returned alongside the result. On context
// cancellation the run is discarded and any previously trained model is left
// untouched.
func (s *SVD) Train(ctx context.Context, store ratings.Store) (TrainResult, error) {
	s.acquireTrainLock()
	defer s.releaseTrainLock()

	start := time.Now()

	if ContextCancelled(ctx) {
		return TrainResult{}, ctx.Err()
	}

	users, items := store.Users(), store.Items()
	m := newModel(users, items, s.config.NumFactors, s.newRandSource())
	m.average = baselineAverage(store)

	result := TrainResult{Average: m.average}

	if users == 0 || items == 0 {
		result.Converged = true
		result.Duration = time.Since(start)
		s.commit(m, store, result)
		return result, nil
	}

	bounds := chunkBounds(users, s.config.Workers)
	lr, reg := s.config.LearningRate, s.config.Regularization

	prev := 0.0
	for epoch := 1; epoch <= s.config.MaxEpochs; epoch++ {
		if ContextCancelled(ctx) {
			return TrainResult{}, ctx.Err()
		}

		epochStart := time.Now()
		m.sweep(store, lr, reg)

		evalStart := time.Now()
		obj := m.objective(store, reg, bounds)
		evalDuration := time.Since(evalStart)

		delta := math.Abs(obj - prev)
		prev = obj

		result.Epochs = epoch
		result.Objective = obj
		result.Delta = delta

		if s.observer != nil {
			s.observer(EpochStats{
				Epoch:        epoch,
				Objective:    obj,
				Delta:        delta,
				Duration:     time.Since(epochStart),
				EvalDuration: evalDuration,
			})
		}

		if delta < s.config.Threshold {
			result.Converged = true
			break
		}
	}

	result.Duration = time.Since(start)
	s.commit(m, store, result)

	if !result.Converged {
		return result, fmt.Errorf("%w: %d epochs, last delta %.4f", ErrNotConverged, result.Epochs, result.Delta)
	}
	return result, nil
}

// commit publishes a finished model.
// Must be called while holding the training lock.
func (s *SVD) commit(m *model, store ratings.Store, result TrainResult) {
	s.model = m
	s.store = store
	s.result = result
	s.markTrained()
}

// sweep runs one SGD pass over every observed rating, users in index order
// and items in index order within each user.
func (m *model) sweep(store ratings.Store, lr, reg float64) {
	for u := 0; u < store.Users(); u++ {
		pu := m.userFactors[u]
		store.ForEachInRow(u, func(i int, r uint8) {
			qi := m.itemFactors[i]
			e := m.predictionError(u, i, r)

			m.userBias[u] += lr * (e - reg*m.userBias[u])
			m.itemBias[i] += lr * (e - reg*m.itemBias[i])

			for f := range pu {
				p, q := pu[f], qi[f]
				pu[f] += lr * (e*q - reg*p)
				qi[f] += lr * (e*p - reg*q)
			}
		})
	}
}

// baselineAverage returns the mean over items of each item's mean non-zero
// rating. Items without ratings are skipped; with none at all it returns 0.
func baselineAverage(store ratings.Store) float64 {
	items := store.Items()
	sums := make([]float64, items)
	counts := make([]int, items)
	for u := 0; u < store.Users(); u++ {
		store.ForEachInRow(u, func(i int, r uint8) {
			sums[i] += float64(r)
			counts[i]++
		})
	}

	means := make([]float64, 0, items)
	for i := range sums {
		if counts[i] == 0 {
			continue
		}
		means = append(means, sums[i]/float64(counts[i]))
	}
	if len(means) == 0 {
		return 0
	}
	return stat.Mean(means, nil)
}
