// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package algorithms

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/tomtom215/svdrec/internal/ids"
)

// Score returns the unrounded estimate for internal indices u and i.
// Either index may be ids.NotFound or otherwise out of range, in which case
// that side contributes no bias and the dot product is zero.
func (s *SVD) Score(u, i int) (float64, error) {
	s.acquirePredictLock()
	defer s.releasePredictLock()

	if !s.trained || s.model == nil {
		return 0, ErrNotTrained
	}
	return s.model.score(u, i), nil
}

// PredictIndex returns the rounded rating for internal indices u and i.
// The result is never 0.
func (s *SVD) PredictIndex(u, i int) (int, error) {
	score, err := s.Score(u, i)
	if err != nil {
		return 0, err
	}
	return RoundRating(score), nil
}

// Dims returns the number of users and items the model was trained on.
func (s *SVD) Dims() (users, items int) {
	s.acquirePredictLock()
	defer s.releasePredictLock()
	if s.model == nil {
		return 0, 0
	}
	return len(s.model.userBias), len(s.model.itemBias)
}

// RoundRating rounds half to even and reports an exact 0 as 1.
// Negative and above-scale values pass through unclamped.
func RoundRating(score float64) int {
	r := int(math.RoundToEven(score))
	if r == 0 {
		r = 1
	}
	return r
}

func (m *model) score(u, i int) float64 {
	knownUser := u != ids.NotFound && u >= 0 && u < len(m.userBias)
	knownItem := i != ids.NotFound && i >= 0 && i < len(m.itemBias)

	est := m.average
	if knownUser {
		est += m.userBias[u]
	}
	if knownItem {
		est += m.itemBias[i]
	}
	if knownUser && knownItem {
		est += floats.Dot(m.userFactors[u], m.itemFactors[i])
	}
	return est
}
