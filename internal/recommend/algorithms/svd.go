// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package algorithms

import (
	"math/rand"
	"runtime"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/tomtom215/svdrec/internal/ratings"
)

// Defaults for SVDConfig. Zero or negative config values are replaced by these.
const (
	DefaultNumFactors     = 10
	DefaultLearningRate   = 0.005
	DefaultRegularization = 0.02
	DefaultThreshold      = 50.0
	DefaultMaxEpochs      = 1000
)

// SVDConfig contains configuration for the SVD algorithm.
type SVDConfig struct {
	// NumFactors is the dimension k of the latent factor vectors.
	// Default: 10.
	NumFactors int

	// LearningRate is the SGD step size γ.
	// Default: 0.005.
	LearningRate float64

	// Regularization is the L2 penalty λ applied to biases and factors.
	// Default: 0.02.
	Regularization float64

	// Threshold is the convergence bound τ on the absolute change of the
	// objective between consecutive epochs.
	// Default: 50.
	Threshold float64

	// MaxEpochs caps the number of epochs.
	// Default: 1000.
	MaxEpochs int

	// Workers is the number of contiguous user ranges the objective is split
	// into. If <= 0, defaults to runtime.NumCPU().
	Workers int

	// Seed for factor initialization. If 0, a time-based seed is used and
	// training is not reproducible.
	Seed int64
}

// DefaultSVDConfig returns default SVD configuration.
func DefaultSVDConfig() SVDConfig {
	return SVDConfig{
		NumFactors:     DefaultNumFactors,
		LearningRate:   DefaultLearningRate,
		Regularization: DefaultRegularization,
		Threshold:      DefaultThreshold,
		MaxEpochs:      DefaultMaxEpochs,
		Workers:        runtime.NumCPU(),
		Seed:           42,
	}
}

// RandSource supplies uniform draws in [0, 1) for factor initialization.
// *rand.Rand satisfies it.
type RandSource interface {
	Float64() float64
}

// EpochStats describes one completed training epoch.
type EpochStats struct {
	Epoch     int
	Objective float64
	Delta     float64
	Duration  time.Duration

	// EvalDuration is the time spent in the objective evaluation.
	EvalDuration time.Duration
}

// TrainResult summarizes a training run.
type TrainResult struct {
	// Epochs is the number of completed epochs.
	Epochs int `json:"epochs"`

	// Objective is the regularized squared error after the last epoch.
	Objective float64 `json:"objective"`

	// Delta is |Objective - previous objective| for the last epoch.
	Delta float64 `json:"delta"`

	// Converged reports whether Delta fell below the threshold.
	Converged bool `json:"converged"`

	// Average is the mean-of-item-means baseline.
	Average float64 `json:"average"`

	// Duration is the wall time of the run.
	Duration time.Duration `json:"duration"`
}

// Option configures an SVD.
type Option func(*SVD)

// WithRandSource replaces the seeded random source used for initialization.
// The source is consumed by every Train call.
func WithRandSource(src RandSource) Option {
	return func(s *SVD) {
		s.randSource = src
	}
}

// WithEpochObserver registers fn to be called after every epoch.
// It runs on the training goroutine while the training lock is held and must
// not call back into the SVD.
func WithEpochObserver(fn func(EpochStats)) Option {
	return func(s *SVD) {
		s.observer = fn
	}
}

// SVD implements biased matrix factorization trained by SGD.
// Reference: "Matrix Factorization Techniques for Recommender Systems"
// (Koren, Bell, Volinsky, 2009).
type SVD struct {
	BaseAlgorithm
	config SVDConfig

	// model is the frozen result of the last successful Train
	model *model

	// store is the training data the model was fit on
	store ratings.Store

	// result is the summary of the last Train
	result TrainResult

	randSource RandSource
	observer   func(EpochStats)
}

// NewSVD creates a new SVD algorithm with the given configuration.
func NewSVD(cfg SVDConfig, opts ...Option) *SVD {
	if cfg.NumFactors <= 0 {
		cfg.NumFactors = DefaultNumFactors
	}
	if cfg.LearningRate <= 0 {
		cfg.LearningRate = DefaultLearningRate
	}
	if cfg.Regularization <= 0 {
		cfg.Regularization = DefaultRegularization
	}
	if cfg.Threshold <= 0 {
		cfg.Threshold = DefaultThreshold
	}
	if cfg.MaxEpochs <= 0 {
		cfg.MaxEpochs = DefaultMaxEpochs
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}

	s := &SVD{
		BaseAlgorithm: NewBaseAlgorithm("svd"),
		config:        cfg,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Config returns the effective configuration after defaults.
func (s *SVD) Config() SVDConfig {
	return s.config
}

// Result returns the summary of the last training run.
func (s *SVD) Result() TrainResult {
	s.acquirePredictLock()
	defer s.releasePredictLock()
	return s.result
}

// Average returns the learned baseline rating.
func (s *SVD) Average() float64 {
	s.acquirePredictLock()
	defer s.releasePredictLock()
	if s.model == nil {
		return 0
	}
	return s.model.average
}

// GetUserFactors returns a copy of user factors (for testing/debugging).
func (s *SVD) GetUserFactors() [][]float64 {
	s.acquirePredictLock()
	defer s.releasePredictLock()
	if s.model == nil {
		return nil
	}
	return copyMatrix(s.model.userFactors)
}

// GetItemFactors returns a copy of item factors (for testing/debugging).
func (s *SVD) GetItemFactors() [][]float64 {
	s.acquirePredictLock()
	defer s.releasePredictLock()
	if s.model == nil {
		return nil
	}
	return copyMatrix(s.model.itemFactors)
}

// newRandSource returns the injected source or a fresh seeded one, so that
// repeated Train calls with a fixed seed start from identical factors.
func (s *SVD) newRandSource() RandSource {
	if s.randSource != nil {
		return s.randSource
	}
	seed := s.config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	//nolint:gosec // G404: math/rand is acceptable for ML initialization (not security)
	return rand.New(rand.NewSource(seed))
}

// model holds the learned parameters.
type model struct {
	average     float64
	userBias    []float64
	itemBias    []float64
	userFactors [][]float64
	itemFactors [][]float64
}

// newModel allocates zero biases and fills every factor with a uniform
// [0, 1) draw, user rows first.
func newModel(users, items, k int, src RandSource) *model {
	m := &model{
		userBias:    make([]float64, users),
		itemBias:    make([]float64, items),
		userFactors: make([][]float64, users),
		itemFactors: make([][]float64, items),
	}
	for u := range m.userFactors {
		m.userFactors[u] = make([]float64, k)
		for f := range m.userFactors[u] {
			m.userFactors[u][f] = src.Float64()
		}
	}
	for i := range m.itemFactors {
		m.itemFactors[i] = make([]float64, k)
		for f := range m.itemFactors[i] {
			m.itemFactors[i][f] = src.Float64()
		}
	}
	return m
}

// estimate returns average + b_u + b_i + p_u·q_i for known indices.
func (m *model) estimate(u, i int) float64 {
	return m.average + m.userBias[u] + m.itemBias[i] + floats.Dot(m.userFactors[u], m.itemFactors[i])
}

// predictionError returns r - estimate(u, i).
func (m *model) predictionError(u, i int, r uint8) float64 {
	return float64(r) - m.estimate(u, i)
}

func copyMatrix(src [][]float64) [][]float64 {
	out := make([][]float64, len(src))
	for i := range src {
		out[i] = make([]float64, len(src[i]))
		copy(out[i], src[i])
	}
	return out
}
