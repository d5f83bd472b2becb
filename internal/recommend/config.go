// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package recommend

import (
	"fmt"
	"time"

	"github.com/tomtom215/svdrec/internal/ratings"
	"github.com/tomtom215/svdrec/internal/recommend/algorithms"
)

// Config contains all configuration for the prediction engine.
type Config struct {
	// Model contains the SVD hyperparameters.
	Model ModelConfig `json:"model"`

	// Training contains training loop parameters.
	Training TrainingConfig `json:"training"`

	// Limits contains operational limits.
	Limits LimitsConfig `json:"limits"`

	// Seed is the random seed for factor initialization.
	// If zero, every Fit draws from a time-based seed.
	Seed int64 `json:"seed"`
}

// ModelConfig contains the SVD hyperparameters.
type ModelConfig struct {
	// Factors is the number of latent factors.
	// Default: 10.
	Factors int `json:"factors"`

	// LearningRate is the SGD step size.
	// Default: 0.005.
	LearningRate float64 `json:"learning_rate"`

	// Regularization is the L2 regularization parameter.
	// Default: 0.02.
	Regularization float64 `json:"regularization"`
}

// TrainingConfig contains training loop parameters.
type TrainingConfig struct {
	// Threshold stops training once the objective changes by less than this.
	// Default: 50.
	Threshold float64 `json:"threshold"`

	// MaxEpochs bounds the number of epochs.
	// Default: 1000.
	MaxEpochs int `json:"max_epochs"`

	// Workers is the number of chunks the objective is split into.
	// Zero means one per CPU.
	Workers int `json:"workers"`

	// Store selects the rating store ("dense" or "sparse").
	// Default: "dense".
	Store string `json:"store"`

	// Timeout is the maximum time allowed for a training run.
	// Default: 30m.
	Timeout time.Duration `json:"timeout"`
}

// LimitsConfig contains operational limits.
type LimitsConfig struct {
	// MaxBatchSize is the maximum number of queries per PredictBatch call.
	// Default: 1000.
	MaxBatchSize int `json:"max_batch_size"`
}

// DefaultConfig returns a Config with the standard hyperparameters.
func DefaultConfig() *Config {
	return &Config{
		Model: ModelConfig{
			Factors:        algorithms.DefaultNumFactors,
			LearningRate:   algorithms.DefaultLearningRate,
			Regularization: algorithms.DefaultRegularization,
		},
		Training: TrainingConfig{
			Threshold: algorithms.DefaultThreshold,
			MaxEpochs: algorithms.DefaultMaxEpochs,
			Workers:   0,
			Store:     ratings.KindDense.String(),
			Timeout:   30 * time.Minute,
		},
		Limits: LimitsConfig{
			MaxBatchSize: 1000,
		},
		Seed: 42,
	}
}

// Validate checks that all configuration values are valid.
func (c *Config) Validate() error {
	if c.Model.Factors <= 0 {
		return fmt.Errorf("model.factors must be positive, got %d", c.Model.Factors)
	}
	if c.Model.LearningRate <= 0 {
		return fmt.Errorf("model.learning_rate must be positive, got %f", c.Model.LearningRate)
	}
	if c.Model.Regularization <= 0 {
		return fmt.Errorf("model.regularization must be positive, got %f", c.Model.Regularization)
	}
	if c.Training.Threshold <= 0 {
		return fmt.Errorf("training.threshold must be positive, got %f", c.Training.Threshold)
	}
	if c.Training.MaxEpochs <= 0 {
		return fmt.Errorf("training.max_epochs must be positive, got %d", c.Training.MaxEpochs)
	}
	if c.Training.Workers < 0 {
		return fmt.Errorf("training.workers must be non-negative, got %d", c.Training.Workers)
	}
	if _, err := ratings.ParseKind(c.Training.Store); err != nil {
		return fmt.Errorf("training.store: %w", err)
	}
	if c.Training.Timeout <= 0 {
		return fmt.Errorf("training.timeout must be positive, got %v", c.Training.Timeout)
	}
	if c.Limits.MaxBatchSize <= 0 {
		return fmt.Errorf("limits.max_batch_size must be positive, got %d", c.Limits.MaxBatchSize)
	}
	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// svdConfig converts to the algorithm configuration.
func (c *Config) svdConfig() algorithms.SVDConfig {
	return algorithms.SVDConfig{
		NumFactors:     c.Model.Factors,
		LearningRate:   c.Model.LearningRate,
		Regularization: c.Model.Regularization,
		Threshold:      c.Training.Threshold,
		MaxEpochs:      c.Training.MaxEpochs,
		Workers:        c.Training.Workers,
		Seed:           c.Seed,
	}
}
