// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package config

import (
	"time"

	"github.com/tomtom215/svdrec/internal/recommend"
)

// Config holds all application configuration loaded from defaults, an
// optional YAML file and environment variables.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: built-in values matching the standard SVD hyperparameters
//  2. Config File: optional YAML file (svdrec.yaml, config.yaml or CONFIG_PATH)
//  3. Environment Variables: override any mapped setting
type Config struct {
	Recommend RecommendConfig `koanf:"recommend"`
	Logging   LoggingConfig   `koanf:"logging"`
	Server    ServerConfig    `koanf:"server"`
}

// RecommendConfig holds the model hyperparameters and training limits.
//
// Environment Variables:
//   - SVDREC_FACTORS: latent factors per user and item (default: 10)
//   - SVDREC_LEARNING_RATE: SGD step size (default: 0.005)
//   - SVDREC_REGULARIZATION: L2 penalty (default: 0.02)
//   - SVDREC_THRESHOLD: convergence threshold on the objective (default: 50)
//   - SVDREC_MAX_EPOCHS: epoch cap (default: 1000)
//   - SVDREC_WORKERS: objective chunks, 0 = one per CPU (default: 0)
//   - SVDREC_STORE: dense or sparse (default: dense)
//   - SVDREC_TRAIN_TIMEOUT: training deadline (default: 30m)
//   - SVDREC_SEED: factor initialization seed, 0 = time based (default: 42)
//   - SVDREC_MAX_BATCH_SIZE: queries per batch request (default: 1000)
type RecommendConfig struct {
	Factors        int           `koanf:"factors" validate:"gte=1,lte=1000"`
	LearningRate   float64       `koanf:"learning_rate" validate:"gt=0,lte=1"`
	Regularization float64       `koanf:"regularization" validate:"gt=0"`
	Threshold      float64       `koanf:"threshold" validate:"gt=0"`
	MaxEpochs      int           `koanf:"max_epochs" validate:"gte=1"`
	Workers        int           `koanf:"workers" validate:"gte=0,lte=1024"`
	Store          string        `koanf:"store" validate:"oneof=dense sparse"`
	Timeout        time.Duration `koanf:"timeout" validate:"gt=0"`
	Seed           int64         `koanf:"seed"`
	MaxBatchSize   int           `koanf:"max_batch_size" validate:"gte=1,lte=100000"`
}

// LoggingConfig holds logging settings for zerolog.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: true/false - include caller file:line (default: false)
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string `koanf:"level" validate:"oneof=trace debug info warn error"`

	// Format is the output format: json or console.
	// Console is human-readable for development.
	Format string `koanf:"format" validate:"oneof=json console"`

	// Caller includes caller file and line number in logs.
	Caller bool `koanf:"caller"`
}

// ServerConfig holds HTTP settings for serve mode.
//
// Environment Variables:
//   - HTTP_HOST, HTTP_PORT: listen address (default: 0.0.0.0:3858)
//   - HTTP_READ_TIMEOUT, HTTP_WRITE_TIMEOUT, HTTP_SHUTDOWN_TIMEOUT
//   - CORS_ORIGINS: comma-separated allowed origins (default: *)
//   - RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT
//   - PREDICTION_CACHE_SIZE: memoized single predictions, 0 disables (default: 10000)
type ServerConfig struct {
	Host            string        `koanf:"host" validate:"required"`
	Port            int           `koanf:"port" validate:"gte=1,lte=65535"`
	ReadTimeout     time.Duration `koanf:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `koanf:"write_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`

	CORSOrigins []string `koanf:"cors_origins"`

	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`

	PredictionCacheSize int `koanf:"prediction_cache_size" validate:"gte=0"`
}

// RecommendConfig converts the recommend section into the engine configuration.
func (c *Config) RecommendConfig() *recommend.Config {
	r := c.Recommend
	return &recommend.Config{
		Model: recommend.ModelConfig{
			Factors:        r.Factors,
			LearningRate:   r.LearningRate,
			Regularization: r.Regularization,
		},
		Training: recommend.TrainingConfig{
			Threshold: r.Threshold,
			MaxEpochs: r.MaxEpochs,
			Workers:   r.Workers,
			Store:     r.Store,
			Timeout:   r.Timeout,
		},
		Limits: recommend.LimitsConfig{
			MaxBatchSize: r.MaxBatchSize,
		},
		Seed: r.Seed,
	}
}
