// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

/*
Package config provides centralized configuration management for svdrec.

Configuration is layered with Koanf v2: built-in defaults, then an optional
YAML file, then environment variables. The result is validated with struct
tags (see internal/validation) plus a few cross-field rules.

# Configuration File

	recommend:
	  factors: 10
	  learning_rate: 0.005
	  regularization: 0.02
	  threshold: 50
	  max_epochs: 1000
	  workers: 0
	  store: dense
	  timeout: 30m
	  seed: 42
	logging:
	  level: info
	  format: json
	server:
	  host: 0.0.0.0
	  port: 3858
	  cors_origins: ["*"]

# Environment Variables

Model and training:
  - SVDREC_FACTORS, SVDREC_LEARNING_RATE, SVDREC_REGULARIZATION
  - SVDREC_THRESHOLD, SVDREC_MAX_EPOCHS, SVDREC_WORKERS
  - SVDREC_STORE, SVDREC_TRAIN_TIMEOUT, SVDREC_SEED, SVDREC_MAX_BATCH_SIZE

Logging:
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER

HTTP server (serve mode only):
  - HTTP_HOST, HTTP_PORT, HTTP_READ_TIMEOUT, HTTP_WRITE_TIMEOUT, HTTP_SHUTDOWN_TIMEOUT
  - CORS_ORIGINS (comma-separated)
  - RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT
  - PREDICTION_CACHE_SIZE (0 disables the single prediction cache)

CONFIG_PATH names the YAML file when no path is passed to Load.

# Usage

	cfg, err := config.Load(*configPath)
	if err != nil {
	    return err
	}
	engine, err := recommend.NewEngine(cfg.RecommendConfig(), logger)
*/
package config
