// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

// Package logging provides centralized zerolog-based structured logging for svdrec.
//
// # Overview
//
// The package provides:
//   - A global zerolog logger configured once from LOG_LEVEL, LOG_FORMAT and LOG_CALLER
//   - JSON output for production, console output for development
//   - Request-scoped loggers carrying the request_id set by the HTTP middleware
//   - An slog.Handler adapter so sutureslog writes through zerolog
//
// # Quick Start
//
//	logging.Init(logging.Config{
//	    Level:     "info",
//	    Format:    "json",
//	    Timestamp: true,
//	})
//
//	logging.Info().Int("users", n).Msg("Training data loaded")
//	logging.Err(err).Msg("Training failed")
//
//	// Component loggers are handed to long-lived types
//	engine, err := recommend.NewEngine(cfg, logging.WithComponent("engine"))
//
//	// Handlers log with the request id attached
//	logging.Ctx(r.Context()).Warn().Msg("Batch rejected")
//
// # Suture Integration
//
//	handler := &sutureslog.Handler{Logger: logging.NewSlogLogger()}
//	spec := suture.Spec{EventHook: handler.MustHook()}
//
// Always terminate log chains with .Msg() or .Send().
package logging
