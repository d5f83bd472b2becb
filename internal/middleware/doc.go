// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

/*
Package middleware provides HTTP middleware components for the prediction API.

Key Components:

  - RequestID: X-Request-ID propagation into chi and logging contexts
  - PrometheusMetrics: request count, latency and in-flight gauge per route pattern
  - AccessLog: one zerolog line per request

All middleware has the chi signature func(http.Handler) http.Handler:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Route("/api/v1", func(r chi.Router) {
	    r.Use(middleware.PrometheusMetrics)
	    r.Use(middleware.AccessLog)
	    r.Get("/predict", h.Predict)
	})
*/
package middleware
