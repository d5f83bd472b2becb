// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

/*
Package api provides the HTTP REST API over a trained rating predictor.

Key Components:

  - Router: chi route configuration and middleware stack
  - Handler: prediction, model status and health handlers
  - Response formatting: the models.APIResponse envelope with metadata
  - Rate limiting: per-IP limits via go-chi/httprate
  - CORS: go-chi/cors, applied globally so preflights succeed

Endpoints:

	GET  /api/v1/health          overall status (healthy, training, degraded)
	GET  /api/v1/health/live     liveness probe
	GET  /api/v1/health/ready    readiness probe, 503 until a model is trained
	GET  /api/v1/predict         single prediction, ?user={id}&item={id}
	POST /api/v1/predict         batch prediction, {"queries":[{"user":1,"item":10}]}
	GET  /api/v1/model           description of the served model
	GET  /metrics                Prometheus exposition

Error codes:

	VALIDATION_ERROR    400  malformed or invalid request body
	INVALID_PARAMETER   400  missing or non-integer query parameter
	BATCH_TOO_LARGE     400  more queries than recommend.max_batch_size
	RATE_LIMIT_EXCEEDED 429  per-IP limit reached
	MODEL_NOT_READY     503  no model has been trained yet
	PREDICTION_ERROR    500  unexpected scoring failure

Usage Example:

	engine, _ := recommend.NewEngine(cfg.RecommendConfig(), logging.Logger())
	handler := api.NewHandler(engine, version, cfg.Server.PredictionCacheSize)
	mw := api.NewChiMiddlewareFromServer(cfg.Server.CORSOrigins,
	    cfg.Server.RateLimitReqs, cfg.Server.RateLimitWindow, cfg.Server.RateLimitDisabled)
	router := api.NewRouter(handler, mw)
	http.ListenAndServe(":3858", router.SetupChi())

Thread Safety:

Handlers hold no mutable state. The engine swaps models atomically, so a
request always sees one complete model even while retraining runs.
*/
package api
