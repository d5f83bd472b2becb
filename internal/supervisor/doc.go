// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

/*
Package supervisor provides process supervision for the serve command using
suture v4.

# Overview

	RootSupervisor ("svdrec")
	├── TrainingSupervisor ("training-layer")
	│   └── TrainService
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

The HTTP server starts immediately and answers readiness probes with 503 until
TrainService publishes the first model. A failed training run is restarted
with suture's backoff while the API keeps serving whatever model it has.

Supervisor events (service failures, backoff, restarts) are written through
sutureslog to a *slog.Logger. Pass logging.NewSlogLogger() so they land in the
same zerolog stream as the rest of the application.

# Usage Example

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddTrainingService(services.NewTrainService(engine, loader, services.TrainServiceConfig{}, logging.Logger()))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    return err
	}
*/
package supervisor
