// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

/*
Package services provides suture.Service wrappers for the serve command.

  - HTTPServerService: runs an *http.Server and shuts it down gracefully
    when the supervisor context is canceled.
  - TrainService: loads rating files and fits the engine, once or on a
    schedule. Non-convergence is logged, not treated as a failure.

Each wrapper implements fmt.Stringer so suture events name the service.
*/
package services
