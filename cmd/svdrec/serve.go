// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/tomtom215/svdrec/internal/api"
	"github.com/tomtom215/svdrec/internal/config"
	"github.com/tomtom215/svdrec/internal/dataset"
	"github.com/tomtom215/svdrec/internal/logging"
	"github.com/tomtom215/svdrec/internal/recommend"
	"github.com/tomtom215/svdrec/internal/supervisor"
	"github.com/tomtom215/svdrec/internal/supervisor/services"
)

// runServe trains under the supervisor tree and serves the HTTP API until
// ctx is canceled.
func runServe(ctx context.Context, cfg *config.Config, args []string, _ io.Writer) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	retrain := fs.Duration("retrain", 0, "reload the training files and retrain at this interval (0 trains once)")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	trainFiles := fs.Args()
	if len(trainFiles) == 0 {
		return fmt.Errorf("%w: serve needs at least one training file", errUsage)
	}

	engine, err := recommend.NewEngine(cfg.RecommendConfig(), logging.Logger())
	if err != nil {
		return err
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}

	load := func(context.Context) ([]recommend.Rating, error) {
		return dataset.ReadRatingFiles(trainFiles...)
	}
	tree.AddTrainingService(services.NewTrainService(engine, load, services.TrainServiceConfig{
		RetrainInterval: *retrain,
	}, logging.Logger()))

	if cfg.HasWildcardCORS() {
		logging.Warn().Msg("CORS allows any origin (CORS_ORIGINS=*)")
	}

	chiMiddleware := api.NewChiMiddlewareFromServer(
		cfg.Server.CORSOrigins,
		cfg.Server.RateLimitReqs,
		cfg.Server.RateLimitWindow,
		cfg.Server.RateLimitDisabled,
	)
	router := api.NewRouter(api.NewHandler(engine, version, cfg.Server.PredictionCacheSize), chiMiddleware)

	server := &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:           router.SetupChi(),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       2 * time.Minute,
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout, logging.Logger()))

	logging.Info().
		Str("addr", server.Addr).
		Strs("train_files", trainFiles).
		Dur("retrain", *retrain).
		Str("version", version).
		Msg("Starting svdrec with supervisor tree")

	err = tree.Serve(ctx)

	report, reportErr := tree.UnstoppedServiceReport()
	if reportErr == nil && len(report) > 0 {
		for _, svc := range report {
			logging.Warn().Str("service", svc.Name).Msg("Service did not stop within the shutdown timeout")
		}
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("supervisor: %w", err)
	}
	logging.Info().Msg("Shutdown complete")
	return nil
}
