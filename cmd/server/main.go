// Kinmap - Social Graph Friend Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kinmap

// Package main is the entry point for the Kinmap server.
//
// Kinmap computes friend-of-friend recommendations over uploaded social
// graph files. Clients submit a relation file (and optionally a
// demographic file), poll the resulting job, and download the ranked
// recommendations once the computation finishes.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: settings from environment variables and config files (Koanf v2)
//  2. Job store: in-memory or BadgerDB-backed job metadata
//  3. Artifact store: result files on local disk
//  4. Recommendation engine: friend-of-friend ranking and demographic scoring
//  5. Job runner: bounded worker pool consuming submissions
//  6. HTTP server: REST API with Prometheus metrics
//
// The runner and HTTP server run under a suture supervisor tree, so a
// crash in one restarts without taking down the other.
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins):
//   - Environment variables (HTTP_PORT, JOBS_STORE, ...)
//   - Config file (config.yaml, or CONFIG_PATH)
//   - Built-in defaults
//
// Durable job metadata requires BadgerDB:
//
//	export JOBS_STORE=badger
//	export JOBS_STORE_PATH=/data/jobs
//
// # Signal Handling
//
// The server handles graceful shutdown on SIGINT and SIGTERM:
//   - Stops accepting new connections
//   - Waits for in-flight requests to complete (10s timeout)
//   - Lets workers finish their current job before exiting
//   - Closes the job store
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/kinmap/internal/api"
	"github.com/tomtom215/kinmap/internal/config"
	"github.com/tomtom215/kinmap/internal/jobs"
	"github.com/tomtom215/kinmap/internal/logging"
	"github.com/tomtom215/kinmap/internal/recommend"
	"github.com/tomtom215/kinmap/internal/supervisor"
	"github.com/tomtom215/kinmap/internal/supervisor/services"
)

func main() {
	// Load configuration first to get logging settings.
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("store", cfg.Jobs.Store).
		Str("artifact_dir", cfg.Jobs.ArtifactDir).
		Int("workers", cfg.Jobs.Runner.Workers).
		Msg("Starting Kinmap")

	// Job metadata store. Badger gives durability across restarts; the
	// in-memory store is for ephemeral deployments and tests.
	var store jobs.Store
	var db *badger.DB
	switch cfg.Jobs.Store {
	case "badger":
		opts := badger.DefaultOptions(cfg.Jobs.StorePath).WithLogger(nil)
		db, err = badger.Open(opts)
		if err != nil {
			logging.Fatal().Err(err).Str("path", cfg.Jobs.StorePath).Msg("Failed to open job database")
		}
		defer func() {
			if err := db.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing job database")
			}
		}()
		store = jobs.NewBadgerStore(db)
		logging.Info().Str("path", cfg.Jobs.StorePath).Msg("BadgerDB job store opened")
	default:
		store = jobs.NewMemoryStore()
		logging.Info().Msg("In-memory job store (job metadata is not persisted)")
	}

	artifacts, err := jobs.NewArtifactStore(cfg.Jobs.ArtifactDir)
	if err != nil {
		logging.Fatal().Err(err).Str("dir", cfg.Jobs.ArtifactDir).Msg("Failed to create artifact store")
	}

	engine, err := recommend.NewEngine(&cfg.Engine, logging.Logger())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create recommendation engine")
	}

	runner, err := jobs.NewRunner(cfg.Jobs.Runner, store, artifacts, engine, logging.Logger())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create job runner")
	}

	handler := api.NewHandler(api.HandlerConfig{
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
	}, store, artifacts, runner, logging.Logger())

	middleware := api.NewMiddleware(&api.MiddlewareConfig{
		CORSAllowedOrigins: cfg.Server.CORSOrigins,
		CORSAllowedMethods: []string{"GET", "POST", "OPTIONS"},
		CORSAllowedHeaders: []string{"Content-Type"},
		CORSMaxAge:         86400,
		RateLimitRequests:  cfg.Server.RateLimitReqs,
		RateLimitWindow:    cfg.Server.RateLimitWindow,
		RateLimitDisabled:  cfg.Server.RateLimitDisabled,
	})

	router := api.NewRouter(handler, middleware)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	// Supervision events go through the slog bridge onto zerolog.
	tree, err := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	tree.AddWorkerService(runner)
	logging.Info().Int("queue_size", cfg.Jobs.Runner.QueueSize).Msg("Job runner added to supervisor tree")

	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	// Drain until the supervisor has fully stopped.
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}
