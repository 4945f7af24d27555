// NicheCompass - Entrepreneur Niche Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nichecompass

package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomtom215/nichecompass/internal/config"
	"github.com/tomtom215/nichecompass/internal/logging"
	"github.com/tomtom215/nichecompass/internal/metrics"
	"github.com/tomtom215/nichecompass/internal/supervisor"
	"github.com/tomtom215/nichecompass/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		// Use default logger for config errors (config not yet available)
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(cfg.LoggingOptions())
	metrics.SetAppInfo(version)

	logging.Info().
		Str("version", version).
		Str("environment", cfg.Server.Environment).
		Str("datasource", cfg.DataSource.Type).
		Str("model_dir", cfg.Model.Dir).
		Msg("Starting NicheCompass with supervisor tree")

	if err := run(cfg); err != nil {
		logging.Fatal().Err(err).Msg("Server exited with error")
	}
	logging.Info().Msg("Server stopped")
}

// run wires the engine, HTTP server and supervisor tree, then blocks until
// SIGINT or SIGTERM.
func run(cfg *config.Config) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	components, err := initEngine(ctx, cfg, logging.Logger())
	if err != nil {
		return err
	}
	// Runs after the tree has stopped so no training outlives the engine.
	defer components.Close(context.Background())

	if cfg.Model.LoadOnStartup {
		loadStartupModel(ctx, components.Engine)
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		return err
	}

	tree.AddTrainingService(services.NewTrainingService(components.Engine, services.TrainingServiceConfig{
		TrainOnStartup: cfg.Training.OnStartup,
		TrainInterval:  cfg.Training.Interval,
	}, logging.WithComponent("training-service")))

	server := newHTTPServer(cfg, components.Engine)
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case sig := <-sigCh:
			logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
	}()

	logging.Info().Str("addr", server.Addr).Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	err = <-errCh
	if err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree error")
	}

	if unstopped, _ := tree.UnstoppedServiceReport(); len(unstopped) > 0 { //nolint:errcheck // report is best effort
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
	}

	if ctx.Err() == nil {
		// The tree stopped on its own, which only happens on an unrecoverable error.
		return err
	}
	return nil
}
