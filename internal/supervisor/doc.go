// NicheCompass - Entrepreneur Niche Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nichecompass

/*
Package supervisor provides process supervision for NicheCompass using suture v4.

# Overview

The supervisor tree organizes services into two layers:

	RootSupervisor ("nichecompass")
	├── TrainingSupervisor ("training-layer")
	│   └── TrainingService (startup + scheduled retraining)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

A retraining loop that crashes is restarted inside its own layer; the HTTP
server keeps serving the last published model.

# Usage Example

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}

	tree.AddTrainingService(services.NewTrainingService(engine, trainingCfg, logger))
	tree.AddAPIService(services.NewHTTPServerService(server, shutdownTimeout))

	errCh := tree.ServeBackground(ctx)
	<-ctx.Done()
	<-errCh

# Service Interface

All services implement suture.Service:

	type Service interface {
	    Serve(ctx context.Context) error
	}

Return behavior:
  - Return nil: Service stopped cleanly, will not be restarted
  - Return error: Service crashed, will be restarted
  - Context canceled: Shutdown requested, return promptly

# Debugging Shutdown Issues

	report, err := tree.UnstoppedServiceReport()
	for _, svc := range report {
	    logger.Warn("service did not stop", "service", svc.Name)
	}

The model engine itself is not supervised. It is a library owned by main and
closed after the tree stops, which cancels any background training run.
*/
package supervisor
