// NicheCompass - Entrepreneur Niche Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nichecompass

/*
Package main is the entry point for the NicheCompass server.

NicheCompass recommends business niches to entrepreneurs. A k-nearest-neighbor
classifier is trained on labeled entrepreneur profiles and served over a JSON
HTTP API with a confidence gate on every prediction.

# Application Architecture

The server runs under a Suture v4 supervision tree:

	RootSupervisor ("nichecompass")
	├── TrainingSupervisor ("training-layer")
	│   └── TrainingService (startup + scheduled retraining)
	└── APISupervisor ("api-layer")
	    └── HTTP Server (chi router)

Component initialization order:

 1. Configuration: Koanf v2 with environment variables and config files
 2. Logging: zerolog with JSON/console output modes
 3. Artifact store: versioned model files under MODEL_DIR
 4. Engine: serving slot, prediction cache, training lock
 5. Data source: mongo, badger, file or synthetic
 6. Startup load: latest persisted artifact into the serving slot
 7. Supervisor tree: training service and HTTP server

# Configuration

	# Server
	HTTP_PORT=8000
	LOG_LEVEL=info               # trace, debug, info, warn, error
	LOG_FORMAT=json              # json or console

	# Model
	MODEL_DIR=./models
	MODEL_KEEP_VERSIONS=5

	# Training
	TRAINING_K=3
	TRAINING_METRIC=euclidean    # euclidean, manhattan or minkowski
	TRAINING_INTERVAL=24h        # 0 disables scheduled retraining

	# Training data
	DATASOURCE_TYPE=mongo        # mongo, badger, file or synthetic
	MONGO_URI=mongodb://localhost:27017/

A config.yaml in the working directory (or CONFIG_PATH) is read before the
environment.

# Startup Without a Model

When no artifact exists yet the server still starts. Predictions return
503 MODEL_NOT_READY until a training run (scheduled, TRAINING_ON_STARTUP or
POST /api/v1/model/retrain) publishes a model.

An unreachable MongoDB at startup is not fatal either: the server serves the
last persisted model, and retraining answers 503 until it is restarted with a
reachable source.

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server drains in-flight
requests for SHUTDOWN_TIMEOUT, background training is cancelled, and
the data source connection is closed.

# Example Usage

	DATASOURCE_TYPE=synthetic TRAINING_ON_STARTUP=true LOG_FORMAT=console ./nichecompass

	curl -s localhost:8000/api/v1/predict \
	  -d '{"features":[3,2,500,20,0.6,0.4]}'
*/
package main
