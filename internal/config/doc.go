// NicheCompass - Entrepreneur Niche Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nichecompass

/*
Package config provides centralized configuration management for NicheCompass.

Configuration is layered with Koanf v2. Later sources override earlier ones:

 1. Built-in defaults (structs provider)
 2. An optional YAML file: CONFIG_PATH, else config.yaml in the working
    directory, else /etc/nichecompass/config.yaml
 3. Environment variables, mapped through an explicit table

Environment variables that are not in the table are ignored.

# Configuration Structure

  - ServerConfig: listen address, request and shutdown timeouts, environment
  - SecurityConfig: CORS origins, per-IP rate limit, retrain cooldown
  - LoggingConfig: zerolog level, format and caller
  - ModelConfig: artifact directory, name, retention, startup load
  - TrainingConfig: KNN hyperparameters, holdout split, schedule
  - DataSourceConfig: mongo, badger, file or synthetic training data
  - PredictionConfig: default threshold, top-k, prediction cache

# Environment Variables

Server:
  - HTTP_HOST (default: 0.0.0.0), HTTP_PORT (default: 8000)
  - HTTP_TIMEOUT (default: 30s), SHUTDOWN_TIMEOUT (default: 10s)
  - ENVIRONMENT: development, staging or production (default: development)

Security:
  - CORS_ORIGINS: comma-separated origins
  - RATE_LIMIT_REQUESTS (default: 100), RATE_LIMIT_WINDOW (default: 1m)
  - DISABLE_RATE_LIMIT (default: false)
  - RETRAIN_COOLDOWN (default: 1m)

Logging:
  - LOG_LEVEL (default: info), LOG_FORMAT (default: json), LOG_CALLER

Model, training, data source and prediction variables are listed on their
section types. MONGODB_URI is accepted as an alias of MONGO_URI; set only one.

# Validation

Config.Validate runs per-section validators and reports the first problem
using the environment variable name, for example:

	TRAINING_K must be at least 1

Data source settings are validated only for the selected DATASOURCE_TYPE.

# Usage

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}
	logging.Init(cfg.LoggingOptions())
	engineCfg, err := cfg.Recommend()
*/
package config
