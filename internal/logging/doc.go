// NicheCompass - Entrepreneur Niche Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nichecompass

// Package logging provides centralized zerolog-based structured logging for NicheCompass.
//
// # Overview
//
// The package provides:
//   - Zero-allocation structured logging via zerolog
//   - JSON output for production, console output for development
//   - Context-aware logging with request and correlation ID propagation
//   - An slog adapter so suture's event hook writes through zerolog
//   - A model lifecycle logger for training, publish, reload and prune events
//
// # Quick Start
//
//	import "github.com/tomtom215/nichecompass/internal/logging"
//
//	logging.Init(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	})
//
//	logging.Info().Int("port", 8000).Msg("Server starting")
//	logging.Error().Err(err).Msg("Training failed")
//	logging.Ctx(ctx).Info().Msg("Prediction served")
//
// # Configuration
//
// Environment Variables (read by internal/config):
//
//	LOG_LEVEL   - Minimum log level: trace, debug, info, warn, error (default: info)
//	LOG_FORMAT  - Output format: json, console (default: json)
//	LOG_CALLER  - Include caller file:line: true, false (default: false)
//
// # Output Formats
//
// JSON Format (Production):
//
//	{"level":"info","time":"2026-01-03T10:30:00Z","message":"Server starting","port":8000}
//
// Console Format (Development):
//
//	10:30:00 INF Server starting port=8000
//
// # Secrets
//
// Data source URIs may carry credentials. Log them through RedactURI:
//
//	logging.Info().Str("uri", logging.RedactURI(cfg.MongoURI)).Msg("Connecting")
//
// # Thread Safety
//
// All exported functions are safe for concurrent use. The global logger
// is protected by sync.RWMutex for configuration changes.
package logging
