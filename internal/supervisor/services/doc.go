// NicheCompass - Entrepreneur Niche Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nichecompass

/*
Package services provides suture.Service wrappers for NicheCompass components.

Each wrapper translates a component's lifecycle into suture's context-aware
Serve pattern and implements fmt.Stringer so supervisor events name it.

# Available Services

HTTP Server (HTTPServerService):
  - Wraps *http.Server with graceful shutdown
  - Listener failures are returned so the api layer restarts the server

Training (TrainingService):
  - Optional training pass at startup (TRAINING_ON_STARTUP)
  - Scheduled retraining every TRAINING_INTERVAL; zero disables it
  - Failures are logged; the engine keeps serving the previous model
*/
package services
