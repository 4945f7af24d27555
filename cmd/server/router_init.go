// NicheCompass - Entrepreneur Niche Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nichecompass

package main

import (
	"net/http"
	"time"

	"github.com/tomtom215/nichecompass/internal/api"
	"github.com/tomtom215/nichecompass/internal/config"
)

// newHTTPServer builds the chi router for engine and wraps it in an
// http.Server with the configured timeouts.
func newHTTPServer(cfg *config.Config, engine api.Engine) *http.Server {
	handler := api.NewHandler(engine, api.HandlerConfig{
		Version:         version,
		Environment:     cfg.Server.Environment,
		RetrainCooldown: cfg.Security.RetrainCooldown,
		PredictTimeout:  cfg.Server.Timeout,
	})

	mwConfig := api.DefaultChiMiddlewareConfig()
	mwConfig.CORSAllowedOrigins = cfg.Security.CORSOrigins
	mwConfig.RateLimitRequests = cfg.Security.RateLimitReqs
	mwConfig.RateLimitWindow = cfg.Security.RateLimitWindow
	mwConfig.RateLimitDisabled = cfg.Security.RateLimitDisabled
	// Credentialed CORS is invalid with a wildcard origin.
	for _, origin := range cfg.Security.CORSOrigins {
		if origin == "*" {
			mwConfig.CORSAllowCredentials = false
		}
	}

	router := api.NewRouter(handler, mwConfig)

	// WriteTimeout leaves room for a synchronous retrain to finish writing
	// its report after the training timeout.
	writeTimeout := cfg.Server.Timeout
	if cfg.Training.Timeout > writeTimeout {
		writeTimeout = cfg.Training.Timeout + 5*time.Second
	}

	return &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       60 * time.Second,
	}
}
