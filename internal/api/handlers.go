// NicheCompass - Entrepreneur Niche Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nichecompass

package api

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/tomtom215/nichecompass/internal/recommend"
	"github.com/tomtom215/nichecompass/internal/recommend/feature"
	"github.com/tomtom215/nichecompass/internal/recommend/storage"
)

// Engine is the subset of recommend.Engine used by the handlers.
type Engine interface {
	Predict(ctx context.Context, v feature.Vector, opts recommend.PredictOptions) (*recommend.Prediction, error)
	Train(ctx context.Context, trigger string) (*recommend.TrainingReport, error)
	StartTraining(ctx context.Context, trigger string) (string, error)
	Reload(ctx context.Context) (*recommend.ModelInfo, error)
	Info() (*recommend.ModelInfo, error)
	FeatureImportance() ([]recommend.FeatureImportance, error)
	Performance() (*recommend.EvaluationReport, error)
	Versions(ctx context.Context) ([]storage.ArtifactMetadata, error)
	Ready() bool
	Status() recommend.TrainingStatus
}

// HandlerConfig configures the API handlers.
type HandlerConfig struct {
	// ServiceName is reported by the root endpoint
	ServiceName string

	// Version is the build version
	Version string

	// Environment is reported by the root endpoint
	Environment string

	// RetrainCooldown is the minimum spacing between accepted retrain
	// requests. Zero disables the cooldown.
	RetrainCooldown time.Duration

	// PredictTimeout bounds a single prediction request
	PredictTimeout time.Duration

	// MaxBodyBytes caps request bodies
	MaxBodyBytes int64
}

// Handler serves the NicheCompass HTTP API.
type Handler struct {
	engine    Engine
	config    HandlerConfig
	startTime time.Time

	// retrainLimiter enforces RetrainCooldown across all clients
	retrainLimiter *rate.Limiter
}

// NewHandler creates the API handler.
func NewHandler(engine Engine, cfg HandlerConfig) *Handler {
	if cfg.ServiceName == "" {
		cfg.ServiceName = "NicheCompass"
	}
	if cfg.Version == "" {
		cfg.Version = "dev"
	}
	if cfg.PredictTimeout <= 0 {
		cfg.PredictTimeout = 10 * time.Second
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 64 << 10
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RetrainCooldown > 0 {
		limiter = rate.NewLimiter(rate.Every(cfg.RetrainCooldown), 1)
	}

	return &Handler{
		engine:         engine,
		config:         cfg,
		startTime:      time.Now(),
		retrainLimiter: limiter,
	}
}
