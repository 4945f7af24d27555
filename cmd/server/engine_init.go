// NicheCompass - Entrepreneur Niche Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nichecompass

package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/nichecompass/internal/config"
	"github.com/tomtom215/nichecompass/internal/logging"
	"github.com/tomtom215/nichecompass/internal/recommend"
	"github.com/tomtom215/nichecompass/internal/recommend/dataset"
	"github.com/tomtom215/nichecompass/internal/recommend/storage"
)

// EngineComponents holds the engine and the data source it trains from.
type EngineComponents struct {
	Engine *recommend.Engine
	Source *dataset.Opened
}

// initEngine opens the artifact store, creates the engine and attaches the
// configured data source. A data source that cannot be opened is logged and
// left unset so the server can still serve the persisted model.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func initEngine(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*EngineComponents, error) {
	store, err := storage.NewStore(cfg.Model.Dir)
	if err != nil {
		return nil, fmt.Errorf("open model store: %w", err)
	}

	rc, err := cfg.Recommend()
	if err != nil {
		return nil, err
	}

	engine, err := recommend.NewEngine(rc, store, logger)
	if err != nil {
		return nil, fmt.Errorf("create engine: %w", err)
	}

	logger.Info().
		Str("model_dir", store.Dir()).
		Str("model_name", rc.ModelName).
		Int("k", rc.KNN.K).
		Str("metric", rc.KNN.Metric.String()).
		Str("weighting", rc.KNN.Weighting.String()).
		Int("select_k", rc.SelectK).
		Msg("Recommendation engine initialized")

	components := &EngineComponents{Engine: engine}

	opened, err := openDataSource(ctx, cfg)
	if err != nil {
		logger.Error().Err(err).
			Str("datasource", cfg.DataSource.Type).
			Msg("Training data source unavailable, retraining disabled until restart")
		return components, nil
	}
	engine.SetDataSource(opened.Source)
	components.Source = opened

	return components, nil
}

// openDataSource opens the configured training source. Mongo URIs are
// redacted before logging.
func openDataSource(ctx context.Context, cfg *config.Config) (*dataset.Opened, error) {
	opts, err := cfg.DataSourceOptions()
	if err != nil {
		return nil, err
	}

	event := logging.Info().Str("datasource", string(opts.Type))
	switch opts.Type {
	case dataset.TypeMongo:
		event = event.
			Str("uri", logging.RedactURI(opts.Mongo.URI)).
			Str("database", opts.Mongo.Database).
			Str("collection", opts.Mongo.Collection)
	case dataset.TypeBadger:
		event = event.Str("path", opts.BadgerPath)
	case dataset.TypeFile:
		event = event.Str("path", opts.FilePath)
	case dataset.TypeSynthetic:
		event = event.Int("per_niche", opts.PerNiche)
	}

	opened, err := dataset.Open(ctx, opts)
	if err != nil {
		return nil, err
	}
	event.Msg("Training data source opened")
	return opened, nil
}

// loadStartupModel publishes the latest persisted artifact. A missing
// artifact leaves the slot Empty; any other failure is logged and also
// leaves the slot Empty.
func loadStartupModel(ctx context.Context, engine *recommend.Engine) {
	info, err := engine.Reload(ctx)
	switch {
	case err == nil:
		logging.Info().
			Str("model", info.Name).
			Int("version", info.Version).
			Int("samples", info.SampleCount).
			Msg("Serving persisted model")
	case errors.Is(err, storage.ErrArtifactNotFound):
		logging.Warn().Msg("No persisted model found, predictions unavailable until the first training run")
	default:
		logging.Error().Err(err).Msg("Failed to load persisted model")
	}
}

// Close stops background training and releases the data source.
func (c *EngineComponents) Close(ctx context.Context) {
	if c == nil {
		return
	}
	c.Engine.Close()
	if err := c.Source.Close(ctx); err != nil {
		logging.Error().Err(err).Msg("Error closing training data source")
	}
}
