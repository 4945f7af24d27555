// NicheCompass - Entrepreneur Niche Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nichecompass

package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/nichecompass/internal/recommend"
)

// TrainingEngine is the subset of recommend.Engine the service drives.
type TrainingEngine interface {
	Train(ctx context.Context, trigger string) (*recommend.TrainingReport, error)
}

// TrainingServiceConfig holds configuration for the training service.
type TrainingServiceConfig struct {
	// TrainOnStartup triggers training when the service starts.
	TrainOnStartup bool

	// TrainInterval is how often to retrain. Zero disables scheduled retraining.
	TrainInterval time.Duration
}

// TrainingService runs startup and scheduled retraining under suture.
// Training failures are logged and never stop the service; the engine keeps
// serving the previous model.
type TrainingService struct {
	engine TrainingEngine
	config TrainingServiceConfig
	logger zerolog.Logger
	name   string
}

// NewTrainingService creates a new training service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewTrainingService(engine TrainingEngine, cfg TrainingServiceConfig, logger zerolog.Logger) *TrainingService {
	return &TrainingService{
		engine: engine,
		config: cfg,
		logger: logger.With().Str("service", "training").Logger(),
		name:   "training-service",
	}
}

// Serve implements the suture.Service interface.
func (s *TrainingService) Serve(ctx context.Context) error {
	s.logger.Info().
		Bool("train_on_startup", s.config.TrainOnStartup).
		Dur("train_interval", s.config.TrainInterval).
		Msg("training service starting")

	if s.config.TrainOnStartup {
		s.train(ctx, recommend.TriggerStartup)
	}

	if s.config.TrainInterval <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(s.config.TrainInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("training service shutting down")
			return ctx.Err()

		case <-ticker.C:
			s.train(ctx, recommend.TriggerScheduled)
		}
	}
}

func (s *TrainingService) train(ctx context.Context, trigger string) {
	report, err := s.engine.Train(ctx, trigger)
	switch {
	case errors.Is(err, recommend.ErrTrainingInProgress):
		s.logger.Info().Str("trigger", trigger).Msg("training skipped, another run in progress")
	case err != nil:
		s.logger.Warn().Err(err).Str("trigger", trigger).Msg("training failed, keeping current model")
	default:
		s.logger.Info().
			Str("trigger", trigger).
			Int("version", report.Version).
			Int("samples", report.Samples).
			Int64("duration_ms", report.DurationMS).
			Msg("training complete")
	}
}

// String returns the service name for logging.
func (s *TrainingService) String() string {
	return s.name
}
