// NicheCompass - Entrepreneur Niche Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nichecompass

package config

import (
	"fmt"
	"math"
	"net/url"
	"strings"

	"github.com/tomtom215/nichecompass/internal/recommend/algorithms"
	"github.com/tomtom215/nichecompass/internal/recommend/dataset"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateSecurity(); err != nil {
		return err
	}

	if err := c.validateLogging(); err != nil {
		return err
	}

	if err := c.validateModel(); err != nil {
		return err
	}

	if err := c.validateTraining(); err != nil {
		return err
	}

	if err := c.validateDataSource(); err != nil {
		return err
	}

	return c.validatePrediction()
}

// validateServer validates HTTP server configuration
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive")
	}
	if !validEnvironments[c.Server.Environment] {
		return fmt.Errorf("ENVIRONMENT must be one of: development, staging, production")
	}
	return nil
}

// validateSecurity validates CORS and throttling configuration
func (c *Config) validateSecurity() error {
	if err := c.validateCORS(); err != nil {
		return err
	}
	if err := c.validateRateLimits(); err != nil {
		return err
	}
	if c.Security.RetrainCooldown < 0 {
		return fmt.Errorf("RETRAIN_COOLDOWN must not be negative")
	}
	return nil
}

// validateCORS rejects wildcard origins in production
func (c *Config) validateCORS() error {
	if c.IsProduction() && c.hasWildcardCORS() {
		return fmt.Errorf("CORS_ORIGINS must not contain '*' when ENVIRONMENT=production")
	}
	return nil
}

func (c *Config) hasWildcardCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

// validateRateLimits validates rate limiting configuration (only if enabled)
func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < 1 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1")
	}
	if c.Security.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
	}
	return nil
}

// IsProduction returns true when running with ENVIRONMENT=production
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// IsDevelopment returns true when running with ENVIRONMENT=development
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "development"
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

// validateModel validates artifact store configuration
func (c *Config) validateModel() error {
	if strings.TrimSpace(c.Model.Dir) == "" {
		return fmt.Errorf("MODEL_DIR is required")
	}
	if c.Model.Name == "" || strings.ContainsAny(c.Model.Name, `/\`) {
		return fmt.Errorf("MODEL_NAME must be a non-empty name without path separators")
	}
	if c.Model.KeepVersions < 0 {
		return fmt.Errorf("MODEL_KEEP_VERSIONS must not be negative")
	}
	return nil
}

// validateTraining validates classifier hyperparameters and schedule
func (c *Config) validateTraining() error {
	if err := c.validateTrainingHyperparameters(); err != nil {
		return err
	}
	if math.IsNaN(c.Training.TestSize) || c.Training.TestSize < 0 || c.Training.TestSize >= 1 {
		return fmt.Errorf("TRAINING_TEST_SIZE must be in [0, 1)")
	}
	if c.Training.MinSamples < 0 {
		return fmt.Errorf("TRAINING_MIN_SAMPLES must not be negative")
	}
	if c.Training.Timeout <= 0 {
		return fmt.Errorf("TRAINING_TIMEOUT must be positive")
	}
	if c.Training.Interval < 0 {
		return fmt.Errorf("TRAINING_INTERVAL must not be negative")
	}
	return nil
}

func (c *Config) validateTrainingHyperparameters() error {
	if c.Training.K < 1 {
		return fmt.Errorf("TRAINING_K must be at least 1")
	}
	metric, err := algorithms.ParseMetric(c.Training.Metric)
	if err != nil {
		return fmt.Errorf("TRAINING_METRIC must be one of: euclidean, manhattan, minkowski")
	}
	if metric == algorithms.MetricMinkowski && !(c.Training.MinkowskiP >= 1) {
		return fmt.Errorf("TRAINING_MINKOWSKI_P must be at least 1 when TRAINING_METRIC=minkowski")
	}
	if _, err := algorithms.ParseWeighting(c.Training.Weighting); err != nil {
		return fmt.Errorf("TRAINING_WEIGHTING must be one of: uniform, distance")
	}
	if c.Training.SelectK < 0 {
		return fmt.Errorf("TRAINING_SELECT_K must not be negative")
	}
	return nil
}

// validateDataSource validates the settings of the selected source only
func (c *Config) validateDataSource() error {
	t, err := dataset.ParseType(c.DataSource.Type)
	if err != nil {
		return fmt.Errorf("DATASOURCE_TYPE must be one of: mongo, badger, file, synthetic")
	}

	switch t {
	case dataset.TypeMongo:
		if err := validateMongoURI(c.DataSource.MongoURI); err != nil {
			return err
		}
		if c.DataSource.MongoDatabase == "" {
			return fmt.Errorf("MONGO_DATABASE is required when DATASOURCE_TYPE=mongo")
		}
		if c.DataSource.MongoCollection == "" {
			return fmt.Errorf("MONGO_COLLECTION is required when DATASOURCE_TYPE=mongo")
		}
		if c.DataSource.MongoTimeout <= 0 {
			return fmt.Errorf("MONGO_TIMEOUT must be positive")
		}
	case dataset.TypeBadger:
		if c.DataSource.BadgerPath == "" {
			return fmt.Errorf("BADGER_PATH is required when DATASOURCE_TYPE=badger")
		}
	case dataset.TypeFile:
		if c.DataSource.FilePath == "" {
			return fmt.Errorf("DATASOURCE_FILE is required when DATASOURCE_TYPE=file")
		}
	case dataset.TypeSynthetic:
		if c.DataSource.SyntheticPerNiche < 1 {
			return fmt.Errorf("SYNTHETIC_PER_NICHE must be at least 1 when DATASOURCE_TYPE=synthetic")
		}
	}

	if c.DataSource.BreakerFailures < 1 {
		return fmt.Errorf("DATASOURCE_BREAKER_FAILURES must be at least 1")
	}
	if c.DataSource.BreakerTimeout <= 0 {
		return fmt.Errorf("DATASOURCE_BREAKER_TIMEOUT must be positive")
	}
	return nil
}

// validateMongoURI checks the scheme and host of a MongoDB connection string
func validateMongoURI(rawURI string) error {
	if rawURI == "" {
		return fmt.Errorf("MONGO_URI is required when DATASOURCE_TYPE=mongo")
	}
	u, err := url.Parse(rawURI)
	if err != nil {
		return fmt.Errorf("MONGO_URI is invalid: %w", err)
	}
	if u.Scheme != "mongodb" && u.Scheme != "mongodb+srv" {
		return fmt.Errorf("MONGO_URI must use the mongodb:// or mongodb+srv:// scheme")
	}
	if u.Host == "" {
		return fmt.Errorf("MONGO_URI must include a host")
	}
	return nil
}

// validatePrediction validates serving defaults and the prediction cache
func (c *Config) validatePrediction() error {
	th := c.Prediction.DefaultThreshold
	if math.IsNaN(th) || th < 0 || th > 1 {
		return fmt.Errorf("PREDICTION_DEFAULT_THRESHOLD must be in [0, 1]")
	}
	if c.Prediction.TopK < 1 {
		return fmt.Errorf("PREDICTION_TOP_K must be at least 1")
	}
	if !c.Prediction.CacheEnabled {
		return nil
	}
	if c.Prediction.CacheSize < 1 {
		return fmt.Errorf("PREDICTION_CACHE_SIZE must be at least 1 when the cache is enabled")
	}
	if c.Prediction.CacheTTL <= 0 {
		return fmt.Errorf("PREDICTION_CACHE_TTL must be positive when the cache is enabled")
	}
	return nil
}

var validEnvironments = map[string]bool{
	"development": true,
	"staging":     true,
	"production":  true,
}

var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}
