// NicheCompass - Entrepreneur Niche Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nichecompass

package config

import (
	"fmt"
	"time"

	"github.com/tomtom215/nichecompass/internal/logging"
	"github.com/tomtom215/nichecompass/internal/recommend"
	"github.com/tomtom215/nichecompass/internal/recommend/algorithms"
	"github.com/tomtom215/nichecompass/internal/recommend/dataset"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Security   SecurityConfig   `koanf:"security"`
	Logging    LoggingConfig    `koanf:"logging"`
	Model      ModelConfig      `koanf:"model"`
	Training   TrainingConfig   `koanf:"training"`
	DataSource DataSourceConfig `koanf:"datasource"`
	Prediction PredictionConfig `koanf:"prediction"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"` // "development", "staging" or "production"
}

// SecurityConfig holds CORS and request throttling settings
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`

	// RetrainCooldown is the minimum interval between accepted API retrain
	// requests. 0 disables the cooldown.
	// Default: 1m
	RetrainCooldown time.Duration `koanf:"retrain_cooldown"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	// Default: json
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	// Default: false
	Caller bool `koanf:"caller"`
}

// ModelConfig holds artifact store settings.
//
// Environment Variables:
//   - MODEL_DIR: Artifact directory (default: ./models)
//   - MODEL_NAME: Artifact name (default: niche_knn)
//   - MODEL_KEEP_VERSIONS: Versions kept after each training run, 0 keeps all (default: 5)
//   - MODEL_LOAD_ON_STARTUP: Load the latest artifact at startup (default: true)
type ModelConfig struct {
	Dir           string `koanf:"dir"`
	Name          string `koanf:"name"`
	KeepVersions  int    `koanf:"keep_versions"`
	LoadOnStartup bool   `koanf:"load_on_startup"`
}

// TrainingConfig holds classifier hyperparameters and training schedule.
//
// Environment Variables:
//   - TRAINING_K: Number of neighbors (default: 3)
//   - TRAINING_METRIC: euclidean, manhattan or minkowski (default: euclidean)
//   - TRAINING_MINKOWSKI_P: Minkowski exponent, used only with minkowski (default: 2)
//   - TRAINING_WEIGHTING: uniform or distance (default: uniform)
//   - TRAINING_SELECT_K: Features kept by ANOVA F selection, 0 keeps all (default: 0)
//   - TRAINING_TEST_SIZE: Stratified holdout fraction, 0 disables evaluation (default: 0.2)
//   - TRAINING_SEED: Holdout split seed (default: 42)
//   - TRAINING_MIN_SAMPLES: Minimum samples required to train (default: 10)
//   - TRAINING_TIMEOUT: Maximum duration of one training run (default: 30m)
//   - TRAINING_INTERVAL: Scheduled retrain interval, 0 disables (default: 24h)
//   - TRAINING_ON_STARTUP: Train once when the server starts (default: false)
type TrainingConfig struct {
	K          int           `koanf:"k"`
	Metric     string        `koanf:"metric"`
	MinkowskiP float64       `koanf:"minkowski_p"`
	Weighting  string        `koanf:"weighting"`
	SelectK    int           `koanf:"select_k"`
	TestSize   float64       `koanf:"test_size"`
	Seed       uint64        `koanf:"seed"`
	MinSamples int           `koanf:"min_samples"`
	Timeout    time.Duration `koanf:"timeout"`
	Interval   time.Duration `koanf:"interval"`
	OnStartup  bool          `koanf:"on_startup"`
}

// DataSourceConfig selects and configures the training data source.
//
// Environment Variables:
//   - DATASOURCE_TYPE: mongo, badger, file or synthetic (default: mongo)
//   - MONGO_URI: MongoDB connection string (default: mongodb://localhost:27017/)
//   - MONGO_DATABASE: Database name (default: compath)
//   - MONGO_COLLECTION: Collection name (default: training_data)
//   - MONGO_TIMEOUT: Per-operation timeout (default: 10s)
//   - BADGER_PATH: Embedded sample store directory (default: ./data/samples)
//   - DATASOURCE_FILE: JSON or YAML samples file
//   - SYNTHETIC_PER_NICHE: Generated samples per built-in niche (default: 20)
//   - DATASOURCE_BREAKER_FAILURES: Consecutive failures before the breaker opens (default: 3)
//   - DATASOURCE_BREAKER_TIMEOUT: Open-state duration (default: 30s)
type DataSourceConfig struct {
	Type              string        `koanf:"type"`
	MongoURI          string        `koanf:"mongo_uri"`
	MongoDatabase     string        `koanf:"mongo_database"`
	MongoCollection   string        `koanf:"mongo_collection"`
	MongoTimeout      time.Duration `koanf:"mongo_timeout"`
	BadgerPath        string        `koanf:"badger_path"`
	FilePath          string        `koanf:"file_path"`
	SyntheticPerNiche int           `koanf:"synthetic_per_niche"`
	BreakerFailures   uint32        `koanf:"breaker_failures"`
	BreakerTimeout    time.Duration `koanf:"breaker_timeout"`
}

// PredictionConfig holds serving defaults and the prediction cache.
type PredictionConfig struct {
	DefaultThreshold float64       `koanf:"default_threshold"`
	TopK             int           `koanf:"top_k"`
	CacheEnabled     bool          `koanf:"cache_enabled"`
	CacheSize        int           `koanf:"cache_size"`
	CacheTTL         time.Duration `koanf:"cache_ttl"`
}

// Load reads configuration with the following precedence (later sources
// override earlier ones):
//  1. Built-in defaults
//  2. Config file (CONFIG_PATH, or config.yaml in the working directory or /etc/nichecompass)
//  3. Environment variables
func Load() (*Config, error) {
	return LoadWithKoanf()
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// LoggingOptions converts the logging section for logging.Init.
func (c *Config) LoggingOptions() logging.Config {
	return logging.Config{
		Level:     c.Logging.Level,
		Format:    c.Logging.Format,
		Caller:    c.Logging.Caller,
		Timestamp: true,
	}
}

// Recommend builds the engine configuration from the model, training and
// prediction sections. It fails on unknown metric or weighting names.
func (c *Config) Recommend() (*recommend.Config, error) {
	metric, err := algorithms.ParseMetric(c.Training.Metric)
	if err != nil {
		return nil, fmt.Errorf("TRAINING_METRIC: %w", err)
	}
	weighting, err := algorithms.ParseWeighting(c.Training.Weighting)
	if err != nil {
		return nil, fmt.Errorf("TRAINING_WEIGHTING: %w", err)
	}

	rc := recommend.DefaultConfig()
	rc.ModelName = c.Model.Name
	rc.KNN = algorithms.KNNConfig{
		K:         c.Training.K,
		Metric:    metric,
		P:         c.Training.MinkowskiP,
		Weighting: weighting,
	}
	rc.SelectK = c.Training.SelectK
	rc.Training = recommend.TrainingConfig{
		Timeout:      c.Training.Timeout,
		TestSize:     c.Training.TestSize,
		Seed:         c.Training.Seed,
		MinSamples:   c.Training.MinSamples,
		KeepVersions: c.Model.KeepVersions,
	}
	rc.Serving = recommend.ServingConfig{
		DefaultThreshold: c.Prediction.DefaultThreshold,
		TopK:             c.Prediction.TopK,
	}
	rc.Cache = recommend.CacheConfig{
		Enabled: c.Prediction.CacheEnabled,
		Size:    c.Prediction.CacheSize,
		TTL:     c.Prediction.CacheTTL,
	}
	if err := rc.Validate(); err != nil {
		return nil, err
	}
	return rc, nil
}

// Mongo returns the MongoDB source settings.
func (c *Config) Mongo() dataset.MongoConfig {
	return dataset.MongoConfig{
		URI:        c.DataSource.MongoURI,
		Database:   c.DataSource.MongoDatabase,
		Collection: c.DataSource.MongoCollection,
		Timeout:    c.DataSource.MongoTimeout,
	}
}

// Breaker returns the circuit breaker settings for remote sources.
func (c *Config) Breaker() dataset.BreakerConfig {
	return dataset.BreakerConfig{
		ConsecutiveFailures: c.DataSource.BreakerFailures,
		Timeout:             c.DataSource.BreakerTimeout,
	}
}

// DataSourceOptions returns the dataset.Open options for the configured
// source type.
func (c *Config) DataSourceOptions() (dataset.Options, error) {
	t, err := dataset.ParseType(c.DataSource.Type)
	if err != nil {
		return dataset.Options{}, fmt.Errorf("DATASOURCE_TYPE: %w", err)
	}
	return dataset.Options{
		Type:       t,
		Mongo:      c.Mongo(),
		Breaker:    c.Breaker(),
		BadgerPath: c.DataSource.BadgerPath,
		FilePath:   c.DataSource.FilePath,
		PerNiche:   c.DataSource.SyntheticPerNiche,
		Seed:       c.Training.Seed,
	}, nil
}
