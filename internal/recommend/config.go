// NicheCompass - Entrepreneur Niche Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nichecompass

package recommend

import (
	"fmt"
	"math"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/nichecompass/internal/recommend/algorithms"
)

// DefaultModelName is the artifact name used when none is configured.
const DefaultModelName = "niche_knn"

// Config contains all configuration for the recommendation engine.
type Config struct {
	// ModelName names the artifacts in the store.
	// Default: "niche_knn".
	ModelName string `json:"model_name"`

	// KNN contains the classifier hyperparameters.
	KNN algorithms.KNNConfig `json:"knn"`

	// SelectK is the number of features kept by ANOVA F selection.
	// 0 keeps every feature.
	SelectK int `json:"select_k"`

	// Training contains training run parameters.
	Training TrainingConfig `json:"training"`

	// Serving contains prediction defaults.
	Serving ServingConfig `json:"serving"`

	// Cache contains prediction cache parameters.
	Cache CacheConfig `json:"cache"`
}

// TrainingConfig contains training run parameters.
type TrainingConfig struct {
	// Timeout is the maximum time allowed for a training run.
	// Default: 30m.
	Timeout time.Duration `json:"timeout"`

	// TestSize is the stratified holdout fraction used for evaluation.
	// 0 disables evaluation.
	// Default: 0.2.
	TestSize float64 `json:"test_size"`

	// Seed makes the holdout split reproducible.
	// Default: 42.
	Seed uint64 `json:"seed"`

	// MinSamples is the minimum number of samples required to train.
	// Default: 10.
	MinSamples int `json:"min_samples"`

	// KeepVersions is the number of artifact versions retained after a
	// successful run. 0 keeps all.
	// Default: 5.
	KeepVersions int `json:"keep_versions"`
}

// ServingConfig contains prediction defaults.
type ServingConfig struct {
	// DefaultThreshold is the confidence threshold used when a request
	// does not supply one.
	// Default: 0.6.
	DefaultThreshold float64 `json:"default_threshold"`

	// TopK is the default number of ranked recommendations.
	// Default: 5.
	TopK int `json:"top_k"`
}

// CacheConfig contains prediction cache parameters.
type CacheConfig struct {
	// Enabled controls whether identical requests are served from memory.
	// Default: true.
	Enabled bool `json:"enabled"`

	// Size is the maximum number of cached predictions.
	// Default: 1024.
	Size int `json:"size"`

	// TTL is the cache entry time-to-live.
	// Default: 5m.
	TTL time.Duration `json:"ttl"`
}

// DefaultConfig returns a Config with sensible production defaults.
func DefaultConfig() *Config {
	return &Config{
		ModelName: DefaultModelName,
		KNN:       algorithms.DefaultKNNConfig(),
		SelectK:   0,
		Training: TrainingConfig{
			Timeout:      30 * time.Minute,
			TestSize:     0.2,
			Seed:         42,
			MinSamples:   10,
			KeepVersions: 5,
		},
		Serving: ServingConfig{
			DefaultThreshold: 0.6,
			TopK:             5,
		},
		Cache: CacheConfig{
			Enabled: true,
			Size:    1024,
			TTL:     5 * time.Minute,
		},
	}
}

// Validate checks the configuration for errors. The KNN hyperparameters
// are checked without a sample count; k against n is checked at fit time.
func (c *Config) Validate() error {
	if c.ModelName == "" {
		return fmt.Errorf("model_name must not be empty")
	}
	if err := c.KNN.Validate(0); err != nil {
		return err
	}
	if c.SelectK < 0 {
		return fmt.Errorf("select_k must be non-negative, got %d", c.SelectK)
	}

	if c.Training.Timeout <= 0 {
		return fmt.Errorf("training.timeout must be positive, got %v", c.Training.Timeout)
	}
	if math.IsNaN(c.Training.TestSize) || c.Training.TestSize < 0 || c.Training.TestSize >= 1 {
		return fmt.Errorf("training.test_size must be in [0, 1), got %f", c.Training.TestSize)
	}
	if c.Training.MinSamples < 0 {
		return fmt.Errorf("training.min_samples must be non-negative, got %d", c.Training.MinSamples)
	}
	if c.Training.KeepVersions < 0 {
		return fmt.Errorf("training.keep_versions must be non-negative, got %d", c.Training.KeepVersions)
	}

	if !ValidThreshold(c.Serving.DefaultThreshold) {
		return fmt.Errorf("serving.default_threshold must be in [0, 1], got %f", c.Serving.DefaultThreshold)
	}
	if c.Serving.TopK < 1 {
		return fmt.Errorf("serving.top_k must be positive, got %d", c.Serving.TopK)
	}

	if c.Cache.Enabled {
		if c.Cache.Size < 1 {
			return fmt.Errorf("cache.size must be positive, got %d", c.Cache.Size)
		}
		if c.Cache.TTL <= 0 {
			return fmt.Errorf("cache.ttl must be positive, got %v", c.Cache.TTL)
		}
	}

	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	// All nested structs contain only value types.
	clone := *c
	return &clone
}

// MarshalJSON renders durations as strings.
func (c *Config) MarshalJSON() ([]byte, error) {
	type Alias Config
	type training struct {
		Timeout      string  `json:"timeout"`
		TestSize     float64 `json:"test_size"`
		Seed         uint64  `json:"seed"`
		MinSamples   int     `json:"min_samples"`
		KeepVersions int     `json:"keep_versions"`
	}
	type cacheConfig struct {
		Enabled bool   `json:"enabled"`
		Size    int    `json:"size"`
		TTL     string `json:"ttl"`
	}
	return json.Marshal(&struct {
		*Alias
		Training training    `json:"training"`
		Cache    cacheConfig `json:"cache"`
	}{
		Alias: (*Alias)(c),
		Training: training{
			Timeout:      c.Training.Timeout.String(),
			TestSize:     c.Training.TestSize,
			Seed:         c.Training.Seed,
			MinSamples:   c.Training.MinSamples,
			KeepVersions: c.Training.KeepVersions,
		},
		Cache: cacheConfig{
			Enabled: c.Cache.Enabled,
			Size:    c.Cache.Size,
			TTL:     c.Cache.TTL.String(),
		},
	})
}
