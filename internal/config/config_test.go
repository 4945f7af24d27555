// NicheCompass - Entrepreneur Niche Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nichecompass

package config

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/nichecompass/internal/recommend/algorithms"
	"github.com/tomtom215/nichecompass/internal/recommend/dataset"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"defaults", func(c *Config) {}, ""},
		{"port zero", func(c *Config) { c.Server.Port = 0 }, "HTTP_PORT"},
		{"port too high", func(c *Config) { c.Server.Port = 70000 }, "HTTP_PORT"},
		{"unknown environment", func(c *Config) { c.Server.Environment = "qa" }, "ENVIRONMENT"},
		{"wildcard cors in production", func(c *Config) {
			c.Server.Environment = "production"
			c.Security.CORSOrigins = []string{"*"}
		}, "CORS_ORIGINS"},
		{"wildcard cors in development", func(c *Config) { c.Security.CORSOrigins = []string{"*"} }, ""},
		{"rate limit zero", func(c *Config) { c.Security.RateLimitReqs = 0 }, "RATE_LIMIT_REQUESTS"},
		{"rate limit zero but disabled", func(c *Config) {
			c.Security.RateLimitReqs = 0
			c.Security.RateLimitDisabled = true
		}, ""},
		{"negative cooldown", func(c *Config) { c.Security.RetrainCooldown = -time.Second }, "RETRAIN_COOLDOWN"},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }, "LOG_LEVEL"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "LOG_FORMAT"},
		{"empty model dir", func(c *Config) { c.Model.Dir = " " }, "MODEL_DIR"},
		{"model name with slash", func(c *Config) { c.Model.Name = "a/b" }, "MODEL_NAME"},
		{"negative keep versions", func(c *Config) { c.Model.KeepVersions = -1 }, "MODEL_KEEP_VERSIONS"},
		{"k zero", func(c *Config) { c.Training.K = 0 }, "TRAINING_K must be at least 1"},
		{"unknown metric", func(c *Config) { c.Training.Metric = "cosine" }, "TRAINING_METRIC"},
		{"minkowski p below one", func(c *Config) {
			c.Training.Metric = "minkowski"
			c.Training.MinkowskiP = 0.5
		}, "TRAINING_MINKOWSKI_P"},
		{"p ignored for euclidean", func(c *Config) { c.Training.MinkowskiP = 0 }, ""},
		{"unknown weighting", func(c *Config) { c.Training.Weighting = "gaussian" }, "TRAINING_WEIGHTING"},
		{"negative select k", func(c *Config) { c.Training.SelectK = -1 }, "TRAINING_SELECT_K"},
		{"test size one", func(c *Config) { c.Training.TestSize = 1 }, "TRAINING_TEST_SIZE"},
		{"test size NaN", func(c *Config) { c.Training.TestSize = math.NaN() }, "TRAINING_TEST_SIZE"},
		{"zero timeout", func(c *Config) { c.Training.Timeout = 0 }, "TRAINING_TIMEOUT"},
		{"negative interval", func(c *Config) { c.Training.Interval = -time.Hour }, "TRAINING_INTERVAL"},
		{"unknown source", func(c *Config) { c.DataSource.Type = "postgres" }, "DATASOURCE_TYPE"},
		{"mongo bad scheme", func(c *Config) { c.DataSource.MongoURI = "http://localhost:27017" }, "MONGO_URI"},
		{"mongo no host", func(c *Config) { c.DataSource.MongoURI = "mongodb://" }, "MONGO_URI"},
		{"mongo srv", func(c *Config) { c.DataSource.MongoURI = "mongodb+srv://cluster.example.net/" }, ""},
		{"mongo uri ignored for synthetic", func(c *Config) {
			c.DataSource.Type = "synthetic"
			c.DataSource.MongoURI = ""
		}, ""},
		{"file without path", func(c *Config) { c.DataSource.Type = "file" }, "DATASOURCE_FILE"},
		{"badger without path", func(c *Config) {
			c.DataSource.Type = "badger"
			c.DataSource.BadgerPath = ""
		}, "BADGER_PATH"},
		{"synthetic zero per niche", func(c *Config) {
			c.DataSource.Type = "synthetic"
			c.DataSource.SyntheticPerNiche = 0
		}, "SYNTHETIC_PER_NICHE"},
		{"breaker zero failures", func(c *Config) { c.DataSource.BreakerFailures = 0 }, "DATASOURCE_BREAKER_FAILURES"},
		{"threshold above one", func(c *Config) { c.Prediction.DefaultThreshold = 1.5 }, "PREDICTION_DEFAULT_THRESHOLD"},
		{"threshold zero", func(c *Config) { c.Prediction.DefaultThreshold = 0 }, ""},
		{"top k zero", func(c *Config) { c.Prediction.TopK = 0 }, "PREDICTION_TOP_K"},
		{"cache size zero", func(c *Config) { c.Prediction.CacheSize = 0 }, "PREDICTION_CACHE_SIZE"},
		{"cache size zero but disabled", func(c *Config) {
			c.Prediction.CacheEnabled = false
			c.Prediction.CacheSize = 0
		}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()

			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() error = nil, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestRecommend(t *testing.T) {
	cfg := defaultConfig()
	cfg.Model.Name = "niche_test"
	cfg.Model.KeepVersions = 2
	cfg.Training.K = 5
	cfg.Training.Metric = "manhattan"
	cfg.Training.Weighting = "distance"
	cfg.Training.SelectK = 4
	cfg.Prediction.DefaultThreshold = 0.7
	cfg.Prediction.CacheEnabled = false

	rc, err := cfg.Recommend()
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}

	if rc.ModelName != "niche_test" {
		t.Errorf("ModelName = %q, want niche_test", rc.ModelName)
	}
	if rc.KNN.K != 5 || rc.KNN.Metric != algorithms.MetricManhattan || rc.KNN.Weighting != algorithms.WeightInverseDistance {
		t.Errorf("KNN = %+v, want k=5 manhattan distance", rc.KNN)
	}
	if rc.SelectK != 4 {
		t.Errorf("SelectK = %d, want 4", rc.SelectK)
	}
	if rc.Training.KeepVersions != 2 {
		t.Errorf("Training.KeepVersions = %d, want 2", rc.Training.KeepVersions)
	}
	if rc.Training.Seed != 42 || rc.Training.TestSize != 0.2 {
		t.Errorf("Training = %+v, want seed 42 test size 0.2", rc.Training)
	}
	if rc.Serving.DefaultThreshold != 0.7 || rc.Serving.TopK != 5 {
		t.Errorf("Serving = %+v, want threshold 0.7 top k 5", rc.Serving)
	}
	if rc.Cache.Enabled {
		t.Error("Cache.Enabled = true, want false")
	}
}

func TestRecommend_UnknownMetric(t *testing.T) {
	cfg := defaultConfig()
	cfg.Training.Metric = "cosine"

	if _, err := cfg.Recommend(); err == nil || !strings.Contains(err.Error(), "TRAINING_METRIC") {
		t.Errorf("Recommend() error = %v, want TRAINING_METRIC error", err)
	}
}

func TestSourceOptions(t *testing.T) {
	cfg := defaultConfig()

	mongo := cfg.Mongo()
	if mongo.URI != cfg.DataSource.MongoURI || mongo.Database != "compath" || mongo.Collection != "training_data" {
		t.Errorf("Mongo() = %+v", mongo)
	}
	if mongo.Timeout != 10*time.Second {
		t.Errorf("Mongo().Timeout = %v, want 10s", mongo.Timeout)
	}

	breaker := cfg.Breaker()
	if breaker.ConsecutiveFailures != 3 || breaker.Timeout != 30*time.Second {
		t.Errorf("Breaker() = %+v, want 3 failures 30s", breaker)
	}

	if got := cfg.Addr(); got != "0.0.0.0:8000" {
		t.Errorf("Addr() = %q, want 0.0.0.0:8000", got)
	}

	logOpts := cfg.LoggingOptions()
	if logOpts.Level != "info" || logOpts.Format != "json" || !logOpts.Timestamp {
		t.Errorf("LoggingOptions() = %+v", logOpts)
	}
}

func TestDataSourceOptions(t *testing.T) {
	cfg := defaultConfig()
	cfg.DataSource.Type = "Synthetic"
	cfg.DataSource.SyntheticPerNiche = 4
	cfg.Training.Seed = 9

	opts, err := cfg.DataSourceOptions()
	if err != nil {
		t.Fatalf("DataSourceOptions() error = %v", err)
	}
	if opts.Type != dataset.TypeSynthetic || opts.PerNiche != 4 || opts.Seed != 9 {
		t.Errorf("DataSourceOptions() = %+v", opts)
	}
	if opts.Mongo.Database != "compath" {
		t.Errorf("DataSourceOptions().Mongo.Database = %q, want compath", opts.Mongo.Database)
	}

	cfg.DataSource.Type = "postgres"
	if _, err := cfg.DataSourceOptions(); err == nil || !strings.Contains(err.Error(), "DATASOURCE_TYPE") {
		t.Errorf("DataSourceOptions() error = %v, want DATASOURCE_TYPE error", err)
	}
}
