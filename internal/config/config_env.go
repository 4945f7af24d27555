// NicheCompass - Entrepreneur Niche Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nichecompass

package config

import "strings"

// envMappings maps lowercased environment variable names to koanf paths.
// Variables not listed here are ignored.
var envMappings = map[string]string{
	// Server mappings
	"http_port":        "server.port",
	"http_host":        "server.host",
	"http_timeout":     "server.timeout",
	"shutdown_timeout": "server.shutdown_timeout",
	"environment":      "server.environment",

	// Security mappings
	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"retrain_cooldown":    "security.retrain_cooldown",

	// Logging mappings
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Model store mappings
	"model_dir":             "model.dir",
	"model_name":            "model.name",
	"model_keep_versions":   "model.keep_versions",
	"model_load_on_startup": "model.load_on_startup",

	// Training mappings
	"training_k":           "training.k",
	"training_metric":      "training.metric",
	"training_minkowski_p": "training.minkowski_p",
	"training_weighting":   "training.weighting",
	"training_select_k":    "training.select_k",
	"training_test_size":   "training.test_size",
	"training_seed":        "training.seed",
	"training_min_samples": "training.min_samples",
	"training_timeout":     "training.timeout",
	"training_interval":    "training.interval",
	"training_on_startup":  "training.on_startup",

	// Data source mappings
	"datasource_type":             "datasource.type",
	"mongo_uri":                   "datasource.mongo_uri",
	"mongodb_uri":                 "datasource.mongo_uri",
	"mongo_database":              "datasource.mongo_database",
	"mongo_collection":            "datasource.mongo_collection",
	"mongo_timeout":               "datasource.mongo_timeout",
	"badger_path":                 "datasource.badger_path",
	"datasource_file":             "datasource.file_path",
	"synthetic_per_niche":         "datasource.synthetic_per_niche",
	"datasource_breaker_failures": "datasource.breaker_failures",
	"datasource_breaker_timeout":  "datasource.breaker_timeout",

	// Prediction mappings
	"prediction_default_threshold": "prediction.default_threshold",
	"prediction_top_k":             "prediction.top_k",
	"prediction_cache_enabled":     "prediction.cache_enabled",
	"prediction_cache_size":        "prediction.cache_size",
	"prediction_cache_ttl":         "prediction.cache_ttl",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - HTTP_PORT -> server.port
//   - TRAINING_K -> training.k
//   - MONGO_URI -> datasource.mongo_uri
//
// Unmapped keys return "" so koanf skips them.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
