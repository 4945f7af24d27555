// NicheCompass - Entrepreneur Niche Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nichecompass

/*
Package cache provides the prediction cache that sits in front of the
recommendation engine.

Predictions are pure functions of (model version, feature vector, threshold,
top-k), so identical requests against the same serving model can be answered
from memory. The cache is a size-bounded LRU with per-entry TTL built on
github.com/hashicorp/golang-lru/v2/expirable.

# Keys

NewKey encodes every vector component with math.Float64bits, so two requests
share an entry only when their inputs are bit-identical. The model version is
part of the key, and the engine calls Purge on every model swap so stale
versions do not occupy capacity.

# Usage Example

	c := cache.NewPredictionCache[*recommend.Prediction](1024, 5*time.Minute)

	key := cache.NewKey(version, vector, threshold, topK)
	if p, ok := c.Get(key); ok {
	    return p, nil
	}
	p := compute()
	c.Add(key, p)

# Metrics

Hits, misses, evictions and current size are exported through the
prediction_cache_* Prometheus series in internal/metrics. GetStats and
HitRate return the same counters for a single cache instance.

# Thread Safety

All methods are safe for concurrent use.
*/
package cache
