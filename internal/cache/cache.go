// NicheCompass - Entrepreneur Niche Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nichecompass

package cache

import (
	"encoding/binary"
	"math"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/tomtom215/nichecompass/internal/metrics"
)

// Key identifies a prediction request against one model version. Two
// requests share a key only when every vector component is bit-identical.
type Key struct {
	Version   int
	Threshold uint64
	TopK      int
	Vector    string
}

// NewKey builds the cache key for a prediction request.
func NewKey(version int, vector []float64, threshold float64, topK int) Key {
	buf := make([]byte, 8*len(vector))
	for i, v := range vector {
		binary.LittleEndian.PutUint64(buf[8*i:], math.Float64bits(v))
	}
	return Key{
		Version:   version,
		Threshold: math.Float64bits(threshold),
		TopK:      topK,
		Vector:    string(buf),
	}
}

// Stats tracks cache performance.
type Stats struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Entries   int
}

// PredictionCache is a size-bounded LRU with per-entry TTL. It is safe for
// concurrent use.
type PredictionCache[V any] struct {
	lru       *expirable.LRU[Key, V]
	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64
}

// NewPredictionCache creates a cache holding at most size entries, each
// expiring ttl after insertion. size <= 0 means 1024 entries.
//
//	c := cache.NewPredictionCache[*recommend.Prediction](1024, 5*time.Minute)
//	key := cache.NewKey(version, vec, threshold, topK)
//	if p, ok := c.Get(key); ok {
//	    return p, nil
//	}
func NewPredictionCache[V any](size int, ttl time.Duration) *PredictionCache[V] {
	if size <= 0 {
		size = 1024
	}
	c := &PredictionCache[V]{}
	c.lru = expirable.NewLRU[Key, V](size, func(Key, V) {
		c.evictions.Add(1)
		metrics.CacheEvictions.Inc()
	}, ttl)
	return c
}

// Get returns the cached value for key.
func (c *PredictionCache[V]) Get(key Key) (V, bool) {
	v, ok := c.lru.Get(key)
	if ok {
		c.hits.Add(1)
		metrics.CacheHits.Inc()
	} else {
		c.misses.Add(1)
		metrics.CacheMisses.Inc()
	}
	return v, ok
}

// Add stores value under key, evicting the least recently used entry when full.
func (c *PredictionCache[V]) Add(key Key, value V) {
	c.lru.Add(key, value)
	metrics.CacheSize.Set(float64(c.lru.Len()))
}

// Purge drops every entry. Called whenever the serving model changes.
func (c *PredictionCache[V]) Purge() {
	c.lru.Purge()
	metrics.CacheSize.Set(0)
}

// Len returns the number of live entries.
func (c *PredictionCache[V]) Len() int {
	return c.lru.Len()
}

// GetStats returns a snapshot of cache statistics.
func (c *PredictionCache[V]) GetStats() Stats {
	return Stats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
		Entries:   c.lru.Len(),
	}
}

// HitRate returns the cache hit rate as a percentage
func (c *PredictionCache[V]) HitRate() float64 {
	stats := c.GetStats()
	total := stats.Hits + stats.Misses
	if total == 0 {
		return 0.0
	}
	return float64(stats.Hits) / float64(total) * 100.0
}
