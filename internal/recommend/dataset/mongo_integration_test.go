// NicheCompass - Entrepreneur Niche Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nichecompass

//go:build integration

package dataset

import (
	"context"
	"reflect"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/tomtom215/nichecompass/internal/testinfra"
)

func TestMongoSource_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	testinfra.SkipIfNoDocker(t)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	container, err := testinfra.NewMongoContainer(ctx)
	if err != nil {
		t.Fatalf("Failed to create MongoDB container: %v", err)
	}
	defer testinfra.CleanupContainer(t, ctx, container.Container)

	src, err := NewMongoSource(ctx, MongoConfig{
		URI:        container.URI,
		Database:   "compath",
		Collection: "training_data",
		Timeout:    30 * time.Second,
	})
	if err != nil {
		t.Fatalf("NewMongoSource() error = %v", err)
	}
	defer src.Close(ctx) //nolint:errcheck

	if err := src.Health(ctx); err != nil {
		t.Fatalf("Health() error = %v", err)
	}

	seed := Generate(3, 42)
	n, err := src.Write(ctx, seed)
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if n != len(seed) {
		t.Errorf("Write() = %d, want %d", n, len(seed))
	}

	// Documents without the expected shape are skipped.
	if _, err := src.collection.InsertMany(ctx, []any{
		bson.M{"features": "not-an-array", "label": "X"},
		bson.M{"features": bson.A{1.0, 2.0}},
		bson.M{"features": bson.A{}, "label": "Empty"},
	}); err != nil {
		t.Fatalf("InsertMany() error = %v", err)
	}

	got, err := src.Samples(ctx)
	if err != nil {
		t.Fatalf("Samples() error = %v", err)
	}
	if !reflect.DeepEqual(got, seed) {
		t.Errorf("Samples() returned %d samples, want the %d written in order", len(got), len(seed))
	}

	count, err := src.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != int64(len(seed)+3) {
		t.Errorf("Count() = %d, want %d", count, len(seed)+3)
	}

	breaker := NewBreakerSource(src, BreakerConfig{})
	viaBreaker, err := breaker.Samples(ctx)
	if err != nil {
		t.Fatalf("BreakerSource.Samples() error = %v", err)
	}
	if len(viaBreaker) != len(seed) {
		t.Errorf("BreakerSource.Samples() = %d, want %d", len(viaBreaker), len(seed))
	}

	if _, err := src.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	got, err = src.Samples(ctx)
	if err != nil {
		t.Fatalf("Samples() after Clear error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Samples() after Clear = %d, want 0", len(got))
	}
}
