// NicheCompass - Entrepreneur Niche Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nichecompass

package dataset

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/tomtom215/nichecompass/internal/recommend/feature"
)

// MongoConfig locates the training collection.
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
	Timeout    time.Duration
}

// DefaultMongoConfig returns the conventional local deployment settings.
func DefaultMongoConfig() MongoConfig {
	return MongoConfig{
		URI:        "mongodb://localhost:27017/",
		Database:   "compath",
		Collection: "training_data",
		Timeout:    10 * time.Second,
	}
}

// mongoSample is the stored document shape: {features: [...], label: "..."}.
type mongoSample struct {
	Features []float64 `bson:"features"`
	Label    string    `bson:"label"`
}

// MongoSource reads samples from a MongoDB collection.
type MongoSource struct {
	collection *mongo.Collection
	timeout    time.Duration
}

// NewMongoSource connects, verifies the connection with a ping, and returns
// a source over cfg.Database/cfg.Collection.
func NewMongoSource(ctx context.Context, cfg MongoConfig) (*MongoSource, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(cfg.Timeout).
		SetServerSelectionTimeout(cfg.Timeout)
	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background()) //nolint:errcheck // already failing
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	return NewMongoSourceFromCollection(client.Database(cfg.Database).Collection(cfg.Collection), cfg.Timeout), nil
}

// NewMongoSourceFromCollection wraps an already configured collection.
func NewMongoSourceFromCollection(collection *mongo.Collection, timeout time.Duration) *MongoSource {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &MongoSource{collection: collection, timeout: timeout}
}

// Name implements Source.
func (m *MongoSource) Name() string {
	return "mongo"
}

// Samples returns every document with an array "features" and a string
// "label", in insertion (_id) order. Documents with empty feature arrays
// are skipped.
func (m *MongoSource) Samples(ctx context.Context) ([]feature.Sample, error) {
	filter := bson.M{
		"features": bson.M{"$type": "array"},
		"label":    bson.M{"$type": "string"},
	}
	opts := options.Find().
		SetProjection(bson.M{"_id": 0, "features": 1, "label": 1}).
		SetSort(bson.D{{Key: "_id", Value: 1}})

	cur, err := m.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find training samples: %w", err)
	}
	defer cur.Close(ctx) //nolint:errcheck // cursor close error is not actionable

	var samples []feature.Sample
	for cur.Next(ctx) {
		var doc mongoSample
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode training sample: %w", err)
		}
		if len(doc.Features) == 0 || doc.Label == "" {
			continue
		}
		samples = append(samples, feature.Sample{Features: doc.Features, Label: doc.Label})
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate training samples: %w", err)
	}

	return samples, nil
}

// Write inserts samples as new documents.
func (m *MongoSource) Write(ctx context.Context, samples []feature.Sample) (int, error) {
	if len(samples) == 0 {
		return 0, nil
	}
	docs := make([]mongoSample, len(samples))
	for i := range samples {
		docs[i] = mongoSample{Features: samples[i].Features, Label: samples[i].Label}
	}
	res, err := m.collection.InsertMany(ctx, docs)
	if err != nil {
		return 0, fmt.Errorf("insert training samples: %w", err)
	}
	return len(res.InsertedIDs), nil
}

// Clear removes every document from the collection.
func (m *MongoSource) Clear(ctx context.Context) (int64, error) {
	res, err := m.collection.DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("clear training samples: %w", err)
	}
	return res.DeletedCount, nil
}

// Count returns the number of documents in the collection.
func (m *MongoSource) Count(ctx context.Context) (int64, error) {
	return m.collection.CountDocuments(ctx, bson.M{})
}

// Health pings the server.
func (m *MongoSource) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()
	return m.collection.Database().Client().Ping(ctx, nil)
}

// Close disconnects the client.
func (m *MongoSource) Close(ctx context.Context) error {
	return m.collection.Database().Client().Disconnect(ctx)
}
