// NicheCompass - Entrepreneur Niche Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nichecompass

// Package testinfra provides test infrastructure for integration testing with containers.
//
// This package uses testcontainers-go to run a real MongoDB for the training
// data source tests. Every file carries the integration build tag:
//
//	go test -tags integration ./...
//
// # MongoDB Container
//
//	func TestMongoSource(t *testing.T) {
//	    testinfra.SkipIfNoDocker(t)
//	    ctx := context.Background()
//	    mongo, err := testinfra.NewMongoContainer(ctx)
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//	    defer testinfra.CleanupContainer(t, ctx, mongo.Container)
//
//	    src, err := dataset.NewMongoSource(ctx, dataset.MongoConfig{
//	        URI:        mongo.URI,
//	        Database:   "compath",
//	        Collection: "training_data",
//	    })
//	    // ...
//	}
//
// # CI Considerations
//
// Tests are skipped gracefully if Docker is unavailable. The first run pulls
// the mongo image; later runs use the cached image.
package testinfra
