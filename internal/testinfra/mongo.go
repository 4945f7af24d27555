// NicheCompass - Entrepreneur Niche Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nichecompass

//go:build integration

package testinfra

import (
	"context"
	"fmt"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	// DefaultMongoImage is the MongoDB image used for integration tests.
	DefaultMongoImage = "mongo:7"

	// DefaultMongoPort is the MongoDB wire protocol port.
	DefaultMongoPort = "27017"

	mongoStartTimeout = 60 * time.Second
)

// MongoContainer is a running MongoDB container.
type MongoContainer struct {
	testcontainers.Container
	// URI is a connection string reachable from the test process.
	URI string
}

// NewMongoContainer creates and starts a MongoDB container.
//
//	mongo, err := testinfra.NewMongoContainer(ctx)
//	if err != nil {
//	    t.Fatal(err)
//	}
//	defer testinfra.CleanupContainer(t, ctx, mongo.Container)
//
//	src, err := dataset.NewMongoSource(ctx, dataset.MongoConfig{URI: mongo.URI, ...})
func NewMongoContainer(ctx context.Context) (*MongoContainer, error) {
	req := testcontainers.ContainerRequest{
		Image:        DefaultMongoImage,
		ExposedPorts: []string{DefaultMongoPort + "/tcp"},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort(DefaultMongoPort+"/tcp"),
			wait.ForLog("Waiting for connections"),
		).WithStartupTimeout(mongoStartTimeout),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("create mongo container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get container host: %w", err)
	}
	port, err := container.MappedPort(ctx, DefaultMongoPort+"/tcp")
	if err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get mapped port: %w", err)
	}

	return &MongoContainer{
		Container: container,
		URI:       fmt.Sprintf("mongodb://%s:%s/", host, port.Port()),
	}, nil
}
