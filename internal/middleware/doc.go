// NicheCompass - Entrepreneur Niche Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nichecompass

/*
Package middleware provides HTTP middleware components for the API.

Key Components:

  - RequestID: X-Request-ID propagation into the logging context
  - PrometheusMetrics: request count, latency and in-flight gauge

Both are http.HandlerFunc decorators; the api package adapts them to chi's
func(http.Handler) http.Handler form:

	r.Use(chiMiddleware(middleware.RequestID))
	r.Use(chiMiddleware(middleware.PrometheusMetrics))

Metrics are labeled by chi route pattern so that /api/v1/model/versions and
unknown paths do not create unbounded label sets. Requests that match no
route are labeled "unmatched".

Request IDs from upstream proxies are reused when they are printable ASCII of
at most 128 bytes; otherwise a UUID v4 is generated. The ID is stored as both
request_id and correlation_id so logging.Ctx(ctx) tags every log line of the
request.
*/
package middleware
