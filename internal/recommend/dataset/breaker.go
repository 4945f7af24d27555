// NicheCompass - Entrepreneur Niche Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nichecompass

package dataset

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/nichecompass/internal/logging"
	"github.com/tomtom215/nichecompass/internal/metrics"
	"github.com/tomtom215/nichecompass/internal/recommend/feature"
)

// BreakerConfig configures a BreakerSource.
type BreakerConfig struct {
	// ConsecutiveFailures opens the circuit. Default: 3
	ConsecutiveFailures uint32
	// Timeout is how long the circuit stays open before a probe. Default: 30s
	Timeout time.Duration
}

// BreakerSource wraps a Source with a circuit breaker. While the circuit is
// open, Samples fails immediately with gobreaker.ErrOpenState.
type BreakerSource struct {
	source Source
	cb     *gobreaker.CircuitBreaker[[]feature.Sample]
	name   string
}

// NewBreakerSource wraps source. Context cancellation is not counted as a
// source failure.
func NewBreakerSource(source Source, cfg BreakerConfig) *BreakerSource {
	if cfg.ConsecutiveFailures == 0 {
		cfg.ConsecutiveFailures = 3
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	name := "datasource-" + source.Name()
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[[]feature.Sample](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.ConsecutiveFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("[CIRCUIT BREAKER] State transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
	})

	return &BreakerSource{source: source, cb: cb, name: name}
}

// Name reports the wrapped source's name.
func (b *BreakerSource) Name() string {
	return b.source.Name()
}

// Samples implements Source.
func (b *BreakerSource) Samples(ctx context.Context) ([]feature.Sample, error) {
	samples, err := b.cb.Execute(func() ([]feature.Sample, error) {
		return b.source.Samples(ctx)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(b.name, "rejected").Inc()
		} else {
			metrics.CircuitBreakerRequests.WithLabelValues(b.name, "failure").Inc()
			metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(b.name).Set(float64(b.cb.Counts().ConsecutiveFailures))
		}
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(b.name).Set(0)
	return samples, nil
}

// Write forwards to the wrapped source when it is a Writer.
func (b *BreakerSource) Write(ctx context.Context, samples []feature.Sample) (int, error) {
	w, ok := b.source.(Writer)
	if !ok {
		return 0, errors.New("datasource " + b.source.Name() + " is read-only")
	}
	return w.Write(ctx, samples)
}

// State returns the breaker state.
func (b *BreakerSource) State() gobreaker.State {
	return b.cb.State()
}

// Unwrap returns the wrapped source.
func (b *BreakerSource) Unwrap() Source {
	return b.source
}

// stateToFloat converts circuit breaker state to numeric value for metrics
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
