// NicheCompass - Entrepreneur Niche Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nichecompass

package logging

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ModelEvent is a model lifecycle event.
type ModelEvent struct {
	// Event is the event type (e.g. "training_completed", "model_reloaded").
	Event string
	// RunID identifies the training run, if any.
	RunID string
	// Model is the artifact name.
	Model string
	// Version is the artifact version (0 when not applicable).
	Version int
	// Trigger is what caused the event: startup, schedule, api or cli.
	Trigger string
	// Success indicates if the operation was successful.
	Success bool
	// Error is the error message if the operation failed.
	Error string
	// Duration of the operation.
	Duration time.Duration
	// Details contains additional fields.
	Details map[string]string
}

// ModelLogger logs model lifecycle events with a fixed component field.
type ModelLogger struct {
	logger zerolog.Logger
}

// NewModelLoggerWithLogger creates a lifecycle logger on a custom logger.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewModelLoggerWithLogger(logger zerolog.Logger) *ModelLogger {
	return &ModelLogger{logger: logger.With().Str("component", "model").Logger()}
}

// LogEvent logs ev at info level on success and error level on failure.
func (l *ModelLogger) LogEvent(ev *ModelEvent) {
	var e *zerolog.Event
	if ev.Success {
		e = l.logger.Info().Str("status", "success")
	} else {
		e = l.logger.Error().Str("status", "failed")
	}
	e = e.Str("event", ev.Event)

	if ev.RunID != "" {
		e = e.Str("run_id", ev.RunID)
	}
	if ev.Model != "" {
		e = e.Str("model", ev.Model)
	}
	if ev.Version > 0 {
		e = e.Int("version", ev.Version)
	}
	if ev.Trigger != "" {
		e = e.Str("trigger", ev.Trigger)
	}
	if ev.Duration > 0 {
		e = e.Dur("duration", ev.Duration)
	}
	if ev.Error != "" && !ev.Success {
		e = e.Str("error", truncateString(ev.Error, 500))
	}
	for k, v := range ev.Details {
		e = e.Str(k, v)
	}

	e.Msg("")
}

// LogTrainingStarted logs the start of a training run.
func (l *ModelLogger) LogTrainingStarted(runID, model, trigger string) {
	l.LogEvent(&ModelEvent{
		Event:   "training_started",
		RunID:   runID,
		Model:   model,
		Trigger: trigger,
		Success: true,
	})
}

// LogTrainingCompleted logs a successful training run.
func (l *ModelLogger) LogTrainingCompleted(runID, model string, version int, duration time.Duration, details map[string]string) {
	l.LogEvent(&ModelEvent{
		Event:    "training_completed",
		RunID:    runID,
		Model:    model,
		Version:  version,
		Duration: duration,
		Success:  true,
		Details:  details,
	})
}

// LogTrainingFailed logs a failed training run.
func (l *ModelLogger) LogTrainingFailed(runID, model string, duration time.Duration, err error) {
	l.LogEvent(&ModelEvent{
		Event:    "training_failed",
		RunID:    runID,
		Model:    model,
		Duration: duration,
		Error:    errString(err),
	})
}

// LogModelReloaded logs an artifact reload.
func (l *ModelLogger) LogModelReloaded(model string, version int, err error) {
	l.LogEvent(&ModelEvent{
		Event:   "model_reloaded",
		Model:   model,
		Version: version,
		Success: err == nil,
		Error:   errString(err),
	})
}

// LogArtifactsPruned logs removal of old artifact versions.
func (l *ModelLogger) LogArtifactsPruned(model string, removed, kept int) {
	l.LogEvent(&ModelEvent{
		Event:   "artifacts_pruned",
		Model:   model,
		Success: true,
		Details: map[string]string{
			"removed": strconv.Itoa(removed),
			"kept":    strconv.Itoa(kept),
		},
	})
}

// RedactURI masks the password of a connection URI.
// Unparseable input is replaced entirely.
//
//	mongodb://user:secret@db:27017/ -> mongodb://user:***@db:27017/
func RedactURI(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "***"
	}
	if u.User == nil {
		return raw
	}
	if _, hasPassword := u.User.Password(); hasPassword {
		u.User = url.UserPassword(u.User.Username(), "***")
	}
	// url escapes '*' in userinfo.
	return strings.Replace(u.String(), "%2A%2A%2A", "***", 1)
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// truncateString truncates a string to a maximum length.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
