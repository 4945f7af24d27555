// NicheCompass - Entrepreneur Niche Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nichecompass

package logging

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestGenerateIDs(t *testing.T) {
	t.Parallel()

	rid := GenerateRequestID()
	if len(rid) != 36 {
		t.Errorf("GenerateRequestID() length = %d, want 36", len(rid))
	}
	if rid == GenerateRequestID() {
		t.Error("GenerateRequestID() returned the same ID twice")
	}
}

func TestContextIDs(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	if got := CorrelationIDFromContext(ctx); got != "" {
		t.Errorf("CorrelationIDFromContext(empty) = %q, want empty", got)
	}
	if got := RequestIDFromContext(ctx); got != "" {
		t.Errorf("RequestIDFromContext(empty) = %q, want empty", got)
	}

	ctx = ContextWithCorrelationID(ctx, "run-1234")
	ctx = ContextWithRequestID(ctx, "req-5678")
	if got := CorrelationIDFromContext(ctx); got != "run-1234" {
		t.Errorf("CorrelationIDFromContext() = %q, want run-1234", got)
	}
	if got := RequestIDFromContext(ctx); got != "req-5678" {
		t.Errorf("RequestIDFromContext() = %q, want req-5678", got)
	}

}

func TestCtx(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	ctx := ContextWithLogger(context.Background(), zerolog.New(&buf))
	ctx = ContextWithCorrelationID(ctx, "abc12345")
	ctx = ContextWithRequestID(ctx, "req-1")

	Ctx(ctx).Info().Msg("prediction served")

	output := buf.String()
	for _, want := range []string{`"correlation_id":"abc12345"`, `"request_id":"req-1"`, "prediction served"} {
		if !strings.Contains(output, want) {
			t.Errorf("Ctx() output missing %s: %s", want, output)
		}
	}
}

func TestCtxHelpers(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	ctx := ContextWithLogger(context.Background(), zerolog.New(&buf))
	ctx = ContextWithRequestID(ctx, "req-2")

	CtxInfo(ctx).Msg("info")
	CtxWarn(ctx).Msg("warn")
	CtxErr(ctx, errors.New("boom")).Msg("failed")

	output := buf.String()
	for _, want := range []string{`"level":"info"`, `"level":"warn"`, `"error":"boom"`} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %s: %s", want, output)
		}
	}
	if strings.Count(output, `"request_id":"req-2"`) != 3 {
		t.Errorf("expected request_id on every line: %s", output)
	}
}

func TestLoggerFromContext_Fallback(t *testing.T) {
	restoreGlobals(t)

	var buf bytes.Buffer
	setGlobalLogger(zerolog.New(&buf))

	logger := LoggerFromContext(context.Background())
	logger.Info().Msg("global")
	if !strings.Contains(buf.String(), "global") {
		t.Errorf("expected fallback to global logger: %s", buf.String())
	}
}

func TestWithComponent(t *testing.T) {
	restoreGlobals(t)

	var buf bytes.Buffer
	setGlobalLogger(zerolog.New(&buf))

	logger := WithComponent("engine")
	logger.Info().Msg("training")
	if !strings.Contains(buf.String(), `"component":"engine"`) {
		t.Errorf("expected component field: %s", buf.String())
	}
}
