// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package telemetry

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"go.opentelemetry.io/otel/trace"
)

func TestLoggerWithTrace_NoSpan(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	// No span in context
	result := LoggerWithTrace(context.Background(), logger)

	// Should return original logger (no trace fields added)
	result.Info("test message")
	output := buf.String()

	if strings.Contains(output, "trace_id") {
		t.Errorf("output should not contain trace_id when no span: %s", output)
	}
}

func TestLoggerWithTrace_NilContext(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	result := LoggerWithTrace(nil, logger)

	// Should return original logger
	result.Info("test message")
	output := buf.String()

	if !strings.Contains(output, "test message") {
		t.Errorf("output should contain message: %s", output)
	}
}

func TestLoggerWithTrace_NilLogger(t *testing.T) {
	result := LoggerWithTrace(context.Background(), nil)

	// Should return slog.Default() instead of panicking
	if result == nil {
		t.Error("result should not be nil")
	}
}

func TestLoggerWithTrace_WithSpan(t *testing.T) {
	// Build a valid span context by hand; no provider is needed for this.
	traceID := trace.TraceID{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f, 0x10}
	spanID := trace.SpanID{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}
	spanCtx := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	})

	ctx := trace.ContextWithSpanContext(context.Background(), spanCtx)

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	result := LoggerWithTrace(ctx, logger)
	result.Info("test message")

	output := buf.String()

	if !strings.Contains(output, "trace_id") {
		t.Errorf("output should contain trace_id: %s", output)
	}
	if !strings.Contains(output, "span_id") {
		t.Errorf("output should contain span_id: %s", output)
	}
	if !strings.Contains(output, traceID.String()) {
		t.Errorf("output should contain actual trace ID: %s", output)
	}
}

func TestLoggerWithConnection(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	result := LoggerWithConnection(context.Background(), logger, "abc123")
	result.Info("test message")

	output := buf.String()

	if !strings.Contains(output, `"connection_id":"abc123"`) {
		t.Errorf("output should contain connection_id field: %s", output)
	}
}

func TestGetEnvOr(t *testing.T) {
	t.Run("returns fallback when env not set", func(t *testing.T) {
		result := getEnvOr("TELEMETRY_TEST_NONEXISTENT_VAR_12345", "fallback")
		if result != "fallback" {
			t.Errorf("getEnvOr() = %q, want %q", result, "fallback")
		}
	})

	t.Run("returns env value when set", func(t *testing.T) {
		t.Setenv("TELEMETRY_TEST_VAR", "custom_value")
		result := getEnvOr("TELEMETRY_TEST_VAR", "fallback")
		if result != "custom_value" {
			t.Errorf("getEnvOr() = %q, want %q", result, "custom_value")
		}
	})
}
