// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package logging provides structured logging for the review binaries.
//
// The package wraps Go's standard slog with the two shapes the binaries
// need plus an export extension point:
//
//   - reviewd: JSON records on stdout for container log collection
//   - reviewctl: human-readable text on stderr, silenced unless verbose
//   - Enterprise: extensible via the LogExporter interface
//
// # Basic Usage
//
// For a CLI with stderr text output:
//
//	logger := logging.Default()
//	logger.Info("analyzing file", "path", path)
//	logger.Error("request failed", "error", err)
//
// For a service with JSON output and a level taken from the environment:
//
//	logger := logging.New(logging.Config{
//	    Level:   logging.ParseLevel(os.Getenv("LOG_LEVEL")),
//	    Service: "reviewd",
//	    JSON:    true,
//	    Output:  os.Stdout,
//	})
//	slog.SetDefault(logger.Slog())
//
// # Exporters
//
// Implement LogExporter to mirror entries into an external system
// (object storage, Loki, Datadog). The built-in implementations cover
// the common cases: NopExporter discards, BufferedExporter collects in
// memory for tests, WriterExporter emits JSON lines to an io.Writer.
//
// # Log Levels
//
// Four levels are supported, matching slog conventions:
//
//   - Debug: Development troubleshooting, verbose output
//   - Info: Normal operations (request start/end, state changes)
//   - Warn: Recoverable issues (retry attempts, degraded mode)
//   - Error: Operation failures (but system continues)
//
// # Thread Safety
//
// Logger is safe for concurrent use. The underlying slog.Logger is
// thread-safe and exporter state is protected by a mutex.
//
// # Security Considerations
//
// This package does NOT automatically redact sensitive data.
// Callers must ensure submitted code, tokens, and secrets are not
// logged:
//
//	// BAD: logs the user's code
//	logger.Info("review", "code", req.Code)
//
//	// GOOD: log metadata only
//	logger.Info("review", "code_bytes", len(req.Code))
package logging

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

// =============================================================================
// Log Levels
// =============================================================================

// Level represents log severity levels.
//
// Levels follow the slog convention and are ordered by severity:
// Debug < Info < Warn < Error
//
// Setting a minimum level filters out all logs below that level.
type Level int

const (
	// LevelDebug is for development troubleshooting.
	LevelDebug Level = iota

	// LevelInfo is for normal operational messages.
	LevelInfo

	// LevelWarn is for potentially problematic situations the system
	// can continue through.
	LevelWarn

	// LevelError is for failed operations.
	LevelError
)

// String returns the human-readable name of the level.
//
// Returns "DEBUG", "INFO", "WARN", "ERROR", or "UNKNOWN".
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// MarshalJSON encodes the level as its name, so exported entries carry
// "INFO" rather than an opaque integer.
func (l Level) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(l.String())), nil
}

// toSlogLevel converts our Level to slog.Level.
func (l Level) toSlogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ParseLevel parses a level name such as "debug" or "WARN".
//
// Matching is case-insensitive and tolerates surrounding whitespace.
// Empty or unrecognized input returns LevelInfo, so a missing LOG_LEVEL
// variable yields the production default.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// =============================================================================
// Configuration
// =============================================================================

// Config configures the Logger behavior.
//
// All fields have usable defaults. A zero-value Config creates a logger
// that writes Info+ messages to stderr in text format.
type Config struct {
	// Level sets the minimum log level.
	//
	// Messages below this level are discarded.
	// Default: LevelInfo
	Level Level

	// Service identifies the component generating logs.
	//
	// When set, the value is included in every record as the "service"
	// attribute so aggregated logs can be filtered by component.
	//
	// Recommended values: "reviewd", "reviewctl"
	// Default: "" (no service attribute)
	Service string

	// JSON enables JSON output format.
	//
	// When true, records are JSON objects (machine-parseable).
	// When false, records are human-readable text.
	//
	// Default: false (text format)
	JSON bool

	// Quiet discards handler output entirely.
	//
	// Entries still reach the Exporter when one is configured, so a
	// quiet CLI run can capture its logs without printing them.
	//
	// Default: false
	Quiet bool

	// Output is the destination for handler output.
	//
	// Default: nil (os.Stderr)
	Output io.Writer

	// Exporter is an optional extension for log export.
	//
	// When set, entries at or above Level are also sent to the exporter
	// asynchronously. Export failures are silently ignored so they
	// cannot disrupt normal logging.
	//
	// This is an extension point for AleutianEnterprise.
	// Default: nil (no export)
	Exporter LogExporter
}

// =============================================================================
// Enterprise Extension Interface
// =============================================================================

// LogExporter defines the interface for log export.
//
// Implementations can upload entries to cloud storage, send them to log
// aggregation systems, or forward them to collectors.
//
// # Implementation Requirements
//
//  1. Export should be non-blocking. Buffer entries internally and
//     flush in batches.
//
//  2. Handle backpressure gracefully. A full buffer should drop the
//     oldest entries rather than block.
//
//  3. Flush should send all buffered entries before returning. It is
//     called during graceful shutdown.
//
//  4. Close should release all resources. It is called after Flush.
//
// This is an extension point for AleutianEnterprise.
// The open source version ships NopExporter, BufferedExporter, and
// WriterExporter.
type LogExporter interface {
	// Export sends a log entry to the external system.
	//
	// Called asynchronously for each entry with a 1-second timeout on
	// ctx. Errors are logged nowhere and never propagated.
	Export(ctx context.Context, entry LogEntry) error

	// Flush ensures all buffered entries are sent.
	//
	// Called during graceful shutdown with a 5-second timeout on ctx.
	Flush(ctx context.Context) error

	// Close releases resources held by the exporter.
	Close() error
}

// LogEntry represents a structured log entry for export.
//
// It carries everything needed to reconstruct the record in the
// destination system.
type LogEntry struct {
	// Timestamp when the log was generated (local time)
	Timestamp time.Time `json:"timestamp"`

	// Level of the log (Debug, Info, Warn, Error)
	Level Level `json:"level"`

	// Message is the primary log message
	Message string `json:"message"`

	// Service identifies the component (from Config.Service)
	Service string `json:"service,omitempty"`

	// Attrs contains all key-value attributes
	Attrs map[string]any `json:"attrs,omitempty"`
}

// =============================================================================
// Logger
// =============================================================================

// Logger provides structured logging with an optional export path.
//
// Logger wraps slog.Logger with the exporter fan-out and proper cleanup
// via Close(). Use With() to create request-scoped children:
//
//	reqLogger := logger.With("request_id", reqID)
//	reqLogger.Info("processing request")
//
// Logger is safe for concurrent use from multiple goroutines.
type Logger struct {
	// slog is the underlying structured logger
	slog *slog.Logger

	// config stores the configuration for reference
	config Config

	// exporter is the optional log exporter
	exporter LogExporter

	// mu serializes Close
	mu sync.Mutex
}

// New creates a new Logger with the given configuration.
//
// The handler side is fixed at construction: discard when Quiet, JSON
// or text on config.Output (stderr when nil) otherwise. When Service is
// set it is attached to every record.
//
// Close() the returned Logger when an Exporter is configured so pending
// entries get flushed.
func New(config Config) *Logger {
	opts := &slog.HandlerOptions{
		Level: config.Level.toSlogLevel(),
	}

	output := config.Output
	if output == nil {
		output = os.Stderr
	}

	var handler slog.Handler
	switch {
	case config.Quiet:
		handler = slog.DiscardHandler
	case config.JSON:
		handler = slog.NewJSONHandler(output, opts)
	default:
		handler = slog.NewTextHandler(output, opts)
	}

	// Add service attribute to all records
	if config.Service != "" {
		handler = handler.WithAttrs([]slog.Attr{
			slog.String("service", config.Service),
		})
	}

	return &Logger{
		slog:     slog.New(handler),
		config:   config,
		exporter: config.Exporter,
	}
}

// Default returns a logger with default settings.
//
// The default configuration:
//   - Level: Info
//   - Output: stderr only
//   - Format: text (human-readable)
//   - Service: "review"
//
// Suitable for simple CLI paths that don't need export.
func Default() *Logger {
	return New(Config{
		Level:   LevelInfo,
		Service: "review",
	})
}

// Debug logs a message at Debug level.
func (l *Logger) Debug(msg string, args ...any) {
	l.log(LevelDebug, msg, args...)
}

// Info logs a message at Info level.
func (l *Logger) Info(msg string, args ...any) {
	l.log(LevelInfo, msg, args...)
}

// Warn logs a message at Warn level.
func (l *Logger) Warn(msg string, args ...any) {
	l.log(LevelWarn, msg, args...)
}

// Error logs a message at Error level.
func (l *Logger) Error(msg string, args ...any) {
	l.log(LevelError, msg, args...)
}

// With returns a new Logger with additional attributes.
//
// The returned logger includes all attributes from the parent plus the
// new ones. The parent logger is not modified.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{
		slog:     l.slog.With(args...),
		config:   l.config,
		exporter: l.exporter, // Share exporter
	}
}

// Slog returns the underlying slog.Logger.
//
// This provides direct access to slog features not exposed by the
// wrapper, and it is the value to hand slog.SetDefault in main.
// Records logged through the returned slog.Logger bypass the Exporter.
func (l *Logger) Slog() *slog.Logger {
	return l.slog
}

// Close flushes and closes the exporter.
//
// Always call Close when the logger has an Exporter configured:
//
//	logger := logging.New(config)
//	defer logger.Close()
//
// Returns the first error encountered during cleanup.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.exporter == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := l.exporter.Flush(ctx); err != nil {
		return fmt.Errorf("flush exporter: %w", err)
	}
	if err := l.exporter.Close(); err != nil {
		return fmt.Errorf("close exporter: %w", err)
	}
	return nil
}

// log writes to the handler and fans out to the exporter.
func (l *Logger) log(level Level, msg string, args ...any) {
	switch level {
	case LevelDebug:
		l.slog.Debug(msg, args...)
	case LevelInfo:
		l.slog.Info(msg, args...)
	case LevelWarn:
		l.slog.Warn(msg, args...)
	case LevelError:
		l.slog.Error(msg, args...)
	}

	if l.exporter != nil && level >= l.config.Level {
		entry := LogEntry{
			Timestamp: time.Now(),
			Level:     level,
			Message:   msg,
			Service:   l.config.Service,
			Attrs:     argsToMap(args),
		}
		// Async export to avoid blocking the log call
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			_ = l.exporter.Export(ctx, entry) // Errors are silently dropped
		}()
	}
}

// argsToMap converts slog-style key-value args to a map for
// LogEntry.Attrs. Keys that are not strings are skipped, along with a
// trailing dangling value.
func argsToMap(args []any) map[string]any {
	result := make(map[string]any)
	for i := 0; i < len(args)-1; i += 2 {
		if key, ok := args[i].(string); ok {
			result[key] = args[i+1]
		}
	}
	return result
}

// =============================================================================
// Built-in Exporters
// =============================================================================

// NopExporter is a no-op exporter that discards all entries.
//
// Useful for testing or when export is disabled.
type NopExporter struct{}

// Export discards the entry (no-op).
func (e *NopExporter) Export(ctx context.Context, entry LogEntry) error { return nil }

// Flush is a no-op.
func (e *NopExporter) Flush(ctx context.Context) error { return nil }

// Close is a no-op.
func (e *NopExporter) Close() error { return nil }

// Ensure NopExporter implements LogExporter
var _ LogExporter = (*NopExporter)(nil)

// BufferedExporter collects log entries in memory.
//
// Useful for testing to verify log output:
//
//	exporter := logging.NewBufferedExporter()
//	logger := logging.New(logging.Config{Quiet: true, Exporter: exporter})
//
//	logger.Info("test message", "key", "value")
//
//	entries := exporter.Entries()
type BufferedExporter struct {
	mu      sync.Mutex
	entries []LogEntry
}

// NewBufferedExporter creates a new BufferedExporter.
func NewBufferedExporter() *BufferedExporter {
	return &BufferedExporter{
		entries: make([]LogEntry, 0, 100),
	}
}

// Export adds the entry to the buffer.
func (e *BufferedExporter) Export(ctx context.Context, entry LogEntry) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.entries = append(e.entries, entry)
	return nil
}

// Flush is a no-op (entries are already in memory).
func (e *BufferedExporter) Flush(ctx context.Context) error { return nil }

// Close is a no-op.
func (e *BufferedExporter) Close() error { return nil }

// Entries returns a copy of all collected entries.
//
// The returned slice is a copy; modifications don't affect the
// exporter's internal buffer.
func (e *BufferedExporter) Entries() []LogEntry {
	e.mu.Lock()
	defer e.mu.Unlock()
	result := make([]LogEntry, len(e.entries))
	copy(result, e.entries)
	return result
}

// WriterExporter writes log entries to an io.Writer as JSON lines.
//
// Useful for directing a capture of the log stream to a file opened by
// the caller:
//
//	f, _ := os.Create(path)
//	exporter := logging.NewWriterExporter(f)
//	logger := logging.New(logging.Config{Exporter: exporter})
//
// The exporter does not own the writer; closing the file is the
// caller's job.
type WriterExporter struct {
	w  io.Writer
	mu sync.Mutex
}

// NewWriterExporter creates a new WriterExporter.
func NewWriterExporter(w io.Writer) *WriterExporter {
	return &WriterExporter{w: w}
}

// Export writes the entry to the writer as one JSON line.
func (e *WriterExporter) Export(ctx context.Context, entry LogEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	data = append(data, '\n')

	e.mu.Lock()
	defer e.mu.Unlock()
	_, err = e.w.Write(data)
	return err
}

// Flush is a no-op (writes are immediate).
func (e *WriterExporter) Flush(ctx context.Context) error { return nil }

// Close is a no-op (doesn't own the writer).
func (e *WriterExporter) Close() error { return nil }
