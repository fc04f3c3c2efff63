// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command reviewd starts the Aleutian Review API server.
//
// Aleutian Review provides line-oriented lexical code review with:
//   - Deterministic per-line rules (TODO markers, line length, loose
//     equality, leftover debug statements)
//   - An in-memory session log of past reviews
//   - File upload and live websocket review surfaces
//   - Optional LLM-suggested rewrites riding on top of the analysis
//
// Usage:
//
//	go run ./cmd/reviewd
//	go run ./cmd/reviewd -port 9090
//
// With Ollama (for suggested rewrites):
//
//	LLM_BACKEND_TYPE=ollama OLLAMA_BASE_URL=http://localhost:11434 go run ./cmd/reviewd
//
// With OpenAI:
//
//	LLM_BACKEND_TYPE=openai OPENAI_API_KEY=sk-... go run ./cmd/reviewd
//
// Anthropic (claude) and local llama.cpp (local) backends are also
// supported; see services/llm for their environment variables.
//
// Example requests:
//
//	# Health check
//	curl http://localhost:8094/v1/review/health
//
//	# Review a submission
//	curl -X POST http://localhost:8094/v1/review \
//	  -H "Content-Type: application/json" \
//	  -d '{"code": "// TODO fix\nconsole.log(1)", "language": "javascript"}'
//
//	# List past sessions
//	curl http://localhost:8094/v1/review/sessions | jq
//
//	# Describe the active rules
//	curl http://localhost:8094/v1/review/rules | jq
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/AleutianAI/AleutianReview/pkg/logging"
	"github.com/AleutianAI/AleutianReview/pkg/telemetry"
	"github.com/AleutianAI/AleutianReview/services/llm"
	"github.com/AleutianAI/AleutianReview/services/review"
	"github.com/AleutianAI/AleutianReview/services/review/history"
	"github.com/AleutianAI/AleutianReview/services/review/observability"
	"github.com/AleutianAI/AleutianReview/services/review/rules"
)

const serviceName = "review-service"

func main() {
	port := flag.Int("port", getEnvInt("REVIEW_PORT", 8094), "Port to listen on")
	debug := flag.Bool("debug", false, "Enable debug mode")
	flag.Parse()

	// Set Gin mode
	if *debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup structured logging
	logger := logging.New(logging.Config{
		Level:   logging.ParseLevel(os.Getenv("LOG_LEVEL")),
		Service: "reviewd",
		JSON:    true,
		Output:  os.Stdout,
	})
	slog.SetDefault(logger.Slog())

	// --- Init the tracer ---
	cleanup, err := telemetry.InitTracer(serviceName)
	if err != nil {
		log.Fatalf("failed to setup the OTLP tracer: %v", err)
	}
	defer cleanup(context.Background())

	metrics := observability.InitMetrics()

	engine, err := rules.NewEngine()
	if err != nil {
		log.Fatalf("failed to compile the rule set: %v", err)
	}

	service := review.NewService(review.DefaultServiceConfig(), engine, history.NewSessionStore()).
		WithMetrics(metrics)

	rewriteEnabled := setupRewriter(service)

	handlers := review.NewHandlers(service).WithMetrics(metrics)

	// Setup router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(serviceName))
	if *debug {
		router.Use(gin.Logger())
	}

	v1 := router.Group("/v1")
	review.RegisterRoutes(v1, handlers)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Print startup banner
	printBanner(*port, rewriteEnabled)

	// Handle graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		slog.Info("Shutting down Aleutian Review server")
		os.Exit(0)
	}()

	// Start server
	addr := fmt.Sprintf(":%d", *port)
	slog.Info("Starting Aleutian Review server",
		slog.String("address", addr),
		slog.Int("rules", len(engine.Rules())),
		slog.Bool("rewrite_enabled", rewriteEnabled))
	if err := router.Run(addr); err != nil {
		slog.Error("Failed to start server", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// setupRewriter attaches the generative rewrite collaborator when a
// backend is configured.
//
// Returns true if rewriting is enabled. An unconfigured backend is a
// supported deployment, not a startup fault; anything else fatal-exits
// because a half-configured backend would fail every rewrite at runtime.
func setupRewriter(service *review.Service) bool {
	client, err := llm.NewClientFromEnv()
	if err != nil {
		if errors.Is(err, llm.ErrBackendNotConfigured) {
			slog.Info("No LLM backend configured, suggested rewrites disabled")
			slog.Info("Set LLM_BACKEND_TYPE to ollama or openai to enable rewrites")
			return false
		}
		log.Fatalf("failed to initialize the LLM client: %v", err)
	}

	service.WithRewriter(llm.NewRewriter(client))
	slog.Info("Rewrite collaborator enabled", slog.String("backend", os.Getenv("LLM_BACKEND_TYPE")))
	return true
}

func printBanner(port int, rewriteEnabled bool) {
	rewriteStatus := "DISABLED (set LLM_BACKEND_TYPE to enable)"
	if rewriteEnabled {
		rewriteStatus = "ENABLED"
	}

	banner := `
╔═══════════════════════════════════════════════════════════════════╗
║                      ALEUTIAN REVIEW SERVER                       ║
╠═══════════════════════════════════════════════════════════════════╣
║                                                                   ║
║  Line-oriented lexical code review with optional LLM rewrites.    ║
║  Rewrites: %-52s ║
║                                                                   ║
║  Quick Start:                                                     ║
║  ┌─────────────────────────────────────────────────────────────┐  ║
║  │ # Health check                                              │  ║
║  │ curl http://localhost:%d/v1/review/health                 │  ║
║  │                                                             │  ║
║  │ # Review a submission                                       │  ║
║  │ curl -X POST http://localhost:%d/v1/review \              │  ║
║  │   -H "Content-Type: application/json" \                     │  ║
║  │   -d '{"code": "// TODO fix", "language": "javascript"}'    │  ║
║  │                                                             │  ║
║  │ # List past review sessions                                 │  ║
║  │ curl http://localhost:%d/v1/review/sessions | jq          │  ║
║  └─────────────────────────────────────────────────────────────┘  ║
║                                                                   ║
║  Endpoints:                                                       ║
║  ├── Review: POST /v1/review, POST /v1/review/files              ║
║  ├── Live:   GET  /v1/review/live (websocket)                    ║
║  ├── Info:   /sessions, /rules, /languages                       ║
║  └── Ops:    /health, /ready, /metrics                           ║
║                                                                   ║
║  Press Ctrl+C to stop                                             ║
╚═══════════════════════════════════════════════════════════════════╝
`
	fmt.Printf(banner, rewriteStatus, port, port, port)
}

// getEnvInt returns the environment variable as int or a default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
