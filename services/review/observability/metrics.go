// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package observability provides Prometheus instrumentation for the
// review service.
//
// # Description
//
// Metrics cover the request surface (counts and analysis latency by
// endpoint), the findings themselves (issues by severity and rule), the
// rewrite collaborator (outcome counts), and the in-memory state that
// grows over a process lifetime (session log size, live connections).
//
// # Integration
//
// Metrics are exposed via the /metrics endpoint. Use with Prometheus +
// Grafana for dashboards and alerting.
//
// # Thread Safety
//
// All metric operations are thread-safe via Prometheus's internal locking.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// =============================================================================
// Metric Definitions
// =============================================================================

// Namespace for all metrics
const metricsNamespace = "aleutian"

// Subsystem for review metrics
const reviewSubsystem = "review"

// Metrics holds all Prometheus metrics for review operations.
//
// # Description
//
// Initialize once at startup via InitMetrics(). Every helper method is
// safe on a nil receiver, so components constructed without metrics
// simply record nothing.
//
// # Thread Safety
//
// All operations are thread-safe.
type Metrics struct {
	// RequestsTotal counts review requests by endpoint and status.
	// Labels: endpoint (review, files, live), status (success, error)
	RequestsTotal *prometheus.CounterVec

	// AnalysisDurationSeconds measures rule evaluation latency.
	// Labels: endpoint (review, files, live)
	AnalysisDurationSeconds *prometheus.HistogramVec

	// IssuesFoundTotal counts reported issues.
	// Labels: severity (warning, suggestion), rule (issue title)
	IssuesFoundTotal *prometheus.CounterVec

	// RewritesTotal counts rewrite collaborator outcomes.
	// Labels: outcome (produced, failed, skipped)
	RewritesTotal *prometheus.CounterVec

	// SessionsLogged tracks the size of the in-memory session log.
	SessionsLogged prometheus.Gauge

	// ActiveLiveSessions tracks open live review connections.
	ActiveLiveSessions prometheus.Gauge
}

// DefaultMetrics is the singleton instance of Metrics.
// Initialized by InitMetrics().
var DefaultMetrics *Metrics

// InitMetrics initializes the default metrics instance.
//
// # Description
//
// Creates and registers all Prometheus metrics. Should be called once at
// application startup, after the Prometheus registry is available.
//
// # Outputs
//
//   - *Metrics: The initialized metrics instance.
//
// # Limitations
//
//   - Panics if called twice (duplicate registration).
func InitMetrics() *Metrics {
	DefaultMetrics = &Metrics{
		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: reviewSubsystem,
				Name:      "requests_total",
				Help:      "Total number of review requests by endpoint and status",
			},
			[]string{"endpoint", "status"},
		),

		AnalysisDurationSeconds: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: reviewSubsystem,
				Name:      "analysis_duration_seconds",
				Help:      "Rule evaluation latency in seconds",
				Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
			},
			[]string{"endpoint"},
		),

		IssuesFoundTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: reviewSubsystem,
				Name:      "issues_found_total",
				Help:      "Total issues reported by severity and rule",
			},
			[]string{"severity", "rule"},
		),

		RewritesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: reviewSubsystem,
				Name:      "rewrites_total",
				Help:      "Rewrite collaborator outcomes",
			},
			[]string{"outcome"},
		),

		SessionsLogged: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Subsystem: reviewSubsystem,
				Name:      "sessions_logged",
				Help:      "Number of sessions held in the in-memory log",
			},
		),

		ActiveLiveSessions: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Subsystem: reviewSubsystem,
				Name:      "active_live_sessions",
				Help:      "Number of open live review connections",
			},
		),
	}

	return DefaultMetrics
}

// =============================================================================
// Endpoint Names
// =============================================================================

// Endpoint represents a review endpoint for metrics labeling.
type Endpoint string

const (
	// EndpointReview is the single-submission review endpoint.
	EndpointReview Endpoint = "review"

	// EndpointFiles is the multipart upload review endpoint.
	EndpointFiles Endpoint = "files"

	// EndpointLive is the websocket live review endpoint.
	EndpointLive Endpoint = "live"
)

// =============================================================================
// Rewrite Outcomes
// =============================================================================

// RewriteOutcome categorizes one rewrite attempt for metrics.
type RewriteOutcome string

const (
	// RewriteProduced means the collaborator returned a usable suggestion.
	RewriteProduced RewriteOutcome = "produced"

	// RewriteFailed means the collaborator errored or returned nothing.
	RewriteFailed RewriteOutcome = "failed"

	// RewriteSkipped means no collaborator is configured.
	RewriteSkipped RewriteOutcome = "skipped"
)

// =============================================================================
// Helper Methods
// =============================================================================

// RecordRequest records a completed review request.
//
// # Inputs
//
//   - endpoint: The endpoint that handled the request.
//   - success: Whether the request completed successfully.
func (m *Metrics) RecordRequest(endpoint Endpoint, success bool) {
	if m == nil {
		return
	}
	status := "success"
	if !success {
		status = "error"
	}
	m.RequestsTotal.WithLabelValues(string(endpoint), status).Inc()
}

// RecordAnalysis records the latency of one rule evaluation pass.
//
// # Inputs
//
//   - endpoint: The endpoint the analysis ran for.
//   - seconds: Evaluation duration in seconds.
func (m *Metrics) RecordAnalysis(endpoint Endpoint, seconds float64) {
	if m == nil {
		return
	}
	m.AnalysisDurationSeconds.WithLabelValues(string(endpoint)).Observe(seconds)
}

// RecordIssue records one reported issue.
//
// # Inputs
//
//   - severity: The issue severity ("warning" or "suggestion").
//   - rule: The issue title, which identifies the rule.
func (m *Metrics) RecordIssue(severity, rule string) {
	if m == nil {
		return
	}
	m.IssuesFoundTotal.WithLabelValues(severity, rule).Inc()
}

// RecordRewrite records the outcome of one rewrite attempt.
//
// # Inputs
//
//   - outcome: What the collaborator produced.
func (m *Metrics) RecordRewrite(outcome RewriteOutcome) {
	if m == nil {
		return
	}
	m.RewritesTotal.WithLabelValues(string(outcome)).Inc()
}

// SetSessionsLogged updates the session log size gauge.
//
// # Inputs
//
//   - n: Current number of logged sessions.
func (m *Metrics) SetSessionsLogged(n int) {
	if m == nil {
		return
	}
	m.SessionsLogged.Set(float64(n))
}

// LiveSessionStarted increments the live connection gauge.
func (m *Metrics) LiveSessionStarted() {
	if m == nil {
		return
	}
	m.ActiveLiveSessions.Inc()
}

// LiveSessionEnded decrements the live connection gauge.
func (m *Metrics) LiveSessionEnded() {
	if m == nil {
		return
	}
	m.ActiveLiveSessions.Dec()
}
