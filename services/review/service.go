// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package review provides the line-oriented code review HTTP service.
//
// The service exposes endpoints for:
//   - Analyzing a submission against the built-in rule set
//   - Listing past review sessions, most recent first
//   - Describing the active rules and supported language tags
//   - Reviewing uploaded files and live websocket submissions
//
// Analysis is deterministic and never fails; the generative rewrite is a
// best-effort extra riding on top of it.
package review

import (
	"context"
	"log/slog"
	"time"

	"github.com/AleutianAI/AleutianReview/pkg/telemetry"
	"github.com/AleutianAI/AleutianReview/pkg/validation"
	"github.com/AleutianAI/AleutianReview/services/review/history"
	"github.com/AleutianAI/AleutianReview/services/review/observability"
	"github.com/AleutianAI/AleutianReview/services/review/rules"
)

// ServiceConfig configures the review service.
type ServiceConfig struct {
	// MaxUploadFiles is the maximum number of files in one upload.
	// Default: 16
	MaxUploadFiles int

	// MaxUploadBytes is the maximum size of a single uploaded file.
	// Default: 1MB
	MaxUploadBytes int64

	// UploadConcurrency is how many uploaded files are analyzed in
	// parallel for one request.
	// Default: 4
	UploadConcurrency int
}

// DefaultServiceConfig returns sensible defaults.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		MaxUploadFiles:    16,
		MaxUploadBytes:    1024 * 1024, // 1MB
		UploadConcurrency: 4,
	}
}

// CodeRewriter produces a cleaned-up replacement for a submission.
//
// Implementations make exactly one attempt per call and report failure as
// an error; the service never retries and treats any error as "no
// rewrite". Implementations must be safe for concurrent use.
type CodeRewriter interface {
	RewriteCode(ctx context.Context, code, language string) (string, error)
}

// Service is the review service.
//
// Thread Safety:
//
//	Service is safe for concurrent use. The rule engine is immutable
//	after construction and the session store locks internally.
type Service struct {
	config   ServiceConfig
	engine   *rules.Engine
	sessions *history.SessionStore
	rewriter CodeRewriter
	metrics  *observability.Metrics
}

// NewService creates a review service with rewriting disabled.
func NewService(config ServiceConfig, engine *rules.Engine, sessions *history.SessionStore) *Service {
	return &Service{
		config:   config,
		engine:   engine,
		sessions: sessions,
	}
}

// WithRewriter enables the rewrite collaborator.
func (s *Service) WithRewriter(rewriter CodeRewriter) *Service {
	s.rewriter = rewriter
	return s
}

// WithMetrics attaches Prometheus instrumentation.
func (s *Service) WithMetrics(metrics *observability.Metrics) *Service {
	s.metrics = metrics
	return s
}

// Config returns the service configuration.
func (s *Service) Config() ServiceConfig {
	return s.config
}

// RewriteEnabled reports whether a rewrite collaborator is configured.
func (s *Service) RewriteEnabled() bool {
	return s.rewriter != nil
}

// ReviewOptions select the optional halves of a review.
type ReviewOptions struct {
	// WantRewrite asks the collaborator for a suggested rewrite. Ignored
	// when no collaborator is configured.
	WantRewrite bool

	// RecordSession appends the outcome to the session log.
	RecordSession bool

	// Endpoint labels the metrics emitted for this review.
	Endpoint observability.Endpoint
}

// Review runs the rule set over one submission.
//
// # Description
//
// Analysis always succeeds: the submission is split into lines and every
// rule inspects every line, whatever the language tag says. The session
// log is written right after analysis, before any rewrite attempt, so a
// slow collaborator cannot delay or lose the entry. The rewrite itself is
// one attempt with no retry; on failure the report simply carries no
// suggestion.
//
// # Inputs
//
//   - ctx: Carries cancellation and trace context into the collaborator.
//   - code: The submission. May be empty.
//   - language: The language tag. Any value is accepted.
//   - opts: Selects session logging, rewriting, and the metrics label.
//
// # Outputs
//
//   - Report: The aggregate findings, never an error.
func (s *Service) Review(ctx context.Context, code, language string, opts ReviewOptions) Report {
	start := time.Now()
	issues := s.engine.Scan(code, language)
	report := NewReport(issues)

	s.metrics.RecordAnalysis(opts.Endpoint, time.Since(start).Seconds())
	for _, issue := range issues {
		s.metrics.RecordIssue(issue.Kind.String(), issue.Title)
	}

	if opts.RecordSession {
		s.sessions.Record(history.SessionRecord{
			Language:    language,
			Total:       report.Total,
			Warnings:    report.Warnings,
			Suggestions: report.Suggestions,
		})
		s.metrics.SetSessionsLogged(s.sessions.Len())
	}

	if opts.WantRewrite {
		report.SuggestedCode = s.tryRewrite(ctx, code, language)
	}

	return report
}

// tryRewrite returns the collaborator's suggestion, or "" when there is
// nothing to offer.
func (s *Service) tryRewrite(ctx context.Context, code, language string) string {
	if s.rewriter == nil {
		s.metrics.RecordRewrite(observability.RewriteSkipped)
		return ""
	}

	suggestion, err := s.rewriter.RewriteCode(ctx, code, language)
	if err != nil {
		logger := telemetry.LoggerWithTrace(ctx, slog.Default())
		logger.Warn("Rewrite collaborator failed, returning report without a suggestion", "error", err)
		s.metrics.RecordRewrite(observability.RewriteFailed)
		return ""
	}

	s.metrics.RecordRewrite(observability.RewriteProduced)
	return suggestion
}

// Sessions returns the session log, most recent first. A limit of zero
// or less returns everything.
func (s *Service) Sessions(limit int) []history.SessionRecord {
	return s.sessions.Recent(limit)
}

// SessionCount returns the number of logged sessions.
func (s *Service) SessionCount() int {
	return s.sessions.Len()
}

// RuleSet describes the active rules in evaluation order.
func (s *Service) RuleSet() []rules.RuleInfo {
	return s.engine.Rules()
}

// Languages lists the language tags the service has dedicated knowledge
// of, in stable order.
func (s *Service) Languages() []string {
	return validation.KnownLanguages()
}
