// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package review

import (
	"github.com/AleutianAI/AleutianReview/services/review/history"
	"github.com/AleutianAI/AleutianReview/services/review/rules"
)

// =============================================================================
// REQUESTS
// =============================================================================

// ReviewRequest is the request body for POST /v1/review.
type ReviewRequest struct {
	// Code is the source text to analyze. The field must be present but
	// the empty string is a valid submission; a pointer distinguishes
	// "absent" from "empty".
	Code *string `json:"code" binding:"required"`

	// Language is the language tag for the submission. Required and
	// non-empty, but any value is accepted; unrecognized tags only leave
	// language-gated rules dormant.
	Language string `json:"language" binding:"required"`
}

// =============================================================================
// REPORT
// =============================================================================

// Report is the complete result of one review.
//
// Total always equals len(Issues) and Warnings+Suggestions; Issues is
// never null in JSON, so clients can iterate without a nil check. Build
// reports through NewReport to keep those properties true.
type Report struct {
	// Warnings is the number of warning-severity issues.
	Warnings int `json:"warnings"`

	// Suggestions is the number of suggestion-severity issues.
	Suggestions int `json:"suggestions"`

	// Total is the number of issues found.
	Total int `json:"total"`

	// Issues lists every finding in line order, rule order within a line.
	Issues []rules.Issue `json:"issues"`

	// SuggestedCode is the collaborator's rewrite. Omitted entirely when
	// no rewrite was produced; absence is not an error.
	SuggestedCode string `json:"suggested_code,omitempty"`
}

// NewReport aggregates scan findings into a Report.
//
// A nil slice is normalized to an empty one so the JSON form is always
// "issues": [].
func NewReport(issues []rules.Issue) Report {
	if issues == nil {
		issues = []rules.Issue{}
	}
	report := Report{Issues: issues, Total: len(issues)}
	for _, issue := range issues {
		switch issue.Kind {
		case rules.SeverityWarning:
			report.Warnings++
		case rules.SeveritySuggestion:
			report.Suggestions++
		}
	}
	return report
}

// =============================================================================
// RESPONSES
// =============================================================================

// SessionsResponse is the response for GET /v1/review/sessions.
type SessionsResponse struct {
	// Sessions is the session log, most recent first.
	Sessions []history.SessionRecord `json:"sessions"`

	// Count is the number of sessions returned.
	Count int `json:"count"`
}

// RulesResponse is the response for GET /v1/review/rules.
type RulesResponse struct {
	// Rules describes the active rule set in evaluation order.
	Rules []rules.RuleInfo `json:"rules"`

	// Count is the number of active rules.
	Count int `json:"count"`
}

// LanguagesResponse is the response for GET /v1/review/languages.
type LanguagesResponse struct {
	// Languages lists the tags with dedicated rule or filename support.
	Languages []string `json:"languages"`
}

// FileReport is the analysis result for one uploaded file.
type FileReport struct {
	// Filename is the uploaded file's name as submitted.
	Filename string `json:"filename"`

	// Language is the tag the file was analyzed as.
	Language string `json:"language"`

	// Report is the analysis result.
	Report Report `json:"report"`
}

// FilesResponse is the response for POST /v1/review/files. Results keep
// the upload order regardless of analysis scheduling.
type FilesResponse struct {
	// Results holds one entry per uploaded file, in upload order.
	Results []FileReport `json:"results"`

	// Count is the number of files analyzed.
	Count int `json:"count"`
}

// HealthResponse is the response for GET /v1/review/health.
type HealthResponse struct {
	// Status is "healthy" or "degraded".
	Status string `json:"status"`

	// Version is the service version.
	Version string `json:"version"`
}

// ReadyResponse is the response for GET /v1/review/ready.
type ReadyResponse struct {
	// Ready is true if the service is ready to accept requests.
	Ready bool `json:"ready"`

	// RuleCount is the number of compiled rules.
	RuleCount int `json:"rule_count"`

	// RewriteEnabled is true if a rewrite collaborator is configured.
	RewriteEnabled bool `json:"rewrite_enabled"`
}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	// Error is the error message.
	Error string `json:"error"`

	// Code is the error code (optional).
	Code string `json:"code,omitempty"`

	// Details provides additional error context (optional).
	Details string `json:"details,omitempty"`
}
