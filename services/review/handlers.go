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
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/AleutianAI/AleutianReview/services/review/observability"
)

// ServiceVersion is the review service version.
const ServiceVersion = "0.1.0"

// Handlers contains the HTTP handlers for the review service.
type Handlers struct {
	svc     *Service
	metrics *observability.Metrics
}

// NewHandlers creates handlers for the given service.
func NewHandlers(svc *Service) *Handlers {
	return &Handlers{svc: svc}
}

// WithMetrics attaches Prometheus instrumentation for the request surface.
func (h *Handlers) WithMetrics(metrics *observability.Metrics) *Handlers {
	h.metrics = metrics
	return h
}

// HandleReview handles POST /v1/review.
//
// Description:
//
//	Analyzes one submission against the rule set, records the outcome in
//	the session log, and, when a collaborator is configured, attaches a
//	suggested rewrite. A collaborator failure is absorbed; the response
//	is still 200 with the report, just without suggested_code.
//
// Request Body:
//
//	ReviewRequest
//
// Response:
//
//	200 OK: Report
//	400 Bad Request: Validation error naming the missing field(s)
func (h *Handlers) HandleReview(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleReview")

	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid request body", "error", err)
		h.metrics.RecordRequest(observability.EndpointReview, false)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: bindingErrorMessage(err),
			Code:  "INVALID_REQUEST",
		})
		return
	}

	report := h.svc.Review(c.Request.Context(), *req.Code, req.Language, ReviewOptions{
		WantRewrite:   true,
		RecordSession: true,
		Endpoint:      observability.EndpointReview,
	})

	logger.Info("Review completed",
		"language", req.Language,
		"total", report.Total,
		"warnings", report.Warnings,
		"suggestions", report.Suggestions,
		"rewrite_attached", report.SuggestedCode != "")
	h.metrics.RecordRequest(observability.EndpointReview, true)

	c.JSON(http.StatusOK, report)
}

// HandleSessions handles GET /v1/review/sessions.
//
// Description:
//
//	Returns the in-memory session log, most recent first. The log only
//	covers this process's lifetime.
//
// Query Parameters:
//
//	limit: optional cap on the number of sessions returned (default all)
//
// Response:
//
//	200 OK: SessionsResponse
//	400 Bad Request: Malformed limit
func (h *Handlers) HandleSessions(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleSessions")

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			logger.Warn("Invalid limit parameter", "limit", raw)
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error: "limit must be a non-negative integer",
				Code:  "INVALID_REQUEST",
			})
			return
		}
		limit = parsed
	}

	sessions := h.svc.Sessions(limit)

	logger.Info("Listed review sessions", "count", len(sessions))
	c.JSON(http.StatusOK, SessionsResponse{
		Sessions: sessions,
		Count:    len(sessions),
	})
}

// HandleRules handles GET /v1/review/rules.
//
// Description:
//
//	Describes the active rule set in evaluation order so clients can
//	explain findings without hardcoding rule knowledge.
//
// Response:
//
//	200 OK: RulesResponse
func (h *Handlers) HandleRules(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleRules")

	ruleSet := h.svc.RuleSet()

	logger.Info("Listed rules", "count", len(ruleSet))
	c.JSON(http.StatusOK, RulesResponse{
		Rules: ruleSet,
		Count: len(ruleSet),
	})
}

// HandleLanguages handles GET /v1/review/languages.
//
// Description:
//
//	Lists the language tags the service has dedicated knowledge of.
//	Submissions in other languages are still accepted; they just run
//	without the language-gated rules.
//
// Response:
//
//	200 OK: LanguagesResponse
func (h *Handlers) HandleLanguages(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleLanguages")

	languages := h.svc.Languages()

	logger.Info("Listed languages", "count", len(languages))
	c.JSON(http.StatusOK, LanguagesResponse{Languages: languages})
}

// HandleHealth handles GET /v1/review/health.
//
// Description:
//
//	Returns the liveness status of the service.
//
// Response:
//
//	200 OK: HealthResponse
func (h *Handlers) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:  "healthy",
		Version: ServiceVersion,
	})
}

// HandleReady handles GET /v1/review/ready.
//
// Description:
//
//	Returns the readiness status of the service. The rule engine compiles
//	at startup, so a running process with rules loaded is ready; the
//	response also reports whether rewriting is available.
//
// Response:
//
//	200 OK: ReadyResponse
func (h *Handlers) HandleReady(c *gin.Context) {
	c.JSON(http.StatusOK, ReadyResponse{
		Ready:          true,
		RuleCount:      len(h.svc.RuleSet()),
		RewriteEnabled: h.svc.RewriteEnabled(),
	})
}

// bindingErrorMessage turns a binding failure into a client-facing
// message. Validation failures name the missing fields; anything else
// (malformed JSON, wrong types) gets the generic message.
func bindingErrorMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "Invalid request body"
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, strings.ToLower(fe.Field()))
	}
	return "missing required field(s): " + strings.Join(fields, ", ")
}

// getOrCreateRequestID gets the request ID from the X-Request-ID header
// or creates a new one.
func getOrCreateRequestID(c *gin.Context) string {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Header("X-Request-ID", requestID)
	return requestID
}
