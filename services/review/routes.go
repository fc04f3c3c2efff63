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
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all review routes with the router.
//
// Description:
//
//	Registers all /v1/review/* endpoints with the given Gin router group.
//	The router group should already have any required middleware applied.
//
// Inputs:
//
//	rg - Gin router group (typically /v1)
//	handlers - The handlers instance
//
// Endpoints:
//
//	POST /v1/review - Analyze one submission
//	GET  /v1/review/sessions - List review sessions, most recent first
//	GET  /v1/review/rules - Describe the active rule set
//	GET  /v1/review/languages - List known language tags
//	POST /v1/review/files - Analyze uploaded files
//	GET  /v1/review/live - Live review over a websocket
//
// Health Endpoints:
//
//	GET  /v1/review/health - Health check
//	GET  /v1/review/ready - Readiness check
//
// Example:
//
//	engine, _ := rules.NewEngine()
//	service := review.NewService(review.DefaultServiceConfig(), engine, history.NewSessionStore())
//	handlers := review.NewHandlers(service)
//
//	v1 := router.Group("/v1")
//	review.RegisterRoutes(v1, handlers)
func RegisterRoutes(rg *gin.RouterGroup, handlers *Handlers) {
	reviewGroup := rg.Group("/review")
	{
		// Analysis
		reviewGroup.POST("", handlers.HandleReview)
		reviewGroup.POST("/files", handlers.HandleReviewFiles)
		reviewGroup.GET("/live", handlers.HandleLiveReview)

		// Introspection
		reviewGroup.GET("/sessions", handlers.HandleSessions)
		reviewGroup.GET("/rules", handlers.HandleRules)
		reviewGroup.GET("/languages", handlers.HandleLanguages)

		// Health checks
		reviewGroup.GET("/health", handlers.HandleHealth)
		reviewGroup.GET("/ready", handlers.HandleReady)
	}
}
