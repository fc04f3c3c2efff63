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
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/AleutianAI/AleutianReview/pkg/telemetry"
	"github.com/AleutianAI/AleutianReview/services/review/observability"
)

// liveRequest is one submission frame on the live review socket.
type liveRequest struct {
	Code     *string `json:"code"`
	Language string  `json:"language"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	// 1MB Read Buffer
	ReadBufferSize: 1024 * 1024,
	// 1MB Write Buffer
	WriteBufferSize: 1024 * 1024,
}

func sendJSON(ws *websocket.Conn, v interface{}) error {
	err := ws.WriteJSON(v)
	if err != nil {
		slog.Warn("Failed to write WebSocket JSON", "error", err)
	}
	return err
}

// HandleLiveReview handles GET /v1/review/live.
//
// Description:
//
//	Upgrades to a websocket and answers every {"code", "language"} frame
//	with a serialized Report. Live reviews never invoke the rewrite
//	collaborator and never touch the session log; the socket exists for
//	as-you-type feedback, not for the record. A malformed or incomplete
//	frame gets an error frame back and the connection stays open.
//
// Response frames:
//
//	Report: One per valid submission frame
//	ErrorResponse: One per malformed or incomplete frame
func (h *Handlers) HandleLiveReview(c *gin.Context) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Error("failed to upgrade the websocket", "error", err)
		return
	}
	defer ws.Close()

	connectionID := uuid.NewString()
	logger := telemetry.LoggerWithConnection(c.Request.Context(), slog.Default(), connectionID).
		With("handler", "HandleLiveReview")
	logger.Info("Live review client connected")

	h.metrics.LiveSessionStarted()
	defer h.metrics.LiveSessionEnded()

	for {
		var req liveRequest
		if err := ws.ReadJSON(&req); err != nil {
			// A frame that fails to decode leaves the connection usable;
			// anything else means the client is gone.
			var syntaxErr *json.SyntaxError
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
				logger.Warn("Malformed live review frame", "error", err)
				h.metrics.RecordRequest(observability.EndpointLive, false)
				if sendJSON(ws, ErrorResponse{
					Error:   "Invalid frame",
					Code:    "INVALID_REQUEST",
					Details: err.Error(),
				}) != nil {
					return
				}
				continue
			}
			logger.Info("Live review client disconnected", "error", err.Error())
			return
		}

		if req.Code == nil || req.Language == "" {
			logger.Warn("Incomplete live review frame")
			h.metrics.RecordRequest(observability.EndpointLive, false)
			if sendJSON(ws, ErrorResponse{
				Error: missingFrameFields(req),
				Code:  "INVALID_REQUEST",
			}) != nil {
				return
			}
			continue
		}

		report := h.svc.Review(c.Request.Context(), *req.Code, req.Language, ReviewOptions{
			Endpoint: observability.EndpointLive,
		})
		h.metrics.RecordRequest(observability.EndpointLive, true)

		if sendJSON(ws, report) != nil {
			return
		}
	}
}

// missingFrameFields names the absent fields of an incomplete frame,
// matching the HTTP boundary's validation message.
func missingFrameFields(req liveRequest) string {
	fields := make([]string, 0, 2)
	if req.Code == nil {
		fields = append(fields, "code")
	}
	if req.Language == "" {
		fields = append(fields, "language")
	}
	return "missing required field(s): " + strings.Join(fields, ", ")
}
