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
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/AleutianAI/AleutianReview/pkg/validation"
	"github.com/AleutianAI/AleutianReview/services/review/observability"
)

// fallbackLanguage is the tag used when neither the form nor the
// filename says what a file is.
const fallbackLanguage = "plaintext"

// HandleReviewFiles handles POST /v1/review/files.
//
// Description:
//
//	Analyzes every file in a multipart upload. Files are read from the
//	"files" field; an optional "language" field forces one tag for the
//	whole batch, otherwise each file's tag is inferred from its
//	extension. Each file lands in the session log as its own session.
//	The rewrite collaborator is never invoked for uploads.
//
// Request Body:
//
//	multipart/form-data with one or more "files" parts
//
// Response:
//
//	200 OK: FilesResponse, results in upload order
//	400 Bad Request: Empty upload, too many files, or a file over the
//	size limit
func (h *Handlers) HandleReviewFiles(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleReviewFiles")

	form, err := c.MultipartForm()
	if err != nil {
		logger.Warn("Invalid multipart form", "error", err)
		h.metrics.RecordRequest(observability.EndpointFiles, false)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid multipart form",
			Code:    "INVALID_REQUEST",
			Details: err.Error(),
		})
		return
	}

	results, err := h.reviewUploads(c.Request.Context(), form.File["files"], c.PostForm("language"))
	if err != nil {
		statusCode := http.StatusInternalServerError
		errCode := "UPLOAD_FAILED"

		if errors.Is(err, ErrNoFiles) {
			statusCode = http.StatusBadRequest
			errCode = "NO_FILES"
		} else if errors.Is(err, ErrTooManyFiles) {
			statusCode = http.StatusBadRequest
			errCode = "TOO_MANY_FILES"
		} else if errors.Is(err, ErrFileTooLarge) {
			statusCode = http.StatusBadRequest
			errCode = "FILE_TOO_LARGE"
		}

		logger.Warn("Upload review rejected", "error", err)
		h.metrics.RecordRequest(observability.EndpointFiles, false)
		c.JSON(statusCode, ErrorResponse{
			Error: err.Error(),
			Code:  errCode,
		})
		return
	}

	logger.Info("Upload review completed", "files", len(results))
	h.metrics.RecordRequest(observability.EndpointFiles, true)

	c.JSON(http.StatusOK, FilesResponse{
		Results: results,
		Count:   len(results),
	})
}

// reviewUploads analyzes every uploaded file, bounded by the configured
// concurrency. Results keep upload order regardless of which file
// finishes first.
func (h *Handlers) reviewUploads(ctx context.Context, files []*multipart.FileHeader, languageOverride string) ([]FileReport, error) {
	cfg := h.svc.Config()

	if len(files) == 0 {
		return nil, ErrNoFiles
	}
	if len(files) > cfg.MaxUploadFiles {
		return nil, fmt.Errorf("%w: got %d, limit is %d", ErrTooManyFiles, len(files), cfg.MaxUploadFiles)
	}
	for _, fh := range files {
		if fh.Size > cfg.MaxUploadBytes {
			return nil, fmt.Errorf("%w: %s is %d bytes, limit is %d", ErrFileTooLarge, fh.Filename, fh.Size, cfg.MaxUploadBytes)
		}
	}

	results := make([]FileReport, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.UploadConcurrency)

	for i, fh := range files {
		g.Go(func() error {
			code, err := readUpload(fh)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", fh.Filename, err)
			}

			language := languageOverride
			if language == "" {
				language = validation.LanguageFromFilename(fh.Filename)
			}
			if language == "" {
				language = fallbackLanguage
			}

			results[i] = FileReport{
				Filename: fh.Filename,
				Language: language,
				Report: h.svc.Review(ctx, code, language, ReviewOptions{
					RecordSession: true,
					Endpoint:      observability.EndpointFiles,
				}),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// readUpload reads one part into memory. The size was checked against the
// configured limit before scheduling, so the read is bounded.
func readUpload(fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
