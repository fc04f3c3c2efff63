// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

const (
	// DefaultReviewHost and DefaultReviewPort mirror the reviewd defaults.
	DefaultReviewHost = "localhost"
	DefaultReviewPort = 8094
)

// httpClient is shared by every command invocation. The timeout covers
// the rewrite path, which can hold a request open while the LLM works.
var httpClient = &http.Client{Timeout: 2 * time.Minute}

// getReviewBaseURL returns the address of the review server.
func getReviewBaseURL() string {
	// 1. Priority: Environment Variable (Used by Tests & Docker overrides)
	if url := os.Getenv("REVIEW_SERVER_URL"); url != "" {
		return url
	}
	// 2. Default: Standard Host/Port
	return fmt.Sprintf("http://%s:%d", DefaultReviewHost, DefaultReviewPort)
}

// postReview submits one code submission and returns the raw report JSON.
func postReview(code, language string) ([]byte, error) {
	payload, err := json.Marshal(map[string]string{
		"code":     code,
		"language": language,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode the request: %w", err)
	}

	url := getReviewBaseURL() + "/v1/review"
	resp, err := httpClient.Post(url, "application/json", bytes.NewBuffer(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to reach the review server at %s: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read the response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("the review server returned %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}

// getJSON fetches a server endpoint and decodes the response into out.
func getJSON(path string, out interface{}) error {
	url := getReviewBaseURL() + path
	resp, err := httpClient.Get(url)
	if err != nil {
		return fmt.Errorf("failed to reach the review server at %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("the review server returned %d: %s", resp.StatusCode, string(body))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to parse the response: %w", err)
	}
	return nil
}
