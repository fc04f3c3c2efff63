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
	"fmt"
	"log"

	"github.com/AleutianAI/AleutianReview/pkg/ux"
	"github.com/spf13/cobra"
)

// runSessionsCommand lists recent review sessions from the server.
func runSessionsCommand(cmd *cobra.Command, args []string) {
	path := "/v1/review/sessions"
	if sessionsLimit > 0 {
		path = fmt.Sprintf("%s?limit=%d", path, sessionsLimit)
	}

	var response struct {
		Sessions []ux.SessionView `json:"sessions"`
		Count    int              `json:"count"`
	}
	if err := getJSON(path, &response); err != nil {
		log.Fatalf("Failed to list sessions: %v", err)
	}

	ux.NewReviewUI().Sessions(response.Sessions)
}

// runRulesCommand lists the rules the server evaluates.
func runRulesCommand(cmd *cobra.Command, args []string) {
	var response struct {
		Rules []ux.RuleView `json:"rules"`
		Count int           `json:"count"`
	}
	if err := getJSON("/v1/review/rules", &response); err != nil {
		log.Fatalf("Failed to list rules: %v", err)
	}

	ux.NewReviewUI().Rules(response.Rules)
}

// runLanguagesCommand lists the language tags the server recognizes.
func runLanguagesCommand(cmd *cobra.Command, args []string) {
	var response struct {
		Languages []string `json:"languages"`
	}
	if err := getJSON("/v1/review/languages", &response); err != nil {
		log.Fatalf("Failed to list languages: %v", err)
	}

	ux.NewReviewUI().Languages(response.Languages)
}
