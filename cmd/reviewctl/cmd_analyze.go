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
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/AleutianAI/AleutianReview/pkg/ux"
	"github.com/AleutianAI/AleutianReview/pkg/validation"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// fallbackLanguage is used when no language can be inferred for a submission.
const fallbackLanguage = "plaintext"

// fileResult is the JSON envelope emitted per file in --json mode.
type fileResult struct {
	Filename string          `json:"filename"`
	Language string          `json:"language"`
	Report   json.RawMessage `json:"report"`
}

// runAnalyzeCommand submits files (or piped stdin) to the review server
// and renders the resulting reports.
func runAnalyzeCommand(cmd *cobra.Command, args []string) {
	override := ""
	if analyzeLanguage != "" {
		normalized, err := validation.NormalizeLanguage(analyzeLanguage)
		if err != nil {
			log.Fatalf("Invalid --language value %q: %v", analyzeLanguage, err)
		}
		override = normalized
	}

	if len(args) == 0 {
		if stdinIsPiped() {
			analyzeStdin(override)
			return
		}
		log.Fatalf("Nothing to analyze: pass one or more files, or pipe code on stdin")
	}

	analyzeFiles(args, override)
}

// stdinIsPiped reports whether stdin carries piped input rather than a terminal.
func stdinIsPiped() bool {
	return !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd())
}

// analyzeStdin reviews a single submission read from standard input.
func analyzeStdin(override string) {
	code, err := io.ReadAll(os.Stdin)
	if err != nil {
		log.Fatalf("Failed to read stdin: %v", err)
	}

	language := override
	if language == "" {
		if !analyzeJSON {
			ux.Warning(fmt.Sprintf("No --language given for stdin, analyzing as %s", fallbackLanguage))
		}
		language = fallbackLanguage
	}

	body, err := postReview(string(code), language)
	if err != nil {
		log.Fatalf("Review failed: %v", err)
	}

	if analyzeJSON {
		os.Stdout.Write(body)
		fmt.Println()
		return
	}

	var report ux.ReportView
	if err := json.Unmarshal(body, &report); err != nil {
		log.Fatalf("Failed to parse the report: %v", err)
	}
	ux.NewReviewUI().Report(report)
}

// analyzeFiles reviews each named file in order, inferring the language
// from the filename unless an override was given.
func analyzeFiles(paths []string, override string) {
	ui := ux.NewReviewUI()
	results := make([]fileResult, 0, len(paths))
	totalWarnings := 0
	totalSuggestions := 0

	for _, path := range paths {
		code, err := os.ReadFile(path)
		if err != nil {
			log.Fatalf("Failed to read %s: %v", path, err)
		}
		language := resolveLanguage(path, override)

		var body []byte
		spinner := ux.NewSpinner(fmt.Sprintf("Analyzing %s", path))
		spinner.Start()
		body, err = postReview(string(code), language)
		spinner.Stop()
		if err != nil {
			log.Fatalf("Review of %s failed: %v", path, err)
		}

		if analyzeJSON {
			results = append(results, fileResult{Filename: path, Language: language, Report: body})
			continue
		}

		var report ux.ReportView
		if err := json.Unmarshal(body, &report); err != nil {
			log.Fatalf("Failed to parse the report for %s: %v", path, err)
		}
		ux.FileStatus(path, fileIcon(report), fileReason(report))
		ui.Report(report)
		totalWarnings += report.Warnings
		totalSuggestions += report.Suggestions
	}

	if analyzeJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(results); err != nil {
			log.Fatalf("Failed to encode results: %v", err)
		}
		return
	}

	if len(paths) > 1 {
		ux.Summary(totalWarnings, totalSuggestions, totalWarnings+totalSuggestions)
	}
}

// resolveLanguage picks the language for a file submission.
func resolveLanguage(path, override string) string {
	if override != "" {
		return override
	}
	if inferred := validation.LanguageFromFilename(path); inferred != "" {
		return inferred
	}
	if !analyzeJSON {
		ux.Warning(fmt.Sprintf("Could not infer a language for %s, analyzing as %s", path, fallbackLanguage))
	}
	return fallbackLanguage
}

func fileIcon(report ux.ReportView) ux.Icon {
	switch {
	case report.Warnings > 0:
		return ux.IconWarning
	case report.Suggestions > 0:
		return ux.IconPending
	default:
		return ux.IconSuccess
	}
}

func fileReason(report ux.ReportView) string {
	if report.Total == 0 {
		return "clean"
	}
	return fmt.Sprintf("%d issue(s)", report.Total)
}
