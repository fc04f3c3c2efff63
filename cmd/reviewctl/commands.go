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
	"github.com/AleutianAI/AleutianReview/pkg/ux"
	"github.com/spf13/cobra"
)

// --- Global Command Variables ---
var (
	analyzeLanguage  string // CLI override for the language tag
	analyzeJSON      bool   // Raw JSON output for scripting
	sessionsLimit    int    // Cap on the number of sessions listed
	personalityLevel string // UX personality level (full/standard/minimal/machine)

	rootCmd = &cobra.Command{
		Use:   "reviewctl",
		Short: "A cli for the Aleutian Review code analysis service",
		Long: `Reviewctl submits code to a running Aleutian Review server and
				renders the findings: per-line lexical issues, optional
				LLM-suggested rewrites, and the server's review history.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Initialize UX personality from flag or environment
			if personalityLevel != "" {
				ux.SetPersonalityLevel(ux.ParsePersonalityLevel(personalityLevel))
			} else {
				ux.InitPersonality()
			}
		},
	}

	// --- Analysis ---
	analyzeCmd = &cobra.Command{
		Use:   "analyze [file...]",
		Short: "Analyze files (or stdin) against the server's rule set",
		Long: `Analyze submits each file to the review server and prints the
				findings. With no file arguments the code is read from stdin.
				The language tag is taken from --language, inferred from the
				file extension, or falls back to plaintext.`,
		Aliases: []string{"a"},
		Run:     runAnalyzeCommand, // Defined in cmd_analyze.go
	}

	// --- Server Introspection ---
	sessionsCmd = &cobra.Command{
		Use:   "sessions",
		Short: "List the server's review sessions, most recent first",
		Run:   runSessionsCommand, // Defined in cmd_info.go
	}

	rulesCmd = &cobra.Command{
		Use:   "rules",
		Short: "Describe the server's active rule set",
		Run:   runRulesCommand, // Defined in cmd_info.go
	}

	languagesCmd = &cobra.Command{
		Use:   "languages",
		Short: "List the language tags with dedicated rule support",
		Run:   runLanguagesCommand, // Defined in cmd_info.go
	}
)

// init runs when the Go program starts
func init() {
	// Global UX personality flag
	rootCmd.PersistentFlags().StringVar(&personalityLevel, "personality", "",
		"Output style: full (default), standard, minimal, or machine (scripting)")

	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&analyzeLanguage, "language", "l", "",
		"Language tag for every input (default: inferred from each filename)")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false,
		"Print raw JSON reports instead of styled output")

	rootCmd.AddCommand(sessionsCmd)
	sessionsCmd.Flags().IntVar(&sessionsLimit, "limit", 0,
		"Maximum number of sessions to list (0 = all)")

	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(languagesCmd)
}
