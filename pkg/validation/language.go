// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package validation provides helpers for user-supplied review inputs:
// language tags and upload filenames.
//
// The analyzer treats the language tag as an opaque label, so nothing in
// this package rejects an unknown language. The helpers normalize CLI
// shorthand, recognize the tags with first-class rule support, and infer
// a tag from a filename extension.
package validation

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// languageTagPattern matches well-formed language tags.
// Allows: lowercase letters, digits, plus (+), sharp (#), dots, hyphens,
// underscores after the first character.
// Max length: 32 characters.
var languageTagPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9+#._-]{0,31}$`)

// knownLanguages are the tags with first-class support. Rule gating,
// extension inference, and CLI shorthand all resolve to one of these.
var knownLanguages = []string{"javascript", "python", "java", "c", "cpp"}

// languageAliases maps common shorthand onto a known tag.
var languageAliases = map[string]string{
	"js":         "javascript",
	"node":       "javascript",
	"ecmascript": "javascript",
	"py":         "python",
	"python3":    "python",
	"c++":        "cpp",
	"cxx":        "cpp",
}

// extensionLanguages maps a lowercased filename extension onto a tag.
var extensionLanguages = map[string]string{
	".js":   "javascript",
	".jsx":  "javascript",
	".mjs":  "javascript",
	".cjs":  "javascript",
	".py":   "python",
	".pyw":  "python",
	".java": "java",
	".c":    "c",
	".h":    "c",
	".cc":   "cpp",
	".cpp":  "cpp",
	".cxx":  "cpp",
	".hpp":  "cpp",
	".hh":   "cpp",
}

// KnownLanguages returns the tags with first-class rule support, in a
// stable order. The caller owns the returned slice.
func KnownLanguages() []string {
	out := make([]string, len(knownLanguages))
	copy(out, knownLanguages)
	return out
}

// IsKnownLanguage reports whether language is one of the tags with
// first-class rule support. The match is exact; call NormalizeLanguage
// first when the tag came from shorthand user input.
func IsKnownLanguage(language string) bool {
	for _, known := range knownLanguages {
		if language == known {
			return true
		}
	}
	return false
}

// ValidateLanguageTag validates the shape of a language tag.
//
// Valid tags:
//   - 1-32 characters
//   - Lowercase letters a-z and digits 0-9
//   - Plus (+), sharp (#), dots, hyphens, and underscores after the
//     first character
//
// Returns an error if the tag is malformed. An unknown but well-formed
// tag is valid; it only disables language-gated rules downstream.
func ValidateLanguageTag(tag string) error {
	if tag == "" {
		return fmt.Errorf("language tag cannot be empty")
	}

	if !languageTagPattern.MatchString(tag) {
		return fmt.Errorf("invalid language tag: %q (must be 1-32 lowercase alphanumeric chars, plus, sharp, dots, hyphens, or underscores)", tag)
	}

	return nil
}

// NormalizeLanguage normalizes and validates a language tag.
// Returns the canonical lowercase tag if valid, or an error if invalid.
//
// Use this on shorthand user input before sending it to the service:
//
//	language, err := validation.NormalizeLanguage(flagLanguage)
//	if err != nil {
//	    return err
//	}
//	// language is lowercase, alias-resolved, and well formed
func NormalizeLanguage(label string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(label))
	if alias, ok := languageAliases[normalized]; ok {
		normalized = alias
	}
	if err := ValidateLanguageTag(normalized); err != nil {
		return "", err
	}
	return normalized, nil
}

// LanguageFromFilename infers a language tag from a filename extension.
// Returns the empty string when the extension is missing or unrecognized.
func LanguageFromFilename(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return ""
	}
	return extensionLanguages[ext]
}
