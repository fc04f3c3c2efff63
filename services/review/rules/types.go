// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package rules

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// SEVERITY
// =============================================================================

// Severity represents the severity level of a review issue.
type Severity int

const (
	// SeverityWarning represents issues worth fixing before the code ships.
	SeverityWarning Severity = iota

	// SeveritySuggestion represents stylistic improvements that never block.
	SeveritySuggestion
)

// String returns the string representation of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeveritySuggestion:
		return "suggestion"
	default:
		return "unknown"
	}
}

// SeverityFromString parses a severity string.
//
// Only the two wire values are accepted; anything else is an error so that
// a rule definition with a typo fails at load time, not at scan time.
func SeverityFromString(s string) (Severity, error) {
	switch s {
	case "warning":
		return SeverityWarning, nil
	case "suggestion":
		return SeveritySuggestion, nil
	default:
		return 0, fmt.Errorf("invalid severity %q", s)
	}
}

// MarshalJSON serializes the severity as its wire string ("warning" or
// "suggestion"). The JSON key on Issue is "type" for compatibility with
// existing consumers.
func (s Severity) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON parses the wire string form of a severity.
func (s *Severity) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("invalid severity JSON %s", string(data))
	}
	parsed, err := SeverityFromString(string(data[1 : len(data)-1]))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// UnmarshalYAML parses a severity from a rule definition file, rejecting
// anything other than the two known values.
func (s *Severity) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return fmt.Errorf("severity must be a string: %w", err)
	}
	parsed, err := SeverityFromString(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// =============================================================================
// ISSUE
// =============================================================================

// Issue is one finding reported by a rule against one line of code.
//
// Issues carry no identifier; they are positional within the ordered
// sequence produced by one scan. The Message embeds the 1-based line
// number as "Line <N>: <explanation>" because existing consumers re-parse
// that prefix to drive highlighting. Line exposes the same number as a
// structured field so new consumers never need to parse the text.
type Issue struct {
	// Kind is the issue severity, serialized under the key "type".
	Kind Severity `json:"type"`

	// Title is the short human-readable label (e.g. "TODO comment found").
	Title string `json:"title"`

	// Message is the detail string in the fixed "Line <N>: <explanation>"
	// format. Byte-stable for a given input; do not localize.
	Message string `json:"message"`

	// Line is the 1-indexed line the issue was found on.
	Line int `json:"line"`
}

// newIssue builds an Issue with the canonical message format.
func newIssue(severity Severity, title, detail string, line int) Issue {
	return Issue{
		Kind:    severity,
		Title:   title,
		Message: fmt.Sprintf("Line %d: %s", line, detail),
		Line:    line,
	}
}

// =============================================================================
// LINE
// =============================================================================

// Line is one line of the submitted code as presented to the rules.
//
// Raw is the line exactly as stored (length checks use it); Trimmed has
// leading and trailing whitespace removed (content checks use it). The
// engine trims once per line so every rule sees the same views.
type Line struct {
	// Number is the 1-indexed position of the line in the submission.
	Number int

	// Raw is the untrimmed line content.
	Raw string

	// Trimmed is the whitespace-trimmed line content.
	Trimmed string
}

// =============================================================================
// RULE
// =============================================================================

// Rule is a single deterministic per-line check.
//
// Implementations must not mutate their inputs, must not depend on any
// other line's content, and must return identical issues for identical
// inputs. A rule may emit zero or more issues for a line; rules are
// independent and non-exclusive, so one line can trip several rules.
type Rule interface {
	// ID is the stable rule identifier from the definition file.
	ID() string

	// Severity is the severity every issue from this rule carries.
	Severity() Severity

	// Title is the label every issue from this rule carries.
	Title() string

	// Languages is the language gate; empty means the rule applies to
	// every language tag.
	Languages() []string

	// Evaluate runs the rule against one line for the given language tag.
	Evaluate(line Line, language string) []Issue
}

// RuleInfo is the transport-facing descriptor of a compiled rule.
type RuleInfo struct {
	// ID is the stable rule identifier.
	ID string `json:"id"`

	// Severity is the severity the rule emits.
	Severity Severity `json:"severity"`

	// Title is the issue label the rule emits.
	Title string `json:"title"`

	// Languages is the language gate (empty = all languages).
	Languages []string `json:"languages,omitempty"`
}
