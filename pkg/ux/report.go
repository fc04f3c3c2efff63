// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package ux

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// IssueView is one review finding as rendered by the CLI.
//
// # Description
//
// IssueView mirrors the wire format of a single issue so command handlers
// can decode server responses straight into it without an intermediate
// translation layer.
//
// # Fields
//
//   - Type: Issue severity, "warning" or "suggestion".
//   - Title: Short human-readable label (e.g. "TODO comment found").
//   - Message: Detail string in the "Line <N>: <explanation>" format.
//   - Line: 1-indexed line the issue was found on.
type IssueView struct {
	Type    string `json:"type"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Line    int    `json:"line"`
}

// ReportView is one complete review result as rendered by the CLI.
//
// # Fields
//
//   - Warnings: Number of warning-severity issues.
//   - Suggestions: Number of suggestion-severity issues.
//   - Total: Number of issues found.
//   - Issues: Every finding in line order.
//   - SuggestedCode: Optional rewrite from the review service. Empty when
//     no rewrite was produced.
type ReportView struct {
	Warnings      int         `json:"warnings"`
	Suggestions   int         `json:"suggestions"`
	Total         int         `json:"total"`
	Issues        []IssueView `json:"issues"`
	SuggestedCode string      `json:"suggested_code,omitempty"`
}

// SessionView is one logged review session as rendered by the CLI.
type SessionView struct {
	Timestamp   time.Time `json:"timestamp"`
	Language    string    `json:"language"`
	Total       int       `json:"total"`
	Warnings    int       `json:"warnings"`
	Suggestions int       `json:"suggestions"`
}

// RuleView is one active rule as rendered by the CLI.
type RuleView struct {
	ID        string   `json:"id"`
	Severity  string   `json:"severity"`
	Title     string   `json:"title"`
	Languages []string `json:"languages,omitempty"`
}

// ReviewUI defines the interface for review output rendering.
// Implementations adapt the same data to different personality levels.
type ReviewUI interface {
	// Report displays the issues and optional rewrite from one review.
	Report(report ReportView)

	// Sessions displays the session log, most recent first.
	Sessions(sessions []SessionView)

	// Rules displays the active rule set in evaluation order.
	Rules(rules []RuleView)

	// Languages displays the language tags with dedicated support.
	Languages(languages []string)
}

// terminalReviewUI implements ReviewUI for terminal output
type terminalReviewUI struct {
	writer      io.Writer
	personality PersonalityLevel
}

// write is a helper that writes formatted output and handles errors.
// Errors are silently ignored as there's no meaningful recovery for terminal output.
func (u *terminalReviewUI) write(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(u.writer, format, args...); err != nil {
		// Terminal write errors are non-recoverable; silently ignore
		return
	}
}

// writeln is a helper that writes a line and handles errors.
func (u *terminalReviewUI) writeln(args ...interface{}) {
	if _, err := fmt.Fprintln(u.writer, args...); err != nil {
		// Terminal write errors are non-recoverable; silently ignore
		return
	}
}

// NewReviewUI creates a new terminal-based ReviewUI
func NewReviewUI() ReviewUI {
	return &terminalReviewUI{
		writer:      os.Stdout,
		personality: GetPersonality().Level,
	}
}

// NewReviewUIWithWriter creates a ReviewUI with a custom writer (for testing)
func NewReviewUIWithWriter(w io.Writer, personality PersonalityLevel) ReviewUI {
	return &terminalReviewUI{
		writer:      w,
		personality: personality,
	}
}

// Report displays the issues and optional rewrite from one review.
func (u *terminalReviewUI) Report(report ReportView) {
	if u.personality == PersonalityMachine {
		u.reportMachine(report)
		return
	}

	if report.Total == 0 {
		u.write("%s %s\n", IconSuccess.Render(), Styles.Success.Render("No issues found."))
	}

	for _, issue := range report.Issues {
		switch issue.Type {
		case "warning":
			u.write("%s %s\n", IconWarning.Render(), Styles.Warning.Render(issue.Message))
		default:
			u.write("%s %s\n", IconArrow.Render(), Styles.Subtitle.Render(issue.Message))
		}
	}

	if report.SuggestedCode != "" {
		u.suggestedCode(report.SuggestedCode)
	}
}

// reportMachine renders a report in machine-readable format.
func (u *terminalReviewUI) reportMachine(report ReportView) {
	for _, issue := range report.Issues {
		u.write("ISSUE: %s\t%d\t%s\n", issue.Type, issue.Line, issue.Message)
	}
	if report.SuggestedCode != "" {
		u.write("SUGGESTED_CODE:\n%s\n", report.SuggestedCode)
	}
}

// suggestedCode renders the rewrite block for non-machine personalities.
func (u *terminalReviewUI) suggestedCode(code string) {
	if u.personality == PersonalityMinimal {
		u.writeln("Suggested rewrite:")
		u.writeln(code)
		return
	}

	boxStyle := Styles.Box.Width(60)
	titleLine := Styles.Title.Render("Suggested rewrite")
	u.writeln(boxStyle.Render(titleLine + "\n" + code))
}

// Sessions displays the session log, most recent first.
func (u *terminalReviewUI) Sessions(sessions []SessionView) {
	if u.personality == PersonalityMachine {
		for _, sess := range sessions {
			u.write("SESSION: %s\t%s\t%d\t%d\t%d\n",
				sess.Timestamp.Format(time.RFC3339), sess.Language,
				sess.Total, sess.Warnings, sess.Suggestions)
		}
		return
	}

	if len(sessions) == 0 {
		u.writeln(Styles.Muted.Render("No review sessions recorded."))
		return
	}

	for _, sess := range sessions {
		counts := fmt.Sprintf("%d issues (%d warnings, %d suggestions)",
			sess.Total, sess.Warnings, sess.Suggestions)
		if u.personality == PersonalityMinimal {
			u.write("%s %s %s\n", sess.Timestamp.Format("2006-01-02 15:04"), sess.Language, counts)
			continue
		}
		u.write("%s %s  %s  %s\n",
			IconBullet.Render(),
			Styles.Subtitle.Render(sess.Language),
			counts,
			Styles.Muted.Render(formatRelativeTime(sess.Timestamp)))
	}
}

// Rules displays the active rule set in evaluation order.
func (u *terminalReviewUI) Rules(rules []RuleView) {
	if u.personality == PersonalityMachine {
		for _, rule := range rules {
			u.write("RULE: %s\t%s\t%s\t%s\n",
				rule.ID, rule.Severity, languageGate(rule.Languages), rule.Title)
		}
		return
	}

	for _, rule := range rules {
		icon := IconArrow
		if rule.Severity == "warning" {
			icon = IconWarning
		}
		if u.personality == PersonalityMinimal {
			u.write("%s %s (%s)\n", rule.ID, rule.Title, languageGate(rule.Languages))
			continue
		}
		u.write("%s %s  %s %s\n",
			icon.Render(),
			Styles.Bold.Render(rule.ID),
			rule.Title,
			Styles.Muted.Render("("+languageGate(rule.Languages)+")"))
	}
}

// Languages displays the language tags with dedicated support.
func (u *terminalReviewUI) Languages(languages []string) {
	if u.personality == PersonalityMachine {
		for _, lang := range languages {
			u.write("LANGUAGE: %s\n", lang)
		}
		return
	}

	for _, lang := range languages {
		if u.personality == PersonalityMinimal {
			u.writeln(lang)
			continue
		}
		u.write("%s %s\n", IconBullet.Render(), lang)
	}
}

// languageGate describes a rule's language restriction for display.
func languageGate(languages []string) string {
	if len(languages) == 0 {
		return "all languages"
	}
	return strings.Join(languages, ", ")
}

// formatRelativeTime converts a timestamp to a relative time string.
//
// # Description
//
// Converts a timestamp to a human-friendly relative time like "2h ago",
// "3 days ago", etc. Adapts the unit based on the time difference.
//
// # Inputs
//
//   - t: the timestamp to describe
//
// # Outputs
//
//   - string: Relative time string (e.g., "2h ago", "3 days ago")
//
// # Limitations
//
//   - Returns "just now" for times within the last minute
//   - Does not handle future times specially
func formatRelativeTime(t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}

	diff := time.Since(t)

	if diff < time.Minute {
		return "just now"
	}
	if diff < time.Hour {
		mins := int(diff.Minutes())
		if mins == 1 {
			return "1 min ago"
		}
		return fmt.Sprintf("%d mins ago", mins)
	}
	if diff < 24*time.Hour {
		hours := int(diff.Hours())
		if hours == 1 {
			return "1h ago"
		}
		return fmt.Sprintf("%dh ago", hours)
	}
	days := int(diff.Hours() / 24)
	if days == 1 {
		return "1 day ago"
	}
	return fmt.Sprintf("%d days ago", days)
}
