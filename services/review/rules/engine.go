// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package rules implements the per-line lexical checks behind a code
// review. Rules are authored in YAML, compiled once at startup, and
// evaluated line by line in declaration order.
package rules

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Engine evaluates an ordered rule set against submitted code.
//
// # Description
//
// The engine splits a submission into lines, presents each line to every
// compiled rule in declaration order, and collects the findings. It has
// no understanding of syntax; every check is lexical, which keeps a scan
// cheap and its output reproducible.
//
// Thread Safety: Engine is immutable after construction and safe for
// concurrent use by multiple goroutines.
type Engine struct {
	rules []Rule
}

// NewEngine builds an engine from the embedded rule definitions.
func NewEngine() (*Engine, error) {
	return NewEngineFromDefinitions(embeddedRulesYAML)
}

// NewEngineFromDefinitions builds an engine from a YAML rule document.
//
// Document order is preserved and decides the reporting order of issues
// found on the same line. Every definition must compile; one bad rule
// fails the whole document.
func NewEngineFromDefinitions(data []byte) (*Engine, error) {
	var file ruleFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse rule definitions: %w", err)
	}
	if len(file.Rules) == 0 {
		return nil, fmt.Errorf("rule definitions contain no rules")
	}

	compiled := make([]Rule, 0, len(file.Rules))
	seen := make(map[string]bool, len(file.Rules))
	for _, def := range file.Rules {
		rule, err := compileRule(def)
		if err != nil {
			return nil, err
		}
		if seen[rule.ID()] {
			return nil, fmt.Errorf("duplicate rule id %q", rule.ID())
		}
		seen[rule.ID()] = true
		compiled = append(compiled, rule)
	}

	return &Engine{rules: compiled}, nil
}

// Scan evaluates every rule against every line of the submission.
//
// The code is split on "\n" exactly as submitted: carriage returns stay
// attached to their lines, a trailing newline produces a final empty
// line, and an empty submission is a single empty line. Issues come back
// ordered by line number first and rule position second, so two scans of
// the same input produce identical output.
//
// Scan never fails. An unrecognized language tag is not an error; it
// only leaves the language-gated rules dormant.
func (e *Engine) Scan(code, language string) []Issue {
	issues := make([]Issue, 0)
	for i, raw := range strings.Split(code, "\n") {
		line := Line{
			Number:  i + 1,
			Raw:     raw,
			Trimmed: strings.TrimSpace(raw),
		}
		for _, rule := range e.rules {
			issues = append(issues, rule.Evaluate(line, language)...)
		}
	}
	return issues
}

// Rules returns descriptors for the compiled rule set in evaluation order.
func (e *Engine) Rules() []RuleInfo {
	infos := make([]RuleInfo, 0, len(e.rules))
	for _, rule := range e.rules {
		infos = append(infos, RuleInfo{
			ID:        rule.ID(),
			Severity:  rule.Severity(),
			Title:     rule.Title(),
			Languages: rule.Languages(),
		})
	}
	return infos
}
