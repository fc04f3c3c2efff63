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
	"strings"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// YAML SCHEMA
// =============================================================================

// ruleFile is the top-level shape of a rule definition document.
type ruleFile struct {
	Rules []ruleDefinition `yaml:"rules"`
}

// ruleDefinition is one rule as authored in YAML.
type ruleDefinition struct {
	ID        string          `yaml:"id"`
	Severity  Severity        `yaml:"severity"`
	Title     string          `yaml:"title"`
	Detail    string          `yaml:"detail"`
	Languages []string        `yaml:"languages"`
	Match     matchDefinition `yaml:"match"`
}

// matchKind enumerates the supported matcher kinds.
type matchKind string

const (
	matchSubstring       matchKind = "substring"
	matchMaxLength       matchKind = "max_length"
	matchSubstringUnless matchKind = "substring_unless"
	matchAnyOf           matchKind = "any_of"
)

// UnmarshalYAML rejects unknown matcher kinds at load time so a typo in a
// definition file fails construction instead of silently never matching.
func (k *matchKind) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return fmt.Errorf("match kind must be a string: %w", err)
	}
	switch matchKind(raw) {
	case matchSubstring, matchMaxLength, matchSubstringUnless, matchAnyOf:
		*k = matchKind(raw)
		return nil
	default:
		return fmt.Errorf("invalid match kind: %q", raw)
	}
}

// matchDefinition is the matcher section of a rule definition. Only the
// fields belonging to the declared kind are consulted.
type matchDefinition struct {
	Kind       matchKind `yaml:"kind"`
	Pattern    string    `yaml:"pattern"`
	Unless     string    `yaml:"unless"`
	Threshold  int       `yaml:"threshold"`
	Prefixes   []string  `yaml:"prefixes"`
	Substrings []string  `yaml:"substrings"`
}

// =============================================================================
// COMPILATION
// =============================================================================

// compileRule validates a definition and builds its matcher.
func compileRule(def ruleDefinition) (Rule, error) {
	if def.ID == "" {
		return nil, fmt.Errorf("rule definition has no id")
	}
	if def.Title == "" {
		return nil, fmt.Errorf("rule %q has no title", def.ID)
	}
	if def.Detail == "" {
		return nil, fmt.Errorf("rule %q has no detail", def.ID)
	}

	base := baseRule{
		id:        def.ID,
		severity:  def.Severity,
		title:     def.Title,
		detail:    def.Detail,
		languages: def.Languages,
	}

	switch def.Match.Kind {
	case matchSubstring:
		if def.Match.Pattern == "" {
			return nil, fmt.Errorf("rule %q: substring matcher requires a pattern", def.ID)
		}
		return &substringRule{baseRule: base, pattern: def.Match.Pattern}, nil

	case matchMaxLength:
		if def.Match.Threshold <= 0 {
			return nil, fmt.Errorf("rule %q: max_length matcher requires a positive threshold", def.ID)
		}
		return &maxLengthRule{baseRule: base, threshold: def.Match.Threshold}, nil

	case matchSubstringUnless:
		if def.Match.Pattern == "" || def.Match.Unless == "" {
			return nil, fmt.Errorf("rule %q: substring_unless matcher requires pattern and unless", def.ID)
		}
		return &substringUnlessRule{baseRule: base, pattern: def.Match.Pattern, unless: def.Match.Unless}, nil

	case matchAnyOf:
		if len(def.Match.Prefixes) == 0 && len(def.Match.Substrings) == 0 {
			return nil, fmt.Errorf("rule %q: any_of matcher requires prefixes or substrings", def.ID)
		}
		return &anyOfRule{baseRule: base, prefixes: def.Match.Prefixes, substrings: def.Match.Substrings}, nil

	default:
		return nil, fmt.Errorf("rule %q: unsupported match kind %q", def.ID, def.Match.Kind)
	}
}

// =============================================================================
// MATCHERS
// =============================================================================

// baseRule carries the identity fields shared by every matcher.
type baseRule struct {
	id        string
	severity  Severity
	title     string
	detail    string
	languages []string
}

func (r *baseRule) ID() string          { return r.id }
func (r *baseRule) Severity() Severity  { return r.severity }
func (r *baseRule) Title() string       { return r.title }
func (r *baseRule) Languages() []string { return r.languages }

// appliesTo reports whether the rule's language gate admits the tag. An
// empty gate admits every tag, so a submission in a language the service
// has never heard of still runs the ungated rules.
func (r *baseRule) appliesTo(language string) bool {
	if len(r.languages) == 0 {
		return true
	}
	for _, lang := range r.languages {
		if lang == language {
			return true
		}
	}
	return false
}

// emit builds the single issue a matcher produces for a line.
func (r *baseRule) emit(line Line) []Issue {
	return []Issue{newIssue(r.severity, r.title, r.detail, line.Number)}
}

// substringRule fires when the trimmed line contains the pattern.
// Matching is case-sensitive; with pattern "TODO", a lowercase "todo"
// does not fire.
type substringRule struct {
	baseRule
	pattern string
}

func (r *substringRule) Evaluate(line Line, language string) []Issue {
	if !r.appliesTo(language) {
		return nil
	}
	if strings.Contains(line.Trimmed, r.pattern) {
		return r.emit(line)
	}
	return nil
}

// maxLengthRule fires when the raw line is strictly longer than the
// threshold. Length is measured in bytes on the untrimmed line, so
// indentation counts and a line of exactly threshold bytes passes.
type maxLengthRule struct {
	baseRule
	threshold int
}

func (r *maxLengthRule) Evaluate(line Line, language string) []Issue {
	if !r.appliesTo(language) {
		return nil
	}
	if len(line.Raw) > r.threshold {
		return r.emit(line)
	}
	return nil
}

// substringUnlessRule fires when the trimmed line contains pattern but
// does not contain unless. The check is purely lexical: with pattern "=="
// and unless "===", one strict comparison anywhere on the line suppresses
// the rule for that whole line.
type substringUnlessRule struct {
	baseRule
	pattern string
	unless  string
}

func (r *substringUnlessRule) Evaluate(line Line, language string) []Issue {
	if !r.appliesTo(language) {
		return nil
	}
	if strings.Contains(line.Trimmed, r.pattern) && !strings.Contains(line.Trimmed, r.unless) {
		return r.emit(line)
	}
	return nil
}

// anyOfRule fires when the trimmed line starts with any prefix or contains
// any substring. Prefixes anchor to the trimmed start of the line, so an
// indented `print(...)` call matches while `x = print(y)` does not;
// substrings match anywhere.
type anyOfRule struct {
	baseRule
	prefixes   []string
	substrings []string
}

func (r *anyOfRule) Evaluate(line Line, language string) []Issue {
	if !r.appliesTo(language) {
		return nil
	}
	for _, prefix := range r.prefixes {
		if strings.HasPrefix(line.Trimmed, prefix) {
			return r.emit(line)
		}
	}
	for _, sub := range r.substrings {
		if strings.Contains(line.Trimmed, sub) {
			return r.emit(line)
		}
	}
	return nil
}
