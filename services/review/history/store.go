// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package history keeps the in-memory log of completed review sessions.
//
// The log is process-local and intentionally unbounded: entries are never
// deleted or mutated, and a restart starts from empty. Anything that needs
// to survive a restart belongs in a real datastore, not here.
package history

import (
	"sync"
	"time"
)

// SessionRecord is the summary of one completed review session.
//
// It deliberately carries no code and no issues; the log answers "what has
// this instance reviewed" without retaining anything sensitive from the
// submissions themselves.
type SessionRecord struct {
	// Timestamp is when the review completed.
	Timestamp time.Time `json:"timestamp"`

	// Language is the language tag the review ran with.
	Language string `json:"language"`

	// Total is the number of issues found.
	Total int `json:"total"`

	// Warnings is the number of warning-severity issues found.
	Warnings int `json:"warnings"`

	// Suggestions is the number of suggestion-severity issues found.
	Suggestions int `json:"suggestions"`
}

// SessionStore is the append-only, in-memory session log.
//
// Thread Safety: all methods are safe for concurrent use.
type SessionStore struct {
	mu      sync.RWMutex
	records []SessionRecord
}

// NewSessionStore creates an empty session log.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		records: make([]SessionRecord, 0, 64),
	}
}

// Record appends one session summary to the log.
//
// # Description
//
// Records are accepted in completion order and never rewritten. If the
// record carries a zero Timestamp the store stamps it with the current
// time, so callers only set it explicitly in tests.
//
// # Inputs
//
//   - rec: the session summary to retain.
func (s *SessionStore) Record(rec SessionRecord) {
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
}

// Recent returns session summaries, most recent first.
//
// # Description
//
// The newest record is always at index 0. The returned slice is a copy;
// callers can hold or mutate it without affecting the log.
//
// # Inputs
//
//   - limit: maximum number of records to return. Zero or negative means
//     no limit.
//
// # Outputs
//
//   - the most recent records in reverse insertion order. Never nil.
func (s *SessionStore) Recent(limit int) []SessionRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.records)
	if limit > 0 && limit < n {
		n = limit
	}

	out := make([]SessionRecord, 0, n)
	for i := len(s.records) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, s.records[i])
	}
	return out
}

// Len returns the number of sessions recorded so far.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
