// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package history is the in-process, append-only record of generation
// results for the lifetime of the service.
//
// Entries are never reordered or mutated after append; Clear is the only
// removal operation and empties the store atomically. The store holds
// read-only records — it never regenerates or revalidates anything.
package history

import (
	"sync"
	"time"

	"github.com/AleutianAI/AleutianPLC/services/iec_engine"
)

// Kind distinguishes PLC code entries from HMI markup entries.
type Kind string

const (
	KindPLC Kind = "plc"
	KindHMI Kind = "hmi"
)

// Entry is one packaged generation result. Immutable once appended.
type Entry struct {
	ID        string                      `json:"id"`
	Kind      Kind                        `json:"kind"`
	Dialect   string                      `json:"dialect,omitempty"`
	Vendor    string                      `json:"vendor,omitempty"`
	Code      string                      `json:"code"`
	Report    iec_engine.ValidationReport `json:"report"`
	CreatedAt time.Time                   `json:"created_at"`
}

// Store is the append-only session history.
//
// # Thread Safety
//
// Safe for concurrent use. A single mutex guards the slice; appends from
// concurrent pipeline runs serialize at this boundary, so N successful
// runs always produce exactly N entries.
type Store struct {
	mu      sync.Mutex
	entries []Entry
}

// NewStore creates an empty history store.
func NewStore() *Store {
	return &Store{}
}

// Append adds one entry to the end of the history.
func (s *Store) Append(entry Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
}

// List returns the entries in append order.
//
// The returned slice is a copy; callers cannot disturb the store through
// it. The Entry values themselves are shared and must not be mutated.
func (s *Store) List() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Get returns the entry with the given id, if present.
func (s *Store) Get(id string) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.entries {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

// Len reports the number of entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Clear removes all entries atomically.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
}
