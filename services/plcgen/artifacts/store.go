// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package artifacts stores raw generated artifacts (PLC source, HMI
// HTML) keyed by result id, backing the download endpoint.
//
// BadgerDB is the storage engine: in-memory by default, on-disk when a
// path is configured, so artifacts can outlive a restart without a
// separate database server.
//
// License: BadgerDB is Apache 2.0 licensed (github.com/dgraph-io/badger).
package artifacts

import (
	"errors"
	"fmt"
	"os"

	"github.com/dgraph-io/badger/v4"
)

// ErrNotFound is returned by Get when no artifact exists for the id.
var ErrNotFound = errors.New("artifact not found")

// Artifact is one stored download payload.
type Artifact struct {
	ID          string
	ContentType string
	Filename    string
	Data        []byte
}

// Store persists artifacts in BadgerDB.
//
// # Thread Safety
//
// Safe for concurrent use; BadgerDB transactions provide isolation.
type Store struct {
	db *badger.DB
}

// Open creates a store at the given directory, or an in-memory store
// when path is empty.
//
// # Outputs
//
//   - *Store: Ready-to-use store. Caller must Close it.
//   - error: Non-nil if the database cannot be opened.
func Open(path string) (*Store, error) {
	var opts badger.Options
	if path == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(path, 0750); err != nil {
			return nil, fmt.Errorf("create artifact directory %s: %w", path, err)
		}
		opts = badger.DefaultOptions(path)
	}
	opts = opts.WithLogger(nil) // Disable BadgerDB's internal logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open artifact database: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put stores an artifact. The content type and filename are packed into
// the value header so Get can serve the download without a second lookup.
func (s *Store) Put(a Artifact) error {
	if a.ID == "" {
		return errors.New("artifact id must not be empty")
	}
	value := encodeArtifact(a)
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(a.ID), value)
	})
	if err != nil {
		return fmt.Errorf("store artifact %s: %w", a.ID, err)
	}
	return nil
}

// Get retrieves an artifact by result id.
//
// # Outputs
//
//   - Artifact: The stored payload.
//   - error: ErrNotFound if the id is unknown.
func (s *Store) Get(id string) (Artifact, error) {
	var raw []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(id))
		if err != nil {
			return err
		}
		raw, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return Artifact{}, ErrNotFound
	}
	if err != nil {
		return Artifact{}, fmt.Errorf("load artifact %s: %w", id, err)
	}

	a, err := decodeArtifact(id, raw)
	if err != nil {
		return Artifact{}, fmt.Errorf("decode artifact %s: %w", id, err)
	}
	return a, nil
}

// Value layout: contentType \n filename \n data. Content types and
// filenames never contain newlines, so two delimiters suffice.
func encodeArtifact(a Artifact) []byte {
	header := a.ContentType + "\n" + a.Filename + "\n"
	out := make([]byte, 0, len(header)+len(a.Data))
	out = append(out, header...)
	out = append(out, a.Data...)
	return out
}

func decodeArtifact(id string, raw []byte) (Artifact, error) {
	first := -1
	second := -1
	for i, b := range raw {
		if b != '\n' {
			continue
		}
		if first == -1 {
			first = i
		} else {
			second = i
			break
		}
	}
	if first == -1 || second == -1 {
		return Artifact{}, errors.New("malformed artifact value")
	}
	return Artifact{
		ID:          id,
		ContentType: string(raw[:first]),
		Filename:    string(raw[first+1 : second]),
		Data:        raw[second+1:],
	}, nil
}
