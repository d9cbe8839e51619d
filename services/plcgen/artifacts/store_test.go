// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package artifacts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open("")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStore_PutGetRoundTrip(t *testing.T) {
	store := newMemStore(t)

	in := Artifact{
		ID:          "abc-123",
		ContentType: "text/plain; charset=utf-8",
		Filename:    "plc_abc-123.st",
		Data:        []byte("PROGRAM X\nEND_PROGRAM\n"),
	}
	require.NoError(t, store.Put(in))

	out, err := store.Get("abc-123")
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestStore_GetUnknown(t *testing.T) {
	store := newMemStore(t)

	_, err := store.Get("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_PutEmptyID(t *testing.T) {
	store := newMemStore(t)

	err := store.Put(Artifact{Data: []byte("x")})
	assert.Error(t, err)
}

func TestStore_DataMayContainNewlines(t *testing.T) {
	store := newMemStore(t)

	// The value header is newline-delimited; payload newlines must
	// survive the round trip untouched.
	data := []byte("line one\nline two\n\nline four")
	require.NoError(t, store.Put(Artifact{
		ID:          "nl",
		ContentType: "application/xml",
		Filename:    "plc_nl.xml",
		Data:        data,
	}))

	out, err := store.Get("nl")
	require.NoError(t, err)
	assert.Equal(t, data, out.Data)
}

func TestStore_OnDisk(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(dir)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	require.NoError(t, store.Put(Artifact{
		ID:          "persist",
		ContentType: "text/html; charset=utf-8",
		Filename:    "hmi_persist.html",
		Data:        []byte("<html></html>"),
	}))

	out, err := store.Get("persist")
	require.NoError(t, err)
	assert.Equal(t, "hmi_persist.html", out.Filename)
}
