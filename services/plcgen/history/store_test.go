// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package history

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_AppendPreservesOrder(t *testing.T) {
	store := NewStore()
	for i := 0; i < 5; i++ {
		store.Append(Entry{ID: fmt.Sprintf("id-%d", i), Kind: KindPLC, CreatedAt: time.Now().UTC()})
	}

	entries := store.List()
	require.Len(t, entries, 5)
	for i, e := range entries {
		assert.Equal(t, fmt.Sprintf("id-%d", i), e.ID)
	}
	assert.Equal(t, 5, store.Len())
}

func TestStore_ListReturnsCopy(t *testing.T) {
	store := NewStore()
	store.Append(Entry{ID: "a"})

	listed := store.List()
	listed[0].ID = "mutated"

	assert.Equal(t, "a", store.List()[0].ID, "mutating the listed slice must not touch the store")
}

func TestStore_Get(t *testing.T) {
	store := NewStore()
	store.Append(Entry{ID: "a", Kind: KindHMI})

	entry, ok := store.Get("a")
	require.True(t, ok)
	assert.Equal(t, KindHMI, entry.Kind)

	_, ok = store.Get("missing")
	assert.False(t, ok)
}

func TestStore_Clear(t *testing.T) {
	store := NewStore()
	store.Append(Entry{ID: "a"})
	store.Append(Entry{ID: "b"})

	store.Clear()

	assert.Zero(t, store.Len())
	assert.Empty(t, store.List())
}

func TestStore_ConcurrentAppends(t *testing.T) {
	store := NewStore()
	const n = 64

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			store.Append(Entry{ID: fmt.Sprintf("id-%d", i)})
		}(i)
	}
	wg.Wait()

	assert.Equal(t, n, store.Len(), "N appends must produce exactly N entries")
}

// TestStore_ClearDuringAppends interleaves Clear with concurrent
// appends. Clear is atomic, so whatever the interleaving, the store
// must land in a legal state: only appended entries survive, none
// duplicated, none torn.
func TestStore_ClearDuringAppends(t *testing.T) {
	store := NewStore()
	const n = 64

	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			store.Append(Entry{ID: fmt.Sprintf("id-%d", i), Kind: KindPLC})
		}(i)
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		<-start
		store.Clear()
	}()
	close(start)
	wg.Wait()

	entries := store.List()
	assert.Equal(t, store.Len(), len(entries))
	assert.LessOrEqual(t, len(entries), n)

	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		require.NotEmpty(t, e.ID, "torn entry in history")
		assert.Equal(t, KindPLC, e.Kind)
		assert.False(t, seen[e.ID], "duplicate entry %s", e.ID)
		seen[e.ID] = true
	}
}
