// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package logging

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":   LevelDebug,
		"DEBUG":   LevelDebug,
		"info":    LevelInfo,
		"warn":    LevelWarn,
		"warning": LevelWarn,
		" error ": LevelError,
		"":        LevelInfo,
		"trace":   LevelInfo, // unknown falls back to info
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLevel(in), "input %q", in)
	}
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "DEBUG", LevelDebug.String())
	assert.Equal(t, "INFO", LevelInfo.String())
	assert.Equal(t, "WARN", LevelWarn.String())
	assert.Equal(t, "ERROR", LevelError.String())
}

// TestNew_WritesDailyJSONFile verifies the file leg: a daily JSON log
// file appears under LogDir and carries the message plus the service
// attribute.
func TestNew_WritesDailyJSONFile(t *testing.T) {
	dir := t.TempDir()
	logger := New(Config{Level: LevelInfo, LogDir: dir, Service: "plcgen"})

	logger.Info("generation complete", "dialect", "ST", "findings", 3)
	require.NoError(t, logger.Close())

	name := fmt.Sprintf("plcgen_%s.log", time.Now().Format("2006-01-02"))
	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)

	var record map[string]any
	require.NoError(t, json.Unmarshal(data, &record))
	assert.Equal(t, "generation complete", record["msg"])
	assert.Equal(t, "plcgen", record["service"])
	assert.Equal(t, "ST", record["dialect"])
}

// TestNew_BadLogDirDegradesToStderr: an unusable directory must not
// prevent construction or logging.
func TestNew_BadLogDirDegradesToStderr(t *testing.T) {
	// A file in place of the directory makes MkdirAll fail.
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0600))

	logger := New(Config{LogDir: filepath.Join(blocker, "logs"), Service: "plcgen"})
	assert.NotPanics(t, func() { logger.Warn("still logging") })
	assert.NoError(t, logger.Close())
}

// TestLogger_ExporterReceivesFilteredEntries verifies the export seam:
// entries at or above the configured level reach the exporter, lower
// ones do not.
func TestLogger_ExporterReceivesFilteredEntries(t *testing.T) {
	exporter := NewBufferedExporter()
	logger := New(Config{Level: LevelWarn, Service: "plcgen", Exporter: exporter})

	logger.Debug("dropped")
	logger.Info("also dropped")
	logger.Warn("pipeline degraded", "backend", "ollama")
	logger.Error("artifact store unavailable")

	// Export runs off the logging goroutine.
	require.Eventually(t, func() bool {
		return len(exporter.Entries()) == 2
	}, 2*time.Second, 10*time.Millisecond)

	byLevel := map[Level]LogEntry{}
	for _, e := range exporter.Entries() {
		byLevel[e.Level] = e
	}
	warn, ok := byLevel[LevelWarn]
	require.True(t, ok)
	assert.Equal(t, "pipeline degraded", warn.Message)
	assert.Equal(t, "plcgen", warn.Service)
	assert.Equal(t, "ollama", warn.Attrs["backend"])
	_, ok = byLevel[LevelError]
	assert.True(t, ok)

	require.NoError(t, logger.Close())
}

// TestLogger_WithCarriesAttributes verifies child-logger attributes
// land in the file output alongside the parent's service tag.
func TestLogger_WithCarriesAttributes(t *testing.T) {
	dir := t.TempDir()
	logger := New(Config{LogDir: dir, Service: "plcgen"})

	runLogger := logger.With("run_id", "r-42")
	runLogger.Info("validating")
	require.NoError(t, logger.Close())

	name := fmt.Sprintf("plcgen_%s.log", time.Now().Format("2006-01-02"))
	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)

	var record map[string]any
	require.NoError(t, json.Unmarshal(data, &record))
	assert.Equal(t, "r-42", record["run_id"])
	assert.Equal(t, "plcgen", record["service"])
}

// TestLogger_CloseTwice: the second Close must be a no-op, not a
// double-close of the file handle.
func TestLogger_CloseTwice(t *testing.T) {
	logger := New(Config{LogDir: t.TempDir(), Service: "plcgen"})
	logger.Info("one")

	require.NoError(t, logger.Close())
	assert.NoError(t, logger.Close())
}

func TestDefault(t *testing.T) {
	logger := Default()
	require.NotNil(t, logger.Slog())
	assert.NotPanics(t, func() { logger.Info("up") })
	assert.NoError(t, logger.Close())
}

func TestBufferedExporter_EntriesReturnsCopy(t *testing.T) {
	exporter := NewBufferedExporter()
	require.NoError(t, exporter.Export(t.Context(), LogEntry{Message: "a"}))

	entries := exporter.Entries()
	entries[0].Message = "mutated"

	assert.Equal(t, "a", exporter.Entries()[0].Message)
}

func TestAttrMap(t *testing.T) {
	m := attrMap([]any{"dialect", "ST", "count", 2, 7, "skipped", "dangling"})
	assert.Equal(t, map[string]any{"dialect": "ST", "count": 2}, m)
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".aleutian", "logs"), expandPath("~/.aleutian/logs"))
	assert.Equal(t, "/var/log/plcgen", expandPath("/var/log/plcgen"))
}
