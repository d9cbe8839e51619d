// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package plcgen

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Test Setup
// =============================================================================

func init() {
	// Set Gin to test mode to reduce noise in test output
	gin.SetMode(gin.TestMode)
}

// =============================================================================
// Config Tests
// =============================================================================

// TestApplyConfigDefaults_AllDefaults verifies default values are applied.
func TestApplyConfigDefaults_AllDefaults(t *testing.T) {
	cfg := Config{}

	result := applyConfigDefaults(cfg)

	assert.Equal(t, 12230, result.Port, "default port should be 12230")
	assert.Equal(t, "ollama", result.LLMBackend, "default LLM backend should be ollama")
	assert.Equal(t, "aleutian-otel-collector:4317", result.OTelEndpoint,
		"default OTel endpoint should be aleutian-otel-collector:4317")
	assert.False(t, result.DisableMetrics, "metrics should be on by default")
	assert.Equal(t, 120*time.Second, result.GenerationTimeout)
	assert.Zero(t, result.RateLimitRPS, "rate limiting should be off by default")
}

// TestApplyConfigDefaults_PreservesCustomValues verifies custom values
// are not overwritten.
func TestApplyConfigDefaults_PreservesCustomValues(t *testing.T) {
	cfg := Config{
		Port:              8080,
		LLMBackend:        "openai",
		OTelEndpoint:      "custom-collector:4317",
		GenerationTimeout: 30 * time.Second,
		ArtifactPath:      "/var/lib/plcgen",
	}

	result := applyConfigDefaults(cfg)

	assert.Equal(t, 8080, result.Port, "custom port should be preserved")
	assert.Equal(t, "openai", result.LLMBackend, "custom LLM backend should be preserved")
	assert.Equal(t, "custom-collector:4317", result.OTelEndpoint,
		"custom OTel endpoint should be preserved")
	assert.Equal(t, 30*time.Second, result.GenerationTimeout)
	assert.Equal(t, "/var/lib/plcgen", result.ArtifactPath)

	optedOut := applyConfigDefaults(Config{DisableMetrics: true})
	assert.True(t, optedOut.DisableMetrics, "metrics opt-out must survive defaulting")
}

// TestApplyConfigDefaults_RateLimitBurst verifies the burst default
// only applies when limiting is enabled.
func TestApplyConfigDefaults_RateLimitBurst(t *testing.T) {
	result := applyConfigDefaults(Config{RateLimitRPS: 2})
	assert.Equal(t, 5, result.RateLimitBurst, "burst should default when RPS is set")

	result = applyConfigDefaults(Config{})
	assert.Zero(t, result.RateLimitBurst, "burst stays zero when limiting is off")
}

// =============================================================================
// Service Construction
// =============================================================================

// TestNew_ServesHealth builds the full service and probes the health
// endpoint through the router. The OTel exporter and Ollama client
// connect lazily, so construction succeeds without either running.
func TestNew_ServesHealth(t *testing.T) {
	t.Setenv("OLLAMA_BASE_URL", "http://localhost:11434")

	svc, err := New(Config{GinMode: gin.TestMode}, nil)
	require.NoError(t, err)
	require.NotNil(t, svc.Router())

	w := httptest.NewRecorder()
	svc.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "plcgen")

	// Metric registration is idempotent, so a second service in the
	// same process must construct cleanly.
	again, err := New(Config{GinMode: gin.TestMode}, nil)
	require.NoError(t, err)
	require.NotNil(t, again.Router())
}
