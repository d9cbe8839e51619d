// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/AleutianPLC/pkg/extensions"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// denyAllProvider rejects every token.
type denyAllProvider struct{}

func (p *denyAllProvider) Validate(_ context.Context, _ string) (*extensions.AuthInfo, error) {
	return nil, fmt.Errorf("token rejected: %w", extensions.ErrUnauthorized)
}

func TestAuthMiddleware_NopProviderAllows(t *testing.T) {
	router := gin.New()
	router.Use(AuthMiddleware(&extensions.NopAuthProvider{}))
	router.GET("/probe", func(c *gin.Context) {
		info := GetAuthInfo(c)
		require.NotNil(t, info)
		c.JSON(http.StatusOK, gin.H{"user": info.UserID})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "local-user")
}

func TestAuthMiddleware_Unauthorized(t *testing.T) {
	router := gin.New()
	router.Use(AuthMiddleware(&denyAllProvider{}))
	router.GET("/probe", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer bad-token")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestExtractBearerToken(t *testing.T) {
	cases := map[string]string{
		"Bearer abc123":  "abc123",
		"bearer ABC123":  "ABC123",
		"Basic dXNlcjo=": "",
		"Bearer":         "",
		"":               "",
	}
	for header, want := range cases {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			c.Request.Header.Set("Authorization", header)
		}
		assert.Equal(t, want, extractBearerToken(c), "header %q", header)
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	// One token, no refill within the test window.
	limiter := NewGenerationLimiter(0.001, 1)
	router := gin.New()
	router.Use(RateLimitMiddleware(limiter))
	router.GET("/probe", func(c *gin.Context) { c.Status(http.StatusOK) })

	first := httptest.NewRecorder()
	router.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/probe", nil))
	assert.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	router.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/probe", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}

func TestRateLimitMiddleware_NilLimiterDisables(t *testing.T) {
	router := gin.New()
	router.Use(RateLimitMiddleware(nil))
	router.GET("/probe", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 10; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/probe", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestNewGenerationLimiter_Disabled(t *testing.T) {
	assert.Nil(t, NewGenerationLimiter(0, 5))
	assert.Nil(t, NewGenerationLimiter(-1, 5))
}

// recordingAuditLogger captures events for assertions.
type recordingAuditLogger struct {
	mu     sync.Mutex
	events []extensions.AuditEvent
}

func (l *recordingAuditLogger) Log(_ context.Context, event extensions.AuditEvent) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, event)
	return nil
}

func (l *recordingAuditLogger) Flush(_ context.Context) error { return nil }

func TestAuditMiddleware_RecordsMutatingRoutes(t *testing.T) {
	logger := &recordingAuditLogger{}
	router := gin.New()
	router.Use(AuthMiddleware(&extensions.NopAuthProvider{}), AuditMiddleware(logger))
	router.POST("/v1/plc/generate", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/v1/history", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/plc/generate", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/history", nil))
	require.Equal(t, http.StatusOK, w.Code)

	require.Len(t, logger.events, 1, "read-only routes must not be audited")
	event := logger.events[0]
	assert.Equal(t, "plc.generate", event.EventType)
	assert.Equal(t, "local-user", event.UserID)
	assert.Equal(t, "success", event.Outcome)
}

func TestAuditMiddleware_FailureOutcome(t *testing.T) {
	logger := &recordingAuditLogger{}
	router := gin.New()
	router.Use(AuditMiddleware(logger))
	router.POST("/v1/plc/validate", func(c *gin.Context) {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "bad"})
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/plc/validate", nil))

	require.Len(t, logger.events, 1)
	assert.Equal(t, "failure", logger.events[0].Outcome)
	assert.Equal(t, "anonymous", logger.events[0].UserID)
}
