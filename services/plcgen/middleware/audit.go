// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/AleutianPLC/pkg/extensions"
)

// auditEventTypes maps mutating routes to audit event types. Read-only
// routes (catalog, history listing, downloads) are not audited.
var auditEventTypes = map[string]string{
	http.MethodPost + " /v1/plc/generate": "plc.generate",
	http.MethodPost + " /v1/plc/validate": "plc.validate",
	http.MethodPost + " /v1/hmi/generate": "hmi.generate",
	http.MethodDelete + " /v1/history":    "history.clear",
}

// AuditMiddleware records one audit event per mutating request after
// the handler completes. Audit failures are logged and never fail the
// request.
func AuditMiddleware(logger extensions.AuditLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		eventType, audited := auditEventTypes[c.Request.Method+" "+c.FullPath()]
		c.Next()
		if !audited || logger == nil {
			return
		}

		userID := "anonymous"
		if info := GetAuthInfo(c); info != nil {
			userID = info.UserID
		}
		outcome := "success"
		if c.Writer.Status() >= http.StatusBadRequest {
			outcome = "failure"
		}

		event := extensions.AuditEvent{
			EventType: eventType,
			Timestamp: time.Now().UTC(),
			UserID:    userID,
			Action:    c.Request.Method,
			Outcome:   outcome,
			Metadata: map[string]any{
				"path":       c.Request.URL.Path,
				"status":     c.Writer.Status(),
				"ip_address": c.ClientIP(),
			},
		}
		if err := logger.Log(c.Request.Context(), event); err != nil {
			slog.Warn("Failed to record audit event", "event_type", eventType, "error", err)
		}
	}
}
