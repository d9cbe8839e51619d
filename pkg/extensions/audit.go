// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package extensions

import (
	"context"
	"log/slog"
	"time"
)

// AuditEvent represents a security-relevant event for compliance logging.
//
// # Event Categories
//
// Events are categorized by type for filtering and alerting:
//   - Generation: "plc.generate", "hmi.generate"
//   - Validation: "plc.validate"
//   - History: "history.clear"
//
// For regulatory compliance, always populate UserID and Timestamp.
type AuditEvent struct {
	// EventType categorizes the event for filtering and alerting.
	// Format: "category.action" (e.g., "plc.generate")
	EventType string

	// Timestamp is when the event occurred (always use UTC).
	// If zero, implementations should set to time.Now().UTC().
	Timestamp time.Time

	// UserID identifies who performed the action.
	// Use "system" for automated actions, "anonymous" if unknown.
	UserID string

	// Action describes what operation was attempted.
	// Common values: "create", "read", "delete"
	Action string

	// ResourceType is the category of resource involved.
	// Examples: "artifact", "history"
	ResourceType string

	// ResourceID is the specific resource instance (optional).
	ResourceID string

	// Outcome indicates the result of the action.
	// Values: "success", "failure", "blocked", "error"
	Outcome string

	// Metadata holds additional event-specific data, such as the
	// target dialect and vendor or the client IP.
	Metadata map[string]any
}

// AuditLogger records security-relevant events for compliance and analysis.
//
// Implementations must be safe for concurrent use. Log should be
// non-blocking or have reasonable timeouts to avoid impacting request
// latency.
//
// # Open Source Behavior
//
// The default NopAuditLogger discards all events. SlogAuditLogger is
// available when a local audit trail in the service log is wanted.
//
// # Enterprise Implementation
//
// Enterprise versions send events to SIEM systems (Splunk, Datadog,
// ELK) or compliance databases.
type AuditLogger interface {
	// Log records a security-relevant event.
	//
	// Implementations should set Timestamp if zero and return quickly.
	Log(ctx context.Context, event AuditEvent) error

	// Flush ensures all buffered events are persisted. Call before
	// shutdown. For sync implementations this may be a no-op.
	Flush(ctx context.Context) error
}

// NopAuditLogger is the default audit logger for open source.
// It discards all events without recording them.
//
// Thread-safe: this implementation has no mutable state.
type NopAuditLogger struct{}

// Log discards the event without recording it.
func (l *NopAuditLogger) Log(_ context.Context, _ AuditEvent) error {
	return nil
}

// Flush is a no-op since nothing is buffered.
func (l *NopAuditLogger) Flush(_ context.Context) error {
	return nil
}

// SlogAuditLogger writes audit events to the process log via slog.
// Suitable for single-node deployments that want a greppable audit
// trail without SIEM infrastructure.
type SlogAuditLogger struct{}

// Log writes the event at info level.
func (l *SlogAuditLogger) Log(_ context.Context, event AuditEvent) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	slog.Info("Audit event",
		"event_type", event.EventType,
		"timestamp", event.Timestamp,
		"user_id", event.UserID,
		"action", event.Action,
		"resource_type", event.ResourceType,
		"resource_id", event.ResourceID,
		"outcome", event.Outcome,
		"metadata", event.Metadata,
	)
	return nil
}

// Flush is a no-op; slog writes synchronously.
func (l *SlogAuditLogger) Flush(_ context.Context) error {
	return nil
}

var (
	_ AuditLogger = (*NopAuditLogger)(nil)
	_ AuditLogger = (*SlogAuditLogger)(nil)
)
