// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package iec_engine

import "fmt"

// Severity classifies a validation finding.
//
// # Description
//
// Three tiers are supported. Only SeverityError blocks the overall
// validity verdict; warnings and tips are advisory.
//
// Severity is the internal representation. The prefixed wire markers
// expected by existing clients ("❌", "⚠️", "💡") are produced only at
// the HTTP boundary via WirePrefix.
type Severity string

const (
	// SeverityError marks a missing mandatory structural element.
	// Any error finding makes the report invalid.
	SeverityError Severity = "error"

	// SeverityWarning marks a stylistic or best-practice deviation
	// that does not block validity.
	SeverityWarning Severity = "warning"

	// SeverityTip marks a suggestion with no conformance impact.
	SeverityTip Severity = "tip"
)

// rank orders severities for report partitioning: errors, warnings, tips.
func (s Severity) rank() int {
	switch s {
	case SeverityError:
		return 0
	case SeverityWarning:
		return 1
	case SeverityTip:
		return 2
	default:
		return 3
	}
}

// WirePrefix returns the severity marker used in the warning strings of
// the external response contract.
func (s Severity) WirePrefix() string {
	switch s {
	case SeverityError:
		return "❌"
	case SeverityWarning:
		return "⚠️"
	case SeverityTip:
		return "💡"
	default:
		return "•"
	}
}

// Finding is a single structural-conformance observation produced by a
// validator rule.
//
// # Description
//
// Findings are data, never exceptions: they are attached to a completed
// run and returned to the caller alongside the artifact. A rule yields
// zero or one Finding; findings are never mutated after creation.
type Finding struct {
	// RuleID identifies the rule that produced the finding, e.g. "ST003".
	RuleID string `json:"rule_id"`

	// Severity is the finding's tier (error, warning, tip).
	Severity Severity `json:"severity"`

	// Message is the human-readable description of the observation.
	Message string `json:"message"`

	// DialectScope names the dialect (or "HMI") the rule belongs to.
	DialectScope string `json:"dialect_scope"`
}

// String renders the finding in rule-id-first form for logs and tests.
func (f Finding) String() string {
	return fmt.Sprintf("[%s/%s] %s", f.RuleID, f.Severity, f.Message)
}

// ConfigurationError reports an unknown dialect or vendor value.
//
// # Description
//
// This is a caller/integration bug, not a validation outcome: it aborts
// the run and never appears as a Finding.
type ConfigurationError struct {
	// Field is the offending parameter name ("dialect" or "vendor").
	Field string

	// Value is the unrecognized input value.
	Value string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("unsupported %s: %q", e.Field, e.Value)
}
