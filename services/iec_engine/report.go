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

import (
	"fmt"
	"strings"
)

// =============================================================================
// Validation Report
// =============================================================================

// ValidationReport is the aggregated outcome of one validation pass.
//
// Findings are ordered errors, then warnings, then tips, each group
// preserving the rule-evaluation order. Validated is derived: it is
// false iff at least one error-severity finding exists. The report is
// immutable once built.
type ValidationReport struct {
	Findings    []Finding `json:"findings"`
	Validated   bool      `json:"validated"`
	Explanation string    `json:"explanation"`
}

// BuildReport partitions findings by severity and derives the verdict.
//
// # Description
//
// The input sequence is the validator's evaluation order; the output
// concatenates the error, warning, and tip partitions in that order,
// each partition keeping its relative order. The explanation narrative
// is a pure function of the finding counts and the dialect/vendor
// context; it never re-runs validation.
//
// # Inputs
//
//   - findings: Validator output, in evaluation order.
//   - dialect: Dialect label for the explanation (e.g. "st", "hmi").
//   - vendorName: Human-readable vendor name, or "" for the HMI path.
//
// # Outputs
//
//   - ValidationReport: Severity-ordered findings, verdict, narrative.
func BuildReport(findings []Finding, dialect string, vendorName string) ValidationReport {
	ordered := make([]Finding, 0, len(findings))
	counts := map[Severity]int{}
	for _, sev := range []Severity{SeverityError, SeverityWarning, SeverityTip} {
		for _, f := range findings {
			if f.Severity == sev {
				ordered = append(ordered, f)
				counts[sev]++
			}
		}
	}

	return ValidationReport{
		Findings:    ordered,
		Validated:   counts[SeverityError] == 0,
		Explanation: explain(ordered, counts, dialect, vendorName),
	}
}

// WireFindings renders the ordered findings as severity-prefixed strings
// for the HTTP boundary. The prefix characters are a wire-format detail;
// internal code always works with the Severity type.
func (r *ValidationReport) WireFindings() []string {
	out := make([]string, len(r.Findings))
	for i, f := range r.Findings {
		out[i] = fmt.Sprintf("%s [%s] %s", f.Severity.WirePrefix(), f.RuleID, f.Message)
	}
	return out
}

// explain builds the deterministic narrative for a report.
func explain(ordered []Finding, counts map[Severity]int, dialect string, vendorName string) string {
	var b strings.Builder

	target := strings.ToUpper(dialect)
	if vendorName != "" {
		target += " / " + vendorName
	}

	if len(ordered) == 0 {
		fmt.Fprintf(&b, "No issues found. The %s artifact passed all structural checks.", target)
		return b.String()
	}

	fmt.Fprintf(&b, "%d issue(s) found for %s: %d error(s), %d warning(s), %d tip(s).",
		len(ordered), target,
		counts[SeverityError], counts[SeverityWarning], counts[SeverityTip])
	for _, f := range ordered {
		fmt.Fprintf(&b, "\n- [%s] %s: %s", f.RuleID, f.Severity, f.Message)
	}
	if counts[SeverityError] > 0 {
		b.WriteString("\nResolve the error-severity findings before deploying this artifact.")
	}
	return b.String()
}
