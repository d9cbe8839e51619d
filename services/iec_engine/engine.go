// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package iec_engine is the structural conformance checker for generated
// IEC 61131-3 code and HMI markup.
//
// This is deliberately NOT a parser or compiler. Each dialect owns a
// fixed, ordered table of lightweight rules; each rule inspects the raw
// text and yields at most one Finding. Evaluation order is the table
// order, so re-running the engine on the same input produces an
// identical finding sequence — the report builder relies on that for
// stable output.
//
// Vendor brands layer extra keyword checks (loaded from the embedded
// profile file in the enforcement package) on top of the generic dialect
// rules; they never replace them.
package iec_engine

import (
	"fmt"
	"strings"
)

// =============================================================================
// Rule Model
// =============================================================================

// rule is a single structural check in a dialect's ordered table.
//
// check returns the finding message and true when the rule is violated.
// A rule that passes yields no Finding at all.
type rule struct {
	id       string
	severity Severity
	check    func(src *codeText) (string, bool)
}

// codeText is the shared, precomputed view of the candidate code that
// rules match against. Building it once per Validate call keeps rules
// cheap and side-effect free.
type codeText struct {
	raw   string
	upper string
	lower string
	lines []string
}

func newCodeText(code string) *codeText {
	return &codeText{
		raw:   code,
		upper: strings.ToUpper(code),
		lower: strings.ToLower(code),
		lines: strings.Split(code, "\n"),
	}
}

// containsAny reports whether any of the tokens occurs in the
// upper-cased code.
func (c *codeText) containsAny(tokens ...string) bool {
	for _, t := range tokens {
		if strings.Contains(c.upper, t) {
			return true
		}
	}
	return false
}

// =============================================================================
// Engine
// =============================================================================

// Engine evaluates dialect and HMI rule tables against candidate text.
//
// # Thread Safety
//
// Safe for concurrent use. All state is read-only after New returns;
// Validate and ValidateHMI are pure functions of their inputs.
type Engine struct {
	tables   map[Dialect][]rule
	hmiRules []hmiRule
	vendors  map[Vendor]*VendorProfile
}

// New creates an Engine with the built-in dialect rule tables and the
// vendor profiles embedded in the binary.
//
// # Outputs
//
//   - *Engine: Ready-to-use engine.
//   - error: Non-nil if the embedded vendor profile file is malformed.
func New() (*Engine, error) {
	vendors, err := loadVendorProfiles()
	if err != nil {
		return nil, fmt.Errorf("failed to load vendor profiles: %w", err)
	}
	return &Engine{
		tables: map[Dialect][]rule{
			DialectST:  stRules,
			DialectLD:  ldRules,
			DialectFBD: fbdRules,
			DialectSFC: sfcRules,
			DialectIL:  ilRules,
		},
		hmiRules: hmiRules,
		vendors:  vendors,
	}, nil
}

// Validate inspects candidate code against the rule table registered for
// the dialect, then layers the vendor profile's keyword checks on top.
//
// # Description
//
// Rules run in ascending rule-id order; each yields zero or one Finding.
// The returned sequence is deterministic: validating the same code twice
// produces identical finding lists. Findings are data — a code text that
// trips every rule still validates "successfully" in the sense that no
// error is returned.
//
// # Inputs
//
//   - code: The candidate source text. May be empty or malformed.
//   - dialect: Target dialect. Must be a known Dialect value.
//   - vendor: Target vendor brand. Must be a known Vendor value.
//
// # Outputs
//
//   - []Finding: Ordered findings, possibly empty.
//   - error: *ConfigurationError for an unknown dialect or vendor; this
//     indicates a caller bug and aborts the run.
func (e *Engine) Validate(code string, dialect Dialect, vendor Vendor) ([]Finding, error) {
	table, ok := e.tables[dialect]
	if !ok {
		return nil, &ConfigurationError{Field: "dialect", Value: string(dialect)}
	}
	profile, ok := e.vendors[vendor]
	if !ok {
		return nil, &ConfigurationError{Field: "vendor", Value: string(vendor)}
	}

	src := newCodeText(code)
	var findings []Finding
	for _, r := range table {
		if msg, violated := r.check(src); violated {
			findings = append(findings, Finding{
				RuleID:       r.id,
				Severity:     r.severity,
				Message:      msg,
				DialectScope: string(dialect),
			})
		}
	}

	findings = append(findings, profile.apply(src, dialect)...)
	return findings, nil
}

// VendorProfileFor returns the profile for a vendor brand, for the
// catalog endpoints.
//
// # Outputs
//
//   - *VendorProfile: The profile, or nil if the vendor is unknown.
func (e *Engine) VendorProfileFor(vendor Vendor) *VendorProfile {
	return e.vendors[vendor]
}

// VendorProfiles returns all profiles in canonical vendor order.
func (e *Engine) VendorProfiles() []*VendorProfile {
	profiles := make([]*VendorProfile, 0, len(Vendors))
	for _, v := range Vendors {
		if p, ok := e.vendors[v]; ok {
			profiles = append(profiles, p)
		}
	}
	return profiles
}
