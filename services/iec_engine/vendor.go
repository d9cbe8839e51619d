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

	"github.com/AleutianAI/AleutianPLC/services/iec_engine/enforcement"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// Vendor Profile Model
// =============================================================================

// VendorRuleKind selects how a vendor keyword rule matches.
type VendorRuleKind string

const (
	// VendorRuleForbidden fires when ANY listed token is present.
	VendorRuleForbidden VendorRuleKind = "forbidden"

	// VendorRuleRecommended fires when NONE of the listed tokens is present.
	VendorRuleRecommended VendorRuleKind = "recommended"
)

// UnmarshalYAML rejects unknown rule kinds at load time so a bad profile
// file fails engine construction instead of silently matching nothing.
func (k *VendorRuleKind) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	incoming := VendorRuleKind(s)
	switch incoming {
	case VendorRuleForbidden, VendorRuleRecommended:
		*k = incoming
		return nil
	default:
		return fmt.Errorf("invalid value for vendor rule kind: %q", incoming)
	}
}

// UnmarshalYAML rejects unknown severities in vendor profile files.
func (s *Severity) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	incoming := Severity(raw)
	switch incoming {
	case SeverityError, SeverityWarning, SeverityTip:
		*s = incoming
		return nil
	default:
		return fmt.Errorf("invalid value for severity: %q", incoming)
	}
}

// VendorRule is a keyword check layered on top of a dialect's generic
// rule table by a vendor profile.
type VendorRule struct {
	ID       string         `yaml:"id"`
	Dialect  Dialect        `yaml:"dialect"`
	Severity Severity       `yaml:"severity"`
	Kind     VendorRuleKind `yaml:"kind"`
	Tokens   []string       `yaml:"tokens"`
	Message  string         `yaml:"message"`
}

// VendorProfile describes one PLC brand: which dialects it supports and
// the keyword rules it adds on top of the generic tables.
type VendorProfile struct {
	ID            Vendor       `yaml:"id"`
	Name          string       `yaml:"name"`
	Dialects      []Dialect    `yaml:"dialects"`
	TimerFormat   string       `yaml:"timer_format"`
	EdgeDetection string       `yaml:"edge_detection"`
	Notes         []string     `yaml:"notes"`
	Rules         []VendorRule `yaml:"rules"`
}

// Supports reports whether the profile lists the dialect.
func (p *VendorProfile) Supports(dialect Dialect) bool {
	for _, d := range p.Dialects {
		if d == dialect {
			return true
		}
	}
	return false
}

// apply evaluates the profile against the candidate code.
//
// # Description
//
// An unsupported dialect for the brand yields a single error finding
// (rule VEN001); the profile's keyword rules then run in file order.
// Vendor findings always come after the generic dialect findings, so
// the combined sequence stays deterministic.
func (p *VendorProfile) apply(src *codeText, dialect Dialect) []Finding {
	var findings []Finding

	if !p.Supports(dialect) {
		supported := make([]string, len(p.Dialects))
		for i, d := range p.Dialects {
			supported[i] = string(d)
		}
		findings = append(findings, Finding{
			RuleID:   "VEN001",
			Severity: SeverityError,
			Message: fmt.Sprintf("%s does not support %s (supported: %s)",
				p.Name, dialect, strings.Join(supported, ", ")),
			DialectScope: string(dialect),
		})
	}

	for _, r := range p.Rules {
		if r.Dialect != "" && r.Dialect != dialect {
			continue
		}
		if msg, violated := r.evaluate(src); violated {
			findings = append(findings, Finding{
				RuleID:       r.ID,
				Severity:     r.Severity,
				Message:      msg,
				DialectScope: string(dialect),
			})
		}
	}
	return findings
}

// evaluate runs a single keyword rule against the code. Matching is
// case-insensitive over the upper-cased source.
func (r *VendorRule) evaluate(src *codeText) (string, bool) {
	present := false
	for _, token := range r.Tokens {
		if strings.Contains(src.upper, strings.ToUpper(token)) {
			present = true
			break
		}
	}
	switch r.Kind {
	case VendorRuleForbidden:
		if present {
			return r.Message, true
		}
	case VendorRuleRecommended:
		if !present {
			return r.Message, true
		}
	}
	return "", false
}

// =============================================================================
// Profile Loading
// =============================================================================

// vendorProfileFile is the top-level shape of the embedded YAML.
type vendorProfileFile struct {
	Vendors []*VendorProfile `yaml:"vendors"`
}

// loadVendorProfiles parses the vendor profiles embedded in the binary.
//
// The profile set must cover every Vendor constant; a gap means the
// binary shipped with a broken profile file, so construction fails.
func loadVendorProfiles() (map[Vendor]*VendorProfile, error) {
	var file vendorProfileFile
	if err := yaml.Unmarshal(enforcement.VendorProfiles, &file); err != nil {
		return nil, fmt.Errorf("failed to unmarshal the embedded profile file: %w", err)
	}

	profiles := make(map[Vendor]*VendorProfile, len(file.Vendors))
	for _, p := range file.Vendors {
		if _, dup := profiles[p.ID]; dup {
			return nil, fmt.Errorf("duplicate vendor profile: %s", p.ID)
		}
		profiles[p.ID] = p
	}

	for _, v := range Vendors {
		if _, ok := profiles[v]; !ok {
			return nil, fmt.Errorf("missing vendor profile: %s", v)
		}
	}
	return profiles, nil
}
