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

import "strings"

// HMI conformance rules.
//
// These are heuristic ISA-101-style checks over generated HTML: they look
// for the presence of the interface elements the operator requirement
// implies, not for well-formed markup. Malformed HTML is out of scope.

// hmiRule differs from the dialect rule shape in that it sees both the
// generated HTML and the requirement text that produced it: several
// checks only apply when the requirement implies a class of element.
type hmiRule struct {
	id       string
	severity Severity
	check    func(html, requirement *codeText) (string, bool)
}

var (
	hmiActionKeywords    = []string{"START", "STOP", "BUTTON", "SWITCH", "TOGGLE", "RESET", "ACKNOWLEDGE"}
	hmiIndicatorKeywords = []string{"TEMPERATURE", "PRESSURE", "LEVEL", "SPEED", "FLOW", "GAUGE", "READING", "VALUE", "DISPLAY"}
	hmiAlarmKeywords     = []string{"ALARM", "FAULT", "WARNING", "EMERGENCY", "TRIP"}

	hmiControlElements   = []string{"<BUTTON", "<INPUT", "<SELECT", "ONCLICK", "ROLE=\"BUTTON\""}
	hmiIndicatorElements = []string{"<METER", "<PROGRESS", "<CANVAS", "<SVG", "<OUTPUT", "GAUGE", "INDICATOR", "<SPAN ID="}
	hmiAlarmHooks        = []string{"ALARM", "CLASS=\"ALARM", "DATA-ALARM", "BLINK", "#FF0000", "RED"}
)

var hmiRules = []hmiRule{
	{
		id:       "HMI001",
		severity: SeverityError,
		check: func(html, _ *codeText) (string, bool) {
			if html.containsAny("<HTML", "<BODY", "<DIV", "<MAIN", "<SECTION") {
				return "", false
			}
			return "no root container element found (expected <html>/<body> or a top-level <div>)", true
		},
	},
	{
		id:       "HMI002",
		severity: SeverityError,
		check: func(html, requirement *codeText) (string, bool) {
			if !requirement.containsAny(hmiActionKeywords...) {
				return "", false
			}
			if html.containsAny(hmiControlElements...) {
				return "", false
			}
			return "requirement implies operator actions but no interactive control element (<button>/<input>) is present", true
		},
	},
	{
		id:       "HMI003",
		severity: SeverityError,
		check: func(html, requirement *codeText) (string, bool) {
			if !requirement.containsAny(hmiIndicatorKeywords...) {
				return "", false
			}
			if html.containsAny(hmiIndicatorElements...) {
				return "", false
			}
			return "requirement implies a measured value but no numeric or graphical indicator element is present", true
		},
	},
	{
		id:       "HMI004",
		severity: SeverityWarning,
		check: func(html, requirement *codeText) (string, bool) {
			if !requirement.containsAny(hmiAlarmKeywords...) {
				return "", false
			}
			if html.containsAny(hmiAlarmHooks...) {
				return "", false
			}
			return "requirement implies alarm conditions but no alarm-state styling hooks found", true
		},
	},
	{
		id:       "HMI005",
		severity: SeverityTip,
		check: func(html, _ *codeText) (string, bool) {
			if html.containsAny("<TITLE", "<H1", "<H2") {
				return "", false
			}
			return "add a page title or heading identifying the process area", true
		},
	},
	{
		id:       "HMI006",
		severity: SeverityTip,
		check: func(html, _ *codeText) (string, bool) {
			if strings.Contains(html.upper, "<STYLE") || strings.Contains(html.upper, "STYLE=") {
				return "", false
			}
			return "inline a stylesheet so the interface renders as a single self-contained document", true
		},
	},
}

// ValidateHMI runs the HMI conformance rules against generated HTML.
//
// # Description
//
// Rules run in table order and each yields at most one finding. Checks
// that depend on operator intent (controls, indicators, alarm hooks)
// match keywords in the requirement text first and stay silent when the
// requirement does not imply the element class.
//
// # Inputs
//   - html: the generated HTML document.
//   - requirement: the operator requirement the document was generated from.
//
// # Outputs
//   - []Finding: findings in rule-table order; empty when fully conformant.
func (e *Engine) ValidateHMI(html string, requirement string) []Finding {
	htmlSrc := newCodeText(html)
	reqSrc := newCodeText(requirement)

	var findings []Finding
	for _, r := range e.hmiRules {
		if msg, violated := r.check(htmlSrc, reqSrc); violated {
			findings = append(findings, Finding{
				RuleID:       r.id,
				Severity:     r.severity,
				Message:      msg,
				DialectScope: "hmi",
			})
		}
	}
	return findings
}
