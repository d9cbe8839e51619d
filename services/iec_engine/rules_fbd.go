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

import "regexp"

// Function Block Diagram rule table.

var (
	fbdBlockPattern      = regexp.MustCompile(`(\w+)\s*:\s*(AND|OR|XOR|NOT|TON|TOF|TP|CTU|CTD|CTUD|RS|SR|ADD|SUB|MUL|DIV|GT|LT|GE|LE|EQ|NE)\b`)
	fbdConnectionPattern = regexp.MustCompile(`->|=>|:=|;`)
	fbdInputPattern      = regexp.MustCompile(`(?i)\bVAR_INPUT\b|\bINPUT\b|\bIN\b|->`)
	fbdOutputPattern     = regexp.MustCompile(`(?i)\bVAR_OUTPUT\b|\bOUTPUT\b|\bOUT\b|\bQ\b`)
	fbdCounterPattern    = regexp.MustCompile(`\bCTU\b|\bCTD\b|\bCTUD\b`)
	fbdTypePattern       = regexp.MustCompile(`\b(BOOL|INT|DINT|REAL|TIME|WORD)\b`)
)

var fbdRules = []rule{
	{
		id:       "FBD001",
		severity: SeverityError,
		check: func(src *codeText) (string, bool) {
			if fbdBlockPattern.MatchString(src.upper) || src.containsAny("FUNCTION_BLOCK", "VAR_EXTERNAL") {
				return "", false
			}
			return "no function block instances declared", true
		},
	},
	{
		id:       "FBD002",
		severity: SeverityError,
		check: func(src *codeText) (string, bool) {
			if fbdConnectionPattern.MatchString(src.raw) {
				return "", false
			}
			return "no block connections found; every referenced block needs wired inputs and outputs", true
		},
	},
	{
		id:       "FBD003",
		severity: SeverityError,
		check: func(src *codeText) (string, bool) {
			if fbdInputPattern.MatchString(src.raw) {
				return "", false
			}
			return "no input connections declared", true
		},
	},
	{
		id:       "FBD004",
		severity: SeverityError,
		check: func(src *codeText) (string, bool) {
			if fbdOutputPattern.MatchString(src.raw) {
				return "", false
			}
			return "no output connections declared", true
		},
	},
	{
		id:       "FBD005",
		severity: SeverityWarning,
		check: func(src *codeText) (string, bool) {
			if !fbdCounterPattern.MatchString(src.upper) {
				return "", false
			}
			if src.containsAny("R_TRIG", "F_TRIG") {
				return "", false
			}
			return "counter block without an edge-detection block on its count input", true
		},
	},
	{
		id:       "FBD006",
		severity: SeverityWarning,
		check: func(src *codeText) (string, bool) {
			if fbdTypePattern.MatchString(src.upper) {
				return "", false
			}
			return "no IEC type declarations found", true
		},
	},
}
