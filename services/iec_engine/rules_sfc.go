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
	"regexp"
	"strings"
)

// Sequential Function Chart rule table.

var (
	sfcStepPattern       = regexp.MustCompile(`\bSTEP\s+\w+|\bS\d+\b`)
	sfcTransitionPattern = regexp.MustCompile(`\bTRANSITION\b|\bT\d+\b|->`)
	sfcInitialPattern    = regexp.MustCompile(`\bINITIAL_STEP\b|\bINITIAL\s+STEP\b|\bS0\b|\bSTEP\s+0\b`)
	sfcActionPattern     = regexp.MustCompile(`\bACTION\s+\w+`)
)

var sfcRules = []rule{
	{
		id:       "SFC001",
		severity: SeverityError,
		check: func(src *codeText) (string, bool) {
			if sfcStepPattern.MatchString(src.upper) {
				return "", false
			}
			return "no STEP definitions found", true
		},
	},
	{
		id:       "SFC002",
		severity: SeverityError,
		check: func(src *codeText) (string, bool) {
			if !sfcStepPattern.MatchString(src.upper) {
				// SFC001 already reported the missing steps.
				return "", false
			}
			if sfcTransitionPattern.MatchString(src.upper) {
				return "", false
			}
			return "steps defined but no transitions; every step needs at least one outgoing transition", true
		},
	},
	{
		id:       "SFC003",
		severity: SeverityError,
		check: func(src *codeText) (string, bool) {
			if sfcInitialPattern.MatchString(src.upper) {
				return "", false
			}
			return "no initial step marked", true
		},
	},
	{
		id:       "SFC004",
		severity: SeverityError,
		check: func(src *codeText) (string, bool) {
			if strings.Contains(src.upper, "END_SFC") {
				return "", false
			}
			return "missing END_SFC", true
		},
	},
	{
		id:       "SFC005",
		severity: SeverityWarning,
		check: func(src *codeText) (string, bool) {
			if !sfcActionPattern.MatchString(src.upper) {
				return "", false
			}
			if strings.Contains(src.raw, ":=") {
				return "", false
			}
			return "ACTION blocks present but no variable assignments inside them", true
		},
	},
	{
		id:       "SFC006",
		severity: SeverityTip,
		check: func(src *codeText) (string, bool) {
			if src.containsAny("TON", "TIMEOUT") {
				return "", false
			}
			return "add timeout supervision so a stuck step cannot hold the sequence forever", true
		},
	},
}
