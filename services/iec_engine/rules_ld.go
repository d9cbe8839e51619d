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

// Ladder Diagram rule table.
//
// LD artifacts arrive either as textual networks (NETWORK blocks with
// LD/AND/OR/ST instructions) or as ASCII rung art (|--[ ]--( )--|); the
// rules accept both representations.

var (
	ldNetworkPattern   = regexp.MustCompile(`(?i)NETWORK|//\s*Network`)
	ldContactPattern   = regexp.MustCompile(`\bLD[NP]?\b|\bAND[NP]?\b|\bOR[NP]?\b|\[\s*/?\s*]|\|\s*/?\s*\|`)
	ldCoilPattern      = regexp.MustCompile(`\bST\b|\bS\b|\bR\b|\(\s*[SR]?\s*\)`)
	ldEdgePattern      = regexp.MustCompile(`\bR_TRIG\b|\bF_TRIG\b|_[pf]\b|\b[PN]1?\b`)
	ldTimerCtrPattern  = regexp.MustCompile(`\bTON\b|\bTOF\b|\bTP\b|\bCTU\b|\bCTD\b|\bCNT\b`)
	ldCommentedNetwork = regexp.MustCompile(`(?i)//|\(\*`)
)

var ldRules = []rule{
	{
		id:       "LD001",
		severity: SeverityError,
		check: func(src *codeText) (string, bool) {
			if ldNetworkPattern.MatchString(src.raw) || strings.Contains(src.raw, "|") {
				return "", false
			}
			return "no rung or NETWORK construct found", true
		},
	},
	{
		id:       "LD002",
		severity: SeverityError,
		check: func(src *codeText) (string, bool) {
			if ldContactPattern.MatchString(src.upper) {
				return "", false
			}
			return "no ladder contacts (LD/AND/OR instructions or contact symbols) found", true
		},
	},
	{
		id:       "LD003",
		severity: SeverityError,
		check: func(src *codeText) (string, bool) {
			// Every rung flows into a terminating element; with no coil
			// anywhere the diagram drives nothing.
			if ldCoilPattern.MatchString(src.upper) {
				return "", false
			}
			return "no terminating coil element (ST instruction or coil symbol) found", true
		},
	},
	{
		id:       "LD004",
		severity: SeverityWarning,
		check: func(src *codeText) (string, bool) {
			if !src.containsAny("SENSOR", "INPUT", "BUTTON", "SWITCH") {
				return "", false
			}
			if ldEdgePattern.MatchString(src.raw) {
				return "", false
			}
			return "input contacts without edge markers (P/F or _p/_f); level-triggered inputs repeat every scan", true
		},
	},
	{
		id:       "LD005",
		severity: SeverityWarning,
		check: func(src *codeText) (string, bool) {
			if !ldTimerCtrPattern.MatchString(src.upper) {
				return "", false
			}
			if ldNetworkPattern.MatchString(src.raw) {
				return "", false
			}
			return "timer/counter blocks present but no NETWORK structure around them", true
		},
	},
	{
		id:       "LD006",
		severity: SeverityTip,
		check: func(src *codeText) (string, bool) {
			if ldCommentedNetwork.MatchString(src.raw) {
				return "", false
			}
			return "label each rung with a short comment describing its purpose", true
		},
	},
}
