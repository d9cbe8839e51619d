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
	"regexp"
	"strings"
)

// Structured Text rule table.
//
// Ordering is significant: rules run top to bottom and the report
// builder preserves that order inside each severity tier.

var (
	stCounterOpPattern  = regexp.MustCompile(`(?i)(\w*count\w*)\s*:=\s*\w*count\w*\s*[+-]\s*1`)
	stCamelCasePattern  = regexp.MustCompile(`\b[A-Z]+[a-z]+[A-Z][A-Za-z]*\b`)
	stForbiddenKeywords = []struct {
		name    string
		pattern *regexp.Regexp
	}{
		{"WAIT", regexp.MustCompile(`\bWAIT\b`)},
		{"SLEEP", regexp.MustCompile(`\bSLEEP\b`)},
		{"GOTO", regexp.MustCompile(`\bGOTO\b`)},
	}
)

var stRules = []rule{
	{
		id:       "ST001",
		severity: SeverityError,
		check: func(src *codeText) (string, bool) {
			if src.containsAny("PROGRAM", "FUNCTION_BLOCK", "FUNCTION") {
				return "", false
			}
			return "missing PROGRAM, FUNCTION_BLOCK, or FUNCTION declaration", true
		},
	},
	{
		id:       "ST002",
		severity: SeverityError,
		check: func(src *codeText) (string, bool) {
			// Each opened block kind needs its terminator. FUNCTION_BLOCK is
			// checked before FUNCTION so the substring match does not lie.
			switch {
			case strings.Contains(src.upper, "FUNCTION_BLOCK") && !strings.Contains(src.upper, "END_FUNCTION_BLOCK"):
				return "FUNCTION_BLOCK declared but missing END_FUNCTION_BLOCK", true
			case strings.Contains(src.upper, "PROGRAM") && !strings.Contains(src.upper, "END_PROGRAM"):
				return "PROGRAM declared but missing END_PROGRAM", true
			case !strings.Contains(src.upper, "FUNCTION_BLOCK") &&
				strings.Contains(src.upper, "FUNCTION") && !strings.Contains(src.upper, "END_FUNCTION"):
				return "FUNCTION declared but missing END_FUNCTION", true
			}
			return "", false
		},
	},
	{
		id:       "ST003",
		severity: SeverityError,
		check: func(src *codeText) (string, bool) {
			if strings.Contains(src.upper, "VAR") {
				return "", false
			}
			return "missing variable declaration block (VAR ... END_VAR)", true
		},
	},
	{
		id:       "ST004",
		severity: SeverityError,
		check: func(src *codeText) (string, bool) {
			if !strings.Contains(src.upper, "VAR") || strings.Contains(src.upper, "END_VAR") {
				return "", false
			}
			return "VAR section declared but missing END_VAR", true
		},
	},
	{
		id:       "ST005",
		severity: SeverityError,
		check: func(src *codeText) (string, bool) {
			untyped := untypedVarLines(src)
			if untyped == 0 {
				return "", false
			}
			return fmt.Sprintf("%d variable declaration(s) without an explicit IEC type", untyped), true
		},
	},
	{
		id:       "ST006",
		severity: SeverityError,
		check: func(src *codeText) (string, bool) {
			open := strings.Count(src.raw, "(")
			closed := strings.Count(src.raw, ")")
			if open == closed {
				return "", false
			}
			return fmt.Sprintf("parenthesis mismatch: %d open vs %d close", open, closed), true
		},
	},
	{
		id:       "ST007",
		severity: SeverityError,
		check: func(src *codeText) (string, bool) {
			if !strings.Contains(src.upper, "END_VAR") {
				// ST003/ST004 already cover the missing declaration block.
				return "", false
			}
			idx := strings.LastIndex(src.upper, "END_VAR")
			body := src.upper[idx+len("END_VAR"):]
			body = strings.ReplaceAll(body, "END_PROGRAM", "")
			body = strings.ReplaceAll(body, "END_FUNCTION_BLOCK", "")
			body = strings.ReplaceAll(body, "END_FUNCTION", "")
			if len(strings.TrimSpace(body)) >= 5 {
				return "", false
			}
			return "no executable logic found after the variable declarations", true
		},
	},
	{
		id:       "ST008",
		severity: SeverityError,
		check: func(src *codeText) (string, bool) {
			for _, kw := range stForbiddenKeywords {
				if kw.pattern.MatchString(src.upper) {
					return fmt.Sprintf("%s is not part of IEC 61131-3 ST; use timers and structured control flow instead", kw.name), true
				}
			}
			return "", false
		},
	},
	{
		id:       "ST009",
		severity: SeverityWarning,
		check: func(src *codeText) (string, bool) {
			if !src.containsAny("SENSOR", "INPUT", "BUTTON", "SWITCH") {
				return "", false
			}
			if src.containsAny("R_TRIG", "F_TRIG", "RISING_EDGE") {
				return "", false
			}
			return "input signals detected but no edge detection (R_TRIG) found; raw inputs may trigger once per scan", true
		},
	},
	{
		id:       "ST010",
		severity: SeverityWarning,
		check: func(src *codeText) (string, bool) {
			if !stCounterOpPattern.MatchString(src.raw) {
				return "", false
			}
			// A guarded counter carries a relational check somewhere; the
			// heuristic accepts any bound comparison in the program.
			if strings.Contains(src.raw, "<") || strings.Contains(src.raw, ">") {
				return "", false
			}
			return "counter increment/decrement without a boundary guard; guard the operation before it runs", true
		},
	},
	{
		id:       "ST011",
		severity: SeverityWarning,
		check: func(src *codeText) (string, bool) {
			if strings.Contains(src.raw, ":=") {
				return "", false
			}
			return "no variable initialization found; variables should carry safe defaults", true
		},
	},
	{
		id:       "ST012",
		severity: SeverityWarning,
		check: func(src *codeText) (string, bool) {
			if strings.Count(src.raw, "'")%2 == 0 {
				return "", false
			}
			return "odd number of single quotes; possible unterminated string literal", true
		},
	},
	{
		id:       "ST013",
		severity: SeverityTip,
		check: func(src *codeText) (string, bool) {
			// Only names declared inside VAR ... END_VAR count; the
			// PROGRAM header naming convention is a different concern.
			start := strings.Index(src.upper, "VAR")
			end := strings.Index(src.upper, "END_VAR")
			if start < 0 || end < start {
				return "", false
			}
			names := stCamelCasePattern.FindAllString(src.raw[start:end], 3)
			if len(names) == 0 {
				return "", false
			}
			return fmt.Sprintf("consider snake_case for variable names (found %s)", strings.Join(names, ", ")), true
		},
	},
	{
		id:       "ST014",
		severity: SeverityTip,
		check: func(src *codeText) (string, bool) {
			nonEmpty := 0
			for _, line := range src.lines {
				if strings.TrimSpace(line) != "" {
					nonEmpty++
				}
			}
			comments := strings.Count(src.raw, "(*")
			if nonEmpty <= 20 || comments >= 2 {
				return "", false
			}
			return "long program with few comments; add brief comments for non-obvious logic", true
		},
	},
}

// untypedVarLines counts declaration lines inside VAR ... END_VAR that
// carry no ':' type annotation. Comment-only lines are skipped.
func untypedVarLines(src *codeText) int {
	upper := src.upper
	start := strings.Index(upper, "VAR")
	end := strings.Index(upper, "END_VAR")
	if start < 0 || end < 0 || end <= start {
		return 0
	}
	section := src.raw[start:end]
	lines := strings.Split(section, "\n")
	count := 0
	for i, line := range lines {
		if i == 0 {
			continue // The VAR keyword line itself.
		}
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "(*") || strings.HasPrefix(trimmed, "//") {
			continue
		}
		if !strings.Contains(trimmed, ":") {
			count++
		}
	}
	return count
}
