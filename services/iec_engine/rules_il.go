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

// Instruction List rule table.

// ilMnemonics is the recognized IEC 61131-3 IL instruction set.
var ilMnemonics = map[string]bool{
	"LD": true, "LDN": true, "ST": true, "STN": true,
	"AND": true, "ANDN": true, "OR": true, "ORN": true,
	"XOR": true, "XORN": true, "NOT": true,
	"ADD": true, "SUB": true, "MUL": true, "DIV": true, "MOD": true,
	"GT": true, "GE": true, "EQ": true, "NE": true, "LE": true, "LT": true,
	"JMP": true, "JMPC": true, "JMPCN": true,
	"CAL": true, "CALC": true, "CALCN": true,
	"RET": true, "RETC": true, "RETCN": true,
	"S": true, "R": true,
}

var (
	ilLabelPattern = regexp.MustCompile(`^([A-Za-z_]\w*):`)
	ilJumpPattern  = regexp.MustCompile(`\bJMP(?:C|CN)?\s+(\w+)`)
)

// ilInstructionLines partitions the code into recognized instructions,
// labels, and lines whose leading token is not a known mnemonic.
func ilInstructionLines(src *codeText) (recognized int, labels map[string]bool, unknown []string) {
	labels = make(map[string]bool)
	for _, line := range src.lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "//") ||
			strings.HasPrefix(trimmed, "(*") || strings.HasPrefix(trimmed, ";") {
			continue
		}
		if m := ilLabelPattern.FindStringSubmatch(trimmed); m != nil {
			labels[strings.ToUpper(m[1])] = true
			trimmed = strings.TrimSpace(trimmed[len(m[0]):])
			if trimmed == "" {
				continue
			}
		}
		token := strings.ToUpper(strings.Fields(trimmed)[0])
		if ilMnemonics[token] {
			recognized++
		} else {
			unknown = append(unknown, token)
		}
	}
	return recognized, labels, unknown
}

var ilRules = []rule{
	{
		id:       "IL001",
		severity: SeverityError,
		check: func(src *codeText) (string, bool) {
			recognized, _, _ := ilInstructionLines(src)
			if recognized > 0 {
				return "", false
			}
			return "no recognized IL instructions found", true
		},
	},
	{
		id:       "IL002",
		severity: SeverityError,
		check: func(src *codeText) (string, bool) {
			_, labels, _ := ilInstructionLines(src)
			for _, m := range ilJumpPattern.FindAllStringSubmatch(src.upper, -1) {
				if !labels[m[1]] {
					return fmt.Sprintf("jump target %q has no matching label", m[1]), true
				}
			}
			return "", false
		},
	},
	{
		id:       "IL003",
		severity: SeverityWarning,
		check: func(src *codeText) (string, bool) {
			recognized, _, unknown := ilInstructionLines(src)
			if recognized == 0 || len(unknown) == 0 {
				return "", false
			}
			return fmt.Sprintf("%d line(s) with unrecognized mnemonic prefix (first: %s)", len(unknown), unknown[0]), true
		},
	},
	{
		id:       "IL004",
		severity: SeverityWarning,
		check: func(src *codeText) (string, bool) {
			recognized, _, _ := ilInstructionLines(src)
			if recognized == 0 {
				return "", false
			}
			if strings.Contains(src.upper, "LD") {
				return "", false
			}
			return "no initial accumulator load (LD/LDN) found", true
		},
	},
	{
		id:       "IL005",
		severity: SeverityWarning,
		check: func(src *codeText) (string, bool) {
			if !src.containsAny("SENSOR", "INPUT", "BUTTON") {
				return "", false
			}
			if src.containsAny("_P", "_N", "R_TRIG") {
				return "", false
			}
			return "input operands without edge markers (_P/_N)", true
		},
	},
	{
		id:       "IL006",
		severity: SeverityTip,
		check: func(src *codeText) (string, bool) {
			if strings.Contains(src.raw, "(*") || strings.Contains(src.raw, "//") {
				return "", false
			}
			return "annotate instruction groups with comments; IL reads poorly without them", true
		},
	},
}
