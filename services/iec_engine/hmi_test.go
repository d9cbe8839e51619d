// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package iec_engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const conformantHMI = `<!DOCTYPE html>
<html>
<head><title>Tank Station</title>
<style>.alarm { background: red; }</style>
</head>
<body>
<h1>Tank Station</h1>
<button id="start">Start</button>
<button id="stop">Stop</button>
<meter id="temperature" min="0" max="120" value="20"></meter>
</body>
</html>`

// TestValidateHMI_ConformantDocument covers the start/stop-buttons plus
// temperature-gauge scenario: no error findings, so the report built
// from these findings validates.
func TestValidateHMI_ConformantDocument(t *testing.T) {
	eng := newTestEngine(t)

	findings := eng.ValidateHMI(conformantHMI,
		"start and stop buttons with a temperature gauge")
	assert.Zero(t, errorCount(findings), "got %v", findingIDs(findings))

	report := BuildReport(findings, "hmi", "")
	assert.True(t, report.Validated)
}

// TestValidateHMI_MissingRootContainer verifies HMI001.
func TestValidateHMI_MissingRootContainer(t *testing.T) {
	eng := newTestEngine(t)

	findings := eng.ValidateHMI("<p>hello</p>", "show a welcome page")
	require.True(t, hasRule(findings, "HMI001"), "got %v", findingIDs(findings))
	for _, f := range findings {
		if f.RuleID == "HMI001" {
			assert.Equal(t, SeverityError, f.Severity)
			assert.Equal(t, "hmi", f.DialectScope)
		}
	}
}

// TestValidateHMI_ControlElementRequired verifies that HMI002 fires
// only when the requirement implies operator action.
func TestValidateHMI_ControlElementRequired(t *testing.T) {
	eng := newTestEngine(t)
	passive := `<html><body><div>Line overview</div></body></html>`

	// Requirement implies a button; the document has none.
	findings := eng.ValidateHMI(passive, "a start button for the conveyor")
	assert.True(t, hasRule(findings, "HMI002"), "got %v", findingIDs(findings))

	// Purely informational requirement; same document passes the rule.
	findings = eng.ValidateHMI(passive, "an overview page for the line")
	assert.False(t, hasRule(findings, "HMI002"), "got %v", findingIDs(findings))
}

// TestValidateHMI_IndicatorRequired verifies HMI003 keyed on measured
// values in the requirement.
func TestValidateHMI_IndicatorRequired(t *testing.T) {
	eng := newTestEngine(t)
	noIndicator := `<html><body><button>Start</button></body></html>`

	findings := eng.ValidateHMI(noIndicator, "start button and a pressure reading")
	assert.True(t, hasRule(findings, "HMI003"), "got %v", findingIDs(findings))
}

// TestValidateHMI_AlarmHooks verifies the HMI004 warning.
func TestValidateHMI_AlarmHooks(t *testing.T) {
	eng := newTestEngine(t)
	noAlarm := `<html><body><div>panel</div></body></html>`

	findings := eng.ValidateHMI(noAlarm, "show an alarm banner when the tank overflows")
	require.True(t, hasRule(findings, "HMI004"), "got %v", findingIDs(findings))
	for _, f := range findings {
		if f.RuleID == "HMI004" {
			assert.Equal(t, SeverityWarning, f.Severity)
		}
	}
}

// TestValidateHMI_Deterministic mirrors the dialect determinism check.
func TestValidateHMI_Deterministic(t *testing.T) {
	eng := newTestEngine(t)
	doc := "<div>bare</div>"
	req := "start button, temperature display, alarm banner"

	first := eng.ValidateHMI(doc, req)
	require.NotEmpty(t, first)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, eng.ValidateHMI(doc, req))
	}
}
