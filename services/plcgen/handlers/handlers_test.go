// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/AleutianPLC/pkg/extensions"
	"github.com/AleutianAI/AleutianPLC/services/iec_engine"
	"github.com/AleutianAI/AleutianPLC/services/llm"
	"github.com/AleutianAI/AleutianPLC/services/plcgen/artifacts"
	"github.com/AleutianAI/AleutianPLC/services/plcgen/datatypes"
	"github.com/AleutianAI/AleutianPLC/services/plcgen/history"
	"github.com/AleutianAI/AleutianPLC/services/plcgen/pipeline"
	"github.com/AleutianAI/AleutianPLC/services/plcgen/routes"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// scriptedLLM returns a fixed output or error.
type scriptedLLM struct {
	output string
	err    error
	block  bool
}

func (m *scriptedLLM) Generate(ctx context.Context, _ llm.Prompt, _ llm.GenerationParams) (string, error) {
	if m.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if m.err != nil {
		return "", m.err
	}
	return m.output, nil
}

const conformantST = `PROGRAM PumpControl
VAR
    pressure_low : BOOL;
    pump_on : BOOL;
    low_trig : R_TRIG;
END_VAR
low_trig(CLK := pressure_low);
IF low_trig.Q THEN
    pump_on := TRUE;
END_IF;
END_PROGRAM`

// newTestServer wires a full route tree around the scripted backend.
func newTestServer(t *testing.T, mock *scriptedLLM, timeout time.Duration) (*gin.Engine, *history.Store, *artifacts.Store) {
	t.Helper()

	eng, err := iec_engine.New()
	require.NoError(t, err)

	store, err := artifacts.Open("")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	hist := history.NewStore()
	p := pipeline.New(mock, eng, hist, store, timeout)

	router := gin.New()
	routes.SetupRoutes(router, routes.Deps{
		Pipeline:  p,
		Engine:    eng,
		History:   hist,
		Artifacts: store,
		Options:   extensions.DefaultOptions(),
	})
	return router, hist, store
}

func postJSON(t *testing.T, router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func getPath(router *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

// =============================================================================
// Generation
// =============================================================================

func TestGenerate_Success(t *testing.T) {
	router, hist, _ := newTestServer(t, &scriptedLLM{output: conformantST}, time.Second)

	w := postJSON(t, router, "/v1/plc/generate", datatypes.GenerateRequest{
		Requirement: "turn pump on when pressure is low",
		Language:    "st",
		PLCBrand:    "siemens",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp datatypes.GenerateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, conformantST, resp.Code)
	assert.Equal(t, "ST", resp.Language)
	assert.Equal(t, "text", resp.Format)
	assert.True(t, resp.Validated, "explanation: %s", resp.Explanation)
	assert.NotEmpty(t, resp.ResultID)
	assert.Contains(t, resp.Explanation, "Siemens SIMATIC")

	_, err := time.Parse(time.RFC3339, resp.Timestamp)
	assert.NoError(t, err, "timestamp must be RFC3339")

	assert.Equal(t, 1, hist.Len())
}

func TestGenerate_DefaultsToSTGeneric(t *testing.T) {
	router, _, _ := newTestServer(t, &scriptedLLM{output: conformantST}, time.Second)

	w := postJSON(t, router, "/v1/plc/generate", gin.H{
		"requirement": "start and stop a conveyor",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp datatypes.GenerateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ST", resp.Language)
}

func TestGenerate_WarningsCarryWirePrefixes(t *testing.T) {
	// Output with no program block and no VAR section trips error rules.
	router, _, _ := newTestServer(t, &scriptedLLM{output: "pump_on := TRUE;"}, time.Second)

	w := postJSON(t, router, "/v1/plc/generate", datatypes.GenerateRequest{
		Requirement: "turn pump on",
	})
	require.Equal(t, http.StatusOK, w.Code, "findings are data, not failures")

	var resp datatypes.GenerateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Validated)
	require.NotEmpty(t, resp.Warnings)
	hasError := false
	for _, warning := range resp.Warnings {
		prefixed := strings.HasPrefix(warning, "❌") ||
			strings.HasPrefix(warning, "⚠️") ||
			strings.HasPrefix(warning, "💡")
		assert.True(t, prefixed, "unprefixed warning: %q", warning)
		if strings.HasPrefix(warning, "❌") {
			hasError = true
		}
	}
	assert.True(t, hasError)
}

func TestGenerate_EmptyRequirement(t *testing.T) {
	router, hist, _ := newTestServer(t, &scriptedLLM{output: conformantST}, time.Second)

	w := postJSON(t, router, "/v1/plc/generate", gin.H{"requirement": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, hist.Len())
}

func TestGenerate_UnknownLanguage(t *testing.T) {
	router, _, _ := newTestServer(t, &scriptedLLM{output: conformantST}, time.Second)

	w := postJSON(t, router, "/v1/plc/generate", datatypes.GenerateRequest{
		Requirement: "anything",
		Language:    "COBOL",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp datatypes.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Detail, "COBOL")
}

func TestGenerate_BackendFailure(t *testing.T) {
	router, _, _ := newTestServer(t, &scriptedLLM{err: fmt.Errorf("upstream 503")}, time.Second)

	w := postJSON(t, router, "/v1/plc/generate", datatypes.GenerateRequest{
		Requirement: "anything",
	})
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestGenerate_Timeout(t *testing.T) {
	router, _, _ := newTestServer(t, &scriptedLLM{block: true}, 50*time.Millisecond)

	w := postJSON(t, router, "/v1/plc/generate", datatypes.GenerateRequest{
		Requirement: "anything",
	})
	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
}

// =============================================================================
// Validate-Only
// =============================================================================

func TestValidate_PartitionsBySeverity(t *testing.T) {
	router, hist, _ := newTestServer(t, &scriptedLLM{}, time.Second)

	w := postJSON(t, router, "/v1/plc/validate", datatypes.ValidateRequest{
		Code:     "IF a THEN b := 1; END_IF;",
		Language: "ST",
		PLCBrand: "generic",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp datatypes.ValidateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ST", resp.Language)
	assert.False(t, resp.Validated, "no program/VAR block should fail validation")
	require.NotEmpty(t, resp.Issues)
	for _, line := range resp.Issues {
		assert.True(t, strings.HasPrefix(line, "❌"), "issue without error prefix: %q", line)
	}
	for _, line := range resp.Warnings {
		assert.True(t, strings.HasPrefix(line, "⚠️"), "warning without prefix: %q", line)
	}
	for _, line := range resp.Recommendations {
		assert.True(t, strings.HasPrefix(line, "💡"), "tip without prefix: %q", line)
	}

	assert.Zero(t, hist.Len(), "validate-only must not append to history")
}

func TestValidate_MissingCode(t *testing.T) {
	router, _, _ := newTestServer(t, &scriptedLLM{}, time.Second)

	w := postJSON(t, router, "/v1/plc/validate", gin.H{"language": "ST"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// =============================================================================
// HMI
// =============================================================================

func TestHMIGenerate_Success(t *testing.T) {
	html := `<html><head><title>Line Panel</title><style>.alarm{color:red}</style></head>` +
		`<body><h1>Line Panel</h1><button>Start</button><button>Stop</button>` +
		`<meter min="0" max="100" value="20"></meter></body></html>`
	router, hist, _ := newTestServer(t, &scriptedLLM{output: html}, time.Second)

	w := postJSON(t, router, "/v1/hmi/generate", datatypes.HMIGenerateRequest{
		Requirement: "start and stop buttons with a temperature gauge",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp datatypes.HMIGenerateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, html, resp.HMICode)
	assert.True(t, resp.Validated, "explanation: %s", resp.Explanation)
	assert.Equal(t, 1, hist.Len())
}

func TestHMIGenerate_EmptyRequirement(t *testing.T) {
	router, _, _ := newTestServer(t, &scriptedLLM{output: "<html></html>"}, time.Second)

	w := postJSON(t, router, "/v1/hmi/generate", gin.H{"requirement": "  "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// =============================================================================
// Catalog
// =============================================================================

func TestListLanguages(t *testing.T) {
	router, _, _ := newTestServer(t, &scriptedLLM{}, time.Second)

	w := getPath(router, "/v1/plc/languages")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Languages []datatypes.LanguageInfo `json:"languages"`
		Count     int                      `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 5, resp.Count)
	ids := make([]string, 0, len(resp.Languages))
	for _, l := range resp.Languages {
		ids = append(ids, l.ID)
	}
	assert.Equal(t, []string{"ST", "LD", "FBD", "SFC", "IL"}, ids)
}

func TestListBrands(t *testing.T) {
	router, _, _ := newTestServer(t, &scriptedLLM{}, time.Second)

	w := getPath(router, "/v1/plc/brands")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Brands []datatypes.BrandInfo `json:"brands"`
		Count  int                   `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 5, resp.Count)
	assert.Equal(t, "generic", resp.Brands[0].ID)
}

func TestGetBrand(t *testing.T) {
	router, _, _ := newTestServer(t, &scriptedLLM{}, time.Second)

	w := getPath(router, "/v1/plc/brands/siemens")
	require.Equal(t, http.StatusOK, w.Code)

	var info datatypes.BrandInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	assert.Equal(t, "siemens", info.ID)
	assert.Contains(t, info.Name, "SIMATIC")
	assert.Equal(t, []string{"ST", "LD", "FBD"}, info.Languages)
}

func TestGetBrand_AllenBradleyAlias(t *testing.T) {
	router, _, _ := newTestServer(t, &scriptedLLM{}, time.Second)

	w := getPath(router, "/v1/plc/brands/allen-bradley")
	require.Equal(t, http.StatusOK, w.Code)

	var info datatypes.BrandInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	assert.Equal(t, "ab", info.ID)
}

func TestGetBrand_Unknown(t *testing.T) {
	router, _, _ := newTestServer(t, &scriptedLLM{}, time.Second)

	w := getPath(router, "/v1/plc/brands/omron")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// =============================================================================
// History and Download
// =============================================================================

func TestHistory_ListAndClear(t *testing.T) {
	router, _, _ := newTestServer(t, &scriptedLLM{output: conformantST}, time.Second)

	for i := 0; i < 3; i++ {
		w := postJSON(t, router, "/v1/plc/generate", datatypes.GenerateRequest{
			Requirement: "turn pump on when pressure is low",
		})
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := getPath(router, "/v1/history")
	require.Equal(t, http.StatusOK, w.Code)

	var resp datatypes.HistoryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 3, resp.Count)
	assert.Equal(t, "plc", resp.Entries[0].Kind)
	assert.Equal(t, "ST", resp.Entries[0].Language)

	del := httptest.NewRecorder()
	router.ServeHTTP(del, httptest.NewRequest(http.MethodDelete, "/v1/history", nil))
	require.Equal(t, http.StatusOK, del.Code)

	w = getPath(router, "/v1/history")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Zero(t, resp.Count)
}

func TestDownload(t *testing.T) {
	router, _, _ := newTestServer(t, &scriptedLLM{output: conformantST}, time.Second)

	w := postJSON(t, router, "/v1/plc/generate", datatypes.GenerateRequest{
		Requirement: "turn pump on when pressure is low",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp datatypes.GenerateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	dl := getPath(router, "/v1/download/"+resp.ResultID)
	require.Equal(t, http.StatusOK, dl.Code)
	assert.Equal(t, conformantST, dl.Body.String())
	assert.Contains(t, dl.Header().Get("Content-Type"), "text/plain")
	assert.Contains(t, dl.Header().Get("Content-Disposition"), ".st")
}

func TestDownload_Unknown(t *testing.T) {
	router, _, _ := newTestServer(t, &scriptedLLM{}, time.Second)

	w := getPath(router, "/v1/download/no-such-id")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// =============================================================================
// Health
// =============================================================================

func TestHealth(t *testing.T) {
	router, _, _ := newTestServer(t, &scriptedLLM{}, time.Second)

	w := getPath(router, "/health")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}
