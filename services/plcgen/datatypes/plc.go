// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package datatypes provides request and response structures for the
// plcgen service HTTP boundary.
//
// The wire contract keeps the legacy field shapes (language/plc_brand
// strings, severity-prefixed warning strings); conversion to the typed
// internal model happens in the handlers.
package datatypes

import (
	"github.com/go-playground/validator/v10"

	"github.com/AleutianAI/AleutianPLC/services/iec_engine"
	"github.com/AleutianAI/AleutianPLC/services/plcgen/pipeline"
)

// =============================================================================
// Shared Validator Instance
// =============================================================================

// plcValidate is the validator instance for plcgen datatypes.
// Initialized in init() with custom validators.
var plcValidate *validator.Validate

func init() {
	plcValidate = validator.New()

	// Requirement size limit, checked in bytes rather than runes.
	_ = plcValidate.RegisterValidation("maxreqbytes", validateMaxRequirementBytes)
}

// validateMaxRequirementBytes rejects requirement text over the
// pipeline's byte cap before the handler touches it.
func validateMaxRequirementBytes(fl validator.FieldLevel) bool {
	return len(fl.Field().String()) <= pipeline.MaxRequirementLen
}

// =============================================================================
// Generation Request/Response Types
// =============================================================================

// GenerateRequest is the body of POST /v1/plc/generate.
type GenerateRequest struct {
	// Requirement is the plain-text control requirement.
	Requirement string `json:"requirement" validate:"required,maxreqbytes"`

	// Language is the target dialect: ST, LD, FBD, SFC, or IL.
	// Case-insensitive. Defaults to ST.
	Language string `json:"language"`

	// PLCBrand is the target vendor: generic, siemens, mitsubishi,
	// ab (or allen-bradley), schneider. Defaults to generic.
	PLCBrand string `json:"plc_brand"`
}

// Validate checks structural validity of the request.
func (r *GenerateRequest) Validate() error {
	return plcValidate.Struct(r)
}

// GenerateResponse is the body of a successful generation.
//
// Warnings carries ALL findings as severity-prefixed strings (error,
// warning, and tip markers) so legacy clients can classify them by
// prefix; Validated reflects error-severity findings only.
type GenerateResponse struct {
	Code        string   `json:"code"`
	Language    string   `json:"language"`
	Format      string   `json:"format"`
	Explanation string   `json:"explanation"`
	Validated   bool     `json:"validated"`
	Warnings    []string `json:"warnings"`
	Timestamp   string   `json:"timestamp"`
	ResultID    string   `json:"result_id"`
}

// =============================================================================
// Validate-Only Types
// =============================================================================

// ValidateRequest is the body of POST /v1/plc/validate.
type ValidateRequest struct {
	Code     string `json:"code" validate:"required"`
	Language string `json:"language"`
	PLCBrand string `json:"plc_brand"`
}

// Validate checks structural validity of the request.
func (r *ValidateRequest) Validate() error {
	return plcValidate.Struct(r)
}

// ValidateResponse is the body of a validate-only call. Findings are
// split by severity, each rendered with its wire prefix.
type ValidateResponse struct {
	Language        string   `json:"language"`
	PLCBrand        string   `json:"plc_brand"`
	Validated       bool     `json:"validated"`
	Explanation     string   `json:"explanation"`
	Issues          []string `json:"issues"`
	Warnings        []string `json:"warnings"`
	Recommendations []string `json:"recommendations"`
}

// =============================================================================
// HMI Types
// =============================================================================

// HMIGenerateRequest is the body of POST /v1/hmi/generate.
type HMIGenerateRequest struct {
	Requirement string `json:"requirement" validate:"required,maxreqbytes"`
}

// Validate checks structural validity of the request.
func (r *HMIGenerateRequest) Validate() error {
	return plcValidate.Struct(r)
}

// HMIGenerateResponse is the body of a successful HMI generation.
type HMIGenerateResponse struct {
	HMICode     string   `json:"hmi_code"`
	Validated   bool     `json:"validated"`
	Warnings    []string `json:"warnings"`
	Explanation string   `json:"explanation"`
	Timestamp   string   `json:"timestamp"`
	ResultID    string   `json:"result_id"`
}

// =============================================================================
// Catalog Types
// =============================================================================

// LanguageInfo describes one supported dialect for the catalog endpoint.
type LanguageInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	IECStandard string `json:"iec_standard"`
}

// BrandInfo describes one supported vendor for the catalog endpoints.
type BrandInfo struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Languages     []string `json:"languages"`
	TimerFormat   string   `json:"timer_format"`
	EdgeDetection string   `json:"edge_detection"`
	Notes         []string `json:"notes"`
}

// NewBrandInfo converts a vendor profile to its catalog shape.
func NewBrandInfo(p *iec_engine.VendorProfile) BrandInfo {
	langs := make([]string, len(p.Dialects))
	for i, d := range p.Dialects {
		langs[i] = string(d)
	}
	return BrandInfo{
		ID:            string(p.ID),
		Name:          p.Name,
		Languages:     langs,
		TimerFormat:   p.TimerFormat,
		EdgeDetection: p.EdgeDetection,
		Notes:         p.Notes,
	}
}

// =============================================================================
// History Types
// =============================================================================

// HistoryEntry is the wire shape of one history record. The raw
// artifact is retrieved via the download endpoint, not inlined here.
type HistoryEntry struct {
	ID        string   `json:"id"`
	Kind      string   `json:"kind"`
	Language  string   `json:"language,omitempty"`
	PLCBrand  string   `json:"plc_brand,omitempty"`
	Validated bool     `json:"validated"`
	Warnings  []string `json:"warnings"`
	Timestamp string   `json:"timestamp"`
}

// HistoryResponse is the body of GET /v1/history.
type HistoryResponse struct {
	Entries []HistoryEntry `json:"entries"`
	Count   int            `json:"count"`
}

// =============================================================================
// Error Type
// =============================================================================

// ErrorResponse is the structured failure body for every endpoint.
type ErrorResponse struct {
	Detail string `json:"detail"`
}
