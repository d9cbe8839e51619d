// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package handlers implements the HTTP handlers for the plcgen service.
//
// Handlers translate between the wire contract (datatypes package) and
// the typed pipeline: parse and default the enums, run the pipeline,
// and map the error taxonomy onto HTTP status codes. Severity markers
// on warning strings are applied here, at the boundary, never inside
// the pipeline.
package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/AleutianAI/AleutianPLC/services/iec_engine"
	"github.com/AleutianAI/AleutianPLC/services/plcgen/datatypes"
	"github.com/AleutianAI/AleutianPLC/services/plcgen/observability"
	"github.com/AleutianAI/AleutianPLC/services/plcgen/pipeline"
)

var tracer = otel.Tracer("aleutian.plcgen.handlers")

// writeError maps the pipeline error taxonomy to HTTP status codes and
// the structured failure body.
//
//   - ValidationError: 400, user-correctable input
//   - ConfigurationError: 400, unknown dialect/vendor (caller bug)
//   - GenerationError (timeout): 504
//   - GenerationError (other): 502, backend failed
//   - anything else: 500
func writeError(c *gin.Context, endpoint observability.Endpoint, err error) {
	var (
		vErr   *pipeline.ValidationError
		cfgErr *iec_engine.ConfigurationError
		gErr   *pipeline.GenerationError
	)
	switch {
	case errors.As(err, &vErr):
		recordError(endpoint, observability.ErrorCodeValidation)
		c.JSON(http.StatusBadRequest, datatypes.ErrorResponse{Detail: vErr.Error()})
	case errors.As(err, &cfgErr):
		recordError(endpoint, observability.ErrorCodeConfiguration)
		c.JSON(http.StatusBadRequest, datatypes.ErrorResponse{Detail: cfgErr.Error()})
	case errors.As(err, &gErr) && gErr.Timeout:
		recordError(endpoint, observability.ErrorCodeTimeout)
		c.JSON(http.StatusGatewayTimeout, datatypes.ErrorResponse{Detail: gErr.Error()})
	case errors.As(err, &gErr):
		recordError(endpoint, observability.ErrorCodeLLMError)
		c.JSON(http.StatusBadGateway, datatypes.ErrorResponse{Detail: gErr.Error()})
	default:
		recordError(endpoint, observability.ErrorCodeInternal)
		c.JSON(http.StatusInternalServerError, datatypes.ErrorResponse{Detail: err.Error()})
	}
}

func recordError(endpoint observability.Endpoint, code observability.ErrorCode) {
	if m := observability.DefaultMetrics; m != nil {
		m.RecordError(endpoint, code)
		m.RecordRequest(endpoint, false)
	}
}

func recordSuccess(endpoint observability.Endpoint, dialect string, start time.Time,
	report iec_engine.ValidationReport) {

	m := observability.DefaultMetrics
	if m == nil {
		return
	}
	m.RecordRequest(endpoint, true)
	m.RecordDuration(dialect, time.Since(start).Seconds(), true)
	m.RecordVerdict(dialect, report.Validated)
	counts := map[iec_engine.Severity]int{}
	for _, f := range report.Findings {
		counts[f.Severity]++
	}
	for sev, n := range counts {
		m.RecordFindings(dialect, string(sev), n)
	}
}

// parseTargets applies request defaults (ST, generic) and parses the
// dialect and vendor enums.
func parseTargets(language, brand string) (iec_engine.Dialect, iec_engine.Vendor, error) {
	if language == "" {
		language = string(iec_engine.DialectST)
	}
	if brand == "" {
		brand = string(iec_engine.VendorGeneric)
	}
	dialect, err := iec_engine.ParseDialect(language)
	if err != nil {
		return "", "", err
	}
	vendor, err := iec_engine.ParseVendor(brand)
	if err != nil {
		return "", "", err
	}
	return dialect, vendor, nil
}

// HandleGenerate runs the full generation pipeline for one requirement.
//
// POST /v1/plc/generate
func HandleGenerate(p *pipeline.Pipeline) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracer.Start(c.Request.Context(), "HandleGenerate")
		defer span.End()
		start := time.Now()

		var req datatypes.GenerateRequest
		if err := c.BindJSON(&req); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			slog.Error("Failed to parse the generation request", "error", err)
			c.JSON(http.StatusBadRequest, datatypes.ErrorResponse{Detail: "invalid request body"})
			return
		}
		if err := req.Validate(); err != nil {
			c.JSON(http.StatusBadRequest, datatypes.ErrorResponse{Detail: err.Error()})
			return
		}

		dialect, vendor, err := parseTargets(req.Language, req.PLCBrand)
		if err != nil {
			writeError(c, observability.EndpointGenerate, err)
			return
		}
		span.SetAttributes(
			attribute.String("plc.dialect", string(dialect)),
			attribute.String("plc.vendor", string(vendor)),
		)

		entry, err := p.Run(ctx, pipeline.Request{
			Requirement: req.Requirement,
			Dialect:     dialect,
			Vendor:      vendor,
		})
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			writeError(c, observability.EndpointGenerate, err)
			return
		}

		recordSuccess(observability.EndpointGenerate, string(dialect), start, entry.Report)
		c.JSON(http.StatusOK, datatypes.GenerateResponse{
			Code:        entry.Code,
			Language:    string(dialect),
			Format:      dialect.TextFormat(),
			Explanation: entry.Report.Explanation,
			Validated:   entry.Report.Validated,
			Warnings:    entry.Report.WireFindings(),
			Timestamp:   entry.CreatedAt.Format(time.RFC3339),
			ResultID:    entry.ID,
		})
	}
}
