// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/AleutianAI/AleutianPLC/services/iec_engine"
	"github.com/AleutianAI/AleutianPLC/services/plcgen/datatypes"
	"github.com/AleutianAI/AleutianPLC/services/plcgen/observability"
	"github.com/AleutianAI/AleutianPLC/services/plcgen/pipeline"
)

// partitionFindings splits a report's findings by severity, rendering
// each with its wire prefix. Order within each bucket follows the
// report's finding order.
func partitionFindings(report iec_engine.ValidationReport) (issues, warnings, tips []string) {
	issues = []string{}
	warnings = []string{}
	tips = []string{}
	for _, f := range report.Findings {
		line := fmt.Sprintf("%s [%s] %s", f.Severity.WirePrefix(), f.RuleID, f.Message)
		switch f.Severity {
		case iec_engine.SeverityError:
			issues = append(issues, line)
		case iec_engine.SeverityWarning:
			warnings = append(warnings, line)
		default:
			tips = append(tips, line)
		}
	}
	return issues, warnings, tips
}

// HandleValidate runs the rule engine against caller-supplied code.
// No generation call, no history append.
//
// POST /v1/plc/validate
func HandleValidate(p *pipeline.Pipeline) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, span := tracer.Start(c.Request.Context(), "HandleValidate")
		defer span.End()
		start := time.Now()

		var req datatypes.ValidateRequest
		if err := c.BindJSON(&req); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			c.JSON(http.StatusBadRequest, datatypes.ErrorResponse{Detail: "invalid request body"})
			return
		}
		if err := req.Validate(); err != nil {
			c.JSON(http.StatusBadRequest, datatypes.ErrorResponse{Detail: err.Error()})
			return
		}

		dialect, vendor, err := parseTargets(req.Language, req.PLCBrand)
		if err != nil {
			writeError(c, observability.EndpointValidate, err)
			return
		}
		span.SetAttributes(
			attribute.String("plc.dialect", string(dialect)),
			attribute.String("plc.vendor", string(vendor)),
		)

		report, err := p.Validate(req.Code, dialect, vendor)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			writeError(c, observability.EndpointValidate, err)
			return
		}

		issues, warnings, tips := partitionFindings(report)
		recordSuccess(observability.EndpointValidate, string(dialect), start, report)
		c.JSON(http.StatusOK, datatypes.ValidateResponse{
			Language:        string(dialect),
			PLCBrand:        string(vendor),
			Validated:       report.Validated,
			Explanation:     report.Explanation,
			Issues:          issues,
			Warnings:        warnings,
			Recommendations: tips,
		})
	}
}
