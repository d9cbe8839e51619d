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
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/codes"

	"github.com/AleutianAI/AleutianPLC/services/plcgen/datatypes"
	"github.com/AleutianAI/AleutianPLC/services/plcgen/observability"
	"github.com/AleutianAI/AleutianPLC/services/plcgen/pipeline"
)

// HandleHMIGenerate runs the HMI variant of the pipeline: generate an
// HTML panel for the requirement and validate it against the HMI rule
// table.
//
// POST /v1/hmi/generate
func HandleHMIGenerate(p *pipeline.Pipeline) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracer.Start(c.Request.Context(), "HandleHMIGenerate")
		defer span.End()
		start := time.Now()

		var req datatypes.HMIGenerateRequest
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

		entry, err := p.RunHMI(ctx, req.Requirement)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			writeError(c, observability.EndpointHMI, err)
			return
		}

		recordSuccess(observability.EndpointHMI, "hmi", start, entry.Report)
		c.JSON(http.StatusOK, datatypes.HMIGenerateResponse{
			HMICode:     entry.Code,
			Validated:   entry.Report.Validated,
			Warnings:    entry.Report.WireFindings(),
			Explanation: entry.Report.Explanation,
			Timestamp:   entry.CreatedAt.Format(time.RFC3339),
			ResultID:    entry.ID,
		})
	}
}
