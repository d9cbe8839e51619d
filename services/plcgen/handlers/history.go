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

	"github.com/AleutianAI/AleutianPLC/services/plcgen/datatypes"
	"github.com/AleutianAI/AleutianPLC/services/plcgen/history"
	"github.com/AleutianAI/AleutianPLC/services/plcgen/observability"
)

// HandleListHistory serves the session history in append order. Raw
// artifacts are not inlined; clients follow the download endpoint.
//
// GET /v1/history
func HandleListHistory(hist *history.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		entries := hist.List()
		out := make([]datatypes.HistoryEntry, 0, len(entries))
		for _, e := range entries {
			out = append(out, datatypes.HistoryEntry{
				ID:        e.ID,
				Kind:      string(e.Kind),
				Language:  e.Dialect,
				PLCBrand:  e.Vendor,
				Validated: e.Report.Validated,
				Warnings:  e.Report.WireFindings(),
				Timestamp: e.CreatedAt.Format(time.RFC3339),
			})
		}
		if m := observability.DefaultMetrics; m != nil {
			m.SetHistorySize(len(entries))
		}
		c.JSON(http.StatusOK, datatypes.HistoryResponse{
			Entries: out,
			Count:   len(out),
		})
	}
}

// HandleClearHistory empties the session history.
//
// DELETE /v1/history
func HandleClearHistory(hist *history.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		hist.Clear()
		if m := observability.DefaultMetrics; m != nil {
			m.SetHistorySize(0)
		}
		c.JSON(http.StatusOK, gin.H{"cleared": true})
	}
}
