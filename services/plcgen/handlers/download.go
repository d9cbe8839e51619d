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
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/AleutianPLC/services/plcgen/artifacts"
	"github.com/AleutianAI/AleutianPLC/services/plcgen/datatypes"
)

// HandleDownload serves a stored artifact as a file attachment.
//
// GET /v1/download/:id
func HandleDownload(store *artifacts.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if store == nil {
			c.JSON(http.StatusNotFound, datatypes.ErrorResponse{
				Detail: "artifact storage is not configured",
			})
			return
		}

		id := c.Param("id")
		artifact, err := store.Get(id)
		if errors.Is(err, artifacts.ErrNotFound) {
			c.JSON(http.StatusNotFound, datatypes.ErrorResponse{
				Detail: "no artifact for id " + id,
			})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, datatypes.ErrorResponse{Detail: err.Error()})
			return
		}

		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", artifact.Filename))
		c.Data(http.StatusOK, artifact.ContentType, artifact.Data)
	}
}
