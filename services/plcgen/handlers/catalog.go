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

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/AleutianPLC/services/iec_engine"
	"github.com/AleutianAI/AleutianPLC/services/plcgen/datatypes"
)

// supportedLanguages is the static dialect catalog. The engine's rule
// tables cover exactly these five.
var supportedLanguages = []datatypes.LanguageInfo{
	{
		ID:          "ST",
		Name:        "Structured Text",
		Description: "High-level textual language similar to Pascal",
		IECStandard: "IEC 61131-3",
	},
	{
		ID:          "LD",
		Name:        "Ladder Diagram",
		Description: "Graphical language resembling relay logic, serialized as XML",
		IECStandard: "IEC 61131-3",
	},
	{
		ID:          "FBD",
		Name:        "Function Block Diagram",
		Description: "Graphical language of connected function blocks, serialized as XML",
		IECStandard: "IEC 61131-3",
	},
	{
		ID:          "SFC",
		Name:        "Sequential Function Chart",
		Description: "Graphical language of steps and transitions, serialized as XML",
		IECStandard: "IEC 61131-3",
	},
	{
		ID:          "IL",
		Name:        "Instruction List",
		Description: "Low-level textual language, deprecated in IEC 61131-3 ed. 3",
		IECStandard: "IEC 61131-3",
	},
}

// HandleListLanguages serves the dialect catalog.
//
// GET /v1/plc/languages
func HandleListLanguages() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"languages": supportedLanguages,
			"count":     len(supportedLanguages),
		})
	}
}

// HandleListBrands serves the vendor catalog in canonical order.
//
// GET /v1/plc/brands
func HandleListBrands(engine *iec_engine.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		profiles := engine.VendorProfiles()
		brands := make([]datatypes.BrandInfo, 0, len(profiles))
		for _, p := range profiles {
			brands = append(brands, datatypes.NewBrandInfo(p))
		}
		c.JSON(http.StatusOK, gin.H{
			"brands": brands,
			"count":  len(brands),
		})
	}
}

// HandleGetBrand serves one vendor profile, 404 for unknown ids.
// Accepts the same spellings as generation requests ("allen-bradley"
// maps to ab).
//
// GET /v1/plc/brands/:brand
func HandleGetBrand(engine *iec_engine.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		vendor, err := iec_engine.ParseVendor(c.Param("brand"))
		if err != nil {
			c.JSON(http.StatusNotFound, datatypes.ErrorResponse{Detail: err.Error()})
			return
		}
		profile := engine.VendorProfileFor(vendor)
		if profile == nil {
			c.JSON(http.StatusNotFound, datatypes.ErrorResponse{
				Detail: "unknown brand: " + c.Param("brand"),
			})
			return
		}
		c.JSON(http.StatusOK, datatypes.NewBrandInfo(profile))
	}
}
