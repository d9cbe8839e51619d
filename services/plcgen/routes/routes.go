// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/AleutianAI/AleutianPLC/pkg/extensions"
	"github.com/AleutianAI/AleutianPLC/services/iec_engine"
	"github.com/AleutianAI/AleutianPLC/services/plcgen/artifacts"
	"github.com/AleutianAI/AleutianPLC/services/plcgen/handlers"
	"github.com/AleutianAI/AleutianPLC/services/plcgen/history"
	"github.com/AleutianAI/AleutianPLC/services/plcgen/middleware"
	"github.com/AleutianAI/AleutianPLC/services/plcgen/pipeline"
)

// Deps bundles everything the route tree needs.
type Deps struct {
	Pipeline  *pipeline.Pipeline
	Engine    *iec_engine.Engine
	History   *history.Store
	Artifacts *artifacts.Store
	Limiter   *rate.Limiter
	Options   extensions.ServiceOptions
}

// SetupRoutes registers the full plcgen route tree.
//
// Health and metrics are unauthenticated; everything under /v1 passes
// through auth, audit, and (for generation endpoints) rate limiting.
func SetupRoutes(router *gin.Engine, deps Deps) {
	router.GET("/health", handlers.HandleHealth())
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API version 1 group
	v1 := router.Group("/v1")
	v1.Use(
		middleware.AuthMiddleware(deps.Options.AuthProvider),
		middleware.AuditMiddleware(deps.Options.AuditLogger),
	)
	{
		plc := v1.Group("/plc")
		{
			plc.POST("/generate", middleware.RateLimitMiddleware(deps.Limiter),
				handlers.HandleGenerate(deps.Pipeline))
			plc.POST("/validate", handlers.HandleValidate(deps.Pipeline))
			plc.GET("/languages", handlers.HandleListLanguages())
			plc.GET("/brands", handlers.HandleListBrands(deps.Engine))
			plc.GET("/brands/:brand", handlers.HandleGetBrand(deps.Engine))
		}

		hmi := v1.Group("/hmi")
		{
			hmi.POST("/generate", middleware.RateLimitMiddleware(deps.Limiter),
				handlers.HandleHMIGenerate(deps.Pipeline))
		}

		v1.GET("/history", handlers.HandleListHistory(deps.History))
		v1.DELETE("/history", handlers.HandleClearHistory(deps.History))
		v1.GET("/download/:id", handlers.HandleDownload(deps.Artifacts))
	}
}
