// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command plcgen starts the PLC code generation HTTP server.
//
// This is the main entry point for the containerized plcgen service.
// It reads configuration from environment variables and starts the server.
//
// # Environment Variables
//
//   - PLCGEN_PORT: HTTP server port (default: 12230)
//   - LLM_BACKEND_TYPE: LLM provider - ollama, openai, langchain (default: ollama)
//   - PLCGEN_ARTIFACT_PATH: artifact database directory (default: in-memory)
//   - PLCGEN_TIMEOUT_SECONDS: generation timeout per request (default: 120)
//   - PLCGEN_RATE_LIMIT_RPS: generation rate limit, 0 disables (default: 0)
//   - PLCGEN_LOG_DIR: directory for JSON log files (default: stderr only)
//   - PLCGEN_LOG_LEVEL: debug, info, warn, error (default: info)
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OpenTelemetry collector (default: aleutian-otel-collector:4317)
//
// # Usage
//
//	# Build
//	go build -o plcgen ./cmd/plcgen
//
//	# Run
//	./plcgen
//
//	# Or via container
//	podman-compose up plcgen
package main

import (
	"log"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/AleutianAI/AleutianPLC/pkg/logging"
	"github.com/AleutianAI/AleutianPLC/services/plcgen"
)

func main() {
	// Setup structured logging; file output is optional
	logger := logging.New(logging.Config{
		Level:   logging.ParseLevel(os.Getenv("PLCGEN_LOG_LEVEL")),
		LogDir:  os.Getenv("PLCGEN_LOG_DIR"),
		Service: "plcgen",
	})
	defer func() { _ = logger.Close() }()
	slog.SetDefault(logger.Slog())

	// Build configuration from environment variables
	cfg := plcgen.Config{
		Port:              getEnvInt("PLCGEN_PORT", 12230),
		LLMBackend:        getEnvString("LLM_BACKEND_TYPE", "ollama"),
		OTelEndpoint:      getEnvString("OTEL_EXPORTER_OTLP_ENDPOINT", "aleutian-otel-collector:4317"),
		ArtifactPath:      os.Getenv("PLCGEN_ARTIFACT_PATH"),
		GenerationTimeout: time.Duration(getEnvInt("PLCGEN_TIMEOUT_SECONDS", 120)) * time.Second,
		RateLimitRPS:      getEnvFloat("PLCGEN_RATE_LIMIT_RPS", 0),
	}

	slog.Info("Starting plcgen",
		"port", cfg.Port,
		"llm_backend", cfg.LLMBackend,
		"artifact_path", cfg.ArtifactPath,
	)

	// Create the service with default (no-op) extension options
	// Enterprise builds will pass custom ServiceOptions here
	svc, err := plcgen.New(cfg, nil)
	if err != nil {
		log.Fatalf("Failed to create plcgen service: %v", err)
	}

	// Run the server (blocks until shutdown)
	if err := svc.Run(); err != nil {
		log.Fatalf("plcgen error: %v", err)
	}
}

// getEnvString returns the environment variable value or a default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the environment variable as int or a default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvFloat returns the environment variable as float64 or a default.
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}
