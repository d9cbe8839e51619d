// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package plcgen provides the PLC code generation service.
//
// This package contains the main service type that coordinates all
// components: HTTP routing, the generation pipeline, the structural
// validation engine, result history, artifact storage, and the
// observability infrastructure.
//
// # Enterprise Integration
//
// The service supports dependency injection via extensions.ServiceOptions,
// enabling enterprise builds to provide custom implementations of:
//   - AuthProvider: Custom authentication (JWT, API keys)
//   - AuditLogger: Compliance audit logging
//
// # Usage
//
// Open source (uses no-op defaults):
//
//	cfg := plcgen.Config{Port: 12230, LLMBackend: "ollama"}
//	svc, err := plcgen.New(cfg, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	log.Fatal(svc.Run())
package plcgen

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/AleutianAI/AleutianPLC/pkg/extensions"
	"github.com/AleutianAI/AleutianPLC/services/iec_engine"
	"github.com/AleutianAI/AleutianPLC/services/llm"
	"github.com/AleutianAI/AleutianPLC/services/plcgen/artifacts"
	"github.com/AleutianAI/AleutianPLC/services/plcgen/history"
	"github.com/AleutianAI/AleutianPLC/services/plcgen/middleware"
	"github.com/AleutianAI/AleutianPLC/services/plcgen/observability"
	"github.com/AleutianAI/AleutianPLC/services/plcgen/pipeline"
	"github.com/AleutianAI/AleutianPLC/services/plcgen/routes"
)

// =============================================================================
// Interface Definition
// =============================================================================

// Service defines the contract for the plcgen service.
//
// # Thread Safety
//
// Implementations must be safe for concurrent use. Run() blocks and
// should only be called once per instance.
type Service interface {
	// Run starts the HTTP server and blocks until shutdown or error.
	Run() error

	// Router returns the underlying Gin engine for testing.
	// Callers must not modify the router.
	Router() *gin.Engine
}

// =============================================================================
// Configuration
// =============================================================================

// Config holds plcgen service configuration options.
//
// All fields are optional with defaults applied by New().
type Config struct {
	// Port is the HTTP server port. Default: 12230
	Port int

	// LLMBackend specifies the generation backend.
	// Valid values: "ollama", "openai", "langchain"
	// Default: "ollama"
	LLMBackend string

	// OTelEndpoint is the OpenTelemetry collector endpoint.
	// Default: "aleutian-otel-collector:4317"
	OTelEndpoint string

	// DisableMetrics skips Prometheus metric registration. The zero
	// value keeps metrics on.
	DisableMetrics bool

	// GinMode sets the Gin framework mode.
	// Valid values: "debug", "release", "test"
	// Default: uses GIN_MODE env var or "debug"
	GinMode string

	// GenerationTimeout bounds one backend generation call.
	// Default: pipeline.DefaultTimeout (120s)
	GenerationTimeout time.Duration

	// ArtifactPath is the directory for the artifact database.
	// Empty selects an in-memory store; artifacts are then lost on
	// restart but downloads still work within a session.
	ArtifactPath string

	// RateLimitRPS is the sustained request rate allowed on generation
	// endpoints. Non-positive disables rate limiting. Default: 0.
	RateLimitRPS float64

	// RateLimitBurst is the burst capacity above RateLimitRPS.
	// Default: 5 when rate limiting is enabled.
	RateLimitBurst int
}

// =============================================================================
// Implementation
// =============================================================================

// service implements Service for production use.
//
// Thread-safe after construction. All fields are read-only after New()
// returns.
type service struct {
	config        Config
	opts          extensions.ServiceOptions
	router        *gin.Engine
	llmClient     llm.LLMClient
	engine        *iec_engine.Engine
	pipeline      *pipeline.Pipeline
	history       *history.Store
	artifacts     *artifacts.Store
	tracerCleanup func(context.Context)
}

// =============================================================================
// Constructor
// =============================================================================

// New creates a new plcgen Service with the given configuration.
//
// # Description
//
// New initializes all service components:
//  1. Applies default configuration for missing values
//  2. Initializes OpenTelemetry tracing
//  3. Initializes Prometheus metrics
//  4. Loads the rule engine and embedded vendor profiles
//  5. Opens the artifact store (in-memory unless a path is set)
//  6. Creates the LLM client based on backend type
//  7. Wires the pipeline and sets up HTTP routes
//
// If opts is nil, DefaultOptions() is used (no-op implementations).
//
// # Outputs
//
//   - Service: Ready-to-run plcgen service
//   - error: Non-nil if initialization fails
func New(cfg Config, opts *extensions.ServiceOptions) (Service, error) {
	s := &service{
		config: applyConfigDefaults(cfg),
	}

	// Apply extension options (use defaults if nil)
	if opts != nil {
		s.opts = *opts
	} else {
		s.opts = extensions.DefaultOptions()
	}

	// Initialize OpenTelemetry tracer
	cleanup, err := s.initTracer()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracer: %w", err)
	}
	s.tracerCleanup = cleanup

	// Initialize Prometheus metrics
	if !s.config.DisableMetrics {
		observability.InitMetrics()
		slog.Info("Initialized Prometheus metrics for the generation pipeline")
	}

	// Rule engine with embedded vendor profiles
	s.engine, err = iec_engine.New()
	if err != nil {
		s.cleanup()
		return nil, fmt.Errorf("failed to initialize rule engine: %w", err)
	}

	// Artifact store (in-memory unless a path is configured)
	s.artifacts, err = artifacts.Open(s.config.ArtifactPath)
	if err != nil {
		s.cleanup()
		return nil, fmt.Errorf("failed to open artifact store: %w", err)
	}

	s.history = history.NewStore()

	// Generation backend
	if err := s.initLLMClient(); err != nil {
		s.cleanup()
		return nil, fmt.Errorf("failed to initialize LLM client: %w", err)
	}

	s.pipeline = pipeline.New(s.llmClient, s.engine, s.history, s.artifacts,
		s.config.GenerationTimeout)

	// Setup HTTP router
	s.initRouter()

	return s, nil
}

// =============================================================================
// Service Interface Methods
// =============================================================================

// Run starts the HTTP server and blocks until shutdown or error.
// Cleanup is automatic on return.
func (s *service) Run() error {
	defer s.cleanup()

	addr := fmt.Sprintf(":%d", s.config.Port)
	slog.Info("Starting plcgen server", "port", s.config.Port,
		"backend", s.config.LLMBackend)

	return s.router.Run(addr)
}

// Router returns the underlying Gin engine for testing.
func (s *service) Router() *gin.Engine {
	return s.router
}

// =============================================================================
// Private Initialization Methods
// =============================================================================

// applyConfigDefaults fills in missing configuration values.
func applyConfigDefaults(cfg Config) Config {
	if cfg.Port == 0 {
		cfg.Port = 12230
	}
	if cfg.LLMBackend == "" {
		cfg.LLMBackend = "ollama"
	}
	if cfg.OTelEndpoint == "" {
		cfg.OTelEndpoint = "aleutian-otel-collector:4317"
	}
	if cfg.GenerationTimeout <= 0 {
		cfg.GenerationTimeout = pipeline.DefaultTimeout
	}
	if cfg.RateLimitRPS > 0 && cfg.RateLimitBurst == 0 {
		cfg.RateLimitBurst = 5
	}
	return cfg
}

// initTracer initializes OpenTelemetry distributed tracing.
//
// Uses an insecure gRPC connection, appropriate for internal networks.
func (s *service) initTracer() (func(context.Context), error) {
	ctx := context.Background()

	conn, err := grpc.NewClient(s.config.OTelEndpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("failed to create gRPC connection: %w", err)
	}

	traceExporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceNameKey.String("plcgen-service")))
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	bsp := sdktrace.NewBatchSpanProcessor(traceExporter)
	traceProvider := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(res),
		sdktrace.WithSpanProcessor(bsp))

	otel.SetTracerProvider(traceProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{}))

	cleanup := func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, time.Second*5)
		defer cancel()
		if err := traceExporter.Shutdown(ctx); err != nil {
			slog.Error("failed to shutdown OTLP exporter", "error", err)
		}
	}

	return cleanup, nil
}

// initLLMClient creates the generation backend client.
//
// Required environment variables (API keys, server URLs) must be set
// for the chosen provider.
func (s *service) initLLMClient() error {
	var err error

	switch s.config.LLMBackend {
	case "openai":
		s.llmClient, err = llm.NewOpenAIClient()
		slog.Info("Using OpenAI LLM backend")
	case "ollama":
		s.llmClient, err = llm.NewOllamaClient()
		slog.Info("Using Ollama LLM backend")
	case "langchain":
		s.llmClient, err = llm.NewLangChainClient()
		slog.Info("Using LangChain LLM backend")
	default:
		slog.Warn("Unknown LLM backend, defaulting to ollama", "backend", s.config.LLMBackend)
		s.llmClient, err = llm.NewOllamaClient()
	}

	return err
}

// initRouter sets up the Gin HTTP router with all routes.
func (s *service) initRouter() {
	if s.config.GinMode != "" {
		gin.SetMode(s.config.GinMode)
	}
	s.router = gin.Default()
	s.router.Use(otelgin.Middleware("plcgen-service"))

	routes.SetupRoutes(s.router, routes.Deps{
		Pipeline:  s.pipeline,
		Engine:    s.engine,
		History:   s.history,
		Artifacts: s.artifacts,
		Limiter: middleware.NewGenerationLimiter(s.config.RateLimitRPS,
			s.config.RateLimitBurst),
		Options: s.opts,
	})
}

// cleanup releases all resources held by the service.
// Called when Run() exits or on initialization failure.
func (s *service) cleanup() {
	if s.artifacts != nil {
		if err := s.artifacts.Close(); err != nil {
			slog.Warn("Artifact store close error", "error", err)
		}
	}

	if s.opts.AuditLogger != nil {
		if err := s.opts.AuditLogger.Flush(context.Background()); err != nil {
			slog.Warn("Audit logger flush error", "error", err)
		}
	}

	// Shutdown tracer
	if s.tracerCleanup != nil {
		s.tracerCleanup(context.Background())
	}
}

// =============================================================================
// Compile-time Interface Compliance
// =============================================================================

var _ Service = (*service)(nil)
