// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package observability provides metrics and instrumentation for the
// plcgen service.
//
// # Description
//
// This package implements Prometheus metrics for monitoring the
// generation pipeline. Metrics include:
//   - Request counters (by endpoint, status, error type)
//   - Generation latency histograms (by dialect)
//   - Validator finding counters (by dialect, severity)
//   - Verdict counters (validated vs not)
//   - History size gauge
//
// # Integration
//
// Metrics are exposed via /metrics endpoint. Use with Prometheus + Grafana
// for dashboards and alerting.
//
// # Thread Safety
//
// All metric operations are thread-safe via Prometheus's internal locking.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// =============================================================================
// Metric Definitions
// =============================================================================

// Namespace for all metrics
const metricsNamespace = "aleutian"

// Subsystem for generation pipeline metrics
const plcgenSubsystem = "plcgen"

// PipelineMetrics holds all Prometheus metrics for the generation pipeline.
//
// # Description
//
// Provides counters, histograms, and gauges for monitoring pipeline
// throughput and validation outcomes. Initialize once at startup via
// InitMetrics().
//
// # Thread Safety
//
// All operations are thread-safe.
type PipelineMetrics struct {
	// RequestsTotal counts pipeline requests by endpoint and status.
	// Labels: endpoint (generate, hmi, validate), status (success, error)
	RequestsTotal *prometheus.CounterVec

	// GenerationDurationSeconds measures end-to-end pipeline duration.
	// Labels: dialect (st, ld, fbd, sfc, il, hmi), status (success, error)
	GenerationDurationSeconds *prometheus.HistogramVec

	// FindingsTotal counts validator findings by dialect and severity.
	// Labels: dialect, severity (error, warning, tip)
	FindingsTotal *prometheus.CounterVec

	// VerdictsTotal counts validation verdicts.
	// Labels: dialect, validated (true, false)
	VerdictsTotal *prometheus.CounterVec

	// ErrorsTotal counts pipeline errors by endpoint and type.
	// Labels: endpoint, error_code (validation, configuration, llm_error, timeout, internal)
	ErrorsTotal *prometheus.CounterVec

	// HistorySize tracks the number of entries in the session history.
	HistorySize prometheus.Gauge
}

// DefaultMetrics is the singleton instance of PipelineMetrics.
// Initialized by InitMetrics().
var DefaultMetrics *PipelineMetrics

// InitMetrics initializes the default metrics instance.
//
// # Description
//
// Creates and registers all Prometheus metrics on the default registry.
// Idempotent: repeated calls return the already-registered instance, so
// constructing more than one service in a process is safe.
//
// # Outputs
//
//   - *PipelineMetrics: The initialized metrics instance.
//
// # Assumptions
//
//   - Prometheus default registry is available.
func InitMetrics() *PipelineMetrics {
	if DefaultMetrics != nil {
		return DefaultMetrics
	}
	DefaultMetrics = &PipelineMetrics{
		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: plcgenSubsystem,
				Name:      "requests_total",
				Help:      "Total pipeline requests by endpoint and status",
			},
			[]string{"endpoint", "status"},
		),

		GenerationDurationSeconds: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: plcgenSubsystem,
				Name:      "generation_duration_seconds",
				Help:      "End-to-end pipeline duration in seconds",
				Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
			},
			[]string{"dialect", "status"},
		),

		FindingsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: plcgenSubsystem,
				Name:      "findings_total",
				Help:      "Total validator findings by dialect and severity",
			},
			[]string{"dialect", "severity"},
		),

		VerdictsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: plcgenSubsystem,
				Name:      "verdicts_total",
				Help:      "Total validation verdicts by dialect",
			},
			[]string{"dialect", "validated"},
		),

		ErrorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: plcgenSubsystem,
				Name:      "errors_total",
				Help:      "Total pipeline errors by endpoint and type",
			},
			[]string{"endpoint", "error_code"},
		),

		HistorySize: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Subsystem: plcgenSubsystem,
				Name:      "history_size",
				Help:      "Number of entries in the session history",
			},
		),
	}

	return DefaultMetrics
}

// =============================================================================
// Error Codes
// =============================================================================

// ErrorCode represents a categorized error type for metrics.
type ErrorCode string

const (
	// ErrorCodeValidation indicates the requirement was rejected.
	ErrorCodeValidation ErrorCode = "validation"

	// ErrorCodeConfiguration indicates an unknown dialect or vendor.
	ErrorCodeConfiguration ErrorCode = "configuration"

	// ErrorCodeLLMError indicates a generation backend failure.
	ErrorCodeLLMError ErrorCode = "llm_error"

	// ErrorCodeTimeout indicates the backend exceeded the timeout.
	ErrorCodeTimeout ErrorCode = "timeout"

	// ErrorCodeInternal indicates internal server error.
	ErrorCodeInternal ErrorCode = "internal"
)

// =============================================================================
// Endpoint Names
// =============================================================================

// Endpoint represents a pipeline endpoint for metrics labeling.
type Endpoint string

const (
	// EndpointGenerate is the PLC code generation endpoint.
	EndpointGenerate Endpoint = "generate"

	// EndpointHMI is the HMI generation endpoint.
	EndpointHMI Endpoint = "hmi"

	// EndpointValidate is the validate-only endpoint.
	EndpointValidate Endpoint = "validate"
)

// =============================================================================
// Helper Methods
// =============================================================================

// RecordRequest records a completed pipeline request.
func (m *PipelineMetrics) RecordRequest(endpoint Endpoint, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	m.RequestsTotal.WithLabelValues(string(endpoint), status).Inc()
}

// RecordError records a pipeline error.
func (m *PipelineMetrics) RecordError(endpoint Endpoint, code ErrorCode) {
	m.ErrorsTotal.WithLabelValues(string(endpoint), string(code)).Inc()
}

// RecordDuration records an end-to-end pipeline duration.
func (m *PipelineMetrics) RecordDuration(dialect string, seconds float64, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	m.GenerationDurationSeconds.WithLabelValues(dialect, status).Observe(seconds)
}

// RecordFindings records the finding counts for one validation pass.
func (m *PipelineMetrics) RecordFindings(dialect string, severity string, count int) {
	if count <= 0 {
		return
	}
	m.FindingsTotal.WithLabelValues(dialect, severity).Add(float64(count))
}

// RecordVerdict records a validation verdict.
func (m *PipelineMetrics) RecordVerdict(dialect string, validated bool) {
	v := "false"
	if validated {
		v = "true"
	}
	m.VerdictsTotal.WithLabelValues(dialect, v).Inc()
}

// SetHistorySize updates the history size gauge.
func (m *PipelineMetrics) SetHistorySize(n int) {
	m.HistorySize.Set(float64(n))
}
