// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package pipeline runs the generation pipeline: normalize the
// requirement, compose the prompt, call the generation backend,
// validate the candidate, and package the result into history.
//
// Each run walks the state sequence
//
//	PENDING -> NORMALIZING -> GENERATING -> VALIDATING -> COMPLETE
//
// with FAILED reachable only from NORMALIZING (bad requirement) and
// GENERATING (backend failure or timeout). Validator findings are data,
// not failures: once the backend has produced text the run always
// reaches COMPLETE, however many errors the validator reports.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/AleutianAI/AleutianPLC/services/iec_engine"
	"github.com/AleutianAI/AleutianPLC/services/llm"
	"github.com/AleutianAI/AleutianPLC/services/plcgen/artifacts"
	"github.com/AleutianAI/AleutianPLC/services/plcgen/history"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("aleutian.plcgen.pipeline")

// State labels one phase of a pipeline run.
type State string

const (
	StatePending     State = "PENDING"
	StateNormalizing State = "NORMALIZING"
	StateGenerating  State = "GENERATING"
	StateValidating  State = "VALIDATING"
	StateComplete    State = "COMPLETE"
	StateFailed      State = "FAILED"
)

// Request is one PLC generation request. Created per call, discarded
// once the result is packaged.
type Request struct {
	Requirement string
	Dialect     iec_engine.Dialect
	Vendor      iec_engine.Vendor
}

// Pipeline wires the generation backend, the rule engine, and the
// result stores together.
//
// # Thread Safety
//
// Safe for concurrent use. Each Run carries its own state on the stack;
// the history store serializes appends internally.
type Pipeline struct {
	llmClient llm.LLMClient
	engine    *iec_engine.Engine
	history   *history.Store
	artifacts *artifacts.Store
	timeout   time.Duration
}

// DefaultTimeout bounds one generation backend call.
const DefaultTimeout = 120 * time.Second

// New creates a Pipeline. A zero timeout selects DefaultTimeout. The
// artifact store may be nil; downloads are then unavailable but runs
// still complete.
func New(client llm.LLMClient, engine *iec_engine.Engine, hist *history.Store,
	arts *artifacts.Store, timeout time.Duration) *Pipeline {

	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Pipeline{
		llmClient: client,
		engine:    engine,
		history:   hist,
		artifacts: arts,
		timeout:   timeout,
	}
}

// Run executes the full pipeline for one PLC generation request.
//
// # Outputs
//
//   - history.Entry: The packaged result, already appended to history.
//   - error: *ValidationError (bad requirement, no backend call made),
//     *GenerationError (backend failure or timeout, no history append),
//     or *iec_engine.ConfigurationError (unknown dialect/vendor).
func (p *Pipeline) Run(ctx context.Context, req Request) (history.Entry, error) {
	ctx, span := tracer.Start(ctx, "Pipeline.Run")
	defer span.End()
	span.SetAttributes(
		attribute.String("plc.dialect", string(req.Dialect)),
		attribute.String("plc.vendor", string(req.Vendor)),
	)

	state := StatePending
	fail := func(err error) (history.Entry, error) {
		slog.Warn("Pipeline run failed", "state", state, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		state = StateFailed
		return history.Entry{}, err
	}

	// Reject unknown dialect/vendor up front; this is a caller bug and
	// must not consume a generation call. The parsed dialect replaces the
	// caller's spelling so every later stage sees the canonical form.
	profile := p.engine.VendorProfileFor(req.Vendor)
	if profile == nil {
		return fail(&iec_engine.ConfigurationError{Field: "vendor", Value: string(req.Vendor)})
	}
	dialect, err := iec_engine.ParseDialect(string(req.Dialect))
	if err != nil {
		return fail(err)
	}
	req.Dialect = dialect

	state = StateNormalizing
	requirement, err := NormalizeRequirement(req.Requirement)
	if err != nil {
		return fail(err)
	}

	state = StateGenerating
	code, err := p.generate(ctx, BuildPrompt(requirement, req.Dialect, profile))
	if err != nil {
		return fail(err)
	}

	state = StateValidating
	findings, err := p.engine.Validate(code, req.Dialect, req.Vendor)
	if err != nil {
		return fail(err)
	}
	report := iec_engine.BuildReport(findings, string(req.Dialect), profile.Name)

	entry := p.packageResult(history.Entry{
		Kind:    history.KindPLC,
		Dialect: string(req.Dialect),
		Vendor:  string(req.Vendor),
		Code:    code,
		Report:  report,
	}, req.Dialect)

	state = StateComplete
	slog.Info("Pipeline run complete",
		"id", entry.ID,
		"dialect", req.Dialect,
		"vendor", req.Vendor,
		"validated", report.Validated,
		"findings", len(report.Findings),
	)
	return entry, nil
}

// RunHMI executes the HMI variant: same normalization and generation
// stages, with the HMI rule table in place of a dialect table.
func (p *Pipeline) RunHMI(ctx context.Context, rawRequirement string) (history.Entry, error) {
	ctx, span := tracer.Start(ctx, "Pipeline.RunHMI")
	defer span.End()

	requirement, err := NormalizeRequirement(rawRequirement)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return history.Entry{}, err
	}

	html, err := p.generate(ctx, BuildHMIPrompt(requirement))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return history.Entry{}, err
	}

	findings := p.engine.ValidateHMI(html, requirement)
	report := iec_engine.BuildReport(findings, "hmi", "")

	entry := p.packageResult(history.Entry{
		Kind:   history.KindHMI,
		Code:   html,
		Report: report,
	}, "")

	slog.Info("HMI pipeline run complete",
		"id", entry.ID, "validated", report.Validated, "findings", len(report.Findings))
	return entry, nil
}

// Validate runs the rule engine against caller-supplied code with no
// generation call and no history append.
func (p *Pipeline) Validate(code string, dialect iec_engine.Dialect,
	vendor iec_engine.Vendor) (iec_engine.ValidationReport, error) {

	findings, err := p.engine.Validate(code, dialect, vendor)
	if err != nil {
		return iec_engine.ValidationReport{}, err
	}
	vendorName := ""
	if profile := p.engine.VendorProfileFor(vendor); profile != nil {
		vendorName = profile.Name
	}
	return iec_engine.BuildReport(findings, string(dialect), vendorName), nil
}

// generate calls the backend under the configured timeout and strips
// markdown fences the model may wrap the code in.
func (p *Pipeline) generate(ctx context.Context, prompt llm.Prompt) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	temperature := float32(0.2)
	raw, err := p.llmClient.Generate(callCtx, prompt, llm.GenerationParams{
		Temperature: &temperature,
	})
	if err != nil {
		timedOut := errors.Is(err, context.DeadlineExceeded) ||
			errors.Is(callCtx.Err(), context.DeadlineExceeded)
		return "", &GenerationError{Err: err, Timeout: timedOut}
	}

	code := stripCodeFences(raw)
	if strings.TrimSpace(code) == "" {
		return "", &GenerationError{Err: fmt.Errorf("backend returned empty output")}
	}
	return code, nil
}

// packageResult assigns the opaque id and creation timestamp, appends
// the entry to history, and stores the downloadable artifact. Exactly
// one history append per successful run.
func (p *Pipeline) packageResult(entry history.Entry, dialect iec_engine.Dialect) history.Entry {
	entry.ID = uuid.NewString()
	entry.CreatedAt = time.Now().UTC()
	p.history.Append(entry)

	if p.artifacts == nil {
		return entry
	}
	artifact := artifacts.Artifact{
		ID:   entry.ID,
		Data: []byte(entry.Code),
	}
	if entry.Kind == history.KindHMI {
		artifact.ContentType = "text/html; charset=utf-8"
		artifact.Filename = "hmi_" + entry.ID + ".html"
	} else {
		if dialect.TextFormat() == "xml" {
			artifact.ContentType = "application/xml"
		} else {
			artifact.ContentType = "text/plain; charset=utf-8"
		}
		artifact.Filename = "plc_" + entry.ID + dialect.FileExtension()
	}
	if err := p.artifacts.Put(artifact); err != nil {
		// The run already completed; losing the download copy is not
		// worth failing it for.
		slog.Warn("Failed to store artifact", "id", entry.ID, "error", err)
	}
	return entry
}

// stripCodeFences removes a single wrapping markdown fence, with or
// without a language tag. Fences inside the code are left alone.
func stripCodeFences(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	rest := trimmed[3:]
	if idx := strings.Index(rest, "\n"); idx >= 0 {
		rest = rest[idx+1:] // drop the tag line
	}
	rest = strings.TrimSuffix(strings.TrimSpace(rest), "```")
	return strings.TrimSpace(rest)
}
