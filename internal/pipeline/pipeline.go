// Copyright 2026 The Codebrief Authors
// SPDX-License-Identifier: MIT

// Package pipeline runs one summarize invocation: validate the selection,
// build the prompt, call the completion API, render, and display.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/davetashner/codebrief/internal/config"
	"github.com/davetashner/codebrief/internal/llm"
	"github.com/davetashner/codebrief/internal/prompt"
	"github.com/davetashner/codebrief/internal/render"
	"github.com/davetashner/codebrief/internal/selection"
)

// Display hands a rendered document to the surface that shows it.
type Display interface {
	Show(ctx context.Context, in render.Input, doc render.Document) error
}

// DisplayFunc adapts a function to Display.
type DisplayFunc func(ctx context.Context, in render.Input, doc render.Document) error

// Show calls f.
func (f DisplayFunc) Show(ctx context.Context, in render.Input, doc render.Document) error {
	return f(ctx, in, doc)
}

// Options configures a Pipeline. Client, Renderer and Display are required.
type Options struct {
	Client   llm.Client
	Renderer render.Renderer
	Display  Display

	// Settings defaults to config.Defaults().
	Settings *config.Config

	// Version is shown in rendered metadata.
	Version string

	// HasAPIKey reports whether a key is configured for mode. It defaults
	// to checking the provider's environment variable.
	HasAPIKey func(mode prompt.Mode) bool

	// OnTransition, if set, observes every state change.
	OnTransition func(Transition)

	// Tracer defaults to a no-op tracer.
	Tracer trace.Tracer
}

// Pipeline runs summarize invocations. It holds no per-invocation state and
// is safe for concurrent use.
type Pipeline struct {
	opts Options
}

// Outcome is the product of a successful run.
type Outcome struct {
	ID       string
	Input    render.Input
	Document render.Document
}

// New validates opts and returns a Pipeline.
func New(opts Options) (*Pipeline, error) {
	if opts.Client == nil {
		return nil, errors.New("pipeline: client is required")
	}
	if opts.Renderer == nil {
		return nil, errors.New("pipeline: renderer is required")
	}
	if opts.Display == nil {
		return nil, errors.New("pipeline: display is required")
	}
	if opts.Settings == nil {
		opts.Settings = config.Defaults()
	}
	if opts.HasAPIKey == nil {
		opts.HasAPIKey = EnvHasAPIKey
	}
	if opts.Tracer == nil {
		opts.Tracer = noop.NewTracerProvider().Tracer("codebrief")
	}
	return &Pipeline{opts: opts}, nil
}

// EnvHasAPIKey reports whether the environment variable for mode is set.
func EnvHasAPIKey(mode prompt.Mode) bool {
	return os.Getenv(llm.APIKeyEnv(mode)) != ""
}

// Settings returns the settings the pipeline builds prompts from.
func (p *Pipeline) Settings() *config.Config {
	return p.opts.Settings
}

// run tracks the state of one invocation.
type run struct {
	id    string
	state State
	obs   func(Transition)
}

func (r *run) to(s State, err error) {
	from := r.state
	r.state = s
	slog.Debug("pipeline transition", "invocation", r.id, "from", from, "to", s)
	if r.obs != nil {
		r.obs(Transition{ID: r.id, From: from, To: s, Err: err})
	}
}

func (r *run) fail(kind Kind, err error) *Error {
	pe := fail(kind, err)
	r.to(StateFailed, pe)
	return pe
}

// Run executes one invocation. Every failure is returned as *Error; no step
// is retried. prog may be nil.
func (p *Pipeline) Run(ctx context.Context, sel selection.Input, prog *Progress) (*Outcome, error) {
	r := &run{id: uuid.NewString(), obs: p.opts.OnTransition}
	if prog != nil {
		prog.bind(r.id)
	}

	ctx, span := p.opts.Tracer.Start(ctx, "codebrief.summarize")
	defer span.End()
	span.SetAttributes(
		attribute.String("invocation_id", r.id),
		attribute.String("language_id", sel.LanguageID),
		attribute.String("request_mode", p.opts.Settings.RequestMode),
	)

	out, err := p.run(ctx, r, sel)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return out, nil
}

func (p *Pipeline) run(ctx context.Context, r *run, sel selection.Input) (*Outcome, error) {
	cfg := p.opts.Settings

	r.to(StateValidating, nil)
	if err := sel.Validate(); err != nil {
		return nil, r.fail(KindInput, err)
	}
	mode, err := prompt.ParseMode(cfg.RequestMode)
	if err != nil {
		return nil, r.fail(KindConfig, err)
	}
	if !p.opts.HasAPIKey(mode) {
		return nil, r.fail(KindConfig, fmt.Errorf("the %s environment variable is not set", llm.APIKeyEnv(mode)))
	}

	req := prompt.Build(sel, cfg)

	r.to(StateRequesting, nil)
	res, err := p.complete(ctx, r.id, req)
	if err != nil {
		if errors.Is(err, llm.ErrMissingAPIKey) {
			return nil, r.fail(KindConfig, err)
		}
		return nil, r.fail(KindRemote, err)
	}

	r.to(StateRendering, nil)
	in := render.Input{
		Selection: sel,
		Request:   req,
		Result:    res,
		Settings:  cfg,
		Version:   p.opts.Version,
	}
	doc, err := p.opts.Renderer.Render(in)
	if err != nil {
		return nil, r.fail(KindRender, err)
	}
	if err := p.opts.Display.Show(ctx, in, doc); err != nil {
		return nil, r.fail(KindRender, fmt.Errorf("display %s document: %w", doc.Format, err))
	}

	r.to(StateDisplayed, nil)
	return &Outcome{ID: r.id, Input: in, Document: doc}, nil
}

func (p *Pipeline) complete(ctx context.Context, id string, req prompt.Request) (*llm.Result, error) {
	ctx, span := p.opts.Tracer.Start(ctx, "codebrief.complete")
	defer span.End()
	span.SetAttributes(
		attribute.String("model", req.Model),
		attribute.String("request_mode", string(req.Mode)),
		attribute.Int("max_tokens", req.MaxTokens),
	)

	slog.Debug("sending completion request", "invocation", id, "mode", req.Mode, "model", req.Model)
	res, err := p.opts.Client.Complete(ctx, req)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(
		attribute.Int("total_tokens", res.TotalTokens),
		attribute.String("finish_reason", res.FinishReason),
	)
	slog.Debug("completion received", "invocation", id, "total_tokens", res.TotalTokens, "finish_reason", res.FinishReason)
	return res, nil
}
