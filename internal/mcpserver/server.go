// Copyright 2026 The Codebrief Authors
// SPDX-License-Identifier: MIT

package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/davetashner/codebrief/internal/config"
	"github.com/davetashner/codebrief/internal/llm"
	"github.com/davetashner/codebrief/internal/prompt"
)

// Options supplies what the summarize tool needs to run the pipeline.
type Options struct {
	Version string

	// Client performs completions.
	Client llm.Client

	// Settings defaults to config.Defaults().
	Settings *config.Config

	// HasAPIKey defaults to checking the provider environment variable.
	HasAPIKey func(mode prompt.Mode) bool
}

// New creates a new MCP server with codebrief's tools registered.
func New(opts Options) *mcp.Server {
	if opts.Settings == nil {
		opts.Settings = config.Defaults()
	}
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "codebrief",
		Title:   "Codebrief: code summaries from a completion API",
		Version: opts.Version,
	}, nil)

	registerTools(server, &tools{opts: opts})
	return server
}

// Run creates an MCP server and runs it on the given transport.
// It blocks until the client disconnects or the context is cancelled.
func Run(ctx context.Context, opts Options, transport mcp.Transport) error {
	return New(opts).Run(ctx, transport)
}
