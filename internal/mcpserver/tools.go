// Copyright 2026 The Codebrief Authors
// SPDX-License-Identifier: MIT

package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/davetashner/codebrief/internal/config"
	"github.com/davetashner/codebrief/internal/langtag"
	"github.com/davetashner/codebrief/internal/pipeline"
	"github.com/davetashner/codebrief/internal/render"
	"github.com/davetashner/codebrief/internal/selection"
)

// SummarizeInput is the input schema for the summarize_code tool.
type SummarizeInput struct {
	Code       string `json:"code,omitempty" jsonschema:"Source code to summarize. Either code or path is required"`
	LanguageID string `json:"languageId,omitempty" jsonschema:"Editor language id of the code, e.g. python or shellscript (inferred from path when omitted)"`
	Path       string `json:"path,omitempty" jsonschema:"File to read the code from when code is empty"`
	Lines      string `json:"lines,omitempty" jsonschema:"Line range within path: N, N:M, N: or :M"`
	Output     string `json:"output,omitempty" jsonschema:"Document format: markdown (default), terminal or webview"`
}

// MapLanguageInput is the input schema for the map_language tool.
type MapLanguageInput struct {
	LanguageIDs string `json:"languageIds" jsonschema:"Comma-separated editor language ids to map to highlighter tags"`
}

// boolPtr returns a pointer to a bool.
func boolPtr(b bool) *bool { return &b }

type tools struct {
	opts Options
}

// registerTools adds all codebrief tools to the MCP server.
func registerTools(server *mcp.Server, t *tools) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "summarize_code",
		Description: "Summarize a code snippet with the configured completion API: what it does, its flow, and its language. Returns a Markdown document with token usage by default.",
		Annotations: &mcp.ToolAnnotations{
			ReadOnlyHint:    true,
			DestructiveHint: boolPtr(false),
			OpenWorldHint:   boolPtr(true),
		},
	}, t.handleSummarize)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "map_language",
		Description: "Map editor language ids (e.g. shellscript, objective-c) to syntax highlighter tags (bash, objectivec). Unknown ids map to themselves. With no ids, returns the whole table.",
		Annotations: &mcp.ToolAnnotations{
			ReadOnlyHint:    true,
			DestructiveHint: boolPtr(false),
			OpenWorldHint:   boolPtr(false),
		},
	}, handleMapLanguage)
}

func (t *tools) handleSummarize(ctx context.Context, _ *mcp.CallToolRequest, input SummarizeInput) (*mcp.CallToolResult, any, error) {
	sel, err := selectionFor(input)
	if err != nil {
		return nil, nil, err
	}

	output := input.Output
	if output == "" {
		output = config.OutputMarkdown
	}
	renderer, err := render.Get(output)
	if err != nil {
		return nil, nil, fmt.Errorf("unsupported output %q", output)
	}

	var doc render.Document
	p, err := pipeline.New(pipeline.Options{
		Client:    t.opts.Client,
		Renderer:  renderer,
		Settings:  t.opts.Settings,
		Version:   t.opts.Version,
		HasAPIKey: t.opts.HasAPIKey,
		Display: pipeline.DisplayFunc(func(_ context.Context, _ render.Input, d render.Document) error {
			doc = d
			return nil
		}),
	})
	if err != nil {
		return nil, nil, err
	}

	out, err := p.Run(ctx, sel, nil)
	if err != nil {
		slog.Debug("summarize_code failed", "error", err)
		return nil, nil, errors.New(pipeline.UserMessage(err))
	}
	slog.Debug("summarize_code done", "invocation", out.ID, "format", doc.Format)

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: doc.Body},
		},
	}, nil, nil
}

// selectionFor builds the selection from inline code or from a file.
func selectionFor(input SummarizeInput) (selection.Input, error) {
	if input.Code != "" {
		if input.Path != "" || input.Lines != "" {
			return selection.Input{}, fmt.Errorf("code cannot be combined with path or lines")
		}
		return selection.FromReader(strings.NewReader(input.Code), selection.LineRange{}, input.LanguageID)
	}
	if input.Path == "" {
		return selection.Input{}, errors.New(pipeline.UserMessage(selection.ErrEmpty))
	}

	absPath, err := ResolveFile(input.Path)
	if err != nil {
		return selection.Input{}, err
	}
	r, err := selection.ParseLineRange(input.Lines)
	if err != nil {
		return selection.Input{}, err
	}
	return selection.FromFile(absPath, r, input.LanguageID)
}

func handleMapLanguage(_ context.Context, _ *mcp.CallToolRequest, input MapLanguageInput) (*mcp.CallToolResult, any, error) {
	ids := splitAndTrim(input.LanguageIDs)
	if len(ids) == 0 {
		ids = langtag.Known()
	}

	tags := make(map[string]string, len(ids))
	for _, id := range ids {
		tags[id] = langtag.Map(id)
	}
	data, err := json.MarshalIndent(tags, "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("encoding result: %w", err)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(data)},
		},
	}, nil, nil
}

// splitAndTrim splits a comma-separated string and trims whitespace from each element.
func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
