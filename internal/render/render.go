// Copyright 2026 The Codebrief Authors
// SPDX-License-Identifier: MIT

// Package render turns a completion result and the snippet it describes into
// a display document: Markdown, an HTML panel page, or colored terminal text.
package render

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/davetashner/codebrief/internal/config"
	"github.com/davetashner/codebrief/internal/llm"
	"github.com/davetashner/codebrief/internal/prompt"
	"github.com/davetashner/codebrief/internal/selection"
)

// Input is everything a renderer may show for one invocation.
type Input struct {
	Selection selection.Input
	Request   prompt.Request
	Result    *llm.Result
	Settings  *config.Config

	// Version is the codebrief build version shown in metadata.
	Version string
}

// Document is a rendered result ready to hand to a display surface.
type Document struct {
	// Format is the name of the renderer that produced Body.
	Format string
	Body   string
}

// Ext returns the conventional file extension for the document format.
func (d Document) Ext() string {
	switch d.Format {
	case config.OutputMarkdown:
		return ".md"
	case config.OutputWebview:
		return ".html"
	default:
		return ".txt"
	}
}

// Renderer builds a Document from an Input.
type Renderer interface {
	// Name returns the output mode name (e.g., "markdown", "webview").
	Name() string

	// Render builds the document. A nil Result is an error.
	Render(in Input) (Document, error)
}

// ErrNoResult is returned when Render is called without a completion result.
var ErrNoResult = fmt.Errorf("render: no completion result")

var (
	mu       sync.RWMutex
	registry = make(map[string]Renderer)
)

// Register adds a renderer to the global registry.
func Register(r Renderer) {
	mu.Lock()
	defer mu.Unlock()
	registry[r.Name()] = r
}

// Get returns the renderer for an output mode, or an error if none is
// registered under that name.
func Get(name string) (Renderer, error) {
	mu.RLock()
	defer mu.RUnlock()
	r, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown output mode: %q (available: %s)", name, names())
	}
	return r, nil
}

func names() string {
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	sort.Strings(out)
	return strings.Join(out, ", ")
}

// settings returns in.Settings, or the defaults when unset.
func (in Input) settings() *config.Config {
	if in.Settings == nil {
		return config.Defaults()
	}
	return in.Settings
}

// unavailable is shown for optional result fields the API did not report.
const unavailable = "unavailable"

func orUnavailable(s string) string {
	if s == "" {
		return unavailable
	}
	return s
}
