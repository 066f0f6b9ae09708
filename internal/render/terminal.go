// Copyright 2026 The Codebrief Authors
// SPDX-License-Identifier: MIT

package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/davetashner/codebrief/internal/config"
	"github.com/davetashner/codebrief/internal/langtag"
)

func init() {
	Register(NewTerminal())
}

// Terminal renders a compact, colored report for the command line. Colors
// follow fatih/color's global NoColor switch.
type Terminal struct{}

// Compile-time interface check.
var _ Renderer = (*Terminal)(nil)

// NewTerminal returns a new Terminal renderer.
func NewTerminal() *Terminal {
	return &Terminal{}
}

// Name returns the output mode name.
func (t *Terminal) Name() string {
	return config.OutputTerminal
}

// Render writes the summary followed by a short metadata block.
func (t *Terminal) Render(in Input) (Document, error) {
	if in.Result == nil {
		return Document{}, ErrNoResult
	}
	res := in.Result

	bold := color.New(color.Bold)
	dim := color.New(color.Faint)
	red := color.New(color.FgRed, color.Bold)

	var buf bytes.Buffer
	_, _ = fmt.Fprintf(&buf, "%s %s\n\n", bold.Sprint("Summary"), dim.Sprintf("(%s)", langtag.Map(in.Selection.LanguageID)))
	_, _ = fmt.Fprintf(&buf, "%s\n\n", strings.TrimSpace(res.Summary))

	_, _ = fmt.Fprintf(&buf, "%s %s\n", bold.Sprint("Model:"), orUnavailable(res.Model))
	_, _ = fmt.Fprintf(&buf, "%s %d (prompt: %d, completion: %d) of max %d\n",
		bold.Sprint("Tokens:"), res.TotalTokens, res.PromptTokens, res.CompletionTokens, in.settings().MaxTokens)

	reason := orUnavailable(res.FinishReason)
	if res.Truncated() {
		reason = red.Sprint(reason) + " (output may be truncated)"
	}
	_, _ = fmt.Fprintf(&buf, "%s %s\n", bold.Sprint("Finish reason:"), reason)

	return Document{Format: t.Name(), Body: buf.String()}, nil
}
