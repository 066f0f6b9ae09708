// Copyright 2026 The Codebrief Authors
// SPDX-License-Identifier: MIT

package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"sync"

	"github.com/davetashner/codebrief/internal/config"
	"github.com/davetashner/codebrief/internal/langtag"
)

func init() {
	Register(NewWebview())
}

// PrismVersion is the Prism release loaded from the CDN.
const PrismVersion = "1.27.0"

// Item is one entry of a panel's history.
type Item struct {
	// Code is the selected snippet. It is HTML-escaped when rendered.
	Code string

	// Summary is the model output. It is inserted into the page as-is.
	Summary string

	// Tag is the highlighter tag for Code.
	Tag string
}

// Usage is the token accounting of the most recent completion.
type Usage struct {
	Total      int
	Prompt     int
	Completion int
}

// Page is the complete state needed to draw a panel.
type Page struct {
	MaxTokens int

	// Usage is nil until the first completion is appended.
	Usage *Usage

	// Items are drawn in slice order.
	Items []Item

	// Live adds a script that replaces the page with each update received
	// on the panel's /ws endpoint.
	Live bool
}

// ItemFromInput builds the history entry for one invocation.
func ItemFromInput(in Input) Item {
	it := Item{
		Code: in.Selection.Text,
		Tag:  langtag.Map(in.Selection.LanguageID),
	}
	if in.Result != nil {
		it.Summary = in.Result.Summary
	}
	return it
}

// UsageFromInput returns the token usage reported in in.Result.
func UsageFromInput(in Input) *Usage {
	if in.Result == nil {
		return nil
	}
	return &Usage{
		Total:      in.Result.TotalTokens,
		Prompt:     in.Result.PromptTokens,
		Completion: in.Result.CompletionTokens,
	}
}

// Webview renders a panel page holding a single invocation. Panels that keep
// history call WritePage with the accumulated items instead.
type Webview struct{}

// Compile-time interface check.
var _ Renderer = (*Webview)(nil)

// NewWebview returns a new Webview renderer.
func NewWebview() *Webview {
	return &Webview{}
}

// Name returns the output mode name.
func (v *Webview) Name() string {
	return config.OutputWebview
}

// Render draws a page whose history is just this invocation.
func (v *Webview) Render(in Input) (Document, error) {
	if in.Result == nil {
		return Document{}, ErrNoResult
	}
	var buf bytes.Buffer
	err := WritePage(&buf, Page{
		MaxTokens: in.settings().MaxTokens,
		Usage:     UsageFromInput(in),
		Items:     []Item{ItemFromInput(in)},
	})
	if err != nil {
		return Document{}, err
	}
	return Document{Format: v.Name(), Body: buf.String()}, nil
}

var (
	pageTmplOnce sync.Once
	pageTmpl     *template.Template
)

type pageData struct {
	PrismVersion string
	Tags         []string
	MaxTokens    int
	Usage        *Usage
	Items        []pageItem
	Namespace    string
	Live         bool
}

type pageItem struct {
	Code    string
	Summary template.HTML
	Tag     string
}

// WritePage renders the whole page from p. Each distinct highlighter tag gets
// one Prism language script, in order of first appearance.
func WritePage(w io.Writer, p Page) error {
	pageTmplOnce.Do(func() {
		pageTmpl = template.Must(template.New("panel").Parse(pageTemplate))
	})

	data := pageData{
		PrismVersion: PrismVersion,
		MaxTokens:    p.MaxTokens,
		Usage:        p.Usage,
		Items:        make([]pageItem, 0, len(p.Items)),
		Namespace:    config.Namespace,
		Live:         p.Live,
	}
	seen := make(map[string]bool)
	for _, it := range p.Items {
		if it.Tag != "" && !seen[it.Tag] {
			seen[it.Tag] = true
			data.Tags = append(data.Tags, it.Tag)
		}
		data.Items = append(data.Items, pageItem{
			Code:    it.Code,
			Summary: template.HTML(it.Summary), //nolint:gosec // model output is shown as markup
			Tag:     it.Tag,
		})
	}

	if err := pageTmpl.Execute(w, data); err != nil {
		return fmt.Errorf("execute panel template: %w", err)
	}
	return nil
}
