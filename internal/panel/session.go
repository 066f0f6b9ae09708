// Copyright 2026 The Codebrief Authors
// SPDX-License-Identifier: MIT

// Package panel serves the live summary panel: an HTML page holding the
// ordered history of one session, pushed to connected browsers over a
// websocket after every append.
package panel

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/google/uuid"

	"github.com/davetashner/codebrief/internal/pipeline"
	"github.com/davetashner/codebrief/internal/render"
)

// Session owns the history of one panel. Items are only ever appended, and
// the page is re-rendered from the full list on every change.
type Session struct {
	mu        sync.Mutex
	id        string
	maxTokens int
	items     []render.Item
	usage     *render.Usage
	live      bool
	onUpdate  func(page []byte)

	// writePage renders the page; replaced in tests.
	writePage func(io.Writer, render.Page) error
}

// Compile-time check that Session can display pipeline results.
var _ pipeline.Display = (*Session)(nil)

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithLiveReload makes rendered pages reconnect to the panel's /ws endpoint.
func WithLiveReload() SessionOption {
	return func(s *Session) { s.live = true }
}

// WithOnUpdate registers fn to receive every re-rendered page. fn is called
// with the session lock held, so updates arrive in append order; it must
// not block.
func WithOnUpdate(fn func(page []byte)) SessionOption {
	return func(s *Session) { s.onUpdate = fn }
}

// NewSession returns an empty session showing maxTokens in its header.
func NewSession(maxTokens int, opts ...SessionOption) *Session {
	s := &Session{id: uuid.NewString(), maxTokens: maxTokens, writePage: render.WritePage}
	for _, o := range opts {
		o(s)
	}
	return s
}

// ID identifies the session. Reset assigns a new one.
func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// Show appends the invocation to the history.
func (s *Session) Show(_ context.Context, in render.Input, _ render.Document) error {
	_, err := s.Append(render.ItemFromInput(in), render.UsageFromInput(in))
	return err
}

// Append adds an item, records usage as the latest token accounting, and
// returns the re-rendered page. If the page cannot be rendered the history
// is left as it was.
func (s *Session) Append(it render.Item, usage *render.Usage) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, prevUsage := len(s.items), s.usage
	s.items = append(s.items, it)
	if usage != nil {
		s.usage = usage
	}
	page, err := s.publish()
	if err != nil {
		s.items, s.usage = s.items[:n], prevUsage
		return nil, err
	}
	return page, nil
}

// Items returns a copy of the history in append order.
func (s *Session) Items() []render.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]render.Item, len(s.items))
	copy(out, s.items)
	return out
}

// Page renders the current history.
func (s *Session) Page() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.render()
}

// Reset disposes the history and starts a new session id.
func (s *Session) Reset() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	s.usage = nil
	s.id = uuid.NewString()
	return s.publish()
}

func (s *Session) publish() ([]byte, error) {
	page, err := s.render()
	if err != nil {
		return nil, err
	}
	if s.onUpdate != nil {
		s.onUpdate(page)
	}
	return page, nil
}

func (s *Session) render() ([]byte, error) {
	var buf bytes.Buffer
	err := s.writePage(&buf, render.Page{
		MaxTokens: s.maxTokens,
		Usage:     s.usage,
		Items:     s.items,
		Live:      s.live,
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// NewLive returns a live-reloading session and the hub that pushes its
// pages. New websocket clients first receive the current page.
func NewLive(maxTokens int) (*Session, *Hub) {
	hub := NewHub(nil)
	s := NewSession(maxTokens, WithLiveReload(), WithOnUpdate(hub.Broadcast))
	hub.current = s.Page
	return s, hub
}
