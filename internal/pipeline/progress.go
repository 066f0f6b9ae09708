// Copyright 2026 The Codebrief Authors
// SPDX-License-Identifier: MIT

package pipeline

import (
	"log/slog"
	"sync"
)

// Progress is the handle a surface uses while a request is in flight.
//
// Cancel only records and logs the request. The in-flight call is not
// aborted and its result is still rendered and displayed.
type Progress struct {
	mu        sync.Mutex
	id        string
	cancelled bool
}

// NewProgress returns a handle not yet bound to an invocation.
func NewProgress() *Progress {
	return &Progress{}
}

func (p *Progress) bind(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.id = id
}

// Cancel logs the cancellation request. Repeated calls log once.
func (p *Progress) Cancel() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancelled {
		return
	}
	p.cancelled = true
	slog.Info("cancellation requested; the request continues and its result will still be shown", "invocation", p.id)
}

// Cancelled reports whether Cancel was called.
func (p *Progress) Cancelled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cancelled
}
