// Copyright 2026 The Codebrief Authors
// SPDX-License-Identifier: MIT

package llm

import (
	"context"
	"sync"

	"github.com/davetashner/codebrief/internal/prompt"
)

// MockResponse defines a canned response for the mock client.
type MockResponse struct {
	Result *Result
	Err    error
}

// MockClient is a test double that returns pre-configured responses in
// sequence. After all responses are exhausted, it keeps returning the last one.
// It records every request for later assertion.
type MockClient struct {
	mu        sync.Mutex
	responses []MockResponse
	calls     []prompt.Request
	idx       int
}

// Compile-time check that MockClient satisfies the Client interface.
var _ Client = (*MockClient)(nil)

// NewMockClient creates a mock that returns the given responses in order.
// If no responses are provided, Complete returns an empty Result.
func NewMockClient(responses ...MockResponse) *MockClient {
	return &MockClient{
		responses: responses,
	}
}

// Complete returns the next canned response and records the request.
// It respects context cancellation.
func (m *MockClient) Complete(ctx context.Context, req prompt.Request) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, req)

	if len(m.responses) == 0 {
		return &Result{Model: "mock"}, nil
	}

	r := m.responses[m.idx]
	if m.idx < len(m.responses)-1 {
		m.idx++
	}

	if r.Err != nil {
		return nil, r.Err
	}
	if r.Result == nil {
		return &Result{Model: "mock"}, nil
	}
	res := *r.Result
	return &res, nil
}

// Calls returns a copy of all requests received by this mock.
func (m *MockClient) Calls() []prompt.Request {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]prompt.Request, len(m.calls))
	copy(out, m.calls)
	return out
}

// Reset clears call history and resets the response index to zero.
func (m *MockClient) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = nil
	m.idx = 0
}
