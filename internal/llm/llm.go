// Copyright 2026 The Codebrief Authors
// SPDX-License-Identifier: MIT

// Package llm sends prompt requests to a remote completion API and
// normalizes the response into a Result.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/davetashner/codebrief/internal/prompt"
)

// Client performs exactly one remote call per Complete. Implementations do
// not retry, cache, or rate limit.
type Client interface {
	// Complete sends req and returns the normalized result.
	Complete(ctx context.Context, req prompt.Request) (*Result, error)
}

// Result is the normalized completion response.
type Result struct {
	// Summary is the text of the first choice.
	Summary string

	TotalTokens      int
	PromptTokens     int
	CompletionTokens int

	// FinishReason, Created, Model and RequestID are empty/zero when the
	// API variant does not report them.
	FinishReason string
	Created      time.Time
	Model        string
	RequestID    string
}

// FinishReasonLength marks output truncated by the max token limit.
const FinishReasonLength = "length"

// Truncated reports whether generation stopped because of the token limit.
func (r *Result) Truncated() bool {
	return r.FinishReason == FinishReasonLength
}

// ErrMissingAPIKey is returned before any network attempt when no API key is
// configured for the selected mode.
var ErrMissingAPIKey = errors.New("llm: API key not set")

// Environment variables holding the API key for each provider.
const (
	OpenAIKeyEnv    = "OPENAI_API_KEY"
	AnthropicKeyEnv = "ANTHROPIC_API_KEY"
)

// APIKeyEnv returns the environment variable that supplies the key for mode.
func APIKeyEnv(mode prompt.Mode) string {
	if mode == prompt.ModeAnthropic {
		return AnthropicKeyEnv
	}
	return OpenAIKeyEnv
}

// RemoteError reports a failed remote call: a non-success status, a
// transport failure, or a malformed response body.
type RemoteError struct {
	// Provider is the API family, e.g. "openai" or "anthropic".
	Provider string

	// StatusCode is the HTTP status, zero for transport failures.
	StatusCode int

	// Message is the most specific description available: the
	// server-provided error text, else the underlying error text, else a
	// generic message.
	Message string

	// Err is the underlying error, if any.
	Err error
}

func (e *RemoteError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %s (status %d)", e.Provider, e.Message, e.StatusCode)
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

func (e *RemoteError) Unwrap() error { return e.Err }

// Dispatcher routes each request to the client for its mode: chat and
// legacy go to the OpenAI-compatible client, anthropic to the Anthropic
// client.
type Dispatcher struct {
	OpenAI    Client
	Anthropic Client
}

// Compile-time check that Dispatcher satisfies the Client interface.
var _ Client = (*Dispatcher)(nil)

// Complete dispatches on req.Mode.
func (d *Dispatcher) Complete(ctx context.Context, req prompt.Request) (*Result, error) {
	switch req.Mode {
	case prompt.ModeChat, prompt.ModeLegacy, "":
		return d.OpenAI.Complete(ctx, req)
	case prompt.ModeAnthropic:
		return d.Anthropic.Complete(ctx, req)
	default:
		return nil, fmt.Errorf("llm: unsupported request mode %q", req.Mode)
	}
}

// Option configures a client.
type Option func(*clientConfig)

type clientConfig struct {
	apiKey     string
	baseURL    string
	httpClient HTTPDoer
}

// HTTPDoer is the subset of *http.Client used by the clients.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// WithAPIKey sets the API key. If not provided, each client reads its
// provider's environment variable.
func WithAPIKey(key string) Option {
	return func(c *clientConfig) {
		c.apiKey = key
	}
}

// WithBaseURL overrides the API base URL.
func WithBaseURL(url string) Option {
	return func(c *clientConfig) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the HTTP client. The default has no timeout.
func WithHTTPClient(doer HTTPDoer) Option {
	return func(c *clientConfig) {
		c.httpClient = doer
	}
}

func buildConfig(opts []Option) clientConfig {
	var cfg clientConfig
	for _, o := range opts {
		o(&cfg)
	}
	return cfg
}
