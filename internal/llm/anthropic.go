// Copyright 2026 The Codebrief Authors
// SPDX-License-Identifier: MIT

package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/davetashner/codebrief/internal/prompt"
)

const anthropicProvider = "anthropic"

// AnthropicClient implements Client using the official Anthropic SDK. SDK
// retries are disabled so each Complete is a single round trip.
type AnthropicClient struct {
	client anthropic.Client
	apiKey string
}

// Compile-time check that AnthropicClient satisfies the Client interface.
var _ Client = (*AnthropicClient)(nil)

// NewAnthropicClient creates a client. Without WithAPIKey the key is read
// from ANTHROPIC_API_KEY; a missing key is reported by Complete.
func NewAnthropicClient(opts ...Option) *AnthropicClient {
	cfg := buildConfig(opts)

	apiKey := cfg.apiKey
	if apiKey == "" {
		apiKey = os.Getenv(AnthropicKeyEnv)
	}

	clientOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if cfg.baseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(cfg.baseURL))
	}
	if hc, ok := cfg.httpClient.(*http.Client); ok {
		clientOpts = append(clientOpts, option.WithHTTPClient(hc))
	}

	return &AnthropicClient{
		client: anthropic.NewClient(clientOpts...),
		apiKey: apiKey,
	}
}

// Complete sends req to the Anthropic Messages API. System and assistant
// role content become system blocks; the user message is the only turn.
func (c *AnthropicClient) Complete(ctx context.Context, req prompt.Request) (*Result, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(req.Model),
		MaxTokens:   int64(req.MaxTokens),
		Temperature: anthropic.Float(0),
	}
	for _, m := range req.Messages {
		switch m.Role {
		case prompt.RoleSystem, prompt.RoleAssistant:
			if m.Content != "" {
				params.System = append(params.System, anthropic.TextBlockParam{Text: m.Content})
			}
		case prompt.RoleUser:
			params.Messages = append(params.Messages, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		}
	}

	msg, err := c.client.Messages.New(ctx, params)
	if err != nil {
		remote := &RemoteError{Provider: anthropicProvider, Message: err.Error(), Err: err}
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			remote.StatusCode = apiErr.StatusCode
			if msg := anthropicErrorMessage(apiErr.RawJSON()); msg != "" {
				remote.Message = msg
			}
		}
		return nil, remote
	}

	// Extract text from content blocks.
	var content strings.Builder
	for _, block := range msg.Content {
		if variant, ok := block.AsAny().(anthropic.TextBlock); ok {
			content.WriteString(variant.Text)
		}
	}

	in, out := int(msg.Usage.InputTokens), int(msg.Usage.OutputTokens)
	return &Result{
		Summary:          content.String(),
		TotalTokens:      in + out,
		PromptTokens:     in,
		CompletionTokens: out,
		FinishReason:     finishReason(string(msg.StopReason)),
		Model:            string(msg.Model),
		RequestID:        msg.ID,
	}, nil
}

// anthropicErrorMessage extracts error.message from an API error body.
func anthropicErrorMessage(raw string) string {
	var body struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if raw == "" || json.Unmarshal([]byte(raw), &body) != nil {
		return ""
	}
	return body.Error.Message
}

// finishReason maps Anthropic stop reasons onto the chat API vocabulary.
func finishReason(stop string) string {
	switch stop {
	case "max_tokens":
		return FinishReasonLength
	case "end_turn", "stop_sequence":
		return "stop"
	default:
		return stop
	}
}
