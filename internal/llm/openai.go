// Copyright 2026 The Codebrief Authors
// SPDX-License-Identifier: MIT

package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/davetashner/codebrief/internal/prompt"
)

const (
	// defaultOpenAIBaseURL is used when no base URL is configured.
	defaultOpenAIBaseURL = "https://api.openai.com/v1"

	// openAIProvider labels errors from this client.
	openAIProvider = "openai"

	// maxErrorBody caps how much of a failed response body is read.
	maxErrorBody = 64 * 1024
)

// OpenAIClient calls the chat completions and legacy completions endpoints
// of an OpenAI-compatible API.
type OpenAIClient struct {
	apiKey     string
	baseURL    string
	httpClient HTTPDoer
}

// Compile-time check that OpenAIClient satisfies the Client interface.
var _ Client = (*OpenAIClient)(nil)

// NewOpenAIClient creates a client. Without WithAPIKey the key is read from
// OPENAI_API_KEY; a missing key is reported by Complete, not here.
func NewOpenAIClient(opts ...Option) *OpenAIClient {
	cfg := buildConfig(opts)

	apiKey := cfg.apiKey
	if apiKey == "" {
		apiKey = os.Getenv(OpenAIKeyEnv)
	}
	baseURL := strings.TrimRight(cfg.baseURL, "/")
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}
	httpClient := cfg.httpClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	return &OpenAIClient{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

// BaseURL returns the configured API base URL.
func (c *OpenAIClient) BaseURL() string {
	return c.baseURL
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatRequest is the body of POST /chat/completions. Zero values are sent
// explicitly, so no field uses omitempty.
type chatRequest struct {
	Model            string        `json:"model"`
	Messages         []chatMessage `json:"messages"`
	MaxTokens        int           `json:"max_tokens"`
	TopP             float64       `json:"top_p"`
	Stop             *string       `json:"stop"`
	Temperature      float64       `json:"temperature"`
	FrequencyPenalty float64       `json:"frequency_penalty"`
	PresencePenalty  float64       `json:"presence_penalty"`
}

// legacyRequest is the body of POST /completions.
type legacyRequest struct {
	Model       string  `json:"model"`
	Prompt      string  `json:"prompt"`
	MaxTokens   int     `json:"max_tokens"`
	N           int     `json:"n"`
	Stop        *string `json:"stop"`
	Temperature float64 `json:"temperature"`
}

// completionResponse covers both endpoints: chat choices carry a message,
// legacy choices carry text.
type completionResponse struct {
	ID      string `json:"id"`
	Created int64  `json:"created"`
	Model   string `json:"model"`
	Choices []struct {
		Text         string      `json:"text"`
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		TotalTokens      int `json:"total_tokens"`
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Complete sends req to the endpoint for its mode.
func (c *OpenAIClient) Complete(ctx context.Context, req prompt.Request) (*Result, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	switch req.Mode {
	case prompt.ModeLegacy:
		return c.completeLegacy(ctx, req)
	case prompt.ModeChat, "":
		return c.completeChat(ctx, req)
	default:
		return nil, fmt.Errorf("openai: unsupported request mode %q", req.Mode)
	}
}

func (c *OpenAIClient) completeChat(ctx context.Context, req prompt.Request) (*Result, error) {
	body := chatRequest{
		Model:     req.Model,
		Messages:  make([]chatMessage, len(req.Messages)),
		MaxTokens: req.MaxTokens,
		TopP:      1,
	}
	for i, m := range req.Messages {
		body.Messages[i] = chatMessage{Role: string(m.Role), Content: m.Content}
	}

	var out completionResponse
	if err := c.post(ctx, "/chat/completions", body, &out); err != nil {
		return nil, err
	}

	choice := out.Choices[0]
	res := &Result{
		Summary:          choice.Message.Content,
		TotalTokens:      out.Usage.TotalTokens,
		PromptTokens:     out.Usage.PromptTokens,
		CompletionTokens: out.Usage.CompletionTokens,
		FinishReason:     choice.FinishReason,
		Model:            out.Model,
		RequestID:        out.ID,
	}
	if out.Created > 0 {
		res.Created = time.Unix(out.Created, 0)
	}
	return res, nil
}

// completeLegacy only extracts text and usage; the legacy endpoint's other
// fields are not part of the normalized result.
func (c *OpenAIClient) completeLegacy(ctx context.Context, req prompt.Request) (*Result, error) {
	body := legacyRequest{
		Model:       req.Model,
		Prompt:      req.Prompt,
		MaxTokens:   req.MaxTokens,
		N:           1,
		Temperature: 0.5,
	}

	var out completionResponse
	if err := c.post(ctx, "/completions", body, &out); err != nil {
		return nil, err
	}

	return &Result{
		Summary:          strings.TrimSpace(out.Choices[0].Text),
		TotalTokens:      out.Usage.TotalTokens,
		PromptTokens:     out.Usage.PromptTokens,
		CompletionTokens: out.Usage.CompletionTokens,
	}, nil
}

// post performs the single HTTP round trip and decodes a successful body
// into out. Every failure is returned as a *RemoteError.
func (c *OpenAIClient) post(ctx context.Context, path string, body any, out *completionResponse) error {
	buf, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("openai: encoding request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(buf))
	if err != nil {
		return fmt.Errorf("openai: building request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return &RemoteError{Provider: openAIProvider, Message: err.Error(), Err: err}
	}
	defer resp.Body.Close() //nolint:errcheck // read-only body

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &RemoteError{
			Provider:   openAIProvider,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(data, resp.StatusCode),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &RemoteError{
			Provider:   openAIProvider,
			StatusCode: resp.StatusCode,
			Message:    "malformed response: " + err.Error(),
			Err:        err,
		}
	}
	if len(out.Choices) == 0 {
		return &RemoteError{
			Provider:   openAIProvider,
			StatusCode: resp.StatusCode,
			Message:    "malformed response: no choices returned",
		}
	}
	return nil
}

// errorMessage extracts the server-provided error text from a failed
// response body, falling back to a generic message.
func errorMessage(body []byte, status int) string {
	var e errorResponse
	if err := json.Unmarshal(body, &e); err == nil && e.Error.Message != "" {
		return e.Error.Message
	}
	if text := http.StatusText(status); text != "" {
		return "request failed: " + strings.ToLower(text)
	}
	return "request failed"
}
