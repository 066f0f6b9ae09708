package llm_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davetashner/codebrief/internal/llm"
	"github.com/davetashner/codebrief/internal/prompt"
)

type capture struct {
	path   string
	auth   string
	ctype  string
	body   map[string]any
	called atomic.Int32
}

// newOpenAIServer returns an httptest server that replies with status and
// body, capturing the request for assertions.
func newOpenAIServer(t *testing.T, status int, body string, c *capture) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c != nil {
			c.called.Add(1)
			c.path = r.URL.Path
			c.auth = r.Header.Get("Authorization")
			c.ctype = r.Header.Get("Content-Type")
			_ = json.NewDecoder(r.Body).Decode(&c.body)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

const chatOK = `{
  "id": "req-1",
  "object": "chat.completion",
  "created": 1700000000,
  "model": "gpt-4",
  "choices": [{"index": 0, "message": {"role": "assistant", "content": "A simple print statement."}, "finish_reason": "stop"}],
  "usage": {"total_tokens": 12, "prompt_tokens": 8, "completion_tokens": 4}
}`

func chatRequest() prompt.Request {
	return prompt.Request{
		Mode:      prompt.ModeChat,
		Model:     "gpt-4",
		MaxTokens: 100,
		Messages: []prompt.Message{
			{Role: prompt.RoleSystem, Content: "sys"},
			{Role: prompt.RoleAssistant, Content: "asst"},
			{Role: prompt.RoleUser, Content: "Explain:\nprint(1)\n"},
		},
	}
}

func TestOpenAI_ChatSuccess(t *testing.T) {
	var c capture
	srv := newOpenAIServer(t, http.StatusOK, chatOK, &c)

	client := llm.NewOpenAIClient(llm.WithAPIKey("sk-test"), llm.WithBaseURL(srv.URL))
	res, err := client.Complete(context.Background(), chatRequest())
	require.NoError(t, err)

	assert.Equal(t, "A simple print statement.", res.Summary)
	assert.Equal(t, 12, res.TotalTokens)
	assert.Equal(t, 8, res.PromptTokens)
	assert.Equal(t, 4, res.CompletionTokens)
	assert.Equal(t, "stop", res.FinishReason)
	assert.False(t, res.Truncated())
	assert.Equal(t, time.Unix(1700000000, 0), res.Created)
	assert.Equal(t, "gpt-4", res.Model)
	assert.Equal(t, "req-1", res.RequestID)

	assert.Equal(t, "/chat/completions", c.path)
	assert.Equal(t, "Bearer sk-test", c.auth)
	assert.Equal(t, "application/json", c.ctype)
}

func TestOpenAI_ChatWireBody(t *testing.T) {
	var c capture
	srv := newOpenAIServer(t, http.StatusOK, chatOK, &c)

	client := llm.NewOpenAIClient(llm.WithAPIKey("sk-test"), llm.WithBaseURL(srv.URL+"/"))
	_, err := client.Complete(context.Background(), chatRequest())
	require.NoError(t, err)

	assert.Equal(t, "gpt-4", c.body["model"])
	assert.Equal(t, float64(100), c.body["max_tokens"])
	assert.Equal(t, float64(1), c.body["top_p"])
	assert.Equal(t, float64(0), c.body["temperature"])
	assert.Equal(t, float64(0), c.body["frequency_penalty"])
	assert.Equal(t, float64(0), c.body["presence_penalty"])
	stop, ok := c.body["stop"]
	assert.True(t, ok, "stop must be sent explicitly")
	assert.Nil(t, stop)

	msgs, ok := c.body["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 3)
	roles := make([]string, 0, len(msgs))
	for _, m := range msgs {
		roles = append(roles, m.(map[string]any)["role"].(string))
	}
	assert.Equal(t, []string{"system", "assistant", "user"}, roles)
	assert.Equal(t, "Explain:\nprint(1)\n", msgs[2].(map[string]any)["content"])
}

func TestOpenAI_LegacySuccess(t *testing.T) {
	var c capture
	srv := newOpenAIServer(t, http.StatusOK,
		`{"choices":[{"text":"  It prints.\n"}],"usage":{"total_tokens":20,"prompt_tokens":15,"completion_tokens":5}}`, &c)

	client := llm.NewOpenAIClient(llm.WithAPIKey("sk-test"), llm.WithBaseURL(srv.URL))
	res, err := client.Complete(context.Background(), prompt.Request{
		Mode:      prompt.ModeLegacy,
		Model:     "text-davinci-002",
		MaxTokens: 100,
		Prompt:    "Please analyze...\nprint(1)\nSummary:",
	})
	require.NoError(t, err)

	assert.Equal(t, "It prints.", res.Summary)
	assert.Equal(t, 20, res.TotalTokens)
	assert.Equal(t, 15, res.PromptTokens)
	assert.Equal(t, 5, res.CompletionTokens)
	assert.Empty(t, res.FinishReason)
	assert.Empty(t, res.RequestID)
	assert.Empty(t, res.Model)
	assert.True(t, res.Created.IsZero())

	assert.Equal(t, "/completions", c.path)
	assert.Equal(t, "text-davinci-002", c.body["model"])
	assert.Equal(t, "Please analyze...\nprint(1)\nSummary:", c.body["prompt"])
	assert.Equal(t, float64(100), c.body["max_tokens"])
	assert.Equal(t, float64(1), c.body["n"])
	assert.Equal(t, 0.5, c.body["temperature"])
	stop, ok := c.body["stop"]
	assert.True(t, ok)
	assert.Nil(t, stop)
}

func TestOpenAI_MissingKeyMakesNoRequest(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	var c capture
	srv := newOpenAIServer(t, http.StatusOK, chatOK, &c)

	client := llm.NewOpenAIClient(llm.WithBaseURL(srv.URL))
	res, err := client.Complete(context.Background(), chatRequest())
	assert.Nil(t, res)
	assert.ErrorIs(t, err, llm.ErrMissingAPIKey)
	assert.Zero(t, c.called.Load())
}

func TestOpenAI_KeyFromEnv(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-env")
	var c capture
	srv := newOpenAIServer(t, http.StatusOK, chatOK, &c)

	client := llm.NewOpenAIClient(llm.WithBaseURL(srv.URL))
	_, err := client.Complete(context.Background(), chatRequest())
	require.NoError(t, err)
	assert.Equal(t, "Bearer sk-env", c.auth)
}

func TestOpenAI_ServerErrorMessage(t *testing.T) {
	srv := newOpenAIServer(t, http.StatusUnauthorized,
		`{"error":{"message":"Incorrect API key provided","type":"invalid_request_error"}}`, nil)

	client := llm.NewOpenAIClient(llm.WithAPIKey("sk-bad"), llm.WithBaseURL(srv.URL))
	_, err := client.Complete(context.Background(), chatRequest())
	require.Error(t, err)

	var remote *llm.RemoteError
	require.True(t, errors.As(err, &remote))
	assert.Equal(t, http.StatusUnauthorized, remote.StatusCode)
	assert.Equal(t, "Incorrect API key provided", remote.Message)
	assert.Contains(t, err.Error(), "status 401")
}

func TestOpenAI_GenericErrorMessage(t *testing.T) {
	srv := newOpenAIServer(t, http.StatusBadGateway, `<html>bad gateway</html>`, nil)

	client := llm.NewOpenAIClient(llm.WithAPIKey("sk"), llm.WithBaseURL(srv.URL))
	_, err := client.Complete(context.Background(), chatRequest())

	var remote *llm.RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, "request failed: bad gateway", remote.Message)
}

func TestOpenAI_MalformedBody(t *testing.T) {
	srv := newOpenAIServer(t, http.StatusOK, `{"choices": [`, nil)

	client := llm.NewOpenAIClient(llm.WithAPIKey("sk"), llm.WithBaseURL(srv.URL))
	_, err := client.Complete(context.Background(), chatRequest())

	var remote *llm.RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Contains(t, remote.Message, "malformed response")
}

func TestOpenAI_NoChoices(t *testing.T) {
	srv := newOpenAIServer(t, http.StatusOK, `{"choices": [], "usage": {}}`, nil)

	client := llm.NewOpenAIClient(llm.WithAPIKey("sk"), llm.WithBaseURL(srv.URL))
	_, err := client.Complete(context.Background(), chatRequest())

	var remote *llm.RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Contains(t, remote.Message, "no choices")
}

func TestOpenAI_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := llm.NewOpenAIClient(llm.WithAPIKey("sk"), llm.WithBaseURL(url))
	_, err := client.Complete(context.Background(), chatRequest())

	var remote *llm.RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Zero(t, remote.StatusCode)
	assert.NotEmpty(t, remote.Message)
	assert.NotNil(t, errors.Unwrap(remote))
}

func TestOpenAI_SingleRequestOnFailure(t *testing.T) {
	var c capture
	srv := newOpenAIServer(t, http.StatusInternalServerError, `{"error":{"message":"boom"}}`, &c)

	client := llm.NewOpenAIClient(llm.WithAPIKey("sk"), llm.WithBaseURL(srv.URL))
	_, err := client.Complete(context.Background(), chatRequest())
	require.Error(t, err)
	assert.Equal(t, int32(1), c.called.Load(), "no retries")
}

func TestOpenAI_UnsupportedMode(t *testing.T) {
	client := llm.NewOpenAIClient(llm.WithAPIKey("sk"))
	_, err := client.Complete(context.Background(), prompt.Request{Mode: prompt.ModeAnthropic})
	assert.Error(t, err)
}

func TestOpenAI_DefaultBaseURL(t *testing.T) {
	assert.Equal(t, "https://api.openai.com/v1", llm.NewOpenAIClient().BaseURL())
}
