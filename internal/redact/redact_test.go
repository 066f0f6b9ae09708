package redact

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString_RedactsKnownEnvVars(t *testing.T) {
	const secret = "test-openai-value-1234567890" //nolint:gosec // fake test credential
	t.Setenv("OPENAI_API_KEY", secret)
	resetCache()

	got := String("error: auth failed with key test-openai-value-1234567890 for request")
	assert.Equal(t, "error: auth failed with key [REDACTED] for request", got)
}

func TestString_NoSecretSetIsNoop(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("CODEBRIEF_API_KEY", "")
	resetCache()

	input := "some normal error message"
	assert.Equal(t, input, String(input))
}

func TestString_ShortValuesIgnored(t *testing.T) {
	// Values under 4 chars could cause false-positive redaction.
	t.Setenv("OPENAI_API_KEY", "abc")
	resetCache()

	input := "abc is in the string abc"
	assert.Equal(t, input, String(input))
}

func TestString_MultipleSecrets(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "test-token-aaaa")
	t.Setenv("ANTHROPIC_API_KEY", "test-token-bbbb")
	resetCache()

	got := String("tokens: test-token-aaaa and test-token-bbbb")
	assert.Equal(t, "tokens: [REDACTED] and [REDACTED]", got)
}

func TestString_KeyShapes(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("ANTHROPIC_API_KEY", "")
	resetCache()

	tests := []struct {
		in, want string
	}{
		{"key sk-abcdefghijklmnopqrstuv rejected", "key [REDACTED] rejected"},
		{"key sk-proj-ABCDEFGHIJKLMNOP_123 rejected", "key [REDACTED] rejected"},
		{"sk-ant-REDACTED", "[REDACTED]"},
		{"sk-short", "sk-short"},
		{"task-abcdefghijklmnopqrstuv", "task-abcdefghijklmnopqrstuv"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, String(tt.in), tt.in)
	}
}

func TestReload(t *testing.T) {
	t.Setenv("CODEBRIEF_API_KEY", "")
	resetCache()
	assert.Equal(t, "value-from-dotenv", String("value-from-dotenv"))

	t.Setenv("CODEBRIEF_API_KEY", "value-from-dotenv")
	assert.Equal(t, "value-from-dotenv", String("value-from-dotenv"), "cached until reload")

	Reload()
	assert.Equal(t, "[REDACTED]", String("value-from-dotenv"))
}
