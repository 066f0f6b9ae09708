// Copyright 2026 The Codebrief Authors
// SPDX-License-Identifier: MIT

package mcpserver

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davetashner/codebrief/internal/config"
	"github.com/davetashner/codebrief/internal/langtag"
	"github.com/davetashner/codebrief/internal/llm"
	"github.com/davetashner/codebrief/internal/prompt"
)

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func newTools(client llm.Client) *tools {
	return &tools{opts: Options{
		Version:   "test",
		Client:    client,
		Settings:  config.Defaults(),
		HasAPIKey: func(prompt.Mode) bool { return true },
	}}
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.Len(t, res.Content, 1)
	return res.Content[0].(*mcp.TextContent).Text
}

func TestHandleSummarize_InlineCode(t *testing.T) {
	client := llm.NewMockClient(llm.MockResponse{Result: &llm.Result{Summary: "Prints hi."}})
	res, _, err := newTools(client).handleSummarize(context.Background(), nil, SummarizeInput{
		Code:       "echo hi",
		LanguageID: "shellscript",
	})
	require.NoError(t, err)

	text := resultText(t, res)
	assert.Contains(t, text, "Prints hi.")
	assert.Contains(t, text, "```bash\necho hi\n```")

	calls := client.Calls()
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0].UserContent(), "echo hi")
}

func TestHandleSummarize_FileWithLines(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "main.go", "package main\n\nfunc main() {\n\tprintln(\"hi\")\n}\n")

	client := llm.NewMockClient(llm.MockResponse{Result: &llm.Result{Summary: "Entry point."}})
	res, _, err := newTools(client).handleSummarize(context.Background(), nil, SummarizeInput{
		Path:  path,
		Lines: "3:5",
	})
	require.NoError(t, err)

	text := resultText(t, res)
	assert.Contains(t, text, "```go\nfunc main() {")
	assert.NotContains(t, text, "package main")

	calls := client.Calls()
	require.Len(t, calls, 1)
	assert.NotContains(t, calls[0].UserContent(), "package main")
}

func TestHandleSummarize_TerminalOutput(t *testing.T) {
	client := llm.NewMockClient(llm.MockResponse{Result: &llm.Result{Summary: "Adds.", FinishReason: "stop"}})
	res, _, err := newTools(client).handleSummarize(context.Background(), nil, SummarizeInput{
		Code:   "a + b",
		Output: "terminal",
	})
	require.NoError(t, err)
	assert.Contains(t, resultText(t, res), "Adds.")
}

func TestHandleSummarize_Errors(t *testing.T) {
	dir := t.TempDir()
	file := writeTestFile(t, dir, "x.py", "x = 1\n")

	tests := []struct {
		name  string
		input SummarizeInput
		want  string
	}{
		{"nothing selected", SummarizeInput{}, "please select some text to summarize"},
		{"code and path", SummarizeInput{Code: "x", Path: file}, "cannot be combined"},
		{"missing file", SummarizeInput{Path: filepath.Join(dir, "nope.py")}, "does not exist"},
		{"directory", SummarizeInput{Path: dir}, "not a regular file"},
		{"bad lines", SummarizeInput{Path: file, Lines: "0:x"}, "invalid line range"},
		{"bad output", SummarizeInput{Code: "x", Output: "pdf"}, `unsupported output "pdf"`},
		{"range past end", SummarizeInput{Path: file, Lines: "10:20"}, "please select some text"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := llm.NewMockClient()
			_, _, err := newTools(client).handleSummarize(context.Background(), nil, tt.input)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.Empty(t, client.Calls(), "no request may be sent")
		})
	}
}

func TestHandleSummarize_RemoteErrorMessage(t *testing.T) {
	client := llm.NewMockClient(llm.MockResponse{Err: &llm.RemoteError{Provider: "openai", StatusCode: 401, Message: "Incorrect API key provided"}})
	_, _, err := newTools(client).handleSummarize(context.Background(), nil, SummarizeInput{Code: "x"})
	require.Error(t, err)
	assert.Equal(t, "An error occurred while summarizing the text: openai: Incorrect API key provided (status 401)", err.Error())
}

func TestHandleSummarize_MissingKey(t *testing.T) {
	tl := newTools(llm.NewMockClient())
	tl.opts.HasAPIKey = func(prompt.Mode) bool { return false }
	_, _, err := tl.handleSummarize(context.Background(), nil, SummarizeInput{Code: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")
}

func TestHandleMapLanguage(t *testing.T) {
	res, _, err := handleMapLanguage(context.Background(), nil, MapLanguageInput{LanguageIDs: "plaintext,typescriptreact"})
	require.NoError(t, err)
	text := resultText(t, res)
	assert.Contains(t, text, `"plaintext": "markup"`)
	assert.Contains(t, text, `"typescriptreact": "tsx"`)

}

func TestHandleMapLanguage_EmptyListsWholeTable(t *testing.T) {
	res, _, err := handleMapLanguage(context.Background(), nil, MapLanguageInput{LanguageIDs: " , "})
	require.NoError(t, err)

	var tags map[string]string
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &tags))
	assert.Len(t, tags, len(langtag.Known()))
	assert.Equal(t, "bash", tags["shellscript"])
}

func TestSplitAndTrim(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitAndTrim(" a , ,b "))
	assert.Empty(t, splitAndTrim(""))
}
