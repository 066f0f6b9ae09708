package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/davetashner/codebrief/internal/config"
	"github.com/davetashner/codebrief/internal/llm"
	"github.com/davetashner/codebrief/internal/prompt"
)

// helloResult is a typical chat completion for print("Hello, World!").
var helloResult = &llm.Result{
	Summary:          "Prints a greeting to standard output.",
	TotalTokens:      12,
	PromptTokens:     8,
	CompletionTokens: 4,
	FinishReason:     "stop",
	Model:            "gpt-4",
	RequestID:        "req-1",
}

// isolate runs the test in an empty working directory with its own global
// settings directory, so neither the developer's files nor their keys leak in.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	dir, err := filepath.EvalSymlinks(dir)
	if err != nil {
		t.Fatalf("eval symlinks: %v", err)
	}
	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("ANTHROPIC_API_KEY", "")

	oldNoColor := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = oldNoColor })
	return dir
}

// useMockClient replaces the completion client and key check for one test.
func useMockClient(t *testing.T, responses ...llm.MockResponse) *llm.MockClient {
	t.Helper()
	mock := llm.NewMockClient(responses...)

	oldClient, oldHasKey := newClient, hasAPIKey
	newClient = func(*config.Config) llm.Client { return mock }
	hasAPIKey = func(prompt.Mode) bool { return true }
	t.Cleanup(func() {
		newClient = oldClient
		hasAPIKey = oldHasKey
	})
	return mock
}

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, stdin io.Reader, args ...string) (string, string, error) {
	t.Helper()
	return executeContext(t, context.Background(), stdin, args...)
}

// executeContext is execute with a caller-supplied context.
func executeContext(t *testing.T, ctx context.Context, stdin io.Reader, args ...string) (string, string, error) {
	t.Helper()
	resetSummarizeFlags()
	resetSettingsFlags()
	t.Cleanup(func() {
		resetSummarizeFlags()
		resetSettingsFlags()
	})

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	if stdin == nil {
		stdin = strings.NewReader("")
	}
	rootCmd.SetIn(stdin)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetArgs(nil)
	})

	// cobra keeps the first context it hands a subcommand; reset them all.
	setContext(rootCmd, ctx)
	err := rootCmd.ExecuteContext(ctx)
	return stdout.String(), stderr.String(), err
}

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func setContext(cmd *cobra.Command, ctx context.Context) {
	cmd.SetContext(ctx)
	for _, c := range cmd.Commands() {
		setContext(c, ctx)
	}
}
