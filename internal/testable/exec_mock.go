package testable

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"sync"
)

// MockCommandExecutor is a test double for CommandExecutor. It can simulate
// a missing program, command failures, and predetermined outputs.
type MockCommandExecutor struct {
	// LookPathErr, when non-nil, is returned by LookPath for any file.
	LookPathErr error

	// CommandOutputs maps a command key (e.g., "vi /tmp/config.yaml") to the
	// stdout that the resulting exec.Cmd should produce. The key is built from
	// the command name and all arguments joined by spaces.
	CommandOutputs map[string]string

	// CommandErrors maps a command key to an error message. When set, the
	// resulting exec.Cmd will fail with that message written to stderr.
	CommandErrors map[string]string

	// DefaultError, when non-empty, makes every unmatched command fail.
	DefaultError string

	mu    sync.Mutex
	calls []string
}

// LookPath returns the configured error, or file unchanged.
func (m *MockCommandExecutor) LookPath(file string) (string, error) {
	if m.LookPathErr != nil {
		return "", m.LookPathErr
	}
	return file, nil
}

// CommandContext returns an *exec.Cmd that, when executed, produces the
// pre-configured output or error by running sh instead of the named program.
func (m *MockCommandExecutor) CommandContext(ctx context.Context, name string, args ...string) *exec.Cmd {
	key := strings.TrimSpace(name + " " + strings.Join(args, " "))
	m.mu.Lock()
	m.calls = append(m.calls, key)
	m.mu.Unlock()

	if errMsg, ok := m.CommandErrors[key]; ok {
		return failing(ctx, errMsg)
	}
	if out, ok := m.CommandOutputs[key]; ok {
		return printing(ctx, out)
	}
	if m.DefaultError != "" {
		return failing(ctx, m.DefaultError)
	}
	return printing(ctx, "")
}

// Calls returns the command keys invoked so far.
func (m *MockCommandExecutor) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

func failing(ctx context.Context, msg string) *exec.Cmd {
	return exec.CommandContext(ctx, "sh", "-c", fmt.Sprintf("echo %q >&2; exit 1", msg)) //nolint:gosec // test helper
}

func printing(ctx context.Context, out string) *exec.Cmd {
	return exec.CommandContext(ctx, "sh", "-c", fmt.Sprintf("printf '%%s' %q", out)) //nolint:gosec // test helper
}

// Compile-time interface check.
var _ CommandExecutor = (*MockCommandExecutor)(nil)
