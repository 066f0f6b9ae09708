package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionDefault(t *testing.T) {
	assert.Equal(t, "dev", Version)
}

func TestVersionSubcommand(t *testing.T) {
	isolate(t)
	old := Version
	Version = "v0.1.0-test"
	t.Cleanup(func() { Version = old })

	stdout, _, err := execute(t, nil, "version")
	require.NoError(t, err)
	assert.Equal(t, "codebrief v0.1.0-test\n", stdout)
}

func TestRootRegistersCommands(t *testing.T) {
	names := make([]string, 0, len(rootCmd.Commands()))
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"summarize", "settings", "panel", "mcp", "version"} {
		assert.Contains(t, names, want)
	}
}
