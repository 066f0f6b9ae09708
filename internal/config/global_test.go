package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGlobalConfigDir_Default(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	dir := GlobalConfigDir()
	home, _ := os.UserHomeDir()
	assert.Equal(t, filepath.Join(home, ".config", "codebrief"), dir)
}

func TestGlobalConfigDir_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	assert.Equal(t, "/custom/config/codebrief", GlobalConfigDir())
}

func TestGlobalConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	assert.Equal(t, "/custom/config/codebrief/config.yaml", GlobalConfigPath())
}

func TestLoadGlobal_Missing(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := LoadGlobal()
	require.NoError(t, err)
	assert.Equal(t, &Config{}, cfg)
}

func writeGlobal(t *testing.T, content string) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	cfgDir := filepath.Join(dir, "codebrief")
	require.NoError(t, os.MkdirAll(cfgDir, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(cfgDir, "config.yaml"), []byte(content), 0o600))
}

func TestLoadGlobal_Valid(t *testing.T) {
	writeGlobal(t, "maxTokens: 500\nrequestMode: legacy\n")

	cfg, err := LoadGlobal()
	require.NoError(t, err)
	assert.Equal(t, 500, cfg.MaxTokens)
	assert.Equal(t, ModeLegacy, cfg.RequestMode)
}

func TestLoadGlobal_Invalid(t *testing.T) {
	writeGlobal(t, "{{nope")

	_, err := LoadGlobal()
	assert.Error(t, err)
}

func TestResolve_Precedence(t *testing.T) {
	writeGlobal(t, "maxTokens: 500\ngptModel: global-model\n")

	repo := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(repo, FileName), []byte("gptModel: repo-model\n"), 0o600))

	cfg, err := Resolve(repo)
	require.NoError(t, err)
	assert.Equal(t, 500, cfg.MaxTokens, "global overrides default")
	assert.Equal(t, "repo-model", cfg.GPTModel, "repo overrides global")
	assert.Equal(t, DefaultRoleUserContent, cfg.RoleUserContent, "unset keys keep defaults")
}
