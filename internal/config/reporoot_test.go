package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindRepoRoot_NotARepo(t *testing.T) {
	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)

	root, err := FindRepoRoot(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, root)
}

func TestFindRepoRoot_FromSubdirectory(t *testing.T) {
	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	_, err = git.PlainInit(dir, false)
	require.NoError(t, err)

	sub := filepath.Join(dir, "pkg", "inner")
	require.NoError(t, os.MkdirAll(sub, 0o750))

	root, err := FindRepoRoot(sub)
	require.NoError(t, err)
	assert.Equal(t, dir, root)
}

func TestLoad_FindsRepoFileFromSubdirectory(t *testing.T) {
	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	_, err = git.PlainInit(dir, false)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("maxTokens: 77\n"), 0o600))

	sub := filepath.Join(dir, "src")
	require.NoError(t, os.MkdirAll(sub, 0o750))

	cfg, err := Load(sub)
	require.NoError(t, err)
	assert.Equal(t, 77, cfg.MaxTokens)
}
