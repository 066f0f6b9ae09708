package config

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/go-git/go-git/v5"
)

// FindRepoRoot returns the worktree root of the git repository containing
// dir. Outside a repository, or for a bare repository, it returns dir.
func FindRepoRoot(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", dir, err)
	}

	repo, err := git.PlainOpenWithOptions(abs, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return abs, nil
		}
		return "", fmt.Errorf("opening repository at %s: %w", abs, err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return abs, nil
	}
	return wt.Filesystem.Root(), nil
}
