// Copyright 2026 The Codebrief Authors
// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// GlobalConfigDir returns the directory for global codebrief settings.
// It uses $XDG_CONFIG_HOME/codebrief if set, otherwise ~/.config/codebrief.
func GlobalConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, Namespace)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", Namespace)
}

// GlobalConfigPath returns the path to the global settings file.
func GlobalConfigPath() string {
	return filepath.Join(GlobalConfigDir(), "config.yaml")
}

// LoadGlobal loads the global settings file.
// If the file does not exist, it returns a zero-value Config and nil error.
func LoadGlobal() (*Config, error) {
	cfg, err := LoadFile(GlobalConfigPath())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}
	return cfg, nil
}

// Resolve returns the effective settings for dir: defaults, overridden by
// the global file, overridden by the repository file.
func Resolve(dir string) (*Config, error) {
	global, err := LoadGlobal()
	if err != nil {
		return nil, err
	}
	repo, err := Load(dir)
	if err != nil {
		return nil, err
	}
	return Merge(Merge(Defaults(), global), repo), nil
}
