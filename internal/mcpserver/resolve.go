// Copyright 2026 The Codebrief Authors
// SPDX-License-Identifier: MIT

// Package mcpserver implements an MCP (Model Context Protocol) server that
// exposes codebrief's summarize pipeline and language mapping as tools.
package mcpserver

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ResolveFile resolves path to an absolute, symlink-free path of a regular
// file. Directories, devices and missing files are rejected.
func ResolveFile(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("path is required")
	}
	if strings.ContainsRune(path, 0) {
		return "", fmt.Errorf("invalid path %q", path)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("cannot resolve path %q: %w", path, err)
	}

	absPath, err = filepath.EvalSymlinks(absPath)
	if err != nil {
		return "", fmt.Errorf("path %q does not exist", path)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return "", fmt.Errorf("path %q does not exist", path)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("%q is not a regular file", path)
	}
	return absPath, nil
}
