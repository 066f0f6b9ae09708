// Copyright 2026 The Codebrief Authors
// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
)

// Validate checks all fields in the config and returns all errors at once.
// Zero values are accepted because they mean "not set".
func Validate(cfg *Config) error {
	var errs []string

	if cfg.MaxTokens < 0 {
		errs = append(errs, fmt.Sprintf("maxTokens: must be a positive integer, got %d", cfg.MaxTokens))
	}

	if cfg.RequestMode != "" && !slices.Contains(RequestModes, cfg.RequestMode) {
		errs = append(errs, fmt.Sprintf("requestMode: invalid value %q (must be %s)", cfg.RequestMode, strings.Join(RequestModes, ", ")))
	}

	if cfg.OutputMode != "" && !slices.Contains(OutputModes, cfg.OutputMode) {
		errs = append(errs, fmt.Sprintf("outputMode: invalid value %q (must be %s)", cfg.OutputMode, strings.Join(OutputModes, ", ")))
	}

	if cfg.BaseURL != "" {
		u, err := url.Parse(cfg.BaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, fmt.Sprintf("baseURL: must be an absolute http(s) URL, got %q", cfg.BaseURL))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}
