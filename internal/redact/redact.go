// Copyright 2026 The Codebrief Authors
// SPDX-License-Identifier: MIT

// Package redact strips API keys from strings before they appear in output,
// logs, or error messages.
package redact

import (
	"os"
	"regexp"
	"strings"
	"sync"
)

// Replacement is substituted for every redacted value.
const Replacement = "[REDACTED]"

// sensitiveEnvVars lists environment variable names whose values must never
// appear in output.
var sensitiveEnvVars = []string{
	"OPENAI_API_KEY",
	"ANTHROPIC_API_KEY",
	"CODEBRIEF_API_KEY",
}

// keyPattern matches provider key shapes that may arrive from somewhere other
// than the environment, e.g. echoed back in a remote error body.
var keyPattern = regexp.MustCompile(`\bsk-(?:ant-|proj-)?[A-Za-z0-9_-]{16,}`)

var (
	cachedSecrets []string
	cacheOnce     sync.Once
)

func loadSecrets() {
	for _, envVar := range sensitiveEnvVars {
		val := os.Getenv(envVar)
		if val != "" && len(val) >= 4 {
			cachedSecrets = append(cachedSecrets, val)
		}
	}
}

// resetCache resets the cached secrets. Used by tests that change env vars
// between calls.
func resetCache() {
	cachedSecrets = nil
	cacheOnce = sync.Once{}
}

// ResetForTest resets the cached secrets so tests in other packages can
// verify redaction behavior after setting env vars with t.Setenv.
func ResetForTest() { resetCache() }

// Reload re-reads the sensitive environment variables. Call it after the
// environment changes, e.g. once a .env file has been loaded.
func Reload() { resetCache() }

// String replaces known key values and anything shaped like a provider key
// with Replacement. Environment values are cached on first call.
func String(s string) string {
	cacheOnce.Do(loadSecrets)
	for _, secret := range cachedSecrets {
		s = strings.ReplaceAll(s, secret, Replacement)
	}
	return keyPattern.ReplaceAllString(s, Replacement)
}
