// Copyright 2026 The Codebrief Authors
// SPDX-License-Identifier: MIT

package config

// Merge returns base with every non-zero field of over applied on top.
// Neither argument is modified.
func Merge(base, over *Config) *Config {
	result := *base
	if over == nil {
		return &result
	}

	if over.MaxTokens != 0 {
		result.MaxTokens = over.MaxTokens
	}
	if over.GPTModel != "" {
		result.GPTModel = over.GPTModel
	}
	if over.LegacyModel != "" {
		result.LegacyModel = over.LegacyModel
	}
	if over.AnthropicModel != "" {
		result.AnthropicModel = over.AnthropicModel
	}
	if over.RequestMode != "" {
		result.RequestMode = over.RequestMode
	}
	if over.OutputMode != "" {
		result.OutputMode = over.OutputMode
	}
	if over.BaseURL != "" {
		result.BaseURL = over.BaseURL
	}
	if over.RoleSystemContent != "" {
		result.RoleSystemContent = over.RoleSystemContent
	}
	if over.RoleAssistantContent != "" {
		result.RoleAssistantContent = over.RoleAssistantContent
	}
	if over.RoleUserContent != "" {
		result.RoleUserContent = over.RoleUserContent
	}

	return &result
}
