// Copyright 2026 The Codebrief Authors
// SPDX-License-Identifier: MIT

// Package config handles codebrief settings: built-in defaults, the global
// settings file, and repository-level .codebrief.yaml / .codebrief.toml files.
package config

// Config holds every user-configurable setting. In settings files a zero
// value means "not set" and falls through to the next layer.
type Config struct {
	MaxTokens            int    `yaml:"maxTokens,omitempty" toml:"maxTokens,omitempty"`
	GPTModel             string `yaml:"gptModel,omitempty" toml:"gptModel,omitempty"`
	LegacyModel          string `yaml:"legacyModel,omitempty" toml:"legacyModel,omitempty"`
	AnthropicModel       string `yaml:"anthropicModel,omitempty" toml:"anthropicModel,omitempty"`
	RequestMode          string `yaml:"requestMode,omitempty" toml:"requestMode,omitempty"`
	OutputMode           string `yaml:"outputMode,omitempty" toml:"outputMode,omitempty"`
	BaseURL              string `yaml:"baseURL,omitempty" toml:"baseURL,omitempty"`
	RoleSystemContent    string `yaml:"roleSystemContent,omitempty" toml:"roleSystemContent,omitempty"`
	RoleAssistantContent string `yaml:"roleAssistantContent,omitempty" toml:"roleAssistantContent,omitempty"`
	RoleUserContent      string `yaml:"roleUserContent,omitempty" toml:"roleUserContent,omitempty"`
}

// File names looked up in the repository root, in order.
const (
	FileName     = ".codebrief.yaml"
	TOMLFileName = ".codebrief.toml"
)

// Namespace prefixes host command identifiers, e.g. codebrief.openSettings.
const Namespace = "codebrief"

// Request modes.
const (
	ModeChat      = "chat"
	ModeLegacy    = "legacy"
	ModeAnthropic = "anthropic"
)

// Output modes.
const (
	OutputMarkdown = "markdown"
	OutputWebview  = "webview"
	OutputTerminal = "terminal"
)

// RequestModes lists the accepted requestMode values.
var RequestModes = []string{ModeChat, ModeLegacy, ModeAnthropic}

// OutputModes lists the accepted outputMode values.
var OutputModes = []string{OutputMarkdown, OutputWebview, OutputTerminal}

// Default values for every setting.
const (
	DefaultMaxTokens            = 100
	DefaultGPTModel             = "gpt-4"
	DefaultLegacyModel          = "text-davinci-002"
	DefaultAnthropicModel       = "claude-sonnet-4-5-20250929"
	DefaultRequestMode          = ModeChat
	DefaultOutputMode           = OutputMarkdown
	DefaultBaseURL              = "https://api.openai.com/v1"
	DefaultRoleSystemContent    = "You are an experienced software engineer who explains and reviews code clearly and concisely."
	DefaultRoleAssistantContent = "I will summarize what the code does, walk through its flow, name the programming language, and point out potential problems."
	DefaultRoleUserContent      = "Please analyze and provide a detailed summary, flow and what programming language being is used, of the following code snippet:"
)

// Defaults returns a Config with every setting at its default.
func Defaults() *Config {
	return &Config{
		MaxTokens:            DefaultMaxTokens,
		GPTModel:             DefaultGPTModel,
		LegacyModel:          DefaultLegacyModel,
		AnthropicModel:       DefaultAnthropicModel,
		RequestMode:          DefaultRequestMode,
		OutputMode:           DefaultOutputMode,
		BaseURL:              DefaultBaseURL,
		RoleSystemContent:    DefaultRoleSystemContent,
		RoleAssistantContent: DefaultRoleAssistantContent,
		RoleUserContent:      DefaultRoleUserContent,
	}
}
