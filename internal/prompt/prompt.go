// Copyright 2026 The Codebrief Authors
// SPDX-License-Identifier: MIT

// Package prompt turns a code selection into the request sent to the
// completion endpoint.
package prompt

import (
	"fmt"

	"github.com/davetashner/codebrief/internal/config"
	"github.com/davetashner/codebrief/internal/selection"
)

// Mode selects the remote API variant.
type Mode string

// Supported request modes.
const (
	ModeChat      Mode = config.ModeChat
	ModeLegacy    Mode = config.ModeLegacy
	ModeAnthropic Mode = config.ModeAnthropic
)

// ParseMode converts a configuration value into a Mode. An empty string
// selects chat.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "":
		return ModeChat, nil
	case ModeChat, ModeLegacy, ModeAnthropic:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("unknown request mode %q", s)
	}
}

// Role is the author of a chat message.
type Role string

// Message roles.
const (
	RoleSystem    Role = "system"
	RoleAssistant Role = "assistant"
	RoleUser      Role = "user"
)

// Message is one role-tagged chat message.
type Message struct {
	Role    Role
	Content string
}

// Request is a fully built completion request. Chat and anthropic modes use
// Messages; legacy mode uses Prompt.
type Request struct {
	Mode      Mode
	Model     string
	MaxTokens int
	Messages  []Message
	Prompt    string
}

// UserContent returns the content of the last user message, or the legacy
// prompt.
func (r Request) UserContent() string {
	if r.Mode == ModeLegacy {
		return r.Prompt
	}
	for i := len(r.Messages) - 1; i >= 0; i-- {
		if r.Messages[i].Role == RoleUser {
			return r.Messages[i].Content
		}
	}
	return ""
}

// legacyTemplate is the fixed instruction for the legacy completion endpoint.
const legacyTemplate = "Please analyze and provide a detailed summary, flow and what programming language being is used, of the following code snippet:\n%s\nSummary:"

// Build assembles the request for sel. The mode and model come from cfg;
// an unrecognized mode falls back to chat.
func Build(sel selection.Input, cfg *config.Config) Request {
	mode, err := ParseMode(cfg.RequestMode)
	if err != nil {
		mode = ModeChat
	}

	req := Request{
		Mode:      mode,
		MaxTokens: cfg.MaxTokens,
	}

	switch mode {
	case ModeLegacy:
		req.Model = cfg.LegacyModel
		req.Prompt = fmt.Sprintf(legacyTemplate, sel.Text)
		return req
	case ModeAnthropic:
		req.Model = cfg.AnthropicModel
	default:
		req.Model = cfg.GPTModel
	}

	req.Messages = []Message{
		{Role: RoleSystem, Content: cfg.RoleSystemContent},
		{Role: RoleAssistant, Content: cfg.RoleAssistantContent},
		{Role: RoleUser, Content: cfg.RoleUserContent + "\n" + sel.Text + "\n"},
	}
	return req
}
