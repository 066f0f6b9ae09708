// Copyright 2026 The Codebrief Authors
// SPDX-License-Identifier: MIT

package main

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/davetashner/codebrief/internal/mcpserver"
)

// mcpCmd is the parent command for MCP-related subcommands.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Model Context Protocol server commands",
	Long:  "Commands for running codebrief as an MCP server, exposing the summarize and language mapping tools to editors and agents.",
}

// mcpServeCmd runs the MCP server over stdio.
var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server over stdio",
	Long: `Start an MCP server on stdin/stdout, exposing codebrief's tools:
  - summarize_code: Summarize inline code or a file line range
  - map_language:   Map editor language ids to highlighter tags

The server communicates using the Model Context Protocol (MCP) over stdio
transport. Logs go to stderr so the protocol stream stays clean.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadSettings()
		if err != nil {
			return err
		}
		warnMissingKey(cfg, hasAPIKey)
		return mcpserver.Run(cmd.Context(), mcpserver.Options{
			Version:   Version,
			Client:    newClient(cfg),
			Settings:  cfg,
			HasAPIKey: hasAPIKey,
		}, &mcp.StdioTransport{})
	},
}

func init() {
	mcpCmd.AddCommand(mcpServeCmd)
}
