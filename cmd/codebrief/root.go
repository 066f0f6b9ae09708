// Copyright 2026 The Codebrief Authors
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/trace"

	"github.com/davetashner/codebrief/internal/config"
	"github.com/davetashner/codebrief/internal/llm"
	cblog "github.com/davetashner/codebrief/internal/log"
	"github.com/davetashner/codebrief/internal/pipeline"
	"github.com/davetashner/codebrief/internal/prompt"
	"github.com/davetashner/codebrief/internal/redact"
	"github.com/davetashner/codebrief/internal/telemetry"
)

// Global flag values.
var (
	verbose       bool
	quiet         bool
	noColor       bool
	logFormat     string
	traceExporter = newEnumValue("", telemetry.ExporterStdout, telemetry.ExporterOTLP)
	traceEndpoint string
)

// dotEnvFile is loaded from the working directory before any command runs.
const dotEnvFile = ".env"

// rootCmd is the base command for codebrief.
var rootCmd = &cobra.Command{
	Use:   "codebrief",
	Short: "Summarize code with a completion API",
	Long: `Codebrief sends a code selection to a completion API and shows what the
code does: a summary, its flow, the language, and token usage.

Results render as Markdown, as an HTML panel with syntax highlighting,
or as colored terminal text. Settings live in .codebrief.yaml at the
repository root and in ~/.config/codebrief/config.yaml.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		if noColor {
			color.NoColor = true
		}
		if err := loadDotEnv(dotEnvFile); err != nil {
			return err
		}
		redact.Reload()
		return cblog.Setup(verbose, quiet, logFormat)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-essential output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", cblog.FormatText, "log format on stderr (text, json)")
	rootCmd.PersistentFlags().Var(traceExporter, "trace", "export trace spans ("+traceExporter.allowed()+")")
	rootCmd.PersistentFlags().StringVar(&traceEndpoint, "trace-endpoint", "", "OTLP gRPC collector address (default localhost:4317)")

	rootCmd.AddCommand(summarizeCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(panelCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadDotEnv loads path into the environment when it exists. Variables that
// are already set win over the file.
func loadDotEnv(path string) error {
	if _, err := cmdFS.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("checking %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	slog.Debug("loaded environment file", "path", path)
	return nil
}

// loadSettings resolves settings for the working directory.
func loadSettings() (*config.Config, error) {
	cfg, err := config.Resolve(".")
	if err != nil {
		return nil, exitError(ExitInput, "loading settings: %v", err)
	}
	if err := config.Validate(cfg); err != nil {
		return nil, exitError(ExitInput, "%v", err)
	}
	return cfg, nil
}

// warnMissingKey logs once at startup when the key for the configured
// request mode is absent. Each invocation still fails with a ConfigError.
func warnMissingKey(cfg *config.Config, hasKey func(prompt.Mode) bool) {
	mode, err := prompt.ParseMode(cfg.RequestMode)
	if err != nil {
		return
	}
	if !hasKey(mode) {
		slog.Warn("API key is not set; summarize requests will fail until it is",
			"env", llm.APIKeyEnv(mode), "requestMode", cfg.RequestMode)
	}
}

// newClient builds the completion client for cfg. Tests replace it.
var newClient = func(cfg *config.Config) llm.Client {
	openai := llm.NewOpenAIClient(llm.WithBaseURL(cfg.BaseURL))
	slog.Debug("completion client", "baseURL", openai.BaseURL())
	return &llm.Dispatcher{
		OpenAI:    openai,
		Anthropic: llm.NewAnthropicClient(),
	}
}

// hasAPIKey reports whether a key is configured for mode. Tests replace it.
var hasAPIKey = pipeline.EnvHasAPIKey

// startTracing installs the tracer selected by --trace.
func startTracing(ctx context.Context, cmd *cobra.Command) (trace.Tracer, func(), error) {
	tracer, shutdown, err := telemetry.Init(ctx, telemetry.Config{
		Exporter: traceExporter.String(),
		Endpoint: traceEndpoint,
		Writer:   cmd.ErrOrStderr(),
		Version:  Version,
	})
	if err != nil {
		return nil, nil, exitError(ExitInput, "starting tracing: %v", err)
	}
	return tracer, shutdown, nil
}
