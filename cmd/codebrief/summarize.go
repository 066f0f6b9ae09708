// Copyright 2026 The Codebrief Authors
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/davetashner/codebrief/internal/config"
	"github.com/davetashner/codebrief/internal/pipeline"
	"github.com/davetashner/codebrief/internal/render"
	"github.com/davetashner/codebrief/internal/selection"
)

// Summarize command flags.
var (
	summarizeLines    string
	summarizeLanguage string
	summarizeMode     = newEnumValue("", config.RequestModes...)
	summarizeOutput   = newEnumValue("", config.OutputModes...)
	summarizeOut      string
)

// summarizeCmd sends a selection to the completion API and shows the result.
var summarizeCmd = &cobra.Command{
	Use:   "summarize [file]",
	Short: "Summarize a file, a line range, or piped code",
	Long: `Send a code selection to the completion API and show the summary.

The selection is the whole file, the lines picked with --lines, or stdin
when no file is given. The language is inferred from the file extension
unless --language names an editor language id.

Pressing Ctrl+C once records a cancellation request but the call still
completes and its result is shown. Press Ctrl+C again to quit.

Examples:
  codebrief summarize main.go
  codebrief summarize --lines 10:40 server.py
  git show HEAD:cmd/app.go | codebrief summarize --language go
  codebrief summarize --output webview --out summary.html main.go`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSummarize,
}

func init() {
	summarizeCmd.Flags().StringVar(&summarizeLines, "lines", "", "line range to summarize: N, N:M, N: or :M")
	summarizeCmd.Flags().StringVar(&summarizeLanguage, "language", "", "editor language id (default: from file extension, plaintext for stdin)")
	summarizeCmd.Flags().Var(summarizeMode, "mode", "request mode ("+summarizeMode.allowed()+"); overrides requestMode")
	summarizeCmd.Flags().Var(summarizeOutput, "output", "output mode ("+summarizeOutput.allowed()+"); overrides outputMode")
	summarizeCmd.Flags().StringVarP(&summarizeOut, "out", "o", "", "write the rendered document to a file instead of stdout (extension added from the output mode when missing)")
}

// resetSummarizeFlags resets summarize command flags for testing.
func resetSummarizeFlags() {
	summarizeLines = ""
	summarizeLanguage = ""
	summarizeMode.value = ""
	summarizeOutput.value = ""
	summarizeOut = ""
	for _, name := range []string{"lines", "language", "mode", "output", "out"} {
		if f := summarizeCmd.Flags().Lookup(name); f != nil {
			f.Changed = false
		}
	}
}

func runSummarize(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	if summarizeMode.value != "" {
		cfg.RequestMode = summarizeMode.value
	}
	if summarizeOutput.value != "" {
		cfg.OutputMode = summarizeOutput.value
	}
	warnMissingKey(cfg, hasAPIKey)

	sel, err := readSelection(cmd, args)
	if err != nil {
		return exitError(ExitInput, "%s", pipeline.UserMessage(err))
	}

	renderer, err := render.Get(cfg.OutputMode)
	if err != nil {
		return exitError(ExitInput, "%v", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	tracer, shutdown, err := startTracing(ctx, cmd)
	if err != nil {
		return err
	}
	defer shutdown()

	p, err := pipeline.New(pipeline.Options{
		Client:    newClient(cfg),
		Renderer:  renderer,
		Display:   documentWriter(cmd.OutOrStdout(), summarizeOut),
		Settings:  cfg,
		Version:   Version,
		HasAPIKey: hasAPIKey,
		Tracer:    tracer,
	})
	if err != nil {
		return err
	}

	prog := pipeline.NewProgress()
	stop := cancelOnInterrupt(prog)
	defer stop()

	slog.Info("summarizing selection", "language", sel.LanguageID, "mode", cfg.RequestMode, "output", cfg.OutputMode)
	out, err := p.Run(ctx, sel, prog)
	if err != nil {
		return pipelineExit(err)
	}
	if summarizeOut != "" {
		slog.Info("summary written", "path", outPath(summarizeOut, out.Document), "invocation", out.ID)
	}
	return nil
}

// readSelection builds the selection from the file argument or stdin.
func readSelection(cmd *cobra.Command, args []string) (selection.Input, error) {
	r, err := selection.ParseLineRange(summarizeLines)
	if err != nil {
		return selection.Input{}, err
	}
	if len(args) == 1 {
		return selection.FromFile(args[0], r, summarizeLanguage)
	}
	return selection.FromReader(pipedInput(cmd.InOrStdin()), r, summarizeLanguage)
}

// pipedInput returns in unless it is an interactive terminal, in which case
// there is nothing to read and it returns nil.
func pipedInput(in io.Reader) io.Reader {
	f, ok := in.(*os.File)
	if !ok {
		return in
	}
	info, err := f.Stat()
	if err != nil || info.Mode()&os.ModeCharDevice != 0 {
		return nil
	}
	return f
}

// documentWriter displays documents on w, or in the file at path when set.
func documentWriter(w io.Writer, path string) pipeline.Display {
	return pipeline.DisplayFunc(func(_ context.Context, _ render.Input, doc render.Document) error {
		if path != "" {
			return cmdFS.WriteFile(outPath(path, doc), []byte(doc.Body), 0o644) //nolint:gosec // user-readable output
		}
		_, err := fmt.Fprint(w, doc.Body)
		return err
	})
}

// outPath adds the document's extension when path has none.
func outPath(path string, doc render.Document) string {
	if filepath.Ext(path) != "" {
		return path
	}
	return path + doc.Ext()
}

// cancelOnInterrupt turns the first SIGINT into a logged cancellation
// request. Later signals get the default behavior and end the process.
func cancelOnInterrupt(prog *pipeline.Progress) func() {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt)
	done := make(chan struct{})
	go func() {
		select {
		case <-sigs:
			signal.Stop(sigs)
			prog.Cancel()
		case <-done:
		}
	}()
	return func() {
		close(done)
		signal.Stop(sigs)
	}
}
