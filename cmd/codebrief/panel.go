// Copyright 2026 The Codebrief Authors
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"log/slog"
	"net"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/davetashner/codebrief/internal/config"
	"github.com/davetashner/codebrief/internal/panel"
	"github.com/davetashner/codebrief/internal/pipeline"
	"github.com/davetashner/codebrief/internal/render"
)

// Panel command flags.
var panelAddr string

// panelCmd serves the webview panel.
var panelCmd = &cobra.Command{
	Use:   "panel",
	Short: "Serve the summary panel over HTTP",
	Long: `Serve an HTML panel that collects summaries in order, with syntax
highlighting and live reload.

  GET    /           the panel page
  POST   /summarize  {"code": "...", "languageId": "go"}
  DELETE /history    clear the panel
  GET    /ws         websocket that receives the page after each summary
  GET    /healthz    liveness check

The default address picks a free port on localhost; the URL is logged.`,
	Args: cobra.NoArgs,
	RunE: runPanel,
}

func init() {
	panelCmd.Flags().StringVar(&panelAddr, "addr", "127.0.0.1:0", "listen address")
}

func runPanel(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	warnMissingKey(cfg, hasAPIKey)

	renderer, err := render.Get(config.OutputWebview)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tracer, shutdown, err := startTracing(ctx, cmd)
	if err != nil {
		return err
	}
	defer shutdown()

	session, hub := panel.NewLive(cfg.MaxTokens)
	p, err := pipeline.New(pipeline.Options{
		Client:    newClient(cfg),
		Renderer:  renderer,
		Display:   session,
		Settings:  cfg,
		Version:   Version,
		HasAPIKey: hasAPIKey,
		Tracer:    tracer,
	})
	if err != nil {
		return err
	}

	l, err := net.Listen("tcp", panelAddr)
	if err != nil {
		return exitError(ExitInput, "listening on %s: %v", panelAddr, err)
	}
	url := fmt.Sprintf("http://%s/", l.Addr())
	slog.Info("panel listening", "url", url, "session", session.ID())
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), url)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return hub.Run(gctx) })
	g.Go(func() error { return panel.NewServer(p, session, hub).Serve(gctx, l) })
	if err := g.Wait(); err != nil && ctx.Err() == nil {
		return err
	}
	slog.Info("panel stopped", "items", len(session.Items()))
	return nil
}
