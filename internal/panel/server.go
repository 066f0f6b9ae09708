// Copyright 2026 The Codebrief Authors
// SPDX-License-Identifier: MIT

package panel

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/davetashner/codebrief/internal/pipeline"
	"github.com/davetashner/codebrief/internal/selection"
)

// maxRequestBody caps POST /summarize bodies.
const maxRequestBody = 1 << 20

// Server exposes a session over HTTP.
type Server struct {
	pipeline *pipeline.Pipeline
	session  *Session
	hub      *Hub
	router   chi.Router
}

// NewServer wires the routes. p must display into session.
func NewServer(p *pipeline.Pipeline, session *Session, hub *Hub) *Server {
	s := &Server{pipeline: p, session: session, hub: hub}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(requestLogger)

	r.Get("/", s.handlePage)
	r.Get("/healthz", s.handleHealth)
	r.Post("/summarize", s.handleSummarize)
	r.Delete("/history", s.handleReset)
	r.Get("/ws", hub.ServeWS)

	s.router = r
	return s
}

// Handler returns the HTTP handler for the panel.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Serve accepts connections on l until ctx is done, then shuts down.
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		if err := srv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("panel shutdown: %w", err)
	}
	return nil
}

// SummarizeRequest is the body of POST /summarize.
type SummarizeRequest struct {
	Code       string `json:"code"`
	LanguageID string `json:"languageId"`
}

// SummarizeResponse is the success body of POST /summarize.
type SummarizeResponse struct {
	ID               string `json:"id"`
	Summary          string `json:"summary"`
	TotalTokens      int    `json:"totalTokens"`
	PromptTokens     int    `json:"promptTokens"`
	CompletionTokens int    `json:"completionTokens"`
	FinishReason     string `json:"finishReason,omitempty"`
	Truncated        bool   `json:"truncated"`
	Items            int    `json:"items"`
	// Cancelled reports that the requester went away before the result
	// was displayed. The item is still appended.
	Cancelled bool `json:"cancelled"`
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

func (s *Server) handlePage(w http.ResponseWriter, _ *http.Request) {
	page, err := s.session.Page()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "codebrief",
		"clients": s.hub.Clients(),
	})
}

// handleSummarize runs one invocation. A client that disconnects early only
// triggers a logged cancellation; the result is still appended.
func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	var req SummarizeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	languageID := req.LanguageID
	if languageID == "" {
		languageID = "plaintext"
	}

	prog := pipeline.NewProgress()
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-r.Context().Done():
			prog.Cancel()
		case <-done:
		}
	}()

	out, err := s.pipeline.Run(context.WithoutCancel(r.Context()), selection.Input{Text: req.Code, LanguageID: languageID}, prog)
	if err != nil {
		kind := pipeline.KindOf(err)
		writeJSON(w, statusFor(kind), errorResponse{Error: pipeline.UserMessage(err), Kind: kind.String()})
		return
	}

	res := out.Input.Result
	writeJSON(w, http.StatusOK, SummarizeResponse{
		ID:               out.ID,
		Summary:          res.Summary,
		TotalTokens:      res.TotalTokens,
		PromptTokens:     res.PromptTokens,
		CompletionTokens: res.CompletionTokens,
		FinishReason:     res.FinishReason,
		Truncated:        res.Truncated(),
		Items:            len(s.session.Items()),
		Cancelled:        prog.Cancelled(),
	})
}

func (s *Server) handleReset(w http.ResponseWriter, _ *http.Request) {
	if _, err := s.session.Reset(); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	slog.Info("panel history cleared")
	w.WriteHeader(http.StatusNoContent)
}

func statusFor(kind pipeline.Kind) int {
	switch kind {
	case pipeline.KindInput:
		return http.StatusBadRequest
	case pipeline.KindConfig:
		return http.StatusPreconditionFailed
	case pipeline.KindRemote:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		slog.Debug("panel request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", chimiddleware.GetReqID(r.Context()),
		)
	})
}
