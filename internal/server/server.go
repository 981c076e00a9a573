// Package server exposes the evaluator over a small JSON HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/blackwell-systems/repoeval/internal/evaluate"
	"github.com/blackwell-systems/repoeval/internal/snapshot"
)

const (
	maxBodyBytes    = 1 << 20
	shutdownTimeout = 10 * time.Second
)

// Fetcher assembles a snapshot for a repository. *github.Client satisfies it.
type Fetcher interface {
	FetchSnapshot(ctx context.Context, owner, repo string) (*snapshot.Snapshot, error)
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the access and error logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// Server routes API requests to the fetcher and evaluator.
type Server struct {
	fetcher   Fetcher
	evaluator *evaluate.Evaluator
	logger    *slog.Logger
	metrics   *metrics
	handler   http.Handler
}

// New creates a Server. Each server owns its own metrics registry.
func New(f Fetcher, e *evaluate.Evaluator, opts ...Option) *Server {
	s := &Server{
		fetcher:   f,
		evaluator: e,
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}

	reg := prometheus.NewRegistry()
	s.metrics = newMetrics(reg)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("POST /api/analyze", s.handleAnalyzeURL)
	mux.HandleFunc("GET /api/analyze/{owner}/{repo}", s.handleAnalyzePath)
	mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	mux.HandleFunc("/", s.handleNotFound)

	s.handler = s.withRequestID(s.withAccessLog(withCORS(mux)))
	return s
}

// Handler returns the root HTTP handler with all middleware applied.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ListenAndServe serves on addr until ctx is cancelled, then drains in-flight
// requests before returning.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("api listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("api shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}
