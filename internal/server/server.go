// Package server exposes the bot's HTTP surface: liveness, a manual
// dispatch trigger, and Prometheus metrics.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mkoba/remindbot/internal/database"
	"github.com/mkoba/remindbot/internal/reminder"
)

const shutdownTimeout = 10 * time.Second

// Server wraps the stdlib HTTP server serving the bot's operational
// endpoints.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	store      database.Store
	dispatcher *reminder.Dispatcher
}

// New constructs the HTTP server. The registry may be nil when metrics are
// disabled; the /metrics endpoint then serves an empty registry.
func New(addr string, logger *slog.Logger, store database.Store, dispatcher *reminder.Dispatcher, registry *prom.Registry) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if registry == nil {
		registry = prom.NewRegistry()
	}

	s := &Server{
		logger:     logger.With("component", "http_server"),
		store:      store,
		dispatcher: dispatcher,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleLiveness)
	mux.HandleFunc("/tick", s.handleTick)
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return s
}

// Run starts the server and blocks until the context is cancelled, then
// shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		if err != nil {
			s.logger.Error("HTTP server failed", "error", err)
			return err
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("HTTP server shutdown failed", "error", err)
		return err
	}

	s.logger.Info("HTTP server stopped gracefully.")
	return nil
}

// Handler exposes the server's mux, used by tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}
