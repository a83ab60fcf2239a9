// Package server exposes the engine's operational HTTP surface: health,
// Prometheus metrics, and the live progress websocket.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

// Server serves /health, /metrics, and optionally /progress.
type Server struct {
	http *http.Server
}

// New builds the server. progressHandler may be nil when live progress is
// disabled.
func New(port int, progressHandler http.Handler) *Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	mux.Handle("/metrics", promhttp.Handler())
	if progressHandler != nil {
		mux.Handle("/progress", progressHandler)
	}

	return &Server{
		http: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
	}
}

// Start serves until Shutdown is called. It blocks; run it in its own
// goroutine.
func (s *Server) Start() error {
	log.Info().Str("addr", s.http.Addr).Msg("starting metrics server")
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
