package utils

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// Server is a thin wrapper around net/http's server: it owns the
// listening address and logs it the way every binary in this tree
// announces itself, and leaves routing entirely to the caller's mux.
type Server struct {
	Name   string
	server *http.Server
}

// NewServer builds a Server bound to addr, serving mux.
func NewServer(addr, name string, mux http.Handler) *Server {
	return &Server{
		Name: name,
		server: &http.Server{
			Addr:    addr,
			Handler: mux,
		},
	}
}

// Start blocks serving until the server is shut down or fails.
func (s *Server) Start() error {
	slog.Info("http server listening", "server", s.Name, "addr", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server %q: %w", s.Name, err)
	}
	return nil
}

// Shutdown gracefully stops the server, waiting up to timeout for
// in-flight requests to finish.
func (s *Server) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}
