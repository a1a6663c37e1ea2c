// Package server wires the single listener proxyboi accepts connections on,
// optionally terminating TLS, and exposes the http.Server so the caller can
// drive a graceful shutdown on signal.
package server

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
)

// Config groups listener settings so flag parsing stays separate from
// runtime wiring.
type Config struct {
	ListenAddr  string
	Certificate *tls.Certificate // nil means plain HTTP
	Handler     http.Handler
}

// Server owns the underlying *http.Server so callers can invoke Shutdown.
type Server struct {
	http *http.Server
	tls  bool
}

// New builds a Server bound to cfg without starting it.
func New(cfg Config) *Server {
	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: cfg.Handler,
	}
	if cfg.Certificate != nil {
		srv.TLSConfig = &tls.Config{Certificates: []tls.Certificate{*cfg.Certificate}}
	}
	return &Server{http: srv, tls: cfg.Certificate != nil}
}

// Run blocks, accepting connections until Shutdown is called or the listener
// fails. It returns nil on a graceful shutdown, and a non-nil error
// otherwise.
func (s *Server) Run() error {
	scheme := "http"
	if s.tls {
		scheme = "https"
	}
	log.Info().Str("addr", s.http.Addr).Str("scheme", scheme).Msg("listening")

	var err error
	if s.tls {
		err = s.http.ListenAndServeTLS("", "")
	} else {
		err = s.http.ListenAndServe()
	}
	if err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("listener stopped: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server, letting in-flight requests finish.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
