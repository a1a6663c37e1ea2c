// Command proxyboi is a single-host reverse HTTP proxy that forwards client
// requests to a configured upstream origin while maintaining the standard
// provenance headers (Forwarded, X-Forwarded-*, Via).
package main

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/matveynator/proxyboi/internal/cli"
	"github.com/matveynator/proxyboi/internal/config"
	"github.com/matveynator/proxyboi/internal/proxy"
	"github.com/matveynator/proxyboi/internal/server"
	"github.com/matveynator/proxyboi/internal/tlsmaterial"
	"github.com/matveynator/proxyboi/internal/tracelog"
	"github.com/matveynator/proxyboi/internal/upstream"
)

func main() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cmd := cli.NewCommand(run)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run wires a validated Config into a running proxy and blocks until the
// listener stops or a shutdown signal arrives.
func run(cfg config.Config) error {
	if cfg.Quiet {
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	}
	tracer := tracelog.New(cfg.Quiet, cfg.Verbose)

	var cert *tls.Certificate
	if cfg.TLSEnabled() {
		loaded, err := tlsmaterial.Load(cfg.TLSCertPath, cfg.TLSKeyPath)
		if err != nil {
			return err
		}
		cert = &loaded
	}

	policy := upstream.VerifyDefault
	if cfg.InsecureUpstreamTLS {
		policy = upstream.VerifyAcceptAny
	}
	client := upstream.New(policy, cfg.Timeout)

	forwarder := proxy.New(cfg, client, tracer)

	srvCfg := server.Config{
		ListenAddr: cfg.ListenAddr,
		Handler:    forwarder,
	}
	if cert != nil {
		srvCfg.Certificate = cert
	}
	srv := server.New(srvCfg)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-sigCh:
		log.Info().Msg("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return <-errCh
	}
}
