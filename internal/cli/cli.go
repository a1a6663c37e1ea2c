// Package cli wires proxyboi's command-line surface: flag definitions,
// validation, and the colorized usage renderer.
package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matveynator/proxyboi/internal/config"
)

// flags collects the raw pflag destinations before they're assembled into a
// config.Config.
type flags struct {
	listen           string
	insecure         bool
	quiet            bool
	verbose          bool
	timeoutSeconds   uint64
	certPath         string
	keyPath          string
	upstreamHeaders  []string
	responseHeaders  []string
}

// NewCommand builds the root cobra.Command. run is invoked once flags parse
// and validate successfully, receiving the resulting Config.
func NewCommand(run func(cfg config.Config) error) *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:           "proxyboi <UPSTREAM_URL>",
		Short:         "Transparent reverse HTTP proxy with provenance headers",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := buildConfig(args[0], f)
			if err != nil {
				return err
			}
			return run(cfg)
		},
	}

	cmd.Flags().StringVarP(&f.listen, "listen", "l", "0.0.0.0:8080", "socket address to listen on")
	cmd.Flags().BoolVarP(&f.insecure, "insecure", "k", false, "accept invalid upstream TLS certificates")
	cmd.Flags().BoolVarP(&f.quiet, "quiet", "q", false, "log only errors")
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "enable verbose per-request logging")
	cmd.Flags().Uint64Var(&f.timeoutSeconds, "timeout", 5, "upstream timeout in seconds")
	cmd.Flags().StringVar(&f.certPath, "cert", "", "server TLS certificate (PEM); requires --key")
	cmd.Flags().StringVar(&f.keyPath, "key", "", "server TLS private key (PEM); requires --cert")
	cmd.Flags().StringArrayVar(&f.upstreamHeaders, "upstream-header", nil, "extra upstream request header NAME:VALUE (repeatable)")
	cmd.Flags().StringArrayVar(&f.responseHeaders, "response-header", nil, "extra client response header NAME:VALUE (repeatable)")

	configureUsage(cmd)

	return cmd
}

// buildConfig turns the positional upstream URL and parsed flags into a
// validated config.Config.
func buildConfig(rawUpstream string, f flags) (config.Config, error) {
	upstream, err := parseUpstreamURL(rawUpstream)
	if err != nil {
		return config.Config{}, err
	}

	upstreamHeaders, err := parseHeaders(f.upstreamHeaders)
	if err != nil {
		return config.Config{}, fmt.Errorf("--upstream-header: %w", err)
	}

	responseHeaders, err := parseHeaders(f.responseHeaders)
	if err != nil {
		return config.Config{}, fmt.Errorf("--response-header: %w", err)
	}

	cfg := config.Config{
		ListenAddr:          f.listen,
		UpstreamBaseURL:     upstream,
		InsecureUpstreamTLS: f.insecure,
		Quiet:               f.quiet,
		Verbose:             f.verbose,
		UpstreamHeaders:     upstreamHeaders,
		ResponseHeaders:     responseHeaders,
		Timeout:             time.Duration(f.timeoutSeconds) * time.Second,
		MaxBodyBytes:        config.DefaultMaxBodyBytes,
		TLSCertPath:         f.certPath,
		TLSKeyPath:          f.keyPath,
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}

	return cfg, nil
}

func parseHeaders(raw []string) ([]config.Header, error) {
	headers := make([]config.Header, 0, len(raw))
	for _, r := range raw {
		h, err := config.ParseHeader(r)
		if err != nil {
			return nil, err
		}
		headers = append(headers, h)
	}
	return headers, nil
}
