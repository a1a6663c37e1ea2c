// Package upstream builds the single http.Client shared by every forwarding
// worker for the lifetime of the process.
package upstream

import (
	"crypto/tls"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// VerifyPolicy is the tagged TLS verification strategy a Client is built
// with. Go's crypto/tls has no subclassable verifier object, so the
// "accept any certificate" mode is expressed as a VerifyConnection callback
// instead of a polymorphic type.
type VerifyPolicy int

const (
	// VerifyDefault uses the platform's ordinary certificate verification.
	VerifyDefault VerifyPolicy = iota
	// VerifyAcceptAny accepts any server certificate presented by upstream.
	VerifyAcceptAny
)

// New builds the outbound http.Client used to dispatch every forwarded
// request. timeout bounds the whole exchange (DNS + connect + TLS handshake
// + headers + body) rather than separate dial/header/body timeouts. No
// automatic decompression is performed, so the proxy stays transparent to
// Content-Encoding.
func New(policy VerifyPolicy, timeout time.Duration) *http.Client {
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout: timeout,
		}).DialContext,
		DisableCompression: true,
	}

	if policy == VerifyAcceptAny {
		transport.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: true, //nolint:gosec -- operator opted in via --insecure
			VerifyConnection: func(state tls.ConnectionState) error {
				log.Trace().Str("server_name", state.ServerName).Msg("accepting upstream certificate without verification")
				return nil
			},
		}
	}

	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
}
