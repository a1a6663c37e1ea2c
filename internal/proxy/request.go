package proxy

import (
	"bytes"
	"net"
	"net/http"
	"net/url"

	"github.com/matveynator/proxyboi/internal/config"
	"github.com/matveynator/proxyboi/internal/forwarded"
)

const viaToken = "proxyboi"

// BuildUpstreamRequest composes the outbound upstream request from the
// incoming request. Given a validated Config, it cannot
// fail except on the infallible http.NewRequest construction, which is kept
// as a returned error for idiomatic Go rather than a panic.
func BuildUpstreamRequest(r *http.Request, body []byte, cfg config.Config) (*http.Request, error) {
	target := rewriteURL(cfg.UpstreamBaseURL, r.URL)

	upstreamReq, err := http.NewRequest(r.Method, target.String(), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	upstreamReq.Header = r.Header.Clone()
	upstreamReq.Host = target.Host

	peer := peerAddr(r)
	protocol := requestScheme(r)
	host := r.Host
	version := r.Proto

	fh := forwarded.Build(peer, listenIP(cfg.ListenAddr), r.Header.Get("Forwarded"), host, protocol)
	upstreamReq.Header.Set("Forwarded", fh.String())
	upstreamReq.Header.Set("X-Forwarded-Proto", protocol)
	upstreamReq.Header.Set("X-Forwarded-Host", host)

	if prior := r.Header.Get("X-Forwarded-For"); prior != "" {
		upstreamReq.Header.Set("X-Forwarded-For", prior+", "+peer)
	} else {
		upstreamReq.Header.Set("X-Forwarded-For", peer)
	}

	if priorVia := r.Header.Get("Via"); priorVia != "" {
		upstreamReq.Header.Set("Via", priorVia+", "+version+" "+viaToken)
	} else {
		upstreamReq.Header.Set("Via", version+" "+viaToken)
	}

	for _, h := range cfg.UpstreamHeaders {
		upstreamReq.Header.Set(h.Name, h.Value)
	}

	return upstreamReq, nil
}

// rewriteURL clones base and replaces its path and query with those of
// incoming, leaving scheme and authority untouched. Any path already present
// on base is discarded rather than joined.
func rewriteURL(base *url.URL, incoming *url.URL) *url.URL {
	target := *base
	target.Path = incoming.Path
	target.RawPath = incoming.EscapedPath()
	target.RawQuery = incoming.RawQuery
	return &target
}

// peerAddr returns the inbound peer's IP, or "unknown" when it cannot be
// determined.
func peerAddr(r *http.Request) string {
	if r.RemoteAddr == "" {
		return "unknown"
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// requestScheme reports the scheme the host HTTP engine observed for this
// connection. net/http does not carry this directly on *http.Request, so TLS
// presence stands in for the connection scheme a client actually used.
func requestScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	return "http"
}

// listenIP extracts the bare IP from a "host:port" listen address for use as
// the Forwarded header's by= parameter.
func listenIP(listenAddr string) string {
	host, _, err := net.SplitHostPort(listenAddr)
	if err != nil {
		return listenAddr
	}
	return host
}
