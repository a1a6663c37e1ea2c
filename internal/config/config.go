// Package config holds the immutable, process-lifetime configuration record
// that every proxyboi worker reads without locking.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// DefaultMaxBodyBytes bounds how much of a request or response body proxyboi
// will buffer in memory.
const DefaultMaxBodyBytes int64 = 1 << 30 // 1 GiB

// Header is an ordered (name, value) pair used for the configured extra
// request/response headers. Order matters: later entries with the same name
// win when applied with http.Header.Set.
type Header struct {
	Name  string
	Value string
}

// Config is the immutable configuration shared read-only across every
// forwarding worker.
type Config struct {
	ListenAddr          string
	UpstreamBaseURL     *url.URL
	InsecureUpstreamTLS bool
	Quiet               bool
	Verbose             bool
	UpstreamHeaders     []Header
	ResponseHeaders     []Header
	Timeout             time.Duration
	MaxBodyBytes        int64
	TLSCertPath         string
	TLSKeyPath          string
}

// ParseHeader splits a "NAME:VALUE" flag argument into a Header, trimming
// surrounding whitespace from both sides of the colon.
func ParseHeader(raw string) (Header, error) {
	idx := strings.IndexByte(raw, ':')
	if idx == -1 {
		return Header{}, fmt.Errorf("invalid header %q: expected NAME:VALUE", raw)
	}
	name := strings.TrimSpace(raw[:idx])
	value := strings.TrimSpace(raw[idx+1:])
	if name == "" {
		return Header{}, fmt.Errorf("invalid header %q: empty header name", raw)
	}
	return Header{Name: name, Value: value}, nil
}

// Validate checks the invariants required at startup: a resolvable
// upstream URL with an http/https scheme, and a both-or-neither TLS pair.
func (c Config) Validate() error {
	if c.UpstreamBaseURL == nil {
		return errors.New("upstream URL is required")
	}
	scheme := c.UpstreamBaseURL.Scheme
	if scheme != "http" && scheme != "https" {
		return fmt.Errorf("invalid upstream URL scheme %q: must be http or https", scheme)
	}
	if c.UpstreamBaseURL.Host == "" {
		return errors.New("upstream URL must include a host")
	}
	if (c.TLSCertPath == "") != (c.TLSKeyPath == "") {
		return errors.New("--cert and --key must be supplied together")
	}
	return nil
}

// TLSEnabled reports whether the operator supplied a certificate/key pair.
func (c Config) TLSEnabled() bool {
	return c.TLSCertPath != "" && c.TLSKeyPath != ""
}
