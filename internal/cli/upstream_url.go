package cli

import (
	"fmt"
	"net/url"
)

// parseUpstreamURL validates the positional <UPSTREAM_URL> argument: it
// must parse and carry an http or https scheme.
func parseUpstreamURL(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid upstream URL %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid upstream URL %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid upstream URL %q: missing host", raw)
	}
	return u, nil
}
