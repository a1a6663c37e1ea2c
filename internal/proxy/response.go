package proxy

import (
	"net/http"
	"strings"

	"github.com/matveynator/proxyboi/internal/config"
)

// hopByHop lists the headers proxyboi strips from
// every upstream response before it reaches the client.
var hopByHop = map[string]struct{}{
	"connection":        {},
	"transfer-encoding": {},
}

// BuildOutgoingResponse filters the upstream response headers per
// §4.3: hop-by-hop headers are dropped, header multiplicity is otherwise
// preserved, and the configured extra response headers are applied last so
// they win on last-write-wins semantics.
func BuildOutgoingResponse(upstream http.Header, extra []config.Header) http.Header {
	out := make(http.Header, len(upstream))
	for name, values := range upstream {
		if _, hop := hopByHop[strings.ToLower(name)]; hop {
			continue
		}
		for _, v := range values {
			out.Add(name, v)
		}
	}
	for _, h := range extra {
		out.Set(h.Name, h.Value)
	}
	return out
}
