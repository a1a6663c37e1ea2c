// Package proxy implements proxyboi's per-request forwarding engine: it
// rewrites an inbound *http.Request into an upstream request, dispatches it,
// and relays the upstream *http.Response back to the client.
//
// The spec this package implements models IncomingRequest, UpstreamRequest,
// UpstreamResponse and OutgoingResponse as four distinct record types. Go's
// net/http already supplies ordered headers (http.Header), a raw body
// (io.ReadCloser) and a peer address (Request.RemoteAddr), so this package
// operates directly on *http.Request / *http.Response / http.ResponseWriter
// rather than re-declaring those records.
package proxy
