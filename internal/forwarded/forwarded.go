// Package forwarded builds the RFC 7239 Forwarded header value that proxyboi
// attaches to every upstream request. It implements only a narrow subset of
// the grammar: a single element, parsed by locating the literal "for="
// token rather than a full parameter parser.
package forwarded

import "strings"

// Header is the parsed/composed state behind a single outbound Forwarded
// value. ForChain is never empty once Build has run: the current peer is
// always appended last.
type Header struct {
	By       string
	ForChain []string
	Host     string
	Proto    string
}

// Build parses inbound (the client-supplied Forwarded header value, possibly
// empty) and appends peer to the resulting for-chain. by, host and proto are
// always taken from the caller; any by=/host=/proto= present in inbound is
// discarded.
func Build(peer, iface, inbound, host, proto string) Header {
	h := Header{
		By:    iface,
		Host:  host,
		Proto: proto,
	}

	idx := strings.Index(inbound, "for=")
	if idx == -1 {
		h.ForChain = []string{peer}
		return h
	}

	s := inbound[idx:]
	if end := strings.IndexByte(s, ';'); end != -1 {
		s = s[:end]
	}

	for _, fragment := range strings.Split(s, ",") {
		fragment = strings.TrimSpace(fragment)
		fragment = strings.TrimPrefix(fragment, "for=")
		h.ForChain = append(h.ForChain, fragment)
	}
	h.ForChain = append(h.ForChain, peer)

	return h
}

// String renders the header in proxyboi's canonical, non-URL-encoded form:
//
//	by=<by>;for=<f1>, for=<f2>, …;host=<host>;proto=<proto>
func (h Header) String() string {
	forEntries := make([]string, len(h.ForChain))
	for i, f := range h.ForChain {
		forEntries[i] = "for=" + f
	}

	var b strings.Builder
	b.WriteString("by=")
	b.WriteString(h.By)
	b.WriteByte(';')
	b.WriteString(strings.Join(forEntries, ", "))
	b.WriteString(";host=")
	b.WriteString(h.Host)
	b.WriteString(";proto=")
	b.WriteString(h.Proto)
	return b.String()
}
