package proxy

import (
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/matveynator/proxyboi/internal/config"
	"github.com/matveynator/proxyboi/internal/tracelog"
)

// Forwarder drives one request end to end: it is the
// forwarding orchestrator. A single Forwarder is shared by every worker the
// host HTTP server dispatches; it holds no per-request mutable state.
type Forwarder struct {
	cfg    config.Config
	client *http.Client
	log    *tracelog.Logger
}

// New builds a Forwarder bound to cfg, sharing client and log across every
// request it serves.
func New(cfg config.Config, client *http.Client, log *tracelog.Logger) *Forwarder {
	return &Forwarder{cfg: cfg, client: client, log: log}
}

// ServeHTTP implements http.Handler, running the RECEIVED -> EMITTED state
// machine. Any failure transitions to ERROR: the client
// receives an empty-bodied 500 and the cause is logged at ERROR level; no
// retry is attempted.
func (f *Forwarder) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()
	remote := peerAddr(r)

	incomingBlock := f.log.FormatIncomingRequest(r, remote)

	body, err := readLimited(r.Body, f.cfg.MaxBodyBytes)
	r.Body.Close()
	if err != nil {
		f.fail(w, requestID, KindUnknown, fmt.Errorf("read incoming body: %w", err))
		return
	}

	upstreamReq, err := BuildUpstreamRequest(r, body, f.cfg)
	if err != nil {
		f.fail(w, requestID, KindUnknown, fmt.Errorf("build upstream request: %w", err))
		return
	}
	upstreamReq = upstreamReq.WithContext(r.Context())

	upstreamBlock := f.log.FormatUpstreamRequest(upstreamReq)

	resp, err := f.client.Do(upstreamReq)
	if err != nil {
		f.fail(w, requestID, KindSendRequest, fmt.Errorf("dispatch upstream request: %w", err))
		return
	}
	defer resp.Body.Close()

	responseBlock := f.log.FormatUpstreamResponse(resp, upstreamReq.URL.String())

	respBody, err := readLimited(resp.Body, f.cfg.MaxBodyBytes)
	if err != nil {
		f.fail(w, requestID, KindPayload, fmt.Errorf("read upstream body: %w", err))
		return
	}

	outHeader := BuildOutgoingResponse(resp.Header, f.cfg.ResponseHeaders)
	for name, values := range outHeader {
		for _, v := range values {
			w.Header().Add(name, v)
		}
	}
	w.WriteHeader(resp.StatusCode)
	if _, err := w.Write(respBody); err != nil {
		f.log.Error(requestID, KindPayload.String(), fmt.Errorf("write outgoing body: %w", err))
		return
	}

	outgoingBlock := f.log.FormatOutgoingResponse(resp.StatusCode, outHeader, r.ProtoMajor, r.ProtoMinor, remote)
	f.log.Emit(requestID, incomingBlock, upstreamBlock, responseBlock, outgoingBlock)
}

// fail logs the failure and writes an empty-bodied 500 to the client. It is
// only ever called before any byte of the response has been written.
func (f *Forwarder) fail(w http.ResponseWriter, requestID string, kind Kind, err error) {
	f.log.Error(requestID, kind.String(), err)
	w.WriteHeader(http.StatusInternalServerError)
}

// readLimited reads r fully, failing if more than max bytes are available
// so an unbounded body never gets fully buffered in memory.
func readLimited(r io.Reader, max int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, max+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > max {
		return nil, fmt.Errorf("body exceeds maximum of %d bytes", max)
	}
	return data, nil
}
