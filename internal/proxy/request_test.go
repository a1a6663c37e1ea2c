package proxy

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matveynator/proxyboi/internal/config"
)

func testConfig(t *testing.T, upstreamRaw string) config.Config {
	t.Helper()
	u, err := url.Parse(upstreamRaw)
	require.NoError(t, err)
	return config.Config{
		ListenAddr:      "0.0.0.0:8080",
		UpstreamBaseURL: u,
		Timeout:         0,
		MaxBodyBytes:    1 << 20,
	}
}

func TestBuildUpstreamRequestRewritesPathAndQueryOnly(t *testing.T) {
	cfg := testConfig(t, "http://origin:9000/base/ignored")
	r := httptest.NewRequest(http.MethodGet, "http://proxy.example/foo?bar=1", nil)
	r.RemoteAddr = "192.168.0.100:54321"

	upstreamReq, err := BuildUpstreamRequest(r, nil, cfg)
	require.NoError(t, err)

	assert.Equal(t, "origin:9000", upstreamReq.URL.Host)
	assert.Equal(t, "http", upstreamReq.URL.Scheme)
	assert.Equal(t, "/foo", upstreamReq.URL.Path)
	assert.Equal(t, "bar=1", upstreamReq.URL.RawQuery)
}

func TestBuildUpstreamRequestSetsProvenanceHeaders(t *testing.T) {
	cfg := testConfig(t, "http://origin:9000")
	r := httptest.NewRequest(http.MethodGet, "http://proxy.example/foo", nil)
	r.RemoteAddr = "192.168.0.100:54321"
	r.Host = "proxy.example"

	upstreamReq, err := BuildUpstreamRequest(r, nil, cfg)
	require.NoError(t, err)

	assert.Equal(t, "by=0.0.0.0;for=192.168.0.100;host=proxy.example;proto=http", upstreamReq.Header.Get("Forwarded"))
	assert.Equal(t, "http", upstreamReq.Header.Get("X-Forwarded-Proto"))
	assert.Equal(t, "proxy.example", upstreamReq.Header.Get("X-Forwarded-Host"))
	assert.Equal(t, "192.168.0.100", upstreamReq.Header.Get("X-Forwarded-For"))
	assert.Contains(t, upstreamReq.Header.Get("Via"), "proxyboi")
}

func TestBuildUpstreamRequestAppendsXForwardedFor(t *testing.T) {
	cfg := testConfig(t, "http://origin:9000")
	r := httptest.NewRequest(http.MethodGet, "http://proxy.example/foo", nil)
	r.RemoteAddr = "10.0.0.2:1111"
	r.Header.Set("X-Forwarded-For", "10.0.0.1")

	upstreamReq, err := BuildUpstreamRequest(r, nil, cfg)
	require.NoError(t, err)

	assert.Equal(t, "10.0.0.1, 10.0.0.2", upstreamReq.Header.Get("X-Forwarded-For"))
}

func TestBuildUpstreamRequestAppendsVia(t *testing.T) {
	cfg := testConfig(t, "http://origin:9000")
	r := httptest.NewRequest(http.MethodGet, "http://proxy.example/foo", nil)
	r.Header.Set("Via", "1.1 other-proxy")

	upstreamReq, err := BuildUpstreamRequest(r, nil, cfg)
	require.NoError(t, err)

	assert.Equal(t, "1.1 other-proxy, HTTP/1.1 proxyboi", upstreamReq.Header.Get("Via"))
}

func TestBuildUpstreamRequestUnknownPeer(t *testing.T) {
	cfg := testConfig(t, "http://origin:9000")
	r := httptest.NewRequest(http.MethodGet, "http://proxy.example/foo", nil)
	r.RemoteAddr = ""

	upstreamReq, err := BuildUpstreamRequest(r, nil, cfg)
	require.NoError(t, err)

	assert.Equal(t, "unknown", upstreamReq.Header.Get("X-Forwarded-For"))
}

func TestBuildUpstreamRequestAppliesConfiguredExtraHeaders(t *testing.T) {
	cfg := testConfig(t, "http://origin:9000")
	cfg.UpstreamHeaders = []config.Header{{Name: "X-Proxy-Origin", Value: "proxyboi"}}
	r := httptest.NewRequest(http.MethodGet, "http://proxy.example/foo", nil)
	r.Header.Set("X-Proxy-Origin", "client-supplied")

	upstreamReq, err := BuildUpstreamRequest(r, nil, cfg)
	require.NoError(t, err)

	assert.Equal(t, "proxyboi", upstreamReq.Header.Get("X-Proxy-Origin"))
}

func TestBuildUpstreamRequestPreservesMethodAndBody(t *testing.T) {
	cfg := testConfig(t, "http://origin:9000")
	r := httptest.NewRequest(http.MethodPost, "http://proxy.example/foo", nil)
	body := []byte("payload")

	upstreamReq, err := BuildUpstreamRequest(r, body, cfg)
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, upstreamReq.Method)
	got := make([]byte, len(body))
	n, _ := upstreamReq.Body.Read(got)
	assert.Equal(t, body, got[:n])
}
