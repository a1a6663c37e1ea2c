package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUpstreamURLRejectsBadScheme(t *testing.T) {
	_, err := parseUpstreamURL("ftp://example.com")
	assert.Error(t, err)
}

func TestParseUpstreamURLAcceptsHTTPAndHTTPS(t *testing.T) {
	for _, raw := range []string{"http://example.com", "https://example.com:9000"} {
		_, err := parseUpstreamURL(raw)
		assert.NoError(t, err)
	}
}

func TestBuildConfigAppliesDefaults(t *testing.T) {
	f := flags{listen: "0.0.0.0:8080", timeoutSeconds: 5}
	cfg, err := buildConfig("http://origin:9000", f)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.ListenAddr)
	assert.Equal(t, "origin:9000", cfg.UpstreamBaseURL.Host)
}

func TestBuildConfigRejectsUnpairedTLSFlags(t *testing.T) {
	f := flags{listen: "0.0.0.0:8080", certPath: "cert.pem"}
	_, err := buildConfig("http://origin:9000", f)
	assert.Error(t, err)
}

func TestBuildConfigParsesExtraHeaders(t *testing.T) {
	f := flags{
		listen:          "0.0.0.0:8080",
		upstreamHeaders: []string{"X-A: 1"},
		responseHeaders: []string{"X-B: 2"},
	}
	cfg, err := buildConfig("http://origin:9000", f)
	require.NoError(t, err)

	require.Len(t, cfg.UpstreamHeaders, 1)
	assert.Equal(t, "X-A", cfg.UpstreamHeaders[0].Name)
	require.Len(t, cfg.ResponseHeaders, 1)
	assert.Equal(t, "X-B", cfg.ResponseHeaders[0].Name)
}

func TestBuildConfigRejectsMalformedHeader(t *testing.T) {
	f := flags{listen: "0.0.0.0:8080", upstreamHeaders: []string{"no-colon-here"}}
	_, err := buildConfig("http://origin:9000", f)
	assert.Error(t, err)
}
