package tracelog

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrainCase(t *testing.T) {
	cases := map[string]string{
		"content-type":     "Content-Type",
		"x-forwarded-for":  "X-Forwarded-For",
		"via":              "Via",
		"ALREADY-UPPER":    "Already-Upper",
	}
	for in, want := range cases {
		assert.Equal(t, want, trainCase(in))
	}
}

func TestVersionToken(t *testing.T) {
	assert.Equal(t, "HTTP/1.1", versionToken(1, 1))
	assert.Equal(t, "HTTP/2.0", versionToken(2, 0))
}

func TestFormatIncomingRequestNonVerboseIsOneLine(t *testing.T) {
	l := &Logger{verbose: false, colorize: false}
	r := httptest.NewRequest("GET", "http://example.com/foo", nil)

	line := l.FormatIncomingRequest(r, "10.0.0.1")

	assert.Contains(t, line, "Connection from 10.0.0.1 at [")
	assert.NotContains(t, line, "\n")
}

func TestFormatUpstreamRequestEmptyOutsideVerbose(t *testing.T) {
	l := &Logger{verbose: false, colorize: false}
	r := httptest.NewRequest("GET", "http://example.com/foo", nil)
	assert.Empty(t, l.FormatUpstreamRequest(r))
}

func TestFormatIncomingRequestVerboseSortsHeaders(t *testing.T) {
	l := &Logger{verbose: true, colorize: false}
	r := httptest.NewRequest("GET", "http://example.com/foo?q=1", nil)
	r.Header.Set("Zeta", "1")
	r.Header.Set("Alpha", "2")

	out := l.FormatIncomingRequest(r, "10.0.0.1")

	alphaIdx := strings.Index(out, "Alpha: 2")
	zetaIdx := strings.Index(out, "Zeta: 1")
	assert.True(t, alphaIdx >= 0 && zetaIdx >= 0 && alphaIdx < zetaIdx)
}
