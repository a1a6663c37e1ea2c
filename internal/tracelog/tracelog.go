// Package tracelog renders the four-block diagnostic trace of one proxied
// exchange (incoming request, upstream request, upstream response, outgoing
// response) and emits it as a single structured log record.
package tracelog

import (
	"io"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"

	"github.com/matveynator/proxyboi/internal/colors"
)

// timestampLayout matches Apache's common log format timestamp, used by the
// non-verbose incoming-request line.
const timestampLayout = "02/Jan/2006:15:04:05 -0700"

// Logger renders and emits the per-exchange trace. It is safe for concurrent
// use: every exchange builds its own strings and issues exactly one zerolog
// call, so concurrent requests never interleave their blocks.
type Logger struct {
	zl       zerolog.Logger
	verbose  bool
	colorize bool
}

// New builds a Logger. quiet restricts output to ERROR level; verbose
// switches the four formatters from the one-line summary to the full
// boxed trace. Colorization is auto-detected from stdout and suppressed
// outright when stdout is not a terminal.
func New(quiet, verbose bool) *Logger {
	colorize := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())

	var out io.Writer = os.Stdout
	if colorize {
		out = colorable.NewColorable(os.Stdout)
	} else {
		out = colorable.NewNonColorable(os.Stdout)
	}

	level := zerolog.InfoLevel
	if quiet {
		level = zerolog.ErrorLevel
	}

	zl := zerolog.New(out).Level(level).With().Timestamp().Logger()

	return &Logger{zl: zl, verbose: verbose, colorize: colorize}
}

// Emit joins the four trace blocks into one record and logs it at INFO,
// tagged with requestID.
func (l *Logger) Emit(requestID string, blocks ...string) {
	l.zl.Info().Str("request_id", requestID).Msg(strings.Join(blocks, "\n"))
}

// Error logs a forwarding failure at ERROR level with its full message,
// tagged with requestID and the failure kind.
func (l *Logger) Error(requestID, kind string, err error) {
	l.zl.Error().Str("request_id", requestID).Str("kind", kind).Err(err).Msg("forwarding failed")
}

// FormatIncomingRequest renders block 1. In non-verbose mode it is a single
// "Connection from <remote> at <timestamp>" line; in verbose mode it adds
// the method/path/version start-line and the sorted, Train-Case headers.
func (l *Logger) FormatIncomingRequest(r *http.Request, remote string) string {
	timestamp := time.Now().Format(timestampLayout)
	timestamp = "[" + timestamp + "]"

	if !l.verbose {
		return "Connection from " + remote + " at " + timestamp
	}

	pathQuery := r.URL.Path
	if r.URL.RawQuery != "" {
		pathQuery += "?" + r.URL.RawQuery
	}
	startLine := l.color(colors.Section, r.Method) + " " +
		l.color(colors.Accent, pathQuery) + " " +
		l.color(colors.Title, versionToken(r.ProtoMajor, r.ProtoMinor))

	body := l.renderBlock(colors.Section, "Incoming request", "from "+l.color(colors.Highlight, remote), startLine, r.Header)
	return "Connection from " + remote + " at " + timestamp + "\n" + body
}

// FormatUpstreamRequest renders block 2, or the empty string outside verbose
// mode.
func (l *Logger) FormatUpstreamRequest(req *http.Request) string {
	if !l.verbose {
		return ""
	}
	startLine := l.color(colors.Accent, req.Method) + " " +
		l.color(colors.Accent, req.URL.String()) + " " +
		l.color(colors.Title, versionToken(req.ProtoMajor, req.ProtoMinor))

	return l.renderBlock(colors.Accent, "Upstream request", "to "+l.color(colors.Warn, req.URL.String()), startLine, req.Header)
}

// FormatUpstreamResponse renders block 3, or the empty string outside
// verbose mode.
func (l *Logger) FormatUpstreamResponse(resp *http.Response, upstreamURL string) string {
	if !l.verbose {
		return ""
	}
	startLine := responseStartLine(resp.ProtoMajor, resp.ProtoMinor, resp.StatusCode)

	return l.renderBlock(colors.Title, "Upstream response", "from "+l.color(colors.Warn, upstreamURL), startLine, resp.Header)
}

// FormatOutgoingResponse renders block 4, or the empty string outside
// verbose mode.
func (l *Logger) FormatOutgoingResponse(statusCode int, header http.Header, protoMajor, protoMinor int, remote string) string {
	if !l.verbose {
		return ""
	}
	startLine := responseStartLine(protoMajor, protoMinor, statusCode)

	return l.renderBlock(colors.Danger, "Outgoing response", "to "+l.color(colors.Highlight, remote), startLine, header)
}

// renderBlock assembles one ┌─/│ boxed trace block.
func (l *Logger) renderBlock(bannerColor, banner, suffix, startLine string, header http.Header) string {
	deco := l.color(bannerColor, "│")

	var headerLines []string
	for name, values := range header {
		for _, v := range values {
			rendered := v
			if !utf8.ValidString(v) {
				rendered = "<unprintable>"
			}
			headerLines = append(headerLines, deco+" "+l.color(colors.Accent, trainCase(name))+": "+rendered)
		}
	}
	sort.Strings(headerLines)

	lines := make([]string, 0, 2+len(headerLines))
	lines = append(lines, l.color(bannerColor, "┌─"+banner)+" "+suffix)
	lines = append(lines, deco+" "+startLine)
	lines = append(lines, headerLines...)

	return strings.Join(lines, "\n")
}

// color wraps s in the given ANSI code, or returns it unmodified when
// colorization has been suppressed (non-TTY stdout).
func (l *Logger) color(code, s string) string {
	if !l.colorize {
		return s
	}
	return code + s + colors.Reset
}

// versionToken renders an HTTP version in standards-compliant form, e.g.
// "HTTP/1.1".
func versionToken(major, minor int) string {
	return "HTTP/" + strconv.Itoa(major) + "." + strconv.Itoa(minor)
}

func responseStartLine(major, minor, statusCode int) string {
	return versionToken(major, minor) + " " + strconv.Itoa(statusCode) + " " + http.StatusText(statusCode)
}

// trainCase converts a hyphenated header name into Train-Case:
// "content-type" -> "Content-Type", "x-forwarded-for" -> "X-Forwarded-For".
func trainCase(name string) string {
	parts := strings.Split(name, "-")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + strings.ToLower(p[1:])
	}
	return strings.Join(parts, "-")
}
