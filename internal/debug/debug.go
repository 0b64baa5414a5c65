package debug

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

type contextKey struct{}

// WithDebug injects the debug flag into the context
func WithDebug(ctx context.Context, debug bool) context.Context {
	return context.WithValue(ctx, contextKey{}, debug)
}

// IsDebug returns true if debug mode is enabled in the context
func IsDebug(ctx context.Context) bool {
	if v, ok := ctx.Value(contextKey{}).(bool); ok {
		return v
	}
	return false
}

// DebugTransport wraps http.RoundTripper to log requests/responses when debug mode is enabled
type DebugTransport struct {
	Transport http.RoundTripper
	Output    io.Writer
}

// NewDebugTransport creates a new DebugTransport with the given base transport
// If output is nil, it defaults to os.Stderr
func NewDebugTransport(base http.RoundTripper, output io.Writer) *DebugTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	if output == nil {
		output = os.Stderr
	}
	return &DebugTransport{
		Transport: base,
		Output:    output,
	}
}

// redactAuthorization hides the credential in an Authorization header value,
// keeping only the last 4 characters. Handles both "Bearer <token>" values
// and raw API keys sent without a scheme.
func redactAuthorization(val string) string {
	token := val
	prefix := ""
	if strings.HasPrefix(val, "Bearer ") {
		prefix = "Bearer "
		token = val[len(prefix):]
	}
	if len(token) > 10 {
		return prefix + "..." + token[len(token)-4:]
	}
	return prefix + "..."
}

// RoundTrip implements http.RoundTripper
func (t *DebugTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	// Log request
	_, _ = fmt.Fprintf(t.Output, "\n--> %s %s\n", req.Method, req.URL)

	// Log headers with credential redaction
	for key, values := range req.Header {
		if key == "Authorization" {
			_, _ = fmt.Fprintf(t.Output, "    %s: %s\n", key, redactAuthorization(values[0]))
		} else {
			_, _ = fmt.Fprintf(t.Output, "    %s: %s\n", key, strings.Join(values, ", "))
		}
	}

	// Log request body if present. Token-endpoint bodies carry the password
	// grant and are never shown.
	if req.Body != nil {
		bodyBytes, err := io.ReadAll(req.Body)
		if err != nil {
			_, _ = fmt.Fprintf(t.Output, "    [ERROR reading request body: %v]\n", err)
		} else {
			req.Body = io.NopCloser(bytes.NewReader(bodyBytes)) // Restore body for actual request
			if len(bodyBytes) > 0 {
				if strings.Contains(req.URL.Path, "/oauth/token") {
					_, _ = fmt.Fprintf(t.Output, "    Body: [redacted credential grant]\n")
				} else {
					bodyStr := string(bodyBytes)
					if len(bodyStr) > 500 {
						bodyStr = bodyStr[:500] + "... [truncated]"
					}
					_, _ = fmt.Fprintf(t.Output, "    Body: %s\n", bodyStr)
				}
			}
		}
	}

	// Execute the request
	resp, err := t.Transport.RoundTrip(req)

	duration := time.Since(start)

	// Log error if request failed
	if err != nil {
		_, _ = fmt.Fprintf(t.Output, "<-- ERROR: %v (%s)\n\n", err, duration)
		return resp, err
	}

	// Log response
	_, _ = fmt.Fprintf(t.Output, "<-- %d %s (%s)\n", resp.StatusCode, resp.Status, duration)

	// Show rate limit info if present (before showing all headers)
	if rl := resp.Header.Get("X-RateLimit-Requests-Remaining"); rl != "" {
		limit := resp.Header.Get("X-RateLimit-Requests-Limit")
		reset := resp.Header.Get("X-RateLimit-Requests-Reset")

		// Calculate time until reset; the API sends a Unix timestamp in
		// milliseconds as a string.
		resetStr := ""
		if reset != "" {
			if ms, err := strconv.ParseInt(reset, 10, 64); err == nil {
				remaining := time.Until(time.UnixMilli(ms))
				if remaining > 0 {
					resetStr = fmt.Sprintf(" (resets in %ds)", int(remaining.Seconds()))
				}
			}
		}

		_, _ = fmt.Fprintf(t.Output, "    Rate-Limit: %s/%s remaining%s\n", rl, limit, resetStr)
		if complexity := resp.Header.Get("X-Complexity-Remaining"); complexity != "" {
			_, _ = fmt.Fprintf(t.Output, "    Complexity: %s remaining\n", complexity)
		}
	}

	// Log response headers
	for key, values := range resp.Header {
		_, _ = fmt.Fprintf(t.Output, "    %s: %s\n", key, strings.Join(values, ", "))
	}

	// Log response body if present
	if resp.Body != nil {
		bodyBytes, err := io.ReadAll(resp.Body)
		if err != nil {
			_, _ = fmt.Fprintf(t.Output, "    [ERROR reading response body: %v]\n\n", err)
		} else {
			resp.Body = io.NopCloser(bytes.NewReader(bodyBytes)) // Restore body for caller
			if len(bodyBytes) > 0 {
				bodyStr := string(bodyBytes)
				if len(bodyStr) > 1000 {
					bodyStr = bodyStr[:1000] + "... [truncated]"
				}
				_, _ = fmt.Fprintf(t.Output, "    Body: %s\n", bodyStr)
			}
		}
	}

	_, _ = fmt.Fprintln(t.Output)

	return resp, err
}
