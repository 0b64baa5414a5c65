// Package linear is a client for the Linear GraphQL API.
//
// All operations take a context, retry transient failures with exponential
// backoff, and honor Retry-After on rate limits. The zero-value auth rule
// follows Linear's convention: personal API keys (lin_api_ prefix) are sent
// as the raw Authorization value, OAuth access tokens get a Bearer prefix.
package linear

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/salmonumbrella/linear-cli/internal/debug"
	clierrors "github.com/salmonumbrella/linear-cli/internal/errors"
)

const (
	// DefaultAPIURL is the Linear GraphQL endpoint.
	DefaultAPIURL = "https://api.linear.app/graphql"
	// DefaultAuthURL is the OAuth token endpoint used for password grants.
	DefaultAuthURL = "https://api.linear.app/oauth/token"

	defaultTimeout = 30 * time.Second
	maxRetries     = 3
	baseDelay      = 1 * time.Second

	apiKeyPrefix = "lin_api_"
)

// Client is the Linear API client
type Client struct {
	httpClient  *http.Client
	token       string
	apiURL      string
	authURL     string
	maxRetries  int
	rateLimiter *RateLimitTracker
}

// NewClient creates a new Linear API client with the given token.
// An empty token is valid for the credential-exchange calls.
func NewClient(token string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		token:       token,
		apiURL:      DefaultAPIURL,
		authURL:     DefaultAuthURL,
		maxRetries:  maxRetries,
		rateLimiter: NewRateLimitTracker(),
	}
}

// WithHTTPClient sets a custom HTTP client
func (c *Client) WithHTTPClient(client *http.Client) *Client {
	c.httpClient = client
	return c
}

// WithAPIURL sets a custom GraphQL endpoint (useful for testing)
func (c *Client) WithAPIURL(url string) *Client {
	c.apiURL = url
	return c
}

// WithAuthURL sets a custom OAuth token endpoint (useful for testing)
func (c *Client) WithAuthURL(url string) *Client {
	c.authURL = url
	return c
}

// WithTimeout sets the request timeout.
func (c *Client) WithTimeout(d time.Duration) *Client {
	c.httpClient.Timeout = d
	return c
}

// WithMaxRetries sets the maximum number of retries for transient errors.
func (c *Client) WithMaxRetries(n int) *Client {
	c.maxRetries = n
	return c
}

// WithDebug enables debug mode for HTTP request/response logging
func (c *Client) WithDebug() *Client {
	return c.WithDebugOutput(os.Stderr)
}

// WithDebugOutput enables debug mode for HTTP request/response logging to the provided writer.
func (c *Client) WithDebugOutput(w io.Writer) *Client {
	baseTransport := c.httpClient.Transport
	if baseTransport == nil {
		baseTransport = http.DefaultTransport
	}

	c.httpClient.Transport = debug.NewDebugTransport(baseTransport, w)
	return c
}

// authorizationValue formats the Authorization header for a token.
// Personal API keys are sent raw; OAuth tokens carry the Bearer prefix.
func authorizationValue(token string) string {
	if strings.HasPrefix(token, apiKeyPrefix) {
		return token
	}
	return "Bearer " + token
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []GraphQLError  `json:"errors"`
}

// execute runs a GraphQL query with retry logic and decodes the data field
// into result.
func (c *Client) execute(ctx context.Context, query string, variables map[string]any, result any) error {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		// Wait before retry (skip on first attempt)
		if attempt > 0 {
			delay := c.calculateRetryDelay(attempt, lastErr)

			if apiErr, ok := lastErr.(*APIError); ok && apiErr.StatusCode == http.StatusTooManyRequests {
				slog.Debug("rate limited, waiting before retry",
					"attempt", attempt,
					"delay", delay.String(),
					"retry_after", apiErr.RetryAfter.String())
			} else {
				slog.Debug("retrying request",
					"attempt", attempt,
					"delay", delay.String())
			}

			select {
			case <-ctx.Done():
				return clierrors.WrapContext(http.MethodPost, c.apiURL, 0, ctx.Err())
			case <-time.After(delay):
			}
		}

		err := c.executeOnce(ctx, query, variables, result)
		if err == nil {
			return nil
		}
		lastErr = err

		if apiErr, ok := err.(*APIError); ok && isRetryable(apiErr.StatusCode) {
			continue
		}

		// Non-retryable error, return immediately
		return clierrors.WrapContext(http.MethodPost, c.apiURL, getStatusCode(err), err)
	}

	return clierrors.WrapContext(http.MethodPost, c.apiURL, getStatusCode(lastErr), lastErr)
}

// executeOnce performs a single GraphQL request attempt.
func (c *Client) executeOnce(ctx context.Context, query string, variables map[string]any, result any) error {
	if variables == nil {
		variables = map[string]any{}
	}
	payload, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", authorizationValue(c.token))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return clierrors.WrapNetwork("graphql request", err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.rateLimiter.Update(resp)

	if resp.StatusCode >= 400 {
		apiErr := &APIError{
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		}
		var gqlResp graphQLResponse
		if decodeErr := json.NewDecoder(resp.Body).Decode(&gqlResp); decodeErr == nil {
			apiErr.Errors = gqlResp.Errors
		}
		return apiErr
	}

	var gqlResp graphQLResponse
	if err := json.NewDecoder(resp.Body).Decode(&gqlResp); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if len(gqlResp.Errors) > 0 {
		return &APIError{StatusCode: resp.StatusCode, Errors: gqlResp.Errors}
	}

	if result != nil {
		if err := json.Unmarshal(gqlResp.Data, result); err != nil {
			return fmt.Errorf("failed to decode response data: %w", err)
		}
	}
	return nil
}

// calculateRetryDelay calculates the delay before the next retry attempt
func (c *Client) calculateRetryDelay(attempt int, lastErr error) time.Duration {
	// Check if the error has a Retry-After header
	if apiErr, ok := lastErr.(*APIError); ok && apiErr.RetryAfter > 0 {
		return apiErr.RetryAfter
	}

	// Exponential backoff: 1s, 2s, 4s
	delay := baseDelay * time.Duration(1<<(attempt-1))

	// Add jitter (0-25% of delay)
	jitter := time.Duration(rand.Int63n(int64(delay / 4)))
	delay += jitter

	return delay
}

// isRetryable returns true if the HTTP status code indicates a retryable error
func isRetryable(statusCode int) bool {
	return statusCode == http.StatusTooManyRequests || statusCode >= 500
}

// parseRetryAfter parses the Retry-After header value
// Returns the duration to wait, or 0 if not parseable
func parseRetryAfter(retryAfter string) time.Duration {
	if retryAfter == "" {
		return 0
	}

	// Try parsing as seconds (integer)
	if seconds, err := strconv.Atoi(retryAfter); err == nil {
		return time.Duration(seconds) * time.Second
	}

	// Try parsing as HTTP date
	if t, err := http.ParseTime(retryAfter); err == nil {
		delay := time.Until(t)
		if delay > 0 {
			return delay
		}
	}

	return 0
}

// getStatusCode extracts the HTTP status code from an error if it's an APIError
func getStatusCode(err error) int {
	if apiErr, ok := err.(*APIError); ok {
		return apiErr.StatusCode
	}
	return 0
}

// GetRateLimitInfo returns the current rate limit information
// Returns nil if no API requests have been made yet
func (c *Client) GetRateLimitInfo() *RateLimitInfo {
	return c.rateLimiter.Get()
}
