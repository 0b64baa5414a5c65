package cmd

import (
	"context"
	"os"
	"strings"

	"github.com/salmonumbrella/linear-cli/internal/auth"
	"github.com/salmonumbrella/linear-cli/internal/config"
	"github.com/salmonumbrella/linear-cli/internal/debug"
	"github.com/salmonumbrella/linear-cli/internal/errors"
	"github.com/salmonumbrella/linear-cli/internal/linear"
)

// NewLinearClient creates an API client with the token, honoring the
// endpoint override precedence:
//  1. LINEAR_API_URL env var
//  2. api_url in config.yaml
func NewLinearClient(ctx context.Context, token string) *linear.Client {
	client := linear.NewClient(token)

	if baseURL := strings.TrimSpace(os.Getenv("LINEAR_API_URL")); baseURL != "" {
		client.WithAPIURL(baseURL)
	} else {
		cfg := ConfigFromContext(ctx)
		if cfg == nil {
			// Backward compatibility for tests/direct calls that bypass root pre-run.
			cfg, _ = config.Load()
		}
		if cfg != nil && strings.TrimSpace(cfg.APIURL) != "" {
			client.WithAPIURL(cfg.APIURL)
		}
	}

	if timeout := RequestTimeoutFromContext(ctx); timeout > 0 {
		client.WithTimeout(timeout)
	}
	if debug.IsDebug(ctx) {
		client.WithDebugOutput(stderrFromContext(ctx))
	}
	return client
}

// clientFromContext builds an authenticated client from the cached token.
func clientFromContext(ctx context.Context) (*linear.Client, error) {
	session := SessionFromContext(ctx)
	token, err := session.Token()
	if err != nil {
		return nil, err
	}
	return NewLinearClient(ctx, token), nil
}

// wrapAPIError translates a failed API call into a user-facing error. When
// the API rejected the cached token, the stored token is cleared so the next
// invocation starts clean instead of retrying a dead token. Env tokens are
// not cleared; the user owns those.
func wrapAPIError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if linear.IsUnauthorized(err) {
		if os.Getenv(auth.EnvVarName) == "" {
			_ = SessionFromContext(ctx).Invalidate()
		}
		return errors.TokenRejectedError(err)
	}
	return err
}
