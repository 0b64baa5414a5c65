package cmd

import (
	"context"
	"time"

	"github.com/salmonumbrella/linear-cli/internal/auth"
	"github.com/salmonumbrella/linear-cli/internal/config"
)

type (
	errorFormatKey struct{}
	configKey      struct{}
	sessionKey     struct{}
	timeoutKey     struct{}
)

// WithErrorFormat stores the error format in the context.
func WithErrorFormat(ctx context.Context, format string) context.Context {
	return context.WithValue(ctx, errorFormatKey{}, format)
}

// ErrorFormatFromContext retrieves the error format from context.
func ErrorFormatFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(errorFormatKey{}).(string); ok {
		return v
	}
	return ""
}

// WithConfig stores loaded CLI config in context for downstream helpers.
func WithConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// ConfigFromContext retrieves CLI config from context.
func ConfigFromContext(ctx context.Context) *config.Config {
	if v, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return v
	}
	return nil
}

// WithSession stores the auth session for this invocation.
func WithSession(ctx context.Context, s *auth.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFromContext retrieves the auth session, creating the default one
// for callers that bypass root pre-run (tests, embedding).
func SessionFromContext(ctx context.Context) *auth.Session {
	if v, ok := ctx.Value(sessionKey{}).(*auth.Session); ok {
		return v
	}
	return auth.NewDefaultSession()
}

// WithRequestTimeout stores the API request timeout in the context.
func WithRequestTimeout(ctx context.Context, d time.Duration) context.Context {
	return context.WithValue(ctx, timeoutKey{}, d)
}

// RequestTimeoutFromContext retrieves the API request timeout, zero when unset.
func RequestTimeoutFromContext(ctx context.Context) time.Duration {
	if v, ok := ctx.Value(timeoutKey{}).(time.Duration); ok {
		return v
	}
	return 0
}
