package linear

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// GraphQLError is a single error entry from a GraphQL response.
type GraphQLError struct {
	Message    string         `json:"message"`
	Path       []string       `json:"path,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

// APIError wraps a failed API call: an HTTP error status, GraphQL errors in
// a 200 response, or both.
type APIError struct {
	StatusCode int
	Message    string
	Errors     []GraphQLError
	RetryAfter time.Duration
}

// Error implements the error interface
func (e *APIError) Error() string {
	if len(e.Errors) > 0 {
		msgs := make([]string, len(e.Errors))
		for i, gqlErr := range e.Errors {
			msgs[i] = gqlErr.Message
		}
		return fmt.Sprintf("linear API error: %s", strings.Join(msgs, "; "))
	}
	if e.Message != "" {
		return fmt.Sprintf("linear API error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("linear API error %d", e.StatusCode)
}

// IsUnauthorized reports whether err is an API rejection of the token.
// Linear returns 401 for bad tokens and sometimes a 200 with an
// authentication error in the GraphQL errors list.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	if apiErr.StatusCode == http.StatusUnauthorized {
		return true
	}
	for _, gqlErr := range apiErr.Errors {
		if code, ok := gqlErr.Extensions["code"].(string); ok {
			if code == "AUTHENTICATION_ERROR" || code == "UNAUTHENTICATED" {
				return true
			}
		}
	}
	return false
}
