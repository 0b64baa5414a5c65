// Package errors defines the error taxonomy shared across linear-cli.
//
// The split matters at the CLI boundary: auth errors tell the user to
// re-authenticate, network errors are safe to retry, storage errors mean
// neither secret backend is usable. Core packages never print; commands
// translate these into one-line messages and exit codes.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ValidationError represents an input validation failure
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for %s: %s", e.Field, e.Message)
}

// UserError represents an error caused by user input or configuration.
// Suggestion can provide a concrete fix for the user.
type UserError struct {
	Message    string
	Suggestion string
	Err        error
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a UserError with a message and optional suggestion.
func NewUserError(message, suggestion string) *UserError {
	return &UserError{Message: message, Suggestion: suggestion}
}

// WrapUserError wraps an underlying error with a user-facing message and suggestion.
func WrapUserError(err error, message, suggestion string) *UserError {
	return &UserError{Message: message, Suggestion: suggestion, Err: err}
}

// RateLimitError represents a 429 response
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited, retry after %v", e.RetryAfter)
}

// AuthError represents authentication failures: bad credentials at login or
// a cached token the API rejected. Never retried automatically.
type AuthError struct {
	Reason     string
	Suggestion string
	Err        error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("authentication error: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("authentication error: %s", e.Reason)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// AuthRequiredError wraps an error with authentication required message and suggestion.
func AuthRequiredError(err error) error {
	return &AuthError{
		Reason:     "authentication required",
		Suggestion: "Run 'lnr auth login' to authenticate",
		Err:        err,
	}
}

// InvalidCredentialsError reports a failed credential exchange during login.
func InvalidCredentialsError(err error) error {
	return &AuthError{
		Reason:     "invalid credentials",
		Suggestion: "Check your email/password or API key and try again",
		Err:        err,
	}
}

// TokenRejectedError reports a cached token the API no longer accepts.
// The session layer clears the stored token before returning this.
func TokenRejectedError(err error) error {
	return &AuthError{
		Reason:     "stored token was rejected by the API",
		Suggestion: "Run 'lnr auth login' to authenticate again",
		Err:        err,
	}
}

// NetworkError represents a transport-level failure: DNS, connect, TLS,
// timeout. Distinct from an API response error; safe to retry.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("network error during %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// WrapNetwork wraps a transport failure. Returns nil if err is nil.
func WrapNetwork(op string, err error) error {
	if err == nil {
		return nil
	}
	return &NetworkError{Op: op, Err: err}
}

// StorageError means every secret backend failed for an operation. Login can
// still proceed in-memory for the current invocation, but nothing persists.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("secret storage error during %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("secret storage error: %v", e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// WrapStorage wraps a backend failure. Returns nil if err is nil.
func WrapStorage(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}

// Type checkers
func IsRateLimitError(err error) bool {
	var e *RateLimitError
	return errors.As(err, &e)
}

func IsAuthError(err error) bool {
	var e *AuthError
	return errors.As(err, &e)
}

func IsNetworkError(err error) bool {
	var e *NetworkError
	return errors.As(err, &e)
}

func IsStorageError(err error) bool {
	var e *StorageError
	return errors.As(err, &e)
}

func IsValidationError(err error) bool {
	var e *ValidationError
	return errors.As(err, &e)
}

func IsUserError(err error) bool {
	var e *UserError
	return errors.As(err, &e)
}

// UserSuggestion returns a suggestion string if err is a UserError or AuthError.
func UserSuggestion(err error) string {
	var ue *UserError
	if errors.As(err, &ue) {
		return ue.Suggestion
	}
	var ae *AuthError
	if errors.As(err, &ae) {
		return ae.Suggestion
	}
	return ""
}

// ContextualError wraps an error with HTTP request context for debugging.
type ContextualError struct {
	Method     string
	URL        string
	StatusCode int
	Err        error
}

// WrapContext wraps an error with HTTP request context.
// StatusCode can be 0 if the request never completed.
// Returns nil if err is nil.
func WrapContext(method, url string, statusCode int, err error) error {
	if err == nil {
		return nil
	}
	return &ContextualError{
		Method:     method,
		URL:        url,
		StatusCode: statusCode,
		Err:        err,
	}
}

func (e *ContextualError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s %s (%d): %s", e.Method, e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s %s: %s", e.Method, e.URL, e.Err)
}

func (e *ContextualError) Unwrap() error {
	return e.Err
}

// IsContextualError checks if an error is a ContextualError.
func IsContextualError(err error) bool {
	var ce *ContextualError
	return errors.As(err, &ce)
}

// NotFoundError creates a user-friendly error for a missing resource.
// entityType is the kind of entity (e.g., "project", "issue", "team").
func NotFoundError(entityType, identifier string) error {
	suggestion := fmt.Sprintf("Run 'lnr %s list' to see available %ss\n  • Check the ID or name is correct\n  • Verify your account has access to this %s", entityType, entityType, entityType)
	return NewUserError(
		fmt.Sprintf("%s %q not found", entityType, identifier),
		suggestion,
	)
}

// NoDefaultProjectError is returned when issue creation has no project to target.
func NoDefaultProjectError() error {
	return NewUserError(
		"no project specified and no default project set",
		"Pass --project, or set a default with 'lnr project set-default <project>'",
	)
}
