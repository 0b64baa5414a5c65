package errors

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestValidationError(t *testing.T) {
	err := &ValidationError{
		Field:   "project_id",
		Message: "must not be empty",
	}

	expected := "validation error for project_id: must not be empty"
	if err.Error() != expected {
		t.Errorf("Expected %q, got %q", expected, err.Error())
	}

	if !IsValidationError(err) {
		t.Error("IsValidationError should return true for ValidationError")
	}
}

func TestRateLimitError(t *testing.T) {
	err := &RateLimitError{
		RetryAfter: 30 * time.Second,
	}

	expected := "rate limited, retry after 30s"
	if err.Error() != expected {
		t.Errorf("Expected %q, got %q", expected, err.Error())
	}

	if !IsRateLimitError(err) {
		t.Error("IsRateLimitError should return true for RateLimitError")
	}
}

func TestAuthError(t *testing.T) {
	err := &AuthError{
		Reason: "invalid API key",
	}

	expected := "authentication error: invalid API key"
	if err.Error() != expected {
		t.Errorf("Expected %q, got %q", expected, err.Error())
	}

	if !IsAuthError(err) {
		t.Error("IsAuthError should return true for AuthError")
	}
}

func TestNetworkError(t *testing.T) {
	inner := errors.New("dial tcp: connection refused")
	err := WrapNetwork("login", inner)

	if !IsNetworkError(err) {
		t.Error("IsNetworkError should return true for NetworkError")
	}
	if !errors.Is(err, inner) {
		t.Error("expected Unwrap to reach inner error")
	}
	if !strings.Contains(err.Error(), "login") {
		t.Errorf("expected op in message, got %q", err.Error())
	}
}

func TestWrapNetwork_NilError(t *testing.T) {
	if err := WrapNetwork("login", nil); err != nil {
		t.Errorf("expected nil when wrapping nil error, got %v", err)
	}
}

func TestStorageError(t *testing.T) {
	inner := errors.New("permission denied")
	err := WrapStorage("store token", inner)

	if !IsStorageError(err) {
		t.Error("IsStorageError should return true for StorageError")
	}
	if !errors.Is(err, inner) {
		t.Error("expected Unwrap to reach inner error")
	}
	if !strings.Contains(err.Error(), "store token") {
		t.Errorf("expected op in message, got %q", err.Error())
	}
	if IsStorageError(inner) {
		t.Error("IsStorageError should return false for plain error")
	}
}

func TestWrapStorage_NilError(t *testing.T) {
	if err := WrapStorage("store token", nil); err != nil {
		t.Errorf("expected nil when wrapping nil error, got %v", err)
	}
}

func TestTokenRejectedError(t *testing.T) {
	err := TokenRejectedError(errors.New("401 unauthorized"))

	if !IsAuthError(err) {
		t.Error("TokenRejectedError should be an AuthError")
	}
	if !strings.Contains(UserSuggestion(err), "lnr auth login") {
		t.Errorf("suggestion should point at auth login, got %q", UserSuggestion(err))
	}
}

func TestInvalidCredentialsError(t *testing.T) {
	err := InvalidCredentialsError(errors.New("bad password"))

	if !IsAuthError(err) {
		t.Error("InvalidCredentialsError should be an AuthError")
	}
	if UserSuggestion(err) == "" {
		t.Error("expected a suggestion")
	}
}

func TestTypeCheckers(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		checker func(error) bool
		want    bool
	}{
		{
			name:    "generic error",
			err:     errors.New("generic error"),
			checker: IsValidationError,
			want:    false,
		},
		{
			name:    "nil error",
			err:     nil,
			checker: IsValidationError,
			want:    false,
		},
		{
			name:    "nil network",
			err:     nil,
			checker: IsNetworkError,
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.checker(tt.err); got != tt.want {
				t.Errorf("checker() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestContextualError(t *testing.T) {
	inner := errors.New("connection refused")
	err := WrapContext("POST", "https://api.linear.app/graphql", 0, inner)

	ctxErr, ok := err.(*ContextualError)
	if !ok {
		t.Fatalf("expected *ContextualError, got %T", err)
	}

	if ctxErr.Method != "POST" {
		t.Errorf("expected method POST, got %s", ctxErr.Method)
	}
	if ctxErr.URL != "https://api.linear.app/graphql" {
		t.Errorf("expected URL, got %s", ctxErr.URL)
	}
	if !errors.Is(err, inner) {
		t.Errorf("expected Unwrap to return inner error")
	}

	expected := "POST https://api.linear.app/graphql: connection refused"
	if err.Error() != expected {
		t.Errorf("expected %q, got %q", expected, err.Error())
	}
}

func TestContextualError_WithStatusCode(t *testing.T) {
	inner := errors.New("not found")
	err := WrapContext("POST", "/graphql", 404, inner)

	expected := "POST /graphql (404): not found"
	if err.Error() != expected {
		t.Errorf("expected %q, got %q", expected, err.Error())
	}
}

func TestContextualError_NilError(t *testing.T) {
	err := WrapContext("GET", "/test", 200, nil)
	if err != nil {
		t.Errorf("expected nil when wrapping nil error, got %v", err)
	}
}

func TestIsContextualError(t *testing.T) {
	inner := errors.New("test error")
	err := WrapContext("GET", "/test", 500, inner)

	if !IsContextualError(err) {
		t.Error("expected IsContextualError to return true")
	}

	if IsContextualError(inner) {
		t.Error("expected IsContextualError to return false for non-contextual error")
	}
}

func TestUserError(t *testing.T) {
	base := errors.New("missing token")
	err := WrapUserError(base, "authentication required", "Run 'lnr auth login'")

	if !IsUserError(err) {
		t.Error("IsUserError should return true for UserError")
	}

	if got := UserSuggestion(err); got != "Run 'lnr auth login'" {
		t.Errorf("UserSuggestion() = %q, want %q", got, "Run 'lnr auth login'")
	}

	expected := "authentication required: missing token"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestNotFoundError(t *testing.T) {
	err := NotFoundError("project", "Roadmap")

	if !IsUserError(err) {
		t.Error("NotFoundError should be a UserError")
	}

	if !strings.Contains(err.Error(), "project") {
		t.Errorf("Error should mention entity type, got: %s", err.Error())
	}

	if !strings.Contains(err.Error(), "Roadmap") {
		t.Errorf("Error should mention identifier, got: %s", err.Error())
	}

	suggestion := UserSuggestion(err)
	if !strings.Contains(suggestion, "lnr project list") {
		t.Errorf("Suggestion should include list command, got: %s", suggestion)
	}
}

func TestNoDefaultProjectError(t *testing.T) {
	err := NoDefaultProjectError()
	if !IsUserError(err) {
		t.Error("NoDefaultProjectError should be a UserError")
	}

	suggestion := UserSuggestion(err)
	if !strings.Contains(suggestion, "set-default") {
		t.Errorf("Suggestion should mention set-default, got: %s", suggestion)
	}
}
