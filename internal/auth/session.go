package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	clierrors "github.com/salmonumbrella/linear-cli/internal/errors"
	"github.com/salmonumbrella/linear-cli/internal/secrets"
)

const (
	// TokenKey is the storage key for the API token
	TokenKey = "linear-token"
	// TokenMetadataKey is the storage key for token metadata
	TokenMetadataKey = "linear-token-metadata"
	// UserInfoKey is the storage key for the authenticated user's profile
	UserInfoKey = "linear-user-info"
	// EnvVarName is the environment variable override for the token
	EnvVarName = "LINEAR_API_KEY"
)

// Source records how a token was obtained.
type Source string

const (
	// SourcePassword indicates an email/password credential exchange
	SourcePassword Source = "password"
	// SourceAPIKey indicates a personal API key
	SourceAPIKey Source = "api_key"
	// SourceEnv indicates the token came from the environment
	SourceEnv Source = "env"
	// SourceUnknown indicates an unknown origin
	SourceUnknown Source = "unknown"
)

// State is the session state derived from storage on each lookup.
type State string

const (
	// NoSession means no token is cached anywhere.
	NoSession State = "no-session"
	// HasToken means a token is cached; it may or may not still be valid.
	HasToken State = "has-token"
	// TokenInvalid means the API rejected the cached token during this
	// invocation. Invalidate moves the stored state back to NoSession.
	TokenInvalid State = "token-invalid"
)

// Credentials are the raw login inputs. They are used for a single exchange
// and never stored.
type Credentials struct {
	Email    string
	Password string
	APIKey   string
}

// User is the profile of the authenticated user.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Result is a successful credential exchange.
type Result struct {
	AccessToken string
	Source      Source
	User        User
}

// TokenMetadata describes the cached token.
type TokenMetadata struct {
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
}

// Authenticator exchanges credentials for a token. Implemented by the API
// client; mocked in tests.
type Authenticator interface {
	Authenticate(ctx context.Context, creds Credentials) (*Result, error)
}

// Session manages the cached token for one CLI invocation.
type Session struct {
	backend secrets.Backend

	// memToken holds a token that could not be persisted, so the rest of
	// the invocation still works after a degraded login.
	memToken string
	// rejected is set by Invalidate for status reporting.
	rejected bool
}

// NewSession creates a session over the given secret backend.
func NewSession(backend secrets.Backend) *Session {
	return &Session{backend: backend}
}

// NewDefaultSession creates a session over the production storage chain.
func NewDefaultSession() *Session {
	return NewSession(secrets.DefaultChain())
}

// Login exchanges credentials for a token via the authenticator and caches
// the token. On a storage failure the login still succeeds for this process;
// the returned error is a *errors.StorageError the caller should surface as
// a warning, alongside a usable Result.
func (s *Session) Login(ctx context.Context, authenticator Authenticator, creds Credentials) (*Result, error) {
	result, err := authenticator.Authenticate(ctx, creds)
	if err != nil {
		// Failed exchange leaves any existing session untouched.
		return nil, err
	}

	s.rejected = false
	if storeErr := s.saveToken(result.AccessToken, result.Source); storeErr != nil {
		s.memToken = result.AccessToken
		return result, storeErr
	}
	_ = s.saveUser(result.User)
	return result, nil
}

// saveToken persists the token and its metadata, preserving CreatedAt when
// the token itself has not changed.
func (s *Session) saveToken(token string, source Source) error {
	if token == "" {
		return fmt.Errorf("token cannot be empty")
	}

	createdAt := time.Now()
	if existing, err := s.backend.Retrieve(TokenKey); err == nil && existing == token {
		if meta, metaErr := s.Metadata(); metaErr == nil && meta != nil {
			createdAt = meta.CreatedAt
		}
	}

	if source == "" {
		source = SourceUnknown
	}
	if err := s.backend.Store(TokenKey, token); err != nil {
		return err
	}

	meta := TokenMetadata{Source: string(source), CreatedAt: createdAt}
	data, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("marshal token metadata: %w", err)
	}
	return s.backend.Store(TokenMetadataKey, string(data))
}

func (s *Session) saveUser(user User) error {
	if user.ID == "" {
		return nil
	}
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal user info: %w", err)
	}
	return s.backend.Store(UserInfoKey, string(data))
}

// Token returns the current token without validating it remotely.
// Priority: environment variable, then this process's in-memory token,
// then the storage chain.
func (s *Session) Token() (string, error) {
	if token := os.Getenv(EnvVarName); token != "" {
		return token, nil
	}
	if s.memToken != "" {
		return s.memToken, nil
	}

	token, err := s.backend.Retrieve(TokenKey)
	if err != nil {
		if errors.Is(err, secrets.ErrNotFound) {
			return "", clierrors.AuthRequiredError(fmt.Errorf("no token found in %s or secret storage", EnvVarName))
		}
		return "", err
	}
	return token, nil
}

// HasToken reports whether a token is available from any source.
func (s *Session) HasToken() bool {
	_, err := s.Token()
	return err == nil
}

// State derives the current session state.
func (s *Session) State() State {
	if s.rejected {
		return TokenInvalid
	}
	if s.HasToken() {
		return HasToken
	}
	return NoSession
}

// Metadata returns metadata for the cached token, or nil when absent.
// Env tokens have no stored metadata.
func (s *Session) Metadata() (*TokenMetadata, error) {
	data, err := s.backend.Retrieve(TokenMetadataKey)
	if err != nil {
		if errors.Is(err, secrets.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var meta TokenMetadata
	if err := json.Unmarshal([]byte(data), &meta); err != nil {
		return nil, nil
	}
	return &meta, nil
}

// UserInfo returns the stored profile of the authenticated user, or nil.
func (s *Session) UserInfo() *User {
	data, err := s.backend.Retrieve(UserInfoKey)
	if err != nil {
		return nil
	}
	var user User
	if err := json.Unmarshal([]byte(data), &user); err != nil {
		return nil
	}
	return &user
}

// Logout removes the token and all session metadata. Idempotent; logging
// out with no session is not an error.
func (s *Session) Logout() error {
	s.memToken = ""
	s.rejected = false

	if err := s.backend.Delete(TokenKey); err != nil {
		return err
	}
	_ = s.backend.Delete(TokenMetadataKey)
	_ = s.backend.Delete(UserInfoKey)
	return nil
}

// Invalidate clears the cached token after the API rejected it, so the next
// invocation starts from NoSession instead of retrying a dead token.
func (s *Session) Invalidate() error {
	err := s.Logout()
	s.rejected = true
	return err
}
