package linear

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	clierrors "github.com/salmonumbrella/linear-cli/internal/errors"
)

func TestAuthenticate_PasswordGrant(t *testing.T) {
	var authBody map[string]string
	authServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&authBody)
		_ = json.NewEncoder(w).Encode(map[string]string{"access_token": "oauth-tok-1"})
	}))
	defer authServer.Close()

	var viewerAuth string
	apiServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		viewerAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(viewerPayload())
	}))
	defer apiServer.Close()

	client := NewClient("").WithAPIURL(apiServer.URL).WithAuthURL(authServer.URL)
	resp, err := client.Authenticate(context.Background(), "ada@example.com", "hunter2")
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}

	if authBody["grant_type"] != "password" || authBody["username"] != "ada@example.com" {
		t.Errorf("unexpected grant request: %+v", authBody)
	}
	if resp.AccessToken != "oauth-tok-1" {
		t.Errorf("expected issued token, got %q", resp.AccessToken)
	}
	if resp.User.Email != "ada@example.com" {
		t.Errorf("expected viewer profile, got %+v", resp.User)
	}
	// The viewer fetch must use the newly issued token.
	if viewerAuth != "Bearer oauth-tok-1" {
		t.Errorf("expected bearer token on viewer fetch, got %q", viewerAuth)
	}
}

func TestAuthenticate_BadCredentials(t *testing.T) {
	authServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "invalid credentials"})
	}))
	defer authServer.Close()

	client := NewClient("").WithAuthURL(authServer.URL)
	_, err := client.Authenticate(context.Background(), "ada@example.com", "wrong")
	if err == nil {
		t.Fatal("expected error for bad credentials")
	}
	if !clierrors.IsAuthError(err) {
		t.Errorf("expected AuthError, got %v", err)
	}
}

func TestAuthenticate_MissingAccessToken(t *testing.T) {
	authServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"token_type": "bearer"})
	}))
	defer authServer.Close()

	client := NewClient("").WithAuthURL(authServer.URL)
	_, err := client.Authenticate(context.Background(), "ada@example.com", "pw")
	if !clierrors.IsAuthError(err) {
		t.Errorf("expected AuthError for missing access token, got %v", err)
	}
}

func TestAuthenticateAPIKey_Valid(t *testing.T) {
	var gotAuth string
	apiServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(viewerPayload())
	}))
	defer apiServer.Close()

	client := NewClient("").WithAPIURL(apiServer.URL)
	resp, err := client.AuthenticateAPIKey(context.Background(), "lin_api_valid")
	if err != nil {
		t.Fatalf("AuthenticateAPIKey failed: %v", err)
	}
	if resp.AccessToken != "lin_api_valid" {
		t.Errorf("expected the key back as the token, got %q", resp.AccessToken)
	}
	if gotAuth != "lin_api_valid" {
		t.Errorf("expected raw API key in header, got %q", gotAuth)
	}
}

func TestAuthenticateAPIKey_Rejected(t *testing.T) {
	apiServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer apiServer.Close()

	client := NewClient("").WithAPIURL(apiServer.URL)
	_, err := client.AuthenticateAPIKey(context.Background(), "lin_api_bad")
	if !clierrors.IsAuthError(err) {
		t.Errorf("expected AuthError for rejected key, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	status := http.StatusOK
	apiServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		_ = json.NewEncoder(w).Encode(viewerPayload())
	}))
	defer apiServer.Close()

	client := NewClient("tok").WithAPIURL(apiServer.URL)

	ok, err := client.Validate(context.Background())
	if err != nil || !ok {
		t.Errorf("expected valid, got %v, %v", ok, err)
	}

	status = http.StatusUnauthorized
	ok, err = client.Validate(context.Background())
	if err != nil {
		t.Errorf("401 should not be an error from Validate, got %v", err)
	}
	if ok {
		t.Error("expected invalid for rejected token")
	}
}
