package linear

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	clierrors "github.com/salmonumbrella/linear-cli/internal/errors"
)

// AuthResponse is the outcome of a successful credential exchange.
type AuthResponse struct {
	AccessToken string
	User        User
}

// Authenticate exchanges an email and password for an access token via the
// OAuth password grant, then fetches the user profile with the new token.
func (c *Client) Authenticate(ctx context.Context, email, password string) (*AuthResponse, error) {
	payload, err := json.Marshal(map[string]string{
		"grant_type": "password",
		"username":   email,
		"password":   password,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal auth request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.authURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, clierrors.WrapNetwork("authenticate", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		var body struct {
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&body)
		msg := body.Message
		if msg == "" {
			msg = body.Error
		}
		if msg == "" {
			msg = resp.Status
		}
		return nil, clierrors.InvalidCredentialsError(fmt.Errorf("%s", msg))
	}

	var tokenResp struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return nil, fmt.Errorf("failed to decode auth response: %w", err)
	}
	if tokenResp.AccessToken == "" {
		return nil, clierrors.InvalidCredentialsError(fmt.Errorf("no access token received"))
	}

	user, err := c.withToken(tokenResp.AccessToken).Viewer(ctx)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{AccessToken: tokenResp.AccessToken, User: *user}, nil
}

// AuthenticateAPIKey validates a personal API key by fetching the viewer
// profile with it. The key itself becomes the access token.
func (c *Client) AuthenticateAPIKey(ctx context.Context, apiKey string) (*AuthResponse, error) {
	user, err := c.withToken(apiKey).Viewer(ctx)
	if err != nil {
		if IsUnauthorized(err) {
			return nil, clierrors.InvalidCredentialsError(err)
		}
		return nil, err
	}
	return &AuthResponse{AccessToken: apiKey, User: *user}, nil
}

// withToken returns a client sharing this client's transport and endpoints
// but authenticating with a different token.
func (c *Client) withToken(token string) *Client {
	clone := *c
	clone.token = token
	return &clone
}
