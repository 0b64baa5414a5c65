package linear

import (
	"context"
	"time"
)

// User represents a Linear user profile.
type User struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName,omitempty"`
	AvatarURL   string    `json:"avatarUrl,omitempty"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

const viewerQuery = `
query Me {
    viewer {
        id
        name
        email
        displayName
        avatarUrl
        active
        createdAt
        updatedAt
    }
}`

// Viewer returns the authenticated user's profile.
func (c *Client) Viewer(ctx context.Context) (*User, error) {
	var result struct {
		Viewer User `json:"viewer"`
	}
	if err := c.execute(ctx, viewerQuery, nil, &result); err != nil {
		return nil, err
	}
	return &result.Viewer, nil
}

// Validate checks whether the client's token is still accepted by the API.
// Returns false with a nil error when the token was rejected, and a non-nil
// error for anything else that prevented the check.
func (c *Client) Validate(ctx context.Context) (bool, error) {
	_, err := c.Viewer(ctx)
	if err == nil {
		return true, nil
	}
	if IsUnauthorized(err) {
		return false, nil
	}
	return false, err
}
