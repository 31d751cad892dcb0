package survey

import (
	"context"
	"net/http"

	"github.com/formlane/formlane/internal/api"
)

// Account endpoints. Session issuance itself is owned by the API; the
// client only consumes it — the session cookie lands in the jar and is
// attached automatically from then on.

// Credentials is the login/register payload.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, creds Credentials) error {
	resp, err := c.api.Do(ctx, api.Request{
		Method:        http.MethodPost,
		Path:          "/auth/register",
		Body:          creds,
		NoCredentials: true,
	})
	if err != nil {
		return err
	}
	return resp.Err()
}

// Login opens a session; the server responds with a session cookie.
func (c *Client) Login(ctx context.Context, creds Credentials) error {
	resp, err := c.api.Do(ctx, api.Request{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Body:   creds,
	})
	if err != nil {
		return err
	}
	return resp.Err()
}

// Profile fetches the authenticated user's profile.
func (c *Client) Profile(ctx context.Context) (*Profile, error) {
	resp, err := c.api.Do(ctx, api.Request{Method: http.MethodGet, Path: "/profile"})
	if err != nil {
		return nil, err
	}
	var out Profile
	if err := resp.Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProfile replaces the user's profile fields.
func (c *Client) UpdateProfile(ctx context.Context, profile Profile) error {
	resp, err := c.api.Do(ctx, api.Request{
		Method: http.MethodPut,
		Path:   "/profile",
		Body:   profile,
	})
	if err != nil {
		return err
	}
	return resp.Err()
}
