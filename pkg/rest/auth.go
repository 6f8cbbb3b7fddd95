package rest

import (
	"context"
	"net/http"

	"github.com/tkbshop/storefront/pkg/types"
)

// Login exchanges credentials for a token and profile.
func (c *Client) Login(ctx context.Context, creds types.Credentials) (*types.TokenResponse, error) {
	var out types.TokenResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, creds, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates an account and signs it in.
func (c *Client) Register(ctx context.Context, input types.RegisterInput) (*types.TokenResponse, error) {
	var out types.TokenResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", nil, input, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Profile fetches the server's current view of the signed-in user.
func (c *Client) Profile(ctx context.Context) (*types.User, error) {
	var out types.User
	if err := c.do(ctx, http.MethodGet, "/auth/profile", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProfile applies a partial profile mutation and returns the
// server's merged view.
func (c *Client) UpdateProfile(ctx context.Context, updates types.ProfileUpdate) (*types.User, error) {
	var out types.User
	if err := c.do(ctx, http.MethodPut, "/auth/profile", nil, updates, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
