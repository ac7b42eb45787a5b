package api

import (
	"context"

	"github.com/nhle/tavern/internal/model"
)

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges a username and password for a credential.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*model.AuthResult, error) {
	var res model.AuthResult
	if err := c.Post(ctx, "/auth/login", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Register creates an account and returns its first credential.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*model.AuthResult, error) {
	var res model.AuthResult
	if err := c.Post(ctx, "/auth/register", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Logout tells the server the session is over.
func (c *Client) Logout(ctx context.Context) error {
	return c.Post(ctx, "/auth/logout", nil, nil)
}
