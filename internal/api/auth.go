package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var errEmptyCredentials = errors.New("username and password are required")

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Fullname string `json:"fullname,omitempty"`
}

// SignIn exchanges credentials for a bearer token and stores it in the session.
func (c *Client) SignIn(ctx context.Context, username, password string) error {
	if strings.TrimSpace(username) == "" || password == "" {
		return errEmptyCredentials
	}

	var out struct {
		Token string `json:"token"`
	}
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/api/v1/signin",
		body:   credentials{Username: username, Password: password},
		out:    &out,
	})
	if err != nil {
		return fmt.Errorf("failed to sign in: %w", err)
	}
	if out.Token == "" {
		return errors.New("failed to sign in: backend returned no token")
	}

	return c.session.Set(ctx, out.Token)
}

// SignUp registers a new account. It does not log in.
func (c *Client) SignUp(ctx context.Context, username, password, fullname string) error {
	if strings.TrimSpace(username) == "" || password == "" {
		return errEmptyCredentials
	}

	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/api/v1/signup",
		body:   credentials{Username: username, Password: password, Fullname: fullname},
	})
	if err != nil {
		return fmt.Errorf("failed to sign up: %w", err)
	}
	return nil
}

// Profile returns the full name of the authenticated user.
func (c *Client) Profile(ctx context.Context) (string, error) {
	var out struct {
		Fullname string `json:"fullname"`
	}
	err := c.do(ctx, request{method: http.MethodGet, path: "/api/v1/user", auth: true, out: &out})
	if err != nil {
		return "", fmt.Errorf("failed to fetch profile: %w", err)
	}
	return out.Fullname, nil
}

// SignOut forgets the session token. The backend keeps no server-side session.
func (c *Client) SignOut(ctx context.Context) error {
	return c.session.Clear(ctx)
}
