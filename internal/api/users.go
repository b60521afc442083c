package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/MrSnakeDoc/vrain/internal/domain"
)

// LookupUser resolves a username to its public identity.
func (c *Client) LookupUser(ctx context.Context, username string) (domain.User, error) {
	var out struct {
		User domain.User `json:"user"`
	}
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/api/v1/users/" + url.PathEscape(username),
		auth:   true,
		out:    &out,
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("failed to look up user %s: %w", username, err)
	}
	return out.User, nil
}
