package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/MrSnakeDoc/vrain/internal/domain"
)

// ListContent returns the items saved by the authenticated user.
func (c *Client) ListContent(ctx context.Context) ([]domain.SavedItem, error) {
	var out struct {
		Content []domain.SavedItem `json:"Content"`
	}
	err := c.do(ctx, request{method: http.MethodGet, path: "/api/v1/content", auth: true, out: &out})
	if err != nil {
		return nil, fmt.Errorf("failed to list content: %w", err)
	}
	return out.Content, nil
}

// AddContent saves a new item. Title and link are validated locally first.
func (c *Client) AddContent(ctx context.Context, item domain.NewContent) error {
	if item.Type == "" {
		item.Type = domain.ContentImage
	}
	if err := item.Validate(); err != nil {
		return err
	}

	err := c.do(ctx, request{method: http.MethodPost, path: "/api/v1/content", auth: true, body: item})
	if err != nil {
		return fmt.Errorf("failed to add content: %w", err)
	}
	return nil
}

// DeleteContent removes a saved item.
func (c *Client) DeleteContent(ctx context.Context, id string) error {
	err := c.do(ctx, request{
		method: http.MethodDelete,
		path:   "/api/v1/delete/" + url.PathEscape(id),
		auth:   true,
	})
	if err != nil {
		return fmt.Errorf("failed to delete content: %w", err)
	}
	return nil
}

// ShareContent publishes a saved item and returns the share hash.
func (c *Client) ShareContent(ctx context.Context, id string) (domain.ShareResult, error) {
	var out struct {
		Message string              `json:"message"`
		Data    *domain.ShareResult `json:"data"`
	}
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/api/v1/vrain/share",
		auth:   true,
		body: struct {
			ContentID string `json:"contentId"`
			Status    bool   `json:"status"`
		}{ContentID: id, Status: true},
		out: &out,
	})
	if err != nil {
		return domain.ShareResult{}, fmt.Errorf("failed to share content: %w", err)
	}

	result := domain.ShareResult{ContentID: id}
	if out.Data != nil {
		result = *out.Data
	}
	result.Message = out.Message
	return result, nil
}

// ListSharedLinks returns every public share of the authenticated user.
func (c *Client) ListSharedLinks(ctx context.Context) ([]domain.SharedLink, error) {
	var out struct {
		Message string              `json:"message"`
		Data    []domain.SharedLink `json:"data"`
	}
	err := c.do(ctx, request{method: http.MethodGet, path: "/api/v1/all-links", auth: true, out: &out})
	if err != nil {
		return nil, fmt.Errorf("failed to list shared links: %w", err)
	}
	return out.Data, nil
}

// ShareURL returns the public URL for a share hash on this backend.
func (c *Client) ShareURL(hash string) string {
	return domain.ShareURL(c.base, hash)
}
