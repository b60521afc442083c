package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/MrSnakeDoc/vrain/internal/domain"
)

type noteEnvelope struct {
	Note *domain.Note `json:"note"`
}

func notePath(id string, rest ...string) string {
	p := "/api/v1/notes/" + url.PathEscape(id)
	for _, r := range rest {
		p += "/" + url.PathEscape(r)
	}
	return p
}

// ListNotes returns the notes visible to the authenticated user.
func (c *Client) ListNotes(ctx context.Context) ([]domain.Note, error) {
	var out struct {
		Notes []domain.Note `json:"notes"`
	}
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/v1/notes", auth: true, out: &out}); err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	return out.Notes, nil
}

// GetNote fetches one note.
func (c *Client) GetNote(ctx context.Context, id string) (*domain.Note, error) {
	var out noteEnvelope
	if err := c.do(ctx, request{method: http.MethodGet, path: notePath(id), auth: true, out: &out}); err != nil {
		return nil, fmt.Errorf("failed to get note: %w", err)
	}
	if out.Note == nil {
		return nil, fmt.Errorf("failed to get note: empty response for %s", id)
	}
	return out.Note, nil
}

// CreateNote stores a new note. The returned note is nil when the backend
// does not echo it.
func (c *Client) CreateNote(ctx context.Context, draft domain.NoteDraft) (*domain.Note, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	var out noteEnvelope
	if err := c.do(ctx, request{method: http.MethodPost, path: "/api/v1/notes", auth: true, body: draft, out: &out}); err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}
	return out.Note, nil
}

// UpdateNote replaces a note's fields.
func (c *Client) UpdateNote(ctx context.Context, id string, draft domain.NoteDraft) (*domain.Note, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	var out noteEnvelope
	if err := c.do(ctx, request{method: http.MethodPut, path: notePath(id), auth: true, body: draft, out: &out}); err != nil {
		return nil, fmt.Errorf("failed to update note: %w", err)
	}
	return out.Note, nil
}

// SetNoteVisibility toggles whether a note is public.
func (c *Client) SetNoteVisibility(ctx context.Context, id string, public bool) (*domain.Note, error) {
	var out noteEnvelope
	err := c.do(ctx, request{
		method: http.MethodPatch,
		path:   notePath(id),
		auth:   true,
		body: struct {
			IsPublic bool `json:"isPublic"`
		}{IsPublic: public},
		out: &out,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to change note visibility: %w", err)
	}
	return out.Note, nil
}

// DeleteNote removes a note.
func (c *Client) DeleteNote(ctx context.Context, id string) error {
	if err := c.do(ctx, request{method: http.MethodDelete, path: notePath(id), auth: true}); err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	return nil
}

// ShareNote grants a user access to a note.
func (c *Client) ShareNote(ctx context.Context, noteID, userID string, perm domain.PermissionType) error {
	if _, err := domain.ParsePermissionType(string(perm)); err != nil {
		return err
	}
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   notePath(noteID, "share"),
		auth:   true,
		body: struct {
			UserID         string                `json:"userId"`
			PermissionType domain.PermissionType `json:"permissionType"`
		}{UserID: userID, PermissionType: perm},
	})
	if err != nil {
		return fmt.Errorf("failed to share note: %w", err)
	}
	return nil
}

// ListPermissions returns the grants on a note.
func (c *Client) ListPermissions(ctx context.Context, noteID string) ([]domain.Permission, error) {
	var out struct {
		Permissions []domain.Permission `json:"permissions"`
	}
	if err := c.do(ctx, request{method: http.MethodGet, path: notePath(noteID, "permissions"), auth: true, out: &out}); err != nil {
		return nil, fmt.Errorf("failed to list permissions: %w", err)
	}
	return out.Permissions, nil
}

// RevokePermission removes one grant from a note.
func (c *Client) RevokePermission(ctx context.Context, noteID, permissionID string) error {
	err := c.do(ctx, request{method: http.MethodDelete, path: notePath(noteID, "permissions", permissionID), auth: true})
	if err != nil {
		return fmt.Errorf("failed to revoke permission: %w", err)
	}
	return nil
}
