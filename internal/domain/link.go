package domain

import (
	"strings"
	"time"
)

// SharedLink is a public share created for a saved item.
type SharedLink struct {
	ID        string    `json:"_id"`
	Title     string    `json:"title"`
	Link      string    `json:"link"`
	Hash      string    `json:"hash"`
	Status    bool      `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ShareURL returns the public URL of a share hash on the given backend.
func ShareURL(backend, hash string) string {
	return strings.TrimRight(backend, "/") + "/api/v1/vrain/" + hash
}

// ShareResult is the backend reply to a share request.
type ShareResult struct {
	Message   string `json:"message"`
	Hash      string `json:"hash,omitempty"`
	ContentID string `json:"contentId,omitempty"`
	Status    bool   `json:"status,omitempty"`
	UserID    string `json:"userId,omitempty"`
}
