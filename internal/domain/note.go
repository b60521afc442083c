package domain

import (
	"fmt"
	"strings"
	"time"
)

// Note is a user-authored note stored by the backend.
type Note struct {
	ID         string       `json:"_id"`
	Title      string       `json:"title"`
	Content    string       `json:"content"`
	Tags       []string     `json:"tags"`
	IsPublic   bool         `json:"isPublic"`
	UserID     string       `json:"userId"`
	CreatedAt  time.Time    `json:"createdAt"`
	UpdatedAt  time.Time    `json:"updatedAt"`
	SharedWith []SharedWith `json:"sharedWith,omitempty"`
}

// SharedWith is a grant embedded in a note.
type SharedWith struct {
	UserID         string         `json:"userId"`
	PermissionType PermissionType `json:"permissionType"`
}

// NoteDraft is the payload for creating or updating a note.
type NoteDraft struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Tags     []string `json:"tags"`
	IsPublic bool     `json:"isPublic"`
}

// NewNoteDraft trims its inputs and splits the comma separated tag list.
func NewNoteDraft(title, content, tags string, isPublic bool) NoteDraft {
	return NoteDraft{
		Title:    strings.TrimSpace(title),
		Content:  strings.TrimSpace(content),
		Tags:     ParseTags(tags),
		IsPublic: isPublic,
	}
}

// Validate requires a non-blank title and content.
func (d NoteDraft) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return ErrMissingTitle
	}
	if strings.TrimSpace(d.Content) == "" {
		return ErrMissingContent
	}
	return nil
}

// ParseTags splits a comma separated list, trimming and dropping empty entries.
func ParseTags(s string) []string {
	raw := strings.Split(s, ",")
	tags := make([]string, 0, len(raw))
	for _, tag := range raw {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// PermissionType is the level of access granted on a shared note.
type PermissionType string

const (
	PermissionView  PermissionType = "view"
	PermissionEdit  PermissionType = "edit"
	PermissionAdmin PermissionType = "admin"
)

// ParsePermissionType validates a permission level.
func ParsePermissionType(s string) (PermissionType, error) {
	switch p := PermissionType(strings.ToLower(strings.TrimSpace(s))); p {
	case PermissionView, PermissionEdit, PermissionAdmin:
		return p, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidPermission, s)
	}
}

// Permission is a grant on a note as listed by the backend.
type Permission struct {
	ID             string         `json:"_id"`
	UserID         string         `json:"userId"`
	Username       string         `json:"username"`
	PermissionType PermissionType `json:"permissionType"`
	CreatedAt      time.Time      `json:"createdAt"`
}

// User is the public identity returned by the user lookup.
type User struct {
	ID       string `json:"_id"`
	Username string `json:"username"`
}
