package domain

import (
	"fmt"
	"strings"
)

const (
	summaryWordLimit   = 20
	untitled           = "Untitled"
	missingDescription = "No description available."
)

// SavedItem is one bookmarked piece of content owned by the authenticated user.
// It is created through the add-content API and deleted through the delete API;
// this client never mutates it in place.
type SavedItem struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// ID is the backend identifier.
	ID string `json:"_id"`

	// Link is the bookmarked URL. It drives preview resolution.
	Link string `json:"link"`

	// ─────────────────────────────
	// Presentation
	// ─────────────────────────────

	Title       string      `json:"title"`
	Description string      `json:"description"`
	Tags        []string    `json:"tags,omitempty"`
	Image       string      `json:"image,omitempty"`
	Type        ContentType `json:"type,omitempty"`
}

// DisplayTitle returns the title, or "Untitled" when blank.
func (s SavedItem) DisplayTitle() string {
	if strings.TrimSpace(s.Title) == "" {
		return untitled
	}
	return s.Title
}

// Summary truncates the description to its first 20 words.
// An ellipsis is appended only when words were dropped.
func (s SavedItem) Summary() string {
	words := strings.Fields(s.Description)
	if len(words) == 0 {
		return missingDescription
	}
	if len(words) <= summaryWordLimit {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:summaryWordLimit], " ") + "..."
}

// ContentType is the kind of content declared when saving an item.
type ContentType string

const (
	ContentImage   ContentType = "image"
	ContentVideo   ContentType = "video"
	ContentArticle ContentType = "article"
	ContentAudio   ContentType = "audio"
)

// ParseContentType validates a content type. Empty input defaults to image.
func ParseContentType(s string) (ContentType, error) {
	switch ct := ContentType(strings.ToLower(strings.TrimSpace(s))); ct {
	case "":
		return ContentImage, nil
	case ContentImage, ContentVideo, ContentArticle, ContentAudio:
		return ct, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidContentType, s)
	}
}

// NewContent is the payload of the add-content API.
type NewContent struct {
	Title       string      `json:"title"`
	Link        string      `json:"link"`
	Description string      `json:"description"`
	Type        ContentType `json:"type"`
}

// Validate checks the fields the backend requires.
func (c NewContent) Validate() error {
	if strings.TrimSpace(c.Title) == "" {
		return ErrMissingTitle
	}
	if strings.TrimSpace(c.Link) == "" {
		return ErrMissingLink
	}
	if _, err := ParseContentType(string(c.Type)); err != nil {
		return err
	}
	return nil
}
