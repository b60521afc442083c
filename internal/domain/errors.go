package domain

import "errors"

var (
	// ErrEmptyLink is a validation failure: a card or resolution without a link.
	ErrEmptyLink = errors.New("no link provided")

	// ErrNotAuthenticated is returned by any action needing a bearer token when none is set.
	ErrNotAuthenticated = errors.New("not authenticated")

	ErrInvalidYouTubeURL  = errors.New("invalid YouTube URL")
	ErrMissingTitle       = errors.New("title is required")
	ErrMissingLink        = errors.New("link is required")
	ErrMissingContent     = errors.New("content is required")
	ErrInvalidPermission  = errors.New("invalid permission type")
	ErrInvalidContentType = errors.New("invalid content type")
)
