package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestSavedItemDisplayTitle(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{title: "Go blog", want: "Go blog"},
		{title: "", want: "Untitled"},
		{title: "   ", want: "Untitled"},
	}

	for _, tt := range tests {
		item := SavedItem{Title: tt.title}
		if got := item.DisplayTitle(); got != tt.want {
			t.Errorf("DisplayTitle(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
}

func TestSavedItemSummary(t *testing.T) {
	twenty := strings.TrimSpace(strings.Repeat("word ", 20))
	tests := []struct {
		name        string
		description string
		want        string
	}{
		{name: "empty", description: "", want: "No description available."},
		{name: "blank", description: "  \n ", want: "No description available."},
		{name: "short", description: "a short note", want: "a short note"},
		{name: "exactly twenty words", description: twenty, want: twenty},
		{name: "long", description: twenty + " overflow words", want: twenty + "..."},
		{name: "collapses whitespace", description: "a   b\tc", want: "a b c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := SavedItem{Description: tt.description}
			if got := item.Summary(); got != tt.want {
				t.Errorf("Summary() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseContentType(t *testing.T) {
	tests := []struct {
		in      string
		want    ContentType
		wantErr bool
	}{
		{in: "", want: ContentImage},
		{in: "video", want: ContentVideo},
		{in: " Article ", want: ContentArticle},
		{in: "audio", want: ContentAudio},
		{in: "podcast", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseContentType(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidContentType) {
				t.Errorf("ParseContentType(%q) error = %v, want ErrInvalidContentType", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseContentType(%q) unexpected error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseContentType(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewContentValidate(t *testing.T) {
	tests := []struct {
		name    string
		content NewContent
		wantErr error
	}{
		{name: "valid", content: NewContent{Title: "t", Link: "https://go.dev", Type: ContentArticle}},
		{name: "valid default type", content: NewContent{Title: "t", Link: "https://go.dev"}},
		{name: "missing title", content: NewContent{Link: "https://go.dev"}, wantErr: ErrMissingTitle},
		{name: "missing link", content: NewContent{Title: "t"}, wantErr: ErrMissingLink},
		{name: "bad type", content: NewContent{Title: "t", Link: "l", Type: "gif"}, wantErr: ErrInvalidContentType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.content.Validate()
			if tt.wantErr == nil && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
