package domain

import (
	"encoding/json"
	"testing"
)

func TestPreviewStatusString(t *testing.T) {
	tests := []struct {
		status   PreviewStatus
		want     string
		terminal bool
	}{
		{status: StatusIdle, want: "idle"},
		{status: StatusLoading, want: "loading"},
		{status: StatusReady, want: "ready", terminal: true},
		{status: StatusError, want: "error", terminal: true},
		{status: PreviewStatus(42), want: "status(42)"},
	}

	for _, tt := range tests {
		if got := tt.status.String(); got != tt.want {
			t.Errorf("String() = %v, want %v", got, tt.want)
		}
		if got := tt.status.Terminal(); got != tt.terminal {
			t.Errorf("%v.Terminal() = %v, want %v", tt.status, got, tt.terminal)
		}
	}
}

func TestPreviewStateJSON(t *testing.T) {
	state := PreviewState{
		Status:  StatusReady,
		Content: ImagePreview(CategoryYouTube, YouTubeThumbnailURL("abc")),
	}

	data, err := json.Marshal(state)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if decoded["status"] != "ready" {
		t.Errorf("status = %v, want ready", decoded["status"])
	}
}

func TestPlaceholderPreview(t *testing.T) {
	p := PlaceholderPreview(CategoryGeneric, "")
	if p.Src != DefaultPlaceholderURL {
		t.Errorf("Src = %v, want default placeholder", p.Src)
	}
	if !p.Fallback || !p.IsImage() {
		t.Errorf("PlaceholderPreview() = %+v, want fallback image", p)
	}

	custom := PlaceholderPreview(CategoryYouTube, "https://cdn.example/p.png")
	if custom.Src != "https://cdn.example/p.png" {
		t.Errorf("Src = %v, want custom placeholder", custom.Src)
	}
}
