package domain

import "fmt"

// PreviewStatus is the lifecycle position of a card's preview.
type PreviewStatus int

const (
	StatusIdle PreviewStatus = iota
	StatusLoading
	StatusReady
	StatusError
)

func (s PreviewStatus) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusError:
		return "error"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// MarshalText renders the status by name in JSON payloads.
func (s PreviewStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Terminal reports whether a resolution has settled.
func (s PreviewStatus) Terminal() bool {
	return s == StatusReady || s == StatusError
}

// PreviewState is the transient, per-card preview state.
type PreviewState struct {
	Status       PreviewStatus `json:"status"`
	Content      PreviewResult `json:"content"`
	ErrorMessage string        `json:"error,omitempty"`
}
