package card

import (
	"html"

	"github.com/MrSnakeDoc/vrain/internal/domain"
)

// ViewKind selects how a card renders.
type ViewKind string

const (
	ViewIdle      ViewKind = "idle"
	ViewSpinner   ViewKind = "spinner"
	ViewMessage   ViewKind = "message"
	ViewThumbnail ViewKind = "thumbnail"
	ViewEmbed     ViewKind = "embed"
)

// View is the render model of a card.
type View struct {
	Kind    ViewKind             `json:"kind"`
	Status  domain.PreviewStatus `json:"status"`
	ID      string               `json:"id"`
	Title   string               `json:"title"`
	Summary string               `json:"summary"`
	Tags    []string             `json:"tags,omitempty"`
	Type    domain.ContentType   `json:"type,omitempty"`
	Link    string               `json:"link"`

	// ─────────────────────────────────────────────
	// Preview body, depending on Kind
	// ─────────────────────────────────────────────

	Message  string          `json:"message,omitempty"`
	ImageSrc string          `json:"image_src,omitempty"`
	Target   string          `json:"target,omitempty"`
	HTML     string          `json:"html,omitempty"`
	Frame    string          `json:"frame,omitempty"`
	Text     string          `json:"text,omitempty"`
	Category domain.Category `json:"category,omitempty"`
	Fallback bool            `json:"fallback,omitempty"`
}

// View returns the current render model.
func (c *Card) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := View{
		Status:  c.state.Status,
		ID:      c.item.ID,
		Title:   c.item.DisplayTitle(),
		Summary: c.item.Summary(),
		Tags:    c.item.Tags,
		Type:    c.item.Type,
		Link:    c.item.Link,
	}

	switch c.state.Status {
	case domain.StatusLoading:
		v.Kind = ViewSpinner
	case domain.StatusError:
		v.Kind = ViewMessage
		v.Message = c.state.ErrorMessage
	case domain.StatusReady:
		p := c.state.Content
		v.Category = p.Category
		v.Fallback = p.Fallback
		if p.IsEmbed() {
			v.Kind = ViewEmbed
			v.HTML = p.HTML
			v.Frame = SandboxedFrame(p.HTML)
			v.Text = p.Text
		} else {
			v.Kind = ViewThumbnail
			v.ImageSrc = p.Src
			v.Target = c.item.Link
		}
	default:
		v.Kind = ViewIdle
	}
	return v
}

// SandboxedFrame wraps untrusted embed markup in an iframe that runs it in an
// opaque origin. Renderers should use it instead of injecting HTML directly.
func SandboxedFrame(markup string) string {
	return `<iframe sandbox="allow-scripts allow-popups" referrerpolicy="no-referrer" loading="lazy" srcdoc="` +
		html.EscapeString(markup) + `"></iframe>`
}
