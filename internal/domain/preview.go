package domain

const (
	// DefaultPlaceholderURL is shown whenever no real preview can be resolved.
	DefaultPlaceholderURL = "https://media.istockphoto.com/id/814423752/photo/eye-of-model-with-colorful-art-make-up-close-up.jpg?s=612x612&w=0&k=20&c=l15OdMWjgCKycMMShP8UK94ELVlEGvt7GmB_esHWPYE="

	// TwitterFallbackIconURL replaces a tweet embed the oEmbed endpoint could not provide.
	TwitterFallbackIconURL = "https://abs.twimg.com/icons/apple-touch-icon-192x192.png"
)

// PreviewKind tells how a preview is rendered.
type PreviewKind string

const (
	PreviewImage PreviewKind = "image"
	PreviewEmbed PreviewKind = "embed"
)

// PreviewResult is the outcome of resolving a link.
// Exactly one of Src (image) or HTML (embed) is set.
type PreviewResult struct {
	Kind     PreviewKind `json:"kind"`
	Src      string      `json:"src,omitempty"`
	HTML     string      `json:"html,omitempty"`
	Text     string      `json:"text,omitempty"`
	Category Category    `json:"category"`

	// Fallback is set when the value is a substituted default
	// rather than a genuine resolution. Fallbacks are never cached.
	Fallback bool `json:"fallback"`
}

// ImagePreview builds an image result.
func ImagePreview(category Category, src string) PreviewResult {
	return PreviewResult{Kind: PreviewImage, Src: src, Category: category}
}

// EmbedPreview builds an embed result carrying third-party markup.
func EmbedPreview(category Category, html, text string) PreviewResult {
	return PreviewResult{Kind: PreviewEmbed, HTML: html, Text: text, Category: category}
}

// PlaceholderPreview builds the fallback result shown when nothing resolves.
func PlaceholderPreview(category Category, placeholder string) PreviewResult {
	if placeholder == "" {
		placeholder = DefaultPlaceholderURL
	}
	return PreviewResult{Kind: PreviewImage, Src: placeholder, Category: category, Fallback: true}
}

// IsImage reports whether the preview renders as an image.
func (p PreviewResult) IsImage() bool { return p.Kind == PreviewImage }

// IsEmbed reports whether the preview renders as embedded markup.
func (p PreviewResult) IsEmbed() bool { return p.Kind == PreviewEmbed }
