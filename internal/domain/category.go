package domain

import "strings"

// Category is the preview strategy selected for a link.
type Category string

const (
	CategoryYouTube Category = "youtube"
	CategoryTwitter Category = "twitter"
	CategoryGeneric Category = "generic"
)

// Classify maps a link to its preview category.
// Rules are evaluated in order and the first match wins:
// twitter.com / x.com, then youtube.com / youtu.be, else generic.
func Classify(link string) Category {
	switch {
	case strings.Contains(link, "twitter.com") || strings.Contains(link, "x.com"):
		return CategoryTwitter
	case strings.Contains(link, "youtube.com") || strings.Contains(link, "youtu.be"):
		return CategoryYouTube
	default:
		return CategoryGeneric
	}
}

// ExtractYouTubeID returns the video identifier of a YouTube link.
// The "v=" query value wins over the youtu.be path segment.
func ExtractYouTubeID(link string) (string, bool) {
	if _, after, found := strings.Cut(link, "v="); found {
		id, _, _ := strings.Cut(after, "&")
		if id != "" {
			return id, true
		}
	}

	if _, after, found := strings.Cut(link, "youtu.be/"); found && after != "" {
		return after, true
	}

	return "", false
}

// YouTubeThumbnailURL builds the high-quality thumbnail URL for a video ID.
func YouTubeThumbnailURL(id string) string {
	return "https://img.youtube.com/vi/" + id + "/hqdefault.jpg"
}
