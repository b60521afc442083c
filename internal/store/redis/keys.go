package redis

import (
	"crypto/sha256"
	"encoding/hex"
)

const (
	// KeyPrefixPreview is the prefix for resolved preview keys
	KeyPrefixPreview = "vrain:preview:"
	// KeyPrefixHits is the prefix for per-preview hit counters
	KeyPrefixHits = "vrain:preview:hits:"
	// KeyAllPreviews is the key for the set of all preview IDs
	KeyAllPreviews = "vrain:previews:all"
)

// PreviewID returns the stable identifier of a link: the first 16 hex
// characters of its SHA-256.
func PreviewID(link string) string {
	sum := sha256.Sum256([]byte(link))
	return hex.EncodeToString(sum[:])[:16]
}

// PreviewKey returns the Redis key for a preview by ID
func PreviewKey(id string) string {
	return KeyPrefixPreview + id
}

// HitsKey returns the Redis key counting cache hits for a preview
func HitsKey(id string) string {
	return KeyPrefixHits + id
}

// AllPreviewsKey returns the key for the set of all preview IDs
func AllPreviewsKey() string {
	return KeyAllPreviews
}
