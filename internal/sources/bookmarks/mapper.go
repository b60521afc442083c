package bookmarks

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/url"
	"sort"
	"strings"
)

// ErrNoLinks is returned when a bookmark file holds no usable link.
var ErrNoLinks = errors.New("no valid bookmarks found in config")

// Link is one bookmark to warm.
type Link struct {
	ID    string
	Name  string
	Group string
	URL   string
	Tags  []string
}

// Links flattens config into unique links, ordered by group then name.
// Entries without an absolute http(s) href are skipped. Duplicate URLs keep
// their first occurrence.
func Links(config Config) ([]Link, error) {
	seen := make(map[string]struct{})
	links := make([]Link, 0)

	for _, group := range config {
		for groupName, named := range group {
			for _, bookmark := range named {
				for name, entries := range bookmark {
					if len(entries) == 0 {
						continue
					}
					entry := entries[0]

					href := strings.TrimSpace(entry.Href)
					if !isWebURL(href) {
						continue
					}

					id := LinkID(href)
					if _, dup := seen[id]; dup {
						continue
					}
					seen[id] = struct{}{}

					if entry.Abbr != "" {
						name = entry.Abbr
					}
					links = append(links, Link{
						ID:    id,
						Name:  name,
						Group: groupName,
						URL:   href,
						Tags:  entry.Tags,
					})
				}
			}
		}
	}

	if len(links) == 0 {
		return nil, ErrNoLinks
	}

	sort.SliceStable(links, func(i, j int) bool {
		if links[i].Group != links[j].Group {
			return links[i].Group < links[j].Group
		}
		return links[i].Name < links[j].Name
	})
	return links, nil
}

// LinkID creates a stable ID from a URL: the first 16 hex characters of its SHA-256.
func LinkID(href string) string {
	hash := sha256.Sum256([]byte(href))
	return hex.EncodeToString(hash[:])[:16]
}

func isWebURL(href string) bool {
	u, err := url.Parse(href)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
