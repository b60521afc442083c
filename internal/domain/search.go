package domain

import (
	"sort"
	"strings"
)

const (
	// Scoring weights
	ScoreExactMatch     = 100.0
	ScorePrefixMatch    = 75.0
	ScoreSubstringMatch = 50.0
	ScoreFuzzyMatch     = 25.0

	// Position bonus (earlier is better)
	ScorePositionBonus = 10.0

	// Tags only rank below any title match of the same kind
	tagWeight = 0.5
)

// ScoreText calculates how well text matches a query string. Zero means no match.
func ScoreText(queryStr, text string) float64 {
	queryStr = strings.ToLower(strings.TrimSpace(queryStr))
	text = strings.ToLower(strings.TrimSpace(text))
	if queryStr == "" || text == "" {
		return 0.0
	}

	// Exact match (highest score)
	if queryStr == text {
		return ScoreExactMatch
	}

	// Prefix match
	if strings.HasPrefix(text, queryStr) {
		return ScorePrefixMatch
	}

	// Substring match
	if index := strings.Index(text, queryStr); index >= 0 {
		// Earlier substring matches get higher score
		substringBonus := ScorePositionBonus * (1.0 - float64(index)/float64(len(text)))
		return ScoreSubstringMatch + substringBonus
	}

	// Word match: every query word appears somewhere in text
	queryWords := strings.Fields(queryStr)
	if len(queryWords) > 1 {
		allMatch := true
		for _, word := range queryWords {
			if !strings.Contains(text, word) {
				allMatch = false
				break
			}
		}
		if allMatch {
			return ScoreFuzzyMatch
		}
	}

	// Character similarity
	similarity := calculateSimilarity(queryStr, text)
	if similarity > 0.8 && len(queryStr) > 2 {
		return ScoreFuzzyMatch * similarity
	}

	return 0.0
}

// calculateSimilarity returns the share of s1's characters present in s2
func calculateSimilarity(s1, s2 string) float64 {
	if s1 == "" || s2 == "" {
		return 0.0
	}

	matches, total := 0, 0
	for _, c := range s1 {
		total++
		if strings.ContainsRune(s2, c) {
			matches++
		}
	}

	return float64(matches) / float64(total)
}

func scoreFields(queryStr, title string, tags []string) float64 {
	best := ScoreText(queryStr, title)
	for _, tag := range tags {
		if s := ScoreText(queryStr, tag) * tagWeight; s > best {
			best = s
		}
	}
	return best
}

// rank keeps the indexes of matching elements, best score first. Ties keep
// their input order.
func rank(n int, score func(i int) float64) []int {
	type candidate struct {
		index int
		score float64
	}
	candidates := make([]candidate, 0, n)
	for i := 0; i < n; i++ {
		if s := score(i); s > 0 {
			candidates = append(candidates, candidate{index: i, score: s})
		}
	}
	sort.SliceStable(candidates, func(a, b int) bool {
		return candidates[a].score > candidates[b].score
	})

	out := make([]int, len(candidates))
	for i, c := range candidates {
		out[i] = c.index
	}
	return out
}

// SearchNotes returns the notes whose title or tags match queryStr, best
// match first. An empty query returns notes unchanged.
func SearchNotes(queryStr string, notes []Note) []Note {
	if strings.TrimSpace(queryStr) == "" {
		return notes
	}
	idx := rank(len(notes), func(i int) float64 {
		return scoreFields(queryStr, notes[i].Title, notes[i].Tags)
	})
	out := make([]Note, len(idx))
	for i, j := range idx {
		out[i] = notes[j]
	}
	return out
}

// SearchItems returns the saved items whose title or tags match queryStr,
// best match first. An empty query returns items unchanged.
func SearchItems(queryStr string, items []SavedItem) []SavedItem {
	if strings.TrimSpace(queryStr) == "" {
		return items
	}
	idx := rank(len(items), func(i int) float64 {
		return scoreFields(queryStr, items[i].Title, items[i].Tags)
	})
	out := make([]SavedItem, len(idx))
	for i, j := range idx {
		out[i] = items[j]
	}
	return out
}
