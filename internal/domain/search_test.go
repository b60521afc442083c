package domain

import "testing"

func TestScoreText(t *testing.T) {
	tests := []struct {
		name           string
		queryStr       string
		text           string
		expectPositive bool
	}{
		{
			name:           "exact match",
			queryStr:       "golang",
			text:           "GoLang",
			expectPositive: true,
		},
		{
			name:           "prefix match",
			queryStr:       "go",
			text:           "Go release notes",
			expectPositive: true,
		},
		{
			name:           "substring match",
			queryStr:       "release",
			text:           "Go release notes",
			expectPositive: true,
		},
		{
			name:           "no match",
			queryStr:       "xyz",
			text:           "Go release notes",
			expectPositive: false,
		},
		{
			name:           "multi-word match",
			queryStr:       "notes go",
			text:           "Go release notes",
			expectPositive: true,
		},
		{
			name:           "empty query",
			queryStr:       "  ",
			text:           "Go release notes",
			expectPositive: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := ScoreText(tt.queryStr, tt.text)

			if tt.expectPositive && score <= 0 {
				t.Errorf("ScoreText() = %f, want positive", score)
			}
			if !tt.expectPositive && score > 0 {
				t.Errorf("ScoreText() = %f, want 0", score)
			}
		})
	}
}

func TestScoreTextOrdering(t *testing.T) {
	exact := ScoreText("rust", "Rust")
	prefix := ScoreText("rust", "Rust book")
	substring := ScoreText("rust", "Learning rust")

	if !(exact > prefix && prefix > substring) {
		t.Errorf("scores exact=%f prefix=%f substring=%f, want strictly decreasing", exact, prefix, substring)
	}
}

func TestSearchNotes(t *testing.T) {
	notes := []Note{
		{ID: "1", Title: "Shopping list"},
		{ID: "2", Title: "Go tips", Tags: []string{"golang"}},
		{ID: "3", Title: "Weekly review", Tags: []string{"go"}},
		{ID: "4", Title: "go"},
	}

	got := SearchNotes("go", notes)
	want := []string{"4", "2", "3"}
	if len(got) != len(want) {
		t.Fatalf("SearchNotes() returned %d notes, want %d", len(got), len(want))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("SearchNotes()[%d].ID = %s, want %s", i, got[i].ID, id)
		}
	}

	if all := SearchNotes("", notes); len(all) != len(notes) {
		t.Errorf("SearchNotes(\"\") returned %d notes, want %d", len(all), len(notes))
	}
}

func TestSearchItems(t *testing.T) {
	items := []SavedItem{
		{ID: "a", Title: "Never gonna give you up"},
		{ID: "b", Title: "Go blog"},
	}

	got := SearchItems("blog", items)
	if len(got) != 1 || got[0].ID != "b" {
		t.Errorf("SearchItems() = %+v, want only b", got)
	}
}
