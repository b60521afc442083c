package index

import (
	"sort"
	"sync"
	"time"

	"github.com/MrSnakeDoc/vrain/internal/domain"
)

// Entry is a warmed bookmark and its last resolved preview.
type Entry struct {
	ID       string               `json:"id"`
	Name     string               `json:"name"`
	Group    string               `json:"group"`
	URL      string               `json:"url"`
	Preview  domain.PreviewResult `json:"preview"`
	WarmedAt time.Time            `json:"warmed_at"`

	// Removed is set once the link disappears from the bookmark file.
	// UpdatedAt then records when.
	Removed   bool      `json:"removed"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Run describes one warm pass.
type Run struct {
	At        time.Time     `json:"at"`
	Duration  time.Duration `json:"duration"`
	Links     int           `json:"links"`
	Fallbacks int           `json:"fallbacks"`
	Error     string        `json:"error,omitempty"`
}

// Summary is the warm state reported on /infra.
type Summary struct {
	Total      int                     `json:"total"`
	Active     int                     `json:"active"`
	Removed    int                     `json:"removed"`
	Fallbacks  int                     `json:"fallbacks"`
	ByCategory map[domain.Category]int `json:"by_category"`
	LastRun    *Run                    `json:"last_run,omitempty"`
}

// MemoryIndex holds the warmed bookmarks in memory
type MemoryIndex struct {
	mu      sync.RWMutex
	entries map[string]*Entry // ID -> Entry
	lastRun *Run
}

// NewMemoryIndex creates a new memory index
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{
		entries: make(map[string]*Entry),
	}
}

// Update replaces all entries in the index
func (idx *MemoryIndex) Update(entries []*Entry) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.entries = make(map[string]*Entry, len(entries))
	for _, e := range entries {
		idx.entries[e.ID] = e
	}
}

// Get retrieves an entry by ID
func (idx *MemoryIndex) Get(id string) (*Entry, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	e, ok := idx.entries[id]
	return e, ok
}

// All returns every entry ordered by group then name
func (idx *MemoryIndex) All() []*Entry {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	entries := make([]*Entry, 0, len(idx.entries))
	for _, e := range idx.entries {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Group != entries[j].Group {
			return entries[i].Group < entries[j].Group
		}
		return entries[i].Name < entries[j].Name
	})
	return entries
}

// Delete removes an entry from the index
func (idx *MemoryIndex) Delete(id string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	delete(idx.entries, id)
}

// Count returns the number of entries in the index
func (idx *MemoryIndex) Count() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return len(idx.entries)
}

// RecordRun stores the outcome of the latest warm pass
func (idx *MemoryIndex) RecordRun(run Run) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.lastRun = &run
}

// LastRun returns the latest warm pass, if any
func (idx *MemoryIndex) LastRun() (Run, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if idx.lastRun == nil {
		return Run{}, false
	}
	return *idx.lastRun, true
}

// Summary aggregates the index for reporting
func (idx *MemoryIndex) Summary() Summary {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	s := Summary{
		Total:      len(idx.entries),
		ByCategory: make(map[domain.Category]int),
	}
	for _, e := range idx.entries {
		if e.Removed {
			s.Removed++
			continue
		}
		s.Active++
		s.ByCategory[e.Preview.Category]++
		if e.Preview.Fallback {
			s.Fallbacks++
		}
	}
	if idx.lastRun != nil {
		run := *idx.lastRun
		s.LastRun = &run
	}
	return s
}
