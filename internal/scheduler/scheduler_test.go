package scheduler

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MrSnakeDoc/vrain/internal/domain"
	"github.com/MrSnakeDoc/vrain/internal/index"
	"github.com/MrSnakeDoc/vrain/internal/logger"
)

type countingResolver struct {
	calls    atomic.Int32
	inFlight atomic.Int32
	peak     atomic.Int32
}

func (r *countingResolver) Resolve(_ context.Context, link string) domain.PreviewResult {
	r.calls.Add(1)
	n := r.inFlight.Add(1)
	defer r.inFlight.Add(-1)
	for {
		p := r.peak.Load()
		if n <= p || r.peak.CompareAndSwap(p, n) {
			break
		}
	}
	time.Sleep(5 * time.Millisecond)
	if domain.Classify(link) == domain.CategoryGeneric {
		return domain.PlaceholderPreview(domain.CategoryGeneric, "")
	}
	return domain.ImagePreview(domain.Classify(link), "img")
}

func writeBookmarks(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write bookmarks: %v", err)
	}
}

const twoGroups = `
- Videos:
    - A: { href: https://youtu.be/a }
    - B: { href: https://youtu.be/b }
    - C: { href: https://youtu.be/c }
- Reading:
    - Go: { href: https://go.dev }
    - Rust: { href: https://rust-lang.org }
`

func TestWarmerReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bookmarks.yaml")
	writeBookmarks(t, path, twoGroups)

	r := &countingResolver{}
	idx := index.NewMemoryIndex()
	w := NewWarmer(path, r, idx, logger.New("error", false), time.Hour, 2, nil)

	if err := w.Reload(context.Background()); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}

	if got := r.calls.Load(); got != 5 {
		t.Errorf("resolver calls = %d, want 5", got)
	}
	if peak := r.peak.Load(); peak > 2 {
		t.Errorf("peak concurrency = %d, want <= 2", peak)
	}

	s := idx.Summary()
	if s.Active != 5 || s.Fallbacks != 2 || s.ByCategory[domain.CategoryYouTube] != 3 {
		t.Errorf("Summary() = %+v", s)
	}
	if s.LastRun == nil || s.LastRun.Links != 5 || s.LastRun.Error != "" {
		t.Errorf("LastRun = %+v", s.LastRun)
	}
}

func TestWarmerMarksRemoved(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bookmarks.yaml")
	writeBookmarks(t, path, twoGroups)

	idx := index.NewMemoryIndex()
	w := NewWarmer(path, &countingResolver{}, idx, logger.New("error", false), time.Hour, 0, nil)
	if err := w.Reload(context.Background()); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}

	writeBookmarks(t, path, "- Reading:\n    - Go: { href: https://go.dev }\n")
	if err := w.Reload(context.Background()); err != nil {
		t.Fatalf("second Reload() error = %v", err)
	}

	s := idx.Summary()
	if s.Total != 5 || s.Active != 1 || s.Removed != 4 {
		t.Errorf("Summary() = %+v, want 1 active and 4 removed", s)
	}
}

func TestWarmerKeepsUpdatedAtWhenPreviewUnchanged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bookmarks.yaml")
	writeBookmarks(t, path, "- Reading:\n    - Go: { href: https://go.dev }\n")

	idx := index.NewMemoryIndex()
	w := NewWarmer(path, &countingResolver{}, idx, logger.New("error", false), time.Hour, 1, nil)
	if err := w.Reload(context.Background()); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	first := idx.All()[0]

	time.Sleep(2 * time.Millisecond)
	if err := w.Reload(context.Background()); err != nil {
		t.Fatalf("second Reload() error = %v", err)
	}
	second := idx.All()[0]

	if !second.UpdatedAt.Equal(first.UpdatedAt) {
		t.Errorf("UpdatedAt = %v, want %v", second.UpdatedAt, first.UpdatedAt)
	}
	if !second.WarmedAt.After(first.WarmedAt) {
		t.Errorf("WarmedAt = %v, want after %v", second.WarmedAt, first.WarmedAt)
	}
}

func TestWarmerReloadMissingFile(t *testing.T) {
	idx := index.NewMemoryIndex()
	w := NewWarmer("/nonexistent/bookmarks.yaml", &countingResolver{}, idx, logger.New("error", false), time.Hour, 1, nil)

	if err := w.Reload(context.Background()); err == nil {
		t.Fatal("Reload() error = nil, want error")
	}
	run, ok := idx.LastRun()
	if !ok || run.Error == "" {
		t.Errorf("LastRun() = %+v, %v, want recorded error", run, ok)
	}
}

func TestWarmerManualTrigger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bookmarks.yaml")
	writeBookmarks(t, path, twoGroups)

	r := &countingResolver{}
	trigger := make(chan struct{})
	w := NewWarmer(path, r, index.NewMemoryIndex(), logger.New("error", false), time.Hour, 4, trigger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer w.Stop()

	trigger <- struct{}{}

	deadline := time.Now().Add(2 * time.Second)
	for r.calls.Load() < 10 {
		if time.Now().After(deadline) {
			t.Fatalf("resolver calls = %d, want 10 after manual trigger", r.calls.Load())
		}
		time.Sleep(10 * time.Millisecond)
	}
}

type recordingDeleter struct {
	mu    sync.Mutex
	links []string
}

func (d *recordingDeleter) DeletePreview(_ context.Context, link string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.links = append(d.links, link)
	return nil
}

func TestGarbageCollectorCollect(t *testing.T) {
	now := time.Now()
	idx := index.NewMemoryIndex()
	idx.Update([]*index.Entry{
		{ID: "active", URL: "https://a.example", UpdatedAt: now.Add(-60 * 24 * time.Hour)},
		{ID: "recent", URL: "https://r.example", Removed: true, UpdatedAt: now.Add(-2 * 24 * time.Hour)},
		{ID: "old", URL: "https://o.example", Removed: true, UpdatedAt: now.Add(-10 * 24 * time.Hour)},
	})

	store := &recordingDeleter{}
	gc := NewGarbageCollector(store, idx, logger.New("error", false), time.Hour, 0)

	if got := gc.Collect(context.Background()); got != 1 {
		t.Errorf("Collect() = %d, want 1", got)
	}
	if _, ok := idx.Get("old"); ok {
		t.Error("old removed bookmark was not collected")
	}
	for _, id := range []string{"active", "recent"} {
		if _, ok := idx.Get(id); !ok {
			t.Errorf("%s was incorrectly collected", id)
		}
	}
	if len(store.links) != 1 || store.links[0] != "https://o.example" {
		t.Errorf("deleted previews = %v", store.links)
	}
}

func TestGarbageCollectorWithoutStore(t *testing.T) {
	idx := index.NewMemoryIndex()
	idx.Update([]*index.Entry{{ID: "old", Removed: true, UpdatedAt: time.Now().Add(-time.Hour)}})

	gc := NewGarbageCollector(nil, idx, logger.New("error", false), time.Hour, time.Minute)
	if got := gc.Collect(context.Background()); got != 1 {
		t.Errorf("Collect() = %d, want 1", got)
	}
}
