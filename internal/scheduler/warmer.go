package scheduler

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/MrSnakeDoc/vrain/internal/domain"
	"github.com/MrSnakeDoc/vrain/internal/index"
	"github.com/MrSnakeDoc/vrain/internal/logger"
	"github.com/MrSnakeDoc/vrain/internal/sources/bookmarks"
)

const DefaultWarmConcurrency = 4

// Resolver resolves a link into a preview, populating its caches.
type Resolver interface {
	Resolve(ctx context.Context, link string) domain.PreviewResult
}

// Warmer periodically resolves every bookmark of a YAML file so their
// previews are cached before anyone asks.
type Warmer struct {
	loader        *bookmarks.Loader
	resolver      Resolver
	index         *index.MemoryIndex
	logger        logger.Logger
	interval      time.Duration
	concurrency   int
	stopCh        chan struct{}
	manualTrigger chan struct{}
}

// NewWarmer creates a new preview warmer
func NewWarmer(
	bookmarkFile string,
	resolver Resolver,
	idx *index.MemoryIndex,
	log logger.Logger,
	interval time.Duration,
	concurrency int,
	manualTrigger chan struct{},
) *Warmer {
	if concurrency <= 0 {
		concurrency = DefaultWarmConcurrency
	}
	return &Warmer{
		loader:        bookmarks.NewLoader(bookmarkFile),
		resolver:      resolver,
		index:         idx,
		logger:        log,
		interval:      interval,
		concurrency:   concurrency,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start warms immediately, then on every tick and manual trigger
func (w *Warmer) Start(ctx context.Context) error {
	if err := w.Reload(ctx); err != nil {
		return fmt.Errorf("initial warm failed: %w", err)
	}

	ticker := time.NewTicker(w.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := w.Reload(ctx); err != nil {
					w.logger.Error("failed to warm previews", logger.Error(err))
				}
			case <-w.manualTrigger:
				w.logger.Info("manual warm triggered")
				if err := w.Reload(ctx); err != nil {
					w.logger.Error("failed to warm previews", logger.Error(err))
				}
			case <-w.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the warmer
func (w *Warmer) Stop() {
	close(w.stopCh)
}

// Reload reads the bookmark file, resolves every link and updates the index.
// Links no longer in the file stay in the index marked as removed until the
// garbage collector drops them.
func (w *Warmer) Reload(ctx context.Context) error {
	start := time.Now()
	w.logger.Info("warming previews", logger.String("file", w.loader.Path()))

	links, err := w.load()
	if err != nil {
		w.index.RecordRun(index.Run{At: start, Duration: time.Since(start), Error: err.Error()})
		return err
	}

	entries := make([]*index.Entry, len(links))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.concurrency)
	for i, link := range links {
		i, link := i, link
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			p := w.resolver.Resolve(gctx, link.URL)
			now := time.Now()
			e := &index.Entry{
				ID:        link.ID,
				Name:      link.Name,
				Group:     link.Group,
				URL:       link.URL,
				Preview:   p,
				WarmedAt:  now,
				UpdatedAt: now,
			}
			// UpdatedAt only moves when the preview changed
			if prev, ok := w.index.Get(link.ID); ok && !prev.Removed && prev.Preview == p {
				e.UpdatedAt = prev.UpdatedAt
			}
			entries[i] = e
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		w.index.RecordRun(index.Run{At: start, Duration: time.Since(start), Links: len(links), Error: err.Error()})
		return fmt.Errorf("warm interrupted: %w", err)
	}

	fallbacks := 0
	current := make(map[string]bool, len(entries))
	for _, e := range entries {
		current[e.ID] = true
		if e.Preview.Fallback {
			fallbacks++
		}
	}

	removed := 0
	for _, existing := range w.index.All() {
		if current[existing.ID] {
			continue
		}
		if !existing.Removed {
			cp := *existing
			cp.Removed = true
			cp.UpdatedAt = time.Now()
			existing = &cp
		}
		entries = append(entries, existing)
		removed++
	}

	w.index.Update(entries)
	run := index.Run{At: start, Duration: time.Since(start), Links: len(links), Fallbacks: fallbacks}
	w.index.RecordRun(run)

	w.logger.Info("previews warmed",
		logger.Int("links", len(links)),
		logger.Int("fallbacks", fallbacks),
		logger.Int("removed", removed),
		logger.Duration("duration", run.Duration))

	return nil
}

func (w *Warmer) load() ([]bookmarks.Link, error) {
	config, err := w.loader.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load bookmarks: %w", err)
	}
	links, err := bookmarks.Links(config)
	if err != nil {
		return nil, fmt.Errorf("failed to map bookmarks: %w", err)
	}
	return links, nil
}
