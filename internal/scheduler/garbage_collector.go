package scheduler

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/vrain/internal/index"
	"github.com/MrSnakeDoc/vrain/internal/logger"
)

const (
	// DefaultGCThreshold is how long a removed bookmark keeps its cached preview
	DefaultGCThreshold = 7 * 24 * time.Hour
)

// PreviewDeleter drops a link's preview from the shared cache.
type PreviewDeleter interface {
	DeletePreview(ctx context.Context, link string) error
}

// GarbageCollector drops bookmarks that left the bookmark file long ago
type GarbageCollector struct {
	store     PreviewDeleter
	index     *index.MemoryIndex
	logger    logger.Logger
	interval  time.Duration
	threshold time.Duration
	stopCh    chan struct{}
}

// NewGarbageCollector creates a new garbage collector. store may be nil.
func NewGarbageCollector(
	store PreviewDeleter,
	idx *index.MemoryIndex,
	log logger.Logger,
	interval time.Duration,
	threshold time.Duration,
) *GarbageCollector {
	if threshold == 0 {
		threshold = DefaultGCThreshold
	}

	return &GarbageCollector{
		store:     store,
		index:     idx,
		logger:    log,
		interval:  interval,
		threshold: threshold,
		stopCh:    make(chan struct{}),
	}
}

// Start begins the periodic garbage collection process
func (gc *GarbageCollector) Start(ctx context.Context) {
	gc.Collect(ctx)

	ticker := time.NewTicker(gc.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				gc.Collect(ctx)
			case <-gc.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop stops the garbage collector
func (gc *GarbageCollector) Stop() {
	close(gc.stopCh)
}

// Collect removes entries marked removed for longer than the threshold and
// returns how many were dropped.
func (gc *GarbageCollector) Collect(ctx context.Context) int {
	now := time.Now()
	deleted := 0

	for _, e := range gc.index.All() {
		if !e.Removed || e.UpdatedAt.IsZero() {
			continue
		}
		age := now.Sub(e.UpdatedAt)
		if age < gc.threshold {
			continue
		}

		gc.index.Delete(e.ID)

		if gc.store != nil {
			if err := gc.store.DeletePreview(ctx, e.URL); err != nil {
				gc.logger.Warn("failed to delete preview from redis",
					logger.String("id", e.ID),
					logger.Error(err))
			}
		}

		gc.logger.Info("garbage collected removed bookmark",
			logger.String("id", e.ID),
			logger.String("url", e.URL),
			logger.String("removed_for", age.String()))
		deleted++
	}

	if deleted == 0 {
		gc.logger.Debug("no bookmarks to garbage collect")
	}
	return deleted
}
