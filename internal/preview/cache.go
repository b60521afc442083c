package preview

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/MrSnakeDoc/vrain/internal/domain"
)

// Cache stores resolved previews keyed by link.
// The Redis store implements it for sharing across processes.
type Cache interface {
	GetPreview(ctx context.Context, link string) (domain.PreviewResult, bool, error)
	SavePreview(ctx context.Context, link string, p domain.PreviewResult, ttl time.Duration) error
}

// MemoryCache is an in-process TTL cache.
type MemoryCache struct {
	items *gocache.Cache
}

// NewMemoryCache creates a cache whose entries expire after ttl. Expired
// entries are never returned but stay in memory until Prune runs.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{items: gocache.New(ttl, gocache.NoExpiration)}
}

func (m *MemoryCache) GetPreview(_ context.Context, link string) (domain.PreviewResult, bool, error) {
	v, ok := m.items.Get(link)
	if !ok {
		return domain.PreviewResult{}, false, nil
	}
	p, ok := v.(domain.PreviewResult)
	return p, ok, nil
}

func (m *MemoryCache) SavePreview(_ context.Context, link string, p domain.PreviewResult, ttl time.Duration) error {
	m.items.Set(link, p, ttl)
	return nil
}

// Len returns the number of live entries.
func (m *MemoryCache) Len() int {
	m.items.DeleteExpired()
	return m.items.ItemCount()
}

// Prune deletes expired entries.
func (m *MemoryCache) Prune() {
	m.items.DeleteExpired()
}

// Flush drops every entry.
func (m *MemoryCache) Flush() {
	m.items.Flush()
}
