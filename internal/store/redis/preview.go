package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/vrain/internal/domain"
)

// DefaultPreviewTTL is the default lifetime of a cached preview (24 hours)
const DefaultPreviewTTL = 24 * time.Hour

// Store is the shared preview cache. It satisfies preview.Cache.
type Store struct {
	client *redis.Client
}

// NewStore creates a new Redis store
func NewStore(client *redis.Client) *Store {
	return &Store{
		client: client,
	}
}

// entry is the stored form of a preview.
type entry struct {
	Link     string               `json:"link"`
	Preview  domain.PreviewResult `json:"preview"`
	StoredAt time.Time            `json:"stored_at"`
}

// SavePreview stores a resolved preview for link
func (s *Store) SavePreview(ctx context.Context, link string, p domain.PreviewResult, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultPreviewTTL
	}

	data, err := json.Marshal(entry{Link: link, Preview: p, StoredAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("failed to marshal preview: %w", err)
	}

	id := PreviewID(link)
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, PreviewKey(id), data, ttl)
	pipe.SAdd(ctx, AllPreviewsKey(), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save preview: %w", err)
	}

	return nil
}

// GetPreview returns the cached preview for link. A miss is not an error.
// Every hit bumps the preview's counter.
func (s *Store) GetPreview(ctx context.Context, link string) (domain.PreviewResult, bool, error) {
	id := PreviewID(link)
	data, err := s.client.Get(ctx, PreviewKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.PreviewResult{}, false, nil
		}
		return domain.PreviewResult{}, false, fmt.Errorf("failed to get preview: %w", err)
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		return domain.PreviewResult{}, false, fmt.Errorf("failed to unmarshal preview: %w", err)
	}
	if e.Link != link {
		// hash prefix collision
		return domain.PreviewResult{}, false, nil
	}

	if err := s.client.Incr(ctx, HitsKey(id)).Err(); err != nil {
		return e.Preview, true, fmt.Errorf("failed to count hit: %w", err)
	}
	return e.Preview, true, nil
}

// DeletePreview removes a cached preview and its counter
func (s *Store) DeletePreview(ctx context.Context, link string) error {
	id := PreviewID(link)

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, PreviewKey(id), HitsKey(id))
	pipe.SRem(ctx, AllPreviewsKey(), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete preview: %w", err)
	}

	return nil
}

// Count returns the number of previews currently cached. IDs whose entry
// has expired are pruned from the set on the way.
func (s *Store) Count(ctx context.Context) (int, error) {
	ids, err := s.client.SMembers(ctx, AllPreviewsKey()).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get preview IDs: %w", err)
	}
	if len(ids) == 0 {
		return 0, nil
	}

	pipe := s.client.Pipeline()
	cmds := make([]*redis.IntCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.Exists(ctx, PreviewKey(id))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to check previews: %w", err)
	}

	live := 0
	var stale []any
	for i, cmd := range cmds {
		if cmd.Val() > 0 {
			live++
			continue
		}
		stale = append(stale, ids[i])
	}
	if len(stale) > 0 {
		if err := s.client.SRem(ctx, AllPreviewsKey(), stale...).Err(); err != nil {
			return live, fmt.Errorf("failed to prune preview IDs: %w", err)
		}
	}

	return live, nil
}

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
