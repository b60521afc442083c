package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// Hits returns the number of cache hits recorded for link
func (s *Store) Hits(ctx context.Context, link string) (int64, error) {
	n, err := s.client.Get(ctx, HitsKey(PreviewID(link))).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get hits: %w", err)
	}
	return n, nil
}

// HitStats returns the hit counter of every known preview, keyed by ID
func (s *Store) HitStats(ctx context.Context) (map[string]int64, error) {
	ids, err := s.client.SMembers(ctx, AllPreviewsKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get preview IDs: %w", err)
	}

	stats := make(map[string]int64, len(ids))
	if len(ids) == 0 {
		return stats, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = HitsKey(id)
	}
	vals, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get hit counters: %w", err)
	}

	for i, v := range vals {
		str, ok := v.(string)
		if !ok {
			stats[ids[i]] = 0
			continue
		}
		n, err := strconv.ParseInt(str, 10, 64)
		if err != nil {
			continue
		}
		stats[ids[i]] = n
	}

	return stats, nil
}
