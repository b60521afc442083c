package redis

import (
	"context"
	"fmt"
)

// FlushPreviews removes every cached preview, hit counter and the ID set
func (s *Store) FlushPreviews(ctx context.Context) (int, error) {
	deleted := 0
	iter := s.client.Scan(ctx, 0, KeyPrefixPreview+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return deleted, fmt.Errorf("failed to delete preview key: %w", err)
		}
		deleted++
	}
	if err := iter.Err(); err != nil {
		return deleted, fmt.Errorf("failed to flush previews: %w", err)
	}

	if err := s.client.Del(ctx, AllPreviewsKey()).Err(); err != nil {
		return deleted, fmt.Errorf("failed to delete preview set: %w", err)
	}
	return deleted, nil
}
