package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/vrain/internal/domain"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewStore(client), mr
}

func TestPreviewID(t *testing.T) {
	id := PreviewID("https://go.dev")
	assert.Len(t, id, 16)
	assert.Equal(t, id, PreviewID("https://go.dev"))
	assert.NotEqual(t, id, PreviewID("https://go.dev/"))
	assert.Equal(t, "vrain:preview:"+id, PreviewKey(id))
	assert.Equal(t, "vrain:preview:hits:"+id, HitsKey(id))
}

func TestSaveAndGetPreview(t *testing.T) {
	s, mr := newTestStore(t)
	ctx := context.Background()
	link := "https://x.com/a/status/1"
	want := domain.EmbedPreview(domain.CategoryTwitter, "<blockquote>hi</blockquote>", "hi")

	_, ok, err := s.GetPreview(ctx, link)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.SavePreview(ctx, link, want, time.Hour))
	assert.True(t, mr.Exists(PreviewKey(PreviewID(link))))
	assert.Equal(t, time.Hour, mr.TTL(PreviewKey(PreviewID(link))))

	got, ok, err := s.GetPreview(ctx, link)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, got)

	_, _, _ = s.GetPreview(ctx, link)
	hits, err := s.Hits(ctx, link)
	require.NoError(t, err)
	assert.Equal(t, int64(2), hits)

	stats, err := s.HitStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{PreviewID(link): 2}, stats)
}

func TestSavePreviewDefaultTTL(t *testing.T) {
	s, mr := newTestStore(t)
	link := "https://youtu.be/abc"

	require.NoError(t, s.SavePreview(context.Background(), link, domain.ImagePreview(domain.CategoryYouTube, "x"), 0))
	assert.Equal(t, DefaultPreviewTTL, mr.TTL(PreviewKey(PreviewID(link))))
}

func TestCountPrunesExpired(t *testing.T) {
	s, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SavePreview(ctx, "https://a.example", domain.ImagePreview(domain.CategoryGeneric, "a"), time.Minute))
	require.NoError(t, s.SavePreview(ctx, "https://b.example", domain.ImagePreview(domain.CategoryGeneric, "b"), time.Hour))

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	mr.FastForward(2 * time.Minute)

	n, err = s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	members, err := mr.SMembers(AllPreviewsKey())
	require.NoError(t, err)
	assert.Equal(t, []string{PreviewID("https://b.example")}, members)
}

func TestDeleteAndFlush(t *testing.T) {
	s, mr := newTestStore(t)
	ctx := context.Background()

	for _, link := range []string{"https://a.example", "https://b.example", "https://c.example"} {
		require.NoError(t, s.SavePreview(ctx, link, domain.ImagePreview(domain.CategoryGeneric, link), time.Hour))
	}
	_, _, _ = s.GetPreview(ctx, "https://a.example")

	require.NoError(t, s.DeletePreview(ctx, "https://a.example"))
	assert.False(t, mr.Exists(PreviewKey(PreviewID("https://a.example"))))
	assert.False(t, mr.Exists(HitsKey(PreviewID("https://a.example"))))

	deleted, err := s.FlushPreviews(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)
	assert.False(t, mr.Exists(AllPreviewsKey()))

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestGetPreviewUnreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })
	s := NewStore(client)

	_, ok, err := s.GetPreview(context.Background(), "https://go.dev")
	assert.Error(t, err)
	assert.False(t, ok)
}
