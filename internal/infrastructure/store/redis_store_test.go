package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JKevinXu/NewsAgent/internal/domain"
)

func newTestStore(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return New(client, 30*24*time.Hour, nil), mr
}

func testItem(n int) domain.Item {
	return domain.Item{
		ID:     fmt.Sprintf("2026-08-29-hackernews-%d", n),
		Date:   "2026-08-29",
		Source: domain.SourceHackerNews,
		Title:  fmt.Sprintf("Story %d", n),
		URL:    fmt.Sprintf("https://example.com/%d", n),
		Score:  100 + n,
	}
}

func TestSaveItemsBatchesAndIndexes(t *testing.T) {
	t.Parallel()

	st, mr := newTestStore(t)

	// 60 items forces three sequential batches under the 25-record limit.
	items := make([]domain.Item, 0, 60)
	for i := 1; i <= 60; i++ {
		items = append(items, testItem(i))
	}

	require.NoError(t, st.SaveItems(context.Background(), items))

	for _, item := range items {
		assert.True(t, mr.Exists("item:"+item.ID), "missing %s", item.ID)
	}

	loaded, err := st.ItemsBySourceDate(context.Background(), domain.SourceHackerNews, "2026-08-29")
	require.NoError(t, err)
	assert.Len(t, loaded, 60)
}

func TestSaveItemsIdempotentOverwrite(t *testing.T) {
	t.Parallel()

	st, _ := newTestStore(t)
	ctx := context.Background()

	item := testItem(1)
	require.NoError(t, st.SaveItems(ctx, []domain.Item{item}))

	item.Summary = "updated summary"
	require.NoError(t, st.SaveItems(ctx, []domain.Item{item}))

	loaded, err := st.ItemsBySourceDate(ctx, domain.SourceHackerNews, "2026-08-29")
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "updated summary", loaded[0].Summary)
}

func TestSaveDigestIdempotent(t *testing.T) {
	t.Parallel()

	st, _ := newTestStore(t)
	ctx := context.Background()

	rec := domain.NewDigestRecord("2026-08-29", 5, time.Now().UTC())
	require.NoError(t, st.SaveDigest(ctx, rec))

	rec.TotalItems = 7
	require.NoError(t, st.SaveDigest(ctx, rec))

	loaded, err := st.Digest(ctx, "2026-08-29")
	require.NoError(t, err)
	assert.Equal(t, "digest-2026-08-29", loaded.ID)
	assert.Equal(t, 7, loaded.TotalItems)
	assert.False(t, loaded.EmailSent)
}

func TestMarkEmailSentFlipsFlag(t *testing.T) {
	t.Parallel()

	st, _ := newTestStore(t)
	ctx := context.Background()

	rec := domain.NewDigestRecord("2026-08-29", 3, time.Now().UTC())
	require.NoError(t, st.SaveDigest(ctx, rec))

	loaded, err := st.Digest(ctx, "2026-08-29")
	require.NoError(t, err)
	require.False(t, loaded.EmailSent, "emailSent starts false")

	require.NoError(t, st.MarkEmailSent(ctx, "2026-08-29"))

	loaded, err = st.Digest(ctx, "2026-08-29")
	require.NoError(t, err)
	assert.True(t, loaded.EmailSent)
}

func TestMarkEmailSentRequiresExistingDigest(t *testing.T) {
	t.Parallel()

	st, _ := newTestStore(t)

	err := st.MarkEmailSent(context.Background(), "2030-01-01")
	assert.ErrorContains(t, err, "does not exist")
}

func TestItemsBySourceDateSkipsExpiredRecords(t *testing.T) {
	t.Parallel()

	st, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.SaveItems(ctx, []domain.Item{testItem(1), testItem(2)}))
	mr.Del("item:" + testItem(1).ID)

	loaded, err := st.ItemsBySourceDate(ctx, domain.SourceHackerNews, "2026-08-29")
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, testItem(2).ID, loaded[0].ID)
}

func TestSaveItemsAppliesTTL(t *testing.T) {
	t.Parallel()

	st, mr := newTestStore(t)

	require.NoError(t, st.SaveItems(context.Background(), []domain.Item{testItem(1)}))
	assert.Greater(t, mr.TTL("item:"+testItem(1).ID), time.Duration(0))
}
