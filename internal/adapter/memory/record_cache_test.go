package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/scrape-service/internal/entity"
)

func record(url, title string) *entity.ScrapedRecord {
	return &entity.ScrapedRecord{
		URL:         url,
		Title:       title,
		Description: "desc",
		Links:       []string{"/a", ""},
		Category:    "Software",
		ScrapedAt:   time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC),
	}
}

func TestRecordCache_RoundTrip(t *testing.T) {
	ctx := context.Background()
	c := NewRecordCache()
	in := record("https://example.com/", "Example")

	require.NoError(t, c.Put(ctx, in))
	got, err := c.Get(ctx, in.URL)
	require.NoError(t, err)
	assert.True(t, in.Equal(got))
}

func TestRecordCache_MissAndExactKey(t *testing.T) {
	ctx := context.Background()
	c := NewRecordCache()
	require.NoError(t, c.Put(ctx, record("https://example.com/", "Example")))

	for _, key := range []string{"https://example.com", "HTTPS://example.com/", "https://example.com/?"} {
		got, err := c.Get(ctx, key)
		require.NoError(t, err)
		assert.Nil(t, got, key)
	}
}

func TestRecordCache_LastWriteWins(t *testing.T) {
	ctx := context.Background()
	c := NewRecordCache()
	require.NoError(t, c.Put(ctx, record("https://example.com/", "Old")))
	require.NoError(t, c.Put(ctx, record("https://example.com/", "New")))

	got, err := c.Get(ctx, "https://example.com/")
	require.NoError(t, err)
	assert.Equal(t, "New", got.Title)
	assert.Equal(t, 1, c.Len())
}

func TestRecordCache_StoredCopyIsIsolated(t *testing.T) {
	ctx := context.Background()
	c := NewRecordCache()
	in := record("https://example.com/", "Example")
	require.NoError(t, c.Put(ctx, in))

	in.Links[0] = "mutated"
	got, _ := c.Get(ctx, in.URL)
	assert.Equal(t, "/a", got.Links[0])
}
