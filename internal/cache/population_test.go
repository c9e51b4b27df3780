package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/dom/worldcup-stats/internal/cache"
	"github.com/dom/worldcup-stats/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func newTestCache(t *testing.T, ttl time.Duration) *cache.PopulationCache {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping redis container test in short mode")
	}

	ctx := context.Background()
	container, err := tcRedis.Run(ctx, "redis:7-alpine")
	if err != nil {
		t.Fatalf("failed to start redis container: %v", err)
	}
	t.Cleanup(func() {
		container.Terminate(context.Background())
	})

	url, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	client, err := cache.NewClient(ctx, url)
	require.NoError(t, err)
	t.Cleanup(func() {
		client.Close()
	})

	return cache.NewPopulationCache(client, ttl)
}

func TestPopulationCache(t *testing.T) {
	c := newTestCache(t, time.Minute)
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "2022")
	require.NoError(t, err)
	assert.False(t, ok)

	rows := []domain.PopulationRow{
		{
			ID:       "2022_France_mbappe.json",
			Name:     "Kylian Mbappé",
			Team:     "France",
			Position: domain.PositionForward,
			Year:     "2022",
			Filename: "mbappe.json",
			Minutes:  598,
			Stats:    domain.StatRecord{"goals": 8, "minutes": 598},
		},
	}
	require.NoError(t, c.Set(ctx, "2022", rows))

	got, ok, err := c.Get(ctx, "2022")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, rows, got)

	require.NoError(t, c.Invalidate(ctx))
	_, ok, err = c.Get(ctx, "2022")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPopulationCache_Expires(t *testing.T) {
	c := newTestCache(t, time.Second)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "ALL", []domain.PopulationRow{}))

	assert.Eventually(t, func() bool {
		_, ok, err := c.Get(ctx, "ALL")
		return err == nil && !ok
	}, 5*time.Second, 100*time.Millisecond)
}
