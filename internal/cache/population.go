// Package cache stores scatter populations in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dom/worldcup-stats/internal/domain"
	"github.com/redis/go-redis/v9"
)

const populationKeyPrefix = "population:"

// NewClient connects to the Redis server at redisURL and pings it
func NewClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	return client, nil
}

// PopulationCache holds population rows per year
type PopulationCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewPopulationCache(client *redis.Client, ttl time.Duration) *PopulationCache {
	return &PopulationCache{
		client: client,
		ttl:    ttl,
	}
}

func populationKey(year string) string {
	return populationKeyPrefix + year
}

// Get returns the cached rows of year. The bool is false on a cache miss.
func (c *PopulationCache) Get(ctx context.Context, year string) ([]domain.PopulationRow, bool, error) {
	data, err := c.client.Get(ctx, populationKey(year)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var rows []domain.PopulationRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, false, fmt.Errorf("unmarshaling population: %w", err)
	}
	return rows, true, nil
}

func (c *PopulationCache) Set(ctx context.Context, year string, rows []domain.PopulationRow) error {
	data, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("marshaling population: %w", err)
	}
	return c.client.Set(ctx, populationKey(year), data, c.ttl).Err()
}

// Invalidate drops every cached population
func (c *PopulationCache) Invalidate(ctx context.Context) error {
	var keys []string
	iter := c.client.Scan(ctx, 0, populationKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}
