package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

const (
	summaryGenKey    = keyPrefix + "summary:gen"
	summaryKeyPrefix = keyPrefix + "summary:"
)

// summaryKey returns the key holding the summary computed at generation gen.
func summaryKey(gen int64) string {
	return summaryKeyPrefix + strconv.FormatInt(gen, 10)
}

// GetSummary returns the cached summary for the current generation. The
// generation is returned even on a miss; pass it to SetSummary so that a
// summary computed before a concurrent write is never stored under the
// newer generation.
func (c *Cache) GetSummary(ctx context.Context) ([]byte, int64, bool, error) {
	gen, err := c.client.Get(ctx, summaryGenKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, 0, false, fmt.Errorf("failed to read summary generation: %w", err)
	}

	data, err := c.client.Get(ctx, summaryKey(gen)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, gen, false, nil
		}
		return nil, gen, false, fmt.Errorf("failed to read summary: %w", err)
	}
	return data, gen, true, nil
}

// SetSummary stores data computed at generation gen.
func (c *Cache) SetSummary(ctx context.Context, gen int64, data []byte) error {
	if err := c.client.Set(ctx, summaryKey(gen), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store summary: %w", err)
	}
	return nil
}

// InvalidateSummary bumps the generation so that earlier entries are no
// longer read. Old entries expire with their TTL.
func (c *Cache) InvalidateSummary(ctx context.Context) error {
	if err := c.client.Incr(ctx, summaryGenKey).Err(); err != nil {
		return fmt.Errorf("failed to invalidate summary: %w", err)
	}
	return nil
}
