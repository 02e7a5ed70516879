package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

// ListingCache implements ports.ListingCache: a read-through cache over
// single listings with explicit invalidation from the mutation paths.
type ListingCache struct {
	client *goredis.Client
	prefix string
}

// NewListingCache creates a new Redis-backed listing cache.
func NewListingCache(client *goredis.Client) *ListingCache {
	return &ListingCache{
		client: client,
		prefix: "listing:",
	}
}

// Get retrieves a cached listing by id. Returns nil, nil on a miss.
func (c *ListingCache) Get(ctx context.Context, id uuid.UUID) ([]byte, error) {
	val, err := c.client.Get(ctx, c.prefix+id.String()).Bytes()
	if err != nil {
		if err == goredis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("redis listing get: %w", err)
	}
	return val, nil
}

// Set stores a listing's JSON with TTL.
func (c *ListingCache) Set(ctx context.Context, id uuid.UUID, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.prefix+id.String(), value, ttl).Err(); err != nil {
		return fmt.Errorf("redis listing set: %w", err)
	}
	return nil
}

// Invalidate drops a listing from the cache after a mutation.
func (c *ListingCache) Invalidate(ctx context.Context, id uuid.UUID) error {
	if err := c.client.Del(ctx, c.prefix+id.String()).Err(); err != nil {
		return fmt.Errorf("redis listing invalidate: %w", err)
	}
	return nil
}
