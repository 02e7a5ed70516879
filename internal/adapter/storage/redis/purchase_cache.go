package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// PurchaseCache implements ports.PurchaseCache: the fast-path settlement
// idempotency check keyed by on-chain transaction signature. The database
// unique constraint remains the source of truth; this layer only short-cuts
// replays.
type PurchaseCache struct {
	client *goredis.Client
	prefix string
}

// NewPurchaseCache creates a new Redis-backed purchase cache.
func NewPurchaseCache(client *goredis.Client) *PurchaseCache {
	return &PurchaseCache{
		client: client,
		prefix: "purchase:sig:",
	}
}

// Get retrieves a settled purchase by signature. Returns nil, nil on a miss.
func (c *PurchaseCache) Get(ctx context.Context, signature string) ([]byte, error) {
	val, err := c.client.Get(ctx, c.prefix+signature).Bytes()
	if err != nil {
		if err == goredis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("redis purchase get: %w", err)
	}
	return val, nil
}

// Set stores a settled purchase's JSON with TTL.
func (c *PurchaseCache) Set(ctx context.Context, signature string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.prefix+signature, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis purchase set: %w", err)
	}
	return nil
}
