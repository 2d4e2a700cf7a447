package snapshot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cesarmodas/storefront-cart/internal/cart"
	"github.com/cesarmodas/storefront-cart/pkg/redis"
)

// Redis mirrors snapshots to a redis value per session, expiring with the
// session TTL.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis builds a redis-backed snapshot store.
func NewRedis(client *redis.Client, ttl time.Duration) (*Redis, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client required")
	}
	return &Redis{client: client, ttl: ttl}, nil
}

func (r *Redis) Load(ctx context.Context, key string) ([]cart.LineItem, error) {
	payload, err := r.client.Get(ctx, key)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading cart snapshot: %w", err)
	}
	return decode([]byte(payload))
}

func (r *Redis) Save(ctx context.Context, key string, items []cart.LineItem) error {
	payload, err := encode(items)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, key, string(payload), r.ttl); err != nil {
		return fmt.Errorf("writing cart snapshot: %w", err)
	}
	return nil
}
