package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

// BalanceCache implements ports.BalanceCache with plain GET/SET. The ledger
// stays the source of truth; this only absorbs repeated balance reads.
type BalanceCache struct {
	client *goredis.Client
	prefix string
}

// NewBalanceCache creates a new Redis-backed balance cache.
func NewBalanceCache(client *goredis.Client) *BalanceCache {
	return &BalanceCache{
		client: client,
		prefix: "wallet:balance:",
	}
}

// Get returns the cached balance and whether the key was present.
func (c *BalanceCache) Get(ctx context.Context, walletID uuid.UUID) (int64, bool, error) {
	value, err := c.client.Get(ctx, c.prefix+walletID.String()).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("redis balance get: %w", err)
	}
	balance, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("redis balance parse: %w", err)
	}
	return balance, true, nil
}

// Set stores the balance with the given TTL.
func (c *BalanceCache) Set(ctx context.Context, walletID uuid.UUID, balance int64, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.prefix+walletID.String(), balance, ttl).Err(); err != nil {
		return fmt.Errorf("redis balance set: %w", err)
	}
	return nil
}

// Invalidate drops the cached balance, typically after a ledger append.
func (c *BalanceCache) Invalidate(ctx context.Context, walletID uuid.UUID) error {
	if err := c.client.Del(ctx, c.prefix+walletID.String()).Err(); err != nil {
		return fmt.Errorf("redis balance invalidate: %w", err)
	}
	return nil
}
