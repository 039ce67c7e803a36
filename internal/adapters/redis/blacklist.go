package redis

import (
	"context"
	"fmt"
	"time"

	"eventhub/internal/clock"
	"eventhub/internal/domain"

	"github.com/redis/go-redis/v9"
)

const revokedKeyPrefix = "auth:revoked:"

// NewClient parses a redis:// URL and returns a client. It does not connect.
func NewClient(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return redis.NewClient(opts), nil
}

// Ping checks the connection.
func Ping(ctx context.Context, client *redis.Client) error {
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

type tokenBlacklist struct {
	client *redis.Client
	clock  clock.Clock
}

// NewTokenBlacklist stores revoked token ids as keys that expire together
// with the token, so no sweeper is needed.
func NewTokenBlacklist(client *redis.Client, clk clock.Clock) domain.TokenBlacklist {
	return &tokenBlacklist{client: client, clock: clk}
}

func (b *tokenBlacklist) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	ttl := until.Sub(b.clock.Now())
	if ttl <= 0 {
		return nil
	}
	if err := b.client.Set(ctx, revokedKeyPrefix+tokenID, 1, ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (b *tokenBlacklist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := b.client.Exists(ctx, revokedKeyPrefix+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("check revoked token: %w", err)
	}
	return n > 0, nil
}
