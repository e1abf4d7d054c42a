package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const bannedTokenKeyPrefix = "banned_token:"

// RedisRepository is a TTL-backed banned-token store. Each ban entry carries
// the full token validity window as its TTL: by the time the entry expires,
// the token it bans has independently expired too.
type RedisRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisRepository returns a banned-token store on client. ttl must be the
// session token's total validity window (see security.TokenProvider.TTL).
func NewRedisRepository(client *redis.Client, ttl time.Duration) *RedisRepository {
	return &RedisRepository{client: client, ttl: ttl}
}

func bannedTokenKey(token string) string {
	return bannedTokenKeyPrefix + token
}

// Ban writes the entry with the configured TTL. SET over an existing key
// makes re-banning idempotent (and refreshes the TTL, which only lengthens
// the ban).
func (r *RedisRepository) Ban(ctx context.Context, token string) error {
	if err := r.client.Set(ctx, bannedTokenKey(token), true, r.ttl).Err(); err != nil {
		return fmt.Errorf("ban token: %w", err)
	}
	return nil
}

// IsBanned reports whether a live ban entry exists for token.
func (r *RedisRepository) IsBanned(ctx context.Context, token string) (bool, error) {
	n, err := r.client.Exists(ctx, bannedTokenKey(token)).Result()
	if err != nil {
		return false, fmt.Errorf("check banned token: %w", err)
	}
	return n > 0, nil
}
