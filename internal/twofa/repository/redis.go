package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"auth-service/internal/twofa/domain"
	userdomain "auth-service/internal/user/domain"
)

const twoFACodeKeyPrefix = "two_fa_code:"

// challengeRecord is the wire form stored under the namespaced key.
type challengeRecord struct {
	LoginAttemptID string `json:"loginAttemptId"`
	Code           string `json:"code"`
}

// RedisRepository is a TTL-backed challenge store. Redis SET on the same key
// gives the last-write-wins replacement for free, and the key TTL expires
// abandoned challenges without any sweeper.
type RedisRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisRepository returns a challenge store on client. A non-positive ttl
// falls back to DefaultChallengeTTL.
func NewRedisRepository(client *redis.Client, ttl time.Duration) *RedisRepository {
	if ttl <= 0 {
		ttl = DefaultChallengeTTL
	}
	return &RedisRepository{client: client, ttl: ttl}
}

func twoFAKey(email userdomain.Email) string {
	return twoFACodeKeyPrefix + email.String()
}

// Upsert serializes the pair and SETs it with the configured TTL, replacing
// any previous challenge for the email.
func (r *RedisRepository) Upsert(ctx context.Context, email userdomain.Email, id domain.LoginAttemptID, code domain.TwoFACode) error {
	val, err := json.Marshal(challengeRecord{LoginAttemptID: id.String(), Code: code.String()})
	if err != nil {
		return fmt.Errorf("encode challenge: %w", err)
	}
	if err := r.client.Set(ctx, twoFAKey(email), val, r.ttl).Err(); err != nil {
		return fmt.Errorf("store challenge: %w", err)
	}
	return nil
}

// Get fetches and re-validates the stored pair. A missing or expired key is
// ErrChallengeNotFound; a stored value that no longer parses is an unexpected
// backend failure, not a not-found.
func (r *RedisRepository) Get(ctx context.Context, email userdomain.Email) (*domain.Challenge, error) {
	data, err := r.client.Get(ctx, twoFAKey(email)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrChallengeNotFound
		}
		return nil, fmt.Errorf("fetch challenge: %w", err)
	}

	var rec challengeRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode challenge: %w", err)
	}
	id, err := domain.ParseLoginAttemptID(rec.LoginAttemptID)
	if err != nil {
		return nil, fmt.Errorf("decode challenge: %w", err)
	}
	code, err := domain.ParseTwoFACode(rec.Code)
	if err != nil {
		return nil, fmt.Errorf("decode challenge: %w", err)
	}
	return &domain.Challenge{LoginAttemptID: id, Code: code}, nil
}

// Remove deletes the key; a zero delete count is still success.
func (r *RedisRepository) Remove(ctx context.Context, email userdomain.Email) error {
	if err := r.client.Del(ctx, twoFAKey(email)).Err(); err != nil {
		return fmt.Errorf("remove challenge: %w", err)
	}
	return nil
}
