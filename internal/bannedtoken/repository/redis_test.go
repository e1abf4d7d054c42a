package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newRedisTestRepo(t *testing.T, ttl time.Duration) (*RedisRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisRepository(client, ttl), mr
}

func TestRedisRepository_BanAndCheck(t *testing.T) {
	ctx := context.Background()
	repo, mr := newRedisTestRepo(t, 10*time.Minute)

	if err := repo.Ban(ctx, "some.jwt.token"); err != nil {
		t.Fatalf("Ban: %v", err)
	}
	if !mr.Exists("banned_token:some.jwt.token") {
		t.Fatal("ban entry not stored under the namespaced key")
	}
	if ttl := mr.TTL("banned_token:some.jwt.token"); ttl != 10*time.Minute {
		t.Fatalf("ban entry TTL = %v, want the token validity window (10m)", ttl)
	}

	banned, err := repo.IsBanned(ctx, "some.jwt.token")
	if err != nil || !banned {
		t.Fatalf("IsBanned = (%v, %v), want (true, nil)", banned, err)
	}
	banned, err = repo.IsBanned(ctx, "other.jwt.token")
	if err != nil || banned {
		t.Fatalf("IsBanned(other) = (%v, %v), want (false, nil)", banned, err)
	}
}

func TestRedisRepository_BanIdempotent(t *testing.T) {
	ctx := context.Background()
	repo, _ := newRedisTestRepo(t, 10*time.Minute)

	if err := repo.Ban(ctx, "some.jwt.token"); err != nil {
		t.Fatalf("Ban: %v", err)
	}
	if err := repo.Ban(ctx, "some.jwt.token"); err != nil {
		t.Fatalf("second Ban: %v", err)
	}
	banned, err := repo.IsBanned(ctx, "some.jwt.token")
	if err != nil || !banned {
		t.Fatalf("IsBanned after double ban = (%v, %v), want (true, nil)", banned, err)
	}
}

func TestRedisRepository_EntryExpiresWithTokenWindow(t *testing.T) {
	ctx := context.Background()
	repo, mr := newRedisTestRepo(t, time.Minute)

	_ = repo.Ban(ctx, "some.jwt.token")
	mr.FastForward(2 * time.Minute)

	// After the window the token itself has expired, so the implicit
	// not-banned answer is safe.
	banned, err := repo.IsBanned(ctx, "some.jwt.token")
	if err != nil || banned {
		t.Fatalf("IsBanned after expiry = (%v, %v), want (false, nil)", banned, err)
	}
}
