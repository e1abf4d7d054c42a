package repository

import (
	"context"
	"errors"
	"testing"

	"auth-service/internal/twofa/domain"
)

func TestMemoryRepository_UpsertGetRemove(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	id := domain.NewLoginAttemptID()
	code, _ := domain.GenerateTwoFACode()
	if err := repo.Upsert(ctx, "a@x.com", id, code); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	c, err := repo.Get(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if c.LoginAttemptID != id || c.Code != code {
		t.Fatalf("Get = %+v, want {%s %s}", c, id, code)
	}

	if err := repo.Remove(ctx, "a@x.com"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := repo.Get(ctx, "a@x.com"); !errors.Is(err, domain.ErrChallengeNotFound) {
		t.Fatalf("Get after Remove err = %v, want ErrChallengeNotFound", err)
	}
}

func TestMemoryRepository_UpsertReplaces(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	first := domain.NewLoginAttemptID()
	firstCode, _ := domain.GenerateTwoFACode()
	_ = repo.Upsert(ctx, "a@x.com", first, firstCode)

	second := domain.NewLoginAttemptID()
	secondCode, _ := domain.GenerateTwoFACode()
	_ = repo.Upsert(ctx, "a@x.com", second, secondCode)

	c, err := repo.Get(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if c.LoginAttemptID == first {
		t.Fatal("old attempt id still live after replacement")
	}
	if c.LoginAttemptID != second || c.Code != secondCode {
		t.Fatalf("Get = %+v, want the replacement challenge", c)
	}
}

func TestMemoryRepository_RemoveMissingIsNoop(t *testing.T) {
	if err := NewMemoryRepository().Remove(context.Background(), "missing@x.com"); err != nil {
		t.Fatalf("Remove(missing): %v", err)
	}
}

func TestMemoryRepository_GetMissing(t *testing.T) {
	if _, err := NewMemoryRepository().Get(context.Background(), "missing@x.com"); !errors.Is(err, domain.ErrChallengeNotFound) {
		t.Fatalf("Get(missing) err = %v, want ErrChallengeNotFound", err)
	}
}
