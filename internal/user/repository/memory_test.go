package repository

import (
	"context"
	"errors"
	"sync"
	"testing"

	"auth-service/internal/security"
	"auth-service/internal/user/domain"
)

func newTestRepo(t *testing.T) *MemoryRepository {
	t.Helper()
	hasher, err := security.NewHasher(security.HasherParams{Memory: 8, Time: 1, Parallelism: 1, SaltLength: 8, KeyLength: 16})
	if err != nil {
		t.Fatalf("NewHasher: %v", err)
	}
	return NewMemoryRepository(hasher)
}

func TestMemoryRepository_AddThenValidate(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	if err := repo.AddUser(ctx, "a@x.com", "password123", false); err != nil {
		t.Fatalf("AddUser: %v", err)
	}
	u, err := repo.ValidateUser(ctx, "a@x.com", "password123")
	if err != nil {
		t.Fatalf("ValidateUser: %v", err)
	}
	if u.Email != "a@x.com" {
		t.Errorf("ValidateUser email = %q", u.Email)
	}
	if u.PasswordHash == "" || u.PasswordHash == "password123" {
		t.Errorf("stored credential is not a hash: %q", u.PasswordHash)
	}
}

func TestMemoryRepository_AddDuplicate(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	if err := repo.AddUser(ctx, "a@x.com", "password123", true); err != nil {
		t.Fatalf("AddUser: %v", err)
	}
	if err := repo.AddUser(ctx, "a@x.com", "otherpassword", false); !errors.Is(err, domain.ErrUserAlreadyExists) {
		t.Fatalf("second AddUser err = %v, want ErrUserAlreadyExists", err)
	}

	// First record is intact.
	u, err := repo.GetUser(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if !u.RequiresTwoFA {
		t.Error("duplicate AddUser corrupted the original record")
	}
	if _, err := repo.ValidateUser(ctx, "a@x.com", "password123"); err != nil {
		t.Errorf("original credentials no longer validate: %v", err)
	}
}

func TestMemoryRepository_ValidateFailures(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	_ = repo.AddUser(ctx, "a@x.com", "password123", false)

	if _, err := repo.ValidateUser(ctx, "a@x.com", "wrongpassword"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("wrong password err = %v, want ErrInvalidCredentials", err)
	}
	if _, err := repo.ValidateUser(ctx, "missing@x.com", "password123"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("unknown email err = %v, want ErrUserNotFound", err)
	}
	if _, err := repo.GetUser(ctx, "missing@x.com"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("GetUser unknown err = %v, want ErrUserNotFound", err)
	}
}

func TestMemoryRepository_ConcurrentSignupSameEmail(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	const n = 8
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = repo.AddUser(ctx, "race@x.com", "password123", false)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, domain.ErrUserAlreadyExists):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 {
		t.Fatalf("%d concurrent signups succeeded, want exactly 1", succeeded)
	}
}
