package repository

import (
	"context"
	"fmt"
	"sync"

	"auth-service/internal/security"
	"auth-service/internal/user/domain"
)

// MemoryRepository is an in-memory user store for tests and ephemeral
// deployments. A single RWMutex guards the map; AddUser holds the write lock
// across the existence check and the insert so two concurrent signups for the
// same email cannot both succeed.
type MemoryRepository struct {
	hasher *security.Hasher

	mu    sync.RWMutex
	users map[domain.Email]domain.User
}

// NewMemoryRepository returns an empty in-memory user store.
func NewMemoryRepository(hasher *security.Hasher) *MemoryRepository {
	return &MemoryRepository{
		hasher: hasher,
		users:  make(map[domain.Email]domain.User),
	}
}

// AddUser hashes password and inserts the user if the email is free.
func (r *MemoryRepository) AddUser(ctx context.Context, email domain.Email, password domain.Password, requiresTwoFA bool) error {
	// Hash outside the lock; argon2 is the expensive part.
	hash, err := r.hasher.Hash(string(password))
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.users[email]; exists {
		return domain.ErrUserAlreadyExists
	}
	r.users[email] = domain.User{
		Email:         email,
		PasswordHash:  hash,
		RequiresTwoFA: requiresTwoFA,
	}
	return nil
}

// GetUser returns a copy of the stored user.
func (r *MemoryRepository) GetUser(ctx context.Context, email domain.Email) (*domain.User, error) {
	r.mu.RLock()
	u, ok := r.users[email]
	r.mu.RUnlock()
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

// ValidateUser verifies password against the stored hash.
func (r *MemoryRepository) ValidateUser(ctx context.Context, email domain.Email, password domain.Password) (*domain.User, error) {
	u, err := r.GetUser(ctx, email)
	if err != nil {
		return nil, err
	}
	ok, err := r.hasher.Verify(u.PasswordHash, string(password))
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}
	return u, nil
}
