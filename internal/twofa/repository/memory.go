package repository

import (
	"context"
	"sync"

	"auth-service/internal/twofa/domain"
	userdomain "auth-service/internal/user/domain"
)

// MemoryRepository is a process-lifetime challenge store. Entries live until
// replaced, removed, or the process exits; a single RWMutex guards the map.
type MemoryRepository struct {
	mu         sync.RWMutex
	challenges map[userdomain.Email]domain.Challenge
}

// NewMemoryRepository returns an empty in-memory challenge store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{challenges: make(map[userdomain.Email]domain.Challenge)}
}

// Upsert replaces any live challenge for email.
func (r *MemoryRepository) Upsert(ctx context.Context, email userdomain.Email, id domain.LoginAttemptID, code domain.TwoFACode) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.challenges[email] = domain.Challenge{LoginAttemptID: id, Code: code}
	return nil
}

// Get returns the live challenge for email.
func (r *MemoryRepository) Get(ctx context.Context, email userdomain.Email) (*domain.Challenge, error) {
	r.mu.RLock()
	c, ok := r.challenges[email]
	r.mu.RUnlock()
	if !ok {
		return nil, domain.ErrChallengeNotFound
	}
	return &c, nil
}

// Remove deletes the challenge for email; missing entries are a no-op.
func (r *MemoryRepository) Remove(ctx context.Context, email userdomain.Email) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.challenges, email)
	return nil
}
