package repository

import (
	"context"
	"sync"
)

// MemoryRepository is an in-process banned-token set. It enforces no TTL:
// entries live for the process lifetime, and a restart clears all tokens
// issued by that process anyway.
type MemoryRepository struct {
	mu     sync.RWMutex
	banned map[string]struct{}
}

// NewMemoryRepository returns an empty in-memory banned-token store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{banned: make(map[string]struct{})}
}

// Ban adds token to the set.
func (r *MemoryRepository) Ban(ctx context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.banned[token] = struct{}{}
	return nil
}

// IsBanned reports membership.
func (r *MemoryRepository) IsBanned(ctx context.Context, token string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.banned[token]
	return ok, nil
}
