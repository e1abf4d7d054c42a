package repository

import (
	"context"

	"auth-service/internal/user/domain"
)

// Repository defines persistence for user credentials. Implementations own the
// password hashing: AddUser stores a hash, ValidateUser verifies the candidate
// against it. Error taxonomy is the domain sentinel set; any backend failure
// outside it surfaces wrapped as an unexpected error.
type Repository interface {
	// AddUser creates the user keyed by email. Returns domain.ErrUserAlreadyExists
	// when the email is taken; the existence check and insert are atomic.
	AddUser(ctx context.Context, email domain.Email, password domain.Password, requiresTwoFA bool) error
	// GetUser returns the user for email or domain.ErrUserNotFound.
	GetUser(ctx context.Context, email domain.Email) (*domain.User, error)
	// ValidateUser returns the user when password matches. A missing user and a
	// wrong password are distinguishable here (ErrUserNotFound vs
	// ErrInvalidCredentials); callers must collapse them before responding.
	ValidateUser(ctx context.Context, email domain.Email, password domain.Password) (*domain.User, error)
}
