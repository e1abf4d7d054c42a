package repository

import (
	"context"
	"time"

	"auth-service/internal/twofa/domain"
	userdomain "auth-service/internal/user/domain"
)

// Repository defines persistence for pending two-factor challenges, keyed by
// email. Last write wins: Upsert replaces any live challenge for the email,
// which is what invalidates a previously issued attempt id.
type Repository interface {
	// Upsert stores the challenge for email, unconditionally replacing any
	// existing one.
	Upsert(ctx context.Context, email userdomain.Email, id domain.LoginAttemptID, code domain.TwoFACode) error
	// Get returns the live challenge for email or domain.ErrChallengeNotFound.
	Get(ctx context.Context, email userdomain.Email) (*domain.Challenge, error)
	// Remove deletes the challenge for email. Removing a missing entry succeeds.
	Remove(ctx context.Context, email userdomain.Email) error
}

// DefaultChallengeTTL is how long a TTL-capable backend keeps a challenge alive.
const DefaultChallengeTTL = 10 * time.Minute
