// Package domain holds the two-factor challenge value types and record.
package domain

import (
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrChallengeNotFound is returned when an email has no live challenge.
var ErrChallengeNotFound = errors.New("login attempt not found")

// Validation errors reported at parse time, before any store is touched.
var (
	ErrInvalidLoginAttemptID = errors.New("invalid login attempt id")
	ErrInvalidTwoFACode      = errors.New("two-factor code must be exactly 6 digits")
)

// LoginAttemptID is an opaque UUID-shaped identifier minted per login attempt
// that requires a second factor. A replaced challenge invalidates the id it
// carried even if that id was already handed to the caller.
type LoginAttemptID string

// NewLoginAttemptID mints a fresh random attempt id.
func NewLoginAttemptID() LoginAttemptID {
	return LoginAttemptID(uuid.NewString())
}

// ParseLoginAttemptID validates s as a canonical UUID string.
func ParseLoginAttemptID(s string) (LoginAttemptID, error) {
	u, err := uuid.Parse(s)
	if err != nil || u.String() != s {
		return "", ErrInvalidLoginAttemptID
	}
	return LoginAttemptID(s), nil
}

func (id LoginAttemptID) String() string { return string(id) }

// TwoFACode is a 6-digit numeric one-time code.
type TwoFACode string

const twoFACodeDigits = 6

// GenerateTwoFACode returns a fresh random 6-digit code using crypto/rand.
func GenerateTwoFACode() (TwoFACode, error) {
	b := make([]byte, twoFACodeDigits)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	s := make([]byte, twoFACodeDigits)
	for i := range s {
		s[i] = '0' + (b[i] % 10)
	}
	return TwoFACode(s), nil
}

// ParseTwoFACode validates s as exactly six ASCII digits.
func ParseTwoFACode(s string) (TwoFACode, error) {
	if len(s) != twoFACodeDigits {
		return "", ErrInvalidTwoFACode
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return "", ErrInvalidTwoFACode
		}
	}
	return TwoFACode(s), nil
}

func (c TwoFACode) String() string { return string(c) }

// Challenge is the pending second-factor pair for one email. At most one
// Challenge is live per email; issuing a new one replaces the old.
type Challenge struct {
	LoginAttemptID LoginAttemptID
	Code           TwoFACode
}
