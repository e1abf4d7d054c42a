// Package domain holds the user credential entity and the validated identity
// value types shared by every store keyed on email.
package domain

import (
	"errors"
	"net/mail"
)

// Sentinel errors for the user store; the orchestrator maps them to its own taxonomy.
var (
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Validation errors reported at value construction, before any store is touched.
var (
	ErrInvalidEmail     = errors.New("invalid email address")
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")
)

// Email is a validated, RFC-shaped email address. It is the unique identity key
// across the user, banned-token, and two-factor stores.
type Email string

// ParseEmail validates s as a bare RFC 5322 address (no display name) and
// returns it as an Email. The address is stored as given; no normalization.
func ParseEmail(s string) (Email, error) {
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return "", ErrInvalidEmail
	}
	return Email(s), nil
}

func (e Email) String() string { return string(e) }

// Password is a raw, pre-hash password. It is never persisted or logged; stores
// hash it before writing anything.
type Password string

// ParsePassword validates the minimum length rule for new and candidate passwords.
func ParsePassword(s string) (Password, error) {
	if len(s) < 8 {
		return "", ErrPasswordTooShort
	}
	return Password(s), nil
}

// User is the credential record owned exclusively by the user store. PasswordHash
// is the PHC-encoded argon2id hash; the raw password never appears here.
type User struct {
	Email         Email
	PasswordHash  string
	RequiresTwoFA bool
}
