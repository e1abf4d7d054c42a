// Package service composes the stores, token codec, and notification sender
// into the login, two-factor, logout, and token verification operations the
// transport layer exposes.
package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"auth-service/internal/email"
	"auth-service/internal/security"
	twofadomain "auth-service/internal/twofa/domain"
	userdomain "auth-service/internal/user/domain"
)

// Sentinel errors for the auth service; the transport maps them to status codes.
// Note there is deliberately no distinction between an unknown email and a
// wrong password (or between an expired, forged, and revoked token): callers
// must not be able to enumerate accounts or probe token state.
var (
	ErrUserAlreadyExists    = errors.New("user already exists")
	ErrIncorrectCredentials = errors.New("incorrect credentials")
	ErrMissingToken         = errors.New("missing token")
	ErrInvalidToken         = errors.New("invalid or expired token")
)

// UserStore is the minimal user repository needed by the auth service.
type UserStore interface {
	AddUser(ctx context.Context, email userdomain.Email, password userdomain.Password, requiresTwoFA bool) error
	ValidateUser(ctx context.Context, email userdomain.Email, password userdomain.Password) (*userdomain.User, error)
}

// TwoFACodeStore is the minimal challenge repository needed by the auth service.
type TwoFACodeStore interface {
	Upsert(ctx context.Context, email userdomain.Email, id twofadomain.LoginAttemptID, code twofadomain.TwoFACode) error
	Get(ctx context.Context, email userdomain.Email) (*twofadomain.Challenge, error)
	Remove(ctx context.Context, email userdomain.Email) error
}

// BannedTokenStore is the minimal revocation repository needed by the auth service.
type BannedTokenStore interface {
	Ban(ctx context.Context, token string) error
	IsBanned(ctx context.Context, token string) (bool, error)
}

// LoginResult is the outcome of Login or VerifyTwoFA. Either Token is set
// (session issued) or TwoFARequired is true and LoginAttemptID identifies the
// pending challenge.
type LoginResult struct {
	Token          string
	ExpiresAt      time.Time
	TwoFARequired  bool
	LoginAttemptID twofadomain.LoginAttemptID
}

// AuthService implements signup, login with optional second factor, logout,
// and token verification over pluggable store backends.
type AuthService struct {
	users        UserStore
	twoFACodes   TwoFACodeStore
	bannedTokens BannedTokenStore
	tokens       *security.TokenProvider
	email        email.Client
	tracer       trace.Tracer
}

// NewAuthService returns an AuthService with the given dependencies.
func NewAuthService(
	users UserStore,
	twoFACodes TwoFACodeStore,
	bannedTokens BannedTokenStore,
	tokens *security.TokenProvider,
	emailClient email.Client,
) *AuthService {
	return &AuthService{
		users:        users,
		twoFACodes:   twoFACodes,
		bannedTokens: bannedTokens,
		tokens:       tokens,
		email:        emailClient,
		tracer:       otel.Tracer("auth-service/internal/auth/service"),
	}
}

// Signup creates a user with the given, already-validated identity values.
func (s *AuthService) Signup(ctx context.Context, em userdomain.Email, password userdomain.Password, requiresTwoFA bool) error {
	ctx, span := s.tracer.Start(ctx, "AuthService.Signup")
	defer span.End()

	if err := s.users.AddUser(ctx, em, password, requiresTwoFA); err != nil {
		if errors.Is(err, userdomain.ErrUserAlreadyExists) {
			return ErrUserAlreadyExists
		}
		return fmt.Errorf("add user: %w", err)
	}
	return nil
}

// Login validates the credentials and either issues a session token or, when
// the user requires a second factor, stores a fresh challenge (replacing any
// prior one for that email), emails the code, and returns the attempt id.
func (s *AuthService) Login(ctx context.Context, em userdomain.Email, password userdomain.Password) (*LoginResult, error) {
	ctx, span := s.tracer.Start(ctx, "AuthService.Login")
	defer span.End()

	user, err := s.users.ValidateUser(ctx, em, password)
	if err != nil {
		if errors.Is(err, userdomain.ErrUserNotFound) || errors.Is(err, userdomain.ErrInvalidCredentials) {
			return nil, ErrIncorrectCredentials
		}
		return nil, fmt.Errorf("validate user: %w", err)
	}

	if !user.RequiresTwoFA {
		return s.issueSession(user.Email)
	}

	attemptID := twofadomain.NewLoginAttemptID()
	code, err := twofadomain.GenerateTwoFACode()
	if err != nil {
		return nil, fmt.Errorf("generate two-factor code: %w", err)
	}
	if err := s.twoFACodes.Upsert(ctx, user.Email, attemptID, code); err != nil {
		return nil, fmt.Errorf("store two-factor challenge: %w", err)
	}
	if err := s.email.Send(ctx, user.Email, "Your verification code", fmt.Sprintf("Your two-factor code is %s", code)); err != nil {
		return nil, fmt.Errorf("send two-factor code: %w", err)
	}

	return &LoginResult{TwoFARequired: true, LoginAttemptID: attemptID}, nil
}

// VerifyTwoFA completes a pending second factor. The supplied attempt id and
// code must exactly match the live challenge; a match consumes the challenge
// before the session token is issued, so the same code cannot be used twice.
func (s *AuthService) VerifyTwoFA(ctx context.Context, em userdomain.Email, attemptID twofadomain.LoginAttemptID, code twofadomain.TwoFACode) (*LoginResult, error) {
	ctx, span := s.tracer.Start(ctx, "AuthService.VerifyTwoFA")
	defer span.End()

	challenge, err := s.twoFACodes.Get(ctx, em)
	if err != nil {
		if errors.Is(err, twofadomain.ErrChallengeNotFound) {
			return nil, ErrIncorrectCredentials
		}
		return nil, fmt.Errorf("fetch two-factor challenge: %w", err)
	}

	codeMatches := subtle.ConstantTimeCompare([]byte(challenge.Code), []byte(code)) == 1
	if challenge.LoginAttemptID != attemptID || !codeMatches {
		return nil, ErrIncorrectCredentials
	}

	if err := s.twoFACodes.Remove(ctx, em); err != nil {
		return nil, fmt.Errorf("consume two-factor challenge: %w", err)
	}
	return s.issueSession(em)
}

// Logout revokes the presented token. The token must still verify (well-formed,
// unexpired, not already banned) before it is banned.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	ctx, span := s.tracer.Start(ctx, "AuthService.Logout")
	defer span.End()

	if token == "" {
		return ErrMissingToken
	}
	if _, err := s.VerifyToken(ctx, token); err != nil {
		return err
	}
	if err := s.bannedTokens.Ban(ctx, token); err != nil {
		return fmt.Errorf("ban token: %w", err)
	}
	return nil
}

// VerifyToken checks signature and expiry via the codec and non-revocation via
// the banned-token store; both must pass. Returns the authenticated email.
func (s *AuthService) VerifyToken(ctx context.Context, token string) (userdomain.Email, error) {
	ctx, span := s.tracer.Start(ctx, "AuthService.VerifyToken")
	defer span.End()

	if token == "" {
		return "", ErrMissingToken
	}
	subject, err := s.tokens.Verify(token)
	if err != nil {
		return "", ErrInvalidToken
	}
	banned, err := s.bannedTokens.IsBanned(ctx, token)
	if err != nil {
		return "", fmt.Errorf("check token revocation: %w", err)
	}
	if banned {
		return "", ErrInvalidToken
	}
	em, err := userdomain.ParseEmail(subject)
	if err != nil {
		return "", ErrInvalidToken
	}
	return em, nil
}

func (s *AuthService) issueSession(em userdomain.Email) (*LoginResult, error) {
	token, expiresAt, err := s.tokens.Issue(em.String())
	if err != nil {
		return nil, fmt.Errorf("issue session token: %w", err)
	}
	return &LoginResult{Token: token, ExpiresAt: expiresAt}, nil
}
