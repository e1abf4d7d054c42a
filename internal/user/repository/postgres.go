package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"auth-service/internal/security"
	"auth-service/internal/user/domain"
)

// PostgresRepository is the durable user store. The users table carries a
// primary key on email; a unique-violation on insert maps to
// domain.ErrUserAlreadyExists and every other database error is wrapped.
type PostgresRepository struct {
	db     *sql.DB
	hasher *security.Hasher
	tracer trace.Tracer
}

// NewPostgresRepository returns a user repository backed by db.
func NewPostgresRepository(db *sql.DB, hasher *security.Hasher) *PostgresRepository {
	return &PostgresRepository{
		db:     db,
		hasher: hasher,
		tracer: otel.Tracer("auth-service/internal/user/repository"),
	}
}

// AddUser hashes password and inserts the user row. The database unique
// constraint makes the check-and-insert atomic across processes.
func (r *PostgresRepository) AddUser(ctx context.Context, email domain.Email, password domain.Password, requiresTwoFA bool) error {
	ctx, span := r.tracer.Start(ctx, "PostgresRepository.AddUser")
	defer span.End()

	hash, err := r.hasher.Hash(string(password))
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO users (email, password_hash, requires_2fa) VALUES ($1, $2, $3)`,
		email.String(), hash, requiresTwoFA,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return domain.ErrUserAlreadyExists
		}
		span.RecordError(err)
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetUser returns the user row for email or domain.ErrUserNotFound.
func (r *PostgresRepository) GetUser(ctx context.Context, email domain.Email) (*domain.User, error) {
	ctx, span := r.tracer.Start(ctx, "PostgresRepository.GetUser")
	defer span.End()

	var u domain.User
	err := r.db.QueryRowContext(ctx,
		`SELECT email, password_hash, requires_2fa FROM users WHERE email = $1`,
		email.String(),
	).Scan(&u.Email, &u.PasswordHash, &u.RequiresTwoFA)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		span.RecordError(err)
		return nil, fmt.Errorf("select user: %w", err)
	}
	return &u, nil
}

// ValidateUser fetches the user and verifies password against the stored hash.
func (r *PostgresRepository) ValidateUser(ctx context.Context, email domain.Email, password domain.Password) (*domain.User, error) {
	ctx, span := r.tracer.Start(ctx, "PostgresRepository.ValidateUser")
	defer span.End()

	u, err := r.GetUser(ctx, email)
	if err != nil {
		return nil, err
	}
	ok, err := r.hasher.Verify(u.PasswordHash, string(password))
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}
	return u, nil
}
