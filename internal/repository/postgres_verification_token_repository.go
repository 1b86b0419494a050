package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shobhit-APP/smart-agriculture-backend/internal/domain"
)

// PostgresVerificationTokenRepository implements VerificationTokenRepository using PostgreSQL
type PostgresVerificationTokenRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresVerificationTokenRepository creates a new PostgresVerificationTokenRepository
func NewPostgresVerificationTokenRepository(pool *pgxpool.Pool) *PostgresVerificationTokenRepository {
	return &PostgresVerificationTokenRepository{pool: pool}
}

// Create stores a verification link token
func (r *PostgresVerificationTokenRepository) Create(ctx context.Context, token *domain.VerificationToken) error {
	query := `
		INSERT INTO verification_tokens (token, user_id, expires_at, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.pool.Exec(ctx, query, token.Token, token.UserID, token.ExpiresAt, token.CreatedAt)
	return err
}

// Get retrieves a verification token, nil if absent
func (r *PostgresVerificationTokenRepository) Get(ctx context.Context, token string) (*domain.VerificationToken, error) {
	query := `SELECT token, user_id, expires_at, created_at FROM verification_tokens WHERE token = $1`
	record := &domain.VerificationToken{}
	err := r.pool.QueryRow(ctx, query, token).Scan(
		&record.Token,
		&record.UserID,
		&record.ExpiresAt,
		&record.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return record, nil
}

// Delete removes a verification token so the link cannot be replayed
func (r *PostgresVerificationTokenRepository) Delete(ctx context.Context, token string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM verification_tokens WHERE token = $1`, token)
	return err
}
