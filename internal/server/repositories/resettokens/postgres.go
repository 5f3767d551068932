package resettokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/janusipm/brandvigilante/internal/common"
	"github.com/janusipm/brandvigilante/internal/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Upsert replaces any live token for the user.
func (r *PostgresRepository) Upsert(ctx context.Context, userID int64, token string, expires time.Time) error {
	query := `
		INSERT INTO password_reset_tokens (user_id, token, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE
		SET token = EXCLUDED.token, expires_at = EXCLUDED.expires_at, created_at = now()
	`
	if _, err := r.db.ExecContext(ctx, query, userID, token, expires); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// FindValid returns the owning user id of an unexpired token, or
// common.ErrorNotFound for unknown and expired tokens alike.
func (r *PostgresRepository) FindValid(ctx context.Context, token string, now time.Time) (int64, error) {
	return r.findValid(ctx, findValidQuery, token, now)
}

func (r *PostgresRepository) FindValidForUpdate(ctx context.Context, token string, now time.Time) (int64, error) {
	return r.findValid(ctx, findValidQuery+` FOR UPDATE`, token, now)
}

const findValidQuery = `
		SELECT user_id FROM password_reset_tokens
		WHERE token = $1 AND expires_at > $2`

func (r *PostgresRepository) findValid(ctx context.Context, query, token string, now time.Time) (int64, error) {
	var userID int64
	if err := r.db.QueryRowContext(ctx, query, token, now).Scan(&userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, common.ErrorNotFound
		}
		return 0, fmt.Errorf("db error: %w", err)
	}
	return userID, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, token string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM password_reset_tokens WHERE token = $1`, token); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
