package verificationtokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/janusipm/brandvigilante/internal/common"
	"github.com/janusipm/brandvigilante/internal/dbx"
	"github.com/janusipm/brandvigilante/internal/server/models"
)

const columns = `id, user_id, token, expires_at, attempts, created_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a token. The new row inherits the user's current attempt
// count so issuing a fresh token does not reset the resend cap.
func (r *PostgresRepository) Create(ctx context.Context, userID int64, token string, expires time.Time) (*models.VerificationToken, error) {
	query := `
		INSERT INTO verification_tokens (user_id, token, expires_at, attempts)
		SELECT $1, $2, $3, COALESCE(MAX(attempts), 0) FROM verification_tokens WHERE user_id = $1
		RETURNING ` + columns
	return dbx.QueryOne[models.VerificationToken](ctx, r.db, query, userID, token, expires)
}

func (r *PostgresRepository) FindByToken(ctx context.Context, token string) (*models.VerificationToken, error) {
	query := `SELECT ` + columns + ` FROM verification_tokens WHERE token = $1`
	return dbx.QueryOne[models.VerificationToken](ctx, r.db, query, token)
}

func (r *PostgresRepository) FindLatestByUserID(ctx context.Context, userID int64) (*models.VerificationToken, error) {
	query := `SELECT ` + columns + ` FROM verification_tokens WHERE user_id = $1 ORDER BY created_at DESC, id DESC LIMIT 1`
	return dbx.QueryOne[models.VerificationToken](ctx, r.db, query, userID)
}

// Attempts returns the highest attempt count across the user's tokens.
func (r *PostgresRepository) Attempts(ctx context.Context, userID int64) (int, error) {
	n, err := dbx.Count(ctx, r.db, `SELECT COALESCE(MAX(attempts), 0) FROM verification_tokens WHERE user_id = $1`, userID)
	return int(n), err
}

// IncrementAttempts bumps the shared counter on every token the user holds
// and returns the new value. A user with no tokens gets common.ErrorNotFound.
func (r *PostgresRepository) IncrementAttempts(ctx context.Context, userID int64) (int, error) {
	query := `
		UPDATE verification_tokens
		SET attempts = (SELECT COALESCE(MAX(attempts), 0) FROM verification_tokens WHERE user_id = $1) + 1
		WHERE user_id = $1
		RETURNING attempts
	`
	var attempts int
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&attempts); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, common.ErrorNotFound
		}
		return 0, fmt.Errorf("db error: %w", err)
	}
	return attempts, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, token string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM verification_tokens WHERE token = $1`, token); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) DeleteByUserID(ctx context.Context, userID int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM verification_tokens WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
