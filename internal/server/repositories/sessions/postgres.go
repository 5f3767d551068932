package sessions

import (
	"context"
	"fmt"
	"time"

	"github.com/janusipm/brandvigilante/internal/dbx"
	"github.com/janusipm/brandvigilante/internal/server/models"
)

const columns = `id, user_id, active_expires, created_at`

// PostgresRepository implements Repository over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a session row with an absolute expiry.
func (r *PostgresRepository) Create(ctx context.Context, id string, userID int64, expires time.Time) (*models.Session, error) {
	query := `
		INSERT INTO user_session (id, user_id, active_expires)
		VALUES ($1, $2, $3)
		RETURNING ` + columns
	return dbx.QueryOne[models.Session](ctx, r.db, query, id, userID, expires)
}

// FindByID returns the session or common.ErrorNotFound. Expiry is not
// checked here; callers decide what an expired row means.
func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*models.Session, error) {
	query := `SELECT ` + columns + ` FROM user_session WHERE id = $1`
	return dbx.QueryOne[models.Session](ctx, r.db, query, id)
}

func (r *PostgresRepository) FindByUserID(ctx context.Context, userID int64) ([]*models.Session, error) {
	query := `SELECT ` + columns + ` FROM user_session WHERE user_id = $1 ORDER BY created_at DESC`
	return dbx.QueryAll[models.Session](ctx, r.db, query, userID)
}

// Delete removes a session. Deleting a missing session is not an error so
// that logout stays idempotent.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM user_session WHERE id = $1`, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) DeleteByUserID(ctx context.Context, userID int64) (int64, error) {
	return dbx.Exec(ctx, r.db, `DELETE FROM user_session WHERE user_id = $1`, userID)
}

// DeleteExpired removes every session whose expiry is at or before now.
func (r *PostgresRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	return dbx.Exec(ctx, r.db, `DELETE FROM user_session WHERE active_expires <= $1`, now)
}
