package activitylogs

import (
	"context"

	"github.com/janusipm/brandvigilante/internal/dbx"
	"github.com/janusipm/brandvigilante/internal/server/models"
)

const columns = `id, entity_type, entity_id, action, details, user_id, created_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, entry *models.ActivityLog) (*models.ActivityLog, error) {
	query := `
		INSERT INTO activity_logs (entity_type, entity_id, action, details, user_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + columns
	return dbx.QueryOne[models.ActivityLog](ctx, r.db, query,
		entry.EntityType, entry.EntityID, entry.Action, entry.Details, entry.UserID)
}

func (r *PostgresRepository) FindByEntity(ctx context.Context, entityType models.EntityType, entityID int64) ([]*models.ActivityLog, error) {
	return dbx.QueryAll[models.ActivityLog](ctx, r.db,
		`SELECT `+columns+` FROM activity_logs WHERE entity_type = $1 AND entity_id = $2 ORDER BY created_at DESC, id DESC`,
		entityType, entityID)
}

func (r *PostgresRepository) FindByUserID(ctx context.Context, userID int64) ([]*models.ActivityLog, error) {
	return dbx.QueryAll[models.ActivityLog](ctx, r.db,
		`SELECT `+columns+` FROM activity_logs WHERE user_id = $1 ORDER BY created_at DESC, id DESC`, userID)
}

func (r *PostgresRepository) FindRecent(ctx context.Context, limit int) ([]*models.ActivityLog, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	return dbx.QueryAll[models.ActivityLog](ctx, r.db,
		`SELECT `+columns+` FROM activity_logs ORDER BY created_at DESC, id DESC LIMIT $1`, limit)
}
