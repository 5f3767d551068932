// Package activitylogs records an audit trail of changes made through the
// admin surface.
package activitylogs

import (
	"context"

	"github.com/janusipm/brandvigilante/internal/server/models"
)

const DefaultRecentLimit = 50

type Repository interface {
	Create(ctx context.Context, entry *models.ActivityLog) (*models.ActivityLog, error)
	FindByEntity(ctx context.Context, entityType models.EntityType, entityID int64) ([]*models.ActivityLog, error)
	FindByUserID(ctx context.Context, userID int64) ([]*models.ActivityLog, error)
	// FindRecent returns the newest entries; limit <= 0 means DefaultRecentLimit.
	FindRecent(ctx context.Context, limit int) ([]*models.ActivityLog, error)
}
