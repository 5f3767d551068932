package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/janusipm/brandvigilante/internal/logging"
	"github.com/janusipm/brandvigilante/internal/server/models"
	"github.com/janusipm/brandvigilante/internal/server/repositories/repomanager"
)

// Activity actions recorded by the admin services.
const (
	ActionCreated             = "created"
	ActionUpdated             = "updated"
	ActionDeleted             = "deleted"
	ActionUsersAdded          = "users_added"
	ActionUsersRemoved        = "users_removed"
	ActionMarketplacesAdded   = "marketplaces_added"
	ActionMarketplacesRemoved = "marketplaces_removed"
	ActionStatusChanged       = "status_changed"
)

// ActivityService writes and reads the audit trail.
type ActivityService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	log         logging.Logger
}

// NewActivityService wires the service; a nil logger discards output.
func NewActivityService(db *sql.DB, m repomanager.RepositoryManager, log logging.Logger) *ActivityService {
	if log == nil {
		log = logging.Nop{}
	}
	return &ActivityService{db: db, repomanager: m, log: log}
}

// Recent returns the newest limit entries.
func (s *ActivityService) Recent(ctx context.Context, limit int) ([]*models.ActivityLog, error) {
	return s.repomanager.ActivityLogs(s.db).FindRecent(ctx, limit)
}

// ForEntity returns the history of one record.
func (s *ActivityService) ForEntity(ctx context.Context, entity models.EntityType, id int64) ([]*models.ActivityLog, error) {
	return s.repomanager.ActivityLogs(s.db).FindByEntity(ctx, entity, id)
}

// ForUser returns what userID has done.
func (s *ActivityService) ForUser(ctx context.Context, userID int64) ([]*models.ActivityLog, error) {
	return s.repomanager.ActivityLogs(s.db).FindByUserID(ctx, userID)
}

// Record writes one entry. A failure is logged and otherwise ignored: the
// mutation being described has already happened.
func (s *ActivityService) Record(ctx context.Context, actorID int64, entity models.EntityType, entityID int64, action, format string, args ...any) {
	entry := &models.ActivityLog{EntityType: entity, EntityID: entityID, Action: action}
	if actorID > 0 {
		entry.UserID = &actorID
	}
	if format != "" {
		details := fmt.Sprintf(format, args...)
		entry.Details = &details
	}
	if _, err := s.repomanager.ActivityLogs(s.db).Create(ctx, entry); err != nil {
		s.log.Error(ctx, "activity log write failed", "error", err, "entity", entity, "entity_id", entityID, "action", action)
	}
}
