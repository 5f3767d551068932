// Package sessions provides a PostgreSQL-backed store for login sessions
// (the user_session table).
package sessions

import (
	"context"
	"time"

	"github.com/janusipm/brandvigilante/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, id string, userID int64, expires time.Time) (*models.Session, error)
	FindByID(ctx context.Context, id string) (*models.Session, error)
	FindByUserID(ctx context.Context, userID int64) ([]*models.Session, error)
	Delete(ctx context.Context, id string) error
	DeleteByUserID(ctx context.Context, userID int64) (int64, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
