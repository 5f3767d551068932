// Package users provides persistence for user identity records.
package users

import (
	"context"

	"github.com/janusipm/brandvigilante/internal/server/models"
)

type Repository interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByGoogleID(ctx context.Context, googleID string) (*models.User, error)
	Create(ctx context.Context, user *models.User) (*models.User, error)
	Update(ctx context.Context, id int64, upd models.UserUpdate) (*models.User, error)
	UpdatePassword(ctx context.Context, id int64, hash string) error
	LinkGoogle(ctx context.Context, id int64, googleID string) (*models.User, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter models.UserFilter) (*models.Page[models.User], error)
	Count(ctx context.Context) (int64, error)
}
