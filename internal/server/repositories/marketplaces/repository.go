// Package marketplaces persists the online storefronts listings are found on.
package marketplaces

import (
	"context"

	"github.com/janusipm/brandvigilante/internal/server/models"
)

type Repository interface {
	FindAll(ctx context.Context) ([]*models.Marketplace, error)
	FindByID(ctx context.Context, id int64) (*models.Marketplace, error)
	Create(ctx context.Context, m *models.Marketplace) (*models.Marketplace, error)
	Update(ctx context.Context, m *models.Marketplace) (*models.Marketplace, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}
