// Package keywords persists the search keywords used to discover listings.
package keywords

import (
	"context"

	"github.com/janusipm/brandvigilante/internal/server/models"
)

type Repository interface {
	FindAll(ctx context.Context) ([]*models.Keyword, error)
	FindByBrandID(ctx context.Context, brandID int64) ([]*models.Keyword, error)
	FindByID(ctx context.Context, id int64) (*models.Keyword, error)
	Create(ctx context.Context, k *models.Keyword) (*models.Keyword, error)
	Update(ctx context.Context, k *models.Keyword) (*models.Keyword, error)
	Delete(ctx context.Context, id int64) error
}
