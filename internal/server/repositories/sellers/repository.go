// Package sellers persists third-party marketplace sellers.
package sellers

import (
	"context"

	"github.com/janusipm/brandvigilante/internal/server/models"
)

type Repository interface {
	FindByID(ctx context.Context, id int64) (*models.Seller, error)
	FindByExternalID(ctx context.Context, externalID string) (*models.Seller, error)
	List(ctx context.Context, filter models.CatalogFilter) (*models.Page[models.Seller], error)
	Create(ctx context.Context, s *models.Seller) (*models.Seller, error)
	Update(ctx context.Context, id int64, upd models.SellerUpdate) (*models.Seller, error)
}
