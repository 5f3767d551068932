// Package products persists the catalog of products listings refer to.
package products

import (
	"context"

	"github.com/janusipm/brandvigilante/internal/server/models"
)

type Repository interface {
	FindByID(ctx context.Context, id int64) (*models.Product, error)
	FindByUPC(ctx context.Context, upc string) (*models.Product, error)
	FindByEAN(ctx context.Context, ean string) (*models.Product, error)
	List(ctx context.Context, filter models.CatalogFilter) (*models.Page[models.Product], error)
	Create(ctx context.Context, p *models.Product) (*models.Product, error)
	Update(ctx context.Context, id int64, upd models.ProductUpdate) (*models.Product, error)
}
