// Package listings persists marketplace listings and their links to the
// trademark terms they infringe.
//
// Writes touch both listings and listing_brand_tmterms, so callers run
// them inside dbx.WithTx.
package listings

import (
	"context"

	"github.com/janusipm/brandvigilante/internal/server/models"
)

type Repository interface {
	List(ctx context.Context, filter models.ListingFilter) (*models.Page[models.ListingDetail], error)
	FindByID(ctx context.Context, id int64) (*models.ListingDetail, error)
	FindByProductID(ctx context.Context, productID int64) ([]*models.Listing, error)
	FindByMarketplaceID(ctx context.Context, marketplaceID int64) ([]*models.Listing, error)
	FindBySellerID(ctx context.Context, sellerID int64) ([]*models.Listing, error)
	FindByTermID(ctx context.Context, termID int64) ([]*models.Listing, error)
	Create(ctx context.Context, l *models.Listing) (*models.Listing, error)
	Update(ctx context.Context, id int64, upd models.ListingUpdate) (*models.Listing, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}
