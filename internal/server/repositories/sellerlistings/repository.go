// Package sellerlistings records which sellers offer a listing and who holds
// the buybox.
package sellerlistings

import (
	"context"

	"github.com/janusipm/brandvigilante/internal/server/models"
)

type Repository interface {
	FindByID(ctx context.Context, id int64) (*models.SellerListing, error)
	FindBySellerID(ctx context.Context, sellerID int64) ([]*models.SellerListing, error)
	FindByListingID(ctx context.Context, listingID int64) ([]*models.SellerListing, error)
	Create(ctx context.Context, sl *models.SellerListing) (*models.SellerListing, error)
	Update(ctx context.Context, sl *models.SellerListing) (*models.SellerListing, error)
}
