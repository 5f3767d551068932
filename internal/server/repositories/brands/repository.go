// Package brands persists brands together with their user and marketplace
// associations.
package brands

import (
	"context"

	"github.com/janusipm/brandvigilante/internal/server/models"
)

type Repository interface {
	FindAll(ctx context.Context) ([]*models.Brand, error)
	FindByID(ctx context.Context, id int64) (*models.Brand, error)
	FindByUserID(ctx context.Context, userID int64) ([]*models.Brand, error)
	Create(ctx context.Context, b *models.Brand) (*models.Brand, error)
	Update(ctx context.Context, b *models.Brand) (*models.Brand, error)
	Delete(ctx context.Context, id int64) error
	CountActive(ctx context.Context) (int64, error)

	AddUsers(ctx context.Context, brandID int64, userIDs []int64) error
	RemoveUsers(ctx context.Context, brandID int64, userIDs []int64) error
	ListUsers(ctx context.Context, brandID int64) ([]*models.User, error)

	AddMarketplaces(ctx context.Context, brandID int64, marketplaceIDs []int64) error
	RemoveMarketplaces(ctx context.Context, brandID int64, marketplaceIDs []int64) error
	ListMarketplaces(ctx context.Context, brandID int64) ([]*models.BrandMarketplace, error)
	SetMarketplaceStatus(ctx context.Context, brandID, marketplaceID int64, status models.Status) error
}
