// Package tmterms stores the trademark terms registered under each brand.
package tmterms

import (
	"context"

	"github.com/janusipm/brandvigilante/internal/server/models"
)

type Repository interface {
	FindAll(ctx context.Context) ([]*models.TrademarkTerm, error)
	FindByID(ctx context.Context, id int64) (*models.TrademarkTerm, error)
	FindByBrandID(ctx context.Context, brandID int64) ([]*models.TrademarkTerm, error)
	Create(ctx context.Context, brandID int64, term string) (*models.TrademarkTerm, error)
	Update(ctx context.Context, id, brandID int64, term string) (*models.TrademarkTerm, error)
	Delete(ctx context.Context, id int64) error
	// Exists reports whether brandID already owns term, ignoring excludeID
	// (pass 0 to check every row).
	Exists(ctx context.Context, brandID int64, term string, excludeID int64) (bool, error)
	Count(ctx context.Context) (int64, error)
}
