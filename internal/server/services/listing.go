package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/janusipm/brandvigilante/internal/common"
	"github.com/janusipm/brandvigilante/internal/dbx"
	"github.com/janusipm/brandvigilante/internal/server/models"
	"github.com/janusipm/brandvigilante/internal/server/repositories/repomanager"
	"github.com/janusipm/brandvigilante/internal/server/validation"
)

// ListingService writes listings together with their trademark-term links,
// each write in one transaction.
type ListingService struct {
	db           *sql.DB
	repomanager  repomanager.RepositoryManager
	activity     *ActivityService
	queryTimeout time.Duration
}

// NewListingService wires the service. Reads are bounded by queryTimeout;
// zero disables the bound.
func NewListingService(db *sql.DB, m repomanager.RepositoryManager, activity *ActivityService, queryTimeout time.Duration) *ListingService {
	return &ListingService{db: db, repomanager: m, activity: activity, queryTimeout: queryTimeout}
}

// List returns one page of listings matching filter.
func (s *ListingService) List(ctx context.Context, filter models.ListingFilter) (*models.Page[models.ListingDetail], error) {
	var page *models.Page[models.ListingDetail]
	err := dbx.WithTimeout(ctx, s.queryTimeout, func(ctx context.Context) error {
		var err error
		page, err = s.repomanager.Listings(s.db).List(ctx, filter)
		return err
	})
	return page, err
}

// Get returns the listing joined with its product, marketplace and seller.
func (s *ListingService) Get(ctx context.Context, id int64) (*models.ListingDetail, error) {
	return s.repomanager.Listings(s.db).FindByID(ctx, id)
}

func (s *ListingService) ForProduct(ctx context.Context, productID int64) ([]*models.Listing, error) {
	return s.repomanager.Listings(s.db).FindByProductID(ctx, productID)
}

func (s *ListingService) ForSeller(ctx context.Context, sellerID int64) ([]*models.Listing, error) {
	return s.repomanager.Listings(s.db).FindBySellerID(ctx, sellerID)
}

func (s *ListingService) ForTerm(ctx context.Context, termID int64) ([]*models.Listing, error) {
	return s.repomanager.Listings(s.db).FindByTermID(ctx, termID)
}

func (s *ListingService) Create(ctx context.Context, actorID int64, in *validation.ListingInput) (*models.Listing, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	var created *models.Listing
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.checkRefs(ctx, tx, &in.ProductID, &in.MarketplaceID, in.SellerID, in.BrandTmtermIDs); err != nil {
			return err
		}
		var err error
		created, err = s.repomanager.Listings(tx).Create(ctx, in.Listing())
		return err
	})
	if err != nil {
		return nil, err
	}

	s.activity.Record(ctx, actorID, models.EntityListing, created.ID, ActionCreated, "url=%s terms=%v", created.URL, created.BrandTmtermIDs)
	return created, nil
}

// Update applies a partial update. Term links are replaced only when the
// input carries a term id list.
func (s *ListingService) Update(ctx context.Context, actorID, id int64, in *validation.ListingPatchInput) (*models.Listing, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	var updated *models.Listing
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.checkRefs(ctx, tx, in.ProductID, in.MarketplaceID, in.SellerID, in.BrandTmtermIDs); err != nil {
			return err
		}
		var err error
		updated, err = s.repomanager.Listings(tx).Update(ctx, id, in.Update())
		return err
	})
	if err != nil {
		return nil, err
	}

	s.activity.Record(ctx, actorID, models.EntityListing, id, ActionUpdated, "url=%s terms=%v", updated.URL, updated.BrandTmtermIDs)
	return updated, nil
}

// Delete removes a listing and its term links in one transaction.
func (s *ListingService) Delete(ctx context.Context, actorID, id int64) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return s.repomanager.Listings(tx).Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	s.activity.Record(ctx, actorID, models.EntityListing, id, ActionDeleted, "")
	return nil
}

// checkRefs turns dangling foreign keys into field errors. Nil ids are not
// checked.
func (s *ListingService) checkRefs(ctx context.Context, tx dbx.DBTX, productID, marketplaceID, sellerID *int64, termIDs []int64) error {
	verrs := validation.Errors{}
	missing := func(field, msg string, err error) error {
		if errors.Is(err, common.ErrorNotFound) {
			verrs.Add(field, msg)
			return nil
		}
		return err
	}

	if productID != nil {
		if _, err := s.repomanager.Products(tx).FindByID(ctx, *productID); err != nil {
			if err := missing("product_id", "Selected product does not exist", err); err != nil {
				return err
			}
		}
	}
	if marketplaceID != nil {
		if _, err := s.repomanager.Marketplaces(tx).FindByID(ctx, *marketplaceID); err != nil {
			if err := missing("marketplace_id", "Selected marketplace does not exist", err); err != nil {
				return err
			}
		}
	}
	if sellerID != nil {
		if _, err := s.repomanager.Sellers(tx).FindByID(ctx, *sellerID); err != nil {
			if err := missing("seller_id", "Selected seller does not exist", err); err != nil {
				return err
			}
		}
	}
	for _, id := range termIDs {
		if _, err := s.repomanager.Terms(tx).FindByID(ctx, id); err != nil {
			if err := missing("brand_tmterm_ids", fmt.Sprintf("Trademark term %d does not exist", id), err); err != nil {
				return err
			}
		}
	}

	if len(verrs) > 0 {
		return verrs
	}
	return nil
}
