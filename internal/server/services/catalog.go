package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/janusipm/brandvigilante/internal/common"
	"github.com/janusipm/brandvigilante/internal/server/models"
	"github.com/janusipm/brandvigilante/internal/server/repositories/repomanager"
	"github.com/janusipm/brandvigilante/internal/server/validation"
)

// CatalogService serves the scraped-catalog entities: sellers, the
// seller/listing offers, products and search keywords.
type CatalogService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

// NewCatalogService wires the service.
func NewCatalogService(db *sql.DB, m repomanager.RepositoryManager) *CatalogService {
	return &CatalogService{db: db, repomanager: m}
}

// ListSellers returns one page of sellers matching filter.
func (s *CatalogService) ListSellers(ctx context.Context, filter models.CatalogFilter) (*models.Page[models.Seller], error) {
	return s.repomanager.Sellers(s.db).List(ctx, filter)
}

func (s *CatalogService) GetSeller(ctx context.Context, id int64) (*models.Seller, error) {
	return s.repomanager.Sellers(s.db).FindByID(ctx, id)
}

func (s *CatalogService) CreateSeller(ctx context.Context, in *validation.SellerInput) (*models.Seller, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	seller, err := s.repomanager.Sellers(s.db).Create(ctx, &models.Seller{
		ExternalSellerID: in.ExternalSellerID,
		SellerName:       in.SellerName,
		SellerURL:        in.SellerURL,
	})
	if errors.Is(err, common.ErrorAlreadyExists) {
		return nil, validation.Field("external_seller_id", "A seller with this external id already exists")
	}
	return seller, err
}

func (s *CatalogService) UpdateSeller(ctx context.Context, id int64, in *validation.SellerInput) (*models.Seller, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	seller, err := s.repomanager.Sellers(s.db).Update(ctx, id, models.SellerUpdate{
		ExternalSellerID: &in.ExternalSellerID,
		SellerName:       &in.SellerName,
		SellerURL:        in.SellerURL,
	})
	if errors.Is(err, common.ErrorAlreadyExists) {
		return nil, validation.Field("external_seller_id", "A seller with this external id already exists")
	}
	return seller, err
}

func (s *CatalogService) SellerOffers(ctx context.Context, sellerID int64) ([]*models.SellerListing, error) {
	return s.repomanager.SellerListings(s.db).FindBySellerID(ctx, sellerID)
}

func (s *CatalogService) ListingOffers(ctx context.Context, listingID int64) ([]*models.SellerListing, error) {
	return s.repomanager.SellerListings(s.db).FindByListingID(ctx, listingID)
}

func (s *CatalogService) CreateOffer(ctx context.Context, in *validation.SellerListingInput) (*models.SellerListing, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	return s.repomanager.SellerListings(s.db).Create(ctx, &models.SellerListing{
		SellerID:       in.SellerID,
		ListingID:      in.ListingID,
		IsBuyboxWinner: in.IsBuyboxWinner,
		KeywordID:      in.KeywordID,
	})
}

func (s *CatalogService) UpdateOffer(ctx context.Context, id int64, in *validation.SellerListingInput) (*models.SellerListing, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	return s.repomanager.SellerListings(s.db).Update(ctx, &models.SellerListing{
		ID:             id,
		SellerID:       in.SellerID,
		ListingID:      in.ListingID,
		IsBuyboxWinner: in.IsBuyboxWinner,
		KeywordID:      in.KeywordID,
	})
}

// ListProducts returns one page of products matching filter.
func (s *CatalogService) ListProducts(ctx context.Context, filter models.CatalogFilter) (*models.Page[models.Product], error) {
	return s.repomanager.Products(s.db).List(ctx, filter)
}

func (s *CatalogService) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	return s.repomanager.Products(s.db).FindByID(ctx, id)
}

// FindProductByCode looks a product up by UPC, then by EAN.
func (s *CatalogService) FindProductByCode(ctx context.Context, code string) (*models.Product, error) {
	repo := s.repomanager.Products(s.db)
	p, err := repo.FindByUPC(ctx, code)
	if errors.Is(err, common.ErrorNotFound) {
		return repo.FindByEAN(ctx, code)
	}
	return p, err
}

func (s *CatalogService) CreateProduct(ctx context.Context, in *validation.ProductInput) (*models.Product, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	return s.repomanager.Products(s.db).Create(ctx, &models.Product{Title: in.Title, UPC: in.UPC, EAN: in.EAN})
}

func (s *CatalogService) UpdateProduct(ctx context.Context, id int64, in *validation.ProductInput) (*models.Product, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	return s.repomanager.Products(s.db).Update(ctx, id, models.ProductUpdate{Title: &in.Title, UPC: in.UPC, EAN: in.EAN})
}

// ListKeywords returns every keyword, or only a brand's when brandID > 0.
func (s *CatalogService) ListKeywords(ctx context.Context, brandID int64) ([]*models.Keyword, error) {
	repo := s.repomanager.Keywords(s.db)
	if brandID > 0 {
		return repo.FindByBrandID(ctx, brandID)
	}
	return repo.FindAll(ctx)
}

func (s *CatalogService) GetKeyword(ctx context.Context, id int64) (*models.Keyword, error) {
	return s.repomanager.Keywords(s.db).FindByID(ctx, id)
}

func (s *CatalogService) CreateKeyword(ctx context.Context, in *validation.KeywordInput) (*models.Keyword, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	return s.repomanager.Keywords(s.db).Create(ctx, &models.Keyword{KeywordText: in.KeywordText, BrandID: in.BrandID})
}

func (s *CatalogService) UpdateKeyword(ctx context.Context, id int64, in *validation.KeywordInput) (*models.Keyword, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	return s.repomanager.Keywords(s.db).Update(ctx, &models.Keyword{ID: id, KeywordText: in.KeywordText, BrandID: in.BrandID})
}

func (s *CatalogService) DeleteKeyword(ctx context.Context, id int64) error {
	return s.repomanager.Keywords(s.db).Delete(ctx, id)
}
