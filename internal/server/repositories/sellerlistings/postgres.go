package sellerlistings

import (
	"context"

	"github.com/janusipm/brandvigilante/internal/dbx"
	"github.com/janusipm/brandvigilante/internal/server/models"
)

const columns = `id, seller_id, listing_id, is_buybox_winner, keyword_id, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) FindByID(ctx context.Context, id int64) (*models.SellerListing, error) {
	return dbx.QueryOne[models.SellerListing](ctx, r.db, `SELECT `+columns+` FROM seller_listings WHERE id = $1`, id)
}

func (r *PostgresRepository) FindBySellerID(ctx context.Context, sellerID int64) ([]*models.SellerListing, error) {
	return dbx.QueryAll[models.SellerListing](ctx, r.db,
		`SELECT `+columns+` FROM seller_listings WHERE seller_id = $1 ORDER BY updated_at DESC`, sellerID)
}

// FindByListingID lists the offers on a listing, buybox winner first.
func (r *PostgresRepository) FindByListingID(ctx context.Context, listingID int64) ([]*models.SellerListing, error) {
	return dbx.QueryAll[models.SellerListing](ctx, r.db,
		`SELECT `+columns+` FROM seller_listings WHERE listing_id = $1 ORDER BY is_buybox_winner DESC, updated_at DESC`, listingID)
}

func (r *PostgresRepository) Create(ctx context.Context, sl *models.SellerListing) (*models.SellerListing, error) {
	query := `
		INSERT INTO seller_listings (seller_id, listing_id, is_buybox_winner, keyword_id)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + columns
	return dbx.QueryOne[models.SellerListing](ctx, r.db, query, sl.SellerID, sl.ListingID, sl.IsBuyboxWinner, sl.KeywordID)
}

func (r *PostgresRepository) Update(ctx context.Context, sl *models.SellerListing) (*models.SellerListing, error) {
	query := `
		UPDATE seller_listings
		SET seller_id = $1, listing_id = $2, is_buybox_winner = $3, keyword_id = $4, updated_at = now()
		WHERE id = $5
		RETURNING ` + columns
	return dbx.QueryOne[models.SellerListing](ctx, r.db, query, sl.SellerID, sl.ListingID, sl.IsBuyboxWinner, sl.KeywordID, sl.ID)
}
