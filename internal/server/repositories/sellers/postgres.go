package sellers

import (
	"context"
	"strconv"
	"strings"

	"github.com/janusipm/brandvigilante/internal/common"
	"github.com/janusipm/brandvigilante/internal/dbx"
	"github.com/janusipm/brandvigilante/internal/server/models"
)

const columns = `id, external_seller_id, seller_name, seller_url, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) FindByID(ctx context.Context, id int64) (*models.Seller, error) {
	return dbx.QueryOne[models.Seller](ctx, r.db, `SELECT `+columns+` FROM sellers WHERE id = $1`, id)
}

func (r *PostgresRepository) FindByExternalID(ctx context.Context, externalID string) (*models.Seller, error) {
	return dbx.QueryOne[models.Seller](ctx, r.db, `SELECT `+columns+` FROM sellers WHERE external_seller_id = $1`, externalID)
}

func (r *PostgresRepository) List(ctx context.Context, filter models.CatalogFilter) (*models.Page[models.Seller], error) {
	page, perPage, offset := models.NormalizePage(filter.Page, filter.PerPage)

	clause := ""
	args := make([]any, 0, 3)
	if s := strings.TrimSpace(filter.Search); s != "" {
		args = append(args, "%"+s+"%")
		clause = ` WHERE seller_name ILIKE $1 OR external_seller_id ILIKE $1`
	}

	total, err := dbx.Count(ctx, r.db, `SELECT COUNT(*) FROM sellers`+clause, args...)
	if err != nil {
		return nil, err
	}

	n := len(args)
	query := `SELECT ` + columns + ` FROM sellers` + clause +
		` ORDER BY seller_name LIMIT $` + strconv.Itoa(n+1) + ` OFFSET $` + strconv.Itoa(n+2)
	items, err := dbx.QueryAll[models.Seller](ctx, r.db, query, append(args, perPage, offset)...)
	if err != nil {
		return nil, err
	}
	return models.NewPage(items, total, page, perPage), nil
}

// Create inserts a seller; the external seller id is unique.
func (r *PostgresRepository) Create(ctx context.Context, s *models.Seller) (*models.Seller, error) {
	query := `
		INSERT INTO sellers (external_seller_id, seller_name, seller_url)
		VALUES ($1, $2, $3)
		RETURNING ` + columns
	created, err := dbx.QueryOne[models.Seller](ctx, r.db, query, s.ExternalSellerID, s.SellerName, s.SellerURL)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, err
	}
	return created, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id int64, upd models.SellerUpdate) (*models.Seller, error) {
	sets := make([]string, 0, 3)
	args := make([]any, 0, 4)
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, col+" = $"+strconv.Itoa(len(args)))
	}
	if upd.ExternalSellerID != nil {
		add("external_seller_id", *upd.ExternalSellerID)
	}
	if upd.SellerName != nil {
		add("seller_name", *upd.SellerName)
	}
	if upd.SellerURL != nil {
		add("seller_url", *upd.SellerURL)
	}
	if len(sets) == 0 {
		return r.FindByID(ctx, id)
	}

	args = append(args, id)
	query := `UPDATE sellers SET ` + strings.Join(sets, ", ") + `, updated_at = now()
		WHERE id = $` + strconv.Itoa(len(args)) + `
		RETURNING ` + columns
	updated, err := dbx.QueryOne[models.Seller](ctx, r.db, query, args...)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, err
	}
	return updated, nil
}
