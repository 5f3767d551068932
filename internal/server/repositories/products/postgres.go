package products

import (
	"context"
	"strconv"
	"strings"

	"github.com/janusipm/brandvigilante/internal/dbx"
	"github.com/janusipm/brandvigilante/internal/server/models"
)

const columns = `id, title, upc, ean, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) FindByID(ctx context.Context, id int64) (*models.Product, error) {
	return dbx.QueryOne[models.Product](ctx, r.db, `SELECT `+columns+` FROM products WHERE id = $1`, id)
}

// FindByUPC returns the oldest product carrying the code; codes are indexed
// but not unique.
func (r *PostgresRepository) FindByUPC(ctx context.Context, upc string) (*models.Product, error) {
	return dbx.QueryOne[models.Product](ctx, r.db, `SELECT `+columns+` FROM products WHERE upc = $1 ORDER BY id LIMIT 1`, upc)
}

func (r *PostgresRepository) FindByEAN(ctx context.Context, ean string) (*models.Product, error) {
	return dbx.QueryOne[models.Product](ctx, r.db, `SELECT `+columns+` FROM products WHERE ean = $1 ORDER BY id LIMIT 1`, ean)
}

func (r *PostgresRepository) List(ctx context.Context, filter models.CatalogFilter) (*models.Page[models.Product], error) {
	page, perPage, offset := models.NormalizePage(filter.Page, filter.PerPage)

	clause := ""
	args := make([]any, 0, 3)
	if s := strings.TrimSpace(filter.Search); s != "" {
		args = append(args, "%"+s+"%")
		clause = ` WHERE title ILIKE $1 OR upc ILIKE $1 OR ean ILIKE $1`
	}

	total, err := dbx.Count(ctx, r.db, `SELECT COUNT(*) FROM products`+clause, args...)
	if err != nil {
		return nil, err
	}

	n := len(args)
	query := `SELECT ` + columns + ` FROM products` + clause +
		` ORDER BY created_at DESC, id DESC LIMIT $` + strconv.Itoa(n+1) + ` OFFSET $` + strconv.Itoa(n+2)
	items, err := dbx.QueryAll[models.Product](ctx, r.db, query, append(args, perPage, offset)...)
	if err != nil {
		return nil, err
	}
	return models.NewPage(items, total, page, perPage), nil
}

func (r *PostgresRepository) Create(ctx context.Context, p *models.Product) (*models.Product, error) {
	query := `INSERT INTO products (title, upc, ean) VALUES ($1, $2, $3) RETURNING ` + columns
	return dbx.QueryOne[models.Product](ctx, r.db, query, p.Title, p.UPC, p.EAN)
}

func (r *PostgresRepository) Update(ctx context.Context, id int64, upd models.ProductUpdate) (*models.Product, error) {
	sets := make([]string, 0, 3)
	args := make([]any, 0, 4)
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, col+" = $"+strconv.Itoa(len(args)))
	}
	if upd.Title != nil {
		add("title", *upd.Title)
	}
	if upd.UPC != nil {
		add("upc", *upd.UPC)
	}
	if upd.EAN != nil {
		add("ean", *upd.EAN)
	}
	if len(sets) == 0 {
		return r.FindByID(ctx, id)
	}

	args = append(args, id)
	query := `UPDATE products SET ` + strings.Join(sets, ", ") + `, updated_at = now()
		WHERE id = $` + strconv.Itoa(len(args)) + `
		RETURNING ` + columns
	return dbx.QueryOne[models.Product](ctx, r.db, query, args...)
}
