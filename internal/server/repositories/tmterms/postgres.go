package tmterms

import (
	"context"
	"fmt"

	"github.com/janusipm/brandvigilante/internal/common"
	"github.com/janusipm/brandvigilante/internal/dbx"
	"github.com/janusipm/brandvigilante/internal/server/models"
)

const selectTerms = `
	SELECT t.id, t.brand_id, t.term, t.created_at, t.updated_at, b.name
	FROM brand_tmterms t
	JOIN brands b ON b.id = t.brand_id`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) FindAll(ctx context.Context) ([]*models.TrademarkTerm, error) {
	return dbx.QueryAll[models.TrademarkTerm](ctx, r.db, selectTerms+` ORDER BY b.name, t.term`)
}

func (r *PostgresRepository) FindByID(ctx context.Context, id int64) (*models.TrademarkTerm, error) {
	return dbx.QueryOne[models.TrademarkTerm](ctx, r.db, selectTerms+` WHERE t.id = $1`, id)
}

func (r *PostgresRepository) FindByBrandID(ctx context.Context, brandID int64) ([]*models.TrademarkTerm, error) {
	return dbx.QueryAll[models.TrademarkTerm](ctx, r.db, selectTerms+` WHERE t.brand_id = $1 ORDER BY t.term`, brandID)
}

// Create inserts the term; a duplicate (brand, term) pair yields
// common.ErrorAlreadyExists.
func (r *PostgresRepository) Create(ctx context.Context, brandID int64, term string) (*models.TrademarkTerm, error) {
	var id int64
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO brand_tmterms (brand_id, term) VALUES ($1, $2) RETURNING id`,
		brandID, term,
	).Scan(&id)
	if err != nil {
		return nil, dbx.WrapWriteErr(err)
	}
	return r.FindByID(ctx, id)
}

func (r *PostgresRepository) Update(ctx context.Context, id, brandID int64, term string) (*models.TrademarkTerm, error) {
	query := `UPDATE brand_tmterms SET brand_id = $1, term = $2, updated_at = now() WHERE id = $3`
	res, err := r.db.ExecContext(ctx, query, brandID, term, id)
	if err != nil {
		return nil, dbx.WrapWriteErr(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return nil, common.ErrorNotFound
	}
	return r.FindByID(ctx, id)
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	return dbx.ExecOne(ctx, r.db, `DELETE FROM brand_tmterms WHERE id = $1`, id)
}

func (r *PostgresRepository) Exists(ctx context.Context, brandID int64, term string, excludeID int64) (bool, error) {
	n, err := dbx.Count(ctx, r.db,
		`SELECT COUNT(*) FROM brand_tmterms WHERE brand_id = $1 AND term = $2 AND id <> $3`,
		brandID, term, excludeID)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *PostgresRepository) Count(ctx context.Context) (int64, error) {
	return dbx.Count(ctx, r.db, `SELECT COUNT(*) FROM brand_tmterms`)
}
