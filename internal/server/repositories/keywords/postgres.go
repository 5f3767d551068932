package keywords

import (
	"context"

	"github.com/janusipm/brandvigilante/internal/dbx"
	"github.com/janusipm/brandvigilante/internal/server/models"
)

const columns = `id, keyword_text, brand_id, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) FindAll(ctx context.Context) ([]*models.Keyword, error) {
	return dbx.QueryAll[models.Keyword](ctx, r.db, `SELECT `+columns+` FROM keywords ORDER BY keyword_text`)
}

func (r *PostgresRepository) FindByBrandID(ctx context.Context, brandID int64) ([]*models.Keyword, error) {
	return dbx.QueryAll[models.Keyword](ctx, r.db, `SELECT `+columns+` FROM keywords WHERE brand_id = $1 ORDER BY keyword_text`, brandID)
}

func (r *PostgresRepository) FindByID(ctx context.Context, id int64) (*models.Keyword, error) {
	return dbx.QueryOne[models.Keyword](ctx, r.db, `SELECT `+columns+` FROM keywords WHERE id = $1`, id)
}

func (r *PostgresRepository) Create(ctx context.Context, k *models.Keyword) (*models.Keyword, error) {
	query := `INSERT INTO keywords (keyword_text, brand_id) VALUES ($1, $2) RETURNING ` + columns
	return dbx.QueryOne[models.Keyword](ctx, r.db, query, k.KeywordText, k.BrandID)
}

func (r *PostgresRepository) Update(ctx context.Context, k *models.Keyword) (*models.Keyword, error) {
	query := `UPDATE keywords SET keyword_text = $1, brand_id = $2, updated_at = now() WHERE id = $3 RETURNING ` + columns
	return dbx.QueryOne[models.Keyword](ctx, r.db, query, k.KeywordText, k.BrandID, k.ID)
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	return dbx.ExecOne(ctx, r.db, `DELETE FROM keywords WHERE id = $1`, id)
}
