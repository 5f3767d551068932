package marketplaces

import (
	"context"

	"github.com/janusipm/brandvigilante/internal/dbx"
	"github.com/janusipm/brandvigilante/internal/server/models"
)

const columns = `id, platform_name, country_code, currency_code, external_id, base_url, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) FindAll(ctx context.Context) ([]*models.Marketplace, error) {
	return dbx.QueryAll[models.Marketplace](ctx, r.db, `SELECT `+columns+` FROM marketplaces ORDER BY platform_name, country_code`)
}

func (r *PostgresRepository) FindByID(ctx context.Context, id int64) (*models.Marketplace, error) {
	return dbx.QueryOne[models.Marketplace](ctx, r.db, `SELECT `+columns+` FROM marketplaces WHERE id = $1`, id)
}

func (r *PostgresRepository) Create(ctx context.Context, m *models.Marketplace) (*models.Marketplace, error) {
	query := `
		INSERT INTO marketplaces (platform_name, country_code, currency_code, external_id, base_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + columns
	return dbx.QueryOne[models.Marketplace](ctx, r.db, query,
		m.PlatformName, m.CountryCode, m.CurrencyCode, m.ExternalID, m.BaseURL)
}

func (r *PostgresRepository) Update(ctx context.Context, m *models.Marketplace) (*models.Marketplace, error) {
	query := `
		UPDATE marketplaces
		SET platform_name = $1, country_code = $2, currency_code = $3, external_id = $4, base_url = $5, updated_at = now()
		WHERE id = $6
		RETURNING ` + columns
	return dbx.QueryOne[models.Marketplace](ctx, r.db, query,
		m.PlatformName, m.CountryCode, m.CurrencyCode, m.ExternalID, m.BaseURL, m.ID)
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	return dbx.ExecOne(ctx, r.db, `DELETE FROM marketplaces WHERE id = $1`, id)
}

func (r *PostgresRepository) Count(ctx context.Context) (int64, error) {
	return dbx.Count(ctx, r.db, `SELECT COUNT(*) FROM marketplaces`)
}
