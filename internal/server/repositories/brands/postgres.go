package brands

import (
	"context"
	"strconv"
	"strings"

	"github.com/janusipm/brandvigilante/internal/dbx"
	"github.com/janusipm/brandvigilante/internal/server/models"
)

const (
	columns       = `b.id, b.name, b.display_name, b.url, b.description, b.status, b.created_at, b.updated_at`
	termColumns   = `t.id, t.brand_id, t.term, t.created_at, t.updated_at, b.name`
	userColumns   = `u.id, u.first_name, u.last_name, u.email, u.password, u.phone, u.role, u.email_verified, u.google_user_id, u.created_at, u.updated_at`
	marketColumns = `m.id, m.platform_name, m.country_code, m.currency_code, m.external_id, m.base_url, m.created_at, m.updated_at, bm.status`
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// FindAll returns every brand, ordered by name, with its trademark terms.
func (r *PostgresRepository) FindAll(ctx context.Context) ([]*models.Brand, error) {
	list, err := dbx.QueryAll[models.Brand](ctx, r.db, `SELECT `+columns+` FROM brands b ORDER BY b.name`)
	if err != nil {
		return nil, err
	}
	return list, r.attachTerms(ctx, list)
}

func (r *PostgresRepository) FindByID(ctx context.Context, id int64) (*models.Brand, error) {
	b, err := dbx.QueryOne[models.Brand](ctx, r.db, `SELECT `+columns+` FROM brands b WHERE b.id = $1`, id)
	if err != nil {
		return nil, err
	}
	return b, r.attachTerms(ctx, []*models.Brand{b})
}

// FindByUserID returns the brands a user has been assigned to.
func (r *PostgresRepository) FindByUserID(ctx context.Context, userID int64) ([]*models.Brand, error) {
	query := `SELECT ` + columns + `
		FROM brands b
		JOIN brands_user bu ON bu.brand_id = b.id
		WHERE bu.user_id = $1
		ORDER BY b.name`
	list, err := dbx.QueryAll[models.Brand](ctx, r.db, query, userID)
	if err != nil {
		return nil, err
	}
	return list, r.attachTerms(ctx, list)
}

// Create inserts a brand; an empty status defaults to active.
func (r *PostgresRepository) Create(ctx context.Context, b *models.Brand) (*models.Brand, error) {
	status := b.Status
	if status == "" {
		status = models.StatusActive
	}
	query := `
		INSERT INTO brands AS b (name, display_name, url, description, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + columns
	created, err := dbx.QueryOne[models.Brand](ctx, r.db, query, b.Name, b.DisplayName, b.URL, b.Description, status)
	if err != nil {
		return nil, err
	}
	created.TrademarkTerms = []*models.TrademarkTerm{}
	return created, nil
}

func (r *PostgresRepository) Update(ctx context.Context, b *models.Brand) (*models.Brand, error) {
	query := `
		UPDATE brands AS b
		SET name = $1, display_name = $2, url = $3, description = $4, status = $5, updated_at = now()
		WHERE b.id = $6
		RETURNING ` + columns
	updated, err := dbx.QueryOne[models.Brand](ctx, r.db, query, b.Name, b.DisplayName, b.URL, b.Description, b.Status, b.ID)
	if err != nil {
		return nil, err
	}
	return updated, r.attachTerms(ctx, []*models.Brand{updated})
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	return dbx.ExecOne(ctx, r.db, `DELETE FROM brands WHERE id = $1`, id)
}

func (r *PostgresRepository) CountActive(ctx context.Context) (int64, error) {
	return dbx.Count(ctx, r.db, `SELECT COUNT(*) FROM brands WHERE status = 'active'`)
}

// AddUsers links users to a brand; existing links are left as they are.
func (r *PostgresRepository) AddUsers(ctx context.Context, brandID int64, userIDs []int64) error {
	if len(userIDs) == 0 {
		return nil
	}
	query := `INSERT INTO brands_user (brand_id, user_id) VALUES ` + pairValues(len(userIDs)) + ` ON CONFLICT DO NOTHING`
	_, err := r.db.ExecContext(ctx, query, append([]any{brandID}, dbx.Int64Args(userIDs)...)...)
	return dbx.WrapWriteErr(err)
}

func (r *PostgresRepository) RemoveUsers(ctx context.Context, brandID int64, userIDs []int64) error {
	if len(userIDs) == 0 {
		return nil
	}
	query := `DELETE FROM brands_user WHERE brand_id = $1 AND user_id IN (` + dbx.Placeholders(2, len(userIDs)) + `)`
	_, err := dbx.Exec(ctx, r.db, query, append([]any{brandID}, dbx.Int64Args(userIDs)...)...)
	return err
}

func (r *PostgresRepository) ListUsers(ctx context.Context, brandID int64) ([]*models.User, error) {
	query := `SELECT ` + userColumns + `
		FROM users u
		JOIN brands_user bu ON bu.user_id = u.id
		WHERE bu.brand_id = $1
		ORDER BY u.last_name, u.first_name`
	return dbx.QueryAll[models.User](ctx, r.db, query, brandID)
}

func (r *PostgresRepository) AddMarketplaces(ctx context.Context, brandID int64, marketplaceIDs []int64) error {
	if len(marketplaceIDs) == 0 {
		return nil
	}
	query := `INSERT INTO brand_marketplaces (brand_id, marketplace_id) VALUES ` + pairValues(len(marketplaceIDs)) + ` ON CONFLICT DO NOTHING`
	_, err := r.db.ExecContext(ctx, query, append([]any{brandID}, dbx.Int64Args(marketplaceIDs)...)...)
	return dbx.WrapWriteErr(err)
}

func (r *PostgresRepository) RemoveMarketplaces(ctx context.Context, brandID int64, marketplaceIDs []int64) error {
	if len(marketplaceIDs) == 0 {
		return nil
	}
	query := `DELETE FROM brand_marketplaces WHERE brand_id = $1 AND marketplace_id IN (` + dbx.Placeholders(2, len(marketplaceIDs)) + `)`
	_, err := dbx.Exec(ctx, r.db, query, append([]any{brandID}, dbx.Int64Args(marketplaceIDs)...)...)
	return err
}

func (r *PostgresRepository) ListMarketplaces(ctx context.Context, brandID int64) ([]*models.BrandMarketplace, error) {
	query := `SELECT ` + marketColumns + `
		FROM marketplaces m
		JOIN brand_marketplaces bm ON bm.marketplace_id = m.id
		WHERE bm.brand_id = $1
		ORDER BY m.platform_name, m.country_code`
	return dbx.QueryAll[models.BrandMarketplace](ctx, r.db, query, brandID)
}

// SetMarketplaceStatus returns common.ErrorNotFound when the brand is not
// linked to the marketplace.
func (r *PostgresRepository) SetMarketplaceStatus(ctx context.Context, brandID, marketplaceID int64, status models.Status) error {
	query := `UPDATE brand_marketplaces SET status = $1 WHERE brand_id = $2 AND marketplace_id = $3`
	return dbx.ExecOne(ctx, r.db, query, status, brandID, marketplaceID)
}

// --- helpers below ---

// attachTerms loads the trademark terms of all brands in one query.
func (r *PostgresRepository) attachTerms(ctx context.Context, list []*models.Brand) error {
	if len(list) == 0 {
		return nil
	}
	byID := make(map[int64]*models.Brand, len(list))
	ids := make([]int64, 0, len(list))
	for _, b := range list {
		b.TrademarkTerms = []*models.TrademarkTerm{}
		byID[b.ID] = b
		ids = append(ids, b.ID)
	}

	query := `SELECT ` + termColumns + `
		FROM brand_tmterms t
		JOIN brands b ON b.id = t.brand_id
		WHERE t.brand_id IN (` + dbx.Placeholders(1, len(ids)) + `)
		ORDER BY t.term`
	terms, err := dbx.QueryAll[models.TrademarkTerm](ctx, r.db, query, dbx.Int64Args(ids)...)
	if err != nil {
		return err
	}
	for _, t := range terms {
		if b, ok := byID[t.BrandID]; ok {
			b.TrademarkTerms = append(b.TrademarkTerms, t)
		}
	}
	return nil
}

// pairValues renders "($1, $2), ($1, $3), ..." for n rows sharing $1.
func pairValues(n int) string {
	rows := make([]string, n)
	for i := range rows {
		rows[i] = "($1, $" + strconv.Itoa(i+2) + ")"
	}
	return strings.Join(rows, ", ")
}
