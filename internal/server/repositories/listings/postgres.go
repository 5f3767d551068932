package listings

import (
	"context"
	"strconv"
	"strings"

	"github.com/janusipm/brandvigilante/internal/dbx"
	"github.com/janusipm/brandvigilante/internal/server/models"
)

const (
	columns = `l.id, l.url, l.product_id, l.marketplace_id, l.external_id, l.seller_id, l.created_at, l.updated_at`

	selectDetail = `
	SELECT ` + columns + `,
		p.title, p.upc, p.ean,
		m.platform_name, m.country_code,
		s.seller_name, s.seller_url, COALESCE(bb.is_buybox_winner, false)
	FROM listings l
	JOIN products p ON p.id = l.product_id
	JOIN marketplaces m ON m.id = l.marketplace_id
	LEFT JOIN LATERAL (
		SELECT sl.seller_id, sl.is_buybox_winner
		FROM seller_listings sl
		WHERE sl.listing_id = l.id AND sl.is_buybox_winner
		ORDER BY sl.updated_at DESC
		LIMIT 1
	) bb ON true
	LEFT JOIN sellers s ON s.id = bb.seller_id`
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// List pages through listings newest first. Search matches the product
// title, UPC or EAN.
func (r *PostgresRepository) List(ctx context.Context, filter models.ListingFilter) (*models.Page[models.ListingDetail], error) {
	page, perPage, offset := models.NormalizePage(filter.Page, filter.PerPage)

	where := make([]string, 0, 3)
	args := make([]any, 0, 5)
	if s := strings.TrimSpace(filter.Search); s != "" {
		args = append(args, "%"+s+"%")
		n := "$" + strconv.Itoa(len(args))
		where = append(where, "(p.title ILIKE "+n+" OR p.upc ILIKE "+n+" OR p.ean ILIKE "+n+")")
	}
	if filter.MarketplaceID > 0 {
		args = append(args, filter.MarketplaceID)
		where = append(where, "l.marketplace_id = $"+strconv.Itoa(len(args)))
	}
	if filter.ProductID > 0 {
		args = append(args, filter.ProductID)
		where = append(where, "l.product_id = $"+strconv.Itoa(len(args)))
	}

	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	total, err := dbx.Count(ctx, r.db,
		`SELECT COUNT(*) FROM listings l JOIN products p ON p.id = l.product_id`+clause, args...)
	if err != nil {
		return nil, err
	}

	listArgs := append(append([]any{}, args...), perPage, offset)
	query := selectDetail + clause +
		` ORDER BY l.created_at DESC, l.id DESC LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)

	items, err := dbx.QueryAll[models.ListingDetail](ctx, r.db, query, listArgs...)
	if err != nil {
		return nil, err
	}

	listings := make([]*models.Listing, len(items))
	for i, it := range items {
		listings[i] = &it.Listing
	}
	if err := r.attachTermIDs(ctx, listings); err != nil {
		return nil, err
	}
	return models.NewPage(items, total, page, perPage), nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, id int64) (*models.ListingDetail, error) {
	d, err := dbx.QueryOne[models.ListingDetail](ctx, r.db, selectDetail+` WHERE l.id = $1`, id)
	if err != nil {
		return nil, err
	}
	return d, r.attachTermIDs(ctx, []*models.Listing{&d.Listing})
}

func (r *PostgresRepository) FindByProductID(ctx context.Context, productID int64) ([]*models.Listing, error) {
	return r.findWhere(ctx, `l.product_id = $1`, productID)
}

func (r *PostgresRepository) FindByMarketplaceID(ctx context.Context, marketplaceID int64) ([]*models.Listing, error) {
	return r.findWhere(ctx, `l.marketplace_id = $1`, marketplaceID)
}

func (r *PostgresRepository) FindBySellerID(ctx context.Context, sellerID int64) ([]*models.Listing, error) {
	return r.findWhere(ctx, `l.seller_id = $1`, sellerID)
}

func (r *PostgresRepository) FindByTermID(ctx context.Context, termID int64) ([]*models.Listing, error) {
	return r.findWhere(ctx,
		`l.id IN (SELECT listing_id FROM listing_brand_tmterms WHERE brand_tmterm_id = $1)`, termID)
}

// Create inserts the listing and links it to l.BrandTmtermIDs.
func (r *PostgresRepository) Create(ctx context.Context, l *models.Listing) (*models.Listing, error) {
	query := `
		INSERT INTO listings AS l (url, product_id, marketplace_id, external_id, seller_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + columns
	created, err := dbx.QueryOne[models.Listing](ctx, r.db, query,
		l.URL, l.ProductID, l.MarketplaceID, l.ExternalID, l.SellerID)
	if err != nil {
		return nil, err
	}

	if err := r.linkTerms(ctx, created.ID, l.BrandTmtermIDs); err != nil {
		return nil, err
	}
	created.BrandTmtermIDs = dedupe(l.BrandTmtermIDs)
	return created, nil
}

// Update applies the non-nil fields of upd. Term links are replaced only
// when upd.BrandTmtermIDs is non-nil.
func (r *PostgresRepository) Update(ctx context.Context, id int64, upd models.ListingUpdate) (*models.Listing, error) {
	sets := make([]string, 0, 5)
	args := make([]any, 0, 6)
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, col+" = $"+strconv.Itoa(len(args)))
	}

	if upd.URL != nil {
		add("url", *upd.URL)
	}
	if upd.ProductID != nil {
		add("product_id", *upd.ProductID)
	}
	if upd.MarketplaceID != nil {
		add("marketplace_id", *upd.MarketplaceID)
	}
	if upd.ExternalID != nil {
		add("external_id", *upd.ExternalID)
	}
	if upd.SellerID != nil {
		add("seller_id", *upd.SellerID)
	}

	var (
		updated *models.Listing
		err     error
	)
	if len(sets) == 0 {
		updated, err = dbx.QueryOne[models.Listing](ctx, r.db, `SELECT `+columns+` FROM listings l WHERE l.id = $1`, id)
	} else {
		args = append(args, id)
		query := `UPDATE listings AS l SET ` + strings.Join(sets, ", ") + `, updated_at = now()
			WHERE l.id = $` + strconv.Itoa(len(args)) + `
			RETURNING ` + columns
		updated, err = dbx.QueryOne[models.Listing](ctx, r.db, query, args...)
	}
	if err != nil {
		return nil, err
	}

	if upd.BrandTmtermIDs == nil {
		return updated, r.attachTermIDs(ctx, []*models.Listing{updated})
	}

	if _, err := dbx.Exec(ctx, r.db, `DELETE FROM listing_brand_tmterms WHERE listing_id = $1`, id); err != nil {
		return nil, err
	}
	if err := r.linkTerms(ctx, id, upd.BrandTmtermIDs); err != nil {
		return nil, err
	}
	updated.BrandTmtermIDs = dedupe(upd.BrandTmtermIDs)
	return updated, nil
}

// Delete removes the term links first, then the listing.
func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	if _, err := dbx.Exec(ctx, r.db, `DELETE FROM listing_brand_tmterms WHERE listing_id = $1`, id); err != nil {
		return err
	}
	return dbx.ExecOne(ctx, r.db, `DELETE FROM listings WHERE id = $1`, id)
}

func (r *PostgresRepository) Count(ctx context.Context) (int64, error) {
	return dbx.Count(ctx, r.db, `SELECT COUNT(*) FROM listings`)
}

// --- helpers below ---

type termLink struct {
	ListingID int64
	TermID    int64
}

func (t *termLink) ScanTargets() []any { return []any{&t.ListingID, &t.TermID} }

func (r *PostgresRepository) findWhere(ctx context.Context, cond string, arg any) ([]*models.Listing, error) {
	query := `SELECT ` + columns + ` FROM listings l WHERE ` + cond + ` ORDER BY l.created_at DESC, l.id DESC`
	list, err := dbx.QueryAll[models.Listing](ctx, r.db, query, arg)
	if err != nil {
		return nil, err
	}
	return list, r.attachTermIDs(ctx, list)
}

func (r *PostgresRepository) attachTermIDs(ctx context.Context, list []*models.Listing) error {
	if len(list) == 0 {
		return nil
	}
	byID := make(map[int64]*models.Listing, len(list))
	ids := make([]int64, 0, len(list))
	for _, l := range list {
		l.BrandTmtermIDs = []int64{}
		byID[l.ID] = l
		ids = append(ids, l.ID)
	}

	query := `SELECT listing_id, brand_tmterm_id FROM listing_brand_tmterms
		WHERE listing_id IN (` + dbx.Placeholders(1, len(ids)) + `)
		ORDER BY listing_id, brand_tmterm_id`
	links, err := dbx.QueryAll[termLink](ctx, r.db, query, dbx.Int64Args(ids)...)
	if err != nil {
		return err
	}
	for _, link := range links {
		if l, ok := byID[link.ListingID]; ok {
			l.BrandTmtermIDs = append(l.BrandTmtermIDs, link.TermID)
		}
	}
	return nil
}

func (r *PostgresRepository) linkTerms(ctx context.Context, listingID int64, termIDs []int64) error {
	termIDs = dedupe(termIDs)
	if len(termIDs) == 0 {
		return nil
	}
	rows := make([]string, len(termIDs))
	for i := range termIDs {
		rows[i] = "($1, $" + strconv.Itoa(i+2) + ")"
	}
	query := `INSERT INTO listing_brand_tmterms (listing_id, brand_tmterm_id) VALUES ` + strings.Join(rows, ", ")
	_, err := r.db.ExecContext(ctx, query, append([]any{listingID}, dbx.Int64Args(termIDs)...)...)
	return dbx.WrapWriteErr(err)
}

func dedupe(ids []int64) []int64 {
	out := make([]int64, 0, len(ids))
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
