package models

import "time"

type Seller struct {
	ID               int64     `json:"id"`
	ExternalSellerID string    `json:"external_seller_id"`
	SellerName       string    `json:"seller_name"`
	SellerURL        *string   `json:"seller_url"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (s *Seller) ScanTargets() []any {
	return []any{&s.ID, &s.ExternalSellerID, &s.SellerName, &s.SellerURL, &s.CreatedAt, &s.UpdatedAt}
}

type SellerUpdate struct {
	ExternalSellerID *string
	SellerName       *string
	SellerURL        *string
}

type SellerListing struct {
	ID             int64     `json:"id"`
	SellerID       int64     `json:"seller_id"`
	ListingID      int64     `json:"listing_id"`
	IsBuyboxWinner bool      `json:"is_buybox_winner"`
	KeywordID      *int64    `json:"keyword_id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (s *SellerListing) ScanTargets() []any {
	return []any{&s.ID, &s.SellerID, &s.ListingID, &s.IsBuyboxWinner, &s.KeywordID, &s.CreatedAt, &s.UpdatedAt}
}

type Product struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	UPC       *string   `json:"upc"`
	EAN       *string   `json:"ean"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Product) ScanTargets() []any {
	return []any{&p.ID, &p.Title, &p.UPC, &p.EAN, &p.CreatedAt, &p.UpdatedAt}
}

type ProductUpdate struct {
	Title *string
	UPC   *string
	EAN   *string
}

type Keyword struct {
	ID          int64     `json:"id"`
	KeywordText string    `json:"keyword_text"`
	BrandID     *int64    `json:"brand_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (k *Keyword) ScanTargets() []any {
	return []any{&k.ID, &k.KeywordText, &k.BrandID, &k.CreatedAt, &k.UpdatedAt}
}

// CatalogFilter pages through sellers or products with an optional
// free-text search.
type CatalogFilter struct {
	Page    int
	PerPage int
	Search  string
}
