package models

import "time"

type Listing struct {
	ID             int64     `json:"id"`
	URL            string    `json:"url"`
	ProductID      int64     `json:"product_id"`
	MarketplaceID  int64     `json:"marketplace_id"`
	ExternalID     *string   `json:"external_id"`
	SellerID       *int64    `json:"seller_id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	BrandTmtermIDs []int64   `json:"brand_tmterm_ids"`
}

func (l *Listing) ScanTargets() []any {
	return []any{&l.ID, &l.URL, &l.ProductID, &l.MarketplaceID, &l.ExternalID, &l.SellerID, &l.CreatedAt, &l.UpdatedAt}
}

// ListingDetail is a listing joined with its product, marketplace and the
// buybox-winning seller, as shown on the listings page.
type ListingDetail struct {
	Listing
	ProductTitle       string  `json:"product_title"`
	ProductUPC         *string `json:"product_upc"`
	ProductEAN         *string `json:"product_ean"`
	MarketplaceName    string  `json:"marketplace_name"`
	MarketplaceCountry string  `json:"marketplace_country"`
	SellerName         *string `json:"seller_name"`
	SellerURL          *string `json:"seller_url"`
	IsBuyboxWinner     bool    `json:"is_buybox_winner"`
}

func (d *ListingDetail) ScanTargets() []any {
	return append(d.Listing.ScanTargets(),
		&d.ProductTitle, &d.ProductUPC, &d.ProductEAN,
		&d.MarketplaceName, &d.MarketplaceCountry,
		&d.SellerName, &d.SellerURL, &d.IsBuyboxWinner,
	)
}

type ListingFilter struct {
	Page          int
	PerPage       int
	Search        string
	MarketplaceID int64
	ProductID     int64
}

// ListingUpdate replaces fields wholesale; BrandTmtermIDs nil keeps the
// existing term links, non-nil (even empty) replaces them.
type ListingUpdate struct {
	URL            *string
	ProductID      *int64
	MarketplaceID  *int64
	ExternalID     *string
	SellerID       *int64
	BrandTmtermIDs []int64
}
