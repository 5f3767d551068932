package models

import "time"

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

func (s Status) Valid() bool { return s == StatusActive || s == StatusInactive }

type Brand struct {
	ID             int64            `json:"id"`
	Name           string           `json:"name"`
	DisplayName    *string          `json:"display_name"`
	URL            *string          `json:"url"`
	Description    *string          `json:"description"`
	Status         Status           `json:"status"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
	TrademarkTerms []*TrademarkTerm `json:"trademark_terms"`
}

func (b *Brand) ScanTargets() []any {
	return []any{&b.ID, &b.Name, &b.DisplayName, &b.URL, &b.Description, &b.Status, &b.CreatedAt, &b.UpdatedAt}
}

// BrandMarketplace is a marketplace as seen through a brand link, with the
// link's own status.
type BrandMarketplace struct {
	Marketplace
	LinkStatus Status `json:"link_status"`
}

func (m *BrandMarketplace) ScanTargets() []any {
	return append(m.Marketplace.ScanTargets(), &m.LinkStatus)
}

type TrademarkTerm struct {
	ID        int64     `json:"id"`
	BrandID   int64     `json:"brand_id"`
	Term      string    `json:"term"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	BrandName string    `json:"brand_name,omitempty"`
}

func (t *TrademarkTerm) ScanTargets() []any {
	return []any{&t.ID, &t.BrandID, &t.Term, &t.CreatedAt, &t.UpdatedAt, &t.BrandName}
}

type Marketplace struct {
	ID           int64     `json:"id"`
	PlatformName string    `json:"platform_name"`
	CountryCode  string    `json:"country_code"`
	CurrencyCode string    `json:"currency_code"`
	ExternalID   *string   `json:"external_id"`
	BaseURL      *string   `json:"base_url"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (m *Marketplace) ScanTargets() []any {
	return []any{&m.ID, &m.PlatformName, &m.CountryCode, &m.CurrencyCode, &m.ExternalID, &m.BaseURL, &m.CreatedAt, &m.UpdatedAt}
}
