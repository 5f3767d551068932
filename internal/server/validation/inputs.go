package validation

import (
	"strings"

	"github.com/janusipm/brandvigilante/internal/server/models"
)

func normEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func trimPtr(p *string) *string {
	if p == nil {
		return nil
	}
	s := strings.TrimSpace(*p)
	if s == "" {
		return nil
	}
	return &s
}

type SignUpInput struct {
	FirstName string `json:"first_name" form:"first_name" validate:"required,max=50"`
	LastName  string `json:"last_name" form:"last_name" validate:"required,max=50"`
	Email     string `json:"email" form:"email" validate:"required,email"`
	Phone     string `json:"phone" form:"phone" validate:"required,min=10" label:"Phone number" msg_min:"Phone number must have at least 10 digits"`
	Password  string `json:"password" form:"password" validate:"required,strongpw"`
}

func (in *SignUpInput) Normalize() {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = normEmail(in.Email)
	in.Phone = DigitsOnly(in.Phone)
}

type SignInInput struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
}

func (in *SignInInput) Normalize() { in.Email = normEmail(in.Email) }

type ForgotPasswordInput struct {
	Email string `json:"email" form:"email" validate:"required,email"`
}

func (in *ForgotPasswordInput) Normalize() { in.Email = normEmail(in.Email) }

type ResetPasswordInput struct {
	Token           string `json:"token" form:"token" validate:"required" label:"Reset token"`
	Password        string `json:"password" form:"password" validate:"required,resetpw"`
	ConfirmPassword string `json:"confirmPassword" form:"confirmPassword" validate:"eqfield=Password" msg_eqfield:"Passwords don't match"`
}

type NewUserInput struct {
	FirstName string      `json:"first_name" form:"first_name" validate:"required,max=50"`
	LastName  string      `json:"last_name" form:"last_name" validate:"required,max=50"`
	Email     string      `json:"email" form:"email" validate:"required,email"`
	Password  string      `json:"password" form:"password" validate:"required,min=8"`
	Phone     string      `json:"phone" form:"phone" validate:"required,min=10" label:"Phone number" msg_min:"Phone number must have at least 10 digits"`
	Role      models.Role `json:"role" form:"role" validate:"required,oneof=admin user"`
}

func (in *NewUserInput) Normalize() {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = normEmail(in.Email)
	in.Phone = DigitsOnly(in.Phone)
}

type ProfileInput struct {
	FirstName string `json:"first_name" form:"first_name" validate:"required,max=50"`
	LastName  string `json:"last_name" form:"last_name" validate:"required,max=50"`
	Email     string `json:"email" form:"email" validate:"required,email"`
}

func (in *ProfileInput) Normalize() {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = normEmail(in.Email)
}

type ChangePasswordInput struct {
	CurrentPassword string `json:"current_password" form:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" form:"new_password" validate:"required,min=8" label:"Password"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password" validate:"required,eqfield=NewPassword" msg_eqfield:"Passwords don't match"`
}

type LeadInput struct {
	FirstName string `json:"firstName" form:"firstName" validate:"required,max=50"`
	LastName  string `json:"lastName" form:"lastName" validate:"required,max=50"`
	Email     string `json:"email" form:"email" validate:"required,email"`
	Company   string `json:"company" form:"company" validate:"required,max=200"`
	Phone     string `json:"phone" form:"phone" validate:"max=32"`
}

func (in *LeadInput) Normalize() {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = normEmail(in.Email)
	in.Company = strings.TrimSpace(in.Company)
	in.Phone = strings.TrimSpace(in.Phone)
}

type BrandInput struct {
	Name        string        `json:"name" validate:"required,max=255" label:"Brand name"`
	DisplayName *string       `json:"display_name" validate:"required,max=255"`
	URL         *string       `json:"url" validate:"omitempty,url" label:"URL"`
	Description *string       `json:"description" validate:"omitempty,max=5000"`
	Status      models.Status `json:"status" validate:"omitempty,oneof=active inactive"`
}

func (in *BrandInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.DisplayName = trimPtr(in.DisplayName)
	in.URL = trimPtr(in.URL)
	in.Description = trimPtr(in.Description)
}

// Brand converts the input to a model, defaulting the status to active.
func (in *BrandInput) Brand() *models.Brand {
	status := in.Status
	if status == "" {
		status = models.StatusActive
	}
	return &models.Brand{Name: in.Name, DisplayName: in.DisplayName, URL: in.URL, Description: in.Description, Status: status}
}

type TermInput struct {
	BrandID int64  `json:"brand_id" validate:"required,gt=0" label:"Brand" msg_required:"Brand is required"`
	Term    string `json:"term" validate:"required,max=255"`
}

func (in *TermInput) Normalize() { in.Term = strings.TrimSpace(in.Term) }

type MarketplaceInput struct {
	PlatformName string  `json:"platform_name" validate:"required,max=100"`
	CountryCode  string  `json:"country_code" validate:"required,len=2,alpha"`
	CurrencyCode string  `json:"currency_code" validate:"required,len=3,alpha"`
	ExternalID   *string `json:"external_id" validate:"omitempty,max=255" label:"External ID"`
	BaseURL      *string `json:"base_url" validate:"omitempty,url" label:"Base URL"`
}

func (in *MarketplaceInput) Normalize() {
	in.PlatformName = strings.TrimSpace(in.PlatformName)
	in.CountryCode = strings.ToUpper(strings.TrimSpace(in.CountryCode))
	in.CurrencyCode = strings.ToUpper(strings.TrimSpace(in.CurrencyCode))
	in.ExternalID = trimPtr(in.ExternalID)
	in.BaseURL = trimPtr(in.BaseURL)
}

func (in *MarketplaceInput) Marketplace() *models.Marketplace {
	return &models.Marketplace{
		PlatformName: in.PlatformName,
		CountryCode:  in.CountryCode,
		CurrencyCode: in.CurrencyCode,
		ExternalID:   in.ExternalID,
		BaseURL:      in.BaseURL,
	}
}

type ListingInput struct {
	URL            string  `json:"url" validate:"required,url" label:"URL"`
	ProductID      int64   `json:"product_id" validate:"required,gt=0" label:"Product"`
	MarketplaceID  int64   `json:"marketplace_id" validate:"required,gt=0" label:"Marketplace"`
	ExternalID     *string `json:"external_id" validate:"omitempty,max=255" label:"External ID"`
	SellerID       *int64  `json:"seller_id" validate:"omitempty,gt=0" label:"Seller"`
	BrandTmtermIDs []int64 `json:"brand_tmterm_ids" validate:"omitempty,dive,gt=0" label:"Trademark term"`
}

func (in *ListingInput) Normalize() {
	in.URL = strings.TrimSpace(in.URL)
	in.ExternalID = trimPtr(in.ExternalID)
}

func (in *ListingInput) Listing() *models.Listing {
	return &models.Listing{
		URL:            in.URL,
		ProductID:      in.ProductID,
		MarketplaceID:  in.MarketplaceID,
		ExternalID:     in.ExternalID,
		SellerID:       in.SellerID,
		BrandTmtermIDs: in.BrandTmtermIDs,
	}
}

// ListingPatchInput is a partial listing update. A nil BrandTmtermIDs leaves
// the term links alone; an empty list removes them all.
type ListingPatchInput struct {
	URL            *string `json:"url" validate:"omitempty,url" label:"URL"`
	ProductID      *int64  `json:"product_id" validate:"omitempty,gt=0" label:"Product"`
	MarketplaceID  *int64  `json:"marketplace_id" validate:"omitempty,gt=0" label:"Marketplace"`
	ExternalID     *string `json:"external_id" validate:"omitempty,max=255" label:"External ID"`
	SellerID       *int64  `json:"seller_id" validate:"omitempty,gt=0" label:"Seller"`
	BrandTmtermIDs []int64 `json:"brand_tmterm_ids" validate:"omitempty,dive,gt=0" label:"Trademark term"`
}

func (in *ListingPatchInput) Update() models.ListingUpdate {
	return models.ListingUpdate{
		URL:            in.URL,
		ProductID:      in.ProductID,
		MarketplaceID:  in.MarketplaceID,
		ExternalID:     in.ExternalID,
		SellerID:       in.SellerID,
		BrandTmtermIDs: in.BrandTmtermIDs,
	}
}

type BrandUsersInput struct {
	UserIDs []int64 `json:"userIds" validate:"required,min=1,dive,gt=0" label:"User" msg_required:"Invalid user IDs" msg_min:"Invalid user IDs"`
}

type BrandMarketplacesInput struct {
	MarketplaceIDs []int64 `json:"marketplaceIds" validate:"required,min=1,dive,gt=0" label:"Marketplace" msg_required:"Invalid marketplace IDs" msg_min:"Invalid marketplace IDs"`
}

type StatusInput struct {
	Status models.Status `json:"status" validate:"required,oneof=active inactive"`
}

type SellerInput struct {
	ExternalSellerID string  `json:"external_seller_id" validate:"required,max=255" label:"External seller ID"`
	SellerName       string  `json:"seller_name" validate:"required,max=255"`
	SellerURL        *string `json:"seller_url" validate:"omitempty,url" label:"Seller URL"`
}

func (in *SellerInput) Normalize() {
	in.ExternalSellerID = strings.TrimSpace(in.ExternalSellerID)
	in.SellerName = strings.TrimSpace(in.SellerName)
	in.SellerURL = trimPtr(in.SellerURL)
}

type ProductInput struct {
	Title string  `json:"title" validate:"required,max=500"`
	UPC   *string `json:"upc" validate:"omitempty,numeric,max=14" label:"UPC"`
	EAN   *string `json:"ean" validate:"omitempty,numeric,max=14" label:"EAN"`
}

func (in *ProductInput) Normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.UPC = trimPtr(in.UPC)
	in.EAN = trimPtr(in.EAN)
}

type SellerListingInput struct {
	SellerID       int64  `json:"seller_id" validate:"required,gt=0" label:"Seller"`
	ListingID      int64  `json:"listing_id" validate:"required,gt=0" label:"Listing"`
	IsBuyboxWinner bool   `json:"is_buybox_winner"`
	KeywordID      *int64 `json:"keyword_id" validate:"omitempty,gt=0" label:"Keyword"`
}

type KeywordInput struct {
	KeywordText string `json:"keyword_text" validate:"required,max=255" label:"Keyword"`
	BrandID     *int64 `json:"brand_id" validate:"omitempty,gt=0" label:"Brand"`
}

func (in *KeywordInput) Normalize() { in.KeywordText = strings.TrimSpace(in.KeywordText) }
