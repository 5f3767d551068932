// Package repotest provides in-memory repositories for tests of the layers
// above the database: session handling, services and HTTP handlers.
package repotest

import (
	"context"
	"database/sql"

	"github.com/janusipm/brandvigilante/internal/dbx"
	"github.com/janusipm/brandvigilante/internal/server/repositories/activitylogs"
	"github.com/janusipm/brandvigilante/internal/server/repositories/brands"
	"github.com/janusipm/brandvigilante/internal/server/repositories/keywords"
	"github.com/janusipm/brandvigilante/internal/server/repositories/listings"
	"github.com/janusipm/brandvigilante/internal/server/repositories/marketplaces"
	"github.com/janusipm/brandvigilante/internal/server/repositories/products"
	"github.com/janusipm/brandvigilante/internal/server/repositories/resettokens"
	"github.com/janusipm/brandvigilante/internal/server/repositories/sellerlistings"
	"github.com/janusipm/brandvigilante/internal/server/repositories/sellers"
	"github.com/janusipm/brandvigilante/internal/server/repositories/sessions"
	"github.com/janusipm/brandvigilante/internal/server/repositories/tmterms"
	"github.com/janusipm/brandvigilante/internal/server/repositories/users"
	"github.com/janusipm/brandvigilante/internal/server/repositories/verificationtokens"
)

// Manager implements repomanager.RepositoryManager. Every DBTX argument is
// ignored; the in-memory repositories are shared by all callers.
//
// Repositories without an in-memory version are nil unless a test assigns
// a fake to the matching field.
type Manager struct {
	UsersRepo              *Users
	SessionsRepo           *Sessions
	ResetTokensRepo        *ResetTokens
	VerificationTokensRepo *VerificationTokens
	BrandsRepo             *Brands
	TermsRepo              *Terms
	MarketplacesRepo       *Marketplaces
	ActivityLogsRepo       *ActivityLogs

	ListingsRepo       listings.Repository
	SellersRepo        sellers.Repository
	SellerListingsRepo sellerlistings.Repository
	ProductsRepo       products.Repository
	KeywordsRepo       keywords.Repository

	MigrateErr error
}

func NewManager() *Manager {
	brandsRepo := NewBrands()
	return &Manager{
		UsersRepo:              NewUsers(),
		SessionsRepo:           NewSessions(),
		ResetTokensRepo:        NewResetTokens(),
		VerificationTokensRepo: NewVerificationTokens(),
		BrandsRepo:             brandsRepo,
		TermsRepo:              NewTerms(brandsRepo),
		MarketplacesRepo:       NewMarketplaces(),
		ActivityLogsRepo:       NewActivityLogs(),
	}
}

func (m *Manager) RunMigrations(context.Context, *sql.DB) error { return m.MigrateErr }

func (m *Manager) Users(dbx.DBTX) users.Repository                   { return m.UsersRepo }
func (m *Manager) Sessions(dbx.DBTX) sessions.Repository             { return m.SessionsRepo }
func (m *Manager) ResetTokens(dbx.DBTX) resettokens.Repository       { return m.ResetTokensRepo }
func (m *Manager) Brands(dbx.DBTX) brands.Repository                 { return m.BrandsRepo }
func (m *Manager) Terms(dbx.DBTX) tmterms.Repository                 { return m.TermsRepo }
func (m *Manager) Marketplaces(dbx.DBTX) marketplaces.Repository     { return m.MarketplacesRepo }
func (m *Manager) ActivityLogs(dbx.DBTX) activitylogs.Repository     { return m.ActivityLogsRepo }
func (m *Manager) Listings(dbx.DBTX) listings.Repository             { return m.ListingsRepo }
func (m *Manager) Sellers(dbx.DBTX) sellers.Repository               { return m.SellersRepo }
func (m *Manager) SellerListings(dbx.DBTX) sellerlistings.Repository { return m.SellerListingsRepo }
func (m *Manager) Products(dbx.DBTX) products.Repository             { return m.ProductsRepo }
func (m *Manager) Keywords(dbx.DBTX) keywords.Repository             { return m.KeywordsRepo }

func (m *Manager) VerificationTokens(dbx.DBTX) verificationtokens.Repository {
	return m.VerificationTokensRepo
}
