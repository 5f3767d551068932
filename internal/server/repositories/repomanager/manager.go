package repomanager

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

// RepositoryManager hands out repositories bound to a DB or a Tx, so a
// service can run several of them inside one dbx.WithTx.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error

	Users(db dbx.DBTX) users.Repository
	Sessions(db dbx.DBTX) sessions.Repository
	ResetTokens(db dbx.DBTX) resettokens.Repository
	VerificationTokens(db dbx.DBTX) verificationtokens.Repository

	Brands(db dbx.DBTX) brands.Repository
	Terms(db dbx.DBTX) tmterms.Repository
	Marketplaces(db dbx.DBTX) marketplaces.Repository
	Listings(db dbx.DBTX) listings.Repository

	Sellers(db dbx.DBTX) sellers.Repository
	SellerListings(db dbx.DBTX) sellerlistings.Repository
	Products(db dbx.DBTX) products.Repository
	Keywords(db dbx.DBTX) keywords.Repository
	ActivityLogs(db dbx.DBTX) activitylogs.Repository
}
