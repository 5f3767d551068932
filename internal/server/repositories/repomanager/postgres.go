// Package repomanager provides a concrete RepositoryManager for PostgreSQL,
// wiring together repository constructors and database migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/janusipm/brandvigilante/internal/dbx"
	"github.com/janusipm/brandvigilante/internal/server/migrations"
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

// PostgresRepositoryManager vends PostgreSQL-backed repository implementations
// and exposes a schema migration hook.
type PostgresRepositoryManager struct{}

func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Sessions(db dbx.DBTX) sessions.Repository {
	return sessions.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) ResetTokens(db dbx.DBTX) resettokens.Repository {
	return resettokens.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) VerificationTokens(db dbx.DBTX) verificationtokens.Repository {
	return verificationtokens.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Brands(db dbx.DBTX) brands.Repository {
	return brands.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Terms(db dbx.DBTX) tmterms.Repository {
	return tmterms.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Marketplaces(db dbx.DBTX) marketplaces.Repository {
	return marketplaces.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Listings(db dbx.DBTX) listings.Repository {
	return listings.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Sellers(db dbx.DBTX) sellers.Repository {
	return sellers.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) SellerListings(db dbx.DBTX) sellerlistings.Repository {
	return sellerlistings.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Products(db dbx.DBTX) products.Repository {
	return products.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Keywords(db dbx.DBTX) keywords.Repository {
	return keywords.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) ActivityLogs(db dbx.DBTX) activitylogs.Repository {
	return activitylogs.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the provided database connection.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, ".")
}

func NewPostgresRepositoryManager() *PostgresRepositoryManager {
	return &PostgresRepositoryManager{}
}
