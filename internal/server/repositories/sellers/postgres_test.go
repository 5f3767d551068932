package sellers

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janusipm/brandvigilante/internal/common"
	"github.com/janusipm/brandvigilante/internal/server/models"
)

var cols = []string{"id", "external_seller_id", "seller_name", "seller_url", "created_at", "updated_at"}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock
}

func TestFindByExternalID(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()

	mock.ExpectQuery(`FROM\s+sellers\s+WHERE\s+external_seller_id\s*=\s*\$1`).
		WithArgs("A1B2C3").
		WillReturnRows(sqlmock.NewRows(cols).AddRow(int64(1), "A1B2C3", "Knockoffs Ltd", nil, now, now))

	s, err := repo.FindByExternalID(context.Background(), "A1B2C3")
	require.NoError(t, err)
	assert.Equal(t, "Knockoffs Ltd", s.SellerName)
}

func TestList_NoSearch(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`SELECT\s+COUNT\(\*\)\s+FROM\s+sellers$`).WillReturnRows(sqlmock.NewRows([]string{"c"}).AddRow(0))
	mock.ExpectQuery(`ORDER\s+BY\s+seller_name\s+LIMIT\s+\$1\s+OFFSET\s+\$2`).
		WithArgs(100, 0).
		WillReturnRows(sqlmock.NewRows(cols))

	page, err := repo.List(context.Background(), models.CatalogFilter{PerPage: 500})
	require.NoError(t, err)
	assert.Equal(t, 100, page.PerPage)
	assert.Empty(t, page.Items)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_DuplicateExternalID(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`INSERT\s+INTO\s+sellers`).
		WithArgs("A1B2C3", "Knockoffs", nil).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := repo.Create(context.Background(), &models.Seller{ExternalSellerID: "A1B2C3", SellerName: "Knockoffs"})
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestUpdate_Partial(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()
	name := "Renamed"

	mock.ExpectQuery(`(?s)UPDATE\s+sellers\s+SET\s+seller_name\s*=\s*\$1,\s*updated_at\s*=\s*now\(\)\s+WHERE\s+id\s*=\s*\$2`).
		WithArgs(name, int64(1)).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(int64(1), "A1B2C3", name, nil, now, now))

	s, err := repo.Update(context.Background(), 1, models.SellerUpdate{SellerName: &name})
	require.NoError(t, err)
	assert.Equal(t, name, s.SellerName)
}
