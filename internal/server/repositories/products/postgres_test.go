package products

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janusipm/brandvigilante/internal/common"
	"github.com/janusipm/brandvigilante/internal/server/models"
)

var cols = []string{"id", "title", "upc", "ean", "created_at", "updated_at"}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock
}

func TestFindByUPC(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()

	mock.ExpectQuery(`WHERE\s+upc\s*=\s*\$1\s+ORDER\s+BY\s+id\s+LIMIT\s+1`).
		WithArgs("012345678905").
		WillReturnRows(sqlmock.NewRows(cols).AddRow(int64(1), "Widget", "012345678905", nil, now, now))

	p, err := repo.FindByUPC(context.Background(), "012345678905")
	require.NoError(t, err)
	assert.Equal(t, "Widget", p.Title)
	assert.Nil(t, p.EAN)
}

func TestFindByEAN_NotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectQuery(`WHERE\s+ean\s*=\s*\$1`).WithArgs("4006381333931").WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByEAN(context.Background(), "4006381333931")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestList_Search(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT\s+COUNT\(\*\)\s+FROM\s+products\s+WHERE\s+title\s+ILIKE\s+\$1`).
		WithArgs("%wid%").
		WillReturnRows(sqlmock.NewRows([]string{"c"}).AddRow(1))
	mock.ExpectQuery(`LIMIT\s+\$2\s+OFFSET\s+\$3`).
		WithArgs("%wid%", 10, 0).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(int64(1), "Widget", nil, nil, now, now))

	page, err := repo.List(context.Background(), models.CatalogFilter{Search: "wid"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)
	require.Len(t, page.Items, 1)
}

func TestUpdate_NoFieldsReturnsCurrent(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()

	mock.ExpectQuery(`FROM\s+products\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(int64(1), "Widget", nil, nil, now, now))

	p, err := repo.Update(context.Background(), 1, models.ProductUpdate{})
	require.NoError(t, err)
	assert.Equal(t, "Widget", p.Title)
	require.NoError(t, mock.ExpectationsWereMet())
}
