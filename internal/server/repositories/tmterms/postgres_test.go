package tmterms

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janusipm/brandvigilante/internal/common"
)

var termCols = []string{"id", "brand_id", "term", "created_at", "updated_at", "name"}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock
}

func TestFindAll_IncludesBrandName(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()

	mock.ExpectQuery(`(?s)FROM\s+brand_tmterms\s+t\s+JOIN\s+brands\s+b.*ORDER\s+BY\s+b\.name,\s*t\.term`).
		WillReturnRows(sqlmock.NewRows(termCols).AddRow(int64(1), int64(2), "ACME", now, now, "Acme"))

	list, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Acme", list[0].BrandName)
}

func TestCreate_ReloadsWithBrandName(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()

	mock.ExpectQuery(`INSERT\s+INTO\s+brand_tmterms\s*\(brand_id,\s*term\)`).
		WithArgs(int64(2), "ACME").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))
	mock.ExpectQuery(`WHERE\s+t\.id\s*=\s*\$1`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(termCols).AddRow(int64(7), int64(2), "ACME", now, now, "Acme"))

	term, err := repo.Create(context.Background(), 2, "ACME")
	require.NoError(t, err)
	assert.Equal(t, int64(7), term.ID)
	assert.Equal(t, "Acme", term.BrandName)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_Duplicate(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`INSERT\s+INTO\s+brand_tmterms`).
		WithArgs(int64(2), "ACME").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := repo.Create(context.Background(), 2, "ACME")
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestUpdate_NotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(`UPDATE\s+brand_tmterms\s+SET\s+brand_id\s*=\s*\$1,\s*term\s*=\s*\$2`).
		WithArgs(int64(2), "NEW", int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := repo.Update(context.Background(), 5, 2, "NEW")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestExists(t *testing.T) {
	tests := []struct {
		name  string
		count int
		want  bool
	}{
		{name: "free", count: 0, want: false},
		{name: "taken", count: 1, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newRepoWithMock(t)
			mock.ExpectQuery(`SELECT\s+COUNT\(\*\)\s+FROM\s+brand_tmterms\s+WHERE\s+brand_id\s*=\s*\$1\s+AND\s+term\s*=\s*\$2\s+AND\s+id\s*<>\s*\$3`).
				WithArgs(int64(2), "ACME", int64(0)).
				WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(tt.count))

			got, err := repo.Exists(context.Background(), 2, "ACME", 0)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExists_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectQuery(`SELECT\s+COUNT`).WillReturnError(errors.New("boom"))

	_, err := repo.Exists(context.Background(), 2, "ACME", 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db error")
}

func TestDelete(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectExec(`DELETE\s+FROM\s+brand_tmterms\s+WHERE\s+id`).WithArgs(int64(5)).WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), 5))
}
