package dbx

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/janusipm/brandvigilante/internal/common"
)

// Record is implemented by models that can describe their own scan
// destinations. The order of ScanTargets must match the SELECT column list
// the repository uses for that model.
type Record interface {
	ScanTargets() []any
}

// recordPtr constrains PT to be *T and a Record, so callers can write
// QueryAll[models.Brand](...) and get []*models.Brand back.
type recordPtr[T any] interface {
	*T
	Record
}

// QueryAll runs query and maps every row into a fresh *T.
func QueryAll[T any, PT recordPtr[T]](ctx context.Context, db DBTX, query string, args ...any) ([]*T, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := make([]*T, 0)
	for rows.Next() {
		item := new(T)
		if err := rows.Scan(PT(item).ScanTargets()...); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

// QueryOne maps a single row into a *T. sql.ErrNoRows becomes
// common.ErrorNotFound.
func QueryOne[T any, PT recordPtr[T]](ctx context.Context, db DBTX, query string, args ...any) (*T, error) {
	item := new(T)
	err := db.QueryRowContext(ctx, query, args...).Scan(PT(item).ScanTargets()...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return item, nil
}

// QueryInt64s collects a single int64 column.
func QueryInt64s(ctx context.Context, db DBTX, query string, args ...any) ([]int64, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := make([]int64, 0)
	for rows.Next() {
		var v int64
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

// Count runs a SELECT COUNT(*) style query.
func Count(ctx context.Context, db DBTX, query string, args ...any) (int64, error) {
	var n int64
	if err := db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

// Placeholders returns "$start, $start+1, ..." with n entries.
func Placeholders(start, n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = "$" + strconv.Itoa(start+i)
	}
	return strings.Join(parts, ", ")
}

// Int64Args converts ids to a variadic argument list.
func Int64Args(ids []int64) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}

// ExecOne runs a statement expected to touch at least one row. Zero affected
// rows yields common.ErrorNotFound.
func ExecOne(ctx context.Context, db DBTX, query string, args ...any) error {
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// Exec runs a statement and returns the number of affected rows.
func Exec(ctx context.Context, db DBTX, query string, args ...any) (int64, error) {
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
